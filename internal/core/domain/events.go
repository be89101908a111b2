package domain

import "time"

// ProfileJob is an asynchronous profile computation request.
type ProfileJob struct {
	ID          string         `json:"id"`
	Request     ProfileRequest `json:"request"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// ProfileComputedEvent announces a finished profile. Samples are omitted to keep
// messages small; subscribers that need them re-run the computation.
type ProfileComputedEvent struct {
	RunID             string         `json:"runId"`
	JobID             string         `json:"jobId,omitempty"`
	A                 GeoPoint       `json:"a"`
	B                 GeoPoint       `json:"b"`
	FreqGHz           float64        `json:"freqGHz"`
	Samples           int            `json:"samples"`
	Summary           ProfileSummary `json:"summary"`
	ElevationProvider string         `json:"elevationProvider"`
	ComputedAt        time.Time      `json:"computedAt"`
}

// ProfileFailedEvent announces a job that could not be computed.
type ProfileFailedEvent struct {
	JobID    string    `json:"jobId"`
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	FailedAt time.Time `json:"failedAt"`
}
