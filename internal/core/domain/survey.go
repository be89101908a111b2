package domain

// LinkCandidate is one hop of a survey batch.
type LinkCandidate struct {
	ID      string         `json:"id" yaml:"id"`
	Request ProfileRequest `json:"request" yaml:",inline"`
}

// LinkOutcome is the survey result for a single hop.
type LinkOutcome struct {
	LinkID            string          `json:"linkId"`
	Summary           *ProfileSummary `json:"summary,omitempty"`
	ElevationProvider string          `json:"elevationProvider,omitempty"`
	ErrorCode         ErrorCode       `json:"errorCode,omitempty"`
	ErrorMessage      string          `json:"errorMessage,omitempty"`
}

// SurveyReport aggregates the outcomes of a survey batch.
type SurveyReport struct {
	Name       string        `json:"name"`
	Outcomes   []LinkOutcome `json:"outcomes"`
	Viable     int           `json:"viable"`
	Obstructed int           `json:"obstructed"`
	Failed     int           `json:"failed"`
}

// Tally recomputes the viable, obstructed and failed counters from Outcomes.
func (r *SurveyReport) Tally() {
	r.Viable, r.Obstructed, r.Failed = 0, 0, 0
	for _, o := range r.Outcomes {
		switch {
		case o.Summary == nil:
			r.Failed++
		case o.Summary.Viable():
			r.Viable++
		default:
			r.Obstructed++
		}
	}
}
