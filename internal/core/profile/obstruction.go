package profile

import "github.com/samirrijal/rrlprofile/internal/core/domain"

// CriticalIndex returns the index of the sample with the least clearance60.
// Ties resolve to the first sample along the path. It returns -1 for no samples.
func CriticalIndex(samples []domain.ProfileSample) int {
	if len(samples) == 0 {
		return -1
	}
	idx := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Clearance60 < samples[idx].Clearance60 {
			idx = i
		}
	}
	return idx
}

// CriticalPointOf reports the position of the critical sample.
func CriticalPointOf(s domain.ProfileSample) domain.CriticalPoint {
	return domain.CriticalPoint{DistanceMeters: s.DistanceMeters, Lat: s.Lat, Lon: s.Lon}
}
