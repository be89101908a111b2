package profile

import (
	"math"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/geospatial"
)

// DefaultMaxSamples caps the number of profile points of a single request.
const DefaultMaxSamples = 2000

// Limits bounds the work a single request may cause.
type Limits struct {
	MaxSamples int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxSamples: DefaultMaxSamples}
}

// EstimateSamples returns how many points an inclusive, equally spaced sampling
// of a path of the given length produces.
func EstimateSamples(distanceMeters, stepMeters float64) int {
	segments := math.Ceil(distanceMeters / stepMeters)
	if segments >= math.MaxInt32 {
		return math.MaxInt32
	}
	if segments < 1 {
		segments = 1
	}
	return int(segments) + 1
}

// ValidateRequest checks request fields and the expected sample count. It runs
// before any sampling or elevation lookup.
func ValidateRequest(req domain.ProfileRequest, limits Limits) error {
	if err := validateParameters(req); err != nil {
		return err
	}

	distance := geospatial.Haversine(req.A.Lat, req.A.Lon, req.B.Lat, req.B.Lon)
	if distance == 0 {
		return domain.ValidationError("degenerate path: A and B are the same location")
	}

	maxSamples := limits.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if n := EstimateSamples(distance, req.StepMeters); n > maxSamples {
		return domain.ValidationError("too many samples: %d exceeds limit of %d, increase stepMeters", n, maxSamples).
			WithDetail("samples", n).
			WithDetail("maxSamples", maxSamples).
			WithDetail("distanceMeters", math.Round(distance))
	}
	return nil
}

func validateParameters(req domain.ProfileRequest) error {
	if !req.A.Valid() {
		return domain.ValidationError("a: coordinate out of range (%g, %g)", req.A.Lat, req.A.Lon).WithDetail("field", "a")
	}
	if !req.B.Valid() {
		return domain.ValidationError("b: coordinate out of range (%g, %g)", req.B.Lat, req.B.Lon).WithDetail("field", "b")
	}
	if !(req.FreqGHz > 0) || math.IsInf(req.FreqGHz, 0) {
		return domain.ValidationError("freqGHz must be positive").WithDetail("field", "freqGHz")
	}
	if !(req.KFactor > 0) || math.IsInf(req.KFactor, 0) {
		return domain.ValidationError("kFactor must be positive").WithDetail("field", "kFactor")
	}
	if !(req.StepMeters > 0) || math.IsInf(req.StepMeters, 0) {
		return domain.ValidationError("stepMeters must be positive").WithDetail("field", "stepMeters")
	}
	if !(req.AntennaA >= 0) || math.IsInf(req.AntennaA, 0) {
		return domain.ValidationError("antennaA must not be negative").WithDetail("field", "antennaA")
	}
	if !(req.AntennaB >= 0) || math.IsInf(req.AntennaB, 0) {
		return domain.ValidationError("antennaB must not be negative").WithDetail("field", "antennaB")
	}
	if req.A.SameLocation(req.B) {
		return domain.ValidationError("degenerate path: A and B are the same location")
	}
	return nil
}
