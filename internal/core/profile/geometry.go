// Package profile computes radio-relay path profiles: Earth-curvature corrected
// terrain, the line of sight between mast tops, first Fresnel zone clearance,
// the worst obstruction along the path and the mast lift that clears it.
//
// Everything in this package is a pure function of its arguments and safe for
// concurrent use.
package profile

import "math"

const (
	// EarthRadiusMeters is the mean Earth radius used for the bulge correction.
	EarthRadiusMeters = 6371000.0

	// SpeedOfLight in vacuum, m/s.
	SpeedOfLight = 299792458.0

	// FresnelClearanceRatio is the fraction of the first Fresnel zone radius
	// that must be free of obstruction.
	FresnelClearanceRatio = 0.6
)

// EarthBulge returns the apparent rise of the Earth's surface at distance d
// along a path of length total, for refraction factor k.
// It is exactly zero at both endpoints.
func EarthBulge(d, total, k float64) float64 {
	return d * (total - d) / (2 * k * EarthRadiusMeters)
}

// Wavelength returns the free-space wavelength in meters for a frequency in GHz.
func Wavelength(freqGHz float64) float64 {
	return SpeedOfLight / (freqGHz * 1e9)
}

// FresnelRadius returns the first Fresnel zone radius at distance d along a
// path of length total. It is exactly zero at both endpoints.
func FresnelRadius(lambda, d, total float64) float64 {
	return math.Sqrt(lambda * d * (total - d) / total)
}

// LineOfSight interpolates linearly between the mast tops topA (at d=0) and
// topB (at d=total). The weighted form returns exactly topA and topB at the
// endpoints.
func LineOfSight(topA, topB, d, total float64) float64 {
	f := d / total
	return topA*(1-f) + topB*f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
