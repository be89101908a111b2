// Package geodesic samples great-circle paths between two sites.
package geodesic

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/geospatial"
)

// maxSegments guards against absurd step values reaching the allocator.
const maxSegments = 1 << 20

// Sampler implements ports.PathSampler along the great circle.
type Sampler struct{}

// NewSampler creates a new Sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Sample returns n+1 equally spaced points from a to b, n = ceil(D/step).
// The first point is a at distance 0 and the last is exactly b at D.
func (s *Sampler) Sample(a, b domain.GeoPoint, stepMeters float64) ([]domain.ProfilePoint, error) {
	if !a.Valid() || !b.Valid() {
		return nil, domain.ValidationError("invalid endpoint coordinates")
	}
	if !(stepMeters > 0) || math.IsInf(stepMeters, 0) {
		return nil, domain.ValidationError("stepMeters must be a positive number, got %v", stepMeters)
	}

	total := geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	if total == 0 {
		return nil, domain.ValidationError("degenerate path: A and B are the same location")
	}

	segments := math.Ceil(total / stepMeters)
	if segments > maxSegments {
		return nil, domain.ValidationError("too many samples for step %v m over %.0f m", stepMeters, total)
	}
	n := int(segments)

	from := orb.Point{a.Lon, a.Lat}
	to := orb.Point{b.Lon, b.Lat}
	bearing := geo.Bearing(from, to)
	// orb uses its own Earth radius; walk by the same fraction of its arc.
	arc := geo.DistanceHaversine(from, to)

	points := make([]domain.ProfilePoint, n+1)
	points[0] = domain.ProfilePoint{Index: 0, Lat: a.Lat, Lon: a.Lon, DistanceMeters: 0}
	for i := 1; i < n; i++ {
		f := float64(i) / float64(n)
		p := geo.PointAtBearingAndDistance(from, bearing, f*arc)
		points[i] = domain.ProfilePoint{
			Index:          i,
			Lat:            p.Lat(),
			Lon:            normalizeLon(p.Lon()),
			DistanceMeters: f * total,
		}
	}
	points[n] = domain.ProfilePoint{Index: n, Lat: b.Lat, Lon: b.Lon, DistanceMeters: total}

	return points, nil
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
