package geodesic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/core/profile"
	"github.com/samirrijal/rrlprofile/internal/pkg/geospatial"
)

func TestSample_Contract(t *testing.T) {
	a := domain.GeoPoint{Lat: 43.2630, Lon: -2.9350}
	b := domain.GeoPoint{Lat: 43.3200, Lon: -2.8100}
	total := geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)

	points, err := NewSampler().Sample(a, b, 100)
	require.NoError(t, err)

	assert.Equal(t, profile.EstimateSamples(total, 100), len(points))
	assert.Equal(t, 0.0, points[0].DistanceMeters)
	assert.Equal(t, a.Lat, points[0].Lat)
	assert.Equal(t, total, points[len(points)-1].DistanceMeters)
	assert.Equal(t, b.Lat, points[len(points)-1].Lat)
	assert.Equal(t, b.Lon, points[len(points)-1].Lon)

	for i := 1; i < len(points); i++ {
		assert.Equal(t, i, points[i].Index)
		assert.Greater(t, points[i].DistanceMeters, points[i-1].DistanceMeters)
	}
}

func TestSample_PointsLieOnPath(t *testing.T) {
	a := domain.GeoPoint{Lat: 40.0, Lon: -3.0}
	b := domain.GeoPoint{Lat: 40.5, Lon: -2.0}
	total := geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)

	points, err := NewSampler().Sample(a, b, 1000)
	require.NoError(t, err)

	for _, p := range points[1 : len(points)-1] {
		fromA := geospatial.Haversine(a.Lat, a.Lon, p.Lat, p.Lon)
		toB := geospatial.Haversine(p.Lat, p.Lon, b.Lat, b.Lon)
		assert.InDelta(t, p.DistanceMeters, fromA, 1.0, "point %d distance from A", p.Index)
		assert.InDelta(t, total, fromA+toB, 1.0, "point %d off the great circle", p.Index)
	}
}

func TestSample_ShortPath(t *testing.T) {
	a := domain.GeoPoint{Lat: 43.0, Lon: -2.9}
	b := domain.GeoPoint{Lat: 43.0001, Lon: -2.9}

	points, err := NewSampler().Sample(a, b, 100)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestSample_Errors(t *testing.T) {
	s := NewSampler()
	a := domain.GeoPoint{Lat: 43.0, Lon: -2.9}

	_, err := s.Sample(a, a, 100)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = s.Sample(a, domain.GeoPoint{Lat: 91, Lon: 0}, 100)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = s.Sample(a, domain.GeoPoint{Lat: 43.1, Lon: -2.9}, 0)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = s.Sample(a, domain.GeoPoint{Lat: -43.0, Lon: 177.1}, 0.001)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestFeatureCollection(t *testing.T) {
	result := &domain.ProfileResult{
		Input: domain.ProfileRequest{
			A:        domain.GeoPoint{Lat: 43.0, Lon: -2.9, Name: "Site A"},
			B:        domain.GeoPoint{Lat: 43.01, Lon: -2.9},
			AntennaA: 30,
			AntennaB: 20,
		},
		Samples: []domain.ProfileSample{
			{Index: 0, Lat: 43.0, Lon: -2.9},
			{Index: 1, Lat: 43.005, Lon: -2.9, DistanceMeters: 556},
			{Index: 2, Lat: 43.01, Lon: -2.9, DistanceMeters: 1112},
		},
		Summary: domain.ProfileSummary{
			DistanceMeters: 1112,
			CriticalPoint:  domain.CriticalPoint{DistanceMeters: 556, Lat: 43.005, Lon: -2.9},
		},
	}

	fc := FeatureCollection(result)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "path", fc.Features[0].Properties["kind"])
	assert.Equal(t, "Site A", fc.Features[1].Properties["name"])
	assert.Equal(t, "critical", fc.Features[3].Properties["kind"])

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"LineString"`)
}
