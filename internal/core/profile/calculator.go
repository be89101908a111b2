package profile

import (
	"math"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// Compute builds the path profile for req from the sampled points and their
// index-aligned elevations. Sampling and elevation lookup happen upstream; the
// first and last elevations are the ground heights of sites A and B.
func Compute(req domain.ProfileRequest, points []domain.ProfilePoint, elevations []domain.ElevationPoint) (*domain.ProfileResult, error) {
	if err := validateParameters(req); err != nil {
		return nil, err
	}
	if len(points) != len(elevations) {
		return nil, domain.CalculationError("point/elevation count mismatch: %d points, %d elevations", len(points), len(elevations)).
			WithDetail("points", len(points)).
			WithDetail("elevations", len(elevations))
	}
	if len(points) < 2 {
		return nil, domain.CalculationError("profile needs at least 2 points, got %d", len(points))
	}
	if err := checkPoints(points, elevations); err != nil {
		return nil, err
	}

	last := len(points) - 1
	total := points[last].DistanceMeters
	if total <= 0 {
		return nil, domain.ValidationError("degenerate path: total distance is zero")
	}

	lambda := Wavelength(req.FreqGHz)
	topA := elevations[0].Elevation + req.AntennaA
	topB := elevations[last].Elevation + req.AntennaB

	samples := make([]domain.ProfileSample, len(points))
	for i, p := range points {
		d := p.DistanceMeters
		terrain := elevations[i].Elevation
		terrainEff := terrain + EarthBulge(d, total, req.KFactor)
		los := LineOfSight(topA, topB, d, total)
		r1 := FresnelRadius(lambda, d, total)
		limit := los - FresnelClearanceRatio*r1

		s := domain.ProfileSample{
			Index:          i,
			DistanceMeters: d,
			Lat:            p.Lat,
			Lon:            p.Lon,
			Terrain:        terrain,
			TerrainEff:     terrainEff,
			LOS:            los,
			FresnelR1:      r1,
			Clearance:      los - terrainEff,
			Clearance60:    limit - terrainEff,
		}
		if !sampleFinite(s) {
			return nil, domain.CalculationError("non-finite result at sample %d (d=%g)", i, d).WithDetail("index", i)
		}
		samples[i] = s
	}

	summary, err := Summarize(samples, total)
	if err != nil {
		return nil, err
	}

	return &domain.ProfileResult{
		Input:   req,
		Summary: summary,
		Samples: samples,
	}, nil
}

// Summarize derives the hop verdict from computed samples.
func Summarize(samples []domain.ProfileSample, total float64) (domain.ProfileSummary, error) {
	idx := CriticalIndex(samples)
	if idx < 0 {
		return domain.ProfileSummary{}, domain.CalculationError("no samples to summarize")
	}

	minClearance := math.Inf(1)
	for _, s := range samples {
		minClearance = math.Min(minClearance, s.Clearance)
	}
	critical := samples[idx]

	lift, err := RecommendLift(critical.Clearance60, critical.DistanceMeters, total)
	if err != nil {
		return domain.ProfileSummary{}, err
	}

	return domain.ProfileSummary{
		DistanceMeters:  total,
		LOSOk:           minClearance >= 0,
		FresnelOk:       critical.Clearance60 >= 0,
		MinClearance:    minClearance,
		MinClearance60:  critical.Clearance60,
		CriticalPoint:   CriticalPointOf(critical),
		RecommendedLift: lift,
	}, nil
}

func checkPoints(points []domain.ProfilePoint, elevations []domain.ElevationPoint) error {
	if points[0].DistanceMeters != 0 {
		return domain.CalculationError("first profile point must be at distance 0, got %g", points[0].DistanceMeters)
	}
	for i, p := range points {
		if !finite(p.DistanceMeters) || !finite(p.Lat) || !finite(p.Lon) {
			return domain.CalculationError("non-finite profile point at index %d", i).WithDetail("index", i)
		}
		if i > 0 && p.DistanceMeters <= points[i-1].DistanceMeters {
			return domain.CalculationError("profile distances must strictly increase (index %d)", i).WithDetail("index", i)
		}
		if !finite(elevations[i].Elevation) {
			return domain.CalculationError("non-finite elevation at index %d", i).WithDetail("index", i)
		}
	}
	return nil
}

func sampleFinite(s domain.ProfileSample) bool {
	return finite(s.TerrainEff) && finite(s.LOS) && finite(s.FresnelR1) &&
		finite(s.Clearance) && finite(s.Clearance60)
}
