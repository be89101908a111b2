package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	if d := Haversine(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	d := Haversine(0, 0, 1, 0)
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(43.263, -2.935, 43.300, -2.850)
	b := Haversine(43.300, -2.850, 43.263, -2.935)
	if a != b {
		t.Errorf("expected symmetric distance, got %f and %f", a, b)
	}
}

func TestRoundCoord(t *testing.T) {
	if got := RoundCoord(43.2634567, 5); got != 43.26346 {
		t.Errorf("expected 43.26346, got %v", got)
	}
	if got := RoundCoord(-2.9350049, 5); got != -2.935 {
		t.Errorf("expected -2.935, got %v", got)
	}
}
