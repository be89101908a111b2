package domain

import "strings"

// RequestDefaults fills the optional request fields when they are absent.
type RequestDefaults struct {
	KFactor    float64
	StepMeters float64
}

// PointInput is a GeoPoint as decoded from user input, with absent
// coordinates left nil.
type PointInput struct {
	Lat  *float64 `json:"lat" yaml:"lat"`
	Lon  *float64 `json:"lon" yaml:"lon"`
	Name string   `json:"name" yaml:"name"`
}

// ProfileInput is a ProfileRequest as decoded from user input. Pointer fields
// tell an omitted value apart from an explicit zero: only omitted kFactor and
// stepMeters take defaults, and an explicit zero is left for validation to
// reject.
type ProfileInput struct {
	A          *PointInput `json:"a" yaml:"a"`
	B          *PointInput `json:"b" yaml:"b"`
	AntennaA   *float64    `json:"antennaA" yaml:"antennaA"`
	AntennaB   *float64    `json:"antennaB" yaml:"antennaB"`
	FreqGHz    *float64    `json:"freqGHz" yaml:"freqGHz"`
	KFactor    *float64    `json:"kFactor" yaml:"kFactor"`
	StepMeters *float64    `json:"stepMeters" yaml:"stepMeters"`
}

// Resolve builds the request, filling absent optional fields from defaults.
// Missing required fields are a ValidationError listing them under the
// "fields" detail.
func (in ProfileInput) Resolve(defaults RequestDefaults) (ProfileRequest, error) {
	var missing []string
	point := func(name string, p *PointInput) GeoPoint {
		if p == nil {
			missing = append(missing, name)
			return GeoPoint{}
		}
		if p.Lat == nil {
			missing = append(missing, name+".lat")
		}
		if p.Lon == nil {
			missing = append(missing, name+".lon")
		}
		return GeoPoint{Lat: valueOr(p.Lat, 0), Lon: valueOr(p.Lon, 0), Name: p.Name}
	}
	required := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}

	req := ProfileRequest{
		A:          point("a", in.A),
		B:          point("b", in.B),
		AntennaA:   required("antennaA", in.AntennaA),
		AntennaB:   required("antennaB", in.AntennaB),
		FreqGHz:    required("freqGHz", in.FreqGHz),
		KFactor:    valueOr(in.KFactor, defaults.KFactor),
		StepMeters: valueOr(in.StepMeters, defaults.StepMeters),
	}
	if len(missing) > 0 {
		return req, ValidationError("missing required fields: %s", strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}
	return req, nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
