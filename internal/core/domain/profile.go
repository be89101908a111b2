package domain

// ProfileRequest describes a single radio-relay hop to analyse.
type ProfileRequest struct {
	A          GeoPoint `json:"a" yaml:"a"`
	B          GeoPoint `json:"b" yaml:"b"`
	AntennaA   float64  `json:"antennaA" yaml:"antennaA"` // mast height above ground at A, meters
	AntennaB   float64  `json:"antennaB" yaml:"antennaB"` // mast height above ground at B, meters
	FreqGHz    float64  `json:"freqGHz" yaml:"freqGHz"`
	KFactor    float64  `json:"kFactor" yaml:"kFactor"`
	StepMeters float64  `json:"stepMeters" yaml:"stepMeters"`
}

// ProfileSample holds the computed geometry for one point of the path.
type ProfileSample struct {
	Index          int     `json:"index"`
	DistanceMeters float64 `json:"distanceMeters"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Terrain        float64 `json:"terrain"`
	TerrainEff     float64 `json:"terrainEff"` // terrain plus Earth bulge
	LOS            float64 `json:"los"`
	FresnelR1      float64 `json:"fresnelR1"`
	Clearance      float64 `json:"clearance"`
	Clearance60    float64 `json:"clearance60"`
}

// CriticalPoint is the sample with the least 60% Fresnel clearance.
type CriticalPoint struct {
	DistanceMeters float64 `json:"distanceMeters"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// RecommendedLift lists mast-height increases (meters) that clear the critical point.
type RecommendedLift struct {
	OnlyA     float64 `json:"onlyA"`
	OnlyB     float64 `json:"onlyB"`
	BothEqual float64 `json:"bothEqual"`
}

// ProfileSummary is the overall verdict for a hop.
type ProfileSummary struct {
	DistanceMeters  float64         `json:"distanceMeters"`
	LOSOk           bool            `json:"losOk"`
	FresnelOk       bool            `json:"fresnelOk"`
	MinClearance    float64         `json:"minClearance"`
	MinClearance60  float64         `json:"minClearance60"`
	CriticalPoint   CriticalPoint   `json:"criticalPoint"`
	RecommendedLift RecommendedLift `json:"recommendedLift"`
}

// Viable reports whether the hop clears both the line of sight and 60% of the first Fresnel zone.
func (s ProfileSummary) Viable() bool {
	return s.LOSOk && s.FresnelOk
}

// ProfileResult is the full response for a hop.
type ProfileResult struct {
	Input             ProfileRequest  `json:"input"`
	Summary           ProfileSummary  `json:"summary"`
	Samples           []ProfileSample `json:"samples"`
	ElevationProvider string          `json:"elevationProvider,omitempty"`
}
