package domain

// GeoPoint represents a geographic coordinate (WGS 84, degrees).
type GeoPoint struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
}

// Valid reports whether the coordinate lies within WGS 84 bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// SameLocation reports whether two points share the same coordinate, ignoring names.
func (p GeoPoint) SameLocation(o GeoPoint) bool {
	return p.Lat == o.Lat && p.Lon == o.Lon
}

// ProfilePoint is one equally spaced sample along the geodesic between two sites.
// DistanceMeters is measured from site A.
type ProfilePoint struct {
	Index          int     `json:"index"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// Location returns the sample position as a GeoPoint.
func (p ProfilePoint) Location() GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// ElevationPoint is the terrain elevation (meters above MSL) resolved for a position.
type ElevationPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation float64 `json:"elevation"`
}

// Locations extracts the positions of the given profile points, preserving order.
func Locations(points []ProfilePoint) []GeoPoint {
	out := make([]GeoPoint, len(points))
	for i, p := range points {
		out[i] = p.Location()
	}
	return out
}
