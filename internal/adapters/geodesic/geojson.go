package geodesic

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// FeatureCollection renders a computed profile as GeoJSON: the sampled path
// as a LineString, both sites and the critical point as Points.
func FeatureCollection(result *domain.ProfileResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(result.Samples))
	for _, s := range result.Samples {
		line = append(line, orb.Point{s.Lon, s.Lat})
	}
	path := geojson.NewFeature(line)
	path.Properties["kind"] = "path"
	path.Properties["distanceMeters"] = result.Summary.DistanceMeters
	path.Properties["losOk"] = result.Summary.LOSOk
	path.Properties["fresnelOk"] = result.Summary.FresnelOk
	path.Properties["minClearance60"] = result.Summary.MinClearance60
	if result.ElevationProvider != "" {
		path.Properties["elevationProvider"] = result.ElevationProvider
	}
	fc.Append(path)

	fc.Append(site("A", result.Input.A, result.Input.AntennaA))
	fc.Append(site("B", result.Input.B, result.Input.AntennaB))

	cp := result.Summary.CriticalPoint
	critical := geojson.NewFeature(orb.Point{cp.Lon, cp.Lat})
	critical.Properties["kind"] = "critical"
	critical.Properties["distanceMeters"] = cp.DistanceMeters
	critical.Properties["clearance60"] = result.Summary.MinClearance60
	critical.Properties["liftOnlyA"] = result.Summary.RecommendedLift.OnlyA
	critical.Properties["liftOnlyB"] = result.Summary.RecommendedLift.OnlyB
	critical.Properties["liftBothEqual"] = result.Summary.RecommendedLift.BothEqual
	fc.Append(critical)

	return fc
}

func site(label string, p domain.GeoPoint, antenna float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
	f.Properties["kind"] = "site"
	f.Properties["site"] = label
	f.Properties["antennaMeters"] = antenna
	if p.Name != "" {
		f.Properties["name"] = p.Name
	}
	return f
}
