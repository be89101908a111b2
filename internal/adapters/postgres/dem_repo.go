package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// DEMRepo implements ports.ElevationProvider over PostGIS raster tiles
// stored in dem_tiles (loaded with raster2pgsql, SRID 4326).
type DEMRepo struct {
	db *DB
}

// NewDEMRepo creates a new DEMRepo.
func NewDEMRepo(db *DB) *DEMRepo {
	return &DEMRepo{db: db}
}

func (r *DEMRepo) Name() string { return "postgis" }

// Resolve samples band 1 of the covering tile for every point in one query.
func (r *DEMRepo) Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	if len(points) == 0 {
		return nil, nil
	}

	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.ord,
		       ST_Value(t.rast, 1, ST_SetSRID(ST_MakePoint(p.lon, p.lat), 4326)) AS elevation
		FROM unnest($1::float8[], $2::float8[]) WITH ORDINALITY AS p(lat, lon, ord)
		LEFT JOIN LATERAL (
			SELECT rast FROM dem_tiles
			WHERE ST_Intersects(rast, ST_SetSRID(ST_MakePoint(p.lon, p.lat), 4326))
			LIMIT 1
		) t ON true
		ORDER BY p.ord
	`, lats, lons)
	if err != nil {
		return nil, fmt.Errorf("query elevations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ElevationPoint, 0, len(points))
	for rows.Next() {
		var (
			ord  int64
			elev *float64
		)
		if err := rows.Scan(&ord, &elev); err != nil {
			return nil, fmt.Errorf("scan elevation: %w", err)
		}
		i := int(ord) - 1
		if i < 0 || i >= len(points) {
			return nil, fmt.Errorf("unexpected ordinal %d", ord)
		}
		if elev == nil {
			return nil, domain.ElevationError(nil, "no DEM coverage at %.5f,%.5f", points[i].Lat, points[i].Lon).
				WithDetail("provider", r.Name())
		}
		out = append(out, domain.ElevationPoint{Lat: points[i].Lat, Lon: points[i].Lon, Elevation: *elev})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elevations: %w", err)
	}
	if len(out) != len(points) {
		return nil, fmt.Errorf("got %d elevations for %d points", len(out), len(points))
	}
	return out, nil
}

// TileCount reports how many raster tiles are loaded.
func (r *DEMRepo) TileCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM dem_tiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tiles: %w", err)
	}
	return n, nil
}
