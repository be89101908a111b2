package elevation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/core/ports"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/pkg/metrics"
)

const cacheOperation = "elevation"

// Cached decorates a provider with a per-point read-through cache. Cache
// failures fall back to the inner provider and never substitute values.
type Cached struct {
	inner ports.ElevationProvider
	cache ports.CacheService
	ttl   time.Duration
}

// NewCached wraps inner with cache.
func NewCached(inner ports.ElevationProvider, cache ports.CacheService, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl}
}

func (c *Cached) Name() string { return c.inner.Name() }

// Key returns the cache key for one point, rounded to ~1 m.
func Key(provider string, p domain.GeoPoint) string {
	return fmt.Sprintf("elev:%s:%.5f:%.5f", provider, p.Lat, p.Lon)
}

func (c *Cached) Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error) {
	log := logging.FromContext(ctx)
	provider := c.inner.Name()

	keys := make([]string, len(points))
	for i, p := range points {
		keys[i] = Key(provider, p)
	}

	out := make([]domain.ElevationPoint, len(points))
	var missIdx []int

	values, err := c.cache.GetMany(ctx, keys)
	if err != nil || len(values) != len(points) {
		if err != nil {
			log.Warn("elevation cache read failed", "error", err)
		}
		values = make([][]byte, len(points))
	}

	for i, v := range values {
		if v == nil {
			missIdx = append(missIdx, i)
			continue
		}
		elev, perr := strconv.ParseFloat(string(v), 64)
		if perr != nil {
			missIdx = append(missIdx, i)
			continue
		}
		out[i] = domain.ElevationPoint{Lat: points[i].Lat, Lon: points[i].Lon, Elevation: elev}
	}

	hits := len(points) - len(missIdx)
	metrics.CacheHits.WithLabelValues(cacheOperation).Add(float64(hits))
	metrics.CacheMisses.WithLabelValues(cacheOperation).Add(float64(len(missIdx)))

	if len(missIdx) == 0 {
		return out, nil
	}

	missing := make([]domain.GeoPoint, len(missIdx))
	for j, i := range missIdx {
		missing[j] = points[i]
	}
	fetched, err := c.inner.Resolve(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, domain.ElevationError(nil, "%s returned %d elevations for %d points", provider, len(fetched), len(missing))
	}

	entries := make(map[string][]byte, len(missIdx))
	for j, i := range missIdx {
		out[i] = domain.ElevationPoint{Lat: points[i].Lat, Lon: points[i].Lon, Elevation: fetched[j].Elevation}
		entries[keys[i]] = []byte(strconv.FormatFloat(fetched[j].Elevation, 'f', -1, 64))
	}
	if err := c.cache.SetMany(ctx, entries, int(c.ttl.Seconds())); err != nil {
		log.Warn("elevation cache write failed", "error", err)
	}

	return out, nil
}
