package elevation

import (
	"fmt"
	"io"

	"github.com/samirrijal/rrlprofile/internal/core/ports"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
)

// FromConfig builds the configured provider. postgis is only used when the
// provider is "postgis"; cache may be nil to disable caching. The returned
// closer releases provider resources and is never nil.
func FromConfig(cfg config.ElevationConfig, postgis ports.ElevationProvider, cache ports.CacheService) (ports.ElevationProvider, io.Closer, error) {
	var (
		provider ports.ElevationProvider
		closer   io.Closer = nopCloser{}
	)

	switch cfg.Provider {
	case "opentopodata":
		provider = NewOpenTopoData(OpenTopoDataConfig{
			URL:       cfg.URL,
			Dataset:   cfg.Dataset,
			BatchSize: cfg.BatchSize,
			Timeout:   cfg.Timeout,
			Retries:   cfg.Retries,
		})
	case "postgis":
		if postgis == nil {
			return nil, nil, fmt.Errorf("postgis provider requires a database")
		}
		provider = postgis
	case "grid":
		g, err := OpenGrid(cfg.GridPath, ETOPO1)
		if err != nil {
			return nil, nil, err
		}
		provider, closer = g, g
	default:
		return nil, nil, fmt.Errorf("unknown elevation provider %q", cfg.Provider)
	}

	// Grid lookups are local reads and bypass the cache.
	if cache != nil && cfg.CacheTTL > 0 && cfg.Provider != "grid" {
		provider = NewCached(provider, cache, cfg.CacheTTL)
	}
	return provider, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
