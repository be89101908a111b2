// Package bootstrap wires the profile pipeline from configuration. It is
// shared by the API, the job worker and the survey worker.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/samirrijal/rrlprofile/internal/adapters/elevation"
	"github.com/samirrijal/rrlprofile/internal/adapters/geodesic"
	"github.com/samirrijal/rrlprofile/internal/adapters/postgres"
	"github.com/samirrijal/rrlprofile/internal/adapters/valkey"
	"github.com/samirrijal/rrlprofile/internal/core/ports"
	"github.com/samirrijal/rrlprofile/internal/core/profile"
	"github.com/samirrijal/rrlprofile/internal/core/usecases"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
	"github.com/samirrijal/rrlprofile/internal/pkg/metrics"
)

// Profiles is a wired ProfileService with the connections it owns.
type Profiles struct {
	Service *usecases.ProfileService
	DB      *postgres.DB  // nil unless the provider is postgis
	Cache   *valkey.Cache // nil when Valkey is unreachable

	closers []func()
}

// NewProfiles connects the configured elevation provider, wrapping it with
// the Valkey cache when one is reachable. publisher may be nil.
func NewProfiles(ctx context.Context, cfg *config.Config, publisher ports.EventPublisher) (*Profiles, error) {
	p := &Profiles{}

	var dem ports.ElevationProvider
	if cfg.Elevation.Provider == "postgis" {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		p.DB = db
		p.closers = append(p.closers, db.Close)
		dem = postgres.NewDEMRepo(db)
	}

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, elevation cache disabled", "error", err)
	} else {
		p.Cache = c
		p.closers = append(p.closers, c.Close)
		cache = c
	}

	provider, closer, err := elevation.FromConfig(cfg.Elevation, dem, cache)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, func() { _ = closer.Close() })

	p.Service = usecases.NewProfileService(
		geodesic.NewSampler(),
		provider,
		publisher,
		profile.Limits{MaxSamples: cfg.Profile.MaxSamples},
		usecases.ProfileDefaults{
			KFactor:    cfg.Profile.DefaultKFactor,
			StepMeters: cfg.Profile.DefaultStepMeters,
		},
	)
	slog.Info("profile service ready", "elevation", provider.Name())
	return p, nil
}

// WatchPool exports database pool gauges until ctx is done.
func (p *Profiles) WatchPool(ctx context.Context, every time.Duration) {
	if p.DB == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(p.DB.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close releases connections in reverse order of acquisition.
func (p *Profiles) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
}
