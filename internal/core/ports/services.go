package ports

import (
	"context"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// PathSampler generates equally spaced points along the geodesic from a to b.
// Distances strictly increase, the first point is at 0 and the last at the
// total path length.
type PathSampler interface {
	Sample(a, b domain.GeoPoint, stepMeters float64) ([]domain.ProfilePoint, error)
}

// ElevationProvider resolves terrain elevations for a set of positions. The
// result is index-aligned with points. Implementations own their timeout and
// retry policy and must fail rather than substitute a default elevation.
type ElevationProvider interface {
	Name() string
	Resolve(ctx context.Context, points []domain.GeoPoint) ([]domain.ElevationPoint, error)
}

// EventPublisher publishes profile events to a message broker.
type EventPublisher interface {
	PublishProfileComputed(ctx context.Context, event *domain.ProfileComputedEvent) error
	PublishProfileFailed(ctx context.Context, event *domain.ProfileFailedEvent) error
	PublishProfileJob(ctx context.Context, job *domain.ProfileJob) error
}

// EventSubscriber consumes queued profile jobs from a message broker.
type EventSubscriber interface {
	SubscribeProfileJobs(ctx context.Context, handler func(ctx context.Context, job *domain.ProfileJob) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error

	// GetMany returns one entry per key; a nil entry is a miss.
	GetMany(ctx context.Context, keys []string) ([][]byte, error)
	SetMany(ctx context.Context, entries map[string][]byte, ttlSeconds int) error
}
