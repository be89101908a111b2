package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/rrlprofile/internal/core/usecases"
)

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers. Everything but
// Profiles is optional.
type Dependencies struct {
	Profiles *usecases.ProfileService
	NATS     *nats.Conn
	DB       Pinger
	Cache    Pinger
	Version  string
	// RequestTimeout bounds profile computations; zero means 30s.
	RequestTimeout time.Duration
	// OpenAPIPath is the document served under /docs; empty means
	// api/openapi.yaml relative to the working directory.
	OpenAPIPath string
}
