package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	natsadapter "github.com/samirrijal/rrlprofile/internal/adapters/nats"
	"github.com/samirrijal/rrlprofile/internal/bootstrap"
	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/pkg/telemetry"
)

// jobTimeout bounds one queued computation, elevation retries included.
const jobTimeout = 2 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("rrl-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry init failed", "error", err)
	} else {
		defer telemetry.Shutdown(shutdownTracer)
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	profiles, err := bootstrap.NewProfiles(ctx, cfg, pub)
	if err != nil {
		log.Fatalf("profile service: %v", err)
	}
	defer profiles.Close()
	profiles.WatchPool(ctx, 15*time.Second)

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeProfileJobs(ctx, func(ctx context.Context, job *domain.ProfileJob) error {
		ctx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()
		ctx = logging.WithLogger(ctx, slog.Default().With("job_id", job.ID))
		return profiles.Service.ComputeJob(ctx, job)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("profile worker started", "subject", natsadapter.SubjectRequests)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down worker", "signal", sig.String())
}
