package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/rrlprofile/internal/bootstrap"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/pkg/telemetry"
	"github.com/samirrijal/rrlprofile/internal/workflows"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("rrl-surveyor")
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

	// Survey results come back through the workflow, so no event publisher.
	profiles, err := bootstrap.NewProfiles(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("profile service: %v", err)
	}
	defer profiles.Close()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.SurveyWorkflow)
	w.RegisterActivity(&workflows.SurveyActivities{Profiles: profiles.Service})

	slog.Info("survey worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
