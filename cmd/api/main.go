package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/samirrijal/rrlprofile/internal/adapters/http"
	natsadapter "github.com/samirrijal/rrlprofile/internal/adapters/nats"
	"github.com/samirrijal/rrlprofile/internal/bootstrap"
	"github.com/samirrijal/rrlprofile/internal/core/ports"
	"github.com/samirrijal/rrlprofile/internal/pkg/config"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
	"github.com/samirrijal/rrlprofile/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("rrl-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
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

	// NATS is optional: without it jobs are rejected and /ws has nothing to relay.
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	profiles, err := bootstrap.NewProfiles(ctx, cfg, publisher)
	if err != nil {
		log.Fatalf("profile service: %v", err)
	}
	defer profiles.Close()
	profiles.WatchPool(ctx, 15*time.Second)

	deps := &http.Dependencies{
		Profiles: profiles.Service,
		NATS:     natsConn,
		Version:  version,
	}
	if profiles.DB != nil {
		deps.DB = profiles.DB
	}
	if profiles.Cache != nil {
		deps.Cache = profiles.Cache
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "RRL Profile API",
		ErrorHandler: http.ErrorHandler,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
