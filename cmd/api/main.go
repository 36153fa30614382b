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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ecoruta/ecoruta/internal/adapters/http"
	natsadapter "github.com/ecoruta/ecoruta/internal/adapters/nats"
	"github.com/ecoruta/ecoruta/internal/adapters/postgres"
	"github.com/ecoruta/ecoruta/internal/adapters/valkey"
	"github.com/ecoruta/ecoruta/internal/core/ports"
	"github.com/ecoruta/ecoruta/internal/core/usecases"
	"github.com/ecoruta/ecoruta/internal/pkg/config"
	"github.com/ecoruta/ecoruta/internal/pkg/logging"
	"github.com/ecoruta/ecoruta/internal/pkg/metrics"
	"github.com/ecoruta/ecoruta/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("ecoruta-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("ecoruta-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache + session store
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	sessionTTL := time.Duration(cfg.Game.SessionTTLHours) * time.Hour
	sessions := valkey.NewSessions(cache, sessionTTL)

	// NATS; the API degrades to synchronous-only behavior without it
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		events = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	pointRepo := postgres.NewPointRepo(db)

	// Use cases
	userSvc := usecases.NewUserService(userRepo, cache)
	pointSvc := usecases.NewPointService(pointRepo, cache, cfg.Game.CoordinateEpsilon)
	routeSvc := usecases.NewRouteService(pointSvc)
	placementSvc := usecases.NewPlacementService(pointSvc, userSvc, events, cfg.Game.PointsPerPlacement)

	deps := &http.Dependencies{
		Users:      userSvc,
		Points:     pointSvc,
		Routes:     routeSvc,
		Placements: placementSvc,
		Sessions:   sessions,
		NATS:       natsConn,
		DB:         db,
		Cache:      cache,
	}

	// Keep connection pool gauges fresh
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "EcoRuta API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.ecoruta.app",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, sessionTTL)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
