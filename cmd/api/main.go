package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/tripjournal/internal/adapters/filestore"
	"github.com/samirrijal/tripjournal/internal/adapters/http"
	natsadapter "github.com/samirrijal/tripjournal/internal/adapters/nats"
	"github.com/samirrijal/tripjournal/internal/adapters/postgres"
	"github.com/samirrijal/tripjournal/internal/adapters/valkey"
	"github.com/samirrijal/tripjournal/internal/core/ports"
	"github.com/samirrijal/tripjournal/internal/core/usecases"
	"github.com/samirrijal/tripjournal/internal/pkg/config"
	"github.com/samirrijal/tripjournal/internal/pkg/geotag"
	"github.com/samirrijal/tripjournal/internal/pkg/logging"
	"github.com/samirrijal/tripjournal/internal/pkg/telemetry"
	"github.com/samirrijal/tripjournal/internal/workflows"
)

func main() {
	cfg, err := config.Load("tripjournal-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

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
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, slog.Default())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Image storage
	store, err := filestore.New(cfg.Storage.ImageDir, slog.Default())
	if err != nil {
		log.Fatalf("image store: %v", err)
	}
	resolver := geotag.NewResolver(store, slog.Default())

	deps := &http.Dependencies{
		MaxUploadBytes: int64(cfg.Storage.MaxUploadBytes()),
		DB:             db,
	}
	collab := usecases.Collaborators{Log: slog.Default()}

	// Cache
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
			collab.Cache = cache
			deps.Cache = cache
		}
	}

	// NATS
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			collab.Events = pub
			deps.NATS = pub.Conn()
			deps.Events = natsadapter.NewSubscriber(pub.Conn(), slog.Default())
		}
	}

	// Stored files of deleted photos: purge workflow when Temporal is on,
	// synchronous deletes otherwise.
	var janitor ports.FileJanitor = store
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, purging files inline", "error", err)
		} else {
			defer tc.Close()
			janitor = workflows.NewJanitor(tc, cfg.Temporal.TaskQueue)
		}
	}

	// Repos
	repos := usecases.Repositories{
		Trips:     postgres.NewTripRepo(db),
		Locations: postgres.NewLocationRepo(db),
		Photos:    postgres.NewPhotoRepo(db),
	}

	// Use cases
	photoSvc := usecases.NewPhotoService(repos, store, resolver, collab)
	deps.Photos = photoSvc
	deps.Locations = usecases.NewLocationService(repos, photoSvc, janitor, collab)
	deps.Trips = usecases.NewTripService(repos, janitor, collab)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		// Room for the multipart envelope around the largest photo.
		BodyLimit: cfg.Storage.MaxUploadBytes() + 1024*1024,
		AppName:   "Trip Journal API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match, X-Request-ID",
		ExposeHeaders:    "ETag, Link, Location, X-Request-ID",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go recordPoolStats(ctx, db)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "image_dir", cfg.Storage.ImageDir)
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

func recordPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		db.RecordPoolStats()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
