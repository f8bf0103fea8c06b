package main

import (
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/tripjournal/internal/adapters/filestore"
	"github.com/samirrijal/tripjournal/internal/pkg/config"
	"github.com/samirrijal/tripjournal/internal/pkg/logging"
	"github.com/samirrijal/tripjournal/internal/workflows"
)

func main() {
	cfg, err := config.Load("tripjournal-janitor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// The worker must see the same image directory as the API.
	store, err := filestore.New(cfg.Storage.ImageDir, slog.Default())
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PurgePhotoFilesWorkflow)
	w.RegisterActivity(&workflows.PurgeActivities{Files: store})

	slog.Info("janitor worker started", "task_queue", cfg.Temporal.TaskQueue, "image_dir", cfg.Storage.ImageDir)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
