package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/samirrijal/tripjournal/internal/adapters/postgres"
	"github.com/samirrijal/tripjournal/internal/pkg/config"
	"github.com/samirrijal/tripjournal/internal/pkg/logging"
	"github.com/samirrijal/tripjournal/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|list>")
	}

	cfg, err := config.Load("tripjournal-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	switch os.Args[1] {
	case "up":
		ctx := context.Background()
		db, err := postgres.New(ctx, cfg.Database.DSN(), 1, slog.Default())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		applied, err := db.Migrate(ctx)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		for _, name := range applied {
			fmt.Printf("OK  %s\n", name)
		}
		log.Println("all migrations applied")
	case "list":
		all, err := migrations.All()
		if err != nil {
			log.Fatalf("load migrations: %v", err)
		}
		for _, m := range all {
			fmt.Println(m.Name)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
