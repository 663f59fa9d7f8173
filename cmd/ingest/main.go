package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-compass/internal/app"
	"skill-compass/internal/config"
	"skill-compass/internal/database/migration"
)

// One-shot corpus ingest. Runs every configured source once and exits, for
// cron-style refreshes outside the API server's admin trigger.
func main() {
	migrate := flag.Bool("migrate", false, "run pending migrations first")
	timeout := flag.Duration("timeout", 20*time.Minute, "overall ingest deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	if *migrate {
		migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		r := migration.Runner{Dir: "migrations", Logger: c.Logger}
		err := r.Run(migCtx, c.DB.SQLDB())
		migCancel()
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if len(c.IngestSources) == 0 {
		log.Fatalf("no ingest sources configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summaries, err := c.IngestRunner.RunAll(ctx, c.IngestSources)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	for _, s := range summaries {
		if s.Err != nil {
			log.Printf("source=%s found=%d inserted=%d err=%v", s.Source, s.Found, s.Inserted, s.Err)
			continue
		}
		log.Printf("source=%s found=%d inserted=%d", s.Source, s.Found, s.Inserted)
	}
}
