package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-compass/internal/app"
	"skill-compass/internal/config"
	"skill-compass/internal/database/migration"
	"skill-compass/internal/database/seeder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	if cfg.Database.RunMigrations {
		migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		r := migration.Runner{Dir: "migrations", Logger: c.Logger}
		err := r.Run(migCtx, c.DB.SQLDB())
		migCancel()
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if cfg.Database.RunSeeders {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}.Run(seedCtx, c.DB)
		seedCancel()
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go c.Hub.Run(hubCtx)

	server := app.New(c)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
