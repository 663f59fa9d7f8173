package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"skill-compass/internal/database"
)

// Runner executes seeders in order and stops on the first failure.
// Seeders are idempotent, so rerunning after a failure is safe.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Printf("[Seed] Applied | seeder=%s took=%s", s.Name(), time.Since(start))
	}
	return nil
}
