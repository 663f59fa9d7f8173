package seeder

import (
	"context"
	"fmt"

	"skill-compass/internal/database"
)

type JobSourcesSeeder struct{}

func (JobSourcesSeeder) Name() string { return "job_sources" }

// Run registers the well-known corpus sources. Ingest registers its own
// sources on first contact, so this only pre-creates the ones the seed jobs
// reference.
func (JobSourcesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "job_sources", "id", "name", "base_url", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name    string
		BaseURL string
	}{
		{Name: "Seed", BaseURL: ""},
		{Name: "Dev.to Jobs", BaseURL: "https://dev.to"},
	}

	for _, it := range items {
		var base any
		if it.BaseURL != "" {
			base = it.BaseURL
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO job_sources (name, base_url) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			base,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
