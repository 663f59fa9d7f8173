// Package seeder fills a migrated database with the baseline rows the
// engine needs before any ingest has run: the skill catalog, job sources,
// and a small set of demo jobs.
package seeder

import (
	"context"

	"skill-compass/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
