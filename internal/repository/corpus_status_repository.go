package repository

import (
	"context"
	"time"

	"skill-compass/internal/database"
	"skill-compass/internal/domain"
)

// CorpusStatusRepository aggregates counters about the job corpus for the
// status endpoint.
type CorpusStatusRepository interface {
	CountJobs(ctx context.Context) (int64, error)
	CountSkills(ctx context.Context) (int64, error)
	CountJobsSince(ctx context.Context, since time.Time) (int64, error)
	ListSourceStats(ctx context.Context) ([]domain.SourceStat, error)
	Ping(ctx context.Context) error
}

type PostgresCorpusStatusRepository struct {
	db database.DB
}

func NewPostgresCorpusStatusRepository(db database.DB) *PostgresCorpusStatusRepository {
	return &PostgresCorpusStatusRepository{db: db}
}

func (r *PostgresCorpusStatusRepository) CountJobs(ctx context.Context) (int64, error) {
	var c int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresCorpusStatusRepository) CountSkills(ctx context.Context) (int64, error) {
	var c int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM skills`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresCorpusStatusRepository) CountJobsSince(ctx context.Context, since time.Time) (int64, error) {
	var c int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE created_at >= $1`, since).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

// ListSourceStats reports job counts grouped by source. Jobs created by hand
// have no source and are grouped under "manual".
func (r *PostgresCorpusStatusRepository) ListSourceStats(ctx context.Context) ([]domain.SourceStat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(s.name, 'manual') AS source, COUNT(1) AS total_jobs, MAX(j.created_at) AS last_job_time
		 FROM jobs j
		 LEFT JOIN job_sources s ON s.id = j.source_id
		 GROUP BY COALESCE(s.name, 'manual')
		 ORDER BY total_jobs DESC, source ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SourceStat, 0)
	for rows.Next() {
		var it domain.SourceStat
		if err := rows.Scan(&it.Source, &it.TotalJobs, &it.LastJobTime); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCorpusStatusRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}
