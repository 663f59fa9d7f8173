package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"skill-compass/internal/database"

	"github.com/google/uuid"
)

// Store owns every write an ingest run makes: the source registry, run
// bookkeeping, and the job upserts themselves.
type Store struct {
	db database.DB
}

func NewStore(db database.DB) *Store {
	return &Store{db: db}
}

// EnsureSource registers a source by name, returning its id. Repeated calls
// with the same name are no-ops.
func (s *Store) EnsureSource(ctx context.Context, name, baseURL string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("nil store")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty source name")
	}

	_, _ = s.db.Exec(ctx,
		`INSERT INTO job_sources (name, base_url) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		name, nullableText(baseURL),
	)

	var id int64
	row := s.db.QueryRow(ctx, `SELECT id FROM job_sources WHERE name = $1`, name)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) CreateRun(ctx context.Context, sourceID int64) (uuid.UUID, error) {
	if s == nil || s.db == nil {
		return uuid.Nil, fmt.Errorf("nil store")
	}
	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO ingest_runs (id, source_id, started_at, status) VALUES ($1, $2, $3, 'running')`,
		id, sourceID, time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, status string, found, inserted int) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil store")
	}
	if runID == uuid.Nil {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`UPDATE ingest_runs SET finished_at = $2, status = $3, jobs_found = $4, jobs_inserted = $5 WHERE id = $1`,
		runID, time.Now().UTC(), strings.TrimSpace(status), found, inserted,
	)
	return err
}

func (s *Store) LogRun(ctx context.Context, runID uuid.UUID, level, message string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil store")
	}
	if runID == uuid.Nil {
		return nil
	}
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO ingest_logs (id, run_id, level, message) VALUES ($1, $2, $3, $4)`,
		uuid.New(), runID, level, message,
	)
	return err
}

// UpsertJob writes one posting and its extracted skills. A posting seen
// before (same source and external id) is refreshed in place; the bool
// reports whether a new corpus row appeared.
func (s *Store) UpsertJob(ctx context.Context, sourceID int64, job RawJob, skillIDs []int64) (int64, bool, error) {
	if s == nil || s.db == nil {
		return 0, false, fmt.Errorf("nil store")
	}

	title := strings.TrimSpace(job.Title)
	if title == "" {
		return 0, false, fmt.Errorf("empty job title")
	}

	externalID := strings.TrimSpace(job.ExternalID)
	if externalID == "" {
		externalID = stableExternalID(job.URL)
	}
	if externalID == "" {
		return 0, false, fmt.Errorf("no external id or url for %q", title)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`INSERT INTO jobs (title, description, company, location, source_id, external_job_id, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (source_id, external_job_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = COALESCE(NULLIF(EXCLUDED.description, ''), jobs.description),
			company = COALESCE(EXCLUDED.company, jobs.company),
			location = COALESCE(EXCLUDED.location, jobs.location),
			posted_at = COALESCE(EXCLUDED.posted_at, jobs.posted_at)
		 RETURNING id, (xmax = 0)`,
		title,
		strings.TrimSpace(job.Description),
		nullableText(job.Company),
		nullableText(job.Location),
		sourceID,
		externalID,
		job.PostedAt,
	)

	var (
		jobID    int64
		inserted bool
	)
	if err := row.Scan(&jobID, &inserted); err != nil {
		return 0, false, err
	}

	for _, skillID := range skillIDs {
		if skillID <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id) VALUES ($1, $2) ON CONFLICT (job_id, skill_id) DO NOTHING`,
			jobID, skillID,
		); err != nil {
			return 0, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return jobID, inserted, nil
}

func stableExternalID(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	h := sha1.Sum([]byte(url))
	return "url-" + hex.EncodeToString(h[:])
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
