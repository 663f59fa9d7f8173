package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skill-compass/internal/database"

	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

type JobRow struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	Description string
	CreatedAt   time.Time
}

type JobCreate struct {
	Title       string
	Description string
	Company     *string
	Location    *string
	SourceID    *int64
	ExternalID  *string
	PostedAt    *time.Time
	SkillIDs    []int64
}

type CorpusJob struct {
	ID     int64
	Title  string
	Skills []JobSkillRef
}

type JobRepository interface {
	ExistsByID(ctx context.Context, jobID int64) (bool, error)
	GetByID(ctx context.Context, jobID int64) (JobRow, error)
	CountJobs(ctx context.Context) (int, error)
	ListJobs(ctx context.Context, limit, offset int) ([]JobRow, error)
	CreateJob(ctx context.Context, in JobCreate) (int64, error)
	LoadCorpus(ctx context.Context) ([]CorpusJob, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) ExistsByID(ctx context.Context, jobID int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, jobID)
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, jobID int64) (JobRow, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''), COALESCE(description, ''), created_at
		 FROM jobs
		 WHERE id = $1`,
		jobID,
	)

	var j JobRow
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return JobRow{}, ErrJobNotFound
		}
		return JobRow{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) CountJobs(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, limit, offset int) ([]JobRow, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(company, ''), COALESCE(location, ''), COALESCE(description, ''), created_at
		 FROM jobs
		 ORDER BY id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobRow, 0)
	for rows.Next() {
		var j JobRow
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) CreateJob(ctx context.Context, in JobCreate) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`INSERT INTO jobs (title, description, company, location, source_id, external_job_id, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		in.Title, in.Description, in.Company, in.Location, in.SourceID, in.ExternalID, in.PostedAt,
	)

	var jobID int64
	if err := row.Scan(&jobID); err != nil {
		return 0, err
	}

	for _, skillID := range in.SkillIDs {
		if skillID <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id)
			 VALUES ($1, $2)
			 ON CONFLICT (job_id, skill_id) DO NOTHING`,
			jobID, skillID,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return jobID, nil
}

// LoadCorpus returns every job with its required skills, ordered by job ID.
// Jobs without skills stay in the corpus; they score zero but still count.
func (r *PostgresJobRepository) LoadCorpus(ctx context.Context) ([]CorpusJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT j.id, COALESCE(j.title, ''), js.skill_id, s.name
		 FROM jobs j
		 LEFT JOIN job_skills js ON js.job_id = j.id
		 LEFT JOIN skills s ON s.id = js.skill_id
		 ORDER BY j.id ASC, s.name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CorpusJob, 0)
	for rows.Next() {
		var (
			jobID     int64
			title     string
			skillID   sql.NullInt64
			skillName sql.NullString
		)
		if err := rows.Scan(&jobID, &title, &skillID, &skillName); err != nil {
			return nil, err
		}

		if len(out) == 0 || out[len(out)-1].ID != jobID {
			out = append(out, CorpusJob{ID: jobID, Title: title, Skills: make([]JobSkillRef, 0, 4)})
		}
		if skillID.Valid {
			last := &out[len(out)-1]
			last.Skills = append(last.Skills, JobSkillRef{SkillID: skillID.Int64, SkillName: skillName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
