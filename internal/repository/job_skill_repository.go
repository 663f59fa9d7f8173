package repository

import (
	"context"

	"skill-compass/internal/database"
)

type JobSkillRef struct {
	SkillID   int64
	SkillName string
}

type JobSkillRepository interface {
	FindByJobID(ctx context.Context, jobID int64) ([]JobSkillRef, error)
	FindByJobIDs(ctx context.Context, jobIDs []int64) (map[int64][]JobSkillRef, error)
	ReplaceForJob(ctx context.Context, jobID int64, skillIDs []int64) error
}

type PostgresJobSkillRepository struct {
	db database.DB
}

func NewPostgresJobSkillRepository(db database.DB) *PostgresJobSkillRepository {
	return &PostgresJobSkillRepository{db: db}
}

func (r *PostgresJobSkillRepository) FindByJobID(ctx context.Context, jobID int64) ([]JobSkillRef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT js.skill_id, s.name
		 FROM job_skills js
		 JOIN skills s ON s.id = js.skill_id
		 WHERE js.job_id = $1
		 ORDER BY s.name ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobSkillRef, 0)
	for rows.Next() {
		var it JobSkillRef
		if err := rows.Scan(&it.SkillID, &it.SkillName); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobSkillRepository) FindByJobIDs(ctx context.Context, jobIDs []int64) (map[int64][]JobSkillRef, error) {
	out := make(map[int64][]JobSkillRef, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT js.job_id, js.skill_id, s.name
		 FROM job_skills js
		 JOIN skills s ON s.id = js.skill_id
		 WHERE js.job_id = ANY($1)
		 ORDER BY js.job_id ASC, s.name ASC`,
		jobIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var jobID int64
		var it JobSkillRef
		if err := rows.Scan(&jobID, &it.SkillID, &it.SkillName); err != nil {
			return nil, err
		}
		out[jobID] = append(out[jobID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobSkillRepository) ReplaceForJob(ctx context.Context, jobID int64, skillIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, jobID); err != nil {
		return err
	}
	for _, skillID := range skillIDs {
		if skillID <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id)
			 VALUES ($1, $2)
			 ON CONFLICT (job_id, skill_id) DO NOTHING`,
			jobID, skillID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
