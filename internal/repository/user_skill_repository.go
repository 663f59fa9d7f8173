package repository

import (
	"context"
	"errors"

	"skill-compass/internal/database"

	"github.com/google/uuid"
)

var (
	ErrUserSkillNotFound    = errors.New("skill not found")
	ErrUserSkillNotAttached = errors.New("skill not attached")
	ErrUserSkillExists      = errors.New("skill already attached")
)

type UserSkill struct {
	UserID    uuid.UUID
	SkillID   int64
	SkillName string
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error)
	SkillIDsByUserID(ctx context.Context, userID uuid.UUID) ([]int64, error)
	SkillExistsByID(ctx context.Context, skillID int64) (bool, error)
	Attach(ctx context.Context, userID uuid.UUID, skillID int64) (UserSkill, error)
	AttachMany(ctx context.Context, userID uuid.UUID, skillIDs []int64) error
	Detach(ctx context.Context, userID uuid.UUID, skillID int64) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.user_id, us.skill_id, s.name
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSkill, 0)
	for rows.Next() {
		var us UserSkill
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.SkillName); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) SkillIDsByUserID(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT skill_id FROM user_skills WHERE user_id = $1 ORDER BY skill_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) SkillExistsByID(ctx context.Context, skillID int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, skillID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserSkillRepository) Attach(ctx context.Context, userID uuid.UUID, skillID int64) (UserSkill, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (user_id, skill_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		userID, skillID,
	)
	if err != nil {
		return UserSkill{}, err
	}
	if rowsAffected == 0 {
		return UserSkill{}, ErrUserSkillExists
	}

	row := r.db.QueryRow(ctx,
		`SELECT us.user_id, us.skill_id, s.name
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1 AND us.skill_id = $2`,
		userID, skillID,
	)

	var created UserSkill
	if err := row.Scan(&created.UserID, &created.SkillID, &created.SkillName); err != nil {
		return UserSkill{}, err
	}
	return created, nil
}

func (r *PostgresUserSkillRepository) AttachMany(ctx context.Context, userID uuid.UUID, skillIDs []int64) error {
	if len(skillIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, skillID := range skillIDs {
		if skillID <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_skills (user_id, skill_id)
			 VALUES ($1, $2)
			 ON CONFLICT (user_id, skill_id) DO NOTHING`,
			userID, skillID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresUserSkillRepository) Detach(ctx context.Context, userID uuid.UUID, skillID int64) error {
	exists, err := r.SkillExistsByID(ctx, skillID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserSkillNotFound
	}

	rowsAffected, err := r.db.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserSkillNotAttached
	}
	return nil
}
