package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-compass/internal/database"

	"github.com/jackc/pgx/v5"
)

var ErrSkillRowNotFound = errors.New("skill not found")

type Skill struct {
	ID   int64
	Name string
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Skill, error)
	GetByName(ctx context.Context, name string) (Skill, error)
	GetOrCreate(ctx context.Context, name string) (Skill, bool, error)
	CountSkills(ctx context.Context) (int, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindByIDs(ctx context.Context, ids []int64) ([]Skill, error) {
	if len(ids) == 0 {
		return []Skill{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM skills WHERE id = ANY($1) ORDER BY name ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0, len(ids))
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByName(ctx context.Context, name string) (Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM skills WHERE name = $1`, name)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillRowNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

// GetOrCreate inserts the skill and reports created=true, or returns the
// existing row when the name is already taken.
func (r *PostgresSkillRepository) GetOrCreate(ctx context.Context, name string) (Skill, bool, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (name) VALUES ($1)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id, name`,
		name,
	)

	var s Skill
	err := row.Scan(&s.ID, &s.Name)
	if err == nil {
		return s, true, nil
	}
	if err != sql.ErrNoRows && !errors.Is(err, pgx.ErrNoRows) {
		return Skill{}, false, err
	}

	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return Skill{}, false, err
	}
	return existing, false, nil
}

func (r *PostgresSkillRepository) CountSkills(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM skills`)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
