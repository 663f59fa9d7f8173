package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skill-compass/internal/database"
	"skill-compass/internal/domain/user"
)

// PostgresUserRepository implements user.Repository on top of the shared
// connection pool.
type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, job_title, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.JobTitle, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, job_title, role, created_at, updated_at
		 FROM users
		 WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, job_title, role, created_at, updated_at
		 FROM users
		 WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListOthersWithSkills returns every user except the excluded one together
// with their attached skill IDs. Users without any skill are left out since
// they cannot overlap with anyone.
func (r *PostgresUserRepository) ListOthersWithSkills(ctx context.Context, exclude uuid.UUID) ([]user.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.username, us.skill_id
		 FROM users u
		 JOIN user_skills us ON us.user_id = u.id
		 WHERE u.id <> $1
		 ORDER BY u.id ASC, us.skill_id ASC`,
		exclude,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Profile, 0)
	for rows.Next() {
		var (
			id       uuid.UUID
			username string
			skillID  int64
		)
		if err := rows.Scan(&id, &username, &skillID); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != id {
			out = append(out, user.Profile{ID: id, Username: username, SkillIDs: make([]int64, 0, 4)})
		}
		out[len(out)-1].SkillIDs = append(out[len(out)-1].SkillIDs, skillID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u        user.User
		jobTitle sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &jobTitle, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if jobTitle.Valid {
		u.JobTitle = &jobTitle.String
	}
	return u, nil
}
