package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"skill-compass/internal/database"
	"skill-compass/internal/domain/audit"
)

// AuditRepository persists one row per served recommendation so admins can
// review what the engine returned and to whom.
type AuditRepository interface {
	Insert(ctx context.Context, userID uuid.UUID, ipAddress *string, algorithm string, result json.RawMessage) error
	List(ctx context.Context, skip, limit int) ([]audit.RecommendationRecord, error)
	CountRecords(ctx context.Context) (int64, error)
}

type PostgresAuditRepository struct {
	db database.DB
}

func NewPostgresAuditRepository(db database.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Insert(ctx context.Context, userID uuid.UUID, ipAddress *string, algorithm string, result json.RawMessage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO recommendation_audit (user_id, ip_address, algorithm, result)
		 VALUES ($1, $2, $3, $4::jsonb)`,
		userID, ipAddress, algorithm, result,
	)
	return err
}

// List returns records newest first. The username is resolved at read time so
// records survive even if the user row changes.
func (r *PostgresAuditRepository) List(ctx context.Context, skip, limit int) ([]audit.RecommendationRecord, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT ra.id, ra.user_id, u.username, ra.ip_address, ra.algorithm, ra.result, ra.created_at
		 FROM recommendation_audit ra
		 LEFT JOIN users u ON u.id = ra.user_id
		 ORDER BY ra.created_at DESC, ra.id DESC
		 OFFSET $1 LIMIT $2`,
		skip, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.RecommendationRecord, 0)
	for rows.Next() {
		var (
			rec      audit.RecommendationRecord
			username sql.NullString
			ip       sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &username, &ip, &rec.Algorithm, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if username.Valid {
			rec.Username = &username.String
		}
		if ip.Valid {
			rec.IPAddress = &ip.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAuditRepository) CountRecords(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recommendation_audit`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
