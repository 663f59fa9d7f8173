package usecase

import (
	"context"

	"skill-compass/internal/domain/audit"
	"skill-compass/internal/repository"
)

// AuditUsecase exposes the recommendation audit trail. Access control is the
// delivery layer's job; everything here is already admin-scoped.
type AuditUsecase interface {
	ListHistory(ctx context.Context, skip, limit int) ([]audit.RecommendationRecord, int64, error)
}

type Audit struct {
	audits repository.AuditRepository
}

func NewAuditUsecase(audits repository.AuditRepository) *Audit {
	return &Audit{audits: audits}
}

func (u *Audit) ListHistory(ctx context.Context, skip, limit int) ([]audit.RecommendationRecord, int64, error) {
	records, err := u.audits.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, ErrInternal
	}
	total, err := u.audits.CountRecords(ctx)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return records, total, nil
}
