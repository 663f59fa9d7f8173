package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"skill-compass/internal/repository"
)

var (
	ErrSkillAlreadyExists = errors.New("skill already exists")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillNotAttached   = errors.New("skill not attached")
	ErrInvalidInput       = errors.New("invalid input")
)

type UserSkillItem struct {
	SkillID   int64
	SkillName string
}

type UserSkillUsecase interface {
	ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error)
	AttachSkill(ctx context.Context, userID uuid.UUID, skillID int64) (UserSkillItem, error)
	DetachSkill(ctx context.Context, userID uuid.UUID, skillID int64) error
}

type UserSkill struct {
	repo repository.UserSkillRepository
}

func NewUserSkillUsecase(repo repository.UserSkillRepository) *UserSkill {
	return &UserSkill{repo: repo}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]UserSkillItem, error) {
	items, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	out := make([]UserSkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, UserSkillItem{SkillID: it.SkillID, SkillName: it.SkillName})
	}
	return out, nil
}

func (u *UserSkill) AttachSkill(ctx context.Context, userID uuid.UUID, skillID int64) (UserSkillItem, error) {
	if skillID <= 0 {
		return UserSkillItem{}, ErrInvalidInput
	}

	exists, err := u.repo.SkillExistsByID(ctx, skillID)
	if err != nil {
		return UserSkillItem{}, ErrInternal
	}
	if !exists {
		return UserSkillItem{}, ErrSkillNotFound
	}

	created, err := u.repo.Attach(ctx, userID, skillID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillExists):
			return UserSkillItem{}, ErrSkillAlreadyExists
		case isForeignKeyViolation(err):
			return UserSkillItem{}, ErrSkillNotFound
		default:
			return UserSkillItem{}, ErrInternal
		}
	}

	return UserSkillItem{SkillID: created.SkillID, SkillName: created.SkillName}, nil
}

func (u *UserSkill) DetachSkill(ctx context.Context, userID uuid.UUID, skillID int64) error {
	if skillID <= 0 {
		return ErrInvalidInput
	}
	if err := u.repo.Detach(ctx, userID, skillID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserSkillNotFound):
			return ErrSkillNotFound
		case errors.Is(err, repository.ErrUserSkillNotAttached):
			return ErrSkillNotAttached
		default:
			return ErrInternal
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
