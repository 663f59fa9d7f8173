package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"skill-compass/internal/domain/user"
	"skill-compass/internal/repository"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

type Service struct {
	users      user.Repository
	userSkills repository.UserSkillRepository
}

func NewService(users user.Repository, userSkills repository.UserSkillRepository) *Service {
	return &Service{users: users, userSkills: userSkills}
}

// GetMe loads the authenticated user's profile together with their skills,
// ordered by skill name.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, []repository.UserSkill, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, nil, ErrNotFound
		}
		return user.User{}, nil, ErrInternal
	}

	skills, err := s.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return user.User{}, nil, ErrInternal
	}

	return sanitizeUser(usr), skills, nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
