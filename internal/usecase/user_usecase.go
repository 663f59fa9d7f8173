package usecase

import (
	"context"

	"github.com/google/uuid"

	"skill-compass/internal/domain/user"
	"skill-compass/internal/repository"
	ucuser "skill-compass/internal/usecase/user"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, []UserSkillItem, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository, userSkills repository.UserSkillRepository) *User {
	return &User{svc: ucuser.NewService(users, userSkills)}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, []UserSkillItem, error) {
	usr, skills, err := u.svc.GetMe(ctx, userID)
	if err != nil {
		return user.User{}, nil, err
	}

	items := make([]UserSkillItem, 0, len(skills))
	for _, s := range skills {
		items = append(items, UserSkillItem{SkillID: s.SkillID, SkillName: s.SkillName})
	}
	return usr, items, nil
}
