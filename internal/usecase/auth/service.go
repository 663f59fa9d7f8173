package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill-compass/internal/domain/user"
	"skill-compass/internal/repository"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUsernameAlreadyTaken   = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidSkillIDs        = errors.New("one or more skill ids do not exist")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	JobTitle *string
	SkillIDs []int64
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, error)
	Login(ctx context.Context, in LoginInput) (user.User, error)
}

type Service struct {
	users      user.Repository
	skills     repository.SkillRepository
	userSkills repository.UserSkillRepository
}

func NewService(users user.Repository, skills repository.SkillRepository, userSkills repository.UserSkillRepository) *Service {
	return &Service{users: users, skills: skills, userSkills: userSkills}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return user.User{}, ErrInvalidInput
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if taken {
		return user.User{}, ErrUsernameAlreadyTaken
	}

	skillIDs := dedupeIDs(in.SkillIDs)
	if len(skillIDs) > 0 {
		found, err := s.skills.FindByIDs(ctx, skillIDs)
		if err != nil {
			return user.User{}, ErrInternal
		}
		if len(found) != len(skillIDs) {
			return user.User{}, ErrInvalidSkillIDs
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		JobTitle:     normalizeJobTitle(in.JobTitle),
		Role:         user.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// A concurrent register may have won the unique index race.
		if exists, exErr := s.users.ExistsByEmail(ctx, email); exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		if taken, exErr := s.users.ExistsByUsername(ctx, username); exErr == nil && taken {
			return user.User{}, ErrUsernameAlreadyTaken
		}
		return user.User{}, ErrInternal
	}

	if len(skillIDs) > 0 {
		if err := s.userSkills.AttachMany(ctx, u.ID, skillIDs); err != nil {
			return user.User{}, ErrInternal
		}
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func normalizeJobTitle(title *string) *string {
	if title == nil {
		return nil
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil
	}
	return &t
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	if len(pw) < 8 {
		return false
	}
	return true
}

func dedupeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
