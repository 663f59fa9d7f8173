package usecase

import (
	"context"
	"strings"

	"skill-compass/internal/repository"
)

type SkillItem struct {
	ID   int64
	Name string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	AddSkill(ctx context.Context, name string) (SkillItem, bool, error)
}

type Skill struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}
	return out, nil
}

// AddSkill puts a name into the catalog. Posting an existing name returns the
// stored row instead of failing; the bool reports whether a row was created.
func (u *Skill) AddSkill(ctx context.Context, name string) (SkillItem, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, false, ErrInvalidInput
	}

	skill, created, err := u.repo.GetOrCreate(ctx, name)
	if err != nil {
		return SkillItem{}, false, ErrInternal
	}
	return SkillItem{ID: skill.ID, Name: skill.Name}, created, nil
}
