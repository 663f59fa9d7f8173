package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skill-compass/internal/domain/user"
)

type stubUserRepo struct {
	profiles []user.Profile
	err      error
}

func (s stubUserRepo) Create(ctx context.Context, u user.User) error { return nil }

func (s stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (s stubUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (s stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (s stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (s stubUserRepo) ListOthersWithSkills(ctx context.Context, exclude uuid.UUID) ([]user.Profile, error) {
	return s.profiles, s.err
}

func suggestionPeers() []user.Profile {
	return []user.Profile{
		{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Username: "casey", SkillIDs: []int64{1, 3}},
		{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Username: "jordan", SkillIDs: []int64{4}},
		{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Username: "riley", SkillIDs: []int64{1, 2, 5}},
	}
}

func TestSuggestSkillsFromClosestPeers(t *testing.T) {
	audits := &recordingAuditRepo{}
	uc := NewSuggestionUsecase(
		stubUserRepo{profiles: suggestionPeers()},
		stubUserSkillRepo{items: recUserSkills()},
		stubSkillRepo{catalog: recCatalog()},
		audits,
		nil,
		SuggestionOptions{},
		nil,
	)

	res, err := uc.SuggestSkills(context.Background(), uuid.New(), 0, "192.168.1.9")
	if err != nil {
		t.Fatalf("SuggestSkills: %v", err)
	}

	// riley shares both of the caller's skills, casey one, jordan none.
	if len(res.SimilarUsers) != 2 {
		t.Fatalf("similar users = %v, want riley and casey", res.SimilarUsers)
	}
	if res.SimilarUsers[0].Username != "riley" || res.SimilarUsers[1].Username != "casey" {
		t.Fatalf("order = [%s %s], want [riley casey]",
			res.SimilarUsers[0].Username, res.SimilarUsers[1].Username)
	}
	if res.SimilarUsers[0].SimilarityScore <= res.SimilarUsers[1].SimilarityScore {
		t.Fatalf("scores not descending: %v then %v",
			res.SimilarUsers[0].SimilarityScore, res.SimilarUsers[1].SimilarityScore)
	}
	if res.SimilarUsers[1].SimilarityScore <= 0 {
		t.Fatalf("overlapping peer scored %v, want > 0", res.SimilarUsers[1].SimilarityScore)
	}

	// Union of the peers' skills minus the caller's own, name-ordered.
	if len(res.RecommendedSkills) != 2 {
		t.Fatalf("recommended = %v", res.RecommendedSkills)
	}
	if res.RecommendedSkills[0].Name != "Kubernetes" || res.RecommendedSkills[1].Name != "Python" {
		t.Fatalf("recommended order = %v", res.RecommendedSkills)
	}

	if _, err := time.Parse(time.RFC3339, res.GeneratedAt); err != nil {
		t.Fatalf("generated_at %q not RFC3339: %v", res.GeneratedAt, err)
	}
	if len(audits.algorithms) != 1 || audits.algorithms[0] != AlgorithmSuggest {
		t.Fatalf("audit algorithms = %v", audits.algorithms)
	}
	if audits.ips[0] == nil || *audits.ips[0] != "192.168.1.9" {
		t.Fatalf("audit ip = %v", audits.ips[0])
	}
}

func TestSuggestSkillsHonorsTopN(t *testing.T) {
	uc := NewSuggestionUsecase(
		stubUserRepo{profiles: suggestionPeers()},
		stubUserSkillRepo{items: recUserSkills()},
		stubSkillRepo{catalog: recCatalog()},
		&recordingAuditRepo{},
		nil,
		SuggestionOptions{},
		nil,
	)

	res, err := uc.SuggestSkills(context.Background(), uuid.New(), 1, "")
	if err != nil {
		t.Fatalf("SuggestSkills: %v", err)
	}

	if len(res.SimilarUsers) != 1 || res.SimilarUsers[0].Username != "riley" {
		t.Fatalf("similar users = %v, want only riley", res.SimilarUsers)
	}
	// Only riley's skills feed the pool now, so casey's Python drops out.
	if len(res.RecommendedSkills) != 1 || res.RecommendedSkills[0].Name != "Kubernetes" {
		t.Fatalf("recommended = %v, want only Kubernetes", res.RecommendedSkills)
	}
}

func TestSuggestSkillsEmptyProfile(t *testing.T) {
	uc := NewSuggestionUsecase(
		stubUserRepo{profiles: suggestionPeers()},
		stubUserSkillRepo{},
		stubSkillRepo{catalog: recCatalog()},
		&recordingAuditRepo{},
		nil,
		SuggestionOptions{},
		nil,
	)

	res, err := uc.SuggestSkills(context.Background(), uuid.New(), 0, "")
	if err != nil {
		t.Fatalf("empty profile should not fail: %v", err)
	}
	if len(res.SimilarUsers) != 0 || len(res.RecommendedSkills) != 0 {
		t.Fatalf("got %+v, want empty lists", res)
	}
}

func TestSuggestSkillsRequiresUser(t *testing.T) {
	uc := NewSuggestionUsecase(stubUserRepo{}, stubUserSkillRepo{}, stubSkillRepo{}, nil, nil, SuggestionOptions{}, nil)

	if _, err := uc.SuggestSkills(context.Background(), uuid.Nil, 0, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
