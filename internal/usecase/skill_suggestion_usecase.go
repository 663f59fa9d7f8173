package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-compass/internal/domain/recommend"
	"skill-compass/internal/domain/user"
	"skill-compass/internal/repository"
)

// SuggestionOptions carries the peer-matching tunables resolved from config.
type SuggestionOptions struct {
	// TopUsers is how many similar users feed the suggestion pool when the
	// caller does not ask for a specific count.
	TopUsers int
	// MaxSkills caps the recommended list; zero means uncapped.
	MaxSkills int
	// TTL bounds how long a suggestion entry may serve from cache. Peer
	// profiles shift underneath the key, so this stays short.
	TTL time.Duration
}

const maxSuggestionUsers = 20

type SimilarUser struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	SimilarityScore float64   `json:"similarity_score"`
}

// SkillSuggestionResult lists the caller's closest peers by skill overlap and
// the skills those peers have that the caller lacks.
type SkillSuggestionResult struct {
	SimilarUsers      []SimilarUser `json:"similar_users"`
	RecommendedSkills []SkillItem   `json:"recommended_skills"`
	GeneratedAt       string        `json:"generated_at"`
}

type SkillSuggestionUsecase interface {
	SuggestSkills(ctx context.Context, userID uuid.UUID, topN int, clientIP string) (SkillSuggestionResult, error)
}

type Suggestion struct {
	users      user.Repository
	userSkills repository.UserSkillRepository
	skills     repository.SkillRepository
	audits     repository.AuditRepository
	cache      RecommendationCache
	opts       SuggestionOptions
	logger     *log.Logger
}

func NewSuggestionUsecase(
	users user.Repository,
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	audits repository.AuditRepository,
	cache RecommendationCache,
	opts SuggestionOptions,
	logger *log.Logger,
) *Suggestion {
	if opts.TopUsers <= 0 {
		opts.TopUsers = 5
	}
	return &Suggestion{
		users:      users,
		userSkills: userSkills,
		skills:     skills,
		audits:     audits,
		cache:      cache,
		opts:       opts,
		logger:     logger,
	}
}

// SuggestSkills scores every other user's skill set against the caller's with
// the pair-level log-likelihood ratio, keeps the topN closest, and returns the
// union of their skills minus what the caller already has. Users sharing no
// skill with the caller never enter the candidate pool.
func (u *Suggestion) SuggestSkills(ctx context.Context, userID uuid.UUID, topN int, clientIP string) (SkillSuggestionResult, error) {
	if userID == uuid.Nil {
		return SkillSuggestionResult{}, ErrUnauthorized
	}
	if topN <= 0 {
		topN = u.opts.TopUsers
	}
	if topN > maxSuggestionUsers {
		topN = maxSuggestionUsers
	}

	own, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return SkillSuggestionResult{}, ErrInternal
	}
	ownIDs := make([]int64, 0, len(own))
	for _, it := range own {
		ownIDs = append(ownIDs, it.SkillID)
	}
	ownSet := recommend.NewSkillSet(ownIDs)

	key := SkillSuggestionCacheKey(userID, ownIDs, topN, u.corpusVersion(ctx))
	var cached SkillSuggestionResult
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Suggest] Cache HIT: %s", key)
			}
			u.recordAudit(ctx, userID, clientIP, cached)
			return cached, nil
		}
	}

	catalog, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return SkillSuggestionResult{}, ErrInternal
	}

	profiles, err := u.users.ListOthersWithSkills(ctx, userID)
	if err != nil {
		return SkillSuggestionResult{}, ErrInternal
	}

	type candidate struct {
		profile user.Profile
		score   float64
	}
	candidates := make([]candidate, 0, len(profiles))
	for _, p := range profiles {
		otherSet := recommend.NewSkillSet(p.SkillIDs)
		if ownSet.SharedWith(otherSet) == 0 {
			continue
		}
		score := round4(recommend.PairLLR(ownSet, otherSet, len(catalog)))
		candidates = append(candidates, candidate{profile: p, score: score})
	}

	// Stable keeps the repository's user-id order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	similar := make([]SimilarUser, 0, len(candidates))
	pool := make(map[int64]struct{})
	for _, c := range candidates {
		similar = append(similar, SimilarUser{
			UserID:          c.profile.ID,
			Username:        c.profile.Username,
			SimilarityScore: c.score,
		})
		for _, id := range c.profile.SkillIDs {
			if _, has := ownSet[id]; has {
				continue
			}
			pool[id] = struct{}{}
		}
	}

	recommended, err := u.resolveSkills(ctx, pool)
	if err != nil {
		return SkillSuggestionResult{}, ErrInternal
	}

	res := SkillSuggestionResult{
		SimilarUsers:      similar,
		RecommendedSkills: recommended,
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, res, u.opts.TTL); err != nil && u.logger != nil {
			u.logger.Printf("[Suggest] Cache write error | key=%s err=%v", key, err)
		}
	}
	u.recordAudit(ctx, userID, clientIP, res)
	return res, nil
}

func (u *Suggestion) resolveSkills(ctx context.Context, ids map[int64]struct{}) ([]SkillItem, error) {
	out := make([]SkillItem, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	flat := make([]int64, 0, len(ids))
	for id := range ids {
		flat = append(flat, id)
	}
	rows, err := u.skills.FindByIDs(ctx, flat)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out = append(out, SkillItem{ID: s.ID, Name: s.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if u.opts.MaxSkills > 0 && len(out) > u.opts.MaxSkills {
		out = out[:u.opts.MaxSkills]
	}
	return out, nil
}

func (u *Suggestion) recordAudit(ctx context.Context, userID uuid.UUID, clientIP string, result SkillSuggestionResult) {
	if u.audits == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	var ip *string
	if s := strings.TrimSpace(clientIP); s != "" {
		ip = &s
	}
	if err := u.audits.Insert(ctx, userID, ip, AlgorithmSuggest, payload); err != nil && u.logger != nil {
		u.logger.Printf("[Suggest] Audit insert error | err=%v", err)
	}
}

func (u *Suggestion) corpusVersion(ctx context.Context) int64 {
	if u.cache == nil {
		return 0
	}
	v, err := u.cache.CorpusVersion(ctx)
	if err != nil {
		return 0
	}
	return v
}
