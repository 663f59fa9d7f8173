package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"skill-compass/internal/domain/recommend"
	"skill-compass/internal/repository"
)

// RecommendationOptions carries the engine tunables resolved from config.
type RecommendationOptions struct {
	Weights      recommend.Weights
	Workers      int
	GapTopJobs   int
	GapMaxSkills int
}

type RecommendationUsecase interface {
	RecommendCosine(ctx context.Context, userID uuid.UUID, clientIP string) (CosineResult, error)
	RecommendLLR(ctx context.Context, userID uuid.UUID, clientIP string) (LLRResult, error)
	RecommendCombined(ctx context.Context, userID uuid.UUID, override *recommend.Weights, clientIP string) (CombinedResult, error)
	AnalyzeJobSkills(ctx context.Context, userID uuid.UUID, jobID int64, clientIP string) (SkillsAnalysisResult, error)
}

type Recommendation struct {
	userSkills repository.UserSkillRepository
	jobs       repository.JobRepository
	skills     repository.SkillRepository
	audits     repository.AuditRepository
	cache      RecommendationCache
	opts       RecommendationOptions
	logger     *log.Logger
}

func NewRecommendationUsecase(
	userSkills repository.UserSkillRepository,
	jobs repository.JobRepository,
	skills repository.SkillRepository,
	audits repository.AuditRepository,
	cache RecommendationCache,
	opts RecommendationOptions,
	logger *log.Logger,
) *Recommendation {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Weights.Validate() != nil {
		opts.Weights = recommend.DefaultWeights()
	}
	return &Recommendation{
		userSkills: userSkills,
		jobs:       jobs,
		skills:     skills,
		audits:     audits,
		cache:      cache,
		opts:       opts,
		logger:     logger,
	}
}

// skillProfile is the caller's side of a scoring request. It is loaded before
// the cache probe because the cache key hashes the skill set.
type skillProfile struct {
	skillIDs   []int64
	skillNames []string
	set        recommend.SkillSet
}

func (u *Recommendation) loadProfile(ctx context.Context, userID uuid.UUID) (skillProfile, error) {
	if userID == uuid.Nil {
		return skillProfile{}, ErrUnauthorized
	}

	us, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return skillProfile{}, ErrInternal
	}

	skillIDs := make([]int64, 0, len(us))
	skillNames := make([]string, 0, len(us))
	for _, it := range us {
		skillIDs = append(skillIDs, it.SkillID)
		skillNames = append(skillNames, it.SkillName)
	}

	return skillProfile{
		skillIDs:   skillIDs,
		skillNames: skillNames,
		set:        recommend.NewSkillSet(skillIDs),
	}, nil
}

// corpusView is the immutable per-request snapshot every algorithm scores
// against: the whole job corpus, the skill universe and the corpus-wide
// frequency table. Loaded only on cache misses.
type corpusView struct {
	jobs     []recommend.Job
	universe recommend.Universe
	freq     recommend.FrequencyTable
}

func (u *Recommendation) loadCorpus(ctx context.Context) (corpusView, error) {
	rows, err := u.jobs.LoadCorpus(ctx)
	if err != nil {
		return corpusView{}, ErrInternal
	}
	corpus := make([]recommend.Job, 0, len(rows))
	for _, row := range rows {
		skills := make([]recommend.Skill, 0, len(row.Skills))
		for _, ref := range row.Skills {
			skills = append(skills, recommend.Skill{ID: ref.SkillID, Name: ref.SkillName})
		}
		corpus = append(corpus, recommend.Job{ID: row.ID, Title: row.Title, Skills: skills})
	}

	catalog, err := u.skills.GetAllSkills(ctx)
	if err != nil {
		return corpusView{}, ErrInternal
	}
	universeIDs := make([]int64, 0, len(catalog))
	for _, s := range catalog {
		universeIDs = append(universeIDs, s.ID)
	}

	return corpusView{
		jobs:     corpus,
		universe: recommend.NewUniverse(universeIDs),
		freq:     recommend.NewFrequencyTable(corpus),
	}, nil
}

func (u *Recommendation) RecommendCosine(ctx context.Context, userID uuid.UUID, clientIP string) (CosineResult, error) {
	p, err := u.loadProfile(ctx, userID)
	if err != nil {
		return CosineResult{}, err
	}

	key := RecommendationCacheKey(AlgorithmCosine, p.skillIDs, 0, 0, u.corpusVersion(ctx))
	var cached CosineResult
	if u.cacheGet(ctx, key, &cached) {
		u.recordAudit(ctx, userID, clientIP, AlgorithmCosine, cached)
		return cached, nil
	}

	cv, err := u.loadCorpus(ctx)
	if err != nil {
		return CosineResult{}, err
	}

	scores := recommend.ScoreAll(p.set, cv.jobs, cv.universe, cv.freq, u.opts.Workers)
	ordered := recommend.SortByScore(scores, func(s recommend.JobScore) float64 { return s.Cosine })
	res := buildCosineResult(ordered, p.skillNames, time.Now().UTC())

	u.cacheSet(ctx, key, res)
	u.recordAudit(ctx, userID, clientIP, AlgorithmCosine, res)
	return res, nil
}

func (u *Recommendation) RecommendLLR(ctx context.Context, userID uuid.UUID, clientIP string) (LLRResult, error) {
	p, err := u.loadProfile(ctx, userID)
	if err != nil {
		return LLRResult{}, err
	}

	key := RecommendationCacheKey(AlgorithmLLR, p.skillIDs, 0, 0, u.corpusVersion(ctx))
	var cached LLRResult
	if u.cacheGet(ctx, key, &cached) {
		u.recordAudit(ctx, userID, clientIP, AlgorithmLLR, cached)
		return cached, nil
	}

	cv, err := u.loadCorpus(ctx)
	if err != nil {
		return LLRResult{}, err
	}

	scores := recommend.ScoreAll(p.set, cv.jobs, cv.universe, cv.freq, u.opts.Workers)
	ordered := recommend.SortByScore(scores, func(s recommend.JobScore) float64 { return s.LLR })
	res := buildLLRResult(ordered, p.skillNames, time.Now().UTC())

	u.cacheSet(ctx, key, res)
	u.recordAudit(ctx, userID, clientIP, AlgorithmLLR, res)
	return res, nil
}

// RecommendCombined validates weights before anything is loaded or scored, so
// a bad pair can never produce partial results.
func (u *Recommendation) RecommendCombined(ctx context.Context, userID uuid.UUID, override *recommend.Weights, clientIP string) (CombinedResult, error) {
	weights := u.opts.Weights
	if override != nil {
		weights = *override
	}
	if err := weights.Validate(); err != nil {
		return CombinedResult{}, err
	}

	p, err := u.loadProfile(ctx, userID)
	if err != nil {
		return CombinedResult{}, err
	}

	key := RecommendationCacheKey(AlgorithmCombined, p.skillIDs, weights.Cosine, weights.LLR, u.corpusVersion(ctx))
	var cached CombinedResult
	if u.cacheGet(ctx, key, &cached) {
		u.recordAudit(ctx, userID, clientIP, AlgorithmCombined, cached)
		return cached, nil
	}

	cv, err := u.loadCorpus(ctx)
	if err != nil {
		return CombinedResult{}, err
	}

	scores := recommend.ScoreAll(p.set, cv.jobs, cv.universe, cv.freq, u.opts.Workers)
	ranked, err := recommend.Rank(scores, weights)
	if err != nil {
		return CombinedResult{}, err
	}

	cosOrdered := recommend.SortByScore(scores, func(s recommend.JobScore) float64 { return s.Cosine })
	llrOrdered := recommend.SortByScore(scores, func(s recommend.JobScore) float64 { return s.LLR })

	now := time.Now().UTC()
	res := CombinedResult{
		Cosine:                  buildCosineResult(cosOrdered, p.skillNames, now),
		LLR:                     buildLLRResult(llrOrdered, p.skillNames, now),
		CombinedRecommendations: buildCombinedRecommendations(ranked),
		Weights:                 WeightSettings{Cosine: weights.Cosine, LLR: weights.LLR},
		Summary:                 CombinedSummary{TotalJobs: len(cv.jobs), UserSkillCount: len(p.skillIDs)},
		RecommendationDate:      now.Format(time.RFC3339),
	}

	u.cacheSet(ctx, key, res)
	u.recordAudit(ctx, userID, clientIP, AlgorithmCombined, res)
	return res, nil
}

func (u *Recommendation) AnalyzeJobSkills(ctx context.Context, userID uuid.UUID, jobID int64, clientIP string) (SkillsAnalysisResult, error) {
	if jobID <= 0 {
		return SkillsAnalysisResult{}, ErrJobNotFound
	}

	p, err := u.loadProfile(ctx, userID)
	if err != nil {
		return SkillsAnalysisResult{}, err
	}

	key := SkillsAnalysisCacheKey(jobID, p.skillIDs, u.corpusVersion(ctx))
	var cached SkillsAnalysisResult
	if u.cacheGet(ctx, key, &cached) {
		u.recordAudit(ctx, userID, clientIP, AlgorithmAnalysis, cached)
		return cached, nil
	}

	cv, err := u.loadCorpus(ctx)
	if err != nil {
		return SkillsAnalysisResult{}, err
	}

	var target *recommend.Job
	for i := range cv.jobs {
		if cv.jobs[i].ID == jobID {
			target = &cv.jobs[i]
			break
		}
	}
	if target == nil {
		return SkillsAnalysisResult{}, ErrJobNotFound
	}

	scores := recommend.ScoreAll(p.set, cv.jobs, cv.universe, cv.freq, u.opts.Workers)
	ranked, err := recommend.Rank(scores, u.opts.Weights)
	if err != nil {
		return SkillsAnalysisResult{}, ErrInternal
	}
	gap := recommend.AnalyzeGap(p.set, *target, ranked, u.opts.GapTopJobs, u.opts.GapMaxSkills)

	var cosineScore, llrScore float64
	for _, s := range scores {
		if s.Job.ID == jobID {
			cosineScore, llrScore = s.Cosine, s.LLR
			break
		}
	}

	res := SkillsAnalysisResult{
		Job: AnalyzedJob{
			JobID:  target.ID,
			Title:  target.Title,
			Skills: skillNames(target.Skills),
		},
		SimilarityScores: SimilarityScores{
			CosineSimilarity: round4(cosineScore),
			LLRSimilarity:    round4(llrScore),
		},
		SkillsAnalysis: SkillsBreakdown{
			MatchingSkills:    skillNames(gap.Matching),
			RecommendedSkills: skillNames(gap.Recommended),
			MissingSkills:     skillNames(gap.Missing),
		},
		Stats: SkillsAnalysisStats{
			TotalUserSkills:  len(p.skillIDs),
			TotalJobSkills:   len(gap.Matching) + len(gap.Missing),
			MatchingCount:    len(gap.Matching),
			MissingCount:     len(gap.Missing),
			RecommendedCount: len(gap.Recommended),
			MatchPercentage:  gap.MatchPercentage,
		},
	}

	u.cacheSet(ctx, key, res)
	u.recordAudit(ctx, userID, clientIP, AlgorithmAnalysis, res)
	return res, nil
}

func (u *Recommendation) corpusVersion(ctx context.Context) int64 {
	if u.cache == nil {
		return 0
	}
	v, err := u.cache.CorpusVersion(ctx)
	if err != nil {
		return 0
	}
	return v
}

func (u *Recommendation) cacheGet(ctx context.Context, key string, out any) bool {
	if u.cache == nil {
		return false
	}
	hit, err := u.cache.GetJSON(ctx, key, out)
	if err != nil || !hit {
		return false
	}
	if u.logger != nil {
		u.logger.Printf("[Recs] Cache HIT: %s", key)
	}
	return true
}

func (u *Recommendation) cacheSet(ctx context.Context, key string, value any) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, value, 0); err != nil && u.logger != nil {
		u.logger.Printf("[Recs] Cache write error | key=%s err=%v", key, err)
	}
}

// recordAudit never fails the request; a broken audit trail is logged and
// served around.
func (u *Recommendation) recordAudit(ctx context.Context, userID uuid.UUID, clientIP, algorithm string, result any) {
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
	if err := u.audits.Insert(ctx, userID, ip, algorithm, payload); err != nil && u.logger != nil {
		u.logger.Printf("[Recs] Audit insert error | algorithm=%s err=%v", algorithm, err)
	}
}
