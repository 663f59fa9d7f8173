package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"skill-compass/internal/domain/audit"
	"skill-compass/internal/domain/recommend"
	"skill-compass/internal/repository"
)

type stubUserSkillRepo struct {
	items []repository.UserSkill
	err   error
}

func (s stubUserSkillRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]repository.UserSkill, error) {
	return s.items, s.err
}

func (s stubUserSkillRepo) SkillIDsByUserID(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	ids := make([]int64, 0, len(s.items))
	for _, it := range s.items {
		ids = append(ids, it.SkillID)
	}
	return ids, s.err
}

func (s stubUserSkillRepo) SkillExistsByID(ctx context.Context, skillID int64) (bool, error) {
	return true, nil
}

func (s stubUserSkillRepo) Attach(ctx context.Context, userID uuid.UUID, skillID int64) (repository.UserSkill, error) {
	return repository.UserSkill{}, nil
}

func (s stubUserSkillRepo) AttachMany(ctx context.Context, userID uuid.UUID, skillIDs []int64) error {
	return nil
}

func (s stubUserSkillRepo) Detach(ctx context.Context, userID uuid.UUID, skillID int64) error {
	return nil
}

type stubJobRepo struct {
	corpus []repository.CorpusJob
	err    error
}

func (s stubJobRepo) ExistsByID(ctx context.Context, jobID int64) (bool, error) { return false, nil }
func (s stubJobRepo) GetByID(ctx context.Context, jobID int64) (repository.JobRow, error) {
	return repository.JobRow{}, repository.ErrJobNotFound
}
func (s stubJobRepo) CountJobs(ctx context.Context) (int, error) { return len(s.corpus), nil }
func (s stubJobRepo) ListJobs(ctx context.Context, limit, offset int) ([]repository.JobRow, error) {
	return nil, nil
}
func (s stubJobRepo) CreateJob(ctx context.Context, in repository.JobCreate) (int64, error) {
	return 0, nil
}
func (s stubJobRepo) LoadCorpus(ctx context.Context) ([]repository.CorpusJob, error) {
	return s.corpus, s.err
}

// countingJobRepo tracks corpus loads so tests can tell a cache hit from a
// rescoring pass.
type countingJobRepo struct {
	corpus []repository.CorpusJob
	loads  int
}

func (s *countingJobRepo) ExistsByID(ctx context.Context, jobID int64) (bool, error) {
	return false, nil
}
func (s *countingJobRepo) GetByID(ctx context.Context, jobID int64) (repository.JobRow, error) {
	return repository.JobRow{}, repository.ErrJobNotFound
}
func (s *countingJobRepo) CountJobs(ctx context.Context) (int, error) { return len(s.corpus), nil }
func (s *countingJobRepo) ListJobs(ctx context.Context, limit, offset int) ([]repository.JobRow, error) {
	return nil, nil
}
func (s *countingJobRepo) CreateJob(ctx context.Context, in repository.JobCreate) (int64, error) {
	return 0, nil
}
func (s *countingJobRepo) LoadCorpus(ctx context.Context) ([]repository.CorpusJob, error) {
	s.loads++
	return s.corpus, nil
}

type stubSkillRepo struct {
	catalog []repository.Skill
}

func (s stubSkillRepo) GetAllSkills(ctx context.Context) ([]repository.Skill, error) {
	return s.catalog, nil
}

func (s stubSkillRepo) FindByIDs(ctx context.Context, ids []int64) ([]repository.Skill, error) {
	out := make([]repository.Skill, 0, len(ids))
	for _, id := range ids {
		for _, sk := range s.catalog {
			if sk.ID == id {
				out = append(out, sk)
			}
		}
	}
	return out, nil
}

func (s stubSkillRepo) GetByName(ctx context.Context, name string) (repository.Skill, error) {
	for _, sk := range s.catalog {
		if sk.Name == name {
			return sk, nil
		}
	}
	return repository.Skill{}, repository.ErrSkillRowNotFound
}

func (s stubSkillRepo) GetOrCreate(ctx context.Context, name string) (repository.Skill, bool, error) {
	return repository.Skill{}, false, nil
}

func (s stubSkillRepo) CountSkills(ctx context.Context) (int, error) { return len(s.catalog), nil }

type recordingAuditRepo struct {
	algorithms []string
	ips        []*string
}

func (a *recordingAuditRepo) Insert(ctx context.Context, userID uuid.UUID, ipAddress *string, algorithm string, result json.RawMessage) error {
	a.algorithms = append(a.algorithms, algorithm)
	a.ips = append(a.ips, ipAddress)
	return nil
}

func (a *recordingAuditRepo) List(ctx context.Context, skip, limit int) ([]audit.RecommendationRecord, error) {
	return nil, nil
}

func (a *recordingAuditRepo) CountRecords(ctx context.Context) (int64, error) {
	return int64(len(a.algorithms)), nil
}

type memCache struct {
	store   map[string][]byte
	version int64
}

func newMemCache() *memCache {
	return &memCache{store: make(map[string][]byte)}
}

func (c *memCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *memCache) CorpusVersion(ctx context.Context) (int64, error) {
	return c.version, nil
}

func (c *memCache) InvalidateRecommendations(ctx context.Context) error {
	c.version++
	c.store = make(map[string][]byte)
	return nil
}

func recCatalog() []repository.Skill {
	return []repository.Skill{
		{ID: 1, Name: "Go"},
		{ID: 2, Name: "Docker"},
		{ID: 3, Name: "Python"},
		{ID: 4, Name: "Rust"},
		{ID: 5, Name: "Kubernetes"},
	}
}

func recCorpus() []repository.CorpusJob {
	return []repository.CorpusJob{
		{ID: 10, Title: "Platform Engineer", Skills: []repository.JobSkillRef{
			{SkillID: 1, SkillName: "Go"}, {SkillID: 2, SkillName: "Docker"},
		}},
		{ID: 20, Title: "Backend Engineer", Skills: []repository.JobSkillRef{
			{SkillID: 1, SkillName: "Go"}, {SkillID: 3, SkillName: "Python"},
		}},
		{ID: 30, Title: "Systems Programmer", Skills: []repository.JobSkillRef{
			{SkillID: 4, SkillName: "Rust"},
		}},
	}
}

func recUserSkills() []repository.UserSkill {
	return []repository.UserSkill{
		{SkillID: 1, SkillName: "Go"},
		{SkillID: 2, SkillName: "Docker"},
	}
}

func TestRecommendCosineRanksByOverlap(t *testing.T) {
	audits := &recordingAuditRepo{}
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		stubJobRepo{corpus: recCorpus()},
		stubSkillRepo{catalog: recCatalog()},
		audits,
		nil,
		RecommendationOptions{Workers: 2},
		nil,
	)

	res, err := uc.RecommendCosine(context.Background(), uuid.New(), "10.0.0.1")
	if err != nil {
		t.Fatalf("RecommendCosine: %v", err)
	}

	if res.TotalJobsAnalyzed != 3 {
		t.Fatalf("total jobs analyzed = %d, want 3", res.TotalJobsAnalyzed)
	}
	if len(res.AllRecommendations) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(res.AllRecommendations))
	}

	wantOrder := []int64{10, 20, 30}
	wantScores := []float64{1, 0.5, 0}
	for i, rec := range res.AllRecommendations {
		if rec.JobID != wantOrder[i] {
			t.Fatalf("position %d job = %d, want %d", i, rec.JobID, wantOrder[i])
		}
		if rec.CosineScore != wantScores[i] {
			t.Fatalf("job %d cosine = %v, want %v", rec.JobID, rec.CosineScore, wantScores[i])
		}
	}

	if res.TopRecommendation == nil || res.TopRecommendation.JobID != 10 {
		t.Fatalf("top recommendation = %+v, want job 10", res.TopRecommendation)
	}
	if len(res.UserSkills) != 2 || res.UserSkills[0] != "Go" {
		t.Fatalf("user skills = %v", res.UserSkills)
	}
	if _, err := time.Parse(time.RFC3339, res.RecommendationDate); err != nil {
		t.Fatalf("recommendation date %q not RFC3339: %v", res.RecommendationDate, err)
	}

	if len(audits.algorithms) != 1 || audits.algorithms[0] != AlgorithmCosine {
		t.Fatalf("audit algorithms = %v", audits.algorithms)
	}
	if audits.ips[0] == nil || *audits.ips[0] != "10.0.0.1" {
		t.Fatalf("audit ip = %v", audits.ips[0])
	}
}

func TestRecommendCosineEmptyProfile(t *testing.T) {
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{},
		stubJobRepo{corpus: recCorpus()},
		stubSkillRepo{catalog: recCatalog()},
		&recordingAuditRepo{},
		nil,
		RecommendationOptions{},
		nil,
	)

	res, err := uc.RecommendCosine(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("empty profile should not fail: %v", err)
	}
	if res.TopRecommendation != nil {
		t.Fatalf("top recommendation = %+v, want nil when nothing scores", res.TopRecommendation)
	}
	if res.TotalJobsAnalyzed != 3 {
		t.Fatalf("total jobs analyzed = %d, want 3", res.TotalJobsAnalyzed)
	}
	for i, want := range []int64{10, 20, 30} {
		if got := res.AllRecommendations[i]; got.JobID != want || got.CosineScore != 0 {
			t.Fatalf("position %d = %+v, want job %d with zero score", i, got, want)
		}
	}
}

func TestRecommendCosineEmptyCorpus(t *testing.T) {
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		stubJobRepo{},
		stubSkillRepo{catalog: recCatalog()},
		&recordingAuditRepo{},
		nil,
		RecommendationOptions{},
		nil,
	)

	res, err := uc.RecommendCosine(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("empty corpus should not fail: %v", err)
	}
	if res.TotalJobsAnalyzed != 0 || len(res.AllRecommendations) != 0 {
		t.Fatalf("got %d analyzed, %d recommendations, want zero", res.TotalJobsAnalyzed, len(res.AllRecommendations))
	}
	if res.TopRecommendation != nil {
		t.Fatalf("top recommendation = %+v, want nil", res.TopRecommendation)
	}
}

func TestRecommendCosineRequiresUser(t *testing.T) {
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{},
		stubJobRepo{},
		stubSkillRepo{},
		nil,
		nil,
		RecommendationOptions{},
		nil,
	)

	if _, err := uc.RecommendCosine(context.Background(), uuid.Nil, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestRecommendCosineServesFromCache(t *testing.T) {
	jobs := &countingJobRepo{corpus: recCorpus()}
	cache := newMemCache()
	audits := &recordingAuditRepo{}
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		jobs,
		stubSkillRepo{catalog: recCatalog()},
		audits,
		cache,
		RecommendationOptions{Workers: 2},
		nil,
	)
	ctx := context.Background()
	userID := uuid.New()

	first, err := uc.RecommendCosine(ctx, userID, "10.0.0.1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := uc.RecommendCosine(ctx, userID, "10.0.0.1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if jobs.loads != 1 {
		t.Fatalf("corpus loads = %d, want 1 (second call should hit the cache)", jobs.loads)
	}
	if second.RecommendationDate != first.RecommendationDate {
		t.Fatalf("cached result was rescored: %q vs %q", second.RecommendationDate, first.RecommendationDate)
	}
	if len(audits.algorithms) != 2 {
		t.Fatalf("audit rows = %d, want one per request including cache hits", len(audits.algorithms))
	}

	// A corpus change moves the version, so the old entry no longer matches.
	if err := cache.InvalidateRecommendations(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := uc.RecommendCosine(ctx, userID, "10.0.0.1"); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if jobs.loads != 2 {
		t.Fatalf("corpus loads after invalidation = %d, want 2", jobs.loads)
	}
}

func TestRecommendCombinedRejectsBadWeights(t *testing.T) {
	boom := errors.New("boom")
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{err: boom},
		stubJobRepo{err: boom},
		stubSkillRepo{},
		nil,
		nil,
		RecommendationOptions{},
		nil,
	)
	ctx := context.Background()

	for _, w := range []recommend.Weights{
		{Cosine: -0.5, LLR: 0.5},
		{Cosine: 0, LLR: 0},
	} {
		if _, err := uc.RecommendCombined(ctx, uuid.New(), &w, ""); !errors.Is(err, recommend.ErrInvalidWeights) {
			t.Fatalf("weights %+v: err = %v, want ErrInvalidWeights before any loading", w, err)
		}
	}
}

func TestRecommendCombinedHonorsWeightOverride(t *testing.T) {
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		stubJobRepo{corpus: recCorpus()},
		stubSkillRepo{catalog: recCatalog()},
		&recordingAuditRepo{},
		nil,
		RecommendationOptions{Workers: 2},
		nil,
	)

	res, err := uc.RecommendCombined(context.Background(), uuid.New(), &recommend.Weights{Cosine: 1, LLR: 0}, "")
	if err != nil {
		t.Fatalf("RecommendCombined: %v", err)
	}

	if res.Weights.Cosine != 1 || res.Weights.LLR != 0 {
		t.Fatalf("weights = %+v", res.Weights)
	}
	if res.Summary.TotalJobs != 3 || res.Summary.UserSkillCount != 2 {
		t.Fatalf("summary = %+v", res.Summary)
	}

	// With all weight on cosine, combined ordering equals the cosine ordering.
	wantOrder := []int64{10, 20, 30}
	wantScores := []float64{1, 0.5, 0}
	for i, rec := range res.CombinedRecommendations {
		if rec.JobID != wantOrder[i] || rec.CombinedScore != wantScores[i] {
			t.Fatalf("position %d = %+v, want job %d score %v", i, rec, wantOrder[i], wantScores[i])
		}
	}

	if res.Cosine.TopRecommendation == nil || res.Cosine.TopRecommendation.JobID != 10 {
		t.Fatalf("nested cosine top = %+v", res.Cosine.TopRecommendation)
	}
	if res.LLR.TopRecommendation == nil || res.LLR.TopRecommendation.JobID != 10 {
		t.Fatalf("nested llr top = %+v", res.LLR.TopRecommendation)
	}
	if res.Cosine.RecommendationDate != res.RecommendationDate {
		t.Fatalf("nested blocks should share the completion timestamp")
	}
}

func TestAnalyzeJobSkillsBreakdown(t *testing.T) {
	audits := &recordingAuditRepo{}
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		stubJobRepo{corpus: recCorpus()},
		stubSkillRepo{catalog: recCatalog()},
		audits,
		nil,
		RecommendationOptions{Workers: 2, GapTopJobs: 5, GapMaxSkills: 10},
		nil,
	)

	res, err := uc.AnalyzeJobSkills(context.Background(), uuid.New(), 20, "")
	if err != nil {
		t.Fatalf("AnalyzeJobSkills: %v", err)
	}

	if res.Job.JobID != 20 || res.Job.Title != "Backend Engineer" {
		t.Fatalf("job = %+v", res.Job)
	}
	if res.SimilarityScores.CosineSimilarity != 0.5 {
		t.Fatalf("cosine = %v, want 0.5", res.SimilarityScores.CosineSimilarity)
	}
	if res.SimilarityScores.LLRSimilarity <= 0 {
		t.Fatalf("llr = %v, want > 0 for a shared skill", res.SimilarityScores.LLRSimilarity)
	}

	if got := res.SkillsAnalysis.MatchingSkills; len(got) != 1 || got[0] != "Go" {
		t.Fatalf("matching = %v", got)
	}
	if got := res.SkillsAnalysis.MissingSkills; len(got) != 1 || got[0] != "Python" {
		t.Fatalf("missing = %v", got)
	}
	if got := res.SkillsAnalysis.RecommendedSkills; len(got) != 1 || got[0] != "Rust" {
		t.Fatalf("recommended = %v", got)
	}

	want := SkillsAnalysisStats{
		TotalUserSkills:  2,
		TotalJobSkills:   2,
		MatchingCount:    1,
		MissingCount:     1,
		RecommendedCount: 1,
		MatchPercentage:  50,
	}
	if res.Stats != want {
		t.Fatalf("stats = %+v, want %+v", res.Stats, want)
	}

	if len(audits.algorithms) != 1 || audits.algorithms[0] != AlgorithmAnalysis {
		t.Fatalf("audit algorithms = %v", audits.algorithms)
	}
}

func TestAnalyzeJobSkillsUnknownJob(t *testing.T) {
	uc := NewRecommendationUsecase(
		stubUserSkillRepo{items: recUserSkills()},
		stubJobRepo{corpus: recCorpus()},
		stubSkillRepo{catalog: recCatalog()},
		nil,
		nil,
		RecommendationOptions{},
		nil,
	)
	ctx := context.Background()

	if _, err := uc.AnalyzeJobSkills(ctx, uuid.New(), 999, ""); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("unknown job: err = %v, want ErrJobNotFound", err)
	}
	if _, err := uc.AnalyzeJobSkills(ctx, uuid.New(), 0, ""); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("zero id: err = %v, want ErrJobNotFound", err)
	}
}
