package usecase

import (
	"math"
	"time"

	"skill-compass/internal/domain/recommend"
)

// Algorithm labels as they appear in responses and audit rows.
const (
	AlgorithmCosine   = "cosine_similarity"
	AlgorithmLLR      = "llr_similarity"
	AlgorithmCombined = "combined"
	AlgorithmAnalysis = "skills_analysis"
	AlgorithmSuggest  = "skill_suggestion"
)

const (
	cosineDescription = "Jobs ranked by cosine similarity between your skill vector and each job's required skills."
	llrDescription    = "Jobs ranked by log-likelihood ratio association between your skills and each job's required skills."
)

type CosineRecommendation struct {
	JobID       int64    `json:"job_id"`
	Title       string   `json:"title"`
	Skills      []string `json:"skills"`
	CosineScore float64  `json:"cosine_score"`
	Algorithm   string   `json:"algorithm"`
}

type CosineResult struct {
	Algorithm          string                 `json:"algorithm"`
	Description        string                 `json:"description"`
	TopRecommendation  *CosineRecommendation  `json:"top_recommendation"`
	AllRecommendations []CosineRecommendation `json:"all_recommendations"`
	UserSkills         []string               `json:"user_skills"`
	TotalJobsAnalyzed  int                    `json:"total_jobs_analyzed"`
	RecommendationDate string                 `json:"recommendation_date"`
}

type LLRRecommendation struct {
	JobID     int64    `json:"job_id"`
	Title     string   `json:"title"`
	Skills    []string `json:"skills"`
	LLRScore  float64  `json:"llr_score"`
	Algorithm string   `json:"algorithm"`
}

type LLRResult struct {
	Algorithm          string              `json:"algorithm"`
	Description        string              `json:"description"`
	TopRecommendation  *LLRRecommendation  `json:"top_recommendation"`
	AllRecommendations []LLRRecommendation `json:"all_recommendations"`
	UserSkills         []string            `json:"user_skills"`
	TotalJobsAnalyzed  int                 `json:"total_jobs_analyzed"`
	RecommendationDate string              `json:"recommendation_date"`
}

type CombinedRecommendation struct {
	JobID         int64    `json:"job_id"`
	Title         string   `json:"title"`
	Skills        []string `json:"skills"`
	CosineScore   float64  `json:"cosine_score"`
	LLRScore      float64  `json:"llr_score"`
	CombinedScore float64  `json:"combined_score"`
}

type WeightSettings struct {
	Cosine float64 `json:"cosine"`
	LLR    float64 `json:"llr"`
}

type CombinedSummary struct {
	TotalJobs      int `json:"total_jobs"`
	UserSkillCount int `json:"user_skill_count"`
}

type CombinedResult struct {
	Cosine                  CosineResult             `json:"cosine_similarity"`
	LLR                     LLRResult                `json:"llr_similarity"`
	CombinedRecommendations []CombinedRecommendation `json:"combined_recommendations"`
	Weights                 WeightSettings           `json:"weights"`
	Summary                 CombinedSummary          `json:"summary"`
	RecommendationDate      string                   `json:"recommendation_date"`
}

type AnalyzedJob struct {
	JobID  int64    `json:"job_id"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

type SimilarityScores struct {
	CosineSimilarity float64 `json:"cosine_similarity"`
	LLRSimilarity    float64 `json:"llr_similarity"`
}

type SkillsBreakdown struct {
	MatchingSkills    []string `json:"matching_skills"`
	RecommendedSkills []string `json:"recommended_skills"`
	MissingSkills     []string `json:"missing_skills"`
}

type SkillsAnalysisStats struct {
	TotalUserSkills  int     `json:"total_user_skills"`
	TotalJobSkills   int     `json:"total_job_skills"`
	MatchingCount    int     `json:"matching_count"`
	MissingCount     int     `json:"missing_count"`
	RecommendedCount int     `json:"recommended_count"`
	MatchPercentage  float64 `json:"match_percentage"`
}

type SkillsAnalysisResult struct {
	Job              AnalyzedJob         `json:"job"`
	SimilarityScores SimilarityScores    `json:"similarity_scores"`
	SkillsAnalysis   SkillsBreakdown     `json:"skills_analysis"`
	Stats            SkillsAnalysisStats `json:"stats"`
}

// buildCosineResult maps an already-ordered scoring pass into the cosine
// response record. The top recommendation is nil when nothing scored above
// zero, which also covers the empty-corpus and empty-profile cases.
func buildCosineResult(ordered []recommend.JobScore, userSkills []string, at time.Time) CosineResult {
	all := make([]CosineRecommendation, 0, len(ordered))
	for _, s := range ordered {
		all = append(all, CosineRecommendation{
			JobID:       s.Job.ID,
			Title:       s.Job.Title,
			Skills:      skillNames(s.Job.Skills),
			CosineScore: round4(s.Cosine),
			Algorithm:   AlgorithmCosine,
		})
	}

	var top *CosineRecommendation
	if len(all) > 0 && all[0].CosineScore > 0 {
		t := all[0]
		top = &t
	}

	return CosineResult{
		Algorithm:          AlgorithmCosine,
		Description:        cosineDescription,
		TopRecommendation:  top,
		AllRecommendations: all,
		UserSkills:         userSkills,
		TotalJobsAnalyzed:  len(ordered),
		RecommendationDate: at.Format(time.RFC3339),
	}
}

func buildLLRResult(ordered []recommend.JobScore, userSkills []string, at time.Time) LLRResult {
	all := make([]LLRRecommendation, 0, len(ordered))
	for _, s := range ordered {
		all = append(all, LLRRecommendation{
			JobID:     s.Job.ID,
			Title:     s.Job.Title,
			Skills:    skillNames(s.Job.Skills),
			LLRScore:  round4(s.LLR),
			Algorithm: AlgorithmLLR,
		})
	}

	var top *LLRRecommendation
	if len(all) > 0 && all[0].LLRScore > 0 {
		t := all[0]
		top = &t
	}

	return LLRResult{
		Algorithm:          AlgorithmLLR,
		Description:        llrDescription,
		TopRecommendation:  top,
		AllRecommendations: all,
		UserSkills:         userSkills,
		TotalJobsAnalyzed:  len(ordered),
		RecommendationDate: at.Format(time.RFC3339),
	}
}

func buildCombinedRecommendations(ranked []recommend.CombinedScore) []CombinedRecommendation {
	out := make([]CombinedRecommendation, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, CombinedRecommendation{
			JobID:         s.Job.ID,
			Title:         s.Job.Title,
			Skills:        skillNames(s.Job.Skills),
			CosineScore:   round4(s.Cosine),
			LLRScore:      round4(s.LLR),
			CombinedScore: round4(s.Combined),
		})
	}
	return out
}

func skillNames(skills []recommend.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name == "" {
			continue
		}
		out = append(out, s.Name)
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
