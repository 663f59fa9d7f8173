package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
)

type recommendationCacheKeyInput struct {
	Algorithm     string  `json:"algorithm"`
	SkillIDs      []int64 `json:"skill_ids"`
	WeightCosine  float64 `json:"weight_cosine"`
	WeightLLR     float64 `json:"weight_llr"`
	CorpusVersion int64   `json:"corpus_version"`
}

// RecommendationCacheKey folds everything that changes a recommendation
// payload into one key: the algorithm, the caller's skill set, the weights
// and the corpus version. Weights only matter for the combined algorithm;
// the single-score algorithms pass zeros.
func RecommendationCacheKey(algorithm string, skillIDs []int64, weightCosine, weightLLR float64, corpusVersion int64) string {
	in := recommendationCacheKeyInput{
		Algorithm:     algorithm,
		SkillIDs:      sortedIDs(skillIDs),
		WeightCosine:  weightCosine,
		WeightLLR:     weightLLR,
		CorpusVersion: corpusVersion,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "recs:" + algorithm + ":" + hex.EncodeToString(sum[:])
}

type analysisCacheKeyInput struct {
	JobID         int64   `json:"job_id"`
	SkillIDs      []int64 `json:"skill_ids"`
	CorpusVersion int64   `json:"corpus_version"`
}

func SkillsAnalysisCacheKey(jobID int64, skillIDs []int64, corpusVersion int64) string {
	in := analysisCacheKeyInput{
		JobID:         jobID,
		SkillIDs:      sortedIDs(skillIDs),
		CorpusVersion: corpusVersion,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "analysis:" + hex.EncodeToString(sum[:])
}

// SkillSuggestionCacheKey covers the caller's own profile only. Peer profiles
// shift underneath it, which is why suggestion entries carry a short TTL.
func SkillSuggestionCacheKey(userID uuid.UUID, skillIDs []int64, topN int, corpusVersion int64) string {
	in := struct {
		UserID        string  `json:"user_id"`
		SkillIDs      []int64 `json:"skill_ids"`
		TopN          int     `json:"top_n"`
		CorpusVersion int64   `json:"corpus_version"`
	}{
		UserID:        userID.String(),
		SkillIDs:      sortedIDs(skillIDs),
		TopN:          topN,
		CorpusVersion: corpusVersion,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "suggest:" + hex.EncodeToString(sum[:])
}

func sortedIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
