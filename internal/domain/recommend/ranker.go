package recommend

import (
	"errors"
	"sort"
)

var ErrInvalidWeights = errors.New("invalid ranking weights")

type Weights struct {
	Cosine float64
	LLR    float64
}

func DefaultWeights() Weights {
	return Weights{Cosine: 0.6, LLR: 0.4}
}

// Validate rejects negative weights and the all-zero pair. Callers check this
// before running a scoring pass so bad weights never produce partial results.
func (w Weights) Validate() error {
	if w.Cosine < 0 || w.LLR < 0 {
		return ErrInvalidWeights
	}
	if w.Cosine == 0 && w.LLR == 0 {
		return ErrInvalidWeights
	}
	return nil
}

type CombinedScore struct {
	Job           Job
	Cosine        float64
	LLR           float64
	NormalizedLLR float64
	Combined      float64
}

// Rank min-max normalizes LLR across the job set, combines it with cosine
// under the given weights, and orders the result by combined score descending
// with ties broken by ascending job ID.
func Rank(scores []JobScore, w Weights) ([]CombinedScore, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	normalized := normalizeLLR(scores)

	ranked := make([]CombinedScore, len(scores))
	for i, s := range scores {
		ranked[i] = CombinedScore{
			Job:           s.Job,
			Cosine:        s.Cosine,
			LLR:           s.LLR,
			NormalizedLLR: normalized[i],
			Combined:      w.Cosine*s.Cosine + w.LLR*normalized[i],
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Combined != ranked[j].Combined {
			return ranked[i].Combined > ranked[j].Combined
		}
		return ranked[i].Job.ID < ranked[j].Job.ID
	})
	return ranked, nil
}

// SortByScore orders single-algorithm scores descending, ties by ascending
// job ID. The score is picked out of each JobScore by the pick func.
func SortByScore(scores []JobScore, pick func(JobScore) float64) []JobScore {
	out := make([]JobScore, len(scores))
	copy(out, scores)
	sort.Slice(out, func(i, j int) bool {
		si, sj := pick(out[i]), pick(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].Job.ID < out[j].Job.ID
	})
	return out
}

func normalizeLLR(scores []JobScore) []float64 {
	normalized := make([]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	minV, maxV := scores[0].LLR, scores[0].LLR
	for _, s := range scores[1:] {
		if s.LLR < minV {
			minV = s.LLR
		}
		if s.LLR > maxV {
			maxV = s.LLR
		}
	}
	if maxV == minV {
		return normalized
	}

	span := maxV - minV
	for i, s := range scores {
		normalized[i] = (s.LLR - minV) / span
	}
	return normalized
}
