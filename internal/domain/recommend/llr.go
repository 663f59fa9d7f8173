package recommend

import "math"

type FrequencyTable struct {
	jobs    int
	bySkill map[int64]int
}

// NewFrequencyTable counts, once per corpus, how many jobs require each skill.
// The table is read-only during scoring and shared across per-job workers.
func NewFrequencyTable(corpus []Job) FrequencyTable {
	bySkill := make(map[int64]int)
	for _, job := range corpus {
		for id := range job.Set() {
			bySkill[id]++
		}
	}
	return FrequencyTable{jobs: len(corpus), bySkill: bySkill}
}

func (t FrequencyTable) Jobs() int {
	return t.jobs
}

func (t FrequencyTable) Count(skillID int64) int {
	return t.bySkill[skillID]
}

// JobLLR sums the per-skill log-likelihood-ratio statistic over the skills the
// user and the job share. For a shared skill the 2x2 contingency over the
// corpus is k11=1 (this job requires it, the user has it), k12=0,
// k21=freq-1 (other jobs requiring it), k22=jobs requiring neither. Skills
// without co-occurrence evidence contribute 0, so disjoint sets score 0.
func JobLLR(user, job SkillSet, freq FrequencyTable) float64 {
	if len(user) == 0 || len(job) == 0 {
		return 0
	}

	n := float64(freq.Jobs())
	total := 0.0
	for id := range job {
		if !user.Has(id) {
			continue
		}
		k11 := 1.0
		k21 := float64(freq.Count(id)) - 1
		if k21 < 0 {
			k21 = 0
		}
		k22 := n - k11 - k21
		if k22 < 0 {
			k22 = 0
		}
		total += llr(k11, 0, k21, k22)
	}
	return total
}

// PairLLR measures association between two whole skill sets with a single 2x2
// table over the universe: k11=shared, k12/k21=exclusive to either side,
// k22=universe skills in neither. Zero when the sets share nothing.
func PairLLR(a, b SkillSet, universeSize int) float64 {
	shared := a.SharedWith(b)
	if shared == 0 {
		return 0
	}

	k11 := float64(shared)
	k12 := float64(len(b) - shared)
	k21 := float64(len(a) - shared)
	k22 := float64(universeSize) - (float64(len(a)) + float64(len(b)) - k11)
	if k22 < 0 {
		k22 = 0
	}
	return llr(k11, k12, k21, k22)
}

func llr(k11, k12, k21, k22 float64) float64 {
	hk := entropy(k11, k12, k21, k22)
	hki := entropy(k11+k12, k21+k22)
	hkj := entropy(k11+k21, k12+k22)

	v := 2 * (hk - hki - hkj)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func entropy(counts ...float64) float64 {
	var total float64
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	if total == 0 {
		return 0
	}

	var sum float64
	for _, c := range counts {
		if c > 0 {
			sum += c * math.Log(c/total)
		}
	}
	return sum
}
