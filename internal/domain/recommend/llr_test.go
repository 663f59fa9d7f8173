package recommend

import (
	"math"
	"testing"
)

func corpusOf(jobs ...Job) []Job { return jobs }

func jobWith(id int64, skillIDs ...int64) Job {
	skills := make([]Skill, 0, len(skillIDs))
	for _, sid := range skillIDs {
		skills = append(skills, Skill{ID: sid})
	}
	return Job{ID: id, Skills: skills}
}

func TestJobLLR_ZeroWhenNoSharedSkills(t *testing.T) {
	corpus := corpusOf(jobWith(1, 10, 11), jobWith(2, 12))
	freq := NewFrequencyTable(corpus)
	got := JobLLR(NewSkillSet([]int64{20, 21}), NewSkillSet([]int64{10, 11}), freq)
	if got != 0 {
		t.Fatalf("expected 0 for disjoint sets, got %v", got)
	}
}

func TestJobLLR_ZeroForEmptySets(t *testing.T) {
	freq := NewFrequencyTable(corpusOf(jobWith(1, 10)))
	if got := JobLLR(NewSkillSet(nil), NewSkillSet([]int64{10}), freq); got != 0 {
		t.Fatalf("expected 0 for empty user set, got %v", got)
	}
	if got := JobLLR(NewSkillSet([]int64{10}), NewSkillSet(nil), freq); got != 0 {
		t.Fatalf("expected 0 for empty job set, got %v", got)
	}
}

func TestJobLLR_NonNegative(t *testing.T) {
	corpus := corpusOf(jobWith(1, 10, 11), jobWith(2, 10), jobWith(3, 11, 12), jobWith(4, 13))
	freq := NewFrequencyTable(corpus)
	user := NewSkillSet([]int64{10, 12, 13})
	for _, job := range corpus {
		if got := JobLLR(user, job.Set(), freq); got < 0 {
			t.Fatalf("job %d: expected non-negative LLR, got %v", job.ID, got)
		}
	}
}

func TestJobLLR_RareSharedSkillOutweighsCommonOne(t *testing.T) {
	// Skill 10 appears in 1 of 10 jobs, skill 20 in 9 of 10.
	corpus := make([]Job, 0, 10)
	corpus = append(corpus, jobWith(1, 10))
	for i := int64(2); i <= 10; i++ {
		corpus = append(corpus, jobWith(i, 20))
	}
	freq := NewFrequencyTable(corpus)

	user := NewSkillSet([]int64{10, 20})
	rare := JobLLR(user, NewSkillSet([]int64{10}), freq)
	common := JobLLR(user, NewSkillSet([]int64{20}), freq)
	if rare <= common {
		t.Fatalf("expected rare skill to score higher: rare=%v common=%v", rare, common)
	}
}

func TestJobLLR_SumsOverSharedSkills(t *testing.T) {
	// Two jobs with one skill each of equal frequency: shared contribution
	// per skill is llr(1,0,0,1) = 4*ln(2).
	corpus := corpusOf(jobWith(1, 10, 11), jobWith(2, 12, 13))
	freq := NewFrequencyTable(corpus)
	user := NewSkillSet([]int64{10, 11})

	perSkill := 4 * math.Log(2)
	got := JobLLR(user, NewSkillSet([]int64{10, 11}), freq)
	almostEqual(t, got, 2*perSkill, 1e-9)
}

func TestJobLLR_IndependentOfOtherEvaluations(t *testing.T) {
	corpus := corpusOf(jobWith(1, 10, 11), jobWith(2, 10), jobWith(3, 12))
	freq := NewFrequencyTable(corpus)
	user := NewSkillSet([]int64{10, 11})
	job := NewSkillSet([]int64{10, 11})

	first := JobLLR(user, job, freq)
	JobLLR(user, NewSkillSet([]int64{10}), freq)
	JobLLR(NewSkillSet([]int64{12}), NewSkillSet([]int64{12}), freq)
	second := JobLLR(user, job, freq)
	if first != second {
		t.Fatalf("expected repeatable score, got %v then %v", first, second)
	}
}

func TestPairLLR_ZeroWithoutOverlap(t *testing.T) {
	a := NewSkillSet([]int64{1, 2})
	b := NewSkillSet([]int64{3, 4})
	if got := PairLLR(a, b, 10); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestPairLLR_Symmetric(t *testing.T) {
	a := NewSkillSet([]int64{1, 2, 3})
	b := NewSkillSet([]int64{2, 3, 4, 5})
	ab := PairLLR(a, b, 20)
	ba := PairLLR(b, a, 20)
	almostEqual(t, ab, ba, 1e-12)
	if ab <= 0 {
		t.Fatalf("expected positive association, got %v", ab)
	}
}

func TestPairLLR_StrongerForLargerOverlap(t *testing.T) {
	base := NewSkillSet([]int64{1, 2, 3, 4})
	near := NewSkillSet([]int64{1, 2, 3, 5})
	far := NewSkillSet([]int64{1, 6, 7, 8})
	if PairLLR(base, near, 30) <= PairLLR(base, far, 30) {
		t.Fatalf("expected larger overlap to score higher")
	}
}

func TestFrequencyTable_CountsJobsPerSkill(t *testing.T) {
	corpus := corpusOf(jobWith(1, 10, 11), jobWith(2, 10), jobWith(3, 10, 10))
	freq := NewFrequencyTable(corpus)
	if freq.Jobs() != 3 {
		t.Fatalf("expected 3 jobs, got %d", freq.Jobs())
	}
	if got := freq.Count(10); got != 3 {
		t.Fatalf("expected skill 10 in 3 jobs, got %d", got)
	}
	if got := freq.Count(11); got != 1 {
		t.Fatalf("expected skill 11 in 1 job, got %d", got)
	}
	if got := freq.Count(99); got != 0 {
		t.Fatalf("expected unknown skill count 0, got %d", got)
	}
}
