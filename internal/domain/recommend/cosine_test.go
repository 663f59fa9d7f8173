package recommend

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("expected %v (±%v), got %v", want, tol, got)
	}
}

func TestCosine_IdenticalSetsScoreOne(t *testing.T) {
	u := NewUniverse([]int64{1, 2, 3})
	set := NewSkillSet([]int64{1, 3})
	got := Cosine(Vectorize(set, u), Vectorize(set, u))
	almostEqual(t, got, 1, 1e-9)
}

func TestCosine_DisjointSetsScoreZero(t *testing.T) {
	u := NewUniverse([]int64{1, 2, 3, 4})
	a := Vectorize(NewSkillSet([]int64{1, 2}), u)
	b := Vectorize(NewSkillSet([]int64{3, 4}), u)
	if got := Cosine(a, b); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestCosine_ZeroNormSideScoresZero(t *testing.T) {
	u := NewUniverse([]int64{1, 2})
	empty := Vectorize(NewSkillSet(nil), u)
	other := Vectorize(NewSkillSet([]int64{1}), u)
	if got := Cosine(empty, other); got != 0 {
		t.Fatalf("expected 0 for zero-norm side, got %v", got)
	}
	if got := Cosine(other, empty); got != 0 {
		t.Fatalf("expected 0 for zero-norm side, got %v", got)
	}
}

func TestCosine_PartialOverlap(t *testing.T) {
	// {Python, SQL} against {Python, SQL, FastAPI}: 2/sqrt(2*3).
	u := NewUniverse([]int64{1, 2, 3})
	user := Vectorize(NewSkillSet([]int64{1, 2}), u)
	job := Vectorize(NewSkillSet([]int64{1, 2, 3}), u)
	almostEqual(t, Cosine(user, job), 0.8165, 1e-4)
}

func TestCosine_StaysWithinUnitRange(t *testing.T) {
	u := NewUniverse([]int64{1, 2, 3, 4, 5})
	sets := [][]int64{{1}, {1, 2}, {2, 3, 4}, {1, 2, 3, 4, 5}, {5}}
	for _, a := range sets {
		for _, b := range sets {
			got := Cosine(Vectorize(NewSkillSet(a), u), Vectorize(NewSkillSet(b), u))
			if got < 0 || got > 1+1e-9 {
				t.Fatalf("cosine(%v, %v) = %v out of range", a, b, got)
			}
		}
	}
}

func TestCosine_MismatchedLengthScoresZero(t *testing.T) {
	if got := Cosine(Vector{1, 0}, Vector{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched vectors, got %v", got)
	}
}
