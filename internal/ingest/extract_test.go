package ingest

import (
	"testing"

	"skill-compass/internal/repository"
)

func testCatalog() []repository.Skill {
	return []repository.Skill{
		{ID: 1, Name: "Go"},
		{ID: 2, Name: "Python"},
		{ID: 3, Name: "C++"},
		{ID: 4, Name: "C#"},
		{ID: 5, Name: "C"},
		{ID: 6, Name: "JavaScript"},
		{ID: 7, Name: "PostgreSQL"},
		{ID: 8, Name: "Django"},
	}
}

func TestExtractor_WordBoundaries(t *testing.T) {
	ex := NewExtractor(testCatalog())

	got := ex.Extract("We build Django services backed by PostgreSQL.")
	want := []int64{7, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestExtractor_AliasesMatchCanonicalSkill(t *testing.T) {
	ex := NewExtractor(testCatalog())

	got := ex.Extract("Senior GOLANG developer, js experience a plus")
	if len(got) != 2 || got[0] != 1 || got[1] != 6 {
		t.Fatalf("expected [1 6], got %v", got)
	}
}

func TestExtractor_PlusAndHashAreWordRunes(t *testing.T) {
	ex := NewExtractor(testCatalog())

	got := ex.Extract("Modern C++ and C# codebase")
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("expected [3 4], got %v", got)
	}

	got = ex.Extract("Embedded C on bare metal")
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected [5], got %v", got)
	}
}

func TestExtractor_NoSubstringMatches(t *testing.T) {
	ex := NewExtractor(testCatalog())

	if got := ex.Extract("cargo shipping going strong"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
	if got := ex.Extract(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestExtractor_EachSkillOnce(t *testing.T) {
	ex := NewExtractor(testCatalog())

	got := ex.Extract("Go, go, golang, and more Go")
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1], got %v", got)
	}
}

func TestMentionCount(t *testing.T) {
	if got := MentionCount("go is great. We love Go. GO!", "go"); got != 3 {
		t.Fatalf("expected 3 mentions, got %d", got)
	}
	if got := MentionCount("going gone cargo", "go"); got != 0 {
		t.Fatalf("expected 0 mentions, got %d", got)
	}
	if got := MentionCount("c++ and c", "c"); got != 1 {
		t.Fatalf("expected 1 mention, got %d", got)
	}
}
