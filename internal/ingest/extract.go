package ingest

import (
	"regexp"
	"sort"
	"strings"

	"skill-compass/internal/repository"
)

// skillAliases maps alternate spellings seen in job postings onto canonical
// catalog names (lowercased). A posting saying "golang" should still count
// toward the skill named "Go".
var skillAliases = map[string][]string{
	"go":         {"golang"},
	"javascript": {"js", "ecmascript"},
	"typescript": {"ts"},
	"postgresql": {"postgres", "psql"},
	"kubernetes": {"k8s"},
	"python":     {"python3"},
	"node.js":    {"nodejs", "node js"},
	"react":      {"reactjs", "react.js"},
	"vue":        {"vuejs", "vue.js"},
	"docker":     {"containers", "containerization"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud", "google cloud platform"},
	"ci/cd":      {"cicd", "continuous integration"},
}

type skillPattern struct {
	skillID int64
	name    string
	res     []*regexp.Regexp
}

// Extractor matches catalog skills against free text. Patterns are compiled
// once per catalog snapshot; extraction itself is read-only and safe to share
// across workers.
type Extractor struct {
	patterns []skillPattern
}

func NewExtractor(catalog []repository.Skill) *Extractor {
	patterns := make([]skillPattern, 0, len(catalog))
	for _, s := range catalog {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" || s.ID <= 0 {
			continue
		}

		terms := append([]string{name}, skillAliases[name]...)
		res := make([]*regexp.Regexp, 0, len(terms))
		for _, term := range terms {
			res = append(res, compileMentionPattern(term))
		}
		patterns = append(patterns, skillPattern{skillID: s.ID, name: name, res: res})
	}

	sort.Slice(patterns, func(i, j int) bool { return patterns[i].name < patterns[j].name })
	return &Extractor{patterns: patterns}
}

// Extract returns the IDs of every catalog skill mentioned in the text,
// ascending. Word boundaries are respected, so "django" does not count as
// "go".
func (e *Extractor) Extract(text string) []int64 {
	if e == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	out := make([]int64, 0, 8)
	for _, p := range e.patterns {
		for _, re := range p.res {
			if re.MatchString(lower) {
				out = append(out, p.skillID)
				break
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MentionCount reports how often a single term appears with word boundaries.
// Used to order extraction logs by prominence, not for matching decisions.
func MentionCount(text, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}
	re := compileMentionPattern(term)
	return len(re.FindAllStringIndex(strings.ToLower(text), -1))
}

// compileMentionPattern builds a boundary-safe matcher that also works for
// names regexp word boundaries cannot handle, like "c++" or "c#". The + and #
// runes count as part of a word so the term "c" does not match inside either.
func compileMentionPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^a-z0-9+#])` + regexp.QuoteMeta(term) + `([^a-z0-9+#]|$)`)
}
