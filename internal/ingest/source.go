package ingest

import (
	"context"
	"strings"
	"time"
)

// RawJob is one posting as a source found it, before skill extraction.
type RawJob struct {
	ExternalID  string
	Title       string
	Company     string
	Location    string
	Description string
	PostedAt    *time.Time
	URL         string
}

// Source produces job postings from somewhere outside the system. Fetch
// returns every posting it could read; partial results with a nil error are
// fine when individual items fail.
type Source interface {
	Name() string
	BaseURL() string
	Fetch(ctx context.Context) ([]RawJob, error)
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

func parseTimeOrNil(layout, s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	tm, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	tm = tm.UTC()
	return &tm
}
