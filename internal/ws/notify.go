package ws

import (
	"encoding/json"
	"strings"
	"time"
)

// CorpusUpdatedEvent tells subscribed clients the job corpus changed and any
// recommendations they cached client-side are stale.
type CorpusUpdatedEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	JobCount  int    `json:"job_count"`
	Timestamp string `json:"timestamp"`
}

// CorpusUpdated broadcasts a corpus_updated event. Source names where the
// change came from ("api", or an ingest source name); jobCount is how many
// jobs that change touched.
func (h *Hub) CorpusUpdated(source string, jobCount int) {
	if h == nil {
		return
	}

	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		source = "unknown"
	}

	evt := CorpusUpdatedEvent{
		Type:      "corpus_updated",
		Source:    source,
		JobCount:  jobCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
