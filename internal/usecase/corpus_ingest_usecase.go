package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-compass/internal/ingest"
)

const (
	ingestLockKey = "ingest:run:lock"
	ingestLockTTL = 30 * time.Minute
	ingestTimeout = 20 * time.Minute
)

var ErrIngestNotConfigured = errors.New("ingest not configured")

// IngestLocker serializes corpus ingests across server instances.
type IngestLocker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// IngestRunner runs a full ingest over the given sources.
type IngestRunner interface {
	RunAll(ctx context.Context, sources []ingest.Source) ([]ingest.RunSummary, error)
}

type CorpusIngestUsecase interface {
	TriggerIngest(ctx context.Context) (bool, error)
}

type CorpusIngest struct {
	runner  IngestRunner
	sources []ingest.Source
	locker  IngestLocker
	log     *log.Logger
}

func NewCorpusIngestUsecase(runner IngestRunner, sources []ingest.Source, locker IngestLocker, logger *log.Logger) *CorpusIngest {
	if logger == nil {
		logger = log.Default()
	}
	return &CorpusIngest{runner: runner, sources: sources, locker: locker, log: logger}
}

// TriggerIngest starts a full ingest in the background and reports whether it
// actually started. A second trigger while one is running gets started=false.
// The lock TTL is a backstop for a process dying mid-run; normal completion
// releases it right away.
func (u *CorpusIngest) TriggerIngest(ctx context.Context) (bool, error) {
	if u == nil || u.runner == nil || u.locker == nil {
		return false, ErrIngestNotConfigured
	}

	ok, err := u.locker.SetIfNotExists(ctx, ingestLockKey, time.Now().UTC().Format(time.RFC3339), ingestLockTTL)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	go u.runLocked()
	return true, nil
}

func (u *CorpusIngest) runLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			u.log.Printf("[INGEST] Run panicked | panic=%v", r)
		}
		relCtx, relCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer relCancel()
		if err := u.locker.Delete(relCtx, ingestLockKey); err != nil {
			u.log.Printf("[INGEST] Lock release failed | err=%v", err)
		}
	}()

	start := time.Now()
	sums, err := u.runner.RunAll(ctx, u.sources)
	if err != nil {
		u.log.Printf("[INGEST] Run aborted | err=%v", err)
		return
	}

	found, inserted, failed := 0, 0, 0
	for _, s := range sums {
		if s.Err != nil {
			failed++
			continue
		}
		found += s.Found
		inserted += s.Inserted
	}
	u.log.Printf("[INGEST] Run complete | sources=%d failed=%d found=%d inserted=%d took=%s",
		len(sums), failed, found, inserted, time.Since(start).Round(time.Millisecond))
}
