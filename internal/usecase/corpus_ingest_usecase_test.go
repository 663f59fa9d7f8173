package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"skill-compass/internal/ingest"
)

type fakeIngestLocker struct {
	mu      sync.Mutex
	ok      bool
	err     error
	sets    int
	deletes chan string
}

func (l *fakeIngestLocker) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets++
	return l.ok, l.err
}

func (l *fakeIngestLocker) Delete(ctx context.Context, key string) error {
	if l.deletes != nil {
		l.deletes <- key
	}
	return nil
}

type fakeIngestRunner struct {
	mu    sync.Mutex
	calls int
	sums  []ingest.RunSummary
	err   error
}

func (r *fakeIngestRunner) RunAll(ctx context.Context, sources []ingest.Source) ([]ingest.RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.sums, r.err
}

func (r *fakeIngestRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestCorpusIngest_TriggerStartsRunAndReleasesLock(t *testing.T) {
	locker := &fakeIngestLocker{ok: true, deletes: make(chan string, 1)}
	runner := &fakeIngestRunner{sums: []ingest.RunSummary{{Source: "feed", Found: 2, Inserted: 1}}}

	uc := NewCorpusIngestUsecase(runner, nil, locker, nil)

	started, err := uc.TriggerIngest(context.Background())
	if err != nil {
		t.Fatalf("trigger error: %v", err)
	}
	if !started {
		t.Fatalf("expected ingest to start")
	}

	select {
	case key := <-locker.deletes:
		if key != ingestLockKey {
			t.Fatalf("expected lock key released, got %q", key)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("lock was never released")
	}

	if got := runner.callCount(); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
}

func TestCorpusIngest_SecondTriggerBlockedByLock(t *testing.T) {
	locker := &fakeIngestLocker{ok: false}
	runner := &fakeIngestRunner{}

	uc := NewCorpusIngestUsecase(runner, nil, locker, nil)

	started, err := uc.TriggerIngest(context.Background())
	if err != nil {
		t.Fatalf("trigger error: %v", err)
	}
	if started {
		t.Fatalf("expected trigger to be blocked while a run holds the lock")
	}
	if got := runner.callCount(); got != 0 {
		t.Fatalf("expected no run, got %d", got)
	}
}

func TestCorpusIngest_LockerErrorSurfaces(t *testing.T) {
	locker := &fakeIngestLocker{err: fmt.Errorf("redis down")}
	runner := &fakeIngestRunner{}

	uc := NewCorpusIngestUsecase(runner, nil, locker, nil)

	if _, err := uc.TriggerIngest(context.Background()); err == nil {
		t.Fatalf("expected locker error to surface")
	}
	if got := runner.callCount(); got != 0 {
		t.Fatalf("expected no run on lock failure, got %d", got)
	}
}

func TestCorpusIngest_NotConfigured(t *testing.T) {
	uc := NewCorpusIngestUsecase(nil, nil, nil, nil)
	if _, err := uc.TriggerIngest(context.Background()); !errors.Is(err, ErrIngestNotConfigured) {
		t.Fatalf("expected ErrIngestNotConfigured, got %v", err)
	}
}

type panickingIngestRunner struct{}

func (panickingIngestRunner) RunAll(ctx context.Context, sources []ingest.Source) ([]ingest.RunSummary, error) {
	panic("collector blew up")
}

func TestCorpusIngest_RunPanicStillReleasesLock(t *testing.T) {
	locker := &fakeIngestLocker{ok: true, deletes: make(chan string, 1)}

	uc := NewCorpusIngestUsecase(panickingIngestRunner{}, nil, locker, nil)

	started, err := uc.TriggerIngest(context.Background())
	if err != nil || !started {
		t.Fatalf("expected start, got started=%v err=%v", started, err)
	}

	select {
	case key := <-locker.deletes:
		if key != ingestLockKey {
			t.Fatalf("expected lock key released, got %q", key)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("lock was never released after a panicking run")
	}

	// The panic must stay inside the run goroutine; a fresh trigger works.
	if started, err := uc.TriggerIngest(context.Background()); err != nil || !started {
		t.Fatalf("expected a later trigger to start, got started=%v err=%v", started, err)
	}
	<-locker.deletes
}

func TestCorpusIngest_RunErrorStillReleasesLock(t *testing.T) {
	locker := &fakeIngestLocker{ok: true, deletes: make(chan string, 1)}
	runner := &fakeIngestRunner{err: fmt.Errorf("catalog unavailable")}

	uc := NewCorpusIngestUsecase(runner, nil, locker, nil)

	started, err := uc.TriggerIngest(context.Background())
	if err != nil || !started {
		t.Fatalf("expected start, got started=%v err=%v", started, err)
	}

	select {
	case <-locker.deletes:
	case <-time.After(5 * time.Second):
		t.Fatalf("lock was never released after a failed run")
	}
}
