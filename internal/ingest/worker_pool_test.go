package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsEverySubmittedTask(t *testing.T) {
	pool := NewWorkerPool(4, 8)
	results := pool.Run(context.Background())

	var ran atomic.Int64
	for i := 0; i < 20; i++ {
		i := i
		pool.Submit(func(ctx context.Context) error {
			ran.Add(1)
			if i%5 == 0 {
				return fmt.Errorf("task %d", i)
			}
			return nil
		})
	}
	pool.Close()

	got, errs := 0, 0
	for res := range results {
		got++
		if res.Err != nil {
			errs++
		}
	}

	if got != 20 {
		t.Fatalf("expected 20 results, got %d", got)
	}
	if errs != 4 {
		t.Fatalf("expected 4 errors, got %d", errs)
	}
	if ran.Load() != 20 {
		t.Fatalf("expected 20 tasks run, got %d", ran.Load())
	}
}

func TestWorkerPool_RateLimitSpacesTaskStarts(t *testing.T) {
	pool := NewWorkerPool(4, 8)
	pool.SetRateLimit(100)
	results := pool.Run(context.Background())

	start := time.Now()
	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) error { return nil })
	}
	pool.Close()
	for range results {
	}

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected rate limit to space 5 tasks over >=30ms, took %v", elapsed)
	}
}

func TestWorkerPool_ContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(2, 0)
	results := pool.Run(ctx)

	cancel()

	for range results {
	}
}

func TestWorkerPool_CloseWithoutTasks(t *testing.T) {
	pool := NewWorkerPool(3, 4)
	results := pool.Run(context.Background())
	pool.Close()

	got := 0
	for range results {
		got++
	}
	if got != 0 {
		t.Fatalf("expected no results, got %d", got)
	}
}
