package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"skill-compass/internal/repository"
)

// SkillCatalog supplies the skill names extraction matches against.
type SkillCatalog interface {
	GetAllSkills(ctx context.Context) ([]repository.Skill, error)
}

// CacheInvalidator bumps the corpus version so cached recommendations stop
// being served against stale data.
type CacheInvalidator interface {
	InvalidateRecommendations(ctx context.Context) error
}

// Notifier announces corpus changes to connected clients.
type Notifier interface {
	CorpusUpdated(source string, jobCount int)
}

// RunSummary reports what one source contributed to a run.
type RunSummary struct {
	Source   string
	Found    int
	Inserted int
	Err      error
}

// Runner drives a full ingest: fetch postings from every source, extract
// skills, upsert into the corpus, and invalidate caches once at the end.
type Runner struct {
	store    *Store
	skills   SkillCatalog
	cache    CacheInvalidator
	notifier Notifier
	workers  int
	logger   *log.Logger
}

func NewRunner(store *Store, skills SkillCatalog, cache CacheInvalidator, notifier Notifier, workers int, logger *log.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		store:    store,
		skills:   skills,
		cache:    cache,
		notifier: notifier,
		workers:  workers,
		logger:   logger,
	}
}

// RunAll ingests every source in order. Source failures are isolated: one
// source erroring out does not stop the others, and the summaries carry the
// per-source outcome. Cache invalidation happens once, after the last source.
func (r *Runner) RunAll(ctx context.Context, sources []Source) ([]RunSummary, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("nil runner")
	}

	catalog, err := r.skills.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("load skill catalog: %w", err)
	}
	ex := NewExtractor(catalog)

	summaries := make([]RunSummary, 0, len(sources))
	totalStored := 0
	totalInserted := 0
	for _, src := range sources {
		if ctx.Err() != nil {
			return summaries, ctx.Err()
		}
		sum := r.runSource(ctx, ex, src)
		summaries = append(summaries, sum)
		if sum.Err != nil {
			r.logger.Printf("[INGEST] Source failed | source=%s err=%v", sum.Source, sum.Err)
			continue
		}
		r.logger.Printf("[INGEST] Source done | source=%s found=%d inserted=%d", sum.Source, sum.Found, sum.Inserted)
		totalStored += sum.Found
		totalInserted += sum.Inserted
	}

	if totalStored > 0 && r.cache != nil {
		if err := r.cache.InvalidateRecommendations(ctx); err != nil {
			r.logger.Printf("[INGEST] Cache invalidation failed | err=%v", err)
		}
	}
	if totalInserted > 0 && r.notifier != nil {
		r.notifier.CorpusUpdated("ingest", totalInserted)
	}

	return summaries, nil
}

func (r *Runner) runSource(ctx context.Context, ex *Extractor, src Source) RunSummary {
	sum := RunSummary{Source: src.Name()}

	sourceID, err := r.store.EnsureSource(ctx, src.Name(), src.BaseURL())
	if err != nil {
		sum.Err = fmt.Errorf("ensure source: %w", err)
		return sum
	}

	runID, err := r.store.CreateRun(ctx, sourceID)
	if err != nil {
		sum.Err = fmt.Errorf("create run: %w", err)
		return sum
	}

	status := "finished"
	defer func() {
		_ = r.store.FinishRun(context.Background(), runID, status, sum.Found, sum.Inserted)
	}()

	raws, err := src.Fetch(ctx)
	if err != nil {
		status = "failed"
		sum.Err = fmt.Errorf("fetch: %w", err)
		_ = r.store.LogRun(ctx, runID, "error", fmt.Sprintf("fetch: %v", err))
		return sum
	}

	var inserted atomic.Int64

	pool := NewWorkerPool(r.workers, r.workers*2)
	results := pool.Run(ctx)

	stored := 0
	for _, raw := range raws {
		raw := raw
		if strings.TrimSpace(raw.Title) == "" {
			continue
		}
		stored++
		pool.Submit(func(ctx context.Context) error {
			skillIDs := ex.Extract(raw.Title + "\n" + raw.Description)
			_, isNew, err := r.store.UpsertJob(ctx, sourceID, raw, skillIDs)
			if err != nil {
				return fmt.Errorf("%q: %w", raw.Title, err)
			}
			if isNew {
				inserted.Add(1)
			}
			return nil
		})
	}
	pool.Close()

	for res := range results {
		if res.Err != nil {
			_ = r.store.LogRun(ctx, runID, "error", fmt.Sprintf("store: %v", res.Err))
		}
	}

	sum.Found = stored
	sum.Inserted = int(inserted.Load())
	return sum
}
