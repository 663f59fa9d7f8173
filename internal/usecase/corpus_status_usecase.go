package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"skill-compass/internal/domain"
	"skill-compass/internal/repository"
)

// CachePinger reports cache reachability for the status endpoint.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type CorpusStatusUsecase interface {
	GetStatus(ctx context.Context) (domain.CorpusStatus, error)
}

type CorpusStatus struct {
	repo  repository.CorpusStatusRepository
	cache CachePinger
	log   *log.Logger
}

func NewCorpusStatusUsecase(repo repository.CorpusStatusRepository, cache CachePinger, logger *log.Logger) *CorpusStatus {
	if logger == nil {
		logger = log.Default()
	}
	return &CorpusStatus{repo: repo, cache: cache, log: logger}
}

// GetStatus gathers corpus counters and backend health in parallel. A failed
// counter degrades to zero instead of failing the whole status read.
func (u *CorpusStatus) GetStatus(ctx context.Context) (domain.CorpusStatus, error) {
	now := time.Now().UTC()
	if u == nil || u.repo == nil {
		return domain.CorpusStatus{Sources: make([]domain.SourceStat, 0), ServerTime: now}, nil
	}

	var (
		totalJobs   int64
		totalSkills int64
		jobsToday   int64
		sources     []domain.SourceStat
		dbHealthy   bool
		redisOK     bool

		errJobs    error
		errSkills  error
		errToday   error
		errSources error
	)

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		totalJobs, errJobs = u.repo.CountJobs(ctx)
		if errJobs != nil {
			u.log.Printf("corpus_status metric=total_jobs status=error err=%v", errJobs)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		totalSkills, errSkills = u.repo.CountSkills(ctx)
		if errSkills != nil {
			u.log.Printf("corpus_status metric=total_skills status=error err=%v", errSkills)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		jobsToday, errToday = u.repo.CountJobsSince(ctx, midnight)
		if errToday != nil {
			u.log.Printf("corpus_status metric=jobs_today status=error err=%v", errToday)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sources, errSources = u.repo.ListSourceStats(ctx)
		if errSources != nil {
			u.log.Printf("corpus_status metric=sources status=error err=%v", errSources)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		dbHealthy = u.repo.Ping(pingCtx) == nil
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if u.cache == nil {
			return
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		redisOK = u.cache.Ping(pingCtx) == nil
	}()

	wg.Wait()

	if sources == nil {
		sources = make([]domain.SourceStat, 0)
	}

	return domain.CorpusStatus{
		TotalJobs:       int(totalJobs),
		TotalSkills:     int(totalSkills),
		JobsToday:       int(jobsToday),
		Sources:         sources,
		DatabaseHealthy: dbHealthy,
		RedisHealthy:    redisOK,
		ServerTime:      now,
	}, nil
}
