package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-compass/internal/repository"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrInvalidSkillIDs = errors.New("one or more skill ids do not exist")
)

type JobItem struct {
	ID          int64
	Title       string
	Company     string
	Location    string
	Description string
	Skills      []string
	CreatedAt   time.Time
}

type JobPage struct {
	Total int
	Page  int
	Size  int
	Pages int
	Items []JobItem
}

type CreateJobInput struct {
	Title       string
	Description string
	Company     *string
	Location    *string
	SkillIDs    []int64
}

type JobUsecase interface {
	ListJobs(ctx context.Context, page, size int) (JobPage, error)
	GetJob(ctx context.Context, jobID int64) (JobItem, error)
	CreateJob(ctx context.Context, in CreateJobInput) (JobItem, error)
}

// CorpusNotifier tells connected clients that the job corpus changed and any
// cached recommendations they hold are stale.
type CorpusNotifier interface {
	CorpusUpdated(source string, jobCount int)
}

type Jobs struct {
	jobs      repository.JobRepository
	jobSkills repository.JobSkillRepository
	skills    repository.SkillRepository
	cache     RecommendationCache
	notifier  CorpusNotifier
}

func NewJobUsecase(jobs repository.JobRepository, jobSkills repository.JobSkillRepository, skills repository.SkillRepository, cache RecommendationCache, notifier CorpusNotifier) *Jobs {
	return &Jobs{jobs: jobs, jobSkills: jobSkills, skills: skills, cache: cache, notifier: notifier}
}

func (u *Jobs) ListJobs(ctx context.Context, page, size int) (JobPage, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	total, err := u.jobs.CountJobs(ctx)
	if err != nil {
		return JobPage{}, ErrInternal
	}

	rows, err := u.jobs.ListJobs(ctx, size, (page-1)*size)
	if err != nil {
		return JobPage{}, ErrInternal
	}

	items, err := u.assembleItems(ctx, rows)
	if err != nil {
		return JobPage{}, ErrInternal
	}

	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}

	return JobPage{Total: total, Page: page, Size: size, Pages: pages, Items: items}, nil
}

func (u *Jobs) GetJob(ctx context.Context, jobID int64) (JobItem, error) {
	if jobID <= 0 {
		return JobItem{}, ErrJobNotFound
	}

	row, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return JobItem{}, ErrJobNotFound
		}
		return JobItem{}, ErrInternal
	}

	items, err := u.assembleItems(ctx, []repository.JobRow{row})
	if err != nil {
		return JobItem{}, ErrInternal
	}
	return items[0], nil
}

func (u *Jobs) CreateJob(ctx context.Context, in CreateJobInput) (JobItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return JobItem{}, ErrInvalidInput
	}

	skillIDs := dedupePositiveIDs(in.SkillIDs)
	if len(skillIDs) > 0 {
		found, err := u.skills.FindByIDs(ctx, skillIDs)
		if err != nil {
			return JobItem{}, ErrInternal
		}
		if len(found) != len(skillIDs) {
			return JobItem{}, ErrInvalidSkillIDs
		}
	}

	id, err := u.jobs.CreateJob(ctx, repository.JobCreate{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Company:     in.Company,
		Location:    in.Location,
		SkillIDs:    skillIDs,
	})
	if err != nil {
		return JobItem{}, ErrInternal
	}

	// The corpus changed, so cached recommendations no longer apply.
	if u.cache != nil {
		_ = u.cache.InvalidateRecommendations(ctx)
	}
	if u.notifier != nil {
		u.notifier.CorpusUpdated("api", 1)
	}

	return u.GetJob(ctx, id)
}

func (u *Jobs) assembleItems(ctx context.Context, rows []repository.JobRow) ([]JobItem, error) {
	jobIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		jobIDs = append(jobIDs, r.ID)
	}

	skillsByJob, err := u.jobSkills.FindByJobIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	out := make([]JobItem, 0, len(rows))
	for _, r := range rows {
		refs := skillsByJob[r.ID]
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			if ref.SkillName == "" {
				continue
			}
			names = append(names, ref.SkillName)
		}

		out = append(out, JobItem{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			Description: r.Description,
			Skills:      names,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}

func dedupePositiveIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
