package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"skill-compass/internal/database"
	"skill-compass/internal/repository"

	"github.com/google/uuid"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			v, ok := r.vals[i].(int64)
			if !ok {
				return fmt.Errorf("scan type mismatch int64")
			}
			*d = v
		case *bool:
			v, ok := r.vals[i].(bool)
			if !ok {
				return fmt.Errorf("scan type mismatch bool")
			}
			*d = v
		default:
			return fmt.Errorf("unsupported scan type")
		}
	}
	return nil
}

type storedJob struct {
	id          int64
	title       string
	description string
	skillIDs    map[int64]struct{}
}

type fakeDB struct {
	mu sync.Mutex

	sourceIDs    map[string]int64
	nextSourceID int64

	runStatus map[uuid.UUID]string
	runCounts map[uuid.UUID][2]int
	logs      []string

	jobs      map[string]*storedJob
	nextJobID int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		sourceIDs: map[string]int64{},
		runStatus: map[uuid.UUID]string{},
		runCounts: map[uuid.UUID][2]int{},
		jobs:      map[string]*storedJob{},
	}
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }

func (db *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(q, "insert into job_sources"):
		name := args[0].(string)
		if _, ok := db.sourceIDs[name]; !ok {
			db.nextSourceID++
			db.sourceIDs[name] = db.nextSourceID
			return 1, nil
		}
		return 0, nil

	case strings.HasPrefix(q, "insert into ingest_runs"):
		runID := args[0].(uuid.UUID)
		db.runStatus[runID] = "running"
		return 1, nil

	case strings.HasPrefix(q, "update ingest_runs"):
		runID := args[0].(uuid.UUID)
		db.runStatus[runID] = args[2].(string)
		db.runCounts[runID] = [2]int{args[3].(int), args[4].(int)}
		return 1, nil

	case strings.HasPrefix(q, "insert into ingest_logs"):
		db.logs = append(db.logs, args[3].(string))
		return 1, nil

	default:
		return 0, fmt.Errorf("unsupported exec: %s", q)
	}
}

func (db *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(q, "select id from job_sources"):
		name := args[0].(string)
		id, ok := db.sourceIDs[name]
		if !ok {
			return fakeRow{err: fmt.Errorf("no rows")}
		}
		return fakeRow{vals: []any{id}}
	default:
		return fakeRow{err: fmt.Errorf("unsupported queryrow: %s", q)}
	}
}

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return &fakeTx{db: db}, nil
}

type fakeTx struct {
	db *fakeDB
}

func (tx *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(q, "insert into job_skills") {
		return 0, fmt.Errorf("unsupported tx exec: %s", q)
	}

	jobID := args[0].(int64)
	skillID := args[1].(int64)
	for _, j := range tx.db.jobs {
		if j.id == jobID {
			j.skillIDs[skillID] = struct{}{}
			return 1, nil
		}
	}
	return 0, fmt.Errorf("job %d not found", jobID)
}

func (tx *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, fmt.Errorf("not implemented")
}

func (tx *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if !strings.HasPrefix(q, "insert into jobs") {
		return fakeRow{err: fmt.Errorf("unsupported tx queryrow: %s", q)}
	}

	// args: title, description, company, location, source_id, external_job_id, posted_at
	title := args[0].(string)
	description := args[1].(string)
	sourceID := args[4].(int64)
	externalID := args[5].(string)

	key := fmt.Sprintf("%d|%s", sourceID, externalID)
	if j, ok := tx.db.jobs[key]; ok {
		j.title = title
		if description != "" {
			j.description = description
		}
		return fakeRow{vals: []any{j.id, false}}
	}

	tx.db.nextJobID++
	tx.db.jobs[key] = &storedJob{
		id:          tx.db.nextJobID,
		title:       title,
		description: description,
		skillIDs:    map[int64]struct{}{},
	}
	return fakeRow{vals: []any{tx.db.nextJobID, true}}
}

func (tx *fakeTx) Commit(ctx context.Context) error   { return nil }
func (tx *fakeTx) Rollback(ctx context.Context) error { return nil }

type staticSource struct {
	name string
	jobs []RawJob
	err  error
}

func (s *staticSource) Name() string    { return s.name }
func (s *staticSource) BaseURL() string { return "https://static.test" }

func (s *staticSource) Fetch(ctx context.Context) ([]RawJob, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs, nil
}

type staticCatalog struct {
	skills []repository.Skill
}

func (c *staticCatalog) GetAllSkills(ctx context.Context) ([]repository.Skill, error) {
	return c.skills, nil
}

type countingCache struct {
	mu sync.Mutex
	n  int
}

func (c *countingCache) InvalidateRecommendations(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

func (c *countingCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type recordingNotifier struct {
	mu     sync.Mutex
	calls  int
	source string
	count  int
}

func (n *recordingNotifier) CorpusUpdated(source string, jobCount int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.source = source
	n.count = jobCount
}

func TestRunner_RunAllStoresJobsAndNotifies(t *testing.T) {
	db := newFakeDB()
	catalog := &staticCatalog{skills: []repository.Skill{
		{ID: 1, Name: "Go"},
		{ID: 2, Name: "Python"},
		{ID: 3, Name: "Docker"},
	}}
	cache := &countingCache{}
	notifier := &recordingNotifier{}

	src := &staticSource{name: "static", jobs: []RawJob{
		{ExternalID: "j1", Title: "Go developer", Description: "Go and Docker every day"},
		{ExternalID: "j2", Title: "Data engineer", Description: "Python pipelines"},
		{ExternalID: "j3", Title: "   "},
	}}

	r := NewRunner(NewStore(db), catalog, cache, notifier, 2, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sums, err := r.RunAll(ctx, []Source{src})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sums))
	}
	if sums[0].Found != 2 || sums[0].Inserted != 2 || sums[0].Err != nil {
		t.Fatalf("unexpected summary: %+v", sums[0])
	}

	db.mu.Lock()
	if got := len(db.jobs); got != 2 {
		db.mu.Unlock()
		t.Fatalf("expected 2 jobs stored, got %d", got)
	}
	goJob := db.jobs["1|j1"]
	pyJob := db.jobs["1|j2"]
	db.mu.Unlock()

	if goJob == nil || pyJob == nil {
		t.Fatalf("expected jobs keyed by source and external id")
	}
	if _, ok := goJob.skillIDs[1]; !ok {
		t.Fatalf("expected Go extracted for j1, got %v", goJob.skillIDs)
	}
	if _, ok := goJob.skillIDs[3]; !ok {
		t.Fatalf("expected Docker extracted for j1, got %v", goJob.skillIDs)
	}
	if _, ok := pyJob.skillIDs[2]; !ok {
		t.Fatalf("expected Python extracted for j2, got %v", pyJob.skillIDs)
	}

	if cache.count() != 1 {
		t.Fatalf("expected 1 cache invalidation, got %d", cache.count())
	}
	if notifier.calls != 1 || notifier.source != "ingest" || notifier.count != 2 {
		t.Fatalf("unexpected notifier state: %+v", notifier)
	}

	for runID, status := range db.runStatus {
		if status != "finished" {
			t.Fatalf("expected finished run, got %s", status)
		}
		if counts := db.runCounts[runID]; counts != [2]int{2, 2} {
			t.Fatalf("expected run counts [2 2], got %v", counts)
		}
	}
}

func TestRunner_SecondRunIsIdempotent(t *testing.T) {
	db := newFakeDB()
	catalog := &staticCatalog{skills: []repository.Skill{{ID: 1, Name: "Go"}}}
	cache := &countingCache{}
	notifier := &recordingNotifier{}

	src := &staticSource{name: "static", jobs: []RawJob{
		{ExternalID: "j1", Title: "Go developer", Description: "Go services"},
	}}

	r := NewRunner(NewStore(db), catalog, cache, notifier, 2, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.RunAll(ctx, []Source{src}); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	sums, err := r.RunAll(ctx, []Source{src})
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if sums[0].Found != 1 || sums[0].Inserted != 0 {
		t.Fatalf("expected refresh without new rows, got %+v", sums[0])
	}

	db.mu.Lock()
	jobCount := len(db.jobs)
	db.mu.Unlock()
	if jobCount != 1 {
		t.Fatalf("expected 1 job after re-run, got %d", jobCount)
	}

	if cache.count() != 2 {
		t.Fatalf("expected invalidation on both runs, got %d", cache.count())
	}
	if notifier.calls != 1 {
		t.Fatalf("expected no notification when nothing new, got %d calls", notifier.calls)
	}
}

func TestRunner_SourceFailureDoesNotStopOthers(t *testing.T) {
	db := newFakeDB()
	catalog := &staticCatalog{skills: []repository.Skill{{ID: 1, Name: "Go"}}}
	cache := &countingCache{}
	notifier := &recordingNotifier{}

	bad := &staticSource{name: "bad", err: fmt.Errorf("network down")}
	good := &staticSource{name: "good", jobs: []RawJob{
		{ExternalID: "g1", Title: "Go developer", Description: "Go"},
	}}

	r := NewRunner(NewStore(db), catalog, cache, notifier, 2, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sums, err := r.RunAll(ctx, []Source{bad, good})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].Err == nil {
		t.Fatalf("expected error summary for bad source")
	}
	if sums[1].Err != nil || sums[1].Inserted != 1 {
		t.Fatalf("expected good source to land its job, got %+v", sums[1])
	}

	statuses := map[string]int{}
	db.mu.Lock()
	for _, s := range db.runStatus {
		statuses[s]++
	}
	db.mu.Unlock()
	if statuses["failed"] != 1 || statuses["finished"] != 1 {
		t.Fatalf("expected one failed and one finished run, got %v", statuses)
	}

	if cache.count() != 1 {
		t.Fatalf("expected single invalidation, got %d", cache.count())
	}
}

func TestStore_UpsertJobStableIDFromURL(t *testing.T) {
	db := newFakeDB()
	store := NewStore(db)

	ctx := context.Background()

	id1, new1, err := store.UpsertJob(ctx, 1, RawJob{Title: "X", URL: "https://x.test/a"}, nil)
	if err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	if !new1 {
		t.Fatalf("expected first upsert to insert")
	}

	id2, new2, err := store.UpsertJob(ctx, 1, RawJob{Title: "X", URL: "https://x.test/a"}, nil)
	if err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	if new2 || id2 != id1 {
		t.Fatalf("expected same row on re-upsert, got id %d/%d new=%v", id1, id2, new2)
	}

	if _, _, err := store.UpsertJob(ctx, 1, RawJob{Title: "X"}, nil); err == nil {
		t.Fatalf("expected error without external id or url")
	}
}

func TestStore_EnsureSourceIdempotent(t *testing.T) {
	db := newFakeDB()
	store := NewStore(db)

	ctx := context.Background()

	id1, err := store.EnsureSource(ctx, "Board", "https://board.test")
	if err != nil {
		t.Fatalf("ensure error: %v", err)
	}
	id2, err := store.EnsureSource(ctx, "Board", "https://board.test")
	if err != nil {
		t.Fatalf("ensure error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected stable source id, got %d and %d", id1, id2)
	}
}
