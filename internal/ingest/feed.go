package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const feedUserAgent = "SkillCompassIngest/0.1"

// FeedConfig points a FeedSource at a JSON job feed. APIBase serves the
// listings endpoints, SiteBase is recorded as the source's public URL.
type FeedConfig struct {
	Name     string
	APIBase  string
	SiteBase string
	Pages    int
	Workers  int
}

// FeedSource pulls postings from a paginated JSON listings API, fetching the
// detail document for each listing to get the full description text.
type FeedSource struct {
	cfg    FeedConfig
	client *http.Client
}

func NewFeedSource(cfg FeedConfig) *FeedSource {
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Name == "" {
		cfg.Name = "feed"
	}
	return &FeedSource{
		cfg: cfg,
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

func (s *FeedSource) Name() string { return s.cfg.Name }

func (s *FeedSource) BaseURL() string { return s.cfg.SiteBase }

type feedListing struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Organization string  `json:"organization_name"`
	Company      string  `json:"company_name"`
	Location     string  `json:"location"`
	PublishedAt  *string `json:"published_at"`
	URL          string  `json:"url"`
}

type feedListingDetail struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization_name"`
	Company      string  `json:"company_name"`
	Location     string  `json:"location"`
	PublishedAt  *string `json:"published_at"`
	BodyMarkdown string  `json:"body_markdown"`
	URL          string  `json:"url"`
}

func (s *FeedSource) Fetch(ctx context.Context) ([]RawJob, error) {
	if s == nil {
		return nil, fmt.Errorf("nil feed source")
	}

	pool := NewWorkerPool(s.cfg.Workers, s.cfg.Workers*2)
	pool.SetRateLimit(4)
	results := pool.Run(ctx)

	var (
		mu   sync.Mutex
		jobs []RawJob
	)

	pagesOK := 0
	var lastPageErr error
	for page := 1; page <= s.cfg.Pages; page++ {
		listings, err := s.fetchListings(ctx, page)
		if err != nil {
			lastPageErr = err
			continue
		}
		pagesOK++
		for _, it := range listings {
			it := it
			if it.ID == 0 {
				continue
			}
			pool.Submit(func(ctx context.Context) error {
				detail, err := s.fetchListingDetail(ctx, it.ID)
				if err != nil {
					return err
				}
				raw := RawJob{
					ExternalID:  strconv.Itoa(detail.ID),
					Title:       pickNonEmpty(detail.Title, it.Title),
					Company:     pickNonEmpty(detail.Company, detail.Organization),
					Location:    pickNonEmpty(detail.Location, it.Location),
					Description: detail.BodyMarkdown,
					PostedAt:    parseFeedTime(detail.PublishedAt),
					URL:         pickNonEmpty(detail.URL, it.URL),
				}
				mu.Lock()
				jobs = append(jobs, raw)
				mu.Unlock()
				return nil
			})
		}
	}

	pool.Close()

	itemErrs := 0
	for res := range results {
		if res.Err != nil {
			itemErrs++
		}
	}

	if pagesOK == 0 && lastPageErr != nil {
		return nil, lastPageErr
	}
	if len(jobs) == 0 && itemErrs > 0 {
		return nil, fmt.Errorf("all %d feed items failed", itemErrs)
	}
	return jobs, nil
}

func (s *FeedSource) fetchListings(ctx context.Context, page int) ([]feedListing, error) {
	url := fmt.Sprintf("%s/api/listings?category=jobs&per_page=30&page=%d", strings.TrimRight(s.cfg.APIBase, "/"), page)
	body, err := httpGetWithRetry(ctx, s.client, url, 3)
	if err != nil {
		return nil, err
	}
	var out []feedListing
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FeedSource) fetchListingDetail(ctx context.Context, id int) (feedListingDetail, error) {
	url := fmt.Sprintf("%s/api/listings/%d", strings.TrimRight(s.cfg.APIBase, "/"), id)
	body, err := httpGetWithRetry(ctx, s.client, url, 3)
	if err != nil {
		return feedListingDetail{}, err
	}
	var out feedListingDetail
	if err := json.Unmarshal(body, &out); err != nil {
		return feedListingDetail{}, err
	}
	return out, nil
}

func parseFeedTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return parseTimeOrNil(time.RFC3339, *s)
}

func httpGetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", feedUserAgent)
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, 5<<20)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return nil, lastErr
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}
