package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const headlessPageTimeout = 25 * time.Second

// HeadlessConfig points a HeadlessSource at a JS-rendered board. The listing
// markup only exists after scripts run, so pages are loaded in a headless
// browser instead of plain HTTP.
type HeadlessConfig struct {
	Name        string
	BaseURL     string
	ListPath    string
	LinkPattern string
	Pages       int
	Limit       int
}

type HeadlessSource struct {
	cfg HeadlessConfig
}

func NewHeadlessSource(cfg HeadlessConfig) *HeadlessSource {
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 30
	}
	if cfg.Name == "" {
		cfg.Name = "headless"
	}
	if cfg.LinkPattern == "" {
		cfg.LinkPattern = "/jobs/"
	}
	return &HeadlessSource{cfg: cfg}
}

func (s *HeadlessSource) Name() string { return s.cfg.Name }

func (s *HeadlessSource) BaseURL() string { return s.cfg.BaseURL }

func (s *HeadlessSource) Fetch(ctx context.Context) ([]RawJob, error) {
	if s == nil {
		return nil, fmt.Errorf("nil headless source")
	}

	links := make([]string, 0)
	seen := map[string]struct{}{}
	pagesOK := 0
	var lastPageErr error
	for page := 1; page <= s.cfg.Pages; page++ {
		hrefs, err := s.collectLinks(ctx, page)
		if err != nil {
			lastPageErr = err
			continue
		}
		pagesOK++
		count := 0
		for _, h := range hrefs {
			if count >= s.cfg.Limit {
				break
			}
			abs := s.absolutize(h)
			if abs == "" {
				continue
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			links = append(links, abs)
			count++
		}
	}
	if pagesOK == 0 && lastPageErr != nil {
		return nil, lastPageErr
	}

	jobs := make([]RawJob, 0, len(links))
	for _, link := range links {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}
		title, text, err := s.fetchDetail(ctx, link)
		if err != nil || strings.TrimSpace(title) == "" {
			continue
		}
		jobs = append(jobs, RawJob{
			ExternalID:  externalIDFromURL(link),
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(text),
			URL:         link,
		})
	}
	return jobs, nil
}

func (s *HeadlessSource) collectLinks(ctx context.Context, page int) ([]string, error) {
	url := strings.TrimRight(s.cfg.BaseURL, "/") + fmt.Sprintf(s.cfg.ListPath, page)

	var hrefs []string
	err := runHeadless(ctx, headlessPageTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(fmt.Sprintf(`Array.from(document.querySelectorAll('a[href]'))
			.map(a => a.getAttribute('href'))
			.filter(h => h && h.includes(%q))`, s.cfg.LinkPattern), &hrefs),
	)
	if err != nil {
		return nil, err
	}
	if len(hrefs) == 0 {
		return nil, fmt.Errorf("no job urls found (headless)")
	}
	return hrefs, nil
}

func (s *HeadlessSource) fetchDetail(ctx context.Context, jobURL string) (string, string, error) {
	var title, text string
	err := runHeadless(ctx, headlessPageTimeout,
		chromedp.Navigate(jobURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1200*time.Millisecond),
		chromedp.EvaluateAsDevTools(`document.title`, &title),
		chromedp.EvaluateAsDevTools(`document.body ? document.body.innerText : ''`, &text),
	)
	if err != nil {
		return "", "", err
	}
	return title, text, nil
}

func (s *HeadlessSource) absolutize(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return base + "/" + href
	}
}

func runHeadless(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, timeout)
	defer reqCancel()

	return chromedp.Run(reqCtx, actions...)
}
