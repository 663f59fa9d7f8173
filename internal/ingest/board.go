package ingest

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// BoardConfig points a BoardSource at a static HTML job board. ListPath is a
// printf template taking the page number; LinkPattern is the substring a
// detail href must contain to count as a posting.
type BoardConfig struct {
	Name        string
	BaseURL     string
	ListPath    string
	LinkPattern string
	Pages       int
}

// BoardSource crawls listing pages for posting links and then each posting
// page for its text. Crawling stays on the board's own host and colly's limit
// rule paces the requests.
type BoardSource struct {
	cfg         BoardConfig
	allowedHost string
}

func NewBoardSource(cfg BoardConfig) *BoardSource {
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.Name == "" {
		cfg.Name = "board"
	}
	if cfg.LinkPattern == "" {
		cfg.LinkPattern = "/job/"
	}
	return &BoardSource{
		cfg:         cfg,
		allowedHost: hostFromBaseURL(cfg.BaseURL),
	}
}

func (s *BoardSource) Name() string { return s.cfg.Name }

func (s *BoardSource) BaseURL() string { return s.cfg.BaseURL }

func (s *BoardSource) Fetch(ctx context.Context) ([]RawJob, error) {
	if s == nil {
		return nil, fmt.Errorf("nil board source")
	}

	links := make([]string, 0)
	seen := map[string]struct{}{}
	pagesOK := 0
	var lastPageErr error
	for page := 1; page <= s.cfg.Pages; page++ {
		listURL := strings.TrimRight(s.cfg.BaseURL, "/") + fmt.Sprintf(s.cfg.ListPath, page)
		pageLinks, err := s.collectLinks(ctx, listURL)
		if err != nil {
			lastPageErr = err
			continue
		}
		pagesOK++
		for _, l := range pageLinks {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			links = append(links, l)
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
		detail, err := s.fetchDetail(ctx, link)
		if err != nil {
			continue
		}
		if strings.TrimSpace(detail.title) == "" {
			continue
		}
		jobs = append(jobs, RawJob{
			ExternalID:  externalIDFromURL(link),
			Title:       detail.title,
			Description: detail.description,
			URL:         link,
		})
	}
	return jobs, nil
}

func (s *BoardSource) collectLinks(ctx context.Context, listURL string) ([]string, error) {
	c := s.newCollector()

	links := make([]string, 0)
	c.OnHTML("a", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" || !strings.Contains(href, s.cfg.LinkPattern) {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if abs == "" {
			return
		}
		links = append(links, abs)
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return links, nil
}

type boardDetail struct {
	title       string
	description string
}

func (s *BoardSource) fetchDetail(ctx context.Context, jobURL string) (boardDetail, error) {
	c := s.newCollector()

	var out boardDetail
	var reqErr error

	c.OnHTML("title", func(e *colly.HTMLElement) {
		out.title = strings.TrimSpace(e.Text)
	})
	c.OnHTML("h1", func(e *colly.HTMLElement) {
		if strings.TrimSpace(out.title) == "" {
			out.title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		out.description = strings.TrimSpace(e.DOM.Text())
	})
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return boardDetail{}, ctx.Err()
	}
	if err := c.Visit(jobURL); err != nil {
		return boardDetail{}, err
	}
	c.Wait()
	if reqErr != nil {
		return boardDetail{}, reqErr
	}
	return out, nil
}

func (s *BoardSource) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(s.allowedHost),
	)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*" + s.allowedHost + "*",
		Parallelism: 2,
		RandomDelay: 750 * time.Millisecond,
		Delay:       400 * time.Millisecond,
	})
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", feedUserAgent)
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,id;q=0.8")
	})
	return c
}

func externalIDFromURL(jobURL string) string {
	jobURL = strings.TrimSpace(jobURL)
	u, err := url.Parse(jobURL)
	if err == nil {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) > 0 {
			last := strings.TrimSpace(parts[len(parts)-1])
			if last != "" {
				return last
			}
		}
	}
	return jobURL
}

func hostFromBaseURL(base string) string {
	base = strings.TrimSpace(base)
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
