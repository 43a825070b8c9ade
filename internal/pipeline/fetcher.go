// Package pipeline runs the full audit flow: fetch, structure, extract,
// detect, aggregate. The pipeline owns side effects; detectors stay pure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vkuzmenko/citescope/internal/docmodel"
	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/util"
)

// Fetcher retrieves a page and records the transport signals the
// infrastructure dimension scores: scheme, render mode, load time
type Fetcher struct {
	client *http.Client
	robots *util.RobotsChecker
	cfg    model.HTTPConfig
}

// FetchResult is the raw page plus its observed transport signals
type FetchResult struct {
	URL      string // Final URL after redirects
	Content  string
	IsHTTPS  bool
	IsSSR    bool
	LoadTime time.Duration
}

// NewFetcher builds a fetcher honoring the HTTP config limits
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	f := &Fetcher{cfg: cfg}
	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, 10*time.Second)
	}
	return f
}

// Fetch retrieves rawURL. Any transport failure, non-2xx status, or empty
// body surfaces as *model.FetchError; partial results are never returned.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("invalid url")}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &model.FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", parsed.Scheme)}
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err == nil && !allowed {
			return nil, &model.FetchError{URL: rawURL, Err: errors.New("disallowed by robots.txt")}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	limit := f.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = 2_000_000
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	loadTime := time.Since(start)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Err: err}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, &model.FetchError{URL: rawURL, Err: errors.New("empty response body")}
	}

	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &FetchResult{
		URL:      final,
		Content:  string(body),
		IsHTTPS:  strings.HasPrefix(final, "https://"),
		IsSSR:    looksServerRendered(string(body)),
		LoadTime: loadTime,
	}, nil
}

// looksServerRendered checks whether meaningful text exists in the initial
// HTML payload. SPA shells ship a near-empty body and hydrate client-side.
func looksServerRendered(raw string) bool {
	inner := docmodel.VisibleTextLength(raw)
	if inner >= 500 {
		return true
	}
	lower := strings.ToLower(raw)
	for _, marker := range []string{`id="root"`, `id="app"`, `id="__next"`} {
		if strings.Contains(lower, marker) && inner < 200 {
			return false
		}
	}
	return inner >= 200
}
