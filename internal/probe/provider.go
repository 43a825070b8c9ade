// Package probe asks live answer engines the tracked questions and records
// whether the target page gets cited. Probes are best-effort: a platform
// that keeps failing yields Failed observations, never an aborted run.
package probe

import (
	"context"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Answer is one engine response with whatever sources it surfaced
type Answer struct {
	Text    string
	Sources []string
}

// Engine asks one answer-engine platform a question
type Engine interface {
	Platform() string
	Ask(ctx context.Context, question string) (*Answer, error)
}

// Prober wraps an engine with retry, backoff, and citation classification
type Prober struct {
	engine      Engine
	maxAttempts int
	timeout     time.Duration
}

// NewProber bounds an engine with maxAttempts retries and a hard per-probe
// timeout
func NewProber(engine Engine, maxAttempts int, timeout time.Duration) *Prober {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Prober{engine: engine, maxAttempts: maxAttempts, timeout: timeout}
}

// Platform names the engine this prober wraps
func (p *Prober) Platform() string { return p.engine.Platform() }

// Probe asks the engine one question and classifies the citation outcome.
// Exhausted retries produce a Failed observation rather than an error so
// KPI windows account for every attempted probe.
func (p *Prober) Probe(ctx context.Context, entry model.QSetEntry) model.CitationObservation {
	obs := model.CitationObservation{
		ID:         uuid.NewString(),
		EntryID:    entry.ID,
		Platform:   p.engine.Platform(),
		ObservedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	answer, err := p.askWithRetry(ctx, entry.Question)
	if err != nil {
		obs.Failed = true
		return obs
	}

	classify(&obs, answer, entry.TargetURL)
	return obs
}

func (p *Prober) askWithRetry(ctx context.Context, question string) (*Answer, error) {
	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
		answer, err := p.engine.Ask(ctx, question)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !model.IsRetryable(err) {
			break
		}
	}
	return nil, lastErr
}

// backoff doubles per attempt with up to 50% jitter so parallel probes
// against a throttling platform spread out
func backoff(attempt int) time.Duration {
	base := time.Second << (attempt - 1)
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base)/2 + 1))
	return base + jitter
}

var urlRe = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// classify fills the citation fields from one answer.
// Cited means the target host appears anywhere; SourceShown means it is in
// the source list; Accurate means the exact page, not just the host, is the
// attributed source.
func classify(obs *model.CitationObservation, answer *Answer, targetURL string) {
	obs.Answer = answer.Text

	target, err := url.Parse(targetURL)
	if err != nil || target.Host == "" {
		return
	}
	host := strings.TrimPrefix(strings.ToLower(target.Host), "www.")

	sources := append([]string{}, answer.Sources...)
	sources = append(sources, urlRe.FindAllString(answer.Text, -1)...)

	for _, raw := range sources {
		u, err := url.Parse(strings.TrimRight(raw, ".,;"))
		if err != nil {
			continue
		}
		srcHost := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		if srcHost != host {
			continue
		}
		obs.Cited = true
		obs.SourceShown = true
		if strings.TrimRight(u.Path, "/") == strings.TrimRight(target.Path, "/") {
			obs.Accurate = true
		}
	}

	// A bare host mention without a link still counts as cited
	if !obs.Cited && strings.Contains(strings.ToLower(answer.Text), host) {
		obs.Cited = true
	}
}
