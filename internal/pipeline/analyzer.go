package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vkuzmenko/citescope/internal/cache"
	"github.com/vkuzmenko/citescope/internal/claims"
	"github.com/vkuzmenko/citescope/internal/detect"
	"github.com/vkuzmenko/citescope/internal/docmodel"
	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/score"
)

// Recorder appends audit history; the analyzer never reads it back
type Recorder interface {
	SaveAudit(result *model.AuditResult) error
	SaveSnapshot(snapshot *model.ContentSnapshot) error
}

// Analyzer runs the audit flow end to end for one target at a time.
// It is safe for concurrent use.
type Analyzer struct {
	fetcher    *Fetcher
	builder    *docmodel.Builder
	extractor  *claims.Extractor
	aggregator *score.Aggregator
	cache      *cache.AuditCache
	recorder   Recorder
	cfg        *model.Config
}

// NewAnalyzer wires the audit pipeline against a validated weight registry
func NewAnalyzer(cfg *model.Config, registry *score.Registry) *Analyzer {
	return &Analyzer{
		fetcher:    NewFetcher(cfg.HTTP),
		builder:    docmodel.NewBuilder(),
		extractor:  claims.NewExtractor(),
		aggregator: score.NewAggregator(registry),
		cfg:        cfg,
	}
}

// UseCache enables result reuse for unchanged content
func (a *Analyzer) UseCache(c *cache.AuditCache) { a.cache = c }

// UseRecorder enables history persistence
func (a *Analyzer) UseRecorder(r Recorder) { a.recorder = r }

// AuditURL fetches the target and audits the retrieved document
func (a *Analyzer) AuditURL(ctx context.Context, target, platform string) (*model.AuditResult, error) {
	a.logf("fetching %s", target)
	page, err := a.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return a.audit(target, docmodel.BuildInput{
		Content:   page.Content,
		SourceURL: page.URL,
		Fetched:   true,
		IsHTTPS:   page.IsHTTPS,
		IsSSR:     page.IsSSR,
		LoadTime:  page.LoadTime,
	}, platform)
}

// AuditText audits pasted or piped content with no transport signals.
// The label stands in for a URL in results and history.
func (a *Analyzer) AuditText(content, label, platform string) (*model.AuditResult, error) {
	return a.audit(label, docmodel.BuildInput{
		Content:   content,
		IsRawText: true,
	}, platform)
}

// AuditHTML audits local HTML with no transport signals, keeping the
// structural analysis markup gives us
func (a *Analyzer) AuditHTML(content, label, platform string) (*model.AuditResult, error) {
	return a.audit(label, docmodel.BuildInput{Content: content}, platform)
}

func (a *Analyzer) audit(target string, in docmodel.BuildInput, platform string) (*model.AuditResult, error) {
	start := time.Now()

	doc, err := a.builder.Build(in)
	if err != nil {
		return nil, err
	}
	hash := cache.HashContent(doc.Body)

	if a.cache != nil {
		if cached, ok := a.cache.Lookup(target, hash); ok {
			a.logf("cache hit for %s (%s)", target, hash[:12])
			return cached, nil
		}
	}

	claimSet := a.extractor.Extract(doc)
	a.logf("extracted %d claims from %s", claimSet.Len(), target)

	dimensions := detect.Run(doc, claimSet)

	result, err := a.aggregator.Aggregate(dimensions, a.cfg.Scoring.WeightVersion, platform)
	if err != nil {
		return nil, err
	}
	result.Target = target
	result.ContentHash = hash
	result.Duration = time.Since(start)

	if a.cache != nil {
		if err := a.cache.Store(target, result); err != nil {
			a.logf("cache store failed: %v", err)
		}
	}
	if a.recorder != nil {
		a.record(doc, result)
	}
	return result, nil
}

func (a *Analyzer) record(doc *model.StructuredDocument, result *model.AuditResult) {
	if err := a.recorder.SaveAudit(result); err != nil {
		a.logf("persist audit failed: %v", err)
		return
	}
	days := -1
	if ts := doc.UpdateSignal(); ts != nil {
		days = int(time.Since(*ts).Hours() / 24)
	}
	snapshot := &model.ContentSnapshot{
		Target:          result.Target,
		ContentHash:     result.ContentHash,
		TakenAt:         result.AnalyzedAt,
		AuditID:         uuid.NewString(),
		TotalScore:      result.TotalScore,
		DaysSinceUpdate: days,
	}
	if err := a.recorder.SaveSnapshot(snapshot); err != nil {
		a.logf("persist snapshot failed: %v", err)
	}
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.cfg.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
