// Package qset runs the tracked question set against every configured
// answer-engine platform and turns the observations into KPIs.
package qset

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/probe"
	"github.com/vkuzmenko/citescope/internal/worker"
)

// ObservationSink receives observations as they are produced
type ObservationSink interface {
	SaveObservation(obs *model.CitationObservation) error
}

// Orchestrator fans the question set out across platforms and a bounded
// worker pool
type Orchestrator struct {
	probers []*probe.Prober
	pool    *worker.Pool[model.CitationObservation]
	limiter *worker.PlatformLimiter
	sink    ObservationSink
}

// NewOrchestrator builds a run coordinator. sink may be nil for dry runs.
func NewOrchestrator(probers []*probe.Prober, cfg model.ProbeConfig, sink ObservationSink) *Orchestrator {
	return &Orchestrator{
		probers: probers,
		pool:    worker.NewPool[model.CitationObservation](cfg.Workers),
		limiter: worker.NewPlatformLimiter(cfg.RequestsPerSecond, cfg.Burst),
		sink:    sink,
	}
}

// Run probes every entry on every platform, high priority first. Output
// order is deterministic: entries in priority order, platforms per prober
// order.
func (o *Orchestrator) Run(ctx context.Context, entries []model.QSetEntry) []model.CitationObservation {
	ordered := byPriority(entries)

	var tasks []worker.Task[model.CitationObservation]
	for _, entry := range ordered {
		for _, p := range o.probers {
			entry, p := entry, p
			tasks = append(tasks, func(ctx context.Context) model.CitationObservation {
				if err := o.limiter.Wait(ctx, p.Platform()); err != nil {
					return model.CitationObservation{
						ID:         uuid.NewString(),
						EntryID:    entry.ID,
						Platform:   p.Platform(),
						ObservedAt: time.Now().UTC(),
						Failed:     true,
					}
				}
				return p.Probe(ctx, entry)
			})
		}
	}

	observations := o.pool.Run(ctx, tasks)

	if o.sink != nil {
		for i := range observations {
			if observations[i].EntryID == "" {
				continue // Slot never ran before cancellation
			}
			_ = o.sink.SaveObservation(&observations[i])
		}
	}
	return observations
}

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

func byPriority(entries []model.QSetEntry) []model.QSetEntry {
	out := make([]model.QSetEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}
