package qset

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/vkuzmenko/citescope/internal/model"
)

// EntrySource loads the question set fresh for each scheduled run so
// edits between runs take effect
type EntrySource interface {
	ListEntries() ([]model.QSetEntry, error)
}

// Scheduler triggers recurring orchestrator runs on a cron expression
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *Orchestrator
	source       EntrySource
}

// NewScheduler builds an idle scheduler; Start arms it
func NewScheduler(orchestrator *Orchestrator, source EntrySource) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		source:       source,
	}
}

// Start registers the recurring run. An empty spec is a no-op so a config
// without a schedule block runs probe-on-demand only.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		entries, err := s.source.ListEntries()
		if err != nil {
			fmt.Fprintf(os.Stderr, "scheduled run: loading entries: %v\n", err)
			return
		}
		if len(entries) == 0 {
			return
		}
		s.orchestrator.Run(ctx, entries)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
