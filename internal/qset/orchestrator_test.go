package qset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/probe"
)

type stubEngine struct{ platform string }

func (e *stubEngine) Platform() string { return e.platform }

func (e *stubEngine) Ask(ctx context.Context, question string) (*probe.Answer, error) {
	return &probe.Answer{
		Text:    "see https://example.com/page",
		Sources: []string{"https://example.com/page"},
	}, nil
}

type memorySink struct{ saved []model.CitationObservation }

func (s *memorySink) SaveObservation(obs *model.CitationObservation) error {
	s.saved = append(s.saved, *obs)
	return nil
}

// Throttled probes still produce storable observations: every saved record
// needs its own ID and timestamp or the store's unique index rejects the
// second one.
func TestRunRecordsIdentityOnThrottledProbes(t *testing.T) {
	// One burst token at a rate so low the second probe cannot wait it out
	cfg := model.ProbeConfig{Workers: 1, RequestsPerSecond: 0.001, Burst: 1}
	prober := probe.NewProber(&stubEngine{platform: "perplexity"}, 1, time.Second)
	sink := &memorySink{}
	o := NewOrchestrator([]*probe.Prober{prober}, cfg, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	entries := []model.QSetEntry{
		{ID: "q1", Question: "what are fan tokens", TargetURL: "https://example.com/page"},
		{ID: "q2", Question: "how do fan tokens trade", TargetURL: "https://example.com/page"},
	}
	observations := o.Run(ctx, entries)

	require.Len(t, observations, 2)
	ids := map[string]bool{}
	failed := 0
	for _, obs := range observations {
		assert.NotEmpty(t, obs.ID)
		assert.False(t, obs.ObservedAt.IsZero())
		ids[obs.ID] = true
		if obs.Failed {
			failed++
		}
	}
	assert.Len(t, ids, 2, "observation IDs must be distinct")
	assert.Equal(t, 1, failed)
	assert.Len(t, sink.saved, 2)
}
