package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

func TestClassifyExactPage(t *testing.T) {
	obs := model.CitationObservation{}
	answer := &Answer{
		Text:    "Fan tokens let fans vote. Source: https://example.com/fan-tokens",
		Sources: []string{"https://example.com/fan-tokens"},
	}
	classify(&obs, answer, "https://example.com/fan-tokens")

	if !obs.Cited || !obs.SourceShown || !obs.Accurate {
		t.Errorf("observation = %+v, want cited+shown+accurate", obs)
	}
}

func TestClassifyWrongPageSameHost(t *testing.T) {
	obs := model.CitationObservation{}
	answer := &Answer{Sources: []string{"https://example.com/other-article"}}
	classify(&obs, answer, "https://example.com/fan-tokens")

	if !obs.Cited || !obs.SourceShown {
		t.Errorf("host citation missed: %+v", obs)
	}
	if obs.Accurate {
		t.Error("different path marked accurate")
	}
}

func TestClassifyBareHostMention(t *testing.T) {
	obs := model.CitationObservation{}
	answer := &Answer{Text: "According to example.com, fan tokens let fans vote."}
	classify(&obs, answer, "https://www.example.com/fan-tokens")

	if !obs.Cited {
		t.Error("bare host mention not counted as cited")
	}
	if obs.SourceShown {
		t.Error("mention without a link marked as source shown")
	}
}

func TestClassifyNoCitation(t *testing.T) {
	obs := model.CitationObservation{}
	answer := &Answer{Text: "Fan tokens let fans vote on club decisions."}
	classify(&obs, answer, "https://example.com/fan-tokens")

	if obs.Cited || obs.SourceShown || obs.Accurate {
		t.Errorf("uncited answer classified as %+v", obs)
	}
}

type scriptedEngine struct {
	failures  int
	calls     int
	retryable bool
}

func (e *scriptedEngine) Platform() string { return "scripted" }

func (e *scriptedEngine) Ask(ctx context.Context, question string) (*Answer, error) {
	e.calls++
	if e.calls <= e.failures {
		return nil, &model.ProbeError{Platform: "scripted", Retryable: e.retryable, Err: errors.New("throttled")}
	}
	return &Answer{Text: "see https://example.com/fan-tokens"}, nil
}

func TestProbeRetriesUntilSuccess(t *testing.T) {
	engine := &scriptedEngine{failures: 1, retryable: true}
	prober := NewProber(engine, 3, 5*time.Second)

	obs := prober.Probe(context.Background(), model.QSetEntry{
		ID:        "q1",
		Question:  "what are fan tokens",
		TargetURL: "https://example.com/fan-tokens",
	})

	if obs.Failed {
		t.Fatalf("probe failed after retries: %+v", obs)
	}
	if !obs.Cited {
		t.Error("successful retry lost the citation")
	}
	if engine.calls != 2 {
		t.Errorf("engine called %d times, want 2", engine.calls)
	}
}

func TestProbeExhaustedRetriesRecordedAsFailed(t *testing.T) {
	engine := &scriptedEngine{failures: 10, retryable: true}
	prober := NewProber(engine, 2, 5*time.Second)

	obs := prober.Probe(context.Background(), model.QSetEntry{ID: "q1", Question: "q"})
	if !obs.Failed {
		t.Error("exhausted retries not recorded as failed")
	}
	if obs.EntryID != "q1" || obs.Platform != "scripted" {
		t.Errorf("failed observation lost identity: %+v", obs)
	}
}

func TestProbeNonRetryableStopsImmediately(t *testing.T) {
	engine := &scriptedEngine{failures: 10, retryable: false}
	prober := NewProber(engine, 5, 5*time.Second)

	obs := prober.Probe(context.Background(), model.QSetEntry{ID: "q1", Question: "q"})
	if !obs.Failed {
		t.Error("hard failure not recorded")
	}
	if engine.calls != 1 {
		t.Errorf("non-retryable error retried %d times", engine.calls)
	}
}
