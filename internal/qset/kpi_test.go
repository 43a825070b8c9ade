package qset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vkuzmenko/citescope/internal/model"
)

func obs(entry string, at time.Time, cited, shown, accurate, failed bool) model.CitationObservation {
	return model.CitationObservation{
		EntryID:     entry,
		Platform:    "perplexity",
		ObservedAt:  at,
		Cited:       cited,
		SourceShown: shown,
		Accurate:    accurate,
		Failed:      failed,
	}
}

func TestComputeKPIs(t *testing.T) {
	now := time.Now().UTC()
	start, end := now.Add(-24*time.Hour), now

	observations := []model.CitationObservation{
		obs("q1", now.Add(-time.Hour), true, true, true, false),
		obs("q2", now.Add(-time.Hour), true, true, false, false),
		obs("q3", now.Add(-time.Hour), false, false, false, false),
		obs("q4", now.Add(-time.Hour), false, false, false, true), // Failed probe
	}

	report := ComputeKPIs("perplexity", observations, start, end)

	assert.Equal(t, 4, report.TotalProbes)
	assert.Equal(t, 1, report.FailedProbes)
	// Share of voice divides by all probes; coverage skips the failed one
	assert.InDelta(t, 0.5, report.ShareOfVoice, 1e-9)
	assert.InDelta(t, 2.0/3.0, report.AnswerCoverage, 1e-9)
	assert.InDelta(t, 0.5, report.CitationAccuracy, 1e-9)
}

func TestShareOfVoiceCountsFailedProbes(t *testing.T) {
	now := time.Now().UTC()
	start, end := now.Add(-24*time.Hour), now

	clean := []model.CitationObservation{
		obs("q1", now.Add(-time.Hour), true, true, true, false),
		obs("q2", now.Add(-time.Hour), true, true, true, false),
	}
	withOutage := append(clean,
		obs("q3", now.Add(-time.Hour), false, false, false, true),
		obs("q4", now.Add(-time.Hour), false, false, false, true))

	before := ComputeKPIs("perplexity", clean, start, end)
	after := ComputeKPIs("perplexity", withOutage, start, end)

	assert.InDelta(t, 1.0, before.ShareOfVoice, 1e-9)
	// Failed probes dilute share of voice but not coverage or accuracy
	assert.InDelta(t, 0.5, after.ShareOfVoice, 1e-9)
	assert.InDelta(t, before.AnswerCoverage, after.AnswerCoverage, 1e-9)
	assert.InDelta(t, before.CitationAccuracy, after.CitationAccuracy, 1e-9)
}

func TestComputeKPIsFiltersPlatformAndWindow(t *testing.T) {
	now := time.Now().UTC()
	start, end := now.Add(-24*time.Hour), now

	outside := obs("q1", now.Add(-48*time.Hour), true, true, true, false)
	wrongPlatform := obs("q1", now.Add(-time.Hour), true, true, true, false)
	wrongPlatform.Platform = "gemini"

	report := ComputeKPIs("perplexity", []model.CitationObservation{outside, wrongPlatform}, start, end)
	assert.Zero(t, report.TotalProbes)
	assert.Zero(t, report.ShareOfVoice)
}

func TestComputeKPIsEmptyWindow(t *testing.T) {
	now := time.Now().UTC()
	report := ComputeKPIs("perplexity", nil, now.Add(-time.Hour), now)
	assert.Zero(t, report.ShareOfVoice)
	assert.Zero(t, report.CitationAccuracy)
}

func TestCompareRegainedAndLost(t *testing.T) {
	now := time.Now().UTC()
	curStart, curEnd := now.Add(-24*time.Hour), now
	prevStart, prevEnd := now.Add(-48*time.Hour), curStart

	entries := []model.QSetEntry{
		{ID: "q1", Question: "what are fan tokens"},
		{ID: "q2", Question: "how do fan tokens trade"},
		{ID: "q3", Question: "are fan tokens securities"},
	}

	previous := []model.CitationObservation{
		obs("q1", now.Add(-30*time.Hour), true, true, true, false),  // Cited then
		obs("q2", now.Add(-30*time.Hour), false, false, false, false),
		obs("q3", now.Add(-30*time.Hour), false, false, false, false),
	}
	current := []model.CitationObservation{
		obs("q1", now.Add(-time.Hour), false, false, false, false), // Lost
		obs("q2", now.Add(-time.Hour), true, true, false, false),   // Regained
		obs("q3", now.Add(-time.Hour), false, false, false, false), // Unchanged
	}

	cmp := Compare("perplexity", entries, current, previous, curStart, curEnd, prevStart, prevEnd)

	if assert.Len(t, cmp.Regained, 1) {
		assert.Equal(t, "q2", cmp.Regained[0].EntryID)
		assert.Equal(t, "how do fan tokens trade", cmp.Regained[0].Question)
	}
	if assert.Len(t, cmp.Lost, 1) {
		assert.Equal(t, "q1", cmp.Lost[0].EntryID)
	}
}

func TestOrchestratorOrdersByPriority(t *testing.T) {
	entries := []model.QSetEntry{
		{ID: "low", Priority: model.PriorityLow},
		{ID: "high", Priority: model.PriorityHigh},
		{ID: "med", Priority: model.PriorityMedium},
	}
	ordered := byPriority(entries)

	assert.Equal(t, []string{"high", "med", "low"},
		[]string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	// Input slice untouched
	assert.Equal(t, "low", entries[0].ID)
}
