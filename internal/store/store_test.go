package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkuzmenko/citescope/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAuditRoundTripTimeOrdered(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, score := range []float64{70, 75, 82} {
		require.NoError(t, s.SaveAudit(&model.AuditResult{
			Target:        "https://example.com/page",
			TotalScore:    score,
			WeightVersion: "v2.0",
			Platform:      "universal",
			ContentHash:   "h",
			AnalyzedAt:    base.Add(time.Duration(i) * time.Hour),
			Dimensions: []model.DimensionResult{
				{Dimension: model.DimEvidence, Score: score},
			},
		}))
	}

	audits, err := s.ListAudits("https://example.com/page", 0)
	require.NoError(t, err)
	require.Len(t, audits, 3)
	assert.Equal(t, 70.0, audits[0].TotalScore)
	assert.Equal(t, 82.0, audits[2].TotalScore)
	// Full breakdown survives the payload round trip
	require.Len(t, audits[0].Dimensions, 1)
	assert.Equal(t, model.DimEvidence, audits[0].Dimensions[0].Dimension)

	limited, err := s.ListAudits("https://example.com/page", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, 75.0, limited[0].TotalScore) // Newest two, oldest first
	assert.Equal(t, 82.0, limited[1].TotalScore)
}

func TestSnapshotsAppendOnly(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, hash := range []string{"v1", "v1", "v2"} {
		require.NoError(t, s.SaveSnapshot(&model.ContentSnapshot{
			Target:          "https://example.com/page",
			ContentHash:     hash,
			TakenAt:         base.AddDate(0, 0, i*7),
			DaysSinceUpdate: 10 + i,
		}))
	}

	snapshots, err := s.ListSnapshots("https://example.com/page")
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "v1", snapshots[0].ContentHash)
	assert.Equal(t, "v2", snapshots[2].ContentHash)
}

func TestLatestUpdateAges(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSnapshot(&model.ContentSnapshot{
		Target: "a", ContentHash: "h1", TakenAt: base, DaysSinceUpdate: 100,
	}))
	require.NoError(t, s.SaveSnapshot(&model.ContentSnapshot{
		Target: "a", ContentHash: "h2", TakenAt: base.AddDate(0, 0, 7), DaysSinceUpdate: 5,
	}))
	require.NoError(t, s.SaveSnapshot(&model.ContentSnapshot{
		Target: "b", ContentHash: "h3", TakenAt: base, DaysSinceUpdate: 40,
	}))

	ages, err := s.LatestUpdateAges()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 5, "b": 40}, ages)
}

func TestEntryLifecycle(t *testing.T) {
	s := testStore(t)

	entry := model.QSetEntry{
		ID:        "q1",
		Question:  "what are fan tokens",
		Intent:    model.IntentInformational,
		Priority:  model.PriorityHigh,
		TargetURL: "https://example.com/fan-tokens",
	}
	require.NoError(t, s.SaveEntry(&entry))

	// Saving again updates in place
	entry.Priority = model.PriorityLow
	require.NoError(t, s.SaveEntry(&entry))

	entries, err := s.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.PriorityLow, entries[0].Priority)

	require.NoError(t, s.DeleteEntry("q1"))
	entries, err = s.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestObservationWindowQuery(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	save := func(id string, at time.Time, platform string) {
		require.NoError(t, s.SaveObservation(&model.CitationObservation{
			ID: id, EntryID: "q1", Platform: platform, ObservedAt: at, Cited: true,
		}))
	}
	save("o1", base, "perplexity")
	save("o2", base.AddDate(0, 0, 3), "perplexity")
	save("o3", base.AddDate(0, 0, 30), "perplexity") // Outside window
	save("o4", base, "gemini")                       // Other platform

	got, err := s.ListObservations("perplexity", base.AddDate(0, 0, -1), base.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, "o2", got[1].ID)
}
