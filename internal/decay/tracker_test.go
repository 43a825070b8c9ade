package decay

import (
	"testing"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

func snap(hash string, days int, takenAt time.Time) model.ContentSnapshot {
	return model.ContentSnapshot{
		Target:          "https://example.com/page",
		ContentHash:     hash,
		DaysSinceUpdate: days,
		TakenAt:         takenAt,
	}
}

func TestStateAgeBands(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()

	tests := []struct {
		days int
		want model.FreshnessState
	}{
		{0, model.StateFresh},
		{29, model.StateFresh},
		{30, model.StateAging},
		{90, model.StateAging},
		{91, model.StateStale},
		{400, model.StateStale},
		{-1, model.StateStale}, // No update signal at all
	}
	for _, tt := range tests {
		// Varying hashes so the run-length rule stays out of the way
		snapshots := []model.ContentSnapshot{
			snap("aaa", tt.days, now.Add(-48*time.Hour)),
			snap("bbb", tt.days, now),
		}
		if got := tracker.State(snapshots); got != tt.want {
			t.Errorf("State(days=%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

// The full walk: fresh content decays after three identical hashes and
// recovers only when the hash finally changes
func TestStateDecayWalk(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()

	history := []model.ContentSnapshot{snap("v1", 5, now.AddDate(0, 0, -21))}
	if got := tracker.State(history); got != model.StateFresh {
		t.Fatalf("after 1 snapshot: %s, want fresh", got)
	}

	history = append(history, snap("v1", 12, now.AddDate(0, 0, -14)))
	if got := tracker.State(history); got != model.StateFresh {
		t.Fatalf("after 2 identical hashes: %s, want fresh", got)
	}

	history = append(history, snap("v1", 19, now.AddDate(0, 0, -7)))
	if got := tracker.State(history); got != model.StateDecayed {
		t.Fatalf("after 3 identical hashes: %s, want decayed", got)
	}

	// Still decayed regardless of how fresh the visible date claims to be
	history = append(history, snap("v1", 1, now))
	if got := tracker.State(history); got != model.StateDecayed {
		t.Fatalf("4th identical hash: %s, want decayed", got)
	}

	// Exit only on a content change
	history = append(history, snap("v2", 2, now))
	if got := tracker.State(history); got != model.StateFresh {
		t.Fatalf("after hash change: %s, want fresh", got)
	}
}

func TestStateEmptyHistory(t *testing.T) {
	if got := NewTracker().State(nil); got != model.StateStale {
		t.Errorf("State(nil) = %s, want stale", got)
	}
}

func TestLeadTime(t *testing.T) {
	tracker := NewTracker()

	if got := tracker.LeadTime(120, []int{30, 60, 90}); got != 60 {
		t.Errorf("LeadTime = %d, want 60", got)
	}
	if got := tracker.LeadTime(10, []int{100, 200}); got != -140 {
		t.Errorf("LeadTime = %d, want -140", got)
	}
	if got := tracker.LeadTime(-1, []int{30}); got != 0 {
		t.Errorf("LeadTime with unknown own age = %d, want 0", got)
	}
	if got := tracker.LeadTime(50, nil); got != 0 {
		t.Errorf("LeadTime without competitors = %d, want 0", got)
	}
}

func TestCheckAlertConditions(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()
	stale := []model.ContentSnapshot{
		snap("v1", 120, now.AddDate(0, 0, -14)),
		snap("v2", 127, now.AddDate(0, 0, -7)),
	}

	// Behind competitors and accuracy degrading: alert
	alert := tracker.Check("https://example.com/page", stale, 40, 0.75)
	if alert == nil {
		t.Fatal("expected an alert")
	}
	if alert.State != model.StateStale || alert.FreshnessLeadTime != 40 {
		t.Errorf("alert = %+v", alert)
	}

	// Accuracy fine: no alert even when stale and behind
	if tracker.Check("https://example.com/page", stale, 40, 0.95) != nil {
		t.Error("alert raised with healthy accuracy")
	}

	// Ahead of competitors: no alert even with bad accuracy
	if tracker.Check("https://example.com/page", stale, -20, 0.50) != nil {
		t.Error("alert raised while fresher than competitors")
	}

	// Fresh content still alerts when it trails competitors with bad accuracy
	fresh := []model.ContentSnapshot{snap("v9", 3, now)}
	alert = tracker.Check("https://example.com/page", fresh, 40, 0.50)
	if alert == nil {
		t.Fatal("expected an alert for fresh-but-trailing content")
	}
	if alert.State != model.StateFresh {
		t.Errorf("alert state = %s, want fresh", alert.State)
	}
}
