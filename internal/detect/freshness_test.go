package detect

import (
	"testing"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

func freshnessDoc(modified time.Time, lead string) *model.StructuredDocument {
	return &model.StructuredDocument{
		Title: "Fan Tokens",
		Lead:  lead,
		Meta:  model.DocumentMeta{DateModified: &modified},
	}
}

func TestFreshnessDecayPastGrace(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	d := &FreshnessDetector{Now: now}

	// 95 days old: 5 days past grace is one started 30-day period, -2
	doc := freshnessDoc(now.AddDate(0, 0, -95), "Fan tokens let fans vote.")
	result := d.Evaluate(doc, nil)
	if result.Score != 98 {
		t.Errorf("score at 95 days = %v, want 98", result.Score)
	}
}

func TestFreshnessWithinGrace(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	d := &FreshnessDetector{Now: now}

	doc := freshnessDoc(now.AddDate(0, 0, -89), "Fan tokens let fans vote.")
	if got := d.Evaluate(doc, nil).Score; got != 100 {
		t.Errorf("score at 89 days = %v, want 100", got)
	}
}

func TestFreshnessDecaySchedule(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	d := &FreshnessDetector{Now: now}

	tests := []struct {
		ageDays int
		want    float64
	}{
		{91, 98},  // First period started
		{120, 98}, // Still first period
		{121, 96}, // Second period started
		{180, 94},
	}
	for _, tt := range tests {
		doc := freshnessDoc(now.AddDate(0, 0, -tt.ageDays), "")
		if got := d.Evaluate(doc, nil).Score; got != tt.want {
			t.Errorf("score at %d days = %v, want %v", tt.ageDays, got, tt.want)
		}
	}
}

func TestFreshnessNoSignal(t *testing.T) {
	d := &FreshnessDetector{Now: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	doc := &model.StructuredDocument{Title: "Fan Tokens", Lead: "Fan tokens let fans vote."}

	result := d.Evaluate(doc, nil)
	if result.Score != 0 {
		t.Errorf("score without signal = %v, want 0", result.Score)
	}
	if len(result.Breakdown) == 0 || len(result.Breakdown[0].Recommendations) == 0 {
		t.Error("missing recommendation for absent update signal")
	}
}

func TestFreshnessLeadDateBonusClamped(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	d := &FreshnessDetector{Now: now}

	modified := now.AddDate(0, 0, -10)
	lead := "Updated " + modified.Format("January 2, 2006") + ": fan tokens let fans vote."
	doc := freshnessDoc(modified, lead)

	// 100 base + 10 lead bonus clamps to 100
	if got := d.Evaluate(doc, nil).Score; got != 100 {
		t.Errorf("score with lead date = %v, want 100", got)
	}
}
