package detect

import (
	"testing"

	"github.com/vkuzmenko/citescope/internal/model"
)

func TestPowerLeadScoreDirectAnswer(t *testing.T) {
	lead := "Fan tokens let fans vote on minor club decisions."
	title := "Fan Tokens: How They Work"

	if got := PowerLeadScore(lead, title); got != 100 {
		t.Errorf("PowerLeadScore(%q) = %v, want 100", lead, got)
	}
}

func TestPowerLeadScoreFillerOpener(t *testing.T) {
	lead := "In this article, we're going to explore everything you need to know about fan tokens."
	title := "Fan Tokens: How They Work"

	if got := PowerLeadScore(lead, title); got != 0 {
		t.Errorf("PowerLeadScore(%q) = %v, want 0", lead, got)
	}
}

func TestPowerLeadScoreEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		lead  string
		title string
		want  float64
	}{
		{"empty lead", "", "Fan Tokens", 0},
		{"no verb", "Fan tokens everywhere.", "Fan Tokens", 0},
		{"no title entity in lead", "Blockchain is a distributed ledger.", "Fan Tokens", 0},
		{"empty title", "Fan tokens let fans vote.", "", 0},
		{"welcome opener", "Welcome to our guide on fan tokens.", "Fan Tokens", 0},
		{"is verb", "A fan token is a digital asset giving supporters voting rights.", "Fan Tokens Explained", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PowerLeadScore(tt.lead, tt.title); got != tt.want {
				t.Errorf("PowerLeadScore(%q, %q) = %v, want %v", tt.lead, tt.title, got, tt.want)
			}
		})
	}
}

func TestEntityDetectorBreakdown(t *testing.T) {
	doc := &model.StructuredDocument{
		Title: "Fan Tokens: How They Work",
		Lead:  "Fan tokens let fans vote on minor club decisions.",
		Body:  "Fan tokens let fans vote on minor club decisions. Fan tokens trade on exchanges. Clubs issue fan tokens to supporters.",
	}
	d := &EntityDetector{}
	result := d.Evaluate(doc, nil)

	if result.Dimension != model.DimEntity {
		t.Fatalf("dimension = %s", result.Dimension)
	}
	if len(result.Breakdown) != 3 {
		t.Fatalf("breakdown size = %d, want 3", len(result.Breakdown))
	}
	if result.Breakdown[0].Name != "Power Lead" || result.Breakdown[0].Score != 100 {
		t.Errorf("power lead sub-check = %+v", result.Breakdown[0])
	}
	if result.Score != 100 {
		t.Errorf("score = %v, want 100", result.Score)
	}
}
