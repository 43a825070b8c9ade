package detect

import (
	"fmt"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// MultiPlatformDetector measures platform-agnostic readiness: the structural
// traits every answer engine rewards. The per-platform adjustment itself is
// a delta applied by the aggregator from the platform profile, never
// computed here.
type MultiPlatformDetector struct{}

const (
	qaShapeWeight      = 0.40
	extractableWeight  = 0.35
	schemaSignalWeight = 0.25
)

func (d *MultiPlatformDetector) Dimension() model.Dimension { return model.DimMultiPlatform }

func (d *MultiPlatformDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	qa := d.qaShape(doc)
	extractable := d.extractability(doc)

	schemaScore := 0.0
	schemaExplain := "No structured data to carry across platforms."
	if doc.Meta.HasSchema {
		schemaScore = 100
		schemaExplain = "Structured data present; portable across engines."
	}

	breakdown := []model.SubCheck{
		qa,
		extractable,
		subCheck("Schema Portability", schemaScore, schemaSignalWeight, schemaExplain),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
	}
}

func (d *MultiPlatformDetector) qaShape(doc *model.StructuredDocument) model.SubCheck {
	questions := 0
	headings := 0
	for _, s := range doc.Sections {
		if s.Heading == "" {
			continue
		}
		headings++
		if questionHeadingRe.MatchString(strings.TrimSpace(s.Heading)) {
			questions++
		}
	}
	var score float64
	switch {
	case questions >= 2:
		score = 100
	case questions == 1:
		score = 60
	case headings > 0:
		score = 30
	}
	explanation := fmt.Sprintf("%d question-shaped headings out of %d.", questions, headings)
	var recs []string
	if questions < 2 {
		recs = append(recs, "Shape at least two sections as question/answer pairs; every engine extracts those.")
	}
	return subCheck("Q&A Shape", score, qaShapeWeight, explanation, recs...)
}

// extractability checks for self-contained sections: a heading plus a
// paragraph short enough to quote whole
func (d *MultiPlatformDetector) extractability(doc *model.StructuredDocument) model.SubCheck {
	extractable := 0
	headings := 0
	for _, s := range doc.Sections {
		if s.Heading == "" {
			continue
		}
		headings++
		words := len(strings.Fields(firstParagraph(s.Text)))
		if words >= 20 && words <= 120 {
			extractable++
		}
	}
	if headings == 0 {
		return subCheck("Extractable Sections", 0, extractableWeight,
			"No headed sections to extract.")
	}
	score := float64(extractable) / float64(headings) * 100
	explanation := fmt.Sprintf("%d of %d sections open with a quotable 20-120 word paragraph.", extractable, headings)
	return subCheck("Extractable Sections", score, extractableWeight, explanation)
}
