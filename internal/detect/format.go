package detect

import (
	"fmt"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// FormatDetector scores visual scannability from structural traces that
// survive normalization: list-like lines, block lengths, and section rhythm.
type FormatDetector struct{}

const (
	scannabilityWeight = 0.40
	blockLengthWeight  = 0.35
	rhythmWeight       = 0.25

	maxBlockChars = 700
)

func (d *FormatDetector) Dimension() model.Dimension { return model.DimFormat }

func (d *FormatDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	breakdown := []model.SubCheck{
		d.scannability(doc),
		d.blockLengths(doc),
		d.sectionRhythm(doc),
	}
	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
	}
}

// scannability looks for clusters of short adjacent lines, the plain-text
// footprint of lists and tables
func (d *FormatDetector) scannability(doc *model.StructuredDocument) model.SubCheck {
	lists := 0
	for _, s := range doc.Sections {
		run := 0
		for _, line := range strings.Split(s.Text, "\n") {
			words := len(strings.Fields(line))
			if words > 0 && words <= 25 {
				run++
				if run == 4 {
					lists++
				}
			} else {
				run = 0
			}
		}
	}
	score := 0.0
	explanation := "No list or table structure detected."
	var recs []string
	if lists >= 1 {
		score = 100
		explanation = fmt.Sprintf("%d list-like block(s) detected.", lists)
	} else {
		recs = append(recs, "Convert dense prose into at least one list or table; extracted answers favor them.")
	}
	return subCheck("Scannability", score, scannabilityWeight, explanation, recs...)
}

func (d *FormatDetector) blockLengths(doc *model.StructuredDocument) model.SubCheck {
	long := 0
	blocks := 0
	for _, s := range doc.Sections {
		for _, p := range strings.Split(s.Text, "\n") {
			if strings.TrimSpace(p) == "" {
				continue
			}
			blocks++
			if len(p) > maxBlockChars {
				long++
			}
		}
	}
	if blocks == 0 {
		return subCheck("Block Length", 0, blockLengthWeight, "No text blocks found.")
	}
	score := model.Clamp(100 - float64(long)/float64(blocks)*300)
	explanation := fmt.Sprintf("%d of %d blocks exceed %d characters.", long, blocks, maxBlockChars)
	var recs []string
	if long > 0 {
		recs = append(recs, "Break up blocks past roughly seven lines of rendered text.")
	}
	return subCheck("Block Length", score, blockLengthWeight, explanation, recs...)
}

func (d *FormatDetector) sectionRhythm(doc *model.StructuredDocument) model.SubCheck {
	if len(doc.Sections) <= 1 {
		return subCheck("Section Rhythm", 30, rhythmWeight,
			"Single unbroken section; no visual rhythm.",
			"Alternate headings, short paragraphs, and lists to keep sections scannable.")
	}
	short, long := 0, 0
	for _, s := range doc.Sections {
		words := len(strings.Fields(s.Text))
		switch {
		case words < 40:
			short++
		case words > 400:
			long++
		}
	}
	balanced := len(doc.Sections) - short - long
	score := float64(balanced) / float64(len(doc.Sections)) * 100
	explanation := fmt.Sprintf("%d of %d sections sit in the readable 40-400 word band.", balanced, len(doc.Sections))
	return subCheck("Section Rhythm", score, rhythmWeight, explanation)
}
