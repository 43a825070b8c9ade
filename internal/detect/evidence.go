package detect

import (
	"fmt"

	"github.com/vkuzmenko/citescope/internal/model"
)

// EvidenceDensityDetector is the only detector consuming the claims map
// directly: score = share of claims carrying public-verifiable evidence.
type EvidenceDensityDetector struct{}

func (d *EvidenceDensityDetector) Dimension() model.Dimension { return model.DimEvidence }

func (d *EvidenceDensityDetector) Evaluate(_ *model.StructuredDocument, cs *model.ClaimSet) model.DimensionResult {
	totalClaims := cs.Len()
	verifiable := cs.CountByClass(model.EvidencePublicVerifiable)
	unverifiable := cs.CountByClass(model.EvidenceInternalUnverifiable)

	var score float64
	var explanation string
	var recs []string

	if totalClaims == 0 {
		// Undefined ratio: report 100 with a note, not a penalty
		score = 100
		explanation = "No factual claims detected; nothing requires verification. Add data points to increase authority."
	} else {
		score = 100 * float64(verifiable) / float64(totalClaims)
		explanation = fmt.Sprintf("%d of %d claims carry public-verifiable evidence (%d cite sources without links).",
			verifiable, totalClaims, unverifiable)
		if verifiable < totalClaims {
			recs = append(recs, "Attach an outbound citation link next to every statistic and dated assertion.")
		}
		if unverifiable > 0 {
			recs = append(recs, "Link the studies you name; an unnamed \"study shows\" reads as unverifiable.")
		}
	}

	breakdown := []model.SubCheck{
		subCheck("Evidence Density", score, 1.0, explanation, recs...),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug: map[string]any{
			"claims":       totalClaims,
			"verifiable":   verifiable,
			"unverifiable": unverifiable,
		},
	}
}
