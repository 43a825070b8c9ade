package detect

import (
	"fmt"

	"github.com/vkuzmenko/citescope/internal/model"
)

// LinksDetector scores outbound verifiability: how many real citation links
// leave the page and how many of those reach primary sources. Social and
// share links are filtered before counting.
type LinksDetector struct{}

const (
	citationCountWeight = 0.50
	primaryShareWeight  = 0.50

	goodCitationCount = 5
)

func (d *LinksDetector) Dimension() model.Dimension { return model.DimLinks }

func (d *LinksDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	var citations, primary int
	for _, l := range doc.ExternalLinks() {
		if l.Class == model.LinkUtility {
			continue
		}
		citations++
		if l.Class == model.LinkPrimarySource {
			primary++
		}
	}

	countScore := model.Clamp(float64(citations) / goodCitationCount * 100)
	countExplain := fmt.Sprintf("%d outbound citation links after filtering social/utility links.", citations)
	var countRecs []string
	if citations == 0 {
		countRecs = append(countRecs, "Link out to the sources behind your statements; zero outbound citations reads as unverifiable.")
	}

	var shareScore float64
	shareExplain := "No citation links to assess."
	var shareRecs []string
	if citations > 0 {
		shareScore = float64(primary) / float64(citations) * 100
		shareExplain = fmt.Sprintf("%d of %d citation links reach primary sources.", primary, citations)
		if primary == 0 {
			shareRecs = append(shareRecs, "Prefer .gov/.edu/journal destinations over blogs for at least some citations.")
		}
	}

	breakdown := []model.SubCheck{
		subCheck("Citation Count", countScore, citationCountWeight, countExplain, countRecs...),
		subCheck("Primary-Source Share", shareScore, primaryShareWeight, shareExplain, shareRecs...),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug:     map[string]any{"citations": citations, "primary": primary},
	}
}
