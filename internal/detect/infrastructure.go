package detect

import (
	"fmt"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// InfrastructureDetector scores the transport signals the scraper observed:
// HTTPS, server-side rendering, and load speed. Input that never crossed the
// wire (pasted text, local files) has no transport, so it scores neutral
// with a note instead of being punished.
type InfrastructureDetector struct{}

const (
	httpsWeight = 0.30
	ssrWeight   = 0.40
	speedWeight = 0.30

	speedExcellent = 2 * time.Second
	speedGood      = 4 * time.Second
	speedFair      = 6 * time.Second
	speedPoor      = 10 * time.Second
)

func (d *InfrastructureDetector) Dimension() model.Dimension { return model.DimInfrastructure }

func (d *InfrastructureDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	if !doc.Fetched {
		breakdown := []model.SubCheck{
			subCheck("Transport Signals", 70, 1.0,
				"Content supplied without an HTTP fetch: no transport to evaluate, neutral score applied."),
		}
		return model.DimensionResult{
			Dimension: d.Dimension(),
			Score:     total(breakdown),
			Breakdown: breakdown,
		}
	}

	httpsScore := 0.0
	httpsExplain := "Page served over plain HTTP."
	var httpsRecs []string
	if doc.IsHTTPS {
		httpsScore = 100
		httpsExplain = "Page served over HTTPS."
	} else {
		httpsRecs = append(httpsRecs, "Serve the page over HTTPS; crawlers downrank plain HTTP.")
	}

	ssrScore := 0.0
	ssrExplain := "Content appears only after script execution (client-side rendering)."
	var ssrRecs []string
	if doc.IsSSR {
		ssrScore = 100
		ssrExplain = "Content present in the initial HTML (server-side rendered)."
	} else {
		ssrRecs = append(ssrRecs, "Render core content server-side; most answer-engine crawlers do not execute scripts.")
	}

	speedScore, speedExplain := d.speed(doc.LoadTime)

	breakdown := []model.SubCheck{
		subCheck("HTTPS Security", httpsScore, httpsWeight, httpsExplain, httpsRecs...),
		subCheck("Rendering Mode", ssrScore, ssrWeight, ssrExplain, ssrRecs...),
		subCheck("Load Speed", speedScore, speedWeight, speedExplain),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
	}
}

func (d *InfrastructureDetector) speed(load time.Duration) (float64, string) {
	if load == 0 {
		return 70, "Load time not observed; neutral score applied."
	}
	explain := fmt.Sprintf("Page loaded in %s.", load.Round(time.Millisecond))
	switch {
	case load < speedExcellent:
		return 100, explain
	case load < speedGood:
		return 80, explain
	case load < speedFair:
		return 60, explain
	case load < speedPoor:
		return 30, explain
	default:
		return 0, explain
	}
}
