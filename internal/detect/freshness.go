package detect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// FreshnessDetector scores temporal relevance from the most recent update
// signal: visible date text or machine-readable dateModified, newer wins.
type FreshnessDetector struct {
	// Now is injectable for deterministic tests; zero value means time.Now
	Now time.Time
}

const (
	freshnessGraceDays  = 90
	freshnessPenaltyPer = 2  // Points per started 30-day period past grace
	freshnessLeadBonus  = 10 // Date signal visible inside the lead window
)

func (d *FreshnessDetector) Dimension() model.Dimension { return model.DimFreshness }

func (d *FreshnessDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	now := d.Now
	if now.IsZero() {
		now = time.Now()
	}

	signal := doc.UpdateSignal()
	var score float64
	var explanation string
	var recs []string

	if signal == nil {
		score = 0
		explanation = "No update signal found: no visible date and no dateModified metadata."
		recs = append(recs,
			"Add a machine-readable article:modified_time meta tag or a visible \"Updated:\" date.")
	} else {
		ageDays := int(now.Sub(*signal).Hours() / 24)
		score = 100
		if ageDays > freshnessGraceDays {
			periods := math.Ceil(float64(ageDays-freshnessGraceDays) / 30)
			score -= freshnessPenaltyPer * periods
		}
		if dateInLead(doc.Lead, *signal) {
			score += freshnessLeadBonus
		}
		score = model.Clamp(score)
		explanation = fmt.Sprintf("Last update signal %s (%d days ago).",
			signal.Format("2006-01-02"), ageDays)
		if ageDays > freshnessGraceDays {
			recs = append(recs, "Refresh the content and bump the modification date; decay starts past 90 days.")
		}
	}

	breakdown := []model.SubCheck{
		subCheck("Date Currency", score, 1.0, explanation, recs...),
	}

	// Informational only: a current-year mention in the title signals
	// relevance to answer engines but never moves this dimension's score
	yearCheck := d.currentYearSignal(doc, now)
	breakdown = append(breakdown, yearCheck)

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug:     map[string]any{"signal": signal},
	}
}

// dateInLead reports whether the update signal is written out inside the
// lead window in any of the formats the builder recognizes
func dateInLead(lead string, signal time.Time) bool {
	candidates := []string{
		signal.Format("2006-01-02"),
		signal.Format("January 2, 2006"),
		signal.Format("01/02/2006"),
		signal.Format("2/1/2006"),
	}
	for _, c := range candidates {
		if strings.Contains(lead, c) {
			return true
		}
	}
	return false
}

func (d *FreshnessDetector) currentYearSignal(doc *model.StructuredDocument, now time.Time) model.SubCheck {
	year := strconv.Itoa(now.Year())
	next := strconv.Itoa(now.Year() + 1)
	found := strings.Contains(doc.Title, year) || strings.Contains(doc.Title, next)

	score := 0.0
	explanation := fmt.Sprintf("Current year (%s) not present in the title.", year)
	var recs []string
	if found {
		score = 100
		explanation = fmt.Sprintf("Current year (%s) present in the title.", year)
	} else {
		recs = append(recs, fmt.Sprintf("Mention %s in the title when the content is genuinely current.", year))
	}
	return subCheck("Current Year Signal", score, 0, explanation, recs...)
}
