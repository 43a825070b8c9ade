package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// EEATDetector scores the four authority signal families independently and
// reports their unweighted mean alongside all four components. The trust
// sub-score is deliberately computed from transparency signals, not from the
// evidence-density ratio; both surface separately in the audit breakdown.
type EEATDetector struct{}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(i|we)\s+(tested|analyzed|found|discovered|observed|evaluated|reviewed|verified|measured|built)`),
	regexp.MustCompile(`(?i)\bin\s+(my|our)\s+(experience|testing|analysis|benchmarks)`),
	regexp.MustCompile(`(?i)\b(i|we)\s+have\s+(used|tried|spent|run)`),
	regexp.MustCompile(`(?i)\b(i|we)\s+personally`),
	regexp.MustCompile(`(?i)\bhands-on\s+(test|review|experience)`),
}

var credentialRe = regexp.MustCompile(`(?i)\b(ph\.?d|m\.?d|professor|certified|licensed|years of experience|researcher|engineer at|analyst at)\b`)

var trustPageKeywords = []string{
	"about", "team", "editorial", "authors", "staff",
	"privacy", "terms", "contact", "policy", "legal",
}

var highValueTrustPages = map[string]bool{
	"about": true, "team": true, "editorial": true, "authors": true, "staff": true,
}

func (d *EEATDetector) Dimension() model.Dimension { return model.DimEEAT }

func (d *EEATDetector) Evaluate(doc *model.StructuredDocument, cs *model.ClaimSet) model.DimensionResult {
	experience := d.experienceScore(doc)
	expertise := d.expertiseScore(doc)
	authority := d.authorityScore(doc, cs)
	trust := d.trustScore(doc)

	// Composite is the unweighted mean of the four families
	breakdown := []model.SubCheck{experience, expertise, authority, trust}
	for i := range breakdown {
		breakdown[i].Weight = 0.25
		breakdown[i].Weighted = breakdown[i].Score * 0.25
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
	}
}

func (d *EEATDetector) experienceScore(doc *model.StructuredDocument) model.SubCheck {
	signals := 0
	for _, re := range experiencePatterns {
		signals += len(re.FindAllString(doc.Body, -1))
	}
	var score float64
	switch {
	case signals >= 3:
		score = 100
	case signals >= 1:
		score = 60
	}
	explanation := fmt.Sprintf("%d first-person experience signals found.", signals)
	var recs []string
	if signals < 3 {
		recs = append(recs, "Show first-hand work: \"we tested\", \"in our benchmarks\".")
	}
	return subCheck("Experience Signals", score, 0, explanation, recs...)
}

func (d *EEATDetector) expertiseScore(doc *model.StructuredDocument) model.SubCheck {
	score := 0.0
	var parts []string
	if doc.Meta.Author != "" {
		score += 50
		parts = append(parts, "author byline present")
	}
	if credentialRe.MatchString(doc.Body) {
		score += 30
		parts = append(parts, "credential language in body")
	}
	if doc.Meta.HasAuthorSchema {
		score += 20
		parts = append(parts, "Person/Organization schema entity")
	}
	explanation := "No expertise signals detected."
	if len(parts) > 0 {
		explanation = "Expertise signals: " + strings.Join(parts, ", ") + "."
	}
	var recs []string
	if doc.Meta.Author == "" {
		recs = append(recs, "Add a \"Written by\" byline with the author's credentials.")
	}
	return subCheck("Expertise Signals", score, 0, explanation, recs...)
}

func (d *EEATDetector) authorityScore(doc *model.StructuredDocument, cs *model.ClaimSet) model.SubCheck {
	primary := 0
	for _, l := range doc.ExternalLinks() {
		if l.Class == model.LinkPrimarySource {
			primary++
		}
	}
	attributions := 0
	for _, c := range cs.Claims() {
		if c.Claim.Type == model.ClaimAttribution {
			attributions++
		}
	}

	score := model.Clamp(float64(primary)*30 + float64(attributions)*10)
	explanation := fmt.Sprintf("%d primary-source links, %d attributed statements.", primary, attributions)
	var recs []string
	if primary == 0 {
		recs = append(recs, "Cite primary sources (.gov, .edu, journals) rather than aggregators.")
	}
	return subCheck("Authority Signals", score, 0, explanation, recs...)
}

func (d *EEATDetector) trustScore(doc *model.StructuredDocument) model.SubCheck {
	found := map[string]bool{}
	for _, l := range doc.Links {
		lower := strings.ToLower(l.URL)
		for _, kw := range trustPageKeywords {
			if strings.Contains(lower, kw) {
				found[kw] = true
			}
		}
	}
	highValue := false
	for kw := range found {
		if highValueTrustPages[kw] {
			highValue = true
		}
	}

	var score float64
	switch {
	case highValue && len(found) >= 3:
		score = 100
	case highValue:
		score = 70
	case len(found) > 0:
		score = 40 // Basic compliance only, capped
	}
	if doc.UpdateSignal() != nil {
		score = model.Clamp(score + 10)
	}

	keys := make([]string, 0, len(found))
	for kw := range found {
		keys = append(keys, kw)
	}
	sort.Strings(keys)
	explanation := "No transparency pages linked."
	if len(keys) > 0 {
		explanation = fmt.Sprintf("Transparency pages linked: %s.", strings.Join(keys, ", "))
	}
	var recs []string
	if !highValue {
		recs = append(recs, "Link About and Team pages; basic legal pages alone cap the trust signal.")
	}
	return subCheck("Trust Signals", score, 0, explanation, recs...)
}
