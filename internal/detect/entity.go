package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// EntityDetector evaluates how clearly the content names its key entity for
// an answer engine: the Power Lead, entity presence in the title, and entity
// density through the body.
type EntityDetector struct{}

const (
	powerLeadWeight     = 0.40
	titleEntityWeight   = 0.30
	entityDensityWeight = 0.30

	minEntityMentions = 3
)

// Openers that waste the lead window instead of answering
var fillerOpeners = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\W*in this (article|post|guide)`),
	regexp.MustCompile(`(?i)we('re| are) going to`),
	regexp.MustCompile(`(?i)(we will|let'?s) (explore|discuss|cover|show|dive)`),
	regexp.MustCompile(`(?i)let me show you`),
	regexp.MustCompile(`(?i)today we will`),
	regexp.MustCompile(`(?i)^\W*welcome to`),
	regexp.MustCompile(`(?i)read on to`),
	regexp.MustCompile(`(?i)keep reading`),
	regexp.MustCompile(`(?i)once upon a time`),
	regexp.MustCompile(`(?i)imagine a world`),
	regexp.MustCompile(`(?i)it all started`),
}

func (d *EntityDetector) Dimension() model.Dimension { return model.DimEntity }

func (d *EntityDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	entities := keyEntities(doc.Title)

	powerLead := PowerLeadScore(doc.Lead, doc.Title)
	var leadExplain string
	var leadRecs []string
	if powerLead == 100 {
		leadExplain = "Lead answers directly: subject, verb and title entity inside the first 150-200 characters."
	} else {
		leadExplain = "Lead does not deliver a direct entity-bearing answer in the first 150-200 characters."
		leadRecs = append(leadRecs, "Open with a one-sentence answer naming the key entity; drop filler openers like \"in this article\".")
	}

	titleScore, titleExplain := d.titleEntities(doc.Title)

	densityScore, mentions := d.entityDensity(doc.Body, entities)
	densityExplain := fmt.Sprintf("Key entity mentioned %d times across the body.", mentions)
	var densityRecs []string
	if densityScore < 100 {
		densityRecs = append(densityRecs, "Repeat the canonical entity name instead of pronouns so each section stands alone.")
	}

	breakdown := []model.SubCheck{
		subCheck("Power Lead", powerLead, powerLeadWeight, leadExplain, leadRecs...),
		subCheck("Title Entities", titleScore, titleEntityWeight, titleExplain),
		subCheck("Entity Density", densityScore, entityDensityWeight, densityExplain, densityRecs...),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug: map[string]any{
			"entities": entities,
			"mentions": mentions,
		},
	}
}

// PowerLeadScore is binary: 100 iff the lead window parses as
// subject+verb+object tied to the title's key entity and is not a filler
// opener. Ambiguous parses fail.
func PowerLeadScore(lead, title string) float64 {
	if strings.TrimSpace(lead) == "" {
		return 0
	}
	for _, re := range fillerOpeners {
		if re.MatchString(lead) {
			return 0
		}
	}

	first := firstSentence(lead)
	verb, verbPos := findDeclarativeVerb(first)
	if verb == "" {
		return 0
	}
	subject := strings.TrimSpace(first[:verbPos])
	object := strings.TrimSpace(first[verbPos+len(verb):])
	if len(strings.Fields(subject)) == 0 || len(strings.Fields(object)) == 0 {
		return 0
	}

	// The subject or object must carry one of the title's key entities
	entities := keyEntities(title)
	if len(entities) == 0 {
		// Without a title there is no entity to anchor to; conservative fail
		return 0
	}
	leadLower := strings.ToLower(first)
	for _, e := range entities {
		if strings.Contains(leadLower, e) {
			return 100
		}
	}
	return 0
}

var leadVerbs = []string{
	"is", "are", "was", "were", "lets", "let", "allows", "allow", "enables",
	"enable", "means", "helps", "help", "gives", "give", "makes", "make",
	"provides", "provide", "offers", "offer", "refers",
}

func findDeclarativeVerb(sentence string) (string, int) {
	lower := strings.ToLower(sentence)
	best := -1
	bestVerb := ""
	for _, v := range leadVerbs {
		if i := strings.Index(lower, " "+v+" "); i >= 0 {
			if best == -1 || i < best {
				best = i + 1
				bestVerb = v
			}
		}
	}
	return bestVerb, best
}

func firstSentence(text string) string {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return text[:i]
		}
	}
	return text
}

var entityStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "for": true, "in": true, "on": true, "with": true,
	"guide": true, "how": true, "what": true, "why": true, "best": true,
	"complete": true, "ultimate": true, "your": true, "you": true,
}

// keyEntities picks the content-bearing tokens out of the title
func keyEntities(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, `.,:;!?"'()[]`)
		if len(w) >= 3 && !entityStopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

func (d *EntityDetector) titleEntities(title string) (float64, string) {
	entities := keyEntities(title)
	switch {
	case title == "":
		return 0, "No title or H1 detected."
	case len(entities) == 0:
		return 30, "Title carries no identifiable entity tokens."
	case len(entities) >= 2:
		return 100, fmt.Sprintf("Title names %d entity tokens.", len(entities))
	default:
		return 70, "Title names a single entity token."
	}
}

func (d *EntityDetector) entityDensity(body string, entities []string) (float64, int) {
	if len(entities) == 0 {
		return 0, 0
	}
	lower := strings.ToLower(body)
	mentions := 0
	for _, e := range entities {
		mentions += strings.Count(lower, e)
	}
	if mentions >= minEntityMentions {
		return 100, mentions
	}
	return float64(mentions) / float64(minEntityMentions) * 100, mentions
}
