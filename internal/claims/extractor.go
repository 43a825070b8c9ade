// Package claims extracts factual assertions from a structured document and
// classifies the evidence standing next to each of them. Extraction is
// deliberately conservative: a sentence only becomes a claim when it carries
// a declarative verb and a measurable object, and any opinion marker or
// hedge disqualifies it outright. Precision over recall.
package claims

import (
	"regexp"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Extractor turns a document into an immutable ClaimSet
type Extractor struct {
	classifier *evidenceClassifier
}

// NewExtractor creates a claims extractor
func NewExtractor() *Extractor {
	return &Extractor{classifier: newEvidenceClassifier()}
}

// Declarative verbs that can anchor a factual assertion
var declarativeVerbs = []string{
	"is", "are", "was", "were", "has", "have", "had",
	"increased", "decreased", "grew", "fell", "rose", "reached",
	"originated", "founded", "established", "launched", "introduced",
	"invented", "created", "discovered", "developed", "acquired",
	"reported", "announced", "recorded", "measured", "shows", "show",
	"found", "holds", "hold", "let", "lets", "allow", "allows",
	"enable", "enables", "lost", "won", "earned", "raised",
}

// Opinion markers and hedges exclude a sentence from being a claim
var exclusionMarkers = []string{
	"we believe", "i believe", "i think", "we think", "arguably",
	"in my opinion", "in our opinion", "we feel", "it seems",
	"may ", "might ", "could ", "should ", "probably", "perhaps",
	"possibly", "likely to", "hopefully",
}

var (
	numericRe    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:%|percent|million|billion|trillion|users|customers|dollars|euros|km|kg|people)|\$\d|\d+(?:\.\d+)?%`)
	dateRe       = regexp.MustCompile(`\b(?:1[89]\d{2}|20\d{2})\b|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}\b`)
	properNounRe = regexp.MustCompile(`(?:^|[^.!?]\s)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	quantifierRe = regexp.MustCompile(`(?i)\b(first|largest|only|biggest|oldest|fastest|most|all|every|none|never|always)\b`)
	attributionRe = regexp.MustCompile(`(?i)\b(?:according to|as stated by|as reported by|(?:studies|research|reports|data|surveys)\s+(?:show|indicate|prove|suggest|demonstrate|found))\b`)
)

// Extract finds claim candidates and classifies their evidence in one pass
func (e *Extractor) Extract(doc *model.StructuredDocument) *model.ClaimSet {
	sentences := SplitSentences(doc.Body)

	var supported []model.SupportedClaim
	offset := 0
	for i, sentence := range sentences {
		start := strings.Index(doc.Body[offset:], sentence)
		if start >= 0 {
			start += offset
			offset = start + len(sentence)
		} else {
			start = offset
		}

		claim, ok := e.match(sentence, i, start)
		if !ok {
			continue
		}
		next := ""
		if i+1 < len(sentences) {
			next = sentences[i+1]
		}
		ev := e.classifier.classify(claim, sentence, next, doc)
		supported = append(supported, model.SupportedClaim{Claim: claim, Evidence: ev})
	}
	return model.NewClaimSet(dedupe(supported))
}

// match applies the conservative claim pattern to one sentence
func (e *Extractor) match(sentence string, index, offset int) (model.Claim, bool) {
	lower := strings.ToLower(sentence)
	for _, marker := range exclusionMarkers {
		if strings.Contains(lower, marker) {
			return model.Claim{}, false
		}
	}

	verb := findVerb(lower)
	if verb == "" {
		return model.Claim{}, false
	}

	claimType, object, ok := measurableObject(sentence, lower, verb)
	if !ok {
		return model.Claim{}, false
	}

	subject := sentence
	if i := strings.Index(lower, " "+verb+" "); i > 0 {
		subject = strings.TrimSpace(sentence[:i])
	}
	if len(strings.Fields(subject)) > 8 {
		subject = strings.Join(strings.Fields(subject)[:8], " ")
	}

	return model.Claim{
		Text:      sentence,
		Offset:    offset,
		Sentence:  index,
		Subject:   subject,
		Predicate: verb,
		Object:    object,
		Type:      claimType,
		Heuristic: "verb:" + verb,
	}, true
}

func findVerb(lower string) string {
	for _, v := range declarativeVerbs {
		if strings.Contains(lower, " "+v+" ") || strings.HasSuffix(lower, " "+v+".") {
			return v
		}
	}
	return ""
}

// measurableObject requires a number, date, attribution phrase, absolute
// quantifier, or proper noun after the verb; bare descriptive sentences
// never qualify
func measurableObject(sentence, lower, verb string) (model.ClaimType, string, bool) {
	tail := sentence
	if i := strings.Index(lower, " " + verb + " "); i >= 0 {
		tail = sentence[i+len(verb)+2:]
	}

	switch {
	case attributionRe.MatchString(sentence):
		return model.ClaimAttribution, attributionRe.FindString(sentence), true
	case numericRe.MatchString(sentence):
		return model.ClaimNumeric, numericRe.FindString(sentence), true
	case dateRe.MatchString(sentence):
		return model.ClaimDate, dateRe.FindString(sentence), true
	case quantifierRe.MatchString(sentence):
		return model.ClaimAbsoluteQuantifier, strings.ToLower(quantifierRe.FindString(sentence)), true
	}
	// Proper noun in the object position still counts (named entity/event),
	// but an ambiguous parse with nothing measurable defaults to no claim
	if m := properNounRe.FindStringSubmatch(tail); m != nil {
		return model.ClaimAttribution, strings.TrimSpace(m[1]), true
	}
	return "", "", false
}

// SplitSentences is a terminator-based splitter bounded to plausible
// sentence lengths
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' {
				if s := strings.TrimSpace(current.String()); plausibleSentence(s) {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); plausibleSentence(s) {
		sentences = append(sentences, s)
	}
	return sentences
}

func plausibleSentence(s string) bool {
	return len(s) >= 25 && len(s) <= 600
}

func dedupe(in []model.SupportedClaim) []model.SupportedClaim {
	seen := make(map[string]bool, len(in))
	var out []model.SupportedClaim
	for _, c := range in {
		key := strings.ToLower(strings.TrimSpace(c.Claim.Text))
		if !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}
