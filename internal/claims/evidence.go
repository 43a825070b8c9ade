package claims

import (
	"regexp"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// evidenceClassifier decides how well a single claim is supported.
// Classification only looks at the claim's immediate neighborhood: the same
// sentence or the next clause. A link three paragraphs away supports nothing.
type evidenceClassifier struct{}

func newEvidenceClassifier() *evidenceClassifier {
	return &evidenceClassifier{}
}

var (
	bracketCiteRe = regexp.MustCompile(`\[\d+\]`)
	sourceNoteRe  = regexp.MustCompile(`(?i)\((?:source|via|per)\s*:?\s+[^)]+\)`)
	// Source name plus a year reads as a citable source+date pair
	sourceDateRe = regexp.MustCompile(`(?i)(?:according to|per|reported by)\s+[A-Z][\w&.\- ]{2,40}(?:\s*[,(]\s*(?:in\s+)?(?:19|20)\d{2})`)
	namedSourceRe = regexp.MustCompile(`(?i)\b(?:a\s+)?(?:study|studies|survey|report|research|paper|analysis)\b|according to`)
)

func (c *evidenceClassifier) classify(claim model.Claim, sentence, nextClause string, doc *model.StructuredDocument) model.Evidence {
	window := sentence
	if nextClause != "" {
		// The adjacency rule extends one clause past the sentence boundary
		if i := strings.IndexAny(nextClause, ",;:"); i > 0 {
			window += " " + nextClause[:i]
		} else {
			window += " " + nextClause
		}
	}

	if url, ok := adjacentLink(window, doc); ok {
		return model.Evidence{
			Class:     model.EvidencePublicVerifiable,
			SourceURL: url,
			Note:      "outbound link adjacent to claim",
		}
	}
	if bracketCiteRe.MatchString(window) || sourceNoteRe.MatchString(window) {
		return model.Evidence{
			Class: model.EvidencePublicVerifiable,
			Note:  "citation marker adjacent to claim",
		}
	}
	if sourceDateRe.MatchString(window) {
		return model.Evidence{
			Class: model.EvidencePublicVerifiable,
			Note:  "named source with date",
		}
	}
	if namedSourceRe.MatchString(window) {
		return model.Evidence{
			Class: model.EvidenceInternalUnverifiable,
			Note:  "source referenced without a resolvable link",
		}
	}
	return model.Evidence{Class: model.EvidenceAbsent}
}

// adjacentLink reports whether an outbound link's anchor text sits inside
// the claim window; utility links (share buttons, social) never count
func adjacentLink(window string, doc *model.StructuredDocument) (string, bool) {
	lower := strings.ToLower(window)
	for _, l := range doc.Links {
		if !l.External || l.Class == model.LinkUtility {
			continue
		}
		anchor := strings.ToLower(strings.TrimSpace(l.Anchor))
		if len(anchor) < 3 {
			continue
		}
		if strings.Contains(lower, anchor) {
			return l.URL, true
		}
	}
	return "", false
}
