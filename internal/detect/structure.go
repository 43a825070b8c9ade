package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vkuzmenko/citescope/internal/claims"
	"github.com/vkuzmenko/citescope/internal/model"
)

// StructureDetector scores Answer Engine Optimization structure: heading
// cadence, answer proximity after each heading, text walls, and the smaller
// readability signals that decide whether an extracted passage stands alone.
type StructureDetector struct{}

const (
	headingCadenceWeight  = 0.25
	answerProximityWeight = 0.15
	textWallsWeight       = 0.15
	interrogativeWeight   = 0.15
	sentenceLengthWeight  = 0.10
	connectorsWeight      = 0.10
	genericHeadingsWeight = 0.10

	wordsPerHeadingMin = 300
	wordsPerHeadingMax = 500
	answerParaMinWords = 50
	answerParaMaxWords = 150
	textWallWords      = 500
	maxAvgSentenceLen  = 25
	minConnectors      = 3
)

var questionHeadingRe = regexp.MustCompile(`(?i)^(what|how|when|where|why|which|who|whose|is|are|can|does|do|will|should)\b|\?$`)

var genericHeadings = map[string]bool{
	"introduction": true, "conclusion": true, "summary": true,
	"overview": true, "final thoughts": true, "background": true,
	"the basics": true,
}

var logicalConnectors = []string{
	"therefore", "however", "because", "thus", "consequently",
	"furthermore", "in contrast", "for example", "as a result", "since",
}

func (d *StructureDetector) Dimension() model.Dimension { return model.DimStructure }

func (d *StructureDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	headings := headedSections(doc)

	breakdown := []model.SubCheck{
		d.headingCadence(doc, len(headings)),
		d.answerProximity(headings),
		d.textWalls(doc),
		d.interrogativeHeadings(headings),
		d.sentenceLength(doc.Body),
		d.connectors(doc.Body),
		d.genericHeadings(headings),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug: map[string]any{
			"headings":   len(headings),
			"word_count": doc.WordCount,
		},
	}
}

func headedSections(doc *model.StructuredDocument) []model.Section {
	var out []model.Section
	for _, s := range doc.Sections {
		if s.Heading != "" && s.Level >= 2 {
			out = append(out, s)
		}
	}
	return out
}

// headingCadence targets one heading per 300-500 words and penalizes the
// deviation proportionally
func (d *StructureDetector) headingCadence(doc *model.StructuredDocument, headings int) model.SubCheck {
	words := doc.WordCount
	if words == 0 {
		return subCheck("Heading Cadence", 0, headingCadenceWeight, "Empty body.")
	}
	if headings == 0 {
		return subCheck("Heading Cadence", 0, headingCadenceWeight,
			fmt.Sprintf("%d words without a single section heading.", words),
			"Break the content into H2 sections, one per 300-500 words.")
	}

	perHeading := float64(words) / float64(headings)
	var score float64
	switch {
	case perHeading >= wordsPerHeadingMin && perHeading <= wordsPerHeadingMax:
		score = 100
	case perHeading < wordsPerHeadingMin:
		// Over-segmented: proportional to how far below the floor
		score = 100 * perHeading / wordsPerHeadingMin
	default:
		// Under-segmented: proportional to how far past the ceiling
		score = 100 * wordsPerHeadingMax / perHeading
	}

	explanation := fmt.Sprintf("One heading per %.0f words (target 300-500).", perHeading)
	var recs []string
	if score < 100 {
		if perHeading > wordsPerHeadingMax {
			recs = append(recs, "Add more section headings; long unheaded stretches are rarely extracted whole.")
		} else {
			recs = append(recs, "Merge thin sections; headings every few sentences fragment the answer.")
		}
	}
	return subCheck("Heading Cadence", score, headingCadenceWeight, explanation, recs...)
}

// answerProximity wants each heading answered within one 50-150-word
// paragraph directly underneath it
func (d *StructureDetector) answerProximity(headings []model.Section) model.SubCheck {
	if len(headings) == 0 {
		return subCheck("Answer Proximity", 0, answerProximityWeight, "No headings to answer.")
	}
	answered := 0
	for _, h := range headings {
		first := firstParagraph(h.Text)
		n := len(strings.Fields(first))
		if n >= answerParaMinWords && n <= answerParaMaxWords {
			answered++
		}
	}
	score := float64(answered) / float64(len(headings)) * 100
	explanation := fmt.Sprintf("%d of %d headings followed by a 50-150 word answer paragraph.", answered, len(headings))
	var recs []string
	if score < 100 {
		recs = append(recs, "Open each section with a compact paragraph that answers its heading outright.")
	}
	return subCheck("Answer Proximity", score, answerProximityWeight, explanation, recs...)
}

// textWalls applies a flat penalty per paragraph exceeding 500 words with no
// intervening heading
func (d *StructureDetector) textWalls(doc *model.StructuredDocument) model.SubCheck {
	walls := 0
	for _, s := range doc.Sections {
		for _, p := range strings.Split(s.Text, "\n") {
			if len(strings.Fields(p)) > textWallWords {
				walls++
			}
		}
	}
	score := model.Clamp(100 - float64(walls)*25)
	explanation := fmt.Sprintf("%d text wall(s) over %d words.", walls, textWallWords)
	var recs []string
	if walls > 0 {
		recs = append(recs, "Split paragraphs over 500 words with subheadings or lists.")
	}
	return subCheck("Text Walls", score, textWallsWeight, explanation, recs...)
}

func (d *StructureDetector) interrogativeHeadings(headings []model.Section) model.SubCheck {
	if len(headings) == 0 {
		return subCheck("Interrogative Headings", 0, interrogativeWeight, "No headings present.")
	}
	questions := 0
	for _, h := range headings {
		if questionHeadingRe.MatchString(strings.TrimSpace(h.Heading)) {
			questions++
		}
	}
	ratio := float64(questions) / float64(len(headings))
	// A third of headings phrased as questions is already strong
	score := model.Clamp(ratio * 3 * 100)
	explanation := fmt.Sprintf("%d of %d headings phrased as questions.", questions, len(headings))
	var recs []string
	if questions == 0 {
		recs = append(recs, "Rephrase key headings as the questions users actually ask.")
	}
	return subCheck("Interrogative Headings", score, interrogativeWeight, explanation, recs...)
}

func (d *StructureDetector) sentenceLength(body string) model.SubCheck {
	sentences := claims.SplitSentences(body)
	if len(sentences) == 0 {
		return subCheck("Sentence Length", 0, sentenceLengthWeight, "No sentences detected.")
	}
	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	avg := float64(totalWords) / float64(len(sentences))
	score := 100.0
	if avg > maxAvgSentenceLen {
		score = model.Clamp(100 - (avg-maxAvgSentenceLen)*4)
	}
	explanation := fmt.Sprintf("Average sentence length %.1f words (target ≤ %d).", avg, maxAvgSentenceLen)
	var recs []string
	if score < 100 {
		recs = append(recs, "Shorten sentences; long compound sentences quote poorly.")
	}
	return subCheck("Sentence Length", score, sentenceLengthWeight, explanation, recs...)
}

func (d *StructureDetector) connectors(body string) model.SubCheck {
	lower := strings.ToLower(body)
	count := 0
	for _, c := range logicalConnectors {
		count += strings.Count(lower, c)
	}
	score := 100.0
	if count < minConnectors {
		score = float64(count) / float64(minConnectors) * 100
	}
	explanation := fmt.Sprintf("%d logical connectors found (minimum %d).", count, minConnectors)
	var recs []string
	if score < 100 {
		recs = append(recs, "Use connectors (therefore, however, for example) to make reasoning explicit.")
	}
	return subCheck("Logical Connectors", score, connectorsWeight, explanation, recs...)
}

func (d *StructureDetector) genericHeadings(headings []model.Section) model.SubCheck {
	if len(headings) == 0 {
		return subCheck("Generic Headings", 0, genericHeadingsWeight, "No headings present.")
	}
	generic := 0
	for _, h := range headings {
		if genericHeadings[strings.ToLower(strings.TrimSpace(h.Heading))] {
			generic++
		}
	}
	score := model.Clamp(100 - float64(generic)/float64(len(headings))*200)
	explanation := fmt.Sprintf("%d of %d headings are generic labels.", generic, len(headings))
	var recs []string
	if generic > 0 {
		recs = append(recs, "Replace generic headings (Introduction, Conclusion) with entity-bearing ones.")
	}
	return subCheck("Generic Headings", score, genericHeadingsWeight, explanation, recs...)
}

func firstParagraph(text string) string {
	for _, p := range strings.Split(text, "\n") {
		if strings.TrimSpace(p) != "" {
			return p
		}
	}
	return ""
}
