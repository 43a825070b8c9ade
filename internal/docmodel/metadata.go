package docmodel

import (
	"regexp"
	"strings"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Metadata recovery works on the raw HTML with anchored patterns rather than
// a second tree walk; the structured-data extractor collaborator owns full
// JSON-LD parsing, we only need presence flags and the modification date.

var metaDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<meta[^>]+property=["']article:(?:published|modified)_time["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<meta[^>]+content=["']([^"']+)["'][^>]+property=["']article:(?:published|modified)_time["']`),
	regexp.MustCompile(`(?i)<meta[^>]+name=["'](?:date|pubdate|lastmod)["'][^>]+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)<time[^>]+datetime=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)"dateModified"\s*:\s*"([^"]+)"`),
}

// findMetaDate returns the most recent machine-readable date signal
func findMetaDate(raw string) *time.Time {
	var newest *time.Time
	for _, re := range metaDatePatterns {
		for _, m := range re.FindAllStringSubmatch(raw, 4) {
			if t := parseDate(m[1]); t != nil {
				if newest == nil || t.After(*newest) {
					newest = t
				}
			}
		}
	}
	return newest
}

var visibleDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:updated|published|posted|last modified)\s*(?:on)?\s*:?\s*((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}|\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
}

// findVisibleDate scans the top 200 words of body text for a date humans
// would read as an update signal
func findVisibleDate(body string) *time.Time {
	words := strings.Fields(body)
	if len(words) > 200 {
		words = words[:200]
	}
	top := strings.Join(words, " ")

	for _, re := range visibleDatePatterns {
		m := re.FindStringSubmatch(top)
		if m == nil {
			continue
		}
		candidate := m[0]
		if len(m) > 1 && m[1] != "" {
			candidate = m[1]
		}
		if t := parseDate(candidate); t != nil {
			return t
		}
	}
	return nil
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"01/02/2006",
	"02/01/2006",
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z")
	}
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Contains(s, "T") {
		s = s[:i]
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			// Reject implausible years from over-eager numeric matches
			if t.Year() >= 1990 && t.Year() <= time.Now().Year()+1 {
				return &t
			}
		}
	}
	return nil
}

var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:Written by|Reviewed by|Author:|By)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	regexp.MustCompile(`(?i)"author"\s*:\s*{[^}]*"name"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)<meta[^>]+name=["']author["'][^>]+content=["']([^"']+)["']`),
}

func findAuthor(raw string) string {
	for _, re := range authorPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var schemaTypeRe = regexp.MustCompile(`"@type"\s*:\s*"([A-Za-z]+)"`)

// extractSchema records presence flags for structured data; absence is a
// normal state, never an error
func extractSchema(raw string, meta *model.DocumentMeta) {
	hasJSONLD := strings.Contains(raw, "application/ld+json")
	hasMicrodata := strings.Contains(raw, "itemscope") || strings.Contains(raw, "itemtype=")
	meta.HasSchema = hasJSONLD || hasMicrodata

	seen := map[string]bool{}
	for _, m := range schemaTypeRe.FindAllStringSubmatch(raw, 16) {
		typ := m[1]
		if !seen[typ] {
			seen[typ] = true
			meta.SchemaTypes = append(meta.SchemaTypes, typ)
		}
		if typ == "Person" || typ == "Organization" {
			meta.HasAuthorSchema = true
		}
	}
}
