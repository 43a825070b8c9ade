package docmodel

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/vkuzmenko/citescope/internal/model"
)

const (
	leadMin = 150
	leadMax = 200
)

// Builder converts raw HTML or plain text into a StructuredDocument
type Builder struct{}

// NewBuilder creates a document builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildInput carries the raw content plus the transport signals the
// external scraper supplies; zero values mean "not observed".
type BuildInput struct {
	Content   string
	IsRawText bool
	SourceURL string
	Fetched   bool
	IsHTTPS   bool
	IsSSR     bool
	LoadTime  time.Duration
}

// Build normalizes raw input into the immutable document every detector
// consumes. Missing authors or dates are absent fields, not errors; only an
// empty body after normalization fails.
func (b *Builder) Build(in BuildInput) (*model.StructuredDocument, error) {
	doc := &model.StructuredDocument{
		SourceURL: in.SourceURL,
		IsRawText: in.IsRawText,
		Fetched:   in.Fetched,
		IsHTTPS:   in.IsHTTPS,
		IsSSR:     in.IsSSR,
		LoadTime:  in.LoadTime,
		RawBytes:  len(in.Content),
	}
	if in.IsRawText {
		doc.IsSSR = true
		b.buildFromText(doc, in.Content)
	} else {
		if err := b.buildFromHTML(doc, in.Content); err != nil {
			return nil, err
		}
	}

	doc.Body = joinSections(doc.Sections)
	if strings.TrimSpace(doc.Body) == "" {
		return nil, fmt.Errorf("build document: %w", model.ErrMalformedInput)
	}
	doc.WordCount = len(strings.Fields(doc.Body))
	doc.Lead = leadWindow(doc.Body)
	if doc.Meta.VisibleDate == nil {
		doc.Meta.VisibleDate = findVisibleDate(doc.Body)
	}
	return doc, nil
}

func (b *Builder) buildFromText(doc *model.StructuredDocument, text string) {
	body := normalizeWhitespace(text)
	// No heading structure to recover: one synthesized section spans the body
	doc.Sections = []model.Section{{Level: 0, Text: body}}
	if line := firstLine(text); len(line) <= 120 {
		doc.Title = line
	}
}

func (b *Builder) buildFromHTML(doc *model.StructuredDocument, raw string) error {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	w := &walker{doc: doc, base: baseURL(doc.SourceURL)}
	w.walk(root)
	w.flush()

	if doc.Title == "" {
		doc.Title = w.title
	}
	doc.Links = dedupeLinks(doc.Links)
	doc.Meta.DateModified = findMetaDate(raw)
	if doc.Meta.Author == "" {
		doc.Meta.Author = findAuthor(raw)
	}
	extractSchema(raw, &doc.Meta)

	if len(doc.Sections) == 0 {
		// Degrade gracefully when the page has no headings at all
		doc.Sections = []model.Section{{Level: 0, Text: ""}}
	}
	return nil
}

// walker accumulates heading-delimited sections and outbound links in
// document order, skipping boilerplate containers
type walker struct {
	doc   *model.StructuredDocument
	base  *url.URL
	title string

	current model.Section
	buf     strings.Builder
	started bool
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"nav": true, "footer": true, "aside": true, "svg": true, "form": true,
}

func (w *walker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if skipTags[n.Data] {
			return
		}
		switch n.Data {
		case "title":
			if w.title == "" {
				w.title = strings.TrimSpace(textContent(n))
			}
			return
		case "h1", "h2", "h3", "h4":
			w.flush()
			level := int(n.Data[1] - '0')
			heading := strings.TrimSpace(textContent(n))
			if level == 1 && w.doc.Title == "" {
				w.doc.Title = heading
			}
			w.current = model.Section{Level: level, Heading: heading}
			w.started = true
			return
		case "a":
			w.collectLink(n)
		case "p", "li", "br", "div", "td", "blockquote":
			if w.buf.Len() > 0 {
				w.buf.WriteString("\n")
			}
		}
	}

	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			if w.buf.Len() > 0 && !strings.HasSuffix(w.buf.String(), "\n") {
				w.buf.WriteString(" ")
			}
			w.buf.WriteString(t)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// flush closes the running section and starts a fresh one
func (w *walker) flush() {
	text := normalizeWhitespace(w.buf.String())
	w.buf.Reset()
	if text == "" && !w.started {
		return
	}
	if text == "" && w.current.Heading == "" {
		return
	}
	w.current.Text = text
	w.doc.Sections = append(w.doc.Sections, w.current)
	w.current = model.Section{}
}

func (w *walker) collectLink(n *html.Node) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
		}
	}
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return
	}

	resolved := href
	host := ""
	if parsed, err := url.Parse(href); err == nil {
		if w.base != nil {
			parsed = w.base.ResolveReference(parsed)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return
		}
		resolved = parsed.String()
		host = parsed.Host
	}

	anchor := strings.TrimSpace(textContent(n))
	external := w.base == nil || (host != "" && host != w.base.Host)

	w.doc.Links = append(w.doc.Links, model.Link{
		URL:      resolved,
		Anchor:   anchor,
		Host:     host,
		Class:    ClassifyHost(host),
		External: external,
	})
}

// joinSections concatenates section texts into the body so that offsets
// strictly increase and partition the body without gaps
func joinSections(sections []model.Section) string {
	var body strings.Builder
	offset := 0
	for i := range sections {
		text := sections[i].Text
		if i < len(sections)-1 && text != "" {
			text += "\n"
		}
		sections[i].Text = text
		sections[i].Offset = offset
		body.WriteString(text)
		offset += len(text)
	}
	return body.String()
}

// leadWindow returns the first 150-200 chars of body text, cut at a word
// boundary; headings and metadata are already excluded from the body
func leadWindow(body string) string {
	runes := []rune(body)
	if len(runes) <= leadMax {
		return body
	}
	cut := leadMax
	for i := leadMax; i > leadMin; i-- {
		if runes[i] == ' ' || runes[i] == '\n' {
			cut = i
			break
		}
	}
	return string(runes[:cut])
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

var spaceRe = regexp.MustCompile(`[ \t]+`)
var blankRe = regexp.MustCompile(`\n{2,}`)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

func baseURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}

func dedupeLinks(links []model.Link) []model.Link {
	seen := make(map[string]bool, len(links))
	var out []model.Link
	for _, l := range links {
		if !seen[l.URL] {
			seen[l.URL] = true
			out = append(out, l)
		}
	}
	return out
}

// VisibleTextLength counts visible text characters in raw HTML without
// building a full document. Unparsable input counts as zero visible text.
func VisibleTextLength(raw string) int {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return 0
	}
	var count func(n *html.Node) int
	count = func(n *html.Node) int {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return 0
		}
		total := 0
		if n.Type == html.TextNode {
			total += len(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			total += count(c)
		}
		return total
	}
	return count(root)
}
