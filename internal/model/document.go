package model

import "time"

// Section is one heading-delimited region of the body text
type Section struct {
	Level   int    `json:"level"`             // Heading level (1-4); 0 for a synthesized section
	Heading string `json:"heading,omitempty"` // Heading text, empty if synthesized
	Text    string `json:"text"`              // Paragraph text under this heading
	Offset  int    `json:"offset"`            // Byte offset of this section's text in Body
}

// LinkClass classifies an outbound link by the kind of destination
type LinkClass string

const (
	LinkPrimarySource LinkClass = "primary-source" // .gov/.edu, journals, official docs
	LinkUtility       LinkClass = "utility"        // Social, share, nav, partner
	LinkUnknown       LinkClass = "unknown"
)

// Link is one outbound link found in the content
type Link struct {
	URL      string    `json:"url"`
	Anchor   string    `json:"anchor,omitempty"`
	Host     string    `json:"host,omitempty"`
	Class    LinkClass `json:"class"`
	External bool      `json:"external"` // Different host than the source page
}

// DocumentMeta carries detected metadata; absent signals stay zero-valued
type DocumentMeta struct {
	Author          string     `json:"author,omitempty"`
	BylineLinks     []string   `json:"byline_links,omitempty"`
	DateModified    *time.Time `json:"date_modified,omitempty"` // From meta/structured data
	VisibleDate     *time.Time `json:"visible_date,omitempty"`  // "Updated: ..." text near the top
	SchemaTypes     []string   `json:"schema_types,omitempty"`  // JSON-LD/microdata @type values
	HasSchema       bool       `json:"has_schema"`
	HasAuthorSchema bool       `json:"has_author_schema"` // Person/Organization entity present
}

// StructuredDocument is the normalized document every detector consumes.
// Built once per analysis and never mutated afterwards; section offsets are
// strictly increasing and partition Body without gaps.
type StructuredDocument struct {
	SourceURL string        `json:"source_url,omitempty"`
	Title     string        `json:"title,omitempty"` // Title or first H1
	Sections  []Section     `json:"sections"`
	Body      string        `json:"body"` // Full plain text, headings excluded
	Lead      string        `json:"lead"` // First 150-200 chars of Body
	Meta      DocumentMeta  `json:"meta"`
	Links     []Link        `json:"links,omitempty"`
	RawBytes  int           `json:"raw_bytes"`
	WordCount int           `json:"word_count"`
	IsRawText bool          `json:"is_raw_text"` // Supplied as plain text, no transport signals
	Fetched   bool          `json:"fetched"`     // Retrieved over HTTP; transport signals below are real
	IsHTTPS   bool          `json:"is_https"`
	IsSSR     bool          `json:"is_ssr"` // Content present before script execution
	LoadTime  time.Duration `json:"load_time,omitempty"`
}

// UpdateSignal returns the most recent detected update timestamp, or nil
func (d *StructuredDocument) UpdateSignal() *time.Time {
	switch {
	case d.Meta.DateModified == nil:
		return d.Meta.VisibleDate
	case d.Meta.VisibleDate == nil:
		return d.Meta.DateModified
	case d.Meta.VisibleDate.After(*d.Meta.DateModified):
		return d.Meta.VisibleDate
	default:
		return d.Meta.DateModified
	}
}

// ExternalLinks returns only links pointing off the source host
func (d *StructuredDocument) ExternalLinks() []Link {
	var out []Link
	for _, l := range d.Links {
		if l.External {
			out = append(out, l)
		}
	}
	return out
}
