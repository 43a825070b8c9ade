package docmodel

import (
	"errors"
	"strings"
	"testing"

	"github.com/vkuzmenko/citescope/internal/model"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>Fan Tokens: How They Work</title></head>
<body>
<nav><a href="/home">Home</a> navigation junk</nav>
<h1>Fan Tokens: How They Work</h1>
<p>Fan tokens let fans vote on minor club decisions. They trade on open exchanges around the world and give supporters a structured voice in club matters.</p>
<h2>What do fan tokens do?</h2>
<p>Clubs issue fan tokens through regulated exchanges. See the
<a href="https://www.nature.com/articles/token-study">token adoption study</a>
for the underlying data.</p>
<footer>Copyright footer junk</footer>
</body>
</html>`

func TestBuildSectionsPartitionBody(t *testing.T) {
	doc, err := NewBuilder().Build(BuildInput{Content: fixtureHTML, SourceURL: "https://example.com/fan-tokens"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(doc.Sections) < 2 {
		t.Fatalf("sections = %d, want at least 2", len(doc.Sections))
	}

	offset := 0
	var rebuilt strings.Builder
	for i, s := range doc.Sections {
		if s.Offset != offset {
			t.Errorf("section %d offset = %d, want %d", i, s.Offset, offset)
		}
		rebuilt.WriteString(s.Text)
		offset += len(s.Text)
	}
	if rebuilt.String() != doc.Body {
		t.Error("section texts do not partition the body")
	}
	if offset != len(doc.Body) {
		t.Errorf("sections cover %d bytes, body has %d", offset, len(doc.Body))
	}
}

func TestBuildOffsetsIndexBodyBytes(t *testing.T) {
	html := `<html><head><title>Café tokens</title></head><body>
<h1>Café tokens</h1>
<p>Café tokens cost €20 and let supporters vote on café décor decisions every season.</p>
<h2>Où acheter?</h2>
<p>Les supporters achètent café tokens sur les échanges régulés en Europe et ailleurs.</p>
</body></html>`

	doc, err := NewBuilder().Build(BuildInput{Content: html, SourceURL: "https://example.com/cafe"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, s := range doc.Sections {
		if got := doc.Body[s.Offset : s.Offset+len(s.Text)]; got != s.Text {
			t.Errorf("section %d: Body[Offset:Offset+len] = %q, want %q", i, got, s.Text)
		}
	}
}

func TestBuildSkipsBoilerplate(t *testing.T) {
	doc, err := NewBuilder().Build(BuildInput{Content: fixtureHTML})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(doc.Body, "navigation junk") || strings.Contains(doc.Body, "footer junk") {
		t.Error("nav/footer content leaked into the body")
	}
	if doc.Title != "Fan Tokens: How They Work" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestBuildLeadWindow(t *testing.T) {
	doc, err := NewBuilder().Build(BuildInput{Content: fixtureHTML})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	leadLen := len([]rune(doc.Lead))
	if leadLen > 200 {
		t.Errorf("lead is %d runes, want <= 200", leadLen)
	}
	if !strings.HasPrefix(doc.Lead, "Fan tokens let fans vote") {
		t.Errorf("lead = %q", doc.Lead)
	}
	if !strings.HasPrefix(doc.Body, doc.Lead) {
		t.Error("lead is not a prefix of the body")
	}
}

func TestBuildCollectsAndClassifiesLinks(t *testing.T) {
	doc, err := NewBuilder().Build(BuildInput{Content: fixtureHTML, SourceURL: "https://example.com/fan-tokens"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var study *model.Link
	for i := range doc.Links {
		if strings.Contains(doc.Links[i].URL, "nature.com") {
			study = &doc.Links[i]
		}
	}
	if study == nil {
		t.Fatal("outbound study link not collected")
	}
	if !study.External {
		t.Error("cross-host link not marked external")
	}
	if study.Class != model.LinkPrimarySource {
		t.Errorf("nature.com classified as %s, want primary-source", study.Class)
	}
	if study.Anchor != "token adoption study" {
		t.Errorf("anchor = %q", study.Anchor)
	}
}

func TestBuildRawText(t *testing.T) {
	content := "Fan Tokens Explained\n\nFan tokens let fans vote on minor club decisions. Clubs issue them through exchanges."
	doc, err := NewBuilder().Build(BuildInput{Content: content, IsRawText: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !doc.IsRawText || !doc.IsSSR {
		t.Error("raw text input should set IsRawText and IsSSR")
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Level != 0 {
		t.Errorf("sections = %+v, want one synthesized level-0 section", doc.Sections)
	}
	if doc.Title != "Fan Tokens Explained" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	for _, content := range []string{"", "   \n\t  ", "<html><body><script>x()</script></body></html>"} {
		_, err := NewBuilder().Build(BuildInput{Content: content, IsRawText: !strings.Contains(content, "<")})
		if !errors.Is(err, model.ErrMalformedInput) {
			t.Errorf("content %q: err = %v, want ErrMalformedInput", content, err)
		}
	}
}

func TestClassifyHost(t *testing.T) {
	tests := []struct {
		host string
		want model.LinkClass
	}{
		{"www.nature.com", model.LinkPrimarySource},
		{"data.census.gov", model.LinkPrimarySource},
		{"eng.ox.ac.uk", model.LinkPrimarySource},
		{"twitter.com", model.LinkUtility},
		{"facebook.com", model.LinkUtility},
		{"randomblog.io", model.LinkUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyHost(tt.host); got != tt.want {
			t.Errorf("ClassifyHost(%q) = %s, want %s", tt.host, got, tt.want)
		}
	}
}
