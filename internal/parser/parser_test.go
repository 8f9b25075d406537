package parser

import (
	"strings"
	"testing"

	"github.com/aldergate/wunjo/internal/models"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - sqlite\ndate: 2025-01-15\ndraft: true\nweight: 3\n---\n# Hello\nBody text.\n")
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Hello" {
		t.Errorf("title = %q, want %q", doc.Title, "Hello")
	}
	if len(doc.Meta.Tags) != 2 || doc.Meta.Tags[0] != "go" || doc.Meta.Tags[1] != "sqlite" {
		t.Errorf("tags = %v, want [go sqlite]", doc.Meta.Tags)
	}
	if !doc.Meta.Draft {
		t.Error("draft should be true")
	}
	if doc.Meta.Weight != 3 {
		t.Errorf("weight = %d, want 3", doc.Meta.Weight)
	}
	if doc.Meta.Date.Year() != 2025 || doc.Meta.Date.Month() != 1 {
		t.Errorf("date = %v", doc.Meta.Date)
	}
	if !doc.HasFrontmatter {
		t.Error("HasFrontmatter should be true")
	}
	if !strings.Contains(doc.Body, "Body text.") {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.HasFrontmatter {
		t.Error("HasFrontmatter should be false")
	}
	if doc.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", doc.Title, "Just a heading")
	}
}

func TestParse_MalformedYAMLIsError(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	if _, err := Parse(input); err == nil {
		t.Fatal("expected error for malformed front-matter")
	}
}

func TestParseLenient_MalformedYAMLFallsBack(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\n# Still Readable\nBody\n")
	doc := ParseLenient(input)
	if doc.Title != "Still Readable" {
		t.Errorf("title = %q, want H1 fallback", doc.Title)
	}
}

func TestParse_UnknownKeysPreserved(t *testing.T) {
	input := []byte("---\ntitle: T\nseries: deep-dives\n---\nbody\n")
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Meta.Custom["series"] != "deep-dives" {
		t.Errorf("custom = %v, want series preserved", doc.Meta.Custom)
	}
}

func TestParse_CRLFAndBOM(t *testing.T) {
	input := []byte("\xef\xbb\xbf---\r\ntitle: Windows\r\n---\r\nbody\r\n")
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Windows" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestDeriveExcerpt_Precedence(t *testing.T) {
	// Explicit excerpt wins over description.
	got := deriveExcerpt(models.Meta{Excerpt: "ex", Description: "desc"}, "para")
	if got != "ex" {
		t.Errorf("excerpt = %q, want %q", got, "ex")
	}
	// Description wins over body.
	got = deriveExcerpt(models.Meta{Description: "desc"}, "para")
	if got != "desc" {
		t.Errorf("excerpt = %q, want %q", got, "desc")
	}
	// First paragraph as last resort, skipping headings.
	got = deriveExcerpt(models.Meta{}, "# Heading\n\nFirst paragraph here.\n\nSecond.")
	if got != "First paragraph here." {
		t.Errorf("excerpt = %q", got)
	}
}

func TestDeriveExcerpt_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := deriveExcerpt(models.Meta{}, long)
	if len([]rune(got)) > 201 {
		t.Errorf("excerpt too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestExtractLinks_Basic(t *testing.T) {
	body := "See [guide](topics/guide.md) and ![img](pics/a.png).\nAlso [guide](topics/guide.md) again."
	links := extractLinks(body)
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2: %v", len(links), links)
	}
	if links[0] != "topics/guide.md" || links[1] != "pics/a.png" {
		t.Errorf("links = %v", links)
	}
}

func TestExtractLinks_SkipsExternalAndAnchors(t *testing.T) {
	body := "[ext](https://example.com/a.md) [mail](mailto:a@b.c) [frag](#section) [ok](local.md#part)"
	links := extractLinks(body)
	if len(links) != 1 || links[0] != "local.md" {
		t.Errorf("links = %v, want [local.md]", links)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	title := deriveTitle(models.Meta{Title: "FM Title"}, "# H1 Title\ntext")
	if title != "FM Title" {
		t.Errorf("title = %q, want %q", title, "FM Title")
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	title := deriveTitle(models.Meta{}, "some text\n# My Heading\nmore")
	if title != "My Heading" {
		t.Errorf("title = %q, want %q", title, "My Heading")
	}
}
