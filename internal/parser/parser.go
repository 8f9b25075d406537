// Package parser extracts front-matter and Markdown links from article content.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/aldergate/wunjo/internal/models"
)

var mdLinkRe = regexp.MustCompile(`!?\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// Document holds the output of parsing a Markdown article.
type Document struct {
	Meta           models.Meta
	Body           string
	Title          string
	Excerpt        string
	Links          []string
	HasFrontmatter bool
}

// Parse extracts the YAML front-matter block and Markdown body from raw bytes.
// A file without a leading --- block yields a zero Meta and the full content as
// body. A block that is present but malformed is an error.
func Parse(data []byte) (*Document, error) {
	normalized := normalize(data)

	var meta models.Meta
	body, err := frontmatter.Parse(bytes.NewReader(normalized), &meta)
	if err != nil {
		return nil, fmt.Errorf("parser: front-matter: %w", err)
	}

	doc := &Document{
		Meta:           meta,
		Body:           string(body),
		HasFrontmatter: bytes.HasPrefix(normalized, []byte("---")),
	}
	doc.Title = deriveTitle(meta, doc.Body)
	doc.Excerpt = deriveExcerpt(meta, doc.Body)
	doc.Links = extractLinks(doc.Body)
	return doc, nil
}

// ParseLenient behaves like Parse but never fails: malformed front-matter is
// swallowed and the entire content becomes the body. Used by the indexer so a
// single broken file cannot stall a sync; lint reports the breakage instead.
func ParseLenient(data []byte) *Document {
	doc, err := Parse(data)
	if err == nil {
		return doc
	}
	body := string(normalize(data))
	return &Document{
		Body:    body,
		Title:   deriveTitle(models.Meta{}, body),
		Excerpt: deriveExcerpt(models.Meta{}, body),
		Links:   extractLinks(body),
	}
}

// normalize strips a UTF-8 BOM and leading blank lines, and converts CRLF line
// endings so the delimiter scan sees plain \n.
func normalize(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.TrimLeft(data, "\n")
}

// deriveTitle returns the front-matter title if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(meta models.Meta, body string) string {
	if meta.Title != "" {
		return meta.Title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// deriveExcerpt returns the explicit excerpt, falling back to description,
// falling back to the first body paragraph truncated to 200 runes.
func deriveExcerpt(meta models.Meta, body string) string {
	if meta.Excerpt != "" {
		return meta.Excerpt
	}
	if meta.Description != "" {
		return meta.Description
	}
	return truncate(firstParagraph(body), 200)
}

// firstParagraph returns the first run of prose lines, skipping headings,
// code fences, and blank lines before it.
func firstParagraph(body string) string {
	var para []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if trimmed == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		para = append(para, trimmed)
	}
	return strings.Join(para, " ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// extractLinks returns deduplicated Markdown link targets from the body.
// External schemes and in-page anchors are skipped; what remains are the
// intra-site references lint verifies against the content tree.
func extractLinks(body string) []string {
	matches := mdLinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" || strings.HasPrefix(target, "#") {
			continue
		}
		if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
			continue
		}
		// Drop a fragment suffix so topics/post.md#section resolves the file.
		if i := strings.Index(target, "#"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
