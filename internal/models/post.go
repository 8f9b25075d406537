// Package models defines the domain types for Wunjo.
package models

import "time"

// Post represents a parsed Markdown article in the content tree.
type Post struct {
	Path      string    `json:"path"`
	Content   []byte    `json:"-"`
	Body      string    `json:"body"`
	Meta      Meta      `json:"meta"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta is the front-matter metadata carried by every article. Unknown keys are
// preserved in Custom so authors can attach site-specific fields without
// breaking the parse.
type Meta struct {
	Title        string         `yaml:"title" json:"title"`
	Description  string         `yaml:"description" json:"description,omitempty"`
	Excerpt      string         `yaml:"excerpt" json:"excerpt,omitempty"`
	Date         time.Time      `yaml:"date" json:"date,omitempty"`
	Lastmod      time.Time      `yaml:"lastmod" json:"lastmod,omitempty"`
	Draft        bool           `yaml:"draft" json:"draft"`
	Weight       int            `yaml:"weight" json:"weight"`
	Categories   []string       `yaml:"categories" json:"categories,omitempty"`
	Tags         []string       `yaml:"tags" json:"tags,omitempty"`
	Contributors []string       `yaml:"contributors" json:"contributors,omitempty"`
	Pinned       bool           `yaml:"pinned" json:"pinned"`
	Homepage     bool           `yaml:"homepage" json:"homepage"`
	Custom       map[string]any `yaml:",inline" json:"custom,omitempty"`
}

// PostMetadata is a lightweight representation returned by list operations.
type PostMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
