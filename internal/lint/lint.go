// Package lint implements document-level checks for content files: the
// front-matter block parses, required fields are present and well typed, date
// fields are valid timestamps, and intra-site links resolve.
package lint

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aldergate/wunjo/internal/models"
	"github.com/aldergate/wunjo/internal/parser"
)

// Report holds the lint result for a single file. Errors fail the check;
// warnings are advisory.
type Report struct {
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Clean reports whether the file passed without errors.
func (r Report) Clean() bool {
	return len(r.Errors) == 0
}

// Resolver answers whether a path relative to the content root exists.
// A nil Resolver skips link checks.
type Resolver func(rel string) bool

// File lints a single raw content file.
func File(path string, data []byte, exists Resolver) Report {
	rep := Report{Path: path, Errors: []string{}, Warnings: []string{}}

	doc, err := parser.Parse(data)
	if err != nil {
		rep.Errors = append(rep.Errors, fmt.Sprintf("front-matter does not parse: %v", err))
		return rep
	}

	if !doc.HasFrontmatter {
		rep.Errors = append(rep.Errors, "missing front-matter block")
		return rep
	}

	checkFields(&rep, doc.Meta)
	checkDates(&rep, doc.Meta)
	checkLinks(&rep, doc.Links, exists)
	return rep
}

// checkFields applies the field rules via ozzo and flattens the per-field
// error map into report entries.
func checkFields(rep *Report, meta models.Meta) {
	err := validation.ValidateStruct(&meta,
		validation.Field(&meta.Title, validation.Required),
		validation.Field(&meta.Weight, validation.Min(0)),
		validation.Field(&meta.Tags, validation.Each(validation.Required)),
		validation.Field(&meta.Categories, validation.Each(validation.Required)),
		validation.Field(&meta.Contributors, validation.Each(validation.Required)),
	)
	if err == nil {
		return
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		rep.Errors = append(rep.Errors, err.Error())
		return
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", strings.ToLower(f), errs[f]))
	}
}

func checkDates(rep *Report, meta models.Meta) {
	if meta.Date.IsZero() {
		rep.Warnings = append(rep.Warnings, "date is not set")
	}
	if !meta.Date.IsZero() && !meta.Lastmod.IsZero() && meta.Lastmod.Before(meta.Date) {
		rep.Errors = append(rep.Errors, fmt.Sprintf("lastmod %s is before date %s",
			meta.Lastmod.Format("2006-01-02"), meta.Date.Format("2006-01-02")))
	}
}

// checkLinks verifies that relative Markdown links pointing at .md files
// resolve inside the content tree.
func checkLinks(rep *Report, links []string, exists Resolver) {
	if exists == nil {
		return
	}
	for _, target := range links {
		if !strings.HasSuffix(target, ".md") {
			continue
		}
		if !exists(target) {
			rep.Errors = append(rep.Errors, fmt.Sprintf("broken link: %s", target))
		}
	}
}
