package index

import (
	"log/slog"
	"time"

	"github.com/aldergate/wunjo/internal/checksum"
	"github.com/aldergate/wunjo/internal/parser"
	"github.com/aldergate/wunjo/internal/storage"
)

// Sync walks the content tree and brings the catalog up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeletePost(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the catalog. Parsing is lenient:
// a file with broken front-matter is indexed body-only so lint can surface it.
func indexFile(db *DB, path string, data []byte) error {
	doc := parser.ParseLenient(data)
	row := PostRow{
		Path:         path,
		Title:        doc.Title,
		Description:  doc.Meta.Description,
		Excerpt:      doc.Excerpt,
		Date:         doc.Meta.Date,
		Lastmod:      doc.Meta.Lastmod,
		Draft:        doc.Meta.Draft,
		Weight:       doc.Meta.Weight,
		Pinned:       doc.Meta.Pinned,
		Homepage:     doc.Meta.Homepage,
		Checksum:     checksum.Sum(data),
		Tags:         doc.Meta.Tags,
		Categories:   doc.Meta.Categories,
		Contributors: doc.Meta.Contributors,
		UpdatedAt:    time.Now(),
	}
	return db.UpsertPost(row, doc.Body)
}
