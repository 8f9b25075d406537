package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// PostRow represents a row in the posts table plus its taxonomy terms.
type PostRow struct {
	Path         string
	Title        string
	Description  string
	Excerpt      string
	Date         time.Time
	Lastmod      time.Time
	Draft        bool
	Weight       int
	Pinned       bool
	Homepage     bool
	Checksum     string
	Tags         []string
	Categories   []string
	Contributors []string
	UpdatedAt    time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// ListOptions filter and order a post listing.
type ListOptions struct {
	Tag           string
	Category      string
	Contributor   string
	IncludeDrafts bool
	HomepageOnly  bool
	PinnedFirst   bool
	Sort          string // date | weight | title | path
	Limit         int
	Offset        int
}

// UpsertPost inserts or replaces a post, its taxonomy rows, and its FTS entry
// within a transaction.
func (db *DB) UpsertPost(p PostRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO posts (path, title, description, excerpt, date, lastmod,
		                   draft, weight, pinned, homepage, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title       = excluded.title,
			description = excluded.description,
			excerpt     = excluded.excerpt,
			date        = excluded.date,
			lastmod     = excluded.lastmod,
			draft       = excluded.draft,
			weight      = excluded.weight,
			pinned      = excluded.pinned,
			homepage    = excluded.homepage,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, p.Path, p.Title, p.Description, p.Excerpt, nullTime(p.Date), nullTime(p.Lastmod),
		p.Draft, p.Weight, p.Pinned, p.Homepage, p.Checksum, body, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert post: %w", err)
	}

	if err := replaceTerms(tx, "post_tags", "tag", p.Path, p.Tags, false); err != nil {
		return err
	}
	if err := replaceTerms(tx, "post_categories", "category", p.Path, p.Categories, false); err != nil {
		return err
	}
	if err := replaceTerms(tx, "post_contributors", "contributor", p.Path, p.Contributors, true); err != nil {
		return err
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, p.Path, p.Title, body, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// replaceTerms swaps the taxonomy rows for a path. Contributors keep their
// authoring order via the ord column.
func replaceTerms(tx *sql.Tx, table, column, path string, terms []string, ordered bool) error {
	if _, err := tx.Exec(`DELETE FROM `+table+` WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: clear %s: %w", table, err)
	}
	if len(terms) == 0 {
		return nil
	}
	insertSQL := `INSERT OR IGNORE INTO ` + table + ` (path, ` + column + `) VALUES (?, ?)`
	if ordered {
		insertSQL = `INSERT OR IGNORE INTO ` + table + ` (path, ` + column + `, ord) VALUES (?, ?, ?)`
	}
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("index: prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for i, term := range terms {
		if ordered {
			_, err = stmt.Exec(path, term, i)
		} else {
			_, err = stmt.Exec(path, term)
		}
		if err != nil {
			return fmt.Errorf("index: insert %s: %w", table, err)
		}
	}
	return nil
}

// DeletePost removes a post, its taxonomy rows, and its FTS entry.
func (db *DB) DeletePost(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM post_tags WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM post_categories WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM post_contributors WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM posts WHERE path = ?`, path)

	return tx.Commit()
}

// GetPost returns the indexed row for a path, or nil when absent.
func (db *DB) GetPost(path string) (*PostRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, title, description, excerpt, date, lastmod,
		       draft, weight, pinned, homepage, checksum, updated_at
		FROM posts WHERE path = ?
	`, path)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get post: %w", err)
	}
	if err := db.loadTerms(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetChecksum returns the stored checksum for a post, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM posts WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListPosts returns a filtered, ordered page of posts plus the total count
// matching the filters.
func (db *DB) ListPosts(opts ListOptions) ([]PostRow, int, error) {
	var where []string
	var args []any

	if !opts.IncludeDrafts {
		where = append(where, `draft = 0`)
	}
	if opts.HomepageOnly {
		where = append(where, `homepage = 1`)
	}
	if opts.Tag != "" {
		where = append(where, `path IN (SELECT path FROM post_tags WHERE tag = ?)`)
		args = append(args, opts.Tag)
	}
	if opts.Category != "" {
		where = append(where, `path IN (SELECT path FROM post_categories WHERE category = ?)`)
		args = append(args, opts.Category)
	}
	if opts.Contributor != "" {
		where = append(where, `path IN (SELECT path FROM post_contributors WHERE contributor = ?)`)
		args = append(args, opts.Contributor)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count posts: %w", err)
	}

	order := orderClause(opts)
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := db.conn.Query(`
		SELECT path, title, description, excerpt, date, lastmod,
		       draft, weight, pinned, homepage, checksum, updated_at
		FROM posts`+cond+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range out {
		if err := db.loadTerms(&out[i]); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// orderClause maps a sort key to SQL. Weight is the manual ordering hint;
// ties always fall back to newest first.
func orderClause(opts ListOptions) string {
	var cols []string
	if opts.PinnedFirst {
		cols = append(cols, `pinned DESC`)
	}
	switch opts.Sort {
	case "weight":
		cols = append(cols, `weight ASC`, `date DESC`)
	case "title":
		cols = append(cols, `title COLLATE NOCASE ASC`)
	case "path":
		cols = append(cols, `path ASC`)
	default: // date
		cols = append(cols, `date DESC`, `path ASC`)
	}
	return ` ORDER BY ` + strings.Join(cols, ", ")
}

// AllPaths returns every indexed post path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every indexed post.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (*PostRow, error) {
	var p PostRow
	var date, lastmod sql.NullTime
	err := r.Scan(&p.Path, &p.Title, &p.Description, &p.Excerpt, &date, &lastmod,
		&p.Draft, &p.Weight, &p.Pinned, &p.Homepage, &p.Checksum, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		p.Date = date.Time
	}
	if lastmod.Valid {
		p.Lastmod = lastmod.Time
	}
	return &p, nil
}

// loadTerms populates the taxonomy slices for a post.
func (db *DB) loadTerms(p *PostRow) error {
	var err error
	if p.Tags, err = db.terms(`SELECT tag FROM post_tags WHERE path = ? ORDER BY tag`, p.Path); err != nil {
		return err
	}
	if p.Categories, err = db.terms(`SELECT category FROM post_categories WHERE path = ? ORDER BY category`, p.Path); err != nil {
		return err
	}
	// Contributors keep authoring order.
	if p.Contributors, err = db.terms(`SELECT contributor FROM post_contributors WHERE path = ? ORDER BY ord`, p.Path); err != nil {
		return err
	}
	return nil
}

func (db *DB) terms(query, path string) ([]string, error) {
	rows, err := db.conn.Query(query, path)
	if err != nil {
		return nil, fmt.Errorf("index: load terms: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// nullTime maps the zero time to NULL so unset dates stay unset.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
