package index

import "fmt"

// TaxonomyCount is a taxonomy term with the number of posts carrying it.
type TaxonomyCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RelatedPost is a post sharing taxonomy terms with another post.
type RelatedPost struct {
	Path       string `json:"path"`
	Title      string `json:"title"`
	SharedTags int    `json:"shared_tags"`
}

// Tags returns every tag with its post count, most used first.
func (db *DB) Tags() ([]TaxonomyCount, error) {
	return db.taxonomy(`SELECT tag, count(*) FROM post_tags GROUP BY tag ORDER BY count(*) DESC, tag ASC`)
}

// Categories returns every category with its post count, most used first.
func (db *DB) Categories() ([]TaxonomyCount, error) {
	return db.taxonomy(`SELECT category, count(*) FROM post_categories GROUP BY category ORDER BY count(*) DESC, category ASC`)
}

// Contributors returns every contributor with their post count, most prolific first.
func (db *DB) Contributors() ([]TaxonomyCount, error) {
	return db.taxonomy(`SELECT contributor, count(*) FROM post_contributors GROUP BY contributor ORDER BY count(*) DESC, contributor ASC`)
}

func (db *DB) taxonomy(query string) ([]TaxonomyCount, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("index: taxonomy: %w", err)
	}
	defer rows.Close()

	out := []TaxonomyCount{}
	for rows.Next() {
		var tc TaxonomyCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// Related returns published posts that share the most tags with the given
// post. Shared taxonomy strings are the only inter-post relationship the
// catalog models.
func (db *DB) Related(path string, limit int) ([]RelatedPost, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.conn.Query(`
		SELECT p.path, p.title, count(*) AS shared
		FROM post_tags a
		JOIN post_tags b ON b.tag = a.tag AND b.path != a.path
		JOIN posts p ON p.path = b.path
		WHERE a.path = ? AND p.draft = 0
		GROUP BY b.path
		ORDER BY shared DESC, p.date DESC
		LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("index: related: %w", err)
	}
	defer rows.Close()

	out := []RelatedPost{}
	for rows.Next() {
		var rp RelatedPost
		if err := rows.Scan(&rp.Path, &rp.Title, &rp.SharedTags); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}
