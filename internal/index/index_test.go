package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "wunjo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUpsert(t *testing.T, db *DB, p PostRow, body string) {
	t.Helper()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	if err := db.UpsertPost(p, body); err != nil {
		t.Fatalf("UpsertPost %s: %v", p.Path, err)
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"posts", "post_tags", "post_categories", "post_contributors"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{
		Path:     "hello.md",
		Title:    "Hello World",
		Checksum: "abc123",
		Tags:     []string{"go", "test"},
	}, "This is a hello world post.")

	cs, err := db.GetChecksum("hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetPost_TermsAndDates(t *testing.T) {
	db := testDB(t)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mustUpsert(t, db, PostRow{
		Path:         "full.md",
		Title:        "Full",
		Date:         date,
		Tags:         []string{"zeta", "alpha"},
		Categories:   []string{"eng"},
		Contributors: []string{"Zoe", "Adam"},
	}, "body")

	p, err := db.GetPost("full.md")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if p == nil {
		t.Fatal("post not found")
	}
	if !p.Date.Equal(date) {
		t.Errorf("date = %v, want %v", p.Date, date)
	}
	if !p.Lastmod.IsZero() {
		t.Errorf("unset lastmod should stay zero, got %v", p.Lastmod)
	}
	// Tags come back sorted; contributors keep authoring order.
	if len(p.Tags) != 2 || p.Tags[0] != "alpha" || p.Tags[1] != "zeta" {
		t.Errorf("tags = %v", p.Tags)
	}
	if len(p.Contributors) != 2 || p.Contributors[0] != "Zoe" || p.Contributors[1] != "Adam" {
		t.Errorf("contributors = %v, want authoring order preserved", p.Contributors)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	db := testDB(t)
	p, err := db.GetPost("nope.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for missing post, got %+v", p)
	}
}

func TestDeletePost(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "del.md", Checksum: "x", Tags: []string{"gone"}}, "body")

	if err := db.DeletePost("del.md"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted post still has checksum %q", cs)
	}
	tags, _ := db.Tags()
	if len(tags) != 0 {
		t.Errorf("taxonomy rows not cleaned up: %v", tags)
	}
}

func TestUpsertReplacesTerms(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "up.md", Title: "Old", Checksum: "1", Tags: []string{"old"}}, "old body")
	mustUpsert(t, db, PostRow{Path: "up.md", Title: "New", Checksum: "2", Tags: []string{"new"}}, "new body")

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	p, _ := db.GetPost("up.md")
	if len(p.Tags) != 1 || p.Tags[0] != "new" {
		t.Errorf("tags = %v, want [new]", p.Tags)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListPosts_DraftGating(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "pub.md", Title: "Published"}, "body")
	mustUpsert(t, db, PostRow{Path: "wip.md", Title: "WIP", Draft: true}, "body")

	rows, total, err := db.ListPosts(ListOptions{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Path != "pub.md" {
		t.Errorf("default list should exclude drafts: total=%d rows=%+v", total, rows)
	}

	_, total, _ = db.ListPosts(ListOptions{IncludeDrafts: true})
	if total != 2 {
		t.Errorf("with drafts total = %d, want 2", total)
	}
}

func TestListPosts_TagFilter(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "a.md", Tags: []string{"go"}}, "body")
	mustUpsert(t, db, PostRow{Path: "b.md", Tags: []string{"rust"}}, "body")

	rows, total, err := db.ListPosts(ListOptions{Tag: "go"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || rows[0].Path != "a.md" {
		t.Errorf("tag filter: total=%d rows=%+v", total, rows)
	}
}

func TestListPosts_WeightOrdering(t *testing.T) {
	db := testDB(t)
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mustUpsert(t, db, PostRow{Path: "heavy.md", Weight: 10, Date: d}, "body")
	mustUpsert(t, db, PostRow{Path: "light.md", Weight: 1, Date: d}, "body")
	// Same weight, newer date wins the tie.
	mustUpsert(t, db, PostRow{Path: "tie-new.md", Weight: 5, Date: d.AddDate(0, 1, 0)}, "body")
	mustUpsert(t, db, PostRow{Path: "tie-old.md", Weight: 5, Date: d}, "body")

	rows, _, err := db.ListPosts(ListOptions{Sort: "weight"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	want := []string{"light.md", "tie-new.md", "tie-old.md", "heavy.md"}
	for i, w := range want {
		if rows[i].Path != w {
			t.Fatalf("order[%d] = %s, want %s (full: %v)", i, rows[i].Path, w, paths(rows))
		}
	}
}

func TestListPosts_PinnedFirst(t *testing.T) {
	db := testDB(t)
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mustUpsert(t, db, PostRow{Path: "newer.md", Date: d.AddDate(0, 2, 0)}, "body")
	mustUpsert(t, db, PostRow{Path: "pinned.md", Pinned: true, Date: d}, "body")

	rows, _, err := db.ListPosts(ListOptions{PinnedFirst: true})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if rows[0].Path != "pinned.md" {
		t.Errorf("pinned post should come first: %v", paths(rows))
	}
}

func TestListPosts_Pagination(t *testing.T) {
	db := testDB(t)
	d := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []string{"one.md", "two.md", "three.md"} {
		mustUpsert(t, db, PostRow{Path: p, Date: d.AddDate(0, 0, i)}, "body")
	}

	rows, total, err := db.ListPosts(ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3 (total ignores page bounds)", total)
	}
	if len(rows) != 2 {
		t.Errorf("page size = %d, want 2", len(rows))
	}

	rows, _, _ = db.ListPosts(ListOptions{Limit: 2, Offset: 2})
	if len(rows) != 1 {
		t.Errorf("last page size = %d, want 1", len(rows))
	}
}

func TestListPosts_HomepageOnly(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "front.md", Homepage: true}, "body")
	mustUpsert(t, db, PostRow{Path: "other.md"}, "body")

	rows, _, err := db.ListPosts(ListOptions{HomepageOnly: true})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(rows) != 1 || rows[0].Path != "front.md" {
		t.Errorf("homepage filter: %v", paths(rows))
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "s.md", Title: "Search Me"}, "uniqueword appears here")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestTaxonomyCounts(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "a.md", Tags: []string{"go", "db"}, Categories: []string{"eng"}}, "body")
	mustUpsert(t, db, PostRow{Path: "b.md", Tags: []string{"go"}, Contributors: []string{"Jane"}}, "body")

	tags, err := db.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "go" || tags[0].Count != 2 {
		t.Errorf("tags = %+v, want go first with count 2", tags)
	}

	cats, _ := db.Categories()
	if len(cats) != 1 || cats[0].Name != "eng" {
		t.Errorf("categories = %+v", cats)
	}

	people, _ := db.Contributors()
	if len(people) != 1 || people[0].Name != "Jane" {
		t.Errorf("contributors = %+v", people)
	}
}

func TestRelated_SharedTags(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "base.md", Tags: []string{"go", "sqlite", "search"}}, "body")
	mustUpsert(t, db, PostRow{Path: "close.md", Title: "Close", Tags: []string{"go", "sqlite"}}, "body")
	mustUpsert(t, db, PostRow{Path: "far.md", Title: "Far", Tags: []string{"go"}}, "body")
	mustUpsert(t, db, PostRow{Path: "hidden.md", Draft: true, Tags: []string{"go", "sqlite"}}, "body")
	mustUpsert(t, db, PostRow{Path: "unrelated.md", Tags: []string{"rust"}}, "body")

	related, err := db.Related("base.md", 10)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("related = %+v, want 2 (drafts and unrelated excluded)", related)
	}
	if related[0].Path != "close.md" || related[0].SharedTags != 2 {
		t.Errorf("best match = %+v, want close.md with 2 shared", related[0])
	}
	if related[1].Path != "far.md" {
		t.Errorf("second match = %+v", related[1])
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, PostRow{Path: "a.md", Checksum: "1"}, "body")
	mustUpsert(t, db, PostRow{Path: "b.md", Checksum: "2"}, "body")

	m, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(m) != 2 || m["a.md"] != "1" || m["b.md"] != "2" {
		t.Errorf("checksums = %v", m)
	}
}

func paths(rows []PostRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Path
	}
	return out
}
