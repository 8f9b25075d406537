package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aldergate/wunjo/internal/storage"
)

func syncTestEnv(t *testing.T) (string, storage.Provider, *DB, *slog.Logger) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return dir, store, testDB(t), logger
}

func TestSync_IndexesNewFiles(t *testing.T) {
	dir, store, db, logger := syncTestEnv(t)
	content := []byte("---\ntitle: Synced\ntags:\n  - go\n---\nbody\n")
	_ = os.WriteFile(filepath.Join(dir, "synced.md"), content, 0o644)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	p, err := db.GetPost("synced.md")
	if err != nil || p == nil {
		t.Fatalf("post not indexed: %v", err)
	}
	if p.Title != "Synced" {
		t.Errorf("title = %q", p.Title)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "go" {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestSync_RemovesStaleEntries(t *testing.T) {
	dir, store, db, logger := syncTestEnv(t)
	path := filepath.Join(dir, "stale.md")
	_ = os.WriteFile(path, []byte("---\ntitle: Stale\n---\nbody\n"), 0o644)
	_ = Sync(db, store, logger)

	_ = os.Remove(path)
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	cs, _ := db.GetChecksum("stale.md")
	if cs != "" {
		t.Error("stale entry not removed")
	}
}

func TestSync_SkipsUnchangedFiles(t *testing.T) {
	dir, store, db, logger := syncTestEnv(t)
	_ = os.WriteFile(filepath.Join(dir, "same.md"), []byte("---\ntitle: Same\n---\nbody\n"), 0o644)
	_ = Sync(db, store, logger)

	before, _ := db.GetPost("same.md")
	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	after, _ := db.GetPost("same.md")
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("unchanged file was re-indexed")
	}
}

func TestSync_BrokenFrontmatterIndexedLeniently(t *testing.T) {
	dir, store, db, logger := syncTestEnv(t)
	_ = os.WriteFile(filepath.Join(dir, "broken.md"), []byte("---\n: bad: {{{\n---\n# Rescue\nbody\n"), 0o644)

	if err := Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	p, _ := db.GetPost("broken.md")
	if p == nil {
		t.Fatal("broken file should still be indexed")
	}
	if p.Title != "Rescue" {
		t.Errorf("title = %q, want H1 fallback", p.Title)
	}
}
