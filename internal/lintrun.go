package internal

import (
	"context"
	"fmt"

	"github.com/aldergate/wunjo/internal/lint"
	"github.com/aldergate/wunjo/internal/storage"
)

// RunLint lints every file in the content tree and prints the findings.
// It returns an error when any file has lint errors, so the CLI exits non-zero.
func RunLint(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	store, err := storage.NewFS(app.config.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	metas, err := store.List("")
	if err != nil {
		return fmt.Errorf("list content: %w", err)
	}

	failed := 0
	for _, m := range metas {
		data, readErr := store.Read(m.Path)
		if readErr != nil {
			fmt.Printf("%s: read failed: %v\n", m.Path, readErr)
			failed++
			continue
		}
		rep := lint.File(m.Path, data, store.Exists)
		for _, e := range rep.Errors {
			fmt.Printf("%s: error: %s\n", rep.Path, e)
		}
		for _, warn := range rep.Warnings {
			fmt.Printf("%s: warning: %s\n", rep.Path, warn)
		}
		if !rep.Clean() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("lint: %d of %d file(s) have errors", failed, len(metas))
	}
	fmt.Printf("lint: %d file(s) clean\n", len(metas))
	return nil
}
