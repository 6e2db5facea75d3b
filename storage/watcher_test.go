package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.csv")
	if err := os.WriteFile(path, []byte("id\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewFileWatcher(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 4)
	go func() {
		_ = w.Watch(ctx, func(p string) { changed <- p })
	}()

	// An unrelated file in the same directory must not trigger.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("id\n1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changed:
		if filepath.Base(got) != "listings.csv" {
			t.Errorf("changed path: got %q", got)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}
	if w.LastEvent().IsZero() {
		t.Error("LastEvent should be set after a change")
	}
}

func TestFileWatcherStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	w, err := NewFileWatcher(path, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, func(string) {}) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch after cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
