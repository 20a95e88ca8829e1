package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmptyPath(t *testing.T) {
	w := NewWatcher("", nil)
	if err := w.Start(); err == nil {
		t.Error("Expected error for empty path")
		w.Stop()
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "data.json"), nil)
	if err := w.Start(); err == nil {
		t.Error("Expected error for missing directory")
		w.Stop()
	}
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lobbying_data.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w := NewWatcher(path, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	w.SetDebounce(50 * time.Millisecond)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(`[{"filing_year": 2024}]`), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("Reload callback was not invoked after a write")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lobbying_data.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w := NewWatcher(path, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	w.SetDebounce(50 * time.Millisecond)

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write unrelated file: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("Reload fired for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopDuringEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lobbying_data.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	// Stopping while events are still arriving must neither race nor
	// panic, regardless of where the event loop is in its select.
	for i := 0; i < 25; i++ {
		w := NewWatcher(path, func() {})
		w.SetDebounce(time.Millisecond)
		if err := w.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 10; j++ {
				os.WriteFile(path, []byte("[]"), 0644)
			}
		}()

		w.Stop()
		<-done
		w.Stop()
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	w := NewWatcher(path, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
	w.Stop()
}
