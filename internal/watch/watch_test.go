package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const waitTimeout = 5 * time.Second

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startWatcher(t *testing.T, files []string, debounce time.Duration) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	changes := make(chan []string, 4)
	w, err := New(files, debounce, nil, func(batch []string) { changes <- batch })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return changes, cancel, done
}

func waitForBatch(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case batch := <-changes:
		return batch
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for change notification")
		return nil
	}
}

func TestWatcherDeliversChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "point.oriz")
	writeFile(t, path, "struct Point { x: i32 }\n")

	changes, cancel, done := startWatcher(t, []string{path}, 50*time.Millisecond)
	defer cancel()

	writeFile(t, path, "struct Point { x: i32, y: i32 }\n")

	batch := waitForBatch(t, changes)
	if want := []string{path}; !reflect.DeepEqual(batch, want) {
		t.Fatalf("batch = %v, want %v", batch, want)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for Run to stop")
	}
}

func TestWatcherBatchesRapidChanges(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.oriz")
	second := filepath.Join(dir, "b.oriz")
	writeFile(t, first, "struct A;\n")
	writeFile(t, second, "struct B;\n")

	changes, cancel, _ := startWatcher(t, []string{first, second}, 200*time.Millisecond)
	defer cancel()

	writeFile(t, first, "struct A { n: i32 }\n")
	writeFile(t, second, "struct B { n: i32 }\n")

	batch := waitForBatch(t, changes)
	if want := []string{first, second}; !reflect.DeepEqual(batch, want) {
		t.Fatalf("batch = %v, want %v", batch, want)
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.oriz")
	unrelated := filepath.Join(dir, "notes.txt")
	writeFile(t, watched, "struct W;\n")

	changes, cancel, _ := startWatcher(t, []string{watched}, 50*time.Millisecond)
	defer cancel()

	writeFile(t, unrelated, "scratch\n")
	writeFile(t, watched, "struct W { n: i32 }\n")

	batch := waitForBatch(t, changes)
	if want := []string{watched}; !reflect.DeepEqual(batch, want) {
		t.Fatalf("batch = %v, want %v", batch, want)
	}
}

func TestWatcherReportsPathsAsGiven(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rel.oriz"), "struct R;\n")

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})

	changes, cancel, _ := startWatcher(t, []string{"rel.oriz"}, 50*time.Millisecond)
	defer cancel()

	writeFile(t, filepath.Join(dir, "rel.oriz"), "struct R { n: i32 }\n")

	batch := waitForBatch(t, changes)
	if want := []string{"rel.oriz"}; !reflect.DeepEqual(batch, want) {
		t.Fatalf("batch = %v, want %v", batch, want)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "ok.oriz")
	writeFile(t, existing, "struct Ok;\n")

	tests := []struct {
		name     string
		files    []string
		onChange func([]string)
	}{
		{
			name:     "no files",
			files:    nil,
			onChange: func([]string) {},
		},
		{
			name:     "nil handler",
			files:    []string{existing},
			onChange: nil,
		},
		{
			name:     "missing directory",
			files:    []string{filepath.Join(dir, "missing", "gone.oriz")},
			onChange: func([]string) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.files, 0, nil, tt.onChange); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
