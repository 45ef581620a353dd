package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	var imported, removed []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
		return nil
	}
	onRemove := func(_ context.Context, path string) error {
		mu.Lock()
		removed = append(removed, path)
		mu.Unlock()
		return nil
	}

	w := New(nil, WithExtensions([]string{".txt"}), OnImport(onImport), OnRemove(onRemove))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || filepath.Clean(dirs[0]) != filepath.Clean(dir) {
		t.Errorf("Directories() = %v", dirs)
	}

	if err := w.RemoveDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Errorf("after remove: %v", w.Directories())
	}
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := mkdirAll(sub); err != nil {
		t.Fatal(err)
	}

	var imported []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
		return nil
	}
	w := New([]string{dir}, WithExtensions([]string{".txt"}), OnImport(onImport))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Create a .txt file
	fPath := filepath.Join(sub, "f.txt")
	if err := writeFile(fPath, "hello"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)
	mu.Lock()
	count := len(imported)
	mu.Unlock()
	if count < 1 {
		t.Errorf("expected at least one import callback, got %d", count)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestWatcher_SyncExistingFiles_importsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "a.txt"), "hello"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "ignore.xyz"), "x"); err != nil {
		t.Fatal(err)
	}

	var imported []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
		return nil
	}
	w := New([]string{dir}, WithExtensions([]string{".txt"}), OnImport(onImport))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.SyncExistingFiles()

	mu.Lock()
	defer mu.Unlock()
	if len(imported) != 1 || !strings.HasSuffix(imported[0], "a.txt") {
		t.Errorf("expected one imported file a.txt, got %v", imported)
	}
}

func TestWatcher_Start_createsMissingRootDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "watch", "me")
	// Ensure the root does not exist.
	_ = os.RemoveAll(filepath.Join(base, "watch"))

	w := New([]string{root}, WithExtensions([]string{".txt"}))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
}

func TestWatcher_HandleNewDirectory_importsFilesInNewFolder(t *testing.T) {
	dir := t.TempDir()

	var imported []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
		return nil
	}

	w := New([]string{dir}, WithExtensions([]string{".pdf", ".md"}), OnImport(onImport))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Simulate copying a folder with files into the watched directory
	newFolder := filepath.Join(dir, "new-folder")
	if err := mkdirAll(newFolder); err != nil {
		t.Fatal(err)
	}

	// Create files inside the new folder
	if err := writeFile(filepath.Join(newFolder, "cv1.pdf"), "hello"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(newFolder, "cv2.md"), "world"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(newFolder, "ignore.xyz"), "skip"); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce and directory handling
	time.Sleep(800 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	// Should have imported the matching files (cv1.pdf and cv2.md)
	if len(imported) < 2 {
		t.Errorf("expected at least 2 imported files, got %d: %v", len(imported), imported)
	}

	// Verify the correct files were imported
	txtFound, mdFound := false, false
	for _, p := range imported {
		if strings.HasSuffix(p, "cv1.pdf") {
			txtFound = true
		}
		if strings.HasSuffix(p, "cv2.md") {
			mdFound = true
		}
		if strings.HasSuffix(p, "ignore.xyz") {
			t.Errorf("ignore.xyz should not be imported")
		}
	}
	if !txtFound || !mdFound {
		t.Errorf("expected cv1.pdf and cv2.md to be imported, got %v", imported)
	}
}

func TestWatcher_HandleNewDirectory_recursiveSubfolders(t *testing.T) {
	dir := t.TempDir()

	var imported []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
		return nil
	}

	w := New([]string{dir}, WithExtensions([]string{".txt"}), OnImport(onImport))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Create a nested folder structure
	nested := filepath.Join(dir, "level1", "level2")
	if err := mkdirAll(nested); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "deep.txt"), "deep content"); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce and directory handling
	time.Sleep(800 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	// Should have imported the deep file
	found := false
	for _, p := range imported {
		if strings.HasSuffix(p, "deep.txt") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected deep.txt to be imported, got %v", imported)
	}
}

func TestWatcher_RemoveCallbackOnDelete(t *testing.T) {
	dir := t.TempDir()
	cv := filepath.Join(dir, "gone.pdf")
	if err := writeFile(cv, "%PDF"); err != nil {
		t.Fatal(err)
	}

	removed := make(chan string, 4)
	onRemove := func(_ context.Context, path string) error {
		removed <- path
		return nil
	}
	w := New([]string{dir}, WithExtensions([]string{".pdf"}), OnRemove(onRemove), WithDebounce(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(cv); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-removed:
		if filepath.Base(p) != "gone.pdf" {
			t.Errorf("removed %s, want gone.pdf", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remove callback not called")
	}
}

func TestWatcher_CallbackErrorDoesNotStopSync(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf"} {
		if err := writeFile(filepath.Join(dir, name), "x"); err != nil {
			t.Fatal(err)
		}
	}
	var calls int
	var mu sync.Mutex
	onImport := func(context.Context, string) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("extraction failed")
	}
	w := New([]string{dir}, WithExtensions([]string{"pdf"}), OnImport(onImport))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	w.SyncExistingFiles()

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("expected 2 import calls, got %d", calls)
	}
}

func TestWatcher_NonRecursiveSyncSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "top.pdf"), "x"); err != nil {
		t.Fatal(err)
	}
	if err := mkdirAll(filepath.Join(dir, "nested")); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "nested", "deep.pdf"), "x"); err != nil {
		t.Fatal(err)
	}
	var imported []string
	var mu sync.Mutex
	onImport := func(_ context.Context, path string) error {
		mu.Lock()
		imported = append(imported, filepath.Base(path))
		mu.Unlock()
		return nil
	}
	w := New([]string{dir}, WithRecursive(false), OnImport(onImport))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	w.SyncExistingFiles()

	mu.Lock()
	defer mu.Unlock()
	if len(imported) != 1 || imported[0] != "top.pdf" {
		t.Errorf("imported %v, want [top.pdf]", imported)
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
