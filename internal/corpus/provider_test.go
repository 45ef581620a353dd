package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/storage"
)

type fakeStore struct {
	rows    []*models.CorpusRow
	listErr error
	updated map[int64]string
}

func (f *fakeStore) ListCorpusRows(context.Context) ([]*models.CorpusRow, error) {
	return f.rows, f.listErr
}

func (f *fakeStore) UpdateCVText(_ context.Context, id int64, text string) error {
	if f.updated == nil {
		f.updated = make(map[int64]string)
	}
	f.updated[id] = text
	return nil
}

type fakeExtractor map[string]string

func (f fakeExtractor) Extract(path string) (string, error) {
	text, ok := f[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

func TestProvider_Documents(t *testing.T) {
	store := &fakeStore{rows: []*models.CorpusRow{
		{ApplicantID: 1, ApplicationID: 10, Name: "Cached", CVPath: "/cv/a.pdf", CVText: "stored text"},
		{ApplicantID: 2, ApplicationID: 20, Name: "Fresh", CVPath: "/cv/b.pdf"},
		{ApplicantID: 3, ApplicationID: 30, Name: "Broken", CVPath: "/cv/missing.pdf"},
	}}
	ext := fakeExtractor{"/cv/a.pdf": "should not be read", "/cv/b.pdf": "extracted text"}

	docs, err := NewProvider(store, ext).Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []models.Document{
		{ID: 1, Name: "Cached", Text: "stored text"},
		{ID: 2, Name: "Fresh", Text: "extracted text"},
		{ID: 3, Name: "Broken", Text: ""},
	}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d", len(docs), len(want))
	}
	for i, d := range docs {
		if *d != want[i] {
			t.Errorf("doc %d = %+v, want %+v", i, *d, want[i])
		}
	}
	if store.updated[20] != "extracted text" {
		t.Errorf("extracted text should be cached, updated=%v", store.updated)
	}
	if _, ok := store.updated[10]; ok {
		t.Error("stored text should not be rewritten")
	}
	if _, ok := store.updated[30]; ok {
		t.Error("failed extraction should not be cached")
	}
}

func TestProvider_WithoutCache(t *testing.T) {
	store := &fakeStore{rows: []*models.CorpusRow{{ApplicantID: 1, ApplicationID: 1, CVPath: "/cv/a.pdf"}}}
	docs, err := NewProvider(store, fakeExtractor{"/cv/a.pdf": "text"}, WithoutCache()).Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Text != "text" {
		t.Errorf("Text = %q", docs[0].Text)
	}
	if len(store.updated) != 0 {
		t.Errorf("nothing should be cached, got %v", store.updated)
	}
}

func TestProvider_NilExtractor(t *testing.T) {
	store := &fakeStore{rows: []*models.CorpusRow{{ApplicantID: 1, CVPath: "/cv/a.pdf"}}}
	docs, err := NewProvider(store, nil).Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Text != "" {
		t.Errorf("got %+v", docs)
	}
}

func TestProvider_ListError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	if _, err := NewProvider(store, nil).Documents(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestProvider_CancelledContext(t *testing.T) {
	store := &fakeStore{rows: []*models.CorpusRow{{ApplicantID: 1}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider(store, nil).Documents(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestProvider_SQLiteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "cv.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	cvPath := filepath.Join(dir, "ada.txt")
	if err := os.WriteFile(cvPath, []byte("Skills\nGo, SQL\n"), 0600); err != nil {
		t.Fatal(err)
	}
	a := &models.Applicant{FirstName: "Ada", LastName: "Lovelace"}
	if err := store.CreateApplicant(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateApplication(ctx, &models.Application{ApplicantID: a.ID, CVPath: cvPath}); err != nil {
		t.Fatal(err)
	}

	docs, err := NewProvider(store, extract.NewExtractor()).Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Name != "Ada Lovelace" || docs[0].Text != "Skills\nGo, SQL" {
		t.Fatalf("got %+v", docs[0])
	}

	app, err := store.ApplicationByPath(ctx, cvPath)
	if err != nil {
		t.Fatal(err)
	}
	if app.CVText != "Skills\nGo, SQL" {
		t.Errorf("cached text = %q", app.CVText)
	}
}
