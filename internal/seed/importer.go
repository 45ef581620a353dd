// Package seed imports CV files as applicants, generating a synthetic profile for each.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/storage"
	"go.uber.org/zap"
)

// Store is the subset of storage the importer writes to.
type Store interface {
	CreateApplicant(ctx context.Context, a *models.Applicant) error
	CreateApplication(ctx context.Context, app *models.Application) error
	DeleteApplicant(ctx context.Context, id int64) error
	ApplicationByPath(ctx context.Context, cvPath string) (*models.Application, error)
	DeleteApplicationsByPath(ctx context.Context, cvPath string) (int64, error)
}

// TextExtractor turns a CV file into plain text.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// Importer creates one applicant and application per CV file.
type Importer struct {
	store       Store
	extractor   TextExtractor
	extensions  []string
	defaultRole string
	logger      *zap.Logger
	now         func() time.Time

	mu    sync.Mutex // guards faker
	faker *gofakeit.Faker
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets a logger for import progress and extraction warnings.
func WithLogger(l *zap.Logger) ImporterOption {
	return func(i *Importer) { i.logger = l }
}

// WithClock sets the time source used to bound generated birth dates.
func WithClock(now func() time.Time) ImporterOption {
	return func(i *Importer) { i.now = now }
}

// NewImporter creates an importer. extractor may be nil, in which case CV text is
// left empty and extracted on first search. A zero cfg.Seed draws a random seed.
func NewImporter(store Store, extractor TextExtractor, cfg *config.ImportConfig, opts ...ImporterOption) *Importer {
	i := &Importer{
		store:       store,
		extractor:   extractor,
		extensions:  cfg.Extensions,
		defaultRole: cfg.DefaultRole,
		logger:      zap.NewNop(),
		now:         time.Now,
		faker:       gofakeit.New(cfg.Seed),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportFolder imports every CV directly inside dir, in file name order. Subdirectories
// are not descended. A file that fails to import is counted and logged; the rest continue.
func (i *Importer) ImportFolder(ctx context.Context, dir, role string) (*models.ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}
	result := &models.ImportResult{Applicants: []int64{}}
	for _, entry := range entries {
		if entry.IsDir() || !i.accepts(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := filepath.Join(dir, entry.Name())
		app, created, err := i.ImportFile(ctx, path, role)
		switch {
		case err != nil:
			result.Failed++
			i.logger.Warn("cv import failed", zap.String("path", path), zap.Error(err))
		case created:
			result.Imported++
			result.Applicants = append(result.Applicants, app.ApplicantID)
		default:
			result.Skipped++
		}
	}
	i.logger.Info("folder imported",
		zap.String("dir", dir),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// ImportFile imports a single CV. A path that was already imported is left alone and its
// existing application returned with created=false. If the application cannot be stored,
// the applicant created for it is removed again.
func (i *Importer) ImportFile(ctx context.Context, path, role string) (*models.Application, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}
	if !i.accepts(abs) {
		return nil, false, fmt.Errorf("%s: extension not accepted for import", abs)
	}
	existing, err := i.store.ApplicationByPath(ctx, abs)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, false, err
	}

	applicant := i.Profile()
	if err := i.store.CreateApplicant(ctx, applicant); err != nil {
		return nil, false, err
	}
	if role == "" {
		role = i.defaultRole
	}
	app := &models.Application{
		ApplicantID: applicant.ID,
		Role:        role,
		CVPath:      abs,
		CVText:      i.extract(abs),
	}
	if err := i.store.CreateApplication(ctx, app); err != nil {
		if delErr := i.store.DeleteApplicant(ctx, applicant.ID); delErr != nil {
			i.logger.Warn("failed to remove applicant after import error",
				zap.Int64("applicant_id", applicant.ID), zap.Error(delErr))
		}
		return nil, false, err
	}
	i.logger.Debug("cv imported",
		zap.String("path", abs),
		zap.Int64("applicant_id", applicant.ID),
		zap.String("name", applicant.FullName()))
	return app, true, nil
}

// RemoveFile deletes the applications recorded for path, along with applicants left without one.
func (i *Importer) RemoveFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	n, err := i.store.DeleteApplicationsByPath(ctx, abs)
	if err != nil {
		return err
	}
	i.logger.Debug("cv removed", zap.String("path", abs), zap.Int64("applications", n))
	return nil
}

// SeedProfiles inserts n generated applicants that have no application yet.
func (i *Importer) SeedProfiles(ctx context.Context, n int) ([]int64, error) {
	ids := make([]int64, 0, n)
	for range n {
		a := i.Profile()
		if err := i.store.CreateApplicant(ctx, a); err != nil {
			return ids, fmt.Errorf("failed to seed applicant: %w", err)
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// Profile generates a synthetic applicant: an adult between 18 and 60 with an address,
// an Indonesian-style mobile number, and an email derived from the name.
func (i *Importer) Profile() *models.Applicant {
	i.mu.Lock()
	defer i.mu.Unlock()
	f := i.faker
	now := i.now()
	dob := f.DateRange(now.AddDate(-60, 0, 0), now.AddDate(-18, 0, 0)).Truncate(24 * time.Hour)
	first, last := f.FirstName(), f.LastName()
	addr := f.Address()
	return &models.Applicant{
		FirstName:   first,
		LastName:    last,
		DateOfBirth: &dob,
		Address:     fmt.Sprintf("%s, %s, %s", addr.Street, addr.City, addr.State),
		PhoneNumber: f.Numerify("628##########"),
		Email:       strings.ToLower(last+"."+first) + "@" + f.DomainName(),
	}
}

func (i *Importer) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if len(i.extensions) == 0 {
		return ext == ".pdf"
	}
	for _, e := range i.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (i *Importer) extract(path string) string {
	if i.extractor == nil {
		return ""
	}
	text, err := i.extractor.Extract(path)
	if err != nil {
		i.logger.Warn("cv extraction failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return text
}
