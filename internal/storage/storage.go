// Package storage defines the persistence interface for applicants and their CV applications.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/resumatch/internal/models"
)

// ErrNotFound is returned when an applicant or application does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines applicant and application persistence operations.
type Storage interface {
	// Applicant operations
	CreateApplicant(ctx context.Context, a *models.Applicant) error
	GetApplicant(ctx context.Context, id int64) (*models.Applicant, error)
	ListApplicants(ctx context.Context, offset, limit int) ([]*models.Applicant, error)
	DeleteApplicant(ctx context.Context, id int64) error

	// Application operations
	CreateApplication(ctx context.Context, app *models.Application) error
	GetCVPath(ctx context.Context, applicantID int64) (string, error)
	UpdateCVText(ctx context.Context, applicationID int64, text string) error
	ApplicationByPath(ctx context.Context, cvPath string) (*models.Application, error)
	DeleteApplicationsByPath(ctx context.Context, cvPath string) (int64, error)

	// ListCorpusRows returns one row per application joined with its applicant, in applicant id order.
	ListCorpusRows(ctx context.Context) ([]*models.CorpusRow, error)

	// Stats
	CountApplicants(ctx context.Context) (int64, error)
	CountApplications(ctx context.Context) (int64, error)

	// Reset removes every applicant and application.
	Reset(ctx context.Context) error

	Close() error
}
