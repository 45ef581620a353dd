// Package corpus assembles the searchable CV documents from stored applications.
package corpus

import (
	"context"
	"fmt"

	"github.com/hyperjump/resumatch/internal/models"
	"go.uber.org/zap"
)

// Store is the subset of storage the provider reads from and writes extracted text back to.
type Store interface {
	ListCorpusRows(ctx context.Context) ([]*models.CorpusRow, error)
	UpdateCVText(ctx context.Context, applicationID int64, text string) error
}

// TextExtractor turns a CV file into plain text.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// Provider lists CV documents in applicant order. Text stored with the application is used
// as-is; otherwise the CV file is extracted and the text saved for later searches.
type Provider struct {
	store     Store
	extractor TextExtractor
	logger    *zap.Logger
	noCache   bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets a logger for extraction warnings and debug output.
func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// WithoutCache disables writing extracted text back to the store.
func WithoutCache() ProviderOption {
	return func(p *Provider) { p.noCache = true }
}

// NewProvider creates a provider over store. extractor may be nil, in which case
// applications without stored text are searched as empty documents.
func NewProvider(store Store, extractor TextExtractor, opts ...ProviderOption) *Provider {
	p := &Provider{store: store, extractor: extractor, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Documents returns one document per application. A CV that cannot be read is logged
// and yields an empty document rather than failing the search.
func (p *Provider) Documents(ctx context.Context) ([]*models.Document, error) {
	rows, err := p.store.ListCorpusRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus: %w", err)
	}
	docs := make([]*models.Document, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs, &models.Document{
			ID:   row.ApplicantID,
			Name: row.Name,
			Text: p.text(ctx, row),
		})
	}
	return docs, nil
}

func (p *Provider) text(ctx context.Context, row *models.CorpusRow) string {
	if row.CVText != "" || p.extractor == nil {
		return row.CVText
	}
	text, err := p.extractor.Extract(row.CVPath)
	if err != nil {
		p.logger.Warn("cv extraction failed",
			zap.Int64("applicant_id", row.ApplicantID),
			zap.String("path", row.CVPath),
			zap.Error(err))
		return ""
	}
	if !p.noCache && text != "" {
		if err := p.store.UpdateCVText(ctx, row.ApplicationID, text); err != nil {
			p.logger.Warn("failed to cache cv text",
				zap.Int64("application_id", row.ApplicationID),
				zap.Error(err))
		}
	}
	p.logger.Debug("cv extracted", zap.String("path", row.CVPath), zap.Int("chars", len(text)))
	return text
}
