// Package search runs keyword searches over the CV corpus.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
	"go.uber.org/zap"
)

// Corpus supplies the documents to search, in the order results are reported.
type Corpus interface {
	Documents(ctx context.Context) ([]*models.Document, error)
}

// StaticCorpus is a fixed in-memory corpus.
type StaticCorpus []*models.Document

// Documents returns the documents as given.
func (c StaticCorpus) Documents(context.Context) ([]*models.Document, error) {
	return c, nil
}

// Engine matches query keywords against every document with one exact algorithm and
// falls back to fuzzy matching for documents where a keyword has no exact hit.
type Engine struct {
	corpus Corpus
	config *config.SearchConfig
	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for per-search debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a search engine over corpus.
func NewEngine(corpus Corpus, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	if cfg == nil {
		var defaults config.Config
		config.ApplyDefaults(&defaults)
		cfg = &defaults.Search
	}
	e := &Engine{corpus: corpus, config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs the query over the whole corpus. Results keep corpus order and are
// truncated to the query limit after every document has been matched, so the
// reported timings and counters cover the full corpus.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	alg, err := ProcessQuery(query, e.config)
	if err != nil {
		return nil, err
	}

	exact, err := matcher.New(alg, matcher.WithAlphabetSize(e.config.AlphabetSize))
	if err != nil {
		return nil, err
	}
	var fuzzy matcher.Matcher
	if query.Fuzzy() {
		fuzzy = matcher.NewLevenshtein(query.FuzzyThreshold)
	}

	docs, err := e.corpus.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	response := &models.SearchResponse{
		RequestID: uuid.New().String(),
		Algorithm: string(alg),
		Keywords:  query.Keywords,
		Results:   make([]*models.SearchResult, 0, min(len(docs), query.Limit)),
		Scanned:   len(docs),
	}

	var snippetMatcher matcher.PositionMatcher
	if query.Snippets {
		pm, ok := exact.(matcher.PositionMatcher)
		if !ok {
			pm = matcher.NewKMP()
		}
		snippetMatcher = pm
	}

	var exactTime, fuzzyTime time.Duration
	for _, doc := range docs {
		result, exactDur, fuzzyDur := MatchDocument(exact, fuzzy, doc, query.Keywords)
		if snippetMatcher != nil {
			result.Snippets = Snippets(snippetMatcher, doc.Text, query.Keywords, DefaultSnippetRadius)
		}
		exactTime += exactDur
		fuzzyTime += fuzzyDur
		if result.Fuzzy {
			response.FuzzyDocuments++
		}
		matched := result.Keywords.Total() > 0
		if matched {
			response.Matched++
		}
		if query.MatchedOnly && !matched {
			continue
		}
		response.Results = append(response.Results, result)
	}
	if len(response.Results) > query.Limit {
		response.Results = response.Results[:query.Limit]
	}

	response.ExactTimeUS = exactTime.Microseconds()
	response.FuzzyTimeUS = fuzzyTime.Microseconds()
	response.QueryTime = time.Since(startTime).Milliseconds()

	e.logger.Debug("search completed",
		zap.String("request_id", response.RequestID),
		zap.String("algorithm", response.Algorithm),
		zap.Strings("keywords", query.Keywords),
		zap.Int("scanned", response.Scanned),
		zap.Int("matched", response.Matched),
		zap.Int("fuzzy_documents", response.FuzzyDocuments),
		zap.Duration("exact_time", exactTime),
		zap.Duration("fuzzy_time", fuzzyTime))
	return response, nil
}

// MatchDocument counts keywords in one document with exact. When fuzzy is non-nil and
// any keyword has zero exact hits, fuzzy reruns over the full keyword list and its
// counts replace the exact ones for this document. The returned durations are the
// time spent in each phase; the fuzzy duration is zero when the fallback did not run.
func MatchDocument(exact, fuzzy matcher.Matcher, doc *models.Document, keywords []string) (*models.SearchResult, time.Duration, time.Duration) {
	result := &models.SearchResult{ID: doc.ID, Name: doc.Name}

	start := time.Now()
	result.Keywords = exact.MultiSearch(doc.Text, keywords)
	exactDur := time.Since(start)

	if fuzzy == nil || !result.Keywords.HasZero() {
		return result, exactDur, 0
	}
	start = time.Now()
	result.Keywords = fuzzy.MultiSearch(doc.Text, keywords)
	result.Fuzzy = true
	return result, exactDur, time.Since(start)
}
