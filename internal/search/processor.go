package search

import (
	"errors"
	"fmt"

	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
)

// ErrInexactAlgorithm is returned when a query names the fuzzy matcher as its exact phase.
var ErrInexactAlgorithm = errors.New("algorithm is not an exact matcher")

// ProcessQuery validates the query and fills algorithm, limit, and threshold from cfg.
// It returns the selected exact algorithm.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) (matcher.Algorithm, error) {
	if query.Limit <= 0 && cfg.DefaultLimit > 0 {
		query.Limit = cfg.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		return "", err
	}
	if cfg.MaxLimit > 0 && query.Limit > cfg.MaxLimit {
		query.Limit = cfg.MaxLimit
	}
	if query.FuzzyThreshold == 0 {
		query.FuzzyThreshold = cfg.FuzzyThreshold
	}
	if query.FuzzyEnabled == nil {
		enabled := !cfg.DisableFuzzy
		query.FuzzyEnabled = &enabled
	}

	name := query.Algorithm
	if name == "" {
		name = cfg.DefaultAlgorithm
	}
	alg, err := matcher.ParseAlgorithm(name)
	if err != nil {
		return "", err
	}
	if !alg.IsExact() {
		return "", fmt.Errorf("%w: %s", ErrInexactAlgorithm, alg)
	}
	query.Algorithm = string(alg)
	return alg, nil
}

// IsQueryError reports whether err was caused by the query itself rather than the corpus.
func IsQueryError(err error) bool {
	return errors.Is(err, models.ErrEmptyQuery) ||
		errors.Is(err, matcher.ErrUnknownAlgorithm) ||
		errors.Is(err, ErrInexactAlgorithm)
}
