package models

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a search has no usable keywords.
var ErrEmptyQuery = errors.New("query must contain at least one keyword")

// SearchQuery represents a keyword search request over the CV corpus.
type SearchQuery struct {
	// Query is a comma-separated keyword list ("Python, React, SQL"). Ignored when Keywords is set.
	Query    string   `json:"query,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	// Algorithm selects the exact matcher: kmp, bm, or aho-corasick. Empty uses the configured default.
	Algorithm string `json:"algorithm,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	// FuzzyEnabled turns on the approximate fallback for keywords without exact hits. Nil means enabled.
	FuzzyEnabled *bool `json:"fuzzy_enabled,omitempty"`
	// FuzzyThreshold is the minimum similarity in (0, 1]. Zero uses the configured default.
	FuzzyThreshold float64 `json:"fuzzy_threshold,omitempty"`
	// MatchedOnly drops documents whose keyword counts are all zero.
	MatchedOnly bool `json:"matched_only,omitempty"`
	// Snippets adds the context of each keyword's first exact occurrence to every result.
	Snippets bool `json:"snippets,omitempty"`
}

// ParseKeywords splits a comma-separated keyword list, trimming whitespace and dropping empties.
func ParseKeywords(query string) []string {
	parts := strings.Split(query, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// Fuzzy reports whether the fuzzy fallback is enabled (the default).
func (q *SearchQuery) Fuzzy() bool {
	return q.FuzzyEnabled == nil || *q.FuzzyEnabled
}

// Validate ensures the query has keywords and normalizes the keyword list and limit.
// Returns ErrEmptyQuery if no keyword remains after trimming.
func (q *SearchQuery) Validate() error {
	keywords := q.Keywords
	if len(keywords) == 0 {
		keywords = ParseKeywords(q.Query)
	}
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return ErrEmptyQuery
	}
	q.Keywords = cleaned
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.FuzzyThreshold < 0 || q.FuzzyThreshold > 1 {
		q.FuzzyThreshold = 0
	}
	return nil
}
