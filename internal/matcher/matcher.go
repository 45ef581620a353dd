// Package matcher provides exact and approximate multi-keyword string matching over
// free text: a prefix-function (KMP) matcher, a bad-character Boyer–Moore matcher, an
// Aho–Corasick automaton, and a Levenshtein window matcher.
//
// Symbols are Unicode code points; every reported position is a zero-based rune offset.
// All matchers are stateless: each call builds what it needs and discards it.
package matcher

import (
	"errors"
	"fmt"
	"strings"
)

// Matcher counts occurrences of every pattern in text. The result holds each distinct
// pattern once, in first-occurrence order, valued 0 when the pattern never matches.
type Matcher interface {
	MultiSearch(text string, patterns []string) *Counts
}

// PositionMatcher is a single-pattern exact matcher that also reports match offsets.
type PositionMatcher interface {
	Matcher
	CountOccurrences(pattern, text string) int
	Positions(pattern, text string) []int
}

// Algorithm names a matching algorithm.
type Algorithm string

const (
	KMP         Algorithm = "kmp"
	BoyerMoore  Algorithm = "bm"
	AhoCorasick Algorithm = "aho-corasick"
	Levenshtein Algorithm = "levenshtein"
)

// ErrUnknownAlgorithm is returned when an algorithm name is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{KMP, BoyerMoore, AhoCorasick, Levenshtein}
}

// ExactAlgorithms lists the algorithms that report exact matches only.
func ExactAlgorithms() []Algorithm {
	return []Algorithm{KMP, BoyerMoore, AhoCorasick}
}

// IsExact reports whether a is an exact-match algorithm.
func (a Algorithm) IsExact() bool {
	return a == KMP || a == BoyerMoore || a == AhoCorasick
}

// ParseAlgorithm resolves a user-supplied algorithm name. Matching is case-insensitive
// and accepts a few common aliases.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmp", "knuth-morris-pratt":
		return KMP, nil
	case "bm", "boyer-moore", "boyermoore":
		return BoyerMoore, nil
	case "aho-corasick", "ahocorasick", "ac":
		return AhoCorasick, nil
	case "levenshtein", "fuzzy":
		return Levenshtein, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

type options struct {
	alphabetSize int
	threshold    float64
}

// Option configures a matcher built by New.
type Option func(*options)

// WithAlphabetSize sets the automaton alphabet size. Ignored by other algorithms.
func WithAlphabetSize(n int) Option {
	return func(o *options) { o.alphabetSize = n }
}

// WithThreshold sets the similarity threshold. Ignored by exact algorithms.
func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// New returns the matcher for alg.
func New(alg Algorithm, opts ...Option) (Matcher, error) {
	o := options{alphabetSize: DefaultAlphabetSize, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	switch alg {
	case KMP:
		return NewKMP(), nil
	case BoyerMoore:
		return NewBoyerMoore(), nil
	case AhoCorasick:
		return NewAhoCorasick(o.alphabetSize), nil
	case Levenshtein:
		return NewLevenshtein(o.threshold), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
}

// multiSearchEach runs count once per distinct pattern.
func multiSearchEach(text string, patterns []string, count func(pattern string, text []rune) int) *Counts {
	result := NewCounts(patterns)
	if text == "" {
		return result
	}
	runes := []rune(text)
	for _, p := range result.keys {
		result.counts[p] = count(p, runes)
	}
	return result
}
