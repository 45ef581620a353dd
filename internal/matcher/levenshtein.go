package matcher

// DefaultThreshold is the minimum similarity for a window to count as a fuzzy match.
const DefaultThreshold = 0.8

// Distance returns the Levenshtein distance between a and b: the minimum number of
// single-rune insertions, deletions, or substitutions turning one into the other.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two rolling rows of the DP matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity returns 1 - Distance(a, b) / max(len(a), len(b)), in [0, 1].
// Two empty strings are identical and have similarity 1.
func Similarity(a, b string) float64 {
	return similarity([]rune(a), []rune(b))
}

func similarity(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance(a, b))/float64(longest)
}

// IsSimilar reports whether Similarity(a, b) >= threshold.
func IsSimilar(a, b string, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// LevenshteinMatcher counts approximate occurrences of a pattern by sliding a window of
// len(pattern) runes across the text one rune at a time and accepting every window whose
// similarity to the pattern reaches the threshold. Windows may fall inside larger words.
type LevenshteinMatcher struct {
	threshold float64
}

// NewLevenshtein returns a window matcher. A non-positive threshold selects DefaultThreshold.
func NewLevenshtein(threshold float64) *LevenshteinMatcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &LevenshteinMatcher{threshold: threshold}
}

// Threshold returns the configured similarity threshold.
func (l *LevenshteinMatcher) Threshold() float64 {
	return l.threshold
}

func windowPositions(text, pattern []rune, threshold float64) []int {
	m := len(pattern)
	if m == 0 || m > len(text) {
		return nil
	}
	var positions []int
	for i := 0; i+m <= len(text); i++ {
		if similarity(text[i:i+m], pattern) >= threshold {
			positions = append(positions, i)
		}
	}
	return positions
}

// PositionsWithin returns the start offset of every window of text similar to pattern
// at the given threshold.
func (l *LevenshteinMatcher) PositionsWithin(text, pattern string, threshold float64) []int {
	return windowPositions([]rune(text), []rune(pattern), threshold)
}

// Positions returns the start offset of every window similar to pattern at the
// matcher's threshold.
func (l *LevenshteinMatcher) Positions(pattern, text string) []int {
	return l.PositionsWithin(text, pattern, l.threshold)
}

// CountOccurrences returns the number of windows similar to pattern.
func (l *LevenshteinMatcher) CountOccurrences(pattern, text string) int {
	return len(l.Positions(pattern, text))
}

// MultiSearch counts similar windows for every distinct pattern.
func (l *LevenshteinMatcher) MultiSearch(text string, patterns []string) *Counts {
	return multiSearchEach(text, patterns, func(p string, t []rune) int {
		return len(windowPositions(t, []rune(p), l.threshold))
	})
}
