package matcher

// BoyerMooreMatcher finds pattern occurrences with the Boyer–Moore bad-character rule.
// After a full match the window advances by one so overlapping occurrences are reported,
// giving the same results as KMPMatcher.
type BoyerMooreMatcher struct{}

// NewBoyerMoore returns a Boyer–Moore matcher.
func NewBoyerMoore() *BoyerMooreMatcher {
	return &BoyerMooreMatcher{}
}

// lastOccurrence maps each symbol of pattern to its rightmost index.
func lastOccurrence(pattern []rune) map[rune]int {
	table := make(map[rune]int, len(pattern))
	for i, r := range pattern {
		table[r] = i
	}
	return table
}

func bmPositions(pattern, text []rune) []int {
	m, n := len(pattern), len(text)
	if m == 0 || n == 0 || m > n {
		return nil
	}
	last := lastOccurrence(pattern)
	var positions []int
	anchor := m - 1
	for anchor < n {
		i, j := anchor, m-1
		for j >= 0 && text[i] == pattern[j] {
			i--
			j--
		}
		if j < 0 {
			positions = append(positions, i+1)
			anchor++
			continue
		}
		lx, ok := last[text[i]]
		if !ok {
			lx = -1
		}
		anchor += max(1, j-lx)
	}
	return positions
}

// Positions returns the start offset of every (possibly overlapping) occurrence.
func (b *BoyerMooreMatcher) Positions(pattern, text string) []int {
	return bmPositions([]rune(pattern), []rune(text))
}

// CountOccurrences returns the number of (possibly overlapping) occurrences.
func (b *BoyerMooreMatcher) CountOccurrences(pattern, text string) int {
	return len(b.Positions(pattern, text))
}

// MultiSearch runs one bad-character scan per distinct pattern.
func (b *BoyerMooreMatcher) MultiSearch(text string, patterns []string) *Counts {
	return multiSearchEach(text, patterns, func(p string, t []rune) int {
		return len(bmPositions([]rune(p), t))
	})
}
