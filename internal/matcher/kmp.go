package matcher

// KMPMatcher finds pattern occurrences with the Knuth–Morris–Pratt prefix function.
type KMPMatcher struct{}

// NewKMP returns a KMP matcher.
func NewKMP() *KMPMatcher {
	return &KMPMatcher{}
}

// prefixFunction returns, for each i, the length of the longest proper prefix of
// pattern[:i+1] that is also its suffix.
func prefixFunction(pattern []rune) []int {
	lps := make([]int, len(pattern))
	length := 0
	for i := 1; i < len(pattern); {
		if pattern[i] == pattern[length] {
			length++
			lps[i] = length
			i++
			continue
		}
		if length != 0 {
			length = lps[length-1]
		} else {
			lps[i] = 0
			i++
		}
	}
	return lps
}

func kmpPositions(pattern, text []rune) []int {
	m, n := len(pattern), len(text)
	if m == 0 || n == 0 || m > n {
		return nil
	}
	lps := prefixFunction(pattern)
	var positions []int
	j := 0
	for i := 0; i < n; {
		if pattern[j] == text[i] {
			i++
			j++
		}
		if j == m {
			positions = append(positions, i-j)
			j = lps[j-1]
		} else if i < n && pattern[j] != text[i] {
			if j != 0 {
				j = lps[j-1]
			} else {
				i++
			}
		}
	}
	return positions
}

// Positions returns the start offset of every (possibly overlapping) occurrence.
func (k *KMPMatcher) Positions(pattern, text string) []int {
	return kmpPositions([]rune(pattern), []rune(text))
}

// CountOccurrences returns the number of (possibly overlapping) occurrences.
func (k *KMPMatcher) CountOccurrences(pattern, text string) int {
	return len(k.Positions(pattern, text))
}

// MultiSearch runs one prefix-function scan per distinct pattern.
func (k *KMPMatcher) MultiSearch(text string, patterns []string) *Counts {
	return multiSearchEach(text, patterns, func(p string, t []rune) int {
		return len(kmpPositions([]rune(p), t))
	})
}
