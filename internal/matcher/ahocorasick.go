package matcher

import (
	"github.com/bits-and-blooms/bitset"
)

// DefaultAlphabetSize is the number of code points the automaton has transitions for (ASCII).
const DefaultAlphabetSize = 128

const (
	rootState = 0
	noState   = -1
)

// AhoCorasickMatcher counts all patterns in a single pass over the text. The automaton is
// rebuilt on every call; nothing is cached between searches.
//
// Text symbols outside the alphabet reset the automaton to the root. Patterns that are
// empty or contain such symbols are never inserted and always count 0.
type AhoCorasickMatcher struct {
	alphabetSize int
}

// NewAhoCorasick returns an Aho–Corasick matcher over the first alphabetSize code points.
// A non-positive size selects DefaultAlphabetSize.
func NewAhoCorasick(alphabetSize int) *AhoCorasickMatcher {
	if alphabetSize <= 0 {
		alphabetSize = DefaultAlphabetSize
	}
	return &AhoCorasickMatcher{alphabetSize: alphabetSize}
}

// AlphabetSize returns the configured alphabet size.
func (a *AhoCorasickMatcher) AlphabetSize() int {
	return a.alphabetSize
}

// automaton stores states as parallel tables indexed by state id.
type automaton struct {
	alphabet int
	patterns [][]rune
	next     [][]int32        // next[state][symbol], noState when undefined
	fail     []int32          // failure link per state
	out      []*bitset.BitSet // pattern indices recognized at each state
}

func (a *AhoCorasickMatcher) build(patterns []string) *automaton {
	ac := &automaton{
		alphabet: a.alphabetSize,
		patterns: make([][]rune, len(patterns)),
	}
	ac.addState()
	for i, p := range patterns {
		ac.patterns[i] = []rune(p)
		ac.insert(i, ac.patterns[i])
	}
	ac.linkFailures()
	return ac
}

func (ac *automaton) addState() int32 {
	row := make([]int32, ac.alphabet)
	for i := range row {
		row[i] = noState
	}
	ac.next = append(ac.next, row)
	ac.fail = append(ac.fail, noState)
	ac.out = append(ac.out, bitset.New(uint(len(ac.patterns))))
	return int32(len(ac.next) - 1)
}

func (ac *automaton) inAlphabet(r rune) bool {
	return r >= 0 && int(r) < ac.alphabet
}

func (ac *automaton) insert(index int, pattern []rune) {
	if len(pattern) == 0 {
		return
	}
	for _, r := range pattern {
		if !ac.inAlphabet(r) {
			return
		}
	}
	state := int32(rootState)
	for _, r := range pattern {
		if ac.next[state][r] == noState {
			ac.next[state][r] = ac.addState()
		}
		state = ac.next[state][r]
	}
	ac.out[state].Set(uint(index))
}

// linkFailures computes failure links breadth-first and folds each state's failure
// outputs into its own. Missing root transitions loop back to the root.
func (ac *automaton) linkFailures() {
	queue := make([]int32, 0, len(ac.next))
	for sym := 0; sym < ac.alphabet; sym++ {
		child := ac.next[rootState][sym]
		if child == noState {
			ac.next[rootState][sym] = rootState
			continue
		}
		ac.fail[child] = rootState
		queue = append(queue, child)
	}
	for head := 0; head < len(queue); head++ {
		state := queue[head]
		for sym := 0; sym < ac.alphabet; sym++ {
			child := ac.next[state][sym]
			if child == noState {
				continue
			}
			queue = append(queue, child)
			f := ac.fail[state]
			for ac.next[f][sym] == noState {
				f = ac.fail[f]
			}
			ac.fail[child] = ac.next[f][sym]
			ac.out[child].InPlaceUnion(ac.out[ac.fail[child]])
		}
	}
}

// scan walks text and calls hit for every recognized pattern index at every end offset.
func (ac *automaton) scan(text []rune, hit func(pattern, end int)) {
	state := int32(rootState)
	for i, r := range text {
		if !ac.inAlphabet(r) {
			state = rootState
			continue
		}
		for ac.next[state][r] == noState {
			state = ac.fail[state]
		}
		state = ac.next[state][r]
		out := ac.out[state]
		if !out.Any() {
			continue
		}
		for k, ok := out.NextSet(0); ok; k, ok = out.NextSet(k + 1) {
			hit(int(k), i)
		}
	}
}

// StateCount returns the number of automaton states built for patterns.
func (a *AhoCorasickMatcher) StateCount(patterns []string) int {
	return len(a.build(patterns).next)
}

// MultiSearch builds the automaton for patterns and counts every pattern in one pass.
// Duplicate patterns each get their own output bit; the reported count of a pattern
// string is the count recorded for its first index.
func (a *AhoCorasickMatcher) MultiSearch(text string, patterns []string) *Counts {
	result := NewCounts(patterns)
	if text == "" || len(patterns) == 0 {
		return result
	}
	ac := a.build(patterns)
	perIndex := make([]int, len(patterns))
	ac.scan([]rune(text), func(k, _ int) {
		perIndex[k]++
	})
	seen := make(map[string]bool, len(patterns))
	for i, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		result.counts[p] = perIndex[i]
	}
	return result
}

// Positions returns the start offset of every occurrence of pattern.
func (a *AhoCorasickMatcher) Positions(pattern, text string) []int {
	if pattern == "" || text == "" {
		return nil
	}
	ac := a.build([]string{pattern})
	m := len(ac.patterns[0])
	var positions []int
	ac.scan([]rune(text), func(_, end int) {
		positions = append(positions, end-m+1)
	})
	return positions
}

// CountOccurrences returns the number of occurrences of pattern.
func (a *AhoCorasickMatcher) CountOccurrences(pattern, text string) int {
	return len(a.Positions(pattern, text))
}
