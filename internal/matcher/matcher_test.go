package matcher

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// randomString draws n symbols from alphabet. Small alphabets produce many overlaps.
func randomString(rng *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.IntN(len(alphabet))])
	}
	return b.String()
}

func TestExactMatchersAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	kmp, bm, ac := NewKMP(), NewBoyerMoore(), NewAhoCorasick(DefaultAlphabetSize)
	for i := 0; i < 500; i++ {
		text := randomString(rng, "abc", rng.IntN(40))
		pattern := randomString(rng, "abc", rng.IntN(5))

		kp := kmp.Positions(pattern, text)
		bp := bm.Positions(pattern, text)
		if !reflect.DeepEqual(kp, bp) {
			t.Fatalf("positions differ for (%q, %q): kmp=%v bm=%v", pattern, text, kp, bp)
		}
		if ap := ac.Positions(pattern, text); !reflect.DeepEqual(kp, ap) {
			t.Fatalf("positions differ for (%q, %q): kmp=%v aho-corasick=%v", pattern, text, kp, ap)
		}
		if n := kmp.CountOccurrences(pattern, text); n != len(kp) {
			t.Fatalf("kmp count %d != len(positions) %d", n, len(kp))
		}
		if n := bm.CountOccurrences(pattern, text); n != len(bp) {
			t.Fatalf("bm count %d != len(positions) %d", n, len(bp))
		}
		single := ac.MultiSearch(text, []string{pattern})
		if got, _ := single.Get(pattern); got != len(kp) {
			t.Fatalf("aho-corasick([%q]) on %q = %d, kmp = %d", pattern, text, got, len(kp))
		}
	}
}

func TestMultiSearchAgreesAcrossExactAlgorithms(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	matchers := map[Algorithm]Matcher{
		KMP:         NewKMP(),
		BoyerMoore:  NewBoyerMoore(),
		AhoCorasick: NewAhoCorasick(DefaultAlphabetSize),
	}
	for i := 0; i < 200; i++ {
		text := randomString(rng, "ab ", rng.IntN(60))
		patterns := make([]string, rng.IntN(6))
		for j := range patterns {
			patterns[j] = randomString(rng, "ab", 1+rng.IntN(3))
		}
		want := matchers[KMP].MultiSearch(text, patterns)
		for alg, m := range matchers {
			if got := m.MultiSearch(text, patterns); !got.Equal(want) {
				t.Fatalf("%s MultiSearch(%q, %q) = %s, kmp = %s", alg, text, patterns, got, want)
			}
		}
	}
}

// TestAhoCorasickMatchesReferenceImplementation compares overlapping counts with an
// independent automaton implementation.
func TestAhoCorasickMatchesReferenceImplementation(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	ac := NewAhoCorasick(DefaultAlphabetSize)
	for i := 0; i < 200; i++ {
		text := randomString(rng, "abcd", 1+rng.IntN(80))
		seen := map[string]bool{}
		var patterns []string
		n := 1 + rng.IntN(5)
		for len(patterns) < n {
			p := randomString(rng, "abcd", 1+rng.IntN(4))
			if !seen[p] {
				seen[p] = true
				patterns = append(patterns, p)
			}
		}

		builder := aho.NewAhoCorasickBuilder(aho.Opts{DFA: true})
		ref := builder.Build(patterns)
		want := make([]int, len(patterns))
		iter := ref.IterOverlappingByte([]byte(text))
		for next := iter.Next(); next != nil; next = iter.Next() {
			want[next.Pattern()]++
		}

		got := ac.MultiSearch(text, patterns)
		for j, p := range patterns {
			if n, _ := got.Get(p); n != want[j] {
				t.Fatalf("pattern %q in %q: got %d, reference %d", p, text, n, want[j])
			}
		}
	}
}

func TestOverlapCountingAllExactMatchers(t *testing.T) {
	for _, alg := range ExactAlgorithms() {
		m, err := New(alg)
		if err != nil {
			t.Fatal(err)
		}
		pm, ok := m.(PositionMatcher)
		if !ok {
			t.Fatalf("%s does not report positions", alg)
		}
		if n := pm.CountOccurrences("aa", "aaaa"); n != 3 {
			t.Errorf("%s: CountOccurrences(aa, aaaa) = %d, want 3", alg, n)
		}
		if got := pm.Positions("aa", "aaaa"); !reflect.DeepEqual(got, []int{0, 1, 2}) {
			t.Errorf("%s: Positions(aa, aaaa) = %v, want [0 1 2]", alg, got)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"kmp", KMP, false},
		{"KMP", KMP, false},
		{"bm", BoyerMoore, false},
		{"boyer-moore", BoyerMoore, false},
		{" Aho-Corasick ", AhoCorasick, false},
		{"ac", AhoCorasick, false},
		{"levenshtein", Levenshtein, false},
		{"fuzzy", Levenshtein, false},
		{"regex", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("ParseAlgorithm(%q) error %v is not ErrUnknownAlgorithm", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, alg := range Algorithms() {
		m, err := New(alg, WithAlphabetSize(256), WithThreshold(0.9))
		if err != nil {
			t.Fatalf("New(%s): %v", alg, err)
		}
		if m == nil {
			t.Fatalf("New(%s) returned nil", alg)
		}
	}
	m, _ := New(AhoCorasick, WithAlphabetSize(256))
	if got := m.(*AhoCorasickMatcher).AlphabetSize(); got != 256 {
		t.Errorf("alphabet size = %d, want 256", got)
	}
	m, _ = New(Levenshtein, WithThreshold(0.9))
	if got := m.(*LevenshteinMatcher).Threshold(); got != 0.9 {
		t.Errorf("threshold = %v, want 0.9", got)
	}
	if _, err := New("nope"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New(nope) error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestAlgorithm_IsExact(t *testing.T) {
	for _, alg := range ExactAlgorithms() {
		if !alg.IsExact() {
			t.Errorf("%s should be exact", alg)
		}
	}
	if Levenshtein.IsExact() {
		t.Error("levenshtein should not be exact")
	}
}

func BenchmarkMultiSearch(b *testing.B) {
	text := strings.Repeat("Experienced software engineer with Python, Go and SQL. ", 200)
	keywords := []string{"Python", "Go", "SQL", "Kubernetes", "engineer", "React"}
	for _, alg := range Algorithms() {
		m, _ := New(alg)
		b.Run(string(alg), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m.MultiSearch(text, keywords)
			}
		})
	}
}
