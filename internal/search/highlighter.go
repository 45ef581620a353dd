package search

import (
	"strings"

	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
)

// DefaultSnippetRadius is the number of runes kept on each side of a highlighted keyword.
const DefaultSnippetRadius = 40

// Snippets returns one context snippet per keyword at its first exact occurrence,
// in keyword order. Keywords without an exact occurrence are skipped.
func Snippets(pm matcher.PositionMatcher, text string, keywords []string, radius int) []models.Snippet {
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}
	runes := []rune(text)
	var out []models.Snippet
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		pos := pm.Positions(kw, text)
		if len(pos) == 0 {
			continue
		}
		out = append(out, models.Snippet{
			Keyword: kw,
			Offset:  pos[0],
			Text:    window(runes, pos[0], len([]rune(kw)), radius),
		})
	}
	return out
}

// window cuts runes[at-radius : at+n+radius], marking the keyword with brackets
// and collapsing whitespace so multi-line CVs render on one line.
func window(runes []rune, at, n, radius int) string {
	from := max(0, at-radius)
	to := min(len(runes), at+n+radius)
	var b strings.Builder
	if from > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[from:at]))
	b.WriteString("[")
	b.WriteString(string(runes[at : at+n]))
	b.WriteString("]")
	b.WriteString(string(runes[at+n : to]))
	if to < len(runes) {
		b.WriteString("...")
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
