package search

import (
	"reflect"
	"testing"

	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
)

func TestSnippets(t *testing.T) {
	text := "Skills\nGo, SQL and Go again\nPython"
	got := Snippets(matcher.NewKMP(), text, []string{"Go", "Rust", "Python", "Go"}, 5)
	want := []models.Snippet{
		{Keyword: "Go", Offset: 7, Text: "...ills [Go], SQL..."},
		{Keyword: "Python", Offset: 28, Text: "...gain [Python]"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snippets() = %+v\nwant %+v", got, want)
	}
}

func TestSnippets_noMatches(t *testing.T) {
	if got := Snippets(matcher.NewBoyerMoore(), "", []string{"Go"}, 0); len(got) != 0 {
		t.Errorf("expected no snippets, got %+v", got)
	}
}
