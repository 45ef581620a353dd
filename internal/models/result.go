package models

import "github.com/hyperjump/resumatch/internal/matcher"

// SearchResult is one document's keyword counts.
type SearchResult struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Keywords *matcher.Counts `json:"keywords"`
	// Fuzzy is true when the counts came from the approximate fallback.
	Fuzzy    bool      `json:"fuzzy,omitempty"`
	Snippets []Snippet `json:"snippets,omitempty"`
}

// Snippet is the text around a keyword's first exact occurrence, keyword in brackets.
type Snippet struct {
	Keyword string `json:"keyword"`
	// Offset is the rune offset of the occurrence in the CV text.
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// SearchResponse is the response for a search request. Results keep corpus order.
type SearchResponse struct {
	RequestID string          `json:"request_id"`
	Algorithm string          `json:"algorithm"`
	Keywords  []string        `json:"keywords"`
	Results   []*SearchResult `json:"results"`
	// Scanned is the number of documents the search visited.
	Scanned int `json:"scanned"`
	// Matched is the number of visited documents with at least one non-zero count.
	Matched int `json:"matched"`
	// FuzzyDocuments is the number of documents that went through the fuzzy fallback.
	FuzzyDocuments int   `json:"fuzzy_documents"`
	ExactTimeUS    int64 `json:"exact_time_us"`
	FuzzyTimeUS    int64 `json:"fuzzy_time_us"`
	QueryTime      int64 `json:"query_time_ms"`
}

// Summary is the structured view of a CV.
type Summary struct {
	ApplicantID int64    `json:"applicant_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Summary     string   `json:"summary"`
	Skills      []string `json:"skills"`
	Experience  []string `json:"experience"`
	Education   []string `json:"education"`
}

// ImportResult reports the outcome of importing a folder of CVs.
type ImportResult struct {
	Imported int `json:"imported"`
	// Skipped counts files already imported earlier.
	Skipped    int     `json:"skipped"`
	Failed     int     `json:"failed"`
	Applicants []int64 `json:"applicant_ids"`
}
