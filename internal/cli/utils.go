// Package cli renders search results, summaries, and import reports for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const snippetWidth = 120

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (use text, compact, or json)", s)
}

// WriteSearchResults writes search results to w in the given format.
// Unknown formats fall back to text.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
	default:
		writeSearchResultsText(w, response)
	}
	return nil
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nExact match (%s): %d CVs scanned in %s\n",
		response.Algorithm, response.Scanned, micros(response.ExactTimeUS))
	fmt.Fprintf(w, "Fuzzy match: %d CVs scanned in %s\n", response.FuzzyDocuments, micros(response.FuzzyTimeUS))
	fmt.Fprintf(w, "%d of %d CVs matched, showing %d (%dms total)\n\n",
		response.Matched, response.Scanned, len(response.Results), response.QueryTime)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
}

func writeOneResult(w io.Writer, n int, result *models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "#%d %s (applicant %d)", n, result.Name, result.ID)
	if result.Fuzzy {
		fmt.Fprint(w, " [fuzzy]")
	}
	fmt.Fprintln(w)
	matched := 0
	if result.Keywords != nil {
		result.Keywords.Each(func(_ string, count int) {
			if count > 0 {
				matched++
			}
		})
	}
	fmt.Fprintf(w, "Matched keywords: %d\n", matched)
	if result.Keywords != nil {
		i := 0
		result.Keywords.Each(func(kw string, count int) {
			i++
			fmt.Fprintf(w, "  %d. %s: %s\n", i, kw, occurrences(count))
		})
	}
	for _, sn := range result.Snippets {
		fmt.Fprintf(w, "  > %s\n", utils.Truncate(sn.Text, snippetWidth))
	}
	fmt.Fprintln(w)
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		var parts []string
		if result.Keywords != nil {
			result.Keywords.Each(func(kw string, count int) {
				parts = append(parts, fmt.Sprintf("%s=%d", kw, count))
			})
		}
		flag := ""
		if result.Fuzzy {
			flag = "\tfuzzy"
		}
		fmt.Fprintf(w, "%d\t%s\t%s%s\n", result.ID, result.Name, strings.Join(parts, " "), flag)
	}
}

// compactSummaryWords bounds the summary column of compact output.
const compactSummaryWords = 12

// WriteSummary writes an applicant summary to w in the given format.
func WriteSummary(w io.Writer, s *models.Summary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	if format == OutputCompact {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ApplicantID, s.Name, s.Email, strings.Join(s.Skills, ", "),
			utils.TruncateWords(strings.Join(strings.Fields(s.Summary), " "), compactSummaryWords))
		return nil
	}
	fmt.Fprintf(w, "%s (applicant %d)\n", s.Name, s.ApplicantID)
	for _, field := range [][2]string{{"Email", s.Email}, {"Phone", s.Phone}, {"Address", s.Address}} {
		if field[1] != "" {
			fmt.Fprintf(w, "%-8s %s\n", field[0]+":", field[1])
		}
	}
	fmt.Fprintf(w, "\nSummary\n  %s\n", strings.ReplaceAll(s.Summary, "\n", "\n  "))
	writeList(w, "Skills", s.Skills)
	writeList(w, "Experience", s.Experience)
	writeList(w, "Education", s.Education)
	return nil
}

func writeList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

// WriteImportResult writes a folder import report to w in the given format.
func WriteImportResult(w io.Writer, dir string, r *models.ImportResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "%s: %d imported, %d already present, %d failed\n", dir, r.Imported, r.Skipped, r.Failed)
	return nil
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func occurrences(n int) string {
	if n == 1 {
		return "1 occurrence"
	}
	return fmt.Sprintf("%d occurrences", n)
}

func micros(us int64) string {
	if us < 1000 {
		return fmt.Sprintf("%dµs", us)
	}
	return fmt.Sprintf("%.2fms", float64(us)/1000)
}
