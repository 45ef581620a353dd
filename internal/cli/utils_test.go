package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/hyperjump/resumatch/internal/matcher"
	"github.com/hyperjump/resumatch/internal/models"
)

func counts(kv ...interface{}) *matcher.Counts {
	c := matcher.NewCounts(nil)
	for i := 0; i < len(kv); i += 2 {
		c.Set(kv[i].(string), kv[i+1].(int))
	}
	return c
}

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		RequestID:      "req-1",
		Algorithm:      "kmp",
		Keywords:       []string{"Python", "SQL"},
		Scanned:        3,
		Matched:        2,
		FuzzyDocuments: 1,
		ExactTimeUS:    420,
		FuzzyTimeUS:    2500,
		QueryTime:      3,
		Results: []*models.SearchResult{
			{ID: 1, Name: "Ada Lovelace", Keywords: counts("Python", 2, "SQL", 1),
				Snippets: []models.Snippet{{Keyword: "Python", Offset: 4, Text: "... [Python] and SQL"}}},
			{ID: 2, Name: "Alan Turing", Keywords: counts("Python", 1, "SQL", 0), Fuzzy: true},
		},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"Python": 2`) || strings.Index(out, `"Python"`) > strings.Index(out, `"SQL": 1`) {
		t.Errorf("keyword counts should keep query order:\n%s", out)
	}
	var decoded models.SearchResponse
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if decoded.RequestID != "req-1" || len(decoded.Results) != 2 || decoded.Results[1].Name != "Alan Turing" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"Exact match (kmp): 3 CVs scanned in 420µs",
		"Fuzzy match: 1 CVs scanned in 2.50ms",
		"2 of 3 CVs matched, showing 2",
		"#1 Ada Lovelace (applicant 1)",
		"Matched keywords: 2",
		"1. Python: 2 occurrences",
		"2. SQL: 1 occurrence",
		"> ... [Python] and SQL",
		"#2 Alan Turing (applicant 2) [fuzzy]",
		"Matched keywords: 1",
		"2. SQL: 0 occurrences",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "1\tAda Lovelace\tPython=2 SQL=1\n2\tAlan Turing\tPython=1 SQL=0\tfuzzy\n"
	if buf.String() != want {
		t.Errorf("compact output = %q, want %q", buf.String(), want)
	}
}

func TestWriteSearchResults_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &models.SearchResponse{Algorithm: "bm"}, OutputFormat("unknown")); err != nil {
		t.Fatalf("WriteSearchResults(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Exact match (bm)") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	s := &models.Summary{
		ApplicantID: 7,
		Name:        "Grace Hopper",
		Email:       "hopper.grace@example.com",
		Summary:     "Rear admiral.\nCompiler pioneer.",
		Skills:      []string{"COBOL", "FLOW-MATIC"},
		Experience:  []string{"Programmer June 1944 to Current Navy"},
		Education:   []string{"Yale University"},
	}
	var buf bytes.Buffer
	if err := WriteSummary(&buf, s, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{
		"Grace Hopper (applicant 7)",
		"Email:   hopper.grace@example.com",
		"  Rear admiral.\n  Compiler pioneer.",
		"Skills\n  - COBOL\n  - FLOW-MATIC",
		"  - Programmer June 1944 to Current Navy",
		"Education\n  - Yale University",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("summary output missing %q:\n%s", sub, out)
		}
	}
	if strings.Contains(out, "Phone:") {
		t.Error("empty phone should be omitted")
	}

	buf.Reset()
	_ = WriteSummary(&buf, s, OutputCompact)
	if buf.String() != "7\tGrace Hopper\thopper.grace@example.com\tCOBOL, FLOW-MATIC\tRear admiral. Compiler pioneer.\n" {
		t.Errorf("compact summary = %q", buf.String())
	}

	buf.Reset()
	_ = WriteSummary(&buf, s, OutputJSON)
	var decoded models.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded.Name != s.Name {
		t.Errorf("json summary: %v %+v", err, decoded)
	}
}

func TestWriteImportResult(t *testing.T) {
	r := &models.ImportResult{Imported: 3, Skipped: 1, Failed: 0, Applicants: []int64{4, 5, 6}}
	var buf bytes.Buffer
	_ = WriteImportResult(&buf, "/cvs", r, OutputText)
	if buf.String() != "/cvs: 3 imported, 1 already present, 0 failed\n" {
		t.Errorf("text = %q", buf.String())
	}
	buf.Reset()
	_ = WriteImportResult(&buf, "/cvs", r, OutputJSON)
	if !strings.Contains(buf.String(), `"applicant_ids"`) {
		t.Errorf("json = %s", buf.String())
	}
}

func TestPrintSearchResults(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
		_ = w.Close()
	}()
	PrintSearchResults(&models.SearchResponse{Algorithm: "kmp"})
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	if !strings.Contains(buf.String(), "0 CVs scanned") {
		t.Errorf("PrintSearchResults should write to stdout; got %q", buf.String())
	}
}
