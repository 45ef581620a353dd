package e2e

import (
	"archive/zip"
	"bytes"
	"html"
	"strings"
)

// FileExtensions is the rotation of CV formats written by the file-based tests. PDF
// extraction is covered by the extract package; a PDF with extractable text is not generated here.
var FileExtensions = []string{".txt", ".md", ".docx"}

// EncodeCV returns the file bytes of a CV with the given text in the format of ext.
func EncodeCV(ext, text string) []byte {
	if ext == ".docx" {
		return minimalDocx(text)
	}
	return []byte(text)
}

// minimalDocx writes one paragraph per line of text.
func minimalDocx(text string) []byte {
	var body strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		body.WriteString(`<w:p><w:r><w:t>` + html.EscapeString(line) + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}
