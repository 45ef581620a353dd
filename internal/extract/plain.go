package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns a .txt or .md CV as text. CVs saved in a legacy encoding get
// U+FFFD in place of each invalid byte run, so keyword offsets stay rune-aligned.
func extractPlain(content []byte) (string, error) {
	text := string(content)
	if utf8.ValidString(text) {
		return text, nil
	}
	return strings.ToValidUTF8(text, "\ufffd"), nil
}
