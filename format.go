package img2braille

import (
	"strings"
	"unicode/utf8"
)

// Format joins rows of cells with line breaks, trims surrounding
// whitespace and returns the text with its length in characters.
//
// The blank pattern U+2800 is not whitespace, so rows of blank cells
// survive the trim.
func Format(cells [][]rune) (string, int) {
	var sb strings.Builder
	if len(cells) > 0 {
		sb.Grow(len(cells) * (len(cells[0])*utf8.UTFMax + 1))
	}
	for i, row := range cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, ch := range row {
			sb.WriteRune(ch)
		}
	}
	text := strings.TrimSpace(sb.String())
	return text, utf8.RuneCountInString(text)
}
