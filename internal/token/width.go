package token

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// DisplayWidth returns the number of terminal columns a single-line string
// occupies. Text is NFC-normalized first so decomposed accents measure the
// same as their precomposed forms.
func DisplayWidth(s string) int {
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return runewidth.StringWidth(s)
}

// measure returns the display width of the first and last physical lines of
// text, plus the number of physical lines.
func measure(text string) (first, tail, lines int) {
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		w := DisplayWidth(text)
		return w, w, 1
	}
	first = DisplayWidth(text[:nl])
	lines = 1 + strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	tail = DisplayWidth(last)
	return first, tail, lines
}
