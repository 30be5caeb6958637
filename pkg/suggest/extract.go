package suggest

import (
	"strings"
	"unicode"
)

// DefaultWindow is the per-side context bound in runes when the config gives none.
const DefaultWindow = 120

// Extractor computes the CursorContext for a rune offset in a text. It is a
// pure function of its inputs: no state, deterministic.
type Extractor struct {
	window     int
	connectors map[rune]bool
}

// NewExtractor builds an Extractor with a per-side window bound in runes and
// a set of connector runes that count as word characters only between two
// word characters (internal hyphen, apostrophe).
func NewExtractor(window int, connectors string) *Extractor {
	if window <= 0 {
		window = DefaultWindow
	}
	set := make(map[rune]bool, len(connectors))
	for _, r := range connectors {
		set[r] = true
	}
	return &Extractor{window: window, connectors: set}
}

// Extract returns the word under offset plus its bounded left/right context.
// The boolean is false when the text is empty or the offset neither touches a
// word rune at offset nor ends a word at offset-1.
func (e *Extractor) Extract(fullText string, offset int) (CursorContext, bool) {
	runes := []rune(fullText)
	if len(runes) == 0 || offset < 0 || offset > len(runes) {
		return CursorContext{}, false
	}

	// An offset just past the last rune of a word still counts as on-word.
	pos := offset
	if pos == len(runes) || !e.isWordRune(runes, pos) {
		if pos == 0 || !e.isWordRune(runes, pos-1) {
			return CursorContext{}, false
		}
		pos--
	}

	start := pos
	for start > 0 && e.isWordRune(runes, start-1) {
		start--
	}
	end := pos + 1
	for end < len(runes) && e.isWordRune(runes, end) {
		end++
	}

	// Connectors are word runes only with core runes on both sides, so a
	// trailing "don't-" style run never leaks into the word.
	for start < end && e.connectors[runes[start]] {
		start++
	}
	for end > start && e.connectors[runes[end-1]] {
		end--
	}
	if start >= end {
		return CursorContext{}, false
	}

	return CursorContext{
		Word:  string(runes[start:end]),
		Left:  e.leftWindow(runes, start),
		Right: e.rightWindow(runes, end),
		Pos:   start,
	}, true
}

// isWordRune reports whether runes[i] belongs to a word. A connector rune
// qualifies only when flanked by letter/digit runes.
func (e *Extractor) isWordRune(runes []rune, i int) bool {
	r := runes[i]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	if !e.connectors[r] {
		return false
	}
	if i == 0 || i == len(runes)-1 {
		return false
	}
	return isCoreRune(runes[i-1]) && isCoreRune(runes[i+1])
}

func isCoreRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// leftWindow walks backwards from the word start, truncating at the window
// bound and never crossing a paragraph break.
func (e *Extractor) leftWindow(runes []rune, start int) string {
	lo := start
	for lo > 0 && start-lo < e.window && runes[lo-1] != '\n' {
		lo--
	}
	return strings.TrimSpace(string(runes[lo:start]))
}

func (e *Extractor) rightWindow(runes []rune, end int) string {
	hi := end
	for hi < len(runes) && hi-end < e.window && runes[hi] != '\n' {
		hi++
	}
	return strings.TrimSpace(string(runes[end:hi]))
}
