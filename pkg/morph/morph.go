// Package morph flags common Russian morphology slips in translated text.
// The only rule so far is the тся/ться reflexive ending check; it is a
// heuristic, so every hit is phrased as "check", not "wrong".
package morph

import (
	"regexp"
	"unicode/utf8"
)

// Issue is one flagged span, in rune offsets.
type Issue struct {
	Start   int
	Length  int
	Message string
}

var reflexive = regexp.MustCompile(`[А-Яа-яёЁ]+(?:тся|ться)`)

// Check scans text and returns flagged spans in order of appearance.
func Check(text string) []Issue {
	var issues []Issue
	for _, loc := range reflexive.FindAllStringIndex(text, -1) {
		if !standalone(text, loc[0], loc[1]) {
			continue
		}
		issues = append(issues, Issue{
			Start:   utf8.RuneCountInString(text[:loc[0]]),
			Length:  utf8.RuneCountInString(text[loc[0]:loc[1]]),
			Message: "Проверьте окончание 'тся/ться'",
		})
	}
	return issues
}

// standalone rejects matches glued to neighboring Cyrillic runes, standing in
// for the word-boundary assertion the regexp engine lacks for this class.
func standalone(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isCyrillic(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isCyrillic(r) {
			return false
		}
	}
	return true
}

func isCyrillic(r rune) bool {
	return (r >= 'А' && r <= 'я') || r == 'ё' || r == 'Ё'
}
