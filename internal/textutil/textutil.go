// Package textutil provides the text normalization primitives shared by the
// species and sighting builders: word splitting, title/sentence casing,
// rune-safe length limiting, and fixed-width justification.
package textutil

import (
	"strings"
	"unicode"
)

// Standard field width caps.
const (
	NameLen    = 39
	FamilyLen  = 59
	CommentLen = 120
)

// Align selects the padding side for Justify.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Words splits a line on whitespace, dropping empty fragments.
func Words(line string) []string {
	return strings.Fields(line)
}

// UppercaseFirst upper-cases only the first rune of s.
func UppercaseFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// TitleCase lower-cases every word and upper-cases its first rune, rejoining
// with single spaces. Hyphenated words keep their interior case boundaries
// untouched ("this-will" becomes "This-will").
func TitleCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = UppercaseFirst(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// SentenceCase lower-cases every word and upper-cases only the first rune of
// the first word.
func SentenceCase(s string) string {
	words := Words(strings.ToLower(s))
	if len(words) == 0 {
		return ""
	}
	words[0] = UppercaseFirst(words[0])
	return strings.Join(words, " ")
}

// LimitLength returns s unchanged when it holds at most limit runes, else the
// first limit runes. Truncation is rune-safe; multi-byte characters are never
// split.
func LimitLength(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Justify pads the trimmed phrase with spaces to width on the chosen side.
// A phrase already at or beyond width is returned untouched. For centered
// phrases with an odd surplus the extra space goes in front.
func Justify(phrase string, width int, align Align) string {
	trimmed := strings.TrimSpace(phrase)
	length := len([]rune(trimmed))
	if length >= width {
		return phrase
	}

	spare := width - length
	switch align {
	case AlignRight:
		return strings.Repeat(" ", spare) + trimmed
	case AlignCenter:
		back := spare / 2
		front := spare - back
		return strings.Repeat(" ", front) + trimmed + strings.Repeat(" ", back)
	default:
		return trimmed + strings.Repeat(" ", spare)
	}
}

// Plural appends "s" to word when n is not exactly one.
func Plural(word string, n int) string {
	if n != 1 {
		return word + "s"
	}
	return word
}
