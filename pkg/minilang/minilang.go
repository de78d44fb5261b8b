// Package minilang tokenizes the '#'-delimited key=value / bare-flag-letter
// argument grammar shared by species add/edit, sighting add/edit, and search.
// The tokenizer only classifies segments; each consumer applies its own
// key-to-field and flag-to-field tables.
package minilang

import (
	"fmt"
	"strings"
	"unicode"
)

// SegmentKind distinguishes the two segment shapes.
type SegmentKind int

const (
	// Bare segments carry no '='; they hold single-letter flags and, in the
	// add/edit grammars, an optional shortcut digit.
	Bare SegmentKind = iota
	// Keyed segments have the key=value shape.
	Keyed
)

// Segment is one '#'-delimited term of an argument string.
type Segment struct {
	Kind    SegmentKind
	Key     byte   // lower-cased first key character, Keyed segments only
	KeyText string // full lower-cased key, Keyed segments only
	Value   string // trimmed value, Keyed segments only
	Raw     string // original segment text, Bare segments only
}

// Parse strips all double quotes from the argument, splits it on '#', and
// classifies each segment. A segment containing more than one '=' is a
// malformed term and fails the whole parse; no partial application.
func Parse(arg string) ([]Segment, error) {
	cleaned := strings.ReplaceAll(arg, `"`, "")
	parts := strings.Split(cleaned, "#")

	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		pieces := strings.Split(part, "=")
		switch len(pieces) {
		case 1:
			segments = append(segments, Segment{Kind: Bare, Raw: part})
		case 2:
			key := strings.ToLower(strings.TrimSpace(pieces[0]))
			if key == "" {
				return nil, fmt.Errorf("malformed term %q: missing key", part)
			}
			segments = append(segments, Segment{
				Kind:    Keyed,
				Key:     key[0],
				KeyText: key,
				Value:   strings.TrimSpace(pieces[1]),
			})
		default:
			return nil, fmt.Errorf("malformed term %q: more than one '='", part)
		}
	}
	return segments, nil
}

// Letters returns the alphabetic characters of a bare segment, upper-cased,
// in order of appearance.
func (s Segment) Letters() string {
	var b strings.Builder
	for _, r := range s.Raw {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Digits returns the decimal digit characters of a bare segment, in order of
// appearance.
func (s Segment) Digits() string {
	var b strings.Builder
	for _, r := range s.Raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Value returns the value of the first keyed segment whose key matches.
// The second result reports whether the key was present at all.
func Value(segments []Segment, key byte) (string, bool) {
	for _, s := range segments {
		if s.Kind == Keyed && s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

// BareSegments returns the bare segments that hold any content after
// discarding whitespace, preserving order.
func BareSegments(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Kind == Bare && strings.TrimSpace(s.Raw) != "" {
			out = append(out, s)
		}
	}
	return out
}
