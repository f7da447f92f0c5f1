// Package section provides the low-level text primitives shared by every
// document parser: extracting the span between a start header and the
// nearest following end header, decomposing a block into bullet items, and
// decomposing a block into table cells.
package section

import (
	"regexp"
	"strings"
)

// Extract returns the text strictly between the first match of start and
// the nearest following match among ends, trimmed of surrounding
// whitespace. If start never matches, ok is false. If no end pattern
// matches after the start, the section runs to the end of the text.
//
// The order of ends does not matter: the match closest to the start wins
// regardless of its position in the slice. A captured region that is empty
// (or whitespace only) is reported as absent so that a header with no body
// never produces a field.
func Extract(text string, start *regexp.Regexp, ends []*regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]

	// Nearest end match wins.
	cut := len(rest)
	for _, end := range ends {
		if end == nil {
			continue
		}
		if m := end.FindStringIndex(rest); m != nil && m[0] < cut {
			cut = m[0]
		}
	}

	body := strings.TrimSpace(rest[:cut])
	if body == "" {
		return "", false
	}
	return body, true
}

// ExtractAny tries each start pattern in order and returns the first
// section found.
func ExtractAny(text string, starts []*regexp.Regexp, ends []*regexp.Regexp) (string, bool) {
	for _, start := range starts {
		if body, ok := Extract(text, start, ends); ok {
			return body, ok
		}
	}
	return "", false
}
