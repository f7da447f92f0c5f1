package section

import (
	"regexp"
	"strings"
)

// bulletGlyph matches a leading list marker: "-", "*", "•", or a numeric
// marker like "1." / "2)".
var bulletGlyph = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// markupHeader matches lines that are themselves headers in the simplified
// markup convention ("## Section" or "**Subheader**"). Such lines are
// never list items.
var markupHeader = regexp.MustCompile(`^\s*(?:#{1,6}\s|\*\*[^*]+\*\*\s*$)`)

// Bullets splits a block into ordered list items. Leading bullet glyphs
// are stripped; blank lines and markup header lines are skipped. A line
// without any glyph is still included verbatim, so prose paragraphs
// degrade to one item per line rather than being dropped.
func Bullets(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if markupHeader.MatchString(trimmed) {
			continue
		}
		item := strings.TrimSpace(bulletGlyph.ReplaceAllString(trimmed, ""))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// nameDescSplit finds the first ":", " - ", or "(" in a line, used by the
// table fallback to derive a name/description pair from prose.
var nameDescSplit = regexp.MustCompile(`\s*(?::|\s-\s|\()\s*`)

// NameDescriptionLines decomposes a block without any pipe-delimited
// structure into (name, description) pairs, splitting each bullet item on
// the first colon, dash, or opening parenthesis. A line with no separator
// becomes a name with an empty description.
func NameDescriptionLines(block string) [][2]string {
	var pairs [][2]string
	for _, item := range Bullets(block) {
		loc := nameDescSplit.FindStringIndex(item)
		if loc == nil {
			pairs = append(pairs, [2]string{item, ""})
			continue
		}
		name := strings.TrimSpace(item[:loc[0]])
		desc := strings.TrimSpace(strings.TrimSuffix(item[loc[1]:], ")"))
		if name == "" {
			name = desc
			desc = ""
		}
		pairs = append(pairs, [2]string{name, desc})
	}
	return pairs
}
