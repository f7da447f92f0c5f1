package section

import (
	"regexp"
	"strings"
)

// separatorRow matches a markdown table separator line such as
// "|---|:---:|---|".
var separatorRow = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)

// Table parses a pipe-delimited table out of a block. The header row is
// the first line containing a pipe delimiter or, when headerHint is
// non-nil, the first line matching it. The header and a following
// separator row are skipped; every remaining pipe-delimited line becomes a
// row of trimmed cells.
//
// When expectCols > 0 each row is normalized to exactly that many cells:
// overflow cells are concatenated into the last expected column and short
// rows are padded with empty strings. ok is false when the block contains
// no pipe-delimited structure at all; callers then fall back to
// NameDescriptionLines.
func Table(block string, expectCols int, headerHint *regexp.Regexp) ([][]string, bool) {
	lines := strings.Split(block, "\n")

	header := -1
	for i, line := range lines {
		if strings.Contains(line, "|") || (headerHint != nil && headerHint.MatchString(line)) {
			header = i
			break
		}
	}
	if header == -1 {
		return nil, false
	}

	var rows [][]string
	for _, line := range lines[header+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") {
			continue
		}
		if separatorRow.MatchString(trimmed) {
			continue
		}
		cells := splitCells(trimmed)
		if len(cells) == 0 {
			continue
		}
		if expectCols > 0 {
			cells = normalizeRow(cells, expectCols)
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// splitCells splits a pipe row into trimmed cells, dropping the empty
// edge cells produced by outer pipes ("| a | b |").
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	var cells []string
	for i, p := range parts {
		cell := strings.TrimSpace(p)
		if cell == "" && (i == 0 || i == len(parts)-1) {
			continue
		}
		cells = append(cells, cell)
	}
	return cells
}

// normalizeRow forces a row to exactly want cells. Extra content is
// concatenated into the last expected column rather than discarded.
func normalizeRow(cells []string, want int) []string {
	if len(cells) > want {
		tail := strings.TrimSpace(strings.Join(cells[want-1:], " "))
		cells = append(cells[:want-1], tail)
	}
	for len(cells) < want {
		cells = append(cells, "")
	}
	return cells
}
