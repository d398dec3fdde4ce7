package transformer

import (
	"regexp"
	"strings"
)

// separatorPattern matches alignment rows such as |---|:--:|.
var separatorPattern = regexp.MustCompile(`^\|[\s\-:|]+$`)

// assembleTable builds a table from a run of trimmed pipe-delimited lines.
// Separator rows are dropped, the first remaining row is the header, and short
// rows are padded with empty cells. It reports false when no data row remains.
func assembleTable(lines []string, maxLen int) (Table, bool) {
	var rows [][]string
	width := 0
	for _, line := range lines {
		if separatorPattern.MatchString(line) {
			continue
		}
		cells := splitRow(line)
		width = max(width, len(cells))
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return Table{}, false
	}

	table := Table{
		Width:     width,
		Rows:      make([][][]Fragment, 0, len(rows)),
		HasHeader: true,
	}
	for _, cells := range rows {
		row := make([][]Fragment, width)
		for i := range row {
			var content string
			if i < len(cells) {
				content = cells[i]
			}
			row[i] = cellFragments(content, maxLen)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, true
}

// splitRow strips one leading and one trailing pipe and splits on the rest.
func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	cells := strings.Split(line, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// cellFragments returns the plain fragments of a cell. Unlike Segment, an empty
// cell has no fragments.
func cellFragments(content string, maxLen int) []Fragment {
	if content == "" {
		return []Fragment{}
	}
	return splitFragment(Fragment{Content: content}, maxLen)
}
