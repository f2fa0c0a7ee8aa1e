package tableclean

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	rowRegex  = regexp.MustCompile(`(?is)(<tr\b[^>]*>)(.*?)</tr\s*>`)
	cellRegex = regexp.MustCompile(`(?is)<(t[dh])\b([^>]*)>(.*?)</t[dh]\s*>`)
)

// Table is the row map of a single <table> body. Removed rows are nil.
type Table struct {
	Rows []*Row

	// Markup before the first row, such as <caption>, and the markup that
	// follows each row, such as </thead><tbody>. It is kept when rows go.
	prefix string
	after  []string
}

// BuildMap scans the rows and cells of one table body into a Table, filling
// every slot covered by a rowspan or colspan with a placeholder for its origin.
// Markup the row and cell patterns do not match is left out of the map.
func BuildMap(input string, cleanImages bool) *Table {
	matches := rowRegex.FindAllStringSubmatchIndex(input, -1)
	t := &Table{Rows: make([]*Row, len(matches))}
	if len(matches) == 0 {
		return t
	}

	t.prefix = strings.TrimSpace(input[:matches[0][0]])
	t.after = make([]string, len(matches))
	for i, m := range matches {
		end := len(input)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		t.after[i] = strings.TrimSpace(input[m[1]:end])
	}

	// All rows exist up front so spans can reach forward into them.
	for i, m := range matches {
		t.Rows[i] = NewRow(input[m[2]:m[3]])
	}

	for rowNum, m := range matches {
		t.addRawCells(rowNum, input[m[4]:m[5]], cleanImages)
	}

	return t
}

// addRawCells places the cells of one row body, skipping slots already claimed
// by spans from earlier rows or cells.
func (t *Table) addRawCells(rowNum int, body string, cleanImages bool) {
	row := t.Rows[rowNum]
	col := 0
	for _, m := range cellRegex.FindAllStringSubmatch(body, -1) {
		col = row.nextFree(col)
		cell := NewCell(m[1], m[2], m[3], cleanImages)

		// Spans cannot extend the table.
		if remaining := len(t.Rows) - rowNum; cell.Rowspan > remaining {
			cell.Rowspan = remaining
		}

		row.setCell(col, cell)
		if cell.Rowspan > 1 || cell.Colspan > 1 {
			origin := Position{Row: rowNum, Col: col}
			for r := 0; r < cell.Rowspan; r++ {
				for c := 0; c < cell.Colspan; c++ {
					if r == 0 && c == 0 {
						continue
					}
					t.Rows[rowNum+r].setCell(col+c, newPlaceholder(cell, origin))
				}
			}
		}

		col++
	}
}

// CellAt returns the cell at pos, or nil if the slot is empty or its row is gone.
func (t *Table) CellAt(pos Position) *Cell {
	if pos.Row < 0 || pos.Row >= len(t.Rows) || t.Rows[pos.Row] == nil {
		return nil
	}
	return t.Rows[pos.Row].Cell(pos.Col)
}

// Rowspan returns the effective rowspan at pos, following placeholders to
// their origin.
func (t *Table) Rowspan(pos Position) int {
	cell := t.CellAt(pos)
	if cell == nil {
		return 0
	}
	if origin, ok := cell.Origin(); ok {
		return t.Rowspan(origin)
	}
	return cell.Rowspan
}

// RowCount returns the number of rows still in the table.
func (t *Table) RowCount() int {
	count := 0
	for _, row := range t.Rows {
		if row != nil {
			count++
		}
	}
	return count
}

// removeRow drops a row and shortens every span that reached into it. Each
// origin is shortened once no matter how many of its slots the row held.
func (t *Table) removeRow(rowNum int) {
	row := t.Rows[rowNum]
	if row == nil {
		return
	}

	seen := make(map[Position]bool)
	for _, cell := range row.cells {
		if cell == nil {
			continue
		}
		origin, ok := cell.Origin()
		if !ok || origin.Row == rowNum || seen[origin] {
			continue
		}
		seen[origin] = true
		if parent := t.CellAt(origin); parent != nil {
			parent.decrementRowspan()
		}
	}

	t.Rows[rowNum] = nil
}

// CleanRows walks the table bottom-up and removes rows without content.
//
// Data rows with no content are removed. A header row closes the section below
// it: it is removed when that section had data rows but none with content. The
// first row is also removed as a header when nothing is protected and nothing
// below it had content. Rows above opts.ProtectRows are never touched.
func (t *Table) CleanRows(opts Options) {
	protect := max(opts.ProtectRows, 0)
	sectionHasContent := false
	contentRows := false

	for rowNum := len(t.Rows) - 1; rowNum >= protect; rowNum-- {
		row := t.Rows[rowNum]
		if row == nil {
			continue
		}

		switch row.CleanType {
		case CleanKeep:
			sectionHasContent = true
			contentRows = true
			continue
		case CleanAlways:
			slog.Debug("removing row", "row", rowNum, "reason", "cleantype")
			t.removeRow(rowNum)
			contentRows = true
			continue
		case CleanTableHeader:
			continue
		}

		isHeader := row.IsHeader()
		switch row.CleanType {
		case CleanHeader:
			isHeader = true
		case CleanNormal:
			isHeader = false
		}

		if isHeader {
			if (contentRows || (rowNum == 0 && protect == 0)) && !sectionHasContent {
				slog.Debug("removing row", "row", rowNum, "reason", "empty section")
				t.removeRow(rowNum)
			}
			sectionHasContent = false
			contentRows = false
			continue
		}

		contentRows = true
		if row.HasContent() {
			sectionHasContent = true
		} else {
			slog.Debug("removing row", "row", rowNum, "reason", "no content")
			t.removeRow(rowNum)
		}
	}

	if !t.hasOtherRows() {
		for rowNum := len(t.Rows) - 1; rowNum >= protect; rowNum-- {
			if row := t.Rows[rowNum]; row != nil && row.CleanType == CleanTableHeader {
				slog.Debug("removing row", "row", rowNum, "reason", "table empty")
				t.removeRow(rowNum)
			}
		}
	}
}

// hasOtherRows reports whether any row besides the table headers survived.
// Table headers only go when the rest of the table is gone.
func (t *Table) hasOtherRows() bool {
	for _, row := range t.Rows {
		if row != nil && row.CleanType != CleanTableHeader {
			return true
		}
	}
	return false
}

// ToHTML serializes the surviving rows. A table with no rows left renders as
// the empty string.
func (t *Table) ToHTML() string {
	if t.RowCount() == 0 {
		return ""
	}

	var sb strings.Builder
	if t.prefix != "" {
		sb.WriteString(t.prefix)
		sb.WriteByte('\n')
	}
	for i, row := range t.Rows {
		if row != nil {
			sb.WriteString(row.ToHTML())
		}
		if t.after[i] != "" {
			sb.WriteString(t.after[i])
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// CleanRows builds the map for a table body, cleans it and serializes it back.
func CleanRows(input string, opts Options) string {
	t := BuildMap(input, opts.CleanImages)
	t.CleanRows(opts)
	return t.ToHTML()
}
