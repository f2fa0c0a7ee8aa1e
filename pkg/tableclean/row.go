package tableclean

import (
	"regexp"
	"strings"
)

var cleanTypeRegex = regexp.MustCompile(`(?i)\bdata-cleantype\s*=\s*["']?(\w+)["']?`)

// Row is one <tr> of a table map. Cells are indexed by column; nil entries are
// gaps that no cell or span reached.
type Row struct {
	OpenTag   string
	CleanType CleanType

	cells []*Cell
}

// NewRow creates an empty row from its verbatim <tr ...> tag.
func NewRow(openTag string) *Row {
	row := &Row{OpenTag: openTag}
	if m := cleanTypeRegex.FindStringSubmatch(openTag); m != nil {
		row.CleanType = ParseCleanType(strings.ToLower(m[1]))
	}
	return row
}

// Cell returns the cell at column col, or nil.
func (r *Row) Cell(col int) *Cell {
	if col < 0 || col >= len(r.cells) {
		return nil
	}
	return r.cells[col]
}

// Cells returns the row's cells in column order, skipping gaps.
func (r *Row) Cells() []*Cell {
	cells := make([]*Cell, 0, len(r.cells))
	for _, cell := range r.cells {
		if cell != nil {
			cells = append(cells, cell)
		}
	}
	return cells
}

// setCell stores cell at column col, growing the row as needed.
func (r *Row) setCell(col int, cell *Cell) {
	for len(r.cells) <= col {
		r.cells = append(r.cells, nil)
	}
	r.cells[col] = cell
}

// nextFree returns the first unoccupied column at or after col.
func (r *Row) nextFree(col int) int {
	for col < len(r.cells) && r.cells[col] != nil {
		col++
	}
	return col
}

// HasContent reports whether any data cell in the row has visible content.
func (r *Row) HasContent() bool {
	for _, cell := range r.cells {
		if cell != nil && cell.HasContent() {
			return true
		}
	}
	return false
}

// IsHeader reports whether the row has cells and all of them are headers.
func (r *Row) IsHeader() bool {
	found := false
	for _, cell := range r.cells {
		if cell == nil {
			continue
		}
		if !cell.IsHeader {
			return false
		}
		found = true
	}
	return found
}

// Width counts the cells that start in this row, so a span counts once.
func (r *Row) Width() int {
	width := 0
	for _, cell := range r.cells {
		if cell != nil && !cell.IsPlaceholder() {
			width++
		}
	}
	return width
}

// ToHTML serializes the row. Placeholder cells produce no output.
func (r *Row) ToHTML() string {
	var sb strings.Builder
	sb.WriteString(r.OpenTag)
	sb.WriteByte('\n')
	for _, cell := range r.cells {
		if cell == nil {
			continue
		}
		if html := cell.ToHTML(); html != "" {
			sb.WriteString(html)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("</tr>\n")
	return sb.String()
}
