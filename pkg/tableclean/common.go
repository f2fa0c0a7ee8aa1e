// Package tableclean removes rows without content from rendered HTML tables.
//
// A table is scanned into a map of rows and cells in which every grid position
// covered by a rowspan or colspan holds a placeholder pointing back at the cell
// that opened the span. Rows are then judged bottom-up: data rows without
// content are dropped, and header rows are dropped when the section they head
// ended up empty. Spans shrink with the rows they lose.
//
// Example usage:
//
//	s := tableclean.NewScanner(tableclean.DefaultOptions(), stripState)
//	out := s.Clean(html)
package tableclean

// DefaultProtectRows is the number of leading rows never considered for removal.
const DefaultProtectRows = 1

// Options controls row cleaning.
type Options struct {
	// ProtectRows rows at the top of each table are always kept.
	ProtectRows int
	// CleanImages makes cells holding nothing but images count as empty.
	CleanImages bool
}

// DefaultOptions returns the options used by the cleantable tag when no
// arguments are given.
func DefaultOptions() Options {
	return Options{
		ProtectRows: DefaultProtectRows,
		CleanImages: true,
	}
}

// CleanType is the per-row cleaning strategy read from a data-cleantype
// attribute on the row's <tr> tag.
type CleanType int

const (
	CleanAuto        CleanType = iota // Automatic rules
	CleanNormal                       // Treat as a data row even if every cell is a header
	CleanHeader                       // Treat as a header row
	CleanKeep                         // Never remove
	CleanAlways                       // Always remove
	CleanTableHeader                  // Keep unless the rest of the table is removed
)

// ParseCleanType maps an attribute value to a CleanType. Unknown values are
// treated as CleanAuto.
func ParseCleanType(s string) CleanType {
	switch s {
	case "normal":
		return CleanNormal
	case "header":
		return CleanHeader
	case "keep":
		return CleanKeep
	case "clean":
		return CleanAlways
	case "tableheader":
		return CleanTableHeader
	default:
		return CleanAuto
	}
}

// String returns the attribute spelling of a CleanType.
func (c CleanType) String() string {
	switch c {
	case CleanNormal:
		return "normal"
	case CleanHeader:
		return "header"
	case CleanKeep:
		return "keep"
	case CleanAlways:
		return "clean"
	case CleanTableHeader:
		return "tableheader"
	default:
		return "auto"
	}
}
