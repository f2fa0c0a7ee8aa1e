package tableclean

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Hanaasagi/riven/pkg/strip"
	"golang.org/x/net/html"
)

var (
	colspanRegex = regexp.MustCompile(`(?i)\bcolspan\s*=\s*["']?(\d+)["']?`)
	rowspanRegex = regexp.MustCompile(`(?i)\browspan\s*=\s*["']?(\d+)["']?`)
	// rowspanAttrRegex also takes the whitespace in front so removal leaves no gap.
	rowspanAttrRegex = regexp.MustCompile(`(?i)\s*\browspan\s*=\s*["']?\d+["']?`)

	// Unfilled template parameters such as {{{1}}} left behind by expansion.
	paramRegex = regexp.MustCompile(`\{\{\{[^}]*\}\}\}`)
	imageRegex = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	// RE2 has no backreferences, so tag names are compared in removeEmptyPairs.
	pairRegex = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)\b[^>]*>\s*</([a-z][a-z0-9]*)\s*>`)
)

// trimChars excludes non-breaking spaces: an &nbsp; cell is deliberately filled.
const trimChars = " \t\n\r\x00\x0b"

// Position addresses a grid slot in a Table.
type Position struct {
	Row int
	Col int
}

// Cell is one logical table cell. A placeholder cell fills a grid slot covered
// by another cell's span and refers to that origin by position.
type Cell struct {
	Attribs  string
	Content  string
	IsHeader bool
	Colspan  int
	Rowspan  int

	origin          *Position
	trimmed         string
	rowspanModified bool
}

// NewCell creates an origin cell from the parts of a matched <td> or <th>.
func NewCell(name, attribs, content string, cleanImages bool) *Cell {
	attribs = strings.TrimSpace(attribs)
	cell := &Cell{
		Attribs:  attribs,
		Content:  content,
		IsHeader: strings.EqualFold(name, "th"),
		Colspan:  parseSpan(colspanRegex, attribs),
		Rowspan:  parseSpan(rowspanRegex, attribs),
	}
	cell.trimmed = trimContent(content, cleanImages)
	return cell
}

// newPlaceholder creates a zero-size cell standing in for origin at pos.
func newPlaceholder(origin *Cell, pos Position) *Cell {
	return &Cell{
		Attribs:  origin.Attribs,
		IsHeader: origin.IsHeader,
		origin:   &pos,
	}
}

// parseSpan reads a span attribute, defaulting to 1 when absent or invalid.
func parseSpan(re *regexp.Regexp, attribs string) int {
	m := re.FindStringSubmatch(attribs)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// trimContent reduces cell content to what a reader would actually see.
func trimContent(content string, cleanImages bool) string {
	text := html.UnescapeString(content)
	text = paramRegex.ReplaceAllString(text, "")
	if cleanImages {
		text = imageRegex.ReplaceAllString(text, "")
		text = removeEmptyPairs(text)
	}

	return strings.Trim(text, trimChars)
}

// removeEmptyPairs collapses <x ...></x> pairs until none remain, since
// removing an inner pair can leave its wrapper empty.
func removeEmptyPairs(text string) string {
	for {
		changed := false
		text = pairRegex.ReplaceAllStringFunc(text, func(m string) string {
			sub := pairRegex.FindStringSubmatch(m)
			if !strings.EqualFold(sub[1], sub[2]) {
				return m
			}
			changed = true
			return ""
		})
		if !changed {
			return text
		}
	}
}

// IsPlaceholder reports whether the cell stands in for another cell's span.
func (c *Cell) IsPlaceholder() bool {
	return c.origin != nil
}

// Origin returns the position of the span origin for placeholder cells.
func (c *Cell) Origin() (Position, bool) {
	if c.origin == nil {
		return Position{}, false
	}
	return *c.origin, true
}

// TrimmedContent returns the content with parameters, images and empty
// wrappers removed.
func (c *Cell) TrimmedContent() string {
	return c.trimmed
}

// HasContent reports whether the cell makes its row worth keeping. Header
// cells never do.
func (c *Cell) HasContent() bool {
	if c.IsHeader || c.origin != nil {
		return false
	}
	return c.trimmed != "" || strip.HasMarker(c.Content)
}

// decrementRowspan shortens an origin cell's rowspan by one row.
func (c *Cell) decrementRowspan() {
	if c.Rowspan > 1 {
		c.Rowspan--
		c.rowspanModified = true
	}
}

// ToHTML serializes the cell. Placeholders render as the empty string.
func (c *Cell) ToHTML() string {
	if c.origin != nil {
		return ""
	}

	c.updateRowspan()
	name := "td"
	if c.IsHeader {
		name = "th"
	}

	attribs := ""
	if c.Attribs != "" {
		attribs = " " + c.Attribs
	}

	return "<" + name + attribs + ">" + c.Content + "</" + name + ">"
}

// updateRowspan rewrites the rowspan attribute after decrements.
func (c *Cell) updateRowspan() {
	if !c.rowspanModified {
		return
	}

	if c.Rowspan > 1 {
		c.Attribs = rowspanRegex.ReplaceAllLiteralString(c.Attribs, "rowspan="+strconv.Itoa(c.Rowspan))
	} else {
		c.Attribs = strings.TrimSpace(rowspanAttrRegex.ReplaceAllLiteralString(c.Attribs, ""))
	}
	c.rowspanModified = false
}
