package tableclean

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/Hanaasagi/riven/pkg/strip"
)

var tableTagRegex = regexp.MustCompile(`(?i)</?table\b[^>]*>\s*`)

// Scanner finds balanced <table> regions in text, including nested ones, and
// cleans each of them. Cleaned tables are registered as stripped items so an
// enclosing table, or later markup passes, see only an opaque marker.
type Scanner struct {
	options Options
	strip   strip.Inserter
}

// NewScanner creates a scanner that registers cleaned tables with inserter.
func NewScanner(options Options, inserter strip.Inserter) *Scanner {
	return &Scanner{
		options: options,
		strip:   inserter,
	}
}

// Clean cleans every table in input. Text outside tables passes through
// unchanged, as do stray closing tags and tables that are never closed.
func (s *Scanner) Clean(input string) string {
	var sb strings.Builder
	offset := 0
	for {
		loc := tableTagRegex.FindStringIndex(input[offset:])
		if loc == nil {
			break
		}

		start, end := offset+loc[0], offset+loc[1]
		sb.WriteString(input[offset:start])
		tag := input[start:end]
		offset = end

		if isCloseTag(tag) {
			slog.Debug("stray table close tag", "offset", start)
			sb.WriteString(tag)
			continue
		}

		sb.WriteString(s.parseTable(input, &offset, tag))
	}

	sb.WriteString(input[offset:])
	return sb.String()
}

// parseTable consumes the body of a table whose open tag has just been read,
// up to and including the matching close tag, and returns the stripped marker
// for the cleaned table. Nested tables are handled recursively before their
// parent is cleaned.
func (s *Scanner) parseTable(input string, offset *int, open string) string {
	start := *offset
	var body strings.Builder
	for {
		loc := tableTagRegex.FindStringIndex(input[*offset:])
		if loc == nil {
			// Never closed: give the text back untouched.
			slog.Debug("unclosed table", "offset", start)
			*offset = len(input)
			return open + input[start:]
		}

		tagStart, tagEnd := *offset+loc[0], *offset+loc[1]
		body.WriteString(input[*offset:tagStart])
		tag := input[tagStart:tagEnd]
		*offset = tagEnd

		if !isCloseTag(tag) {
			body.WriteString(s.parseTable(input, offset, tag))
			continue
		}

		cleaned := CleanRows(body.String(), s.options)
		if cleaned == "" {
			slog.Debug("removing table", "offset", start)
			return ""
		}

		return s.strip.InsertStripItem(open + cleaned + "</table>")
	}
}

func isCloseTag(tag string) bool {
	return len(tag) > 1 && tag[1] == '/'
}
