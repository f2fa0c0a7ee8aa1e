// Package strip manages stripped-content markers: opaque tokens that stand in
// for text the renderer has set aside so later markup passes cannot touch it.
package strip

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Marker delimiters. The byte 0x7f never appears in valid wikitext, so a marker
// cannot be produced by user input.
const (
	MarkerPrefix = "\x7f'\"`UNIQ-"
	MarkerSuffix = "-QINU`\"'\x7f"
)

var markerRegex = regexp.MustCompile(regexp.QuoteMeta(MarkerPrefix) + `([0-9a-zA-Z-]+)` + regexp.QuoteMeta(MarkerSuffix))

// Inserter registers text as a stripped item and returns its marker.
type Inserter interface {
	InsertStripItem(text string) string
}

// State holds the stripped items of one render.
type State struct {
	items map[string]string
	next  int
}

// NewState creates an empty strip state.
func NewState() *State {
	return &State{items: make(map[string]string)}
}

// InsertStripItem stores text and returns the marker that replaces it.
func (s *State) InsertStripItem(text string) string {
	key := fmt.Sprintf("item-%08X", s.next)
	s.next++
	s.items[key] = text
	return MarkerPrefix + key + MarkerSuffix
}

// Len reports the number of stored items.
func (s *State) Len() int {
	return len(s.items)
}

// Unstrip replaces every marker in text with its stored content, following
// markers nested inside restored items. Items that refer back to themselves
// are left as markers.
func (s *State) Unstrip(text string) string {
	// Each pass resolves one nesting level, so a chain of items cannot be
	// deeper than the number of items.
	for pass := 0; pass <= len(s.items) && HasMarker(text); pass++ {
		replaced := markerRegex.ReplaceAllStringFunc(text, func(m string) string {
			key := markerRegex.FindStringSubmatch(m)[1]
			if item, ok := s.items[key]; ok {
				return item
			}
			return m
		})
		if replaced == text {
			return text
		}
		text = replaced
	}

	if HasMarker(text) {
		slog.Debug("unstrip stopped on a marker cycle", "items", len(s.items))
	}
	return text
}

// HasMarker reports whether text contains a complete marker.
func HasMarker(text string) bool {
	start := strings.Index(text, MarkerPrefix)
	if start < 0 {
		return false
	}
	return strings.Contains(text[start+len(MarkerPrefix):], MarkerSuffix)
}
