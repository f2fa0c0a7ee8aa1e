// Package spacetrim removes the whitespace that template authors leave between
// markup constructs for readability.
//
// Two strategies are available. Original is a single regular expression over
// the raw text. Trim walks a preprocessor tree and only touches whitespace at
// the edges of text nodes that border a template, an extension tag, a comment,
// a link or an HTML tag.
package spacetrim

import (
	"regexp"
	"strings"

	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

// Mode selects a trimming strategy.
type Mode int

const (
	ModeOriginal Mode = iota
	ModeTop
	ModeRecursive
)

func (m Mode) String() string {
	switch m {
	case ModeTop:
		return "top"
	case ModeRecursive:
		return "recursive"
	default:
		return "original"
	}
}

const whitespace = " \t\n\r\x00\x0b"

var (
	originalRegex = regexp.MustCompile(`([\]}>])\s+([<{\[])`)
	tagSpaceRegex = regexp.MustCompile(`\s*(</?[0-9A-Za-z]+[^>]*>)\s*`)
)

// Original removes whitespace sitting between a closing ], } or > and an
// opening <, { or [.
func Original(text string) string {
	return originalRegex.ReplaceAllString(text, "$1$2")
}

// Trim trims the text nodes of the sibling chain starting at first. With
// recurse set, nested trees are trimmed the same way, except for extension
// tags and comments.
//
// A link body is its own text node ending in ]], so the whitespace after a
// link is handled by the rules for the node that follows it.
func Trim(first preprocessor.Node, recurse bool) {
	var prev preprocessor.Node
	for node := first; node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *preprocessor.Text:
			n.Value = trimText(n.Value, prev, n.NextSibling())
		case *preprocessor.Tree:
			if recurse && descend(n) {
				Trim(n.FirstChild(), true)
			}
		}
		prev = node
	}
}

func trimText(value string, prev, next preprocessor.Node) string {
	value = tagSpaceRegex.ReplaceAllString(value, "$1")

	if prev == nil || isTrimmable(prev) {
		value = strings.TrimLeft(value, whitespace)
	}
	if next == nil || isTrimmable(next) || preprocessor.IsLinkOpen(next) {
		value = strings.TrimRight(value, whitespace)
	}

	return value
}

// isTrimmable reports whether whitespace next to n is layout rather than
// content.
func isTrimmable(n preprocessor.Node) bool {
	return preprocessor.IsTree(n,
		preprocessor.NameTemplate,
		preprocessor.NameTplArg,
		preprocessor.NameExt,
		preprocessor.NameComment,
	)
}

// descend reports whether the children of n are wiki text. Extension tags and
// comments hold raw text that must survive unchanged.
func descend(n *preprocessor.Tree) bool {
	return !preprocessor.IsTree(n,
		preprocessor.NameExt,
		preprocessor.NameComment,
		preprocessor.NameIgnore,
	)
}
