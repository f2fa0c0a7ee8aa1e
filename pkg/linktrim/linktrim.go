// Package linktrim turns wiki links into their visible text.
//
// A link keeps its text but loses the link: [[Foo|bar]] becomes bar and
// [[Foo]] becomes Foo, each guarded by nowiki markers so the result is not
// read as markup again. Links to categories, files, media and special pages
// are left alone unless they start with a colon, because removing them would
// change what the page does rather than how it looks.
package linktrim

import (
	"log/slog"
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

// Host is what the walker needs from the engine.
type Host interface {
	NewTitle(text string, ns host.Namespace) (*host.Title, bool)
	FindVariantLink(title *host.Title) *host.Title
	InsertStripItem(text string) string
}

var excluded = map[host.Namespace]bool{
	host.NSCategory: true,
	host.NSFile:     true,
	host.NSMedia:    true,
	host.NSSpecial:  true,
}

// Trim rewrites the links under node in place.
func Trim(h Host, node preprocessor.Node) {
	switch n := node.(type) {
	case *preprocessor.Text:
		if preprocessor.IsLinkOpen(n) {
			trimLink(h, n)
		}
	case *preprocessor.Tree:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			Trim(h, child)
		}
	}
}

// trimLink rewrites the link starting at opener. The body must be the next
// text node and end with the first ]] in it.
func trimLink(h Host, opener *preprocessor.Text) {
	content, ok := opener.NextSibling().(*preprocessor.Text)
	if !ok {
		return
	}
	closeIdx := strings.Index(content.Value, "]]")
	if closeIdx < 0 || closeIdx != len(content.Value)-2 {
		return
	}

	target, display, hasDisplay := strings.Cut(content.Value[:closeIdx], "|")
	titleText := strings.TrimSpace(target)
	leadingColon := strings.HasPrefix(titleText, ":")

	ns := host.NSMain
	title, valid := h.NewTitle(titleText, host.NSMain)
	if valid {
		title = h.FindVariantLink(title)
		ns = title.Namespace
	}

	if leadingColon {
		titleText = titleText[1:]
		// [[:Media:...]] is an ordinary media link.
		if ns == host.NSMedia {
			leadingColon = false
		}
	}

	if !leadingColon && excluded[ns] {
		slog.Debug("keeping link", "target", titleText, "namespace", ns.String())
		return
	}

	content.Value = ""
	if hasDisplay {
		opener.Value = h.InsertStripItem("<nowiki/>") + display + h.InsertStripItem("<nowiki/>")
		return
	}

	text := titleText
	if valid {
		text = title.PrefixedText()
	}
	opener.Value = h.InsertStripItem("<nowiki>" + text + "</nowiki>")
}
