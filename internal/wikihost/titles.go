package wikihost

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Hanaasagi/riven/pkg/host"
)

const invalidTitleChars = "<>[]{}|\x7f"

// NewTitle normalizes text into a title: underscores become spaces, runs of
// spaces collapse, a known namespace or interwiki prefix is split off and the
// first letter of the name is capitalized. A leading colon forces the main
// namespace unless a prefix follows it.
func (s *Site) NewTitle(text string, ns host.Namespace) (*host.Title, bool) {
	text = strings.Join(strings.Fields(strings.ReplaceAll(text, "_", " ")), " ")
	if strings.HasPrefix(text, ":") {
		text = strings.TrimSpace(text[1:])
		ns = host.NSMain
	}

	text, fragment, _ := strings.Cut(text, "#")
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, invalidTitleChars) {
		return nil, false
	}

	title := &host.Title{Namespace: ns, Fragment: fragment}
	if prefix, rest, found := strings.Cut(text, ":"); found {
		prefix = strings.TrimSpace(prefix)
		rest = strings.TrimSpace(rest)
		if prefixNS, ok := host.LookupNamespace(prefix); ok {
			title.Namespace = prefixNS
			text = rest
		} else if s.isInterwiki(prefix) {
			title.Interwiki = strings.ToLower(prefix)
			title.Namespace = host.NSMain
			text = rest
		}
	}
	if text == "" && title.Interwiki == "" {
		return nil, false
	}

	title.Text = ucfirst(text)
	return title, true
}

// ucfirst capitalizes the first letter of s.
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
