package host

import (
	"strings"
)

// Namespace is a wiki namespace number.
type Namespace int

const (
	NSMedia     Namespace = -2
	NSSpecial   Namespace = -1
	NSMain      Namespace = 0
	NSTalk      Namespace = 1
	NSUser      Namespace = 2
	NSProject   Namespace = 4
	NSFile      Namespace = 6
	NSMediaWiki Namespace = 8
	NSTemplate  Namespace = 10
	NSHelp      Namespace = 12
	NSCategory  Namespace = 14
)

var namespaceNames = map[Namespace]string{
	NSMedia:     "Media",
	NSSpecial:   "Special",
	NSMain:      "",
	NSTalk:      "Talk",
	NSUser:      "User",
	NSProject:   "Project",
	NSFile:      "File",
	NSMediaWiki: "MediaWiki",
	NSTemplate:  "Template",
	NSHelp:      "Help",
	NSCategory:  "Category",
}

// Aliases accepted in addition to the canonical names.
var namespaceAliases = map[string]Namespace{
	"image": NSFile,
}

// String returns the canonical prefix of the namespace, "" for the main one.
func (ns Namespace) String() string {
	return namespaceNames[ns]
}

// LookupNamespace finds a namespace by its canonical name or an alias, in any
// case and with underscores or spaces.
func LookupNamespace(name string) (Namespace, bool) {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "_", " ")))
	if key == "" {
		return NSMain, false
	}
	for ns, canonical := range namespaceNames {
		if canonical != "" && strings.ToLower(canonical) == key {
			return ns, true
		}
	}
	ns, ok := namespaceAliases[key]
	return ns, ok
}

// Title is a resolved page name.
type Title struct {
	Namespace Namespace
	// Text is the page name without the namespace prefix, with spaces.
	Text string
	// Fragment is the part after '#', if any.
	Fragment string
	// Interwiki is the lower-cased interwiki prefix for links to other wikis.
	Interwiki string
}

// PrefixedText returns the page name with its namespace prefix.
func (t *Title) PrefixedText() string {
	prefix := ""
	if t.Interwiki != "" {
		prefix = t.Interwiki + ":"
	}
	if name := t.Namespace.String(); name != "" {
		prefix += name + ":"
	}
	return prefix + t.Text
}

// DBKey returns the page name with underscores instead of spaces.
func (t *Title) DBKey() string {
	return strings.ReplaceAll(t.Text, " ", "_")
}

// PrefixedDBKey returns the prefixed page name with underscores.
func (t *Title) PrefixedDBKey() string {
	return strings.ReplaceAll(t.PrefixedText(), " ", "_")
}

// IsExternal reports whether the title points to another wiki.
func (t *Title) IsExternal() bool {
	return t.Interwiki != ""
}
