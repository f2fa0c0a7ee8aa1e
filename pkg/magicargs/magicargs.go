// Package magicargs separates magic-word arguments such as if=, seed= or
// debug= from the ordinary values of a function call.
package magicargs

import (
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

// Word identifies a magic word independent of the text used to write it.
type Word string

const (
	Original    Word = "original"
	Recursive   Word = "recursive"
	Top         Word = "top"
	AllowEmpty  Word = "allowempty"
	CleanImages Word = "cleanimages"
	Delimiter   Word = "delimiter"
	Explode     Word = "explode"
	Mode        Word = "mode"
	ProtectRows Word = "protectrows"
	Seed        Word = "seed"
	Separator   Word = "separator"
	If          Word = "if"
	IfNot       Word = "ifnot"
	Debug       Word = "debug"
	Always      Word = "always"
)

// Synonyms for each word, matched without regard to case.
var synonyms = map[Word][]string{
	Original:    {"original"},
	Recursive:   {"recursive"},
	Top:         {"top"},
	AllowEmpty:  {"allowempty"},
	CleanImages: {"cleanimages"},
	Delimiter:   {"delimiter", ":delimiter"},
	Explode:     {"explode", ":explode"},
	Mode:        {"mode"},
	ProtectRows: {"protectrows"},
	Seed:        {"seed"},
	Separator:   {"separator"},
	If:          {"if"},
	IfNot:       {"ifnot"},
	Debug:       {"debug"},
	Always:      {"always"},
}

// Find returns the word that text is written as.
func Find(text string) (Word, bool) {
	text = strings.TrimSpace(text)
	for word, names := range synonyms {
		for _, name := range names {
			if strings.EqualFold(name, text) {
				return word, true
			}
		}
	}
	return "", false
}

// Matches reports whether text is one of the synonyms of word.
func Matches(word Word, text string) bool {
	found, ok := Find(text)
	return ok && found == word
}

// Args holds the expanded values of the magic words found in a call.
type Args map[Word]string

// Has reports whether word was given.
func (a Args) Has(word Word) bool {
	_, ok := a[word]
	return ok
}

// Get returns the value of word, or def when it was not given.
func (a Args) Get(word Word, def string) string {
	if value, ok := a[word]; ok {
		return value
	}
	return def
}

// Bool returns whether word was given a truthy value, or def when it was not
// given at all.
func (a Args) Bool(word Word, def bool) bool {
	value, ok := a[word]
	if !ok {
		return def
	}
	return IsTruthy(value)
}

// IsTruthy follows the usual template convention: empty and "0" are false,
// anything else is true.
func IsTruthy(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && value != "0"
}

// Get splits args into the magic words listed in allowed and the remaining
// values, which are left unexpanded and in order. A named argument is a magic
// word only when its name is one of the allowed words.
func Get(frame host.Frame, args []preprocessor.Node, allowed ...Word) (Args, []preprocessor.Node) {
	magic := make(Args)
	var values []preprocessor.Node
	for _, arg := range args {
		name, value, ok := KeyValue(frame, arg)
		if ok {
			if word, found := Find(name); found && isAllowed(word, allowed) {
				magic[word] = value
				continue
			}
		}
		values = append(values, arg)
	}
	return magic, values
}

// FromAttributes picks the allowed magic words out of tag attributes.
func FromAttributes(attrs map[string]string, allowed ...Word) Args {
	magic := make(Args)
	for name, value := range attrs {
		if word, found := Find(name); found && isAllowed(word, allowed) {
			magic[word] = value
		}
	}
	return magic
}

func isAllowed(word Word, allowed []Word) bool {
	for _, w := range allowed {
		if w == word {
			return true
		}
	}
	return false
}

// KeyValue splits a named argument into its trimmed name and its expanded
// value. ok is false for anonymous arguments. Plain text nodes are split at
// their first '='.
func KeyValue(frame host.Frame, arg preprocessor.Node) (name, value string, ok bool) {
	switch node := arg.(type) {
	case *preprocessor.Tree:
		if node.Name != preprocessor.NamePart {
			return "", "", false
		}
		nameTree := node.Child(preprocessor.NameName)
		valueTree := node.Child(preprocessor.NameValue)
		if nameTree == nil || valueTree == nil || isIndexed(nameTree) {
			return "", "", false
		}
		return strings.TrimSpace(frame.Expand(nameTree, 0)), strings.TrimSpace(frame.Expand(valueTree, 0)), true
	case *preprocessor.Text:
		key, val, found := strings.Cut(frame.Expand(node, 0), "=")
		if !found {
			return "", "", false
		}
		return strings.TrimSpace(key), strings.TrimSpace(val), true
	}
	return "", "", false
}

func isIndexed(name *preprocessor.Tree) bool {
	_, ok := name.FirstChild().(*preprocessor.Attr)
	return ok
}

// CheckIfs applies the if= and ifnot= gates: if= needs a non-empty value,
// ifnot= an empty one. Absent gates pass.
func (a Args) CheckIfs() bool {
	if value, ok := a[If]; ok && strings.TrimSpace(value) == "" {
		return false
	}
	if value, ok := a[IfNot]; ok && strings.TrimSpace(value) != "" {
		return false
	}
	return true
}

// CheckDebug reports whether debug output was asked for. While previewing any
// truthy debug= value counts; otherwise only debug=always does.
func (a Args) CheckDebug(preview bool) bool {
	value, ok := a[Debug]
	if !ok {
		return false
	}
	if Matches(Always, value) {
		return true
	}
	return preview && IsTruthy(value)
}
