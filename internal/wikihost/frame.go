package wikihost

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

var attrRegex = regexp.MustCompile(`([\w:-]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+)))?`)

// Frame is the expansion context of the page or of one template call. It
// implements host.Frame.
type Frame struct {
	parser *Parser
	parent *Frame
	title  *host.Title
	depth  int

	numbered map[int]preprocessor.Node
	named    map[string]preprocessor.Node
	cache    map[string]string
}

var _ host.Frame = (*Frame)(nil)

func newRootFrame(p *Parser) *Frame {
	return &Frame{
		parser: p,
		title:  p.title,
		cache:  make(map[string]string),
	}
}

// newChild creates the frame of a template call whose parts are expanded in f.
func (f *Frame) newChild(title *host.Title, parts []*preprocessor.Tree) *Frame {
	child := &Frame{
		parser:   f.parser,
		parent:   f,
		title:    title,
		depth:    f.depth + 1,
		numbered: make(map[int]preprocessor.Node),
		named:    make(map[string]preprocessor.Node),
		cache:    make(map[string]string),
	}

	for _, part := range parts {
		nameTree := part.Child(preprocessor.NameName)
		value := part.Child(preprocessor.NameValue)
		if nameTree == nil || value == nil {
			continue
		}
		if attr, ok := nameTree.FirstChild().(*preprocessor.Attr); ok {
			if index, err := strconv.Atoi(attr.Value); err == nil {
				child.numbered[index] = value
			}
			continue
		}
		child.named[strings.TrimSpace(f.Expand(nameTree, 0))] = value
	}
	return child
}

// Depth is 0 for the page itself and grows by one per template.
func (f *Frame) Depth() int {
	return f.depth
}

// SetVolatile marks the output as not cacheable.
func (f *Frame) SetVolatile() {
	f.parser.volatile = true
}

// NumberedArguments implements host.Frame.
func (f *Frame) NumberedArguments() map[int]string {
	out := make(map[int]string, len(f.numbered))
	for index := range f.numbered {
		out[index], _ = f.argument(strconv.Itoa(index))
	}
	return out
}

// NamedArguments implements host.Frame.
func (f *Frame) NamedArguments() map[string]string {
	out := make(map[string]string, len(f.named))
	for name := range f.named {
		out[name], _ = f.argument(name)
	}
	return out
}

// argument returns the expanded value of an argument. Named values are
// trimmed, positional ones are not.
func (f *Frame) argument(name string) (string, bool) {
	if value, ok := f.cache[name]; ok {
		return value, true
	}

	var value string
	if index, err := strconv.Atoi(name); err == nil && f.numbered[index] != nil {
		value = f.parent.Expand(f.numbered[index], 0)
	} else if node, ok := f.named[name]; ok {
		value = strings.TrimSpace(f.parent.Expand(node, 0))
	} else {
		return "", false
	}

	f.cache[name] = value
	return value, true
}

// Expand turns node into text.
func (f *Frame) Expand(node preprocessor.Node, flags host.ExpandFlags) string {
	if node == nil {
		return ""
	}
	if flags&host.RecoverOrig != 0 {
		return node.String()
	}

	switch n := node.(type) {
	case *preprocessor.Text:
		return n.Value
	case *preprocessor.Attr:
		return ""
	case *preprocessor.Tree:
		switch n.Name {
		case preprocessor.NameTemplate:
			return f.expandTemplate(n)
		case preprocessor.NameTplArg:
			return f.expandArgument(n)
		case preprocessor.NameExt:
			return f.expandExtension(n)
		case preprocessor.NameComment, preprocessor.NameIgnore:
			return ""
		}

		var sb strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			sb.WriteString(f.Expand(child, flags))
		}
		return sb.String()
	}
	return ""
}

func (f *Frame) expandTemplate(n *preprocessor.Tree) string {
	name := strings.TrimSpace(f.Expand(n.Child(preprocessor.NameTitle), 0))
	var parts []*preprocessor.Tree
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if preprocessor.IsTree(child, preprocessor.NamePart) {
			parts = append(parts, child.(*preprocessor.Tree))
		}
	}

	if fn, rest, ok := strings.Cut(name, ":"); ok && strings.HasPrefix(fn, "#") {
		if hook, found := f.parser.engine.functions[strings.ToLower(strings.TrimSpace(fn[1:]))]; found {
			args := []preprocessor.Node{preprocessor.NewText(strings.TrimSpace(rest))}
			for _, part := range parts {
				args = append(args, part)
			}
			return f.applyResult(hook(f.parser, f, args))
		}
	}

	if hook, found := f.parser.engine.variables[name]; found && len(parts) == 0 {
		return hook(f.parser, f)
	}

	title, ok := f.parser.NewTitle(name, host.NSTemplate)
	if !ok {
		return n.String()
	}
	return f.transclude(title, parts)
}

// applyResult turns a hook result into expanded text.
func (f *Frame) applyResult(res host.Result) string {
	switch {
	case res.NoWiki || res.IsHTML:
		return f.parser.InsertStripItem(res.Text)
	case res.NoParse:
		return res.Text
	}
	return f.Expand(f.parser.Preprocess(res.Text, true), 0)
}

func (f *Frame) transclude(title *host.Title, parts []*preprocessor.Tree) string {
	if f.depth >= MaxDepth {
		slog.Debug("template depth limit", "title", title.PrefixedText())
		return fmt.Sprintf(`<span class="error">Template recursion depth limit exceeded (%d)</span>`, MaxDepth)
	}
	for ancestor := f; ancestor != nil; ancestor = ancestor.parent {
		if ancestor.title != nil && ancestor.title.PrefixedDBKey() == title.PrefixedDBKey() {
			slog.Debug("template loop", "title", title.PrefixedText())
			return `<span class="error">Template loop detected: [[:` + title.PrefixedText() + `]]</span>`
		}
	}

	pg, ok := f.parser.site.lookup(title)
	if !ok {
		f.parser.site.bad[title.PrefixedDBKey()] = true
		return "[[:" + title.PrefixedText() + "]]"
	}

	child := f.newChild(pg.title, parts)
	return child.Expand(f.parser.Preprocess(pg.text, true), 0)
}

func (f *Frame) expandArgument(n *preprocessor.Tree) string {
	name := strings.TrimSpace(f.Expand(n.Child(preprocessor.NameTitle), 0))
	if value, ok := f.argument(name); ok {
		return value
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if preprocessor.IsTree(child, preprocessor.NamePart) {
			return f.Expand(child, 0)
		}
	}
	return "{{{" + name + "}}}"
}

func (f *Frame) expandExtension(n *preprocessor.Tree) string {
	name := n.ExtName()
	inner, _ := n.ExtInner()

	switch name {
	case "nowiki":
		return f.parser.InsertStripItem(escapeNowiki(inner))
	case "pre":
		return f.parser.InsertStripItem("<pre>" + escapeNowiki(inner) + "</pre>")
	}

	hook, ok := f.parser.engine.tags[name]
	if !ok {
		return n.String()
	}
	res := hook(inner, parseAttributes(n.ExtAttr()), f.parser, f)
	return f.parser.InsertStripItem(res.Text)
}

// parseAttributes reads tag attributes. Names are lower-cased and values
// have their entities decoded. Attributes without a value are empty.
func parseAttributes(text string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRegex.FindAllStringSubmatch(text, -1) {
		value := m[2] + m[3] + m[4]
		attrs[strings.ToLower(m[1])] = html.UnescapeString(value)
	}
	return attrs
}

func escapeNowiki(text string) string {
	return html.EscapeString(html.UnescapeString(text))
}
