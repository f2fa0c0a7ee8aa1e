package preprocessor

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagOpenRegex = regexp.MustCompile(`^<(/?)([A-Za-z][A-Za-z0-9_-]*)([^>]*)>`)
)

// Options control how wiki text is turned into a tree.
type Options struct {
	// ForInclusion parses the text as it is seen when transcluded:
	// <noinclude> sections are dropped and <includeonly> is honoured.
	ForInclusion bool

	// ExtensionTags lists tag names, in any case, whose content is kept
	// opaque as an ext node. nowiki and pre are always extension tags.
	ExtensionTags []string
}

type parser struct {
	src  string
	pos  int
	opts Options
	tags map[string]bool
}

// Parse builds the node tree for text.
func Parse(text string, opts Options) *Tree {
	p := &parser{
		src:  text,
		opts: opts,
		tags: map[string]bool{"nowiki": true, "pre": true},
	}
	for _, tag := range opts.ExtensionTags {
		p.tags[strings.ToLower(tag)] = true
	}

	root := NewTree(NameRoot)
	p.parseNodes(root)
	return root
}

// parseNodes fills dst until one of the stop strings is found at the current
// level or the input ends. It returns the stop string found, or "" at the end
// of input. The stop string is not consumed.
func (p *parser) parseNodes(dst *Tree, stops ...string) string {
	var text strings.Builder
	flush := func() {
		dst.appendText(text.String())
		text.Reset()
	}

	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		for _, stop := range stops {
			if strings.HasPrefix(rest, stop) {
				flush()
				return stop
			}
		}

		switch {
		case strings.HasPrefix(rest, "<!--"):
			flush()
			dst.AddChild(p.parseComment())
			continue
		case rest[0] == '<':
			if node := p.parseTag(); node != nil {
				flush()
				dst.AddChild(node)
				continue
			}
		case strings.HasPrefix(rest, "{{"):
			if node := p.parseBraces(); node != nil {
				flush()
				dst.AddChild(node)
				continue
			}
		case strings.HasPrefix(rest, LinkOpen):
			if nodes := p.parseLink(); nodes != nil {
				flush()
				for _, n := range nodes {
					dst.appendNode(n)
				}
				continue
			}
		}

		text.WriteByte(rest[0])
		p.pos++
	}

	flush()
	return ""
}

func (p *parser) parseComment() Node {
	rest := p.src[p.pos:]
	end := strings.Index(rest[4:], "-->")
	if end < 0 {
		p.pos = len(p.src)
		return NewTree(NameComment, NewText(rest))
	}
	length := 4 + end + 3
	p.pos += length
	return NewTree(NameComment, NewText(rest[:length]))
}

// parseBraces reads a template argument or a template call starting at the
// current position. It returns nil, leaving the position unchanged, when the
// braces are never closed. Three braces that do not close as an argument leave
// the first brace as text so the rest can be read as a template.
func (p *parser) parseBraces() Node {
	if strings.HasPrefix(p.src[p.pos:], "{{{") {
		return p.parseCall(NameTplArg, 3, "}}}")
	}
	return p.parseCall(NameTemplate, 2, "}}")
}

func (p *parser) parseCall(name string, openLen int, closer string) Node {
	start := p.pos
	p.pos += openLen

	call := NewTree(name)
	title := NewTree(NameTitle)
	call.AddChild(title)
	stop := p.parseNodes(title, "|", closer)

	index := 1
	for stop == "|" {
		p.pos++
		part := NewTree(NamePart)
		first := NewTree(NameName)
		stop = p.parseNodes(first, "=", "|", closer)
		if stop == "=" {
			p.pos++
			value := NewTree(NameValue)
			stop = p.parseNodes(value, "|", closer)
			part.AddChild(first)
			part.AddChild(NewText("="))
			part.AddChild(value)
		} else {
			first.Name = NameValue
			part.AddChild(NewTree(NameName, NewAttr("index", strconv.Itoa(index))))
			part.AddChild(first)
			index++
		}
		call.AddChild(part)
	}

	if stop != closer {
		p.pos = start
		return nil
	}

	p.pos += len(closer)
	return call
}

// parseLink reads a wiki link. The opener becomes its own text node and the
// body follows it, ending in a text node whose last two bytes are the closing
// brackets.
func (p *parser) parseLink() []Node {
	start := p.pos
	p.pos += len(LinkOpen)

	body := NewTree(NameRoot)
	if p.parseNodes(body, "]]") != "]]" {
		p.pos = start
		return nil
	}
	p.pos += 2
	body.appendText("]]")
	body.last.(*Text).sealed = true

	opener := NewText(LinkOpen)
	opener.sealed = true
	return append([]Node{opener}, body.Children()...)
}

// parseTag handles extension tags and the inclusion control tags. Any other
// markup starting with '<' is left to the caller as text.
func (p *parser) parseTag() Node {
	rest := p.src[p.pos:]
	m := tagOpenRegex.FindStringSubmatch(rest)
	if m == nil {
		return nil
	}
	closing := m[1] == "/"
	name := strings.ToLower(m[2])

	switch name {
	case "noinclude", "includeonly", "onlyinclude":
		return p.parseInclusionTag(name, closing, m[0])
	}

	if closing || !p.tags[name] {
		return nil
	}

	attr := m[3]
	ext := NewTree(NameExt,
		NewTree(NameName, NewText(m[2])),
		NewTree(NameAttr, NewText(attr)),
	)
	if strings.HasSuffix(attr, "/") {
		p.pos += len(m[0])
		return ext
	}

	body := rest[len(m[0]):]
	closeLoc := closeTagRegex(name).FindStringIndex(body)
	if closeLoc == nil {
		slog.Debug("unclosed extension tag", "tag", name, "offset", p.pos)
		return nil
	}

	ext.AddChild(NewTree(NameInner, NewText(body[:closeLoc[0]])))
	ext.AddChild(NewTree(NameClose, NewText(body[closeLoc[0]:closeLoc[1]])))
	p.pos += len(m[0]) + closeLoc[1]
	return ext
}

// parseInclusionTag drops the sections that do not apply in the current mode
// into ignore nodes. Tags of sections that do apply become ignore nodes on
// their own and their content is parsed normally.
func (p *parser) parseInclusionTag(name string, closing bool, tag string) Node {
	skipSection := (name == "noinclude" && p.opts.ForInclusion) ||
		(name == "includeonly" && !p.opts.ForInclusion)

	if !skipSection || closing {
		p.pos += len(tag)
		return NewTree(NameIgnore, NewText(tag))
	}

	rest := p.src[p.pos:]
	loc := closeTagRegex(name).FindStringIndex(rest[len(tag):])
	end := len(rest)
	if loc != nil {
		end = len(tag) + loc[1]
	}
	p.pos += end
	return NewTree(NameIgnore, NewText(rest[:end]))
}

func closeTagRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(name) + `\s*>`)
}
