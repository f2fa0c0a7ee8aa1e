package wikihost

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Hanaasagi/riven/pkg/host"
)

var (
	linkRegex   = regexp.MustCompile(`\[\[([^\[\]|\n]+)(?:\|([^\[\]]*))?\]\]`)
	nowikiRegex = regexp.MustCompile(`(?is)<nowiki>(.*?)</nowiki>`)
	emptyNowiki = regexp.MustCompile(`(?i)<nowiki\s*/>`)
)

// internalParse turns expanded wiki text into HTML.
func (p *Parser) internalParse(text string) string {
	return p.convertLinks(convertTables(text))
}

// finalize resolves the nowiki markup left in the output once every strip
// marker has been replaced.
func finalize(text string) string {
	text = emptyNowiki.ReplaceAllString(text, "")
	return nowikiRegex.ReplaceAllStringFunc(text, func(m string) string {
		return escapeNowiki(nowikiRegex.FindStringSubmatch(m)[1])
	})
}

type tableState struct {
	rowAttrs string
	rowOpen  bool
	cell     string
}

type tableWriter struct {
	sb      strings.Builder
	stack   []*tableState
	pending bool
}

func (w *tableWriter) top() *tableState {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

func (w *tableWriter) line(s string) {
	if w.pending {
		w.sb.WriteByte('\n')
		w.pending = false
	}
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *tableWriter) closeCell(st *tableState) {
	if st.cell == "" {
		return
	}
	w.sb.WriteString("</" + st.cell + ">\n")
	w.pending = false
	st.cell = ""
}

func (w *tableWriter) closeRow(st *tableState) {
	w.closeCell(st)
	if st.rowOpen {
		w.line("</tr>")
		st.rowOpen = false
	}
}

func (w *tableWriter) openCell(st *tableState, tag, cell string) {
	w.closeCell(st)
	if !st.rowOpen {
		w.line("<tr" + attrString(st.rowAttrs) + ">")
		st.rowOpen = true
	}

	attrs, content := "", cell
	pipe := strings.Index(cell, "|")
	link := strings.Index(cell, "[[")
	if pipe >= 0 && (link < 0 || pipe < link) {
		attrs, content = cell[:pipe], cell[pipe+1:]
	}

	if w.pending {
		w.sb.WriteByte('\n')
	}
	w.sb.WriteString("<" + tag + attrString(attrs) + ">" + strings.TrimSpace(content))
	w.pending = true
	st.cell = tag
}

// convertTables turns {| ... |} wikitables into HTML tables.
func convertTables(text string) string {
	w := &tableWriter{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimLeft(raw, " \t")
		st := w.top()

		switch {
		case strings.HasPrefix(line, "{|"):
			w.line("<table" + attrString(line[2:]) + ">")
			w.stack = append(w.stack, &tableState{})
		case st == nil:
			w.line(raw)
		case strings.HasPrefix(line, "|}"):
			w.closeRow(st)
			w.line("</table>" + line[2:])
			w.stack = w.stack[:len(w.stack)-1]
		case strings.HasPrefix(line, "|-"):
			w.closeRow(st)
			st.rowAttrs = strings.TrimLeft(line[2:], "-")
		case strings.HasPrefix(line, "|+"):
			w.closeCell(st)
			w.line("<caption>" + strings.TrimSpace(line[2:]) + "</caption>")
		case strings.HasPrefix(line, "!"):
			for _, cell := range splitCells(line[1:], "!!", "||") {
				w.openCell(st, "th", cell)
			}
		case strings.HasPrefix(line, "|"):
			for _, cell := range splitCells(line[1:], "||") {
				w.openCell(st, "td", cell)
			}
		case st.cell != "":
			w.sb.WriteString("\n" + raw)
		default:
			w.line(raw)
		}
	}

	if w.pending {
		w.sb.WriteByte('\n')
	}
	out := w.sb.String()
	return strings.TrimSuffix(out, "\n")
}

// splitCells splits a cell line on any of the separators.
func splitCells(line string, separators ...string) []string {
	cells := []string{line}
	for _, sep := range separators {
		var next []string
		for _, cell := range cells {
			next = append(next, strings.Split(cell, sep)...)
		}
		cells = next
	}
	return cells
}

func attrString(attrs string) string {
	attrs = strings.TrimSpace(attrs)
	if attrs == "" {
		return ""
	}
	return " " + attrs
}

// convertLinks renders wiki links as anchors. Category links are collected
// and removed. Links whose target is not a valid title stay as text.
func (p *Parser) convertLinks(text string) string {
	return linkRegex.ReplaceAllStringFunc(text, func(m string) string {
		sub := linkRegex.FindStringSubmatch(m)
		target, display := sub[1], sub[2]
		hasDisplay := strings.Contains(m, "|")

		title, ok := p.site.NewTitle(target, host.NSMain)
		if !ok {
			return m
		}
		colon := strings.HasPrefix(strings.TrimSpace(target), ":")

		if !colon {
			switch title.Namespace {
			case host.NSCategory:
				p.addCategory(title.Text)
				return ""
			case host.NSFile:
				return p.imageLink(title, display)
			}
		}

		if !hasDisplay {
			display = strings.TrimPrefix(strings.TrimSpace(target), ":")
		}
		return p.anchor(title, display)
	})
}

func (p *Parser) anchor(title *host.Title, display string) string {
	href := "/wiki/" + title.PrefixedDBKey()
	if title.Fragment != "" {
		href += "#" + strings.ReplaceAll(title.Fragment, " ", "_")
	}

	class := ""
	switch {
	case title.IsExternal():
		class = ` class="extiw"`
	case title.Namespace == host.NSSpecial:
		if !p.site.specialPageExists(title.Text) {
			class = ` class="new"`
		}
	case title.Namespace == host.NSMedia:
		href = "/images/" + title.DBKey()
		class = ` class="internal"`
	case !p.site.pageExists(title):
		class = ` class="new"`
	}

	return `<a href="` + html.EscapeString(href) + `"` + class +
		` title="` + html.EscapeString(title.PrefixedText()) + `">` + display + `</a>`
}

// imageLink renders an embedded file. The last option is used as the caption.
func (p *Parser) imageLink(title *host.Title, options string) string {
	exists, _ := p.site.findFile(title.Text)
	if !exists {
		return `<a href="/wiki/` + html.EscapeString(title.PrefixedDBKey()) + `" class="new">` +
			html.EscapeString(title.PrefixedText()) + `</a>`
	}
	p.AddImage(&host.File{Name: title.DBKey(), Exists: true})

	caption := ""
	if options != "" {
		parts := strings.Split(options, "|")
		caption = strings.TrimSpace(parts[len(parts)-1])
	}
	return `<a href="/wiki/` + html.EscapeString(title.PrefixedDBKey()) + `" class="image">` +
		`<img alt="` + html.EscapeString(caption) + `" src="/images/` + html.EscapeString(title.DBKey()) + `"></a>`
}
