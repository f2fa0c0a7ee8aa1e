package riven

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/linktrim"
	"github.com/Hanaasagi/riven/pkg/magicargs"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

const (
	pickFromQuotesCategory = "riven-pickfromquotes-category"
	explodeArgsCategory    = "riven-tracking-explodeargs"
)

// Arg returns a parameter of the current request: {{#arg:name|default}}.
func Arg(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	values := expandAll(f, args)
	if len(values) == 0 {
		return host.Text("")
	}
	def := ""
	if len(values) > 1 {
		def = values[1]
	}
	return host.Text(p.RequestValue(values[0], def))
}

// IfExistX picks between two values depending on whether a page exists:
// {{#ifexistx:page|then|else}}. Media: titles check the file and Special:
// titles the special page.
func IfExistX(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args, magicargs.If, magicargs.IfNot)

	titleText := trim(expandOptional(f, values, 0))
	title, ok := p.NewTitle(titleText, host.NSMain)
	if !ok || !magic.CheckIfs() {
		return host.Text("")
	}

	title = p.FindVariantLink(title)
	branch := 2
	if titleExists(p, title) {
		branch = 1
	}
	return host.Text(trim(expandOptional(f, values, branch)))
}

// FindFirst returns the name of the first argument that names an existing
// page: {{#findfirst:a|b|c}}.
func FindFirst(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args, magicargs.If, magicargs.IfNot)
	if !magic.CheckIfs() {
		return host.Text("")
	}

	for _, value := range values {
		title, ok := p.NewTitle(trim(f.Expand(value, 0)), host.NSMain)
		if ok && titleExists(p, title) {
			return host.Text(title.PrefixedText())
		}
	}
	return host.Text("")
}

// Include transcludes each named template that exists:
// {{#include:a|b|c}}. With debug the calls are shown instead of expanded.
func Include(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args, magicargs.Debug, magicargs.If, magicargs.IfNot)
	if len(values) == 0 || !magic.CheckIfs() {
		return host.Text("")
	}

	var sb strings.Builder
	for _, value := range values {
		pageName := f.Expand(value, 0)
		title, ok := p.NewTitle(pageName, host.NSTemplate)
		if ok && p.PageExists(title) {
			sb.WriteString("{{" + pageName + "}}")
		}
	}

	return host.Result{
		Text:    sb.String(),
		NoParse: magic.CheckDebug(p.IsPreview()),
	}
}

// PickFrom returns n values picked at random: {{#pickfrom:n|a|b|c}}. The
// picks are joined with separator=, a newline by default.
func PickFrom(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, values := magicargs.Get(f, args,
		magicargs.If, magicargs.IfNot, magicargs.Seed, magicargs.Separator)
	if len(values) == 0 {
		return host.Text("")
	}

	npick := intval(f.Expand(values[0], 0))
	items := values[1:]
	if npick <= 0 || len(items) == 0 || !magic.CheckIfs() {
		return host.Text("")
	}

	separator := magic.Get(magicargs.Separator, "\n")
	if len(separator) > 1 {
		separator = unescapeC(separator)
		if unquoted, ok := unquote(separator); ok {
			separator = unquoted
			p.AddTrackingCategory(pickFromQuotesCategory)
		}
	}

	shuffled := make([]preprocessor.Node, len(items))
	copy(shuffled, items)
	rng := randSource(p, magic)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if npick < len(shuffled) {
		shuffled = shuffled[:npick]
	}

	picks := make([]string, len(shuffled))
	for i, item := range shuffled {
		picks[i] = trim(f.Expand(item, 0))
	}
	return host.Text(strings.Join(picks, separator))
}

// unquote removes matching ', " or ` quotes around s.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	first := s[0]
	if (first == '\'' || first == '"' || first == '`') && s[len(s)-1] == first {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// Rand returns a random integer: {{#rand:}} rolls 1 to 6, {{#rand:n}} 1 to
// n and {{#rand:low|high}} low to high. A call that can only have one result
// returns it without touching any generator or the page cache.
func Rand(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	magic, nodes := magicargs.Get(f, args, magicargs.Seed)
	values := expandAll(f, nodes)
	if len(values) == 1 && trim(values[0]) == "" {
		values = nil
	}

	low, high := 1, 6
	switch len(values) {
	case 0:
	case 1:
		high = intval(values[0])
	default:
		low, high = intval(values[0]), intval(values[1])
	}
	if low > high {
		low, high = high, low
	}
	if low == high {
		return host.Text(strconv.Itoa(low))
	}

	f.SetVolatile()
	rng := randSource(p, magic)
	span := uint64(high) - uint64(low)
	var offset uint64
	if span == ^uint64(0) {
		offset = rng.Uint64()
	} else {
		offset = rng.Uint64N(span + 1)
	}
	return host.Text(strconv.Itoa(low + int(offset)))
}

// TrimLinks replaces the links in its argument with their text:
// {{#trimlinks:[[Foo|bar]]}} gives bar.
func TrimLinks(p host.Parser, f host.Frame, args []preprocessor.Node) host.Result {
	if len(args) == 0 {
		return host.Text("")
	}

	text := f.Expand(args[0], 0)
	root := p.Preprocess(text, f.Depth() > 0)
	linktrim.Trim(p, root)
	slog.Debug("trimmed links", "input", text)
	return host.Text(f.Expand(root, 0))
}

// SkinName returns the skin the page is viewed with. The page may only be
// cached briefly since each reader can pick a different skin.
func SkinName(p host.Parser, _ host.Frame) string {
	p.UpdateCacheExpiry(5)
	return p.Skin()
}
