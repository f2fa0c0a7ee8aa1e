package riven

import (
	"log/slog"
	"regexp"

	"golang.org/x/net/html"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/magicargs"
	"github.com/Hanaasagi/riven/pkg/spacetrim"
	"github.com/Hanaasagi/riven/pkg/tableclean"
)

var commentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)

// CleanSpace removes layout whitespace from its content and parses it:
// <cleanspace mode=top>...</cleanspace>. Modes are original, top and
// recursive.
//
// Categories added by the content are dropped on template pages, outside of
// preview, so that a template does not categorize itself.
func CleanSpace(input string, attrs map[string]string, p host.Parser, f host.Frame) host.Result {
	magic := magicargs.FromAttributes(attrs, magicargs.Mode, magicargs.Debug)
	output := commentRegex.ReplaceAllString(trim(input), "")

	mode := ParseSpaceMode(magic.Get(magicargs.Mode, ""))
	switch mode {
	case spacetrim.ModeTop, spacetrim.ModeRecursive:
		root := p.Preprocess(output, f.Depth() > 0)
		spacetrim.Trim(root.FirstChild(), mode == spacetrim.ModeRecursive)
		output = f.Expand(root, host.RecoverOrig)
	default:
		output = spacetrim.Original(output)
	}
	slog.Debug("cleanspace", "mode", mode.String(), "depth", f.Depth())

	if magic.CheckDebug(p.IsPreview()) {
		return debugResult(output)
	}

	if !p.IsPreview() && p.CurrentTitle().Namespace == host.NSTemplate {
		categories := p.Categories()
		output = p.RecursiveTagParse(output, f)
		p.SetCategories(categories)
		return host.Result{Text: output, IsHTML: true}
	}

	return host.Result{Text: p.RecursiveTagParse(output, f), IsHTML: true}
}

// ParseSpaceMode maps a mode= value to a trimming mode. Unknown values select
// the original mode.
func ParseSpaceMode(value string) spacetrim.Mode {
	word, _ := magicargs.Find(value)
	switch word {
	case magicargs.Top:
		return spacetrim.ModeTop
	case magicargs.Recursive:
		return spacetrim.ModeRecursive
	default:
		return spacetrim.ModeOriginal
	}
}

// CleanTable parses its content and removes the empty rows of every table in
// it: <cleantable protectrows=1 cleanimages=1>...</cleantable>.
//
// A template page rendered on its own, outside of preview, shows its tables
// uncleaned.
func CleanTable(input string, attrs map[string]string, p host.Parser, f host.Frame) host.Result {
	magic := magicargs.FromAttributes(attrs,
		magicargs.ProtectRows, magicargs.CleanImages, magicargs.Debug)
	parsed := p.RecursiveTagParse(input, f)

	if p.CurrentTitle().Namespace == host.NSTemplate && f.Depth() == 0 && !p.IsPreview() {
		return host.Result{Text: parsed, IsHTML: true}
	}

	opts := tableclean.DefaultOptions()
	if magic.Has(magicargs.ProtectRows) {
		opts.ProtectRows = intval(magic.Get(magicargs.ProtectRows, ""))
	}
	opts.CleanImages = magic.Bool(magicargs.CleanImages, opts.CleanImages)

	output := tableclean.NewScanner(opts, p).Clean(trim(parsed))
	if output != "" && magic.CheckDebug(p.IsPreview()) {
		return debugResult(p.RecursiveTagParseFully(output))
	}

	return host.Result{Text: output, IsHTML: true}
}

func debugResult(text string) host.Result {
	return host.Result{
		Text:   "<pre>" + html.EscapeString(text) + "</pre>",
		NoWiki: true,
		IsHTML: true,
	}
}
