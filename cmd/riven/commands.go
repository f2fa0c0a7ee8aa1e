package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Hanaasagi/riven/internal/wikihost"
	"github.com/Hanaasagi/riven/pkg/linktrim"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
	"github.com/Hanaasagi/riven/pkg/riven"
	"github.com/Hanaasagi/riven/pkg/spacetrim"
	"github.com/Hanaasagi/riven/pkg/strip"
	"github.com/Hanaasagi/riven/pkg/tableclean"
)

var (
	labelStyle = color.New(color.Bold, color.FgHiWhite)
	nameStyle  = color.New(color.FgHiGreen)
	kindStyle  = color.New(color.FgHiCyan)
)

// siteFlags are the flags of commands that render against a site.
type siteFlags struct {
	site  string
	title string
	skin  string
}

func (s *siteFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&s.site, "site", "", "YAML file describing the pages, files and settings of the wiki")
	c.Flags().StringVar(&s.title, "title", "", "Title of the page being rendered")
	c.Flags().StringVar(&s.skin, "skin", "", "Skin name reported by {{SKIN}}")
}

// apply copies the flags that were given over the configured values.
func (s *siteFlags) apply(c *cobra.Command, core *CoreConfig) {
	if c.Flags().Changed("site") {
		core.Site = s.site
	}
	if c.Flags().Changed("title") {
		core.Title = s.title
	}
	if c.Flags().Changed("skin") {
		core.Skin = s.skin
	}
}

// newEngine builds an engine for the configured site with every riven
// function bound.
func newEngine(core CoreConfig) (*wikihost.Engine, error) {
	site := wikihost.NewSite()
	if core.Site != "" {
		loaded, err := wikihost.LoadSite(core.Site)
		if err != nil {
			return nil, err
		}
		site = loaded
	}
	if core.Skin != "" {
		site.Skin = core.Skin
	}

	engine := wikihost.NewEngine(site)
	riven.Register(engine)
	return engine, nil
}

func (a *app) renderCmd() *cobra.Command {
	var (
		flags    siteFlags
		page     string
		preview  bool
		seed     uint64
		showMeta bool
	)

	c := &cobra.Command{
		Use:     "render",
		Short:   "Render wikitext to HTML with every riven function available",
		GroupID: "wiki",
		Example: "  riven render -i page.wiki --site site.yaml\n  riven render --site site.yaml --page 'Main Page' --meta",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			core := &a.config.Core
			flags.apply(c, core)
			if c.Flags().Changed("preview") {
				core.Preview = preview
			}
			if c.Flags().Changed("seed") {
				core.Seed = seed
			}

			engine, err := newEngine(*core)
			if err != nil {
				return err
			}
			opts := wikihost.RenderOptions{Preview: core.Preview, Seed: core.Seed}

			var out *wikihost.Output
			if page != "" {
				out, err = engine.RenderPage(page, opts)
			} else {
				var text string
				if text, err = a.input(c); err != nil {
					return err
				}
				out, err = engine.Render(core.Title, text, opts)
			}
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			if showMeta {
				writeMeta(c.ErrOrStderr(), out)
			}
			return a.output(c, out.HTML)
		},
	}

	flags.register(c)
	c.Flags().StringVar(&page, "page", "", "Render this page of the site instead of the input")
	c.Flags().BoolVar(&preview, "preview", false, "Render as a preview")
	c.Flags().Uint64Var(&seed, "seed", 0, "Seed the random functions for a reproducible render")
	c.Flags().BoolVar(&showMeta, "meta", false, "Print categories, images and cache hints to stderr")
	return c
}

// writeMeta lists what a render reported besides its HTML.
func writeMeta(w io.Writer, out *wikihost.Output) {
	line := func(label, value string) {
		labelStyle.Fprint(w, label+":")
		fmt.Fprintln(w, " "+value)
	}
	line("Categories", strings.Join(out.Categories, ", "))
	line("Images", strings.Join(out.Images, ", "))
	line("Volatile", fmt.Sprint(out.Volatile))
	if out.CacheExpiry > 0 {
		line("Cache expiry", fmt.Sprintf("%ds", out.CacheExpiry))
	}
}

func (a *app) cleanTableCmd() *cobra.Command {
	var (
		protectRows int
		cleanImages bool
	)

	c := &cobra.Command{
		Use:     "cleantable",
		Short:   "Remove the empty rows of the HTML tables in the input",
		GroupID: "wiki",
		Example: "  riven cleantable -i table.html --protect-rows 2",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			conf := &a.config.CleanTable
			if c.Flags().Changed("protect-rows") {
				conf.ProtectRows = protectRows
			}
			if c.Flags().Changed("clean-images") {
				conf.CleanImages = cleanImages
			}

			text, err := a.input(c)
			if err != nil {
				return err
			}
			opts := tableclean.Options{ProtectRows: conf.ProtectRows, CleanImages: conf.CleanImages}
			return a.output(c, cleanTables(text, opts))
		},
	}

	c.Flags().IntVar(&protectRows, "protect-rows", 1, "Number of leading rows that are never removed")
	c.Flags().BoolVar(&cleanImages, "clean-images", true, "Treat cells holding only images as empty")
	return c
}

func cleanTables(text string, opts tableclean.Options) string {
	state := strip.NewState()
	cleaned := tableclean.NewScanner(opts, state).Clean(text)
	slog.Debug("cleaned tables", "tables", state.Len())
	return state.Unstrip(cleaned)
}

func (a *app) cleanSpaceCmd() *cobra.Command {
	var mode string

	c := &cobra.Command{
		Use:     "cleanspace",
		Short:   "Remove layout whitespace from wikitext",
		GroupID: "wiki",
		Example: "  riven cleanspace -i template.wiki --mode recursive",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if c.Flags().Changed("mode") {
				a.config.CleanSpace.Mode = mode
			}

			text, err := a.input(c)
			if err != nil {
				return err
			}
			return a.output(c, cleanSpace(text, riven.ParseSpaceMode(a.config.CleanSpace.Mode)))
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "original", "Trimming mode: original, top or recursive")
	return c
}

// cleanSpace trims text the way <cleanspace> does, without rendering it.
func cleanSpace(text string, mode spacetrim.Mode) string {
	text = strings.TrimSpace(text)
	if mode == spacetrim.ModeOriginal {
		return spacetrim.Original(text)
	}

	root := preprocessor.Parse(text, preprocessor.Options{ExtensionTags: tagNames()})
	spacetrim.Trim(root.FirstChild(), mode == spacetrim.ModeRecursive)
	return root.String()
}

func tagNames() []string {
	var names []string
	for _, e := range riven.Entries() {
		if e.Kind == riven.KindTag {
			names = append(names, e.Name)
		}
	}
	return names
}

func (a *app) trimLinksCmd() *cobra.Command {
	var flags siteFlags

	c := &cobra.Command{
		Use:     "trimlinks",
		Short:   "Replace the links in wikitext with their text",
		GroupID: "wiki",
		Example: "  echo '[[Foo|bar]] and [[Baz]]' | riven trimlinks",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			core := &a.config.Core
			flags.apply(c, core)

			engine, err := newEngine(*core)
			if err != nil {
				return err
			}
			text, err := a.input(c)
			if err != nil {
				return err
			}

			p, err := engine.NewParser(core.Title, wikihost.RenderOptions{})
			if err != nil {
				return fmt.Errorf("trimlinks: %w", err)
			}
			root := p.Preprocess(text, false)
			linktrim.Trim(p, root)
			return a.output(c, p.Finalize(root.String()))
		},
	}

	flags.register(c)
	return c
}

func (a *app) functionsCmd() *cobra.Command {
	var kind string

	c := &cobra.Command{
		Use:     "functions",
		Short:   "List the functions, tags and variables riven provides",
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			var entries []riven.Entry
			for _, e := range riven.Entries() {
				if kind == "" || strings.EqualFold(kind, e.Kind.String()) {
					entries = append(entries, e)
				}
			}
			if len(entries) == 0 {
				return fmt.Errorf("no entries of kind %q", kind)
			}
			writeEntries(c.OutOrStdout(), entries)
			return nil
		},
	}

	c.Flags().StringVarP(&kind, "kind", "k", "", "Only list entries of this kind: function, tag or variable")
	return c
}

// displayName is how an entry is written in wikitext.
func displayName(e riven.Entry) string {
	switch e.Kind {
	case riven.KindTag:
		return "<" + e.Name + ">"
	case riven.KindVariable:
		return e.Name
	default:
		return "#" + e.Name
	}
}

// writeEntries prints one aligned line per entry.
func writeEntries(w io.Writer, entries []riven.Entry) {
	nameWidth, kindWidth := 0, 0
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(displayName(e)))
		kindWidth = max(kindWidth, runewidth.StringWidth(e.Kind.String()))
	}

	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			nameStyle.Sprint(runewidth.FillRight(displayName(e), nameWidth)),
			kindStyle.Sprint(runewidth.FillRight(e.Kind.String(), kindWidth)),
			e.Usage)
	}
}
