// Package wikihost is a small in-memory wiki engine. It expands templates,
// template arguments, parser functions, tags and variables, turns wikitables
// and links into HTML, and tracks the categories, images and cache hints a
// render produces. It exists to run the riven functions outside of a full
// wiki.
package wikihost

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/Hanaasagi/riven/pkg/host"
)

// MaxDepth is the deepest template nesting that is expanded.
const MaxDepth = 40

// Engine renders pages of a Site with the functions bound to it.
type Engine struct {
	site      *Site
	functions map[string]host.FunctionHook
	tags      map[string]host.TagHook
	variables map[string]host.VariableHook
}

// NewEngine creates an engine for site with nothing bound.
func NewEngine(site *Site) *Engine {
	return &Engine{
		site:      site,
		functions: make(map[string]host.FunctionHook),
		tags:      make(map[string]host.TagHook),
		variables: make(map[string]host.VariableHook),
	}
}

// Site returns the site the engine renders.
func (e *Engine) Site() *Site {
	return e.site
}

// SetFunctionHook binds a parser function. Names are matched without case.
func (e *Engine) SetFunctionHook(name string, hook host.FunctionHook) {
	e.functions[strings.ToLower(name)] = hook
}

// SetHook binds a tag. Names are matched without case.
func (e *Engine) SetHook(tag string, hook host.TagHook) {
	e.tags[strings.ToLower(tag)] = hook
}

// SetVariable binds a variable. Names are matched with case.
func (e *Engine) SetVariable(name string, hook host.VariableHook) {
	e.variables[name] = hook
}

func (e *Engine) tagNames() []string {
	names := make([]string, 0, len(e.tags))
	for name := range e.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderOptions describe a single render.
type RenderOptions struct {
	Preview bool
	// Seed makes the render's random source reproducible when non-zero.
	Seed uint64
}

// Output is the result of a render.
type Output struct {
	HTML        string
	Categories  []string
	Images      []string
	Volatile    bool
	CacheExpiry int
}

// Render renders text as the content of the page named title.
func (e *Engine) Render(title, text string, opts RenderOptions) (*Output, error) {
	p, err := e.NewParser(title, opts)
	if err != nil {
		return nil, err
	}

	frame := newRootFrame(p)
	tree := p.Preprocess(text, false)
	html := p.Finalize(p.internalParse(frame.Expand(tree, 0)))

	slog.Debug("rendered page", "title", title, "strip_items", p.strip.Len(), "expensive", p.expensive)
	return &Output{
		HTML:        html,
		Categories:  p.categories,
		Images:      p.images,
		Volatile:    p.volatile,
		CacheExpiry: p.cacheExpiry,
	}, nil
}

// RenderPage renders a page stored on the site.
func (e *Engine) RenderPage(title string, opts RenderOptions) (*Output, error) {
	t, ok := e.site.NewTitle(title, host.NSMain)
	if !ok {
		return nil, errInvalidTitle(title)
	}
	pg, ok := e.site.lookup(t)
	if !ok {
		return nil, errMissingPage(t.PrefixedText())
	}
	return e.Render(t.PrefixedText(), pg.text, opts)
}

func (e *Engine) newRand(opts RenderOptions) *rand.Rand {
	if opts.Seed != 0 {
		return rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
