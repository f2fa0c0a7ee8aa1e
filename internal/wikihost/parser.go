package wikihost

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Hanaasagi/riven/pkg/host"
	"github.com/Hanaasagi/riven/pkg/preprocessor"
	"github.com/Hanaasagi/riven/pkg/strip"
)

const expensiveCategory = "expensive-parserfunction-category"

// Parser is the state of one render. It implements host.Parser.
type Parser struct {
	engine  *Engine
	site    *Site
	title   *host.Title
	preview bool
	rng     *rand.Rand
	strip   *strip.State

	categories  []string
	images      []string
	cacheExpiry int
	expensive   int
	volatile    bool
}

var _ host.Parser = (*Parser)(nil)

// NewParser starts a render of the page named title without any text. It
// gives direct access to the services functions see.
func (e *Engine) NewParser(title string, opts RenderOptions) (*Parser, error) {
	t, ok := e.site.NewTitle(title, host.NSMain)
	if !ok {
		return nil, errInvalidTitle(title)
	}
	return &Parser{
		engine:  e,
		site:    e.site,
		title:   t,
		preview: opts.Preview,
		rng:     e.newRand(opts),
		strip:   strip.NewState(),
	}, nil
}

// NewTitle implements host.Parser using the site's title rules.
func (p *Parser) NewTitle(text string, ns host.Namespace) (*host.Title, bool) {
	return p.site.NewTitle(text, ns)
}

// FindVariantLink switches to a configured variant when title itself does
// not exist.
func (p *Parser) FindVariantLink(title *host.Title) *host.Title {
	if p.site.pageExists(title) {
		return title
	}
	variant, ok := p.site.Variants[title.PrefixedText()]
	if !ok {
		return title
	}
	if t, ok := p.site.NewTitle(variant, title.Namespace); ok && p.site.pageExists(t) {
		slog.Debug("using variant", "title", title.PrefixedText(), "variant", t.PrefixedText())
		return t
	}
	return title
}

// CurrentTitle returns the title of the page being rendered.
func (p *Parser) CurrentTitle() *host.Title {
	return p.title
}

// GoodLinkID returns the link cache id of a known page, or 0.
func (p *Parser) GoodLinkID(prefixedDBKey string) int {
	return p.site.good[prefixedDBKey]
}

// IsBadLink reports whether the link cache holds the page as missing.
func (p *Parser) IsBadLink(prefixedDBKey string) bool {
	return p.site.bad[prefixedDBKey]
}

// PageExists looks the page up and records the answer in the link cache.
func (p *Parser) PageExists(title *host.Title) bool {
	key := title.PrefixedDBKey()
	if pg, ok := p.site.lookup(title); ok {
		p.site.good[key] = pg.id
		delete(p.site.bad, key)
		return true
	}
	p.site.bad[key] = true
	return false
}

// FindFile returns the file a File or Media title names, or nil.
func (p *Parser) FindFile(title *host.Title) *host.File {
	exists, known := p.site.findFile(title.Text)
	if !known {
		return nil
	}
	return &host.File{Name: title.DBKey(), Exists: exists}
}

// SpecialPageExists implements host.Parser.
func (p *Parser) SpecialPageExists(name string) bool {
	return p.site.specialPageExists(name)
}

// IncrementExpensiveFunctionCount counts one expensive lookup. The first
// lookup over the limit tags the page.
func (p *Parser) IncrementExpensiveFunctionCount() bool {
	p.expensive++
	if p.expensive <= p.site.ExpensiveLimit {
		return true
	}
	if p.expensive == p.site.ExpensiveLimit+1 {
		slog.Debug("expensive function limit reached", "limit", p.site.ExpensiveLimit)
		p.AddTrackingCategory(expensiveCategory)
	}
	return false
}

// Categories returns the categories added so far.
func (p *Parser) Categories() []string {
	out := make([]string, len(p.categories))
	copy(out, p.categories)
	return out
}

// SetCategories replaces the category list.
func (p *Parser) SetCategories(categories []string) {
	p.categories = make([]string, len(categories))
	copy(p.categories, categories)
}

func (p *Parser) addCategory(name string) {
	for _, c := range p.categories {
		if c == name {
			return
		}
	}
	p.categories = append(p.categories, name)
}

// AddTrackingCategory adds the category the site names for key.
func (p *Parser) AddTrackingCategory(name string) {
	p.addCategory(p.site.trackingName(name))
}

// AddImage records a file used by the page.
func (p *Parser) AddImage(file *host.File) {
	for _, name := range p.images {
		if name == file.Name {
			return
		}
	}
	p.images = append(p.images, file.Name)
}

// UpdateCacheExpiry lowers the cache lifetime of the output to seconds.
func (p *Parser) UpdateCacheExpiry(seconds int) {
	if p.cacheExpiry == 0 || seconds < p.cacheExpiry {
		p.cacheExpiry = seconds
	}
}

// RecursiveTagParse expands text in frame and converts tables and links.
func (p *Parser) RecursiveTagParse(text string, frame host.Frame) string {
	tree := p.Preprocess(text, frame.Depth() > 0)
	return p.internalParse(frame.Expand(tree, 0))
}

// RecursiveTagParseFully parses text at the top level and restores its markers.
func (p *Parser) RecursiveTagParseFully(text string) string {
	return p.Finalize(p.RecursiveTagParse(text, newRootFrame(p)))
}

// Finalize restores every strip marker in text and resolves nowiki markup.
func (p *Parser) Finalize(text string) string {
	return finalize(p.strip.Unstrip(text))
}

// InsertStripItem implements strip.Inserter.
func (p *Parser) InsertStripItem(text string) string {
	return p.strip.InsertStripItem(text)
}

// Preprocess implements host.Parser.
func (p *Parser) Preprocess(text string, forInclusion bool) *preprocessor.Tree {
	return preprocessor.Parse(text, preprocessor.Options{
		ForInclusion:  forInclusion,
		ExtensionTags: p.engine.tagNames(),
	})
}

// IsPreview reports whether the render is a preview.
func (p *Parser) IsPreview() bool {
	return p.preview
}

// Skin returns the skin name of the site.
func (p *Parser) Skin() string {
	return p.site.Skin
}

// RequestValue returns a request parameter, or def when it is not set.
func (p *Parser) RequestValue(name, def string) string {
	if value, ok := p.site.Request[name]; ok {
		return value
	}
	return def
}

// Rand returns the random source of the render.
func (p *Parser) Rand() *rand.Rand {
	return p.rng
}
