// Package host declares what the riven functions need from the wiki engine
// that runs them, and what they hand back.
//
// The engine owns rendering, caching, categories and link tracking. Functions
// receive a Parser for page-wide services and a Frame for the template call
// they are expanding, and return a Result.
package host

import (
	"math/rand/v2"

	"github.com/Hanaasagi/riven/pkg/preprocessor"
)

// ExpandFlags change how a Frame expands a node.
type ExpandFlags int

const (
	// RecoverOrig serializes nodes as their original text instead of
	// expanding them.
	RecoverOrig ExpandFlags = 1 << iota
)

// Result is what a function or tag hands back to the engine.
type Result struct {
	Text string
	// NoParse inserts Text as is. Without it Text is preprocessed and
	// expanded again in the calling frame.
	NoParse bool
	// NoWiki marks Text as final output that must not be touched again.
	NoWiki bool
	// IsHTML marks Text as HTML rather than wiki text.
	IsHTML bool
}

// Text is a Result holding text that is already expanded.
func Text(s string) Result {
	return Result{Text: s, NoParse: true}
}

// Frame is the expansion context of a single template call.
type Frame interface {
	// Expand turns a node into text in the context of this frame.
	Expand(node preprocessor.Node, flags ExpandFlags) string
	// Depth is 0 when rendering a page directly and grows with each
	// transclusion.
	Depth() int
	// SetVolatile marks the output of this frame as not cacheable.
	SetVolatile()
	// NumberedArguments returns the expanded anonymous arguments by position.
	NumberedArguments() map[int]string
	// NamedArguments returns the expanded named arguments.
	NamedArguments() map[string]string
}

// File is an uploaded file as seen through a Media: title.
type File struct {
	Name   string
	Exists bool
}

// Titles resolves page names.
type Titles interface {
	// NewTitle parses text into a title, using ns when no namespace prefix
	// is given. It reports false for text that is not a valid title.
	NewTitle(text string, ns Namespace) (*Title, bool)
	// FindVariantLink returns the title of an existing language variant of
	// title, or title itself.
	FindVariantLink(title *Title) *Title
	// CurrentTitle is the page being rendered.
	CurrentTitle() *Title
}

// Existence answers whether things exist, through the link cache where it can.
type Existence interface {
	// GoodLinkID returns the page id cached for a known existing page, or 0.
	GoodLinkID(prefixedDBKey string) int
	// IsBadLink reports whether the page is cached as missing.
	IsBadLink(prefixedDBKey string) bool
	// PageExists looks the page up without the cache.
	PageExists(title *Title) bool
	// FindFile looks up the file behind a Media: title, or returns nil.
	FindFile(title *Title) *File
	// SpecialPageExists reports whether a special page with that name exists.
	SpecialPageExists(name string) bool
	// IncrementExpensiveFunctionCount counts a costly lookup and reports
	// false once the page has used up its allowance.
	IncrementExpensiveFunctionCount() bool
}

// Output collects the page-level side effects of rendering.
type Output interface {
	Categories() []string
	SetCategories(categories []string)
	AddTrackingCategory(name string)
	AddImage(file *File)
	// UpdateCacheExpiry lowers the cache lifetime of the page to seconds.
	UpdateCacheExpiry(seconds int)
}

// Parser is the page renderer.
type Parser interface {
	Titles
	Existence
	Output

	// RecursiveTagParse expands text in frame and converts its markup to
	// HTML, leaving strip markers in place.
	RecursiveTagParse(text string, frame Frame) string
	// RecursiveTagParseFully is RecursiveTagParse followed by unstripping.
	RecursiveTagParseFully(text string) string
	// InsertStripItem hides text behind an opaque marker.
	InsertStripItem(text string) string
	// Preprocess builds the node tree for text.
	Preprocess(text string, forInclusion bool) *preprocessor.Tree

	// IsPreview reports whether the page is being previewed.
	IsPreview() bool
	// Skin is the name of the skin the page is viewed with.
	Skin() string
	// RequestValue returns a parameter of the current request, or def.
	RequestValue(name, def string) string
	// Rand is the random source for the current render.
	Rand() *rand.Rand
}

// FunctionHook implements a parser function such as {{#rand:...}}. args[0]
// is the expanded text after the colon; the rest are unexpanded parts.
type FunctionHook func(p Parser, f Frame, args []preprocessor.Node) Result

// TagHook implements a tag such as <cleantable>.
type TagHook func(input string, attrs map[string]string, p Parser, f Frame) Result

// VariableHook implements a variable such as {{SKIN}}.
type VariableHook func(p Parser, f Frame) string

// Registry is where functions, tags and variables are bound to keywords.
type Registry interface {
	SetFunctionHook(name string, hook FunctionHook)
	SetHook(tag string, hook TagHook)
	SetVariable(name string, hook VariableHook)
}
