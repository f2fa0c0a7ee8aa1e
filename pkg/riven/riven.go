// Package riven implements a set of parser functions and tags for wiki
// templates.
//
// Functions: #arg, #explodeargs, #findfirst, #ifexistx, #include, #pickfrom,
// #rand, #splitargs and #trimlinks. Tags: <cleanspace> and <cleantable>.
// Variable: {{SKIN}}.
//
// None of them fail: bad input gives empty or unchanged text so that a page
// always renders.
//
// Example usage:
//
//	riven.Register(engine)
package riven

import (
	"github.com/Hanaasagi/riven/pkg/host"
)

// Kind tells functions, tags and variables apart.
type Kind int

const (
	KindFunction Kind = iota
	KindTag
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindVariable:
		return "variable"
	default:
		return "function"
	}
}

// Entry binds a keyword to its implementation.
type Entry struct {
	Name  string
	Kind  Kind
	Usage string

	Function host.FunctionHook
	Tag      host.TagHook
	Variable host.VariableHook
}

// Entries lists everything Register binds, in name order within each kind.
func Entries() []Entry {
	return []Entry{
		{Name: "arg", Kind: KindFunction, Usage: "{{#arg:name|default}}", Function: Arg},
		{Name: "explodeargs", Kind: KindFunction, Usage: "{{#explodeargs:list|separator|Template|n}}", Function: ExplodeArgs},
		{Name: "findfirst", Kind: KindFunction, Usage: "{{#findfirst:page|page|...}}", Function: FindFirst},
		{Name: "ifexistx", Kind: KindFunction, Usage: "{{#ifexistx:page|then|else}}", Function: IfExistX},
		{Name: "include", Kind: KindFunction, Usage: "{{#include:Template|Template|...}}", Function: Include},
		{Name: "pickfrom", Kind: KindFunction, Usage: "{{#pickfrom:n|item|item|...}}", Function: PickFrom},
		{Name: "rand", Kind: KindFunction, Usage: "{{#rand:low|high}}", Function: Rand},
		{Name: "splitargs", Kind: KindFunction, Usage: "{{#splitargs:Template|n|value|value|...}}", Function: SplitArgs},
		{Name: "trimlinks", Kind: KindFunction, Usage: "{{#trimlinks:text}}", Function: TrimLinks},
		{Name: "cleanspace", Kind: KindTag, Usage: "<cleanspace mode=top>...</cleanspace>", Tag: CleanSpace},
		{Name: "cleantable", Kind: KindTag, Usage: "<cleantable protectrows=1>...</cleantable>", Tag: CleanTable},
		{Name: "SKIN", Kind: KindVariable, Usage: "{{SKIN}}", Variable: SkinName},
	}
}

// Register binds every entry in r.
func Register(r host.Registry) {
	for _, e := range Entries() {
		switch e.Kind {
		case KindFunction:
			r.SetFunctionHook(e.Name, e.Function)
		case KindTag:
			r.SetHook(e.Name, e.Tag)
		case KindVariable:
			r.SetVariable(e.Name, e.Variable)
		}
	}
}
