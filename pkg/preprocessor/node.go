// Package preprocessor builds the node tree that wiki text is expanded from.
//
// The tree has three kinds of nodes: Text holds literal text, Tree holds a
// named construct (a template call, a template argument, an extension tag, a
// comment) whose children are its parts, and Attr carries a named value such as
// the position of an anonymous template argument. Siblings are chained through
// NextSibling so walkers can move along a level and rewrite Text values in
// place.
//
// Example usage:
//
//	root := preprocessor.Parse("{{Infobox|name=[[Foo]]}}", preprocessor.Options{})
//	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
//		fmt.Println(n)
//	}
package preprocessor

import (
	"strings"
)

// Tree node names.
const (
	NameRoot     = "root"
	NameTemplate = "template"
	NameTplArg   = "tplarg"
	NameTitle    = "title"
	NamePart     = "part"
	NameName     = "name"
	NameValue    = "value"
	NameExt      = "ext"
	NameAttr     = "attr"
	NameInner    = "inner"
	NameClose    = "close"
	NameComment  = "comment"
	NameIgnore   = "ignore"
)

// LinkOpen is the text of the node that starts a wiki link.
const LinkOpen = "[["

// Node is an element of the preprocessor tree.
type Node interface {
	// NextSibling returns the node after this one on the same level, or nil.
	NextSibling() Node
	// String returns the wiki text the node was parsed from, reflecting any
	// changes made to Text values since.
	String() string

	setNext(Node)
}

type sibling struct {
	next Node
}

func (s *sibling) NextSibling() Node { return s.next }

func (s *sibling) setNext(n Node) { s.next = n }

// Text is a run of literal text.
type Text struct {
	sibling
	Value string

	// Link openers and link bodies never merge with neighbouring text.
	sealed bool
}

// NewText creates a text node.
func NewText(value string) *Text {
	return &Text{Value: value}
}

func (t *Text) String() string { return t.Value }

// Attr is a named value attached to a tree, such as the index of an anonymous
// template argument. It contributes no text.
type Attr struct {
	sibling
	Name  string
	Value string
}

// NewAttr creates an attribute node.
func NewAttr(name, value string) *Attr {
	return &Attr{Name: name, Value: value}
}

func (a *Attr) String() string { return "" }

// Tree is a named construct with child nodes.
type Tree struct {
	sibling
	Name string

	first Node
	last  Node
}

// NewTree creates a tree node with the given children.
func NewTree(name string, children ...Node) *Tree {
	t := &Tree{Name: name}
	for _, child := range children {
		t.AddChild(child)
	}
	return t
}

// FirstChild returns the first child, or nil.
func (t *Tree) FirstChild() Node {
	return t.first
}

// AddChild appends a node to the children.
func (t *Tree) AddChild(n Node) {
	n.setNext(nil)
	if t.last == nil {
		t.first = n
	} else {
		t.last.setNext(n)
	}
	t.last = n
}

// Children returns the children in order.
func (t *Tree) Children() []Node {
	var out []Node
	for n := t.first; n != nil; n = n.NextSibling() {
		out = append(out, n)
	}
	return out
}

// Child returns the first child tree with the given name, or nil.
func (t *Tree) Child(name string) *Tree {
	for n := t.first; n != nil; n = n.NextSibling() {
		if tree, ok := n.(*Tree); ok && tree.Name == name {
			return tree
		}
	}
	return nil
}

// appendText adds literal text, merging it into a preceding text node.
func (t *Tree) appendText(value string) {
	if value == "" {
		return
	}
	if last, ok := t.last.(*Text); ok && !last.sealed {
		last.Value += value
		return
	}
	t.AddChild(NewText(value))
}

// appendNode adds n, merging text with a preceding text node.
func (t *Tree) appendNode(n Node) {
	if text, ok := n.(*Text); ok && !text.sealed {
		t.appendText(text.Value)
		return
	}
	t.AddChild(n)
}

// String serializes the tree back to wiki text.
func (t *Tree) String() string {
	var sb strings.Builder
	switch t.Name {
	case NameTemplate, NameTplArg:
		open, close := "{{", "}}"
		if t.Name == NameTplArg {
			open, close = "{{{", "}}}"
		}
		sb.WriteString(open)
		for n := t.first; n != nil; n = n.NextSibling() {
			if tree, ok := n.(*Tree); ok && tree.Name == NamePart {
				sb.WriteByte('|')
			}
			sb.WriteString(n.String())
		}
		sb.WriteString(close)
	case NameExt:
		sb.WriteByte('<')
		sb.WriteString(childText(t, NameName))
		sb.WriteString(childText(t, NameAttr))
		sb.WriteByte('>')
		sb.WriteString(childText(t, NameInner))
		sb.WriteString(childText(t, NameClose))
	default:
		for n := t.first; n != nil; n = n.NextSibling() {
			sb.WriteString(n.String())
		}
	}
	return sb.String()
}

func childText(t *Tree, name string) string {
	if child := t.Child(name); child != nil {
		return child.String()
	}
	return ""
}

// IsLinkOpen reports whether n is the text node that opens a wiki link.
func IsLinkOpen(n Node) bool {
	text, ok := n.(*Text)
	return ok && text.Value == LinkOpen
}

// IsTree reports whether n is a tree with one of the given names.
func IsTree(n Node, names ...string) bool {
	tree, ok := n.(*Tree)
	if !ok {
		return false
	}
	for _, name := range names {
		if tree.Name == name {
			return true
		}
	}
	return false
}

// ExtName returns the lower-cased tag name of an extension node.
func (t *Tree) ExtName() string {
	return strings.ToLower(childText(t, NameName))
}

// ExtInner returns the inner text of an extension node and whether it has one.
func (t *Tree) ExtInner() (string, bool) {
	inner := t.Child(NameInner)
	if inner == nil {
		return "", false
	}
	return inner.String(), true
}

// ExtAttr returns the raw attribute text of an extension node.
func (t *Tree) ExtAttr() string {
	return childText(t, NameAttr)
}
