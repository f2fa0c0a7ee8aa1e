package host

import (
	"testing"
)

func TestLookupNamespace(t *testing.T) {
	tests := []struct {
		name string
		want Namespace
		ok   bool
	}{
		{"Template", NSTemplate, true},
		{"template", NSTemplate, true},
		{" CATEGORY ", NSCategory, true},
		{"Image", NSFile, true},
		{"MediaWiki", NSMediaWiki, true},
		{"Media", NSMedia, true},
		{"Nope", NSMain, false},
		{"", NSMain, false},
	}

	for _, tt := range tests {
		got, ok := LookupNamespace(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupNamespace(%q): expected %v/%v, got %v/%v", tt.name, tt.want, tt.ok, got, ok)
		}
	}
}

func TestTitle_Prefixed(t *testing.T) {
	title := &Title{Namespace: NSTemplate, Text: "Info box"}
	if got := title.PrefixedText(); got != "Template:Info box" {
		t.Errorf("Expected Template:Info box, got %q", got)
	}
	if got := title.PrefixedDBKey(); got != "Template:Info_box" {
		t.Errorf("Expected Template:Info_box, got %q", got)
	}
	if got := title.DBKey(); got != "Info_box" {
		t.Errorf("Expected Info_box, got %q", got)
	}

	main := &Title{Text: "Foo"}
	if got := main.PrefixedText(); got != "Foo" {
		t.Errorf("Expected no prefix in the main namespace, got %q", got)
	}

	external := &Title{Interwiki: "wikipedia", Text: "Foo"}
	if !external.IsExternal() || external.PrefixedText() != "wikipedia:Foo" {
		t.Errorf("Expected an external title, got %q", external.PrefixedText())
	}
}
