package strip

import (
	"strings"
	"testing"
)

func TestInsertAndUnstrip(t *testing.T) {
	s := NewState()
	marker := s.InsertStripItem("<nowiki>x</nowiki>")

	if !strings.HasPrefix(marker, MarkerPrefix) || !strings.HasSuffix(marker, MarkerSuffix) {
		t.Fatalf("Expected marker delimiters, got %q", marker)
	}

	got := s.Unstrip("a " + marker + " b")
	if got != "a <nowiki>x</nowiki> b" {
		t.Errorf("Expected restored text, got %q", got)
	}
}

func TestUnstripNested(t *testing.T) {
	s := NewState()
	inner := s.InsertStripItem("inner")
	outer := s.InsertStripItem("[" + inner + "]")

	if got := s.Unstrip(outer); got != "[inner]" {
		t.Errorf("Expected nested markers restored, got %q", got)
	}
}

func TestUnstripUnknownMarker(t *testing.T) {
	s := NewState()
	unknown := MarkerPrefix + "item-FFFFFFFF" + MarkerSuffix

	if got := s.Unstrip(unknown); got != unknown {
		t.Errorf("Expected unknown marker untouched, got %q", got)
	}
}

func TestHasMarker(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain", "hello", false},
		{"prefix only", MarkerPrefix + "item-1", false},
		{"suffix before prefix", MarkerSuffix + MarkerPrefix, false},
		{"complete", "x" + MarkerPrefix + "item-1" + MarkerSuffix, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMarker(tt.text); got != tt.want {
				t.Errorf("HasMarker(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestUnstripDeepNesting(t *testing.T) {
	s := NewState()
	text := "core"
	for i := 0; i < 50; i++ {
		text = "(" + s.InsertStripItem(text) + ")"
	}

	got := s.Unstrip(text)
	if HasMarker(got) {
		t.Fatalf("Expected every level restored, got %q", got)
	}
	if want := strings.Repeat("(", 50) + "core" + strings.Repeat(")", 50); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestUnstripCycle(t *testing.T) {
	s := NewState()
	// The first item is given the marker the state hands out next.
	next := MarkerPrefix + "item-00000001" + MarkerSuffix
	s.InsertStripItem("a" + next)
	second := s.InsertStripItem("b" + MarkerPrefix + "item-00000000" + MarkerSuffix)
	if second != next {
		t.Fatalf("Expected marker %q, got %q", next, second)
	}

	got := s.Unstrip(second)
	if !strings.HasPrefix(got, "bab") || !HasMarker(got) {
		t.Errorf("Expected the cycle to stop with a marker left, got %q", got)
	}
}
