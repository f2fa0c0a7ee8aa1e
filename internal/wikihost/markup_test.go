package wikihost

import (
	"path/filepath"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	site, err := LoadSite(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("Failed to load site: %v", err)
	}
	return NewEngine(site)
}

func TestConvertTables(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "header and empty data row",
			input:    "{|\n! H\n|-\n| \n|}",
			expected: "<table>\n<tr>\n<th>H</th>\n</tr>\n<tr>\n<td></td>\n</tr>\n</table>",
		},
		{
			name:     "inline cells",
			input:    "{| class=\"wikitable\"\n| a || b\n!x!!y\n|}",
			expected: "<table class=\"wikitable\">\n<tr>\n<td>a</td>\n<td>b</td>\n<th>x</th>\n<th>y</th>\n</tr>\n</table>",
		},
		{
			name:     "cell and row attributes",
			input:    "{|\n|- class=\"r\"\n| style=\"x\" | a\n|}",
			expected: "<table>\n<tr class=\"r\">\n<td style=\"x\">a</td>\n</tr>\n</table>",
		},
		{
			name:     "pipe inside a link is content",
			input:    "{|\n| [[Foo|bar]]\n|}",
			expected: "<table>\n<tr>\n<td>[[Foo|bar]]</td>\n</tr>\n</table>",
		},
		{
			name:     "caption",
			input:    "{|\n|+ Cap\n|a\n|}",
			expected: "<table>\n<caption>Cap</caption>\n<tr>\n<td>a</td>\n</tr>\n</table>",
		},
		{
			name:     "multi-line cell",
			input:    "{|\n|a\nmore\n|}",
			expected: "<table>\n<tr>\n<td>a\nmore</td>\n</tr>\n</table>",
		},
		{
			name:     "empty rows are dropped",
			input:    "{|\n|-\n|-\n|a\n|-\n|}",
			expected: "<table>\n<tr>\n<td>a</td>\n</tr>\n</table>",
		},
		{
			name:     "surrounding text",
			input:    "x\n{|\n|a\n|}\ny",
			expected: "x\n<table>\n<tr>\n<td>a</td>\n</tr>\n</table>\ny",
		},
		{
			name:     "nested table",
			input:    "{|\n|a\n{|\n|b\n|}\n|}",
			expected: "<table>\n<tr>\n<td>a\n<table>\n<tr>\n<td>b</td>\n</tr>\n</table>\n</td>\n</tr>\n</table>",
		},
		{
			name:     "no table",
			input:    "| not a cell\n! nor this",
			expected: "| not a cell\n! nor this",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := convertTables(tc.input)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestConvertLinks(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"[[Help:Contents|help]]", `<a href="/wiki/Help:Contents" title="Help:Contents">help</a>`},
		{"[[Missing]]", `<a href="/wiki/Missing" class="new" title="Missing">Missing</a>`},
		{"[[Page#Sec tion]]", `<a href="/wiki/Page#Sec_tion" class="new" title="Page">Page#Sec tion</a>`},
		{"[[:Category:Birds]]", `<a href="/wiki/Category:Birds" class="new" title="Category:Birds">Category:Birds</a>`},
		{"[[wikipedia:Go]]", `<a href="/wiki/wikipedia:Go" class="extiw" title="wikipedia:Go">wikipedia:Go</a>`},
		{"[[Special:Upload]]", `<a href="/wiki/Special:Upload" title="Special:Upload">Special:Upload</a>`},
		{"[[Special:Nothing]]", `<a href="/wiki/Special:Nothing" class="new" title="Special:Nothing">Special:Nothing</a>`},
		{"[[File:Logo.png|thumb|A logo]]", `<a href="/wiki/File:Logo.png" class="image"><img alt="A logo" src="/images/Logo.png"></a>`},
		{"[[File:Gone.png]]", `<a href="/wiki/File:Gone.png" class="new">File:Gone.png</a>`},
		{"[[Media:Logo.png|get it]]", `<a href="/images/Logo.png" class="internal" title="Media:Logo.png">get it</a>`},
		{"[[a{b]]", "[[a{b]]"},
	}

	e := newTestEngine(t)
	for _, tc := range testCases {
		out, err := e.Render("Test", tc.input, RenderOptions{})
		if err != nil {
			t.Fatalf("Render(%q) failed: %v", tc.input, err)
		}
		if out.HTML != tc.expected {
			t.Errorf("Render(%q): expected %q, got %q", tc.input, tc.expected, out.HTML)
		}
	}
}

func TestCategoryLinks(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.Render("Test", "x[[Category:Birds|B]]y[[category:birds]][[Category:Fish]]", RenderOptions{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if out.HTML != "xy" {
		t.Errorf("Expected 'xy', got %q", out.HTML)
	}
	if len(out.Categories) != 2 || out.Categories[0] != "Birds" || out.Categories[1] != "Fish" {
		t.Errorf("Expected categories [Birds Fish], got %v", out.Categories)
	}
}

func TestImagesAreRecorded(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.Render("Test", "[[File:Logo.png]][[Image:Logo.png]]", RenderOptions{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out.Images) != 1 || out.Images[0] != "Logo.png" {
		t.Errorf("Expected images [Logo.png], got %v", out.Images)
	}
}

func TestFinalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"a<nowiki/>b", "ab"},
		{"a<nowiki />b", "ab"},
		{"<nowiki><i>x</i></nowiki>", "&lt;i&gt;x&lt;/i&gt;"},
		{"<NOWIKI>a&amp;b</NOWIKI>", "a&amp;b"},
		{"plain", "plain"},
	}

	for _, tc := range testCases {
		if result := finalize(tc.input); result != tc.expected {
			t.Errorf("finalize(%q): expected %q, got %q", tc.input, tc.expected, result)
		}
	}
}
