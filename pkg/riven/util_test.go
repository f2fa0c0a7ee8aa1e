package riven

import "testing"

func TestIntval(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"42", 42},
		{"  42abc", 42},
		{"-7", -7},
		{"+3", 3},
		{"3.9", 3},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"99999999999999999999", 0},
	}

	for _, tc := range testCases {
		if result := intval(tc.input); result != tc.expected {
			t.Errorf("intval(%q): expected %d, got %d", tc.input, tc.expected, result)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{" 2.5 ", true},
		{"1e5", true},
		{".5", true},
		{"-3", true},
		{"5.", true},
		{"abc", false},
		{"", false},
		{"1a", false},
		{",", false},
		{"1,2", false},
	}

	for _, tc := range testCases {
		if result := isNumeric(tc.input); result != tc.expected {
			t.Errorf("isNumeric(%q): expected %v, got %v", tc.input, tc.expected, result)
		}
	}
}

func TestUnescapeC(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`\t`, "\t"},
		{`\x41\x4a`, "AJ"},
		{`\xZ`, "xZ"},
		{`\101`, "A"},
		{`\q`, "q"},
		{`\\`, `\`},
		{`end\`, `end\`},
	}

	for _, tc := range testCases {
		if result := unescapeC(tc.input); result != tc.expected {
			t.Errorf("unescapeC(%q): expected %q, got %q", tc.input, tc.expected, result)
		}
	}
}

func TestUnquote(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{`", "`, ", ", true},
		{`'x'`, "x", true},
		{"`y`", "y", true},
		{`''`, "", true},
		{`"x'`, `"x'`, false},
		{`"`, `"`, false},
		{`ab`, "ab", false},
	}

	for _, tc := range testCases {
		result, ok := unquote(tc.input)
		if result != tc.expected || ok != tc.ok {
			t.Errorf("unquote(%q): expected (%q, %v), got (%q, %v)", tc.input, tc.expected, tc.ok, result, ok)
		}
	}
}

func TestSeedValue(t *testing.T) {
	if seedValue("12") != 12 {
		t.Errorf("Expected a numeric seed to be used as is, got %d", seedValue("12"))
	}
	if seedValue(" abc ") != seedValue("abc") {
		t.Errorf("Expected seeds to be trimmed")
	}
	if seedValue("abc") == seedValue("abd") {
		t.Errorf("Expected different text seeds to differ")
	}
}

func TestEntries(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Entries() {
		if seen[e.Name] {
			t.Errorf("Duplicate entry %s", e.Name)
		}
		seen[e.Name] = true

		switch e.Kind {
		case KindFunction:
			if e.Function == nil {
				t.Errorf("Function %s has no implementation", e.Name)
			}
		case KindTag:
			if e.Tag == nil {
				t.Errorf("Tag %s has no implementation", e.Name)
			}
		case KindVariable:
			if e.Variable == nil {
				t.Errorf("Variable %s has no implementation", e.Name)
			}
		}
	}

	for _, name := range []string{"arg", "explodeargs", "findfirst", "ifexistx", "include", "pickfrom", "rand", "splitargs", "trimlinks", "cleanspace", "cleantable", "SKIN"} {
		if !seen[name] {
			t.Errorf("Missing entry %s", name)
		}
	}
}
