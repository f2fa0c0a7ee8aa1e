package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

// run executes the root command with a config path that does not exist and
// logging disabled.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	missing := filepath.Join(t.TempDir(), "none.toml")
	return runWithConfig(t, missing, stdin, args...)
}

func runWithConfig(t *testing.T, configPath, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", configPath, "--log-file="}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	config, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if config.CleanTable.ProtectRows != 1 || !config.CleanTable.CleanImages || config.CleanSpace.Mode != "original" {
		t.Errorf("Unexpected defaults: %+v", config)
	}

	path := writeFile(t, "config.toml", "[core]\nskin = \"timeless\"\n\n[cleantable]\nprotect_rows = 2\n")
	config, err = LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Core.Skin != "timeless" || config.CleanTable.ProtectRows != 2 {
		t.Errorf("Expected file values to apply, got %+v", config)
	}
	if !config.CleanTable.CleanImages || config.Core.Title != "Main Page" {
		t.Errorf("Expected unset values to keep their defaults, got %+v", config)
	}

	broken := writeFile(t, "broken.toml", "[core\n")
	if _, err := LoadConfigFromFile(broken); err == nil {
		t.Errorf("Expected an error for a broken file")
	}
}

func TestCleanTableCommand(t *testing.T) {
	input := "<table><tr><th>H</th></tr><tr><td></td></tr><tr><td>x</td></tr></table>"

	out, _, err := run(t, input, "cleantable")
	if err != nil {
		t.Fatalf("cleantable failed: %v", err)
	}
	if !strings.Contains(out, "<th>H</th>") || !strings.Contains(out, "<td>x</td>") {
		t.Errorf("Expected the filled rows to stay, got %q", out)
	}
	if strings.Contains(out, "<td></td>") {
		t.Errorf("Expected the empty row to be removed, got %q", out)
	}

	out, _, err = run(t, "a<table><tr><td></td></tr></table>b", "cleantable", "--protect-rows", "0")
	if err != nil {
		t.Fatalf("cleantable failed: %v", err)
	}
	if out != "ab" {
		t.Errorf("Expected 'ab', got %q", out)
	}
}

func TestCleanTableFromConfig(t *testing.T) {
	config := writeFile(t, "config.toml", "[cleantable]\nprotect_rows = 0\n")
	out, _, err := runWithConfig(t, config, "a<table><tr><td></td></tr></table>b", "cleantable")
	if err != nil {
		t.Fatalf("cleantable failed: %v", err)
	}
	if out != "ab" {
		t.Errorf("Expected the configured protection to apply, got %q", out)
	}

	out, _, err = runWithConfig(t, config, "a<table><tr><td></td></tr></table>b", "cleantable", "--protect-rows", "1")
	if err != nil {
		t.Fatalf("cleantable failed: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("Expected the flag to override the config, got %q", out)
	}
}

func TestCleanSpaceCommand(t *testing.T) {
	testCases := []struct {
		args     []string
		input    string
		expected string
	}{
		{[]string{"cleanspace"}, "{{a}} \n {{b}}\n", "{{a}}{{b}}"},
		{[]string{"cleanspace", "--mode", "top"}, "x {{a}} y", "x{{a}}y"},
		{[]string{"cleanspace", "-m", "recursive"}, "{{a| b }}", "{{a|b}}"},
		{[]string{"cleanspace", "-m", "top"}, "{{a| b }}", "{{a| b }}"},
	}

	for _, tc := range testCases {
		out, _, err := run(t, tc.input, tc.args...)
		if err != nil {
			t.Fatalf("%v failed: %v", tc.args, err)
		}
		if out != tc.expected {
			t.Errorf("%v on %q: expected %q, got %q", tc.args, tc.input, tc.expected, out)
		}
	}
}

func TestTrimLinksCommand(t *testing.T) {
	out, _, err := run(t, "[[Foo|bar]] and [[Baz]] [[Category:X]]", "trimlinks")
	if err != nil {
		t.Fatalf("trimlinks failed: %v", err)
	}
	if out != "bar and Baz [[Category:X]]" {
		t.Errorf("Expected 'bar and Baz [[Category:X]]', got %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	out, _, err := run(t, "{{#rand:4|4}} {{SKIN}}", "render", "--skin", "monobook")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "4 monobook" {
		t.Errorf("Expected '4 monobook', got %q", out)
	}

	config := writeFile(t, "config.toml", "[core]\nskin = \"timeless\"\n")
	out, _, err = runWithConfig(t, config, "{{SKIN}}", "render")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "timeless" {
		t.Errorf("Expected the configured skin, got %q", out)
	}
}

func TestRenderSiteAndMeta(t *testing.T) {
	site := writeFile(t, "site.yaml", "pages:\n  Template:Hi: \"Hi {{{1}}}[[Category:Greetings]]\"\n  Home: \"{{Hi|there}}\"\n")

	out, stderr, err := run(t, "", "render", "--site", site, "--page", "Home", "--meta")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "Hi there" {
		t.Errorf("Expected 'Hi there', got %q", out)
	}
	if !strings.Contains(stderr, "Categories: Greetings") {
		t.Errorf("Expected the category on stderr, got %q", stderr)
	}

	if _, _, err := run(t, "", "render", "--site", site, "--page", "Nowhere"); err == nil {
		t.Errorf("Expected an error for a missing page")
	}
	if _, _, err := run(t, "", "render", "--site", filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Errorf("Expected an error for a missing site file")
	}
}

func TestInputAndTargetFiles(t *testing.T) {
	input := writeFile(t, "in.wiki", "{{a}}   {{b}}")
	target := filepath.Join(t.TempDir(), "out.wiki")

	out, _, err := run(t, "", "cleanspace", "-i", input, "-t", target)
	if err != nil {
		t.Fatalf("cleanspace failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read target: %v", err)
	}
	if string(data) != "{{a}}{{b}}" {
		t.Errorf("Expected '{{a}}{{b}}', got %q", string(data))
	}

	if _, _, err := run(t, "", "cleanspace", "-i", filepath.Join(t.TempDir(), "none.wiki")); err == nil {
		t.Errorf("Expected an error for a missing input file")
	}
}

func TestFunctionsCommand(t *testing.T) {
	out, _, err := run(t, "", "functions")
	if err != nil {
		t.Fatalf("functions failed: %v", err)
	}
	for _, name := range []string{"#splitargs", "<cleantable>", "SKIN"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in the listing, got %q", name, out)
		}
	}

	out, _, err = run(t, "", "functions", "--kind", "tag")
	if err != nil {
		t.Fatalf("functions failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 tags, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "  <cleanspace>  tag  ") {
		t.Errorf("Expected aligned columns, got %q", lines[0])
	}

	if _, _, err := run(t, "", "functions", "--kind", "macro"); err == nil {
		t.Errorf("Expected an error for an unknown kind")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "--version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "riven version: "+FullVersion+"\n" {
		t.Errorf("Unexpected version output %q", out)
	}
}
