package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	color.NoColor = true
}

func TestColorFlags(t *testing.T) {
	raw := "  -i, --input-file string   Read input\n      --site string         Site file\nplain line"
	got := string(colorFlags(raw))
	if got != raw+"\n" {
		t.Errorf("Expected flags unchanged without colour, got %q", got)
	}
}

func TestColorUsageFunc(t *testing.T) {
	root := &cobra.Command{Use: "riven"}
	root.AddGroup(&cobra.Group{ID: "wiki", Title: "Wiki Commands:"})
	root.AddCommand(
		&cobra.Command{Use: "render", Short: "Render wikitext", GroupID: "wiki", Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "extra", Short: "Something else", Run: func(*cobra.Command, []string) {}},
	)
	root.PersistentFlags().StringP("target", "t", "", "Write output here")

	var buf bytes.Buffer
	if err := ColorUsageFunc(&buf, root); err != nil {
		t.Fatalf("ColorUsageFunc failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Usage:",
		"riven [command]",
		"Wiki Commands:",
		"render",
		"Render wikitext",
		"Additional Commands:",
		"extra",
		"-t, --target",
		`Use "riven [command] --help"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in usage, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "Wiki Commands:") > strings.Index(out, "Additional Commands:") {
		t.Errorf("Expected grouped commands before the others")
	}
}
