// Package cmd renders coloured help and usage text for the riven commands.
//
// nolint:errcheck
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleStyle       = color.New(color.Bold, color.FgHiWhite)
	commandStyle     = color.New(color.FgHiGreen)
	descriptionStyle = color.New(color.FgHiCyan)
	exampleStyle     = color.New(color.FgHiCyan)
	flagStyle        = color.New(color.Bold, color.FgHiCyan)
	tipStyle         = color.New(color.FgHiYellow)
	groupTitleStyle  = color.New(color.Bold, color.FgHiMagenta)
)

// ProjectURL is printed at the end of every help page.
const ProjectURL = "https://github.com/Hanaasagi/riven"

// HelpTemplate prints the description followed by the usage text.
func HelpTemplate() string {
	return `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}` +
		titleStyle.Sprint("Project:") + color.New(color.FgYellow).Sprintln("\t"+ProjectURL)
}

func rpad(s string, padding int) string {
	return fmt.Sprintf("%-*s", padding, s)
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func listed(c *cobra.Command) bool {
	return c.IsAvailableCommand() || c.Name() == "help"
}

// writeCommands writes one line per listed command accepted by keep.
func writeCommands(buf *bytes.Buffer, cmds []*cobra.Command, keep func(*cobra.Command) bool) {
	for _, sub := range cmds {
		if !listed(sub) || !keep(sub) {
			continue
		}
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, rpad(sub.Name(), sub.NamePadding()))
		fmt.Fprint(buf, " ")
		descriptionStyle.Fprint(buf, sub.Short)
	}
}

func section(buf *bytes.Buffer, style *color.Color, title string) {
	fmt.Fprint(buf, "\n\n")
	style.Fprint(buf, title)
}

var flagLine = regexp.MustCompile(`^( {2,})(?:(-[a-zA-Z]), )?(--[a-zA-Z0-9-]+)(.*)$`)

// colorFlags highlights the flag names of a pflag usage listing. The short
// form is coloured when there is one, the long form otherwise.
func colorFlags(raw string) []byte {
	var out bytes.Buffer
	for _, line := range strings.Split(raw, "\n") {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		indent, short, long, rest := m[1], m[2], m[3], m[4]
		out.WriteString(indent)
		if short != "" {
			flagStyle.Fprint(&out, short)
			out.WriteString(", " + long)
		} else {
			flagStyle.Fprint(&out, long)
		}
		out.WriteString(rest)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// ColorUsageFunc writes the usage of cmd to w with commands, flags and
// section titles coloured.
func ColorUsageFunc(w io.Writer, cmd *cobra.Command) error {
	buf := &bytes.Buffer{}

	titleStyle.Fprint(buf, "Usage:")
	if cmd.Runnable() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprintf(buf, "%s [command]", cmd.CommandPath())
	}

	if cmd.HasExample() {
		section(buf, titleStyle, "Examples:")
		fmt.Fprint(buf, "\n")
		exampleStyle.Fprint(buf, cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		cmds := cmd.Commands()
		if len(cmd.Groups()) == 0 {
			section(buf, titleStyle, "Available Commands:")
			writeCommands(buf, cmds, func(*cobra.Command) bool { return true })
		} else {
			for _, group := range cmd.Groups() {
				section(buf, groupTitleStyle, group.Title)
				id := group.ID
				writeCommands(buf, cmds, func(c *cobra.Command) bool { return c.GroupID == id })
			}

			ungrouped := func(c *cobra.Command) bool { return c.GroupID == "" }
			for _, sub := range cmds {
				if listed(sub) && ungrouped(sub) {
					section(buf, titleStyle, "Additional Commands:")
					writeCommands(buf, cmds, ungrouped)
					break
				}
			}
		}
	}

	if cmd.HasAvailableLocalFlags() {
		section(buf, titleStyle, "Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.LocalFlags().FlagUsages())))
	}

	if cmd.HasAvailableInheritedFlags() {
		section(buf, flagStyle, "Global Flags:")
		fmt.Fprint(buf, "\n")
		buf.Write(colorFlags(trimRightSpace(cmd.InheritedFlags().FlagUsages())))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprint(buf, "\n\n")
		tipStyle.Fprintf(buf, "Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath())
	}
	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// ColorHelpFunc prints the description and coloured usage of c.
func ColorHelpFunc(c *cobra.Command, _ []string) {
	out := c.OutOrStdout()
	if text := trimRightSpace(c.Long); text != "" {
		fmt.Fprintln(out, text)
		fmt.Fprintln(out)
	} else if c.Short != "" {
		fmt.Fprintln(out, c.Short)
		fmt.Fprintln(out)
	}
	ColorUsageFunc(out, c)
	titleStyle.Fprint(out, "Project:")
	color.New(color.FgYellow).Fprintln(out, "\t"+ProjectURL)
}
