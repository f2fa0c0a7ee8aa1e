package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Hanaasagi/riven/cmd"
	"github.com/Hanaasagi/riven/internal/logger"
)

const (
	appName     = "riven"
	defaultSize = 4096
)

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

var appDir = filepath.Join(xdg.StateHome, appName)

// app holds what the commands share: the merged configuration and the
// input and output locations.
type app struct {
	config      *Config
	configPath  string
	logFile     string
	inputFile   string
	target      string
	showVersion bool

	logCloser io.Closer
}

// readInput reads all of the input file, or of stdin when there is none.
func readInput(inputFile string, stdin io.Reader) (string, error) {
	reader := stdin
	if inputFile != "" {
		file, err := os.Open(inputFile)
		if err != nil {
			return "", fmt.Errorf("opening input file: %w", err)
		}
		defer file.Close() // nolint: errcheck
		reader = file
	}

	data, err := io.ReadAll(bufio.NewReaderSize(reader, defaultSize))
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

// writeOutput writes content to the target file, or to stdout when there is
// none.
func writeOutput(target, content string, stdout io.Writer) error {
	if target == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating target file: %w", err)
	}
	defer file.Close() // nolint: errcheck

	writer := bufio.NewWriterSize(file, defaultSize)
	if _, err := writer.WriteString(content); err != nil {
		return fmt.Errorf("writing to target file: %w", err)
	}
	return writer.Flush()
}

// setup loads the config file and starts logging before any command runs.
func (a *app) setup(_ *cobra.Command, _ []string) error {
	config, err := LoadConfigFromFile(a.configPath)
	if err != nil {
		return err
	}
	a.config = config

	if a.logFile != "" {
		closer, err := logger.InitLogger(a.logFile, config.Core.LogLevel)
		if err != nil {
			return err
		}
		a.logCloser = closer
	}
	slog.Debug("config loaded", "path", a.configPath)
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// input reads the command input.
func (a *app) input(c *cobra.Command) (string, error) {
	return readInput(a.inputFile, c.InOrStdin())
}

// output writes the command output.
func (a *app) output(c *cobra.Command, content string) error {
	return writeOutput(a.target, content, c.OutOrStdout())
}

func newRootCmd() *cobra.Command {
	a := &app{config: NewDefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Wiki template functions for cleaning tables, whitespace and links",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Parser functions and tags for wiki templates, usable from the shell. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE: func(c *cobra.Command, args []string) error {
			if a.showVersion {
				fmt.Fprintf(c.OutOrStdout(), "%s version: %s\n", appName, FullVersion)
				return nil
			}
			return c.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", filepath.Join(xdg.ConfigHome, appName, "config.toml"), "Read settings from this TOML file")
	flags.StringVar(&a.logFile, "log-file", filepath.Join(appDir, appName+".log"), "Write logs to this file, nothing when empty")
	flags.StringVarP(&a.inputFile, "input-file", "i", "", "Read input from file instead of stdin")
	flags.StringVarP(&a.target, "target", "t", "", "Write output to the specified path instead of stdout")
	rootCmd.Flags().BoolVarP(&a.showVersion, "version", "v", false, "Print version and exit")

	rootCmd.AddGroup(
		&cobra.Group{ID: "wiki", Title: "Wiki Commands:"},
		&cobra.Group{ID: "info", Title: "Info Commands:"},
	)
	rootCmd.AddCommand(
		a.renderCmd(),
		a.cleanTableCmd(),
		a.cleanSpaceCmd(),
		a.trimLinksCmd(),
		a.functionsCmd(),
	)

	rootCmd.SetHelpFunc(cmd.ColorHelpFunc)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return cmd.ColorUsageFunc(c.OutOrStderr(), c)
	})
	return rootCmd
}

func main() {
	if err := os.MkdirAll(appDir, 0o755); err == nil {
		if f, err := os.Create(filepath.Join(appDir, "crash")); err == nil {
			_ = debug.SetCrashOutput(f, debug.CrashOptions{})
		}
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Error executing command", "error", err)
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
