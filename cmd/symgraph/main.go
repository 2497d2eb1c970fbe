// symgraph analyzes multi-language codebases into a typed relationship
// graph and answers dependency and symbol queries over it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/config"
)

// version is set by goreleaser at build time.
var version = "dev"

var (
	flagRoot     string
	flagWorkers  int
	flagLogLevel string
	flagVerbose  bool
)

// settings is populated by PersistentPreRunE before any subcommand runs.
var settings *config.Settings

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "symgraph",
	Short:         "Source code intelligence over a typed relationship graph",
	Long:          "symgraph parses JavaScript, TypeScript, Python, Go and Rust with tree-sitter, extracts symbols and module dependencies, and answers structural queries: relationships, cross-file references, cycles, unused exports and change impact.",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(".")
		if err != nil {
			return err
		}
		if flagRoot != "" {
			settings.Root = flagRoot
		}
		if flagWorkers > 0 {
			settings.Workers = flagWorkers
		}
		if flagLogLevel != "" {
			settings.LogLevel = flagLogLevel
		}
		if flagVerbose {
			settings.LogLevel = "debug"
		}
		return setupLogging(settings.LogLevel)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root for package resolution (default: analyzed directory)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "parallel parse workers (default: GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level debug")
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return nil
}

// newSession builds a Session for the given target directory, defaulting
// the resolution root to the target when not configured.
func newSession(target string) *symgraph.Session {
	root := settings.Root
	if root == "" {
		root = target
	}
	return symgraph.NewSession(symgraph.Config{
		Root:       root,
		Extensions: settings.Extensions,
		Workers:    settings.Workers,
		Logger:     slog.Default(),
	})
}

// resolveTargetDir returns the absolute path of the directory to analyze.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}
