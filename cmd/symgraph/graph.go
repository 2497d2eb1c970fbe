package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/symgraph/symgraph/internal/contextmap"
	"github.com/symgraph/symgraph/internal/export"
)

var (
	flagFormat string
	flagFile   string
)

var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Print the module dependency graph",
	Long:  "Analyzes a directory and prints the file-level dependency graph, or one file's symbol graph with --file.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&flagFormat, "format", "mermaid", "output format: mermaid|json")
	graphCmd.Flags().StringVar(&flagFile, "file", "", "render one file's symbol graph instead of the module graph")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	target, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	session := newSession(target)
	if _, err := session.AnalyzeDirectory(cmd.Context(), target); err != nil {
		return fmt.Errorf("analyze %s: %w", target, err)
	}

	var view *contextmap.GraphView
	if flagFile != "" {
		view = session.SymbolGraph(flagFile)
	} else {
		view = session.ModuleGraph()
	}

	switch flagFormat {
	case "mermaid":
		fmt.Print(export.GenerateMermaid(view))
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	default:
		return fmt.Errorf("unknown format %q (want mermaid or json)", flagFormat)
	}
}
