package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/symgraph/symgraph/internal/export"
)

var (
	flagOutput  string
	flagPersist bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a directory and emit a JSON report",
	Long:  "Recursively parses every supported source file, builds the relationship graph, and reports per-file results, graph statistics, cycles, unused exports and unresolved imports.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&flagPersist, "persist", false, "persist the graph to .symgraph/graph (KuzuDB)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	target, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	session := newSession(target)
	results, err := session.AnalyzeDirectory(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", target, err)
	}

	report := session.Report()

	output := flagOutput
	if output == "" {
		output = settings.Output
	}
	if output != "" {
		if err := export.WriteJSONFile(output, report); err != nil {
			return err
		}
	} else if err := export.WriteJSON(os.Stdout, report); err != nil {
		return err
	}

	if flagPersist {
		if err := persistGraph(cmd.Context(), target, session); err != nil {
			return fmt.Errorf("persist graph: %w", err)
		}
	}

	errored := 0
	for _, r := range results {
		if r.HasErrors {
			errored++
		}
	}
	fmt.Fprintf(os.Stderr, "Analyzed %d files (%d with errors) in %s\n",
		len(results), errored, time.Since(start).Round(time.Millisecond))
	return nil
}
