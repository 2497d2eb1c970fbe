package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symgraph/symgraph"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles [path]",
	Short: "Report circular import dependencies",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCycles,
}

var unusedCmd = &cobra.Command{
	Use:   "unused [path]",
	Short: "Report exports no analyzed file imports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUnused,
}

var impactCmd = &cobra.Command{
	Use:   "impact <path> <changed-file>...",
	Short: "Report files affected by changing the given files",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runImpact,
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
	rootCmd.AddCommand(unusedCmd)
	rootCmd.AddCommand(impactCmd)
}

func runCycles(cmd *cobra.Command, args []string) error {
	session, err := analyzeTarget(cmd, args)
	if err != nil {
		return err
	}

	cycles := session.FindCircularDependencies()
	if len(cycles) == 0 {
		fmt.Fprintln(os.Stderr, "No circular dependencies found")
		return nil
	}
	for _, cycle := range cycles {
		fmt.Println(strings.Join(cycle, " -> "))
	}
	return nil
}

func runUnused(cmd *cobra.Command, args []string) error {
	session, err := analyzeTarget(cmd, args)
	if err != nil {
		return err
	}

	unused := session.FindUnusedExports()
	if len(unused) == 0 {
		fmt.Fprintln(os.Stderr, "No unused exports found")
		return nil
	}
	for _, u := range unused {
		name := u.Name
		if u.IsDefault {
			name += " (default)"
		}
		fmt.Printf("%s: %s\n", u.File, name)
	}
	return nil
}

func runImpact(cmd *cobra.Command, args []string) error {
	session, err := analyzeTarget(cmd, args[:1])
	if err != nil {
		return err
	}

	impact := session.AssessImpact(args[1:])
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(impact)
}

// analyzeTarget resolves the directory argument, runs a full analysis and
// returns the session for querying.
func analyzeTarget(cmd *cobra.Command, args []string) (*symgraph.Session, error) {
	target, err := resolveTargetDir(args)
	if err != nil {
		return nil, err
	}
	session := newSession(target)
	if _, err := session.AnalyzeDirectory(cmd.Context(), target); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", target, err)
	}
	return session, nil
}
