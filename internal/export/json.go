// Package export renders analysis results as JSON reports and Mermaid
// diagrams.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/symgraph/symgraph/internal/deps"
	"github.com/symgraph/symgraph/internal/graph"
	"github.com/symgraph/symgraph/internal/syntax"
)

// FileReport is the per-file slice of a Report.
type FileReport struct {
	File         string              `json:"file"`
	Language     syntax.Language     `json:"language"`
	HasErrors    bool                `json:"hasErrors"`
	ErrorDetails []syntax.ParseError `json:"errorDetails,omitempty"`
	SymbolCount  int                 `json:"symbolCount"`
}

// Report is the top-level JSON export of one analysis session.
type Report struct {
	GeneratedAt    string                      `json:"generatedAt"`
	Root           string                      `json:"root,omitempty"`
	PackageManager string                      `json:"packageManager,omitempty"`
	Files          []FileReport                `json:"files"`
	Graph          graph.GraphStats            `json:"graph"`
	Modules        deps.ProjectStats           `json:"modules"`
	Cycles         [][]string                  `json:"cycles,omitempty"`
	UnusedExports  []deps.UnusedExport         `json:"unusedExports,omitempty"`
	Unresolved     []deps.UnresolvedDependency `json:"unresolved,omitempty"`
}

// NewReport stamps a Report with the generation time.
func NewReport(root string) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Root:        root,
	}
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteJSONFile writes the report to a file, creating or truncating it.
func WriteJSONFile(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJSON(f, report); err != nil {
		return err
	}
	return f.Close()
}
