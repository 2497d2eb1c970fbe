// Package mcptools exposes the analysis session as MCP tools over a
// streamable HTTP transport.
package mcptools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/export"
)

// Service adapts one analysis session to MCP tool handlers.
type Service struct {
	session *symgraph.Session
}

// NewService wraps a session for MCP exposure.
func NewService(session *symgraph.Session) *Service {
	return &Service{session: session}
}

// AnalyzeFile analyzes a single file, from disk or from inline content.
func (s *Service) AnalyzeFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeFileInput,
) (*mcp.CallToolResult, AnalyzeFileOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeFileOutput{}, fmt.Errorf("path is required")
	}

	var content []byte
	if input.Content != "" {
		content = []byte(input.Content)
	}
	result, err := s.session.AnalyzeFile(ctx, input.Path, content)
	if err != nil {
		return nil, AnalyzeFileOutput{}, err
	}
	return nil, AnalyzeFileOutput{Result: result}, nil
}

// AnalyzeDirectory analyzes every supported file under a directory.
func (s *Service) AnalyzeDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeDirectoryInput,
) (*mcp.CallToolResult, AnalyzeDirectoryOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeDirectoryOutput{}, fmt.Errorf("path is required")
	}
	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, AnalyzeDirectoryOutput{}, fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return nil, AnalyzeDirectoryOutput{}, fmt.Errorf("path is not a directory: %s", input.Path)
	}

	results, err := s.session.AnalyzeDirectory(ctx, input.Path)
	if err != nil {
		return nil, AnalyzeDirectoryOutput{}, err
	}
	return nil, AnalyzeDirectoryOutput{
		Results: results,
		Stats:   s.session.Graph().Stats(),
	}, nil
}

// SymbolContext returns a symbol's declaration context and use sites.
func (s *Service) SymbolContext(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SymbolContextInput,
) (*mcp.CallToolResult, SymbolContextOutput, error) {
	if input.Path == "" || input.Symbol == "" {
		return nil, SymbolContextOutput{}, fmt.Errorf("path and symbol are required")
	}

	ctx, ok := s.session.SymbolContext(input.Path, input.Symbol)
	out := SymbolContextOutput{Found: ok}
	if ok {
		out.Context = ctx
		out.Usages = s.session.SymbolUsage(input.Path, input.Symbol)
	}
	return nil, out, nil
}

// Relationships returns graph relationships touching a file.
func (s *Service) Relationships(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RelationshipsInput,
) (*mcp.CallToolResult, RelationshipsOutput, error) {
	if input.Path == "" {
		return nil, RelationshipsOutput{}, fmt.Errorf("path is required")
	}
	rels := s.session.Relationships(input.Path, input.Symbol)
	return nil, RelationshipsOutput{Relationships: rels}, nil
}

// CrossFileRefs returns a file's incoming and outgoing references.
func (s *Service) CrossFileRefs(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CrossFileRefsInput,
) (*mcp.CallToolResult, CrossFileRefsOutput, error) {
	if input.Path == "" {
		return nil, CrossFileRefsOutput{}, fmt.Errorf("path is required")
	}
	refs := s.session.CrossFileReferences(input.Path)
	return nil, CrossFileRefsOutput{Refs: refs}, nil
}

// ModuleGraph returns the file dependency graph as JSON or Mermaid.
func (s *Service) ModuleGraph(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ModuleGraphInput,
) (*mcp.CallToolResult, ModuleGraphOutput, error) {
	view := s.session.ModuleGraph()
	if strings.EqualFold(input.Format, "mermaid") {
		return nil, ModuleGraphOutput{Mermaid: export.GenerateMermaid(view)}, nil
	}
	return nil, ModuleGraphOutput{Graph: view}, nil
}

// CircularDeps reports import cycles among analyzed files.
func (s *Service) CircularDeps(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CircularDepsInput,
) (*mcp.CallToolResult, CircularDepsOutput, error) {
	return nil, CircularDepsOutput{Cycles: s.session.FindCircularDependencies()}, nil
}

// UnusedExports reports exports no analyzed file imports.
func (s *Service) UnusedExports(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ UnusedExportsInput,
) (*mcp.CallToolResult, UnusedExportsOutput, error) {
	return nil, UnusedExportsOutput{Unused: s.session.FindUnusedExports()}, nil
}

// AssessImpact computes the blast radius of modifying a set of files.
func (s *Service) AssessImpact(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AssessImpactInput,
) (*mcp.CallToolResult, AssessImpactOutput, error) {
	if len(input.ChangedFiles) == 0 {
		return nil, AssessImpactOutput{}, fmt.Errorf("changedFiles is required")
	}
	impact := s.session.AssessImpact(input.ChangedFiles)
	return nil, AssessImpactOutput{Impact: impact}, nil
}
