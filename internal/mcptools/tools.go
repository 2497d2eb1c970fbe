package mcptools

import (
	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/contextmap"
	"github.com/symgraph/symgraph/internal/deps"
	"github.com/symgraph/symgraph/internal/graph"
)

// --- MCP Tool Input/Output Types ---
// These structs define the JSON schema for each MCP tool. The MCP Go SDK
// auto-generates JSON schemas from struct tags.

// AnalyzeFileInput is the input for the analyze_file MCP tool.
type AnalyzeFileInput struct {
	Path    string `json:"path" jsonschema:"absolute path of the file to analyze"`
	Content string `json:"content,omitempty" jsonschema:"optional in-memory source; when set the file is not read from disk"`
}

// AnalyzeFileOutput is the result of the analyze_file MCP tool.
type AnalyzeFileOutput struct {
	Result *symgraph.AnalysisResult `json:"result"`
}

// AnalyzeDirectoryInput is the input for the analyze_directory MCP tool.
type AnalyzeDirectoryInput struct {
	Path string `json:"path" jsonschema:"absolute path of the directory to analyze recursively"`
}

// AnalyzeDirectoryOutput is the result of the analyze_directory MCP tool.
type AnalyzeDirectoryOutput struct {
	Results []*symgraph.AnalysisResult `json:"results"`
	Stats   graph.GraphStats           `json:"stats"`
}

// SymbolContextInput is the input for the get_symbol_context MCP tool.
type SymbolContextInput struct {
	Path   string `json:"path" jsonschema:"file the symbol is declared in"`
	Symbol string `json:"symbol" jsonschema:"symbol name to look up"`
}

// SymbolContextOutput is the result of the get_symbol_context MCP tool.
type SymbolContextOutput struct {
	Context *contextmap.Context `json:"context,omitempty"`
	Usages  []contextmap.Usage  `json:"usages,omitempty"`
	Found   bool                `json:"found"`
}

// RelationshipsInput is the input for the get_relationships MCP tool.
type RelationshipsInput struct {
	Path   string `json:"path" jsonschema:"file whose relationships to return"`
	Symbol string `json:"symbol,omitempty" jsonschema:"optional symbol name to filter by"`
}

// RelationshipsOutput is the result of the get_relationships MCP tool.
type RelationshipsOutput struct {
	Relationships []contextmap.Relationship `json:"relationships"`
}

// CrossFileRefsInput is the input for the get_cross_file_references MCP tool.
type CrossFileRefsInput struct {
	Path string `json:"path" jsonschema:"file whose incoming and outgoing references to return"`
}

// CrossFileRefsOutput is the result of the get_cross_file_references MCP tool.
type CrossFileRefsOutput struct {
	Refs *contextmap.CrossFileRefs `json:"refs"`
}

// ModuleGraphInput is the input for the get_module_graph MCP tool.
type ModuleGraphInput struct {
	Format string `json:"format,omitempty" jsonschema:"output format: json (default) or mermaid"`
}

// ModuleGraphOutput is the result of the get_module_graph MCP tool.
type ModuleGraphOutput struct {
	Graph   *contextmap.GraphView `json:"graph,omitempty"`
	Mermaid string                `json:"mermaid,omitempty"`
}

// CircularDepsInput is the input for the find_circular_dependencies MCP tool.
type CircularDepsInput struct{}

// CircularDepsOutput is the result of the find_circular_dependencies MCP tool.
type CircularDepsOutput struct {
	Cycles [][]string `json:"cycles"`
}

// UnusedExportsInput is the input for the find_unused_exports MCP tool.
type UnusedExportsInput struct{}

// UnusedExportsOutput is the result of the find_unused_exports MCP tool.
type UnusedExportsOutput struct {
	Unused []deps.UnusedExport `json:"unused"`
}

// AssessImpactInput is the input for the assess_impact MCP tool.
type AssessImpactInput struct {
	ChangedFiles []string `json:"changedFiles" jsonschema:"file paths that will be modified"`
}

// AssessImpactOutput is the result of the assess_impact MCP tool.
type AssessImpactOutput struct {
	Impact *deps.ImpactResult `json:"impact"`
}
