package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with all code intelligence tools
// registered against the given service.
func NewServer(svc *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "symgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_file",
		Description: "Analyze one source file: parse it, extract symbols and references, and merge the results into the session graph. Accepts optional inline content for unsaved buffers.",
	}, svc.AnalyzeFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_directory",
		Description: "Recursively analyze every supported source file under a directory and build the relationship graph. Individual file failures are reported per file and never abort the batch.",
	}, svc.AnalyzeDirectory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_symbol_context",
		Description: "Return a symbol's declaration context (kind, scope, parameters, bases) and its classified use sites within a file.",
	}, svc.SymbolContext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_relationships",
		Description: "Return typed graph relationships (imports, contains, calls, inherits, references) touching a file, optionally filtered by symbol name.",
	}, svc.Relationships)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cross_file_references",
		Description: "Return a file's outgoing imports with resolution results and the analyzed files whose imports resolve to it.",
	}, svc.CrossFileRefs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_module_graph",
		Description: "Return the file-level dependency graph of all analyzed files, as a JSON node/edge list or a Mermaid diagram.",
	}, svc.ModuleGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_circular_dependencies",
		Description: "Report import cycles among analyzed files. Each cycle is the list of files on it, in import order.",
	}, svc.CircularDeps)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_unused_exports",
		Description: "Report exported names that no other analyzed file imports.",
	}, svc.UnusedExports)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assess_impact",
		Description: "Compute the blast radius of modifying a set of files: directly and transitively affected importers with a risk score.",
	}, svc.AssessImpact)

	return server
}

// Run starts an HTTP server exposing the MCP tools until the context is
// cancelled.
func Run(ctx context.Context, svc *Service, addr string) error {
	server := NewServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
