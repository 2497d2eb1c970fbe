//go:build cgo

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/graph"
)

// persistGraph writes the session graph to a file-based KuzuDB under
// .symgraph/graph so other tooling can query it without re-analyzing.
func persistGraph(ctx context.Context, target string, session *symgraph.Session) error {
	path := filepath.Join(target, ".symgraph", "graph")

	// Remove old graph to avoid stale data.
	os.RemoveAll(path)

	exporter, err := graph.NewKuzuFileExporter(path)
	if err != nil {
		return err
	}
	defer exporter.Close()

	return exporter.Export(ctx, session.Graph())
}
