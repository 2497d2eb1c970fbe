//go:build cgo

package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/internal/syntax"
)

func seedGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	module := g.AddNode("/proj/app.js", NodeModule, "/proj/app.js", syntax.Span{}, nil)
	fn := g.AddNode("run", NodeFunction, "/proj/app.js", syntax.Span{StartLine: 2, EndLine: 4}, nil)
	helper := g.AddNode("helper", NodeFunction, "/proj/app.js", syntax.Span{StartLine: 6, EndLine: 8}, nil)

	_, err := g.CreateEdge(module.ID, fn.ID, RelContains, nil)
	require.NoError(t, err)
	_, err = g.CreateEdge(module.ID, helper.ID, RelContains, nil)
	require.NoError(t, err)
	_, err = g.CreateEdge(fn.ID, helper.ID, RelCalls, nil)
	require.NoError(t, err)
	return g
}

func TestKuzuExportRoundTrip(t *testing.T) {
	exporter, err := NewKuzuExporter()
	require.NoError(t, err)
	defer exporter.Close()

	ctx := context.Background()
	g := seedGraph(t)
	require.NoError(t, exporter.Export(ctx, g))

	nodes, edges, err := exporter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), nodes)
	assert.Equal(t, int64(3), edges)
}

func TestKuzuExportIdempotentNodes(t *testing.T) {
	exporter, err := NewKuzuExporter()
	require.NoError(t, err)
	defer exporter.Close()

	ctx := context.Background()
	g := seedGraph(t)
	require.NoError(t, exporter.Export(ctx, g))

	// Re-exporting merges nodes rather than duplicating them.
	require.NoError(t, exporter.Export(ctx, g))

	nodes, _, err := exporter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), nodes)
}

func TestKuzuFileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "graph")

	exporter, err := NewKuzuFileExporter(path)
	require.NoError(t, err)
	defer exporter.Close()

	require.NoError(t, exporter.InitSchema(context.Background()))
}
