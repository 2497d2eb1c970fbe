package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/internal/contextmap"
	"github.com/symgraph/symgraph/internal/graph"
	"github.com/symgraph/symgraph/internal/syntax"
)

func TestWriteJSON(t *testing.T) {
	report := NewReport("/proj")
	report.Files = append(report.Files, FileReport{
		File:        "/proj/a.js",
		Language:    syntax.LangJavaScript,
		SymbolCount: 3,
	})
	report.Cycles = [][]string{{"/proj/a.js", "/proj/b.js"}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/proj", decoded["root"])
	assert.NotEmpty(t, decoded["generatedAt"])
	assert.Len(t, decoded["files"], 1)
	assert.Len(t, decoded["cycles"], 1)
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSONFile(path, NewReport("/proj")))

	again := NewReport("/proj")
	require.NoError(t, WriteJSONFile(path, again))
}

func TestGenerateMermaid(t *testing.T) {
	view := &contextmap.GraphView{
		Nodes: []contextmap.NodeView{
			{ID: "/proj/src/app.js", Name: "/proj/src/app.js", Type: string(graph.NodeModule)},
			{ID: "/proj/src/utils.js", Name: "/proj/src/utils.js", Type: string(graph.NodeModule)},
		},
		Edges: []contextmap.EdgeView{
			{Source: "/proj/src/app.js", Target: "/proj/src/utils.js", Type: string(graph.RelImports)},
		},
	}

	out := GenerateMermaid(view)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `N0["src/app.js"]`)
	assert.Contains(t, out, `N1["src/utils.js"]`)
	assert.Contains(t, out, "N0 --> N1")
}

func TestGenerateMermaidLabeledEdges(t *testing.T) {
	view := &contextmap.GraphView{
		Nodes: []contextmap.NodeView{
			{ID: "a", Name: "run", Type: string(graph.NodeFunction)},
			{ID: "b", Name: "helper", Type: string(graph.NodeFunction)},
		},
		Edges: []contextmap.EdgeView{
			{Source: "a", Target: "b", Type: string(graph.RelCalls)},
		},
	}

	out := GenerateMermaid(view)
	assert.Contains(t, out, "-->|calls|")
}
