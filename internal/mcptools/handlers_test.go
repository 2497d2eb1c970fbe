package mcptools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/symbols"
)

// writeProject lays out a small JS project in a temp dir and returns the
// root plus symlink-resolved paths.
func writeProject(t *testing.T, files map[string]string) (string, map[string]string) {
	t.Helper()
	root := t.TempDir()
	paths := make(map[string]string)
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		real, err := filepath.EvalSymlinks(path)
		require.NoError(t, err)
		paths[name] = real
	}
	return root, paths
}

func newService(t *testing.T, root string) *Service {
	t.Helper()
	return NewService(symgraph.NewSession(symgraph.Config{Root: root}))
}

func TestAnalyzeFileTool(t *testing.T) {
	t.Run("analyzes a file from disk", func(t *testing.T) {
		root, paths := writeProject(t, map[string]string{
			"app.js": `function run(v) { return v; }`,
		})
		svc := newService(t, root)

		_, out, err := svc.AnalyzeFile(context.Background(), nil, AnalyzeFileInput{
			Path: paths["app.js"],
		})
		require.NoError(t, err)
		require.NotNil(t, out.Result)
		assert.False(t, out.Result.HasErrors)
		assert.NotEmpty(t, out.Result.Symbols)
	})

	t.Run("accepts inline content", func(t *testing.T) {
		svc := newService(t, "")

		_, out, err := svc.AnalyzeFile(context.Background(), nil, AnalyzeFileInput{
			Path:    "/buffer/unsaved.py",
			Content: "def greet():\n    pass\n",
		})
		require.NoError(t, err)
		require.NotEmpty(t, out.Result.Symbols)
		assert.Equal(t, symbols.KindFunction, out.Result.Symbols[0].Kind)
	})

	t.Run("empty path returns error", func(t *testing.T) {
		svc := newService(t, "")

		_, _, err := svc.AnalyzeFile(context.Background(), nil, AnalyzeFileInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is required")
	})

	t.Run("unreadable file is a captured failure, not an error", func(t *testing.T) {
		svc := newService(t, "")

		_, out, err := svc.AnalyzeFile(context.Background(), nil, AnalyzeFileInput{
			Path: "/does/not/exist.js",
		})
		require.NoError(t, err)
		assert.True(t, out.Result.Failed)
	})
}

func TestAnalyzeDirectoryTool(t *testing.T) {
	t.Run("analyzes a project", func(t *testing.T) {
		root, _ := writeProject(t, map[string]string{
			"app.js":   `import { helper } from './utils';`,
			"utils.js": `export function helper(x) { return x; }`,
		})
		svc := newService(t, root)

		_, out, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{
			Path: root,
		})
		require.NoError(t, err)
		assert.Len(t, out.Results, 2)
		assert.Greater(t, out.Stats.NodeCount, 0)
	})

	t.Run("non-existent path returns error", func(t *testing.T) {
		svc := newService(t, "")

		_, _, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{
			Path: "/tmp/this-path-does-not-exist-at-all-12345",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot access path")
	})

	t.Run("file path returns error", func(t *testing.T) {
		_, paths := writeProject(t, map[string]string{"a.js": `var a = 1;`})
		svc := newService(t, "")

		_, _, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{
			Path: paths["a.js"],
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestSymbolContextTool(t *testing.T) {
	root, paths := writeProject(t, map[string]string{
		"app.js": `
function run(input) { return input; }
run(1);
`,
	})
	svc := newService(t, root)
	_, _, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{Path: root})
	require.NoError(t, err)

	t.Run("declared symbol is found with usages", func(t *testing.T) {
		_, out, err := svc.SymbolContext(context.Background(), nil, SymbolContextInput{
			Path:   paths["app.js"],
			Symbol: "run",
		})
		require.NoError(t, err)
		require.True(t, out.Found)
		assert.Equal(t, symbols.KindFunction, out.Context.Kind)
		assert.Equal(t, []string{"input"}, out.Context.Params)
		assert.NotEmpty(t, out.Usages)
	})

	t.Run("missing symbol reports not found", func(t *testing.T) {
		_, out, err := svc.SymbolContext(context.Background(), nil, SymbolContextInput{
			Path:   paths["app.js"],
			Symbol: "nonexistent",
		})
		require.NoError(t, err)
		assert.False(t, out.Found)
		assert.Nil(t, out.Context)
	})

	t.Run("missing arguments return error", func(t *testing.T) {
		_, _, err := svc.SymbolContext(context.Background(), nil, SymbolContextInput{Path: paths["app.js"]})
		require.Error(t, err)
	})
}

func TestGraphQueryTools(t *testing.T) {
	root, paths := writeProject(t, map[string]string{
		"app.js": `
import { helper } from './utils';

function run(v) { return helper(v); }
`,
		"utils.js": `
export function helper(x) { return x; }
export function orphan() { return 0; }
`,
	})
	svc := newService(t, root)
	_, _, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{Path: root})
	require.NoError(t, err)

	t.Run("relationships", func(t *testing.T) {
		_, out, err := svc.Relationships(context.Background(), nil, RelationshipsInput{
			Path: paths["app.js"],
		})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Relationships)
	})

	t.Run("cross file references", func(t *testing.T) {
		_, out, err := svc.CrossFileRefs(context.Background(), nil, CrossFileRefsInput{
			Path: paths["utils.js"],
		})
		require.NoError(t, err)
		require.NotNil(t, out.Refs)
		assert.Len(t, out.Refs.Incoming, 1)
	})

	t.Run("module graph as json", func(t *testing.T) {
		_, out, err := svc.ModuleGraph(context.Background(), nil, ModuleGraphInput{})
		require.NoError(t, err)
		require.NotNil(t, out.Graph)
		assert.Len(t, out.Graph.Nodes, 2)
		assert.Empty(t, out.Mermaid)
	})

	t.Run("module graph as mermaid", func(t *testing.T) {
		_, out, err := svc.ModuleGraph(context.Background(), nil, ModuleGraphInput{Format: "mermaid"})
		require.NoError(t, err)
		assert.Nil(t, out.Graph)
		assert.Contains(t, out.Mermaid, "graph TD")
	})

	t.Run("unused exports", func(t *testing.T) {
		_, out, err := svc.UnusedExports(context.Background(), nil, UnusedExportsInput{})
		require.NoError(t, err)
		require.Len(t, out.Unused, 1)
		assert.Equal(t, "orphan", out.Unused[0].Name)
	})

	t.Run("no cycles in acyclic project", func(t *testing.T) {
		_, out, err := svc.CircularDeps(context.Background(), nil, CircularDepsInput{})
		require.NoError(t, err)
		assert.Empty(t, out.Cycles)
	})

	t.Run("impact of changing utils", func(t *testing.T) {
		_, out, err := svc.AssessImpact(context.Background(), nil, AssessImpactInput{
			ChangedFiles: []string{paths["utils.js"]},
		})
		require.NoError(t, err)
		require.NotNil(t, out.Impact)
		assert.Equal(t, []string{paths["app.js"]}, out.Impact.DirectlyAffected)
	})

	t.Run("impact requires changed files", func(t *testing.T) {
		_, _, err := svc.AssessImpact(context.Background(), nil, AssessImpactInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "changedFiles is required")
	})
}

func TestCircularDepsTool(t *testing.T) {
	root, _ := writeProject(t, map[string]string{
		"a.js": `import './b'; export const a = 1;`,
		"b.js": `import './a'; export const b = 2;`,
	})
	svc := newService(t, root)
	_, _, err := svc.AnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{Path: root})
	require.NoError(t, err)

	_, out, err := svc.CircularDeps(context.Background(), nil, CircularDepsInput{})
	require.NoError(t, err)
	require.Len(t, out.Cycles, 1)
	assert.Len(t, out.Cycles[0], 2)
}

func TestNewServerRegistersTools(t *testing.T) {
	svc := newService(t, "")
	server := NewServer(svc)
	assert.NotNil(t, server)
}
