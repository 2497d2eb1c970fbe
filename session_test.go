package symgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/internal/graph"
	"github.com/symgraph/symgraph/internal/symbols"
	"github.com/symgraph/symgraph/internal/syntax"
)

func writeTree(t *testing.T, files map[string]string) (string, map[string]string) {
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

func TestAnalyzeFile(t *testing.T) {
	root, paths := writeTree(t, map[string]string{
		"app.js": `
import { helper } from './utils';

function run(input) {
  return helper(input);
}
`,
		"utils.js": `export function helper(x) { return x; }`,
	})

	s := NewSession(Config{Root: root})
	res, err := s.AnalyzeFile(t.Context(), paths["app.js"], nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, syntax.LangJavaScript, res.Language)
	assert.False(t, res.HasErrors)
	assert.False(t, res.Failed)

	var names []string
	for _, sym := range res.Symbols {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "helper")
}

func TestAnalyzeFileWithContent(t *testing.T) {
	s := NewSession(Config{})
	res, err := s.AnalyzeFile(t.Context(), "/virtual/inline.py", []byte("def greet():\n    pass\n"))
	require.NoError(t, err)
	assert.Equal(t, syntax.LangPython, res.Language)
	require.NotEmpty(t, res.Symbols)
	assert.Equal(t, symbols.KindFunction, res.Symbols[0].Kind)
}

// A syntax error later in the file must not discard symbols extracted before
// it: analysis degrades, it does not abort.
func TestAnalyzeFilePartialFailure(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"broken.js": `
function good() { return 1; }

function bad( { return 2;
`,
	})

	s := NewSession(Config{})
	res, err := s.AnalyzeFile(t.Context(), paths["broken.js"], nil)
	require.NoError(t, err)
	assert.True(t, res.HasErrors)
	assert.NotEmpty(t, res.ErrorDetails)
	assert.False(t, res.Failed)

	var names []string
	for _, sym := range res.Symbols {
		if sym.Kind == symbols.KindFunction {
			names = append(names, sym.Name)
		}
	}
	assert.Contains(t, names, "good")
}

func TestAnalyzeFileUnsupported(t *testing.T) {
	_, paths := writeTree(t, map[string]string{"notes.txt": "hello"})

	s := NewSession(Config{})
	res, err := s.AnalyzeFile(t.Context(), paths["notes.txt"], nil)
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.True(t, res.HasErrors)
	require.NotEmpty(t, res.ErrorDetails)
}

func TestAnalyzeFileUnreadable(t *testing.T) {
	s := NewSession(Config{})
	res, err := s.AnalyzeFile(t.Context(), "/does/not/exist.js", nil)
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.True(t, res.HasErrors)
}

func TestAnalyzeDirectory(t *testing.T) {
	root, paths := writeTree(t, map[string]string{
		"src/app.js":          `import { helper } from './utils';`,
		"src/utils.js":        `export function helper(x) { return x; }`,
		"README.md":           "# docs",
		"node_modules/x/i.js": `export const ignored = 1;`,
	})

	s := NewSession(Config{Root: root, Workers: 2})
	results, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	files := []string{results[0].File, results[1].File}
	assert.ElementsMatch(t, files, []string{paths["src/app.js"], paths["src/utils.js"]})
	assert.Len(t, s.Results(), 2)
}

// One broken file in a directory never aborts the batch.
func TestAnalyzeDirectoryPartialFailure(t *testing.T) {
	root, paths := writeTree(t, map[string]string{
		"good.js":   `export function fine() { return 1; }`,
		"broken.py": "def ok():\n    pass\n\ndef nope(:\n",
	})

	s := NewSession(Config{Root: root})
	results, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)
	require.Len(t, results, 2)

	good := s.Result(paths["good.js"])
	require.NotNil(t, good)
	assert.False(t, good.HasErrors)

	broken := s.Result(paths["broken.py"])
	require.NotNil(t, broken)
	assert.True(t, broken.HasErrors)
	assert.NotEmpty(t, broken.Symbols)
}

func TestSessionQueries(t *testing.T) {
	root, paths := writeTree(t, map[string]string{
		"app.js": `
import { helper } from './utils';

function run(v) {
  return helper(v);
}
`,
		"utils.js": `
export function helper(x) { return x; }
export function orphan() { return 0; }
`,
	})

	s := NewSession(Config{Root: root})
	_, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)

	ctx, ok := s.SymbolContext(paths["app.js"], "run")
	require.True(t, ok)
	assert.Equal(t, symbols.KindFunction, ctx.Kind)

	rels := s.Relationships(paths["app.js"], "")
	assert.NotEmpty(t, rels)

	refs := s.CrossFileReferences(paths["utils.js"])
	require.NotNil(t, refs)
	assert.Len(t, refs.Incoming, 1)

	view := s.ModuleGraph()
	assert.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, paths["app.js"], view.Edges[0].Source)

	sg := s.SymbolGraph(paths["app.js"])
	assert.NotEmpty(t, sg.Nodes)

	unused := s.FindUnusedExports()
	require.Len(t, unused, 1)
	assert.Equal(t, "orphan", unused[0].Name)

	assert.Empty(t, s.FindCircularDependencies())

	stats := s.ModuleStats(paths["app.js"])
	assert.Equal(t, 1, stats.DirectCount)

	impact := s.AssessImpact([]string{paths["utils.js"]})
	assert.Equal(t, []string{paths["app.js"]}, impact.DirectlyAffected)
}

func TestSessionCycles(t *testing.T) {
	root, _ := writeTree(t, map[string]string{
		"a.js": `import './b'; export const a = 1;`,
		"b.js": `import './a'; export const b = 2;`,
	})

	s := NewSession(Config{Root: root})
	_, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)

	cycles := s.FindCircularDependencies()
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 2)
}

func TestSessionReport(t *testing.T) {
	root, _ := writeTree(t, map[string]string{
		"app.js": `import { missing } from './nowhere'; export function run() {}`,
	})

	s := NewSession(Config{Root: root})
	_, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)

	report := s.Report()
	assert.NotEmpty(t, report.GeneratedAt)
	assert.Equal(t, root, report.Root)
	require.Len(t, report.Files, 1)
	assert.Greater(t, report.Graph.NodeCount, 0)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "./nowhere", report.Unresolved[0].Specifier)
	assert.Equal(t, 1, report.Modules.ModuleCount)
	assert.Equal(t, 1, report.Modules.UnresolvedCount)
}

func TestSessionClear(t *testing.T) {
	root, paths := writeTree(t, map[string]string{
		"a.js": `import './b'; function f() {}`,
		"b.js": `export const b = 1;`,
	})

	s := NewSession(Config{Root: root})
	_, err := s.AnalyzeDirectory(t.Context(), root)
	require.NoError(t, err)
	require.NotEmpty(t, s.Results())
	require.NotEmpty(t, s.ModuleGraph().Nodes)

	s.Clear()
	assert.Empty(t, s.Results())
	assert.Equal(t, 0, s.Graph().Stats().NodeCount)

	// The query layer must not serve pre-Clear analyses either.
	assert.Empty(t, s.ModuleGraph().Nodes)
	_, ok := s.SymbolContext(paths["a.js"], "f")
	assert.False(t, ok)
	refs := s.CrossFileReferences(paths["b.js"])
	assert.Empty(t, refs.Incoming)
}

func TestSessionCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(Config{})
	_, err := s.AnalyzeFile(ctx, "/x.js", []byte("var a = 1;"))
	assert.Error(t, err)
}

func TestSessionIdempotentReanalysis(t *testing.T) {
	_, paths := writeTree(t, map[string]string{"a.js": `function f() {}`})

	s := NewSession(Config{})
	_, err := s.AnalyzeFile(t.Context(), paths["a.js"], nil)
	require.NoError(t, err)
	first := s.Graph().Stats().NodeCount

	_, err = s.AnalyzeFile(t.Context(), paths["a.js"], nil)
	require.NoError(t, err)
	assert.Equal(t, first, s.Graph().Stats().NodeCount)
	assert.Len(t, s.Results(), 1)

	node := s.Graph().GetNode(graph.NodeID(paths["a.js"], graph.NodeFunction, "f"))
	assert.NotNil(t, node)
}
