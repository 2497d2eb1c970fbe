package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/internal/resolve"
	"github.com/symgraph/symgraph/internal/syntax"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newAnalyzer(t *testing.T, root string) *Analyzer {
	t.Helper()
	return NewAnalyzer(resolve.NewResolver(nil, resolve.Options{Root: root}, nil), nil)
}

func TestBuildDependencyGraph(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.js": "import './b';\nimport './missing';\n",
		"src/b.js": "import './c';\n",
		"src/c.js": "export const x = 1;\n",
	})
	a := newAnalyzer(t, root)

	g := a.BuildDependencyGraph([]string{filepath.Join(root, "src", "a.js")})

	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)
	require.Len(t, g.Unresolved, 1)
	assert.Equal(t, "./missing", g.Unresolved[0].Specifier)

	var targets []string
	for _, e := range g.Edges {
		targets = append(targets, filepath.Base(e.To))
	}
	assert.ElementsMatch(t, []string{"b.js", "c.js"}, targets)
}

func TestFindCircularDependencies(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.js": "import './b';\n",
		"src/b.js": "import './a';\n",
		"src/c.js": "import './a';\n",
	})
	a := newAnalyzer(t, root)

	g := a.BuildDependencyGraph([]string{
		filepath.Join(root, "src", "a.js"),
		filepath.Join(root, "src", "c.js"),
	})
	cycles := a.FindCircularDependencies(g)

	require.Len(t, cycles, 1)
	var names []string
	for _, n := range cycles[0] {
		names = append(names, filepath.Base(n))
	}
	assert.ElementsMatch(t, []string{"a.js", "b.js"}, names)
}

func TestFindCircularDependenciesAcyclic(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.js": "import './b';\nimport './c';\n",
		"src/b.js": "import './c';\n",
		"src/c.js": "export const x = 1;\n",
	})
	a := newAnalyzer(t, root)

	g := a.BuildDependencyGraph([]string{filepath.Join(root, "src", "a.js")})
	assert.Empty(t, a.FindCircularDependencies(g))
}

func features(t *testing.T, lang syntax.Language, source string) *syntax.FeatureSet {
	t.Helper()
	p, err := syntax.NewRegistry().Get(lang)
	require.NoError(t, err)
	tree, err := p.Parse(t.Context(), []byte(source))
	require.NoError(t, err)
	return tree.Features
}

func TestFindUnusedExports(t *testing.T) {
	files := map[string]*syntax.FeatureSet{
		"/proj/utils.js": features(t, syntax.LangJavaScript, `
export function used() {}
export function unused() {}
export default class Widget {}
`),
		"/proj/app.js": features(t, syntax.LangJavaScript, `
import Widget from './utils';
import { used } from './utils';
`),
	}

	unused := FindUnusedExports(files)
	require.Len(t, unused, 1)
	assert.Equal(t, "/proj/utils.js", unused[0].File)
	assert.Equal(t, "unused", unused[0].Name)
	assert.False(t, unused[0].IsDefault)
}

func TestFindUnusedExportsDefaultMatch(t *testing.T) {
	// A default import matches a default export regardless of local name.
	files := map[string]*syntax.FeatureSet{
		"/proj/widget.js": features(t, syntax.LangJavaScript, `export default class Widget {}`),
		"/proj/app.js":    features(t, syntax.LangJavaScript, `import Anything from './widget';`),
	}
	assert.Empty(t, FindUnusedExports(files))
}

func TestStats(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.js": "import './b';\nimport './gone';\n",
		"src/b.js": "export const x = 1;\n",
	})
	a := newAnalyzer(t, root)

	fs := features(t, syntax.LangJavaScript, `import './b';
export const one = 1;
export const two = 2;
`)
	stats := a.Stats(filepath.Join(root, "src", "a.js"), fs)

	assert.Equal(t, syntax.LangJavaScript, stats.Language)
	assert.Equal(t, 1, stats.DirectCount)
	assert.Equal(t, 1, stats.UnresolvedCount)
	assert.Equal(t, 2, stats.ImportCount)
	assert.Equal(t, 2, stats.ExportCount)
}

func TestAssessImpact(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/app.js":  "import './svc';\n",
		"src/svc.js":  "import './util';\n",
		"src/util.js": "export const x = 1;\n",
		"src/lone.js": "export const y = 2;\n",
	})
	a := newAnalyzer(t, root)
	g := a.BuildDependencyGraph([]string{
		filepath.Join(root, "src", "app.js"),
		filepath.Join(root, "src", "lone.js"),
	})

	util, err := filepath.EvalSymlinks(filepath.Join(root, "src", "util.js"))
	require.NoError(t, err)

	result := AssessImpact(g, []string{util})
	require.Len(t, result.DirectlyAffected, 1)
	assert.Equal(t, "svc.js", filepath.Base(result.DirectlyAffected[0]))
	require.Len(t, result.TransitivelyAffected, 2)
	assert.InDelta(t, 0.5, result.RiskScore, 0.001)
}

func TestOverview(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": `import './b'; import './missing';`,
		"b.js": `export const b = 1;`,
	})
	a := newAnalyzer(t, root)

	g := a.BuildDependencyGraph([]string{filepath.Join(root, "a.js")})
	cycles := a.FindCircularDependencies(g)

	stats := Overview(g, cycles)
	assert.Equal(t, 2, stats.ModuleCount)
	assert.Equal(t, 1, stats.EdgeCount)
	assert.Equal(t, 0, stats.CycleCount)
	assert.Equal(t, 1, stats.UnresolvedCount)
	assert.Equal(t, 2, stats.ModulesByExtension[".js"])
	assert.Equal(t, 1, stats.FanOutHistogram[1], "a.js has one resolved dependency")
	assert.Equal(t, 1, stats.FanOutHistogram[0], "b.js has none")
}
