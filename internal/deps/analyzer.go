// Package deps computes project-level dependency facts: the file dependency
// graph, circular dependencies, unused exports and change impact.
package deps

import (
	"log/slog"
	"sort"

	"github.com/symgraph/symgraph/internal/resolve"
	"github.com/symgraph/symgraph/internal/syntax"
)

// Edge is one resolved import between two files.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Specifier string `json:"specifier"`
}

// UnresolvedDependency records an import specifier that failed to resolve.
type UnresolvedDependency struct {
	File      string `json:"file"`
	Specifier string `json:"specifier"`
}

// Graph is the file-level dependency graph built from entry points.
// Unresolved specifiers are recorded, never fatal.
type Graph struct {
	Nodes      []string               `json:"nodes"`
	Edges      []Edge                 `json:"edges"`
	Unresolved []UnresolvedDependency `json:"unresolved"`

	adjacency map[string][]string
}

// Dependents returns files directly imported by the given file.
func (g *Graph) Dependents(file string) []string {
	return g.adjacency[file]
}

// Analyzer builds dependency graphs over a shared resolver. Not internally
// synchronized: callers serialize writes the way the session does.
type Analyzer struct {
	resolver *resolve.Resolver
	log      *slog.Logger
}

// NewAnalyzer returns an Analyzer over the given resolver.
func NewAnalyzer(r *resolve.Resolver, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{resolver: r, log: log}
}

// BuildDependencyGraph runs a work-list traversal from the entry points:
// each file's imports are resolved, resolved targets are enqueued, and
// failures are recorded as unresolved entries.
func (a *Analyzer) BuildDependencyGraph(entryPoints []string) *Graph {
	g := &Graph{adjacency: make(map[string][]string)}
	seen := make(map[string]bool)

	queue := append([]string(nil), entryPoints...)
	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if seen[file] {
			continue
		}
		seen[file] = true

		// Records are keyed by realpath; the graph dedupes on it so an
		// entry point given through a symlink still maps to one node.
		rec := a.resolver.ModuleDependencies(file)
		if rec.File != file {
			if seen[rec.File] {
				continue
			}
			seen[rec.File] = true
		}
		g.Nodes = append(g.Nodes, rec.File)

		for _, imp := range rec.Imports {
			target, ok := a.resolver.Resolve(imp.Specifier, rec.File)
			if !ok {
				g.Unresolved = append(g.Unresolved, UnresolvedDependency{
					File:      rec.File,
					Specifier: imp.Specifier,
				})
				continue
			}
			g.Edges = append(g.Edges, Edge{From: rec.File, To: target, Specifier: imp.Specifier})
			g.adjacency[rec.File] = append(g.adjacency[rec.File], target)
			if !seen[target] {
				queue = append(queue, target)
			}
		}
	}
	return g
}

// FindCircularDependencies runs a DFS over the dependency graph carrying a
// visited set and the current path. Revisiting a node already on the current
// path emits the sub-path from that node onward as one cycle. Cycles are
// deduplicated by exact path-list equality, not by rotation.
func (a *Analyzer) FindCircularDependencies(g *Graph) [][]string {
	var cycles [][]string
	seenCycles := make(map[string]bool)
	visited := make(map[string]bool)

	var currentPath []string
	onPath := make(map[string]int)

	var dfs func(node string)
	dfs = func(node string) {
		if idx, ok := onPath[node]; ok {
			cycle := append([]string(nil), currentPath[idx:]...)
			key := cycleKey(cycle)
			if !seenCycles[key] {
				seenCycles[key] = true
				cycles = append(cycles, cycle)
			}
			return
		}
		if visited[node] {
			return
		}
		visited[node] = true

		onPath[node] = len(currentPath)
		currentPath = append(currentPath, node)
		for _, next := range g.adjacency[node] {
			dfs(next)
		}
		currentPath = currentPath[:len(currentPath)-1]
		delete(onPath, node)
	}

	for _, node := range g.Nodes {
		dfs(node)
	}
	return cycles
}

func cycleKey(cycle []string) string {
	key := ""
	for _, n := range cycle {
		key += n + "\x00"
	}
	return key
}

// UnusedExport is a named export no other analyzed file imports.
type UnusedExport struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// FindUnusedExports scans every analyzed file's exports against every other
// file's imports. Matching is by name (any default import matches a default
// export; a wildcard import matches everything from its module). Whole
// project, worst case O(files^2 x exports): run once per analysis pass, not
// per edit.
func FindUnusedExports(files map[string]*syntax.FeatureSet) []UnusedExport {
	var unused []UnusedExport
	for file, features := range files {
		if features == nil {
			continue
		}
		for _, exp := range features.Exports {
			if isExportUsed(file, exp, files) {
				continue
			}
			unused = append(unused, UnusedExport{
				File:      file,
				Name:      exp.Name,
				IsDefault: exp.IsDefault,
			})
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		if unused[i].File != unused[j].File {
			return unused[i].File < unused[j].File
		}
		return unused[i].Name < unused[j].Name
	})
	return unused
}

func isExportUsed(file string, exp syntax.ExportFeature, files map[string]*syntax.FeatureSet) bool {
	for other, features := range files {
		if other == file || features == nil {
			continue
		}
		for _, imp := range features.Imports {
			if imp.Name == exp.Name {
				return true
			}
			if exp.IsDefault && imp.IsDefault {
				return true
			}
			if imp.Name == "*" {
				return true
			}
		}
	}
	return false
}

// ModuleStats summarizes one module's dependency posture.
type ModuleStats struct {
	File            string          `json:"file"`
	Language        syntax.Language `json:"language"`
	DirectCount     int             `json:"directCount"`
	TransitiveCount int             `json:"transitiveCount"`
	UnresolvedCount int             `json:"unresolvedCount"`
	ImportCount     int             `json:"importCount"`
	ExportCount     int             `json:"exportCount"`
}

// Stats computes per-module statistics from the resolver's dependency record
// and the file's extracted features.
func (a *Analyzer) Stats(file string, features *syntax.FeatureSet) ModuleStats {
	rec := a.resolver.ModuleDependencies(file)
	stats := ModuleStats{
		File:            rec.File,
		DirectCount:     len(rec.Direct),
		TransitiveCount: len(rec.Transitive),
		UnresolvedCount: len(rec.Unresolved),
		ImportCount:     len(rec.Imports),
	}
	if lang, ok := syntax.LanguageForFile(file); ok {
		stats.Language = lang
	}
	if features != nil {
		stats.ExportCount = len(features.Exports)
	}
	return stats
}
