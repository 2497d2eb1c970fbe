package resolve

import (
	"regexp"
	"sort"

	"github.com/symgraph/symgraph/internal/syntax"
)

// ImportSpec is one import-like pattern found in a file's source text.
type ImportSpec struct {
	Specifier string            `json:"specifier"`
	Kind      syntax.ImportKind `json:"kind"`
}

// DependencyRecord is the resolved dependency view of one file. Direct and
// Transitive hold resolved paths; Unresolved holds specifiers that failed.
type DependencyRecord struct {
	File       string       `json:"file"`
	Imports    []ImportSpec `json:"imports"`
	Direct     []string     `json:"direct"`
	Transitive []string     `json:"transitive"`
	Unresolved []string     `json:"unresolved"`
}

// Source-text import patterns. Scanning text instead of a parse tree keeps
// dependency discovery working on files the parser cannot fully handle.
var (
	esImportRe      = regexp.MustCompile(`\b(?:import|export)\s+(?:[\w*{}$,\s]+?\s+from\s+)?['"]([^'"]+)['"]`)
	requireRe       = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	dynamicImportRe = regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)
)

// directRecord is the memoized per-file scan: imports and their resolution,
// without the transitive closure.
type directRecord struct {
	imports    []ImportSpec
	direct     []string
	unresolved []string
}

// ModuleDependencies scans a file's source for import patterns, resolves
// each, and folds in the transitive closure. The closure walk carries an
// explicit visited set, so dependency cycles terminate. Unreadable files
// yield an empty record.
func (r *Resolver) ModuleDependencies(file string) *DependencyRecord {
	real, err := r.fs.Realpath(file)
	if err != nil {
		real = file
	}

	rec := r.directDeps(real)
	out := &DependencyRecord{
		File:       real,
		Imports:    rec.imports,
		Direct:     rec.direct,
		Unresolved: rec.unresolved,
	}

	visited := map[string]bool{real: true}
	stack := append([]string(nil), rec.direct...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[next] {
			continue
		}
		visited[next] = true
		out.Transitive = append(out.Transitive, next)
		stack = append(stack, r.directDeps(next).direct...)
	}
	sort.Strings(out.Transitive)
	return out
}

// directDeps scans and resolves one file's imports, memoized by realpath.
func (r *Resolver) directDeps(real string) *directRecord {
	r.mu.Lock()
	if rec, ok := r.memo[real]; ok {
		r.mu.Unlock()
		return rec
	}
	r.mu.Unlock()

	rec := &directRecord{}
	if _, ok := syntax.LanguageForFile(real); ok {
		if source, err := r.fs.ReadFile(real); err == nil {
			rec = r.scanSource(real, source)
		} else {
			r.log.Debug("unreadable file in dependency scan", "file", real, "error", err)
		}
	}

	r.mu.Lock()
	r.memo[real] = rec
	r.mu.Unlock()
	return rec
}

func (r *Resolver) scanSource(file string, source []byte) *directRecord {
	rec := &directRecord{}
	seen := make(map[string]bool)
	addSpec := func(specifier string, kind syntax.ImportKind) {
		if specifier == "" || seen[specifier] {
			return
		}
		seen[specifier] = true
		rec.imports = append(rec.imports, ImportSpec{Specifier: specifier, Kind: kind})
	}

	text := string(source)
	for _, m := range esImportRe.FindAllStringSubmatch(text, -1) {
		addSpec(m[1], syntax.ImportKindStatic)
	}
	for _, m := range requireRe.FindAllStringSubmatch(text, -1) {
		addSpec(m[1], syntax.ImportKindRequire)
	}
	for _, m := range dynamicImportRe.FindAllStringSubmatch(text, -1) {
		addSpec(m[1], syntax.ImportKindDynamic)
	}

	directSeen := make(map[string]bool)
	for _, imp := range rec.imports {
		path, ok := r.Resolve(imp.Specifier, file)
		if !ok {
			rec.unresolved = append(rec.unresolved, imp.Specifier)
			continue
		}
		if !directSeen[path] {
			directSeen[path] = true
			rec.direct = append(rec.direct, path)
		}
	}
	return rec
}
