// Package contextmap answers higher-level questions about analyzed files:
// symbol context, usage classification, cross-file references and graph
// views, composed from the stored per-file analyses.
package contextmap

import (
	"strings"
	"sync"

	"github.com/symgraph/symgraph/internal/graph"
	"github.com/symgraph/symgraph/internal/resolve"
	"github.com/symgraph/symgraph/internal/symbols"
	"github.com/symgraph/symgraph/internal/syntax"
)

// FileAnalysis is one file's stored analysis output.
type FileAnalysis struct {
	File     string
	Language syntax.Language
	Table    *symbols.Table
	Refs     *symbols.ReferenceList
	Features *syntax.FeatureSet
}

// Mapper composes query answers from per-file analyses, the relationship
// graph and the resolver.
type Mapper struct {
	graph    *graph.Graph
	resolver *resolve.Resolver

	mu    sync.RWMutex
	files map[string]*FileAnalysis
	order []string
}

// NewMapper returns a Mapper over the given graph and resolver.
func NewMapper(g *graph.Graph, r *resolve.Resolver) *Mapper {
	return &Mapper{
		graph:    g,
		resolver: r,
		files:    make(map[string]*FileAnalysis),
	}
}

// AddFile stores one file's analysis, replacing any earlier entry.
func (m *Mapper) AddFile(fa *FileAnalysis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[fa.File]; !ok {
		m.order = append(m.order, fa.File)
	}
	m.files[fa.File] = fa
}

// Clear drops every stored file analysis.
func (m *Mapper) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string]*FileAnalysis)
	m.order = nil
}

// Files returns analyzed file paths in analysis order.
func (m *Mapper) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// File returns one file's stored analysis, or nil.
func (m *Mapper) File(path string) *FileAnalysis {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[path]
}

// Context describes one symbol's declaration context.
type Context struct {
	Name   string             `json:"name"`
	Kind   symbols.SymbolKind `json:"kind"`
	Scope  string             `json:"scope"`
	Span   syntax.Span        `json:"span"`
	Params []string           `json:"params,omitempty"`
	Bases  []string           `json:"bases,omitempty"`
	Module string             `json:"module,omitempty"`
}

// SymbolContext looks a symbol up in one file: function and class
// declarations first, then inferred entries (variables, imports, implicit
// identifiers). The boolean reports presence.
func (m *Mapper) SymbolContext(file, name string) (*Context, bool) {
	fa := m.File(file)
	if fa == nil || fa.Table == nil {
		return nil, false
	}

	var fallback *symbols.Symbol
	for _, sym := range fa.Table.All() {
		if sym.Name != name {
			continue
		}
		switch sym.Kind {
		case symbols.KindFunction, symbols.KindClass:
			return symbolContext(sym), true
		default:
			if fallback == nil {
				fallback = sym
			}
		}
	}
	if fallback != nil {
		return symbolContext(fallback), true
	}
	return nil, false
}

func symbolContext(sym *symbols.Symbol) *Context {
	return &Context{
		Name:   sym.Name,
		Kind:   sym.Kind,
		Scope:  sym.Scope,
		Span:   sym.Span,
		Params: sym.Params,
		Bases:  sym.Bases,
		Module: sym.Module,
	}
}

// Relationship is one graph edge rendered with node names.
type Relationship struct {
	Source string             `json:"source"`
	Target string             `json:"target"`
	Type   graph.RelationType `json:"type"`
}

// Relationships returns all relationships touching a file, optionally
// filtered to those where the named symbol is source or target.
func (m *Mapper) Relationships(file, symbol string) []Relationship {
	var out []Relationship
	for _, e := range m.graph.Edges() {
		source := m.graph.GetNode(e.SourceID)
		target := m.graph.GetNode(e.TargetID)
		if source == nil || target == nil {
			continue
		}
		if source.FilePath != file && target.FilePath != file {
			continue
		}
		if symbol != "" && !nameMatches(source.Name, symbol) && !nameMatches(target.Name, symbol) {
			continue
		}
		out = append(out, Relationship{Source: source.Name, Target: target.Name, Type: e.Type})
	}
	return out
}

// nameMatches compares a stored node name to a bare symbol name, tolerating
// folded class names.
func nameMatches(stored, name string) bool {
	return stored == name || strings.HasSuffix(stored, ":"+name)
}

// UsageKind classifies how a symbol is used in a file.
type UsageKind string

const (
	UsageFunction UsageKind = "function"
	UsageClass    UsageKind = "class"
	UsageMethod   UsageKind = "method"
	UsageType     UsageKind = "type"
)

// Usage is one classified use site of a symbol.
type Usage struct {
	Kind  UsageKind   `json:"kind"`
	Name  string      `json:"name"`
	Scope string      `json:"scope"`
	Span  syntax.Span `json:"span"`
}

// SymbolUsage classifies a symbol and returns its use sites. Method lookup
// searches one level into class scopes and stops at the first class that
// declares the name: method names are assumed unique per file.
func (m *Mapper) SymbolUsage(file, name string) []Usage {
	fa := m.File(file)
	if fa == nil || fa.Table == nil {
		return nil
	}

	kind, declScope, ok := m.classify(fa.Table, name)
	if !ok {
		return nil
	}

	var usages []Usage
	if fa.Refs != nil {
		for _, ref := range fa.Refs.Calls {
			if ref.Name == name {
				usages = append(usages, Usage{Kind: kind, Name: name, Scope: ref.Scope, Span: ref.Span})
			}
		}
		for _, ref := range fa.Refs.Variables {
			if ref.Name == name {
				usages = append(usages, Usage{Kind: kind, Name: name, Scope: ref.Scope, Span: ref.Span})
			}
		}
	}
	if len(usages) == 0 {
		// Declared but never referenced: report the declaration site.
		if sym := fa.Table.Get(declScope, name); sym != nil {
			usages = append(usages, Usage{Kind: kind, Name: name, Scope: sym.Scope, Span: sym.Span})
		}
	}
	return usages
}

func (m *Mapper) classify(table *symbols.Table, name string) (UsageKind, string, bool) {
	if sym := table.Get(symbols.GlobalScope, name); sym != nil {
		switch sym.Kind {
		case symbols.KindFunction:
			return UsageFunction, sym.Scope, true
		case symbols.KindClass:
			return UsageClass, sym.Scope, true
		case symbols.KindVariable, symbols.KindImport, symbols.KindIdentifier:
			return UsageType, sym.Scope, true
		}
	}
	// One level into class member tables, first class match wins.
	for _, cls := range table.OfKind(symbols.KindClass) {
		if cls.Scope != symbols.GlobalScope {
			continue
		}
		if member := table.Get(cls.Name, name); member != nil && member.Kind == symbols.KindFunction {
			return UsageMethod, member.Scope, true
		}
	}
	return "", "", false
}

// OutgoingRef is one of a file's own imports, resolved when possible.
type OutgoingRef struct {
	Specifier string `json:"specifier"`
	Name      string `json:"name,omitempty"`
	Path      string `json:"path,omitempty"`
	Resolved  bool   `json:"resolved"`
}

// IncomingRef is another file's import that resolves to the target file.
type IncomingRef struct {
	File      string `json:"file"`
	Specifier string `json:"specifier"`
	Name      string `json:"name,omitempty"`
}

// CrossFileRefs pairs a file's outgoing imports with the imports of other
// files that point at it.
type CrossFileRefs struct {
	Outgoing []OutgoingRef `json:"outgoing"`
	Incoming []IncomingRef `json:"incoming"`
}

// CrossFileReferences computes both directions for one file. Incoming scans
// every other analyzed file's imports and resolves each: O(files x imports)
// per call, intended for on-demand inspection rather than hot paths.
func (m *Mapper) CrossFileReferences(file string) *CrossFileRefs {
	out := &CrossFileRefs{}
	fa := m.File(file)
	if fa != nil && fa.Features != nil {
		for _, imp := range fa.Features.Imports {
			ref := OutgoingRef{Specifier: imp.Module, Name: imp.Name}
			if m.resolver != nil {
				if path, ok := m.resolver.Resolve(imp.Module, file); ok {
					ref.Path = path
					ref.Resolved = true
				}
			}
			out.Outgoing = append(out.Outgoing, ref)
		}
	}

	if m.resolver == nil {
		return out
	}
	for _, other := range m.Files() {
		if other == file {
			continue
		}
		ofa := m.File(other)
		if ofa == nil || ofa.Features == nil {
			continue
		}
		for _, imp := range ofa.Features.Imports {
			path, ok := m.resolver.Resolve(imp.Module, other)
			if ok && path == file {
				out.Incoming = append(out.Incoming, IncomingRef{
					File:      other,
					Specifier: imp.Module,
					Name:      imp.Name,
				})
			}
		}
	}
	return out
}

// GraphView is a node/edge view assembled for export or visualization.
type GraphView struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// NodeView is one node in a GraphView.
type NodeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	File string `json:"file,omitempty"`
}

// EdgeView is one edge in a GraphView.
type EdgeView struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// DependencyGraph assembles the file-level import view across all analyzed
// files.
func (m *Mapper) DependencyGraph() *GraphView {
	view := &GraphView{}
	for _, file := range m.Files() {
		view.Nodes = append(view.Nodes, NodeView{ID: file, Name: file, Type: string(graph.NodeModule)})
	}
	for _, file := range m.Files() {
		fa := m.File(file)
		if fa == nil || fa.Features == nil || m.resolver == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, imp := range fa.Features.Imports {
			path, ok := m.resolver.Resolve(imp.Module, file)
			if !ok || seen[path] {
				continue
			}
			seen[path] = true
			view.Edges = append(view.Edges, EdgeView{
				Source: file,
				Target: path,
				Type:   string(graph.RelImports),
			})
		}
	}
	return view
}

// SymbolGraph assembles the node/edge view for one file: its declarations
// and every edge touching them.
func (m *Mapper) SymbolGraph(file string) *GraphView {
	view := &GraphView{}
	inFile := make(map[string]bool)
	for _, n := range m.graph.GetNodesByFile(file) {
		inFile[n.ID] = true
		view.Nodes = append(view.Nodes, NodeView{
			ID:   n.ID,
			Name: n.Name,
			Type: string(n.Type),
			File: n.FilePath,
		})
	}
	for _, e := range m.graph.Edges() {
		if !inFile[e.SourceID] && !inFile[e.TargetID] {
			continue
		}
		view.Edges = append(view.Edges, EdgeView{
			Source: e.SourceID,
			Target: e.TargetID,
			Type:   string(e.Type),
		})
	}
	return view
}
