package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/symgraph/symgraph/internal/symbols"
	"github.com/symgraph/symgraph/internal/syntax"
)

// ResolveFunc maps an import specifier from an importing file to a concrete
// path. Returning false leaves the import edge pointing at the raw
// specifier.
type ResolveFunc func(specifier, fromFile string) (string, bool)

// Builder turns one file's symbol table and references into graph nodes and
// edges. Call targets resolve same-file first, then through import aliases,
// then by project-wide suffix match, and finally by synthesizing a stub
// node: every edge gets a valid target.
type Builder struct {
	graph   *Graph
	resolve ResolveFunc
	log     *slog.Logger
}

// NewBuilder returns a Builder writing into g. resolve may be nil; a nil
// logger uses the default.
func NewBuilder(g *Graph, resolve ResolveFunc, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{graph: g, resolve: resolve, log: log}
}

// IngestFile adds the module node for a file plus nodes and edges for its
// symbols and references, returning the module node. An ErrUnknownNode from
// edge creation is a structural invariant violation and propagates as fatal.
func (b *Builder) IngestFile(filePath string, table *symbols.Table, refs *symbols.ReferenceList) (*Node, error) {
	module := b.graph.AddNode(filePath, NodeModule, filePath, syntax.Span{}, nil)

	b.ingestImports(module, filePath, table)
	if err := b.ingestDeclarations(module, filePath, table); err != nil {
		return nil, err
	}
	if err := b.ingestInheritance(filePath, table); err != nil {
		return nil, err
	}
	if refs != nil {
		if err := b.ingestReferences(module, filePath, table, refs); err != nil {
			return nil, err
		}
	}
	return module, nil
}

func (b *Builder) ingestImports(module *Node, filePath string, table *symbols.Table) {
	for _, sym := range table.OfKind(symbols.KindImport) {
		targetPath := sym.Module
		if b.resolve != nil {
			if resolved, ok := b.resolve(sym.Module, filePath); ok {
				targetPath = resolved
			}
		}
		target := b.graph.AddNode(targetPath, NodeModule, targetPath, syntax.Span{}, nil)
		props := map[string]string{"specifier": sym.Module}
		if sym.Name != "" {
			props["name"] = sym.Name
		}
		if sym.Alias != "" {
			props["alias"] = sym.Alias
		}
		b.graph.AddEdge(module.ID, target.ID, RelImports, props)
	}
}

func (b *Builder) ingestDeclarations(module *Node, filePath string, table *symbols.Table) error {
	for _, sym := range table.All() {
		var err error
		switch sym.Kind {
		case symbols.KindClass:
			// Class names fold the file path in, so bare-name lookups
			// from other files still suffix-match.
			node := b.graph.AddNode(filePath+":"+sym.Name, NodeClass, filePath, sym.Span, nil)
			err = b.containEdge(b.ownerNode(module, filePath, table, sym.Scope), node)

		case symbols.KindFunction:
			typ := NodeFunction
			owner := b.ownerNode(module, filePath, table, sym.Scope)
			if owner.Type == NodeClass {
				typ = NodeMethod
			}
			node := b.graph.AddNode(sym.Name, typ, filePath, sym.Span, nil)
			err = b.containEdge(owner, node)

		case symbols.KindParameter:
			owner := b.ownerNode(module, filePath, table, sym.Scope)
			if owner.Type == NodeModule {
				continue
			}
			node := b.graph.AddNode(sym.Name, NodeParameter, filePath, sym.Span, nil)
			err = b.containEdge(owner, node)

		case symbols.KindVariable:
			if sym.Scope != symbols.GlobalScope {
				continue
			}
			node := b.graph.AddNode(sym.Name, NodeVariable, filePath, sym.Span, nil)
			err = b.containEdge(module, node)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) ingestInheritance(filePath string, table *symbols.Table) error {
	for _, sym := range table.OfKind(symbols.KindClass) {
		classNode := b.graph.GetNode(NodeID(filePath, NodeClass, filePath+":"+sym.Name))
		if classNode == nil {
			continue
		}
		for _, base := range sym.Bases {
			// Same file first, then project-wide suffix match, then stub.
			target := b.graph.FindOrCreateNode(base, NodeClass, filePath, sym.Span)
			if _, err := b.graph.CreateEdge(classNode.ID, target.ID, RelInherits, nil); err != nil {
				return fmt.Errorf("inherits edge %s -> %s: %w", sym.Name, base, err)
			}
		}
	}
	return nil
}

func (b *Builder) ingestReferences(module *Node, filePath string, table *symbols.Table, refs *symbols.ReferenceList) error {
	for _, ref := range refs.Calls {
		source := b.scopeNode(module, filePath, table, ref.Scope)
		target := b.callTarget(filePath, table, ref)
		if _, err := b.graph.CreateEdge(source.ID, target.ID, RelCalls, nil); err != nil {
			return fmt.Errorf("call edge to %s: %w", ref.Name, err)
		}
	}
	for _, ref := range refs.Attributes {
		source := b.scopeNode(module, filePath, table, ref.Scope)
		attr := b.graph.AddNode(ref.Name, NodeAttribute, filePath, ref.Span, nil)
		if _, err := b.graph.CreateEdge(source.ID, attr.ID, RelHasAttribute, nil); err != nil {
			return fmt.Errorf("attribute edge to %s: %w", ref.Name, err)
		}
	}
	for _, ref := range refs.Variables {
		sym := table.Lookup(ref.Scope, ref.Name)
		if sym == nil || sym.Kind != symbols.KindVariable || sym.Scope != symbols.GlobalScope {
			continue
		}
		source := b.scopeNode(module, filePath, table, ref.Scope)
		target := b.graph.GetNode(NodeID(filePath, NodeVariable, ref.Name))
		if target == nil || source.ID == target.ID {
			continue
		}
		b.graph.AddEdge(source.ID, target.ID, RelReferences, nil)
	}
	return nil
}

func (b *Builder) containEdge(owner, node *Node) error {
	if owner == nil || owner.ID == node.ID {
		return nil
	}
	if _, err := b.graph.CreateEdge(owner.ID, node.ID, RelContains, nil); err != nil {
		return fmt.Errorf("contains edge to %s: %w", node.ID, err)
	}
	return nil
}

// callTarget resolves a call reference in documented order: same-file
// function/method/class, import alias, project-wide suffix match, stub.
func (b *Builder) callTarget(filePath string, table *symbols.Table, ref symbols.Reference) *Node {
	for _, typ := range []NodeType{NodeFunction, NodeMethod} {
		if n := b.graph.GetNode(NodeID(filePath, typ, ref.Name)); n != nil {
			return n
		}
	}
	// Constructor call on a same-file class.
	if n := b.graph.GetNode(NodeID(filePath, NodeClass, filePath+":"+ref.Name)); n != nil {
		return n
	}

	if imp := table.Lookup(ref.Scope, ref.Name); imp != nil && imp.Kind == symbols.KindImport {
		targetFile := imp.Module
		if b.resolve != nil {
			if resolved, ok := b.resolve(imp.Module, filePath); ok {
				targetFile = resolved
			}
		}
		name := imp.Name
		if name == "" || name == "*" {
			name = ref.Name
		}
		return b.graph.FindOrCreateNode(name, NodeFunction, targetFile, ref.Span)
	}

	// Suffix match across the project, else a stub in the calling file.
	return b.graph.FindOrCreateNode(ref.Name, NodeFunction, filePath, ref.Span)
}

// ownerNode maps a declaration scope to its owning node: the symbol named by
// the scope's last segment, or the module for global scope.
func (b *Builder) ownerNode(module *Node, filePath string, table *symbols.Table, scope string) *Node {
	if scope == "" || scope == symbols.GlobalScope {
		return module
	}
	parent, name := symbols.GlobalScope, scope
	if i := strings.LastIndex(scope, "."); i >= 0 {
		parent, name = scope[:i], scope[i+1:]
	}
	owner := table.Get(parent, name)
	if owner == nil {
		return module
	}
	switch owner.Kind {
	case symbols.KindClass:
		if n := b.graph.GetNode(NodeID(filePath, NodeClass, filePath+":"+name)); n != nil {
			return n
		}
	case symbols.KindFunction:
		for _, typ := range []NodeType{NodeFunction, NodeMethod} {
			if n := b.graph.GetNode(NodeID(filePath, typ, name)); n != nil {
				return n
			}
		}
	}
	return module
}

// scopeNode is ownerNode for reference sites: the node whose body contains
// the reference.
func (b *Builder) scopeNode(module *Node, filePath string, table *symbols.Table, scope string) *Node {
	return b.ownerNode(module, filePath, table, scope)
}
