// Package symbols extracts declared symbols and references from normalized
// syntax trees, tracking lexical scope as a dotted path.
package symbols

import "github.com/symgraph/symgraph/internal/syntax"

// GlobalScope is the scope path of module-level declarations.
const GlobalScope = "global"

// SymbolKind classifies a declared or inferred symbol.
type SymbolKind string

const (
	KindImport     SymbolKind = "import"
	KindFunction   SymbolKind = "function"
	KindClass      SymbolKind = "class"
	KindVariable   SymbolKind = "variable"
	KindParameter  SymbolKind = "parameter"
	KindIdentifier SymbolKind = "identifier"
)

// Symbol is one named entry in a file's symbol table. Module and Alias are
// set for imports, Params for functions, Bases for classes.
type Symbol struct {
	Name   string      `json:"name"`
	Kind   SymbolKind  `json:"kind"`
	Scope  string      `json:"scope"`
	Span   syntax.Span `json:"span"`
	Module string      `json:"module,omitempty"`
	Alias  string      `json:"alias,omitempty"`
	Params []string    `json:"params,omitempty"`
	Bases  []string    `json:"bases,omitempty"`
}

// ReferenceKind classifies a symbol use site.
type ReferenceKind string

const (
	RefCall      ReferenceKind = "call"
	RefAttribute ReferenceKind = "attribute"
	RefVariable  ReferenceKind = "variable"
)

// Reference is one use of a name. References never mutate symbols.
type Reference struct {
	Kind  ReferenceKind `json:"kind"`
	Name  string        `json:"name"`
	Scope string        `json:"scope"`
	Span  syntax.Span   `json:"span"`
}

// Redeclaration records a same-scope name collision where the later symbol
// overwrote the earlier one.
type Redeclaration struct {
	Name     string      `json:"name"`
	Scope    string      `json:"scope"`
	Previous syntax.Span `json:"previous"`
	Span     syntax.Span `json:"span"`
}

type tableKey struct {
	scope string
	name  string
}

// Table holds a file's symbols keyed by (scope, name). A later symbol with
// the same name in the same scope overwrites the earlier one; each overwrite
// is recorded in Redeclarations so callers can surface the collision instead
// of losing it silently. Shadowing a name from an enclosing scope is not a
// redeclaration.
type Table struct {
	order          []*Symbol
	index          map[tableKey]*Symbol
	Redeclarations []Redeclaration
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{index: make(map[tableKey]*Symbol)}
}

// Add inserts a symbol, overwriting any same-scope entry with the same name.
// Upgrading an implicit identifier entry to a real declaration is not a
// redeclaration.
func (t *Table) Add(sym *Symbol) {
	key := tableKey{scope: sym.Scope, name: sym.Name}
	if prev, ok := t.index[key]; ok {
		if prev.Kind == KindIdentifier && sym.Kind != KindIdentifier {
			*prev = *sym
			return
		}
		if sym.Kind == KindIdentifier {
			// An identifier use never downgrades an existing declaration.
			return
		}
		t.Redeclarations = append(t.Redeclarations, Redeclaration{
			Name:     sym.Name,
			Scope:    sym.Scope,
			Previous: prev.Span,
			Span:     sym.Span,
		})
		*prev = *sym
		return
	}
	t.index[key] = sym
	t.order = append(t.order, sym)
}

// Get returns the symbol declared with the exact scope and name, or nil.
func (t *Table) Get(scope, name string) *Symbol {
	return t.index[tableKey{scope: scope, name: name}]
}

// Lookup resolves a name from the given scope outward to global, returning
// the nearest declaration or nil.
func (t *Table) Lookup(scope, name string) *Symbol {
	for _, s := range scopeChain(scope) {
		if sym := t.Get(s, name); sym != nil {
			return sym
		}
	}
	return nil
}

// All returns symbols in insertion order.
func (t *Table) All() []*Symbol {
	return t.order
}

// OfKind returns symbols of one kind in insertion order.
func (t *Table) OfKind(kind SymbolKind) []*Symbol {
	var out []*Symbol
	for _, s := range t.order {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of live symbols.
func (t *Table) Len() int {
	return len(t.order)
}

// scopeChain expands "Outer.inner" into ["Outer.inner", "Outer", "global"].
func scopeChain(scope string) []string {
	if scope == "" || scope == GlobalScope {
		return []string{GlobalScope}
	}
	chain := []string{scope}
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i] == '.' {
			chain = append(chain, scope[:i])
		}
	}
	return append(chain, GlobalScope)
}

// ReferenceList collects use sites per kind, append-only.
type ReferenceList struct {
	Calls      []Reference `json:"calls"`
	Attributes []Reference `json:"attributes"`
	Variables  []Reference `json:"variables"`
}

// Add appends a reference to the list matching its kind.
func (r *ReferenceList) Add(ref Reference) {
	switch ref.Kind {
	case RefCall:
		r.Calls = append(r.Calls, ref)
	case RefAttribute:
		r.Attributes = append(r.Attributes, ref)
	case RefVariable:
		r.Variables = append(r.Variables, ref)
	}
}

// Len returns the total reference count across kinds.
func (r *ReferenceList) Len() int {
	return len(r.Calls) + len(r.Attributes) + len(r.Variables)
}
