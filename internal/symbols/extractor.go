package symbols

import (
	"log/slog"

	"github.com/symgraph/symgraph/internal/syntax"
)

// Node kind sets shared across the supported grammars. Keeping these here
// lets the walk stay language-agnostic.
var (
	functionKinds = map[string]bool{
		"function_declaration":           true,
		"generator_function_declaration": true,
		"function_definition":            true,
		"function_item":                  true,
		"method_definition":              true,
		"method_declaration":             true,
	}
	classKinds = map[string]bool{
		"class_declaration": true,
		"class_definition":  true,
		"type_spec":         true,
		"struct_item":       true,
		"enum_item":         true,
		"trait_item":        true,
	}
	importKinds = map[string]bool{
		"import_statement":      true,
		"import_from_statement": true,
		"import_declaration":    true,
		"use_declaration":       true,
	}
	callKinds = map[string]bool{
		"call_expression": true,
		"call":            true,
	}
	// attributeFields maps member-access node kinds to their (object,
	// member) field names per grammar.
	attributeFields = map[string][2]string{
		"member_expression":   {"object", "property"},
		"attribute":           {"object", "attribute"},
		"selector_expression": {"operand", "field"},
		"field_expression":    {"value", "field"},
	}
)

// Extractor walks normalized trees producing a symbol table and reference
// list. Extraction is best-effort: malformed subtrees are logged and
// skipped, never fatal.
type Extractor struct {
	log *slog.Logger
}

// NewExtractor returns an Extractor. A nil logger falls back to the default.
func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// Extract produces the symbol table and references for one file's tree. An
// unreadable tree yields an empty table rather than an error.
func (e *Extractor) Extract(tree *syntax.Tree) (*Table, *ReferenceList) {
	table := NewTable()
	refs := &ReferenceList{}

	if tree == nil || tree.Root == nil {
		e.log.Warn("symbol extraction on empty tree")
		return table, refs
	}

	if tree.Features != nil {
		for _, imp := range tree.Features.Imports {
			name := imp.Alias
			if name == "" {
				name = imp.Name
			}
			if name == "" {
				// Bare side-effect import binds nothing.
				continue
			}
			table.Add(&Symbol{
				Name:   name,
				Kind:   KindImport,
				Scope:  GlobalScope,
				Span:   imp.Span,
				Module: imp.Module,
				Alias:  imp.Alias,
			})
		}
	}

	for _, child := range tree.Root.Children {
		e.walk(child, GlobalScope, table, refs)
	}
	return table, refs
}

// childScope appends a name to a dotted scope path.
func childScope(scope, name string) string {
	if scope == "" || scope == GlobalScope {
		return name
	}
	return scope + "." + name
}

// walk visits one node under the given scope. Entering a function or class
// records the symbol under the current scope and recurses into the body with
// the name appended; recursion holds the scope stack.
func (e *Extractor) walk(n *syntax.Node, scope string, table *Table, refs *ReferenceList) {
	if n == nil {
		return
	}

	switch {
	case importKinds[n.Kind]:
		// Imports are seeded from the tree's feature set; descending here
		// would record imported names as spurious references.
		return

	case functionKinds[n.Kind]:
		e.walkFunction(n, scope, table, refs)

	case classKinds[n.Kind]:
		e.walkClass(n, scope, table, refs)

	case n.Kind == "variable_declarator":
		e.walkDeclarator(n, scope, table, refs)

	case n.Kind == "assignment":
		if left := n.Field("left"); left != nil && left.Kind == "identifier" {
			table.Add(&Symbol{Name: left.Text, Kind: KindVariable, Scope: scope, Span: n.Span})
		} else {
			e.walk(left, scope, table, refs)
		}
		e.walk(n.Field("right"), scope, table, refs)

	case callKinds[n.Kind]:
		e.walkCall(n, scope, table, refs)

	case attributeFields[n.Kind] != [2]string{}:
		fields := attributeFields[n.Kind]
		if member := n.Field(fields[1]); member != nil {
			refs.Add(Reference{Kind: RefAttribute, Name: member.Text, Scope: scope, Span: n.Span})
		}
		e.walk(n.Field(fields[0]), scope, table, refs)

	case n.Kind == "identifier":
		refs.Add(Reference{Kind: RefVariable, Name: n.Text, Scope: scope, Span: n.Span})
		if table.Lookup(scope, n.Text) == nil {
			table.Add(&Symbol{Name: n.Text, Kind: KindIdentifier, Scope: scope, Span: n.Span})
		}

	default:
		for _, c := range n.Children {
			e.walk(c, scope, table, refs)
		}
	}
}

func (e *Extractor) walkFunction(n *syntax.Node, scope string, table *Table, refs *ReferenceList) {
	name := n.Field("name")
	if name == nil {
		e.log.Debug("skipping unnamed function node", "kind", n.Kind, "line", n.Span.StartLine)
		for _, c := range n.Children {
			e.walk(c, scope, table, refs)
		}
		return
	}

	params := paramNames(n.Field("parameters"))
	table.Add(&Symbol{
		Name:   name.Text,
		Kind:   KindFunction,
		Scope:  scope,
		Span:   n.Span,
		Params: params,
	})

	inner := childScope(scope, name.Text)
	for _, p := range params {
		table.Add(&Symbol{Name: p, Kind: KindParameter, Scope: inner, Span: n.Span})
	}
	e.walk(n.Field("body"), inner, table, refs)
}

func (e *Extractor) walkClass(n *syntax.Node, scope string, table *Table, refs *ReferenceList) {
	name := n.Field("name")
	if name == nil {
		e.log.Debug("skipping unnamed class node", "kind", n.Kind, "line", n.Span.StartLine)
		for _, c := range n.Children {
			e.walk(c, scope, table, refs)
		}
		return
	}

	table.Add(&Symbol{
		Name:  name.Text,
		Kind:  KindClass,
		Scope: scope,
		Span:  n.Span,
		Bases: baseNames(n),
	})
	e.walk(n.Field("body"), childScope(scope, name.Text), table, refs)
}

// walkDeclarator handles one variable declarator. A declarator whose value
// is a function expression is recorded as a function symbol instead, with
// the body scoped under the bound name.
func (e *Extractor) walkDeclarator(n *syntax.Node, scope string, table *Table, refs *ReferenceList) {
	name := n.Field("name")
	value := n.Field("value")
	if name == nil || name.Kind != "identifier" {
		e.walk(value, scope, table, refs)
		return
	}

	if value != nil && (value.Kind == "arrow_function" || value.Kind == "function_expression" || value.Kind == "function") {
		params := paramNames(value.Field("parameters"))
		if len(params) == 0 {
			if p := value.Field("parameter"); p != nil && p.Kind == "identifier" {
				params = []string{p.Text}
			}
		}
		table.Add(&Symbol{
			Name:   name.Text,
			Kind:   KindFunction,
			Scope:  scope,
			Span:   n.Span,
			Params: params,
		})
		inner := childScope(scope, name.Text)
		for _, p := range params {
			table.Add(&Symbol{Name: p, Kind: KindParameter, Scope: inner, Span: n.Span})
		}
		e.walk(value.Field("body"), inner, table, refs)
		return
	}

	table.Add(&Symbol{Name: name.Text, Kind: KindVariable, Scope: scope, Span: n.Span})
	e.walk(value, scope, table, refs)
}

// walkCall records a call reference. The callee identifier itself is not
// additionally counted as a variable reference; member-access callees still
// record the attribute access on the object chain.
func (e *Extractor) walkCall(n *syntax.Node, scope string, table *Table, refs *ReferenceList) {
	fn := n.Field("function")
	if fn != nil {
		switch {
		case fn.Kind == "identifier":
			refs.Add(Reference{Kind: RefCall, Name: fn.Text, Scope: scope, Span: n.Span})
			if table.Lookup(scope, fn.Text) == nil {
				table.Add(&Symbol{Name: fn.Text, Kind: KindIdentifier, Scope: scope, Span: fn.Span})
			}
		case attributeFields[fn.Kind] != [2]string{}:
			fields := attributeFields[fn.Kind]
			if member := fn.Field(fields[1]); member != nil {
				refs.Add(Reference{Kind: RefCall, Name: member.Text, Scope: scope, Span: n.Span})
			}
			e.walk(fn.Field(fields[0]), scope, table, refs)
		default:
			e.walk(fn, scope, table, refs)
		}
	}
	e.walk(n.Field("arguments"), scope, table, refs)
}

// paramNames flattens a parameter list node across the supported grammars.
func paramNames(params *syntax.Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, p := range params.Children {
		switch p.Kind {
		case "identifier":
			out = append(out, p.Text)
		case "required_parameter", "optional_parameter":
			if pat := p.Field("pattern"); pat != nil && pat.Kind == "identifier" {
				out = append(out, pat.Text)
			}
		case "default_parameter", "typed_default_parameter":
			if name := p.Field("name"); name != nil {
				out = append(out, name.Text)
			}
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			if id := p.FirstChildOfKind("identifier"); id != nil {
				out = append(out, id.Text)
			}
		case "parameter":
			if pat := p.Field("pattern"); pat != nil && pat.Kind == "identifier" {
				out = append(out, pat.Text)
			}
		case "parameter_declaration", "variadic_parameter_declaration":
			for _, name := range p.Fields("name") {
				out = append(out, name.Text)
			}
		case "self_parameter":
			out = append(out, "self")
		}
	}
	return out
}

// baseNames extracts base class names across grammars: JS class_heritage,
// Python superclasses, Rust traits are not inherited here (impl blocks carry
// them separately).
func baseNames(n *syntax.Node) []string {
	var out []string
	if supers := n.Field("superclasses"); supers != nil {
		for _, s := range supers.Children {
			if s.Kind == "identifier" || s.Kind == "attribute" {
				out = append(out, s.Text)
			}
		}
		return out
	}
	if heritage := n.FirstChildOfKind("class_heritage"); heritage != nil {
		collect := func(c *syntax.Node) {
			if c != nil && (c.Kind == "identifier" || c.Kind == "member_expression") {
				out = append(out, c.Text)
			}
		}
		if ext := heritage.FirstChildOfKind("extends_clause"); ext != nil {
			if v := ext.Field("value"); v != nil {
				collect(v)
			} else {
				for _, c := range ext.Children {
					collect(c)
				}
			}
		} else {
			for _, c := range heritage.Children {
				collect(c)
			}
		}
	}
	return out
}
