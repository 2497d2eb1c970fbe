package syntax

import "strings"

// extractJSFeatures populates the feature bag for JavaScript, TypeScript and
// TSX trees. The three dialects share one grammar family, so one walker
// covers them.
func extractJSFeatures(t *Tree) {
	if t.Root == nil {
		return
	}

	for _, child := range t.Root.Children {
		switch child.Kind {
		case "import_statement":
			t.Features.Imports = append(t.Features.Imports, jsImports(child)...)
		case "export_statement":
			jsExport(t.Features, child)
		case "lexical_declaration", "variable_declaration":
			jsVariables(t.Features, child)
		}
	}

	t.Walk(func(n *Node) {
		switch n.Kind {
		case "function_declaration", "generator_function_declaration":
			if fn := jsFunction(n, false); fn != nil {
				t.Features.Functions = append(t.Features.Functions, *fn)
			}
		case "class_declaration":
			if cls := jsClass(n); cls != nil {
				t.Features.Classes = append(t.Features.Classes, *cls)
			}
		case "variable_declarator":
			jsDeclaratorFunctions(t.Features, n)
		case "call_expression":
			jsCallImports(t.Features, n)
		}
	})
}

// unquote strips string delimiters from an import source literal.
func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

// jsImports expands one import statement into per-name import features.
func jsImports(stmt *Node) []ImportFeature {
	source := stmt.Field("source")
	if source == nil {
		return nil
	}
	module := unquote(source.Text)

	clause := stmt.FirstChildOfKind("import_clause")
	if clause == nil {
		// Bare side-effect import: import './setup'
		return []ImportFeature{{Module: module, Kind: ImportKindStatic, Span: stmt.Span}}
	}

	var out []ImportFeature
	for _, c := range clause.Children {
		switch c.Kind {
		case "identifier":
			out = append(out, ImportFeature{
				Name:      c.Text,
				Module:    module,
				Kind:      ImportKindStatic,
				IsDefault: true,
				Span:      stmt.Span,
			})
		case "namespace_import":
			if id := c.FirstChildOfKind("identifier"); id != nil {
				out = append(out, ImportFeature{
					Name:   id.Text,
					Module: module,
					Kind:   ImportKindStatic,
					Span:   stmt.Span,
				})
			}
		case "named_imports":
			for _, spec := range c.ChildrenOfKind("import_specifier") {
				name := spec.Field("name")
				if name == nil {
					continue
				}
				imp := ImportFeature{
					Name:   name.Text,
					Module: module,
					Kind:   ImportKindStatic,
					Span:   stmt.Span,
				}
				if alias := spec.Field("alias"); alias != nil {
					imp.Alias = alias.Text
				}
				out = append(out, imp)
			}
		}
	}
	return out
}

// jsExport records exported bindings from an export statement. Re-exports
// carry the source module.
func jsExport(fs *FeatureSet, stmt *Node) {
	var source string
	if src := stmt.Field("source"); src != nil {
		source = unquote(src.Text)
	}
	isDefault := stmt.HasChildOfKind("default")

	if decl := stmt.Field("declaration"); decl != nil {
		switch decl.Kind {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			name := "default"
			if n := decl.Field("name"); n != nil {
				name = n.Text
			}
			fs.Exports = append(fs.Exports, ExportFeature{Name: name, IsDefault: isDefault, Span: stmt.Span})
		case "lexical_declaration", "variable_declaration":
			for _, d := range decl.ChildrenOfKind("variable_declarator") {
				if n := d.Field("name"); n != nil {
					fs.Exports = append(fs.Exports, ExportFeature{Name: n.Text, Span: stmt.Span})
				}
			}
		default:
			fs.Exports = append(fs.Exports, ExportFeature{Name: decl.Text, IsDefault: isDefault, Span: stmt.Span})
		}
		return
	}

	if clause := stmt.FirstChildOfKind("export_clause"); clause != nil {
		for _, spec := range clause.ChildrenOfKind("export_specifier") {
			name := spec.Field("name")
			if name == nil {
				continue
			}
			exported := name.Text
			if alias := spec.Field("alias"); alias != nil {
				exported = alias.Text
			}
			fs.Exports = append(fs.Exports, ExportFeature{
				Name:      exported,
				IsDefault: exported == "default",
				Source:    source,
				Span:      stmt.Span,
			})
		}
		return
	}

	if isDefault {
		// export default <expression>
		name := "default"
		if v := stmt.Field("value"); v != nil && v.Kind == "identifier" {
			name = v.Text
		}
		fs.Exports = append(fs.Exports, ExportFeature{Name: name, IsDefault: true, Span: stmt.Span})
	}
}

// jsFunction builds a FunctionFeature from a function declaration node.
func jsFunction(n *Node, isArrow bool) *FunctionFeature {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	return &FunctionFeature{
		Name:    name.Text,
		IsAsync: n.HasChildOfKind("async"),
		IsArrow: isArrow,
		Params:  jsParams(n.Field("parameters")),
		Span:    n.Span,
	}
}

// jsParams flattens a formal_parameters node into parameter names. The TS
// grammar wraps each parameter in required_parameter/optional_parameter;
// plain JS uses bare identifiers.
func jsParams(params *Node) []string {
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
		case "assignment_pattern":
			if left := p.Field("left"); left != nil && left.Kind == "identifier" {
				out = append(out, left.Text)
			}
		case "rest_pattern":
			if id := p.FirstChildOfKind("identifier"); id != nil {
				out = append(out, id.Text)
			}
		}
	}
	return out
}

// jsClass builds a ClassFeature including methods, fields and base classes.
func jsClass(n *Node) *ClassFeature {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	cls := &ClassFeature{Name: name.Text, Span: n.Span}

	if heritage := n.FirstChildOfKind("class_heritage"); heritage != nil {
		cls.Bases = append(cls.Bases, jsHeritage(heritage)...)
	}

	if body := n.Field("body"); body != nil {
		for _, member := range body.Children {
			switch member.Kind {
			case "method_definition":
				if mn := member.Field("name"); mn != nil {
					cls.Methods = append(cls.Methods, mn.Text)
				}
			case "public_field_definition", "field_definition":
				if fn := member.Field("name"); fn != nil {
					cls.Fields = append(cls.Fields, fn.Text)
				}
			}
		}
	}
	return cls
}

// jsHeritage pulls base names out of a class_heritage node. The TS grammar
// nests an extends_clause; the JS grammar puts the expression directly
// after the extends keyword.
func jsHeritage(heritage *Node) []string {
	var out []string
	appendBase := func(n *Node) {
		if n != nil && (n.Kind == "identifier" || n.Kind == "member_expression") {
			out = append(out, n.Text)
		}
	}
	if ext := heritage.FirstChildOfKind("extends_clause"); ext != nil {
		if v := ext.Field("value"); v != nil {
			appendBase(v)
		} else {
			for _, c := range ext.Children {
				appendBase(c)
			}
		}
		return out
	}
	for _, c := range heritage.Children {
		appendBase(c)
	}
	return out
}

// jsVariables records top-level variable declarations. Declarators whose
// value is a function are handled by jsDeclaratorFunctions instead.
func jsVariables(fs *FeatureSet, decl *Node) {
	isConst := decl.HasChildOfKind("const")
	for _, d := range decl.ChildrenOfKind("variable_declarator") {
		name := d.Field("name")
		if name == nil || name.Kind != "identifier" {
			continue
		}
		if v := d.Field("value"); v != nil && (v.Kind == "arrow_function" || v.Kind == "function_expression" || v.Kind == "function") {
			continue
		}
		fs.Variables = append(fs.Variables, VariableFeature{
			Name:    name.Text,
			IsConst: isConst,
			Span:    decl.Span,
		})
	}
}

// jsDeclaratorFunctions records functions bound through declarators:
// const f = () => {} and const g = function() {}.
func jsDeclaratorFunctions(fs *FeatureSet, d *Node) {
	name := d.Field("name")
	value := d.Field("value")
	if name == nil || value == nil || name.Kind != "identifier" {
		return
	}
	switch value.Kind {
	case "arrow_function":
		fs.Functions = append(fs.Functions, FunctionFeature{
			Name:    name.Text,
			IsAsync: value.HasChildOfKind("async"),
			IsArrow: true,
			Params:  jsArrowParams(value),
			Span:    d.Span,
		})
	case "function_expression", "function":
		fs.Functions = append(fs.Functions, FunctionFeature{
			Name:    name.Text,
			IsAsync: value.HasChildOfKind("async"),
			Params:  jsParams(value.Field("parameters")),
			Span:    d.Span,
		})
	}
}

// jsArrowParams handles both (a, b) => and single-parameter a => forms.
func jsArrowParams(arrow *Node) []string {
	if params := arrow.Field("parameters"); params != nil {
		return jsParams(params)
	}
	if p := arrow.Field("parameter"); p != nil && p.Kind == "identifier" {
		return []string{p.Text}
	}
	return nil
}

// jsCallImports detects require() and dynamic import() calls anywhere in
// the tree and records them as import features.
func jsCallImports(fs *FeatureSet, call *Node) {
	fn := call.Field("function")
	args := call.Field("arguments")
	if fn == nil || args == nil {
		return
	}

	var kind ImportKind
	switch {
	case fn.Kind == "identifier" && fn.Text == "require":
		kind = ImportKindRequire
	case fn.Kind == "import":
		kind = ImportKindDynamic
	default:
		return
	}

	arg := args.FirstChildOfKind("string")
	if arg == nil {
		return
	}
	fs.Imports = append(fs.Imports, ImportFeature{
		Module: unquote(arg.Text),
		Kind:   kind,
		Span:   call.Span,
	})
}
