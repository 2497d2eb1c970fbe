package syntax

import "strings"

// extractPythonFeatures populates the feature bag for Python trees. Python
// has no export syntax; top-level definitions whose names do not start with
// an underscore are treated as the module's exports.
func extractPythonFeatures(t *Tree) {
	if t.Root == nil {
		return
	}

	for _, child := range t.Root.Children {
		pyTopLevel(t.Features, child)
	}

	t.Walk(func(n *Node) {
		switch n.Kind {
		case "function_definition":
			if fn := pyFunction(n); fn != nil {
				t.Features.Functions = append(t.Features.Functions, *fn)
			}
		case "class_definition":
			if cls := pyClass(n); cls != nil {
				t.Features.Classes = append(t.Features.Classes, *cls)
			}
		}
	})
}

// pyTopLevel handles one statement at module scope: imports, implicit
// exports and module-level variables.
func pyTopLevel(fs *FeatureSet, stmt *Node) {
	switch stmt.Kind {
	case "import_statement":
		fs.Imports = append(fs.Imports, pyImport(stmt)...)
	case "import_from_statement":
		fs.Imports = append(fs.Imports, pyFromImport(stmt)...)
	case "function_definition", "class_definition":
		if name := stmt.Field("name"); name != nil {
			pyExport(fs, name.Text, stmt.Span)
		}
	case "decorated_definition":
		if def := stmt.Field("definition"); def != nil {
			pyTopLevel(fs, def)
		}
	case "expression_statement":
		for _, expr := range stmt.ChildrenOfKind("assignment") {
			left := expr.Field("left")
			if left == nil || left.Kind != "identifier" {
				continue
			}
			// Uppercase module-level names follow the constant convention.
			isConst := left.Text == strings.ToUpper(left.Text) && left.Text != strings.ToLower(left.Text)
			fs.Variables = append(fs.Variables, VariableFeature{
				Name:    left.Text,
				IsConst: isConst,
				Span:    stmt.Span,
			})
			pyExport(fs, left.Text, stmt.Span)
		}
	}
}

func pyExport(fs *FeatureSet, name string, span Span) {
	if strings.HasPrefix(name, "_") {
		return
	}
	fs.Exports = append(fs.Exports, ExportFeature{Name: name, Span: span})
}

// pyImport handles "import a.b, c as d".
func pyImport(stmt *Node) []ImportFeature {
	var out []ImportFeature
	for _, c := range stmt.Children {
		switch c.Kind {
		case "dotted_name":
			out = append(out, ImportFeature{
				Name:   c.Text,
				Module: c.Text,
				Kind:   ImportKindStatic,
				Span:   stmt.Span,
			})
		case "aliased_import":
			name := c.Field("name")
			alias := c.Field("alias")
			if name == nil {
				continue
			}
			imp := ImportFeature{
				Name:   name.Text,
				Module: name.Text,
				Kind:   ImportKindStatic,
				Span:   stmt.Span,
			}
			if alias != nil {
				imp.Alias = alias.Text
			}
			out = append(out, imp)
		}
	}
	return out
}

// pyFromImport handles "from a.b import c, d as e" including relative
// modules and wildcard imports.
func pyFromImport(stmt *Node) []ImportFeature {
	moduleNode := stmt.Field("module_name")
	if moduleNode == nil {
		return nil
	}
	module := moduleNode.Text

	if stmt.HasChildOfKind("wildcard_import") {
		return []ImportFeature{{
			Name:   "*",
			Module: module,
			Kind:   ImportKindFrom,
			Span:   stmt.Span,
		}}
	}

	var out []ImportFeature
	for _, c := range stmt.Fields("name") {
		switch c.Kind {
		case "dotted_name", "identifier":
			out = append(out, ImportFeature{
				Name:   c.Text,
				Module: module,
				Kind:   ImportKindFrom,
				Span:   stmt.Span,
			})
		case "aliased_import":
			name := c.Field("name")
			if name == nil {
				continue
			}
			imp := ImportFeature{
				Name:   name.Text,
				Module: module,
				Kind:   ImportKindFrom,
				Span:   stmt.Span,
			}
			if alias := c.Field("alias"); alias != nil {
				imp.Alias = alias.Text
			}
			out = append(out, imp)
		}
	}
	return out
}

func pyFunction(n *Node) *FunctionFeature {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	return &FunctionFeature{
		Name:    name.Text,
		IsAsync: n.HasChildOfKind("async"),
		Params:  pyParams(n.Field("parameters")),
		Span:    n.Span,
	}
}

func pyParams(params *Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, p := range params.Children {
		switch p.Kind {
		case "identifier":
			out = append(out, p.Text)
		case "typed_parameter":
			if id := p.FirstChildOfKind("identifier"); id != nil {
				out = append(out, id.Text)
			}
		case "default_parameter", "typed_default_parameter":
			if name := p.Field("name"); name != nil {
				out = append(out, name.Text)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := p.FirstChildOfKind("identifier"); id != nil {
				out = append(out, id.Text)
			}
		}
	}
	return out
}

func pyClass(n *Node) *ClassFeature {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	cls := &ClassFeature{Name: name.Text, Span: n.Span}

	if supers := n.Field("superclasses"); supers != nil {
		for _, s := range supers.Children {
			if s.Kind == "identifier" || s.Kind == "attribute" {
				cls.Bases = append(cls.Bases, s.Text)
			}
		}
	}

	if body := n.Field("body"); body != nil {
		for _, member := range body.Children {
			def := member
			if member.Kind == "decorated_definition" {
				if d := member.Field("definition"); d != nil {
					def = d
				}
			}
			switch def.Kind {
			case "function_definition":
				if mn := def.Field("name"); mn != nil {
					cls.Methods = append(cls.Methods, mn.Text)
				}
			case "expression_statement":
				for _, assign := range def.ChildrenOfKind("assignment") {
					if left := assign.Field("left"); left != nil && left.Kind == "identifier" {
						cls.Fields = append(cls.Fields, left.Text)
					}
				}
			}
		}
	}
	return cls
}
