package syntax

// extractRustFeatures populates the feature bag for Rust trees. Items with a
// pub visibility modifier are recorded as exports. Structs, enums and traits
// map onto ClassFeature; impl-block methods attach to the implementing type.
func extractRustFeatures(t *Tree) {
	if t.Root == nil {
		return
	}

	classIndex := make(map[string]int)

	for _, child := range t.Root.Children {
		switch child.Kind {
		case "use_declaration":
			t.Features.Imports = append(t.Features.Imports, rustUse(child)...)
		case "function_item":
			if fn := rustFunction(child); fn != nil {
				t.Features.Functions = append(t.Features.Functions, *fn)
				if rustIsPub(child) {
					t.Features.Exports = append(t.Features.Exports, ExportFeature{Name: fn.Name, Span: child.Span})
				}
			}
		case "struct_item", "enum_item", "trait_item":
			if cls := rustType(child); cls != nil {
				classIndex[cls.Name] = len(t.Features.Classes)
				t.Features.Classes = append(t.Features.Classes, *cls)
				if rustIsPub(child) {
					t.Features.Exports = append(t.Features.Exports, ExportFeature{Name: cls.Name, Span: child.Span})
				}
			}
		case "const_item", "static_item":
			if name := child.Field("name"); name != nil {
				t.Features.Variables = append(t.Features.Variables, VariableFeature{
					Name:    name.Text,
					IsConst: true,
					Span:    child.Span,
				})
				if rustIsPub(child) {
					t.Features.Exports = append(t.Features.Exports, ExportFeature{Name: name.Text, Span: child.Span})
				}
			}
		}
	}

	for _, child := range t.Root.Children {
		if child.Kind != "impl_item" {
			continue
		}
		rustImpl(t.Features, classIndex, child)
	}
}

func rustIsPub(item *Node) bool {
	return item.HasChildOfKind("visibility_modifier")
}

// rustUse flattens a use declaration into import features. Grouped paths
// like use a::{b, c as d}; yield one feature per leaf.
func rustUse(decl *Node) []ImportFeature {
	arg := decl.Field("argument")
	if arg == nil {
		return nil
	}
	return rustUseTree(arg, "", decl.Span)
}

func rustUseTree(n *Node, prefix string, span Span) []ImportFeature {
	join := func(a, b string) string {
		if a == "" {
			return b
		}
		return a + "::" + b
	}

	switch n.Kind {
	case "identifier", "crate", "self", "super":
		full := join(prefix, n.Text)
		return []ImportFeature{{Name: n.Text, Module: full, Kind: ImportKindStatic, Span: span}}
	case "scoped_identifier":
		path := n.Field("path")
		name := n.Field("name")
		if name == nil {
			return nil
		}
		base := prefix
		if path != nil {
			base = join(prefix, path.Text)
		}
		return []ImportFeature{{Name: name.Text, Module: join(base, name.Text), Kind: ImportKindStatic, Span: span}}
	case "use_as_clause":
		path := n.Field("path")
		alias := n.Field("alias")
		if path == nil {
			return nil
		}
		imps := rustUseTree(path, prefix, span)
		if alias != nil {
			for i := range imps {
				imps[i].Alias = alias.Text
			}
		}
		return imps
	case "scoped_use_list":
		path := n.Field("path")
		list := n.Field("list")
		base := prefix
		if path != nil {
			base = join(prefix, path.Text)
		}
		if list == nil {
			return nil
		}
		var out []ImportFeature
		for _, c := range list.Children {
			out = append(out, rustUseTree(c, base, span)...)
		}
		return out
	case "use_list":
		var out []ImportFeature
		for _, c := range n.Children {
			out = append(out, rustUseTree(c, prefix, span)...)
		}
		return out
	case "use_wildcard":
		base := prefix
		if len(n.Children) > 0 {
			base = join(prefix, n.Children[0].Text)
		}
		return []ImportFeature{{Name: "*", Module: base, Kind: ImportKindStatic, Span: span}}
	default:
		return nil
	}
}

func rustFunction(n *Node) *FunctionFeature {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	isAsync := false
	if mods := n.FirstChildOfKind("function_modifiers"); mods != nil {
		isAsync = mods.HasChildOfKind("async")
	}
	return &FunctionFeature{
		Name:    name.Text,
		IsAsync: isAsync,
		Params:  rustParams(n.Field("parameters")),
		Span:    n.Span,
	}
}

func rustParams(params *Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, p := range params.Children {
		switch p.Kind {
		case "parameter":
			if pat := p.Field("pattern"); pat != nil && pat.Kind == "identifier" {
				out = append(out, pat.Text)
			}
		case "self_parameter":
			out = append(out, "self")
		}
	}
	return out
}

func rustType(item *Node) *ClassFeature {
	name := item.Field("name")
	if name == nil {
		return nil
	}
	cls := &ClassFeature{Name: name.Text, Span: item.Span}

	body := item.Field("body")
	if body == nil {
		return cls
	}

	switch item.Kind {
	case "struct_item":
		for _, field := range body.ChildrenOfKind("field_declaration") {
			if fn := field.Field("name"); fn != nil {
				cls.Fields = append(cls.Fields, fn.Text)
			}
		}
	case "enum_item":
		for _, variant := range body.ChildrenOfKind("enum_variant") {
			if vn := variant.Field("name"); vn != nil {
				cls.Fields = append(cls.Fields, vn.Text)
			}
		}
	case "trait_item":
		for _, member := range body.Children {
			if member.Kind == "function_item" || member.Kind == "function_signature_item" {
				if mn := member.Field("name"); mn != nil {
					cls.Methods = append(cls.Methods, mn.Text)
				}
			}
		}
	}
	return cls
}

// rustImpl records impl-block functions and attaches them as methods of the
// implementing type when that type was declared in the same file.
func rustImpl(fs *FeatureSet, classIndex map[string]int, impl *Node) {
	typeName := ""
	if typ := impl.Field("type"); typ != nil {
		switch typ.Kind {
		case "type_identifier":
			typeName = typ.Text
		case "generic_type":
			if inner := typ.Field("type"); inner != nil {
				typeName = inner.Text
			}
		}
	}

	body := impl.Field("body")
	if body == nil {
		return
	}
	for _, member := range body.ChildrenOfKind("function_item") {
		fn := rustFunction(member)
		if fn == nil {
			continue
		}
		fs.Functions = append(fs.Functions, *fn)
		if idx, ok := classIndex[typeName]; ok {
			fs.Classes[idx].Methods = append(fs.Classes[idx].Methods, fn.Name)
		}
	}
}
