package syntax

import "unicode"

// extractGoFeatures populates the feature bag for Go trees. Exported names
// follow Go's capitalization rule. Struct and interface types map onto
// ClassFeature, with methods gathered from receiver declarations.
func extractGoFeatures(t *Tree) {
	if t.Root == nil {
		return
	}

	classIndex := make(map[string]int)

	for _, child := range t.Root.Children {
		switch child.Kind {
		case "import_declaration":
			t.Features.Imports = append(t.Features.Imports, goImports(child)...)
		case "function_declaration":
			if name := child.Field("name"); name != nil {
				t.Features.Functions = append(t.Features.Functions, FunctionFeature{
					Name:   name.Text,
					Params: goParams(child.Field("parameters")),
					Span:   child.Span,
				})
				goExport(t.Features, name.Text, child.Span)
			}
		case "type_declaration":
			for _, spec := range child.ChildrenOfKind("type_spec") {
				if cls := goType(spec); cls != nil {
					classIndex[cls.Name] = len(t.Features.Classes)
					t.Features.Classes = append(t.Features.Classes, *cls)
					goExport(t.Features, cls.Name, cls.Span)
				}
			}
		case "var_declaration", "const_declaration":
			goVariables(t.Features, child)
		}
	}

	// Attach methods to their receiver types after all type specs are known.
	for _, child := range t.Root.Children {
		if child.Kind != "method_declaration" {
			continue
		}
		name := child.Field("name")
		if name == nil {
			continue
		}
		t.Features.Functions = append(t.Features.Functions, FunctionFeature{
			Name:   name.Text,
			Params: goParams(child.Field("parameters")),
			Span:   child.Span,
		})
		if recv := goReceiverType(child.Field("receiver")); recv != "" {
			if idx, ok := classIndex[recv]; ok {
				t.Features.Classes[idx].Methods = append(t.Features.Classes[idx].Methods, name.Text)
			}
		}
	}
}

func goExport(fs *FeatureSet, name string, span Span) {
	if name == "" {
		return
	}
	if !unicode.IsUpper(rune(name[0])) {
		return
	}
	fs.Exports = append(fs.Exports, ExportFeature{Name: name, Span: span})
}

func goImports(decl *Node) []ImportFeature {
	var specs []*Node
	if list := decl.FirstChildOfKind("import_spec_list"); list != nil {
		specs = list.ChildrenOfKind("import_spec")
	} else {
		specs = decl.ChildrenOfKind("import_spec")
	}

	var out []ImportFeature
	for _, spec := range specs {
		path := spec.Field("path")
		if path == nil {
			continue
		}
		imp := ImportFeature{
			Module: unquote(path.Text),
			Kind:   ImportKindStatic,
			Span:   spec.Span,
		}
		if name := spec.Field("name"); name != nil {
			imp.Alias = name.Text
		}
		out = append(out, imp)
	}
	return out
}

func goParams(params *Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, decl := range params.Children {
		if decl.Kind != "parameter_declaration" && decl.Kind != "variadic_parameter_declaration" {
			continue
		}
		for _, name := range decl.Fields("name") {
			out = append(out, name.Text)
		}
	}
	return out
}

// goType maps a struct or interface type spec to a class feature. Other
// type specs (aliases, basic definitions) are skipped.
func goType(spec *Node) *ClassFeature {
	name := spec.Field("name")
	typ := spec.Field("type")
	if name == nil || typ == nil {
		return nil
	}

	switch typ.Kind {
	case "struct_type":
		cls := &ClassFeature{Name: name.Text, Span: spec.Span}
		if fields := typ.FirstChildOfKind("field_declaration_list"); fields != nil {
			for _, field := range fields.ChildrenOfKind("field_declaration") {
				names := field.Fields("name")
				if len(names) == 0 {
					// Embedded field: the type doubles as the name.
					if ft := field.Field("type"); ft != nil {
						cls.Bases = append(cls.Bases, ft.Text)
					}
					continue
				}
				for _, fn := range names {
					cls.Fields = append(cls.Fields, fn.Text)
				}
			}
		}
		return cls
	case "interface_type":
		cls := &ClassFeature{Name: name.Text, Span: spec.Span}
		for _, member := range typ.Children {
			switch member.Kind {
			case "method_elem", "method_spec":
				if mn := member.Field("name"); mn != nil {
					cls.Methods = append(cls.Methods, mn.Text)
				}
			case "type_elem":
				cls.Bases = append(cls.Bases, member.Text)
			}
		}
		return cls
	default:
		return nil
	}
}

func goVariables(fs *FeatureSet, decl *Node) {
	isConst := decl.Kind == "const_declaration"
	specKind := "var_spec"
	if isConst {
		specKind = "const_spec"
	}

	var specs []*Node
	specs = append(specs, decl.ChildrenOfKind(specKind)...)
	for _, list := range decl.ChildrenOfKind(specKind + "_list") {
		specs = append(specs, list.ChildrenOfKind(specKind)...)
	}

	for _, spec := range specs {
		for _, name := range spec.Fields("name") {
			fs.Variables = append(fs.Variables, VariableFeature{
				Name:    name.Text,
				IsConst: isConst,
				Span:    spec.Span,
			})
			goExport(fs, name.Text, spec.Span)
		}
	}
}

// goReceiverType strips pointer and generic wrappers from a method receiver
// and returns the bare type name.
func goReceiverType(receiver *Node) string {
	if receiver == nil {
		return ""
	}
	decl := receiver.FirstChildOfKind("parameter_declaration")
	if decl == nil {
		return ""
	}
	typ := decl.Field("type")
	for typ != nil {
		switch typ.Kind {
		case "type_identifier":
			return typ.Text
		case "pointer_type":
			if len(typ.Children) == 0 {
				return ""
			}
			typ = typ.Children[len(typ.Children)-1]
		case "generic_type":
			typ = typ.Field("type")
		default:
			return ""
		}
	}
	return ""
}
