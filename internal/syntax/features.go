package syntax

// ImportKind classifies how a module is imported.
type ImportKind string

const (
	ImportKindStatic  ImportKind = "import"
	ImportKindRequire ImportKind = "require"
	ImportKindDynamic ImportKind = "dynamic_import"
	ImportKindFrom    ImportKind = "from_import"
)

// ImportFeature is one imported binding. A bare module import has an empty
// Name; a multi-name import statement yields one feature per name.
type ImportFeature struct {
	Name      string     `json:"name,omitempty"`
	Module    string     `json:"module"`
	Kind      ImportKind `json:"type"`
	Alias     string     `json:"alias,omitempty"`
	IsDefault bool       `json:"isDefault"`
	Span      Span       `json:"span"`
}

// ExportFeature is one exported binding. Source is set for re-exports
// (export ... from "module").
type ExportFeature struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Source    string `json:"source,omitempty"`
	Span      Span   `json:"span"`
}

// FunctionFeature describes a declared function.
type FunctionFeature struct {
	Name    string   `json:"name"`
	IsAsync bool     `json:"isAsync"`
	IsArrow bool     `json:"isArrow"`
	Params  []string `json:"params"`
	Span    Span     `json:"span"`
}

// ClassFeature describes a declared class with its members and bases.
type ClassFeature struct {
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
	Fields  []string `json:"fields"`
	Bases   []string `json:"bases"`
	Span    Span     `json:"span"`
}

// VariableFeature describes a top-level variable declaration.
type VariableFeature struct {
	Name    string `json:"name"`
	IsConst bool   `json:"isConst"`
	Span    Span   `json:"span"`
}

// FeatureSet is the pre-extracted feature bag attached to a Tree. The
// dependency analyzer and unused-export detection read imports/exports from
// here rather than re-walking the tree.
type FeatureSet struct {
	Imports   []ImportFeature   `json:"imports"`
	Exports   []ExportFeature   `json:"exports"`
	Functions []FunctionFeature `json:"functions"`
	Classes   []ClassFeature    `json:"classes"`
	Variables []VariableFeature `json:"variables"`
}
