package syntax

// Span is the positional extent of a node in its source file.
// Lines and columns are zero-based, matching tree-sitter points.
type Span struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
}

// Node is a language-agnostic syntax node. Every parser adapter produces
// this shape; all downstream analysis consumes only this model.
//
// NamedFields values are non-owning references into Children: a field is a
// semantically named subset of the same children, never additional nodes.
type Node struct {
	Kind        string             `json:"kind"`
	Text        string             `json:"text"`
	Span        Span               `json:"span"`
	NamedFields map[string][]*Node `json:"-"`
	Children    []*Node            `json:"children,omitempty"`
	HasError    bool               `json:"hasError,omitempty"`
	IsMissing   bool               `json:"isMissing,omitempty"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
}

// Field returns the first node attached under the given field name, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil || len(n.NamedFields[name]) == 0 {
		return nil
	}
	return n.NamedFields[name][0]
}

// Fields returns every node attached under the given field name.
func (n *Node) Fields(name string) []*Node {
	if n == nil {
		return nil
	}
	return n.NamedFields[name]
}

// ChildrenOfKind returns direct children whose Kind matches.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child whose Kind matches, or nil.
func (n *Node) FirstChildOfKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// HasChildOfKind reports whether any direct child has the given Kind.
func (n *Node) HasChildOfKind(kind string) bool {
	return n.FirstChildOfKind(kind) != nil
}

// ParseError describes one recovered parse failure.
type ParseError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Tree is the normalized result of parsing one source file. Root may be nil
// when parsing produced nothing. Adapters that favor feature extraction over
// full tree construction populate Features; consumers must tolerate either
// representation. Trees are created per parse call and never mutated
// concurrently.
type Tree struct {
	Root         *Node
	Language     Language
	HasErrors    bool
	ErrorDetails []ParseError
	Features     *FeatureSet
}

// Walk visits every node in the tree depth-first, parents before children.
// A nil root is a no-op.
func (t *Tree) Walk(visit func(*Node)) {
	if t == nil || t.Root == nil {
		return
	}
	walkNode(t.Root, visit)
}

func walkNode(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		walkNode(c, visit)
	}
}
