// Package graph holds the typed relationship graph: nodes for declarations,
// edges for how declarations relate within and across files.
package graph

import (
	"errors"
	"fmt"

	"github.com/symgraph/symgraph/internal/syntax"
)

// NodeType classifies a graph node.
type NodeType string

const (
	NodeModule    NodeType = "module"
	NodeClass     NodeType = "class"
	NodeFunction  NodeType = "function"
	NodeMethod    NodeType = "method"
	NodeParameter NodeType = "parameter"
	NodeVariable  NodeType = "variable"
	NodeAttribute NodeType = "attribute"
	NodeSymbol    NodeType = "symbol"
)

// RelationType classifies a graph edge.
type RelationType string

const (
	RelImports      RelationType = "imports"
	RelContains     RelationType = "contains"
	RelCalls        RelationType = "calls"
	RelInherits     RelationType = "inherits"
	RelReferences   RelationType = "references"
	RelHasAttribute RelationType = "has_attribute"
)

// ErrUnknownNode is returned by CreateEdge when an endpoint does not exist.
// A dangling endpoint indicates a builder bug, not recoverable input.
var ErrUnknownNode = errors.New("graph: unknown node")

// Node is one declaration or synthesized symbol. ID is the composite
// identity "{file}:{type}:{name}"; adding the same triple twice yields the
// same node.
type Node struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       NodeType          `json:"type"`
	FilePath   string            `json:"filePath"`
	Span       syntax.Span       `json:"span"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Edge is one typed relation between two nodes, held by node ID.
type Edge struct {
	SourceID   string            `json:"source"`
	TargetID   string            `json:"target"`
	Type       RelationType      `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// NodeID builds the composite identity for a (file, type, name) triple.
func NodeID(filePath string, typ NodeType, name string) string {
	return fmt.Sprintf("%s:%s:%s", filePath, typ, name)
}
