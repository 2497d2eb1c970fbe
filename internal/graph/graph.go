package graph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/symgraph/symgraph/internal/syntax"
)

// Graph is the mutable relationship graph for one analysis session.
// Thread-safe via sync.RWMutex; writes normally come from a single builder
// goroutine, reads from query handlers.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []*Node
	edges []*Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node under the composite (file, type, name) identity. The
// call is idempotent: an existing node with the same identity is returned
// unchanged.
func (g *Graph) AddNode(name string, typ NodeType, filePath string, span syntax.Span, properties map[string]string) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addNodeLocked(name, typ, filePath, span, properties)
}

func (g *Graph) addNodeLocked(name string, typ NodeType, filePath string, span syntax.Span, properties map[string]string) *Node {
	id := NodeID(filePath, typ, name)
	if existing, ok := g.nodes[id]; ok {
		return existing
	}
	node := &Node{
		ID:         id,
		Name:       name,
		Type:       typ,
		FilePath:   filePath,
		Span:       span,
		Properties: properties,
	}
	g.nodes[id] = node
	g.order = append(g.order, node)
	return node
}

// FindOrCreateNode resolves a possibly compound "file:name" string to a
// node, creating one when nothing matches. Class-typed nodes store their
// name with the file path folded in ("{file}:{name}") so that cross-file
// lookups by bare class name succeed via suffix matching. Suffix matches are
// first-match in insertion order: best-effort and order-dependent when two
// files declare same-named symbols.
func (g *Graph) FindOrCreateNode(name string, typ NodeType, filePath string, span syntax.Span) *Node {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		filePath, name = name[:i], name[i+1:]
	}

	stored := name
	if typ == NodeClass {
		stored = filePath + ":" + name
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.nodes[NodeID(filePath, typ, stored)]; ok {
		return existing
	}
	if match := g.findByNameLocked(typ, name); match != nil {
		return match
	}
	return g.addNodeLocked(stored, typ, filePath, span, nil)
}

// findByNameLocked returns the first node of the given type whose stored
// name equals name or ends in ":"+name.
func (g *Graph) findByNameLocked(typ NodeType, name string) *Node {
	suffix := ":" + name
	for _, n := range g.order {
		if typ != "" && n.Type != typ {
			continue
		}
		if n.Name == name || strings.HasSuffix(n.Name, suffix) {
			return n
		}
	}
	return nil
}

// AddEdge appends an edge without endpoint validation.
func (g *Graph) AddEdge(sourceID, targetID string, typ RelationType, properties map[string]string) *Edge {
	edge := &Edge{SourceID: sourceID, TargetID: targetID, Type: typ, Properties: properties}
	g.mu.Lock()
	g.edges = append(g.edges, edge)
	g.mu.Unlock()
	return edge
}

// CreateEdge appends an edge after checking both endpoints exist. A missing
// endpoint returns ErrUnknownNode.
func (g *Graph) CreateEdge(sourceID, targetID string, typ RelationType, properties map[string]string) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[sourceID]; !ok {
		return nil, fmt.Errorf("%w: edge source %s", ErrUnknownNode, sourceID)
	}
	if _, ok := g.nodes[targetID]; !ok {
		return nil, fmt.Errorf("%w: edge target %s", ErrUnknownNode, targetID)
	}
	edge := &Edge{SourceID: sourceID, TargetID: targetID, Type: typ, Properties: properties}
	g.edges = append(g.edges, edge)
	return edge, nil
}

// GetNode returns the node with the given composite ID, or nil.
func (g *Graph) GetNode(id string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// FindNode returns the first node whose stored name equals or suffix-matches
// the argument, in insertion order, or nil.
func (g *Graph) FindNode(name string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.findByNameLocked("", name)
}

// GetEdges filters the edge list. Empty source, target or type match
// everything.
func (g *Graph) GetEdges(sourceID, targetID string, typ RelationType) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Edge
	for _, e := range g.edges {
		if sourceID != "" && e.SourceID != sourceID {
			continue
		}
		if targetID != "" && e.TargetID != targetID {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetNodesByType returns nodes of one type in insertion order.
func (g *Graph) GetNodesByType(typ NodeType) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Node
	for _, n := range g.order {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// GetNodesByFile returns nodes declared in one file in insertion order.
func (g *Graph) GetNodesByFile(filePath string) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Node
	for _, n := range g.order {
		if n.FilePath == filePath {
			out = append(out, n)
		}
	}
	return out
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Stats returns node and edge counts per type.
func (g *Graph) Stats() GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	stats := GraphStats{
		NodeCount: len(g.order),
		EdgeCount: len(g.edges),
		Nodes:     make(map[NodeType]int),
		Edges:     make(map[RelationType]int),
	}
	for _, n := range g.order {
		stats.Nodes[n.Type]++
	}
	for _, e := range g.edges {
		stats.Edges[e.Type]++
	}
	return stats
}

// Clear drops all nodes and edges.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
}

// GraphStats summarizes graph contents.
type GraphStats struct {
	NodeCount int                  `json:"nodeCount"`
	EdgeCount int                  `json:"edgeCount"`
	Nodes     map[NodeType]int     `json:"nodes"`
	Edges     map[RelationType]int `json:"edges"`
}
