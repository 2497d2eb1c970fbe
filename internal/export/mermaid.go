package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/symgraph/symgraph/internal/contextmap"
	"github.com/symgraph/symgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a dependency or
// symbol graph view. Import edges become plain arrows; other edge types are
// labeled.
func GenerateMermaid(view *contextmap.GraphView) string {
	// Node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := make([]contextmap.NodeView, len(view.Nodes))
	copy(nodes, view.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		label := n.Name
		if n.Type == string(graph.NodeModule) {
			label = shortPath(n.Name)
		}
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(n.ID), escapeLabel(label)))
	}

	for _, e := range view.Edges {
		srcID := getID(e.Source)
		tgtID := getID(e.Target)
		if e.Type == string(graph.RelImports) {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", srcID, tgtID))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s -->|%s| %s\n", srcID, e.Type, tgtID))
	}

	return sb.String()
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// escapeLabel keeps quotes out of Mermaid labels.
func escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `'`)
}
