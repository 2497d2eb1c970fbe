package deps

import "path/filepath"

// ProjectStats summarizes the whole dependency graph.
type ProjectStats struct {
	ModuleCount        int            `json:"moduleCount"`
	EdgeCount          int            `json:"edgeCount"`
	CycleCount         int            `json:"cycleCount"`
	UnresolvedCount    int            `json:"unresolvedCount"`
	ModulesByExtension map[string]int `json:"modulesByExtension,omitempty"`
	// FanOutHistogram maps a direct-dependency count to the number of
	// modules with that many dependencies.
	FanOutHistogram map[int]int `json:"fanOutHistogram,omitempty"`
}

// Overview computes project totals from a built dependency graph and its
// cycles.
func Overview(g *Graph, cycles [][]string) ProjectStats {
	stats := ProjectStats{
		ModuleCount:        len(g.Nodes),
		EdgeCount:          len(g.Edges),
		CycleCount:         len(cycles),
		UnresolvedCount:    len(g.Unresolved),
		ModulesByExtension: make(map[string]int),
		FanOutHistogram:    make(map[int]int),
	}
	for _, node := range g.Nodes {
		stats.ModulesByExtension[filepath.Ext(node)]++
		stats.FanOutHistogram[len(g.adjacency[node])]++
	}
	return stats
}
