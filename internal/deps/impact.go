package deps

import "sort"

// ImpactResult is the blast radius of changing a set of files.
type ImpactResult struct {
	DirectlyAffected     []string `json:"directlyAffected"`
	TransitivelyAffected []string `json:"transitivelyAffected"`
	RiskScore            float64  `json:"riskScore"`
}

// AssessImpact follows import edges in reverse to find files affected by
// changing the given ones. RiskScore is the affected share of all analyzed
// files.
func AssessImpact(g *Graph, changedFiles []string) *ImpactResult {
	changed := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changed[f] = true
	}

	// Files that import a changed file directly.
	direct := make(map[string]bool)
	for _, e := range g.Edges {
		if changed[e.To] && !changed[e.From] {
			direct[e.From] = true
		}
	}

	// Expand the frontier until no new importers appear.
	affected := make(map[string]bool, len(direct))
	frontier := make(map[string]bool, len(direct))
	for f := range direct {
		affected[f] = true
		frontier[f] = true
	}
	for len(frontier) > 0 {
		next := make(map[string]bool)
		for _, e := range g.Edges {
			if frontier[e.To] && !changed[e.From] && !affected[e.From] {
				affected[e.From] = true
				next[e.From] = true
			}
		}
		frontier = next
	}

	result := &ImpactResult{
		DirectlyAffected:     sortedKeys(direct),
		TransitivelyAffected: sortedKeys(affected),
	}
	if len(g.Nodes) > 0 {
		result.RiskScore = float64(len(affected)) / float64(len(g.Nodes))
	}
	return result
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
