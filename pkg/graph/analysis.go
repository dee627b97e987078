package graph

import (
	"sort"

	"github.com/acpaulo/causal-inference-short-course/pkg/sys/intern"
)

// HubStat summarizes one vertex's degree profile. Reach is the size of its
// downstream closure, the regulon a knockout would perturb.
type HubStat struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	OutDegree int    `json:"out_degree"`
	InDegree  int    `json:"in_degree"`
	Reach     int    `json:"reach"`
}

// Hubs returns the top vertices by out-degree. Ties break by name so the
// ranking is stable across runs.
func Hubs(g *Graph, top int) []HubStat {
	vs := g.Store.Vertices()
	stats := make([]HubStat, 0, len(vs))
	for _, v := range vs {
		out := g.Store.OutEdges(v.Index)
		if len(out) == 0 {
			continue
		}
		stats = append(stats, HubStat{
			Index:     v.Index,
			Name:      v.Name,
			Kind:      intern.GetStr(v.Kind),
			OutDegree: len(out),
			InDegree:  len(g.Store.InEdges(v.Index)),
			Reach:     len(g.Downstream(v.Index)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].OutDegree != stats[j].OutDegree {
			return stats[i].OutDegree > stats[j].OutDegree
		}
		return stats[i].Name < stats[j].Name
	})

	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}
	return stats
}

// Components groups vertices into weakly connected components (regulatory
// modules), largest first. Edge direction is ignored for grouping.
func Components(g *Graph) [][]uint32 {
	n := g.Store.VertexCount()
	uf := NewUnionFind(n)

	for i := 0; i < n; i++ {
		for _, e := range g.Store.OutEdges(uint32(i)) {
			uf.Union(i, int(e.TargetID))
		}
	}

	byRoot := make(map[int][]uint32)
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		byRoot[root] = append(byRoot[root], uint32(i))
	}

	components := make([][]uint32, 0, len(byRoot))
	for _, members := range byRoot {
		components = append(components, members)
	}

	// Largest first; tie-break on the smallest member index for determinism.
	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})
	return components
}
