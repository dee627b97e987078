package graph

import (
	"fmt"
)

// TopologicalOrder returns all vertex indices ordered so every edge points
// forward. An error means the graph holds a cycle; for builder output this
// is an invariant violation and tests use it as the acyclicity witness.
func (g *Graph) TopologicalOrder() ([]uint32, error) {
	n := g.Store.VertexCount()
	visited := make(map[uint32]bool, n)
	tempMark := make(map[uint32]bool)
	var sorted []uint32
	var cycleError error

	var visit func(idx uint32)
	visit = func(idx uint32) {
		if tempMark[idx] {
			cycleError = fmt.Errorf("cycle detected involving %s", g.VertexName(idx))
			return
		}
		if visited[idx] {
			return
		}

		tempMark[idx] = true
		for _, edge := range g.Store.OutEdges(idx) {
			visit(edge.TargetID)
			if cycleError != nil {
				return
			}
		}
		tempMark[idx] = false
		visited[idx] = true
		sorted = append(sorted, idx)
	}

	for i := 0; i < n; i++ {
		idx := uint32(i)
		if !visited[idx] {
			visit(idx)
			if cycleError != nil {
				return nil, cycleError
			}
		}
	}

	// DFS emits sinks first; reverse to sources-first order.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}
