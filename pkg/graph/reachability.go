package graph

// Reaches reports whether a directed path from `from` to `to` exists.
// BFS over forward edges; this is the cycle test the greedy builder runs
// before accepting an edge.
func (g *Graph) Reaches(from, to uint32) bool {
	if from == to {
		return true
	}

	visited := make(map[uint32]bool)
	queue := []uint32{from}
	visited[from] = true

	for len(queue) > 0 {
		currentIdx := queue[0]
		queue = queue[1:]

		for _, edge := range g.Store.OutEdges(currentIdx) {
			if edge.TargetID == to {
				return true
			}
			if !visited[edge.TargetID] {
				visited[edge.TargetID] = true
				queue = append(queue, edge.TargetID)
			}
		}
	}
	return false
}

// Downstream returns the vertices reachable from start, excluding start
// itself. Used by hub impact reporting.
func (g *Graph) Downstream(start uint32) []uint32 {
	visited := make(map[uint32]bool)
	queue := []uint32{start}
	visited[start] = true

	var result []uint32
	for len(queue) > 0 {
		currentIdx := queue[0]
		queue = queue[1:]

		for _, edge := range g.Store.OutEdges(currentIdx) {
			if !visited[edge.TargetID] {
				visited[edge.TargetID] = true
				queue = append(queue, edge.TargetID)
				result = append(result, edge.TargetID)
			}
		}
	}
	return result
}
