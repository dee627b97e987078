package graph

import (
	"sync"
)

// MemoryStore is an in-memory adjacency-list store. Vertex indices are
// dense and assigned in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	vertices []*Vertex
	out      [][]Edge
	in       [][]Edge
	nameMap  map[string]uint32
	edges    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vertices: make([]*Vertex, 0, 1024),
		out:      make([][]Edge, 0, 1024),
		in:       make([][]Edge, 0, 1024),
		nameMap:  make(map[string]uint32),
	}
}

func (s *MemoryStore) AddVertex(v *Vertex) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check existence.
	if idx, ok := s.nameMap[v.Name]; ok {
		return idx
	}

	idx := uint32(len(s.vertices))
	v.Index = idx
	s.vertices = append(s.vertices, v)
	s.out = append(s.out, nil)
	s.in = append(s.in, nil)
	s.nameMap[v.Name] = idx
	return idx
}

func (s *MemoryStore) Vertex(index uint32) *Vertex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(index) < len(s.vertices) {
		return s.vertices[index]
	}
	return nil
}

func (s *MemoryStore) VertexIndex(name string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.nameMap[name]
	return idx, ok
}

func (s *MemoryStore) VertexCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vertices)
}

func (s *MemoryStore) Vertices() []*Vertex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Return copy.
	result := make([]*Vertex, len(s.vertices))
	copy(result, s.vertices)
	return result
}

func (s *MemoryStore) AddEdge(sourceIndex uint32, edge Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(sourceIndex) >= len(s.out) {
		return
	}
	if int(edge.TargetID) >= len(s.in) {
		return
	}

	// Check duplicates.
	for _, e := range s.out[sourceIndex] {
		if e.TargetID == edge.TargetID {
			return
		}
	}

	s.out[sourceIndex] = append(s.out[sourceIndex], edge)

	// Add reverse edge.
	revEdge := Edge{
		TargetID: sourceIndex,
		Score:    edge.Score,
		Row:      edge.Row,
	}
	s.in[edge.TargetID] = append(s.in[edge.TargetID], revEdge)
	s.edges++
}

func (s *MemoryStore) OutEdges(sourceIndex uint32) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(sourceIndex) < len(s.out) {
		// Return copy.
		res := make([]Edge, len(s.out[sourceIndex]))
		copy(res, s.out[sourceIndex])
		return res
	}
	return nil
}

func (s *MemoryStore) InEdges(targetIndex uint32) []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(targetIndex) < len(s.in) {
		res := make([]Edge, len(s.in[targetIndex]))
		copy(res, s.in[targetIndex])
		return res
	}
	return nil
}

func (s *MemoryStore) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edges
}
