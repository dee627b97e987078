package graph

import (
	"sync"
)

// UnionFind implements DSU with path compression and union by rank.
// Used to group vertices into regulatory modules (weakly connected
// components).
type UnionFind struct {
	parent []int
	rank   []int
	mu     sync.Mutex
}

// NewUnionFind initializes DSU over n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	rank := make([]int, n)
	for i := 0; i < n; i++ {
		parent[i] = i
	}
	return &UnionFind{parent: parent, rank: rank}
}

// Find returns the set representative.
func (uf *UnionFind) Find(i int) int {
	uf.mu.Lock() // Lock for path compression
	defer uf.mu.Unlock()
	return uf.findInternal(i)
}

func (uf *UnionFind) findInternal(i int) int {
	if i < 0 || i >= len(uf.parent) {
		return -1
	}
	if uf.parent[i] != i {
		uf.parent[i] = uf.findInternal(uf.parent[i])
	}
	return uf.parent[i]
}

// Union merges the sets containing i and j.
func (uf *UnionFind) Union(i, j int) {
	uf.mu.Lock()
	defer uf.mu.Unlock()

	rootI := uf.findInternal(i)
	rootJ := uf.findInternal(j)

	if rootI == -1 || rootJ == -1 || rootI == rootJ {
		return
	}

	// Union by rank.
	if uf.rank[rootI] < uf.rank[rootJ] {
		uf.parent[rootI] = rootJ
	} else if uf.rank[rootI] > uf.rank[rootJ] {
		uf.parent[rootJ] = rootI
	} else {
		uf.parent[rootJ] = rootI
		uf.rank[rootI]++
	}
}

// Connected checks whether i and j share a set.
func (uf *UnionFind) Connected(i, j int) bool {
	return uf.Find(i) == uf.Find(j)
}
