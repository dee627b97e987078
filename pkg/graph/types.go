package graph

// Vertex is a gene or regulator in the network, addressed by a dense
// uint32 index. Name is the identifier from the input table; Kind is an
// interned label ("regulator", "gene", ...) supplied by the loader.
type Vertex struct {
	Index uint32
	Name  string
	Kind  uint32
}

// Edge is a directed regulatory interaction stored in adjacency lists.
// Row is the position of the originating record in the input table.
type Edge struct {
	TargetID uint32
	Score    float64
	Row      int
}

// Graph is a directed graph over dense vertex indices. Construction goes
// through a GraphStore so the adjacency layout can be swapped out.
type Graph struct {
	Store GraphStore
}

// New returns an empty graph backed by an in-memory store.
func New() *Graph {
	return &Graph{Store: NewMemoryStore()}
}

// EnsureVertex returns the index for name, allocating the next dense index
// on first sight. Assignment order is first-seen and therefore deterministic
// for a given input sequence.
func (g *Graph) EnsureVertex(name string, kind uint32) uint32 {
	return g.Store.AddVertex(&Vertex{Name: name, Kind: kind})
}

// VertexIndex resolves a vertex name to its index.
func (g *Graph) VertexIndex(name string) (uint32, bool) {
	return g.Store.VertexIndex(name)
}

// VertexName resolves an index back to the input name.
func (g *Graph) VertexName(index uint32) string {
	if v := g.Store.Vertex(index); v != nil {
		return v.Name
	}
	return ""
}

// VertexNames returns the full name table, positioned by index. This is the
// emitted half of the name<->index bijection.
func (g *Graph) VertexNames() []string {
	vs := g.Store.Vertices()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// HasEdge reports whether the ordered pair (source, target) is present.
func (g *Graph) HasEdge(source, target uint32) bool {
	for _, e := range g.Store.OutEdges(source) {
		if e.TargetID == target {
			return true
		}
	}
	return false
}

// AddEdge inserts a directed edge. Callers are expected to have run the
// acyclicity check first; the store itself accepts anything.
func (g *Graph) AddEdge(source uint32, e Edge) {
	g.Store.AddEdge(source, e)
}

func (g *Graph) VertexCount() int { return g.Store.VertexCount() }

func (g *Graph) EdgeCount() int { return g.Store.EdgeCount() }
