package graph

// GraphStore defines graph storage.
type GraphStore interface {
	// Vertex operations.
	AddVertex(v *Vertex) uint32
	Vertex(index uint32) *Vertex
	VertexIndex(name string) (uint32, bool)
	VertexCount() int
	Vertices() []*Vertex // Warning: O(N) copy.

	// Edge operations.
	AddEdge(sourceIndex uint32, edge Edge)
	OutEdges(sourceIndex uint32) []Edge
	InEdges(targetIndex uint32) []Edge
	EdgeCount() int
}
