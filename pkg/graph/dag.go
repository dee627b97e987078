package graph

import (
	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/sys/intern"
)

// Exclusion reasons recorded on rejected edges.
const (
	ReasonSelfLoop  = "self-loop"
	ReasonDuplicate = "duplicate"
	ReasonCycle     = "cycle"
)

// Attr keys the builder consults for vertex kind labels. Absent keys fall
// back to regulator/gene by edge direction.
const (
	AttrSourceKind = "source_kind"
	AttrTargetKind = "target_kind"
)

// BuildStats counts per-build acceptance decisions.
type BuildStats struct {
	Vertices   int `json:"vertices"`
	Accepted   int `json:"accepted"`
	SelfLoops  int `json:"self_loops"`
	Duplicates int `json:"duplicates"`
	Cycles     int `json:"cycles"`
}

// BuildResult is the immutable outcome of one builder pass: the acyclic
// graph, the input records augmented with indices and inclusion flags, and
// the acceptance counts. The name<->index bijection is recoverable from
// Graph.VertexNames.
type BuildResult struct {
	Graph   *Graph
	Records []edges.Record
	Stats   BuildStats
}

// BuildDAG constructs a maximum-weight acyclic subgraph from a ranked edge
// list by greedy insertion.
//
// Records must already be ordered by non-increasing score; the builder never
// sorts. Rows are processed strictly in input order, so equal scores are
// tie-broken by original row position. Each edge is tentatively inserted and
// kept unless it is a self-loop, repeats an already-accepted ordered pair,
// or closes a directed cycle with earlier accepted edges (the target already
// reaches the source).
//
// Greedy-by-weight cycle avoidance is a heuristic: the result is a locally
// optimal acyclic subgraph, not the (NP-hard) global maximum.
//
// All validation happens before any mutation; a malformed table returns an
// *edges.InvalidInputError and no partial graph.
func BuildDAG(records []edges.Record) (*BuildResult, error) {
	if err := edges.ValidateRanked(records); err != nil {
		return nil, err
	}

	g := New()
	out := make([]edges.Record, len(records))
	copy(out, records)

	stats := BuildStats{}
	for i := range out {
		r := &out[i]
		r.Row = i

		u := g.EnsureVertex(r.Source, sourceKind(r))
		v := g.EnsureVertex(r.Target, targetKind(r))
		r.SourceIndex = u
		r.TargetIndex = v

		switch {
		case u == v:
			// A self-loop is always a cycle. Expected input, not an error.
			r.InDAG = false
			r.ExcludeReason = ReasonSelfLoop
			stats.SelfLoops++
		case g.HasEdge(u, v):
			// The pair was already accepted at a higher rank; this row is
			// redundant and stays out of the DAG.
			r.InDAG = false
			r.ExcludeReason = ReasonDuplicate
			stats.Duplicates++
		case g.Reaches(v, u):
			// v already has a path to u, so u->v would close a cycle.
			r.InDAG = false
			r.ExcludeReason = ReasonCycle
			stats.Cycles++
		default:
			g.AddEdge(u, Edge{TargetID: v, Score: r.Score, Row: i})
			r.InDAG = true
			r.ExcludeReason = ""
			stats.Accepted++
		}
	}

	stats.Vertices = g.VertexCount()
	return &BuildResult{Graph: g, Records: out, Stats: stats}, nil
}

// FromRecords rebuilds a graph from previously augmented records, inserting
// exactly the rows flagged InDAG. Used when re-analyzing an exported table.
func FromRecords(records []edges.Record) *Graph {
	g := New()
	for i, r := range records {
		u := g.EnsureVertex(r.Source, sourceKind(&records[i]))
		v := g.EnsureVertex(r.Target, targetKind(&records[i]))
		if r.InDAG && u != v {
			g.AddEdge(u, Edge{TargetID: v, Score: r.Score, Row: i})
		}
	}
	return g
}

func sourceKind(r *edges.Record) uint32 {
	if k, ok := r.Attrs[AttrSourceKind]; ok && k != "" {
		return intern.Get(k)
	}
	return intern.Get("regulator")
}

func targetKind(r *edges.Record) uint32 {
	if k, ok := r.Attrs[AttrTargetKind]; ok && k != "" {
		return intern.Get(k)
	}
	return intern.Get("gene")
}
