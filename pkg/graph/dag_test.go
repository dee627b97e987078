package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
)

func ranked(rows ...[3]interface{}) []edges.Record {
	records := make([]edges.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, edges.Record{
			Source: r[0].(string),
			Target: r[1].(string),
			Score:  r[2].(float64),
		})
	}
	return records
}

func TestBuildDAG_TriangleDropsClosingEdge(t *testing.T) {
	// C->A would close A->B->C->A, so only the first two edges survive.
	res, err := BuildDAG(ranked(
		[3]interface{}{"A", "B", 0.9},
		[3]interface{}{"B", "C", 0.8},
		[3]interface{}{"C", "A", 0.7},
	))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	flags := inclusionFlags(res)
	if !reflect.DeepEqual(flags, []bool{true, true, false}) {
		t.Errorf("Expected [true true false], got %v", flags)
	}
	if res.Records[2].ExcludeReason != ReasonCycle {
		t.Errorf("Expected cycle exclusion, got %q", res.Records[2].ExcludeReason)
	}
	if res.Graph.EdgeCount() != 2 {
		t.Errorf("Expected 2 edges in graph, got %d", res.Graph.EdgeCount())
	}
	if _, err := res.Graph.TopologicalOrder(); err != nil {
		t.Errorf("Result graph must be acyclic: %v", err)
	}
}

func TestBuildDAG_EmptyInput(t *testing.T) {
	res, err := BuildDAG(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Graph.VertexCount() != 0 || res.Graph.EdgeCount() != 0 {
		t.Errorf("Expected empty graph, got %d vertices / %d edges",
			res.Graph.VertexCount(), res.Graph.EdgeCount())
	}
	if len(res.Records) != 0 {
		t.Errorf("Expected no records, got %d", len(res.Records))
	}
	if len(res.Graph.VertexNames()) != 0 {
		t.Errorf("Expected empty vertex mapping")
	}
}

func TestBuildDAG_SelfLoopExcludedNotFatal(t *testing.T) {
	res, err := BuildDAG(ranked([3]interface{}{"A", "A", 0.9}))
	if err != nil {
		t.Fatalf("Self-loop must not abort the build: %v", err)
	}
	if res.Records[0].InDAG {
		t.Error("Self-loop must be excluded")
	}
	if res.Records[0].ExcludeReason != ReasonSelfLoop {
		t.Errorf("Expected %q, got %q", ReasonSelfLoop, res.Records[0].ExcludeReason)
	}
	// Vertex A exists even though the edge does not.
	if res.Graph.VertexCount() != 1 {
		t.Errorf("Expected vertex A to be registered, got %d vertices", res.Graph.VertexCount())
	}
	if res.Graph.EdgeCount() != 0 {
		t.Errorf("Expected no edges, got %d", res.Graph.EdgeCount())
	}
}

func TestBuildDAG_DuplicatePairPolicy(t *testing.T) {
	// Policy: the first occurrence wins; later occurrences of the same
	// ordered pair are excluded as duplicates and stay out of the DAG.
	res, err := BuildDAG(ranked(
		[3]interface{}{"A", "B", 0.9},
		[3]interface{}{"A", "B", 0.5},
	))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !res.Records[0].InDAG {
		t.Error("First occurrence must be accepted")
	}
	if res.Records[1].InDAG {
		t.Error("Duplicate occurrence must be excluded")
	}
	if res.Records[1].ExcludeReason != ReasonDuplicate {
		t.Errorf("Expected %q, got %q", ReasonDuplicate, res.Records[1].ExcludeReason)
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("Graph must contain the pair once, got %d edges", res.Graph.EdgeCount())
	}
}

func TestBuildDAG_InterleavedTriangles(t *testing.T) {
	// Two disjoint triangles interleaved by score. Each loses exactly its
	// lowest-ranked edge to cycle avoidance; the components stay disjoint.
	res, err := BuildDAG(ranked(
		[3]interface{}{"A", "B", 0.95},
		[3]interface{}{"X", "Y", 0.90},
		[3]interface{}{"B", "C", 0.85},
		[3]interface{}{"Y", "Z", 0.80},
		[3]interface{}{"C", "A", 0.75},
		[3]interface{}{"Z", "X", 0.70},
	))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	flags := inclusionFlags(res)
	expected := []bool{true, true, true, true, false, false}
	if !reflect.DeepEqual(flags, expected) {
		t.Errorf("Expected %v, got %v", expected, flags)
	}

	comps := Components(res.Graph)
	if len(comps) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(comps))
	}
	if len(comps[0]) != 3 || len(comps[1]) != 3 {
		t.Errorf("Expected two components of size 3, got %d and %d", len(comps[0]), len(comps[1]))
	}
}

func TestBuildDAG_Deterministic(t *testing.T) {
	input := ranked(
		[3]interface{}{"A", "B", 0.9},
		[3]interface{}{"C", "B", 0.9}, // tie: row order decides
		[3]interface{}{"B", "A", 0.8},
		[3]interface{}{"B", "C", 0.8},
	)

	first, err := BuildDAG(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := BuildDAG(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(inclusionFlags(first), inclusionFlags(second)) {
		t.Error("Inclusion flags differ between identical runs")
	}
	if !reflect.DeepEqual(first.Graph.VertexNames(), second.Graph.VertexNames()) {
		t.Error("Vertex mapping differs between identical runs")
	}
	if first.Graph.EdgeCount() != second.Graph.EdgeCount() {
		t.Error("Edge counts differ between identical runs")
	}
}

func TestBuildDAG_VertexMappingFirstSeen(t *testing.T) {
	res, err := BuildDAG(ranked(
		[3]interface{}{"TF1", "G1", 0.9},
		[3]interface{}{"G1", "G2", 0.8},
	))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	names := res.Graph.VertexNames()
	expected := []string{"TF1", "G1", "G2"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected first-seen order %v, got %v", expected, names)
	}

	// The augmented records carry the same bijection.
	if res.Records[0].SourceIndex != 0 || res.Records[0].TargetIndex != 1 {
		t.Errorf("Row 0 indices wrong: %d -> %d", res.Records[0].SourceIndex, res.Records[0].TargetIndex)
	}
	if res.Records[1].SourceIndex != 1 || res.Records[1].TargetIndex != 2 {
		t.Errorf("Row 1 indices wrong: %d -> %d", res.Records[1].SourceIndex, res.Records[1].TargetIndex)
	}
}

func TestBuildDAG_ExclusionConsistent(t *testing.T) {
	// Every cycle-excluded edge must, against the edges accepted before it,
	// actually close a cycle: the target must reach the source.
	res, err := BuildDAG(ranked(
		[3]interface{}{"A", "B", 0.9},
		[3]interface{}{"B", "C", 0.8},
		[3]interface{}{"C", "D", 0.7},
		[3]interface{}{"D", "A", 0.6},
		[3]interface{}{"D", "B", 0.5},
	))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	replay := FromRecords(res.Records)
	for _, r := range res.Records {
		if r.ExcludeReason != ReasonCycle {
			continue
		}
		if !replay.Reaches(r.TargetIndex, r.SourceIndex) {
			t.Errorf("Row %d excluded as cycle but %s does not reach %s",
				r.Row, r.Target, r.Source)
		}
	}
}

func TestBuildDAG_RejectsUnsortedInput(t *testing.T) {
	_, err := BuildDAG(ranked(
		[3]interface{}{"A", "B", 0.5},
		[3]interface{}{"B", "C", 0.9},
	))
	var invalid *edges.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidInputError, got %v", err)
	}
	if invalid.Row != 1 {
		t.Errorf("Expected offending row 1, got %d", invalid.Row)
	}
}

func TestBuildDAG_RejectsMissingNames(t *testing.T) {
	_, err := BuildDAG([]edges.Record{{Source: "A", Target: "", Score: 0.9}})
	var invalid *edges.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidInputError, got %v", err)
	}
}

func inclusionFlags(res *BuildResult) []bool {
	flags := make([]bool, len(res.Records))
	for i, r := range res.Records {
		flags[i] = r.InDAG
	}
	return flags
}

func FuzzBuildDAG(f *testing.F) {
	f.Add([]byte("seed"))
	f.Add([]byte{0x1, 0x2, 0x3, 0x4})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) < 3 {
			return
		}

		// 1st byte: vertex count (mod 26). Remaining byte pairs: edges.
		numVertices := int(data[0])%26 + 1
		var records []edges.Record
		score := 1.0
		edgeBytes := data[1:]
		for i := 0; i+1 < len(edgeBytes); i += 2 {
			src := string(rune('a' + int(edgeBytes[i])%numVertices))
			tgt := string(rune('a' + int(edgeBytes[i+1])%numVertices))
			records = append(records, edges.Record{Source: src, Target: tgt, Score: score})
			score *= 0.99
		}

		res, err := BuildDAG(records)
		if err != nil {
			t.Fatalf("Sorted synthetic input must never error: %v", err)
		}

		// The invariant: whatever the input shape, the output is a DAG.
		if _, err := res.Graph.TopologicalOrder(); err != nil {
			t.Fatalf("Builder produced a cyclic graph: %v", err)
		}

		accepted := 0
		for _, r := range res.Records {
			if r.InDAG {
				accepted++
			} else if r.ExcludeReason == "" {
				t.Error("Excluded record without a reason")
			}
		}
		if accepted != res.Graph.EdgeCount() {
			t.Errorf("Accepted flags (%d) disagree with graph edges (%d)",
				accepted, res.Graph.EdgeCount())
		}
	})
}
