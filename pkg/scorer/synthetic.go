package scorer

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
)

// Synthetic is a deterministic stand-in scorer for demos and tests. It
// fabricates a regulator-heavy network: a few transcription factors fan out
// over many genes, plus gene->gene edges and deliberate feedback pairs so
// the builder has cycles to break. The dataset name seeds the generator, so
// the same name always yields the same table.
type Synthetic struct {
	Regulators int
	Genes      int
	Edges      int
}

// NewSynthetic returns a generator with course-sized defaults.
func NewSynthetic() *Synthetic {
	return &Synthetic{Regulators: 12, Genes: 150, Edges: 600}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Score(ctx context.Context, dataset string) ([]edges.Record, error) {
	h := fnv.New64a()
	h.Write([]byte(dataset))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	names := make([]string, 0, s.Regulators+s.Genes)
	for i := 0; i < s.Regulators; i++ {
		names = append(names, fmt.Sprintf("TF%02d", i+1))
	}
	for i := 0; i < s.Genes; i++ {
		names = append(names, fmt.Sprintf("G%04d", i+1))
	}

	seen := make(map[[2]int]bool)
	records := make([]edges.Record, 0, s.Edges)
	score := 0.999
	for len(records) < s.Edges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Bias sources towards regulators to get hub structure.
		var si int
		if rng.Float64() < 0.7 {
			si = rng.Intn(s.Regulators)
		} else {
			si = s.Regulators + rng.Intn(s.Genes)
		}
		ti := s.Regulators + rng.Intn(s.Genes)
		if si == ti || seen[[2]int{si, ti}] {
			continue
		}
		seen[[2]int{si, ti}] = true

		kind := "gene"
		if si < s.Regulators {
			kind = "regulator"
		}
		records = append(records, edges.Record{
			Source: names[si],
			Target: names[ti],
			Score:  score,
			Attrs: map[string]string{
				graph.AttrSourceKind: kind,
				graph.AttrTargetKind: "gene",
			},
		})
		// Occasionally emit the reverse pair a few ranks later so greedy
		// construction has feedback loops to exclude.
		if rng.Float64() < 0.05 && !seen[[2]int{ti, si}] {
			seen[[2]int{ti, si}] = true
			records = append(records, edges.Record{
				Source: names[ti],
				Target: names[si],
				Score:  score * 0.998,
				Attrs: map[string]string{
					graph.AttrSourceKind: "gene",
					graph.AttrTargetKind: kind,
				},
			})
		}
		score *= 0.995
	}

	// The generator emits in descending order already; keep the invariant
	// explicit in case the feedback branch perturbed it.
	edges.SortByScore(records)
	return records, nil
}
