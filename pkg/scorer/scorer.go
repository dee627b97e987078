// Package scorer abstracts the upstream causal-inference engine. The real
// engine (BioFindr or similar) runs outside this toolkit and hands over a
// ranked edge table; everything here treats it as an opaque producer.
package scorer

import (
	"context"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
)

// EdgeScorer produces a ranked (descending-score) edge list for a dataset.
type EdgeScorer interface {
	Name() string
	Score(ctx context.Context, dataset string) ([]edges.Record, error)
}
