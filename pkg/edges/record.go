// Package edges models ranked regulator->target interaction tables: the
// records an upstream causal-inference engine emits and the DAG builder
// consumes.
package edges

import (
	"fmt"
	"math"
	"sort"
)

// Record is one row of a ranked edge table. Source and Target are vertex
// names; Score is the inference confidence the table is ranked by. Attrs
// carries passthrough columns untouched.
//
// SourceIndex, TargetIndex, InDAG and ExcludeReason are populated by the
// DAG builder.
type Record struct {
	Row    int
	Source string
	Target string
	Score  float64
	Attrs  map[string]string

	SourceIndex   uint32
	TargetIndex   uint32
	InDAG         bool
	ExcludeReason string
}

// InvalidInputError identifies the offending row of a malformed edge table.
// It is returned before any graph state is mutated.
type InvalidInputError struct {
	Row    int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid edge record at row %d: %s", e.Row, e.Reason)
}

// Validate checks record well-formedness: names must be present and scores
// must be real numbers. It does not check ordering; see ValidateRanked.
func Validate(records []Record) error {
	for i, r := range records {
		if r.Source == "" {
			return &InvalidInputError{Row: i, Reason: "missing source name"}
		}
		if r.Target == "" {
			return &InvalidInputError{Row: i, Reason: "missing target name"}
		}
		if math.IsNaN(r.Score) {
			return &InvalidInputError{Row: i, Reason: "score is NaN"}
		}
	}
	return nil
}

// ValidateRanked checks well-formedness plus the builder precondition that
// scores are non-increasing. Equal scores are allowed; their relative input
// order is the tie-break.
func ValidateRanked(records []Record) error {
	if err := Validate(records); err != nil {
		return err
	}
	for i := 1; i < len(records); i++ {
		if records[i].Score > records[i-1].Score {
			return &InvalidInputError{
				Row:    i,
				Reason: fmt.Sprintf("scores not in descending order (%g after %g)", records[i].Score, records[i-1].Score),
			}
		}
	}
	return nil
}

// SortByScore orders records by descending score. The sort is stable, so
// equal scores keep their original relative order, which is the documented
// tie-break key.
func SortByScore(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
}
