package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/stats"
	"github.com/acpaulo/causal-inference-short-course/pkg/storage"
)

var (
	validateGold       string
	validatePopulation int
)

// ValidateCmd checks a ranked table without building anything: required
// columns present, names non-empty, scores parseable and non-increasing.
// With --gold it additionally scores the table against a gold-standard
// edge list using the hypergeometric overlap test.
var ValidateCmd = &cobra.Command{
	Use:   "validate <edges.csv|edges.arrow>",
	Short: "Check a ranked edge table, optionally against a gold standard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return reportInvalid(err)
		}
		if err := edges.ValidateRanked(records); err != nil {
			return reportInvalid(err)
		}
		fmt.Printf("OK: %d edges, ranked and well-formed\n", len(records))

		if validateGold == "" {
			return nil
		}
		gold, _, err := loadTable(cmd.Context(), validateGold)
		if err != nil {
			return fmt.Errorf("gold standard: %w", err)
		}
		return overlapAgainstGold(records, gold)
	},
}

// overlapAgainstGold treats both tables as sets of ordered regulator->target
// pairs and asks how surprising their intersection is. For an augmented
// table only the accepted edges count as predictions; a raw ranked table
// counts every row.
func overlapAgainstGold(predicted, gold []edges.Record) error {
	pred := pairSet(predicted, true)
	truth := pairSet(gold, false)

	overlap := 0
	for p := range pred {
		if _, ok := truth[p]; ok {
			overlap++
		}
	}

	population := validatePopulation
	if population == 0 {
		// Default universe: all ordered pairs over the union vertex set.
		names := make(map[string]struct{})
		for _, rs := range [][]edges.Record{predicted, gold} {
			for _, r := range rs {
				names[r.Source] = struct{}{}
				names[r.Target] = struct{}{}
			}
		}
		n := len(names)
		population = n * (n - 1)
	}

	res, err := stats.OverlapTest(population, len(pred), len(truth), overlap)
	if err != nil {
		return err
	}
	fmt.Printf("overlap: %d of %d predicted edges found among %d gold edges\n",
		res.Overlap, res.SetA, res.SetB)
	fmt.Printf("expected by chance: %.2f (population %d pairs)\n", res.Expected, res.Population)
	fmt.Printf("hypergeometric p-value: %.3g\n", res.PValue)
	return nil
}

// pairSet collects the distinct ordered pairs of a table. When onlyAccepted
// is set and the table carries builder flags, rejected rows are skipped.
func pairSet(records []edges.Record, onlyAccepted bool) map[[2]string]struct{} {
	augmented := false
	if onlyAccepted {
		for _, r := range records {
			if _, ok := r.Attrs[edges.ColInDAG]; ok {
				augmented = true
				break
			}
		}
	}
	set := make(map[[2]string]struct{}, len(records))
	for _, r := range records {
		if augmented && !r.InDAG {
			continue
		}
		set[[2]string{r.Source, r.Target}] = struct{}{}
	}
	return set
}

func reportInvalid(err error) error {
	var invalid *edges.InvalidInputError
	if errors.As(err, &invalid) {
		return fmt.Errorf("invalid input at row %d: %s", invalid.Row, invalid.Reason)
	}
	return err
}

// loadTable fetches and decodes an edge table from a local path or s3 URI.
func loadTable(ctx context.Context, uri string) ([]edges.Record, []string, error) {
	store, key, err := storage.Open(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(path.Ext(key)) {
	case ".arrow", ".feather", ".ipc":
		return edges.ReadArrow(data)
	default:
		return edges.ReadCSV(bytes.NewReader(data))
	}
}

func init() {
	ValidateCmd.Flags().StringVar(&validateGold, "gold", "", "Gold-standard edge table to test overlap against")
	ValidateCmd.Flags().IntVar(&validatePopulation, "population", 0, "Number of possible pairs (default: n*(n-1) over the union vertex set)")
}
