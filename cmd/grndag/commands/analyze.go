package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
)

var analyzeTop int

// AnalyzeCmd re-analyzes a previously augmented table: it rebuilds the DAG
// from the in_dag flags and prints hub and component statistics without
// re-running the builder.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze <augmented.csv>",
	Short: "Summarize a previously built network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		g := graph.FromRecords(records)
		if g.EdgeCount() == 0 {
			return fmt.Errorf("%s has no accepted edges; was it produced by 'build'?", args[0])
		}

		stats := graph.BuildStats{
			Vertices: g.VertexCount(),
			Accepted: g.EdgeCount(),
		}
		for _, r := range records {
			switch r.Attrs[edges.ColExcludeReason] {
			case graph.ReasonSelfLoop:
				stats.SelfLoops++
			case graph.ReasonDuplicate:
				stats.Duplicates++
			case graph.ReasonCycle:
				stats.Cycles++
			}
		}

		res := &graph.BuildResult{Graph: g, Records: records, Stats: stats}
		summary := report.BuildSummary(args[0], res, nil)
		if analyzeTop > 0 && len(summary.Hubs) > analyzeTop {
			summary.Hubs = summary.Hubs[:analyzeTop]
		}
		fmt.Println(report.Render(summary))

		if _, err := res.Graph.TopologicalOrder(); err != nil {
			return fmt.Errorf("network is not acyclic: %w", err)
		}
		return nil
	},
}

func init() {
	AnalyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "How many hub regulators to list")
}
