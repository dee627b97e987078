package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
	"github.com/acpaulo/causal-inference-short-course/pkg/storage"
)

var (
	exportFormat string
	exportOut    string
)

// ExportCmd converts an augmented table into one of the downstream formats
// without rebuilding: Cytoscape SIF, the vertex mapping, or the JSON summary.
var ExportCmd = &cobra.Command{
	Use:   "export <augmented.csv>",
	Short: "Convert a built network to sif, vertex-map or summary format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		g := graph.FromRecords(records)

		var buf bytes.Buffer
		switch exportFormat {
		case "sif":
			err = report.WriteSIF(&buf, records)
		case "vertex-map":
			err = report.WriteVertexMap(&buf, g)
		case "summary":
			res := &graph.BuildResult{Graph: g, Records: records,
				Stats: graph.BuildStats{Vertices: g.VertexCount(), Accepted: g.EdgeCount()}}
			err = report.WriteJSON(&buf, report.BuildSummary(args[0], res, nil))
		default:
			return fmt.Errorf("unknown format %q: want sif, vertex-map or summary", exportFormat)
		}
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		}
		store, key, err := storage.Open(cmd.Context(), exportOut)
		if err != nil {
			return err
		}
		return store.Put(cmd.Context(), key, buf.Bytes())
	},
}

func init() {
	ExportCmd.Flags().StringVar(&exportFormat, "format", "sif", "Output format: sif, vertex-map, summary")
	ExportCmd.Flags().StringVar(&exportOut, "out", "-", "Destination path or s3:// URI (- for stdout)")
}
