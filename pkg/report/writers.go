package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
)

// WriteAugmentedCSV emits the input table with the builder's verdict on
// every row. Row order is preserved so the file diffs cleanly against the
// input.
func WriteAugmentedCSV(w io.Writer, records []edges.Record, extraCols []string) error {
	return edges.WriteCSV(w, records, extraCols)
}

// WriteVertexMap emits the name to dense-index bijection as a two-column
// CSV ordered by index.
func WriteVertexMap(w io.Writer, g *graph.Graph) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"index", "name"}); err != nil {
		return err
	}
	for i, name := range g.VertexNames() {
		if err := cw.Write([]string{strconv.Itoa(i), name}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSIF emits the accepted edges in Cytoscape's simple interaction
// format: source, relation, target separated by tabs.
func WriteSIF(w io.Writer, records []edges.Record) error {
	for _, rec := range records {
		if !rec.InDAG {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\tregulates\t%s\n", rec.Source, rec.Target); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON emits the indented summary document.
func WriteJSON(w io.Writer, s Summary) error {
	data, err := s.MarshalIndentJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
