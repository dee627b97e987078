package edges

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header names the reader accepts for the required columns. Upstream tools
// are not consistent: BioFindr exports use Source/Target/Probability, the
// course tables use source/target/score.
var (
	sourceAliases = []string{"source", "regulator", "src"}
	targetAliases = []string{"target", "gene", "dst"}
	scoreAliases  = []string{"score", "probability", "posterior", "weight"}
)

// Output columns appended by the writer.
const (
	ColSourceIndex   = "source_index"
	ColTargetIndex   = "target_index"
	ColInDAG         = "in_dag"
	ColExcludeReason = "exclude_reason"
)

// ReadCSV decodes an edge table. The first row must be a header containing
// source, target and score columns (case-insensitive, aliases accepted).
// All other columns are preserved in Attrs; their original header names are
// returned so writers can keep the column order.
func ReadCSV(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	srcCol := findColumn(header, sourceAliases)
	tgtCol := findColumn(header, targetAliases)
	scoreCol := findColumn(header, scoreAliases)
	if srcCol < 0 || tgtCol < 0 || scoreCol < 0 {
		return nil, nil, &InvalidInputError{Row: 0, Reason: "header missing source/target/score columns"}
	}

	var extraCols []string
	extraIdx := make([]int, 0, len(header))
	for i, name := range header {
		if i == srcCol || i == tgtCol || i == scoreCol {
			continue
		}
		// Previously augmented tables round-trip: the builder re-derives
		// these columns, the reader treats in_dag/exclude_reason specially.
		extraCols = append(extraCols, name)
		extraIdx = append(extraIdx, i)
	}

	var records []Record
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(fields[scoreCol]), 64)
		if err != nil {
			return nil, nil, &InvalidInputError{Row: row, Reason: fmt.Sprintf("unparsable score %q", fields[scoreCol])}
		}

		rec := Record{
			Row:    row,
			Source: strings.TrimSpace(fields[srcCol]),
			Target: strings.TrimSpace(fields[tgtCol]),
			Score:  score,
		}
		if len(extraIdx) > 0 {
			rec.Attrs = make(map[string]string, len(extraIdx))
			for j, col := range extraIdx {
				rec.Attrs[extraCols[j]] = fields[col]
			}
		}
		// Re-ingesting an augmented table: recover the inclusion flag so
		// analysis commands can rebuild the DAG without re-running the
		// builder.
		if v, ok := rec.Attrs[ColInDAG]; ok {
			rec.InDAG = strings.EqualFold(strings.TrimSpace(v), "true")
		}
		records = append(records, rec)
		row++
	}

	return records, extraCols, nil
}

// WriteCSV encodes augmented records: the required columns, the passthrough
// columns in their original order, then the builder outputs.
func WriteCSV(w io.Writer, records []Record, extraCols []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	extras := filterBuilderColumns(extraCols)

	header := append([]string{"source", "target", "score"}, extras...)
	header = append(header, ColSourceIndex, ColTargetIndex, ColInDAG, ColExcludeReason)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		fields := []string{
			r.Source,
			r.Target,
			strconv.FormatFloat(r.Score, 'g', -1, 64),
		}
		for _, col := range extras {
			fields = append(fields, r.Attrs[col])
		}
		fields = append(fields,
			strconv.FormatUint(uint64(r.SourceIndex), 10),
			strconv.FormatUint(uint64(r.TargetIndex), 10),
			strconv.FormatBool(r.InDAG),
			r.ExcludeReason,
		)
		if err := cw.Write(fields); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// filterBuilderColumns drops output columns that came back in via a
// round-tripped augmented table, so they are not emitted twice.
func filterBuilderColumns(cols []string) []string {
	var out []string
	for _, c := range cols {
		switch strings.ToLower(c) {
		case ColSourceIndex, ColTargetIndex, ColInDAG, ColExcludeReason:
			continue
		}
		out = append(out, c)
	}
	return out
}

func findColumn(header []string, aliases []string) int {
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, a := range aliases {
			if name == a {
				return i
			}
		}
	}
	return -1
}
