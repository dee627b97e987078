package edges

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// ReadArrow decodes an edge table from an Arrow IPC file (the upstream
// inference notebooks ship their tables in this format). Column resolution
// follows the same alias rules as the CSV reader; unrecognized columns are
// stringified into Attrs.
func ReadArrow(data []byte) ([]Record, []string, error) {
	rdr, err := ipc.NewFileReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer rdr.Close()

	schema := rdr.Schema()
	names := make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}

	srcCol := findColumn(names, sourceAliases)
	tgtCol := findColumn(names, targetAliases)
	scoreCol := findColumn(names, scoreAliases)
	if srcCol < 0 || tgtCol < 0 || scoreCol < 0 {
		return nil, nil, &InvalidInputError{Row: 0, Reason: "arrow schema missing source/target/score columns"}
	}

	var extraCols []string
	extraIdx := make([]int, 0, len(names))
	for i, name := range names {
		if i == srcCol || i == tgtCol || i == scoreCol {
			continue
		}
		extraCols = append(extraCols, name)
		extraIdx = append(extraIdx, i)
	}

	var records []Record
	row := 0
	for i := 0; i < rdr.NumRecords(); i++ {
		batch, err := rdr.Record(i)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read arrow batch %d: %w", i, err)
		}

		n := int(batch.NumRows())
		for j := 0; j < n; j++ {
			src, err := stringAt(batch.Column(srcCol), j)
			if err != nil {
				return nil, nil, &InvalidInputError{Row: row, Reason: err.Error()}
			}
			tgt, err := stringAt(batch.Column(tgtCol), j)
			if err != nil {
				return nil, nil, &InvalidInputError{Row: row, Reason: err.Error()}
			}
			score, err := floatAt(batch.Column(scoreCol), j)
			if err != nil {
				return nil, nil, &InvalidInputError{Row: row, Reason: err.Error()}
			}

			rec := Record{Row: row, Source: src, Target: tgt, Score: score}
			if len(extraIdx) > 0 {
				rec.Attrs = make(map[string]string, len(extraIdx))
				for k, col := range extraIdx {
					rec.Attrs[extraCols[k]] = batch.Column(col).ValueStr(j)
				}
				if v, ok := rec.Attrs[ColInDAG]; ok {
					rec.InDAG = strings.EqualFold(strings.TrimSpace(v), "true")
				}
			}
			records = append(records, rec)
			row++
		}
	}

	return records, extraCols, nil
}

func stringAt(col arrow.Array, i int) (string, error) {
	switch a := col.(type) {
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	default:
		return "", fmt.Errorf("expected string column, got %s", col.DataType().Name())
	}
}

func floatAt(col arrow.Array, i int) (float64, error) {
	switch a := col.(type) {
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	default:
		return 0, fmt.Errorf("expected float column, got %s", col.DataType().Name())
	}
}
