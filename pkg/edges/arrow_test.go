package edges

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArrowTable(t *testing.T) []byte {
	t.Helper()
	mem := memory.NewGoAllocator()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "source", Type: arrow.BinaryTypes.String},
		{Name: "target", Type: arrow.BinaryTypes.String},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64},
		{Name: "rank", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues([]string{"TF1", "TF2"}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"G1", "G2"}, nil)
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{0.95, 0.80}, nil)
	b.Field(3).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadArrow(t *testing.T) {
	data := buildArrowTable(t)

	records, extras, err := ReadArrow(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "TF1", records[0].Source)
	assert.Equal(t, "G1", records[0].Target)
	assert.InDelta(t, 0.95, records[0].Score, 1e-12)
	assert.Equal(t, []string{"rank"}, extras)
	assert.Equal(t, "1", records[0].Attrs["rank"])
	assert.Equal(t, 1, records[1].Row)
}

func TestReadArrow_NotArrow(t *testing.T) {
	_, _, err := ReadArrow([]byte("source,target,score\nA,B,0.5\n"))
	assert.Error(t, err)
}
