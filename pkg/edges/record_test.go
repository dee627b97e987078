package edges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRanked(t *testing.T) {
	ok := []Record{
		{Source: "A", Target: "B", Score: 0.9},
		{Source: "B", Target: "C", Score: 0.9}, // equal is allowed
		{Source: "C", Target: "D", Score: 0.1},
	}
	assert.NoError(t, ValidateRanked(ok))

	bad := []Record{
		{Source: "A", Target: "B", Score: 0.1},
		{Source: "B", Target: "C", Score: 0.9},
	}
	err := ValidateRanked(bad)
	require.Error(t, err)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Row)
}

func TestSortByScore_StableTieBreak(t *testing.T) {
	records := []Record{
		{Source: "A", Target: "B", Score: 0.5},
		{Source: "C", Target: "D", Score: 0.9},
		{Source: "E", Target: "F", Score: 0.5},
	}
	SortByScore(records)

	require.Len(t, records, 3)
	assert.Equal(t, "C", records[0].Source)
	// Equal scores keep input order: A->B came before E->F.
	assert.Equal(t, "A", records[1].Source)
	assert.Equal(t, "E", records[2].Source)
}
