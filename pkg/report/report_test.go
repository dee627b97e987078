package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
)

// buildFixture runs the builder over a small ranked table covering every
// exclusion reason.
func buildFixture(t *testing.T) *graph.BuildResult {
	t.Helper()
	records := []edges.Record{
		{Source: "TF1", Target: "G1", Score: 0.95},
		{Source: "TF1", Target: "G2", Score: 0.9},
		{Source: "G1", Target: "G2", Score: 0.85},
		{Source: "G2", Target: "TF1", Score: 0.8},
		{Source: "G1", Target: "G1", Score: 0.75},
		{Source: "TF1", Target: "G1", Score: 0.7},
	}
	res, err := graph.BuildDAG(records)
	require.NoError(t, err)
	return res
}

func fixedSummary(t *testing.T) Summary {
	t.Helper()
	res := buildFixture(t)
	s := BuildSummary("yeast", res, map[string]int{"low-confidence": 2})
	// Pin the volatile fields so the golden file is stable.
	s.GeneratedAt = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	s.Version = "test"
	return s
}

func TestWriteAugmentedCSV_Golden(t *testing.T) {
	res := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteAugmentedCSV(&buf, res.Records, nil))

	g := goldie.New(t)
	g.Assert(t, "augmented", buf.Bytes())
}

func TestWriteVertexMap_Golden(t *testing.T) {
	res := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteVertexMap(&buf, res.Graph))

	g := goldie.New(t)
	g.Assert(t, "vertex_map", buf.Bytes())
}

func TestWriteSIF_Golden(t *testing.T) {
	res := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSIF(&buf, res.Records))

	g := goldie.New(t)
	g.Assert(t, "network", buf.Bytes())
}

func TestWriteJSON_Golden(t *testing.T) {
	s := fixedSummary(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, s))

	g := goldie.New(t)
	g.Assert(t, "summary", buf.Bytes())
}

func TestBuildSummary(t *testing.T) {
	s := fixedSummary(t)

	assert.Equal(t, "yeast", s.Dataset)
	assert.Equal(t, 3, s.Stats.Vertices)
	assert.Equal(t, 3, s.Stats.Accepted)
	assert.Equal(t, 1, s.Excluded[graph.ReasonCycle])
	assert.Equal(t, 1, s.Excluded[graph.ReasonSelfLoop])
	assert.Equal(t, 1, s.Excluded[graph.ReasonDuplicate])
	assert.Equal(t, []int{3}, s.Components)

	require.NotEmpty(t, s.Hubs)
	assert.Equal(t, "TF1", s.Hubs[0].Name)
	assert.Equal(t, 2, s.Hubs[0].OutDegree)
	assert.Equal(t, 2, s.Hubs[0].Reach)
}

func TestRender(t *testing.T) {
	out := Render(fixedSummary(t))

	assert.Contains(t, out, "yeast")
	assert.Contains(t, out, "TF1")
	assert.Contains(t, out, "self-loops 1, duplicates 1, cycles 1")
	// Rounded border from the card style.
	assert.True(t, strings.Contains(out, "╭") && strings.Contains(out, "╰"))
}
