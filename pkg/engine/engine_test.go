package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acpaulo/causal-inference-short-course/pkg/recipe"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
	"github.com/acpaulo/causal-inference-short-course/pkg/scorer"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	cfg.SkipTelemetry = true
	cfg.Logger = quietLogger()
	e, err := New(context.Background(), WithConfig(cfg))
	require.NoError(t, err)
	return e
}

func writeEdgeTable(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "edges.csv")
	table := "source,target,score\n" +
		"TF1,G1,0.95\n" +
		"TF1,G2,0.9\n" +
		"G1,G2,0.85\n" +
		"G2,TF1,0.84\n" + // closes a cycle
		"TF2,G1,0.8\n"
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))
	return path
}

func TestRun_SingleDataset(t *testing.T) {
	dir := t.TempDir()
	input := writeEdgeTable(t, dir)
	output := filepath.Join(dir, "out")

	e := newTestEngine(t, Config{Workers: 2})

	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "demo", Input: input, Output: output, MinScore: 0.5},
	}}

	results, err := e.Run(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	s := results[0].Summary
	assert.Equal(t, "demo", s.Dataset)
	assert.Equal(t, 4, s.Stats.Vertices)
	assert.Equal(t, 4, s.Stats.Accepted)
	assert.Equal(t, 1, s.Stats.Cycles)

	for _, name := range []string{FileAugmented, FileVertexMap, FileNetwork, FileSummary} {
		_, err := os.Stat(filepath.Join(output, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(output, FileSummary))
	require.NoError(t, err)
	var onDisk report.Summary
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, s.Stats, onDisk.Stats)
}

func TestRun_RulesFile(t *testing.T) {
	dir := t.TempDir()
	input := writeEdgeTable(t, dir)
	output := filepath.Join(dir, "out")

	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(`
rules:
  - id: no-tf2
    condition: "source == 'TF2'"
    action: drop
`), 0o644))

	e := newTestEngine(t, Config{Workers: 1})
	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "demo", Input: input, Output: output, MinScore: 0.5, Rules: rules},
	}}

	results, err := e.Run(context.Background(), r)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	s := results[0].Summary
	assert.Equal(t, 1, s.Filtered["no-tf2"])
	assert.Equal(t, 3, s.Stats.Vertices) // TF2 never enters the graph
}

func TestRun_MockMode(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out")

	e := newTestEngine(t, Config{Workers: 1, MockMode: true})
	e.Scorer = &scorer.Synthetic{Regulators: 3, Genes: 20, Edges: 60}

	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "mock-demo", Input: "unused", Output: output, MinScore: 0.01},
	}}

	results, err := e.Run(context.Background(), r)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Greater(t, results[0].Summary.Stats.Accepted, 0)
}

func TestRun_MultipleDatasetsSortedResults(t *testing.T) {
	dir := t.TempDir()
	input := writeEdgeTable(t, dir)

	e := newTestEngine(t, Config{Workers: 4})
	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "b-set", Input: input, Output: filepath.Join(dir, "b"), MinScore: 0.5},
		{Name: "a-set", Input: input, Output: filepath.Join(dir, "a"), MinScore: 0.5},
	}}

	results, err := e.Run(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a-set", results[0].Name)
	assert.Equal(t, "b-set", results[1].Name)
}

func TestRun_StrictModeFailsOnBadDataset(t *testing.T) {
	dir := t.TempDir()

	e := newTestEngine(t, Config{Workers: 1, StrictMode: true})
	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "ghost", Input: filepath.Join(dir, "missing.csv"), Output: filepath.Join(dir, "out")},
	}}

	results, err := e.Run(context.Background(), r)
	assert.ErrorIs(t, err, ErrPartialResult)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRun_LenientModeToleratesBadDataset(t *testing.T) {
	dir := t.TempDir()
	input := writeEdgeTable(t, dir)

	e := newTestEngine(t, Config{Workers: 2})
	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "good", Input: input, Output: filepath.Join(dir, "out"), MinScore: 0.5},
		{Name: "ghost", Input: filepath.Join(dir, "missing.csv"), Output: filepath.Join(dir, "out2")},
	}}

	results, err := e.Run(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err) // ghost sorts first
	assert.NoError(t, results[1].Err)
}

func TestRun_UnsortedInputRejected(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"source,target,score\nA,B,0.5\nC,D,0.9\n"), 0o644))

	e := newTestEngine(t, Config{Workers: 1, StrictMode: true})
	r := &recipe.Recipe{Datasets: []recipe.Dataset{
		{Name: "unsorted", Input: input, Output: filepath.Join(dir, "out"), MinScore: 0.1},
	}}

	_, err := e.Run(context.Background(), r)
	assert.ErrorIs(t, err, ErrPartialResult)

	// With sort enabled the same table builds fine.
	r.Datasets[0].Sort = true
	e2 := newTestEngine(t, Config{Workers: 1, StrictMode: true})
	results, err := e2.Run(context.Background(), r)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 2, results[0].Summary.Stats.Accepted)
}
