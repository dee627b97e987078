package engine

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
	"github.com/acpaulo/causal-inference-short-course/pkg/policy"
	"github.com/acpaulo/causal-inference-short-course/pkg/recipe"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
	"github.com/acpaulo/causal-inference-short-course/pkg/storage"
)

// Output artifact names, written under the dataset's output prefix.
const (
	FileAugmented = "augmented.csv"
	FileVertexMap = "vertex_map.csv"
	FileNetwork   = "network.sif"
	FileSummary   = "summary.json"
)

// processDataset runs the full pipeline for one dataset: fetch, decode,
// filter, build, analyze, export.
func (e *Engine) processDataset(ctx context.Context, ds recipe.Dataset) (report.Summary, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.processDataset")
	defer span.End()
	span.SetAttributes(attribute.String("dataset", ds.Name))

	records, extras, err := e.fetchRecords(ctx, ds)
	if err != nil {
		return report.Summary{}, err
	}
	e.Logger.Info("Loaded edge table", "dataset", ds.Name, "rows", len(records))

	records, filtered, err := e.filterRecords(ds, records)
	if err != nil {
		return report.Summary{}, err
	}

	// The builder demands ranked input; re-sorting is opt-in so silent
	// ordering bugs upstream stay visible by default.
	if ds.Sort || e.config.Build.Sort {
		edges.SortByScore(records)
	}

	res, err := graph.BuildDAG(records)
	if err != nil {
		return report.Summary{}, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	span.SetAttributes(
		attribute.Int("dag.vertices", res.Stats.Vertices),
		attribute.Int("dag.accepted", res.Stats.Accepted),
	)

	summary := report.BuildSummary(ds.Name, res, filtered)
	if top := e.config.Analysis.TopHubs; top > 0 && len(summary.Hubs) > top {
		summary.Hubs = summary.Hubs[:top]
	}

	if err := e.export(ctx, ds, res, extras, summary); err != nil {
		return summary, err
	}

	e.Logger.Info("Build complete",
		"dataset", ds.Name,
		"vertices", res.Stats.Vertices,
		"accepted", res.Stats.Accepted,
		"excluded", res.Stats.SelfLoops+res.Stats.Duplicates+res.Stats.Cycles,
	)
	return summary, nil
}

// fetchRecords loads the ranked table from storage, or fabricates one in
// mock mode. The decoder is picked by file extension: Arrow IPC for
// .arrow/.feather, CSV otherwise.
func (e *Engine) fetchRecords(ctx context.Context, ds recipe.Dataset) ([]edges.Record, []string, error) {
	if e.config.MockMode {
		records, err := e.Scorer.Score(ctx, ds.Name)
		return records, nil, err
	}

	store, key, err := storage.Open(ctx, ds.Input)
	if err != nil {
		return nil, nil, err
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", ds.Input, err)
	}

	switch strings.ToLower(path.Ext(key)) {
	case ".arrow", ".feather", ".ipc":
		return edges.ReadArrow(data)
	default:
		return edges.ReadCSV(bytes.NewReader(data))
	}
}

// filterRecords applies the CEL rule chain and the score/size thresholds.
// Thresholding happens after the rules so an explicit keep cannot resurrect
// a row the caps already cut.
func (e *Engine) filterRecords(ds recipe.Dataset, records []edges.Record) ([]edges.Record, map[string]int, error) {
	var filtered map[string]int

	rulesPath := ds.Rules
	if rulesPath == "" {
		rulesPath = e.config.RulesFile
	}
	if rulesPath != "" {
		rules, err := policy.LoadRules(rulesPath)
		if err != nil {
			return nil, nil, err
		}
		eng, err := policy.NewCELEngine()
		if err != nil {
			return nil, nil, err
		}
		if err := eng.Compile(rules); err != nil {
			return nil, nil, err
		}
		records, filtered, err = eng.Apply(records)
		if err != nil {
			return nil, nil, err
		}
	}

	minScore := ds.MinScore
	if minScore == 0 {
		minScore = e.config.Build.MinScore
	}
	if minScore > 0 {
		kept := records[:0]
		for _, r := range records {
			if r.Score >= minScore {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	maxEdges := ds.MaxEdges
	if maxEdges == 0 {
		maxEdges = e.config.Build.MaxEdges
	}
	// The table is ranked, so capping keeps the highest-confidence rows.
	if maxEdges > 0 && len(records) > maxEdges {
		records = records[:maxEdges]
	}

	return records, filtered, nil
}

// export writes the four artifacts under the dataset's output prefix.
func (e *Engine) export(ctx context.Context, ds recipe.Dataset, res *graph.BuildResult, extras []string, summary report.Summary) error {
	store, prefix, err := storage.Open(ctx, ds.Output)
	if err != nil {
		return err
	}

	write := func(name string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		key := path.Join(prefix, name)
		if err := store.Put(ctx, key, buf.Bytes()); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		return nil
	}

	if err := write(FileAugmented, func(b *bytes.Buffer) error {
		return report.WriteAugmentedCSV(b, res.Records, extras)
	}); err != nil {
		return err
	}
	if err := write(FileVertexMap, func(b *bytes.Buffer) error {
		return report.WriteVertexMap(b, res.Graph)
	}); err != nil {
		return err
	}
	if err := write(FileNetwork, func(b *bytes.Buffer) error {
		return report.WriteSIF(b, res.Records)
	}); err != nil {
		return err
	}
	return write(FileSummary, func(b *bytes.Buffer) error {
		return report.WriteJSON(b, summary)
	})
}
