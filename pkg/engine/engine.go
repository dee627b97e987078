// Package engine orchestrates DAG builds: it fetches ranked edge tables,
// filters them, runs the greedy builder, and exports the artifacts, with
// datasets processed concurrently.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/acpaulo/causal-inference-short-course/pkg/config"
	"github.com/acpaulo/causal-inference-short-course/pkg/recipe"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
	"github.com/acpaulo/causal-inference-short-course/pkg/scorer"
	"github.com/acpaulo/causal-inference-short-course/pkg/telemetry"
	"github.com/acpaulo/causal-inference-short-course/pkg/version"
)

// ErrPartialResult indicates the run completed but some datasets failed.
var ErrPartialResult = errors.New("run completed with partial results")

// Config holds engine settings.
type Config struct {
	Build     config.BuildConfig
	Analysis  config.AnalysisConfig
	RulesFile string

	Workers  int
	JsonLogs bool
	Verbose  bool

	// StrictMode forces a non-nil error when any dataset fails.
	StrictMode bool

	// MockMode replaces input fetching with the synthetic scorer.
	MockMode bool

	// Telemetry config.
	OtelEndpoint  string // "http://localhost:4318" or via env
	SkipTelemetry bool   // Set true if embedding in an app that already has OTEL

	// Dependencies.
	Logger *slog.Logger
}

// DatasetResult is the per-dataset outcome of a run.
type DatasetResult struct {
	Name    string
	Summary report.Summary
	Err     error
}

// Engine is the runtime core.
type Engine struct {
	Logger *slog.Logger
	Tracer trace.Tracer
	Pool   *Pool
	Scorer scorer.EdgeScorer

	config Config

	mu      sync.Mutex
	results []DatasetResult

	shutdownTelemetry func(context.Context) error
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		Tracer: otel.Tracer("grndag/engine"),
		Scorer: scorer.NewSynthetic(),
		config: Config{
			Build:    config.DefaultBuildConfig(),
			Analysis: config.DefaultAnalysisConfig(),
			Workers:  config.DefaultEngineConfig().Workers,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.Pool == nil {
		e.Pool = NewPool(e.config.Workers)
	}

	slog.SetDefault(e.Logger)

	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint)
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdownTelemetry = shutdown
		}
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithScorer sets the synthetic/mock edge producer.
func WithScorer(s scorer.EdgeScorer) Option {
	return func(e *Engine) {
		e.Scorer = s
	}
}

// WithConcurrency sets the worker count.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.Pool = NewPool(n)
		}
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		zero := config.BuildConfig{}
		if cfg.Build == zero {
			cfg.Build = config.DefaultBuildConfig()
		}
		if cfg.Analysis == (config.AnalysisConfig{}) {
			cfg.Analysis = config.DefaultAnalysisConfig()
		}
		e.config = cfg
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		} else if !cfg.JsonLogs {
			e.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		if cfg.Workers > 0 {
			e.Pool = NewPool(cfg.Workers)
		}
	}
}

// Run processes every dataset of the recipe and returns per-dataset results
// ordered by dataset name. When StrictMode is off, dataset failures are
// reported in the results but the run itself succeeds; ErrPartialResult is
// returned alongside the results otherwise.
func (e *Engine) Run(ctx context.Context, r *recipe.Recipe) ([]DatasetResult, error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Run")
	defer span.End()
	defer e.recoverPanic(ctx)
	defer func() {
		if e.shutdownTelemetry != nil {
			_ = e.shutdownTelemetry(context.Background())
		}
	}()

	e.Logger.Info("Starting DAG build run",
		"datasets", len(r.Datasets),
		"concurrency", e.Pool.Workers,
	)

	e.Pool.Start(ctx)

	for _, ds := range r.Datasets {
		ds := ds
		e.Pool.Submit(func(ctx context.Context) error {
			summary, err := e.processDataset(ctx, ds)
			e.mu.Lock()
			e.results = append(e.results, DatasetResult{Name: ds.Name, Summary: summary, Err: err})
			e.mu.Unlock()
			if err != nil {
				e.Logger.Error("Dataset failed", "dataset", ds.Name, "error", err)
			}
			return err
		})
	}

	e.Pool.Wait()
	e.Pool.Stop()

	e.mu.Lock()
	results := make([]DatasetResult, len(e.results))
	copy(results, e.results)
	e.mu.Unlock()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		span.SetAttributes(
			attribute.Bool("run.partial", true),
			attribute.Int("run.failed_datasets", failed),
		)
		if e.config.StrictMode {
			e.Logger.Error("Strict Mode: failing due to dataset errors", "failed", failed)
			return results, ErrPartialResult
		}
		e.Logger.Warn("Run finished with dataset errors (StrictMode=false)", "failed", failed)
	}

	return results, nil
}

// recoverPanic handles failures.
func (e *Engine) recoverPanic(ctx context.Context) {
	if r := recover(); r != nil {
		tr := otel.Tracer("grndag/engine")
		_, span := tr.Start(ctx, "CriticalPanic")

		stack := debug.Stack()
		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		// No os.Exit here so callers embedding the engine can handle it.
		e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
	}
}
