// Package engine is the single entry point of the statistics core: it filters a
// dataset, dispatches the request to the test it names and assembles the result.
// An Engine holds only configuration, so one instance can serve concurrent calls.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"farmstat/adapters/stats/filter"
	"farmstat/adapters/stats/hypothesis"
	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

const defaultBatchConcurrency = 8

// StatsEngine runs analysis requests against read-only datasets.
type StatsEngine struct {
	opts        hypothesis.Options
	logger      *zap.Logger
	concurrency int
}

// Option configures a StatsEngine.
type Option func(*StatsEngine)

// WithLevelPolicy sets how two-sample tests pick levels from multi-level fields.
func WithLevelPolicy(p hypothesis.LevelPolicy) Option {
	return func(e *StatsEngine) { e.opts.Levels = p }
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *StatsEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBatchConcurrency bounds the number of requests AnalyzeBatch runs at once.
func WithBatchConcurrency(n int) Option {
	return func(e *StatsEngine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(opts ...Option) *StatsEngine {
	e := &StatsEngine{
		opts:        hypothesis.DefaultOptions(),
		logger:      zap.NewNop(),
		concurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LevelPolicy reports the configured two-sample level policy.
func (e *StatsEngine) LevelPolicy() hypothesis.LevelPolicy {
	return e.opts.Levels
}

// Run executes req against data. It never fails: degenerate inputs produce a
// p=1 result with a description of what was missing. data is not modified.
func (e *StatsEngine) Run(data dataset.Dataset, req analysis.AnalysisRequest) analysis.StatResult {
	req = req.Normalize()
	filtered := filter.Apply(data, req.Filters)

	var result analysis.StatResult
	switch req.TestKind {
	case analysis.KindANOVA:
		result = hypothesis.OneWayANOVA(filtered, groupFieldOr(req, dataset.DefaultANOVAGroupField), req.OutcomeField)
	case analysis.KindRegression:
		result = hypothesis.LinearRegression(filtered, req, e.opts)
	default:
		result = hypothesis.WelchTTest(filtered, groupFieldOr(req, dataset.DefaultGroupField), req.OutcomeField, e.opts)
	}

	return result.WithCounts(len(data), len(filtered))
}

// Analyze validates req against the dataset schema and then runs it.
func (e *StatsEngine) Analyze(ctx context.Context, data dataset.Dataset, req analysis.AnalysisRequest) (analysis.StatResult, error) {
	if err := ctx.Err(); err != nil {
		return analysis.StatResult{}, err
	}

	if err := e.Validate(data, req); err != nil {
		e.logger.Warn("rejected analysis request",
			zap.String("test_type", string(req.TestKind)),
			zap.String("outcome", string(req.OutcomeField)),
			zap.Error(err))
		return analysis.StatResult{}, err
	}

	start := time.Now()
	result := e.Run(data, req)
	e.logger.Debug("analysis complete",
		zap.String("test_type", string(req.Normalize().TestKind)),
		zap.String("test_label", result.TestLabel),
		zap.String("outcome", string(req.OutcomeField)),
		zap.Int("filters", len(req.Filters)),
		zap.Int("n", result.N),
		zap.Int("n_filtered", result.NFiltered),
		zap.Float64("p_value", result.PValue),
		zap.Bool("significant", result.Significant),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// AnalyzeBatch analyzes every request against the same dataset concurrently. The
// results line up with reqs. The first validation failure cancels the rest.
func (e *StatsEngine) AnalyzeBatch(ctx context.Context, data dataset.Dataset, reqs []analysis.AnalysisRequest) ([]analysis.StatResult, error) {
	results := make([]analysis.StatResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			r, err := e.Analyze(gctx, data, req)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func groupFieldOr(req analysis.AnalysisRequest, fallback dataset.Field) dataset.Field {
	if req.HasGroup() {
		return req.GroupField
	}
	return fallback
}
