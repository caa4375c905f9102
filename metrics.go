package lpastar

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for planner operations.
var (
	tracer = otel.Tracer("lpastar")
	meter  = otel.Meter("lpastar")
)

// Plan outcomes recorded on metrics.
const (
	outcomeFound     = "found"
	outcomeNoPath    = "no_path"
	outcomeInvariant = "invariant_violation"
)

var (
	planLatency    metric.Float64Histogram
	planTotal      metric.Int64Counter
	planExpansions metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		planLatency, err = meter.Float64Histogram(
			"lpastar_plan_duration_seconds",
			metric.WithDescription("Duration of Plan calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		planTotal, err = meter.Int64Counter(
			"lpastar_plan_total",
			metric.WithDescription("Total number of Plan calls by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		planExpansions, err = meter.Int64Histogram(
			"lpastar_plan_expansions",
			metric.WithDescription("Number of vertices expanded per Plan call"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordPlanMetrics records metrics for a completed Plan call.
func recordPlanMetrics(ctx context.Context, duration time.Duration, expanded int, outcome string, incremental bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Bool("incremental", incremental),
	)
	planLatency.Record(ctx, duration.Seconds(), attrs)
	planTotal.Add(ctx, 1, attrs)
	planExpansions.Record(ctx, int64(expanded), attrs)
}

// startPlanSpan creates a span for a Plan call.
func startPlanSpan(ctx context.Context, sessionID string, start, goal Cell) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Planner.Plan",
		trace.WithAttributes(
			attribute.String("lpastar.session_id", sessionID),
			attribute.IntSlice("lpastar.start", []int{start.X, start.Y}),
			attribute.IntSlice("lpastar.goal", []int{goal.X, goal.Y}),
		),
	)
}

// setPlanSpanResult sets the result attributes on a plan span.
func setPlanSpanResult(span trace.Span, result Result, incremental bool, err error) {
	span.SetAttributes(
		attribute.Bool("lpastar.found", result.Found),
		attribute.Bool("lpastar.incremental", incremental),
		attribute.Int("lpastar.expanded", len(result.Expand)),
		attribute.Int("lpastar.path_cells", len(result.Path)),
	)
	if err != nil && !isNoPath(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
