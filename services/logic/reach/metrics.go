// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package reach

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "randoreach.reach"

// Package-level meter for reach operations.
var meter = otel.Meter(instrumentationName)

// Metrics for graph expansion.
var (
	expandLatency metric.Float64Histogram
	expandTotal   metric.Int64Counter
	pathsExpanded metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// Cache invalidation policies, used as the "policy" label.
const (
	policyDropNegative = "drop_negative"
	policyClear        = "clear"
)

var (
	// dangerousEdgesRemoved counts edges removed because a dangerous
	// resource was collected.
	dangerousEdgesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reach_dangerous_edges_removed_total",
		Help: "Total path graph edges removed after collecting a dangerous resource",
	})

	// cacheInvalidations counts node cache invalidations by policy.
	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reach_cache_invalidations_total",
		Help: "Total node cache invalidations by policy",
	}, []string{"policy"})

	// safeComponentSize tracks the size of the safe component.
	safeComponentSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reach_safe_component_size",
		Help:    "Number of nodes in the strongly connected component of the current node",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
	})
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		expandLatency, err = meter.Float64Histogram(
			"reach_expand_duration_seconds",
			metric.WithDescription("Duration of path graph expansion"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		expandTotal, err = meter.Int64Counter(
			"reach_expand_total",
			metric.WithDescription("Total number of path graph expansions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		pathsExpanded, err = meter.Int64Histogram(
			"reach_paths_expanded",
			metric.WithDescription("Number of graph paths processed per expansion"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordExpandMetrics records metrics for one expansion.
func (e *Engine) recordExpandMetrics(ctx context.Context, trigger string, duration time.Duration, processed int) {
	if !e.config.MetricsEnabled {
		return
	}
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("trigger", trigger))
	expandLatency.Record(ctx, duration.Seconds(), attrs)
	expandTotal.Add(ctx, 1, attrs)
	pathsExpanded.Record(ctx, int64(processed), attrs)
}

func (e *Engine) recordCacheInvalidation(policy string) {
	if e.config.MetricsEnabled {
		cacheInvalidations.WithLabelValues(policy).Inc()
	}
}

func (e *Engine) recordDangerousEdgesRemoved(count int) {
	if e.config.MetricsEnabled {
		dangerousEdgesRemoved.Add(float64(count))
	}
}

func (e *Engine) recordSafeComponent(size int) {
	if e.config.MetricsEnabled {
		safeComponentSize.Observe(float64(size))
	}
}

// startSpan creates a span for an engine operation.
func (e *Engine) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("reach.engine_id", e.id))
	return e.tracer.Start(ctx, "Reach."+op, trace.WithAttributes(attrs...))
}

// setSpanResult sets the graph size attributes on a span.
func (e *Engine) setSpanResult(span trace.Span) {
	span.SetAttributes(
		attribute.Int("reach.node_count", e.graph.NodeCount()),
		attribute.Int("reach.edge_count", e.graph.EdgeCount()),
		attribute.Int("reach.unreachable_count", len(e.unreachable)),
	)
}
