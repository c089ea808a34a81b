// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package reach provides the generator reachability engine.
//
// An Engine discovers, from the player's current state, which nodes of a
// game world can be reached and which are safe: reachable with a way back to
// the current node without any further resource. It keeps the discovered
// world in a path graph and updates it incrementally as the state advances.
//
// # Lifecycle
//
//  1. Build with ReachFromState (full expansion from the starting node)
//  2. Query with IsReachableNode, IsSafeNode, ConnectedNodes, ...
//  3. Advance with ActOn (collect a resource node) or AdvanceTo
//  4. Fork with Clone to try a branch and discard it
//
// # Thread Safety
//
// An Engine is NOT safe for concurrent use; even queries fill caches.
// Clones share only immutable data (the game and the state chain), so
// independent clones may be used from separate goroutines.
package reach

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/AleutianAI/randoreach/services/logic/pathgraph"
	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/state"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// pathKey identifies a directed connection by node indices.
type pathKey struct {
	from, to int
}

// graphPath is a candidate edge waiting to be materialized. previous is nil
// for the seed of an expansion.
type graphPath struct {
	previous    world.Node
	node        world.Node
	requirement requirement.RequirementSet
}

// safeComponent is the strongly connected component of the current node.
type safeComponent struct {
	ordered []int
	members map[int]struct{}
}

// Engine is the reachability engine for one game and one state history.
type Engine struct {
	id       string
	parentID string

	game   *world.GameDescription
	state  *state.State
	graph  *pathgraph.Graph
	config Config
	tracer trace.Tracer

	// logger carries the engine ID; baseLogger is what clones derive from.
	logger     *slog.Logger
	baseLogger *slog.Logger

	// unreachable holds discovered connections whose requirement did not
	// hold when they were discovered.
	unreachable map[pathKey]requirement.RequirementSet

	// Caches. A nil reachablePaths or safeNodes is stale and recomputed on
	// the next query; the node maps are invalidated by policy.
	reachablePaths     *pathgraph.ShortestPaths
	nodeReachableCache map[int]bool
	safeNodes          *safeComponent
	isNodeSafeCache    map[int]bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	config         Config
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

// WithConfig sets the engine configuration. Default: DefaultConfig().
func WithConfig(config Config) Option {
	return func(o *engineOptions) {
		o.config = config
	}
}

// WithLogger sets the logger. Default: a logger built from Config.LogLevel.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithTracerProvider sets where spans go. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *engineOptions) {
		o.tracerProvider = tp
	}
}

// ReachFromState builds an engine and expands everything reachable from the
// initial state's node.
//
// Description:
//
//	Seeds an empty path graph with the initial node and runs expansion to
//	its fixed point. Afterwards the initial node is reachable at cost 0.
//
// Inputs:
//
//	ctx - Used for tracing only; expansion is never interrupted.
//	game - The game. Must not be nil.
//	initial - The starting state. Must not be nil and must have a node.
//	opts - Optional configuration, logger and tracer provider.
//
// Outputs:
//
//	*Engine - The engine.
//	error - ErrNilArgument, ErrInvalidConfig, or a region list validation
//	error from the world package.
//
// Thread Safety: The returned engine is not safe for concurrent use.
func ReachFromState(ctx context.Context, game *world.GameDescription, initial *state.State, opts ...Option) (*Engine, error) {
	options := engineOptions{config: DefaultConfig()}
	for _, opt := range opts {
		opt(&options)
	}

	if game == nil || initial == nil || initial.Node == nil {
		return nil, fmt.Errorf("%w: game and initial state with a node are required", ErrNilArgument)
	}
	if err := options.config.Validate(); err != nil {
		return nil, err
	}
	if err := game.RegionList.EnsureHasNodeCache(); err != nil {
		return nil, fmt.Errorf("reach from state: %w", err)
	}

	e := &Engine{
		id:                 uuid.NewString(),
		game:               game,
		state:              initial,
		graph:              pathgraph.New(),
		config:             options.config,
		baseLogger:         options.logger,
		tracer:             newTracer(options),
		unreachable:        make(map[pathKey]requirement.RequirementSet),
		nodeReachableCache: make(map[int]bool),
		isNodeSafeCache:    make(map[int]bool),
	}
	if e.baseLogger == nil {
		e.baseLogger = options.config.newLogger().Slog()
	}
	e.logger = e.baseLogger.With(slog.String("engine_id", e.id))

	ctx, span := e.startSpan(ctx, "ReachFromState",
		attribute.Int("reach.start_node", initial.Node.NodeIndex()),
	)
	defer span.End()

	e.expandGraph(ctx, "construct", []graphPath{{
		node:        initial.Node,
		requirement: requirement.TrivialSet(),
	}})
	e.setSpanResult(span)
	return e, nil
}

func newTracer(options engineOptions) trace.Tracer {
	if !options.config.TracingEnabled {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	if options.tracerProvider != nil {
		return options.tracerProvider.Tracer(instrumentationName)
	}
	return otel.Tracer(instrumentationName)
}

// expandGraph grows the path graph from paths until no satisfied candidate
// is left.
//
// Description:
//
//	Drains a FIFO queue. A path whose edge (or, for a seed, whose node) is
//	already in the graph is skipped. Otherwise it is materialized and every
//	one-hop candidate from its node is tested against the current state:
//	satisfied ones are queued, the rest are recorded as unreachable. The
//	path and safety caches are invalidated up front.
func (e *Engine) expandGraph(ctx context.Context, trigger string, paths []graphPath) {
	start := time.Now()
	e.safeNodes = nil
	e.reachablePaths = nil

	current := e.state
	processed := 0
	queue := paths
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		index := path.node.NodeIndex()
		if path.previous == nil {
			if e.graph.Contains(index) {
				continue
			}
		} else if e.graph.HasEdge(path.previous.NodeIndex(), index) {
			continue
		}

		processed++
		e.graph.AddNode(index)
		if path.previous != nil {
			e.graph.AddEdge(path.previous.NodeIndex(), index, path.requirement)
		}

		for target, req := range e.potentialNodesFrom(path.node) {
			key := pathKey{from: index, to: target.NodeIndex()}
			if req.Satisfied(current.Resources, current.Energy, current.Database) {
				delete(e.unreachable, key)
				queue = append(queue, graphPath{previous: path.node, node: target, requirement: req})
			} else {
				e.unreachable[key] = req
			}
		}
	}

	e.logger.Debug("path graph expanded",
		slog.String("trigger", trigger),
		slog.Int("processed", processed),
		slog.Int("nodes", e.graph.NodeCount()),
		slog.Int("edges", e.graph.EdgeCount()),
		slog.Int("unreachable", len(e.unreachable)),
	)
	e.recordExpandMetrics(ctx, trigger, time.Since(start), processed)
}

// potentialNodesFrom yields every one-hop target of node with the patched
// requirement to get there.
//
// The raw connection requirement is combined with the node's requirement to
// leave and, for a resource node, with holding every dangerous resource it
// grants: leaving such a node is only sound once it has been collected.
func (e *Engine) potentialNodesFrom(node world.Node) iter.Seq2[world.Node, requirement.RequirementSet] {
	return func(yield func(world.Node, requirement.RequirementSet) bool) {
		ctx := e.state.NodeContext()
		db := e.state.Database

		var extra []requirement.Requirement
		leave := node.RequirementToLeave(ctx)
		if !requirement.IsTrivial(leave) {
			extra = append(extra, leave)
		}
		if rn, ok := world.AsResourceNode(node); ok {
			for _, q := range rn.ResourceGainOnCollect(ctx) {
				if e.game.IsDangerous(q.Resource) {
					extra = append(extra, requirement.Simple(q.Resource))
				}
			}
		}

		for target, raw := range e.game.RegionList.PotentialNodesFrom(node, ctx) {
			if target == nil {
				continue
			}
			combined := raw
			if len(extra) > 0 {
				combined = requirement.And(append([]requirement.Requirement{raw}, extra...)...)
			}
			set := combined.PatchRequirements(e.state.Resources, 1.0, db).AsSet(db)
			if !yield(target, set) {
				return
			}
		}
	}
}

// nodeByIndex maps a graph index back to its world node.
func (e *Engine) nodeByIndex(index int) world.Node {
	return e.game.RegionList.NodeByIndex(index)
}
