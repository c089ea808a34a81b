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
	"iter"
	"log/slog"
	"maps"

	"github.com/google/uuid"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/state"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// ConnectedNodes yields every node the cost search reached, at any cost,
// in discovery order.
func (e *Engine) ConnectedNodes() iter.Seq[world.Node] {
	return func(yield func(world.Node) bool) {
		e.calculateReachablePaths()
		paths := e.reachablePaths
		for index := range e.graph.Nodes() {
			if _, ok := paths.Cost(index); !ok {
				continue
			}
			if !yield(e.nodeByIndex(index)) {
				return
			}
		}
	}
}

// Nodes yields every node ever added to the path graph, in discovery order.
func (e *Engine) Nodes() iter.Seq[world.Node] {
	return func(yield func(world.Node) bool) {
		for index := range e.graph.Nodes() {
			if !yield(e.nodeByIndex(index)) {
				return
			}
		}
	}
}

// SafeNodes yields the strongly connected component of the current node,
// ordered by node index.
func (e *Engine) SafeNodes() iter.Seq[world.Node] {
	return func(yield func(world.Node) bool) {
		for _, index := range e.calculateSafeNodes().ordered {
			if !yield(e.nodeByIndex(index)) {
				return
			}
		}
	}
}

// UnreachableNodesWithRequirements maps each node blocked by a discovered
// connection to everything that would unblock it. Nodes that are reachable
// some other way are left out.
func (e *Engine) UnreachableNodesWithRequirements() map[world.Node]requirement.RequirementSet {
	result := make(map[world.Node]requirement.RequirementSet)
	for index, req := range e.unreachableRequirements() {
		node := e.nodeByIndex(index)
		if e.IsReachableNode(node) {
			continue
		}
		result[node] = req
	}
	return result
}

// VictoryConditionSatisfied reports whether the current state beats the game.
func (e *Engine) VictoryConditionSatisfied() bool {
	return e.game.VictoryCondition.Satisfied(e.state.Resources, e.state.Energy, e.state.Database)
}

// State returns the current state.
func (e *Engine) State() *state.State {
	return e.state
}

// Game returns the game description.
func (e *Engine) Game() *world.GameDescription {
	return e.game
}

// NodeContext returns the node context of the current state.
func (e *Engine) NodeContext() *world.NodeContext {
	return e.state.NodeContext()
}

// ID returns the engine identifier used in logs and spans.
func (e *Engine) ID() string {
	return e.id
}

// ParentID returns the identifier of the engine this one was cloned from,
// or "" for an engine built with ReachFromState.
func (e *Engine) ParentID() string {
	return e.parentID
}

// Stats summarizes the engine's graph.
type Stats struct {
	ID               string
	ParentID         string
	Nodes            int
	Edges            int
	UnreachablePaths int
	StateDepth       int
}

// Stats returns a summary of the engine's graph. It never fills caches.
func (e *Engine) Stats() Stats {
	return Stats{
		ID:               e.id,
		ParentID:         e.parentID,
		Nodes:            e.graph.NodeCount(),
		Edges:            e.graph.EdgeCount(),
		UnreachablePaths: len(e.unreachable),
		StateDepth:       e.state.Depth(),
	}
}

// Clone forks the engine.
//
// Description:
//
//	The path graph, the unreachable map and the node caches are copied, so
//	either engine can advance without affecting the other. The state chain,
//	the game, and computed search results are immutable and shared. The
//	clone gets a new ID and records this engine as its parent.
//
// Thread Safety: Not safe for concurrent use with e. The clone may be used
// from another goroutine.
func (e *Engine) Clone() *Engine {
	id := uuid.NewString()
	return &Engine{
		id:                 id,
		parentID:           e.id,
		game:               e.game,
		state:              e.state,
		graph:              e.graph.Clone(),
		config:             e.config,
		logger:             e.baseLogger.With(slog.String("engine_id", id), slog.String("parent_id", e.id)),
		baseLogger:         e.baseLogger,
		tracer:             e.tracer,
		unreachable:        maps.Clone(e.unreachable),
		reachablePaths:     e.reachablePaths,
		nodeReachableCache: maps.Clone(e.nodeReachableCache),
		safeNodes:          e.safeNodes,
		isNodeSafeCache:    maps.Clone(e.isNodeSafeCache),
	}
}
