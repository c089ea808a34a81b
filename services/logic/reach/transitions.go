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
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/randoreach/pkg/telemetry"
	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/resources"
	"github.com/AleutianAI/randoreach/services/logic/state"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// AdvanceTo moves the engine to newState and expands whatever it unlocks.
//
// Description:
//
//	Every unreachable connection whose requirement now holds is promoted
//	and expanded from. If isSafe is set, or newState's node is safe in the
//	current state, the node caches only drop their false entries, provided
//	the previous node is still in the new node's component at cost 0.
//	Otherwise both are cleared.
//
// Inputs:
//
//	ctx - Used for tracing only.
//	newState - Must have the current state as its PreviousState.
//	isSafe - The caller asserts the move stays within safe territory.
//
// Outputs:
//
//	error - ErrStateNotDescendant, in which case nothing was changed.
//
// Thread Safety: Not safe for concurrent use.
func (e *Engine) AdvanceTo(ctx context.Context, newState *state.State, isSafe bool) error {
	if newState == nil || !newState.IsDescendantOf(e.state) {
		return fmt.Errorf("%w: advancing from %s", ErrStateNotDescendant, e.state)
	}

	ctx, span := e.startSpan(ctx, "AdvanceTo",
		attribute.Int("reach.node", newState.Node.NodeIndex()),
		attribute.Bool("reach.is_safe", isSafe),
	)
	defer span.End()

	safe := isSafe || e.IsSafeNode(newState.Node)
	previous := e.state.Node

	e.advance(ctx, "advance", newState)

	if safe && e.returnsFreelyTo(previous) {
		e.dropNegativeCacheEntries()
	} else {
		e.clearNodeCaches()
	}
	e.setSpanResult(span)
	return nil
}

// ActOn collects node: moves to the state after collecting it, removes
// edges that a newly held dangerous resource makes illegal, and expands.
//
// Description:
//
//	Edges whose requirement mentions a newly gained dangerous resource are
//	re-tested against the new state; failing ones are removed from the
//	graph and kept as unreachable so a later state can restore them. The
//	node caches are then fully cleared, since collection is never presumed
//	safe.
//
// Inputs:
//
//	ctx - Used for tracing only.
//	node - The resource node to collect, normally a reachable one.
//
// Outputs:
//
//	error - Always nil; kept for symmetry with AdvanceTo.
//
// Thread Safety: Not safe for concurrent use.
func (e *Engine) ActOn(ctx context.Context, node world.ResourceNode) error {
	ctx, span := e.startSpan(ctx, "ActOn",
		attribute.Int("reach.node", node.NodeIndex()),
		attribute.String("reach.node_name", node.Name()),
	)
	defer span.End()

	newDangerous := make(map[int]struct{})
	for _, q := range node.ResourceGainOnCollect(e.state.NodeContext()) {
		if e.game.IsDangerous(q.Resource) {
			newDangerous[q.Resource.Index] = struct{}{}
		}
	}
	newState := e.state.ActOnNode(node)

	if len(newDangerous) > 0 {
		removed := e.removeDangerousEdges(ctx, newState, newDangerous)
		span.SetAttributes(attribute.Int("reach.dangerous_edges_removed", removed))
	}

	e.clearNodeCaches()
	e.advance(ctx, "act_on", newState)
	e.setSpanResult(span)
	return nil
}

// removeDangerousEdges drops every edge that mentions one of dangerous and
// no longer holds in newState.
func (e *Engine) removeDangerousEdges(ctx context.Context, newState *state.State, dangerous map[int]struct{}) int {
	removed := 0
	for _, edge := range e.graph.Edges() {
		mentions := slices.ContainsFunc(edge.Requirement.DangerousResources(), func(r *resources.ResourceInfo) bool {
			_, ok := dangerous[r.Index]
			return ok
		})
		if !mentions {
			continue
		}
		if edge.Requirement.Satisfied(newState.Resources, newState.Energy, newState.Database) {
			continue
		}
		e.graph.RemoveEdge(edge.From, edge.To)
		e.unreachable[pathKey{from: edge.From, to: edge.To}] = edge.Requirement
		removed++
	}

	if removed > 0 {
		e.safeNodes = nil
		e.reachablePaths = nil
		telemetry.LoggerWithTrace(ctx, e.logger).Info("removed edges invalidated by dangerous resources",
			slog.Int("removed", removed),
			slog.Int("edges", e.graph.EdgeCount()),
		)
		e.recordDangerousEdgesRemoved(removed)
	}
	return removed
}

// advance replaces the current state, promotes unreachable connections that
// now hold, and expands from them.
func (e *Engine) advance(ctx context.Context, trigger string, newState *state.State) {
	e.state = newState

	var paths []graphPath
	for _, key := range e.sortedUnreachableKeys() {
		req := e.unreachable[key]
		if !req.Satisfied(newState.Resources, newState.Energy, newState.Database) {
			continue
		}
		delete(e.unreachable, key)
		paths = append(paths, graphPath{
			previous:    e.nodeByIndex(key.from),
			node:        e.nodeByIndex(key.to),
			requirement: req,
		})
	}

	e.expandGraph(ctx, trigger, paths)
}

// sortedUnreachableKeys returns the unreachable keys in (from, to) order.
func (e *Engine) sortedUnreachableKeys() []pathKey {
	keys := make([]pathKey, 0, len(e.unreachable))
	for key := range e.unreachable {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b pathKey) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})
	return keys
}

// unreachableRequirements merges, per target node, every blocking
// requirement patched against the current resources.
func (e *Engine) unreachableRequirements() map[int]requirement.RequirementSet {
	db := e.state.Database
	merged := make(map[int]requirement.RequirementSet)
	for _, key := range e.sortedUnreachableKeys() {
		patched := e.unreachable[key].PatchRequirements(e.state.Resources, 1.0, db)
		if existing, ok := merged[key.to]; ok {
			merged[key.to] = existing.ExpandAlternatives(patched)
		} else {
			merged[key.to] = patched
		}
	}
	return merged
}
