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
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/randoreach/services/logic/resources"
	"github.com/AleutianAI/randoreach/services/logic/state"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// UncollectedResourceNodes returns the reachable resource nodes that have
// not been collected, ordered by node index.
func (e *Engine) UncollectedResourceNodes() []world.ResourceNode {
	ctx := e.state.NodeContext()
	var out []world.ResourceNode
	for index := range e.graph.Nodes() {
		rn, ok := world.AsResourceNode(e.nodeByIndex(index))
		if !ok || rn.IsCollected(ctx) || !e.IsReachableNode(rn) {
			continue
		}
		out = append(out, rn)
	}
	slices.SortFunc(out, func(a, b world.ResourceNode) int {
		return a.NodeIndex() - b.NodeIndex()
	})
	return out
}

// SafeUncollectedResourceNodes returns the uncollected resource nodes that
// are also safe, ordered by node index.
func (e *Engine) SafeUncollectedResourceNodes() []world.ResourceNode {
	return slices.DeleteFunc(e.UncollectedResourceNodes(), func(rn world.ResourceNode) bool {
		return !e.IsSafeNode(rn)
	})
}

// grantsDangerous reports whether collecting node gains a dangerous resource.
func (e *Engine) grantsDangerous(node world.ResourceNode) bool {
	return slices.ContainsFunc(node.ResourceGainOnCollect(e.state.NodeContext()), func(q resources.ResourceQuantity) bool {
		return e.game.IsDangerous(q.Resource)
	})
}

// CollectAllSafeResources collects safe resource nodes until none are left.
//
// Description:
//
//	Each round collects every safe, collectable resource node found at the
//	start of the round. Plain collections advance with isSafe set; a node
//	granting a dangerous resource goes through ActOn so invalidated edges
//	are removed.
//
// Outputs:
//
//	int - Number of nodes collected.
//	error - Any error from AdvanceTo or ActOn.
//
// Thread Safety: Not safe for concurrent use.
func (e *Engine) CollectAllSafeResources(ctx context.Context) (int, error) {
	ctx, span := e.startSpan(ctx, "CollectAllSafeResources")
	defer span.End()

	collected := 0
	for {
		actions := e.SafeUncollectedResourceNodes()
		if len(actions) == 0 {
			break
		}

		progressed := false
		for _, node := range actions {
			if !node.CanCollect(e.state.NodeContext()) {
				continue
			}
			var err error
			if e.grantsDangerous(node) {
				err = e.ActOn(ctx, node)
			} else {
				err = e.AdvanceTo(ctx, e.state.ActOnNode(node), true)
			}
			if err != nil {
				return collected, err
			}
			collected++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	e.logger.Debug("collected safe resources", slog.Int("collected", collected))
	span.SetAttributes(attribute.Int("reach.collected", collected))
	return collected, nil
}

// ReachWithAllSafeResources builds an engine from initial and collects every
// safe resource.
func ReachWithAllSafeResources(ctx context.Context, game *world.GameDescription, initial *state.State, opts ...Option) (*Engine, error) {
	e, err := ReachFromState(ctx, game, initial, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := e.CollectAllSafeResources(ctx); err != nil {
		return nil, err
	}
	return e, nil
}
