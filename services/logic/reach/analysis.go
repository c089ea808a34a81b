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
	"fmt"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// -----------------------------------------------------------------------------
// Safety
// -----------------------------------------------------------------------------

// calculateSafeNodes fills the safe node cache with the strongly connected
// component of the current node. It panics when no component holds the
// current node.
func (e *Engine) calculateSafeNodes() *safeComponent {
	if e.safeNodes != nil {
		return e.safeNodes
	}

	current := e.state.Node.NodeIndex()
	component := e.graph.ComponentOf(current)
	if component == nil {
		panic(fmt.Errorf("%w: node %d (%s)", ErrCurrentNodeNotInGraph, current, e.state.Node.Name()))
	}

	members := make(map[int]struct{}, len(component))
	for _, index := range component {
		members[index] = struct{}{}
	}
	e.safeNodes = &safeComponent{ordered: component, members: members}
	e.recordSafeComponent(len(component))
	return e.safeNodes
}

// IsSafeNode reports whether node is reachable and in the same strongly
// connected component as the current node, so the player can go there and
// come back without needing anything new.
//
// Thread Safety: Not safe for concurrent use; fills caches.
func (e *Engine) IsSafeNode(node world.Node) bool {
	index := node.NodeIndex()
	if cached, ok := e.isNodeSafeCache[index]; ok {
		return cached
	}

	_, inComponent := e.calculateSafeNodes().members[index]
	result := inComponent && e.IsReachableNode(node)
	e.isNodeSafeCache[index] = result
	return result
}

// -----------------------------------------------------------------------------
// Reachability cost
// -----------------------------------------------------------------------------

// calculateReachablePaths fills the path cache with a search from the
// current node where entering an uncollected resource node costs 1 and
// every other step costs 0.
func (e *Engine) calculateReachablePaths() {
	if e.reachablePaths != nil {
		return
	}

	ctx := e.state.NodeContext()
	uncollected := make(map[int]bool)
	weight := func(_, to int, _ requirement.RequirementSet) int {
		value, ok := uncollected[to]
		if !ok {
			value = world.IsUncollectedResourceNode(e.nodeByIndex(to), ctx)
			uncollected[to] = value
		}
		if value {
			return 1
		}
		return 0
	}
	e.reachablePaths = e.graph.MultiSourceDijkstra([]int{e.state.Node.NodeIndex()}, weight)
}

// returnsFreelyTo reports whether node shares a component with the current
// node and is reachable from it without collecting anything. When it holds,
// every node that was reachable or safe from node still is.
func (e *Engine) returnsFreelyTo(node world.Node) bool {
	if !e.graph.Contains(e.state.Node.NodeIndex()) {
		return false
	}
	index := node.NodeIndex()
	if _, ok := e.calculateSafeNodes().members[index]; !ok {
		return false
	}
	e.calculateReachablePaths()
	cost, ok := e.reachablePaths.Cost(index)
	return ok && cost == 0
}

// canAdvance reports whether the player can move on past node without
// stopping to collect it.
func (e *Engine) canAdvance(node world.Node) bool {
	return !world.IsUncollectedResourceNode(node, e.state.NodeContext())
}

// IsReachableNode reports whether the player can get to node now.
//
// Description:
//
//	Cost 0 nodes are reachable. A cost 1 node is reachable only when it is
//	itself the uncollected resource node that costs the 1; anything behind
//	it is not. Cost 2 and above is unreachable, even if collecting the
//	resource nodes in between would open the way.
//
// Thread Safety: Not safe for concurrent use; fills caches.
func (e *Engine) IsReachableNode(node world.Node) bool {
	index := node.NodeIndex()
	if cached, ok := e.nodeReachableCache[index]; ok {
		return cached
	}

	e.calculateReachablePaths()
	result := false
	if cost, ok := e.reachablePaths.Cost(index); ok {
		switch cost {
		case 0:
			result = true
		case 1:
			result = !e.canAdvance(node)
		}
	}
	e.nodeReachableCache[index] = result
	return result
}

// ReachableCost returns the search cost of node from the current node and
// whether the search reached it at all.
func (e *Engine) ReachableCost(node world.Node) (int, bool) {
	e.calculateReachablePaths()
	return e.reachablePaths.Cost(node.NodeIndex())
}

// PathTo returns one cheapest path of nodes from the current node to node,
// or nil when the search did not reach it.
func (e *Engine) PathTo(node world.Node) []world.Node {
	e.calculateReachablePaths()
	indices := e.reachablePaths.Path(node.NodeIndex())
	if indices == nil {
		return nil
	}
	out := make([]world.Node, len(indices))
	for i, index := range indices {
		out[i] = e.nodeByIndex(index)
	}
	return out
}

// -----------------------------------------------------------------------------
// Cache invalidation policies
// -----------------------------------------------------------------------------

// dropNegativeCacheEntries forgets every cached false in the node caches
// and keeps the trues. Used when moving within safe territory and the old
// node is still reachable at cost 0, so nothing reachable or safe can stop
// being so.
func (e *Engine) dropNegativeCacheEntries() {
	for index, value := range e.nodeReachableCache {
		if !value {
			delete(e.nodeReachableCache, index)
		}
	}
	for index, value := range e.isNodeSafeCache {
		if !value {
			delete(e.isNodeSafeCache, index)
		}
	}
	e.recordCacheInvalidation(policyDropNegative)
}

// clearNodeCaches forgets every entry of the node caches.
func (e *Engine) clearNodeCaches() {
	clear(e.nodeReachableCache)
	clear(e.isNodeSafeCache)
	e.recordCacheInvalidation(policyClear)
}
