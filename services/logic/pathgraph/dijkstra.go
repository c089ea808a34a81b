// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pathgraph

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
)

// virtualSource is the node every search starts from. It has a zero-cost
// edge to each real source and never appears in results.
const virtualSource int64 = -1

// WeightFunc returns the non-negative cost of traversing from -> to.
type WeightFunc func(from, to int, req requirement.RequirementSet) int

// ShortestPaths is the result of a multi-source search.
type ShortestPaths struct {
	// Costs maps every reached node to its minimum cost from any source.
	Costs map[int]int

	tree path.Shortest
}

// Cost returns the cost to reach index and whether it was reached.
func (s *ShortestPaths) Cost(index int) (int, bool) {
	c, ok := s.Costs[index]
	return c, ok
}

// Path returns one cheapest path to index, source first, or nil when the
// node was not reached.
func (s *ShortestPaths) Path(index int) []int {
	if _, ok := s.Costs[index]; !ok {
		return nil
	}
	nodes, _ := s.tree.To(int64(index))
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if n.ID() != virtualSource {
			out = append(out, int(n.ID()))
		}
	}
	return out
}

// sourced adds the virtual source to a graph and weighs edges with a
// WeightFunc.
type sourced struct {
	directed
	sources []int
	weight  WeightFunc
}

func (s sourced) Node(id int64) graph.Node {
	if id == virtualSource {
		return simple.Node(id)
	}
	return s.directed.Node(id)
}

func (s sourced) Nodes() graph.Nodes {
	return orderedNodes(append([]int{int(virtualSource)}, s.g.order...))
}

func (s sourced) From(id int64) graph.Nodes {
	if id == virtualSource {
		return orderedNodes(s.sources)
	}
	return s.directed.From(id)
}

func (s sourced) Edge(uid, vid int64) graph.Edge {
	if uid == virtualSource && slices.Contains(s.sources, int(vid)) {
		return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
	}
	return s.directed.Edge(uid, vid)
}

// Weight implements path.Weighted.
func (s sourced) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	if xid == virtualSource {
		return 0, slices.Contains(s.sources, int(yid))
	}
	req, ok := s.g.EdgeRequirement(int(xid), int(yid))
	if !ok {
		return math.Inf(1), false
	}
	return float64(s.weight(int(xid), int(yid), req)), true
}

// MultiSourceDijkstra computes the cheapest cost from any of sources to
// every reachable node.
//
// Description:
//
//	Runs gonum's Dijkstra from a virtual node linked to every source at
//	cost 0. Sources not in the graph are ignored.
//
// Inputs:
//
//	sources - Starting node indices.
//	weight - Edge cost. Must not return negative values.
//
// Outputs:
//
//	*ShortestPaths - Costs and predecessor links for every reached node.
func (g *Graph) MultiSourceDijkstra(sources []int, weight WeightFunc) *ShortestPaths {
	var present []int
	for _, s := range sources {
		if g.Contains(s) && !slices.Contains(present, s) {
			present = append(present, s)
		}
	}

	view := sourced{directed: directed{g}, sources: present, weight: weight}
	tree := path.DijkstraFrom(simple.Node(virtualSource), view)

	costs := make(map[int]int)
	for _, index := range g.order {
		if cost := tree.WeightTo(int64(index)); !math.IsInf(cost, 1) {
			costs[index] = int(cost)
		}
	}
	return &ShortestPaths{Costs: costs, tree: tree}
}
