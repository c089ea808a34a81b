// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pathgraph provides the incrementally built directed graph that the
// reachability engine discovers the world into.
//
// Nodes are world node indices. Every edge carries the RequirementSet that
// was satisfied when it was discovered.
//
// # Ordering
//
// Nodes and successors keep insertion order, so every traversal (edges, SCC,
// shortest paths) is deterministic for a given sequence of insertions.
//
// # Algorithms
//
// Strongly connected components and shortest paths come from gonum
// (graph/topo and graph/path), run over a read-only graph.Directed view of
// the Graph.
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use. Clone it to hand a copy to another
// goroutine.
package pathgraph

import (
	"iter"
	"slices"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
)

type edgeKey struct {
	from, to int
}

// Edge is a directed edge and its stored requirement.
type Edge struct {
	From        int
	To          int
	Requirement requirement.RequirementSet
}

// Graph is a mutable directed graph over integer node indices.
type Graph struct {
	order   []int
	present map[int]struct{}
	succ    map[int][]int
	reqs    map[edgeKey]requirement.RequirementSet
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		present: make(map[int]struct{}),
		succ:    make(map[int][]int),
		reqs:    make(map[edgeKey]requirement.RequirementSet),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(index int) {
	if _, ok := g.present[index]; ok {
		return
	}
	g.present[index] = struct{}{}
	g.order = append(g.order, index)
}

// AddEdge adds the edge from -> to, adding both nodes as needed.
//
// If the edge already exists the call is a no-op: the stored requirement is
// never overwritten.
func (g *Graph) AddEdge(from, to int, req requirement.RequirementSet) {
	key := edgeKey{from, to}
	if _, ok := g.reqs[key]; ok {
		return
	}
	g.AddNode(from)
	g.AddNode(to)
	g.reqs[key] = req
	g.succ[from] = append(g.succ[from], to)
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.reqs[edgeKey{from, to}]
	return ok
}

// RemoveEdge removes the edge from -> to. Both nodes stay. Removing a
// missing edge is a no-op.
func (g *Graph) RemoveEdge(from, to int) {
	key := edgeKey{from, to}
	if _, ok := g.reqs[key]; !ok {
		return
	}
	delete(g.reqs, key)
	if i := slices.Index(g.succ[from], to); i >= 0 {
		g.succ[from] = slices.Delete(g.succ[from], i, i+1)
	}
}

// Contains reports whether the node is in the graph.
func (g *Graph) Contains(index int) bool {
	_, ok := g.present[index]
	return ok
}

// EdgeRequirement returns the requirement stored on from -> to.
func (g *Graph) EdgeRequirement(from, to int) (requirement.RequirementSet, bool) {
	req, ok := g.reqs[edgeKey{from, to}]
	return req, ok
}

// Successors returns the targets of edges out of index, in insertion order.
// The returned slice must not be modified.
func (g *Graph) Successors(index int) []int {
	return g.succ[index]
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() iter.Seq[int] {
	return slices.Values(g.order)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.reqs)
}

// Edges returns a snapshot of every edge, ordered by source insertion and
// then successor insertion. The graph may be mutated while iterating it.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.reqs))
	for _, from := range g.order {
		for _, to := range g.succ[from] {
			out = append(out, Edge{From: from, To: to, Requirement: g.reqs[edgeKey{from, to}]})
		}
	}
	return out
}

// Clone returns a deep structural copy. Requirement sets are immutable and
// shared.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		order:   slices.Clone(g.order),
		present: make(map[int]struct{}, len(g.present)),
		succ:    make(map[int][]int, len(g.succ)),
		reqs:    make(map[edgeKey]requirement.RequirementSet, len(g.reqs)),
	}
	for k := range g.present {
		clone.present[k] = struct{}{}
	}
	for k, v := range g.succ {
		clone.succ[k] = slices.Clone(v)
	}
	for k, v := range g.reqs {
		clone.reqs[k] = v
	}
	return clone
}
