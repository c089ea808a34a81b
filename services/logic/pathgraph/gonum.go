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
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// directed exposes a Graph as a gonum graph.Directed.
//
// Node and successor iteration follow insertion order, so gonum's
// traversals visit the graph the same way on every run.
type directed struct {
	g *Graph
}

var _ graph.Directed = directed{}

func (d directed) Node(id int64) graph.Node {
	if !d.g.Contains(int(id)) {
		return nil
	}
	return simple.Node(id)
}

func (d directed) Nodes() graph.Nodes {
	return orderedNodes(d.g.order)
}

func (d directed) From(id int64) graph.Nodes {
	return orderedNodes(d.g.succ[int(id)])
}

// To scans every edge; gonum's SCC and shortest path searches never call it.
func (d directed) To(id int64) graph.Nodes {
	var preds []int
	for _, from := range d.g.order {
		if d.g.HasEdge(from, int(id)) {
			preds = append(preds, from)
		}
	}
	return orderedNodes(preds)
}

func (d directed) HasEdgeBetween(xid, yid int64) bool {
	return d.HasEdgeFromTo(xid, yid) || d.HasEdgeFromTo(yid, xid)
}

func (d directed) HasEdgeFromTo(uid, vid int64) bool {
	return d.g.HasEdge(int(uid), int(vid))
}

func (d directed) Edge(uid, vid int64) graph.Edge {
	if !d.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}

func orderedNodes(indices []int) graph.Nodes {
	if len(indices) == 0 {
		return graph.Empty
	}
	nodes := make([]graph.Node, len(indices))
	for i, index := range indices {
		nodes[i] = simple.Node(index)
	}
	return iterator.NewOrderedNodes(nodes)
}
