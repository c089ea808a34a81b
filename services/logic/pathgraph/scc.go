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
	"slices"

	"gonum.org/v1/gonum/graph/topo"
)

// StronglyConnectedComponents returns every strongly connected component.
//
// Description:
//
//	Runs gonum's Tarjan implementation over the graph in insertion order.
//	Components come out in reverse topological order; members of each
//	component are sorted ascending.
//
// Outputs:
//
//	[][]int - The components. Every node appears in exactly one.
//
// Thread Safety: Not safe for concurrent use with graph mutation.
func (g *Graph) StronglyConnectedComponents() [][]int {
	sccs := topo.TarjanSCC(directed{g})
	out := make([][]int, len(sccs))
	for i, scc := range sccs {
		members := make([]int, len(scc))
		for j, n := range scc {
			members[j] = int(n.ID())
		}
		slices.Sort(members)
		out[i] = members
	}
	return out
}

// ComponentOf returns the strongly connected component holding index, or
// nil when the node is not in the graph.
func (g *Graph) ComponentOf(index int) []int {
	if !g.Contains(index) {
		return nil
	}
	for _, scc := range g.StronglyConnectedComponents() {
		if _, found := slices.BinarySearch(scc, index); found {
			return scc
		}
	}
	return nil
}
