// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package world

import (
	"fmt"
	"iter"
	"sync"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
)

// NoDestination marks a connection that leads nowhere. PotentialNodesFrom
// yields a nil node for it.
const NoDestination = -1

// Connection is a one-way link out of a node.
type Connection struct {
	// To is the target node index, or NoDestination.
	To int

	// Requirement guards the traversal.
	Requirement requirement.Requirement
}

// RegionList is the full set of nodes of a game and their connections.
//
// Node indices are positions: AllNodes()[i].NodeIndex() == i.
type RegionList struct {
	nodes       []Node
	connections map[int][]Connection

	cacheOnce sync.Once
	cacheErr  error
	byName    map[string]Node
}

// NewRegionList creates a region list over nodes, in index order.
func NewRegionList(nodes ...Node) *RegionList {
	return &RegionList{
		nodes:       nodes,
		connections: make(map[int][]Connection),
	}
}

// AddConnection adds a one-way connection from one node index to another.
// A nil requirement is trivial. Connections keep insertion order.
func (r *RegionList) AddConnection(from, to int, req requirement.Requirement) {
	if req == nil {
		req = requirement.Trivial()
	}
	r.connections[from] = append(r.connections[from], Connection{To: to, Requirement: req})
}

// Connect adds connections in both directions with the same requirement.
func (r *RegionList) Connect(a, b int, req requirement.Requirement) {
	r.AddConnection(a, b, req)
	r.AddConnection(b, a, req)
}

// EnsureHasNodeCache validates the list and builds its lookup caches.
//
// Description:
//
//	Runs once; later calls return the first result. Must be called before
//	the list is shared between goroutines.
//
// Errors:
//
//	ErrNodeIndexMismatch - a node's index differs from its position.
//	ErrDuplicateNodeName - two nodes share a name.
//	ErrUnknownNode - a connection references a node outside the list.
func (r *RegionList) EnsureHasNodeCache() error {
	r.cacheOnce.Do(func() {
		r.cacheErr = r.buildCache()
	})
	return r.cacheErr
}

func (r *RegionList) buildCache() error {
	byName := make(map[string]Node, len(r.nodes))
	for i, n := range r.nodes {
		if n.NodeIndex() != i {
			return fmt.Errorf("%w: %q has index %d at position %d", ErrNodeIndexMismatch, n.Name(), n.NodeIndex(), i)
		}
		if _, exists := byName[n.Name()]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateNodeName, n.Name())
		}
		byName[n.Name()] = n
	}
	for from, conns := range r.connections {
		if from < 0 || from >= len(r.nodes) {
			return fmt.Errorf("%w: connection source %d", ErrUnknownNode, from)
		}
		for _, c := range conns {
			if c.To != NoDestination && (c.To < 0 || c.To >= len(r.nodes)) {
				return fmt.Errorf("%w: connection %d -> %d", ErrUnknownNode, from, c.To)
			}
		}
	}
	r.byName = byName
	return nil
}

// PotentialNodesFrom yields every connection out of node, with the target
// node (nil for NoDestination) and the raw requirement.
func (r *RegionList) PotentialNodesFrom(node Node, _ *NodeContext) iter.Seq2[Node, requirement.Requirement] {
	return func(yield func(Node, requirement.Requirement) bool) {
		for _, c := range r.connections[node.NodeIndex()] {
			var target Node
			if c.To != NoDestination {
				target = r.nodes[c.To]
			}
			if !yield(target, c.Requirement) {
				return
			}
		}
	}
}

// Connections returns the raw connections out of a node index.
func (r *RegionList) Connections(from int) []Connection {
	return r.connections[from]
}

// AllNodes returns every node in index order.
func (r *RegionList) AllNodes() []Node {
	return r.nodes
}

// NodeByIndex returns the node at index. The index must be valid.
func (r *RegionList) NodeByIndex(index int) Node {
	return r.nodes[index]
}

// NodeByName returns the node with the given name.
func (r *RegionList) NodeByName(name string) (Node, error) {
	if err := r.EnsureHasNodeCache(); err != nil {
		return nil, err
	}
	n, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return n, nil
}

// Len returns the number of nodes.
func (r *RegionList) Len() int {
	return len(r.nodes)
}
