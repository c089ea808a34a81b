// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package world provides the static game world consumed by the reachability
// engine: nodes, the connections between them, and the game description that
// ties nodes to a resource database and a victory condition.
//
// # Ownership Model
//
// Nodes and the RegionList are immutable once EnsureHasNodeCache has been
// called. The engine holds references to nodes, never copies, and never
// mutates them.
//
// # Thread Safety
//
// After EnsureHasNodeCache returns, every read method is safe for concurrent
// use. AddConnection is not, and must only be called while building.
package world

import "errors"

// Sentinel errors for world construction and lookup.
var (
	// ErrNodeIndexMismatch is returned when a node's index differs from its
	// position in the region list.
	ErrNodeIndexMismatch = errors.New("node index does not match position")

	// ErrUnknownNode is returned when a lookup or connection names a node
	// that is not part of the region list.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNodeName is returned when two nodes share a name.
	ErrDuplicateNodeName = errors.New("duplicate node name")
)
