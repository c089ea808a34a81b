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

import "errors"

// Sentinel errors for reach operations.
var (
	// ErrStateNotDescendant is returned by AdvanceTo when the new state's
	// previous state is not the engine's current state. The engine is left
	// untouched.
	ErrStateNotDescendant = errors.New("state is not a direct descendant of the current state")

	// ErrCurrentNodeNotInGraph is the panic value (wrapped) when safety
	// analysis finds no strongly connected component holding the current
	// node. It means the engine was driven into a node it never discovered.
	ErrCurrentNodeNotInGraph = errors.New("current node is not in the path graph")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid reach config")

	// ErrNilArgument is returned when a required game or state is nil.
	ErrNilArgument = errors.New("nil argument")

	// ErrNodeNotReachable is returned when a candidate to evaluate is not
	// currently reachable.
	ErrNodeNotReachable = errors.New("node is not reachable")
)
