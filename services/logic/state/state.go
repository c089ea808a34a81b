// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package state provides the immutable player state that the reachability
// engine advances through.
//
// A State never changes after construction. Transitions return a new State
// whose PreviousState points back at the receiver, so the chain of states
// is shared history that any number of engines may hold safely.
package state

import (
	"maps"

	"github.com/AleutianAI/randoreach/services/logic/resources"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// State is a snapshot of what the player holds and where they stand.
type State struct {
	// Resources held. Must not be mutated.
	Resources *resources.ResourceCollection

	// Energy is the current energy.
	Energy int

	// Node is where the player stands.
	Node world.Node

	// PreviousState is the state this one was derived from, nil for the first.
	PreviousState *State

	// Database the resources belong to.
	Database *resources.ResourceDatabase

	// Pickups maps pickup index to the gain placed there.
	Pickups map[int]resources.ResourceGain
}

// NewInitialState creates the first state of a history.
//
// Inputs:
//
//	held - Starting resources. Copied; nil means none.
//	node - Starting node.
//	db - Resource database.
//	pickups - Pickup placement. Copied; nil means none.
//
// Outputs:
//
//	*State - A state at full energy with no previous state.
func NewInitialState(held *resources.ResourceCollection, node world.Node, db *resources.ResourceDatabase,
	pickups map[int]resources.ResourceGain) *State {
	var owned *resources.ResourceCollection
	if held == nil {
		owned = resources.NewResourceCollection()
	} else {
		owned = held.Duplicate()
	}
	s := &State{
		Resources: owned,
		Node:      node,
		Database:  db,
		Pickups:   maps.Clone(pickups),
	}
	s.Energy = s.MaximumEnergy()
	return s
}

// ActOnNode collects node and returns the resulting state.
//
// Description:
//
//	The new state holds the receiver's resources plus the node's gain,
//	stands on node, and points back at the receiver. Energy is refilled to
//	the new maximum when an energy tank was gained, otherwise it carries
//	over.
//
// Thread Safety: Safe; the receiver is not modified.
func (s *State) ActOnNode(node world.ResourceNode) *State {
	gain := node.ResourceGainOnCollect(s.NodeContext())

	next := s.Resources.Duplicate()
	next.AddGain(gain)

	energy := s.Energy
	if s.gainsEnergyTank(gain) {
		energy = s.Database.MaximumEnergy(next)
	}

	return &State{
		Resources:     next,
		Energy:        energy,
		Node:          node,
		PreviousState: s,
		Database:      s.Database,
		Pickups:       s.Pickups,
	}
}

func (s *State) gainsEnergyTank(gain resources.ResourceGain) bool {
	if s.Database == nil || s.Database.EnergyTank == nil {
		return false
	}
	for _, q := range gain {
		if q.Resource.Index == s.Database.EnergyTank.Index && q.Amount > 0 {
			return true
		}
	}
	return false
}

// NodeContext returns the view of this state that nodes consume.
func (s *State) NodeContext() *world.NodeContext {
	return &world.NodeContext{
		Resources: s.Resources,
		Database:  s.Database,
		Pickups:   s.Pickups,
	}
}

// MaximumEnergy returns the energy cap for the held resources.
func (s *State) MaximumEnergy() int {
	if s.Database == nil {
		return resources.DefaultBaseEnergy
	}
	return s.Database.MaximumEnergy(s.Resources)
}

// IsDescendantOf reports whether prev is the direct predecessor of s.
func (s *State) IsDescendantOf(prev *State) bool {
	return s != nil && s.PreviousState == prev
}

// Depth returns the number of transitions since the initial state.
func (s *State) Depth() int {
	depth := 0
	for cur := s.PreviousState; cur != nil; cur = cur.PreviousState {
		depth++
	}
	return depth
}

// String describes the state for logs.
func (s *State) String() string {
	name := "<nil>"
	if s.Node != nil {
		name = s.Node.Name()
	}
	return "At " + name + " with " + s.Resources.String()
}
