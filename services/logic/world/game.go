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
	"slices"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/resources"
)

// GameDescription is the static description of one game: its world, its
// resources and what it takes to win.
type GameDescription struct {
	RegionList       *RegionList
	ResourceDatabase *resources.ResourceDatabase
	VictoryCondition requirement.Requirement
	StartingNode     int

	dangerous []*resources.ResourceInfo
	isDanger  map[int]struct{}
}

// GameOption configures a GameDescription.
type GameOption func(*gameOptions)

type gameOptions struct {
	startingNode int
	dangerous    []*resources.ResourceInfo
	overridden   bool
}

// WithStartingNode sets the node index play starts at. Defaults to 0.
func WithStartingNode(index int) GameOption {
	return func(o *gameOptions) {
		o.startingNode = index
	}
}

// WithDangerousResources replaces the computed dangerous resources.
func WithDangerousResources(rs ...*resources.ResourceInfo) GameOption {
	return func(o *gameOptions) {
		o.dangerous = rs
		o.overridden = true
	}
}

// NewGameDescription validates the region list and builds a game.
//
// Description:
//
//	Unless overridden, the dangerous resources are every resource that some
//	connection or leave requirement requires NOT to hold: gaining one can
//	turn a previously legal traversal illegal.
//
// Inputs:
//
//	regions - The world. EnsureHasNodeCache is called on it.
//	db - The resource database.
//	victory - Requirement to beat the game. Nil means impossible.
//	opts - Optional starting node and dangerous resource override.
//
// Outputs:
//
//	*GameDescription - The game.
//	error - Any EnsureHasNodeCache error, or ErrUnknownNode for a bad
//	starting node.
func NewGameDescription(regions *RegionList, db *resources.ResourceDatabase, victory requirement.Requirement,
	opts ...GameOption) (*GameDescription, error) {
	options := gameOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if err := regions.EnsureHasNodeCache(); err != nil {
		return nil, fmt.Errorf("building game: %w", err)
	}
	if options.startingNode < 0 || options.startingNode >= regions.Len() {
		return nil, fmt.Errorf("%w: starting node %d", ErrUnknownNode, options.startingNode)
	}
	if victory == nil {
		victory = requirement.Impossible()
	}

	dangerous := options.dangerous
	if !options.overridden {
		dangerous = findDangerousResources(regions)
	}

	g := &GameDescription{
		RegionList:       regions,
		ResourceDatabase: db,
		VictoryCondition: victory,
		StartingNode:     options.startingNode,
		isDanger:         make(map[int]struct{}, len(dangerous)),
	}
	for _, r := range dangerous {
		if _, seen := g.isDanger[r.Index]; seen {
			continue
		}
		g.isDanger[r.Index] = struct{}{}
		g.dangerous = append(g.dangerous, r)
	}
	slices.SortFunc(g.dangerous, func(a, b *resources.ResourceInfo) int {
		return a.Index - b.Index
	})
	return g, nil
}

func findDangerousResources(regions *RegionList) []*resources.ResourceInfo {
	var found []*resources.ResourceInfo
	collect := func(req requirement.Requirement) {
		requirement.Walk(req, func(r requirement.ResourceRequirement) {
			if r.Negate {
				found = append(found, r.Resource)
			}
		})
	}
	ctx := &NodeContext{Resources: resources.NewResourceCollection()}
	for _, n := range regions.AllNodes() {
		collect(n.RequirementToLeave(ctx))
		for _, c := range regions.Connections(n.NodeIndex()) {
			collect(c.Requirement)
		}
	}
	return found
}

// DangerousResources returns the dangerous resources ordered by index.
func (g *GameDescription) DangerousResources() []*resources.ResourceInfo {
	return g.dangerous
}

// IsDangerous reports whether r is a dangerous resource.
func (g *GameDescription) IsDangerous(r *resources.ResourceInfo) bool {
	_, ok := g.isDanger[r.Index]
	return ok
}

// StartNode returns the starting node.
func (g *GameDescription) StartNode() Node {
	return g.RegionList.NodeByIndex(g.StartingNode)
}
