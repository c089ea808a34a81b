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
	"errors"
	"testing"

	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	missile = &resources.ResourceInfo{Index: 1, Type: resources.ResourceTypeItem, ShortName: "Missile"}
	flooded = &resources.ResourceInfo{Index: 2, Type: resources.ResourceTypeEvent, ShortName: "Flooded"}
	pickup0 = &resources.ResourceInfo{Index: 3, Type: resources.ResourceTypeNodeIdentifier, ShortName: "Pickup0"}
	bombs   = &resources.ResourceInfo{Index: 4, Type: resources.ResourceTypeItem, ShortName: "Bombs"}
)

func newContext(gain ...resources.ResourceQuantity) *NodeContext {
	return &NodeContext{Resources: resources.CollectionFromGain(gain)}
}

// buildRegions creates Start <-> Room -> Boss, with Boss gated by Missile
// and Room -> nowhere.
func buildRegions() *RegionList {
	regions := NewRegionList(
		NewGenericNode(0, "Start"),
		NewPickupNode(1, "Room", pickup0, 0, resources.ResourceGain{{Resource: missile, Amount: 1}}),
		NewEventNode(2, "Boss", flooded),
	)
	regions.Connect(0, 1, nil)
	regions.AddConnection(1, 2, requirement.Simple(missile))
	regions.AddConnection(1, NoDestination, nil)
	return regions
}

func TestRegionList_EnsureHasNodeCache(t *testing.T) {
	regions := buildRegions()

	require.NoError(t, regions.EnsureHasNodeCache())
	node, err := regions.NodeByName("Boss")
	require.NoError(t, err)
	assert.Equal(t, 2, node.NodeIndex())

	_, err = regions.NodeByName("Nowhere")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestRegionList_EnsureHasNodeCacheErrors(t *testing.T) {
	tests := []struct {
		name    string
		regions func() *RegionList
		want    error
	}{
		{
			name: "index mismatch",
			regions: func() *RegionList {
				return NewRegionList(NewGenericNode(1, "A"))
			},
			want: ErrNodeIndexMismatch,
		},
		{
			name: "duplicate name",
			regions: func() *RegionList {
				return NewRegionList(NewGenericNode(0, "A"), NewGenericNode(1, "A"))
			},
			want: ErrDuplicateNodeName,
		},
		{
			name: "dangling connection",
			regions: func() *RegionList {
				r := NewRegionList(NewGenericNode(0, "A"))
				r.AddConnection(0, 5, nil)
				return r
			},
			want: ErrUnknownNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.regions().EnsureHasNodeCache()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegionList_PotentialNodesFrom(t *testing.T) {
	regions := buildRegions()
	require.NoError(t, regions.EnsureHasNodeCache())

	var targets []Node
	var reqs []string
	for target, req := range regions.PotentialNodesFrom(regions.NodeByIndex(1), newContext()) {
		targets = append(targets, target)
		reqs = append(reqs, req.String())
	}

	require.Len(t, targets, 3)
	assert.Equal(t, "Start", targets[0].Name())
	assert.Equal(t, "Boss", targets[1].Name())
	assert.Nil(t, targets[2], "NoDestination yields a nil node")
	assert.Equal(t, []string{"Trivial", "Missile", "Trivial"}, reqs)
}

func TestPickupNode_GainAndCollection(t *testing.T) {
	node := NewPickupNode(1, "Room", pickup0, 7, resources.ResourceGain{{Resource: missile, Amount: 1}})

	ctx := newContext()
	assert.Equal(t, "Pickup0 x1, Missile x1", node.ResourceGainOnCollect(ctx).String())
	assert.False(t, node.IsCollected(ctx))
	assert.True(t, node.CanCollect(ctx))

	ctx.Pickups = map[int]resources.ResourceGain{7: {{Resource: bombs, Amount: 2}}}
	assert.Equal(t, "Pickup0 x1, Bombs x2", node.ResourceGainOnCollect(ctx).String(),
		"placed pickup replaces the default gain")

	collected := newContext(resources.ResourceQuantity{Resource: pickup0, Amount: 1})
	assert.True(t, node.IsCollected(collected))
	assert.False(t, node.CanCollect(collected))
}

func TestEventNode_GainAndCollection(t *testing.T) {
	node := NewEventNode(2, "Boss", flooded)

	assert.Equal(t, "Flooded x1", node.ResourceGainOnCollect(newContext()).String())
	assert.Same(t, flooded, node.Resource(newContext()))
	assert.True(t, node.IsCollected(newContext(resources.ResourceQuantity{Resource: flooded, Amount: 1})))
}

func TestAsResourceNode(t *testing.T) {
	generic := NewGenericNode(0, "Start")
	event := NewEventNode(1, "Boss", flooded)

	_, ok := AsResourceNode(generic)
	assert.False(t, ok)
	rn, ok := AsResourceNode(event)
	require.True(t, ok)
	assert.Equal(t, 1, rn.NodeIndex())

	assert.True(t, IsUncollectedResourceNode(event, newContext()))
	assert.False(t, IsUncollectedResourceNode(generic, newContext()))
	_, ok = AsResourceNode(nil)
	assert.False(t, ok)
}

func TestNode_LeaveRequirement(t *testing.T) {
	plain := NewGenericNode(0, "A")
	gated := NewGenericNode(1, "B", WithLeaveRequirement(requirement.Simple(bombs)))

	assert.True(t, requirement.IsTrivial(plain.RequirementToLeave(newContext())))
	assert.Equal(t, "Bombs", gated.RequirementToLeave(newContext()).String())
}

func TestNewGameDescription_DangerousResources(t *testing.T) {
	regions := NewRegionList(
		NewGenericNode(0, "A"),
		NewGenericNode(1, "B", WithLeaveRequirement(requirement.Not(bombs))),
	)
	regions.AddConnection(0, 1, requirement.Or(requirement.Not(flooded), requirement.Simple(missile)))
	db, err := resources.NewResourceDatabase([]*resources.ResourceInfo{missile, flooded, bombs})
	require.NoError(t, err)

	game, err := NewGameDescription(regions, db, nil)
	require.NoError(t, err)

	dangerous := game.DangerousResources()
	require.Len(t, dangerous, 2)
	assert.Same(t, flooded, dangerous[0])
	assert.Same(t, bombs, dangerous[1])
	assert.True(t, game.IsDangerous(flooded))
	assert.False(t, game.IsDangerous(missile))
	assert.True(t, requirement.IsImpossible(game.VictoryCondition))
	assert.Equal(t, "A", game.StartNode().Name())
}

func TestNewGameDescription_Options(t *testing.T) {
	regions := buildRegions()
	db, err := resources.NewResourceDatabase([]*resources.ResourceInfo{missile, flooded, pickup0, bombs})
	require.NoError(t, err)

	game, err := NewGameDescription(regions, db, requirement.Simple(flooded),
		WithStartingNode(1), WithDangerousResources(missile, missile))
	require.NoError(t, err)

	assert.Equal(t, "Room", game.StartNode().Name())
	assert.Len(t, game.DangerousResources(), 1)
	assert.True(t, game.IsDangerous(missile))

	_, err = NewGameDescription(regions, db, nil, WithStartingNode(9))
	assert.ErrorIs(t, err, ErrUnknownNode)
}
