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

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/randoreach/services/logic/world"
)

func TestEvaluateCandidates(t *testing.T) {
	w, game := ladderWorld(t)
	e := newEngine(t, game)
	pick1 := w.node("Pick1").(world.ResourceNode)
	pit := w.node("Pit").(world.ResourceNode)
	before := e.Stats()

	outcomes, err := e.EvaluateCandidates(context.Background(), []world.ResourceNode{pick1, pit})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	t.Run("results follow candidate order", func(t *testing.T) {
		assert.Equal(t, "Pick1", outcomes[0].Node.Name())
		assert.Equal(t, "Pit", outcomes[1].Node.Name())
		assert.NotEqual(t, outcomes[0].ForkID, outcomes[1].ForkID)
		assert.NotEqual(t, e.ID(), outcomes[0].ForkID)
	})

	t.Run("plain pickup", func(t *testing.T) {
		o := outcomes[0]
		assert.Equal(t, 2, o.Collected)
		assert.Equal(t, 9, o.Reachable)
		assert.Equal(t, 8, o.Safe)
		assert.Equal(t, []int{3, 4, 5, 6}, o.NewlyReachable)
		assert.True(t, o.Victory)
	})

	t.Run("dangerous pickup loses the ledge", func(t *testing.T) {
		o := outcomes[1]
		assert.Equal(t, 3, o.Collected)
		assert.Equal(t, 8, o.Reachable)
		assert.Equal(t, 8, o.Safe)
		assert.Equal(t, []int{3, 4, 5, 6}, o.NewlyReachable)
		assert.True(t, o.Victory)
	})

	t.Run("parent engine untouched", func(t *testing.T) {
		assert.Equal(t, before, e.Stats())
		assert.Equal(t, "Start", e.State().Node.Name())
		assert.False(t, e.VictoryConditionSatisfied())
	})
}

func TestEvaluateCandidates_UnreachableCandidate(t *testing.T) {
	w, game := ladderWorld(t)
	e := newEngine(t, game)
	pick2 := w.node("Pick2").(world.ResourceNode)

	outcomes, err := e.EvaluateCandidates(context.Background(), []world.ResourceNode{pick2})

	assert.ErrorIs(t, err, ErrNodeNotReachable)
	assert.Nil(t, outcomes)
}

func TestEvaluateCandidates_Cancelled(t *testing.T) {
	w, game := ladderWorld(t)
	e := newEngine(t, game)
	pick1 := w.node("Pick1").(world.ResourceNode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EvaluateCandidates(ctx, []world.ResourceNode{pick1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateCandidates_Empty(t *testing.T) {
	_, game := ladderWorld(t)
	e := newEngine(t, game)

	outcomes, err := e.EvaluateCandidates(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestEvaluateCandidates_SingleWorker(t *testing.T) {
	w, game := ladderWorld(t)
	config := testConfig()
	config.Workers = 1
	e := newEngine(t, game, WithConfig(config))
	pick1 := w.node("Pick1").(world.ResourceNode)
	pit := w.node("Pit").(world.ResourceNode)

	outcomes, err := e.EvaluateCandidates(context.Background(), []world.ResourceNode{pit, pick1, pit})

	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, outcomes[0].Collected, outcomes[2].Collected)
	assert.Equal(t, outcomes[0].NewlyReachable, outcomes[2].NewlyReachable)
	assert.Equal(t, "Pick1", outcomes[1].Node.Name())
}
