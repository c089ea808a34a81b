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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/randoreach/pkg/telemetry"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// CandidateOutcome is what collecting one candidate leads to.
type CandidateOutcome struct {
	// Node is the candidate that was collected.
	Node world.ResourceNode

	// ForkID is the ID of the clone the candidate was evaluated on.
	ForkID string

	// Collected counts safe resources collected after the candidate.
	Collected int

	// Reachable and Safe count the reachable and safe nodes afterwards.
	Reachable int
	Safe      int

	// NewlyReachable lists node indices reachable afterwards that were not
	// reachable before, in discovery order.
	NewlyReachable []int

	// Victory reports whether the resulting state beats the game.
	Victory bool
}

// EvaluateCandidates tries each candidate on its own fork of the engine.
//
// Description:
//
//	For every candidate: clone the engine, ActOn the candidate, collect all
//	safe resources, and summarize the result. Forks run concurrently,
//	bounded by Config.Workers. The receiver is only read, and only before
//	any fork starts.
//
// Inputs:
//
//	ctx - Cancels evaluations that have not started yet.
//	candidates - Resource nodes to try. Each must be reachable.
//
// Outputs:
//
//	[]CandidateOutcome - One outcome per candidate, in candidate order.
//	error - ErrNodeNotReachable for a bad candidate, the context error on
//	cancellation, or the first evaluation error.
//
// Thread Safety: Not safe for concurrent use with e.
func (e *Engine) EvaluateCandidates(ctx context.Context, candidates []world.ResourceNode) ([]CandidateOutcome, error) {
	ctx, span := e.startSpan(ctx, "EvaluateCandidates",
		attribute.Int("reach.candidates", len(candidates)),
	)
	defer span.End()

	for _, c := range candidates {
		if !e.IsReachableNode(c) {
			err := fmt.Errorf("%w: %s", ErrNodeNotReachable, c.Name())
			telemetry.RecordError(span, err, attribute.Int("reach.node", c.NodeIndex()))
			return nil, err
		}
	}

	before := make(map[int]struct{})
	for node := range e.Nodes() {
		if e.IsReachableNode(node) {
			before[node.NodeIndex()] = struct{}{}
		}
	}
	e.calculateSafeNodes()

	forks := make([]*Engine, len(candidates))
	for i := range candidates {
		forks[i] = e.Clone()
	}

	outcomes := make([]CandidateOutcome, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i, candidate := range candidates {
		fork := forks[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := fork.evaluate(gctx, candidate, before)
			if err != nil {
				telemetry.LoggerWithTrace(gctx, fork.logger).Warn("candidate evaluation failed",
					slog.String("candidate", candidate.Name()),
					slog.String("error", err.Error()),
				)
				return fmt.Errorf("evaluating %s: %w", candidate.Name(), err)
			}
			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return outcomes, nil
}

// evaluate collects candidate on this engine and summarizes the result.
func (e *Engine) evaluate(ctx context.Context, candidate world.ResourceNode, before map[int]struct{}) (CandidateOutcome, error) {
	if err := e.ActOn(ctx, candidate); err != nil {
		return CandidateOutcome{}, err
	}
	collected, err := e.CollectAllSafeResources(ctx)
	if err != nil {
		return CandidateOutcome{}, err
	}

	outcome := CandidateOutcome{
		Node:      candidate,
		ForkID:    e.id,
		Collected: collected,
		Victory:   e.VictoryConditionSatisfied(),
	}
	for node := range e.Nodes() {
		if !e.IsReachableNode(node) {
			continue
		}
		outcome.Reachable++
		if e.IsSafeNode(node) {
			outcome.Safe++
		}
		if _, was := before[node.NodeIndex()]; !was {
			outcome.NewlyReachable = append(outcome.NewlyReachable, node.NodeIndex())
		}
	}
	return outcome, nil
}
