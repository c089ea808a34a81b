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

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/randoreach/pkg/logging"
	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/resources"
	"github.com/AleutianAI/randoreach/services/logic/state"
	"github.com/AleutianAI/randoreach/services/logic/world"
)

// testWorld collects nodes and resources while a test game is built.
type testWorld struct {
	t         *testing.T
	nodes     []world.Node
	byName    map[string]world.Node
	resources []*resources.ResourceInfo
	regions   *world.RegionList
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	return &testWorld{t: t, byName: make(map[string]world.Node)}
}

func (w *testWorld) resource(name string, kind resources.ResourceType) *resources.ResourceInfo {
	r := &resources.ResourceInfo{Index: len(w.resources), Type: kind, ShortName: name}
	w.resources = append(w.resources, r)
	return r
}

func (w *testWorld) item(name string) *resources.ResourceInfo {
	return w.resource(name, resources.ResourceTypeItem)
}

func (w *testWorld) add(n world.Node) world.Node {
	w.nodes = append(w.nodes, n)
	w.byName[n.Name()] = n
	return n
}

func (w *testWorld) generic(name string) world.Node {
	return w.add(world.NewGenericNode(len(w.nodes), name))
}

// pickup adds a pickup node granting one unit of each of gains.
func (w *testWorld) pickup(name string, gains ...*resources.ResourceInfo) world.ResourceNode {
	identifier := w.resource("id:"+name, resources.ResourceTypeNodeIdentifier)
	var gain resources.ResourceGain
	for _, r := range gains {
		gain = append(gain, resources.ResourceQuantity{Resource: r, Amount: 1})
	}
	n := world.NewPickupNode(len(w.nodes), name, identifier, len(w.nodes), gain)
	w.add(n)
	return n
}

func (w *testWorld) event(name string) world.ResourceNode {
	ev := w.resource(name, resources.ResourceTypeEvent)
	n := world.NewEventNode(len(w.nodes), name, ev)
	w.add(n)
	return n
}

func (w *testWorld) regionList() *world.RegionList {
	if w.regions == nil {
		w.regions = world.NewRegionList(w.nodes...)
	}
	return w.regions
}

// edge adds a one-way connection. A nil requirement is trivial.
func (w *testWorld) edge(from, to world.Node, req requirement.Requirement) {
	w.regionList().AddConnection(from.NodeIndex(), to.NodeIndex(), req)
}

// link adds trivial connections both ways.
func (w *testWorld) link(a, b world.Node) {
	w.regionList().Connect(a.NodeIndex(), b.NodeIndex(), nil)
}

func (w *testWorld) game(victory requirement.Requirement, opts ...world.GameOption) *world.GameDescription {
	w.t.Helper()
	db, err := resources.NewResourceDatabase(w.resources)
	require.NoError(w.t, err)
	game, err := world.NewGameDescription(w.regionList(), db, victory, opts...)
	require.NoError(w.t, err)
	return game
}

func (w *testWorld) node(name string) world.Node {
	w.t.Helper()
	n, ok := w.byName[name]
	require.True(w.t, ok, "unknown node %s", name)
	return n
}

func testConfig() Config {
	config := DefaultConfig()
	config.Workers = 2
	return config
}

func quietLogger() Option {
	return WithLogger(logging.New(logging.Config{Quiet: true}).Slog())
}

func initialState(game *world.GameDescription) *state.State {
	return state.NewInitialState(nil, game.StartNode(), game.ResourceDatabase, nil)
}

// newEngine builds an engine from the game's starting node with no
// resources.
func newEngine(t *testing.T, game *world.GameDescription, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithConfig(testConfig()), quietLogger()}, opts...)
	e, err := ReachFromState(context.Background(), game, initialState(game), opts...)
	require.NoError(t, err)
	return e
}

func nodeNames(seq func(func(world.Node) bool)) []string {
	var names []string
	for n := range seq {
		names = append(names, n.Name())
	}
	return names
}

func hasEdge(e *Engine, from, to world.Node) bool {
	return e.graph.HasEdge(from.NodeIndex(), to.NodeIndex())
}

// recoverError runs fn and returns the error it panicked with, if any.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

// -----------------------------------------------------------------------------
// Worlds
// -----------------------------------------------------------------------------

// chainWorld is A -> B -> C where B is a pickup granting R and B -> C
// requires R.
func chainWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	r := w.item("R")
	a := w.generic("A")
	b := w.pickup("B", r)
	c := w.generic("C")
	w.edge(a, b, nil)
	w.edge(b, c, requirement.Simple(r))
	return w, w.game(nil)
}

// cycleWorld is A <-> B <-> P with A -> C requiring R. P grants R, which is
// dangerous, so leaving P requires having collected it.
func cycleWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	r := w.item("R")
	a := w.generic("A")
	b := w.generic("B")
	c := w.generic("C")
	p := w.pickup("P", r)
	w.link(a, b)
	w.link(b, p)
	w.edge(a, c, requirement.Simple(r))
	return w, w.game(nil, world.WithDangerousResources(r))
}

// dangerWorld is A <-> D, D -> E while R is not held, E -> D, and A <-> Q
// where Q grants R.
func dangerWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	r := w.item("R")
	a := w.generic("A")
	d := w.generic("D")
	e := w.generic("E")
	q := w.pickup("Q", r)
	w.link(a, d)
	w.edge(d, e, requirement.Not(r))
	w.edge(e, d, nil)
	w.link(a, q)
	return w, w.game(nil)
}

// stackWorld is A <-> P1 (M), A <-> P2 (M), P1 -> B [M], B -> X [M ≥ 2].
func stackWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	m := w.item("M")
	a := w.generic("A")
	p1 := w.pickup("P1", m)
	p2 := w.pickup("P2", m)
	b := w.generic("B")
	x := w.generic("X")
	w.link(a, p1)
	w.link(a, p2)
	w.edge(p1, b, requirement.Simple(m))
	w.edge(b, x, requirement.Quantity(m, 2))
	return w, w.game(nil)
}

// loopWorld is A -> P -> Q -> A with A -> N, where P and Q are pickups.
// Once P is collected, getting back to A from P means collecting Q first.
func loopWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	key := w.item("Key")
	gem := w.item("Gem")
	a := w.generic("A")
	p := w.pickup("P", key)
	q := w.pickup("Q", gem)
	n := w.generic("N")
	w.edge(a, p, nil)
	w.edge(p, q, nil)
	w.edge(q, a, nil)
	w.edge(a, n, nil)
	return w, w.game(nil)
}

// ladderWorld is a small progression:
//
//	Start <-> Hall <-> Pick1 (Missile)
//	Hall -> Door [Missile], Door -> Hall, Door <-> Pick2 (Bombs)
//	Door -> Vault [Bombs], Vault -> Door, Vault <-> Boss (event)
//	Hall <-> Pit (Flood, dangerous), Hall -> Ledge [no Flood], Ledge -> Hall
//
// Victory requires the Boss event.
func ladderWorld(t *testing.T) (*testWorld, *world.GameDescription) {
	w := newTestWorld(t)
	missile := w.item("Missile")
	bombs := w.item("Bombs")
	flood := w.item("Flood")

	start := w.generic("Start")
	hall := w.generic("Hall")
	pick1 := w.pickup("Pick1", missile)
	door := w.generic("Door")
	pick2 := w.pickup("Pick2", bombs)
	vault := w.generic("Vault")
	boss := w.event("Boss")
	pit := w.pickup("Pit", flood)
	ledge := w.generic("Ledge")

	w.link(start, hall)
	w.link(hall, pick1)
	w.edge(hall, door, requirement.Simple(missile))
	w.edge(door, hall, nil)
	w.link(door, pick2)
	w.edge(door, vault, requirement.Simple(bombs))
	w.edge(vault, door, nil)
	w.link(vault, boss)
	w.link(hall, pit)
	w.edge(hall, ledge, requirement.Not(flood))
	w.edge(ledge, hall, nil)

	bossEvent := boss.Resource(nil)
	return w, w.game(requirement.Simple(bossEvent))
}
