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
	"github.com/AleutianAI/randoreach/services/logic/requirement"
	"github.com/AleutianAI/randoreach/services/logic/resources"
)

// NodeContext is the view of a state that nodes need to answer questions
// about themselves.
type NodeContext struct {
	// Resources currently held.
	Resources *resources.ResourceCollection

	// Database the resources belong to.
	Database *resources.ResourceDatabase

	// Pickups maps a pickup index to the gain placed there. Indices with no
	// entry fall back to the node's default gain.
	Pickups map[int]resources.ResourceGain
}

// Node is a location in the world graph.
type Node interface {
	// NodeIndex is the stable position of the node in its RegionList.
	NodeIndex() int

	// Name is the unique human-readable name.
	Name() string

	// IsResourceNode reports whether the node implements ResourceNode.
	IsResourceNode() bool

	// RequirementToLeave must hold in addition to a connection's own
	// requirement to traverse any connection out of the node.
	RequirementToLeave(ctx *NodeContext) requirement.Requirement
}

// ResourceNode is a node that grants resources when collected.
type ResourceNode interface {
	Node

	// Resource is the resource that marks this node as collected.
	Resource(ctx *NodeContext) *resources.ResourceInfo

	// ResourceGainOnCollect is everything gained by collecting the node.
	ResourceGainOnCollect(ctx *NodeContext) resources.ResourceGain

	// IsCollected reports whether the node has already been collected.
	IsCollected(ctx *NodeContext) bool

	// CanCollect reports whether collecting now would gain anything.
	CanCollect(ctx *NodeContext) bool
}

// AsResourceNode returns n as a ResourceNode when it is one.
func AsResourceNode(n Node) (ResourceNode, bool) {
	if n == nil || !n.IsResourceNode() {
		return nil, false
	}
	rn, ok := n.(ResourceNode)
	return rn, ok
}

// IsUncollectedResourceNode reports whether n is a resource node that has
// not been collected in ctx.
func IsUncollectedResourceNode(n Node, ctx *NodeContext) bool {
	rn, ok := AsResourceNode(n)
	return ok && !rn.IsCollected(ctx)
}

// NodeOption configures a node at construction.
type NodeOption func(*NodeBase)

// WithLeaveRequirement sets the requirement to leave the node.
func WithLeaveRequirement(req requirement.Requirement) NodeOption {
	return func(n *NodeBase) {
		n.leave = req
	}
}

// NodeBase carries the fields every node kind shares.
type NodeBase struct {
	index int
	name  string
	leave requirement.Requirement
}

func newNodeBase(index int, name string, opts []NodeOption) NodeBase {
	base := NodeBase{index: index, name: name, leave: requirement.Trivial()}
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// NodeIndex implements Node.
func (n *NodeBase) NodeIndex() int { return n.index }

// Name implements Node.
func (n *NodeBase) Name() string { return n.name }

// String returns the node name.
func (n *NodeBase) String() string { return n.name }

// RequirementToLeave implements Node.
func (n *NodeBase) RequirementToLeave(*NodeContext) requirement.Requirement {
	return n.leave
}

// -----------------------------------------------------------------------------
// GenericNode
// -----------------------------------------------------------------------------

// GenericNode is a plain location with nothing to collect.
type GenericNode struct {
	NodeBase
}

// NewGenericNode creates a GenericNode.
func NewGenericNode(index int, name string, opts ...NodeOption) *GenericNode {
	return &GenericNode{NodeBase: newNodeBase(index, name, opts)}
}

// IsResourceNode implements Node.
func (*GenericNode) IsResourceNode() bool { return false }

// -----------------------------------------------------------------------------
// EventNode
// -----------------------------------------------------------------------------

// EventNode triggers a one-off event, such as defeating a boss.
type EventNode struct {
	NodeBase
	Event *resources.ResourceInfo
}

// NewEventNode creates an EventNode granting event.
func NewEventNode(index int, name string, event *resources.ResourceInfo, opts ...NodeOption) *EventNode {
	return &EventNode{NodeBase: newNodeBase(index, name, opts), Event: event}
}

// IsResourceNode implements Node.
func (*EventNode) IsResourceNode() bool { return true }

// Resource implements ResourceNode.
func (e *EventNode) Resource(*NodeContext) *resources.ResourceInfo { return e.Event }

// ResourceGainOnCollect implements ResourceNode.
func (e *EventNode) ResourceGainOnCollect(*NodeContext) resources.ResourceGain {
	return resources.ResourceGain{{Resource: e.Event, Amount: 1}}
}

// IsCollected implements ResourceNode.
func (e *EventNode) IsCollected(ctx *NodeContext) bool {
	return ctx.Resources.Has(e.Event)
}

// CanCollect implements ResourceNode.
func (e *EventNode) CanCollect(ctx *NodeContext) bool {
	return !e.IsCollected(ctx)
}

// -----------------------------------------------------------------------------
// PickupNode
// -----------------------------------------------------------------------------

// PickupNode holds a randomized pickup.
//
// Collecting it gains the node's identifier resource, which marks it as
// collected, plus whatever pickup the context places at PickupIndex.
type PickupNode struct {
	NodeBase

	// Identifier is the node-identifier resource marking collection.
	Identifier *resources.ResourceInfo

	// PickupIndex is the slot looked up in NodeContext.Pickups.
	PickupIndex int

	// DefaultGain is used when the context places nothing at PickupIndex.
	DefaultGain resources.ResourceGain
}

// NewPickupNode creates a PickupNode.
func NewPickupNode(index int, name string, identifier *resources.ResourceInfo, pickupIndex int,
	defaultGain resources.ResourceGain, opts ...NodeOption) *PickupNode {
	return &PickupNode{
		NodeBase:    newNodeBase(index, name, opts),
		Identifier:  identifier,
		PickupIndex: pickupIndex,
		DefaultGain: defaultGain,
	}
}

// IsResourceNode implements Node.
func (*PickupNode) IsResourceNode() bool { return true }

// Resource implements ResourceNode.
func (p *PickupNode) Resource(*NodeContext) *resources.ResourceInfo { return p.Identifier }

// ResourceGainOnCollect implements ResourceNode.
func (p *PickupNode) ResourceGainOnCollect(ctx *NodeContext) resources.ResourceGain {
	gain := resources.ResourceGain{{Resource: p.Identifier, Amount: 1}}
	if placed, ok := ctx.pickupAt(p.PickupIndex); ok {
		return append(gain, placed...)
	}
	return append(gain, p.DefaultGain...)
}

// IsCollected implements ResourceNode.
func (p *PickupNode) IsCollected(ctx *NodeContext) bool {
	return ctx.Resources.Has(p.Identifier)
}

// CanCollect implements ResourceNode.
func (p *PickupNode) CanCollect(ctx *NodeContext) bool {
	return !p.IsCollected(ctx)
}

func (c *NodeContext) pickupAt(index int) (resources.ResourceGain, bool) {
	if c == nil || c.Pickups == nil {
		return nil, false
	}
	gain, ok := c.Pickups[index]
	return gain, ok
}
