// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resources provides the resource vocabulary of a game's logic:
// items, events, tricks, damage and node identifiers, plus the multiset
// of held resources that requirements are evaluated against.
//
// # Ownership Model
//
// ResourceInfo values are owned by a ResourceDatabase and shared by pointer.
// They MUST NOT be mutated after the database is built. Identity is the
// Index field; two ResourceInfo pointers with the same Index denote the
// same resource.
package resources

import (
	"fmt"
	"strings"
)

// ResourceType classifies what a resource represents.
type ResourceType int

const (
	// ResourceTypeItem is a collectible item (missiles, suits, keys).
	ResourceTypeItem ResourceType = iota

	// ResourceTypeEvent is a one-shot world event (boss defeated, door opened).
	ResourceTypeEvent

	// ResourceTypeTrick is a movement technique gated by difficulty settings.
	ResourceTypeTrick

	// ResourceTypeDamage is environmental damage that consumes energy.
	ResourceTypeDamage

	// ResourceTypeVersion is a game version flag.
	ResourceTypeVersion

	// ResourceTypeMisc is any other setting-style resource.
	ResourceTypeMisc

	// ResourceTypeNodeIdentifier marks that a specific node was collected.
	ResourceTypeNodeIdentifier
)

var resourceTypeNames = map[ResourceType]string{
	ResourceTypeItem:           "item",
	ResourceTypeEvent:          "event",
	ResourceTypeTrick:          "trick",
	ResourceTypeDamage:         "damage",
	ResourceTypeVersion:        "version",
	ResourceTypeMisc:           "misc",
	ResourceTypeNodeIdentifier: "node",
}

// String returns the string representation of the ResourceType.
func (t ResourceType) String() string {
	if name, ok := resourceTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ResourceInfo describes a single resource.
type ResourceInfo struct {
	// Index is the database-wide unique identifier.
	Index int

	// Type is the resource classification.
	Type ResourceType

	// ShortName is the stable name used in requirement strings.
	ShortName string

	// LongName is the human-readable name.
	LongName string

	// MaxCapacity caps the held quantity. Zero means uncapped.
	MaxCapacity int
}

// String returns the short name.
func (r *ResourceInfo) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.ShortName
}

// IsDamage reports whether the resource is environmental damage.
func (r *ResourceInfo) IsDamage() bool {
	return r.Type == ResourceTypeDamage
}

// IsStatic reports whether the held quantity is fixed for a whole
// generation: tricks, versions and misc settings are never gained.
func (r *ResourceInfo) IsStatic() bool {
	switch r.Type {
	case ResourceTypeTrick, ResourceTypeVersion, ResourceTypeMisc:
		return true
	default:
		return false
	}
}

// ResourceQuantity is an amount of a resource.
type ResourceQuantity struct {
	Resource *ResourceInfo
	Amount   int
}

// ResourceGain is an ordered list of quantities gained at once,
// for example by collecting a node.
type ResourceGain []ResourceQuantity

// String renders the gain as "A x1, B x2".
func (g ResourceGain) String() string {
	parts := make([]string, 0, len(g))
	for _, q := range g {
		parts = append(parts, fmt.Sprintf("%s x%d", q.Resource, q.Amount))
	}
	return strings.Join(parts, ", ")
}

// Resources returns the resources of the gain in order, without amounts.
func (g ResourceGain) Resources() []*ResourceInfo {
	out := make([]*ResourceInfo, 0, len(g))
	for _, q := range g {
		out = append(out, q.Resource)
	}
	return out
}
