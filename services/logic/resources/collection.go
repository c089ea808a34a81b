// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resources

import (
	"slices"
	"strconv"
	"strings"
)

// ResourceCollection is a multiset of held resources keyed by resource index.
//
// A resource can be "set" with a zero quantity. Requirement patching treats
// set resources as known, so the distinction between absent and zero matters.
//
// Thread Safety:
//
//	NOT safe for concurrent mutation. States treat their collection as
//	immutable once constructed; use Duplicate before modifying a shared one.
type ResourceCollection struct {
	counts    map[int]int
	resources map[int]*ResourceInfo
}

// NewResourceCollection creates an empty collection.
func NewResourceCollection() *ResourceCollection {
	return &ResourceCollection{
		counts:    make(map[int]int),
		resources: make(map[int]*ResourceInfo),
	}
}

// CollectionFromGain creates a collection holding exactly the given gain.
func CollectionFromGain(gain ResourceGain) *ResourceCollection {
	c := NewResourceCollection()
	c.AddGain(gain)
	return c
}

// Get returns the held quantity of a resource, zero when absent.
func (c *ResourceCollection) Get(r *ResourceInfo) int {
	if c == nil || r == nil {
		return 0
	}
	return c.counts[r.Index]
}

// Has reports whether a positive quantity of the resource is held.
func (c *ResourceCollection) Has(r *ResourceInfo) bool {
	return c.Get(r) > 0
}

// IsResourceSet reports whether the resource has an entry, even with zero quantity.
func (c *ResourceCollection) IsResourceSet(r *ResourceInfo) bool {
	if c == nil || r == nil {
		return false
	}
	_, ok := c.counts[r.Index]
	return ok
}

// Set stores an exact quantity, clamped to the resource's capacity.
func (c *ResourceCollection) Set(r *ResourceInfo, amount int) {
	if r.MaxCapacity > 0 && amount > r.MaxCapacity {
		amount = r.MaxCapacity
	}
	c.counts[r.Index] = amount
	c.resources[r.Index] = r
}

// AddGain adds every quantity of the gain.
func (c *ResourceCollection) AddGain(gain ResourceGain) {
	for _, q := range gain {
		c.Set(q.Resource, c.counts[q.Resource.Index]+q.Amount)
	}
}

// Duplicate returns an independent copy.
func (c *ResourceCollection) Duplicate() *ResourceCollection {
	dup := &ResourceCollection{
		counts:    make(map[int]int, len(c.counts)),
		resources: make(map[int]*ResourceInfo, len(c.resources)),
	}
	for k, v := range c.counts {
		dup.counts[k] = v
	}
	for k, v := range c.resources {
		dup.resources[k] = v
	}
	return dup
}

// Len returns the number of set resources.
func (c *ResourceCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.counts)
}

// Entries returns all set resources ordered by index.
func (c *ResourceCollection) Entries() []ResourceQuantity {
	if c == nil {
		return nil
	}
	keys := make([]int, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]ResourceQuantity, 0, len(keys))
	for _, k := range keys {
		out = append(out, ResourceQuantity{Resource: c.resources[k], Amount: c.counts[k]})
	}
	return out
}

// String renders the collection as "{A: 1, B: 2}".
func (c *ResourceCollection) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, q := range c.Entries() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(q.Resource.ShortName)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(q.Amount))
	}
	b.WriteString("}")
	return b.String()
}
