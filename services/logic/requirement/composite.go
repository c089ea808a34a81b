// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package requirement

import (
	"strings"

	"github.com/AleutianAI/randoreach/services/logic/resources"
)

// RequirementAnd holds when every item holds. An empty And is trivial.
type RequirementAnd struct {
	Items []Requirement
}

// And builds a RequirementAnd.
func And(items ...Requirement) RequirementAnd {
	return RequirementAnd{Items: items}
}

// Satisfied implements Requirement.
func (a RequirementAnd) Satisfied(current *resources.ResourceCollection, energy int, db *resources.ResourceDatabase) bool {
	for _, item := range a.Items {
		if !item.Satisfied(current, energy, db) {
			return false
		}
	}
	return true
}

// PatchRequirements implements Requirement.
func (a RequirementAnd) PatchRequirements(static *resources.ResourceCollection, damageMultiplier float64, db *resources.ResourceDatabase) Requirement {
	items := make([]Requirement, 0, len(a.Items))
	for _, item := range a.Items {
		patched := item.PatchRequirements(static, damageMultiplier, db)
		switch {
		case IsImpossible(patched):
			return Impossible()
		case IsTrivial(patched):
			continue
		}
		items = append(items, patched)
	}
	switch len(items) {
	case 0:
		return Trivial()
	case 1:
		return items[0]
	default:
		return RequirementAnd{Items: items}
	}
}

// AsSet implements Requirement.
func (a RequirementAnd) AsSet(db *resources.ResourceDatabase) RequirementSet {
	result := TrivialSet()
	for _, item := range a.Items {
		result = result.Union(item.AsSet(db))
		if result.IsImpossible() {
			break
		}
	}
	return result
}

// String implements Requirement.
func (a RequirementAnd) String() string {
	if len(a.Items) == 0 {
		return "Trivial"
	}
	return joinItems(a.Items, " and ")
}

// RequirementOr holds when any item holds. An empty Or is impossible.
type RequirementOr struct {
	Items []Requirement
}

// Or builds a RequirementOr.
func Or(items ...Requirement) RequirementOr {
	return RequirementOr{Items: items}
}

// Satisfied implements Requirement.
func (o RequirementOr) Satisfied(current *resources.ResourceCollection, energy int, db *resources.ResourceDatabase) bool {
	for _, item := range o.Items {
		if item.Satisfied(current, energy, db) {
			return true
		}
	}
	return false
}

// PatchRequirements implements Requirement.
func (o RequirementOr) PatchRequirements(static *resources.ResourceCollection, damageMultiplier float64, db *resources.ResourceDatabase) Requirement {
	items := make([]Requirement, 0, len(o.Items))
	for _, item := range o.Items {
		patched := item.PatchRequirements(static, damageMultiplier, db)
		switch {
		case IsTrivial(patched):
			return Trivial()
		case IsImpossible(patched):
			continue
		}
		items = append(items, patched)
	}
	switch len(items) {
	case 0:
		return Impossible()
	case 1:
		return items[0]
	default:
		return RequirementOr{Items: items}
	}
}

// AsSet implements Requirement.
func (o RequirementOr) AsSet(db *resources.ResourceDatabase) RequirementSet {
	result := ImpossibleSet()
	for _, item := range o.Items {
		result = result.ExpandAlternatives(item.AsSet(db))
	}
	return result
}

// String implements Requirement.
func (o RequirementOr) String() string {
	if len(o.Items) == 0 {
		return "Impossible"
	}
	return joinItems(o.Items, " or ")
}

func joinItems(items []Requirement, sep string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		s := item.String()
		switch item.(type) {
		case RequirementAnd, RequirementOr:
			if len(items) > 1 {
				s = "(" + s + ")"
			}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

// Walk calls fn for every ResourceRequirement in the tree, depth first.
func Walk(r Requirement, fn func(ResourceRequirement)) {
	switch v := r.(type) {
	case ResourceRequirement:
		fn(v)
	case RequirementAnd:
		for _, item := range v.Items {
			Walk(item, fn)
		}
	case RequirementOr:
		for _, item := range v.Items {
			Walk(item, fn)
		}
	}
}
