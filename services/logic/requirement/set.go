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
	"slices"
	"strings"

	"github.com/AleutianAI/randoreach/services/logic/resources"
)

// -----------------------------------------------------------------------------
// RequirementList
// -----------------------------------------------------------------------------

// RequirementList is a conjunction of resource requirements: one alternative
// of a RequirementSet. Items are kept sorted and unique.
type RequirementList struct {
	items []ResourceRequirement
	key   string
}

// NewRequirementList builds a list from items, sorting and deduplicating them.
func NewRequirementList(items ...ResourceRequirement) RequirementList {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b ResourceRequirement) int {
		return strings.Compare(a.key(), b.key())
	})
	sorted = slices.CompactFunc(sorted, func(a, b ResourceRequirement) bool {
		return a.key() == b.key()
	})

	keys := make([]string, len(sorted))
	for i, item := range sorted {
		keys[i] = item.key()
	}
	return RequirementList{items: sorted, key: strings.Join(keys, "|")}
}

// Items returns the requirements of the list in canonical order.
func (l RequirementList) Items() []ResourceRequirement {
	return l.items
}

// Len returns the number of requirements.
func (l RequirementList) Len() int {
	return len(l.items)
}

// Satisfied reports whether every item holds. Damage items consume energy in
// order, so two damage requirements together may fail where each alone holds.
func (l RequirementList) Satisfied(current *resources.ResourceCollection, energy int, db *resources.ResourceDatabase) bool {
	for _, item := range l.items {
		if !item.Satisfied(current, energy, db) {
			return false
		}
		if item.IsDamage() {
			energy -= item.Amount
		}
	}
	return true
}

// Union returns the conjunction of both lists.
func (l RequirementList) Union(other RequirementList) RequirementList {
	merged := make([]ResourceRequirement, 0, len(l.items)+len(other.items))
	merged = append(merged, l.items...)
	merged = append(merged, other.items...)
	return NewRequirementList(merged...)
}

// DangerousResources returns the resources this list requires NOT to hold.
func (l RequirementList) DangerousResources() []*resources.ResourceInfo {
	var out []*resources.ResourceInfo
	for _, item := range l.items {
		if item.Negate {
			out = append(out, item.Resource)
		}
	}
	return out
}

// isSubsetOf reports whether every item of l is also in other.
func (l RequirementList) isSubsetOf(other RequirementList) bool {
	if len(l.items) > len(other.items) {
		return false
	}
	j := 0
	for _, item := range l.items {
		k := item.key()
		for j < len(other.items) && other.items[j].key() < k {
			j++
		}
		if j == len(other.items) || other.items[j].key() != k {
			return false
		}
		j++
	}
	return true
}

// AsRequirement converts the list back into a Requirement tree.
func (l RequirementList) AsRequirement() Requirement {
	switch len(l.items) {
	case 0:
		return Trivial()
	case 1:
		return l.items[0]
	}
	items := make([]Requirement, len(l.items))
	for i, item := range l.items {
		items[i] = item
	}
	return RequirementAnd{Items: items}
}

// String renders the list as "A and B".
func (l RequirementList) String() string {
	if len(l.items) == 0 {
		return "Trivial"
	}
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " and ")
}

// -----------------------------------------------------------------------------
// RequirementSet
// -----------------------------------------------------------------------------

// RequirementSet is an immutable disjunction of RequirementLists.
//
// The set holds when any alternative holds. Alternatives are minimal: an
// alternative that is a strict superset of another is dropped, since it can
// never be the only satisfied one. The zero value is the impossible set.
type RequirementSet struct {
	alternatives []RequirementList
	dangerous    []*resources.ResourceInfo
}

// NewRequirementSet builds a normalized set from alternatives.
func NewRequirementSet(alternatives []RequirementList) RequirementSet {
	unique := slices.Clone(alternatives)
	slices.SortFunc(unique, func(a, b RequirementList) int {
		return strings.Compare(a.key, b.key)
	})
	unique = slices.CompactFunc(unique, func(a, b RequirementList) bool {
		return a.key == b.key
	})

	minimal := make([]RequirementList, 0, len(unique))
	for i, candidate := range unique {
		redundant := false
		for j, other := range unique {
			if i != j && other.Len() < candidate.Len() && other.isSubsetOf(candidate) {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, candidate)
		}
	}

	seen := make(map[int]struct{})
	var dangerous []*resources.ResourceInfo
	for _, alt := range minimal {
		for _, r := range alt.DangerousResources() {
			if _, ok := seen[r.Index]; ok {
				continue
			}
			seen[r.Index] = struct{}{}
			dangerous = append(dangerous, r)
		}
	}
	slices.SortFunc(dangerous, func(a, b *resources.ResourceInfo) int {
		return a.Index - b.Index
	})

	return RequirementSet{alternatives: minimal, dangerous: dangerous}
}

// TrivialSet returns the set holding a single empty alternative.
func TrivialSet() RequirementSet {
	return RequirementSet{alternatives: []RequirementList{NewRequirementList()}}
}

// ImpossibleSet returns the set with no alternatives.
func ImpossibleSet() RequirementSet {
	return RequirementSet{}
}

// Alternatives returns the alternatives in canonical order.
func (s RequirementSet) Alternatives() []RequirementList {
	return s.alternatives
}

// IsTrivial reports whether the set always holds.
func (s RequirementSet) IsTrivial() bool {
	return len(s.alternatives) == 1 && s.alternatives[0].Len() == 0
}

// IsImpossible reports whether the set never holds.
func (s RequirementSet) IsImpossible() bool {
	return len(s.alternatives) == 0
}

// Satisfied reports whether any alternative holds.
func (s RequirementSet) Satisfied(current *resources.ResourceCollection, energy int, db *resources.ResourceDatabase) bool {
	for _, alt := range s.alternatives {
		if alt.Satisfied(current, energy, db) {
			return true
		}
	}
	return false
}

// PatchRequirements simplifies every alternative against known resources.
func (s RequirementSet) PatchRequirements(static *resources.ResourceCollection, damageMultiplier float64, db *resources.ResourceDatabase) RequirementSet {
	result := ImpossibleSet()
	for _, alt := range s.alternatives {
		patched := alt.AsRequirement().PatchRequirements(static, damageMultiplier, db)
		result = result.ExpandAlternatives(patched.AsSet(db))
	}
	return result
}

// Union returns the conjunction of both sets (cartesian product of alternatives).
func (s RequirementSet) Union(other RequirementSet) RequirementSet {
	if s.IsTrivial() {
		return other
	}
	if other.IsTrivial() {
		return s
	}
	combined := make([]RequirementList, 0, len(s.alternatives)*len(other.alternatives))
	for _, a := range s.alternatives {
		for _, b := range other.alternatives {
			combined = append(combined, a.Union(b))
		}
	}
	return NewRequirementSet(combined)
}

// ExpandAlternatives returns the disjunction of both sets.
func (s RequirementSet) ExpandAlternatives(other RequirementSet) RequirementSet {
	if s.IsImpossible() {
		return other
	}
	if other.IsImpossible() {
		return s
	}
	all := make([]RequirementList, 0, len(s.alternatives)+len(other.alternatives))
	all = append(all, s.alternatives...)
	all = append(all, other.alternatives...)
	return NewRequirementSet(all)
}

// DangerousResources returns, ordered by index, the resources whose
// acquisition can invalidate this set (those required NOT to be held).
func (s RequirementSet) DangerousResources() []*resources.ResourceInfo {
	return s.dangerous
}

// Equal reports whether both sets have the same alternatives.
func (s RequirementSet) Equal(other RequirementSet) bool {
	return slices.EqualFunc(s.alternatives, other.alternatives, func(a, b RequirementList) bool {
		return a.key == b.key
	})
}

// AsRequirement converts the set back into a Requirement tree.
func (s RequirementSet) AsRequirement() Requirement {
	switch len(s.alternatives) {
	case 0:
		return Impossible()
	case 1:
		return s.alternatives[0].AsRequirement()
	}
	items := make([]Requirement, len(s.alternatives))
	for i, alt := range s.alternatives {
		items[i] = alt.AsRequirement()
	}
	return RequirementOr{Items: items}
}

// String renders the set as "(A and B) or C".
func (s RequirementSet) String() string {
	switch {
	case s.IsImpossible():
		return "Impossible"
	case s.IsTrivial():
		return "Trivial"
	case len(s.alternatives) == 1:
		return s.alternatives[0].String()
	}
	parts := make([]string, len(s.alternatives))
	for i, alt := range s.alternatives {
		if alt.Len() > 1 {
			parts[i] = "(" + alt.String() + ")"
		} else {
			parts[i] = alt.String()
		}
	}
	return strings.Join(parts, " or ")
}
