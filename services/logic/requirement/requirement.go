// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package requirement provides the boolean requirement expressions that guard
// connections in a game's world graph.
//
// A Requirement is a tree of AND/OR nodes over resource thresholds. For
// evaluation at scale it is normalized into a RequirementSet: a disjunction
// of RequirementLists, each a conjunction of ResourceRequirements.
//
// # Immutability
//
// Every type in this package is an immutable value. Patching, normalizing
// and combining always return new values, so requirements can be shared
// freely between graphs, states and goroutines.
package requirement

import (
	"fmt"
	"math"

	"github.com/AleutianAI/randoreach/services/logic/resources"
)

// Requirement is a boolean predicate over held resources and energy.
type Requirement interface {
	// Satisfied reports whether the requirement holds for the given resources and energy.
	Satisfied(current *resources.ResourceCollection, energy int, db *resources.ResourceDatabase) bool

	// PatchRequirements simplifies the requirement against resources whose
	// quantity is already known. Resources set in static collapse to Trivial
	// when satisfied and to Impossible only when no later gain can satisfy
	// them. Damage amounts are scaled by damageMultiplier.
	PatchRequirements(static *resources.ResourceCollection, damageMultiplier float64, db *resources.ResourceDatabase) Requirement

	// AsSet normalizes the requirement into disjunctive normal form.
	AsSet(db *resources.ResourceDatabase) RequirementSet

	// String renders the requirement for humans.
	String() string
}

// -----------------------------------------------------------------------------
// Trivial / Impossible
// -----------------------------------------------------------------------------

type trivialRequirement struct{}

func (trivialRequirement) Satisfied(*resources.ResourceCollection, int, *resources.ResourceDatabase) bool {
	return true
}

func (t trivialRequirement) PatchRequirements(*resources.ResourceCollection, float64, *resources.ResourceDatabase) Requirement {
	return t
}

func (trivialRequirement) AsSet(*resources.ResourceDatabase) RequirementSet {
	return TrivialSet()
}

func (trivialRequirement) String() string { return "Trivial" }

type impossibleRequirement struct{}

func (impossibleRequirement) Satisfied(*resources.ResourceCollection, int, *resources.ResourceDatabase) bool {
	return false
}

func (i impossibleRequirement) PatchRequirements(*resources.ResourceCollection, float64, *resources.ResourceDatabase) Requirement {
	return i
}

func (impossibleRequirement) AsSet(*resources.ResourceDatabase) RequirementSet {
	return ImpossibleSet()
}

func (impossibleRequirement) String() string { return "Impossible" }

// Trivial returns the requirement that always holds.
func Trivial() Requirement { return trivialRequirement{} }

// Impossible returns the requirement that never holds.
func Impossible() Requirement { return impossibleRequirement{} }

// IsTrivial reports whether r is the trivial requirement.
func IsTrivial(r Requirement) bool {
	_, ok := r.(trivialRequirement)
	return ok
}

// IsImpossible reports whether r is the impossible requirement.
func IsImpossible(r Requirement) bool {
	_, ok := r.(impossibleRequirement)
	return ok
}

// -----------------------------------------------------------------------------
// ResourceRequirement
// -----------------------------------------------------------------------------

// ResourceRequirement requires holding at least Amount of Resource, or, when
// Negate is set, holding strictly less than Amount.
//
// Damage resources are special: they are satisfied when the current energy
// exceeds Amount, and they consume that energy inside a RequirementList.
type ResourceRequirement struct {
	Resource *resources.ResourceInfo
	Amount   int
	Negate   bool
}

// Simple requires one unit of the resource.
func Simple(r *resources.ResourceInfo) ResourceRequirement {
	return ResourceRequirement{Resource: r, Amount: 1}
}

// Not requires holding none of the resource.
func Not(r *resources.ResourceInfo) ResourceRequirement {
	return ResourceRequirement{Resource: r, Amount: 1, Negate: true}
}

// Quantity requires holding at least amount of the resource.
func Quantity(r *resources.ResourceInfo, amount int) ResourceRequirement {
	return ResourceRequirement{Resource: r, Amount: amount}
}

// Damage requires enduring amount of environmental damage.
func Damage(r *resources.ResourceInfo, amount int) ResourceRequirement {
	return ResourceRequirement{Resource: r, Amount: amount}
}

// IsDamage reports whether the requirement is environmental damage.
func (r ResourceRequirement) IsDamage() bool {
	return r.Resource.IsDamage()
}

// Satisfied implements Requirement.
func (r ResourceRequirement) Satisfied(current *resources.ResourceCollection, energy int, _ *resources.ResourceDatabase) bool {
	if r.IsDamage() {
		return r.Amount < energy
	}
	held := current.Get(r.Resource)
	if r.Negate {
		return held < r.Amount
	}
	return held >= r.Amount
}

// PatchRequirements implements Requirement.
func (r ResourceRequirement) PatchRequirements(static *resources.ResourceCollection, damageMultiplier float64, db *resources.ResourceDatabase) Requirement {
	if r.IsDamage() {
		return ResourceRequirement{
			Resource: r.Resource,
			Amount:   int(math.Ceil(float64(r.Amount) * damageMultiplier)),
			Negate:   r.Negate,
		}
	}
	if !static.IsResourceSet(r.Resource) {
		return r
	}
	switch {
	case r.Satisfied(static, 0, db):
		return Trivial()
	case r.Resource.IsStatic(), r.Negate:
		// Quantities only grow, so a reached negated threshold stays reached.
		return Impossible()
	default:
		return r
	}
}

// AsSet implements Requirement.
func (r ResourceRequirement) AsSet(*resources.ResourceDatabase) RequirementSet {
	return NewRequirementSet([]RequirementList{NewRequirementList(r)})
}

// String implements Requirement.
func (r ResourceRequirement) String() string {
	name := r.Resource.String()
	switch {
	case r.IsDamage():
		return fmt.Sprintf("%s %d", name, r.Amount)
	case r.Negate && r.Amount == 1:
		return "No " + name
	case r.Negate:
		return fmt.Sprintf("%s < %d", name, r.Amount)
	case r.Amount == 1:
		return name
	default:
		return fmt.Sprintf("%s ≥ %d", name, r.Amount)
	}
}

// key is the canonical identity used for ordering and deduplication.
func (r ResourceRequirement) key() string {
	return fmt.Sprintf("%08d:%d:%t", r.Resource.Index, r.Amount, r.Negate)
}
