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
	"errors"
	"fmt"
)

// Sentinel errors for database construction.
var (
	// ErrDuplicateResource is returned when two resources share an index or short name.
	ErrDuplicateResource = errors.New("duplicate resource")

	// ErrUnknownResource is returned when a lookup names no registered resource.
	ErrUnknownResource = errors.New("unknown resource")
)

// Default energy values used when a database does not configure them.
const (
	DefaultBaseEnergy    = 99
	DefaultEnergyPerTank = 100
)

// ResourceDatabase is the immutable registry of every resource in a game.
type ResourceDatabase struct {
	byIndex map[int]*ResourceInfo
	byName  map[string]*ResourceInfo
	ordered []*ResourceInfo

	// EnergyTank, when set, raises maximum energy by EnergyPerTank per unit held.
	EnergyTank *ResourceInfo

	// BaseEnergy is the maximum energy with no tanks.
	BaseEnergy int

	// EnergyPerTank is the energy added by each tank.
	EnergyPerTank int
}

// DatabaseOption configures a ResourceDatabase.
type DatabaseOption func(*ResourceDatabase)

// WithEnergyTank registers the resource that raises maximum energy.
func WithEnergyTank(r *ResourceInfo) DatabaseOption {
	return func(db *ResourceDatabase) {
		db.EnergyTank = r
	}
}

// WithEnergy overrides base energy and energy gained per tank.
func WithEnergy(base, perTank int) DatabaseOption {
	return func(db *ResourceDatabase) {
		db.BaseEnergy = base
		db.EnergyPerTank = perTank
	}
}

// NewResourceDatabase builds a database from a list of resources.
//
// Inputs:
//
//	resources - Every resource of the game. Indices and short names must be unique.
//	opts - Optional energy configuration.
//
// Outputs:
//
//	*ResourceDatabase - The database.
//	error - ErrDuplicateResource if an index or short name repeats.
func NewResourceDatabase(resources []*ResourceInfo, opts ...DatabaseOption) (*ResourceDatabase, error) {
	db := &ResourceDatabase{
		byIndex:       make(map[int]*ResourceInfo, len(resources)),
		byName:        make(map[string]*ResourceInfo, len(resources)),
		ordered:       make([]*ResourceInfo, 0, len(resources)),
		BaseEnergy:    DefaultBaseEnergy,
		EnergyPerTank: DefaultEnergyPerTank,
	}
	for _, opt := range opts {
		opt(db)
	}

	for _, r := range resources {
		if _, exists := db.byIndex[r.Index]; exists {
			return nil, fmt.Errorf("%w: index %d", ErrDuplicateResource, r.Index)
		}
		if _, exists := db.byName[r.ShortName]; exists {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateResource, r.ShortName)
		}
		db.byIndex[r.Index] = r
		db.byName[r.ShortName] = r
		db.ordered = append(db.ordered, r)
	}
	return db, nil
}

// ByIndex returns the resource with the given index.
func (db *ResourceDatabase) ByIndex(index int) (*ResourceInfo, bool) {
	r, ok := db.byIndex[index]
	return r, ok
}

// ByName returns the resource with the given short name.
func (db *ResourceDatabase) ByName(name string) (*ResourceInfo, error) {
	r, ok := db.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return r, nil
}

// All returns every resource in registration order.
func (db *ResourceDatabase) All() []*ResourceInfo {
	return db.ordered
}

// MaximumEnergy returns the energy cap implied by the tanks held in resources.
func (db *ResourceDatabase) MaximumEnergy(resources *ResourceCollection) int {
	if db.EnergyTank == nil {
		return db.BaseEnergy
	}
	return db.BaseEnergy + db.EnergyPerTank*resources.Get(db.EnergyTank)
}
