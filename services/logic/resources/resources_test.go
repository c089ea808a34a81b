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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceType_String(t *testing.T) {
	assert.Equal(t, "item", ResourceTypeItem.String())
	assert.Equal(t, "damage", ResourceTypeDamage.String())
	assert.Equal(t, "node", ResourceTypeNodeIdentifier.String())
	assert.Equal(t, "unknown", ResourceType(99).String())
}

func TestResourceInfo_IsStatic(t *testing.T) {
	for _, kind := range []ResourceType{ResourceTypeTrick, ResourceTypeVersion, ResourceTypeMisc} {
		assert.True(t, (&ResourceInfo{Type: kind}).IsStatic(), kind.String())
	}
	for _, kind := range []ResourceType{ResourceTypeItem, ResourceTypeEvent, ResourceTypeDamage, ResourceTypeNodeIdentifier} {
		assert.False(t, (&ResourceInfo{Type: kind}).IsStatic(), kind.String())
	}
}

func TestResourceCollection_SetVersusHas(t *testing.T) {
	bombs := &ResourceInfo{Index: 1, Type: ResourceTypeItem, ShortName: "Bombs"}
	c := NewResourceCollection()

	assert.False(t, c.IsResourceSet(bombs))
	assert.False(t, c.Has(bombs))

	c.Set(bombs, 0)
	assert.True(t, c.IsResourceSet(bombs), "zero quantity still counts as set")
	assert.False(t, c.Has(bombs))

	c.Set(bombs, 2)
	assert.True(t, c.Has(bombs))
	assert.Equal(t, 2, c.Get(bombs))
}

func TestResourceCollection_AddGainClampsToCapacity(t *testing.T) {
	missile := &ResourceInfo{Index: 2, Type: ResourceTypeItem, ShortName: "Missile", MaxCapacity: 5}
	c := NewResourceCollection()

	c.AddGain(ResourceGain{{Resource: missile, Amount: 3}})
	c.AddGain(ResourceGain{{Resource: missile, Amount: 3}})

	assert.Equal(t, 5, c.Get(missile))
}

func TestResourceCollection_DuplicateIsIndependent(t *testing.T) {
	r := &ResourceInfo{Index: 3, ShortName: "Key"}
	original := CollectionFromGain(ResourceGain{{Resource: r, Amount: 1}})

	dup := original.Duplicate()
	dup.Set(r, 4)

	assert.Equal(t, 1, original.Get(r))
	assert.Equal(t, 4, dup.Get(r))
}

func TestResourceCollection_EntriesAndString(t *testing.T) {
	a := &ResourceInfo{Index: 5, ShortName: "A"}
	b := &ResourceInfo{Index: 1, ShortName: "B"}
	c := CollectionFromGain(ResourceGain{{Resource: a, Amount: 1}, {Resource: b, Amount: 2}})

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Resource.ShortName)
	assert.Equal(t, "{B: 2, A: 1}", c.String())
	assert.Equal(t, 2, c.Len())
}

func TestResourceCollection_NilSafeReads(t *testing.T) {
	var c *ResourceCollection
	r := &ResourceInfo{Index: 1}

	assert.Equal(t, 0, c.Get(r))
	assert.False(t, c.IsResourceSet(r))
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Entries())
}

func TestNewResourceDatabase(t *testing.T) {
	tank := &ResourceInfo{Index: 0, ShortName: "EnergyTank", Type: ResourceTypeItem}
	key := &ResourceInfo{Index: 1, ShortName: "Key", Type: ResourceTypeItem}

	db, err := NewResourceDatabase([]*ResourceInfo{tank, key}, WithEnergyTank(tank), WithEnergy(50, 25))
	require.NoError(t, err)

	got, err := db.ByName("Key")
	require.NoError(t, err)
	assert.Same(t, key, got)

	byIndex, ok := db.ByIndex(0)
	require.True(t, ok)
	assert.Same(t, tank, byIndex)

	_, err = db.ByName("Missing")
	assert.ErrorIs(t, err, ErrUnknownResource)

	held := CollectionFromGain(ResourceGain{{Resource: tank, Amount: 2}})
	assert.Equal(t, 100, db.MaximumEnergy(held))
	assert.Len(t, db.All(), 2)
}

func TestNewResourceDatabase_Duplicates(t *testing.T) {
	_, err := NewResourceDatabase([]*ResourceInfo{
		{Index: 1, ShortName: "A"},
		{Index: 1, ShortName: "B"},
	})
	assert.ErrorIs(t, err, ErrDuplicateResource)

	_, err = NewResourceDatabase([]*ResourceInfo{
		{Index: 1, ShortName: "A"},
		{Index: 2, ShortName: "A"},
	})
	assert.ErrorIs(t, err, ErrDuplicateResource)
}

func TestResourceGain_String(t *testing.T) {
	a := &ResourceInfo{Index: 1, ShortName: "A"}
	gain := ResourceGain{{Resource: a, Amount: 2}}

	assert.Equal(t, "A x2", gain.String())
	assert.Equal(t, []*ResourceInfo{a}, gain.Resources())
}
