/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectCollectionAddAllocatesAscendingObjectNumbers(t *testing.T) {
	coll := NewObjectCollection()
	a := coll.Add(NewInteger(1))
	b := coll.Add(NewInteger(2))
	assert.EqualValues(t, 1, a.Reference().ObjectNumber)
	assert.EqualValues(t, 2, b.Reference().ObjectNumber)
	assert.Equal(t, 2, coll.Len())
}

func TestObjectCollectionResolve(t *testing.T) {
	coll := NewObjectCollection()
	obj := coll.Add(NewInteger(42))
	got := coll.Resolve(obj.Reference())
	require.NotNil(t, got)
	assert.Same(t, obj, got)
	assert.Same(t, obj, coll.Get(obj.Reference()))

	assert.Nil(t, coll.Resolve(Reference{ObjectNumber: 99}))
}

func TestObjectCollectionAddWithReferenceAdvancesNextNum(t *testing.T) {
	coll := NewObjectCollection()
	coll.AddWithReference(Reference{ObjectNumber: 5}, NewInteger(1))
	next := coll.Add(NewInteger(2))
	assert.EqualValues(t, 6, next.Reference().ObjectNumber)
}

func TestObjectCollectionReferencesPreservesInsertionOrderNotNumericOrder(t *testing.T) {
	coll := NewObjectCollection()
	coll.AddWithReference(Reference{ObjectNumber: 5}, NewInteger(1))
	coll.AddWithReference(Reference{ObjectNumber: 1}, NewInteger(2))
	coll.AddWithReference(Reference{ObjectNumber: 3}, NewInteger(3))

	refs := coll.References()
	want := []Reference{
		{ObjectNumber: 5},
		{ObjectNumber: 1},
		{ObjectNumber: 3},
	}
	assert.Equal(t, want, refs)
}

func TestObjectCollectionObjectsMatchesReferencesOrder(t *testing.T) {
	coll := NewObjectCollection()
	first := coll.AddWithReference(Reference{ObjectNumber: 5}, NewInteger(10))
	second := coll.AddWithReference(Reference{ObjectNumber: 1}, NewInteger(20))

	objs := coll.Objects()
	require.Len(t, objs, 2)
	assert.Same(t, first, objs[0])
	assert.Same(t, second, objs[1])
}

func TestObjectCollectionReAddingExistingReferenceKeepsOriginalPosition(t *testing.T) {
	coll := NewObjectCollection()
	coll.AddWithReference(Reference{ObjectNumber: 5}, NewInteger(1))
	coll.AddWithReference(Reference{ObjectNumber: 1}, NewInteger(2))
	updated := coll.AddWithReference(Reference{ObjectNumber: 5}, NewInteger(99))

	refs := coll.References()
	assert.Equal(t, []Reference{{ObjectNumber: 5}, {ObjectNumber: 1}}, refs)
	assert.Same(t, updated, coll.Resolve(Reference{ObjectNumber: 5}))
}

func TestObjectCollectionRemove(t *testing.T) {
	coll := NewObjectCollection()
	a := coll.Add(NewInteger(1))
	b := coll.Add(NewInteger(2))
	c := coll.Add(NewInteger(3))

	assert.True(t, coll.Remove(b.Reference()))
	assert.False(t, coll.Remove(b.Reference()))

	assert.Equal(t, 2, coll.Len())
	assert.Equal(t, []Reference{a.Reference(), c.Reference()}, coll.References())
}

func TestObjectCollectionAdoptValueSetsOwnerRecursively(t *testing.T) {
	coll := NewObjectCollection()
	inner := NewDictionary()
	require.NoError(t, inner.Set("X", NewInteger(1)))
	outer := NewArray(NewDictionaryVariant(inner))

	coll.Add(NewArrayVariant(outer))
	assert.Equal(t, coll, outer.owner)
	assert.Equal(t, coll, inner.owner)
}
