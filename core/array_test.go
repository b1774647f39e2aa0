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

func TestArrayAppendGetLen(t *testing.T) {
	a := NewArray()
	assert.Equal(t, 0, a.Len())

	require.NoError(t, a.Append(NewInteger(1), NewInteger(2)))
	assert.Equal(t, 2, a.Len())

	n, err := a.Get(0).AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Nil(t, a.Get(5))
	assert.Nil(t, a.Get(-1))
}

func TestArrayInsertAtShiftsRight(t *testing.T) {
	a := NewArray(NewInteger(1), NewInteger(3))
	require.NoError(t, a.InsertAt(1, NewInteger(2)))

	for i, want := range []int64{1, 2, 3} {
		n, err := a.Get(i).AsInteger()
		require.NoError(t, err)
		assert.EqualValues(t, want, n)
	}
}

func TestArrayInsertAtOutOfBounds(t *testing.T) {
	a := NewArray(NewInteger(1))
	err := a.InsertAt(5, NewInteger(2))
	require.Error(t, err)
	assert.True(t, IsErrorKind(err, ErrKindValueOutOfRange))
}

func TestArrayRemoveAt(t *testing.T) {
	a := NewArray(NewInteger(1), NewInteger(2), NewInteger(3))
	require.NoError(t, a.RemoveAt(1))
	assert.Equal(t, 2, a.Len())

	n, err := a.Get(1).AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	err = a.RemoveAt(10)
	require.Error(t, err)
	assert.True(t, IsErrorKind(err, ErrKindValueOutOfRange))
}

func TestArraySetOverwrites(t *testing.T) {
	a := NewArray(NewInteger(1), NewInteger(2))
	require.NoError(t, a.Set(0, NewInteger(99)))
	n, err := a.Get(0).AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 99, n)
}

func TestArrayImmutableBlocksMutation(t *testing.T) {
	a := NewArray(NewInteger(1))
	a.SetImmutable(true)

	assert.True(t, IsErrorKind(a.Append(NewInteger(2)), ErrKindChangeOnImmutable))
	assert.True(t, IsErrorKind(a.Set(0, NewInteger(2)), ErrKindChangeOnImmutable))
	assert.True(t, IsErrorKind(a.RemoveAt(0), ErrKindChangeOnImmutable))
	assert.True(t, IsErrorKind(a.InsertAt(0, NewInteger(2)), ErrKindChangeOnImmutable))
}

func TestArrayImmutablePropagatesToElements(t *testing.T) {
	el := NewInteger(1)
	a := NewArray(el)
	a.SetImmutable(true)

	err := el.SetInteger(2)
	require.Error(t, err)
	assert.True(t, IsErrorKind(err, ErrKindChangeOnImmutable))
}

func TestArrayDirtyPropagation(t *testing.T) {
	el := NewInteger(1)
	a := NewArray(el)
	assert.False(t, a.Dirty())

	require.NoError(t, el.SetInteger(2))
	assert.True(t, a.Dirty())

	a.SetDirty(false)
	assert.False(t, a.Dirty())
	assert.False(t, el.Dirty())
}

func TestArrayCloneIsIndependent(t *testing.T) {
	el := NewInteger(1)
	a := NewArray(el)
	clone := a.Clone()

	eq, err := a.Equal(clone)
	require.NoError(t, err)
	assert.True(t, eq)

	require.NoError(t, clone.Get(0).SetInteger(42))
	n, err := a.Get(0).AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestArrayEqualOrderSensitive(t *testing.T) {
	a := NewArray(NewInteger(1), NewInteger(2))
	b := NewArray(NewInteger(2), NewInteger(1))

	eq, err := a.Equal(b)
	require.NoError(t, err)
	assert.False(t, eq)

	c := NewArray(NewInteger(1), NewInteger(2))
	eq, err = a.Equal(c)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestArrayFindAtResolvesReference(t *testing.T) {
	coll := NewObjectCollection()
	target := coll.Add(NewInteger(7))

	a := NewArray(NewReference(target.Reference()))
	a.owner = coll

	resolved := a.FindAt(0)
	n, err := resolved.AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
