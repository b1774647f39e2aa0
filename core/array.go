/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import "strings"

// Array is an ordered sequence of Variant. Mutating operations require the
// array not be immutable and set dirty.
type Array struct {
	elements  []*Variant
	dirty     bool
	immutable bool
	owner     *ObjectCollection // Set when owned by an indirect object; used by FindAt.
}

// NewArray returns an empty, mutable Array.
func NewArray(elements ...*Variant) *Array {
	a := &Array{}
	if len(elements) > 0 {
		a.elements = append(a.elements, elements...)
	}
	return a
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elements)
}

// Get returns the i-th element, or nil if i is out of bounds.
func (a *Array) Get(i int) *Variant {
	if a == nil || i < 0 || i >= len(a.elements) {
		return nil
	}
	return a.elements[i]
}

// Elements returns the array's elements. Callers must not retain or mutate
// the returned slice past the array's next mutation.
func (a *Array) Elements() []*Variant {
	if a == nil {
		return nil
	}
	return a.elements
}

// FindAt resolves the i-th element, transparently dereferencing it through
// the array's owning ObjectCollection if it is a Reference. If there is no
// owning collection, or the reference does not resolve, the Reference
// variant itself is returned unchanged.
func (a *Array) FindAt(i int) *Variant {
	el := a.Get(i)
	if el == nil {
		return nil
	}
	if el.Kind() != KindReference || a.owner == nil {
		return el
	}
	ref, err := el.AsReference()
	if err != nil {
		return el
	}
	obj := a.owner.Resolve(ref)
	if obj == nil {
		return el
	}
	return obj.Variant()
}

func (a *Array) checkMutable() error {
	if a.immutable {
		return newError(ErrKindChangeOnImmutable, "mutation attempted on immutable array")
	}
	return nil
}

func (a *Array) adopt(v *Variant) {
	if v == nil {
		return
	}
	switch v.Kind() {
	case KindArray:
		if v.arr != nil {
			v.arr.owner = a.owner
		}
	case KindDictionary:
		if v.dict != nil {
			v.dict.owner = a.owner
		}
	}
}

// Append adds elements to the end of the array.
func (a *Array) Append(elements ...*Variant) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	for _, el := range elements {
		a.adopt(el)
		a.elements = append(a.elements, el)
	}
	a.dirty = true
	return nil
}

// InsertAt inserts v at index i, shifting later elements right. i ==
// a.Len() appends.
func (a *Array) InsertAt(i int, v *Variant) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	if i < 0 || i > len(a.elements) {
		return newError(ErrKindValueOutOfRange, "insert index %d out of bounds (len %d)", i, len(a.elements))
	}
	a.adopt(v)
	a.elements = append(a.elements, nil)
	copy(a.elements[i+1:], a.elements[i:])
	a.elements[i] = v
	a.dirty = true
	return nil
}

// RemoveAt removes the element at index i.
func (a *Array) RemoveAt(i int) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.elements) {
		return newError(ErrKindValueOutOfRange, "remove index %d out of bounds (len %d)", i, len(a.elements))
	}
	a.elements = append(a.elements[:i], a.elements[i+1:]...)
	a.dirty = true
	return nil
}

// Set overwrites the element at index i.
func (a *Array) Set(i int, v *Variant) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.elements) {
		return newError(ErrKindValueOutOfRange, "set index %d out of bounds (len %d)", i, len(a.elements))
	}
	a.adopt(v)
	a.elements[i] = v
	a.dirty = true
	return nil
}

// Dirty reports whether the array itself or any element is dirty.
func (a *Array) Dirty() bool {
	if a.dirty {
		return true
	}
	for _, el := range a.elements {
		if el.Dirty() {
			return true
		}
	}
	return false
}

// SetDirty sets or clears the array's dirty bit; clearing propagates to
// every element.
func (a *Array) SetDirty(dirty bool) {
	a.dirty = dirty
	if !dirty {
		for _, el := range a.elements {
			el.SetDirty(false)
		}
	}
}

// Immutable reports whether the array is currently immutable.
func (a *Array) Immutable() bool {
	return a.immutable
}

// SetImmutable sets or clears the array's immutable bit; setting it true
// propagates to every current element.
func (a *Array) SetImmutable(immutable bool) {
	a.immutable = immutable
	if immutable {
		for _, el := range a.elements {
			el.SetImmutable(true)
		}
	}
}

// Clone returns a deep copy: every element is cloned, and the clone starts
// clean and mutable.
func (a *Array) Clone() *Array {
	c := &Array{owner: a.owner}
	for _, el := range a.elements {
		c.elements = append(c.elements, el.Clone())
	}
	return c
}

// Equal deep-compares two arrays element-by-element in order.
func (a *Array) Equal(other *Array) (bool, error) {
	if a == nil || other == nil {
		return a == other, nil
	}
	if len(a.elements) != len(other.elements) {
		return false, nil
	}
	for i := range a.elements {
		eq, err := a.elements[i].Equal(other.elements[i])
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

// String returns a debug representation.
func (a *Array) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, el := range a.elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(el.String())
	}
	b.WriteString("]")
	return b.String()
}
