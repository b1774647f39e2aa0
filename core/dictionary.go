/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"sort"
	"strings"
)

// Dictionary is an ordered mapping from Name to Variant. Keys are stored in
// sorted order by Name bytes, which gives deterministic iteration and
// O(log n) lookup; equality compares in lockstep.
type Dictionary struct {
	keys      []Name
	values    map[Name]*Variant
	dirty     bool
	immutable bool
	owner     *ObjectCollection // Set when owned by an indirect object.
	parent    *IndirectObject   // For find_with_parent's /Parent-chain walk.
}

// NewDictionary returns an empty, mutable Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[Name]*Variant)}
}

func (d *Dictionary) checkMutable() error {
	if d.immutable {
		return newError(ErrKindChangeOnImmutable, "mutation attempted on immutable dictionary")
	}
	return nil
}

func (d *Dictionary) adopt(v *Variant) {
	if v == nil {
		return
	}
	switch v.Kind() {
	case KindArray:
		if v.arr != nil {
			v.arr.owner = d.owner
		}
	case KindDictionary:
		if v.dict != nil {
			v.dict.owner = d.owner
			v.dict.parent = d.parent
		}
	}
}

// insertSorted inserts key into d.keys maintaining sorted order, returning
// whether the key was newly inserted (as opposed to already present).
func (d *Dictionary) insertSorted(key Name) bool {
	i := sort.Search(len(d.keys), func(i int) bool { return !d.keys[i].Less(key) })
	if i < len(d.keys) && d.keys[i] == key {
		return false
	}
	d.keys = append(d.keys, "")
	copy(d.keys[i+1:], d.keys[i:])
	d.keys[i] = key
	return true
}

// Set is an alias for AddOrReplace, matching the common Go dictionary
// idiom.
func (d *Dictionary) Set(key Name, v *Variant) error {
	_, err := d.AddOrReplace(key, v)
	return err
}

// AddOrReplace inserts key -> v, replacing any existing value for key.
// Both insertion and replacement set dirty. Returns the stored Variant.
func (d *Dictionary) AddOrReplace(key Name, v *Variant) (*Variant, error) {
	if err := d.checkMutable(); err != nil {
		return nil, err
	}
	if d.values == nil {
		d.values = make(map[Name]*Variant)
	}
	d.adopt(v)
	d.insertSorted(key)
	d.values[key] = v
	d.dirty = true
	return v, nil
}

// Remove deletes key from the dictionary, reporting whether it was present.
func (d *Dictionary) Remove(key Name) (bool, error) {
	if err := d.checkMutable(); err != nil {
		return false, err
	}
	if _, found := d.values[key]; !found {
		return false, nil
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	d.dirty = true
	return true, nil
}

// Get returns the Variant stored under key, or nil if absent. It does not
// dereference a Reference value.
func (d *Dictionary) Get(key Name) *Variant {
	if d == nil {
		return nil
	}
	return d.values[key]
}

// Find returns the Variant stored under key, transparently dereferencing a
// Reference value through the owning ObjectCollection. Returns nil if the
// key is absent.
func (d *Dictionary) Find(key Name) *Variant {
	v := d.Get(key)
	if v == nil {
		return nil
	}
	if v.Kind() != KindReference || d.owner == nil {
		return v
	}
	ref, err := v.AsReference()
	if err != nil {
		return v
	}
	obj := d.owner.Resolve(ref)
	if obj == nil {
		return v
	}
	return obj.Variant()
}

// FindWithParent is like Find, but when key is absent locally it walks the
// /Parent chain (used for PDF page-tree attribute inheritance). A visited
// set guards against a cyclical /Parent chain so the walk always
// terminates.
func (d *Dictionary) FindWithParent(key Name) *Variant {
	seen := make(map[*Dictionary]bool)
	cur := d
	for cur != nil && !seen[cur] {
		seen[cur] = true
		if v := cur.Find(key); v != nil {
			return v
		}
		parentVal := cur.Find("Parent")
		if parentVal == nil || parentVal.Kind() != KindDictionary {
			return nil
		}
		next, err := parentVal.AsDictionary()
		if err != nil {
			return nil
		}
		cur = next
	}
	return nil
}

// Keys returns the dictionary's keys in sorted order.
func (d *Dictionary) Keys() []Name {
	if d == nil {
		return nil
	}
	return d.keys
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Merge copies every key/value from other into d, overwriting on key
// collision. Returns d for chaining.
func (d *Dictionary) Merge(other *Dictionary) (*Dictionary, error) {
	if other == nil {
		return d, nil
	}
	for _, k := range other.Keys() {
		if _, err := d.AddOrReplace(k, other.Get(k)); err != nil {
			return d, err
		}
	}
	return d, nil
}

// Dirty reports whether the dictionary itself or any value is dirty.
func (d *Dictionary) Dirty() bool {
	if d.dirty {
		return true
	}
	for _, k := range d.keys {
		if d.values[k].Dirty() {
			return true
		}
	}
	return false
}

// SetDirty sets or clears the dictionary's dirty bit; clearing propagates
// to every value.
func (d *Dictionary) SetDirty(dirty bool) {
	d.dirty = dirty
	if !dirty {
		for _, k := range d.keys {
			d.values[k].SetDirty(false)
		}
	}
}

// Immutable reports whether the dictionary is currently immutable.
func (d *Dictionary) Immutable() bool {
	return d.immutable
}

// SetImmutable sets or clears the dictionary's immutable bit; setting it
// true propagates to every current value.
func (d *Dictionary) SetImmutable(immutable bool) {
	d.immutable = immutable
	if immutable {
		for _, k := range d.keys {
			d.values[k].SetImmutable(true)
		}
	}
}

// Clone returns a deep copy: every value is cloned, the clone starts clean
// and mutable, and it keeps no parent/owner link (a clone is a detached
// value until re-inserted somewhere).
func (d *Dictionary) Clone() *Dictionary {
	c := NewDictionary()
	for _, k := range d.keys {
		c.keys = append(c.keys, k)
		c.values[k] = d.values[k].Clone()
	}
	return c
}

// Equal deep-compares two dictionaries. Because both store keys in sorted
// order, this is a single lockstep pass over both key slices, advancing
// both indices together and exiting early on the first difference.
func (d *Dictionary) Equal(other *Dictionary) (bool, error) {
	if d == nil || other == nil {
		return d == other, nil
	}
	if len(d.keys) != len(other.keys) {
		return false, nil
	}
	for i := range d.keys {
		if d.keys[i] != other.keys[i] {
			return false, nil
		}
		eq, err := d.values[d.keys[i]].Equal(other.values[other.keys[i]])
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
func (d *Dictionary) String() string {
	var b strings.Builder
	b.WriteString("Dict(")
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.String())
		b.WriteString(": ")
		b.WriteString(d.values[k].String())
	}
	b.WriteString(")")
	return b.String()
}
