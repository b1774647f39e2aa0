/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// ObjectCollection is the single owner and resolver of a document's
// IndirectObjects. Every Array/Dictionary reachable from an object the
// collection owns has its owner pointer set to this collection, so
// Array.FindAt/Dictionary.Find can transparently dereference a Reference
// without the caller needing to thread the collection through by hand.
//
// Besides the reference->object map, the collection keeps the order
// objects were added in, independent of object number, so a document
// reconstructed from a file whose objects were not laid out in strictly
// increasing object-number order still serializes its cross-reference
// table in the same order on round trip.
type ObjectCollection struct {
	objects map[Reference]*IndirectObject
	order   []Reference
	nextNum uint32
}

// NewObjectCollection returns an empty collection. Object numbers are
// allocated starting at 1; 0 is reserved (the PDF free-list head).
func NewObjectCollection() *ObjectCollection {
	return &ObjectCollection{objects: make(map[Reference]*IndirectObject), nextNum: 1}
}

// Resolve looks up the object bound to ref, or nil if none is registered.
func (c *ObjectCollection) Resolve(ref Reference) *IndirectObject {
	if c == nil {
		return nil
	}
	return c.objects[ref]
}

// Get is an alias for Resolve, matching the common Go map-accessor idiom.
func (c *ObjectCollection) Get(ref Reference) *IndirectObject {
	return c.Resolve(ref)
}

// adoptValue walks value's Array/Dictionary structure, setting owner to c
// on every container reachable without crossing an existing Reference
// boundary (a Reference is resolved through the collection, not walked
// into directly).
func (c *ObjectCollection) adoptValue(value *Variant) {
	if value == nil {
		return
	}
	switch value.Kind() {
	case KindArray:
		arr := value.arr
		if arr == nil || arr.owner == c {
			return
		}
		arr.owner = c
		for _, el := range arr.elements {
			c.adoptValue(el)
		}
	case KindDictionary:
		dict := value.dict
		if dict == nil || dict.owner == c {
			return
		}
		dict.owner = c
		for _, k := range dict.keys {
			c.adoptValue(dict.values[k])
		}
	}
}

// Add registers value under a freshly allocated Reference (generation 0)
// and returns the new IndirectObject.
func (c *ObjectCollection) Add(value *Variant) *IndirectObject {
	ref := Reference{ObjectNumber: c.nextNum, GenerationNumber: 0}
	c.nextNum++
	return c.AddWithReference(ref, value)
}

// AddWithReference registers value under an explicit reference, e.g. when
// reconstructing a document read from a file. It overwrites any existing
// object at the same reference. nextNum is advanced so future Add calls
// never collide with an explicitly assigned object number.
func (c *ObjectCollection) AddWithReference(ref Reference, value *Variant) *IndirectObject {
	obj := newIndirectObject(c, ref, value)
	if _, exists := c.objects[ref]; !exists {
		c.order = append(c.order, ref)
	}
	c.objects[ref] = obj
	c.adoptValue(value)
	if ref.ObjectNumber >= c.nextNum {
		c.nextNum = ref.ObjectNumber + 1
	}
	return obj
}

// Remove deletes the object at ref, reporting whether it was present.
func (c *ObjectCollection) Remove(ref Reference) bool {
	if _, found := c.objects[ref]; !found {
		return false
	}
	delete(c.objects, ref)
	for i, r := range c.order {
		if r == ref {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered objects.
func (c *ObjectCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.objects)
}

// References returns every registered reference in the order objects
// were added to the collection (see ObjectCollection).
func (c *ObjectCollection) References() []Reference {
	refs := make([]Reference, len(c.order))
	copy(refs, c.order)
	return refs
}

// Objects returns every registered object, in the same order as
// References.
func (c *ObjectCollection) Objects() []*IndirectObject {
	refs := c.References()
	out := make([]*IndirectObject, len(refs))
	for i, ref := range refs {
		out[i] = c.objects[ref]
	}
	return out
}
