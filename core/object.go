/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// IndirectObject gives a Variant identity within a document: a Reference
// (object number, generation number) plus, for stream objects, the raw
// encoded stream bytes that follow the dictionary in the serialized file.
type IndirectObject struct {
	reference Reference
	value     *Variant
	streamRaw []byte // Non-nil only for a stream object (dictionary + data).
	collection *ObjectCollection
}

// newIndirectObject constructs an IndirectObject bound to ref and value.
// Unexported: objects are created through an ObjectCollection so the
// collection can track identity and wire up ownership.
func newIndirectObject(collection *ObjectCollection, ref Reference, value *Variant) *IndirectObject {
	return &IndirectObject{reference: ref, value: value, collection: collection}
}

// Reference returns the object's identity.
func (o *IndirectObject) Reference() Reference {
	if o == nil {
		return Reference{}
	}
	return o.reference
}

// Variant returns the object's value.
func (o *IndirectObject) Variant() *Variant {
	if o == nil {
		return nil
	}
	return o.value
}

// IsStream reports whether the object carries raw stream data alongside its
// dictionary.
func (o *IndirectObject) IsStream() bool {
	return o != nil && o.streamRaw != nil
}

// StreamRaw returns the object's raw (still filter-encoded) stream bytes,
// or nil if this object is not a stream.
func (o *IndirectObject) StreamRaw() []byte {
	if o == nil {
		return nil
	}
	return o.streamRaw
}

// SetStreamRaw attaches raw stream bytes to the object. value must be a
// Dictionary variant, since only a dictionary can carry a PDF stream.
func (o *IndirectObject) SetStreamRaw(data []byte) error {
	if o.value == nil || o.value.Kind() != KindDictionary {
		return newError(ErrKindInvalidDataType, "stream data requires a Dictionary-kind object, got %s", o.value.Kind())
	}
	o.streamRaw = append([]byte(nil), data...)
	return nil
}

// Collection returns the ObjectCollection that owns this object, or nil if
// it is detached.
func (o *IndirectObject) Collection() *ObjectCollection {
	if o == nil {
		return nil
	}
	return o.collection
}

// Dirty reports whether the object's value has been mutated since the last
// SetDirty(false).
func (o *IndirectObject) Dirty() bool {
	return o != nil && o.value.Dirty()
}

// SetDirty sets or clears the object's dirty state by delegating to its
// value.
func (o *IndirectObject) SetDirty(dirty bool) {
	if o == nil || o.value == nil {
		return
	}
	o.value.SetDirty(dirty)
}

// String returns a debug representation.
func (o *IndirectObject) String() string {
	if o == nil {
		return "<nil indirect object>"
	}
	return o.reference.String() + " = " + o.value.String()
}
