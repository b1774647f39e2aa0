/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopdfcore/pdfcore/common"
)

// Kind identifies which of the PDF primitive data kinds a Variant holds.
type Kind int

// The PDF primitive data kinds, plus Unknown for an uninitialized Variant.
// Unknown is never written and is never reachable from a user-visible
// handle once a constructor has run (constructors always move a Variant
// from Unknown to a concrete kind).
const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindInteger
	KindReal
	KindString
	KindHexString
	KindName
	KindArray
	KindDictionary
	KindReference
	KindRawData
)

// String returns the kind's name, e.g. "Integer".
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindHexString:
		return "HexString"
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindDictionary:
		return "Dictionary"
	case KindReference:
		return "Reference"
	case KindRawData:
		return "RawData"
	default:
		return "Unknown"
	}
}

// LoadFunc materializes the content of a delayed-load Variant. It must be
// idempotent in the sense that running it a second time (which never
// happens through the public API, but may happen if a caller holds onto a
// stale hook) would produce the same observable content. It must not
// reentrantly read or mutate the same Variant it is loading; doing so is a
// caller bug reported as ErrInternalLogic.
type LoadFunc func() (Variant, error)

// Variant is the tagged union over PDF's primitive data kinds. Exactly one
// of its payload fields is meaningful, selected by Kind. Variant also
// carries the dirty/immutable/delayed bookkeeping bits specified for the
// object model.
type Variant struct {
	kind Kind

	boolVal   bool
	intVal    int64
	realVal   float64
	bytesVal  []byte // String, HexString, RawData payload.
	nameVal   Name
	arr       *Array
	dict      *Dictionary
	reference Reference

	dirty     bool
	immutable bool

	// Delayed-load bookkeeping. loadOnce guarantees the hook runs
	// at-most-once even under concurrent callers; loading guards against
	// the hook reentrantly touching this same Variant.
	loadOnce sync.Once
	loadHook LoadFunc
	loadErr  error
	loading  bool
	loaded   bool
}

// NewNull returns a Variant of kind Null.
func NewNull() *Variant {
	return &Variant{kind: KindNull, loaded: true}
}

// NewBool returns a Variant of kind Bool.
func NewBool(v bool) *Variant {
	return &Variant{kind: KindBool, boolVal: v, loaded: true}
}

// NewInteger returns a Variant of kind Integer.
func NewInteger(v int64) *Variant {
	return &Variant{kind: KindInteger, intVal: v, loaded: true}
}

// NewReal returns a Variant of kind Real.
func NewReal(v float64) *Variant {
	return &Variant{kind: KindReal, realVal: v, loaded: true}
}

// NewString returns a Variant of kind String (literal serialization) from
// raw bytes.
func NewString(b []byte) *Variant {
	return &Variant{kind: KindString, bytesVal: append([]byte(nil), b...), loaded: true}
}

// NewHexString returns a Variant of kind HexString from raw bytes.
func NewHexString(b []byte) *Variant {
	return &Variant{kind: KindHexString, bytesVal: append([]byte(nil), b...), loaded: true}
}

// NewRawData returns a Variant of kind RawData: opaque pre-serialized bytes
// used for round-tripping content this core does not otherwise model.
// RawData is unwritable-and-unparseable by the standard Writer/parser (it
// exists purely so a caller can stash bytes on a Variant slot) and cannot
// be compared (see Equal).
func NewRawData(b []byte) *Variant {
	return &Variant{kind: KindRawData, bytesVal: append([]byte(nil), b...), loaded: true}
}

// NewNameVariant returns a Variant of kind Name.
func NewNameVariant(n Name) *Variant {
	return &Variant{kind: KindName, nameVal: n, loaded: true}
}

// NewReference returns a Variant of kind Reference.
func NewReference(ref Reference) *Variant {
	return &Variant{kind: KindReference, reference: ref, loaded: true}
}

// NewArrayVariant returns a Variant of kind Array wrapping arr.
func NewArrayVariant(arr *Array) *Variant {
	return &Variant{kind: KindArray, arr: arr, loaded: true}
}

// NewDictionaryVariant returns a Variant of kind Dictionary wrapping d.
func NewDictionaryVariant(d *Dictionary) *Variant {
	return &Variant{kind: KindDictionary, dict: d, loaded: true}
}

// NewDelayed returns a Variant that defers materializing its content until
// the first accessor or mutator call, which runs hook at-most-once. kind
// is the Variant's kind once loaded; it is fixed at construction time since
// a Variant's kind never changes, delayed or not.
func NewDelayed(kind Kind, hook LoadFunc) *Variant {
	return &Variant{kind: kind, loadHook: hook}
}

// Kind returns the Variant's fixed kind. It never changes after
// construction and does not require the delayed-load hook to have run.
func (v *Variant) Kind() Kind {
	return v.kind
}

// ensureLoaded runs the delayed-load hook at-most-once. Any public
// accessor or mutator must call this first.
func (v *Variant) ensureLoaded() error {
	if v.loaded {
		return v.loadErr
	}
	if v.loadHook == nil {
		v.loaded = true
		return nil
	}
	v.loadOnce.Do(func() {
		if v.loading {
			v.loadErr = newError(ErrKindInternalLogic, "reentrant delayed load on the same variant")
			v.loaded = true
			return
		}
		v.loading = true
		defer func() { v.loading = false }()

		loaded, err := v.loadHook()
		if err != nil {
			v.loadErr = err
			v.loaded = true
			return
		}
		if loaded.kind != v.kind {
			v.loadErr = newError(ErrKindInternalLogic,
				"delayed load hook produced kind %s, expected %s", loaded.kind, v.kind)
			v.loaded = true
			return
		}
		v.boolVal = loaded.boolVal
		v.intVal = loaded.intVal
		v.realVal = loaded.realVal
		v.bytesVal = loaded.bytesVal
		v.nameVal = loaded.nameVal
		v.arr = loaded.arr
		v.dict = loaded.dict
		v.reference = loaded.reference
		v.loaded = true
	})
	return v.loadErr
}

// IsDelayed reports whether v has not yet run its load hook.
func (v *Variant) IsDelayed() bool {
	return !v.loaded
}

// checkMutable fails with ErrChangeOnImmutable if v is marked immutable.
func (v *Variant) checkMutable() error {
	if v.immutable {
		return newError(ErrKindChangeOnImmutable, "mutation attempted on immutable %s variant", v.kind)
	}
	return nil
}

func (v *Variant) checkKind(want Kind) error {
	if v.kind != want {
		return newError(ErrKindInvalidDataType, "expected %s, got %s", want, v.kind)
	}
	return nil
}

// setDirty marks v dirty. A container's dirty bit is the OR of its own
// mutation state and its children's; since mutation always flows through
// the parent container's Set/Append/etc. API, marking v dirty here and
// letting containers also flag themselves is sufficient to keep that
// relationship intact.
func (v *Variant) setDirty() {
	v.dirty = true
}

// Dirty reports whether v (or, transitively for Array/Dictionary kinds,
// any of its elements) has been mutated since the last SetDirty(false).
func (v *Variant) Dirty() bool {
	if v.dirty {
		return true
	}
	switch v.kind {
	case KindArray:
		return v.arr != nil && v.arr.Dirty()
	case KindDictionary:
		return v.dict != nil && v.dict.Dirty()
	}
	return false
}

// SetDirty sets or clears the dirty bit. Clearing propagates to children
// only for Array/Dictionary kinds; scalar kinds have no children to
// propagate to.
func (v *Variant) SetDirty(dirty bool) {
	v.dirty = dirty
	if dirty {
		return
	}
	switch v.kind {
	case KindArray:
		if v.arr != nil {
			v.arr.SetDirty(false)
		}
	case KindDictionary:
		if v.dict != nil {
			v.dict.SetDirty(false)
		}
	}
}

// Immutable reports whether v is currently immutable.
func (v *Variant) Immutable() bool {
	return v.immutable
}

// SetImmutable sets or clears the immutable bit. Setting it to true
// propagates to every current descendant; clearing it only affects v
// itself, so existing descendants stay however they were.
func (v *Variant) SetImmutable(immutable bool) {
	v.immutable = immutable
	if !immutable {
		return
	}
	switch v.kind {
	case KindArray:
		if v.arr != nil {
			v.arr.SetImmutable(true)
		}
	case KindDictionary:
		if v.dict != nil {
			v.dict.SetImmutable(true)
		}
	}
}

// --- Accessors ---

// AsBool returns the Bool payload, or ErrInvalidDataType if v is not a Bool.
func (v *Variant) AsBool() (bool, error) {
	if err := v.ensureLoaded(); err != nil {
		return false, err
	}
	if err := v.checkKind(KindBool); err != nil {
		return false, err
	}
	return v.boolVal, nil
}

// AsInteger returns the numeric payload as an int64. Reading a Real as an
// Integer truncates toward zero and raises ErrValueOutOfRange on overflow;
// any other kind raises ErrInvalidDataType.
func (v *Variant) AsInteger() (int64, error) {
	if err := v.ensureLoaded(); err != nil {
		return 0, err
	}
	switch v.kind {
	case KindInteger:
		return v.intVal, nil
	case KindReal:
		if math.IsNaN(v.realVal) || math.IsInf(v.realVal, 0) ||
			v.realVal >= math.MaxInt64 || v.realVal < math.MinInt64 {
			return 0, newError(ErrKindValueOutOfRange, "real %v out of int64 range", v.realVal)
		}
		return int64(math.Trunc(v.realVal)), nil
	default:
		return 0, newError(ErrKindInvalidDataType, "expected Integer or Real, got %s", v.kind)
	}
}

// AsReal returns the numeric payload as a float64. Reading an Integer as a
// Real converts losslessly (within float64 precision); any other kind
// raises ErrInvalidDataType.
func (v *Variant) AsReal() (float64, error) {
	if err := v.ensureLoaded(); err != nil {
		return 0, err
	}
	switch v.kind {
	case KindReal:
		return v.realVal, nil
	case KindInteger:
		return float64(v.intVal), nil
	default:
		return 0, newError(ErrKindInvalidDataType, "expected Real or Integer, got %s", v.kind)
	}
}

// AsStringBytes returns the raw bytes of a String, HexString or RawData
// variant. RawData may be read back (it is merely unwritable/unparseable),
// so this accessor accepts it.
func (v *Variant) AsStringBytes() ([]byte, error) {
	if err := v.ensureLoaded(); err != nil {
		return nil, err
	}
	switch v.kind {
	case KindString, KindHexString, KindRawData:
		return append([]byte(nil), v.bytesVal...), nil
	default:
		return nil, newError(ErrKindInvalidDataType, "expected String/HexString/RawData, got %s", v.kind)
	}
}

// IsHex reports whether a String-kind variant is flagged for hex
// serialization. Only meaningful for KindString/KindHexString.
func (v *Variant) IsHex() bool {
	return v.kind == KindHexString
}

// AsName returns the Name payload.
func (v *Variant) AsName() (Name, error) {
	if err := v.ensureLoaded(); err != nil {
		return "", err
	}
	if err := v.checkKind(KindName); err != nil {
		return "", err
	}
	return v.nameVal, nil
}

// AsReference returns the Reference payload.
func (v *Variant) AsReference() (Reference, error) {
	if err := v.ensureLoaded(); err != nil {
		return Reference{}, err
	}
	if err := v.checkKind(KindReference); err != nil {
		return Reference{}, err
	}
	return v.reference, nil
}

// AsArray returns the underlying *Array. The returned Array is still owned
// by v; mutating it mutates v.
func (v *Variant) AsArray() (*Array, error) {
	if err := v.ensureLoaded(); err != nil {
		return nil, err
	}
	if err := v.checkKind(KindArray); err != nil {
		return nil, err
	}
	return v.arr, nil
}

// AsDictionary returns the underlying *Dictionary. The returned Dictionary
// is still owned by v; mutating it mutates v.
func (v *Variant) AsDictionary() (*Dictionary, error) {
	if err := v.ensureLoaded(); err != nil {
		return nil, err
	}
	if err := v.checkKind(KindDictionary); err != nil {
		return nil, err
	}
	return v.dict, nil
}

// --- Mutators ---

// SetBool overwrites a Bool variant's payload.
func (v *Variant) SetBool(b bool) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindBool); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.boolVal = b
	v.setDirty()
	return nil
}

// SetInteger overwrites an Integer variant's payload.
func (v *Variant) SetInteger(n int64) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindInteger); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.intVal = n
	v.setDirty()
	return nil
}

// SetReal overwrites a Real variant's payload.
func (v *Variant) SetReal(f float64) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindReal); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.realVal = f
	v.setDirty()
	return nil
}

// SetString overwrites a String variant's payload. It refuses to touch a
// HexString variant: the two are distinct kinds even though they share a
// byte-slice payload.
func (v *Variant) SetString(b []byte) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindString); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.bytesVal = append([]byte(nil), b...)
	v.setDirty()
	return nil
}

// SetHexString overwrites a HexString variant's payload.
func (v *Variant) SetHexString(b []byte) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindHexString); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.bytesVal = append([]byte(nil), b...)
	v.setDirty()
	return nil
}

// SetName overwrites a Name variant's payload.
func (v *Variant) SetName(n Name) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindName); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.nameVal = n
	v.setDirty()
	return nil
}

// SetReference overwrites a Reference variant's payload. It accepts the
// mutation only when v is already a Reference kind.
func (v *Variant) SetReference(ref Reference) error {
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	if err := v.checkKind(KindReference); err != nil {
		return err
	}
	if err := v.checkMutable(); err != nil {
		return err
	}
	v.reference = ref
	v.setDirty()
	return nil
}

// Clone returns a deep copy of v: owned payloads (bytes, Array, Dictionary)
// are copied, not shared. The clone starts with dirty=false and
// immutable=false regardless of v's state, since a clone is a fresh value
// the caller now owns, and mutating the clone must not mutate the
// original.
func (v *Variant) Clone() *Variant {
	if err := v.ensureLoaded(); err != nil {
		// Preserve the failed-load state on the clone too.
		c := &Variant{kind: v.kind, loadErr: err, loaded: true}
		return c
	}
	c := &Variant{kind: v.kind, loaded: true}
	switch v.kind {
	case KindBool:
		c.boolVal = v.boolVal
	case KindInteger:
		c.intVal = v.intVal
	case KindReal:
		c.realVal = v.realVal
	case KindString, KindHexString, KindRawData:
		c.bytesVal = append([]byte(nil), v.bytesVal...)
	case KindName:
		c.nameVal = v.nameVal
	case KindReference:
		c.reference = v.reference
	case KindArray:
		c.arr = v.arr.Clone()
	case KindDictionary:
		c.dict = v.dict.Clone()
	}
	return c
}

// Equal deep-compares v and other by kind and content. A type mismatch
// yields (false, nil), not an error. Comparing an Unknown or RawData
// variant raises ErrInvalidDataType.
func (v *Variant) Equal(other *Variant) (bool, error) {
	if v.kind == KindUnknown || v.kind == KindRawData {
		return false, newError(ErrKindInvalidDataType, "cannot compare %s variant", v.kind)
	}
	if other == nil {
		return false, nil
	}
	if other.kind == KindUnknown || other.kind == KindRawData {
		return false, newError(ErrKindInvalidDataType, "cannot compare %s variant", other.kind)
	}
	if err := v.ensureLoaded(); err != nil {
		return false, err
	}
	if err := other.ensureLoaded(); err != nil {
		return false, err
	}
	if v.kind != other.kind {
		return false, nil
	}
	switch v.kind {
	case KindNull:
		return true, nil
	case KindBool:
		return v.boolVal == other.boolVal, nil
	case KindInteger:
		return v.intVal == other.intVal, nil
	case KindReal:
		return v.realVal == other.realVal, nil
	case KindString, KindHexString:
		return string(v.bytesVal) == string(other.bytesVal), nil
	case KindName:
		return v.nameVal == other.nameVal, nil
	case KindReference:
		return v.reference == other.reference, nil
	case KindArray:
		return v.arr.Equal(other.arr)
	case KindDictionary:
		return v.dict.Equal(other.dict)
	default:
		return false, newError(ErrKindInvalidDataType, "cannot compare %s variant", v.kind)
	}
}

// String returns a debug representation of v (not the serialized form; see
// Writer for that).
func (v *Variant) String() string {
	if v.IsDelayed() {
		return fmt.Sprintf("%s(delayed)", v.kind)
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.boolVal)
	case KindInteger:
		return fmt.Sprintf("%d", v.intVal)
	case KindReal:
		return fmt.Sprintf("%f", v.realVal)
	case KindString, KindHexString, KindRawData:
		return string(v.bytesVal)
	case KindName:
		return v.nameVal.String()
	case KindReference:
		return v.reference.String()
	case KindArray:
		return v.arr.String()
	case KindDictionary:
		return v.dict.String()
	default:
		common.Log.Debug("String() called on %s variant", v.kind)
		return v.kind.String()
	}
}
