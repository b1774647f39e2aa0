/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"fmt"
)

// Reference identifies an indirect object by its (object number,
// generation number) pair. Two references are equal iff both fields
// match. (0, 0) is not a valid indirect-object identity, but is legal to
// hold as a null-like placeholder (e.g. a zero-value Reference before an
// ObjectCollection assigns one).
type Reference struct {
	ObjectNumber     uint32
	GenerationNumber uint16
}

// IsZero reports whether ref is the (0, 0) placeholder.
func (ref Reference) IsZero() bool {
	return ref.ObjectNumber == 0 && ref.GenerationNumber == 0
}

// String returns a debug representation of ref.
func (ref Reference) String() string {
	return fmt.Sprintf("Ref(%d %d)", ref.ObjectNumber, ref.GenerationNumber)
}

// WriteString outputs ref as it is written to a PDF file: "obj gen R" with
// single spaces.
func (ref Reference) WriteString() string {
	return fmt.Sprintf("%d %d R", ref.ObjectNumber, ref.GenerationNumber)
}
