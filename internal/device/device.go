/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package device provides the random-access byte-device abstraction the
// PDF parser layer and the TrueType/OpenType subsetter read through.
package device

import (
	"io"

	"github.com/gopdfcore/pdfcore/core"
)

// Device is a random-access byte source with one byte of lookahead.
// Implementations are not required to be safe for concurrent use.
type Device interface {
	// Read implements io.Reader.
	Read(p []byte) (int, error)

	// Seek implements io.Seeker.
	Seek(offset int64, whence int) (int64, error)

	// Tell returns the current read offset, or an error if the device
	// does not track one (e.g. a concatenation of other devices).
	Tell() (int64, error)

	// TryGetChar reads and consumes one byte, reporting false instead of
	// an error at end of input.
	TryGetChar() (byte, bool)

	// Look returns the next byte without consuming it. It returns io.EOF
	// once no further bytes are available.
	Look() (byte, error)
}

// CanvasDevice adapts a single io.ReadWriteSeeker (typically a
// *filebuffer.Buffer holding an in-memory font program or PDF stream body)
// into a Device.
type CanvasDevice struct {
	rs       io.ReadWriteSeeker
	lookByte byte
	lookErr  error
	haveLook bool
}

// NewCanvasDevice wraps rs.
func NewCanvasDevice(rs io.ReadWriteSeeker) *CanvasDevice {
	return &CanvasDevice{rs: rs}
}

// Read implements Device, serving any byte buffered by a prior Look call
// before falling through to the underlying reader.
func (d *CanvasDevice) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := 0
	if d.haveLook {
		if d.lookErr != nil {
			err := d.lookErr
			d.lookErr = nil
			d.haveLook = false
			return 0, err
		}
		p[0] = d.lookByte
		d.haveLook = false
		n = 1
		if len(p) == 1 {
			return 1, nil
		}
	}
	m, err := d.rs.Read(p[n:])
	return n + m, err
}

// Seek implements Device. Seeking invalidates any buffered lookahead byte.
func (d *CanvasDevice) Seek(offset int64, whence int) (int64, error) {
	d.haveLook = false
	d.lookErr = nil
	return d.rs.Seek(offset, whence)
}

// Tell reports the current offset.
func (d *CanvasDevice) Tell() (int64, error) {
	pos, err := d.rs.Seek(0, io.SeekCurrent)
	if err == nil && d.haveLook && d.lookErr == nil {
		// The byte buffered by Look has not been consumed yet.
		pos--
	}
	return pos, err
}

// TryGetChar reads one byte, reporting false at end of input.
func (d *CanvasDevice) TryGetChar() (byte, bool) {
	if d.haveLook {
		d.haveLook = false
		if d.lookErr != nil {
			return 0, false
		}
		return d.lookByte, true
	}
	var buf [1]byte
	n, err := d.rs.Read(buf[:])
	if n == 0 || err != nil {
		return 0, false
	}
	return buf[0], true
}

// Look returns the next byte without consuming it.
func (d *CanvasDevice) Look() (byte, error) {
	if !d.haveLook {
		var buf [1]byte
		n, err := d.rs.Read(buf[:])
		if n == 1 {
			d.lookByte = buf[0]
		}
		d.lookErr = err
		d.haveLook = true
		if n == 0 && err == nil {
			d.lookErr = io.EOF
		}
	}
	if d.lookErr != nil {
		return 0, d.lookErr
	}
	return d.lookByte, nil
}

var _ Device = (*CanvasDevice)(nil)

// CanvasInputDevice concatenates a fixed sequence of underlying devices
// and exposes the concatenation as a single read-only stream. It advances
// to the next device transparently once the current one is exhausted.
// Tell is unsupported: the concatenation's absolute offset does not
// correspond to any one underlying device's own notion of position.
type CanvasInputDevice struct {
	parts []Device
	idx   int
}

// NewCanvasInputDevice concatenates parts, in order.
func NewCanvasInputDevice(parts ...Device) *CanvasInputDevice {
	return &CanvasInputDevice{parts: parts}
}

// advance skips over exhausted parts, returning the current live part or
// nil once every part has been exhausted.
func (d *CanvasInputDevice) advance() Device {
	for d.idx < len(d.parts) {
		p := d.parts[d.idx]
		if _, err := p.Look(); err == nil {
			return p
		}
		d.idx++
	}
	return nil
}

// Read implements Device, pulling bytes from the current part and rolling
// over to the next one transparently when it is exhausted.
func (d *CanvasInputDevice) Read(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		part := d.advance()
		if part == nil {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
		n, err := part.Read(p[total:])
		total += n
		if n == 0 && err != nil {
			d.idx++
			continue
		}
		if err != nil && err != io.EOF {
			return total, err
		}
	}
	return total, nil
}

// Seek is unsupported on a concatenated device.
func (d *CanvasInputDevice) Seek(offset int64, whence int) (int64, error) {
	return 0, core.ErrNotImplemented
}

// Tell is unsupported on a concatenated device.
func (d *CanvasInputDevice) Tell() (int64, error) {
	return 0, core.ErrNotImplemented
}

// TryGetChar reads one byte, reporting false at end of input.
func (d *CanvasInputDevice) TryGetChar() (byte, bool) {
	var buf [1]byte
	n, err := d.Read(buf[:])
	if n == 0 || err != nil {
		return 0, false
	}
	return buf[0], true
}

// Look returns the next byte across the concatenation without consuming
// it, reporting io.EOF once every underlying part is exhausted.
func (d *CanvasInputDevice) Look() (byte, error) {
	part := d.advance()
	if part == nil {
		return 0, io.EOF
	}
	return part.Look()
}

var _ Device = (*CanvasInputDevice)(nil)
