/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package device

import (
	"io"
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasDeviceReadAndLook(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte("hello")))

	b, err := d.Look()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), b)

	// Look is idempotent: repeating it returns the same byte without
	// consuming it.
	b, err = d.Look()
	require.NoError(t, err)
	assert.Equal(t, byte('h'), b)

	buf := make([]byte, 5)
	n, err := d.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestCanvasDeviceTryGetChar(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte("ab")))

	c, ok := d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('a'), c)

	c, ok = d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('b'), c)

	_, ok = d.TryGetChar()
	assert.False(t, ok)
}

func TestCanvasDeviceLookThenTryGetCharConsumesBufferedByte(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte("xy")))

	b, err := d.Look()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)

	c, ok := d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('x'), c)

	c, ok = d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('y'), c)
}

func TestCanvasDeviceSeekInvalidatesLookahead(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte("abcdef")))

	_, err := d.Look()
	require.NoError(t, err)

	off, err := d.Seek(3, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 3, off)

	c, ok := d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('d'), c)
}

func TestCanvasDeviceTell(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte("abcdef")))
	_, err := d.Seek(2, io.SeekStart)
	require.NoError(t, err)

	pos, err := d.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 2, pos)
}

func TestCanvasDeviceLookAtEOF(t *testing.T) {
	d := NewCanvasDevice(filebuffer.New([]byte{}))
	_, err := d.Look()
	assert.Equal(t, io.EOF, err)

	_, ok := d.TryGetChar()
	assert.False(t, ok)
}

func TestCanvasInputDeviceConcatenatesParts(t *testing.T) {
	d := NewCanvasInputDevice(
		NewCanvasDevice(filebuffer.New([]byte("abc"))),
		NewCanvasDevice(filebuffer.New([]byte("def"))),
	)

	out, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(out))
}

func TestCanvasInputDeviceLookCrossesPartBoundary(t *testing.T) {
	d := NewCanvasInputDevice(
		NewCanvasDevice(filebuffer.New([]byte("a"))),
		NewCanvasDevice(filebuffer.New([]byte("bc"))),
	)

	c, ok := d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('a'), c)

	b, err := d.Look()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)

	c, ok = d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('b'), c)
}

func TestCanvasInputDeviceSkipsEmptyParts(t *testing.T) {
	d := NewCanvasInputDevice(
		NewCanvasDevice(filebuffer.New([]byte{})),
		NewCanvasDevice(filebuffer.New([]byte("x"))),
	)

	c, ok := d.TryGetChar()
	require.True(t, ok)
	assert.Equal(t, byte('x'), c)
}

func TestCanvasInputDeviceSeekAndTellUnsupported(t *testing.T) {
	d := NewCanvasInputDevice(NewCanvasDevice(filebuffer.New([]byte("x"))))

	_, err := d.Seek(0, io.SeekStart)
	require.Error(t, err)

	_, err = d.Tell()
	require.Error(t, err)
}

func TestCanvasInputDeviceLookAtFullyExhausted(t *testing.T) {
	d := NewCanvasInputDevice(NewCanvasDevice(filebuffer.New([]byte{})))

	_, err := d.Look()
	assert.Equal(t, io.EOF, err)

	_, ok := d.TryGetChar()
	assert.False(t, ok)
}
