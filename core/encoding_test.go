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

func streamObj(t *testing.T, raw []byte) *IndirectObject {
	t.Helper()
	coll := NewObjectCollection()
	obj := coll.Add(NewDictionaryVariant(NewDictionary()))
	require.NoError(t, obj.SetStreamRaw(raw))
	return obj
}

var roundTripSamples = [][]byte{
	{},
	{0},
	[]byte("M"),
	[]byte("Ma"),
	[]byte("Man"),
	[]byte("Man "),
	{0, 0, 0, 0},
	[]byte("the quick brown fox jumps over the lazy dog, 12345"),
	{0xFF, 0xFE, 0xFD, 0x00, 0x01, 0x02, 0xAA, 0xBB, 0xCC},
}

func TestRawEncoderIsIdentity(t *testing.T) {
	enc := NewRawEncoder()
	assert.Equal(t, FilterNameRaw, enc.FilterName())
	assert.Nil(t, enc.MakeDecodeParams())
	assert.Empty(t, enc.MakeStreamDict().Keys())

	for _, data := range roundTripSamples {
		got, err := enc.EncodeBytes(data)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}

	obj := streamObj(t, []byte("raw bytes"))
	out, err := enc.DecodeStream(obj)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw bytes"), out)
}

func TestASCIIHexRoundTrip(t *testing.T) {
	enc := NewASCIIHexEncoder()
	for _, data := range roundTripSamples {
		encoded, err := enc.EncodeBytes(data)
		require.NoError(t, err)
		decoded, err := enc.DecodeBytes(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestASCIIHexDecodeOddDigitsPadded(t *testing.T) {
	enc := NewASCIIHexEncoder()
	got, err := enc.DecodeBytes([]byte("ABC>"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xC0}, got)
}

func TestASCIIHexDecodeRejectsInvalidCharacter(t *testing.T) {
	enc := NewASCIIHexEncoder()
	_, err := enc.DecodeBytes([]byte("zz>"))
	assert.Error(t, err)
}

func TestASCII85KnownVector(t *testing.T) {
	enc := NewASCII85Encoder()
	got, err := enc.EncodeBytes([]byte("Man "))
	require.NoError(t, err)
	assert.Equal(t, "9jqo^~>", string(got))

	decoded, err := enc.DecodeBytes(got)
	require.NoError(t, err)
	assert.Equal(t, []byte("Man "), decoded)
}

func TestASCII85RoundTrip(t *testing.T) {
	enc := NewASCII85Encoder()
	for _, data := range roundTripSamples {
		encoded, err := enc.EncodeBytes(data)
		require.NoError(t, err)
		decoded, err := enc.DecodeBytes(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestRunLengthRoundTrip(t *testing.T) {
	enc := NewRunLengthEncoder()
	for _, data := range roundTripSamples {
		encoded, err := enc.EncodeBytes(data)
		require.NoError(t, err)
		decoded, err := enc.DecodeBytes(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestRunLengthRoundTripLongRuns(t *testing.T) {
	enc := NewRunLengthEncoder()
	run := make([]byte, 300)
	for i := range run {
		run[i] = 'x'
	}
	literal := make([]byte, 300)
	for i := range literal {
		literal[i] = byte(i)
	}
	data := append(append([]byte(nil), run...), literal...)

	encoded, err := enc.EncodeBytes(data)
	require.NoError(t, err)
	decoded, err := enc.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestFlateRoundTripNoPredictor(t *testing.T) {
	enc := NewFlateEncoder()
	data := []byte("the quick brown fox jumps over the lazy dog")

	encoded, err := enc.EncodeBytes(data)
	require.NoError(t, err)
	decoded, err := enc.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestFlateDecodeStreamWithPNGSubPredictor(t *testing.T) {
	enc := NewFlateEncoder()
	enc.SetPredictor(4) // 4 samples per row, 1 color component, 8 bpp

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8} // two rows of 4
	obj := streamObj(t, nil)
	encoded, err := enc.EncodeBytes(data)
	require.NoError(t, err)
	require.NoError(t, obj.SetStreamRaw(encoded))

	decoded, err := enc.DecodeStream(obj)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestFlateMakeDecodeParamsReflectsPredictor(t *testing.T) {
	enc := NewFlateEncoder()
	assert.Nil(t, enc.MakeDecodeParams())

	enc.SetPredictor(17)
	dp := enc.MakeDecodeParams()
	require.NotNil(t, dp)
	d, err := dp.AsDictionary()
	require.NoError(t, err)
	columns, err := d.Get("Columns").AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 17, columns)
}

func TestLZWRoundTripEarlyChangeZero(t *testing.T) {
	enc := NewLZWEncoder()
	enc.EarlyChange = 0
	data := []byte("aaaaaaaaaaaaaaaaaaaabbbbbbbbbbbbbbbbbbbbbcccccccccccccc")

	encoded, err := enc.EncodeBytes(data)
	require.NoError(t, err)
	decoded, err := enc.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestLZWEncodeEarlyChangeOneUnsupported(t *testing.T) {
	enc := NewLZWEncoder()
	_, err := enc.EncodeBytes([]byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedEncodingParameters)
}

func TestMultiEncoderChainsInOrder(t *testing.T) {
	multi := NewMultiEncoder()
	multi.AddEncoder(NewASCIIHexEncoder())
	multi.AddEncoder(NewFlateEncoder())

	data := []byte("chained filter payload")
	encoded, err := multi.EncodeBytes(data)
	require.NoError(t, err)

	decoded, err := multi.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	arr, err := multi.FilterNameVariant().AsArray()
	require.NoError(t, err)
	require.Equal(t, 2, arr.Len())
	n0, _ := arr.Get(0).AsName()
	n1, _ := arr.Get(1).AsName()
	assert.Equal(t, Name(FilterNameASCIIHex), n0)
	assert.Equal(t, Name(FilterNameFlate), n1)
}

func TestNewEncoderFromStreamDictSingleName(t *testing.T) {
	coll := NewObjectCollection()
	dict := NewDictionary()
	require.NoError(t, dict.Set("Filter", NewNameVariant(Name(FilterNameFlate))))
	obj := coll.Add(NewDictionaryVariant(dict))

	enc, err := NewEncoderFromStreamDict(obj)
	require.NoError(t, err)
	assert.Equal(t, FilterNameFlate, enc.FilterName())
}

func TestNewEncoderFromStreamDictArrayOfNames(t *testing.T) {
	coll := NewObjectCollection()
	dict := NewDictionary()
	arr := NewArray(NewNameVariant(Name(FilterNameASCIIHex)), NewNameVariant(Name(FilterNameFlate)))
	require.NoError(t, dict.Set("Filter", NewArrayVariant(arr)))
	obj := coll.Add(NewDictionaryVariant(dict))

	enc, err := NewEncoderFromStreamDict(obj)
	require.NoError(t, err)
	multi, ok := enc.(*MultiEncoder)
	require.True(t, ok)
	assert.Equal(t, FilterNameASCIIHex+" "+FilterNameFlate, multi.FilterName())
}

func TestNewEncoderFromStreamDictNoFilterIsRaw(t *testing.T) {
	coll := NewObjectCollection()
	obj := coll.Add(NewDictionaryVariant(NewDictionary()))

	enc, err := NewEncoderFromStreamDict(obj)
	require.NoError(t, err)
	assert.Equal(t, FilterNameRaw, enc.FilterName())
}

func TestNewEncoderFromStreamDictUnknownFilterIsError(t *testing.T) {
	coll := NewObjectCollection()
	dict := NewDictionary()
	require.NoError(t, dict.Set("Filter", NewNameVariant(Name("BogusDecode"))))
	obj := coll.Add(NewDictionaryVariant(dict))

	_, err := NewEncoderFromStreamDict(obj)
	assert.True(t, IsErrorKind(err, ErrKindUnsupportedFilter))
}
