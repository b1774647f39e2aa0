/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterScalarsCompactVsClean(t *testing.T) {
	cases := []struct {
		v    *Variant
		want string
	}{
		{NewNull(), "null"},
		{NewBool(true), "true"},
		{NewBool(false), "false"},
		{NewInteger(42), "42"},
		{NewInteger(-7), "-7"},
		{NewString([]byte("hi")), "(hi)"},
		{NewHexString([]byte{0xAB, 0xCD}), "<abcd>"},
		{NewNameVariant(Name("Foo")), "/Foo"},
		{NewReference(Reference{ObjectNumber: 3, GenerationNumber: 0}), "3 0 R"},
	}
	for _, mode := range []WriteMode{Compact, Clean} {
		w := NewWriter(mode)
		for _, c := range cases {
			got, err := w.WriteVariantString(c.v)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		}
	}
}

func TestWriterRealFormatting(t *testing.T) {
	w := NewWriter(Compact)

	got, err := w.WriteVariantString(NewReal(3.5))
	require.NoError(t, err)
	assert.Equal(t, "3.5", got)

	got, err = w.WriteVariantString(NewReal(3.0))
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	got, err = w.WriteVariantString(NewReal(0))
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestWriterLiteralStringEscaping(t *testing.T) {
	w := NewWriter(Compact)
	got, err := w.WriteVariantString(NewString([]byte("a(b)c\\d\ne")))
	require.NoError(t, err)
	assert.Equal(t, `(a\(b\)c\\d\ne)`, got)
}

func TestWriterArrayCompactVsClean(t *testing.T) {
	arr := NewArray(NewInteger(1), NewInteger(2), NewInteger(3))
	v := NewArrayVariant(arr)

	compact := NewWriter(Compact)
	got, err := compact.WriteVariantString(v)
	require.NoError(t, err)
	assert.Equal(t, "[1 2 3]", got)

	clean := NewWriter(Clean)
	got, err = clean.WriteVariantString(v)
	require.NoError(t, err)
	assert.Equal(t, "[ 1 2 3 ]", got)
}

func TestWriterCompactModeSeparatesAmbiguousTokens(t *testing.T) {
	// Adjacent numeric tokens must not merge into one token.
	arr := NewArray(NewInteger(1), NewInteger(-2))
	got, err := NewWriter(Compact).WriteVariantString(NewArrayVariant(arr))
	require.NoError(t, err)
	assert.Equal(t, "[1 -2]", got)
}

func TestWriterDictionaryTypeKeyFirst(t *testing.T) {
	d := NewDictionary()
	require.NoError(t, d.Set("Count", NewInteger(3)))
	require.NoError(t, d.Set("Type", NewNameVariant(Name("Catalog"))))
	require.NoError(t, d.Set("A", NewInteger(1)))

	got, err := NewWriter(Compact).WriteVariantString(NewDictionaryVariant(d))
	require.NoError(t, err)
	assert.Equal(t, "<</Type/Catalog/A 1/Count 3>>", got)
}

func TestWriterDictionaryUpToStopsBeforeKey(t *testing.T) {
	d := NewDictionary()
	require.NoError(t, d.Set("A", NewInteger(1)))
	require.NoError(t, d.Set("Self", NewInteger(99)))

	got, err := NewWriter(Compact).WriteDictionaryUpTo(d, "Self")
	require.NoError(t, err)
	assert.Equal(t, "<</A 1>>", got)
}

func TestWriterIndirectObjectNonStream(t *testing.T) {
	coll := NewObjectCollection()
	obj := coll.Add(NewInteger(7))

	var buf bytes.Buffer
	require.NoError(t, NewWriter(Compact).WriteIndirectObject(&buf, obj))
	assert.Equal(t, "1 0 obj 7 endobj", buf.String())
}

func TestWriterIndirectObjectStream(t *testing.T) {
	coll := NewObjectCollection()
	dict := NewDictionary()
	require.NoError(t, dict.Set("Length", NewInteger(5)))
	obj := coll.Add(NewDictionaryVariant(dict))
	require.NoError(t, obj.SetStreamRaw([]byte("hello")))

	var buf bytes.Buffer
	require.NoError(t, NewWriter(Compact).WriteIndirectObject(&buf, obj))
	assert.Equal(t, "1 0 obj <</Length 5>> stream\nhello\nendstream endobj", buf.String())
}

type recordingEncrypt struct {
	calls int
}

func (r *recordingEncrypt) EncryptBytes(plaintext []byte, ref Reference) ([]byte, error) {
	r.calls++
	out := append([]byte(nil), plaintext...)
	for i := range out {
		out[i] ^= 0xFF
	}
	return out, nil
}

func (r *recordingEncrypt) DecryptBytes(ciphertext []byte, ref Reference) ([]byte, error) {
	return r.EncryptBytes(ciphertext, ref)
}

func TestWriterWithEncryptTransformsStrings(t *testing.T) {
	enc := &recordingEncrypt{}
	w := NewWriter(Compact).WithEncrypt(enc)

	got, err := w.WriteVariantString(NewString([]byte{0x00}))
	require.NoError(t, err)
	assert.Equal(t, "(\xff)", got)
	assert.Equal(t, 1, enc.calls)
}
