/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *Variant {
	t.Helper()
	v, err := NewParser(strings.NewReader(src)).ParseObject()
	require.NoError(t, err)
	return v
}

func TestParserNames(t *testing.T) {
	cases := map[string]string{
		"/Name1":                       "Name1",
		"/A;Name_With-Various***Chars": "A;Name_With-Various***Chars",
		"/Lime#20Green":                "Lime Green",
		"/paired#28#29parens":          "paired()parens",
		"/#3CBC88#3E":                  "<BC88>",
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			v := parseOne(t, src)
			name, err := v.AsName()
			require.NoError(t, err)
			assert.Equal(t, Name(want), name)
		})
	}
}

func TestParserLiteralStrings(t *testing.T) {
	cases := map[string]string{
		`(hello)`:               "hello",
		`(line1\nline2)`:        "line1\nline2",
		`(nested (parens) here)`: "nested (parens) here",
		`(escaped \) paren)`:    "escaped ) paren",
		`(octal \101\102)`:      "octal AB",
		"(line\\\ncont)":        "linecont",
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			v := parseOne(t, src)
			b, err := v.AsStringBytes()
			require.NoError(t, err)
			assert.Equal(t, want, string(b))
			assert.False(t, v.IsHex())
		})
	}
}

func TestParserHexStrings(t *testing.T) {
	v := parseOne(t, "<48656C6C6F>")
	b, err := v.AsStringBytes()
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(b))
	assert.True(t, v.IsHex())

	// Odd-length hex is padded with a trailing zero nibble.
	v = parseOne(t, "<48656C6C6>")
	b, err = v.AsStringBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x65, 0x6C, 0x6C, 0x60}, b)

	v = parseOne(t, "<48 65 6C 6C 6F>")
	b, err = v.AsStringBytes()
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(b))
}

func TestParserNumbers(t *testing.T) {
	n, err := parseOne(t, "123").AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 123, n)

	n, err = parseOne(t, "-17").AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, -17, n)

	f, err := parseOne(t, "3.1415").AsReal()
	require.NoError(t, err)
	assert.InDelta(t, 3.1415, f, 1e-9)

	f, err = parseOne(t, "-0.5").AsReal()
	require.NoError(t, err)
	assert.InDelta(t, -0.5, f, 1e-9)
}

func TestParserBoolAndNull(t *testing.T) {
	b, err := parseOne(t, "true").AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = parseOne(t, "false").AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	v := parseOne(t, "null")
	assert.Equal(t, KindNull, v.Kind())
}

func TestParserReference(t *testing.T) {
	ref, err := parseOne(t, "12 0 R").AsReference()
	require.NoError(t, err)
	assert.Equal(t, Reference{ObjectNumber: 12, GenerationNumber: 0}, ref)

	ref, err = parseOne(t, "7 3 R").AsReference()
	require.NoError(t, err)
	assert.Equal(t, Reference{ObjectNumber: 7, GenerationNumber: 3}, ref)
}

func TestParserReferenceLookalikeFallsBackToNumber(t *testing.T) {
	// "12 0 Rx" is not a reference: 'R' must end the token, so only the
	// leading integer is consumed as the object.
	n, err := parseOne(t, "12 0 Rx").AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
}

func TestParserArray(t *testing.T) {
	v := parseOne(t, "[1 2 (three) /Four]")
	arr, err := v.AsArray()
	require.NoError(t, err)
	require.Equal(t, 4, arr.Len())

	n, err := arr.Get(0).AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	name, err := arr.Get(3).AsName()
	require.NoError(t, err)
	assert.Equal(t, Name("Four"), name)
}

func TestParserNestedArray(t *testing.T) {
	v := parseOne(t, "[[1 2] [3 4]]")
	arr, err := v.AsArray()
	require.NoError(t, err)
	require.Equal(t, 2, arr.Len())

	inner, err := arr.Get(0).AsArray()
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Len())
}

func TestParserDictionary(t *testing.T) {
	v := parseOne(t, "<< /Type /Catalog /Count 3 /Kids [1 0 R 2 0 R] >>")
	dict, err := v.AsDictionary()
	require.NoError(t, err)

	typ, err := dict.Get("Type").AsName()
	require.NoError(t, err)
	assert.Equal(t, Name("Catalog"), typ)

	count, err := dict.Get("Count").AsInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	kids, err := dict.Get("Kids").AsArray()
	require.NoError(t, err)
	assert.Equal(t, 2, kids.Len())
}

func TestParserDictionaryEmpty(t *testing.T) {
	v := parseOne(t, "<< >>")
	dict, err := v.AsDictionary()
	require.NoError(t, err)
	assert.Equal(t, 0, dict.Len())
}

func TestParserSkipsCommentsBetweenTokens(t *testing.T) {
	v := parseOne(t, "[1 % a comment\n 2]")
	arr, err := v.AsArray()
	require.NoError(t, err)
	assert.Equal(t, 2, arr.Len())
}
