/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"io"
	"strconv"
	"strings"
)

// WriteMode selects a Writer's output style. It is a bitfield so future
// modifiers can be added without breaking existing callers, though today
// only one of the two named modes is ever set.
type WriteMode int

const (
	// Compact omits optional whitespace, inserting the minimum separators
	// needed to keep adjacent tokens from concatenating into one token.
	Compact WriteMode = 1 << iota
	// Clean pretty-prints: a space between a dictionary key and its value,
	// and a newline after each dictionary entry.
	Clean
)

// Writer serializes Variants (and IndirectObjects) to a byte sink. Its
// only per-instance state is its WriteMode and an optional PdfEncrypt; a
// single Writer may be reused freely and concurrently since neither is
// mutated after construction.
type Writer struct {
	mode    WriteMode
	encrypt PdfEncrypt
}

// NewWriter returns a Writer using mode for every subsequent Write call,
// with encryption disabled.
func NewWriter(mode WriteMode) *Writer {
	return &Writer{mode: mode, encrypt: NopEncrypt{}}
}

// WithEncrypt returns a copy of w that runs every String/HexString/stream
// payload through enc, keyed by the reference of the indirect object
// currently being written.
func (w *Writer) WithEncrypt(enc PdfEncrypt) *Writer {
	return &Writer{mode: w.mode, encrypt: enc}
}

// lastByte reports the final byte written to b, or 0 if b is empty. Used
// to decide, in compact mode, whether the next token needs a separating
// space to avoid merging with the previous one.
func lastByte(b *strings.Builder) byte {
	s := b.String()
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// needsLeadingSpace reports whether, in compact mode, a token beginning
// with c must be preceded by a space to avoid concatenating with the
// previous token ending in prev. A name, number, or keyword token is only
// ever terminated by whitespace or a delimiter, so two such tokens
// written back-to-back with no separator would re-parse as one token;
// every other pairing already self-delimits (e.g. a delimiter like '/',
// '(', or '[' needs no help telling it apart from what came before it).
func needsLeadingSpace(prev, c byte) bool {
	if prev == 0 {
		return false
	}
	prevRegular := !IsWhiteSpace(prev) && !IsDelimiter(prev)
	cRegular := !IsWhiteSpace(c) && !IsDelimiter(c)
	return prevRegular && cRegular
}

// writeToken writes tok to b, inserting a compact-mode separating space
// first when needed.
func (w *Writer) writeToken(b *strings.Builder, tok string) {
	if len(tok) == 0 {
		return
	}
	if w.mode&Compact != 0 && needsLeadingSpace(lastByte(b), tok[0]) {
		b.WriteByte(' ')
	}
	b.WriteString(tok)
}

// formatReal renders f the way the writer needs: fixed-point, C-locale
// decimal point, never scientific notation. In compact mode, trailing
// zeros and a bare trailing '.' are dropped, and a value that would
// otherwise reduce to the empty string (e.g. "-0" with nothing left after
// trimming) becomes "0".
func formatReal(f float64, mode WriteMode) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if mode&Compact == 0 {
		return s
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// WriteVariantString renders v to a string using w's mode. It is the
// building block WriteVariant uses internally, and is exported directly for callers that want the serialized form without an
// io.Writer (e.g. computing its byte length ahead of writing).
func (w *Writer) WriteVariantString(v *Variant) (string, error) {
	var b strings.Builder
	if err := w.appendVariant(&b, v, Reference{}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// appendVariant renders v into b. ref identifies the enclosing indirect
// object, used to key string encryption; it is the zero Reference when
// writing a value that is not (yet) nested under one.
func (w *Writer) appendVariant(b *strings.Builder, v *Variant, ref Reference) error {
	if v == nil {
		w.writeToken(b, "null")
		return nil
	}
	if err := v.ensureLoaded(); err != nil {
		return err
	}
	switch v.kind {
	case KindNull:
		w.writeToken(b, "null")
	case KindBool:
		if v.boolVal {
			w.writeToken(b, "true")
		} else {
			w.writeToken(b, "false")
		}
	case KindInteger:
		w.writeToken(b, strconv.FormatInt(v.intVal, 10))
	case KindReal:
		w.writeToken(b, formatReal(v.realVal, w.mode))
	case KindString:
		encrypted, err := w.encrypt.EncryptBytes(v.bytesVal, ref)
		if err != nil {
			return err
		}
		w.writeToken(b, writeLiteralString(encrypted))
	case KindHexString:
		encrypted, err := w.encrypt.EncryptBytes(v.bytesVal, ref)
		if err != nil {
			return err
		}
		w.writeToken(b, writeHexString(encrypted))
	case KindName:
		w.writeToken(b, v.nameVal.WriteString())
	case KindReference:
		w.writeToken(b, v.reference.WriteString())
	case KindArray:
		return w.appendArray(b, v.arr, ref)
	case KindDictionary:
		return w.appendDictionary(b, v.dict, "", ref)
	default:
		return newError(ErrKindInvalidDataType, "cannot write %s variant", v.kind)
	}
	return nil
}

func writeLiteralString(raw []byte) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, c := range raw {
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '(':
			b.WriteString(`\(`)
		case ')':
			b.WriteString(`\)`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

const hexDigits = "0123456789abcdef"

func writeHexString(raw []byte) string {
	var b strings.Builder
	b.WriteByte('<')
	for _, c := range raw {
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	b.WriteByte('>')
	return b.String()
}

func (w *Writer) appendArray(b *strings.Builder, arr *Array, ref Reference) error {
	w.writeToken(b, "[")
	for _, el := range arr.elements {
		if w.mode&Compact == 0 {
			b.WriteByte(' ')
		}
		if err := w.appendVariant(b, el, ref); err != nil {
			return err
		}
	}
	if w.mode&Compact == 0 {
		b.WriteByte(' ')
	}
	b.WriteString("]")
	return nil
}

// appendDictionary writes d's "<< ... >>" form. If keyStop is non-empty,
// emission halts just before writing that key (used for trailer-style
// partial serialization that must omit a self-referential entry).
func (w *Writer) appendDictionary(b *strings.Builder, d *Dictionary, keyStop Name, ref Reference) error {
	b.WriteString("<<")
	clean := w.mode&Clean != 0

	write := func(key Name, v *Variant) error {
		if clean {
			b.WriteByte('\n')
		}
		w.writeToken(b, key.WriteString())
		if clean {
			b.WriteByte(' ')
		}
		return w.appendVariant(b, v, ref)
	}

	if v := d.values["Type"]; v != nil {
		if keyStop != "" && keyStop == "Type" {
			b.WriteString(">>")
			return nil
		}
		if err := write("Type", v); err != nil {
			return err
		}
	}
	for _, k := range d.keys {
		if k == "Type" {
			continue
		}
		if keyStop != "" && k == keyStop {
			break
		}
		if err := write(k, d.values[k]); err != nil {
			return err
		}
	}
	if clean {
		b.WriteByte('\n')
	}
	b.WriteString(">>")
	return nil
}

// WriteDictionaryUpTo renders d, stopping emission just before keyStop if
// that key is present (trailer-style partial serialization).
func (w *Writer) WriteDictionaryUpTo(d *Dictionary, keyStop Name) (string, error) {
	var b strings.Builder
	if err := w.appendDictionary(&b, d, keyStop, Reference{}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteVariant renders v and writes it to dst.
func (w *Writer) WriteVariant(dst io.Writer, v *Variant) error {
	s, err := w.WriteVariantString(v)
	if err != nil {
		return err
	}
	_, err = io.WriteString(dst, s)
	return err
}

// WriteIndirectObject renders obj in the "N G obj ... endobj" form,
// including its stream payload (if any) between "stream"/"endstream"
// markers. The stream's raw bytes are written exactly as stored: any
// filter encoding is the caller's responsibility to have already applied.
func (w *Writer) WriteIndirectObject(dst io.Writer, obj *IndirectObject) error {
	var b strings.Builder
	ref := obj.Reference()
	b.WriteString(strconv.FormatUint(uint64(ref.ObjectNumber), 10))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(uint64(ref.GenerationNumber), 10))
	b.WriteString(" obj")
	if w.mode&Clean != 0 {
		b.WriteByte('\n')
	} else {
		b.WriteByte(' ')
	}
	if err := w.appendVariant(&b, obj.Variant(), ref); err != nil {
		return err
	}
	if obj.IsStream() {
		if w.mode&Clean != 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		streamBytes, err := w.encrypt.EncryptBytes(obj.StreamRaw(), ref)
		if err != nil {
			return err
		}
		b.WriteString("stream\n")
		b.Write(streamBytes)
		b.WriteString("\nendstream")
	}
	if w.mode&Clean != 0 {
		b.WriteByte('\n')
	} else {
		b.WriteByte(' ')
	}
	b.WriteString("endobj")
	if w.mode&Clean != 0 {
		b.WriteByte('\n')
	}
	_, err := io.WriteString(dst, b.String())
	return err
}
