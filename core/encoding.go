/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// Stream filters. Supported:
// - Raw (Identity)
// - FlateDecode
// - LZWDecode
// - RunLengthDecode
// - ASCIIHexDecode
// - ASCII85Decode
// - Multi (a filter chain)
//
// Image-specific filters (DCTDecode/JPXDecode/CCITTFaxDecode/JBIG2Decode) are
// out of scope: decoding those payloads is an image-decoder concern, not an
// object-model one.

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	// Two LZW variants are needed: the PDF default (EarlyChange=1) uses an
	// MSB-first code stream with the code-length bump happening one code
	// early, which compress/lzw does not implement; EarlyChange=0 matches
	// the standard library exactly.
	lzw0 "compress/lzw"
	lzw1 "golang.org/x/image/tiff/lzw"

	"github.com/gopdfcore/pdfcore/common"
)

// Filter names, as they appear in a stream dictionary's /Filter entry.
const (
	FilterNameFlate     = "FlateDecode"
	FilterNameLZW       = "LZWDecode"
	FilterNameRunLength = "RunLengthDecode"
	FilterNameASCIIHex  = "ASCIIHexDecode"
	FilterNameASCII85   = "ASCII85Decode"
	FilterNameRaw       = "Raw"
)

// ErrUnsupportedEncodingParameters is raised when an encoder is asked to
// apply a parameter combination it does not implement.
var ErrUnsupportedEncodingParameters = errors.New("unsupported encoding parameters")

// StreamEncoder is the interface every stream filter implements: building
// its stream dictionary entries, and encoding/decoding the stream payload.
type StreamEncoder interface {
	FilterName() string
	MakeDecodeParams() *Variant // nil if the filter takes no parameters.
	MakeStreamDict() *Dictionary
	UpdateParams(params *Dictionary)

	EncodeBytes(data []byte) ([]byte, error)
	DecodeBytes(encoded []byte) ([]byte, error)
	DecodeStream(obj *IndirectObject) ([]byte, error)
}

func getInt(d *Dictionary, key Name, fallback int) int {
	v := d.Get(key)
	if v == nil {
		return fallback
	}
	n, err := v.AsInteger()
	if err != nil {
		return fallback
	}
	return int(n)
}

// Predictor algorithm codes (Predictor entry of a DecodeParms dictionary).
const (
	predictorNone = 1
	predictorTIFF = 2
	predictorPNGSubFirst = 10 // 10..15 all select "PNG prediction", row-tagged.
)

// PNG per-row filter-type tags (first byte of each predicted row).
const (
	pngFilterNone  = 0
	pngFilterSub   = 1
	pngFilterUp    = 2
	pngFilterAvg   = 3
	pngFilterPaeth = 4
)

// FlateEncoder implements the FlateDecode filter, with the TIFF and PNG
// predictor postprocessing PDF layers on top of raw zlib deflate.
type FlateEncoder struct {
	Predictor        int
	BitsPerComponent int
	Columns          int
	Colors           int
}

// NewFlateEncoder returns a FlateEncoder with predictor disabled (1) and
// 8 bits per component.
func NewFlateEncoder() *FlateEncoder {
	return &FlateEncoder{Predictor: predictorNone, BitsPerComponent: 8, Colors: 1, Columns: 1}
}

// SetPredictor enables the PNG "sub" predictor for encoding, with the
// given row width in samples.
func (enc *FlateEncoder) SetPredictor(columns int) {
	enc.Predictor = 11
	enc.Columns = columns
}

// FilterName returns "FlateDecode".
func (enc *FlateEncoder) FilterName() string { return FilterNameFlate }

// MakeDecodeParams builds the DecodeParms dictionary for the encoder's
// current predictor settings, or nil if no predictor is in use.
func (enc *FlateEncoder) MakeDecodeParams() *Variant {
	if enc.Predictor <= 1 {
		return nil
	}
	d := NewDictionary()
	d.Set("Predictor", NewInteger(int64(enc.Predictor)))
	if enc.BitsPerComponent != 8 {
		d.Set("BitsPerComponent", NewInteger(int64(enc.BitsPerComponent)))
	}
	if enc.Columns != 1 {
		d.Set("Columns", NewInteger(int64(enc.Columns)))
	}
	if enc.Colors != 1 {
		d.Set("Colors", NewInteger(int64(enc.Colors)))
	}
	return NewDictionaryVariant(d)
}

// MakeStreamDict builds a stream dictionary carrying /Filter and, if set,
// /DecodeParms.
func (enc *FlateEncoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", NewNameVariant(FilterNameFlate))
	if dp := enc.MakeDecodeParams(); dp != nil {
		d.Set("DecodeParms", dp)
	}
	return d
}

// UpdateParams applies any of Predictor/BitsPerComponent/Columns/Colors
// found in params, leaving unset fields untouched.
func (enc *FlateEncoder) UpdateParams(params *Dictionary) {
	enc.Predictor = getInt(params, "Predictor", enc.Predictor)
	enc.BitsPerComponent = getInt(params, "BitsPerComponent", enc.BitsPerComponent)
	enc.Columns = getInt(params, "Columns", enc.Columns)
	enc.Colors = getInt(params, "Colors", enc.Colors)
}

// DecodeBytes inflates encoded with zlib.
func (enc *FlateEncoder) DecodeBytes(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return []byte{}, nil
	}
	r, err := zlib.NewReader(bytes.NewReader(encoded))
	if err != nil {
		common.Log.Debug("flate decode error: %v", err)
		return nil, err
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// postDecodePredict reverses the TIFF or PNG predictor applied before
// deflate, per the encoder's configured Predictor/Columns/Colors.
func (enc *FlateEncoder) postDecodePredict(data []byte) ([]byte, error) {
	if enc.Predictor <= 1 {
		return data, nil
	}
	if enc.Predictor == predictorTIFF {
		return undoTIFFPredictor(data, enc.Columns, enc.Colors)
	}
	if enc.Predictor >= predictorPNGSubFirst && enc.Predictor <= 15 {
		return undoPNGPredictor(data, enc.Columns, enc.Colors)
	}
	return nil, fmt.Errorf("unsupported predictor (%d)", enc.Predictor)
}

func undoTIFFPredictor(data []byte, columns, colors int) ([]byte, error) {
	rowLength := columns * colors
	if rowLength < 1 {
		return []byte{}, nil
	}
	if len(data)%rowLength != 0 {
		return nil, fmt.Errorf("invalid row length (%d/%d)", len(data), rowLength)
	}
	rows := len(data) / rowLength
	var out bytes.Buffer
	for i := 0; i < rows; i++ {
		row := data[rowLength*i : rowLength*(i+1)]
		for j := colors; j < rowLength; j++ {
			row[j] += row[j-colors]
		}
		out.Write(row)
	}
	return out.Bytes(), nil
}

func undoPNGPredictor(data []byte, columns, colors int) ([]byte, error) {
	rowLength := columns*colors + 1
	if rowLength <= 1 || len(data)%rowLength != 0 {
		return nil, fmt.Errorf("invalid row length (%d/%d)", len(data), rowLength)
	}
	rows := len(data) / rowLength
	bpp := colors
	prev := make([]byte, rowLength)
	var out bytes.Buffer
	for i := 0; i < rows; i++ {
		row := data[rowLength*i : rowLength*(i+1)]
		switch row[0] {
		case pngFilterNone:
		case pngFilterSub:
			for j := 1 + bpp; j < rowLength; j++ {
				row[j] += row[j-bpp]
			}
		case pngFilterUp:
			for j := 1; j < rowLength; j++ {
				row[j] += prev[j]
			}
		case pngFilterAvg:
			for j := 1; j < bpp+1; j++ {
				row[j] += prev[j] / 2
			}
			for j := bpp + 1; j < rowLength; j++ {
				row[j] += byte((int(row[j-bpp]) + int(prev[j])) / 2)
			}
		case pngFilterPaeth:
			for j := 1; j < rowLength; j++ {
				var a, b, c byte
				b = prev[j]
				if j >= bpp+1 {
					a = row[j-bpp]
					c = prev[j-bpp]
				}
				row[j] += paeth(a, b, c)
			}
		default:
			return nil, fmt.Errorf("invalid filter byte (%d)", row[0])
		}
		copy(prev, row)
		out.Write(row[1:])
	}
	return out.Bytes(), nil
}

// DecodeStream decodes a FlateDecode-encoded stream.
func (enc *FlateEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	if enc.BitsPerComponent != 8 {
		return nil, fmt.Errorf("invalid BitsPerComponent=%d (only 8 supported)", enc.BitsPerComponent)
	}
	out, err := enc.DecodeBytes(obj.StreamRaw())
	if err != nil {
		return nil, err
	}
	return enc.postDecodePredict(out)
}

// EncodeBytes deflates data, first applying the PNG sub predictor if
// configured.
func (enc *FlateEncoder) EncodeBytes(data []byte) ([]byte, error) {
	if enc.Predictor != predictorNone && enc.Predictor != 11 {
		return nil, ErrUnsupportedEncodingParameters
	}
	if enc.Predictor == 11 {
		rowLength := enc.Columns
		if rowLength < 1 || len(data)%rowLength != 0 {
			return nil, errors.New("invalid row length")
		}
		rows := len(data) / rowLength
		var out bytes.Buffer
		tmp := make([]byte, rowLength)
		for i := 0; i < rows; i++ {
			row := data[rowLength*i : rowLength*(i+1)]
			tmp[0] = row[0]
			for j := 1; j < rowLength; j++ {
				tmp[j] = row[j] - row[j-1]
			}
			out.WriteByte(pngFilterSub)
			out.Write(tmp)
		}
		data = out.Bytes()
	}
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// LZWEncoder implements the LZWDecode filter, sharing the TIFF/PNG
// predictor layer with FlateEncoder.
type LZWEncoder struct {
	Predictor        int
	BitsPerComponent int
	Columns          int
	Colors           int
	EarlyChange      int
}

// NewLZWEncoder returns an LZWEncoder with the PDF-default EarlyChange=1
// and predictor disabled.
func NewLZWEncoder() *LZWEncoder {
	return &LZWEncoder{Predictor: predictorNone, BitsPerComponent: 8, Colors: 1, Columns: 1, EarlyChange: 1}
}

// FilterName returns "LZWDecode".
func (enc *LZWEncoder) FilterName() string { return FilterNameLZW }

// MakeDecodeParams builds the DecodeParms dictionary for the encoder's
// current predictor settings, or nil if no predictor is in use.
func (enc *LZWEncoder) MakeDecodeParams() *Variant {
	if enc.Predictor <= 1 {
		return nil
	}
	d := NewDictionary()
	d.Set("Predictor", NewInteger(int64(enc.Predictor)))
	if enc.BitsPerComponent != 8 {
		d.Set("BitsPerComponent", NewInteger(int64(enc.BitsPerComponent)))
	}
	if enc.Columns != 1 {
		d.Set("Columns", NewInteger(int64(enc.Columns)))
	}
	if enc.Colors != 1 {
		d.Set("Colors", NewInteger(int64(enc.Colors)))
	}
	return NewDictionaryVariant(d)
}

// MakeStreamDict builds a stream dictionary carrying /Filter,
// /DecodeParms (if set) and /EarlyChange.
func (enc *LZWEncoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", NewNameVariant(FilterNameLZW))
	if dp := enc.MakeDecodeParams(); dp != nil {
		d.Set("DecodeParms", dp)
	}
	d.Set("EarlyChange", NewInteger(int64(enc.EarlyChange)))
	return d
}

// UpdateParams applies any of Predictor/BitsPerComponent/Columns/Colors/
// EarlyChange found in params.
func (enc *LZWEncoder) UpdateParams(params *Dictionary) {
	enc.Predictor = getInt(params, "Predictor", enc.Predictor)
	enc.BitsPerComponent = getInt(params, "BitsPerComponent", enc.BitsPerComponent)
	enc.Columns = getInt(params, "Columns", enc.Columns)
	enc.Colors = getInt(params, "Colors", enc.Colors)
	enc.EarlyChange = getInt(params, "EarlyChange", enc.EarlyChange)
}

// DecodeBytes decompresses an LZW-encoded byte slice, selecting the
// EarlyChange=1 or EarlyChange=0 variant per the encoder's setting.
func (enc *LZWEncoder) DecodeBytes(encoded []byte) ([]byte, error) {
	var r io.ReadCloser
	if enc.EarlyChange == 1 {
		r = lzw1.NewReader(bytes.NewReader(encoded), lzw1.MSB, 8)
	} else {
		r = lzw0.NewReader(bytes.NewReader(encoded), lzw0.MSB, 8)
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeStream decodes an LZWDecode-encoded stream, applying predictor
// postprocessing if configured.
func (enc *LZWEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	out, err := enc.DecodeBytes(obj.StreamRaw())
	if err != nil {
		return nil, err
	}
	if enc.Predictor <= 1 {
		return out, nil
	}
	if enc.Predictor == predictorTIFF {
		return undoTIFFPredictor(out, enc.Columns, enc.Colors)
	}
	if enc.Predictor >= predictorPNGSubFirst && enc.Predictor <= 15 {
		return undoPNGPredictor(out, enc.Columns, enc.Colors)
	}
	return nil, fmt.Errorf("unsupported predictor (%d)", enc.Predictor)
}

// EncodeBytes LZW-compresses data. Only the no-predictor, EarlyChange=0
// path is implemented: compress/lzw has no writer for the EarlyChange=1
// variant.
func (enc *LZWEncoder) EncodeBytes(data []byte) ([]byte, error) {
	if enc.Predictor != predictorNone {
		return nil, ErrUnsupportedEncodingParameters
	}
	if enc.EarlyChange == 1 {
		return nil, ErrUnsupportedEncodingParameters
	}
	var b bytes.Buffer
	w := lzw0.NewWriter(&b, lzw0.MSB, 8)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// RunLengthEncoder implements the RunLengthDecode filter (PDF 32000-1
// §7.4.5): a sequence of length-tagged literal and repeat runs, terminated
// by the tag byte 128.
type RunLengthEncoder struct{}

// NewRunLengthEncoder returns a RunLengthEncoder.
func NewRunLengthEncoder() *RunLengthEncoder { return &RunLengthEncoder{} }

// FilterName returns "RunLengthDecode".
func (enc *RunLengthEncoder) FilterName() string { return FilterNameRunLength }

// MakeDecodeParams always returns nil: the filter takes no parameters.
func (enc *RunLengthEncoder) MakeDecodeParams() *Variant { return nil }

// MakeStreamDict builds a stream dictionary carrying only /Filter.
func (enc *RunLengthEncoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", NewNameVariant(FilterNameRunLength))
	return d
}

// UpdateParams is a no-op: RunLengthDecode has no parameters.
func (enc *RunLengthEncoder) UpdateParams(params *Dictionary) {}

// DecodeBytes expands a run-length encoded byte slice.
func (enc *RunLengthEncoder) DecodeBytes(encoded []byte) ([]byte, error) {
	r := bytes.NewReader(encoded)
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		switch {
		case b == 128:
			return out, nil
		case b < 128:
			for i := 0; i < int(b)+1; i++ {
				v, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		default:
			v, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			for i := 0; i < 257-int(b); i++ {
				out = append(out, v)
			}
		}
	}
}

// DecodeStream expands a RunLengthDecode-encoded stream.
func (enc *RunLengthEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	return enc.DecodeBytes(obj.StreamRaw())
}

// EncodeBytes run-length encodes data.
func (enc *RunLengthEncoder) EncodeBytes(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	var out, literal []byte

	b0, err := r.ReadByte()
	if err == io.EOF {
		return []byte{128}, nil
	} else if err != nil {
		return nil, err
	}
	runLen := 1

	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if b == b0 {
			if len(literal) > 0 {
				literal = literal[:len(literal)-1]
				if len(literal) > 0 {
					out = append(out, byte(len(literal)-1))
					out = append(out, literal...)
				}
				runLen = 1
				literal = nil
			}
			runLen++
			if runLen >= 127 {
				out = append(out, byte(257-runLen), b0)
				runLen = 0
			}
		} else {
			if runLen > 0 {
				if runLen == 1 {
					literal = []byte{b0}
				} else {
					out = append(out, byte(257-runLen), b0)
				}
				runLen = 0
			}
			literal = append(literal, b)
			if len(literal) >= 127 {
				out = append(out, byte(len(literal)-1))
				out = append(out, literal...)
				literal = nil
			}
		}
		b0 = b
	}

	if len(literal) > 0 {
		out = append(out, byte(len(literal)-1))
		out = append(out, literal...)
	} else if runLen > 0 {
		out = append(out, byte(257-runLen), b0)
	}
	out = append(out, 128)
	return out, nil
}

// ASCIIHexEncoder implements the ASCIIHexDecode filter.
type ASCIIHexEncoder struct{}

// NewASCIIHexEncoder returns an ASCIIHexEncoder.
func NewASCIIHexEncoder() *ASCIIHexEncoder { return &ASCIIHexEncoder{} }

// FilterName returns "ASCIIHexDecode".
func (enc *ASCIIHexEncoder) FilterName() string { return FilterNameASCIIHex }

// MakeDecodeParams always returns nil: the filter takes no parameters.
func (enc *ASCIIHexEncoder) MakeDecodeParams() *Variant { return nil }

// MakeStreamDict builds a stream dictionary carrying only /Filter.
func (enc *ASCIIHexEncoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", NewNameVariant(FilterNameASCIIHex))
	return d
}

// UpdateParams is a no-op: ASCIIHexDecode has no parameters.
func (enc *ASCIIHexEncoder) UpdateParams(params *Dictionary) {}

// DecodeBytes decodes ASCII hex digits (whitespace ignored, terminated by
// '>', an odd trailing digit implicitly zero-padded) back to raw bytes.
func (enc *ASCIIHexEncoder) DecodeBytes(encoded []byte) ([]byte, error) {
	r := bytes.NewReader(encoded)
	var digits []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if IsWhiteSpace(b) {
			continue
		}
		if (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') || (b >= '0' && b <= '9') {
			digits = append(digits, b)
		} else {
			return nil, fmt.Errorf("invalid ascii hex character (%c)", b)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeStream decodes an ASCIIHexDecode-encoded stream.
func (enc *ASCIIHexEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	return enc.DecodeBytes(obj.StreamRaw())
}

// EncodeBytes hex-encodes data, terminated by the '>' EOD marker.
func (enc *ASCIIHexEncoder) EncodeBytes(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for _, b := range data {
		fmt.Fprintf(&out, "%.2X ", b)
	}
	out.WriteByte('>')
	return out.Bytes(), nil
}

// ASCII85Encoder implements the ASCII85Decode filter: 4 raw bytes pack
// into 5 printable characters in base 85.
type ASCII85Encoder struct{}

// NewASCII85Encoder returns an ASCII85Encoder.
func NewASCII85Encoder() *ASCII85Encoder { return &ASCII85Encoder{} }

// FilterName returns "ASCII85Decode".
func (enc *ASCII85Encoder) FilterName() string { return FilterNameASCII85 }

// MakeDecodeParams always returns nil: the filter takes no parameters.
func (enc *ASCII85Encoder) MakeDecodeParams() *Variant { return nil }

// MakeStreamDict builds a stream dictionary carrying only /Filter.
func (enc *ASCII85Encoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", NewNameVariant(FilterNameASCII85))
	return d
}

// UpdateParams is a no-op: ASCII85Decode has no parameters.
func (enc *ASCII85Encoder) UpdateParams(params *Dictionary) {}

// DecodeBytes decodes ASCII85-encoded data up to its "~>" EOD marker.
func (enc *ASCII85Encoder) DecodeBytes(encoded []byte) ([]byte, error) {
	var decoded []byte
	i := 0
	eod := false
	for i < len(encoded) && !eod {
		var codes [5]byte
		spaces := 0
		j := 0
		toWrite := 4
		for j < 5+spaces {
			if i+j == len(encoded) {
				break
			}
			code := encoded[i+j]
			switch {
			case IsWhiteSpace(code):
				spaces++
				j++
				continue
			case code == '~' && i+j+1 < len(encoded) && encoded[i+j+1] == '>':
				toWrite = (j - spaces) - 1
				if toWrite < 0 {
					toWrite = 0
				}
				eod = true
			case code == 'z' && j-spaces == 0:
				toWrite = 4
				j++
			case code >= '!' && code <= 'u':
				codes[j-spaces] = code - '!'
				j++
				continue
			default:
				return nil, errors.New("invalid code encountered")
			}
			break
		}
		i += j

		for m := toWrite + 1; m < 5; m++ {
			codes[m] = 84
		}
		value := uint32(codes[0])*85*85*85*85 + uint32(codes[1])*85*85*85 + uint32(codes[2])*85*85 + uint32(codes[3])*85 + uint32(codes[4])
		decodedBytes := []byte{byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value)}
		decoded = append(decoded, decodedBytes[:toWrite]...)
	}
	return decoded, nil
}

// DecodeStream decodes an ASCII85Decode-encoded stream.
func (enc *ASCII85Encoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	return enc.DecodeBytes(obj.StreamRaw())
}

func base256Tobase85(v uint32) [5]byte {
	var out [5]byte
	rem := v
	for i := 0; i < 5; i++ {
		divider := uint32(1)
		for j := 0; j < 4-i; j++ {
			divider *= 85
		}
		out[i] = byte(rem / divider)
		rem %= divider
	}
	return out
}

// EncodeBytes encodes data into ASCII85.
func (enc *ASCII85Encoder) EncodeBytes(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < len(data); i += 4 {
		var b [4]byte
		n := 0
		for ; n < 4 && i+n < len(data); n++ {
			b[n] = data[i+n]
		}
		base256 := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		if base256 == 0 && n == 4 {
			out.WriteByte('z')
			continue
		}
		base85 := base256Tobase85(base256)
		for _, v := range base85[:n+1] {
			out.WriteByte(v + '!')
		}
	}
	out.WriteString("~>")
	return out.Bytes(), nil
}

// RawEncoder is the Identity filter: a pass-through with no transformation.
type RawEncoder struct{}

// NewRawEncoder returns a RawEncoder.
func NewRawEncoder() *RawEncoder { return &RawEncoder{} }

// FilterName returns "Raw".
func (enc *RawEncoder) FilterName() string { return FilterNameRaw }

// MakeDecodeParams always returns nil.
func (enc *RawEncoder) MakeDecodeParams() *Variant { return nil }

// MakeStreamDict returns an empty dictionary: Raw sets no /Filter entry.
func (enc *RawEncoder) MakeStreamDict() *Dictionary { return NewDictionary() }

// UpdateParams is a no-op.
func (enc *RawEncoder) UpdateParams(params *Dictionary) {}

// DecodeBytes returns encoded unchanged.
func (enc *RawEncoder) DecodeBytes(encoded []byte) ([]byte, error) { return encoded, nil }

// DecodeStream returns the object's raw stream bytes unchanged.
func (enc *RawEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	return obj.StreamRaw(), nil
}

// EncodeBytes returns data unchanged.
func (enc *RawEncoder) EncodeBytes(data []byte) ([]byte, error) { return data, nil }

// MultiEncoder chains several StreamEncoders, applying them in forward
// order to decode and reverse order to encode (matching a /Filter array's
// declared application order).
type MultiEncoder struct {
	encoders []StreamEncoder
}

// NewMultiEncoder returns an empty MultiEncoder.
func NewMultiEncoder() *MultiEncoder {
	return &MultiEncoder{}
}

// AddEncoder appends encoder to the chain.
func (enc *MultiEncoder) AddEncoder(encoder StreamEncoder) {
	enc.encoders = append(enc.encoders, encoder)
}

// FilterName returns the space-separated names of the chained filters.
// This is a debug string, not suitable for a /Filter entry; use
// FilterNameVariant for that.
func (enc *MultiEncoder) FilterName() string {
	names := make([]string, len(enc.encoders))
	for i, e := range enc.encoders {
		names[i] = e.FilterName()
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " "
		}
		out += n
	}
	return out
}

// FilterNameVariant returns the chained filter names as the Array variant
// a /Filter entry expects.
func (enc *MultiEncoder) FilterNameVariant() *Variant {
	arr := NewArray()
	for _, e := range enc.encoders {
		arr.Append(NewNameVariant(Name(e.FilterName())))
	}
	return NewArrayVariant(arr)
}

// MakeDecodeParams builds the /DecodeParms entry: nil if no chained
// encoder has parameters, the single encoder's params if there is
// exactly one, or an Array of (possibly Null) params otherwise.
func (enc *MultiEncoder) MakeDecodeParams() *Variant {
	if len(enc.encoders) == 0 {
		return nil
	}
	if len(enc.encoders) == 1 {
		return enc.encoders[0].MakeDecodeParams()
	}
	arr := NewArray()
	for _, e := range enc.encoders {
		dp := e.MakeDecodeParams()
		if dp == nil {
			dp = NewNull()
		}
		arr.Append(dp)
	}
	return NewArrayVariant(arr)
}

// MakeStreamDict builds the combined stream dictionary: /Filter as an
// array, /DecodeParms per MakeDecodeParams, and every other entry each
// chained encoder's own MakeStreamDict contributes.
func (enc *MultiEncoder) MakeStreamDict() *Dictionary {
	d := NewDictionary()
	d.Set("Filter", enc.FilterNameVariant())
	for _, e := range enc.encoders {
		sub := e.MakeStreamDict()
		for _, k := range sub.Keys() {
			if k == "Filter" || k == "DecodeParms" {
				continue
			}
			d.Set(k, sub.Get(k))
		}
	}
	if dp := enc.MakeDecodeParams(); dp != nil {
		d.Set("DecodeParms", dp)
	}
	return d
}

// UpdateParams forwards params to every chained encoder.
func (enc *MultiEncoder) UpdateParams(params *Dictionary) {
	for _, e := range enc.encoders {
		e.UpdateParams(params)
	}
}

// DecodeBytes applies each chained encoder's DecodeBytes in forward order.
func (enc *MultiEncoder) DecodeBytes(encoded []byte) ([]byte, error) {
	decoded := encoded
	for _, e := range enc.encoders {
		var err error
		decoded, err = e.DecodeBytes(decoded)
		if err != nil {
			return nil, err
		}
	}
	return decoded, nil
}

// DecodeStream decodes obj's raw stream bytes through the full chain.
func (enc *MultiEncoder) DecodeStream(obj *IndirectObject) ([]byte, error) {
	return enc.DecodeBytes(obj.StreamRaw())
}

// EncodeBytes applies each chained encoder's EncodeBytes in reverse order
// (the order in which a /Filter array's transformations are undone on
// read is the order they must be applied on write, in reverse).
func (enc *MultiEncoder) EncodeBytes(data []byte) ([]byte, error) {
	encoded := data
	for i := len(enc.encoders) - 1; i >= 0; i-- {
		var err error
		encoded, err = enc.encoders[i].EncodeBytes(encoded)
		if err != nil {
			return nil, err
		}
	}
	return encoded, nil
}

// NewEncoderFromStreamDict inspects obj's /Filter entry (a Name or an
// Array of Names) and builds the matching StreamEncoder, initialized from
// /DecodeParms. An object with no /Filter entry gets a RawEncoder.
func NewEncoderFromStreamDict(obj *IndirectObject) (StreamEncoder, error) {
	dict, err := obj.Variant().AsDictionary()
	if err != nil {
		return nil, err
	}
	filterVal := dict.Get("Filter")
	if filterVal == nil {
		return NewRawEncoder(), nil
	}

	params := decodeParamsDict(dict)

	if filterVal.Kind() == KindName {
		name, err := filterVal.AsName()
		if err != nil {
			return nil, err
		}
		return newSingleEncoder(string(name), params)
	}

	arr, err := filterVal.AsArray()
	if err != nil {
		return nil, newError(ErrKindUnsupportedFilter, "Filter entry neither Name nor Array")
	}
	multi := NewMultiEncoder()
	for i := 0; i < arr.Len(); i++ {
		nameVal := arr.Get(i)
		name, err := nameVal.AsName()
		if err != nil {
			return nil, err
		}
		sub, err := newSingleEncoder(string(name), params)
		if err != nil {
			return nil, err
		}
		multi.AddEncoder(sub)
	}
	return multi, nil
}

func decodeParamsDict(dict *Dictionary) *Dictionary {
	v := dict.Get("DecodeParms")
	if v == nil {
		return nil
	}
	if v.Kind() == KindDictionary {
		d, _ := v.AsDictionary()
		return d
	}
	if v.Kind() == KindArray {
		arr, _ := v.AsArray()
		if arr.Len() == 1 && arr.Get(0).Kind() == KindDictionary {
			d, _ := arr.Get(0).AsDictionary()
			return d
		}
	}
	return nil
}

func newSingleEncoder(filterName string, params *Dictionary) (StreamEncoder, error) {
	switch filterName {
	case FilterNameFlate:
		enc := NewFlateEncoder()
		if params != nil {
			enc.UpdateParams(params)
		}
		return enc, nil
	case FilterNameLZW:
		enc := NewLZWEncoder()
		if params != nil {
			enc.UpdateParams(params)
		}
		return enc, nil
	case FilterNameRunLength:
		return NewRunLengthEncoder(), nil
	case FilterNameASCIIHex:
		return NewASCIIHexEncoder(), nil
	case FilterNameASCII85:
		return NewASCII85Encoder(), nil
	case FilterNameRaw, "":
		return NewRawEncoder(), nil
	default:
		return nil, newError(ErrKindUnsupportedFilter, "unsupported filter %q", filterName)
	}
}
