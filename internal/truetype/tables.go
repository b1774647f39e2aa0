/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package truetype implements a TrueType/OpenType glyph subsetter: given a
// font program and a set of glyph identifiers, it produces a standalone
// font program containing only the glyphs reachable from that set (plus
// their compound-glyph dependencies), renumbered to a dense GID space.
package truetype

import (
	"encoding/binary"

	"github.com/gopdfcore/pdfcore/core"
)

// Tag is a four-byte SFNT table identifier, e.g. "glyf".
type Tag [4]byte

func (t Tag) String() string { return string(t[:]) }

func tag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

var (
	tagHead = tag("head")
	tagHhea = tag("hhea")
	tagHmtx = tag("hmtx")
	tagLoca = tag("loca")
	tagMaxp = tag("maxp")
	tagGlyf = tag("glyf")
	tagCvt  = tag("cvt ")
	tagFpgm = tag("fpgm")
	tagPrep = tag("prep")
	tagPost = tag("post")
)

// requiredTags are the tables the subsetter cannot operate without.
var requiredTags = []Tag{tagHead, tagHhea, tagLoca, tagMaxp, tagGlyf, tagHmtx}

// passThroughTags are copied verbatim into the output when present.
var passThroughTags = []Tag{tagCvt, tagFpgm, tagPrep}

// record is one entry of the SFNT table directory.
type record struct {
	Tag      Tag
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// directory is the parsed table directory of an SFNT font program: the
// scaler type plus every table record, in the order the font declares
// them (not necessarily sorted by tag, though conforming fonts sort by
// tag).
type directory struct {
	ScalerType uint32
	Records    []record
}

// find returns the record for t, or nil if the table is absent.
func (d *directory) find(t Tag) *record {
	for i := range d.Records {
		if d.Records[i].Tag == t {
			return &d.Records[i]
		}
	}
	return nil
}

// parseDirectory reads the 12-byte offset table and the table-record
// array that immediately follows it from the start of src.
func parseDirectory(src []byte) (*directory, error) {
	if len(src) < 12 {
		return nil, core.ErrUnexpectedEOF
	}
	scalerType := binary.BigEndian.Uint32(src[0:4])
	numTables := binary.BigEndian.Uint16(src[4:6])

	need := 12 + int(numTables)*16
	if len(src) < need {
		return nil, core.ErrUnexpectedEOF
	}

	d := &directory{ScalerType: scalerType, Records: make([]record, numTables)}
	for i := 0; i < int(numTables); i++ {
		b := src[12+i*16 : 12+(i+1)*16]
		var r record
		copy(r.Tag[:], b[0:4])
		r.CheckSum = binary.BigEndian.Uint32(b[4:8])
		r.Offset = binary.BigEndian.Uint32(b[8:12])
		r.Length = binary.BigEndian.Uint32(b[12:16])
		d.Records[i] = r
	}
	return d, nil
}

// tableBytes returns the raw bytes of the table named by r, as a
// sub-slice of src (not a copy).
func tableBytes(src []byte, r *record) ([]byte, error) {
	start := int64(r.Offset)
	end := start + int64(r.Length)
	if start < 0 || end < start || end > int64(len(src)) {
		return nil, core.ErrUnexpectedEOF
	}
	return src[start:end], nil
}

// padLen returns the number of zero bytes needed to round n up to a
// 4-byte boundary.
func padLen(n int) int {
	if rem := n % 4; rem != 0 {
		return 4 - rem
	}
	return 0
}

// checksum sums src as big-endian uint32 words, treating any bytes past
// the end of the last full word as zero. It is used both to checksum an
// individual table's padded bytes and, once the whole output file has
// been assembled, to derive checkSumAdjustment.
func checksum(src []byte) uint32 {
	var sum uint32
	i := 0
	for ; i+4 <= len(src); i += 4 {
		sum += binary.BigEndian.Uint32(src[i : i+4])
	}
	if rem := len(src) - i; rem > 0 {
		var last [4]byte
		copy(last[:], src[i:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

const checkSumAdjustmentMagic = 0xB1B0AFBA
