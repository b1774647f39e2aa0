/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/gopdfcore/pdfcore/common"
	"github.com/gopdfcore/pdfcore/core"
	"github.com/gopdfcore/pdfcore/internal/device"
)

// GIDList is the set of glyph identifiers a caller needs retained in a
// subsetted font program. Glyph 0 (.notdef) is always included even if
// absent from the list.
type GIDList []GlyphID

// Subset reads a TrueType/OpenType font program from dev, positioned at
// its start, and returns a standalone font program containing only the
// glyphs transitively reachable from gids, renumbered to a dense GID
// space starting at 0.
func Subset(dev device.Device, gids GIDList) ([]byte, error) {
	data, err := io.ReadAll(dev)
	if err != nil {
		return nil, wrapReadErr(err)
	}

	dir, err := parseDirectory(data)
	if err != nil {
		return nil, err
	}

	recs := make(map[Tag]*record, len(requiredTags))
	for _, t := range requiredTags {
		r := dir.find(t)
		if r == nil {
			return nil, core.ErrUnsupportedFontFormat
		}
		recs[t] = r
	}

	headData, err := tableBytes(data, recs[tagHead])
	if err != nil {
		return nil, err
	}
	if len(headData) < 54 {
		return nil, core.ErrUnsupportedFontFormat
	}
	indexToLocFormat := int16(binary.BigEndian.Uint16(headData[50:52]))

	maxpData, err := tableBytes(data, recs[tagMaxp])
	if err != nil {
		return nil, err
	}
	if len(maxpData) < 6 {
		return nil, core.ErrUnsupportedFontFormat
	}
	numGlyphs := int(binary.BigEndian.Uint16(maxpData[4:6]))

	hheaData, err := tableBytes(data, recs[tagHhea])
	if err != nil {
		return nil, err
	}
	if len(hheaData) < 36 {
		return nil, core.ErrUnsupportedFontFormat
	}
	numberOfHMetrics := int(binary.BigEndian.Uint16(hheaData[34:36]))

	hmtxData, err := tableBytes(data, recs[tagHmtx])
	if err != nil {
		return nil, err
	}
	glyfData, err := tableBytes(data, recs[tagGlyf])
	if err != nil {
		return nil, err
	}
	locaData, err := tableBytes(data, recs[tagLoca])
	if err != nil {
		return nil, err
	}
	loca, err := readLoca(locaData, numGlyphs, indexToLocFormat)
	if err != nil {
		return nil, err
	}

	closure, err := computeClosure(loca, glyfData, gids)
	if err != nil {
		return nil, err
	}

	renumber := make(map[GlyphID]GlyphID, len(closure.orderedGIDs))
	for newGID, oldGID := range closure.orderedGIDs {
		if int(oldGID) >= numGlyphs {
			return nil, core.ErrInternalLogic
		}
		renumber[oldGID] = GlyphID(newGID)
	}
	newNumGlyphs := len(closure.orderedGIDs)

	common.Log.Debug("truetype: subsetting %d glyphs down to %d", numGlyphs, newNumGlyphs)

	newGlyf, newLoca, err := buildGlyfAndLoca(loca, glyfData, closure, renumber)
	if err != nil {
		return nil, err
	}
	newHmtx := buildHmtx(hmtxData, numberOfHMetrics, closure.orderedGIDs)
	newHead := buildHead(headData)
	newMaxp := buildMaxp(maxpData, newNumGlyphs)
	newHhea := buildHhea(hheaData, newNumGlyphs)

	tables := map[Tag][]byte{
		tagHead: newHead,
		tagHhea: newHhea,
		tagLoca: newLoca,
		tagMaxp: newMaxp,
		tagGlyf: newGlyf,
		tagHmtx: newHmtx,
	}

	if postRec := dir.find(tagPost); postRec != nil {
		postData, err := tableBytes(data, postRec)
		if err == nil && len(postData) >= 32 {
			tables[tagPost] = buildPost(postData)
		}
	}
	for _, t := range passThroughTags {
		if r := dir.find(t); r != nil {
			b, err := tableBytes(data, r)
			if err == nil {
				tables[t] = append([]byte(nil), b...)
			}
		}
	}

	// Output tables keep the order the input's directory lists them in.
	order := make([]Tag, 0, len(tables))
	placed := make(map[Tag]bool, len(tables))
	for _, r := range dir.Records {
		if _, ok := tables[r.Tag]; ok && !placed[r.Tag] {
			placed[r.Tag] = true
			order = append(order, r.Tag)
		}
	}

	out, headOffset := assemble(order, tables)

	adjustment := checkSumAdjustmentMagic - checksum(out)
	binary.BigEndian.PutUint32(out[headOffset+8:headOffset+12], adjustment)

	return out, nil
}

func wrapReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return core.ErrUnexpectedEOF
	}
	return err
}

// buildGlyfAndLoca copies, in new-GID order, every glyph in the closure
// into a fresh glyf table, patching compound glyphs' component-GID fields
// in place, and builds the matching loca table alongside it. Each glyph
// is padded to an even length so loca's running offsets stay exact under
// both the short (offset>>1) and long form.
func buildGlyfAndLoca(loca []uint32, glyfData []byte, closure *glyphClosure, renumber map[GlyphID]GlyphID) (glyf, locaOut []byte, err error) {
	offsets := make([]uint32, 0, len(closure.orderedGIDs)+1)
	var out []byte
	offsets = append(offsets, 0)

	for _, oldGID := range closure.orderedGIDs {
		data, err := glyphRange(loca, glyfData, oldGID)
		if err != nil {
			return nil, nil, err
		}
		glyphCopy := append([]byte(nil), data...)
		for _, c := range closure.components[oldGID] {
			newGID, ok := renumber[c.gid]
			if !ok || c.offset+2 > len(glyphCopy) {
				return nil, nil, core.ErrInternalLogic
			}
			binary.BigEndian.PutUint16(glyphCopy[c.offset:c.offset+2], uint16(newGID))
		}
		if len(glyphCopy)%2 != 0 {
			glyphCopy = append(glyphCopy, 0)
		}
		out = append(out, glyphCopy...)
		offsets = append(offsets, uint32(len(out)))
	}

	locaBuf := make([]byte, len(offsets)*4)
	for i, off := range offsets {
		binary.BigEndian.PutUint32(locaBuf[i*4:], off)
	}
	// Always emitted in the long (32-bit) form; buildHead forces the
	// output's indexToLocFormat to match regardless of the input's.
	return out, locaBuf, nil
}

// buildHmtx emits a full numOfLongHorMetrics == len(orderedGIDs) layout:
// every new GID gets its own (advanceWidth, lsb) pair copied from its
// original GID's entry, even glyphs that shared a trailing entry in the
// source font.
func buildHmtx(hmtxData []byte, numberOfHMetrics int, orderedGIDs []GlyphID) []byte {
	out := make([]byte, len(orderedGIDs)*4)
	for i, oldGID := range orderedGIDs {
		advance, lsb := hmtxEntry(hmtxData, numberOfHMetrics, oldGID)
		binary.BigEndian.PutUint16(out[i*4:], advance)
		binary.BigEndian.PutUint16(out[i*4+2:], uint16(lsb))
	}
	return out
}

func hmtxEntry(hmtxData []byte, numberOfHMetrics int, gid GlyphID) (advance uint16, lsb int16) {
	g := int(gid)
	if numberOfHMetrics == 0 {
		return 0, 0
	}
	if g < numberOfHMetrics {
		off := g * 4
		if off+4 > len(hmtxData) {
			return 0, 0
		}
		return binary.BigEndian.Uint16(hmtxData[off:]), int16(binary.BigEndian.Uint16(hmtxData[off+2:]))
	}
	lastOff := (numberOfHMetrics - 1) * 4
	if lastOff+2 > len(hmtxData) {
		return 0, 0
	}
	advance = binary.BigEndian.Uint16(hmtxData[lastOff:])
	trailingIdx := g - numberOfHMetrics
	trailingOff := numberOfHMetrics*4 + trailingIdx*2
	if trailingOff+2 <= len(hmtxData) {
		lsb = int16(binary.BigEndian.Uint16(hmtxData[trailingOff:]))
	}
	return advance, lsb
}

// buildHead copies head, zeroing checkSumAdjustment (offset 8; the true
// value is computed once the whole output file has been assembled) and
// forcing indexToLocFormat (offset 50) to the long (32-bit) form, since
// buildGlyfAndLoca always emits long-form loca offsets regardless of the
// input's format.
func buildHead(headData []byte) []byte {
	out := append([]byte(nil), headData...)
	binary.BigEndian.PutUint32(out[8:12], 0)
	binary.BigEndian.PutUint16(out[50:52], 1)
	return out
}

func buildMaxp(maxpData []byte, newNumGlyphs int) []byte {
	out := append([]byte(nil), maxpData...)
	binary.BigEndian.PutUint16(out[4:6], uint16(newNumGlyphs))
	return out
}

func buildHhea(hheaData []byte, newNumGlyphs int) []byte {
	out := append([]byte(nil), hheaData...)
	binary.BigEndian.PutUint16(out[34:36], uint16(newNumGlyphs))
	return out
}

// buildPost keeps only the fixed 32-byte post header, switched to format
// 3 (no per-glyph names) with its 16-byte type-1 suffix zeroed.
func buildPost(postData []byte) []byte {
	out := append([]byte(nil), postData[:32]...)
	binary.BigEndian.PutUint32(out[0:4], 0x00030000)
	for i := 16; i < 32; i++ {
		out[i] = 0
	}
	return out
}

// assemble lays out the font directory (header + table-record array,
// sorted by tag as conforming readers expect) followed by the table
// bodies in order (the order they were seen in the input), each padded to
// a 4-byte boundary. It returns the completed file and the output byte
// offset of the head table, so the caller can patch checkSumAdjustment.
func assemble(order []Tag, tables map[Tag][]byte) (file []byte, headOffset int) {
	numTables := len(order)
	searchRange, entrySelector, rangeShift := directorySearchParams(numTables)

	headerSize := 12
	dirSize := numTables * 16
	bodyStart := headerSize + dirSize

	recs := make([]record, 0, numTables)
	offset := bodyStart
	var body []byte
	for _, t := range order {
		b := tables[t]
		pb := padded(b)
		recs = append(recs, record{Tag: t, CheckSum: checksum(pb), Offset: uint32(offset), Length: uint32(len(b))})
		if t == tagHead {
			headOffset = offset
		}
		body = append(body, pb...)
		offset += len(pb)
	}

	sort.Slice(recs, func(i, j int) bool {
		return string(recs[i].Tag[:]) < string(recs[j].Tag[:])
	})

	out := make([]byte, bodyStart, bodyStart+len(body))
	binary.BigEndian.PutUint32(out[0:4], 0x00010000)
	binary.BigEndian.PutUint16(out[4:6], uint16(numTables))
	binary.BigEndian.PutUint16(out[6:8], searchRange)
	binary.BigEndian.PutUint16(out[8:10], entrySelector)
	binary.BigEndian.PutUint16(out[10:12], rangeShift)
	for i, r := range recs {
		b := out[12+i*16 : 12+(i+1)*16]
		copy(b[0:4], r.Tag[:])
		binary.BigEndian.PutUint32(b[4:8], r.CheckSum)
		binary.BigEndian.PutUint32(b[8:12], r.Offset)
		binary.BigEndian.PutUint32(b[12:16], r.Length)
	}
	out = append(out, body...)
	return out, headOffset
}

func padded(b []byte) []byte {
	pad := padLen(len(b))
	if pad == 0 {
		return b
	}
	return append(append([]byte(nil), b...), make([]byte, pad)...)
}

// directorySearchParams computes the font directory's binary-search
// hinting fields from the table count.
func directorySearchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	entries := uint16(1)
	log2 := uint16(0)
	for entries*2 <= uint16(numTables) {
		entries *= 2
		log2++
	}
	searchRange = entries * 16
	entrySelector = log2
	rangeShift = uint16(numTables)*16 - searchRange
	return
}
