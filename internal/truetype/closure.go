/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package truetype

import (
	"encoding/binary"

	"github.com/gopdfcore/pdfcore/core"
)

// GlyphID is a glyph index into a font's glyf table.
type GlyphID uint16

// Composite glyph component flags, TrueType glyf table layout.
const (
	flagArgsAreWords    = 0x0001
	flagWeHaveAScale    = 0x0008
	flagMoreComponents  = 0x0020
	flagWeHaveXYScale   = 0x0040
	flagWeHaveTwoByTwo  = 0x0080
)

// component records one component reference inside a compound glyph: the
// glyph it names, and the byte offset (relative to the start of the
// compound glyph's own record) of the 16-bit field naming it, so the
// writer can later overwrite that field with the component's renumbered
// GID.
type component struct {
	gid    GlyphID
	offset int
}

// readLoca decodes the loca table into numGlyphs+1 absolute byte offsets
// into the glyf table. format 0 is the short (16-bit, value*2) form;
// format 1 is the long (32-bit) form, per head.indexToLocFormat.
func readLoca(locaData []byte, numGlyphs int, format int16) ([]uint32, error) {
	offsets := make([]uint32, numGlyphs+1)
	if format == 0 {
		if len(locaData) < (numGlyphs+1)*2 {
			return nil, core.ErrUnexpectedEOF
		}
		for i := range offsets {
			offsets[i] = uint32(binary.BigEndian.Uint16(locaData[i*2:])) * 2
		}
	} else {
		if len(locaData) < (numGlyphs+1)*4 {
			return nil, core.ErrUnexpectedEOF
		}
		for i := range offsets {
			offsets[i] = binary.BigEndian.Uint32(locaData[i*4:])
		}
	}
	return offsets, nil
}

// glyphRange returns the byte range of glyph gid within glyfData, per the
// loca offsets.
func glyphRange(loca []uint32, glyfData []byte, gid GlyphID) ([]byte, error) {
	if int(gid)+1 >= len(loca) {
		return nil, core.ErrInternalLogic
	}
	start, end := loca[gid], loca[gid+1]
	if end < start || int64(end) > int64(len(glyfData)) {
		return nil, core.ErrUnexpectedEOF
	}
	return glyfData[start:end], nil
}

// walkComponents scans a compound glyph's component records, starting
// immediately after the 10-byte glyph header (the common 5 int16 fields
// every glyph record starts with: numberOfContours, xMin, yMin, xMax,
// yMax). It returns every component reference found.
func walkComponents(data []byte) ([]component, error) {
	var out []component
	off := 10
	for {
		if off+4 > len(data) {
			return nil, core.ErrUnexpectedEOF
		}
		flags := binary.BigEndian.Uint16(data[off : off+2])
		gid := binary.BigEndian.Uint16(data[off+2 : off+4])
		out = append(out, component{gid: GlyphID(gid), offset: off + 2})

		size := 3
		if flags&flagArgsAreWords != 0 {
			size = 4
		}
		switch {
		case flags&flagWeHaveTwoByTwo != 0:
			size += 4
		case flags&flagWeHaveXYScale != 0:
			size += 2
		case flags&flagWeHaveAScale != 0:
			size += 1
		}
		off += size * 2

		if flags&flagMoreComponents == 0 {
			break
		}
	}
	return out, nil
}

// glyphClosure is the result of walking the transitive closure of a
// requested glyph set: orderedGIDs lists every glyph the output must
// contain, in the order required by the renumbering rule (glyph 0 first,
// then the caller's requested GIDs in order, then newly discovered
// compound descendants in discovery order); components maps each
// compound glyph's old GID to the component references found inside it.
type glyphClosure struct {
	orderedGIDs []GlyphID
	components  map[GlyphID][]component
}

// computeClosure walks loca/glyfData starting from requested (to which
// GID 0 is always implicitly added) and follows every compound glyph's
// component references until no new GIDs are discovered.
func computeClosure(loca []uint32, glyfData []byte, requested []GlyphID) (*glyphClosure, error) {
	seen := map[GlyphID]bool{0: true}
	ordered := []GlyphID{0}
	components := make(map[GlyphID][]component)

	enqueue := func(gid GlyphID) {
		if !seen[gid] {
			seen[gid] = true
			ordered = append(ordered, gid)
		}
	}
	for _, gid := range requested {
		if gid != 0 {
			enqueue(gid)
		}
	}

	// ordered grows as compound descendants are discovered; iterate by
	// index rather than range so newly appended entries are visited too.
	for i := 0; i < len(ordered); i++ {
		gid := ordered[i]
		data, err := glyphRange(loca, glyfData, gid)
		if err != nil {
			return nil, err
		}
		if len(data) < 10 {
			continue // Zero-length (whitespace) glyph.
		}
		numContours := int16(binary.BigEndian.Uint16(data[0:2]))
		if numContours >= 0 {
			continue // Simple glyph: no components.
		}
		comps, err := walkComponents(data)
		if err != nil {
			return nil, err
		}
		components[gid] = comps
		for _, c := range comps {
			enqueue(c.gid)
		}
	}

	return &glyphClosure{orderedGIDs: ordered, components: components}, nil
}
