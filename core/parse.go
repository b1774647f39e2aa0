/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/gopdfcore/pdfcore/common"
)

// Parser turns raw PDF object syntax - names, numbers, strings, hex
// strings, arrays, dictionaries, booleans, null, and indirect references
// - into Variants. It knows nothing about cross-reference tables,
// trailers, or file-level recovery: those belong to whatever higher-level
// reader locates an object's byte offset in the first place and hands
// this Parser the bytes starting at that offset.
type Parser struct {
	reader *bufio.Reader
}

// NewParser wraps r for object-literal parsing.
func NewParser(r io.Reader) *Parser {
	common.Log.Trace("core: parser starting (%s)", versionBanner())
	return &Parser{reader: bufio.NewReader(r)}
}

// skipSpaces consumes any run of whitespace bytes.
func (p *Parser) skipSpaces() error {
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !IsWhiteSpace(b) {
			return p.reader.UnreadByte()
		}
	}
}

// skipComments consumes whitespace and any run of "% ... \n" comments,
// leaving the reader positioned at the next non-space, non-comment byte.
func (p *Parser) skipComments() error {
	for {
		if err := p.skipSpaces(); err != nil {
			return err
		}
		bb, err := p.reader.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if bb[0] != '%' {
			return nil
		}
		for {
			bb, err := p.reader.Peek(1)
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			if bb[0] == '\r' || bb[0] == '\n' {
				break
			}
			p.reader.ReadByte()
		}
	}
}

// ParseObject detects the object at the current position and parses it.
func (p *Parser) ParseObject() (*Variant, error) {
	if err := p.skipComments(); err != nil {
		return nil, err
	}
	bb, err := p.reader.Peek(1)
	if err != nil {
		return nil, err
	}
	switch {
	case bb[0] == '/':
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		return NewNameVariant(name), nil
	case bb[0] == '(':
		return p.parseLiteralString()
	case bb[0] == '[':
		return p.parseArray()
	case bb[0] == '<':
		two, err := p.reader.Peek(2)
		if err == nil && len(two) == 2 && two[1] == '<' {
			return p.parseDictionary()
		}
		return p.parseHexString()
	default:
		return p.parseNumberBoolNullOrReference()
	}
}

// parseName parses a name starting with '/', including '#xx' hex escapes.
func (p *Parser) parseName() (Name, error) {
	c, err := p.reader.ReadByte()
	if err != nil {
		return "", err
	}
	if c != '/' {
		return "", newError(ErrKindValueOutOfRange, "name must start with '/', got %q", c)
	}
	var r bytes.Buffer
	for {
		bb, err := p.reader.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Name(r.String()), err
		}
		b := bb[0]
		if IsWhiteSpace(b) || IsDelimiter(b) {
			break
		}
		if b == '#' {
			hexcode, err := p.reader.Peek(3)
			if err != nil || len(hexcode) < 3 {
				r.WriteByte('#')
				p.reader.Discard(1)
				continue
			}
			code, err := hex.DecodeString(string(hexcode[1:3]))
			if err != nil {
				r.WriteByte('#')
				p.reader.Discard(1)
				continue
			}
			p.reader.Discard(3)
			r.Write(code)
			continue
		}
		p.reader.ReadByte()
		r.WriteByte(b)
	}
	return Name(r.String()), nil
}

// parseLiteralString parses a "(...)" string, resolving escape sequences
// and balanced nested parentheses.
func (p *Parser) parseLiteralString() (*Variant, error) {
	p.reader.ReadByte() // consume '('
	var r bytes.Buffer
	depth := 1
	for {
		bb, err := p.reader.Peek(1)
		if err != nil {
			return NewString(r.Bytes()), err
		}
		switch bb[0] {
		case '\\':
			p.reader.ReadByte()
			b, err := p.reader.ReadByte()
			if err != nil {
				return NewString(r.Bytes()), err
			}
			if IsOctalDigit(b) {
				rest, _ := p.reader.Peek(2)
				numeric := []byte{b}
				for _, v := range rest {
					if IsOctalDigit(v) {
						numeric = append(numeric, v)
					} else {
						break
					}
				}
				p.reader.Discard(len(numeric) - 1)
				code, err := strconv.ParseUint(string(numeric), 8, 32)
				if err != nil {
					return NewString(r.Bytes()), err
				}
				r.WriteByte(byte(code))
				continue
			}
			switch b {
			case 'n':
				r.WriteByte('\n')
			case 'r':
				r.WriteByte('\r')
			case 't':
				r.WriteByte('\t')
			case 'b':
				r.WriteByte('\b')
			case 'f':
				r.WriteByte('\f')
			case '(':
				r.WriteByte('(')
			case ')':
				r.WriteByte(')')
			case '\\':
				r.WriteByte('\\')
			case '\r', '\n':
				// Line continuation: backslash-newline contributes nothing.
			default:
				r.WriteByte(b)
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.reader.ReadByte()
				return NewString(r.Bytes()), nil
			}
		}
		b, _ := p.reader.ReadByte()
		r.WriteByte(b)
	}
}

// parseHexString parses a "<...>" string. An odd number of hex digits is
// padded with a trailing zero nibble, per the format's rule.
func (p *Parser) parseHexString() (*Variant, error) {
	p.reader.ReadByte() // consume '<'
	var r bytes.Buffer
	for {
		bb, err := p.reader.Peek(1)
		if err != nil {
			return NewHexString(nil), err
		}
		if bb[0] == '>' {
			p.reader.ReadByte()
			break
		}
		b, _ := p.reader.ReadByte()
		if !IsWhiteSpace(b) {
			r.WriteByte(b)
		}
	}
	if r.Len()%2 == 1 {
		r.WriteByte('0')
	}
	decoded := make([]byte, hex.DecodedLen(r.Len()))
	n, err := hex.Decode(decoded, r.Bytes())
	if err != nil {
		return NewHexString(nil), err
	}
	return NewHexString(decoded[:n]), nil
}

// parseArray parses a "[...]" array of direct objects.
func (p *Parser) parseArray() (*Variant, error) {
	p.reader.ReadByte() // consume '['
	arr := NewArray()
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		bb, err := p.reader.Peek(1)
		if err != nil {
			return nil, err
		}
		if bb[0] == ']' {
			p.reader.ReadByte()
			break
		}
		el, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		if err := arr.Append(el); err != nil {
			return nil, err
		}
	}
	return NewArrayVariant(arr), nil
}

// parseDictionary parses a "<<...>>" dictionary of key/value pairs.
func (p *Parser) parseDictionary() (*Variant, error) {
	p.reader.ReadByte()
	p.reader.ReadByte() // consume "<<"
	dict := NewDictionary()
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		bb, err := p.reader.Peek(2)
		if err != nil {
			return nil, err
		}
		if len(bb) >= 2 && bb[0] == '>' && bb[1] == '>' {
			p.reader.ReadByte()
			p.reader.ReadByte()
			break
		}
		key, err := p.parseName()
		if err != nil {
			return nil, err
		}
		if err := p.skipComments(); err != nil {
			return nil, err
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		if err := dict.Set(key, val); err != nil {
			return nil, err
		}
	}
	return NewDictionaryVariant(dict), nil
}

// parseNumberBoolNullOrReference handles the tokens that don't start with
// a self-identifying delimiter: integers, reals, "true"/"false", "null",
// and "N G R" indirect references. All five share an ambiguous lead byte
// (a digit, sign, or letter), so the token must be read before its kind is
// known.
func (p *Parser) parseNumberBoolNullOrReference() (*Variant, error) {
	lookahead, _ := p.reader.Peek(32)
	s := string(lookahead)

	if len(s) >= 4 && s[:4] == "true" {
		p.reader.Discard(4)
		return NewBool(true), nil
	}
	if len(s) >= 5 && s[:5] == "false" {
		p.reader.Discard(5)
		return NewBool(false), nil
	}
	if len(s) >= 4 && s[:4] == "null" {
		p.reader.Discard(4)
		return NewNull(), nil
	}

	if ref, ok, err := p.tryParseReference(); err != nil {
		return nil, err
	} else if ok {
		return NewReference(ref), nil
	}

	return p.parseNumber()
}

// tryParseReference attempts to read "objNum genNum R" at the current
// position. If the token does not match that pattern, it leaves the
// reader untouched and reports ok=false so the caller falls back to plain
// number parsing.
func (p *Parser) tryParseReference() (Reference, bool, error) {
	mark, err := p.reader.Peek(32)
	if err != nil && len(mark) == 0 {
		return Reference{}, false, nil
	}

	i := 0
	readDigits := func() (string, int) {
		start := i
		for i < len(mark) && mark[i] >= '0' && mark[i] <= '9' {
			i++
		}
		return string(mark[start:i]), i - start
	}
	skipSpace := func() int {
		start := i
		for i < len(mark) && IsWhiteSpace(mark[i]) {
			i++
		}
		return i - start
	}

	objStr, n := readDigits()
	if n == 0 {
		return Reference{}, false, nil
	}
	if skipSpace() == 0 {
		return Reference{}, false, nil
	}
	genStr, n := readDigits()
	if n == 0 {
		return Reference{}, false, nil
	}
	skipSpace()
	if i >= len(mark) || mark[i] != 'R' {
		return Reference{}, false, nil
	}
	// 'R' must end the token, not merely begin a longer identifier.
	if i+1 < len(mark) && !IsWhiteSpace(mark[i+1]) && !IsDelimiter(mark[i+1]) {
		return Reference{}, false, nil
	}
	i++

	objNum, err := strconv.ParseUint(objStr, 10, 32)
	if err != nil {
		return Reference{}, false, nil
	}
	genNum, err := strconv.ParseUint(genStr, 10, 16)
	if err != nil {
		return Reference{}, false, nil
	}

	p.reader.Discard(i)
	return Reference{ObjectNumber: uint32(objNum), GenerationNumber: uint16(genNum)}, true, nil
}

// parseNumber parses an integer or real number, tolerating the
// exponential notation some non-conforming writers emit even though it is
// not legal PDF syntax.
func (p *Parser) parseNumber() (*Variant, error) {
	var tok bytes.Buffer
	isReal := false
	isExp := false
	for {
		bb, err := p.reader.Peek(1)
		if err != nil {
			break
		}
		c := bb[0]
		switch {
		case c == '+' || c == '-':
			if tok.Len() > 0 && !isExp {
				goto done
			}
		case c == '.':
			isReal = true
		case c == 'e' || c == 'E':
			isReal = true
			isExp = true
		case c >= '0' && c <= '9':
			// Digit: always part of the token.
		default:
			goto done
		}
		b, _ := p.reader.ReadByte()
		tok.WriteByte(b)
	}
done:
	s := tok.String()
	if s == "" || s == "-" || s == "+" {
		return NewInteger(0), nil
	}
	if isReal {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, wrapError(ErrKindValueOutOfRange, err, "invalid numeric token %q", s)
		}
		return NewReal(f), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Overflows int64 (rare, malformed input): fall back to real.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil, wrapError(ErrKindValueOutOfRange, err, "invalid numeric token %q", s)
		}
		return NewReal(f), nil
	}
	return NewInteger(n), nil
}
