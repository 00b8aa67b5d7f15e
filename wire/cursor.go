// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"math"
)

// Cursor is a decoding cursor over a wire-format buffer.
//
// A Cursor borrows its buffer: the bytes must stay live and unmodified for
// as long as the Cursor (or any Cursor derived from it by DecodeMessage) is
// in use. It only ever moves forward. After a successful Next or NextField
// the caller must consume the pending value with exactly one typed
// extractor, or Skip it, before decoding the next tag.
//
// The zero Cursor is valid and behaves as an already-exhausted one.
//
// A Cursor is not safe for concurrent use. Cursors returned by
// DecodeMessage share no mutable state with their parent and may be decoded
// on other goroutines.
type Cursor struct {
	buf []byte
	pos int
	tag uint64
}

// NewCursor returns a Cursor reading from buf. The Cursor never writes to
// buf and never reads outside it.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// More reports whether undecoded bytes remain.
func (c *Cursor) More() bool {
	return c.pos < len(c.buf)
}

// Next decodes the next field tag. It returns false with a nil error when
// the buffer is exhausted. On a true return, FieldNumber and WireType
// describe the pending field and its value is ready for extraction.
func (c *Cursor) Next() (bool, error) {
	if c.pos >= len(c.buf) {
		return false, nil
	}
	tag, err := c.varint()
	if err != nil {
		return false, err
	}
	c.tag = tag
	return true, nil
}

// NextField decodes field tags, discarding the values of fields other than
// num, until it finds num or exhausts the buffer. On a true return the
// matching field's value is pending extraction.
//
// Fields scanned over on the way to the match are consumed, so pulling
// several fields out of on-wire order requires a fresh Cursor per field.
func (c *Cursor) NextField(num Number) (bool, error) {
	for {
		ok, err := c.Next()
		if !ok || err != nil {
			return false, err
		}
		if c.FieldNumber() == num {
			return true, nil
		}
		if err := c.Skip(); err != nil {
			return false, err
		}
	}
}

// FieldNumber returns the field number of the last decoded tag.
func (c *Cursor) FieldNumber() Number {
	return Number(c.tag >> 3)
}

// WireType returns the wire type of the last decoded tag.
func (c *Cursor) WireType() Type {
	return Type(c.tag & 7)
}

// varint decodes one unsigned base-128 varint. Field tags and length
// prefixes come through here as well as varint values, so this does not
// look at the pending wire type.
func (c *Cursor) varint() (uint64, error) {
	var x uint64
	for shift := uint(0); shift < 70; shift += 7 {
		if c.pos >= len(c.buf) {
			return 0, ErrUnterminatedVarint
		}
		b := c.buf[c.pos]
		c.pos++
		x |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return x, nil
		}
	}
	return 0, ErrVarintTooLong
}

// DecodeVarint decodes a varint field. This is the wire shape of the
// uint32, uint64, int32, int64, bool and enum protocol buffer types.
func (c *Cursor) DecodeVarint() (uint64, error) {
	if c.WireType() != VarintType {
		return 0, ErrWrongWireType
	}
	return c.varint()
}

// DecodeZigzag64 decodes a zigzag-encoded varint field. This is the wire
// shape of the sint64 protocol buffer type.
func (c *Cursor) DecodeZigzag64() (int64, error) {
	return Svarint[int64](c)
}

// DecodeZigzag32 decodes a zigzag-encoded varint field. This is the wire
// shape of the sint32 protocol buffer type.
func (c *Cursor) DecodeZigzag32() (int32, error) {
	return Svarint[int32](c)
}

// DecodeFixed64 decodes a fixed 64-bit field. This is the wire shape of
// the fixed64, sfixed64 and double protocol buffer types.
func (c *Cursor) DecodeFixed64() (uint64, error) {
	if c.WireType() != Fixed64Type {
		return 0, ErrWrongWireType
	}
	if err := c.SkipBytes(8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(c.buf[c.pos-8:]), nil
}

// DecodeFixed32 decodes a fixed 32-bit field. This is the wire shape of
// the fixed32, sfixed32 and float protocol buffer types.
func (c *Cursor) DecodeFixed32() (uint32, error) {
	if c.WireType() != Fixed32Type {
		return 0, ErrWrongWireType
	}
	if err := c.SkipBytes(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.buf[c.pos-4:]), nil
}

// DecodeFloat64 decodes a double field.
func (c *Cursor) DecodeFloat64() (float64, error) {
	x, err := c.DecodeFixed64()
	return math.Float64frombits(x), err
}

// DecodeFloat32 decodes a float field.
func (c *Cursor) DecodeFloat32() (float32, error) {
	x, err := c.DecodeFixed32()
	return math.Float32frombits(x), err
}

// DecodeBool decodes a bool field. The wire format encodes booleans in a
// single byte, so a set continuation bit means the field is not a bool.
func (c *Cursor) DecodeBool() (bool, error) {
	if c.WireType() != VarintType {
		return false, ErrWrongWireType
	}
	if err := c.SkipBytes(1); err != nil {
		return false, err
	}
	b := c.buf[c.pos-1]
	if b&0x80 != 0 {
		return false, ErrWrongWireType
	}
	return b != 0, nil
}

// DecodeBytes decodes a length-delimited field into a freshly allocated
// slice that does not alias the buffer.
func (c *Cursor) DecodeBytes() ([]byte, error) {
	raw, err := c.raw()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// DecodeString decodes a length-delimited field as a string.
func (c *Cursor) DecodeString() (string, error) {
	raw, err := c.raw()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeMessage bounds a nested message field and returns an independent
// Cursor over it. The parent is left positioned after the entire nested
// region, so advancing either cursor never affects the other.
func (c *Cursor) DecodeMessage() (Cursor, error) {
	raw, err := c.raw()
	if err != nil {
		return Cursor{}, err
	}
	return Cursor{buf: raw}, nil
}

// raw consumes a length-delimited payload and returns it as a sub-slice of
// the buffer.
func (c *Cursor) raw() ([]byte, error) {
	if c.WireType() != BytesType {
		return nil, ErrWrongWireType
	}
	n, err := c.varint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(c.buf)-c.pos) {
		return nil, ErrEndOfBuffer
	}
	pos := c.pos
	if err := c.SkipBytes(int(n)); err != nil {
		return nil, err
	}
	return c.buf[pos:c.pos:c.pos], nil
}

// Skip discards the value of the last decoded field.
func (c *Cursor) Skip() error {
	switch c.WireType() {
	case VarintType:
		_, err := c.varint()
		return err
	case Fixed64Type:
		return c.SkipBytes(8)
	case BytesType:
		n, err := c.varint()
		if err != nil {
			return err
		}
		if n > uint64(len(c.buf)-c.pos) {
			return ErrEndOfBuffer
		}
		return c.SkipBytes(int(n))
	case Fixed32Type:
		return c.SkipBytes(4)
	}
	return ErrUnknownFieldType
}

// SkipBytes advances the cursor n bytes. Every length-bearing read funnels
// through here, so an oversized length anywhere surfaces as ErrEndOfBuffer
// before any byte past the buffer is touched.
func (c *Cursor) SkipBytes(n int) error {
	if n < 0 || n > len(c.buf)-c.pos {
		return ErrEndOfBuffer
	}
	c.pos += n
	return nil
}
