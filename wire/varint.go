// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "unsafe"

// Integer is the set of integer widths a varint field may decode into.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

// Signed is the set of integer widths a zigzag varint field may decode
// into.
type Signed interface {
	~int32 | ~int64
}

// Varint decodes a varint field into the caller-chosen integer width,
// discarding groups beyond the width exactly as a width-T accumulator
// would.
func Varint[T Integer](c *Cursor) (T, error) {
	x, err := c.DecodeVarint()
	return T(x), err
}

// Svarint decodes a zigzag-encoded varint field into the caller-chosen
// signed width. The zigzag fold is done in T's two's-complement width, so
// Svarint[int32] reproduces sint32 and Svarint[int64] reproduces sint64.
func Svarint[T Signed](c *Cursor) (T, error) {
	x, err := c.DecodeVarint()
	if err != nil {
		return 0, err
	}
	x &= 1<<(unsafe.Sizeof(T(0))*8) - 1
	return T(x>>1) ^ -T(x&1), nil
}
