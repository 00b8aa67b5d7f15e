// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire decodes the protocol buffers wire format.
//
// It exposes a Cursor that walks the tagged fields of a contiguous
// wire-format buffer one at a time, decoding values on demand without
// building an intermediate representation. It is a building block for
// schema-aware decoders: the caller is expected to know the field numbers
// and wire types it cares about and to request values directly, skipping
// everything else.
//
// See https://developers.google.com/protocol-buffers/docs/encoding.
package wire

// Number is a protocol buffer field number.
type Number int32

// Type is a protocol buffer wire type, the low three bits of a field tag.
type Type int8

const (
	VarintType     Type = 0
	Fixed64Type    Type = 1
	BytesType      Type = 2
	StartGroupType Type = 3
	EndGroupType   Type = 4
	Fixed32Type    Type = 5
)

func (t Type) String() string {
	switch t {
	case VarintType:
		return "varint"
	case Fixed64Type:
		return "fixed64"
	case BytesType:
		return "bytes"
	case StartGroupType:
		return "start_group"
	case EndGroupType:
		return "end_group"
	case Fixed32Type:
		return "fixed32"
	}
	return "invalid"
}
