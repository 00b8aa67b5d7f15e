// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import "github.com/wirebyte/pbscan/internal/errors"

// Decoding errors. All of them are fatal to the Cursor that reported them:
// its position is no longer meaningful and it must be abandoned. Compare
// with errors.Is.
var (
	// ErrUnterminatedVarint is reported when the buffer ends in the middle
	// of a varint.
	ErrUnterminatedVarint = errors.New("unterminated varint")

	// ErrVarintTooLong is reported when a varint runs past ten groups
	// without a terminating byte. Ten groups cover every integer width the
	// wire format can carry, so a longer run is corrupt or hostile input.
	ErrVarintTooLong = errors.New("varint too long")

	// ErrUnknownFieldType is reported by Skip for wire types other than
	// 0, 1, 2 and 5. This includes the legacy group types 3 and 4, which
	// the wire package does not support.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrEndOfBuffer is reported when a length-bearing read would run past
	// the end of the buffer.
	ErrEndOfBuffer = errors.New("end of buffer")

	// ErrWrongWireType is reported by typed extractors when the pending
	// field's wire type does not match the requested value shape.
	ErrWrongWireType = errors.New("wrong wire type")
)
