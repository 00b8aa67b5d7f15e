// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/wirebyte/pbscan/wire"
)

// hexLimit bounds how many bytes of an opaque field are printed.
const hexLimit = 64

type options struct {
	maxDepth int
	raw      bool
}

type dumper struct {
	logger log.Logger
	opts   options
}

// dumpFile reads one input ("-" means stdin), transparently decompresses
// gzip, and renders the payload's field tree.
func (d *dumper) dumpFile(path string) ([]byte, error) {
	var payload []byte
	var err error
	if path == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if len(payload) >= 2 && payload[0] == 0x1f && payload[1] == 0x8b {
		level.Debug(d.logger).Log("msg", "gzip input detected", "file", path)
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, errors.Wrapf(err, "decompressing %s", path)
		}
		payload, err = io.ReadAll(zr)
		if err != nil {
			return nil, errors.Wrapf(err, "decompressing %s", path)
		}
	}
	level.Debug(d.logger).Log("msg", "dumping", "file", path, "bytes", len(payload))

	var out bytes.Buffer
	if err := d.message(&out, wire.NewCursor(payload), 0); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return out.Bytes(), nil
}

func (d *dumper) message(w io.Writer, c wire.Cursor, depth int) error {
	for {
		ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := d.field(w, &c, depth); err != nil {
			return errors.Wrapf(err, "field %d", c.FieldNumber())
		}
	}
}

func (d *dumper) field(w io.Writer, c *wire.Cursor, depth int) error {
	indent := strings.Repeat("  ", depth)
	num := c.FieldNumber()
	switch c.WireType() {
	case wire.VarintType:
		v, err := c.DecodeVarint()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%d: varint %d\n", indent, num, v)
	case wire.Fixed64Type:
		v, err := c.DecodeFixed64()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%d: fixed64 0x%016x (%g)\n", indent, num, v, math.Float64frombits(v))
	case wire.Fixed32Type:
		v, err := c.DecodeFixed32()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%d: fixed32 0x%08x (%g)\n", indent, num, v, math.Float32frombits(v))
	case wire.BytesType:
		raw, err := c.DecodeBytes()
		if err != nil {
			return err
		}
		return d.bytesField(w, num, raw, depth)
	default:
		// Groups and reserved wire types; Skip reports the error.
		return c.Skip()
	}
	return nil
}

func (d *dumper) bytesField(w io.Writer, num wire.Number, raw []byte, depth int) error {
	indent := strings.Repeat("  ", depth)
	switch {
	case !d.opts.raw && depth < d.opts.maxDepth && looksLikeMessage(raw):
		fmt.Fprintf(w, "%s%d: message (%d bytes) {\n", indent, num, len(raw))
		if err := d.message(w, wire.NewCursor(raw), depth+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case !d.opts.raw && printable(raw):
		fmt.Fprintf(w, "%s%d: string %q\n", indent, num, raw)
	case len(raw) > hexLimit:
		fmt.Fprintf(w, "%s%d: bytes (%d) %x...\n", indent, num, len(raw), raw[:hexLimit])
	default:
		fmt.Fprintf(w, "%s%d: bytes (%d) %x\n", indent, num, len(raw), raw)
	}
	return nil
}

// looksLikeMessage reports whether buf parses cleanly, to exhaustion, as a
// wire-format message with plausible field numbers. Short byte strings
// often pass this test too; that ambiguity is inherent to schema-less
// decoding.
func looksLikeMessage(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	c := wire.NewCursor(buf)
	for {
		ok, err := c.Next()
		if err != nil {
			return false
		}
		if !ok {
			return true
		}
		if c.FieldNumber() < 1 {
			return false
		}
		if err := c.Skip(); err != nil {
			return false
		}
	}
}

func printable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' {
			return false
		}
	}
	return len(b) > 0
}
