// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wirebyte/pbscan/wire"
)

func testDumper(opts options) *dumper {
	return &dumper{logger: log.NewNopLogger(), opts: opts}
}

func samplePayload() []byte {
	var nested []byte
	nested = protowire.AppendVarint(protowire.AppendTag(nested, 1, protowire.VarintType), 1)

	var buf []byte
	buf = protowire.AppendVarint(protowire.AppendTag(buf, 1, protowire.VarintType), 150)
	buf = protowire.AppendFixed32(protowire.AppendTag(buf, 2, protowire.Fixed32Type), math.Float32bits(1.5))
	buf = protowire.AppendFixed64(protowire.AppendTag(buf, 3, protowire.Fixed64Type), math.Float64bits(2.5))
	buf = protowire.AppendBytes(protowire.AppendTag(buf, 4, protowire.BytesType), []byte("hello, world"))
	buf = protowire.AppendBytes(protowire.AppendTag(buf, 5, protowire.BytesType), nested)
	return buf
}

func TestDump(t *testing.T) {
	d := testDumper(options{maxDepth: 32})

	var out bytes.Buffer
	err := d.message(&out, wire.NewCursor(samplePayload()), 0)
	require.NoError(t, err)

	want := "1: varint 150\n" +
		"2: fixed32 0x3fc00000 (1.5)\n" +
		"3: fixed64 0x4004000000000000 (2.5)\n" +
		"4: string \"hello, world\"\n" +
		"5: message (2 bytes) {\n" +
		"  1: varint 1\n" +
		"}\n"
	require.Equal(t, want, out.String())
}

func TestDumpRaw(t *testing.T) {
	d := testDumper(options{maxDepth: 32, raw: true})

	var buf []byte
	buf = protowire.AppendBytes(protowire.AppendTag(buf, 4, protowire.BytesType), []byte("hi"))

	var out bytes.Buffer
	err := d.message(&out, wire.NewCursor(buf), 0)
	require.NoError(t, err)
	require.Equal(t, "4: bytes (2) 6869\n", out.String())
}

func TestDumpMaxDepth(t *testing.T) {
	// With maxDepth 0 the nested message is not descended into; its bytes
	// are not printable, so they render as hex.
	d := testDumper(options{maxDepth: 0})

	var nested []byte
	nested = protowire.AppendVarint(protowire.AppendTag(nested, 1, protowire.VarintType), 1)
	buf := protowire.AppendBytes(protowire.AppendTag(nil, 5, protowire.BytesType), nested)

	var out bytes.Buffer
	err := d.message(&out, wire.NewCursor(buf), 0)
	require.NoError(t, err)
	require.Equal(t, "5: bytes (2) 0801\n", out.String())
}

func TestDumpTruncated(t *testing.T) {
	buf := samplePayload()
	d := testDumper(options{maxDepth: 32})

	var out bytes.Buffer
	err := d.message(&out, wire.NewCursor(buf[:len(buf)-1]), 0)
	require.Error(t, err)
	require.ErrorIs(t, err, wire.ErrEndOfBuffer)
}

func TestLooksLikeMessage(t *testing.T) {
	tests := []struct {
		desc string
		buf  []byte
		want bool
	}{
		{"empty", nil, false},
		{"single varint field", []byte{0x08, 0x01}, true},
		{"truncated", []byte{0x08}, false},
		{"group wire type", []byte{0x0b}, false},
		{"ascii text", []byte("hello, world"), false},
		{"sample payload", samplePayload(), true},
	}
	for _, tt := range tests {
		if got := looksLikeMessage(tt.buf); got != tt.want {
			t.Errorf("%s: looksLikeMessage() = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestDumpFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.pb.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(samplePayload())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	d := testDumper(options{maxDepth: 32})
	out, err := d.dumpFile(path)
	require.NoError(t, err)
	require.Contains(t, string(out), "1: varint 150\n")
	require.Contains(t, string(out), "5: message (2 bytes) {\n")
}
