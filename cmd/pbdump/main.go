// Copyright 2019 The PBScan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pbdump prints the field structure of protocol buffer wire-format
// payloads without needing a schema.
package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/minio/cli"
	"golang.org/x/sync/errgroup"
)

// Version of the pbdump tool.
const Version = "0.3.0"

var appFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "Log decoding progress to stderr.",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Value: 32,
		Usage: "Deepest nested-message level to descend into.",
	},
	cli.BoolFlag{
		Name:  "raw",
		Usage: "Print length-delimited fields as bytes, without guessing at strings or nested messages.",
	},
}

// Help template for pbdump.
var pbdumpHelpTemplate = `NAME:
  {{.Name}} - {{.Usage}}

DESCRIPTION:
  {{.Description}}

USAGE:
  {{.Name}} {{if .Flags}}[flags] {{end}}[file ...]
  Reads from stdin when no file is given. Gzip input is decompressed
  transparently.
{{if .Flags}}
FLAGS:
  {{range .Flags}}{{.}}
  {{end}}{{end}}
VERSION:
  ` + Version +
	`{{ "\n"}}`

func main() {
	app := cli.NewApp()
	app.Name = "pbdump"
	app.Version = Version
	app.Usage = "Inspect protocol buffer wire-format payloads."
	app.Description = `pbdump walks the tagged fields of a wire-format payload and prints one line per field with its number, wire type and value. Length-delimited fields are printed as nested messages or strings when their contents parse as such, unless --raw is given.`
	app.Flags = appFlags
	app.CustomAppHelpTemplate = pbdumpHelpTemplate
	app.Action = dumpAction
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dumpAction(c *cli.Context) error {
	var logger log.Logger = log.NewNopLogger()
	if c.Bool("verbose") {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}

	d := &dumper{
		logger: logger,
		opts: options{
			maxDepth: c.Int("max-depth"),
			raw:      c.Bool("raw"),
		},
	}

	paths := c.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	// Decode the inputs concurrently, print them in argument order.
	outputs := make([][]byte, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out, err := d.dumpFile(path)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		level.Error(logger).Log("msg", "dump failed", "err", err)
		return err
	}

	for i, out := range outputs {
		if len(paths) > 1 {
			fmt.Printf("== %s ==\n", paths[i])
		}
		os.Stdout.Write(out)
	}
	return nil
}
