// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/blobstore"
	"github.com/bureau-foundation/contentpack/lib/codec"
)

type catParams struct {
	Raw bool `flag:"raw" desc:"write entry bytes unchanged (no gunzip, indentation or colour)"`
}

func catCommand(streams Streams) *cli.Command {
	var params catParams

	return &cli.Command{
		Name:    "cat",
		Summary: "Print a document from an archive or workspace",
		Usage:   "contentpack cat <archive> <entry> | contentpack cat <snapshot.cbor> [flags]",
		Description: `Print one entry of an archive. Repository blobs that hold gzipped
JSON are decompressed, and JSON is indented and, on a terminal,
syntax-highlighted.

Given a single .cbor file, such as a workspace snapshot, print it in
CBOR diagnostic notation instead.`,
		Examples: []cli.Example{
			{
				Description: "Show the particle list",
				Command:     "contentpack cat neon.zip sonolus/particles/list",
			},
			{
				Description: "Decode a workspace snapshot",
				Command:     "contentpack cat ~/.local/share/contentpack/workspace/snapshots/draft.cbor",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".cbor") {
				return catSnapshot(streams.Out, args[0])
			}
			if err := requireArgs(args, "<archive>", "<entry>"); err != nil {
				return err
			}
			data, err := readArchive(args[0])
			if err != nil {
				return err
			}
			reader, err := archive.NewReader(data)
			if err != nil {
				return err
			}
			entry, err := reader.ReadFile(args[1])
			if err != nil {
				return err
			}
			if params.Raw {
				_, err := streams.Out.Write(entry)
				return err
			}
			return printDocument(streams.Out, entry)
		},
	}
}

func catSnapshot(out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	diagnostic, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	_, err = fmt.Fprintln(out, diagnostic)
	return err
}

// printDocument writes an entry for reading: gunzipped when it is a
// gzip stream, indented and highlighted when it is JSON, unchanged
// otherwise.
func printDocument(out io.Writer, entry []byte) error {
	if isGzip(entry) {
		plain, err := blobstore.Decompress(entry)
		if err != nil {
			return err
		}
		entry = plain
	}
	if !json.Valid(entry) {
		_, err := out.Write(entry)
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, entry, "", "  "); err != nil {
		return err
	}
	indented.WriteByte('\n')
	if cli.IsTerminal(out) {
		if err := quick.Highlight(out, indented.String(), "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := out.Write(indented.Bytes())
	return err
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
