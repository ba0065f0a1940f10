// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/packer"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/source"
	"github.com/bureau-foundation/contentpack/lib/task"
)

type packParams struct {
	GlobalParams
	Output string `flag:"output,o" desc:"archive path (default: <source>.zip)"`
}

func packCommand(streams Streams) *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Pack a source directory into a content archive",
		Usage:   "contentpack pack <source-dir> [flags]",
		Description: `Pack the project described by <source-dir>/project.jsonc into a
distributable zip archive.

Particle and skin sprites are packed into one texture atlas per item,
data documents are gzipped, and every asset is stored once under its
SHA-1 digest.`,
		Examples: []cli.Example{
			{
				Description: "Pack a project next to its source directory",
				Command:     "contentpack pack ./neon",
			},
			{
				Description: "Pack with debug logging of every task",
				Command:     "contentpack pack ./neon -o dist/neon.zip --verbose",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, "<source-dir>"); err != nil {
				return err
			}
			dir := filepath.Clean(args[0])
			output := params.Output
			if output == "" {
				output = dir + ".zip"
			}

			env, err := params.setup("pack", streams)
			if err != nil {
				return err
			}
			p, err := source.Load(dir, env.registry)
			if err != nil {
				return err
			}

			options := env.packerOptions()
			options.OnProgress = progressReporter(env, "packing")
			data, err := packer.Pack(ctx, p, options)
			if err != nil {
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}

			items := 0
			for _, kind := range project.Kinds() {
				items += p.Count(kind)
			}
			env.logger.Info("archive written", "path", output, "items", items, "bytes", len(data))
			fmt.Fprintf(streams.Out, "packed %d items into %s (%s, %d blobs)\n",
				items, output, formatSize(int64(len(data))), options.Store.Len())
			return nil
		},
	}
}

// progressReporter returns an OnProgress callback that redraws one
// status line on a terminal and stays silent otherwise.
func progressReporter(env *environment, verb string) func(task.Progress) {
	if !cli.IsTerminal(env.streams.Err) {
		return nil
	}
	return func(progress task.Progress) {
		fmt.Fprintf(env.streams.Err, "\r\033[K%s [%d/%d] %s", verb, progress.Index+1, progress.Total, progress.Description)
		if progress.Index+1 == progress.Total {
			fmt.Fprintln(env.streams.Err)
		}
	}
}

// readArchive reads an archive file, naming the path in errors.
func readArchive(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return data, nil
}
