// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/packer"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/source"
)

type unpackParams struct {
	GlobalParams
	Output string `flag:"output,o" desc:"source directory to write (default: archive path without extension)"`
}

func unpackCommand(streams Streams) *cli.Command {
	var params unpackParams

	return &cli.Command{
		Name:    "unpack",
		Summary: "Unpack a content archive into a source directory",
		Usage:   "contentpack unpack <archive> [flags]",
		Description: `Rebuild the project stored in <archive> and write it as a source
directory: a project.jsonc manifest plus one file per distinct asset.

Atlases are cut back into individual sprites and every repository
blob is verified against its SHA-1 digest.`,
		Examples: []cli.Example{
			{
				Description: "Unpack into ./neon",
				Command:     "contentpack unpack neon.zip",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, "<archive>"); err != nil {
				return err
			}
			path := args[0]
			output := params.Output
			if output == "" {
				output = trimExtension(path)
			}
			if output == path {
				return fmt.Errorf("output directory would replace %s; pass --output", path)
			}

			env, err := params.setup("unpack", streams)
			if err != nil {
				return err
			}
			data, err := readArchive(path)
			if err != nil {
				return err
			}

			options := env.packerOptions()
			options.OnProgress = progressReporter(env, "unpacking")
			p, err := packer.Unpack(ctx, data, options)
			if err != nil {
				return err
			}
			if err := source.Export(output, p, env.registry); err != nil {
				return err
			}

			items := 0
			for _, kind := range project.Kinds() {
				items += p.Count(kind)
			}
			env.logger.Info("source written", "path", output, "items", items, "assets", env.registry.Len())
			fmt.Fprintf(streams.Out, "unpacked %d items into %s\n", items, output)
			return nil
		},
	}
}
