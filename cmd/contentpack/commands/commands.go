// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the contentpack command tree.
package commands

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/version"
)

// Root builds and returns the complete contentpack command tree,
// printing results to streams.Out and everything else to streams.Err.
func Root(streams Streams) *cli.Command {
	return &cli.Command{
		Name: "contentpack",
		Description: `contentpack: build and take apart rhythm-game content packages.

A package is a zip archive of skins, backgrounds, effects and particle
effects. Sources are plain directories holding a project.jsonc manifest
and the image and audio files it names.`,
		Output: streams.Err,
		Subcommands: []*cli.Command{
			packCommand(streams),
			unpackCommand(streams),
			inspectCommand(streams),
			catCommand(streams),
			previewCommand(streams),
			workspaceCommand(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(streams.Out, "contentpack %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Pack a source directory",
				Command:     "contentpack pack ./neon -o neon.zip",
			},
			{
				Description: "Check an archive end to end",
				Command:     "contentpack inspect neon.zip --check",
			},
			{
				Description: "Turn an archive back into editable sources",
				Command:     "contentpack unpack neon.zip -o ./neon",
			},
			{
				Description: "Preview a particle effect",
				Command:     "contentpack preview ./neon sparks perfect --frames 8",
			},
		},
	}
}
