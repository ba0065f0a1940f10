// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/imagecodec"
	"github.com/bureau-foundation/contentpack/lib/project"
	"github.com/bureau-foundation/contentpack/lib/render"
)

type previewParams struct {
	GlobalParams
	Output string `flag:"output,o" desc:"PNG path (default: <particle>-<effect>.png)"`
	Frames int    `flag:"frames,n" desc:"frames in the strip, spread from progress 0 to 1 (default: from config)"`
	Size   int    `flag:"size" desc:"frame width and height in pixels (default: from config)"`
	Seed   uint64 `flag:"seed" desc:"seed for the particles' random inputs"`
}

func previewCommand(streams Streams) *cli.Command {
	var params previewParams

	return &cli.Command{
		Name:    "preview",
		Summary: "Render a particle effect to a PNG frame strip",
		Usage:   "contentpack preview <source-dir|archive> <particle> <effect> [flags]",
		Description: `Render one effect of a particle item as a horizontal strip of
frames, evenly spaced over the effect's lifetime.

The project may be a source directory or a packed archive. Random
inputs are drawn from --seed, so the same seed renders the same strip.`,
		Examples: []cli.Example{
			{
				Description: "Preview the perfect-hit effect in eight frames",
				Command:     "contentpack preview ./neon sparks perfect --frames 8",
			},
			{
				Description: "Preview straight from an archive with another seed",
				Command:     "contentpack preview neon.zip sparks perfect --seed 42 -o perfect.png",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, "<source-dir|archive>", "<particle>", "<effect>"); err != nil {
				return err
			}
			particleName, effectName := args[1], args[2]
			output := params.Output
			if output == "" {
				output = particleName + "-" + effectName + ".png"
			}

			env, err := params.setup("preview", streams)
			if err != nil {
				return err
			}
			frames := env.config.Preview.Frames
			if params.Frames > 0 {
				frames = params.Frames
			}
			size := env.config.Preview.Size
			if params.Size > 0 {
				size = params.Size
			}
			background, err := project.ParseColor(env.config.Preview.Background)
			if err != nil {
				return fmt.Errorf("preview.background: %w", err)
			}

			p, err := env.loadProject(ctx, args[0])
			if err != nil {
				return err
			}
			particle, ok := p.Particles[particleName]
			if !ok {
				return fmt.Errorf("no particle %q (have: %s)", particleName, strings.Join(project.Names(p.Particles), ", "))
			}
			effect, err := render.FindEffect(particle, effectName)
			if err != nil {
				return fmt.Errorf("particle %q: %w", particleName, err)
			}

			renderer := render.New(render.Options{
				Registry:   env.registry,
				Size:       size,
				Extent:     env.config.Preview.Extent,
				Seed:       params.Seed,
				Background: background,
			})
			strip, err := renderer.Strip(effect, frames)
			if err != nil {
				return err
			}
			data, err := imagecodec.EncodePNG(strip)
			if err != nil {
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}

			env.logger.Info("preview written", "path", output, "frames", frames, "size", size, "seed", params.Seed)
			fmt.Fprintf(streams.Out, "rendered %d frames of %s/%s into %s\n", frames, particleName, effectName, output)
			return nil
		},
	}
}
