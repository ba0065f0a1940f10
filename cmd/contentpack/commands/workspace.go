// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/source"
	"github.com/bureau-foundation/contentpack/lib/workspace"
)

func workspaceCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "workspace",
		Summary: "Save and restore project snapshots",
		Description: `Manage the local workspace: named project snapshots whose assets
are stored once, compressed and content-addressed, however many
snapshots share them.

The workspace lives in paths.workspace from the config file.`,
		Subcommands: []*cli.Command{
			workspaceSaveCommand(streams),
			workspaceLoadCommand(streams),
			workspaceListCommand(streams),
			workspaceDeleteCommand(streams),
			workspaceCollectCommand(streams),
		},
		Examples: []cli.Example{
			{
				Description: "Snapshot a source directory",
				Command:     "contentpack workspace save draft ./neon",
			},
			{
				Description: "Restore it somewhere else",
				Command:     "contentpack workspace load draft ./neon-restored",
			},
		},
	}
}

// openWorkspace runs the shared setup and opens the configured
// workspace.
func (p *GlobalParams) openWorkspace(command string, streams Streams) (*environment, *workspace.Workspace, error) {
	env, err := p.setup(command, streams)
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.Open(env.config.Paths.Workspace, workspace.Options{Logger: env.logger})
	if err != nil {
		return nil, nil, err
	}
	return env, ws, nil
}

func workspaceSaveCommand(streams Streams) *cli.Command {
	var params GlobalParams

	return &cli.Command{
		Name:    "save",
		Summary: "Snapshot a source directory under a name",
		Usage:   "contentpack workspace save <name> <source-dir> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, "<name>", "<source-dir>"); err != nil {
				return err
			}
			if err := workspace.ValidateName(args[0]); err != nil {
				return err
			}
			env, ws, err := params.openWorkspace("workspace save", streams)
			if err != nil {
				return err
			}
			p, err := source.Load(args[1], env.registry)
			if err != nil {
				return err
			}
			info, err := ws.Save(args[0], p, env.registry)
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "saved %q: %d items, %d assets\n", info.Name, info.Items, info.Assets)
			return nil
		},
	}
}

func workspaceLoadCommand(streams Streams) *cli.Command {
	var params GlobalParams

	return &cli.Command{
		Name:    "load",
		Summary: "Write a snapshot out as a source directory",
		Usage:   "contentpack workspace load <name> <dir> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, "<name>", "<dir>"); err != nil {
				return err
			}
			env, ws, err := params.openWorkspace("workspace load", streams)
			if err != nil {
				return err
			}
			p, err := ws.Load(args[0], env.registry)
			if err != nil {
				return err
			}
			if err := source.Export(args[1], p, env.registry); err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "loaded %q into %s\n", args[0], args[1])
			return nil
		},
	}
}

type workspaceListParams struct {
	GlobalParams
	cli.JSONOutput
}

func workspaceListCommand(streams Streams) *cli.Command {
	var params workspaceListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List saved snapshots",
		Usage:   "contentpack workspace list [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			_, ws, err := params.openWorkspace("workspace list", streams)
			if err != nil {
				return err
			}
			infos, err := ws.List()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(streams.Out, infos); done {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(streams.Out, "no snapshots")
				return nil
			}

			style := newStyles(streams.Out)
			fmt.Fprintln(streams.Out, style.heading.Render(fmt.Sprintf("%d snapshots in %s", len(infos), ws.Root())))
			writer := tabwriter.NewWriter(streams.Out, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "NAME\tTITLE\tITEMS\tASSETS\tSIZE\tSAVED\n")
			for _, info := range infos {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\t%s\n",
					info.Name, info.Title, info.Items, info.Assets,
					formatSize(info.Size), info.Saved.Local().Format(time.DateTime))
			}
			return writer.Flush()
		},
	}
}

func workspaceDeleteCommand(streams Streams) *cli.Command {
	var params GlobalParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a snapshot and the assets only it used",
		Usage:   "contentpack workspace delete <name> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, "<name>"); err != nil {
				return err
			}
			_, ws, err := params.openWorkspace("workspace delete", streams)
			if err != nil {
				return err
			}
			if err := ws.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "deleted %q\n", args[0])
			return nil
		},
	}
}

func workspaceCollectCommand(streams Streams) *cli.Command {
	var params GlobalParams

	return &cli.Command{
		Name:    "collect",
		Summary: "Remove assets no snapshot references",
		Usage:   "contentpack workspace collect [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			_, ws, err := params.openWorkspace("workspace collect", streams)
			if err != nil {
				return err
			}
			removed, err := ws.Collect()
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "removed %d unreferenced assets\n", removed)
			return nil
		},
	}
}
