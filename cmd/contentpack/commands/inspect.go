// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/cli"
	"github.com/bureau-foundation/contentpack/lib/archive"
	"github.com/bureau-foundation/contentpack/lib/packer"
	"github.com/bureau-foundation/contentpack/lib/project"
)

type inspectParams struct {
	GlobalParams
	cli.JSONOutput
	Entries bool `flag:"entries" desc:"list every container entry"`
	Check   bool `flag:"check" desc:"unpack the whole archive and exit 1 if it fails"`
}

// inspectResult is the --json form of an inspection.
type inspectResult struct {
	Info    archive.Info                 `json:"info"`
	Lists   map[string][]archive.Summary `json:"lists"`
	Entries []archive.Entry              `json:"entries,omitempty"`
	Size    int64                        `json:"size"`
	Check   *checkResult                 `json:"check,omitempty"`
}

type checkResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func inspectCommand(streams Streams) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe the contents of a content archive",
		Usage:   "contentpack inspect <archive> [flags]",
		Description: `Print the package info and every item list of an archive.

With --entries the raw container listing is included. With --check
the archive is fully unpacked, which decodes every document, verifies
every blob digest and cuts every atlas; the command then exits 1 if
any step fails.`,
		Examples: []cli.Example{
			{
				Description: "Summarize an archive",
				Command:     "contentpack inspect neon.zip",
			},
			{
				Description: "Verify an archive in CI",
				Command:     "contentpack inspect neon.zip --check --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, "<archive>"); err != nil {
				return err
			}
			env, err := params.setup("inspect", streams)
			if err != nil {
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
			if err := reader.CheckPackage(); err != nil {
				return err
			}
			result := inspectResult{Lists: make(map[string][]archive.Summary), Size: int64(len(data))}
			if err := reader.ReadJSON(archive.InfoPath, &result.Info); err != nil {
				return err
			}
			for _, kind := range project.Kinds() {
				path := archive.ListPath(string(kind))
				if !reader.Has(path) {
					continue
				}
				var list archive.List
				if err := reader.ReadJSON(path, &list); err != nil {
					return err
				}
				result.Lists[string(kind)] = list.Items
			}
			if params.Entries {
				result.Entries = reader.Entries()
			}
			if params.Check {
				result.Check = &checkResult{OK: true}
				if _, err := packer.Unpack(ctx, data, env.packerOptions()); err != nil {
					env.logger.Debug("check failed", "error", err)
					result.Check = &checkResult{Error: err.Error()}
				}
			}

			if done, err := params.EmitJSON(streams.Out, result); done {
				if err != nil {
					return err
				}
			} else {
				printInspection(streams, result, len(reader.Entries()))
			}

			if result.Check != nil && !result.Check.OK {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func printInspection(streams Streams, result inspectResult, entryCount int) {
	out := streams.Out
	style := newStyles(out)

	fmt.Fprintln(out, style.heading.Render(result.Info.Title))
	if result.Info.Description != "" {
		fmt.Fprintln(out, result.Info.Description)
	}
	fmt.Fprintln(out, style.faint.Render(fmt.Sprintf("%d entries, %s", entryCount, formatSize(result.Size))))

	for _, kind := range project.Kinds() {
		items, ok := result.Lists[string(kind)]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", style.heading.Render(fmt.Sprintf("%s (%d)", kind, len(items))))
		writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
		for _, item := range items {
			tags := make([]string, len(item.Tags))
			for i, tag := range item.Tags {
				tags[i] = tag.Title
			}
			fmt.Fprintf(writer, "  %s\t%s\t%s\t%s\tv%d\t%s\n",
				item.Name, item.Title, item.Subtitle, item.Author, item.Version, strings.Join(tags, ","))
		}
		writer.Flush()
	}

	if len(result.Entries) > 0 {
		fmt.Fprintf(out, "\n%s\n", style.heading.Render("entries"))
		writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
		fmt.Fprintf(writer, "  NAME\tSIZE\tSTORED\tMETHOD\n")
		for _, entry := range result.Entries {
			method := "deflate"
			if entry.Stored {
				method = "store"
			}
			fmt.Fprintf(writer, "  %s\t%d\t%d\t%s\n", entry.Name, entry.Size, entry.CompressedSize, method)
		}
		writer.Flush()
	}

	if result.Check != nil {
		fmt.Fprintln(out)
		if result.Check.OK {
			fmt.Fprintln(out, style.good.Render("check passed"))
		} else {
			fmt.Fprintf(out, "%s: %s\n", style.bad.Render("check failed"), result.Check.Error)
		}
	}
}
