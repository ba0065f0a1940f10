// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// contentpack packs rhythm-game content projects into distributable
// archives and unpacks them again.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/contentpack/cmd/contentpack/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own verdict (inspect --check)
		// return an error carrying the exit code. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	streams := commands.Streams{Out: os.Stdout, Err: os.Stderr}
	return commands.Root(streams).Execute(ctx, os.Args[1:])
}
