// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/version"
)

func root(a *app) *cli.Command {
	return &cli.Command{
		Name:        "voicex",
		Description: "VoiceX operator tool.\n\nInspect usage, talk to the device directly, or watch a running voicexd.",
		Stderr:      a.stderr,
		Subcommands: []*cli.Command{
			statsCommand(a),
			monitorCommand(a),
			syncCommand(a),
			portsCommand(a),
			watchCommand(a),
			versionCommand(a),
		},
	}
}

func versionCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(context.Context, []string) error {
			_, err := fmt.Fprintf(a.stdout, "voicex %s\n", version.Full())
			return err
		},
	}
}
