// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// voicex is the operator tool for a VoiceX bridge: offline usage
// statistics, a live device monitor, tunables sync without the daemon,
// serial port discovery, and a terminal dashboard for a running
// voicexd.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/voicex-foundation/voicex/lib/process"
	"github.com/voicex-foundation/voicex/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("voicex")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return root(newApp()).Execute(ctx, os.Args[1:])
}
