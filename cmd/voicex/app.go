// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/klauspost/compress/gzhttp"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/config"
	"github.com/voicex-foundation/voicex/lib/link"
)

// app carries the process-level collaborators commands use, so tests
// can swap the serial port, the output streams, and the HTTP client.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	opener     link.Opener
	listPorts  func() ([]string, error)
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

func newApp() *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		opener:     link.SerialOpener,
		listPorts:  link.ListPorts,
		httpClient: &http.Client{Transport: gzhttp.Transport(http.DefaultTransport)},
		clock:      clock.Real(),
		logger:     cli.NewCommandLogger(slog.LevelInfo),
	}
}

// loadConfig resolves the daemon configuration so CLI defaults match
// what voicexd would use.
func loadConfig(path string) (*config.Config, error) {
	return config.Resolve(path)
}
