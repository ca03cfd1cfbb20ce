// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the VoiceX
// daemon and CLI. Fatal is the one place raw stderr output is allowed
// before the structured logger exists: both binaries follow the
// main → run() error → process.Fatal pattern.
package process
