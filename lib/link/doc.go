// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package link owns the serial connection to the speech device.
//
// A [Link] wraps one [Port] and exposes it as a line-oriented stream:
// [Link.ReadLine] returns complete newline-terminated lines with a
// bounded wait, and [Link.WriteLine] and [Link.SendCommands] write
// commands back. Reads happen on the ingestion goroutine only; writes
// may come from any goroutine and are serialized by a write lock that
// also guards the connection state, so a batch of commands from one
// caller is never interleaved with another caller's.
//
// The physical port is pluggable through [Opener]. Production uses
// [SerialOpener] (go.bug.st/serial); tests supply in-memory ports.
package link
