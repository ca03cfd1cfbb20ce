// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge connects the speech device to the host application.
//
// A [Bridge] owns every piece of shared runtime state: the serial
// [link.Link], the activity state machine, the telemetry ring, the
// event log writer, and the current tunables. It is constructed once
// by the daemon and handed to the HTTP API; there are no package-level
// globals.
//
// Start launches the single ingestion goroutine, which reads device
// lines with a bounded timeout, decodes them, and feeds the state
// machine. A read failure is counted and logged, followed by a back-off
// before reading resumes; a bad line is counted and skipped. Nothing
// stops the loop except Stop or cancellation of the context passed to
// Start.
//
// The remaining methods form the presentation contract used by the
// API: reading and updating tunables (persisted and pushed to the
// device on every change), reading recent telemetry, computing usage
// statistics, playing phrases, and reporting status counters.
//
// Each resource has its own lock: the link serializes writes, the ring
// guards samples with a read-write mutex, and a config mutex covers the
// read-modify-persist-resync sequence of SetConfig.
package bridge
