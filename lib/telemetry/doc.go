// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry holds the bounded in-memory window of device
// telemetry samples.
//
// The ring is written by the ingestion goroutine while a speech session
// is active and read concurrently by API handlers and the live view.
// Every sample gets a sequence number that increases for the lifetime
// of the process, so a poller can ask for "everything since seq N" and
// detect how much it missed when the ring wrapped. Nothing survives a
// restart.
package telemetry
