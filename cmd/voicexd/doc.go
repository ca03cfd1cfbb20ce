// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// voicexd is the VoiceX bridge daemon. It owns the serial link to the
// speech device, records activity sessions to the event log, keeps a
// window of recent telemetry in memory, and serves the HTTP API.
//
// Startup: load configuration, create the data directories, load the
// tunables file (writing defaults when absent), open the event log,
// and connect to the device. When the device is reachable its tunables
// are synced and ingestion starts. When it is not, the daemon logs the
// failure and serves the API anyway; device-bound operations report
// that the device is not connected until the daemon is restarted.
//
// SIGINT or SIGTERM stops ingestion, drains in-flight requests, and
// closes the port and the event log.
package main
