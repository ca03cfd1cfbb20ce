// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package activity tracks speech sessions from decoded device events.
//
// The machine has two states. It starts Idle; SPEECH_START moves it to
// Collecting and SPEECH_END moves it back, each transition appending
// one record to the event log. Telemetry is buffered only while
// Collecting. Out-of-order events (a second start, or an end without a
// start) change nothing and write nothing.
//
// A [Machine] is driven by a single goroutine. [Machine.State] may be
// read from any goroutine.
package activity
