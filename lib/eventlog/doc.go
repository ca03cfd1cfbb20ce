// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog reads and writes the append-only activity log.
//
// The log is a comma-delimited text file with a fixed header:
//
//	timestamp,event_type,additional_data
//	2026-03-14 09:26:53,speech_start,
//	2026-03-14 09:26:55,speech_end,{"duration":"2.1"}
//
// Timestamps are local wall-clock time at second resolution. The third
// field is compact JSON or empty, and is everything after the second
// comma so JSON payloads need no quoting. The format is not RFC 4180
// CSV; existing logs written by earlier versions of the bridge parse
// unchanged.
//
// A single [Writer] owns the file per host: [Open] takes an exclusive
// flock and fails with [ErrLocked] when another process holds it.
// Readers ([Scan], [ScanFile]) never lock and tolerate a record that is
// mid-append by ignoring a final line with no terminating newline.
package eventlog
