// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import "time"

// Header is the first line of every log file.
const Header = "timestamp,event_type,additional_data"

// TimestampLayout is the time.Format layout of the first field.
const TimestampLayout = "2006-01-02 15:04:05"

// Event types written by the activity state machine. Other types are
// permitted and preserved by readers.
const (
	TypeSpeechStart = "speech_start"
	TypeSpeechEnd   = "speech_end"
)

// Record is one log line.
type Record struct {
	// Timestamp is truncated to the second on write. Records read back
	// carry time.Local.
	Timestamp time.Time

	// Type is the event_type field. It must not contain a comma or a
	// line break.
	Type string

	// Data is the decoded additional_data payload. Nil when the field
	// was empty or undecodable.
	Data map[string]any

	// Corrupt is set by readers when additional_data was present but
	// not a JSON object. The record is still delivered so callers can
	// count the event.
	Corrupt bool
}
