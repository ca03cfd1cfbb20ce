// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

// Kind classifies a decoded device line.
type Kind int

const (
	// KindIgnored is a line matching no known prefix.
	KindIgnored Kind = iota
	// KindTelemetry is a well-formed DEBUG line; Values holds the samples.
	KindTelemetry
	// KindMalformed is a DEBUG line that could not be parsed; Reason
	// says why.
	KindMalformed
	// KindSpeechStart marks the beginning of a speech session.
	KindSpeechStart
	// KindSpeechEnd marks the end of a session; Duration holds the
	// device-reported duration text.
	KindSpeechEnd
	// KindDeviceError is an ERROR line; Message holds the text.
	KindDeviceError
)

// String returns the snake_case name used in logs and status output.
func (k Kind) String() string {
	switch k {
	case KindIgnored:
		return "ignored"
	case KindTelemetry:
		return "telemetry"
	case KindMalformed:
		return "malformed"
	case KindSpeechStart:
		return "speech_start"
	case KindSpeechEnd:
		return "speech_end"
	case KindDeviceError:
		return "device_error"
	default:
		return "unknown"
	}
}

// Reason names why a telemetry line was rejected.
type Reason string

const (
	// ReasonTooFewFields: fewer than MinTelemetryFields values.
	ReasonTooFewFields Reason = "too_few_fields"
	// ReasonBadNumber: a field is not a finite decimal number.
	ReasonBadNumber Reason = "bad_number"
)

// UnknownDuration is the Duration of a SPEECH_END line without a
// ":<duration>" suffix.
const UnknownDuration = "unknown"

// MinTelemetryFields is the smallest number of values a DEBUG line
// must carry to be accepted as a sample.
const MinTelemetryFields = 3

// Event is one decoded device line. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind Kind

	// Values are the parsed telemetry fields, in line order.
	Values []float64

	// Duration is the text after "SPEECH_END:", or UnknownDuration.
	Duration string

	// Message is the text after "ERROR:".
	Message string

	// Reason is set for KindMalformed.
	Reason Reason
}
