// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Device-to-host prefixes.
const (
	PrefixDebug       = "DEBUG:"
	PrefixSpeechStart = "SPEECH_START"
	PrefixSpeechEnd   = "SPEECH_END"
	PrefixError       = "ERROR:"
)

// Decode classifies one trimmed device line. Prefixes are matched in
// the order DEBUG, SPEECH_START, SPEECH_END, ERROR; the first match
// wins.
func Decode(line string) Event {
	switch {
	case strings.HasPrefix(line, PrefixDebug):
		return decodeTelemetry(line[len(PrefixDebug):])

	case strings.HasPrefix(line, PrefixSpeechStart):
		return Event{Kind: KindSpeechStart}

	case strings.HasPrefix(line, PrefixSpeechEnd):
		duration := UnknownDuration
		if _, after, found := strings.Cut(line, ":"); found {
			duration = after
		}
		return Event{Kind: KindSpeechEnd, Duration: duration}

	case strings.HasPrefix(line, PrefixError):
		return Event{Kind: KindDeviceError, Message: line[len(PrefixError):]}

	default:
		return Event{Kind: KindIgnored}
	}
}

// decodeTelemetry parses the comma-separated payload of a DEBUG line.
// Non-finite values are rejected: NaN and Inf have no JSON encoding
// and would poison every API response that includes the sample.
func decodeTelemetry(payload string) Event {
	fields := strings.Split(payload, ",")
	if len(fields) < MinTelemetryFields {
		return Event{Kind: KindMalformed, Reason: ReasonTooFewFields}
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return Event{Kind: KindMalformed, Reason: ReasonBadNumber}
		}
		values[i] = value
	}
	return Event{Kind: KindTelemetry, Values: values}
}
