// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"slices"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "telemetry three fields",
			line: "DEBUG:1.5,-2,300",
			want: Event{Kind: KindTelemetry, Values: []float64{1.5, -2, 300}},
		},
		{
			name: "telemetry many fields keep order",
			line: "DEBUG:5,4,3,2,1",
			want: Event{Kind: KindTelemetry, Values: []float64{5, 4, 3, 2, 1}},
		},
		{
			name: "telemetry tolerates spaces around fields",
			line: "DEBUG: 1, 2 ,3",
			want: Event{Kind: KindTelemetry, Values: []float64{1, 2, 3}},
		},
		{
			name: "telemetry exponent notation",
			line: "DEBUG:1e3,2.5E-1,0",
			want: Event{Kind: KindTelemetry, Values: []float64{1000, 0.25, 0}},
		},
		{
			name: "telemetry two fields",
			line: "DEBUG:1,2",
			want: Event{Kind: KindMalformed, Reason: ReasonTooFewFields},
		},
		{
			name: "telemetry empty payload",
			line: "DEBUG:",
			want: Event{Kind: KindMalformed, Reason: ReasonTooFewFields},
		},
		{
			name: "telemetry non-numeric field",
			line: "DEBUG:1,abc,3",
			want: Event{Kind: KindMalformed, Reason: ReasonBadNumber},
		},
		{
			name: "telemetry empty field",
			line: "DEBUG:1,,3",
			want: Event{Kind: KindMalformed, Reason: ReasonBadNumber},
		},
		{
			name: "telemetry NaN rejected",
			line: "DEBUG:1,NaN,3",
			want: Event{Kind: KindMalformed, Reason: ReasonBadNumber},
		},
		{
			name: "telemetry infinity rejected",
			line: "DEBUG:1,2,+Inf",
			want: Event{Kind: KindMalformed, Reason: ReasonBadNumber},
		},
		{
			name: "speech start",
			line: "SPEECH_START",
			want: Event{Kind: KindSpeechStart},
		},
		{
			name: "speech start prefix match",
			line: "SPEECH_START now",
			want: Event{Kind: KindSpeechStart},
		},
		{
			name: "speech end with duration",
			line: "SPEECH_END:3.2",
			want: Event{Kind: KindSpeechEnd, Duration: "3.2"},
		},
		{
			name: "speech end without duration",
			line: "SPEECH_END",
			want: Event{Kind: KindSpeechEnd, Duration: UnknownDuration},
		},
		{
			name: "speech end keeps everything after first colon",
			line: "SPEECH_END:1.0:extra",
			want: Event{Kind: KindSpeechEnd, Duration: "1.0:extra"},
		},
		{
			name: "speech end empty duration",
			line: "SPEECH_END:",
			want: Event{Kind: KindSpeechEnd, Duration: ""},
		},
		{
			name: "device error",
			line: "ERROR:mic saturated",
			want: Event{Kind: KindDeviceError, Message: "mic saturated"},
		},
		{
			name: "boot banner ignored",
			line: "ESP32 voicex firmware v2",
			want: Event{Kind: KindIgnored},
		},
		{
			name: "empty line ignored",
			line: "",
			want: Event{Kind: KindIgnored},
		},
		{
			name: "lowercase prefix ignored",
			line: "debug:1,2,3",
			want: Event{Kind: KindIgnored},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := Decode(test.line)
			if got.Kind != test.want.Kind {
				t.Fatalf("Decode(%q).Kind = %v, want %v", test.line, got.Kind, test.want.Kind)
			}
			if !slices.Equal(got.Values, test.want.Values) {
				t.Errorf("Decode(%q).Values = %v, want %v", test.line, got.Values, test.want.Values)
			}
			if got.Duration != test.want.Duration {
				t.Errorf("Decode(%q).Duration = %q, want %q", test.line, got.Duration, test.want.Duration)
			}
			if got.Message != test.want.Message {
				t.Errorf("Decode(%q).Message = %q, want %q", test.line, got.Message, test.want.Message)
			}
			if got.Reason != test.want.Reason {
				t.Errorf("Decode(%q).Reason = %q, want %q", test.line, got.Reason, test.want.Reason)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	if got := KindSpeechEnd.String(); got != "speech_end" {
		t.Errorf("KindSpeechEnd.String() = %q, want speech_end", got)
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q, want unknown", got)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()
	if got := ConfigCommand("threshold", 700); got != "CONFIG:threshold,700" {
		t.Errorf("ConfigCommand = %q", got)
	}
	if got := ConfigCommand("filter_alpha", -3); got != "CONFIG:filter_alpha,-3" {
		t.Errorf("ConfigCommand negative = %q", got)
	}
	if got := PlayPhraseCommand("greeting"); got != "PLAY_PHRASE:greeting" {
		t.Errorf("PlayPhraseCommand = %q", got)
	}
}
