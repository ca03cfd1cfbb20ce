// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol implements the line protocol spoken between the
// host and the speech device over the serial link.
//
// Device to host, one message per newline-terminated line:
//
//	DEBUG:v1,v2,v3[,...]   telemetry sample, at least three numbers
//	SPEECH_START           a speech session began
//	SPEECH_END[:duration]  a speech session ended
//	ERROR:<message>        the device reports a fault
//
// Host to device:
//
//	CONFIG:<key>,<value>   set one tunable
//	PLAY_PHRASE:<id>       play a stored phrase
//
// [Decode] is a pure function from one trimmed line to an [Event]. It
// never fails: the UART link is noisy and partial writes are normal,
// so a line that cannot be understood becomes a [KindMalformed] event
// carrying the reason, and unrelated chatter becomes [KindIgnored].
// Callers count those outcomes and keep reading.
package protocol
