// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "strconv"

// Host-to-device prefixes.
const (
	PrefixConfig     = "CONFIG:"
	PrefixPlayPhrase = "PLAY_PHRASE:"
)

// ConfigCommand returns the line that sets one device tunable. The
// line terminator is added by the link.
func ConfigCommand(key string, value int) string {
	return PrefixConfig + key + "," + strconv.Itoa(value)
}

// PlayPhraseCommand returns the line that asks the device to play the
// phrase with the given id.
func PlayPhraseCommand(id string) string {
	return PrefixPlayPhrase + id
}
