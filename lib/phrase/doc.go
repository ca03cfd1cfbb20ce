// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package phrase stores phrase definitions: one JSON object per file,
// named <id>.json, in a single directory. The host only needs a
// definition's id to ask the device to play it; the remaining fields
// (name, description, and whatever the front end keeps there) are
// stored verbatim.
package phrase
