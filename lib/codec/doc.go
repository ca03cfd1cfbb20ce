// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the VoiceX CBOR encoding configuration.
//
// VoiceX uses two serialization formats with a clear boundary:
//
//   - JSON for everything a person reads or edits: the tunables file,
//     phrase definitions, event log payloads, and the default HTTP API
//     representation.
//   - CBOR for machine consumers of the HTTP API that ask for it with
//     "Accept: application/cbor" (the voicex watch view polls telemetry
//     this way, since samples are mostly floats and CBOR keeps them
//     compact and exact).
//
// API types carry `json` tags only. fxamacker/cbor reads `json` tags
// as a fallback when `cbor` tags are absent, so one tag controls field
// naming for both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
package codec
