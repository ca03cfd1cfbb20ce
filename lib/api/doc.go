// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package api serves the bridge over HTTP.
//
// Routes:
//
//	GET       /health                  liveness
//	GET       /api/config              current tunables
//	POST      /api/config              update tunables
//	GET       /api/data?limit=&since=  recent telemetry samples
//	GET       /api/stats               usage statistics
//	GET       /api/status              connection state and counters
//	GET       /api/phrases             stored phrase summaries
//	POST      /api/phrase              store a phrase definition
//	GET|POST  /api/play_phrase/{id}    play a stored phrase
//
// Responses are JSON unless the request's Accept header names
// application/cbor. Request bodies may be either, selected by
// Content-Type. Responses are gzip-compressed for clients that accept
// it.
//
// Mutating endpoints answer {"status":"success",...} or
// {"status":"error","message":...}, the shape existing front ends
// expect. There is no authentication; bind the listener accordingly.
package api
