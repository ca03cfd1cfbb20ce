// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package usagestats computes usage statistics by replaying the event
// log. Nothing is cached: every query rescans the file, which stays
// cheap at the volume a single device produces.
package usagestats
