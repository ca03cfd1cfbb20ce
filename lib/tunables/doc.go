// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package tunables holds the device's signal-processing parameters:
// the data model with its update rules ([Config.Apply]), on-disk
// persistence ([Store]), and pushing values to the device
// ([Synchronizer]).
//
// Exactly five integer keys exist. Updates may carry any JSON object;
// unknown keys are ignored and reported, never rejected, so older and
// newer front ends can talk to the same daemon. A known key with a
// non-integer value rejects the whole update.
package tunables
