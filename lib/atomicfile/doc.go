// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile replaces files so readers never observe a partial
// write. The tunables file and phrase definitions are small documents
// rewritten wholesale, and a crash mid-write must leave the previous
// version intact.
package atomicfile
