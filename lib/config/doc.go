// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the VoiceX
// daemon.
//
// Configuration comes from a single file named by the --config flag
// or the VOICEX_CONFIG environment variable (see [Resolve]). Without
// either, [Default] applies unchanged: the bridge is meant to run out
// of the box on a Raspberry Pi with the device on /dev/ttyUSB0. There
// is no file discovery.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${VOICEX_DATA} (the resolved data directory), and
// ${VAR:-default} patterns are expanded. Relative file paths are then
// resolved against the data directory.
//
// Key exports:
//
//   - [Config] -- master struct with Device, Paths, HTTP, Telemetry, Log
//   - [Default] -- returns the built-in configuration
//   - [Resolve], [Load], and [LoadFile] -- the entry points for loading
//
// This package depends on no other VoiceX packages.
package config
