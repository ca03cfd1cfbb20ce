// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the voicex operator tool.
//
// A [Command] tree is dispatched by [Command.Execute]: the first
// positional argument selects a subcommand, flags are parsed with
// spf13/pflag, and the leaf's Run receives the remaining arguments.
// Unknown commands and flags get a did-you-mean suggestion by edit
// distance.
//
// Commands that print their own failure output return an [ExitError]
// so main exits non-zero without a second error line.
package cli
