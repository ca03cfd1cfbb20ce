// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package tunables

import (
	"context"
	"fmt"

	"github.com/voicex-foundation/voicex/lib/protocol"
)

// CommandSender writes a paced batch of device commands.
// *link.Link implements it.
type CommandSender interface {
	SendCommands(ctx context.Context, commands []string) error
}

// Commands returns the CONFIG lines for config in sync order.
func Commands(config Config) []string {
	pairs := config.Pairs()
	commands := make([]string, len(pairs))
	for i, pair := range pairs {
		commands[i] = protocol.ConfigCommand(pair.Key, pair.Value)
	}
	return commands
}

// Synchronizer pushes tunables to the device.
type Synchronizer struct {
	sender CommandSender
}

// NewSynchronizer returns a Synchronizer writing through sender.
func NewSynchronizer(sender CommandSender) *Synchronizer {
	return &Synchronizer{sender: sender}
}

// Sync sends every tunable as one batch. Delivery is best effort: the
// device does not acknowledge commands.
func (synchronizer *Synchronizer) Sync(ctx context.Context, config Config) error {
	if err := synchronizer.sender.SendCommands(ctx, Commands(config)); err != nil {
		return fmt.Errorf("syncing tunables to device: %w", err)
	}
	return nil
}
