// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/voicex-foundation/voicex/lib/clock"
)

// DefaultCommandDelay is the pause after each command in a batch. The
// firmware parses one command per loop iteration and drops bytes that
// arrive while it is busy.
const DefaultCommandDelay = 100 * time.Millisecond

// maxPendingBytes bounds the partial-line buffer. A device that
// streams without newlines is broken; its bytes are dropped rather
// than accumulated.
const maxPendingBytes = 64 * 1024

// Port is an open byte stream to the device. Read must return (0, nil)
// when the read timeout elapses with no data.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(timeout time.Duration) error
}

// Opener opens the named port at the given baud rate.
type Opener func(name string, baud int) (Port, error)

// Config configures a Link.
type Config struct {
	// Opener opens ports. Nil uses SerialOpener.
	Opener Opener
	// CommandDelay is the pause after each command sent by
	// SendCommands. Zero uses DefaultCommandDelay; negative disables
	// pacing.
	CommandDelay time.Duration
	// Clock drives read deadlines and pacing. Nil uses the real clock.
	Clock clock.Clock
	// Logger receives link diagnostics. Nil discards.
	Logger *slog.Logger
}

// Link is a line-oriented connection to the device.
type Link struct {
	opener       Opener
	commandDelay time.Duration
	clock        clock.Clock
	logger       *slog.Logger

	// writeMutex is held for the duration of every write, including
	// whole command batches. It never guards state a reader needs.
	writeMutex sync.Mutex

	// stateMutex guards port and portName. It is held only for
	// swaps and single writes, never across pacing.
	stateMutex sync.RWMutex
	port       Port
	portName   string

	// readMutex serializes ReadLine and guards the partial-line
	// buffer.
	readMutex  sync.Mutex
	pending    []byte
	readBuffer []byte
}

// New creates an unconnected Link.
func New(config Config) *Link {
	if config.Opener == nil {
		config.Opener = SerialOpener
	}
	if config.CommandDelay == 0 {
		config.CommandDelay = DefaultCommandDelay
	}
	if config.CommandDelay < 0 {
		config.CommandDelay = 0
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Link{
		opener:       config.Opener,
		commandDelay: config.CommandDelay,
		clock:        config.Clock,
		logger:       config.Logger,
		readBuffer:   make([]byte, 4096),
	}
}

// Connect opens the named port. Any previously open port is closed
// first. Failure returns a *ConnectError; there is no retry.
func (link *Link) Connect(name string, baud int) error {
	link.writeMutex.Lock()
	defer link.writeMutex.Unlock()

	link.stateMutex.Lock()
	if link.port != nil {
		link.port.Close()
		link.port = nil
	}
	link.stateMutex.Unlock()

	port, err := link.opener(name, baud)
	if err != nil {
		return classifyOpenError(name, err)
	}
	link.stateMutex.Lock()
	link.port = port
	link.portName = name
	link.stateMutex.Unlock()

	link.logger.Info("serial port connected", "port", name, "baud", baud)
	return nil
}

// Connected reports whether a port is open.
func (link *Link) Connected() bool {
	link.stateMutex.RLock()
	defer link.stateMutex.RUnlock()
	return link.port != nil
}

// PortName returns the name of the open port, or "" when disconnected.
func (link *Link) PortName() string {
	link.stateMutex.RLock()
	defer link.stateMutex.RUnlock()
	if link.port == nil {
		return ""
	}
	return link.portName
}

// Close closes the port. Closing a disconnected Link is a no-op.
func (link *Link) Close() error {
	link.stateMutex.Lock()
	defer link.stateMutex.Unlock()

	if link.port == nil {
		return nil
	}
	err := link.port.Close()
	link.port = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", link.portName, err)
	}
	return nil
}

// ReadLine waits up to timeout for a complete line and returns it with
// invalid UTF-8 replaced by U+FFFD and surrounding whitespace trimmed.
// ok is false when no complete line arrived in time. Blank lines are
// skipped. Bytes of an incomplete line are kept for the next call.
func (link *Link) ReadLine(timeout time.Duration) (line string, ok bool, err error) {
	link.readMutex.Lock()
	defer link.readMutex.Unlock()

	if line, ok := link.takeLineLocked(); ok {
		return line, true, nil
	}

	port := link.currentPort()
	if port == nil {
		return "", false, ErrNotConnected
	}

	deadline := link.clock.Now().Add(timeout)
	for {
		remaining := deadline.Sub(link.clock.Now())
		if remaining <= 0 {
			return "", false, nil
		}
		if err := port.SetReadTimeout(remaining); err != nil {
			return "", false, fmt.Errorf("setting read timeout: %w", err)
		}

		count, err := port.Read(link.readBuffer)
		if count > 0 {
			link.appendPendingLocked(link.readBuffer[:count])
			if line, ok := link.takeLineLocked(); ok {
				return line, true, nil
			}
		}
		if err != nil {
			return "", false, fmt.Errorf("reading from device: %w", err)
		}
		if count == 0 {
			return "", false, nil
		}
	}
}

// WriteLine writes text followed by a newline.
func (link *Link) WriteLine(text string) error {
	link.writeMutex.Lock()
	defer link.writeMutex.Unlock()
	return link.writeLineLocked(text)
}

// SendCommands writes each command in order, pausing CommandDelay
// after each. The write lock is held for the whole batch. The batch
// stops at the first write failure or when ctx is cancelled.
func (link *Link) SendCommands(ctx context.Context, commands []string) error {
	link.writeMutex.Lock()
	defer link.writeMutex.Unlock()

	for index, command := range commands {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sending command %d of %d: %w", index+1, len(commands), err)
		}
		if err := link.writeLineLocked(command); err != nil {
			return fmt.Errorf("sending command %d of %d: %w", index+1, len(commands), err)
		}
		if link.commandDelay > 0 {
			select {
			case <-link.clock.After(link.commandDelay):
			case <-ctx.Done():
				return fmt.Errorf("pacing after command %d of %d: %w", index+1, len(commands), ctx.Err())
			}
		}
	}
	return nil
}

// writeLineLocked requires writeMutex. The connected check and the
// write happen under one stateMutex hold so Close cannot slip between.
func (link *Link) writeLineLocked(text string) error {
	link.stateMutex.RLock()
	defer link.stateMutex.RUnlock()
	if link.port == nil {
		return ErrNotConnected
	}
	if _, err := link.port.Write([]byte(text + "\n")); err != nil {
		return fmt.Errorf("writing to %s: %w", link.portName, err)
	}
	return nil
}

func (link *Link) currentPort() Port {
	link.stateMutex.RLock()
	defer link.stateMutex.RUnlock()
	return link.port
}

func (link *Link) appendPendingLocked(data []byte) {
	if len(link.pending)+len(data) > maxPendingBytes && bytes.IndexByte(data, '\n') < 0 {
		link.logger.Warn("dropping unterminated device output", "bytes", len(link.pending)+len(data))
		link.pending = link.pending[:0]
		return
	}
	link.pending = append(link.pending, data...)
}

// takeLineLocked pops the first non-blank complete line from pending.
func (link *Link) takeLineLocked() (string, bool) {
	for {
		index := bytes.IndexByte(link.pending, '\n')
		if index < 0 {
			return "", false
		}
		raw := string(link.pending[:index])
		link.pending = append(link.pending[:0], link.pending[index+1:]...)

		line := strings.TrimSpace(strings.ToValidUTF8(raw, "\uFFFD"))
		if line != "" {
			return line, true
		}
	}
}
