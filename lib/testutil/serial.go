// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"io"
	"sync"
	"time"
)

// FakePort is an in-memory serial port. Tests feed device output with
// Feed and observe host writes through Writes or the Written channel.
// Read honors the read timeout in real time, returning (0, nil) when
// nothing was fed, the same contract as a real port.
type FakePort struct {
	incoming chan []byte
	written  chan string
	closed   chan struct{}

	mutex       sync.Mutex
	leftover    []byte
	readTimeout time.Duration
	writes      []string
	writeErr    error
	readErr     error
	closeOnce   sync.Once
}

// NewFakePort returns an open FakePort.
func NewFakePort() *FakePort {
	return &FakePort{
		incoming:    make(chan []byte, 1024),
		written:     make(chan string, 1024),
		closed:      make(chan struct{}),
		readTimeout: time.Second,
	}
}

// Feed queues bytes for the host to read. Chunks are delivered in
// order and may be split across Read calls.
func (port *FakePort) Feed(data string) {
	port.incoming <- []byte(data)
}

// FailWrites makes every subsequent Write return err. Nil restores
// normal writes.
func (port *FakePort) FailWrites(err error) {
	port.mutex.Lock()
	defer port.mutex.Unlock()
	port.writeErr = err
}

// FailNextRead makes the next Read return err.
func (port *FakePort) FailNextRead(err error) {
	port.mutex.Lock()
	defer port.mutex.Unlock()
	port.readErr = err
}

// Writes returns every successful Write so far, in order.
func (port *FakePort) Writes() []string {
	port.mutex.Lock()
	defer port.mutex.Unlock()
	return append([]string(nil), port.writes...)
}

// Written delivers each successful Write as it happens.
func (port *FakePort) Written() <-chan string {
	return port.written
}

// Closed is closed when Close is called.
func (port *FakePort) Closed() <-chan struct{} {
	return port.closed
}

func (port *FakePort) Read(buffer []byte) (int, error) {
	port.mutex.Lock()
	if port.readErr != nil {
		err := port.readErr
		port.readErr = nil
		port.mutex.Unlock()
		return 0, err
	}
	if len(port.leftover) > 0 {
		count := copy(buffer, port.leftover)
		port.leftover = port.leftover[count:]
		port.mutex.Unlock()
		return count, nil
	}
	timeout := port.readTimeout
	port.mutex.Unlock()

	select {
	case <-port.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	select {
	case chunk := <-port.incoming:
		count := copy(buffer, chunk)
		if count < len(chunk) {
			port.mutex.Lock()
			port.leftover = append(port.leftover, chunk[count:]...)
			port.mutex.Unlock()
		}
		return count, nil
	case <-port.closed:
		return 0, io.ErrClosedPipe
	case <-time.After(timeout): //nolint:realclock mirrors the driver's read timeout
		return 0, nil
	}
}

func (port *FakePort) Write(data []byte) (int, error) {
	select {
	case <-port.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	port.mutex.Lock()
	if port.writeErr != nil {
		err := port.writeErr
		port.mutex.Unlock()
		return 0, err
	}
	line := string(data)
	port.writes = append(port.writes, line)
	port.mutex.Unlock()

	select {
	case port.written <- line:
	default:
	}
	return len(data), nil
}

// SetReadTimeout sets how long Read waits for fed data.
func (port *FakePort) SetReadTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return errors.New("fake port: negative read timeout")
	}
	port.mutex.Lock()
	defer port.mutex.Unlock()
	port.readTimeout = timeout
	return nil
}

// Close marks the port closed. Pending and future I/O fails.
func (port *FakePort) Close() error {
	port.closeOnce.Do(func() { close(port.closed) })
	return nil
}
