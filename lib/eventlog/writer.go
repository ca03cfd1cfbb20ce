// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned by Open when another process already holds the
// log open for writing.
var ErrLocked = errors.New("eventlog: log is locked by another writer")

// ErrInvalidType is returned by Append for an event type that would
// break the line format.
var ErrInvalidType = errors.New("eventlog: event type must be non-empty and contain no comma or line break")

// Writer appends records to a log file. Safe for concurrent use,
// though the bridge only ever appends from the ingestion goroutine.
type Writer struct {
	mutex sync.Mutex
	file  *os.File
	path  string
}

// Open opens path for appending, creating it (mode 0644) and writing
// the header when it is empty. The parent directory must exist.
func Open(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log %s: %w", path, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("locking event log %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat event log %s: %w", path, err)
	}
	if info.Size() == 0 {
		if _, err := file.WriteString(Header + "\n"); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing event log header to %s: %w", path, err)
		}
	} else if err := terminateTail(file, info.Size()); err != nil {
		file.Close()
		return nil, fmt.Errorf("repairing event log %s: %w", path, err)
	}

	return &Writer{file: file, path: path}, nil
}

// terminateTail ends a line left unterminated by a crash mid-append,
// so the next record starts on its own line. The fragment itself is
// left for Scan to skip.
func terminateTail(file *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err := file.WriteString("\n")
	return err
}

// Path returns the file path the writer appends to.
func (writer *Writer) Path() string {
	return writer.path
}

// Append writes one record as a single line with a single write call,
// so a concurrent reader sees either the whole line or none of it
// (modulo the unterminated-tail rule).
func (writer *Writer) Append(record Record) error {
	line, err := FormatLine(record)
	if err != nil {
		return err
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	if writer.file == nil {
		return fmt.Errorf("appending to event log %s: %w", writer.path, os.ErrClosed)
	}
	if _, err := writer.file.Write(line); err != nil {
		return fmt.Errorf("appending to event log %s: %w", writer.path, err)
	}
	return nil
}

// Close releases the lock and closes the file. Closing twice is a
// no-op.
func (writer *Writer) Close() error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	if writer.file == nil {
		return nil
	}
	err := writer.file.Close()
	writer.file = nil
	return err
}

// FormatLine renders a record as one newline-terminated log line.
func FormatLine(record Record) ([]byte, error) {
	if record.Type == "" || strings.ContainsAny(record.Type, ",\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, record.Type)
	}

	var builder strings.Builder
	builder.WriteString(record.Timestamp.Format(TimestampLayout))
	builder.WriteByte(',')
	builder.WriteString(record.Type)
	builder.WriteByte(',')
	if record.Data != nil {
		payload, err := json.Marshal(record.Data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", record.Type, err)
		}
		builder.Write(payload)
	}
	builder.WriteByte('\n')
	return []byte(builder.String()), nil
}
