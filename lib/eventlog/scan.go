// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// maxLineLength bounds a single record. Payloads are a handful of
// fields; anything longer is damage.
const maxLineLength = 1 << 20

// ScanResult counts what a scan saw.
type ScanResult struct {
	// Records is the number of records delivered to the callback.
	Records int
	// Skipped counts lines dropped as malformed: fewer than two
	// fields or an unparsable timestamp.
	Skipped int
	// Corrupt counts delivered records whose payload did not decode.
	Corrupt int
	// Truncated is set when the input ended with an unterminated line,
	// typically a record being appended while the scan ran.
	Truncated bool
}

// Scan reads log lines from reader and calls fn for each well-formed
// record in file order. A header line at the start is skipped. Scan
// stops early and returns fn's error if fn fails.
func Scan(reader io.Reader, fn func(Record) error) (ScanResult, error) {
	var result ScanResult
	buffered := bufio.NewReader(reader)
	first := true

	for {
		line, err := readLine(buffered)
		if errors.Is(err, io.EOF) {
			if line != "" {
				result.Truncated = true
			}
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("reading event log: %w", err)
		}

		if first {
			first = false
			if line == Header {
				continue
			}
		}
		if line == "" {
			continue
		}

		record, ok := ParseLine(line)
		if !ok {
			result.Skipped++
			continue
		}
		if record.Corrupt {
			result.Corrupt++
		}
		result.Records++
		if err := fn(record); err != nil {
			return result, err
		}
	}
}

// ScanFile scans the log at path. A missing file is an empty log.
func ScanFile(path string, fn func(Record) error) (ScanResult, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ScanResult{}, nil
	}
	if err != nil {
		return ScanResult{}, fmt.Errorf("opening event log: %w", err)
	}
	defer file.Close()
	return Scan(file, fn)
}

// ParseLine parses one log line without its terminator. ok is false
// for lines with fewer than two fields or a bad timestamp.
func ParseLine(line string) (Record, bool) {
	fields := strings.SplitN(line, ",", 3)
	if len(fields) < 2 {
		return Record{}, false
	}
	timestamp, err := time.ParseInLocation(TimestampLayout, fields[0], time.Local)
	if err != nil {
		return Record{}, false
	}

	record := Record{Timestamp: timestamp, Type: fields[1]}
	if len(fields) == 3 && fields[2] != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(fields[2]), &data); err != nil || data == nil {
			record.Corrupt = true
		} else {
			record.Data = data
		}
	}
	return record, true
}

// readLine returns the next line without its terminator. At end of
// input it returns any unterminated remainder with io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	var builder strings.Builder
	for {
		chunk, err := reader.ReadSlice('\n')
		if builder.Len()+len(chunk) > maxLineLength {
			return "", fmt.Errorf("line exceeds %d bytes", maxLineLength)
		}
		builder.Write(chunk)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			return builder.String(), err
		}
		return strings.TrimRight(builder.String(), "\r\n"), nil
	}
}
