// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNotConnected is returned by writes and reads when no port is open.
var ErrNotConnected = errors.New("link: device not connected")

// ConnectErrorKind classifies why a port could not be opened.
type ConnectErrorKind int

const (
	// ConnectOther is any failure not covered below (bad baud rate,
	// not a TTY, driver error).
	ConnectOther ConnectErrorKind = iota
	// DeviceAbsent means the port does not exist: the device is
	// unplugged or the name is wrong.
	DeviceAbsent
	// PortBusy means another process has the port open.
	PortBusy
	// PermissionDenied means the user lacks access, typically missing
	// membership in the dialout group.
	PermissionDenied
)

func (kind ConnectErrorKind) String() string {
	switch kind {
	case DeviceAbsent:
		return "device_absent"
	case PortBusy:
		return "port_busy"
	case PermissionDenied:
		return "permission_denied"
	default:
		return "other"
	}
}

// ConnectError is returned by Link.Connect.
type ConnectError struct {
	Kind ConnectErrorKind
	Port string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to %s (%s): %v", e.Port, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// classifyOpenError turns an opener failure into a ConnectError. An
// opener that already returns a *ConnectError keeps its
// classification.
func classifyOpenError(port string, err error) *ConnectError {
	var connectErr *ConnectError
	if errors.As(err, &connectErr) {
		return connectErr
	}

	kind := ConnectOther
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = DeviceAbsent
	case errors.Is(err, fs.ErrPermission):
		kind = PermissionDenied
	}
	return &ConnectError{Kind: kind, Port: port, Err: err}
}
