// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"errors"
	"fmt"
	"slices"

	"go.bug.st/serial"
)

// SerialOpener opens a real serial port at 8N1 with the given baud
// rate.
func SerialOpener(name string, baud int) (Port, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, classifySerialError(name, err)
	}
	return port, nil
}

func classifySerialError(name string, err error) error {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return classifyOpenError(name, err)
	}
	kind := ConnectOther
	switch portErr.Code() {
	case serial.PortNotFound:
		kind = DeviceAbsent
	case serial.PortBusy:
		kind = PortBusy
	case serial.PermissionDenied:
		kind = PermissionDenied
	}
	return &ConnectError{Kind: kind, Port: name, Err: err}
}

// ListPorts returns the serial port names present on the host, sorted.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	slices.Sort(ports)
	return ports, nil
}
