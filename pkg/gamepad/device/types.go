// Package device reads raw joystick events and maps them to gamepad events.
package device

import (
	"errors"
	"io"
)

// Event is a raw event read from a joystick device.
type Event interface {
	// IsInit indicates the event reports initial state after open.
	IsInit() bool
	// Index returns either the axis or the button index.
	Index() int
	// Millis is the device timestamp in milliseconds.
	Millis() uint32
}

// AxisEvent represents the change on an axis.
type AxisEvent interface {
	Event
	Value() int16
}

// ButtonEvent represents the change on a button.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name reported by the driver.
	Name() string
	// AxisCount returns the number of axes on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent blocks until one event is read.
	ReadEvent() (Event, error)
}

var (
	// ErrNotSupported is returned on platforms without joystick support.
	ErrNotSupported = errors.New("joystick devices not supported on this platform")
)
