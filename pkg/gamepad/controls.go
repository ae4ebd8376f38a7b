// Package gamepad tracks the state of gamepad controls from change events.
package gamepad

import (
	"errors"
	"strings"
)

// Button identifies a gamepad button, including analog triggers.
type Button int

// Buttons
const (
	ButtonUnknown Button = iota
	ButtonSouth
	ButtonEast
	ButtonNorth
	ButtonWest
	ButtonC
	ButtonZ
	ButtonLeftTrigger
	ButtonLeftTrigger2
	ButtonRightTrigger
	ButtonRightTrigger2
	ButtonSelect
	ButtonStart
	ButtonMode
	ButtonLeftThumb
	ButtonRightThumb
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
)

// Axis identifies a gamepad axis.
type Axis int

// Axes
const (
	AxisUnknown Axis = iota
	AxisLeftStickX
	AxisLeftStickY
	AxisLeftZ
	AxisRightStickX
	AxisRightStickY
	AxisRightZ
	AxisDPadX
	AxisDPadY
)

var (
	// ErrUnknownControl indicates a control name can't be parsed.
	ErrUnknownControl = errors.New("unknown control")
)

var buttonNames = [...]string{
	ButtonUnknown:       "Unknown",
	ButtonSouth:         "South",
	ButtonEast:          "East",
	ButtonNorth:         "North",
	ButtonWest:          "West",
	ButtonC:             "C",
	ButtonZ:             "Z",
	ButtonLeftTrigger:   "LeftTrigger",
	ButtonLeftTrigger2:  "LeftTrigger2",
	ButtonRightTrigger:  "RightTrigger",
	ButtonRightTrigger2: "RightTrigger2",
	ButtonSelect:        "Select",
	ButtonStart:         "Start",
	ButtonMode:          "Mode",
	ButtonLeftThumb:     "LeftThumb",
	ButtonRightThumb:    "RightThumb",
	ButtonDPadUp:        "DPadUp",
	ButtonDPadDown:      "DPadDown",
	ButtonDPadLeft:      "DPadLeft",
	ButtonDPadRight:     "DPadRight",
}

var axisNames = [...]string{
	AxisUnknown:     "Unknown",
	AxisLeftStickX:  "LeftStickX",
	AxisLeftStickY:  "LeftStickY",
	AxisLeftZ:       "LeftZ",
	AxisRightStickX: "RightStickX",
	AxisRightStickY: "RightStickY",
	AxisRightZ:      "RightZ",
	AxisDPadX:       "DPadX",
	AxisDPadY:       "DPadY",
}

// String implements fmt.Stringer.
func (b Button) String() string {
	if b < 0 || int(b) >= len(buttonNames) {
		return buttonNames[ButtonUnknown]
	}
	return buttonNames[b]
}

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return axisNames[AxisUnknown]
	}
	return axisNames[a]
}

// ParseButton parses a button name, case-insensitive.
func ParseButton(name string) (Button, error) {
	for n, s := range buttonNames {
		if strings.EqualFold(s, name) {
			return Button(n), nil
		}
	}
	return ButtonUnknown, ErrUnknownControl
}

// ParseAxis parses an axis name, case-insensitive.
func ParseAxis(name string) (Axis, error) {
	for n, s := range axisNames {
		if strings.EqualFold(s, name) {
			return Axis(n), nil
		}
	}
	return AxisUnknown, ErrUnknownControl
}

// MarshalText implements encoding.TextMarshaler.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Button) UnmarshalText(text []byte) (err error) {
	*b, err = ParseButton(string(text))
	return
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) (err error) {
	*a, err = ParseAxis(string(text))
	return
}

// UnmarshalYAML decodes a button from its name.
func (b *Button) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	return b.UnmarshalText([]byte(name))
}

// MarshalYAML encodes a button as its name.
func (b Button) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// UnmarshalYAML decodes an axis from its name.
func (a *Axis) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(name))
}

// MarshalYAML encodes an axis as its name.
func (a Axis) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}
