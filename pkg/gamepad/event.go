package gamepad

import (
	"fmt"
	"time"
)

// Event is a change notification from an input source.
// The set of implementations is closed.
type Event interface {
	isEvent()
}

// ButtonChanged reports the new value of a button in [0, 1].
type ButtonChanged struct {
	Button Button
	Value  float32
	// Code is the raw control index on the device.
	Code int
}

// AxisChanged reports the new value of an axis in [-1, 1].
type AxisChanged struct {
	Axis  Axis
	Value float32
	Code  int
}

// ButtonPressed reports a button crossing the pressed threshold.
type ButtonPressed struct {
	Button Button
	Code   int
}

// ButtonReleased reports a button going back from pressed.
type ButtonReleased struct {
	Button Button
	Code   int
}

// Connected reports an input source becoming available.
type Connected struct{}

// Disconnected reports an input source going away.
type Disconnected struct{}

// Dropped reports the source lost events and state may be stale.
type Dropped struct{}

func (ButtonChanged) isEvent()  {}
func (AxisChanged) isEvent()    {}
func (ButtonPressed) isEvent()  {}
func (ButtonReleased) isEvent() {}
func (Connected) isEvent()      {}
func (Disconnected) isEvent()   {}
func (Dropped) isEvent()        {}

// String implements fmt.Stringer.
func (e ButtonChanged) String() string {
	return fmt.Sprintf("ButtonChanged(%s, %.4f, %d)", e.Button, e.Value, e.Code)
}

// String implements fmt.Stringer.
func (e AxisChanged) String() string {
	return fmt.Sprintf("AxisChanged(%s, %+.4f, %d)", e.Axis, e.Value, e.Code)
}

// String implements fmt.Stringer.
func (e ButtonPressed) String() string {
	return fmt.Sprintf("ButtonPressed(%s, %d)", e.Button, e.Code)
}

// String implements fmt.Stringer.
func (e ButtonReleased) String() string {
	return fmt.Sprintf("ButtonReleased(%s, %d)", e.Button, e.Code)
}

// String implements fmt.Stringer.
func (Connected) String() string { return "Connected" }

// String implements fmt.Stringer.
func (Disconnected) String() string { return "Disconnected" }

// String implements fmt.Stringer.
func (Dropped) String() string { return "Dropped" }

// SourceEvent is an Event tagged with the source it came from.
type SourceEvent struct {
	Source int
	Time   time.Time
	Event  Event
}

// String formats the event as a log line: millis : source : event.
func (e SourceEvent) String() string {
	return fmt.Sprintf("%d : %d : %v", e.Time.UnixNano()/int64(time.Millisecond), e.Source, e.Event)
}
