package device

import (
	"bytes"
	"encoding/binary"
	"io"
)

// rawEvent is struct js_event from linux/joystick.h.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

const (
	rawEventSize = 8

	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02
	evINIT uint8 = 0x80
)

func (e *rawEvent) IsInit() bool   { return e.Type&evINIT != 0 }
func (e *rawEvent) Index() int     { return int(e.Number) }
func (e *rawEvent) Millis() uint32 { return e.Time }

type axisEvent struct {
	rawEvent
}

func (e *axisEvent) Value() int16 { return e.rawEvent.Value }

type buttonEvent struct {
	rawEvent
}

func (e *buttonEvent) Pressed() bool { return e.rawEvent.Value != 0 }

// readRawEvent reads and decodes one js_event. Events which are neither
// axis nor button are returned as a plain Event.
func readRawEvent(r io.Reader) (Event, error) {
	buf := make([]byte, rawEventSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	var ev rawEvent
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &ev); err != nil {
		return nil, err
	}
	switch ev.Type &^ evINIT {
	case evBTN:
		return &buttonEvent{rawEvent: ev}, nil
	case evAXIS:
		return &axisEvent{rawEvent: ev}, nil
	}
	return &ev, nil
}
