package motor

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// FrameHeader starts every duty frame.
const FrameHeader byte = 0xA5

// FrameSize is the size of a duty frame.
const FrameSize = 5

// Driver applies signed duties to the left and right motors.
type Driver interface {
	io.Closer
	SetDuty(left, right int16) error
}

// EncodeFrame builds [0xA5, left int16 LE, right int16 LE].
func EncodeFrame(left, right int16) []byte {
	frame := make([]byte, FrameSize)
	frame[0] = FrameHeader
	binary.LittleEndian.PutUint16(frame[1:], uint16(left))
	binary.LittleEndian.PutUint16(frame[3:], uint16(right))
	return frame
}

// StreamDriver writes duty frames to a byte stream.
type StreamDriver struct {
	w    io.Writer
	lock sync.Mutex
}

// NewStreamDriver creates a StreamDriver. It closes w if it's an io.Closer.
func NewStreamDriver(w io.Writer) *StreamDriver {
	return &StreamDriver{w: w}
}

// SetDuty implements Driver.
func (d *StreamDriver) SetDuty(left, right int16) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.w.Write(EncodeFrame(left, right))
	return err
}

// Close implements Driver.
func (d *StreamDriver) Close() error {
	if closer, ok := d.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenSerial opens a serial port as a StreamDriver, 8N1.
func OpenSerial(portName string, baudRate int) (*StreamDriver, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", portName)
	}
	glog.Infof("serial %s opened at %d baud", portName, baudRate)
	return NewStreamDriver(port), nil
}

// SerialPorts lists serial ports of the system.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

// LogDriver only logs duties, for dry runs.
type LogDriver struct {
	Left, Right int16
}

// SetDuty implements Driver.
func (d *LogDriver) SetDuty(left, right int16) error {
	d.Left, d.Right = left, right
	glog.Infof("duty %d %d", left, right)
	return nil
}

// Close implements Driver.
func (d *LogDriver) Close() error { return nil }
