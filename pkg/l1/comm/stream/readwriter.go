// Package stream frames packets over byte streams (serial lines, TCP,
// pipes) with a 4-byte little-endian length prefix.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxPacketSize bounds the length prefix accepted by ReadPacket.
const MaxPacketSize = 1 << 16

// ErrPacketTooLarge is returned when the length prefix exceeds MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// ReadWriter implements comm.PacketReadWriter.
type ReadWriter struct {
	Stream io.ReadWriter
}

// New creates a ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{Stream: s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(p.Stream, prefix[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(prefix[:])
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.Stream, pkt); err != nil {
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.Stream.Write(buf)
	return err
}

// Close closes the stream if it's an io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.Stream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
