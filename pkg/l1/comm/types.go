package comm

// PacketReader reads one whole packet per call.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one whole packet per call.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is implemented by every transport.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
