package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/joydrive/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply representing a command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// DiffDriveCapsQuery queries the capabilities of a differential drive.
type DiffDriveCapsQuery struct {
}

// NewMessage implements Message.
func (m *DiffDriveCapsQuery) NewMessage() fx.Message { return &DiffDriveCapsQuery{} }

// TypeID implements SerializableMessage.
func (m *DiffDriveCapsQuery) TypeID() uint32 { return DiffDriveCapsQueryTypeID }

// Serializable implements SerializableMessage.
func (m *DiffDriveCapsQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DiffDriveCapsQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DiffDriveCapsQuery) Reset() { *m = DiffDriveCapsQuery{} }

// String implements proto.Message.
func (m *DiffDriveCapsQuery) String() string { return proto.CompactTextString(m) }

// DiffDriveCaps is the reply of DiffDriveCapsQuery.
type DiffDriveCaps struct {
	// MaxWheelSpeed (mm/s) is the wheel speed at command 1.0.
	MaxWheelSpeed float32 `protobuf:"fixed32,1,opt,name=max_wheel_speed,proto3" json:"max_wheel_speed,omitempty"`
	// TrackWidth (mm) is the distance between the wheels.
	TrackWidth float32 `protobuf:"fixed32,2,opt,name=track_width,proto3" json:"track_width,omitempty"`
	// Timeout (ms) after which the drive stops without new commands,
	// 0 if never.
	Timeout uint32 `protobuf:"varint,3,opt,name=timeout,proto3" json:"timeout,omitempty"`
}

// NewMessage implements Message.
func (m *DiffDriveCaps) NewMessage() fx.Message { return &DiffDriveCaps{} }

// TypeID implements SerializableMessage.
func (m *DiffDriveCaps) TypeID() uint32 { return DiffDriveCapsTypeID }

// Serializable implements SerializableMessage.
func (m *DiffDriveCaps) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DiffDriveCaps) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DiffDriveCaps) Reset() { *m = DiffDriveCaps{} }

// String implements proto.Message.
func (m *DiffDriveCaps) String() string { return proto.CompactTextString(m) }

// DiffDrive commands both sides of a differential drive. Values are
// nominally in [-1, 1]; receivers clamp them.
type DiffDrive struct {
	Left  float32 `protobuf:"fixed32,1,opt,name=left,proto3" json:"left,omitempty"`
	Right float32 `protobuf:"fixed32,2,opt,name=right,proto3" json:"right,omitempty"`
}

// NewMessage implements Message.
func (m *DiffDrive) NewMessage() fx.Message { return &DiffDrive{} }

// TypeID implements SerializableMessage.
func (m *DiffDrive) TypeID() uint32 { return DiffDriveTypeID }

// Serializable implements SerializableMessage.
func (m *DiffDrive) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DiffDrive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DiffDrive) Reset() { *m = DiffDrive{} }

// String implements proto.Message.
func (m *DiffDrive) String() string { return proto.CompactTextString(m) }

// DiffDriveState is an event reporting the output being applied.
type DiffDriveState struct {
	Left  float32 `protobuf:"fixed32,1,opt,name=left,proto3" json:"left,omitempty"`
	Right float32 `protobuf:"fixed32,2,opt,name=right,proto3" json:"right,omitempty"`
	// Stopped is set when the drive stopped by itself (e.g. timeout).
	Stopped bool `protobuf:"varint,3,opt,name=stopped,proto3" json:"stopped,omitempty"`
}

// NewMessage implements Message.
func (m *DiffDriveState) NewMessage() fx.Message { return &DiffDriveState{} }

// TypeID implements SerializableMessage.
func (m *DiffDriveState) TypeID() uint32 { return DiffDriveStateTypeID }

// Serializable implements SerializableMessage.
func (m *DiffDriveState) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *DiffDriveState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DiffDriveState) Reset() { *m = DiffDriveState{} }

// String implements proto.Message.
func (m *DiffDriveState) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand   uint32 = 0x00000000
	GroupDiffDrive uint32 = 0x00030000
	GroupCustom    uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID          uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	DiffDriveCapsQueryTypeID uint32 = GroupDiffDrive | 0x0000
	DiffDriveCapsTypeID      uint32 = DiffDriveCapsQueryTypeID | TypeIDMaskReply
	DiffDriveTypeID          uint32 = GroupDiffDrive | 0x0001
	DiffDriveStateTypeID     uint32 = GroupDiffDrive | TypeIDKindEvent | 0x0000
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
