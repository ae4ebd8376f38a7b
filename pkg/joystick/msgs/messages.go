// Package msgs defines the messages served by the joystick controller.
package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/joydrive/pkg/framework"
	"github.com/robotalks/joydrive/pkg/gamepad"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

// JoystickStatusQuery queries the status.
type JoystickStatusQuery struct {
}

// NewMessage implements Message.
func (m *JoystickStatusQuery) NewMessage() fx.Message { return &JoystickStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatusQuery) TypeID() uint32 { return JoystickStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatusQuery) Reset() { *m = JoystickStatusQuery{} }

// String implements proto.Message.
func (m *JoystickStatusQuery) String() string { return proto.CompactTextString(m) }

// JoystickStatusReply is the response for JoystickStatusQuery.
type JoystickStatusReply struct {
	Status *JoystickStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *JoystickStatusReply) NewMessage() fx.Message { return &JoystickStatusReply{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatusReply) TypeID() uint32 { return JoystickStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatusReply) Reset() { *m = JoystickStatusReply{} }

// String implements proto.Message.
func (m *JoystickStatusReply) String() string { return proto.CompactTextString(m) }

// JoystickConnect connects the joystick to a robot. Empty Type and ID
// disconnects.
type JoystickConnect struct {
	RegistryURL string `protobuf:"bytes,1,opt,name=registry_url,proto3" json:"registry_url,omitempty"`
	Type        string `protobuf:"bytes,2,opt,name=type,proto3" json:"type,omitempty"`
	ID          string `protobuf:"bytes,3,opt,name=id,proto3" json:"id,omitempty"`
}

// NewMessage implements Message.
func (m *JoystickConnect) NewMessage() fx.Message { return &JoystickConnect{} }

// TypeID implements SerializableMessage.
func (m *JoystickConnect) TypeID() uint32 { return JoystickConnectTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickConnect) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickConnect) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickConnect) Reset() { *m = JoystickConnect{} }

// String implements proto.Message.
func (m *JoystickConnect) String() string { return proto.CompactTextString(m) }

// JoystickStatus is published as an event when the device or the
// connection changes, and returned by JoystickStatusQuery.
type JoystickStatus struct {
	Device     *JoystickDevice     `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Connection *JoystickConnect    `protobuf:"bytes,2,opt,name=connection,proto3" json:"connection,omitempty"`
	Controls   *JoystickControls   `protobuf:"bytes,3,opt,name=controls,proto3" json:"controls,omitempty"`
	Drive      *msgs.DiffDrive     `protobuf:"bytes,4,opt,name=drive,proto3" json:"drive,omitempty"`
	Caps       *msgs.DiffDriveCaps `protobuf:"bytes,5,opt,name=caps,proto3" json:"caps,omitempty"`
}

// NewMessage implements Message.
func (m *JoystickStatus) NewMessage() fx.Message { return &JoystickStatus{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatus) TypeID() uint32 { return JoystickStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatus) Reset() { *m = JoystickStatus{} }

// String implements proto.Message.
func (m *JoystickStatus) String() string { return proto.CompactTextString(m) }

// JoystickDevice describes the opened device.
type JoystickDevice struct {
	Index       uint32 `protobuf:"varint,1,opt,name=index,proto3" json:"index"`
	Name        string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	AxisCount   uint32 `protobuf:"varint,3,opt,name=axis_count,proto3" json:"axis_count,omitempty"`
	ButtonCount uint32 `protobuf:"varint,4,opt,name=button_count,proto3" json:"button_count,omitempty"`
	Mapping     string `protobuf:"bytes,5,opt,name=mapping,proto3" json:"mapping,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *JoystickDevice) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickDevice) Reset() { *m = JoystickDevice{} }

// String implements proto.Message.
func (m *JoystickDevice) String() string { return proto.CompactTextString(m) }

// JoystickControls is the wire form of gamepad.Snapshot.
type JoystickControls struct {
	Start         float32 `protobuf:"fixed32,1,opt,name=start,proto3" json:"start"`
	Select        float32 `protobuf:"fixed32,2,opt,name=select,proto3" json:"select"`
	LeftTrigger1  float32 `protobuf:"fixed32,3,opt,name=left_trigger_1,proto3" json:"left_trigger_1"`
	LeftTrigger2  float32 `protobuf:"fixed32,4,opt,name=left_trigger_2,proto3" json:"left_trigger_2"`
	RightTrigger1 float32 `protobuf:"fixed32,5,opt,name=right_trigger_1,proto3" json:"right_trigger_1"`
	RightTrigger2 float32 `protobuf:"fixed32,6,opt,name=right_trigger_2,proto3" json:"right_trigger_2"`
	LeftAxisX     float32 `protobuf:"fixed32,7,opt,name=left_axis_x,proto3" json:"left_axis_x"`
	LeftAxisY     float32 `protobuf:"fixed32,8,opt,name=left_axis_y,proto3" json:"left_axis_y"`
	RightAxisX    float32 `protobuf:"fixed32,9,opt,name=right_axis_x,proto3" json:"right_axis_x"`
	RightAxisY    float32 `protobuf:"fixed32,10,opt,name=right_axis_y,proto3" json:"right_axis_y"`
}

// ControlsFrom copies a snapshot.
func ControlsFrom(s *gamepad.Snapshot) *JoystickControls {
	return &JoystickControls{
		Start:         s.Start,
		Select:        s.Select,
		LeftTrigger1:  s.LeftTrigger1,
		LeftTrigger2:  s.LeftTrigger2,
		RightTrigger1: s.RightTrigger1,
		RightTrigger2: s.RightTrigger2,
		LeftAxisX:     s.LeftAxisX,
		LeftAxisY:     s.LeftAxisY,
		RightAxisX:    s.RightAxisX,
		RightAxisY:    s.RightAxisY,
	}
}

// Snapshot converts back to gamepad.Snapshot.
func (m *JoystickControls) Snapshot() gamepad.Snapshot {
	return gamepad.Snapshot{
		Start:         m.Start,
		Select:        m.Select,
		LeftTrigger1:  m.LeftTrigger1,
		LeftTrigger2:  m.LeftTrigger2,
		RightTrigger1: m.RightTrigger1,
		RightTrigger2: m.RightTrigger2,
		LeftAxisX:     m.LeftAxisX,
		LeftAxisY:     m.LeftAxisY,
		RightAxisX:    m.RightAxisX,
		RightAxisY:    m.RightAxisY,
	}
}

// ProtoMessage implements proto.Message.
func (m *JoystickControls) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickControls) Reset() { *m = JoystickControls{} }

// String implements proto.Message.
func (m *JoystickControls) String() string { return proto.CompactTextString(m) }

// GroupJoystick is the message group of the joystick controller.
const GroupJoystick = msgs.GroupCustom

// TypeIDs
const (
	JoystickStatusEventTypeID uint32 = GroupJoystick | msgs.TypeIDKindEvent | 0x0000
	JoystickStatusQueryTypeID uint32 = GroupJoystick | 0x0000
	JoystickStatusReplyTypeID uint32 = GroupJoystick | msgs.TypeIDMaskReply | 0x0000
	JoystickConnectTypeID     uint32 = GroupJoystick | 0x0001
)

func init() {
	msgs.MessageTypes[JoystickStatusEventTypeID] = (*JoystickStatus)(nil)
	msgs.MessageTypes[JoystickStatusQueryTypeID] = (*JoystickStatusQuery)(nil)
	msgs.MessageTypes[JoystickStatusReplyTypeID] = (*JoystickStatusReply)(nil)
	msgs.MessageTypes[JoystickConnectTypeID] = (*JoystickConnect)(nil)
}
