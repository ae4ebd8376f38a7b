package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/joydrive/pkg/gamepad"
	"github.com/robotalks/joydrive/pkg/l1/msgs"
)

func TestStatusReplyRoundTrip(t *testing.T) {
	snapshot := gamepad.Snapshot{Start: 1, LeftTrigger2: 0.5, LeftAxisX: -0.25, RightAxisY: 1}
	reply := &JoystickStatusReply{Status: &JoystickStatus{
		Device:     &JoystickDevice{Index: 1, Name: "Xbox Wireless Controller", AxisCount: 8, ButtonCount: 11, Mapping: "xbox"},
		Connection: &JoystickConnect{RegistryURL: "mqtt://localhost:1883/robo/", Type: "motor", ID: "m0"},
		Controls:   ControlsFrom(&snapshot),
		Drive:      &msgs.DiffDrive{Left: 0.5, Right: 0.25},
		Caps:       &msgs.DiffDriveCaps{MaxWheelSpeed: 300, TrackWidth: 120},
	}}
	typed, err := msgs.TypedFrom(reply)
	require.NoError(t, err)
	require.True(t, typed.IsReply())
	decoded, err := typed.Decode()
	require.NoError(t, err)
	require.Equal(t, reply, decoded)
	require.Equal(t, snapshot, decoded.(*JoystickStatusReply).Status.Controls.Snapshot())
}

func TestTypeKinds(t *testing.T) {
	testCases := []struct {
		name  string
		msg   msgs.SerializableMessage
		event bool
		reply bool
	}{
		{"status", &JoystickStatus{}, true, false},
		{"query", &JoystickStatusQuery{}, false, false},
		{"reply", &JoystickStatusReply{}, false, true},
		{"connect", &JoystickConnect{Type: "motor", ID: "m0"}, false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := msgs.TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.event, typed.IsEvent())
			require.Equal(t, tc.reply, typed.IsReply())
			_, err = typed.Decode()
			require.NoError(t, err)
		})
	}
}
