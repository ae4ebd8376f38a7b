package device

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/joydrive/pkg/gamepad"
)

func axisEv(index int, val int16) Event {
	return &axisEvent{rawEvent: rawEvent{Type: evAXIS, Number: uint8(index), Value: val}}
}

func buttonEv(index int, pressed bool) Event {
	var val int16
	if pressed {
		val = 1
	}
	return &buttonEvent{rawEvent: rawEvent{Type: evBTN, Number: uint8(index), Value: val}}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, float32(1), NormalizeAxis(32767))
	require.Equal(t, float32(-1), NormalizeAxis(-32768))
	require.Equal(t, float32(0), NormalizeAxis(0))

	require.Equal(t, float32(0), NormalizeTrigger(-32767, -32767, 32767))
	require.Equal(t, float32(1), NormalizeTrigger(32767, -32767, 32767))
	assert.InDelta(t, 0.5, NormalizeTrigger(0, -32767, 32767), 1e-6)
	require.Equal(t, float32(0), NormalizeTrigger(-32768, -32767, 32767))
	require.Equal(t, float32(0), NormalizeTrigger(5, 3, 3))

	require.Equal(t, float32(0), ApplyDeadZone(0.04, 0.05))
	require.Equal(t, float32(-0.06), ApplyDeadZone(-0.06, 0.05))
}

func TestTranslateXbox(t *testing.T) {
	m, err := MappingByName("xbox")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		ev     Event
		expect gamepad.Event
	}{
		{"left x", axisEv(0, 32767), gamepad.AxisChanged{Axis: gamepad.AxisLeftStickX, Value: 1, Code: 0}},
		{"left y inverted", axisEv(1, -32767), gamepad.AxisChanged{Axis: gamepad.AxisLeftStickY, Value: 1, Code: 1}},
		{"left trigger 2", axisEv(2, 32767), gamepad.ButtonChanged{Button: gamepad.ButtonLeftTrigger2, Value: 1, Code: 2}},
		{"right trigger 2 released", axisEv(5, -32767), gamepad.ButtonChanged{Button: gamepad.ButtonRightTrigger2, Value: 0, Code: 5}},
		{"unmapped axis", axisEv(9, 0), gamepad.AxisChanged{Axis: gamepad.AxisUnknown, Value: 0, Code: 9}},
		{"start pressed", buttonEv(7, true), gamepad.ButtonChanged{Button: gamepad.ButtonStart, Value: 1, Code: 7}},
		{"select released", buttonEv(6, false), gamepad.ButtonChanged{Button: gamepad.ButtonSelect, Value: 0, Code: 6}},
		{"left bumper", buttonEv(4, true), gamepad.ButtonChanged{Button: gamepad.ButtonLeftTrigger, Value: 1, Code: 4}},
		{"unmapped button", buttonEv(20, true), gamepad.ButtonChanged{Button: gamepad.ButtonUnknown, Value: 1, Code: 20}},
		{"other", &rawEvent{Type: 0x04}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, m.Translate(tc.ev))
		})
	}
}

func TestTranslateFeedsSnapshot(t *testing.T) {
	m, err := MappingByName("ds4")
	require.NoError(t, err)
	var s gamepad.Snapshot
	for _, ev := range []Event{
		axisEv(1, -32767),
		buttonEv(9, true),
		buttonEv(0, true),
		axisEv(2, 32767),
	} {
		s.Apply(m.Translate(ev))
	}
	require.Equal(t, gamepad.Snapshot{LeftAxisY: 1, Start: 1, LeftTrigger2: 1}, s)
}

func TestMappingByNameIsCopy(t *testing.T) {
	m, err := MappingByName("xbox")
	require.NoError(t, err)
	m.Axes[0].Invert = true
	m2, err := MappingByName("xbox")
	require.NoError(t, err)
	require.False(t, m2.Axes[0].Invert)

	_, err = MappingByName("n64")
	require.Error(t, err)
}

const testMappingYAML = `
name: custom
axes:
  - index: 0
    axis: LeftStickX
    dead_zone: 0.1
  - index: 1
    axis: leftsticky
    invert: true
  - index: 4
    button: RightTrigger2
    raw_min: 0
    raw_max: 32767
buttons:
  - index: 3
    button: Start
`

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]byte(testMappingYAML))
	require.NoError(t, err)
	require.Equal(t, "custom", m.Name)
	require.Len(t, m.Axes, 3)
	require.Equal(t, gamepad.AxisLeftStickY, m.Axes[1].Axis)
	require.Equal(t, gamepad.ButtonRightTrigger2, m.Axes[2].Button)

	require.Equal(t, gamepad.AxisChanged{Axis: gamepad.AxisLeftStickX, Value: 0, Code: 0}, m.Translate(axisEv(0, 1000)))
	require.Equal(t, gamepad.ButtonChanged{Button: gamepad.ButtonRightTrigger2, Value: 1, Code: 4}, m.Translate(axisEv(4, 32767)))
	require.Equal(t, gamepad.ButtonChanged{Button: gamepad.ButtonStart, Value: 1, Code: 3}, m.Translate(buttonEv(3, true)))
}

func TestParseMappingErrors(t *testing.T) {
	_, err := ParseMapping([]byte("axes:\n  - index: 0\n    axis: Wheel\n"))
	require.Error(t, err)

	_, err = ParseMapping([]byte("buttons:\n  - {index: 1, button: Start}\n  - {index: 1, button: Select}\n"))
	require.Error(t, err)
}

func TestLoadMappingRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "joydrive-mapping")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m, err := MappingByName("ds4")
	require.NoError(t, err)
	data, err := m.Encode()
	require.NoError(t, err)
	fn := filepath.Join(dir, "ds4.yaml")
	require.NoError(t, ioutil.WriteFile(fn, data, 0644))

	loaded, err := LoadMapping(fn)
	require.NoError(t, err)
	require.Equal(t, m.Axes, loaded.Axes)
	require.Equal(t, m.Buttons, loaded.Buttons)

	_, err = LoadMapping(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadMappingMissingFile(t *testing.T) {
	fn := filepath.Join(os.TempDir(), "joydrive-no-such-mapping.yaml")
	_, err := LoadMapping(fn)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
