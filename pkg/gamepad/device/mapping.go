package device

import (
	"io/ioutil"
	"math"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/robotalks/joydrive/pkg/gamepad"
)

// AxisMapping maps a raw axis to a gamepad axis, or to an analog
// button when Button is set (e.g. triggers reported as axes).
type AxisMapping struct {
	Index    int            `yaml:"index"`
	Axis     gamepad.Axis   `yaml:"axis,omitempty"`
	Button   gamepad.Button `yaml:"button,omitempty"`
	Invert   bool           `yaml:"invert,omitempty"`
	DeadZone float64        `yaml:"dead_zone,omitempty"`
	// RawMin and RawMax are the raw range of a trigger.
	RawMin int16 `yaml:"raw_min,omitempty"`
	RawMax int16 `yaml:"raw_max,omitempty"`
}

// ButtonMapping maps a raw button to a gamepad button.
type ButtonMapping struct {
	Index  int            `yaml:"index"`
	Button gamepad.Button `yaml:"button"`
}

// Mapping translates raw device events of a type of controller.
type Mapping struct {
	Name    string          `yaml:"name"`
	Axes    []AxisMapping   `yaml:"axes"`
	Buttons []ButtonMapping `yaml:"buttons"`

	axes    map[int]*AxisMapping
	buttons map[int]gamepad.Button
}

// NormalizeAxis converts a raw axis value to [-1, 1].
func NormalizeAxis(raw int16) float32 {
	v := float32(raw) / math.MaxInt16
	if v < -1 {
		v = -1
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to [0, 1].
func NormalizeTrigger(raw, rawMin, rawMax int16) float32 {
	if rawMax == rawMin {
		return 0
	}
	v := float32(int32(raw)-int32(rawMin)) / float32(int32(rawMax)-int32(rawMin))
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v
}

// ApplyDeadZone returns 0 when |v| is below threshold.
func ApplyDeadZone(v float32, threshold float64) float32 {
	if math.Abs(float64(v)) < threshold {
		return 0
	}
	return v
}

func (m *Mapping) index() {
	m.axes = make(map[int]*AxisMapping, len(m.Axes))
	for n := range m.Axes {
		m.axes[m.Axes[n].Index] = &m.Axes[n]
	}
	m.buttons = make(map[int]gamepad.Button, len(m.Buttons))
	for _, b := range m.Buttons {
		m.buttons[b.Index] = b.Button
	}
}

// Validate checks for duplicated indices.
func (m *Mapping) Validate() error {
	seen := make(map[int]bool)
	for _, a := range m.Axes {
		if seen[a.Index] {
			return errors.Errorf("mapping %q: duplicated axis index %d", m.Name, a.Index)
		}
		seen[a.Index] = true
	}
	seen = make(map[int]bool)
	for _, b := range m.Buttons {
		if seen[b.Index] {
			return errors.Errorf("mapping %q: duplicated button index %d", m.Name, b.Index)
		}
		seen[b.Index] = true
	}
	return nil
}

// Translate converts a raw event into a gamepad event. Unmapped controls
// come out with Unknown identifiers; other raw events become nil.
func (m *Mapping) Translate(ev Event) gamepad.Event {
	if m.axes == nil || m.buttons == nil {
		m.index()
	}
	switch e := ev.(type) {
	case ButtonEvent:
		var val float32
		if e.Pressed() {
			val = 1
		}
		return gamepad.ButtonChanged{Button: m.buttons[e.Index()], Value: val, Code: e.Index()}
	case AxisEvent:
		am := m.axes[e.Index()]
		if am == nil {
			return gamepad.AxisChanged{Axis: gamepad.AxisUnknown, Value: NormalizeAxis(e.Value()), Code: e.Index()}
		}
		if am.Button != gamepad.ButtonUnknown {
			return gamepad.ButtonChanged{
				Button: am.Button,
				Value:  NormalizeTrigger(e.Value(), am.RawMin, am.RawMax),
				Code:   e.Index(),
			}
		}
		val := NormalizeAxis(e.Value())
		if am.Invert {
			val = -val
		}
		return gamepad.AxisChanged{Axis: am.Axis, Value: ApplyDeadZone(val, am.DeadZone), Code: e.Index()}
	}
	return nil
}

// ParseMapping decodes a YAML mapping.
func ParseMapping(data []byte) (*Mapping, error) {
	m := &Mapping{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.index()
	return m, nil
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(fn string) (*Mapping, error) {
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	m, err := ParseMapping(data)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping %s", fn)
	}
	return m, nil
}

// Encode renders the mapping as YAML.
func (m *Mapping) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// MappingByName returns a copy of a built-in mapping.
func MappingByName(name string) (*Mapping, error) {
	builtin, ok := builtinMappings[name]
	if !ok {
		return nil, errors.Errorf("unknown mapping %q", name)
	}
	m := &Mapping{
		Name:    builtin.Name,
		Axes:    append([]AxisMapping(nil), builtin.Axes...),
		Buttons: append([]ButtonMapping(nil), builtin.Buttons...),
	}
	m.index()
	return m, nil
}

// Linux js interface layouts. Y axes report up as negative, they're
// inverted so pushing forward is positive.
var builtinMappings = map[string]*Mapping{
	"xbox": {
		Name: "xbox",
		Axes: []AxisMapping{
			{Index: 0, Axis: gamepad.AxisLeftStickX},
			{Index: 1, Axis: gamepad.AxisLeftStickY, Invert: true},
			{Index: 2, Button: gamepad.ButtonLeftTrigger2, RawMin: -32767, RawMax: 32767},
			{Index: 3, Axis: gamepad.AxisRightStickX},
			{Index: 4, Axis: gamepad.AxisRightStickY, Invert: true},
			{Index: 5, Button: gamepad.ButtonRightTrigger2, RawMin: -32767, RawMax: 32767},
			{Index: 6, Axis: gamepad.AxisDPadX},
			{Index: 7, Axis: gamepad.AxisDPadY, Invert: true},
		},
		Buttons: []ButtonMapping{
			{Index: 0, Button: gamepad.ButtonSouth},
			{Index: 1, Button: gamepad.ButtonEast},
			{Index: 2, Button: gamepad.ButtonWest},
			{Index: 3, Button: gamepad.ButtonNorth},
			{Index: 4, Button: gamepad.ButtonLeftTrigger},
			{Index: 5, Button: gamepad.ButtonRightTrigger},
			{Index: 6, Button: gamepad.ButtonSelect},
			{Index: 7, Button: gamepad.ButtonStart},
			{Index: 8, Button: gamepad.ButtonMode},
			{Index: 9, Button: gamepad.ButtonLeftThumb},
			{Index: 10, Button: gamepad.ButtonRightThumb},
		},
	},
	"ds4": {
		Name: "ds4",
		Axes: []AxisMapping{
			{Index: 0, Axis: gamepad.AxisLeftStickX},
			{Index: 1, Axis: gamepad.AxisLeftStickY, Invert: true},
			{Index: 2, Button: gamepad.ButtonLeftTrigger2, RawMin: -32767, RawMax: 32767},
			{Index: 3, Axis: gamepad.AxisRightStickX},
			{Index: 4, Axis: gamepad.AxisRightStickY, Invert: true},
			{Index: 5, Button: gamepad.ButtonRightTrigger2, RawMin: -32767, RawMax: 32767},
			{Index: 6, Axis: gamepad.AxisDPadX},
			{Index: 7, Axis: gamepad.AxisDPadY, Invert: true},
		},
		Buttons: []ButtonMapping{
			{Index: 0, Button: gamepad.ButtonSouth},
			{Index: 1, Button: gamepad.ButtonEast},
			{Index: 2, Button: gamepad.ButtonNorth},
			{Index: 3, Button: gamepad.ButtonWest},
			{Index: 4, Button: gamepad.ButtonLeftTrigger},
			{Index: 5, Button: gamepad.ButtonRightTrigger},
			{Index: 8, Button: gamepad.ButtonSelect},
			{Index: 9, Button: gamepad.ButtonStart},
			{Index: 10, Button: gamepad.ButtonMode},
			{Index: 11, Button: gamepad.ButtonLeftThumb},
			{Index: 12, Button: gamepad.ButtonRightThumb},
		},
	},
}

// DefaultMapping is the name of the mapping used when none is configured.
const DefaultMapping = "xbox"
