package gamepad

import "github.com/robotalks/joydrive/pkg/drive"

// Snapshot holds the latest value of the tracked controls.
// The zero value is ready to use with every control at rest.
//
// A Snapshot is not safe for concurrent use; it's owned by whoever
// applies events to it.
type Snapshot struct {
	Start  float32 `json:"start"`
	Select float32 `json:"select"`

	LeftTrigger1  float32 `json:"left_trigger_1"`
	LeftTrigger2  float32 `json:"left_trigger_2"`
	RightTrigger1 float32 `json:"right_trigger_1"`
	RightTrigger2 float32 `json:"right_trigger_2"`

	LeftAxisX  float32 `json:"left_axis_x"`
	LeftAxisY  float32 `json:"left_axis_y"`
	RightAxisX float32 `json:"right_axis_x"`
	RightAxisY float32 `json:"right_axis_y"`
}

// Apply folds an event into the snapshot. Controls which are not
// tracked and events other than ButtonChanged/AxisChanged are ignored.
func (s *Snapshot) Apply(ev Event) {
	switch e := ev.(type) {
	case ButtonChanged:
		s.applyButton(e.Button, e.Value)
	case *ButtonChanged:
		if e != nil {
			s.applyButton(e.Button, e.Value)
		}
	case AxisChanged:
		s.applyAxis(e.Axis, e.Value)
	case *AxisChanged:
		if e != nil {
			s.applyAxis(e.Axis, e.Value)
		}
	}
}

func (s *Snapshot) applyButton(b Button, val float32) {
	switch b {
	case ButtonStart:
		s.Start = val
	case ButtonSelect:
		s.Select = val
	case ButtonLeftTrigger:
		s.LeftTrigger1 = val
	case ButtonLeftTrigger2:
		s.LeftTrigger2 = val
	case ButtonRightTrigger:
		s.RightTrigger1 = val
	case ButtonRightTrigger2:
		s.RightTrigger2 = val
	}
}

func (s *Snapshot) applyAxis(a Axis, val float32) {
	switch a {
	case AxisLeftStickX:
		s.LeftAxisX = val
	case AxisLeftStickY:
		s.LeftAxisY = val
	case AxisRightStickX:
		s.RightAxisX = val
	case AxisRightStickY:
		s.RightAxisY = val
	}
}

// DifferentialDrive maps the left stick to left/right motor commands.
func (s *Snapshot) DifferentialDrive() (left, right float64) {
	return drive.Differential(float64(s.LeftAxisX), float64(s.LeftAxisY))
}

// Reset puts every control back to rest.
func (s *Snapshot) Reset() {
	*s = Snapshot{}
}
