// Package script holds the animation choreography as an ordered list of
// steps, and plays it against the host.
package script

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/Faultbox/orbitcam/internal/camera"
)

// Action names what a step does.
type Action string

const (
	ActionDisableInput     Action = "disable_input"
	ActionEnableInput      Action = "enable_input"
	ActionDisableGui       Action = "disable_gui"
	ActionEnableGui        Action = "enable_gui"
	ActionCameraStop       Action = "camera_stop"
	ActionCameraSpeed      Action = "camera_speed"
	ActionRotationSpeed    Action = "rotation_speed"
	ActionTurningSpeed     Action = "turning_speed"
	ActionCinematic        Action = "cinematic"
	ActionFocus            Action = "focus"
	ActionFov              Action = "fov"
	ActionVisibility       Action = "visibility"
	ActionCrosshair        Action = "crosshair"
	ActionClosestCrosshair Action = "closest_crosshair"
	ActionLineWidth        Action = "line_width"
	ActionLensFlare        Action = "lens_flare"
	ActionFrameConfig      Action = "frame_config"
	ActionFrameOutput      Action = "frame_output"
	ActionResetSequence    Action = "reset_sequence"
	ActionStopTime         Action = "stop_time"
	ActionStartTime        Action = "start_time"
	ActionSimulationTime   Action = "simulation_time"
	ActionTargetTime       Action = "target_time"
	ActionTimeWarp         Action = "time_warp"
	ActionPose             Action = "pose"
	ActionTransition       Action = "transition"
	ActionSleep            Action = "sleep"
)

// FrameSpec configures the host's image-sequence output.
type FrameSpec struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	FPS       int    `yaml:"fps"`
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
	Mode      string `yaml:"mode,omitempty"`
}

// Step is one entry of a script. Which fields matter depends on Action.
type Step struct {
	Action Action `yaml:"action"`
	Note   string `yaml:"note,omitempty"`

	Element string  `yaml:"element,omitempty"` // visibility
	Name    string  `yaml:"name,omitempty"`    // focus
	On      *bool   `yaml:"on,omitempty"`      // toggles
	Value   float64 `yaml:"value,omitempty"`   // speeds, fov, line width, warp, sleep seconds

	View     *camera.Spec `yaml:"view,omitempty"`     // pose, transition
	Duration float64      `yaml:"duration,omitempty"` // transition seconds

	Time   *time.Time `yaml:"time,omitempty"`   // simulation_time, target_time
	Frames *FrameSpec `yaml:"frames,omitempty"` // frame_config

	// A sleep may instead cover a span of simulated time at the current warp.
	SimDays     float64 `yaml:"sim_days,omitempty"`
	UntilTarget bool    `yaml:"until_target,omitempty"`
}

// advancesTime reports whether the sleep duration derives from simulated time.
func (s Step) advancesTime() bool {
	return s.Action == ActionSleep && (s.SimDays > 0 || s.UntilTarget)
}

// Validate checks that the step carries what its action needs.
func (s Step) Validate() error {
	switch s.Action {
	case ActionDisableInput, ActionEnableInput, ActionDisableGui, ActionEnableGui,
		ActionCameraStop, ActionResetSequence, ActionStopTime, ActionStartTime:
		return nil

	case ActionCameraSpeed, ActionRotationSpeed, ActionTurningSpeed, ActionLineWidth, ActionTimeWarp:
		if !positive(s.Value) {
			return fmt.Errorf("value must be positive, got %g", s.Value)
		}
		return nil

	case ActionFov:
		if !(s.Value > 0 && s.Value < 180) {
			return fmt.Errorf("field of view must be within (0, 180) degrees, got %g", s.Value)
		}
		return nil

	case ActionCinematic, ActionCrosshair, ActionClosestCrosshair, ActionLensFlare, ActionFrameOutput:
		if s.On == nil {
			return errors.New("missing on")
		}
		return nil

	case ActionVisibility:
		if s.Element == "" {
			return errors.New("missing element")
		}
		if s.On == nil {
			return errors.New("missing on")
		}
		return nil

	case ActionFocus:
		if s.Name == "" {
			return errors.New("missing name")
		}
		return nil

	case ActionFrameConfig:
		f := s.Frames
		if f == nil {
			return errors.New("missing frames")
		}
		if f.Width <= 0 || f.Height <= 0 || f.FPS <= 0 {
			return fmt.Errorf("invalid frame output %dx%d@%d", f.Width, f.Height, f.FPS)
		}
		if f.Directory == "" || f.Prefix == "" {
			return errors.New("frame output needs a directory and a prefix")
		}
		return nil

	case ActionSimulationTime, ActionTargetTime:
		if s.Time == nil {
			return errors.New("missing time")
		}
		return nil

	case ActionPose:
		if s.View == nil {
			return errors.New("missing view")
		}
		return s.View.Validate()

	case ActionTransition:
		if s.View == nil {
			return errors.New("missing view")
		}
		if !positive(s.Duration) {
			return fmt.Errorf("transition duration must be positive, got %g", s.Duration)
		}
		return s.View.Validate()

	case ActionSleep:
		if !positive(s.Value) {
			if s.advancesTime() {
				return errors.New("simulated-time sleep is unresolved")
			}
			return fmt.Errorf("sleep must be positive, got %g", s.Value)
		}
		return nil

	case "":
		return errors.New("missing action")
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
}

// positive reports whether f is a positive finite number.
func positive(f float64) bool {
	return f > 0 && !gomath.IsInf(f, 1)
}

func (s Step) String() string {
	switch {
	case s.View != nil:
		return fmt.Sprintf("%s %s", s.Action, s.View)
	case s.Element != "" && s.On != nil:
		return fmt.Sprintf("%s %s=%t", s.Action, s.Element, *s.On)
	case s.On != nil:
		return fmt.Sprintf("%s %t", s.Action, *s.On)
	case s.Value != 0:
		return fmt.Sprintf("%s %g", s.Action, s.Value)
	}
	return string(s.Action)
}
