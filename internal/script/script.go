package script

import (
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orbitcam/pkg/astro"
)

// Script is an ordered list of steps played top to bottom.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// StepError reports which step of a script failed.
type StepError struct {
	Index  int
	Action Action
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Action, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Validate checks every step.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	var errs []error
	for i, st := range s.Steps {
		if err := st.Validate(); err != nil {
			errs = append(errs, &StepError{Index: i, Action: st.Action, Err: err})
		}
	}
	return errors.Join(errs...)
}

// AdvanceSeconds returns the wall-clock seconds needed for the host to
// cover days of simulated time at the given time warp, rounded up.
func AdvanceSeconds(days, warp float64) (float64, error) {
	if warp <= 0 {
		return 0, fmt.Errorf("time warp must be positive, got %g", warp)
	}
	if days <= 0 {
		return 0, fmt.Errorf("simulated span must be positive, got %g days", days)
	}
	return gomath.Ceil(days * astro.SecondsPerDay / warp), nil
}

// SimulatedDays returns the length of [from, to] in days, from their Julian dates.
func SimulatedDays(from, to time.Time) (float64, error) {
	days := julian.TimeToJD(to) - julian.TimeToJD(from)
	if days <= 0 {
		return 0, fmt.Errorf("target time %s is not after simulation time %s",
			to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return days, nil
}

// Resolve fills in the duration of every sleep that covers simulated time,
// using the most recent time warp and simulation/target times before it.
func (s *Script) Resolve() error {
	var (
		warp          float64
		start, target *time.Time
	)

	for i := range s.Steps {
		st := &s.Steps[i]
		switch st.Action {
		case ActionTimeWarp:
			warp = st.Value
		case ActionSimulationTime:
			start = st.Time
		case ActionTargetTime:
			target = st.Time
		}
		if !st.advancesTime() {
			continue
		}

		days := st.SimDays
		if st.UntilTarget {
			if start == nil || target == nil {
				return &StepError{Index: i, Action: st.Action, Err: errors.New("until_target needs simulation_time and target_time before it")}
			}
			d, err := SimulatedDays(*start, *target)
			if err != nil {
				return &StepError{Index: i, Action: st.Action, Err: err}
			}
			days = d
		}

		secs, err := AdvanceSeconds(days, warp)
		if err != nil {
			return &StepError{Index: i, Action: st.Action, Err: err}
		}
		st.Value = secs
	}
	return nil
}

// SaveFrames gates every step that turns frame output on: with save false
// they turn it off instead.
func (s *Script) SaveFrames(save bool) {
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Action == ActionFrameOutput && st.On != nil && *st.On {
			on := save
			st.On = &on
		}
	}
}

// FrameDirectory returns the directory of the last frame_config step, or ""
// when the script leaves the host's frame output settings alone.
func (s *Script) FrameDirectory() string {
	var dir string
	for _, st := range s.Steps {
		if st.Action == ActionFrameConfig && st.Frames != nil {
			dir = st.Frames.Directory
		}
	}
	return dir
}

// Duration estimates the wall-clock length of the script from its sleeps
// and transitions. The host may take longer when writing frames.
func (s *Script) Duration() time.Duration {
	var secs float64
	for _, st := range s.Steps {
		switch st.Action {
		case ActionSleep:
			secs += st.Value
		case ActionTransition:
			secs += st.Duration
		}
	}
	return time.Duration(secs * float64(time.Second))
}

// Load reads a script from a YAML file and resolves it.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	if err := s.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving script %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the script as YAML.
func (s *Script) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
