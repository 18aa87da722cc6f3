package script

import (
	"time"

	"github.com/Faultbox/orbitcam/internal/camera"
	"github.com/Faultbox/orbitcam/internal/gaiasky"
	"github.com/Faultbox/orbitcam/pkg/astro"
	"github.com/Faultbox/orbitcam/pkg/math"
)

// LugdunaName names the built-in choreography.
const LugdunaName = "lugduna"

// Lugduna choreography constants.
const (
	lugdunaFov       = 65.0
	lugdunaLineWidth = 2.0
	lugdunaMoveSecs  = 5.0
	lugdunaTimeWarp  = 2000000.0
	lugdunaSimDays   = astro.JulianYearDays
)

var (
	lugdunaStart  = time.Date(2022, time.January, 1, 12, 0, 0, 0, time.UTC)
	lugdunaTarget = time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)
)

// Options tune the built-in choreography.
type Options struct {
	// SaveFrames turns on image-sequence output for the recorded part.
	SaveFrames bool
	// Frames configures image-sequence output. Nil leaves the host settings alone.
	Frames *FrameSpec
}

// Lugduna builds the solar-system fly-around: a view from above the ecliptic
// pole, planets and orbits fading in, the asteroid belt, three camera moves
// and one simulated year at high time warp. The returned script is resolved.
func Lugduna(opts Options) *Script {
	s := New(LugdunaName)

	// Lock the host and set a cinematic camera.
	s.Do(ActionDisableInput).Do(ActionDisableGui).Do(ActionCameraStop).
		Set(ActionCameraSpeed, 1).
		Set(ActionRotationSpeed, 1).
		Set(ActionTurningSpeed, 1).
		Toggle(ActionCinematic, true).
		Set(ActionFov, lugdunaFov)

	// Only stars, galaxies and the Milky Way at first.
	s.Hide(gaiasky.ElementPlanets, gaiasky.ElementAtmospheres).
		Show(gaiasky.ElementStars).
		Hide(gaiasky.ElementMoons, gaiasky.ElementSatellites).
		Show(gaiasky.ElementGalaxies, gaiasky.ElementMilkyWay).
		Hide(gaiasky.ElementAsteroids, gaiasky.ElementOrbits, gaiasky.ElementLabels,
			gaiasky.ElementConstellation, gaiasky.ElementBoundaries, gaiasky.ElementEquatorial,
			gaiasky.ElementEcliptic, gaiasky.ElementGalactic, gaiasky.ElementClusters,
			gaiasky.ElementMeshes, gaiasky.ElementTitles).
		Toggle(ActionCrosshair, false).
		Set(ActionLineWidth, lugdunaLineWidth).
		Toggle(ActionLensFlare, false).
		Toggle(ActionClosestCrosshair, false)

	if opts.Frames != nil {
		f := *opts.Frames
		s.Add(Step{Action: ActionFrameConfig, Frames: &f}).Do(ActionResetSequence)
	}

	// Freeze the clock at the start epoch.
	s.Do(ActionStopTime).At(ActionSimulationTime, lugdunaStart).At(ActionTargetTime, lugdunaTarget)

	// Above the ecliptic north pole, ecliptic y up.
	s.Pose(camera.Spec{Lon: 270, Lat: 90, Dist: 15, Up: math.UnitY}).
		Sleep(2).
		Toggle(ActionFrameOutput, opts.SaveFrames)

	s.Show(gaiasky.ElementPlanets, gaiasky.ElementOrbits, gaiasky.ElementLabels).Sleep(5)
	s.Sleep(2).Show(gaiasky.ElementAsteroids).Sleep(5)

	// Tilt down to 30 degrees, swing round, then close in.
	s.Move(camera.Spec{Lon: 270, Lat: 30, Dist: 15, Up: math.UnitZ}, lugdunaMoveSecs).Sleep(0.5)
	s.Move(camera.Spec{Lon: 225, Lat: 30, Dist: 15, Up: math.UnitZ}, lugdunaMoveSecs).Sleep(0.5)
	s.Move(camera.Spec{Lon: 225, Lat: 30, Dist: 5, Up: math.UnitZ}, lugdunaMoveSecs).Sleep(2)

	s.Hide(gaiasky.ElementLabels).Do(ActionCameraStop)

	// One year of orbital motion.
	s.Set(ActionTimeWarp, lugdunaTimeWarp).Do(ActionStartTime).
		Add(Step{Action: ActionSleep, SimDays: lugdunaSimDays, Note: "one Julian year"})

	s.Toggle(ActionFrameOutput, false).Do(ActionEnableGui).Do(ActionEnableInput)

	// Constants above always resolve.
	if err := s.Resolve(); err != nil {
		panic(err)
	}
	return s
}

// New creates an empty script.
func New(name string) *Script {
	return &Script{Name: name}
}

// Add appends a step.
func (s *Script) Add(st Step) *Script {
	s.Steps = append(s.Steps, st)
	return s
}

// Do appends a step that takes no argument.
func (s *Script) Do(a Action) *Script {
	return s.Add(Step{Action: a})
}

// Set appends a step taking a numeric value.
func (s *Script) Set(a Action, v float64) *Script {
	return s.Add(Step{Action: a, Value: v})
}

// Toggle appends a step taking an on/off flag.
func (s *Script) Toggle(a Action, on bool) *Script {
	return s.Add(Step{Action: a, On: &on})
}

// At appends a step taking a time.
func (s *Script) At(a Action, t time.Time) *Script {
	return s.Add(Step{Action: a, Time: &t})
}

// Show makes each element visible.
func (s *Script) Show(elements ...string) *Script {
	return s.visibility(true, elements)
}

// Hide hides each element.
func (s *Script) Hide(elements ...string) *Script {
	return s.visibility(false, elements)
}

func (s *Script) visibility(on bool, elements []string) *Script {
	for _, e := range elements {
		v := on
		s.Add(Step{Action: ActionVisibility, Element: e, On: &v})
	}
	return s
}

// Pose places the camera instantly.
func (s *Script) Pose(spec camera.Spec) *Script {
	return s.Add(Step{Action: ActionPose, View: &spec})
}

// Move flies the camera to spec over the given seconds.
func (s *Script) Move(spec camera.Spec, seconds float64) *Script {
	return s.Add(Step{Action: ActionTransition, View: &spec, Duration: seconds})
}

// Sleep pauses the host for the given seconds.
func (s *Script) Sleep(seconds float64) *Script {
	return s.Set(ActionSleep, seconds)
}
