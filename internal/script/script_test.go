package script

import (
	"context"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/orbitcam/internal/camera"
	"github.com/Faultbox/orbitcam/internal/gaiasky"
	"github.com/Faultbox/orbitcam/internal/gateway"
	"github.com/Faultbox/orbitcam/internal/metrics"
	"github.com/Faultbox/orbitcam/pkg/astro"
	"github.com/Faultbox/orbitcam/pkg/math"
)

func TestAdvanceSeconds(t *testing.T) {
	secs, err := AdvanceSeconds(365.25, 2e6)
	require.NoError(t, err)
	assert.Equal(t, 16.0, secs)

	secs, err = AdvanceSeconds(1, 86400)
	require.NoError(t, err)
	assert.Equal(t, 1.0, secs)

	_, err = AdvanceSeconds(365.25, 0)
	assert.Error(t, err)
	_, err = AdvanceSeconds(0, 2e6)
	assert.Error(t, err)
}

func TestSimulatedDays(t *testing.T) {
	from := time.Date(2022, time.January, 1, 12, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)

	days, err := SimulatedDays(from, to)
	require.NoError(t, err)
	assert.InDelta(t, 365.0, days, 1e-6)

	_, err = SimulatedDays(to, from)
	assert.Error(t, err)
}

func TestResolveUntilTarget(t *testing.T) {
	s := New("year").
		At(ActionSimulationTime, time.Date(2022, time.January, 1, 12, 0, 0, 0, time.UTC)).
		At(ActionTargetTime, time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)).
		Set(ActionTimeWarp, 2e6).
		Add(Step{Action: ActionSleep, UntilTarget: true})

	require.NoError(t, s.Resolve())
	// 365 days at 2e6 is 15.768 s.
	assert.Equal(t, 16.0, s.Steps[3].Value)
	assert.NoError(t, s.Validate())
}

func TestResolveErrors(t *testing.T) {
	s := New("no warp").Add(Step{Action: ActionSleep, SimDays: 1})
	err := s.Resolve()
	var serr *StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.Index)
	assert.Equal(t, ActionSleep, serr.Action)

	s = New("no times").Set(ActionTimeWarp, 10).Add(Step{Action: ActionSleep, UntilTarget: true})
	err = s.Resolve()
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.Contains(t, err.Error(), "until_target")
}

func TestStepValidate(t *testing.T) {
	on := true
	now := time.Now()
	view := &camera.Spec{Lon: 10, Lat: 20, Dist: 3, Up: math.UnitZ}

	tests := []struct {
		name    string
		step    Step
		wantErr bool
	}{
		{"no argument", Step{Action: ActionCameraStop}, false},
		{"missing action", Step{}, true},
		{"unknown action", Step{Action: "explode"}, true},
		{"speed", Step{Action: ActionCameraSpeed, Value: 1}, false},
		{"zero speed", Step{Action: ActionCameraSpeed}, true},
		{"fov", Step{Action: ActionFov, Value: 65}, false},
		{"fov too wide", Step{Action: ActionFov, Value: 200}, true},
		{"toggle", Step{Action: ActionLensFlare, On: &on}, false},
		{"toggle without flag", Step{Action: ActionLensFlare}, true},
		{"visibility", Step{Action: ActionVisibility, Element: gaiasky.ElementOrbits, On: &on}, false},
		{"visibility without element", Step{Action: ActionVisibility, On: &on}, true},
		{"focus", Step{Action: ActionFocus, Name: "Earth"}, false},
		{"focus without name", Step{Action: ActionFocus}, true},
		{"frame config", Step{Action: ActionFrameConfig, Frames: &FrameSpec{Width: 1, Height: 1, FPS: 1, Directory: "d", Prefix: "p"}}, false},
		{"frame config zero size", Step{Action: ActionFrameConfig, Frames: &FrameSpec{Directory: "d", Prefix: "p"}}, true},
		{"frame config missing", Step{Action: ActionFrameConfig}, true},
		{"time", Step{Action: ActionTargetTime, Time: &now}, false},
		{"time missing", Step{Action: ActionTargetTime}, true},
		{"pose", Step{Action: ActionPose, View: view}, false},
		{"pose at the sun", Step{Action: ActionPose, View: &camera.Spec{Up: math.UnitZ}}, true},
		{"transition", Step{Action: ActionTransition, View: view, Duration: 5}, false},
		{"transition without duration", Step{Action: ActionTransition, View: view}, true},
		{"sleep", Step{Action: ActionSleep, Value: 0.5}, false},
		{"sleep zero", Step{Action: ActionSleep}, true},
		{"sleep unresolved", Step{Action: ActionSleep, SimDays: 1}, true},
		{"sleep NaN", Step{Action: ActionSleep, Value: gomath.NaN()}, true},
		{"warp infinite", Step{Action: ActionTimeWarp, Value: gomath.Inf(1)}, true},
		{"fov NaN", Step{Action: ActionFov, Value: gomath.NaN()}, true},
		{"transition NaN duration", Step{Action: ActionTransition, View: view, Duration: gomath.NaN()}, true},
		{"pose NaN distance", Step{Action: ActionPose, View: &camera.Spec{Dist: gomath.NaN(), Up: math.UnitZ}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScriptValidateEmpty(t *testing.T) {
	assert.Error(t, New("empty").Validate())
}

func TestDuration(t *testing.T) {
	s := Lugduna(Options{})
	// Sleeps 2+5+2+5+0.5+0.5+2+16 and three 5 s moves.
	assert.Equal(t, 48*time.Second, s.Duration())
}

func TestLugdunaSequence(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	m := metrics.New()
	frames := &FrameSpec{Width: 1280, Height: 720, FPS: 60, Directory: "/tmp/frames", Prefix: "gs", Mode: "simple"}
	s := Lugduna(Options{SaveFrames: true, Frames: frames})
	require.Len(t, s.Steps, 59)

	require.NoError(t, NewPlayer(rec, m, nil).Play(context.Background(), s))

	cmds := rec.Commands()
	methods := rec.Methods()
	require.Len(t, cmds, 65)

	assert.Equal(t, []string{
		gaiasky.MethodDisableInput,
		gaiasky.MethodDisableGui,
		gaiasky.MethodCameraStop,
		gaiasky.MethodSetCameraSpeed,
		gaiasky.MethodSetRotationCameraSpeed,
		gaiasky.MethodSetTurningCameraSpeed,
		gaiasky.MethodSetCinematicCamera,
		gaiasky.MethodSetFov,
	}, methods[:8])

	assert.Equal(t, []string{
		gaiasky.MethodSetFrameOutput,
		gaiasky.MethodEnableGui,
		gaiasky.MethodEnableInput,
	}, methods[len(methods)-3:])

	// Initial pose right after the clock setup.
	i := indexOf(methods, gaiasky.MethodSetCameraPosition)
	require.Positive(t, i)
	assert.Equal(t, []string{
		gaiasky.MethodSetTargetTime,
		gaiasky.MethodSetCameraPosition,
		gaiasky.MethodSetCameraDirection,
		gaiasky.MethodSetCameraUp,
		gaiasky.MethodSleep,
		gaiasky.MethodSetFrameOutput,
	}, methods[i-1:i+5])
	assert.Equal(t, []any{true}, cmds[i+4].Args)

	// Above the pole: position along the host y axis (ICRS z), 15 au.
	pos := cmds[i].Args[0].(math.Vec3)
	assert.InDelta(t, 15*astro.AUInKm, pos.Length(), 1)

	assert.Equal(t, []any{2022, 1, 1, 12, 0, 0, 0}, cmds[indexOf(methods, gaiasky.MethodSetSimulationTime)].Args)
	assert.Equal(t, []any{1280, 720, 60, "/tmp/frames", "gs"}, cmds[indexOf(methods, gaiasky.MethodConfigureFrameOutput)].Args)

	// Every transition is preceded by a unit query.
	var transitions []gaiasky.Command
	for j, name := range methods {
		if name == gaiasky.MethodCameraTransition {
			assert.Equal(t, gaiasky.MethodGetUnitToMeter, methods[j-1])
			transitions = append(transitions, cmds[j])
		}
	}
	require.Len(t, transitions, 3)

	units := astro.AUInMeter / gaiasky.DefaultUnitToMeter
	last := transitions[2].Args
	assert.InDelta(t, 5*units, last[0].(math.Vec3).Length(), 1e-6)
	assert.Equal(t, 5.0, last[3])
	assert.Equal(t, true, last[4])

	// The year of orbital motion.
	warp := indexOf(methods, gaiasky.MethodSetTimeWarp)
	assert.Equal(t, []any{2e6}, cmds[warp].Args)
	assert.Equal(t, gaiasky.MethodStartSimulationTime, methods[warp+1])
	assert.Equal(t, []any{16.0}, cmds[warp+2].Args)

	expected := `
# HELP orbitcam_script_steps_played Number of script steps completed in this run.
# TYPE orbitcam_script_steps_played gauge
orbitcam_script_steps_played 59
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "orbitcam_script_steps_played"))
}

func TestLugdunaWithoutFrames(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	s := Lugduna(Options{})
	require.Len(t, s.Steps, 57)

	require.NoError(t, NewPlayer(rec, nil, nil).Play(context.Background(), s))
	methods := rec.Methods()
	assert.Equal(t, -1, indexOf(methods, gaiasky.MethodConfigureFrameOutput))

	// Frame output is still switched, off both times.
	for j, name := range methods {
		if name == gaiasky.MethodSetFrameOutput {
			assert.Equal(t, []any{false}, rec.Commands()[j].Args)
		}
	}
}

func TestPlayStopsOnFailure(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	rec.FailOn = gaiasky.MethodCameraTransition
	s := Lugduna(Options{})

	err := NewPlayer(rec, nil, nil).Play(context.Background(), s)
	var serr *StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ActionTransition, serr.Action)
	assert.Equal(t, ActionTransition, s.Steps[serr.Index].Action)

	var jerr *gateway.JavaError
	assert.ErrorAs(t, err, &jerr)

	// Nothing after the failing step was sent.
	methods := rec.Methods()
	assert.Equal(t, gaiasky.MethodGetUnitToMeter, methods[len(methods)-1])
}

func TestPlayBadUnitFactor(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	rec.UnitToMeter = 0
	s := New("move").Move(camera.Spec{Lon: 0, Lat: 0, Dist: 1, Up: math.UnitZ}, 1)

	err := NewPlayer(rec, nil, nil).Play(context.Background(), s)
	assert.Error(t, err)
	assert.NotContains(t, rec.Methods(), gaiasky.MethodCameraTransition)
}

func TestPlayCancelled(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPlayer(rec, nil, nil).Play(ctx, Lugduna(Options{}))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, rec.Commands())
}

func TestPlayInvalidScript(t *testing.T) {
	rec := gaiasky.NewRecorder(nil)
	s := New("bad").Do(ActionCameraStop).Add(Step{Action: ActionSleep})

	err := NewPlayer(rec, nil, nil).Play(context.Background(), s)
	assert.Error(t, err)
	assert.Empty(t, rec.Commands())
}

func TestCommandsRejectsTransition(t *testing.T) {
	p := NewPlayer(gaiasky.NewRecorder(nil), nil, nil)
	_, err := p.Commands(Step{Action: ActionTransition})
	assert.Error(t, err)

	cmds, err := p.Commands(Step{Action: ActionFrameConfig, Frames: &FrameSpec{Width: 1, Height: 1, FPS: 1, Directory: "d", Prefix: "p"}})
	require.NoError(t, err)
	assert.Len(t, cmds, 1)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scripts", "lugduna.yaml")
	orig := Lugduna(Options{SaveFrames: true, Frames: &FrameSpec{Width: 640, Height: 480, FPS: 30, Directory: "out", Prefix: "x"}})
	require.NoError(t, orig.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Name, loaded.Name)
	require.Len(t, loaded.Steps, len(orig.Steps))

	// Both play to the same host commands.
	a, b := gaiasky.NewRecorder(nil), gaiasky.NewRecorder(nil)
	require.NoError(t, NewPlayer(a, nil, nil).Play(context.Background(), orig))
	require.NoError(t, NewPlayer(b, nil, nil).Play(context.Background(), loaded))
	assert.Equal(t, a.Commands(), b.Commands())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	nan := filepath.Join(dir, "nan.yaml")
	require.NoError(t, os.WriteFile(nan, []byte(`name: nan
steps:
  - action: pose
    view: {lon: 0, lat: 0, dist: .nan, up: {x: 0, y: 0, z: 1}}
`), 0644))
	_, err = Load(nan)
	assert.ErrorContains(t, err, "finite")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, New("bad").Add(Step{Action: "explode"}).Save(bad))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "explode")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestSaveFrames(t *testing.T) {
	s := Lugduna(Options{SaveFrames: true})
	s.SaveFrames(false)
	for _, st := range s.Steps {
		if st.Action == ActionFrameOutput {
			assert.False(t, *st.On)
		}
	}

	s = Lugduna(Options{SaveFrames: true})
	s.SaveFrames(true)
	var on int
	for _, st := range s.Steps {
		if st.Action == ActionFrameOutput && *st.On {
			on++
		}
	}
	assert.Equal(t, 1, on)
}

func TestLoadBundledScenario(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "scenarios", "inner-planets.yaml"))
	require.NoError(t, err)

	rec := gaiasky.NewRecorder(nil)
	require.NoError(t, NewPlayer(rec, nil, nil).Play(context.Background(), s))
	assert.Contains(t, rec.Methods(), gaiasky.MethodCameraTransition)
	assert.Greater(t, s.Duration(), 8*time.Second)
}

func TestFrameDirectory(t *testing.T) {
	s := Lugduna(Options{Frames: &FrameSpec{Width: 1, Height: 1, FPS: 1, Directory: "/data/frames", Prefix: "gs"}})
	assert.Equal(t, "/data/frames", s.FrameDirectory())

	assert.Empty(t, Lugduna(Options{SaveFrames: true}).FrameDirectory())

	scenario, err := Load(filepath.Join("..", "..", "scenarios", "inner-planets.yaml"))
	require.NoError(t, err)
	assert.Empty(t, scenario.FrameDirectory())
}
