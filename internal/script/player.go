package script

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orbitcam/internal/camera"
	"github.com/Faultbox/orbitcam/internal/gaiasky"
	"github.com/Faultbox/orbitcam/internal/metrics"
)

// Player plays scripts against a host, one step at a time and strictly in order.
type Player struct {
	invoker gaiasky.Invoker
	calc    *camera.Calculator
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewPlayer creates a player. m and log may be nil.
func NewPlayer(invoker gaiasky.Invoker, m *metrics.Metrics, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		invoker: invoker,
		calc:    camera.NewCalculator(),
		metrics: m,
		log:     log,
	}
}

// Play runs every step of s. It stops at the first failing step or when ctx
// is done, and returns a *StepError naming the step.
func (p *Player) Play(ctx context.Context, s *Script) error {
	if err := s.Validate(); err != nil {
		return err
	}

	p.metrics.ScriptStarted(len(s.Steps))
	p.log.Info("playing script",
		zap.String("name", s.Name),
		zap.Int("steps", len(s.Steps)),
		zap.Duration("estimated", s.Duration()))

	start := time.Now()
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Index: i, Action: st.Action, Err: err}
		}

		p.log.Debug("step", zap.Int("index", i+1), zap.Stringer("step", st), zap.String("note", st.Note))
		if err := p.play(ctx, st); err != nil {
			return &StepError{Index: i, Action: st.Action, Err: err}
		}
		p.metrics.StepDone()
	}

	p.log.Info("script finished", zap.String("name", s.Name), zap.Duration("took", time.Since(start)))
	return nil
}

func (p *Player) play(ctx context.Context, st Step) error {
	if st.Action == ActionTransition {
		return p.transition(ctx, st)
	}

	cmds, err := p.Commands(st)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if _, err := p.invoker.Invoke(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// transition asks the host for its unit factor before every move, since the
// factor is a host setting that may differ between installations.
func (p *Player) transition(ctx context.Context, st Step) error {
	v, err := p.invoker.Invoke(ctx, gaiasky.GetInternalUnitToMeterConversion())
	if err != nil {
		return err
	}
	unitToMeter, err := v.Float64()
	if err != nil {
		return fmt.Errorf("reading unit conversion factor: %w", err)
	}

	t, err := p.calc.Viewpoint(*st.View).Transition(unitToMeter, st.Duration)
	if err != nil {
		return err
	}

	_, err = p.invoker.Invoke(ctx, gaiasky.CameraTransition(t.Position, t.Direction, t.Up, t.Duration))
	return err
}

// Commands returns the host commands for a step that needs no reply from the
// host. Transitions depend on the host unit factor and are rejected.
func (p *Player) Commands(st Step) ([]gaiasky.Command, error) {
	switch st.Action {
	case ActionDisableInput:
		return one(gaiasky.DisableInput()), nil
	case ActionEnableInput:
		return one(gaiasky.EnableInput()), nil
	case ActionDisableGui:
		return one(gaiasky.DisableGui()), nil
	case ActionEnableGui:
		return one(gaiasky.EnableGui()), nil
	case ActionCameraStop:
		return one(gaiasky.CameraStop()), nil
	case ActionCameraSpeed:
		return one(gaiasky.SetCameraSpeed(st.Value)), nil
	case ActionRotationSpeed:
		return one(gaiasky.SetRotationCameraSpeed(st.Value)), nil
	case ActionTurningSpeed:
		return one(gaiasky.SetTurningCameraSpeed(st.Value)), nil
	case ActionCinematic:
		return one(gaiasky.SetCinematicCamera(*st.On)), nil
	case ActionFocus:
		return one(gaiasky.SetCameraFocus(st.Name)), nil
	case ActionFov:
		return one(gaiasky.SetFov(st.Value)), nil
	case ActionVisibility:
		return one(gaiasky.SetVisibility(st.Element, *st.On)), nil
	case ActionCrosshair:
		return one(gaiasky.SetCrosshairVisibility(*st.On)), nil
	case ActionClosestCrosshair:
		return one(gaiasky.SetClosestCrosshairVisibility(*st.On)), nil
	case ActionLineWidth:
		return one(gaiasky.SetLineWidthFactor(st.Value)), nil
	case ActionLensFlare:
		return one(gaiasky.SetLensFlare(*st.On)), nil
	case ActionFrameConfig:
		f := st.Frames
		cmds := []gaiasky.Command{gaiasky.ConfigureFrameOutput(f.Width, f.Height, f.FPS, f.Directory, f.Prefix)}
		if f.Mode != "" {
			cmds = append(cmds, gaiasky.SetFrameOutputMode(f.Mode))
		}
		return cmds, nil
	case ActionFrameOutput:
		return one(gaiasky.SetFrameOutput(*st.On)), nil
	case ActionResetSequence:
		return one(gaiasky.ResetImageSequenceNumber()), nil
	case ActionStopTime:
		return one(gaiasky.StopSimulationTime()), nil
	case ActionStartTime:
		return one(gaiasky.StartSimulationTime()), nil
	case ActionSimulationTime:
		return one(gaiasky.SetSimulationTime(*st.Time)), nil
	case ActionTargetTime:
		return one(gaiasky.SetTargetTime(*st.Time)), nil
	case ActionTimeWarp:
		return one(gaiasky.SetTimeWarp(st.Value)), nil
	case ActionPose:
		v := p.calc.Viewpoint(*st.View)
		return []gaiasky.Command{
			gaiasky.SetCameraPosition(v.HostPosition()),
			gaiasky.SetCameraDirection(v.HostDirection()),
			gaiasky.SetCameraUp(v.HostUp()),
		}, nil
	case ActionSleep:
		return one(gaiasky.Sleep(st.Value)), nil
	case ActionTransition:
		return nil, fmt.Errorf("%s needs the host unit factor", st.Action)
	}
	return nil, fmt.Errorf("unknown action %q", st.Action)
}

func one(cmd gaiasky.Command) []gaiasky.Command {
	return []gaiasky.Command{cmd}
}
