// Package gaiasky describes the subset of the Gaia Sky scripting interface
// used to record an animation, and the ways to deliver it.
package gaiasky

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/orbitcam/pkg/math"
)

// Scripting interface method names.
const (
	MethodDisableInput                  = "disableInput"
	MethodEnableInput                   = "enableInput"
	MethodDisableGui                    = "disableGui"
	MethodEnableGui                     = "enableGui"
	MethodCameraStop                    = "cameraStop"
	MethodSetCameraSpeed                = "setCameraSpeed"
	MethodSetRotationCameraSpeed        = "setRotationCameraSpeed"
	MethodSetTurningCameraSpeed         = "setTurningCameraSpeed"
	MethodSetCinematicCamera            = "setCinematicCamera"
	MethodSetCameraFocus                = "setCameraFocus"
	MethodSetFov                        = "setFov"
	MethodSetComponentTypeVisibility    = "setComponentTypeVisibility"
	MethodSetCrosshairVisibility        = "setCrosshairVisibility"
	MethodSetClosestCrosshairVisibility = "setClosestCrosshairVisibility"
	MethodSetLineWidthFactor            = "setLineWidthFactor"
	MethodSetLensFlare                  = "setLensFlare"
	MethodConfigureFrameOutput          = "configureFrameOutput"
	MethodSetFrameOutputMode            = "setFrameOutputMode"
	MethodResetImageSequenceNumber      = "resetImageSequenceNumber"
	MethodSetFrameOutput                = "setFrameOutput"
	MethodStopSimulationTime            = "stopSimulationTime"
	MethodStartSimulationTime           = "startSimulationTime"
	MethodSetSimulationTime             = "setSimulationTime"
	MethodSetTargetTime                 = "setTargetTime"
	MethodSetTimeWarp                   = "setTimeWarp"
	MethodSetCameraPosition             = "setCameraPosition"
	MethodSetCameraDirection            = "setCameraDirection"
	MethodSetCameraUp                   = "setCameraUp"
	MethodCameraTransition              = "cameraTransition"
	MethodGetUnitToMeter                = "getInternalUnitToMeterConversion"
	MethodSleep                         = "sleep"
)

// Component types toggled with SetVisibility.
const (
	ElementPlanets       = "element.planets"
	ElementAtmospheres   = "element.atmospheres"
	ElementStars         = "element.stars"
	ElementMoons         = "element.moons"
	ElementSatellites    = "element.satellites"
	ElementGalaxies      = "element.galaxies"
	ElementMilkyWay      = "element.milkyway"
	ElementAsteroids     = "element.asteroids"
	ElementOrbits        = "element.orbits"
	ElementLabels        = "element.labels"
	ElementConstellation = "element.constellations"
	ElementBoundaries    = "element.boundaries"
	ElementEquatorial    = "element.equatorial"
	ElementEcliptic      = "element.ecliptic"
	ElementGalactic      = "element.galactic"
	ElementClusters      = "element.clusters"
	ElementMeshes        = "element.meshes"
	ElementTitles        = "element.titles"
)

// Command is one call on the scripting interface. Vector arguments are
// math.Vec3 values; delivery decides how to marshal them.
type Command struct {
	Method string
	Args   []any
}

// String renders the command as a call, e.g. setFov(65).
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		switch v := a.(type) {
		case string:
			parts[i] = strconv.Quote(v)
		case float64:
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		case math.Vec3:
			parts[i] = fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return c.Method + "(" + strings.Join(parts, ", ") + ")"
}

func call(method string, args ...any) Command {
	return Command{Method: method, Args: args}
}

// DisableInput ignores keyboard and mouse on the host.
func DisableInput() Command { return call(MethodDisableInput) }

// EnableInput restores keyboard and mouse on the host.
func EnableInput() Command { return call(MethodEnableInput) }

// DisableGui hides the host's user interface.
func DisableGui() Command { return call(MethodDisableGui) }

// EnableGui shows the host's user interface again.
func EnableGui() Command { return call(MethodEnableGui) }

// CameraStop halts any camera motion.
func CameraStop() Command { return call(MethodCameraStop) }

// SetCameraSpeed sets the camera translation speed factor.
func SetCameraSpeed(speed float64) Command {
	return call(MethodSetCameraSpeed, speed)
}

// SetRotationCameraSpeed sets the camera rotation speed factor.
func SetRotationCameraSpeed(speed float64) Command {
	return call(MethodSetRotationCameraSpeed, speed)
}

// SetTurningCameraSpeed sets the camera turning speed factor.
func SetTurningCameraSpeed(speed float64) Command {
	return call(MethodSetTurningCameraSpeed, speed)
}

// SetCinematicCamera toggles smoothed camera motion.
func SetCinematicCamera(on bool) Command {
	return call(MethodSetCinematicCamera, on)
}

// SetCameraFocus points the camera at a named object.
func SetCameraFocus(name string) Command {
	return call(MethodSetCameraFocus, name)
}

// SetFov sets the field of view in degrees.
func SetFov(degrees float64) Command {
	return call(MethodSetFov, degrees)
}

// SetVisibility shows or hides a component type such as ElementOrbits.
func SetVisibility(element string, visible bool) Command {
	return call(MethodSetComponentTypeVisibility, element, visible)
}

// SetCrosshairVisibility shows or hides the focus crosshair.
func SetCrosshairVisibility(on bool) Command {
	return call(MethodSetCrosshairVisibility, on)
}

// SetClosestCrosshairVisibility shows or hides the closest-object crosshair.
func SetClosestCrosshairVisibility(on bool) Command {
	return call(MethodSetClosestCrosshairVisibility, on)
}

// SetLineWidthFactor scales the width of orbit and grid lines.
func SetLineWidthFactor(factor float64) Command {
	return call(MethodSetLineWidthFactor, factor)
}

// SetLensFlare toggles the lens flare effect.
func SetLensFlare(on bool) Command {
	return call(MethodSetLensFlare, on)
}

// ConfigureFrameOutput sets resolution, frame rate, folder and file prefix
// of the image sequence.
func ConfigureFrameOutput(width, height, fps int, dir, prefix string) Command {
	return call(MethodConfigureFrameOutput, width, height, fps, dir, prefix)
}

// SetFrameOutputMode selects "simple" or "advanced" frame output.
func SetFrameOutputMode(mode string) Command {
	return call(MethodSetFrameOutputMode, mode)
}

// ResetImageSequenceNumber restarts frame file numbering at zero.
func ResetImageSequenceNumber() Command { return call(MethodResetImageSequenceNumber) }

// SetFrameOutput starts or stops writing frames.
func SetFrameOutput(on bool) Command {
	return call(MethodSetFrameOutput, on)
}

// StopSimulationTime pauses the simulation clock.
func StopSimulationTime() Command { return call(MethodStopSimulationTime) }

// StartSimulationTime resumes the simulation clock at the current time warp.
func StartSimulationTime() Command { return call(MethodStartSimulationTime) }

func dateArgs(t time.Time) []any {
	t = t.UTC()
	return []any{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond() / int(time.Millisecond)}
}

// SetSimulationTime sets the simulation clock (UTC).
func SetSimulationTime(t time.Time) Command {
	return call(MethodSetSimulationTime, dateArgs(t)...)
}

// SetTargetTime sets the time at which the host stops the simulation clock.
func SetTargetTime(t time.Time) Command {
	return call(MethodSetTargetTime, dateArgs(t)...)
}

// SetTimeWarp sets the simulation speed multiplier.
func SetTimeWarp(warp float64) Command {
	return call(MethodSetTimeWarp, warp)
}

// SetCameraPosition places the camera; pos is in the host frame, in km.
func SetCameraPosition(pos math.Vec3) Command {
	return call(MethodSetCameraPosition, pos)
}

// SetCameraDirection points the camera; dir is a unit vector in the host frame.
func SetCameraDirection(dir math.Vec3) Command {
	return call(MethodSetCameraDirection, dir)
}

// SetCameraUp sets the camera up vector in the host frame.
func SetCameraUp(up math.Vec3) Command {
	return call(MethodSetCameraUp, up)
}

// CameraTransition moves the camera smoothly; pos is in internal units.
// The host call blocks until the move completes.
func CameraTransition(pos, dir, up math.Vec3, seconds float64) Command {
	return call(MethodCameraTransition, pos, dir, up, seconds, true)
}

// GetInternalUnitToMeterConversion asks for the metres in one host internal unit.
func GetInternalUnitToMeterConversion() Command { return call(MethodGetUnitToMeter) }

// Sleep blocks the script on the host side. The host counts frames while
// frame output is active, so recorded pauses keep their length.
func Sleep(seconds float64) Command {
	return call(MethodSleep, seconds)
}
