// Package camera computes camera poses around the Sun and converts them into
// the frame and units the Gaia Sky host expects.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/orbitcam/pkg/astro"
	"github.com/Faultbox/orbitcam/pkg/math"
)

// Spec places the camera on a sphere centred on the Sun, in ecliptic coordinates.
type Spec struct {
	Lon  float64   `yaml:"lon"`  // Ecliptic longitude (degrees)
	Lat  float64   `yaml:"lat"`  // Ecliptic latitude (degrees)
	Dist float64   `yaml:"dist"` // Distance from the Sun (au)
	Up   math.Vec3 `yaml:"up"`   // Up direction in ecliptic Cartesian coordinates
}

// Validate checks that the spec describes a usable camera pose.
func (s Spec) Validate() error {
	if !finite(s.Lon) || !finite(s.Lat) {
		return fmt.Errorf("camera angles must be finite, got lon=%g lat=%g", s.Lon, s.Lat)
	}
	if !finite(s.Dist) || s.Dist <= 0 {
		return fmt.Errorf("camera distance must be positive and finite, got %g au", s.Dist)
	}
	if !finite(s.Up.X) || !finite(s.Up.Y) || !finite(s.Up.Z) {
		return fmt.Errorf("camera up vector must be finite, got %v", s.Up)
	}
	if s.Up.IsZero() {
		return errors.New("camera up vector must be non-zero")
	}
	return nil
}

func finite(f float64) bool {
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}

func (s Spec) String() string {
	return fmt.Sprintf("(lon=%g, lat=%g, d=%g au)", s.Lon, s.Lat, s.Dist)
}

// Viewpoint is a fully resolved camera pose in ICRS. The camera always looks
// back toward the Sun.
type Viewpoint struct {
	Spec      Spec
	Ecliptic  math.Vec3 // Position, ecliptic Cartesian (au)
	Position  math.Vec3 // Position, ICRS Cartesian (au)
	Direction math.Vec3 // Unit view direction, ICRS
	Up        math.Vec3 // Unit up direction, ICRS
}

// Transition is a smoothed camera move to a new pose, already expressed in
// the host frame and the host's internal length unit.
type Transition struct {
	Position  math.Vec3
	Direction math.Vec3
	Up        math.Vec3
	Duration  float64 // seconds
}

// Calculator turns ecliptic specs into ICRS viewpoints.
type Calculator struct {
	toICRS *astro.CoordinateTransformation
}

// NewCalculator creates a calculator using the ecliptic to ICRS rotation.
func NewCalculator() *Calculator {
	return &Calculator{toICRS: astro.MustCoordinateTransformation(astro.ECL2ICRS)}
}

// Viewpoint resolves a spec. Callers are expected to have validated it.
func (c *Calculator) Viewpoint(s Spec) Viewpoint {
	ecl := astro.SphericalToCartesian(s.Dist, astro.Deg2Rad(s.Lon), astro.Deg2Rad(s.Lat))
	return Viewpoint{
		Spec:      s,
		Ecliptic:  ecl,
		Position:  c.toICRS.Transform(ecl),
		Direction: c.toICRS.Transform(ecl.Neg()).Normalize(),
		Up:        c.toICRS.Transform(s.Up).Normalize(),
	}
}

// HostPosition returns the camera position in the host frame, in kilometres.
func (v Viewpoint) HostPosition() math.Vec3 {
	return v.Position.Scale(astro.AUInKm).Roll()
}

// HostDirection returns the view direction in the host frame.
func (v Viewpoint) HostDirection() math.Vec3 {
	return v.Direction.Roll()
}

// HostUp returns the up direction in the host frame.
func (v Viewpoint) HostUp() math.Vec3 {
	return v.Up.Roll()
}

// Transition builds a host-frame transition to this viewpoint. unitToMeter is
// the host's internal-unit-to-metre factor.
func (v Viewpoint) Transition(unitToMeter, duration float64) (Transition, error) {
	if unitToMeter <= 0 {
		return Transition{}, fmt.Errorf("invalid host unit conversion factor %g", unitToMeter)
	}
	return Transition{
		Position:  v.Position.Roll().Scale(astro.AUInMeter / unitToMeter),
		Direction: v.HostDirection(),
		Up:        v.HostUp(),
		Duration:  duration,
	}, nil
}
