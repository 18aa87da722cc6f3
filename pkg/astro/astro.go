// Package astro provides the astrometric constants and coordinate frame
// rotations used to place the camera.
package astro

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/orbitcam/pkg/math"
)

// Astronomical constants.
const (
	AUInMeter      = 149597870700.0
	AUInKm         = AUInMeter / 1.0e3
	JulianYearDays = 365.25
	SecondsPerDay  = 86400.0
)

// ErrZeroVector is returned when spherical coordinates are requested for the origin.
var ErrZeroVector = errors.New("astro: spherical coordinates undefined for zero vector")

// SphericalToCartesian converts (r, phi, theta) to Cartesian coordinates.
// phi is the longitude-like angle and theta the latitude-like angle, both in radians.
func SphericalToCartesian(r, phi, theta float64) math.Vec3 {
	sinPhi, cosPhi := gomath.Sincos(phi)
	sinTheta, cosTheta := gomath.Sincos(theta)
	return math.Vec3{
		X: r * cosPhi * cosTheta,
		Y: r * sinPhi * cosTheta,
		Z: r * sinTheta,
	}
}

// CartesianToSpherical is the inverse of SphericalToCartesian.
// phi is returned in [0, 2pi), theta in [-pi/2, pi/2].
func CartesianToSpherical(v math.Vec3) (r, phi, theta float64, err error) {
	r = v.Length()
	if r == 0 {
		return 0, 0, 0, ErrZeroVector
	}
	phi = gomath.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * gomath.Pi
	}
	theta = gomath.Atan2(v.Z, gomath.Hypot(v.X, v.Y))
	return r, phi, theta, nil
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * gomath.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / gomath.Pi
}
