package astro

import (
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/orbitcam/pkg/math"
)

// Transformation names a rotation between two celestial reference frames.
type Transformation int

const (
	ICRS2ECL Transformation = iota // ICRS to ecliptic
	ECL2ICRS                       // Ecliptic to ICRS
	ICRS2GAL                       // ICRS to galactic
	GAL2ICRS                       // Galactic to ICRS
	ECL2GAL                        // Ecliptic to galactic
	GAL2ECL                        // Galactic to ecliptic
)

var transformationNames = map[Transformation]string{
	ICRS2ECL: "ICRS2ECL",
	ECL2ICRS: "ECL2ICRS",
	ICRS2GAL: "ICRS2GAL",
	GAL2ICRS: "GAL2ICRS",
	ECL2GAL:  "ECL2GAL",
	GAL2ECL:  "GAL2ECL",
}

// String returns the transformation name, e.g. "ECL2ICRS".
func (t Transformation) String() string {
	if name, ok := transformationNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Transformation(%d)", int(t))
}

var inverses = map[Transformation]Transformation{
	ICRS2ECL: ECL2ICRS,
	ECL2ICRS: ICRS2ECL,
	ICRS2GAL: GAL2ICRS,
	GAL2ICRS: ICRS2GAL,
	ECL2GAL:  GAL2ECL,
	GAL2ECL:  ECL2GAL,
}

// Inverse returns the transformation going the other way.
func (t Transformation) Inverse() Transformation {
	return inverses[t]
}

// ErrUnknownTransformation is returned for a Transformation outside the defined set.
var ErrUnknownTransformation = errors.New("astro: unknown transformation")

// ObliquityArcsec is the obliquity of the ecliptic relative to the ICRS
// equator, in arcseconds.
const ObliquityArcsec = 84381.41100

// Obliquity is ObliquityArcsec in radians.
var Obliquity = Deg2Rad(ObliquityArcsec / 3600.0)

// icrsToGalactic has the galactic axes in ICRS as its rows
// (Hipparcos catalogue, vol. 1, sect. 1.5.3).
var icrsToGalactic = mat.NewDense(3, 3, []float64{
	-0.0548755604162154, -0.8734370902348850, -0.4838350155487132,
	+0.4941094278755837, -0.4448296299600112, +0.7469822444972189,
	-0.8676661490190047, -0.1980763734312015, +0.4559837761750669,
})

// icrsToEcliptic rotates about the common x axis by the obliquity.
func icrsToEcliptic() *mat.Dense {
	s, c := gomath.Sincos(Obliquity)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	})
}

func transposed(m mat.Matrix) *mat.Dense {
	var t mat.Dense
	t.CloneFrom(m.T())
	return &t
}

func product(a, b mat.Matrix) *mat.Dense {
	var p mat.Dense
	p.Mul(a, b)
	return &p
}

func rotationFor(t Transformation) (*mat.Dense, error) {
	switch t {
	case ICRS2ECL:
		return icrsToEcliptic(), nil
	case ECL2ICRS:
		return transposed(icrsToEcliptic()), nil
	case ICRS2GAL:
		return mat.DenseCopyOf(icrsToGalactic), nil
	case GAL2ICRS:
		return transposed(icrsToGalactic), nil
	case ECL2GAL:
		return product(icrsToGalactic, transposed(icrsToEcliptic())), nil
	case GAL2ECL:
		return product(icrsToEcliptic(), transposed(icrsToGalactic)), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTransformation, int(t))
	}
}

// CoordinateTransformation applies a fixed rotation between reference frames.
type CoordinateTransformation struct {
	kind     Transformation
	rotation *mat.Dense
}

// NewCoordinateTransformation returns the rotation for the desired transformation.
func NewCoordinateTransformation(t Transformation) (*CoordinateTransformation, error) {
	r, err := rotationFor(t)
	if err != nil {
		return nil, err
	}
	return &CoordinateTransformation{kind: t, rotation: r}, nil
}

// MustCoordinateTransformation is NewCoordinateTransformation for the
// package-defined constants; it panics on an unknown transformation.
func MustCoordinateTransformation(t Transformation) *CoordinateTransformation {
	ct, err := NewCoordinateTransformation(t)
	if err != nil {
		panic(err)
	}
	return ct
}

// Kind returns the transformation this instance performs.
func (ct *CoordinateTransformation) Kind() Transformation {
	return ct.kind
}

// Transform rotates a Cartesian vector into the target frame.
func (ct *CoordinateTransformation) Transform(v math.Vec3) math.Vec3 {
	var out mat.VecDense
	out.MulVec(ct.rotation, mat.NewVecDense(3, v.Slice()))
	return math.FromSlice(out.RawVector().Data)
}

// TransformSky rotates a direction given as (phi, theta) in radians and
// returns the angles in the target frame.
func (ct *CoordinateTransformation) TransformSky(phi, theta float64) (float64, float64) {
	v := ct.Transform(SphericalToCartesian(1, phi, theta))
	_, p, th, _ := CartesianToSpherical(v)
	return p, th
}

// Inverse returns the transformation that undoes this one.
func (ct *CoordinateTransformation) Inverse() *CoordinateTransformation {
	return &CoordinateTransformation{kind: ct.kind.Inverse(), rotation: transposed(ct.rotation)}
}

// Matrix returns a copy of the rotation matrix in row-major order.
func (ct *CoordinateTransformation) Matrix() [9]float64 {
	var m [9]float64
	copy(m[:], ct.rotation.RawMatrix().Data)
	return m
}
