package rotation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Basis axes.
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Build returns the matrix rotating by angle (radians) about axis using
// Rodrigues' formula. The axis must have unit norm; it is neither normalised
// nor checked, and a non-unit axis yields a matrix outside SO(3).
// A zero angle yields the identity for any axis.
func Build(axis r3.Vec, angle float64) Matrix {
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Matrix{
		{c + x*x*t, x*y*t - z*s, x*z*t + y*s},
		{x*y*t + z*s, c + y*y*t, y*z*t - x*s},
		{x*z*t - y*s, y*z*t + x*s, c + z*z*t},
	}
}

// FromRotationVector returns the matrix encoded by rotation vector v, whose
// direction is the axis and whose norm is the angle. The zero vector maps to
// the identity.
func FromRotationVector(v r3.Vec) Matrix {
	angle := r3.Norm(v)
	if angle == 0 {
		return Identity()
	}
	return Build(r3.Scale(1/angle, v), angle)
}

// ElementaryX returns the rotation by angle about the x axis.
func ElementaryX(angle float64) Matrix { return Build(AxisX, angle) }

// ElementaryY returns the rotation by angle about the y axis.
func ElementaryY(angle float64) Matrix { return Build(AxisY, angle) }

// ElementaryZ returns the rotation by angle about the z axis.
func ElementaryZ(angle float64) Matrix { return Build(AxisZ, angle) }

// UnitAxis normalises v for use with Build.
// It returns ErrInvalidInput if v is zero or has non-finite components.
func UnitAxis(v r3.Vec) (r3.Vec, error) {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}, fmt.Errorf("%w: axis %v cannot be normalised", ErrInvalidInput, v)
	}
	return r3.Scale(1/n, v), nil
}
