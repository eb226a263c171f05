package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/corotation/internal/rotation"
)

// NodalState is the prescribed motion of one node.
type NodalState struct {
	Displacement r3.Vec
	Rotation     rotation.Matrix
}

// Deformation prescribes a rigid displacement and rotation per node.
// Implementations must be safe for concurrent use.
type Deformation interface {
	At(n *Node) (NodalState, error)
}

// ArcBending bends a straight beam lying on the z axis into a circular arc in
// the x-z plane while twisting it about its own axis.
//
// With r = Length/TipSlope, a node at height z rotates by θy = -z/r about y,
// θz = Twist·z/Length about z and Roll about x, composed as Rx·(Ry·Rz), and
// moves to (r·cos(z/r) - r, 0, r·sin(z/r)).
type ArcBending struct {
	Length   float64 // undeformed beam length
	TipSlope float64 // slope of the tangent at z = Length, radians
	Twist    float64 // twist at z = Length, radians
	Roll     float64 // constant rotation about x, radians
}

// DefaultArcBending is the 60° blade bending case.
func DefaultArcBending() ArcBending {
	return ArcBending{
		Length:   5.029,
		TipSlope: 1.0472,
		Twist:    1.0472,
	}
}

func (a ArcBending) Validate() error {
	if !(a.Length > 0) || math.IsInf(a.Length, 0) {
		return fmt.Errorf("beam length must be positive and finite, got %g", a.Length)
	}
	if !(a.TipSlope > 0) || math.IsInf(a.TipSlope, 0) {
		return fmt.Errorf("tip slope must be positive and finite, got %g", a.TipSlope)
	}
	if math.IsNaN(a.Twist) || math.IsInf(a.Twist, 0) || math.IsNaN(a.Roll) || math.IsInf(a.Roll, 0) {
		return fmt.Errorf("twist and roll must be finite, got %g and %g", a.Twist, a.Roll)
	}
	return nil
}

// Radius returns the bending radius.
func (a ArcBending) Radius() float64 {
	return a.Length / a.TipSlope
}

func (a ArcBending) At(n *Node) (NodalState, error) {
	r := a.Radius()
	z := n.Z
	thetaY := -z / r
	thetaZ := a.Twist * z / a.Length

	rot := rotation.ElementaryX(a.Roll).Mul(rotation.ElementaryY(thetaY).Mul(rotation.ElementaryZ(thetaZ)))
	return NodalState{
		Displacement: r3.Vec{
			X: -r + r*math.Cos(-thetaY),
			Z: r*math.Sin(-thetaY) - z,
		},
		Rotation: rot,
	}, nil
}
