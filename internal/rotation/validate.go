package rotation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default tolerances.
const (
	// DefaultEpsilon is the angular distance (radians) from 0 or π within
	// which the identity or half-turn branch is taken.
	DefaultEpsilon = 1e-6
	// DefaultPairTolerance bounds the mismatch between a candidate half-turn
	// axis product a_i*a_j and the value implied by the off-diagonal entries.
	DefaultPairTolerance = 1e-5
	// DefaultOrthonormalTolerance bounds ‖RᵀR − I‖_F and |det R − 1| when
	// input validation is enabled.
	DefaultOrthonormalTolerance = 1e-6
)

// Tolerances holds the numerical thresholds used by an Extractor.
type Tolerances struct {
	Epsilon              float64
	PairTolerance        float64
	OrthonormalTolerance float64
}

// DefaultTolerances returns the documented default thresholds.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Epsilon:              DefaultEpsilon,
		PairTolerance:        DefaultPairTolerance,
		OrthonormalTolerance: DefaultOrthonormalTolerance,
	}
}

// Validate checks that every threshold is finite and positive.
// Epsilon must also stay below π/2 so the identity and half-turn branches
// cannot overlap.
func (t Tolerances) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"epsilon", t.Epsilon},
		{"pair_tolerance", t.PairTolerance},
		{"orthonormal_tolerance", t.OrthonormalTolerance},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v <= 0 {
			return fmt.Errorf("%s must be a positive finite number, got %g", c.name, c.v)
		}
	}
	if t.Epsilon >= math.Pi/2 {
		return fmt.Errorf("epsilon must be below π/2, got %g", t.Epsilon)
	}
	return nil
}

// Validate reports whether m is a proper rotation: finite entries,
// ‖mᵀm − I‖_F < tol and |det m − 1| < tol. It wraps ErrInvalidInput.
func Validate(m Matrix, tol float64) error {
	if err := checkFinite(m); err != nil {
		return err
	}

	d := m.Dense()
	var gram mat.Dense
	gram.Mul(d.T(), d)
	gram.Sub(&gram, eye3())
	if dev := mat.Norm(&gram, 2); dev >= tol {
		return fmt.Errorf("%w: not orthonormal (‖RᵀR − I‖ = %.3g)", ErrInvalidInput, dev)
	}

	// Reflections are orthonormal with det = -1.
	if det := mat.Det(d); math.Abs(det-1) >= tol {
		return fmt.Errorf("%w: determinant %.9g is not 1", ErrInvalidInput, det)
	}
	return nil
}

// checkFinite rejects NaN and infinite entries with ErrInvalidInput.
func checkFinite(m Matrix) error {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return fmt.Errorf("%w: entry (%d,%d) is not finite", ErrInvalidInput, i, j)
			}
		}
	}
	return nil
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}
