package rotation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Branch identifies which case of the decoder produced a rotation vector.
type Branch int

const (
	// BranchRegular extracts the axis from the skew-symmetric part.
	BranchRegular Branch = iota
	// BranchIdentity is taken for angles within epsilon of zero.
	BranchIdentity
	// BranchAntipodal is taken for angles within epsilon of π, where the
	// skew-symmetric part vanishes.
	BranchAntipodal
)

func (b Branch) String() string {
	switch b {
	case BranchRegular:
		return "regular"
	case BranchIdentity:
		return "identity"
	case BranchAntipodal:
		return "antipodal"
	default:
		return "unknown"
	}
}

// Extraction is the detailed result of decoding a rotation matrix.
type Extraction struct {
	Vector r3.Vec  // axis × angle
	Angle  float64 // in [0, π]
	Branch Branch
	// Clamped is set when the trace-derived cosine fell outside [-1, 1]
	// and was clamped before taking its inverse cosine.
	Clamped bool
	// Signs is the accepted sign triple on the antipodal branch, zero otherwise.
	Signs [3]float64
}

// halfTurnSigns are the sign hypotheses tried, in order, for the half-turn
// axis. Negating a triple describes the same rotation, so four suffice.
var halfTurnSigns = [4][3]float64{
	{+1, +1, +1},
	{+1, -1, -1},
	{-1, +1, -1},
	{-1, -1, +1},
}

// axisPairs are the unordered off-diagonal index pairs.
var axisPairs = [3][2]int{{0, 1}, {0, 2}, {1, 2}}

// Extractor decodes rotation matrices with configurable tolerances.
// The zero value is not usable; start from NewExtractor or DefaultTolerances.
type Extractor struct {
	Tolerances Tolerances
	// ValidateInput rejects matrices that are not proper rotations with
	// ErrInvalidInput instead of returning a meaningless vector.
	ValidateInput bool
}

// NewExtractor returns a non-validating extractor with default tolerances.
func NewExtractor() Extractor {
	return Extractor{Tolerances: DefaultTolerances()}
}

// Extract returns the rotation vector of m using the default tolerances.
// m is assumed to be in SO(3) and is not checked.
func Extract(m Matrix) (r3.Vec, error) {
	return NewExtractor().Extract(m)
}

// Extract returns the rotation vector (axis × angle, angle in [0, π]) of m.
func (e Extractor) Extract(m Matrix) (r3.Vec, error) {
	res, err := e.Decompose(m)
	if err != nil {
		return r3.Vec{}, err
	}
	return res.Vector, nil
}

// Decompose returns the full extraction result for m.
func (e Extractor) Decompose(m Matrix) (Extraction, error) {
	// Non-finite entries are rejected even without ValidateInput.
	if err := checkFinite(m); err != nil {
		return Extraction{}, &ExtractError{Op: "validate", Angle: math.NaN(), Matrix: m, Err: err}
	}
	if e.ValidateInput {
		if err := Validate(m, e.Tolerances.OrthonormalTolerance); err != nil {
			return Extraction{}, &ExtractError{Op: "validate", Angle: math.NaN(), Matrix: m, Err: err}
		}
	}

	var res Extraction
	c := (m.Trace() - 1) / 2
	switch {
	case c > 1:
		c, res.Clamped = 1, true
	case c < -1:
		c, res.Clamped = -1, true
	}
	res.Angle = math.Acos(c)

	eps := e.Tolerances.Epsilon
	switch {
	case res.Angle < eps:
		res.Branch = BranchIdentity
		return res, nil

	case math.Pi-res.Angle < eps:
		res.Branch = BranchAntipodal
		axis, signs, ok := halfTurnAxis(m, e.Tolerances.PairTolerance)
		if !ok {
			return res, &ExtractError{Op: "extract", Angle: res.Angle, Matrix: m, Err: ErrNumerical}
		}
		res.Signs = signs
		res.Vector = r3.Scale(math.Pi, axis)
		return res, nil
	}

	res.Branch = BranchRegular
	k := res.Angle / (2 * math.Sin(res.Angle))
	res.Vector = r3.Vec{
		X: -(m[1][2] - m[2][1]) * k,
		Y: (m[0][2] - m[2][0]) * k,
		Z: -(m[0][1] - m[1][0]) * k,
	}
	return res, nil
}

// halfTurnAxis recovers the unit axis of a rotation by π, R = 2aaᵀ − I.
// The diagonal gives |a_i|; the signs come from the first hypothesis whose
// pairwise products match (R_ij + R_ji)/4 within tol. R must be symmetric
// and the recovered axis must have unit norm, both within tol.
func halfTurnAxis(m Matrix, tol float64) (r3.Vec, [3]float64, bool) {
	var mag, want [3]float64
	for i := 0; i < 3; i++ {
		mag[i] = math.Sqrt(math.Max((m[i][i]+1)/2, 0))
	}
	for p, ij := range axisPairs {
		i, j := ij[0], ij[1]
		if math.Abs(m[i][j]-m[j][i]) > tol {
			return r3.Vec{}, [3]float64{}, false
		}
		want[p] = (m[i][j] + m[j][i]) / 4
	}

	for _, s := range halfTurnSigns {
		a := [3]float64{s[0] * mag[0], s[1] * mag[1], s[2] * mag[2]}
		ok := true
		for p, ij := range axisPairs {
			if math.Abs(a[ij[0]]*a[ij[1]]-want[p]) > tol {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		axis := r3.Vec{X: a[0], Y: a[1], Z: a[2]}
		// A point reflection has all magnitudes zero and matches (+,+,+).
		if math.Abs(r3.Norm(axis)-1) > tol {
			return r3.Vec{}, [3]float64{}, false
		}
		return axis, s, true
	}
	return r3.Vec{}, [3]float64{}, false
}
