package rotation_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/corotation/internal/rotation"
	"github.com/banshee-data/corotation/internal/testutil"
)

const vecTol = 1e-6

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()

	axes := []r3.Vec{
		rotation.AxisX,
		rotation.AxisY,
		rotation.AxisZ,
		unit(t, 1, 2, 3),
		unit(t, -1, 0.5, -0.25),
		unit(t, 0, -1, 1),
	}
	angles := []float64{1e-5, 0.1, 1, math.Pi / 2, 2.5, 3.1, math.Pi - 1e-4}

	for _, axis := range axes {
		for _, angle := range angles {
			got, err := rotation.Extract(rotation.Build(axis, angle))
			require.NoError(t, err)
			testutil.AssertVecNear(t, got, r3.Scale(angle, axis), vecTol)
		}
	}
}

func TestExtract_Identity(t *testing.T) {
	t.Parallel()

	res, err := rotation.NewExtractor().Decompose(rotation.Identity())
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{}, res.Vector)
	assert.Equal(t, rotation.BranchIdentity, res.Branch)
	assert.False(t, res.Clamped)
}

func TestExtract_HalfTurnAboutX(t *testing.T) {
	t.Parallel()

	res, err := rotation.NewExtractor().Decompose(rotation.Diag(1, -1, -1))
	require.NoError(t, err)
	assert.Equal(t, rotation.BranchAntipodal, res.Branch)
	assert.Equal(t, [3]float64{1, 1, 1}, res.Signs)
	testutil.AssertVecNear(t, res.Vector, r3.Vec{X: math.Pi}, vecTol)
}

func TestExtract_HalfTurnBasisAxes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		m    rotation.Matrix
		want r3.Vec
	}{
		{rotation.Diag(-1, 1, -1), r3.Vec{Y: math.Pi}},
		{rotation.Diag(-1, -1, 1), r3.Vec{Z: math.Pi}},
	}
	for _, tc := range cases {
		got, err := rotation.Extract(tc.m)
		require.NoError(t, err)
		testutil.AssertVecNear(t, got, tc.want, vecTol)
	}
}

// Near π the axis sign is not recoverable, so compare the re-encoded matrix.
func TestExtract_HalfTurnRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		axis  r3.Vec
		signs [3]float64
	}{
		{"all positive", unit(t, 1, 2, 3), [3]float64{1, 1, 1}},
		{"mixed signs", unit(t, 1, -2, 3), [3]float64{-1, 1, -1}},
		{"one negative", unit(t, -1, 1, 1), [3]float64{1, -1, -1}},
		{"diagonal in xy plane", unit(t, 1, -1, 0), [3]float64{1, -1, -1}},
		{"last negative", unit(t, 2, 1, -1), [3]float64{-1, -1, 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := rotation.Build(tc.axis, math.Pi)

			res, err := rotation.NewExtractor().Decompose(m)
			require.NoError(t, err)
			assert.Equal(t, rotation.BranchAntipodal, res.Branch)
			assert.Equal(t, tc.signs, res.Signs)
			assert.InDelta(t, math.Pi, r3.Norm(res.Vector), vecTol)

			// Either a or -a is a valid answer.
			if r3.Dot(res.Vector, tc.axis) < 0 {
				testutil.AssertVecNear(t, res.Vector, r3.Scale(-math.Pi, tc.axis), vecTol)
			} else {
				testutil.AssertVecNear(t, res.Vector, r3.Scale(math.Pi, tc.axis), vecTol)
			}
			testutil.AssertMatrixNear(t, rotation.FromRotationVector(res.Vector), m, vecTol)
		})
	}
}

func TestExtract_JustBelowHalfTurn(t *testing.T) {
	t.Parallel()

	axis := unit(t, 3, -1, 2)
	m := rotation.Build(axis, math.Pi-5e-7)

	res, err := rotation.NewExtractor().Decompose(m)
	require.NoError(t, err)
	assert.Equal(t, rotation.BranchAntipodal, res.Branch)
	testutil.AssertMatrixNear(t, rotation.FromRotationVector(res.Vector), m, 1e-5)
}

func TestExtract_ClampsCosineDrift(t *testing.T) {
	t.Parallel()

	// Trace 3 + 2e-10 gives a cosine of 1.0000000001.
	m := rotation.Diag(1+2e-10, 1, 1)

	res, err := rotation.NewExtractor().Decompose(m)
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, 0.0, res.Angle)
	assert.Equal(t, rotation.BranchIdentity, res.Branch)
	assert.Equal(t, r3.Vec{}, res.Vector)
}

func TestExtract_ClampsBelowMinusOne(t *testing.T) {
	t.Parallel()

	m := rotation.Diag(1, -1-2e-10, -1)

	res, err := rotation.NewExtractor().Decompose(m)
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.InDelta(t, math.Pi, res.Angle, 1e-15)
	testutil.AssertVecNear(t, res.Vector, r3.Vec{X: math.Pi}, vecTol)
}

func TestExtract_InconsistentHalfTurnIsNumericalError(t *testing.T) {
	t.Parallel()

	// Trace -1 puts the angle at π, but three negative off-diagonal products
	// cannot come from any real axis.
	m := rotation.Matrix{
		{-1.0 / 3, -2.0 / 3, -2.0 / 3},
		{-2.0 / 3, -1.0 / 3, -2.0 / 3},
		{-2.0 / 3, -2.0 / 3, -1.0 / 3},
	}

	v, err := rotation.Extract(m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rotation.ErrNumerical))
	assert.Equal(t, r3.Vec{}, v)

	var extractErr *rotation.ExtractError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "extract", extractErr.Op)
	assert.InDelta(t, math.Pi, extractErr.Angle, 1e-6)
	assert.Equal(t, m, extractErr.Matrix)
}

func TestExtract_NonOrthonormalHalfTurnMagnitudes(t *testing.T) {
	t.Parallel()

	// Diagonal claims |a| = (1, 0, 0) but the off-diagonals claim a_x*a_y = 0.25.
	m := rotation.Matrix{
		{1, 0.5, 0},
		{0.5, -1, 0},
		{0, 0, -1},
	}
	_, err := rotation.Extract(m)
	assert.ErrorIs(t, err, rotation.ErrNumerical)
}

func TestExtract_PointReflectionIsNumericalError(t *testing.T) {
	t.Parallel()

	// Trace -3 clamps to π and every diagonal magnitude is zero.
	res, err := rotation.NewExtractor().Decompose(rotation.Diag(-1, -1, -1))
	assert.ErrorIs(t, err, rotation.ErrNumerical)
	assert.True(t, res.Clamped)
	assert.Equal(t, r3.Vec{}, res.Vector)
}

func TestExtract_SkewHalfTurnIsNumericalError(t *testing.T) {
	t.Parallel()

	// Trace -1 and a valid x axis on the diagonal, but the off-diagonal block
	// is antisymmetric, which no half turn can produce.
	m := rotation.Matrix{
		{1, 0, 0},
		{0, -1, 0.5},
		{0, -0.5, -1},
	}
	_, err := rotation.Extract(m)
	assert.ErrorIs(t, err, rotation.ErrNumerical)

	// Loosening the tolerance past the skew lets it through.
	loose := rotation.NewExtractor()
	loose.Tolerances.PairTolerance = 1.5
	got, err := loose.Extract(m)
	require.NoError(t, err)
	testutil.AssertVecNear(t, got, r3.Vec{X: math.Pi}, vecTol)
}

func TestExtract_RejectsNonFiniteWithoutValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    rotation.Matrix
	}{
		{"NaN entry", rotation.Matrix{{1, 0, 0}, {0, math.NaN(), 0}, {0, 0, 1}}},
		{"positive infinity", rotation.Diag(math.Inf(1), 1, 1)},
		{"negative infinity on a half turn", rotation.Diag(math.Inf(-1), -1, -1)},
		{"NaN off diagonal", rotation.Matrix{{1, math.NaN(), 0}, {0, 1, 0}, {0, 0, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, err := rotation.NewExtractor().Extract(tc.m)
			assert.ErrorIs(t, err, rotation.ErrInvalidInput)
			assert.Equal(t, r3.Vec{}, v)

			var extractErr *rotation.ExtractError
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, "validate", extractErr.Op)
		})
	}
}

func TestExtractor_ValidateInput(t *testing.T) {
	t.Parallel()

	strict := rotation.NewExtractor()
	strict.ValidateInput = true

	cases := []struct {
		name string
		m    rotation.Matrix
	}{
		{"scaled", rotation.Diag(2, 2, 2)},
		{"reflection", rotation.Diag(-1, 1, 1)},
		{"sheared", rotation.Matrix{{1, 0.1, 0}, {0, 1, 0}, {0, 0, 1}}},
		{"not finite", rotation.Matrix{{math.NaN(), 0, 0}, {0, 1, 0}, {0, 0, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := strict.Extract(tc.m)
			assert.ErrorIs(t, err, rotation.ErrInvalidInput)

			var extractErr *rotation.ExtractError
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, "validate", extractErr.Op)
		})
	}

	got, err := strict.Extract(rotation.Build(unit(t, 1, 1, 0), 0.5))
	require.NoError(t, err)
	testutil.AssertVecNear(t, got, r3.Scale(0.5, unit(t, 1, 1, 0)), vecTol)
}

func TestExtractor_LooseToleranceAcceptsNoisyHalfTurn(t *testing.T) {
	t.Parallel()

	m := rotation.Build(unit(t, 1, 2, 2), math.Pi)
	m[0][1] += 1e-4
	m[1][0] += 1e-4

	_, err := rotation.Extract(m)
	require.ErrorIs(t, err, rotation.ErrNumerical)

	loose := rotation.NewExtractor()
	loose.Tolerances.PairTolerance = 1e-3
	got, err := loose.Extract(m)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, r3.Norm(got), 1e-3)
}

func TestBranch_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "regular", rotation.BranchRegular.String())
	assert.Equal(t, "identity", rotation.BranchIdentity.String())
	assert.Equal(t, "antipodal", rotation.BranchAntipodal.String())
	assert.Equal(t, "unknown", rotation.Branch(42).String())
}
