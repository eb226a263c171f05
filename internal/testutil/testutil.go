// Package testutil provides shared numeric assertions for tests.
//
// Float comparisons go through go-cmp with an absolute-tolerance option so
// a failure prints the full diff of the vector or matrix, not just the first
// differing component.
package testutil

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/corotation/internal/rotation"
)

// TB is the subset of testing.TB used by the helpers.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// ApproxDiff returns a go-cmp diff of got and want treating floats within an
// absolute tolerance tol as equal. It returns "" when they match.
func ApproxDiff(got, want any, tol float64) string {
	return cmp.Diff(want, got, cmpopts.EquateApprox(0, tol))
}

// AssertVecNear fails the test if got and want differ by more than tol in
// any component.
func AssertVecNear(t TB, got, want r3.Vec, tol float64) {
	t.Helper()
	if diff := ApproxDiff(got, want, tol); diff != "" {
		t.Errorf("vector mismatch (-want +got, tol %g):\n%s", tol, diff)
	}
}

// AssertMatrixNear fails the test if got and want differ by more than tol in
// any entry.
func AssertMatrixNear(t TB, got, want rotation.Matrix, tol float64) {
	t.Helper()
	if diff := ApproxDiff(got, want, tol); diff != "" {
		t.Errorf("matrix mismatch (-want +got, tol %g):\n%s", tol, diff)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}
