// Package rotation encodes and decodes rigid 3D rotations.
//
// Responsibilities: building a rotation matrix from an axis and an angle
// (Rodrigues' formula) and recovering the axis-angle rotation vector from a
// rotation matrix, including the identity and half-turn singularities.
// Key types: Matrix, Extraction, Extractor, Tolerances.
//
// Everything here is a pure function over value types. Callers may run any
// number of conversions in parallel.
package rotation
