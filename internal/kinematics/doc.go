// Package kinematics synthesises analytical beam deformations and feeds them
// to a field mapper.
//
// A ModelPart is a named set of nodes carrying nodal vector variables
// (DISPLACEMENT, ROTATION). The Harness evaluates a Deformation at every node
// in parallel, encodes each nodal rotation matrix as a rotation vector with
// the rotation package, writes both fields and finally asks the Mapper to
// carry them onto another discretisation. The mapping algorithm itself lives
// behind the Mapper interface and is not implemented here.
package kinematics
