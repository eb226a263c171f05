package kinematics

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Variable names a nodal vector field.
type Variable string

// Nodal variables written by the harness.
const (
	Displacement Variable = "DISPLACEMENT"
	Rotation     Variable = "ROTATION"
)

var (
	// ErrUnknownVariable is returned when reading or writing a variable that
	// was not registered on the model part.
	ErrUnknownVariable = errors.New("variable not registered on model part")
	// ErrDuplicateNode is returned when a node id is reused.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Node is a mesh point with nodal vector values.
type Node struct {
	ID      int
	X, Y, Z float64

	part   *ModelPart
	values map[Variable]r3.Vec
}

// Coordinates returns the initial position of the node.
func (n *Node) Coordinates() r3.Vec {
	return r3.Vec{X: n.X, Y: n.Y, Z: n.Z}
}

// SetValue stores val for variable v. Nodes not created through a ModelPart
// have no registered variables.
func (n *Node) SetValue(v Variable, val r3.Vec) error {
	if n.part == nil || !n.part.HasVariable(v) {
		return fmt.Errorf("node %d: %s: %w", n.ID, v, ErrUnknownVariable)
	}
	if n.values == nil {
		n.values = make(map[Variable]r3.Vec, len(n.part.variables))
	}
	n.values[v] = val
	return nil
}

// Value returns the stored value of v and whether it has been set.
func (n *Node) Value(v Variable) (r3.Vec, bool) {
	val, ok := n.values[v]
	return val, ok
}

// ModelPart is a named collection of nodes sharing a set of nodal variables.
// It is not safe for concurrent mutation.
type ModelPart struct {
	Name string

	variables map[Variable]struct{}
	nodes     map[int]*Node
}

// NewModelPart returns an empty model part.
func NewModelPart(name string) *ModelPart {
	return &ModelPart{
		Name:      name,
		variables: make(map[Variable]struct{}),
		nodes:     make(map[int]*Node),
	}
}

// AddNodalVariable registers v so that nodes can store values for it.
func (p *ModelPart) AddNodalVariable(v Variable) {
	p.variables[v] = struct{}{}
}

// HasVariable reports whether v is registered.
func (p *ModelPart) HasVariable(v Variable) bool {
	_, ok := p.variables[v]
	return ok
}

// CreateNode adds a node at (x, y, z).
func (p *ModelPart) CreateNode(id int, x, y, z float64) (*Node, error) {
	if _, exists := p.nodes[id]; exists {
		return nil, fmt.Errorf("model part %q: node %d: %w", p.Name, id, ErrDuplicateNode)
	}
	n := &Node{ID: id, X: x, Y: y, Z: z, part: p}
	p.nodes[id] = n
	return n, nil
}

// Node returns the node with the given id, or nil.
func (p *ModelPart) Node(id int) *Node {
	return p.nodes[id]
}

// Nodes returns all nodes ordered by id.
func (p *ModelPart) Nodes() []*Node {
	out := make([]*Node, 0, len(p.nodes))
	for _, n := range p.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *Node) int { return a.ID - b.ID })
	return out
}

// NumberOfNodes returns how many nodes the part holds.
func (p *ModelPart) NumberOfNodes() int {
	return len(p.nodes)
}

// NewLineModelPart returns a beam line of n equally spaced nodes along the z
// axis from z=0 to z=length, ids starting at 1, with DISPLACEMENT and ROTATION
// registered.
func NewLineModelPart(name string, n int, length float64) (*ModelPart, error) {
	if n < 2 {
		return nil, fmt.Errorf("line model part needs at least 2 nodes, got %d", n)
	}
	if !(length > 0) {
		return nil, fmt.Errorf("line model part length must be positive, got %g", length)
	}

	p := NewModelPart(name)
	p.AddNodalVariable(Displacement)
	p.AddNodalVariable(Rotation)
	for i := 0; i < n; i++ {
		z := length * float64(i) / float64(n-1)
		if _, err := p.CreateNode(i+1, 0, 0, z); err != nil {
			return nil, err
		}
	}
	return p, nil
}
