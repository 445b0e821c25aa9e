package topo

import (
	"fmt"
	"sync/atomic"
)

// Kind is the topological type of a shape.
type Kind int

const (
	Vertex Kind = iota
	Edge
	Wire
	Face
	Shell
	Solid
	Compound
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Wire:
		return "wire"
	case Face:
		return "face"
	case Shell:
		return "shell"
	case Solid:
		return "solid"
	case Compound:
		return "compound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Orientation says how a shape is used by its parent.
type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reversed:
		return "reversed"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Reverse returns the opposite orientation.
func (o Orientation) Reverse() Orientation {
	if o == Forward {
		return Reversed
	}
	return Forward
}

// Compose returns o seen through a parent used with orientation p.
func (o Orientation) Compose(p Orientation) Orientation {
	if p == Reversed {
		return o.Reverse()
	}
	return o
}

// idCounter hands out creation indices. IDs only grow, so sorting by ID
// sorts by creation order.
var idCounter uint64

func nextID() uint64 { return atomic.AddUint64(&idCounter, 1) }

// TShape is the shared node behind one or more Shape handles. It is
// immutable once published; only the tolerance of shapes still owned by
// their builder may grow.
type TShape struct {
	id        uint64
	kind      Kind
	tolerance float64
	geom      Geometry
	children  []Shape
}

// Shape is a handle on a TShape with an orientation. The zero Shape is
// null.
type Shape struct {
	t      *TShape
	orient Orientation
}

// IsNull reports whether s refers to nothing.
func (s Shape) IsNull() bool { return s.t == nil }

// ID returns the creation index of the underlying node; 0 for null shapes.
func (s Shape) ID() uint64 {
	if s.t == nil {
		return 0
	}
	return s.t.id
}

// Kind returns the topological type.
func (s Shape) Kind() Kind { return s.t.kind }

// Orientation returns how this handle uses its node.
func (s Shape) Orientation() Orientation { return s.orient }

// Tolerance returns the node tolerance.
func (s Shape) Tolerance() float64 { return s.t.tolerance }

// Geometry returns the geometric payload; nil for containers.
func (s Shape) Geometry() Geometry { return s.t.geom }

// Reversed returns the same node with the opposite orientation.
func (s Shape) Reversed() Shape { return Shape{t: s.t, orient: s.orient.Reverse()} }

// Oriented returns the same node with orientation o.
func (s Shape) Oriented(o Orientation) Shape { return Shape{t: s.t, orient: o} }

// IsSame reports whether both handles refer to the same node.
func (s Shape) IsSame(o Shape) bool { return s.t == o.t }

// IsEqual reports whether both handles refer to the same node with the
// same orientation.
func (s Shape) IsEqual(o Shape) bool { return s.t == o.t && s.orient == o.orient }

// NumChildren returns the number of direct sub-shapes.
func (s Shape) NumChildren() int { return len(s.t.children) }

// Children returns the direct sub-shapes with their orientation composed
// with the orientation of s. The order is the stored order.
func (s Shape) Children() []Shape {
	out := make([]Shape, len(s.t.children))
	for i, c := range s.t.children {
		out[i] = Shape{t: c.t, orient: c.orient.Compose(s.orient)}
	}
	return out
}

func (s Shape) String() string {
	if s.t == nil {
		return "null"
	}
	if s.orient == Reversed {
		return fmt.Sprintf("%s#%d(r)", s.t.kind, s.t.id)
	}
	return fmt.Sprintf("%s#%d", s.t.kind, s.t.id)
}
