// Package kernel defines the abstract geometry kernel interface.
// Implementations (brep, sdfx) provide solid modeling and Boolean
// operations behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import "errors"

// ErrUnsupported is returned by kernels for operations their
// representation cannot express.
var ErrUnsupported = errors.New("kernel: operation not supported")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Boxes have their minimum corner at the origin; spheres
	// and cylinders are centred on it, cylinders along Z.
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64, segments, rings int) (Solid, error)
	Cylinder(height, radius float64, segments int) (Solid, error)

	// Boolean operations
	Union(a, b Solid) (Solid, error)
	Difference(a, b Solid) (Solid, error)
	Intersection(a, b Solid) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Sectioner is implemented by kernels that can intersect the boundaries
// of two solids. The result holds edges and vertices only.
type Sectioner interface {
	Section(a, b Solid) (Solid, error)
}

// Measurer is implemented by kernels that compute exact mass properties.
type Measurer interface {
	Volume(s Solid) float64
	Area(s Solid) float64
}
