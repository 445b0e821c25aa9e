// Package brep implements the kernel.Kernel interface on kerf's own
// boundary representation: faceted primitives, exact polyhedral Boolean
// operations and planar face triangulation.
package brep

import (
	"context"
	"fmt"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/primitive"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/chazu/kerf/pkg/topo"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel    = (*Kernel)(nil)
	_ kernel.Sectioner = (*Kernel)(nil)
	_ kernel.Measurer  = (*Kernel)(nil)
)

// Solid wraps a B-Rep shape. Diagnostics is set on solids produced by a
// Boolean operation and follows them through transforms.
type Solid struct {
	Shape       topo.Shape
	Diagnostics *boolean.Diagnostics
}

// BoundingBox returns the axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	b := topo.BoundingBox(s.Shape)
	if b.IsEmpty() {
		return min, max
	}
	return [3]float64(b.Min), [3]float64(b.Max)
}

// Kernel implements kernel.Kernel with pkg/boolean.
type Kernel struct {
	b    *topo.Builder
	ctx  context.Context
	opts []boolean.Option
}

// New returns a kernel whose Boolean operations run with opts.
func New(opts ...boolean.Option) *Kernel {
	return &Kernel{b: topo.NewBuilder(), ctx: context.Background(), opts: opts}
}

// WithContext returns a copy of k whose Boolean operations are abandoned
// between phases once ctx is done.
func (k *Kernel) WithContext(ctx context.Context) *Kernel {
	c := *k
	c.ctx = ctx
	return &c
}

func unwrap(s kernel.Solid) (*Solid, error) {
	bs, ok := s.(*Solid)
	if !ok {
		return nil, fmt.Errorf("brep: foreign solid %T", s)
	}
	return bs, nil
}

// Box creates a box with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := primitive.Box(k.b, geom.Vec3{}, geom.V3(x, y, z))
	if err != nil {
		return nil, err
	}
	return &Solid{Shape: s}, nil
}

// Sphere creates a faceted sphere centred on the origin.
func (k *Kernel) Sphere(radius float64, segments, rings int) (kernel.Solid, error) {
	s, err := primitive.Sphere(k.b, geom.Vec3{}, radius, segments, rings)
	if err != nil {
		return nil, err
	}
	return &Solid{Shape: s}, nil
}

// Cylinder creates a faceted cylinder along Z centred on the origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) (kernel.Solid, error) {
	s, err := primitive.Cylinder(k.b, height, radius, segments)
	if err != nil {
		return nil, err
	}
	return &Solid{Shape: s}, nil
}

func (k *Kernel) perform(a, b kernel.Solid, op boolean.Operation) (kernel.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	r, err := boolean.PerformBoolean(k.ctx, sa.Shape, sb.Shape, op, k.opts...)
	if err != nil {
		return nil, err
	}
	return &Solid{Shape: r.Shape, Diagnostics: &r.Diagnostics}, nil
}

// Union fuses two solids.
func (k *Kernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	return k.perform(a, b, boolean.OpFuse)
}

// Difference cuts b out of a.
func (k *Kernel) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	return k.perform(a, b, boolean.OpCut)
}

// Intersection keeps the material common to both solids.
func (k *Kernel) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	return k.perform(a, b, boolean.OpCommon)
}

// Section intersects the boundaries of two solids. The result holds edges
// and vertices only.
func (k *Kernel) Section(a, b kernel.Solid) (kernel.Solid, error) {
	return k.perform(a, b, boolean.OpSection)
}

func (k *Kernel) transform(s kernel.Solid, x geom.Transform) kernel.Solid {
	bs := s.(*Solid)
	return &Solid{Shape: k.b.Transform(bs.Shape, x), Diagnostics: bs.Diagnostics}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, geom.Translation(geom.V3(x, y, z)))
}

// Rotate rotates a solid by Euler angles (degrees) around X, then Y, then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, geom.RotationXYZ(x, y, z))
}

// ToMesh triangulates every face of the solid.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	bs, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	return tessellate.Shape(bs.Shape)
}

// Volume returns the enclosed volume, cavities subtracted.
func (k *Kernel) Volume(s kernel.Solid) float64 {
	return topo.Volume(s.(*Solid).Shape)
}

// Area returns the total face area.
func (k *Kernel) Area(s kernel.Solid) float64 {
	return topo.Area(s.(*Solid).Shape)
}
