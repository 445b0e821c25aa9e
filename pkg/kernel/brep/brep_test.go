package brep

import (
	"context"
	"testing"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/topo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustSolid fails t when a primitive or Boolean call errors:
// mustSolid(t)(k.Box(1, 1, 1)).
func mustSolid(t *testing.T) func(kernel.Solid, error) kernel.Solid {
	t.Helper()
	return func(s kernel.Solid, err error) kernel.Solid {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}

// offsetCubes returns the unit cube and a copy moved by (0.5, 0.5, 0.5).
func offsetCubes(t *testing.T, k *Kernel) (a, b kernel.Solid) {
	a = mustSolid(t)(k.Box(1, 1, 1))
	b = k.Translate(mustSolid(t)(k.Box(1, 1, 1)), 0.5, 0.5, 0.5)
	return a, b
}

// meshArea sums the triangle areas of m.
func meshArea(m *kernel.Mesh) float64 {
	vert := func(i uint32) geom.Vec3 {
		return geom.V3(float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2]))
	}
	var total float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := vert(m.Indices[i]), vert(m.Indices[i+1]), vert(m.Indices[i+2])
		total += b.Sub(a).Cross(c.Sub(a)).Len() / 2
	}
	return total
}

func TestPrimitives(t *testing.T) {
	k := New()
	tests := []struct {
		name   string
		solid  kernel.Solid
		volume float64
	}{
		{"box", mustSolid(t)(k.Box(1, 2, 3)), 6},
		{"cylinder", mustSolid(t)(k.Cylinder(2, 1, 4)), 4}, // square of diagonal 2
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.volume, k.Volume(tt.solid), 1e-9)
			assert.Nil(t, tt.solid.(*Solid).Diagnostics)
		})
	}

	s := mustSolid(t)(k.Sphere(1, 24, 12))
	assert.InDelta(t, 4.0/3.0*3.14159, k.Volume(s), 0.15)

	_, err := k.Box(0, 1, 1)
	assert.Error(t, err)
	_, err = k.Sphere(1, 2, 2)
	assert.Error(t, err)
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := mustSolid(t)(k.Box(100, 50, 25))
	min, max := box.BoundingBox()
	expectMax := [3]float64{100, 50, 25}
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, min[i], 1e-6)
		assert.InDelta(t, expectMax[i], max[i], 1e-6)
	}

	min, max = k.Translate(box, 100, 200, 300).BoundingBox()
	assert.InDelta(t, 100, min[0], 1e-6)
	assert.InDelta(t, 325, max[2], 1e-6)

	// A long box along X rotated 90 degrees around Z spans -10..0 in X and
	// 0..100 in Y.
	min, max = k.Rotate(mustSolid(t)(k.Box(100, 10, 10)), 0, 0, 90).BoundingBox()
	assert.InDelta(t, 10, max[0]-min[0], 1e-6)
	assert.InDelta(t, 100, max[1]-min[1], 1e-6)
}

func TestBooleans(t *testing.T) {
	k := New()
	a, b := offsetCubes(t, k)

	tests := []struct {
		name   string
		op     func(a, b kernel.Solid) (kernel.Solid, error)
		volume float64
	}{
		{"union", k.Union, 1.875},
		{"difference", k.Difference, 0.875},
		{"intersection", k.Intersection, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSolid(t)(tt.op(a, b))
			assert.InDelta(t, tt.volume, k.Volume(s), 1e-9)

			d := s.(*Solid).Diagnostics
			require.NotNil(t, d)
			assert.True(t, d.Closed)
			assert.Equal(t, 6, d.SectionEdges)

			moved := k.Translate(s, 3, 0, 0)
			assert.Same(t, d, moved.(*Solid).Diagnostics)
		})
	}
}

func TestSection(t *testing.T) {
	k := New()
	a, b := offsetCubes(t, k)

	s := mustSolid(t)(k.Section(a, b))
	shape := s.(*Solid).Shape
	assert.Len(t, topo.Explore(shape, topo.Edge), 6)
	assert.InDelta(t, 3.0, topo.Length(shape), 1e-9)
	assert.Zero(t, k.Volume(s))

	mesh, err := k.ToMesh(s)
	require.NoError(t, err)
	assert.True(t, mesh.IsEmpty())
}

func TestChainedBooleans(t *testing.T) {
	k := New()
	a, b := offsetCubes(t, k)
	fused := mustSolid(t)(k.Union(a, b))

	slab := k.Translate(mustSolid(t)(k.Box(3, 3, 1.75)), -1, -1, -1)
	lower := mustSolid(t)(k.Intersection(fused, slab))
	assert.InDelta(t, 0.9375, k.Volume(lower), 1e-9)
	assert.True(t, lower.(*Solid).Diagnostics.Closed)
}

func TestToMesh(t *testing.T) {
	k := New()
	a, b := offsetCubes(t, k)

	tests := []struct {
		name  string
		solid kernel.Solid
	}{
		{"box", a},
		{"union", mustSolid(t)(k.Union(a, b))},
		{"difference", mustSolid(t)(k.Difference(a, b))},
		{"sphere", mustSolid(t)(k.Sphere(1, 12, 6))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := k.ToMesh(tt.solid)
			require.NoError(t, err)
			require.False(t, mesh.IsEmpty())
			assert.Equal(t, len(mesh.Vertices), len(mesh.Normals))
			assert.InDelta(t, k.Area(tt.solid), meshArea(mesh), 1e-5)
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k := New(boolean.WithWorkers(2)).WithContext(ctx)
	a, b := offsetCubes(t, k)
	_, err := k.Union(a, b)
	assert.ErrorIs(t, err, context.Canceled)

	// The original kernel keeps its background context.
	_, err = New().Union(a, b)
	assert.NoError(t, err)
}

type foreignSolid struct{}

func (foreignSolid) BoundingBox() (min, max [3]float64) { return }

func TestForeignSolid(t *testing.T) {
	k := New()
	a := mustSolid(t)(k.Box(1, 1, 1))
	_, err := k.Difference(a, foreignSolid{})
	assert.Error(t, err)
	_, err = k.ToMesh(foreignSolid{})
	assert.Error(t, err)
}

func TestInvalidOperand(t *testing.T) {
	k := New()
	a, b := offsetCubes(t, k)
	sec := mustSolid(t)(k.Section(a, b))
	_, err := k.Union(a, sec)
	assert.Error(t, err)
}
