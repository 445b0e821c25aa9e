package sdfx

import (
	"testing"

	"github.com/chazu/kerf/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCells keeps marching cubes cheap in tests.
const testCells = 48

func newTestKernel() *SdfxKernel { return &SdfxKernel{Cells: testCells} }

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

func TestBox(t *testing.T) {
	k := newTestKernel()
	box := mustSolid(t)(k.Box(100, 50, 25))
	mesh, err := k.ToMesh(box)
	require.NoError(t, err)
	require.False(t, mesh.IsEmpty())
	assert.NotZero(t, mesh.TriangleCount())
	assert.Equal(t, len(mesh.Vertices), len(mesh.Normals))
	assert.Equal(t, mesh.TriangleCount()*3, len(mesh.Indices))
}

func TestPrimitiveErrors(t *testing.T) {
	k := newTestKernel()
	_, err := k.Box(-1, 1, 1)
	assert.Error(t, err)
	_, err = k.Sphere(-1, 0, 0)
	assert.Error(t, err)
	_, err = k.Cylinder(1, -1, 0)
	assert.Error(t, err)
}

func TestSphereAndCylinder(t *testing.T) {
	k := newTestKernel()
	for name, s := range map[string]kernel.Solid{
		"sphere":   mustSolid(t)(k.Sphere(10, 0, 0)),
		"cylinder": mustSolid(t)(k.Cylinder(50, 10, 32)),
	} {
		t.Run(name, func(t *testing.T) {
			mesh, err := k.ToMesh(s)
			require.NoError(t, err)
			assert.NotZero(t, mesh.TriangleCount())
		})
	}
}

func TestBoundingBox(t *testing.T) {
	k := newTestKernel()
	box := mustSolid(t)(k.Box(100, 50, 25))
	min, max := box.BoundingBox()

	expectMax := [3]float64{100, 50, 25}
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, min[i], 0.01, "min[%d]", i)
		assert.InDelta(t, expectMax[i], max[i], 0.01, "max[%d]", i)
	}
}

func TestTranslate(t *testing.T) {
	k := newTestKernel()
	box := mustSolid(t)(k.Box(10, 10, 10))
	min, max := k.Translate(box, 100, 200, 300).BoundingBox()

	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expectMin[i], min[i], 0.5, "min[%d]", i)
		assert.InDelta(t, expectMax[i], max[i], 0.5, "max[%d]", i)
	}
}

func TestRotate(t *testing.T) {
	k := newTestKernel()
	box := mustSolid(t)(k.Box(100, 10, 10))

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	min, max := k.Rotate(box, 0, 0, 90).BoundingBox()
	assert.InDelta(t, 10, max[0]-min[0], 1.0)
	assert.InDelta(t, 100, max[1]-min[1], 1.0)
}

func TestBooleans(t *testing.T) {
	k := newTestKernel()
	a := mustSolid(t)(k.Box(100, 100, 100))
	b := k.Translate(mustSolid(t)(k.Box(100, 100, 100)), 50, 0, 0)

	tests := []struct {
		name string
		op   func(a, b kernel.Solid) (kernel.Solid, error)
	}{
		{"union", k.Union},
		{"difference", k.Difference},
		{"intersection", k.Intersection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.op(a, b)
			require.NoError(t, err)
			mesh, err := k.ToMesh(s)
			require.NoError(t, err)
			assert.False(t, mesh.IsEmpty())
		})
	}
}

type foreignSolid struct{}

func (foreignSolid) BoundingBox() (min, max [3]float64) { return }

func TestForeignSolid(t *testing.T) {
	k := newTestKernel()
	a := mustSolid(t)(k.Box(1, 1, 1))
	_, err := k.Union(a, foreignSolid{})
	assert.Error(t, err)
	_, err = k.ToMesh(foreignSolid{})
	assert.Error(t, err)
}
