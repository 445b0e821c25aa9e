// Package primitive builds closed polyhedral solids: boxes, prisms,
// faceted cylinders and spheres, and arbitrary polyhedra given as indexed
// face lists. Curved primitives are approximated by planar facets.
package primitive

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// ErrInvalidParameter is returned for non-positive sizes or too few
// segments.
var ErrInvalidParameter = errors.New("primitive: invalid parameter")

// ErrNonPlanarFace is returned when a polyhedron face does not lie in one
// plane within tolerance.
var ErrNonPlanarFace = errors.New("primitive: non-planar face")

// Polyhedron builds a solid from points and faces. Each face lists point
// indices counter-clockwise seen from outside. Edges between the same
// pair of points are shared, so a well-formed input yields a closed shell.
func Polyhedron(b *topo.Builder, pts []geom.Vec3, faces [][]int) (topo.Shape, error) {
	tol := b.Tolerance
	verts := make([]topo.Shape, len(pts))
	for i, p := range pts {
		verts[i] = b.MakeVertex(p, tol)
	}

	type key struct{ lo, hi int }
	edges := make(map[key]topo.Shape)
	edgeUse := func(i, j int) (topo.Shape, error) {
		k := key{i, j}
		if i > j {
			k = key{j, i}
		}
		e, ok := edges[k]
		if !ok {
			var err error
			e, err = b.MakeEdge(verts[k.lo], verts[k.hi])
			if err != nil {
				return topo.Shape{}, err
			}
			edges[k] = e
		}
		if i > j {
			return e.Reversed(), nil
		}
		return e, nil
	}

	shellFaces := make([]topo.Shape, 0, len(faces))
	for fi, idx := range faces {
		if len(idx) < 3 {
			return topo.Shape{}, fmt.Errorf("primitive: face %d has %d points: %w", fi, len(idx), ErrInvalidParameter)
		}
		loop := make([]geom.Vec3, len(idx))
		for i, pi := range idx {
			if pi < 0 || pi >= len(pts) {
				return topo.Shape{}, fmt.Errorf("primitive: face %d: point index %d out of range: %w", fi, pi, ErrInvalidParameter)
			}
			loop[i] = pts[pi]
		}
		plane, err := planeOf(loop, tol)
		if err != nil {
			return topo.Shape{}, fmt.Errorf("primitive: face %d: %w", fi, err)
		}
		wireEdges := make([]topo.Shape, len(idx))
		for i := range idx {
			e, err := edgeUse(idx[i], idx[(i+1)%len(idx)])
			if err != nil {
				return topo.Shape{}, fmt.Errorf("primitive: face %d: %w", fi, err)
			}
			wireEdges[i] = e
		}
		w, err := b.MakeWire(wireEdges...)
		if err != nil {
			return topo.Shape{}, fmt.Errorf("primitive: face %d: %w", fi, err)
		}
		f, err := b.MakeFace(plane, w)
		if err != nil {
			return topo.Shape{}, fmt.Errorf("primitive: face %d: %w", fi, err)
		}
		shellFaces = append(shellFaces, f)
	}
	return b.MakeSolid(b.MakeShell(shellFaces...)), nil
}

// planeOf fits a plane through a counter-clockwise loop using Newell's
// normal and checks that every point lies on it.
func planeOf(loop []geom.Vec3, tol float64) (geom.Plane, error) {
	var n, c geom.Vec3
	for i := range loop {
		n = n.Add(loop[i].Cross(loop[(i+1)%len(loop)]))
		c = c.Add(loop[i])
	}
	c = c.Mul(1 / float64(len(loop)))
	plane, ok := geom.NewPlane(c, n)
	if !ok {
		return geom.Plane{}, fmt.Errorf("zero area: %w", ErrInvalidParameter)
	}
	for _, p := range loop {
		if d := math.Abs(plane.Distance(p)); d > tol {
			return geom.Plane{}, fmt.Errorf("point %v is %.3g off the plane: %w", p, d, ErrNonPlanarFace)
		}
	}
	return plane, nil
}

// Box builds an axis-aligned box spanning min and max.
func Box(b *topo.Builder, min, max geom.Vec3) (topo.Shape, error) {
	for i := 0; i < 3; i++ {
		if max[i]-min[i] <= b.Tolerance {
			return topo.Shape{}, fmt.Errorf("primitive: box extent %d is %g: %w", i, max[i]-min[i], ErrInvalidParameter)
		}
	}
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]
	pts := []geom.Vec3{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{2, 3, 7, 6}, // back
		{0, 4, 7, 3}, // left
		{1, 2, 6, 5}, // right
	}
	return Polyhedron(b, pts, faces)
}

// Prism extrudes a counter-clockwise polygon in the XY plane from z0 to
// z0+height.
func Prism(b *topo.Builder, base []geom.Vec2, z0, height float64) (topo.Shape, error) {
	n := len(base)
	if n < 3 || height <= b.Tolerance {
		return topo.Shape{}, fmt.Errorf("primitive: prism with %d points and height %g: %w", n, height, ErrInvalidParameter)
	}
	if geom.SignedArea(base) <= 0 {
		return topo.Shape{}, fmt.Errorf("primitive: prism base must run counter-clockwise: %w", ErrInvalidParameter)
	}
	pts := make([]geom.Vec3, 0, 2*n)
	for _, p := range base {
		pts = append(pts, geom.V3(p[0], p[1], z0))
	}
	for _, p := range base {
		pts = append(pts, geom.V3(p[0], p[1], z0+height))
	}
	bottom := make([]int, n)
	top := make([]int, n)
	for i := 0; i < n; i++ {
		bottom[i] = n - 1 - i
		top[i] = n + i
	}
	faces := [][]int{bottom, top}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, []int{i, j, n + j, n + i})
	}
	return Polyhedron(b, pts, faces)
}

// Cylinder builds a faceted cylinder of the given radius around the Z axis,
// centred on the origin.
func Cylinder(b *topo.Builder, height, radius float64, segments int) (topo.Shape, error) {
	if segments < 3 || radius <= b.Tolerance {
		return topo.Shape{}, fmt.Errorf("primitive: cylinder radius %g with %d segments: %w", radius, segments, ErrInvalidParameter)
	}
	base := make([]geom.Vec2, segments)
	for i := range base {
		a := 2 * math.Pi * float64(i) / float64(segments)
		base[i] = geom.V2(radius*math.Cos(a), radius*math.Sin(a))
	}
	return Prism(b, base, -height/2, height)
}

// Sphere builds a faceted UV sphere. The poles are single vertices; each
// band between two latitudes is made of planar trapezoids.
func Sphere(b *topo.Builder, center geom.Vec3, radius float64, segments, rings int) (topo.Shape, error) {
	if segments < 3 || rings < 2 || radius <= b.Tolerance {
		return topo.Shape{}, fmt.Errorf("primitive: sphere radius %g with %dx%d facets: %w", radius, segments, rings, ErrInvalidParameter)
	}
	pts := []geom.Vec3{center.Add(geom.V3(0, 0, radius))}
	for r := 1; r < rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			pts = append(pts, center.Add(geom.V3(
				radius*math.Sin(theta)*math.Cos(phi),
				radius*math.Sin(theta)*math.Sin(phi),
				radius*math.Cos(theta),
			)))
		}
	}
	south := len(pts)
	pts = append(pts, center.Add(geom.V3(0, 0, -radius)))

	at := func(ring, seg int) int { return 1 + (ring-1)*segments + seg%segments }
	var faces [][]int
	for s := 0; s < segments; s++ {
		faces = append(faces, []int{0, at(1, s), at(1, s+1)})
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			faces = append(faces, []int{at(r, s), at(r+1, s), at(r+1, s+1), at(r, s+1)})
		}
	}
	for s := 0; s < segments; s++ {
		faces = append(faces, []int{south, at(rings-1, s+1), at(rings-1, s)})
	}
	return Polyhedron(b, pts, faces)
}
