package topo

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// newell returns the area vector of a closed polygon: its direction is the
// polygon normal by the right-hand rule and its length the enclosed area.
func newell(pts []geom.Vec3) geom.Vec3 {
	var n geom.Vec3
	for i := range pts {
		n = n.Add(pts[i].Cross(pts[(i+1)%len(pts)]))
	}
	return n.Mul(0.5)
}

// AreaVector returns the oriented area vector of f: holes subtract and the
// vector points out of the material.
func AreaVector(f Shape) geom.Vec3 {
	var a geom.Vec3
	for _, w := range f.Children() {
		a = a.Add(newell(WirePoints(w)))
	}
	return a
}

// Area returns the total area of the faces in s.
func Area(s Shape) float64 {
	var total float64
	for _, f := range Explore(s, Face) {
		if p, ok := OrientedPlane(f); ok {
			total += AreaVector(f).Dot(p.N)
		} else {
			total += AreaVector(f).Len()
		}
	}
	return total
}

// Volume returns the signed volume enclosed by the faces of s, using the
// divergence theorem. Properly oriented closed solids have positive volume;
// cavities subtract. Faces are counted once per use.
func Volume(s Shape) float64 {
	var v float64
	for _, f := range Uses(s, Face) {
		pts := Explore(f, Vertex)
		if len(pts) == 0 {
			continue
		}
		v += Point(pts[0]).Dot(AreaVector(f))
	}
	return v / 3
}

// Length returns the total length of the distinct edges of s.
func Length(s Shape) float64 {
	var total float64
	for _, e := range Explore(s, Edge) {
		g := EdgeGeometry(e)
		total += math.Abs(g.Last - g.First)
	}
	return total
}

// BoundingBox returns the box of all vertices of s enlarged by their
// tolerance.
func BoundingBox(s Shape) geom.Box {
	var b geom.Box
	for _, v := range Explore(s, Vertex) {
		b = b.Union(geom.BoxOf(Point(v)).Enlarge(v.Tolerance()))
	}
	return b
}

// FaceLoops returns the oriented plane of f and each boundary wire
// projected into its (u, v) frame: outer loop first.
func FaceLoops(f Shape) (geom.Plane, [][]geom.Vec2, bool) {
	p, ok := OrientedPlane(f)
	if !ok {
		return geom.Plane{}, nil, false
	}
	var loops [][]geom.Vec2
	for _, w := range f.Children() {
		pts := WirePoints(w)
		if len(pts) == 0 {
			continue
		}
		loop := make([]geom.Vec2, len(pts))
		for i, q := range pts {
			loop[i] = p.Project(q)
		}
		loops = append(loops, loop)
	}
	return p, loops, true
}

// FaceInteriorPoint returns a point strictly inside f.
func FaceInteriorPoint(f Shape) (geom.Vec3, bool) {
	p, loops, ok := FaceLoops(f)
	if !ok {
		return geom.Vec3{}, false
	}
	uv, ok := geom.InteriorPoint(loops)
	if !ok {
		return geom.Vec3{}, false
	}
	return p.Point(uv), true
}
