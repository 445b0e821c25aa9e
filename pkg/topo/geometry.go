package topo

import "github.com/chazu/kerf/pkg/geom"

// Geometry is the payload attached to vertices, edges and faces. The set of
// implementations is closed.
type Geometry interface {
	geometry()
}

// VertexGeom is the point of a vertex.
type VertexGeom struct {
	Point geom.Vec3
}

// EdgeGeom is the curve segment of an edge. The edge runs from
// Curve(First) to Curve(Last). A degenerate edge has First == Last and the
// same vertex at both ends.
type EdgeGeom struct {
	Curve       geom.Curve
	First, Last float64
	Degenerate  bool
}

// FaceGeom is the surface carrying a face.
type FaceGeom struct {
	Surface geom.Surface
}

func (VertexGeom) geometry() {}
func (EdgeGeom) geometry()   {}
func (FaceGeom) geometry()   {}

// Line returns the edge curve as a line.
func (g EdgeGeom) Line() (geom.Line, bool) {
	l, ok := g.Curve.(geom.Line)
	return l, ok
}

// Plane returns the face surface as a plane.
func (g FaceGeom) Plane() (geom.Plane, bool) {
	p, ok := g.Surface.(geom.Plane)
	return p, ok
}

// Point returns the location of a vertex. It panics if v is not a vertex.
func Point(v Shape) geom.Vec3 {
	return v.t.geom.(VertexGeom).Point
}

// EdgeGeometry returns the curve payload of e. It panics if e is not an
// edge.
func EdgeGeometry(e Shape) EdgeGeom {
	return e.t.geom.(EdgeGeom)
}

// SurfaceOf returns the surface of f. It panics if f is not a face.
func SurfaceOf(f Shape) geom.Surface {
	return f.t.geom.(FaceGeom).Surface
}

// EdgeVertices returns the start and end vertex of e in its orientation.
func EdgeVertices(e Shape) (start, end Shape) {
	a, b := e.t.children[0], e.t.children[1]
	if e.orient == Reversed {
		return b, a
	}
	return a, b
}

// EdgeRange returns the curve parameters at the start and end of e in its
// orientation.
func EdgeRange(e Shape) (start, end float64) {
	g := EdgeGeometry(e)
	if e.orient == Reversed {
		return g.Last, g.First
	}
	return g.First, g.Last
}

// EdgePoint evaluates the curve of e at parameter t.
func EdgePoint(e Shape, t float64) geom.Vec3 {
	return EdgeGeometry(e).Curve.Point(t)
}

// EdgeDirection returns the tangent of e at t, flipped for reversed use.
func EdgeDirection(e Shape, t float64) geom.Vec3 {
	d := EdgeGeometry(e).Curve.Tangent(t)
	if e.orient == Reversed {
		return d.Mul(-1)
	}
	return d
}

// IsDegenerate reports whether e has no extent.
func IsDegenerate(e Shape) bool {
	return EdgeGeometry(e).Degenerate
}

// OrientedPlane returns the plane of f with its normal pointing out of the
// material, taking the face orientation into account. In this plane the
// outer wire of f runs counter-clockwise and holes clockwise.
func OrientedPlane(f Shape) (geom.Plane, bool) {
	p, ok := FaceGeom{Surface: SurfaceOf(f)}.Plane()
	if !ok {
		return geom.Plane{}, false
	}
	if f.orient == Reversed {
		p = geom.Plane{Origin: p.Origin, U: p.U, V: p.V.Mul(-1), N: p.N.Mul(-1)}
	}
	return p, true
}
