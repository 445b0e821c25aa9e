package geom

import "math"

// Surface is a parametric surface backing a face.
type Surface interface {
	// Point evaluates the surface at (u, v).
	Point(uv Vec2) Vec3
	// Normal returns the unit surface normal at (u, v).
	Normal(uv Vec2) Vec3
	// Project returns the parameters of the surface point closest to p.
	Project(p Vec3) Vec2
	// Distance returns the signed distance from p along the normal.
	Distance(p Vec3) float64
	// Transformed returns the surface moved by x.
	Transformed(x Transform) Surface
}

// Plane is an infinite plane with an orthonormal frame. U × V = N, so a
// loop that is counter-clockwise in (u, v) is counter-clockwise seen from
// the tip of N.
type Plane struct {
	Origin Vec3
	U, V   Vec3
	N      Vec3
}

var _ Surface = Plane{}

// NewPlane builds a plane through origin with the given normal. The U axis
// is chosen deterministically from the normal.
func NewPlane(origin, normal Vec3) (Plane, bool) {
	n, ok := Unit(normal)
	if !ok {
		return Plane{}, false
	}
	a := Vec3{1, 0, 0}
	if math.Abs(n[0]) > 0.9 {
		a = Vec3{0, 1, 0}
	}
	u, _ := Unit(a.Sub(n.Mul(a.Dot(n))))
	return Plane{Origin: origin, U: u, V: n.Cross(u), N: n}, true
}

// Point evaluates the plane.
func (p Plane) Point(uv Vec2) Vec3 {
	return p.Origin.Add(p.U.Mul(uv[0])).Add(p.V.Mul(uv[1]))
}

// Normal returns the plane normal.
func (p Plane) Normal(Vec2) Vec3 { return p.N }

// Project returns the (u, v) coordinates of p's orthogonal projection.
func (p Plane) Project(pt Vec3) Vec2 {
	d := pt.Sub(p.Origin)
	return Vec2{d.Dot(p.U), d.Dot(p.V)}
}

// ProjectDir maps a model-space direction into parameter space.
func (p Plane) ProjectDir(d Vec3) Vec2 {
	return Vec2{d.Dot(p.U), d.Dot(p.V)}
}

// Distance returns the signed distance from pt to the plane.
func (p Plane) Distance(pt Vec3) float64 { return pt.Sub(p.Origin).Dot(p.N) }

// Offset is the plane constant d in N·x = d.
func (p Plane) Offset() float64 { return p.Origin.Dot(p.N) }

// Transformed returns the plane moved by x.
func (p Plane) Transformed(x Transform) Surface {
	return Plane{
		Origin: x.Point(p.Origin),
		U:      x.Direction(p.U),
		V:      x.Direction(p.V),
		N:      x.Direction(p.N),
	}
}

// IntersectPlanes returns the line shared by two planes. ok is false when
// the planes are parallel within prec.
func IntersectPlanes(a, b Plane, prec Precision) (Line, bool) {
	dir := a.N.Cross(b.N)
	l2 := dir.LenSqr()
	if math.Sqrt(l2) <= prec.Angular {
		return Line{}, false
	}
	// N1·x = d1, N2·x = d2  =>  x = (d1 (N2×L) + d2 (L×N1)) / |L|²
	d1, d2 := a.Offset(), b.Offset()
	p := b.N.Cross(dir).Mul(d1).Add(dir.Cross(a.N).Mul(d2)).Mul(1 / l2)
	u, _ := Unit(dir)
	// Anchor the line near the first plane's origin so parameters stay
	// small and comparable across calls.
	line := Line{Origin: p, Dir: u}
	line.Origin = line.Point(line.Project(a.Origin))
	return line, true
}
