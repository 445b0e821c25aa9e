package geom

// Curve is a parametric 3D curve backing an edge. Implementations are
// immutable and may be shared by many edges.
type Curve interface {
	// Point evaluates the curve at parameter t.
	Point(t float64) Vec3
	// Tangent returns the unit tangent at parameter t.
	Tangent(t float64) Vec3
	// Project returns the parameter of the curve point closest to p.
	Project(p Vec3) float64
	// Transformed returns the curve moved by x.
	Transformed(x Transform) Curve
}

// Line is an infinite straight line parameterised by arc length.
type Line struct {
	Origin Vec3
	Dir    Vec3 // unit length
}

var _ Curve = Line{}

// LineThrough returns the line from p towards q and the parameter of q.
// ok is false when the points coincide.
func LineThrough(p, q Vec3) (l Line, length float64, ok bool) {
	d := q.Sub(p)
	length = d.Len()
	dir, ok := Unit(d)
	if !ok {
		return Line{}, 0, false
	}
	return Line{Origin: p, Dir: dir}, length, true
}

// Point evaluates the line.
func (l Line) Point(t float64) Vec3 { return l.Origin.Add(l.Dir.Mul(t)) }

// Tangent returns the constant direction of the line.
func (l Line) Tangent(float64) Vec3 { return l.Dir }

// Project returns the parameter of the foot of the perpendicular from p.
func (l Line) Project(p Vec3) float64 { return p.Sub(l.Origin).Dot(l.Dir) }

// Distance returns the distance from p to the line.
func (l Line) Distance(p Vec3) float64 { return Dist(p, l.Point(l.Project(p))) }

// Transformed returns the line moved by x.
func (l Line) Transformed(x Transform) Curve {
	return Line{Origin: x.Point(l.Origin), Dir: x.Direction(l.Dir)}
}
