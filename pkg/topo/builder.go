package topo

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Builder creates shapes. It is the only way to obtain non-null shapes.
// A Builder is stateless apart from its default tolerance and is safe for
// concurrent use.
type Builder struct {
	// Tolerance is the minimum tolerance given to new shapes.
	Tolerance float64
}

// NewBuilder returns a builder using geom.DefaultLinear as the minimum
// tolerance.
func NewBuilder() *Builder {
	return &Builder{Tolerance: geom.DefaultLinear}
}

func (b *Builder) tol(t float64) float64 {
	return math.Max(t, b.Tolerance)
}

func (b *Builder) node(k Kind, tol float64, g Geometry, children []Shape) Shape {
	return Shape{t: &TShape{id: nextID(), kind: k, tolerance: b.tol(tol), geom: g, children: children}}
}

// MakeVertex creates a vertex at p.
func (b *Builder) MakeVertex(p geom.Vec3, tol float64) Shape {
	return b.node(Vertex, tol, VertexGeom{Point: p}, nil)
}

// MakeEdge creates a straight edge from v1 to v2 parameterised by arc
// length starting at 0.
func (b *Builder) MakeEdge(v1, v2 Shape) (Shape, error) {
	if v1.Kind() != Vertex || v2.Kind() != Vertex {
		return Shape{}, fmt.Errorf("topo: make edge: %w", ErrWrongKind)
	}
	line, length, ok := geom.LineThrough(Point(v1), Point(v2))
	if !ok || length <= v1.Tolerance()+v2.Tolerance() {
		return Shape{}, fmt.Errorf("topo: make edge %s-%s: %w", v1, v2, ErrDegenerate)
	}
	return b.MakeEdgeOn(line, v1, v2, 0, length), nil
}

// MakeEdgeOn creates an edge lying on curve between parameters first and
// last, bounded by v1 and v2. Edges split from a common curve share it.
func (b *Builder) MakeEdgeOn(curve geom.Curve, v1, v2 Shape, first, last float64) Shape {
	tol := math.Max(v1.Tolerance(), v2.Tolerance())
	g := EdgeGeom{Curve: curve, First: first, Last: last}
	return b.node(Edge, tol, g, []Shape{v1.Oriented(Forward), v2.Oriented(Forward)})
}

// MakeDegenerateEdge creates an edge of zero length at v.
func (b *Builder) MakeDegenerateEdge(curve geom.Curve, v Shape, t float64) Shape {
	g := EdgeGeom{Curve: curve, First: t, Last: t, Degenerate: true}
	return b.node(Edge, v.Tolerance(), g, []Shape{v.Oriented(Forward), v.Oriented(Forward)})
}

// MakeWire chains edges into a wire. Each edge must start where the
// previous one ends.
func (b *Builder) MakeWire(edges ...Shape) (Shape, error) {
	if len(edges) == 0 {
		return Shape{}, fmt.Errorf("topo: make wire: no edges: %w", ErrDegenerate)
	}
	for i, e := range edges {
		if e.Kind() != Edge {
			return Shape{}, fmt.Errorf("topo: make wire: element %d is a %s: %w", i, e.Kind(), ErrWrongKind)
		}
		if i == 0 {
			continue
		}
		_, end := EdgeVertices(edges[i-1])
		start, _ := EdgeVertices(e)
		if !end.IsSame(start) {
			return Shape{}, fmt.Errorf("topo: make wire: edge %d %s does not start at %s: %w", i, e, end, ErrNotConnected)
		}
	}
	return b.node(Wire, 0, nil, append([]Shape(nil), edges...)), nil
}

// MakePolygon creates vertices, edges and a closed wire through pts.
func (b *Builder) MakePolygon(pts []geom.Vec3, tol float64) (Shape, error) {
	if len(pts) < 3 {
		return Shape{}, fmt.Errorf("topo: make polygon: %d points: %w", len(pts), ErrDegenerate)
	}
	vs := make([]Shape, len(pts))
	for i, p := range pts {
		vs[i] = b.MakeVertex(p, tol)
	}
	return b.MakePolygonFromVertices(vs)
}

// MakePolygonFromVertices closes a wire through existing vertices.
func (b *Builder) MakePolygonFromVertices(vs []Shape) (Shape, error) {
	edges := make([]Shape, len(vs))
	for i := range vs {
		e, err := b.MakeEdge(vs[i], vs[(i+1)%len(vs)])
		if err != nil {
			return Shape{}, err
		}
		edges[i] = e
	}
	return b.MakeWire(edges...)
}

// MakeFace creates a face on surface bounded by closed wires: the outer
// wire first, then holes. Wires must already run counter-clockwise (outer)
// and clockwise (holes) about the surface normal.
func (b *Builder) MakeFace(surface geom.Surface, wires ...Shape) (Shape, error) {
	if len(wires) == 0 {
		return Shape{}, fmt.Errorf("topo: make face: no boundary: %w", ErrDegenerate)
	}
	tol := 0.0
	for i, w := range wires {
		if w.Kind() != Wire {
			return Shape{}, fmt.Errorf("topo: make face: boundary %d is a %s: %w", i, w.Kind(), ErrWrongKind)
		}
		if !IsClosedWire(w) {
			return Shape{}, fmt.Errorf("topo: make face: boundary %d: %w", i, ErrNotClosed)
		}
		for _, e := range w.Children() {
			tol = math.Max(tol, e.Tolerance())
		}
	}
	return b.node(Face, tol, FaceGeom{Surface: surface}, append([]Shape(nil), wires...)), nil
}

// MakeShell groups faces into a shell.
func (b *Builder) MakeShell(faces ...Shape) Shape {
	return b.node(Shell, 0, nil, append([]Shape(nil), faces...))
}

// MakeSolid groups shells into a solid: the outer shell first, then
// cavities oriented so their faces point into the void.
func (b *Builder) MakeSolid(shells ...Shape) Shape {
	return b.node(Solid, 0, nil, append([]Shape(nil), shells...))
}

// MakeCompound groups arbitrary shapes.
func (b *Builder) MakeCompound(shapes ...Shape) Shape {
	return b.node(Compound, 0, nil, append([]Shape(nil), shapes...))
}

// UpdateTolerance raises the tolerance of s to at least tol. It must only
// be used on shapes the caller created and has not yet handed out.
func (b *Builder) UpdateTolerance(s Shape, tol float64) {
	if tol > s.t.tolerance {
		s.t.tolerance = tol
	}
}

// IsClosedWire reports whether w ends where it starts.
func IsClosedWire(w Shape) bool {
	edges := OrderedEdges(w)
	if len(edges) == 0 {
		return false
	}
	start, _ := EdgeVertices(edges[0])
	_, end := EdgeVertices(edges[len(edges)-1])
	return start.IsSame(end)
}

// OrderedEdges returns the edges of w in traversal order, honouring the
// wire orientation.
func OrderedEdges(w Shape) []Shape {
	edges := w.Children()
	if w.orient == Reversed {
		for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
			edges[i], edges[j] = edges[j], edges[i]
		}
	}
	return edges
}

// WirePoints returns the start point of each edge of w in traversal order.
func WirePoints(w Shape) []geom.Vec3 {
	edges := OrderedEdges(w)
	pts := make([]geom.Vec3, 0, len(edges))
	for _, e := range edges {
		if IsDegenerate(e) {
			continue
		}
		v, _ := EdgeVertices(e)
		pts = append(pts, Point(v))
	}
	return pts
}
