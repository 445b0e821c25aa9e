package topo

import "github.com/chazu/kerf/pkg/geom"

// Transform returns a copy of s moved by x. Shared sub-shapes stay shared
// in the copy and orientations are preserved.
func (b *Builder) Transform(s Shape, x geom.Transform) Shape {
	if s.IsNull() {
		return s
	}
	memo := make(map[*TShape]*TShape)
	var copyNode func(t *TShape) *TShape
	copyNode = func(t *TShape) *TShape {
		if c, ok := memo[t]; ok {
			return c
		}
		var g Geometry
		switch pg := t.geom.(type) {
		case VertexGeom:
			g = VertexGeom{Point: x.Point(pg.Point)}
		case EdgeGeom:
			pg.Curve = pg.Curve.Transformed(x)
			g = pg
		case FaceGeom:
			g = FaceGeom{Surface: pg.Surface.Transformed(x)}
		}
		children := make([]Shape, len(t.children))
		for i, ch := range t.children {
			children[i] = Shape{t: copyNode(ch.t), orient: ch.orient}
		}
		c := &TShape{id: nextID(), kind: t.kind, tolerance: t.tolerance, geom: g, children: children}
		memo[t] = c
		return c
	}
	return Shape{t: copyNode(s.t), orient: s.orient}
}
