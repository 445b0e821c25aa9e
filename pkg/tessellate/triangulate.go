package tessellate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/topo"
)

// ErrNotPlanar is returned for faces whose surface is not a plane.
var ErrNotPlanar = errors.New("tessellate: face is not planar")

// Shape triangulates every face of s into a flat-shaded mesh. Each face
// gets its own vertices so normals stay sharp along edges. Triangles wind
// counter-clockwise seen from outside the material.
func Shape(s topo.Shape) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	for _, f := range topo.Explore(s, topo.Face) {
		if err := addFace(m, f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func addFace(m *kernel.Mesh, f topo.Shape) error {
	p, ok := topo.OrientedPlane(f)
	if !ok {
		return fmt.Errorf("tessellate: face #%d: %w", f.ID(), ErrNotPlanar)
	}
	var (
		pts   []geom.Vec3
		uv    []geom.Vec2
		loops [][]int
	)
	for _, w := range f.Children() {
		wp := topo.WirePoints(w)
		if len(wp) < 3 {
			continue
		}
		loop := make([]int, len(wp))
		for i, q := range wp {
			loop[i] = len(pts)
			pts = append(pts, q)
			uv = append(uv, p.Project(q))
		}
		loops = append(loops, loop)
	}
	if len(loops) == 0 {
		return nil
	}

	base := uint32(m.VertexCount())
	n := p.N
	for _, q := range pts {
		m.Vertices = append(m.Vertices, float32(q[0]), float32(q[1]), float32(q[2]))
		m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}
	for _, t := range triangulate(uv, loops) {
		m.Indices = append(m.Indices, base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Ear clipping with hole bridging
// ---------------------------------------------------------------------------

// polygon is a region in the plane: pts indexed by loops, the largest loop
// being the outer boundary.
type polygon struct {
	uv  []geom.Vec2
	eps float64 // area below which a corner counts as straight
}

func (pg polygon) cross(a, b, c int) float64 {
	return geom.Cross2(pg.uv[b].Sub(pg.uv[a]), pg.uv[c].Sub(pg.uv[a]))
}

func (pg polygon) same(a, b int) bool {
	return a == b || pg.uv[a].Sub(pg.uv[b]).Len() <= math.Sqrt(pg.eps)
}

func (pg polygon) area(loop []int) float64 {
	pts := make([]geom.Vec2, len(loop))
	for i, v := range loop {
		pts[i] = pg.uv[v]
	}
	return geom.SignedArea(pts)
}

// triangulate returns counter-clockwise triangles covering the region
// bounded by loops. Holes are bridged into the outer loop first.
func triangulate(uv []geom.Vec2, loops [][]int) [][3]int {
	box := geom.Box{}
	for _, q := range uv {
		box = box.Add(geom.V3(q[0], q[1], 0))
	}
	scale := math.Max(box.Diagonal(), 1e-300)
	pg := polygon{uv: uv, eps: 1e-12 * scale * scale}

	outer := 0
	for i := range loops {
		if math.Abs(pg.area(loops[i])) > math.Abs(pg.area(loops[outer])) {
			outer = i
		}
	}
	poly := orient(pg, loops[outer], true)
	var holes [][]int
	for i, l := range loops {
		if i != outer {
			holes = append(holes, orient(pg, l, false))
		}
	}

	// Rightmost holes first, so each bridge only sees holes still to come
	// on its left.
	sort.SliceStable(holes, func(i, j int) bool {
		return uv[holes[i][rightmost(pg, holes[i])]][0] > uv[holes[j][rightmost(pg, holes[j])]][0]
	})
	for i, h := range holes {
		poly = bridge(pg, poly, h, holes[i+1:])
	}
	return earClip(pg, poly)
}

// orient returns a copy of loop running counter-clockwise when ccw is set,
// clockwise otherwise.
func orient(pg polygon, loop []int, ccw bool) []int {
	out := append([]int(nil), loop...)
	if (pg.area(out) > 0) != ccw {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// rightmost returns the position in loop of its largest-u vertex, lowest v
// on ties.
func rightmost(pg polygon, loop []int) int {
	best := 0
	for i, v := range loop {
		p, q := pg.uv[v], pg.uv[loop[best]]
		if p[0] > q[0] || (p[0] == q[0] && p[1] < q[1]) {
			best = i
		}
	}
	return best
}

// bridge splices hole into poly through a zero-width channel from the
// hole's rightmost vertex to the nearest visible vertex of poly.
func bridge(pg polygon, poly, hole []int, pending [][]int) []int {
	m := rightmost(pg, hole)
	mv := hole[m]
	M := pg.uv[mv]

	best, bestD, fallback, fallbackD := -1, math.Inf(1), 0, math.Inf(1)
	for i, v := range poly {
		d := pg.uv[v].Sub(M).Len()
		if d < fallbackD {
			fallback, fallbackD = i, d
		}
		if pg.uv[v][0] < M[0] || d >= bestD {
			continue
		}
		if !locallyInside(pg, poly, i, mv) {
			continue
		}
		if blocked(pg, v, mv, poly) || blocked(pg, v, mv, hole) || blockedAny(pg, v, mv, pending) {
			continue
		}
		best, bestD = i, d
	}
	if best < 0 {
		best = fallback
	}

	out := make([]int, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:best+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(m+k)%len(hole)])
	}
	out = append(out, poly[best:]...)
	return out
}

// locallyInside reports whether the direction from poly[i] towards d
// enters the polygon's interior wedge at that corner.
func locallyInside(pg polygon, poly []int, i, d int) bool {
	n := len(poly)
	p, v, q := poly[(i+n-1)%n], poly[i], poly[(i+1)%n]
	if pg.cross(p, v, q) >= 0 {
		return pg.cross(p, v, d) > 0 && pg.cross(v, q, d) > 0
	}
	return pg.cross(p, v, d) > 0 || pg.cross(v, q, d) > 0
}

// blocked reports whether segment a-b properly crosses an edge of loop
// that does not touch either end.
func blocked(pg polygon, a, b int, loop []int) bool {
	for i := range loop {
		c, d := loop[i], loop[(i+1)%len(loop)]
		if pg.same(c, a) || pg.same(c, b) || pg.same(d, a) || pg.same(d, b) {
			continue
		}
		if pg.cross(a, b, c)*pg.cross(a, b, d) < 0 && pg.cross(c, d, a)*pg.cross(c, d, b) < 0 {
			return true
		}
	}
	return false
}

func blockedAny(pg polygon, a, b int, loops [][]int) bool {
	for _, l := range loops {
		if blocked(pg, a, b, l) {
			return true
		}
	}
	return false
}

// earClip triangulates a simple counter-clockwise polygon, possibly with
// zero-width bridge channels.
func earClip(pg polygon, poly []int) [][3]int {
	idx := append([]int(nil), poly...)
	var tris [][3]int
	for len(idx) > 3 {
		n := len(idx)
		cut := -1
		for i := 0; i < n && cut < 0; i++ {
			if isEar(pg, idx, i) {
				cut = i
			}
		}
		if cut >= 0 {
			a, b, c := idx[(cut+n-1)%n], idx[cut], idx[(cut+1)%n]
			tris = append(tris, [3]int{a, b, c})
			idx = append(idx[:cut], idx[cut+1:]...)
			continue
		}
		// No clean ear: drop a straight corner, else clip the first convex one.
		cut = -1
		for i := 0; i < n && cut < 0; i++ {
			if math.Abs(pg.cross(idx[(i+n-1)%n], idx[i], idx[(i+1)%n])) <= pg.eps {
				cut = i
			}
		}
		if cut < 0 {
			for i := 0; i < n && cut < 0; i++ {
				a, b, c := idx[(i+n-1)%n], idx[i], idx[(i+1)%n]
				if pg.cross(a, b, c) > pg.eps {
					tris = append(tris, [3]int{a, b, c})
					cut = i
				}
			}
		}
		if cut < 0 {
			return tris
		}
		idx = append(idx[:cut], idx[cut+1:]...)
	}
	if len(idx) == 3 && pg.cross(idx[0], idx[1], idx[2]) > pg.eps {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

// isEar reports whether the corner at position i is convex and no other
// vertex lies in or on its triangle.
func isEar(pg polygon, idx []int, i int) bool {
	n := len(idx)
	a, b, c := idx[(i+n-1)%n], idx[i], idx[(i+1)%n]
	if pg.cross(a, b, c) <= pg.eps {
		return false
	}
	for j, p := range idx {
		if j == i || j == (i+n-1)%n || j == (i+1)%n {
			continue
		}
		if pg.same(p, a) || pg.same(p, b) || pg.same(p, c) {
			continue
		}
		if pg.cross(a, b, p) >= -pg.eps && pg.cross(b, c, p) >= -pg.eps && pg.cross(c, a, p) >= -pg.eps {
			return false
		}
	}
	return true
}
