package boolean

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// halfEdge is one directed use of an edge while splitting a face.
type halfEdge struct {
	from, to *poolVertex
	edge     topo.Shape // oriented from -> to
	dir      geom.Vec2  // unit direction in the face frame
	twin     int        // -1 for boundary half-edges
	dead     bool
}

// loop is a closed sequence of oriented edges in a face frame.
type loop struct {
	edges []topo.Shape
	uv    []geom.Vec2
	area  float64
}

// faceSplit is the outcome of splitting one face. It is computed in
// parallel and applied in face order.
type faceSplit struct {
	unchanged bool
	loops     []loop
	warnings  []Warning
}

// splitFace cuts face fi along the section edges lying in it. Boundary
// blocks contribute one half-edge in the direction the face uses them;
// section blocks contribute one in each direction. Loops are traced by
// always taking the smallest clockwise turn from the reversed incoming
// direction, which keeps the face on the left and yields counter-clockwise
// outer loops and clockwise holes. It only reads ds.
func (ds *DS) splitFace(fi int) faceSplit {
	f := &ds.faces[fi]
	var sp faceSplit
	var hes []halfEdge
	uv := func(pv *poolVertex) geom.Vec2 { return f.plane.Project(pv.p) }
	add := func(from, to *poolVertex, e topo.Shape, twin int) {
		d := uv(to).Sub(uv(from))
		if l := d.Len(); l > 0 {
			d = d.Mul(1 / l)
		}
		hes = append(hes, halfEdge{from: from, to: to, edge: e, dir: d, twin: twin})
	}

	originals := true
	boundary := make(map[uint64]bool)
	for _, w := range f.shape.Children() {
		for _, e := range topo.OrderedEdges(w) {
			ei := ds.edgeIndex[e.ID()]
			blocks := ds.edges[ei].blocks
			if len(blocks) != 1 || blocks[0].Common.Rep.ID() != e.ID() {
				originals = false
			}
			fwd := e.Orientation() == topo.Forward
			for k := range blocks {
				pb := blocks[k]
				from, to := pb.Pave1.pv, pb.Pave2.pv
				if !fwd {
					pb = blocks[len(blocks)-1-k]
					from, to = pb.Pave2.pv, pb.Pave1.pv
				}
				add(from, to, repFrom(pb, from.v), -1)
				boundary[pb.Common.Rep.ID()] = true
			}
		}
	}

	seen := make(map[uint64]bool)
	cuts := 0
	for _, si := range ds.cuts[fi] {
		for _, pb := range ds.edges[si].blocks {
			id := pb.Common.Rep.ID()
			if boundary[id] || seen[id] {
				continue
			}
			seen[id] = true
			n := len(hes)
			add(pb.Pave1.pv, pb.Pave2.pv, repFrom(pb, pb.Pave1.Vertex), n+1)
			add(pb.Pave2.pv, pb.Pave1.pv, repFrom(pb, pb.Pave2.Vertex), n)
			cuts++
		}
	}
	if cuts == 0 && originals {
		sp.unchanged = true
		return sp
	}

	sp.warnings = append(sp.warnings, pruneDangling(hes)...)
	sp.loops, sp.warnings = ds.traceLoops(hes, uv, sp.warnings)
	return sp
}

// pruneDangling removes section half-edge pairs with an end no other edge
// reaches, repeatedly, and reports each removal.
func pruneDangling(hes []halfEdge) []Warning {
	degree := make(map[*poolVertex]int)
	for i, h := range hes {
		if h.twin >= 0 && h.twin < i {
			continue
		}
		degree[h.from]++
		degree[h.to]++
	}
	var warns []Warning
	for changed := true; changed; {
		changed = false
		for i := range hes {
			h := &hes[i]
			if h.dead || h.twin < 0 || h.twin < i {
				continue
			}
			if degree[h.from] > 1 && degree[h.to] > 1 {
				continue
			}
			h.dead = true
			hes[h.twin].dead = true
			degree[h.from]--
			degree[h.to]--
			changed = true
			warns = append(warns, Warning{
				Kind:    WarnUnmatchedEdgeEnd,
				ShapeID: h.edge.ID(),
				Message: "section edge with a free end dropped while splitting a face",
			})
		}
	}
	return warns
}

// traceLoops walks the live half-edges into closed loops.
func (ds *DS) traceLoops(hes []halfEdge, uv func(*poolVertex) geom.Vec2, warns []Warning) ([]loop, []Warning) {
	out := make(map[*poolVertex][]int)
	for i, h := range hes {
		if !h.dead {
			out[h.from] = append(out[h.from], i)
		}
	}
	used := make([]bool, len(hes))
	var loops []loop
	for start := range hes {
		if hes[start].dead || used[start] {
			continue
		}
		var lp loop
		visited := make(map[*poolVertex]bool)
		h, closed := start, false
		for steps := 0; steps <= len(hes); steps++ {
			used[h] = true
			lp.edges = append(lp.edges, hes[h].edge)
			lp.uv = append(lp.uv, uv(hes[h].from))
			visited[hes[h].from] = true
			next := ds.nextHalfEdge(hes, out[hes[h].to], h, visited)
			if next == start {
				closed = true
				break
			}
			if next < 0 || used[next] {
				break
			}
			h = next
		}
		if !closed {
			warns = append(warns, Warning{
				Kind:    WarnLooseWire,
				ShapeID: hes[start].edge.ID(),
				Message: fmt.Sprintf("open chain of %d edges left while splitting a face", len(lp.edges)),
			})
			continue
		}
		lp.area = geom.SignedArea(lp.uv)
		loops = append(loops, lp)
	}
	return loops, warns
}

// nextHalfEdge picks the outgoing half-edge after h: the smallest
// clockwise angle from the reversed incoming direction. Ties prefer a
// candidate leading back to a vertex of the current loop, then the lower
// edge ID, then forward use.
func (ds *DS) nextHalfEdge(hes []halfEdge, outs []int, h int, visited map[*poolVertex]bool) int {
	back := hes[h].dir.Mul(-1)
	angTol := ds.prec.Angular
	best, bestAng := -1, math.Inf(1)
	for _, c := range outs {
		ang := geom.ClockwiseAngle(back, hes[c].dir, angTol)
		switch {
		case best < 0 || ang < bestAng-angTol:
			best, bestAng = c, ang
		case math.Abs(ang-bestAng) <= angTol && preferHalfEdge(&hes[c], &hes[best], visited):
			best, bestAng = c, ang
		}
	}
	return best
}

func preferHalfEdge(c, b *halfEdge, visited map[*poolVertex]bool) bool {
	if vc, vb := visited[c.to], visited[b.to]; vc != vb {
		return vc
	}
	if c.edge.ID() != b.edge.ID() {
		return c.edge.ID() < b.edge.ID()
	}
	return c.edge.Orientation() == topo.Forward && b.edge.Orientation() == topo.Reversed
}
