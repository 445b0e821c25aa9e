package boolean

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/topo"
)

// Pave is a vertex placed on an edge at a curve parameter.
type Pave struct {
	Vertex topo.Shape
	Param  float64
	// Source is the interference that produced the vertex, -1 for vertices
	// that were not met by any interference.
	Source int
	pv     *poolVertex
}

// PaveBlock is the part of an edge between two consecutive paves. The
// blocks of one edge are contiguous, do not overlap and cover the edge.
type PaveBlock struct {
	Edge         int
	Pave1, Pave2 Pave
	Common       *CommonBlock
}

// Length returns the parameter length of the block.
func (pb *PaveBlock) Length() float64 { return pb.Pave2.Param - pb.Pave1.Param }

// collectPaves returns the sorted candidate paves of edge i: its ends and
// every pool vertex lying on its interior. It only reads ds.
func (ds *DS) collectPaves(i int) []Pave {
	e := &ds.edges[i]
	ps := []Pave{
		{Vertex: e.v1.v, Param: e.first, Source: e.v1.src, pv: e.v1},
		{Vertex: e.v2.v, Param: e.last, Source: e.v2.src, pv: e.v2},
	}
	for _, pv := range ds.pool.near(e.box, e.tol) {
		if pv == e.v1 || pv == e.v2 {
			continue
		}
		t := e.line.Project(pv.p)
		if t <= e.first || t >= e.last {
			continue
		}
		if e.line.Distance(pv.p) > pv.tol+e.tol {
			continue
		}
		ps = append(ps, Pave{Vertex: pv.v, Param: t, Source: pv.src, pv: pv})
	}
	sort.SliceStable(ps, func(a, b int) bool {
		if ps[a].Param != ps[b].Param {
			return ps[a].Param < ps[b].Param
		}
		return ps[a].Vertex.ID() < ps[b].Vertex.ID()
	})
	return ps
}

// makePaves places paves on every edge and cuts the edges into blocks.
// Candidate collection runs in parallel. Paves of one edge closer than the
// edge tolerance are then merged into one pool vertex, in edge order, and
// the blocks are built from the merged vertices.
func (ds *DS) makePaves() {
	cands := make([][]Pave, len(ds.edges))
	parallel(len(ds.edges), ds.opts.Workers, func(i int) {
		cands[i] = ds.collectPaves(i)
	})
	for i := range ds.edges {
		ds.mergePaves(i, cands[i])
	}
	for i := range ds.edges {
		e := &ds.edges[i]
		e.v1, e.v2 = ds.pool.resolve(e.v1), ds.pool.resolve(e.v2)
		e.blocks = ds.makeBlocks(i, ds.resolvePaves(i, cands[i]))
	}
}

// mergePaves merges consecutive distinct paves of edge i that lie closer
// than the edge tolerance. An end vertex of the edge is kept over an
// interior one; otherwise the vertex with the tighter tolerance is kept
// and widened to cover the other.
func (ds *DS) mergePaves(i int, ps []Pave) {
	e := &ds.edges[i]
	v1, v2 := ds.pool.resolve(e.v1), ds.pool.resolve(e.v2)
	last := ds.pool.resolve(ps[0].pv)
	lastParam := ps[0].Param
	for _, p := range ps[1:] {
		pv := ds.pool.resolve(p.pv)
		gap := p.Param - lastParam
		lastParam = p.Param
		if pv == last || gap > e.tol {
			last = pv
			continue
		}
		keep, drop := last, pv
		switch {
		case (keep == v1 || keep == v2) && (drop == v1 || drop == v2):
			// The whole edge is shorter than its tolerance; makeBlocks
			// reports it.
			last = pv
			continue
		case drop == v1 || drop == v2:
			keep, drop = drop, keep
		case keep == v1 || keep == v2:
		case drop.tol < keep.tol || (drop.tol == keep.tol && drop.v.ID() < keep.v.ID()):
			keep, drop = drop, keep
		}
		ds.degenerateBlocks++
		ds.warn(Warning{
			Kind:    WarnDegenerateBlock,
			ShapeID: drop.v.ID(),
			Message: fmt.Sprintf("paves %s and %s on edge %d closer than %.3g merged", keep.v, drop.v, i, e.tol),
		})
		last = ds.pool.merge(keep, drop)
	}
}

// resolvePaves replaces merged vertices by the vertices that replaced
// them and restores the pave order: the first vertex, the interior paves
// by parameter, the last vertex.
func (ds *DS) resolvePaves(i int, ps []Pave) []Pave {
	e := &ds.edges[i]
	out := []Pave{ds.pave(e.v1, e.first)}
	for _, p := range ps {
		pv := ds.pool.resolve(p.pv)
		if pv == e.v1 || pv == e.v2 {
			continue
		}
		if pv != p.pv {
			p = ds.pave(pv, math.Min(math.Max(e.line.Project(pv.p), e.first), e.last))
		}
		out = append(out, p)
	}
	sort.SliceStable(out[1:], func(a, b int) bool {
		pa, pb := out[1+a], out[1+b]
		if pa.Param != pb.Param {
			return pa.Param < pb.Param
		}
		return pa.Vertex.ID() < pb.Vertex.ID()
	})
	return append(out, ds.pave(e.v2, e.last))
}

func (ds *DS) pave(pv *poolVertex, t float64) Pave {
	return Pave{Vertex: pv.v, Param: t, Source: pv.src, pv: pv}
}

// makeBlocks builds the blocks between consecutive distinct paves. Paves
// that are still closer than the edge tolerance, and zero-length blocks,
// are dropped.
func (ds *DS) makeBlocks(i int, ps []Pave) []*PaveBlock {
	e := &ds.edges[i]
	merged := []Pave{ps[0]}
	for _, p := range ps[1:] {
		last := merged[len(merged)-1]
		if p.pv == last.pv {
			if p.pv == e.v2 && len(merged) == 1 {
				ds.degenerateBlocks++
				ds.warn(Warning{
					Kind:    WarnDegenerateBlock,
					ShapeID: p.Vertex.ID(),
					Message: fmt.Sprintf("edge %d starts and ends at the same vertex", i),
				})
			}
			continue
		}
		if p.Param-last.Param > e.tol {
			merged = append(merged, ds.notePave(i, p))
			continue
		}
		ds.degenerateBlocks++
		ds.warn(Warning{
			Kind:    WarnDegenerateBlock,
			ShapeID: p.Vertex.ID(),
			Message: fmt.Sprintf("paves %s and %s on edge %d closer than %.3g", last.Vertex, p.Vertex, i, e.tol),
		})
		if p.pv == e.v2 && len(merged) > 1 {
			merged[len(merged)-1] = p
		}
	}
	blocks := make([]*PaveBlock, 0, len(merged)-1)
	for k := 0; k+1 < len(merged); k++ {
		blocks = append(blocks, &PaveBlock{Edge: i, Pave1: merged[k], Pave2: merged[k+1]})
	}
	return blocks
}

// notePave records a vertex/edge interference for an interior pave that
// no intersection produced, such as a vertex of the other operand lying
// on the edge.
func (ds *DS) notePave(i int, p Pave) Pave {
	e := &ds.edges[i]
	if p.pv == e.v2 || p.Source >= 0 || e.isSection() {
		return p
	}
	idx := ds.addInterference(Interference{
		Kind:      KindVE,
		Index1:    ds.vertexIndex(p.pv),
		Index2:    i,
		Param2:    p.Param,
		Vertex:    p.Vertex,
		Tolerance: p.pv.tol,
	})
	p.pv.src = idx
	p.Source = idx
	return p
}

// PaveBlocksCover reports whether the blocks of edge i are contiguous and
// span the edge from its first to its last vertex.
func (ds *DS) PaveBlocksCover(i int) bool {
	e := &ds.edges[i]
	bs := e.blocks
	if len(bs) == 0 {
		return false
	}
	if bs[0].Pave1.pv != e.v1 || bs[len(bs)-1].Pave2.pv != e.v2 {
		return false
	}
	for k, b := range bs {
		if b.Length() <= 0 {
			return false
		}
		if k > 0 && bs[k-1].Pave2.pv != b.Pave1.pv {
			return false
		}
	}
	return true
}
