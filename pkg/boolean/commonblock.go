package boolean

import (
	"github.com/chazu/kerf/pkg/topo"
)

// CommonBlock groups pave blocks from different edges that share their
// end vertices and their geometry. Every face using any of the blocks uses
// the one representative edge.
type CommonBlock struct {
	Blocks []*PaveBlock
	Rep    topo.Shape
	// On is set when the block lies on the boundary of both operands: it
	// holds blocks of both, or a section edge.
	On bool
}

type vertexPair struct{ a, b uint64 }

func pairKey(pb *PaveBlock) vertexPair {
	a, b := pb.Pave1.Vertex.ID(), pb.Pave2.Vertex.ID()
	if a > b {
		a, b = b, a
	}
	return vertexPair{a, b}
}

// makeCommonBlocks groups coincident blocks and builds a representative
// edge for each group.
func (ds *DS) makeCommonBlocks() {
	groups := make(map[vertexPair][]*CommonBlock)
	var order []*CommonBlock
	for i := range ds.edges {
		for _, pb := range ds.edges[i].blocks {
			k := pairKey(pb)
			var cb *CommonBlock
			for _, c := range groups[k] {
				if ds.coincidentBlocks(c.Blocks[0], pb) {
					cb = c
					break
				}
			}
			if cb == nil {
				cb = &CommonBlock{}
				groups[k] = append(groups[k], cb)
				order = append(order, cb)
			}
			cb.Blocks = append(cb.Blocks, pb)
			pb.Common = cb
		}
	}
	for _, cb := range order {
		ds.makeRep(cb)
	}
	ds.commons = order
}

// coincidentBlocks compares two blocks with the same end vertices at
// interior samples.
func (ds *DS) coincidentBlocks(a, b *PaveBlock) bool {
	ea, eb := &ds.edges[a.Edge], &ds.edges[b.Edge]
	tol := ea.tol + eb.tol
	for _, s := range []float64{0.25, 0.5, 0.75} {
		t := b.Pave1.Param + s*b.Length()
		if ea.line.Distance(eb.line.Point(t)) > tol {
			return false
		}
	}
	return true
}

// makeRep picks or builds the representative edge of cb: the original edge
// with the lowest ID when one of its blocks covers it whole, otherwise a
// new edge on the curve of that block or of the first section block.
func (ds *DS) makeRep(cb *CommonBlock) {
	var hasA, hasB, hasSection bool
	var best *PaveBlock
	for _, pb := range cb.Blocks {
		e := &ds.edges[pb.Edge]
		switch e.operand {
		case 0:
			hasA = true
		case 1:
			hasB = true
		default:
			hasSection = true
			continue
		}
		if best == nil || e.shape.ID() < ds.edges[best.Edge].shape.ID() {
			best = pb
		}
	}
	cb.On = hasSection || (hasA && hasB)
	if best == nil {
		best = cb.Blocks[0]
	}
	e := &ds.edges[best.Edge]
	if !e.isSection() && ds.wholeEdge(e, best) {
		cb.Rep = e.shape
	} else {
		cb.Rep = ds.b.MakeEdgeOn(e.line, best.Pave1.Vertex, best.Pave2.Vertex, best.Pave1.Param, best.Pave2.Param)
	}
	ds.onEdge[cb.Rep.ID()] = cb.On
}

// wholeEdge reports whether pb is the only block of e and e still refers to
// its canonical vertices.
func (ds *DS) wholeEdge(e *edgeInfo, pb *PaveBlock) bool {
	if len(e.blocks) != 1 || pb.Pave1.pv != e.v1 || pb.Pave2.pv != e.v2 {
		return false
	}
	v1, v2 := topo.EdgeVertices(e.shape)
	return v1.IsSame(e.v1.v) && v2.IsSame(e.v2.v)
}

// repFrom returns the representative of pb oriented to start at from.
func repFrom(pb *PaveBlock, from topo.Shape) topo.Shape {
	rep := pb.Common.Rep
	if s, _ := topo.EdgeVertices(rep); s.IsSame(from) {
		return rep
	}
	return rep.Reversed()
}
