package boolean

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// pieceRef is a face image with the face it came from.
type pieceRef struct {
	shape topo.Shape
	face  int
}

func (ds *DS) pieces() []pieceRef {
	var out []pieceRef
	for fi, img := range ds.images {
		for _, p := range img {
			out = append(out, pieceRef{shape: p, face: fi})
		}
	}
	return out
}

// onFace reports whether piece lies on a face of the other operand, and
// whether their outward normals agree.
func (ds *DS) onFace(pr pieceRef) (on, same bool) {
	f := &ds.faces[pr.face]
	p, ok := topo.FaceInteriorPoint(pr.shape)
	if !ok {
		return false, false
	}
	for _, oi := range ds.opFaces(1 - f.operand) {
		o := &ds.faces[oi]
		tol := f.tol + o.tol
		if !o.box.Enlarge(tol).Contains(p) {
			continue
		}
		if !ds.prec.Parallel(f.plane.N, o.plane.N) {
			continue
		}
		if math.Abs(o.plane.Distance(p)) > tol {
			continue
		}
		if geom.Locate(o.plane.Project(p), o.loops, tol) != geom.Outside {
			return true, f.plane.N.Dot(o.plane.N) > 0
		}
	}
	return false, false
}

// classify tags every face image IN, OUT or ON relative to the other
// operand. ON pieces are found face by face; the rest are grouped into
// patches connected across non-ON edges, and one point membership test
// classifies a whole patch.
func (ds *DS) classify() error {
	pieces := ds.pieces()
	type onResult struct{ on, same bool }
	ons := make([]onResult, len(pieces))
	parallel(len(pieces), ds.opts.Workers, func(i int) {
		on, same := ds.onFace(pieces[i])
		ons[i] = onResult{on, same}
	})
	for i, pr := range pieces {
		if ons[i].on {
			ds.states[pr.shape.ID()] = StateOn
			ds.sameSense[pr.shape.ID()] = ons[i].same
		}
	}

	patches := ds.patches(pieces)
	results := make([]State, len(patches))
	errs := make([]error, len(patches))
	parallel(len(patches), ds.opts.Workers, func(i int) {
		results[i], errs[i] = ds.classifyPatch(patches[i])
	})
	for i, patch := range patches {
		if errs[i] != nil {
			return errs[i]
		}
		for _, pr := range patch {
			ds.states[pr.shape.ID()] = results[i]
		}
	}

	// Anything the patches missed gets a direct test.
	for _, pr := range pieces {
		if ds.states[pr.shape.ID()] != StateUnknown {
			continue
		}
		st, err := ds.classifyPatch([]pieceRef{pr})
		if err != nil {
			return err
		}
		ds.states[pr.shape.ID()] = st
	}
	ds.classifyEdges(pieces)
	return nil
}

// patches groups the non-ON pieces of each operand into components
// connected through shared edges that are not ON.
func (ds *DS) patches(pieces []pieceRef) [][]pieceRef {
	byEdge := make(map[uint64][]int)
	for i, pr := range pieces {
		if ds.states[pr.shape.ID()] == StateOn {
			continue
		}
		for _, e := range topo.Explore(pr.shape, topo.Edge) {
			if ds.onEdge[e.ID()] {
				continue
			}
			byEdge[e.ID()] = append(byEdge[e.ID()], i)
		}
	}
	seen := make([]bool, len(pieces))
	var out [][]pieceRef
	for i, pr := range pieces {
		if seen[i] || ds.states[pr.shape.ID()] == StateOn {
			continue
		}
		op := ds.faces[pr.face].operand
		var patch []pieceRef
		stack := []int{i}
		seen[i] = true
		for len(stack) > 0 {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			patch = append(patch, pieces[k])
			for _, e := range topo.Explore(pieces[k].shape, topo.Edge) {
				for _, n := range byEdge[e.ID()] {
					if seen[n] || ds.faces[pieces[n].face].operand != op {
						continue
					}
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		out = append(out, patch)
	}
	return out
}

// classifyPatch runs the point membership test on the pieces of a patch in
// turn until one of them gives a definite IN or OUT.
func (ds *DS) classifyPatch(patch []pieceRef) (State, error) {
	var lastErr error
	for _, pr := range patch {
		f := &ds.faces[pr.face]
		p, ok := topo.FaceInteriorPoint(pr.shape)
		if !ok {
			continue
		}
		st, _, err := ds.opts.Classifier.Classify(p, ds.operands[1-f.operand], f.tol)
		if err != nil {
			lastErr = err
			continue
		}
		if st == StateIn || st == StateOut {
			return st, nil
		}
	}
	if lastErr == nil {
		lastErr = ErrUnclassifiable
	}
	return StateUnknown, fmt.Errorf("boolean: classify patch of %d faces from face %s: %w",
		len(patch), ds.faces[patch[0].face].shape, lastErr)
}

// classifyEdges tags the edges of the pieces: common-block edges lying on
// both operands are ON, the rest take the state of a piece using them.
func (ds *DS) classifyEdges(pieces []pieceRef) {
	for _, pr := range pieces {
		st := ds.states[pr.shape.ID()]
		for _, e := range topo.Explore(pr.shape, topo.Edge) {
			if ds.onEdge[e.ID()] {
				ds.edgeStates[e.ID()] = StateOn
				continue
			}
			if _, ok := ds.edgeStates[e.ID()]; !ok {
				ds.edgeStates[e.ID()] = st
			}
		}
	}
}

// Reclassify recomputes the state of a piece from scratch without using
// the patch propagation.
func (ds *DS) Reclassify(piece topo.Shape) (State, error) {
	fi, ok := ds.pieceFace[piece.ID()]
	if !ok {
		return StateUnknown, fmt.Errorf("boolean: reclassify %s: not a face image: %w", piece, ErrInvalidInput)
	}
	pr := pieceRef{shape: piece, face: fi}
	if on, _ := ds.onFace(pr); on {
		return StateOn, nil
	}
	return ds.classifyPatch([]pieceRef{pr})
}

// EdgeState returns the classification of an edge of a result candidate.
func (ds *DS) EdgeState(e topo.Shape) State { return ds.edgeStates[e.ID()] }
