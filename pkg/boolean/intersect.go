package boolean

import (
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/geom"
)

// pairTask is one candidate pair produced by the broad phase.
type pairTask struct {
	kind InterferenceKind
	i, j int // indices into ds.vertices/ds.edges/ds.faces by kind
}

// hitPoint is a transversal point outcome.
type hitPoint struct {
	p      geom.Vec3
	t1, t2 float64
	tol    float64
}

// hitSegment is a curve outcome: a portion of line lying in faces.
type hitSegment struct {
	line   geom.Line
	t0, t1 float64
	faces  []int
}

type pairResult struct {
	points     []hitPoint
	segments   []hitSegment
	coincident bool
}

// candidatePairs runs the broad phase and returns every pair of elements
// from different operands whose padded boxes overlap, in a fixed order.
func (ds *DS) candidatePairs() []pairTask {
	pad := ds.opts.Tolerance
	faceBoxes := make([]geom.Box, len(ds.faces))
	for i, f := range ds.faces {
		faceBoxes[i] = f.box.Enlarge(f.tol)
	}
	edgeBoxes := make([]geom.Box, len(ds.edges))
	for i, e := range ds.edges {
		edgeBoxes[i] = e.box.Enlarge(e.tol)
	}

	var faceIdx, edgeIdx [2]*boxIndex
	for op := 0; op < 2; op++ {
		faceIdx[op] = newBoxIndex(faceBoxes, ds.opFaces(op), pad)
		edgeIdx[op] = newBoxIndex(edgeBoxes, ds.opEdges(op), pad)
	}

	var tasks []pairTask
	for _, i := range ds.opFaces(0) {
		for _, j := range faceIdx[1].query(faceBoxes[i]) {
			tasks = append(tasks, pairTask{KindFF, i, j})
		}
	}
	for _, i := range ds.opEdges(0) {
		for _, j := range edgeIdx[1].query(edgeBoxes[i]) {
			tasks = append(tasks, pairTask{KindEE, i, j})
		}
	}
	for op := 0; op < 2; op++ {
		for _, i := range ds.opEdges(op) {
			for _, j := range faceIdx[1-op].query(edgeBoxes[i]) {
				tasks = append(tasks, pairTask{KindEF, i, j})
			}
		}
	}
	for vi, pv := range ds.vertices {
		op := ds.vertexOp[vi]
		box := geom.BoxOf(pv.p).Enlarge(pv.tol)
		for _, j := range faceIdx[1-op].query(box) {
			tasks = append(tasks, pairTask{KindVF, vi, j})
		}
	}
	return tasks
}

// intersectPair computes the outcome of one pair. It only reads ds.
func (ds *DS) intersectPair(t pairTask) pairResult {
	switch t.kind {
	case KindEE:
		return ds.intersectEE(&ds.edges[t.i], &ds.edges[t.j])
	case KindEF:
		return ds.intersectEF(t.i, t.j)
	case KindFF:
		return ds.intersectFF(t.i, t.j)
	case KindVF:
		return ds.intersectVF(ds.vertices[t.i], &ds.faces[t.j])
	}
	return pairResult{}
}

// intersectEE finds the transversal crossing of two straight edges.
// Collinear overlaps are reported as coincident without a point: their
// ends are vertices already, and the pave completion pass places them.
func (ds *DS) intersectEE(a, b *edgeInfo) pairResult {
	tol := a.tol + b.tol
	d1, d2 := a.line.Dir, b.line.Dir
	w := a.line.Origin.Sub(b.line.Origin)
	c := d1.Dot(d2)
	denom := 1 - c*c
	if denom <= ds.prec.Angular {
		if b.line.Distance(a.line.Origin) > tol {
			return pairResult{}
		}
		s0, s1 := b.line.Project(a.line.Point(a.first)), b.line.Project(a.line.Point(a.last))
		if s0 > s1 {
			s0, s1 = s1, s0
		}
		if math.Min(s1, b.last)-math.Max(s0, b.first) > tol {
			return pairResult{coincident: true}
		}
		return pairResult{}
	}
	dw1, dw2 := d1.Dot(w), d2.Dot(w)
	s := (c*dw2 - dw1) / denom
	u := (dw2 - c*dw1) / denom
	if s < a.first-tol || s > a.last+tol || u < b.first-tol || u > b.last+tol {
		return pairResult{}
	}
	p, q := a.line.Point(s), b.line.Point(u)
	if geom.Dist(p, q) > tol {
		return pairResult{}
	}
	return pairResult{points: []hitPoint{{p: geom.Lerp(p, q, 0.5), t1: s, t2: u, tol: tol}}}
}

// intersectEF crosses an edge with a face. An edge lying in the face
// plane yields the portions of the edge strictly inside the face as
// in-face segments.
func (ds *DS) intersectEF(ei, fi int) pairResult {
	e, f := &ds.edges[ei], &ds.faces[fi]
	tol := e.tol + f.tol
	denom := e.line.Dir.Dot(f.plane.N)
	dist := f.plane.Distance(e.line.Origin)
	if math.Abs(denom) <= ds.prec.Angular {
		if math.Abs(dist) > tol {
			return pairResult{}
		}
		return ds.clipInFace(e, fi)
	}
	t := -dist / denom
	if t < e.first-tol || t > e.last+tol {
		return pairResult{}
	}
	p := e.line.Point(t)
	if geom.Locate(f.plane.Project(p), f.loops, tol) == geom.Outside {
		return pairResult{}
	}
	return pairResult{points: []hitPoint{{p: p, t1: t, tol: tol}}}
}

// clipInFace returns the portions of an edge lying in the plane of a face
// that run through the face interior.
func (ds *DS) clipInFace(e *edgeInfo, fi int) pairResult {
	f := &ds.faces[fi]
	tol := e.tol + f.tol
	o := f.plane.Project(e.line.Origin)
	d := f.plane.ProjectDir(e.line.Dir)
	ts := []float64{e.first, e.last}
	for _, t := range geom.LineCrossings(o, d, f.loops, tol) {
		if t > e.first && t < e.last {
			ts = append(ts, t)
		}
	}
	ts = uniqueSorted(ts, tol)
	res := pairResult{coincident: true}
	for k := 0; k+1 < len(ts); k++ {
		t0, t1 := ts[k], ts[k+1]
		mid := o.Add(d.Mul((t0 + t1) / 2))
		if geom.Locate(mid, f.loops, tol) != geom.Inside {
			continue
		}
		res.segments = appendSegment(res.segments, hitSegment{line: e.line, t0: t0, t1: t1, faces: []int{fi}})
	}
	return res
}

// intersectFF intersects two non-parallel planar faces: the plane/plane
// line is clipped against both faces and the common parts become section
// segments. Parallel faces produce nothing here; their overlaps are found
// through the edge/face coincidences.
func (ds *DS) intersectFF(ia, ib int) pairResult {
	fa, fb := &ds.faces[ia], &ds.faces[ib]
	line, ok := geom.IntersectPlanes(fa.plane, fb.plane, ds.prec)
	if !ok {
		return pairResult{}
	}
	tol := fa.tol + fb.tol
	ra := lineIntervals(line, fa, tol)
	if len(ra) == 0 {
		return pairResult{}
	}
	rb := lineIntervals(line, fb, tol)
	var res pairResult
	for _, r := range intersectIntervals(ra, rb, tol) {
		res.segments = append(res.segments, hitSegment{line: line, t0: r[0], t1: r[1], faces: []int{ia, ib}})
	}
	return res
}

// intersectVF reports a vertex touching a face.
func (ds *DS) intersectVF(pv *poolVertex, f *faceInfo) pairResult {
	tol := pv.tol + f.tol
	if math.Abs(f.plane.Distance(pv.p)) > tol {
		return pairResult{}
	}
	if geom.Locate(f.plane.Project(pv.p), f.loops, tol) == geom.Outside {
		return pairResult{}
	}
	return pairResult{points: []hitPoint{{p: pv.p, tol: tol}}}
}

// lineIntervals returns the closed parameter intervals where line runs
// through the face or along its boundary.
func lineIntervals(line geom.Line, f *faceInfo, tol float64) [][2]float64 {
	o := f.plane.Project(line.Origin)
	d := f.plane.ProjectDir(line.Dir)
	ts := uniqueSorted(geom.LineCrossings(o, d, f.loops, tol), tol)
	var out [][2]float64
	for k := 0; k+1 < len(ts); k++ {
		t0, t1 := ts[k], ts[k+1]
		if t1-t0 <= tol {
			continue
		}
		mid := o.Add(d.Mul((t0 + t1) / 2))
		if geom.Locate(mid, f.loops, tol) == geom.Outside {
			continue
		}
		if n := len(out); n > 0 && math.Abs(out[n-1][1]-t0) <= tol {
			out[n-1][1] = t1
			continue
		}
		out = append(out, [2]float64{t0, t1})
	}
	return out
}

// intersectIntervals returns the overlaps longer than tol of two sorted
// interval lists.
func intersectIntervals(a, b [][2]float64, tol float64) [][2]float64 {
	var out [][2]float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := math.Max(a[i][0], b[j][0])
		hi := math.Min(a[i][1], b[j][1])
		if hi-lo > tol {
			out = append(out, [2]float64{lo, hi})
		}
		if a[i][1] < b[j][1] {
			i++
		} else {
			j++
		}
	}
	return out
}

// uniqueSorted sorts ts and drops values within tol of their predecessor.
func uniqueSorted(ts []float64, tol float64) []float64 {
	sort.Float64s(ts)
	out := ts[:0]
	for _, t := range ts {
		if len(out) > 0 && t-out[len(out)-1] <= tol {
			continue
		}
		out = append(out, t)
	}
	return out
}

// appendSegment appends s, merging it with the previous segment when they
// touch.
func appendSegment(segs []hitSegment, s hitSegment) []hitSegment {
	if n := len(segs); n > 0 && segs[n-1].t1 == s.t0 {
		segs[n-1].t1 = s.t1
		return segs
	}
	return append(segs, s)
}
