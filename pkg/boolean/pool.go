package boolean

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// poolVertex is one canonical vertex of a run. Input vertices keep their
// shape untouched; a widened tolerance is tracked here instead.
type poolVertex struct {
	v     topo.Shape
	p     geom.Vec3
	tol   float64
	owned bool // created by this run
	src   int  // first interference that produced or met it, -1 if none
	index int  // first slot in DS.vertices, -1 for vertices made by the run
	rect  rtreego.Rect
}

func (pv *poolVertex) Bounds() rtreego.Rect { return pv.rect }

// vertexPool merges points closer than the sum of their tolerances into
// one vertex. Lookups are tolerant and go through an R-tree.
type vertexPool struct {
	b       *topo.Builder
	prec    geom.Precision
	ceiling float64
	tree    *rtreego.Rtree
	byID    map[uint64]*poolVertex
	alias   map[*poolVertex]*poolVertex // merged away -> kept
	order   []*poolVertex
	maxTol  float64
	warn    func(Warning)
}

func newVertexPool(b *topo.Builder, prec geom.Precision, ceiling float64, warn func(Warning)) *vertexPool {
	return &vertexPool{
		b:       b,
		prec:    prec,
		ceiling: ceiling,
		tree:    rtreego.NewTree(3, 8, 32),
		byID:    make(map[uint64]*poolVertex),
		alias:   make(map[*poolVertex]*poolVertex),
		warn:    warn,
	}
}

func pointRect(p geom.Vec3, r float64) rtreego.Rect {
	return rtreego.Point{p[0], p[1], p[2]}.ToRect(r)
}

func (vp *vertexPool) insert(pv *poolVertex) {
	pv.rect = pointRect(pv.p, math.Max(pv.tol, vp.prec.Linear))
	vp.tree.Insert(pv)
	vp.byID[pv.v.ID()] = pv
	vp.order = append(vp.order, pv)
	vp.maxTol = math.Max(vp.maxTol, pv.tol)
}

// find returns the closest pool vertex coincident with p, or nil.
func (vp *vertexPool) find(p geom.Vec3, tol float64) (*poolVertex, float64) {
	r := tol + vp.maxTol + vp.prec.Linear
	var best *poolVertex
	bestD := math.Inf(1)
	for _, s := range vp.tree.SearchIntersect(pointRect(p, r)) {
		pv := s.(*poolVertex)
		d := geom.Dist(p, pv.p)
		if !vp.prec.Coincident(p, pv.p, tol, pv.tol) {
			continue
		}
		if d < bestD || (d == bestD && pv.v.ID() < best.v.ID()) {
			best, bestD = pv, d
		}
	}
	return best, bestD
}

// register adds an existing vertex, merging it into a coincident pool
// vertex when one exists. It reports the canonical vertex and whether a
// merge happened.
func (vp *vertexPool) register(v topo.Shape, tol float64) (*poolVertex, bool) {
	if pv, ok := vp.byID[v.ID()]; ok {
		return pv, false
	}
	p := topo.Point(v)
	if pv, d := vp.find(p, tol); pv != nil {
		vp.widen(pv, d)
		vp.byID[v.ID()] = pv
		return pv, true
	}
	pv := &poolVertex{v: v, p: p, tol: tol, src: -1, index: -1}
	vp.insert(pv)
	return pv, false
}

// at returns the canonical vertex for point p, creating one if no
// coincident vertex exists.
func (vp *vertexPool) at(p geom.Vec3, tol float64) *poolVertex {
	if pv, d := vp.find(p, tol); pv != nil {
		vp.widen(pv, d)
		return pv
	}
	pv := &poolVertex{v: vp.b.MakeVertex(p, tol), p: p, tol: tol, owned: true, src: -1, index: -1}
	vp.insert(pv)
	return pv
}

// widen grows the tolerance of pv so that it covers a point at distance d.
func (vp *vertexPool) widen(pv *poolVertex, d float64) {
	if d <= pv.tol {
		return
	}
	old := pv.tol
	pv.tol = d
	vp.maxTol = math.Max(vp.maxTol, d)
	if pv.owned {
		vp.b.UpdateTolerance(pv.v, d)
	}
	if d > vp.ceiling && vp.warn != nil {
		vp.warn(Warning{
			Kind:    WarnToleranceIncrease,
			ShapeID: pv.v.ID(),
			Message: fmt.Sprintf("tolerance widened from %.3g to %.3g", old, d),
		})
	}
}

// canon returns the canonical pool vertex of an input vertex.
func (vp *vertexPool) canon(v topo.Shape) *poolVertex {
	return vp.resolve(vp.byID[v.ID()])
}

// resolve follows merges from pv to the vertex that replaced it.
func (vp *vertexPool) resolve(pv *poolVertex) *poolVertex {
	for pv != nil {
		next, ok := vp.alias[pv]
		if !ok {
			return pv
		}
		pv = next
	}
	return nil
}

// merge folds drop into keep. keep is widened to reach drop and every
// later lookup of drop yields keep.
func (vp *vertexPool) merge(keep, drop *poolVertex) *poolVertex {
	keep, drop = vp.resolve(keep), vp.resolve(drop)
	if keep == drop {
		return keep
	}
	vp.widen(keep, geom.Dist(keep.p, drop.p))
	if keep.src < 0 {
		keep.src = drop.src
	}
	if keep.index < 0 {
		keep.index = drop.index
	}
	vp.alias[drop] = keep
	vp.tree.Delete(drop)
	return keep
}

// near returns the pool vertices whose boxes meet b.
func (vp *vertexPool) near(b geom.Box, pad float64) []*poolVertex {
	res := vp.tree.SearchIntersect(boxRect(b, pad+vp.maxTol))
	out := make([]*poolVertex, len(res))
	for i, s := range res {
		out[i] = s.(*poolVertex)
	}
	return out
}
