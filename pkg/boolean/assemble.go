package boolean

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/topo"
)

// selectFaces returns the pieces forming the boundary of the result of a
// solid operation, in face order. Pieces of B kept by Cut are reversed.
func (ds *DS) selectFaces(op Operation) []topo.Shape {
	var out []topo.Shape
	for _, pr := range ds.pieces() {
		id := pr.shape.ID()
		fromA := ds.faces[pr.face].operand == 0
		st, same := ds.states[id], ds.sameSense[id]
		switch op {
		case OpFuse:
			if st == StateOut || (st == StateOn && fromA && same) {
				out = append(out, pr.shape)
			}
		case OpCommon:
			if st == StateIn || (st == StateOn && fromA && same) {
				out = append(out, pr.shape)
			}
		case OpCut:
			switch {
			case fromA && (st == StateOut || (st == StateOn && !same)):
				out = append(out, pr.shape)
			case !fromA && st == StateIn:
				out = append(out, pr.shape.Reversed())
			}
		}
	}
	return out
}

// unionFind groups face indices.
type unionFind []int

func newUnionFind(n int) unionFind {
	u := make(unionFind, n)
	for i := range u {
		u[i] = i
	}
	return u
}

func (u unionFind) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	u[rb] = ra
}

// glue groups faces into shells. Faces sharing an edge used by exactly
// two of them are glued; edges used by more are reported non-manifold and
// glue nothing.
func (ds *DS) glue(faces []topo.Shape) [][]topo.Shape {
	users := make(map[uint64][]int)
	var edges []uint64
	for i, f := range faces {
		for _, e := range topo.Explore(f, topo.Edge) {
			if _, ok := users[e.ID()]; !ok {
				edges = append(edges, e.ID())
			}
			users[e.ID()] = append(users[e.ID()], i)
		}
	}
	uf := newUnionFind(len(faces))
	for _, id := range edges {
		us := users[id]
		switch {
		case len(us) == 2:
			uf.union(us[0], us[1])
		case len(us) > 2:
			ds.warn(Warning{
				Kind:    WarnNonManifoldEdge,
				ShapeID: id,
				Message: fmt.Sprintf("edge shared by %d result faces", len(us)),
			})
		}
	}
	groups := make(map[int][]topo.Shape)
	var roots []int
	for i, f := range faces {
		r := uf.find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], f)
	}
	return lo.Map(roots, func(r int, _ int) []topo.Shape { return groups[r] })
}

// assembleSolids builds the result of a solid operation: a compound of
// solids, plus open shells in best-effort mode. closed is false when any
// shell was left open.
func (ds *DS) assembleSolids(op Operation) (topo.Shape, bool, error) {
	faces := ds.selectFaces(op)
	minVol := math.Pow(ds.opts.Tolerance, 3)

	type outer struct {
		shell    topo.Shape
		volume   float64
		cavities []topo.Shape
	}
	var outers []*outer
	var cavities, open []topo.Shape
	for _, fs := range ds.glue(faces) {
		sh := ds.b.MakeShell(fs...)
		if !topo.IsClosedShell(sh) {
			open = append(open, sh)
			ds.warn(Warning{Kind: WarnOpenShell, ShapeID: sh.ID(), Message: fmt.Sprintf("shell of %d faces is not closed", len(fs))})
			continue
		}
		switch v := topo.Volume(sh); {
		case v > minVol:
			outers = append(outers, &outer{shell: sh, volume: v})
		case v < -minVol:
			cavities = append(cavities, sh)
		default:
			open = append(open, sh)
			ds.warn(Warning{Kind: WarnOpenShell, ShapeID: sh.ID(), Message: "closed shell encloses no volume"})
		}
	}

	for _, cav := range cavities {
		p, ok := topo.FaceInteriorPoint(topo.Explore(cav, topo.Face)[0])
		var best *outer
		for _, o := range outers {
			if !ok {
				break
			}
			st, _, err := ds.opts.Classifier.Classify(p, ds.b.MakeSolid(o.shell), ds.opts.Tolerance)
			if err != nil {
				return topo.Shape{}, false, err
			}
			if st == StateIn && (best == nil || o.volume < best.volume) {
				best = o
			}
		}
		if best == nil {
			open = append(open, cav)
			ds.warn(Warning{Kind: WarnOpenShell, ShapeID: cav.ID(), Message: "cavity shell outside every outer shell"})
			continue
		}
		best.cavities = append(best.cavities, cav)
	}

	if len(open) > 0 && ds.opts.Strict {
		return topo.Shape{}, false, fmt.Errorf("boolean: %s: %d shells could not be closed: %w", op, len(open), ErrNotWellDefined)
	}
	parts := make([]topo.Shape, 0, len(outers)+len(open))
	for _, o := range outers {
		parts = append(parts, ds.b.MakeSolid(append([]topo.Shape{o.shell}, o.cavities...)...))
	}
	parts = append(parts, open...)
	return ds.b.MakeCompound(parts...), len(open) == 0, nil
}

// assembleSection builds the section result: the edges lying on both
// operands and the vertices where they only touch. closed reports whether
// every section vertex ends at least two section edges.
func (ds *DS) assembleSection() (topo.Shape, int, bool) {
	var edges []topo.Shape
	degree := make(map[uint64]int)
	for _, cb := range ds.commons {
		if !cb.On {
			continue
		}
		edges = append(edges, cb.Rep)
		v1, v2 := topo.EdgeVertices(cb.Rep)
		degree[v1.ID()]++
		degree[v2.ID()]++
	}
	var touches []topo.Shape
	for _, in := range ds.interferences {
		v := in.Vertex
		if v.IsNull() {
			continue
		}
		if pv := ds.pool.canon(v); pv != nil {
			v = pv.v
		}
		if _, ok := degree[v.ID()]; ok {
			continue
		}
		touches = append(touches, v)
	}
	touches = lo.UniqBy(touches, func(v topo.Shape) uint64 { return v.ID() })
	closed := lo.EveryBy(lo.Values(degree), func(d int) bool { return d >= 2 })
	return ds.b.MakeCompound(append(edges, touches...)...), len(edges), closed
}
