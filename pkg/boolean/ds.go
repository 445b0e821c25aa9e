package boolean

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// faceInfo is a face of an operand prepared for intersection.
type faceInfo struct {
	shape   topo.Shape
	operand int
	plane   geom.Plane // outward
	loops   [][]geom.Vec2
	box     geom.Box
	tol     float64
}

// edgeInfo is an input edge or an edge created by the intersector.
// Section edges have operand -1.
type edgeInfo struct {
	shape       topo.Shape // forward handle; null for section edges
	operand     int
	line        geom.Line
	first, last float64
	v1, v2      *poolVertex
	tol         float64
	box         geom.Box
	faces       []int // faces a section edge lies in
	blocks      []*PaveBlock
}

func (e *edgeInfo) isSection() bool { return e.operand < 0 }

// DS is the working data of one run: operand tables, the vertex pool,
// interferences, pave blocks, face images and states. It is built and
// consumed by PerformBoolean and discarded afterwards.
type DS struct {
	opts     Options
	b        *topo.Builder
	prec     geom.Precision
	operands [2]topo.Shape

	vertices  []*poolVertex // input vertices, A first
	vertexOp  []int
	faces     []faceInfo
	edges     []edgeInfo
	edgeIndex map[uint64]int
	faceRange [2][2]int
	edgeRange [2][2]int

	pool          *vertexPool
	interferences []Interference
	cuts          map[int][]int // face index -> section edge indices
	commons       []*CommonBlock
	onEdge        map[uint64]bool

	images     [][]topo.Shape // face index -> pieces
	pieceFace  map[uint64]int // piece ID -> face index
	states     map[uint64]State
	sameSense  map[uint64]bool
	edgeStates map[uint64]State

	warnings         []Warning
	degenerateBlocks int
	splitFaces       int
}

func newDS(a, b topo.Shape, opts Options) (*DS, error) {
	prec := geom.DefaultPrecision()
	prec.Linear = opts.Tolerance
	ds := &DS{
		opts:       opts,
		b:          &topo.Builder{Tolerance: opts.Tolerance},
		prec:       prec,
		operands:   [2]topo.Shape{a, b},
		edgeIndex:  make(map[uint64]int),
		cuts:       make(map[int][]int),
		onEdge:     make(map[uint64]bool),
		pieceFace:  make(map[uint64]int),
		states:     make(map[uint64]State),
		sameSense:  make(map[uint64]bool),
		edgeStates: make(map[uint64]State),
	}
	ds.pool = newVertexPool(ds.b, prec, opts.ToleranceCeiling, ds.warn)

	for op, s := range ds.operands {
		for _, v := range topo.Explore(s, topo.Vertex) {
			pv, merged := ds.pool.register(v, ds.tolOf(v))
			if pv.index < 0 {
				pv.index = len(ds.vertices)
			}
			ds.vertices = append(ds.vertices, pv)
			ds.vertexOp = append(ds.vertexOp, op)
			if merged && op == 1 {
				ds.addInterference(Interference{
					Kind:      KindVV,
					Index1:    ds.vertexIndex(pv),
					Index2:    len(ds.vertices) - 1,
					Vertex:    pv.v,
					Tolerance: pv.tol,
				})
			}
		}
	}
	for op, s := range ds.operands {
		start := len(ds.faces)
		for _, f := range topo.Explore(s, topo.Face) {
			fi, err := ds.newFaceInfo(f, op)
			if err != nil {
				return nil, err
			}
			ds.faces = append(ds.faces, fi)
		}
		ds.faceRange[op] = [2]int{start, len(ds.faces)}
	}
	for op, s := range ds.operands {
		start := len(ds.edges)
		for _, e := range topo.Explore(s, topo.Edge) {
			ei, err := ds.newEdgeInfo(e.Oriented(topo.Forward), op)
			if err != nil {
				return nil, err
			}
			ds.edgeIndex[e.ID()] = len(ds.edges)
			ds.edges = append(ds.edges, ei)
		}
		ds.edgeRange[op] = [2]int{start, len(ds.edges)}
	}
	return ds, nil
}

func (ds *DS) tolOf(s topo.Shape) float64 {
	return math.Max(ds.opts.Tolerance, s.Tolerance())
}

func (ds *DS) warn(w Warning) {
	ds.warnings = append(ds.warnings, w)
}

func (ds *DS) addInterference(in Interference) int {
	ds.interferences = append(ds.interferences, in)
	return len(ds.interferences) - 1
}

// vertexIndex returns the first input vertex slot of pv, or -1 when the
// run created it.
func (ds *DS) vertexIndex(pv *poolVertex) int {
	return pv.index
}

func (ds *DS) newFaceInfo(f topo.Shape, op int) (faceInfo, error) {
	plane, loops, ok := topo.FaceLoops(f)
	if !ok {
		return faceInfo{}, fmt.Errorf("boolean: face %s: surface %T: %w", f, topo.SurfaceOf(f), ErrUnsupportedGeometry)
	}
	return faceInfo{
		shape:   f,
		operand: op,
		plane:   plane,
		loops:   loops,
		box:     topo.BoundingBox(f),
		tol:     ds.tolOf(f),
	}, nil
}

func (ds *DS) newEdgeInfo(e topo.Shape, op int) (edgeInfo, error) {
	g := topo.EdgeGeometry(e)
	line, ok := g.Line()
	if !ok {
		return edgeInfo{}, fmt.Errorf("boolean: edge %s: curve %T: %w", e, g.Curve, ErrUnsupportedGeometry)
	}
	v1, v2 := topo.EdgeVertices(e)
	return edgeInfo{
		shape:   e,
		operand: op,
		line:    line,
		first:   g.First,
		last:    g.Last,
		v1:      ds.pool.canon(v1),
		v2:      ds.pool.canon(v2),
		tol:     ds.tolOf(e),
		box:     geom.BoxOf(line.Point(g.First), line.Point(g.Last)),
	}, nil
}

// addSectionEdge records a new edge on line between two pool vertices,
// lying in the given faces.
func (ds *DS) addSectionEdge(line geom.Line, t0, t1 float64, v1, v2 *poolVertex, faces []int) int {
	idx := len(ds.edges)
	ds.edges = append(ds.edges, edgeInfo{
		operand: -1,
		line:    line,
		first:   t0,
		last:    t1,
		v1:      v1,
		v2:      v2,
		tol:     math.Max(ds.opts.Tolerance, math.Max(v1.tol, v2.tol)),
		box:     geom.BoxOf(line.Point(t0), line.Point(t1)),
		faces:   faces,
	})
	for _, f := range faces {
		ds.cuts[f] = append(ds.cuts[f], idx)
	}
	return idx
}

// opFaces returns the face indices of operand op.
func (ds *DS) opFaces(op int) []int {
	r := ds.faceRange[op]
	out := make([]int, 0, r[1]-r[0])
	for i := r[0]; i < r[1]; i++ {
		out = append(out, i)
	}
	return out
}

// opEdges returns the input edge indices of operand op.
func (ds *DS) opEdges(op int) []int {
	r := ds.edgeRange[op]
	out := make([]int, 0, r[1]-r[0])
	for i := r[0]; i < r[1]; i++ {
		out = append(out, i)
	}
	return out
}

// sectionEdges returns the indices of the edges created by the
// intersector.
func (ds *DS) sectionEdges() []int {
	var out []int
	for i := ds.edgeRange[1][1]; i < len(ds.edges); i++ {
		out = append(out, i)
	}
	return out
}

// Interferences returns the intersection records of the run.
func (ds *DS) Interferences() []Interference { return ds.interferences }

// State returns the classification of a result candidate face.
func (ds *DS) State(piece topo.Shape) State { return ds.states[piece.ID()] }

// Images returns the pieces a face of an operand was split into.
func (ds *DS) Images(f topo.Shape) []topo.Shape {
	for i, fi := range ds.faces {
		if fi.shape.IsSame(f) && i < len(ds.images) {
			return ds.images[i]
		}
	}
	return nil
}
