package boolean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

type wireFixture struct {
	b  *topo.Builder
	ds *DS
}

func newWireFixture() *wireFixture {
	return &wireFixture{
		b:  topo.NewBuilder(),
		ds: &DS{prec: geom.DefaultPrecision()},
	}
}

func (f *wireFixture) vertex(x, y float64) *poolVertex {
	p := geom.V3(x, y, 0)
	return &poolVertex{v: f.b.MakeVertex(p, 0), p: p, src: -1, index: -1}
}

func (f *wireFixture) half(t *testing.T, from, to *poolVertex) halfEdge {
	t.Helper()
	e, err := f.b.MakeEdge(from.v, to.v)
	require.NoError(t, err)
	d := geom.V2(to.p[0]-from.p[0], to.p[1]-from.p[1])
	return halfEdge{from: from, to: to, edge: e, dir: d.Normalize(), twin: -1}
}

func TestNextHalfEdgeTightestTurn(t *testing.T) {
	f := newWireFixture()
	o, south := f.vertex(1, 0.5), f.vertex(1, 0)
	north, west := f.vertex(1, 1), f.vertex(0, 0.5)

	hes := []halfEdge{
		f.half(t, south, o),
		f.half(t, o, north),
		f.half(t, o, west),
		f.half(t, o, south),
	}
	next := f.ds.nextHalfEdge(hes, []int{1, 2, 3}, 0, map[*poolVertex]bool{})
	assert.Equal(t, 2, next, "the cut to the west is the tightest turn")

	next = f.ds.nextHalfEdge(hes, []int{1, 3}, 0, map[*poolVertex]bool{})
	assert.Equal(t, 1, next, "going back is the last choice")
}

func TestNextHalfEdgeTieBreak(t *testing.T) {
	f := newWireFixture()
	o, in := f.vertex(0, 0), f.vertex(0, 1)
	near, far := f.vertex(1, 0), f.vertex(2, 0)

	hes := []halfEdge{
		f.half(t, in, o),
		f.half(t, o, near),
		f.half(t, o, far),
	}
	require.Less(t, hes[1].edge.ID(), hes[2].edge.ID())

	tests := []struct {
		name    string
		visited map[*poolVertex]bool
		want    int
	}{
		{"lower edge id", map[*poolVertex]bool{}, 1},
		{"visited far vertex", map[*poolVertex]bool{far: true}, 2},
		{"both visited", map[*poolVertex]bool{near: true, far: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ds.nextHalfEdge(hes, []int{2, 1}, 0, tt.visited))
		})
	}

	t.Run("forward before reversed", func(t *testing.T) {
		fwd := hes[1]
		rev := fwd
		rev.edge = fwd.edge.Reversed()
		assert.True(t, preferHalfEdge(&fwd, &rev, nil))
		assert.False(t, preferHalfEdge(&rev, &fwd, nil))
	})
}

func TestPruneDangling(t *testing.T) {
	f := newWireFixture()
	a, b, c := f.vertex(0, 0), f.vertex(1, 0), f.vertex(1, 1)
	tail := f.vertex(2, 2)

	hes := []halfEdge{
		f.half(t, a, b),
		f.half(t, b, c),
		f.half(t, c, a),
	}
	cut := f.half(t, c, tail)
	back := f.half(t, tail, c)
	cut.twin, back.twin = 4, 3
	hes = append(hes, cut, back)

	warns := pruneDangling(hes)
	require.Len(t, warns, 1)
	assert.Equal(t, WarnUnmatchedEdgeEnd, warns[0].Kind)
	assert.True(t, hes[3].dead)
	assert.True(t, hes[4].dead)
	for _, h := range hes[:3] {
		assert.False(t, h.dead)
	}
}
