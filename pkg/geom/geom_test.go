package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) []Vec2 {
	return []Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func TestSignedArea(t *testing.T) {
	sq := square(0, 0, 2, 1)
	assert.InDelta(t, 2.0, SignedArea(sq), 1e-12)

	rev := []Vec2{sq[3], sq[2], sq[1], sq[0]}
	assert.InDelta(t, -2.0, SignedArea(rev), 1e-12)
}

func TestLocate(t *testing.T) {
	outer := square(0, 0, 4, 4)
	hole := []Vec2{{1, 1}, {1, 3}, {3, 3}, {3, 1}}
	loops := [][]Vec2{outer, hole}

	tests := []struct {
		name string
		p    Vec2
		want Location
	}{
		{"in ring", V2(0.5, 2), Inside},
		{"in hole", V2(2, 2), Outside},
		{"outside", V2(5, 2), Outside},
		{"outer edge", V2(4, 2), OnBoundary},
		{"hole edge", V2(1, 2), OnBoundary},
		{"corner", V2(0, 0), OnBoundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locate(tt.p, loops, 1e-9))
		})
	}
}

func TestLineCrossings(t *testing.T) {
	loops := [][]Vec2{square(0, 0, 4, 4)}

	ts := LineCrossings(V2(-1, 2), V2(1, 0), loops, 1e-9)
	require.Len(t, ts, 2)
	assert.ElementsMatch(t, []float64{1, 5}, ts)

	// A line running along an edge reports both edge endpoints.
	ts = LineCrossings(V2(-1, 0), V2(1, 0), loops, 1e-9)
	assert.Contains(t, ts, 1.0)
	assert.Contains(t, ts, 5.0)
}

func TestInteriorPoint(t *testing.T) {
	outer := square(0, 0, 4, 4)
	hole := []Vec2{{1, 1}, {1, 3}, {3, 3}, {3, 1}}
	loops := [][]Vec2{outer, hole}

	p, ok := InteriorPoint(loops)
	require.True(t, ok)
	assert.Equal(t, Inside, Locate(p, loops, 1e-9))

	_, ok = InteriorPoint([][]Vec2{{{0, 0}, {1, 0}}})
	assert.False(t, ok)
}

func TestClockwiseAngle(t *testing.T) {
	west, north, east := V2(-1, 0), V2(0, 1), V2(1, 0)
	assert.InDelta(t, math.Pi/2, ClockwiseAngle(west, north, 1e-12), 1e-12)
	assert.InDelta(t, math.Pi, ClockwiseAngle(west, east, 1e-12), 1e-12)
	assert.InDelta(t, 2*math.Pi, ClockwiseAngle(west, west, 1e-12), 1e-12)
}

func TestIntersectPlanes(t *testing.T) {
	prec := DefaultPrecision()
	px, _ := NewPlane(V3(1, 0, 0), V3(1, 0, 0))
	py, _ := NewPlane(V3(0, 2, 0), V3(0, 1, 0))

	l, ok := IntersectPlanes(px, py, prec)
	require.True(t, ok)
	for _, s := range []float64{-3, 0, 7} {
		p := l.Point(s)
		assert.InDelta(t, 0, px.Distance(p), 1e-12)
		assert.InDelta(t, 0, py.Distance(p), 1e-12)
	}

	pz, _ := NewPlane(V3(0, 0, 1), V3(1, 0, 0))
	_, ok = IntersectPlanes(px, pz, prec)
	assert.False(t, ok, "parallel planes have no line")
}

func TestPlaneFrame(t *testing.T) {
	for _, n := range []Vec3{V3(0, 0, 1), V3(1, 0, 0), V3(-1, 2, 0.5)} {
		p, ok := NewPlane(V3(0, 0, 0), n)
		require.True(t, ok)
		assert.InDelta(t, 1, p.U.Cross(p.V).Dot(p.N), 1e-12, "frame must be right handed")
		uv := p.Project(p.Point(V2(0.3, -2)))
		assert.InDelta(t, 0.3, uv[0], 1e-12)
		assert.InDelta(t, -2, uv[1], 1e-12)
	}
}

func TestTransform(t *testing.T) {
	x := RotationXYZ(0, 0, 90).Then(Translation(V3(1, 0, 0)))
	p := x.Point(V3(1, 0, 0))
	assert.InDelta(t, 1, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)
	assert.InDelta(t, 0, p[2], 1e-12)
}
