package geom

import (
	"math"
	"sort"
)

// Location is the result of locating a point against a planar region.
type Location int

const (
	Outside Location = iota
	Inside
	OnBoundary
)

func (l Location) String() string {
	switch l {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case OnBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// SignedArea returns the signed area of a closed polygon; positive when the
// vertices run counter-clockwise.
func SignedArea(poly []Vec2) float64 {
	var a float64
	n := len(poly)
	for i := 0; i < n; i++ {
		a += Cross2(poly[i], poly[(i+1)%n])
	}
	return a / 2
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSqr()
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// Locate classifies p against the region bounded by loops using the
// even-odd rule. Points within tol of any loop edge are OnBoundary.
func Locate(p Vec2, loops [][]Vec2, tol float64) Location {
	inside := false
	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a, b := loop[i], loop[(i+1)%n]
			if SegmentDistance(p, a, b) <= tol {
				return OnBoundary
			}
			if (a[1] > p[1]) != (b[1] > p[1]) {
				x := a[0] + (p[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
				if p[0] < x {
					inside = !inside
				}
			}
		}
	}
	if inside {
		return Inside
	}
	return Outside
}

// LineCrossings returns the parameters t at which the 2D line o + t·d
// meets the edges of the loops. Edges collinear with the line contribute
// both endpoints. d must be unit length.
func LineCrossings(o, d Vec2, loops [][]Vec2, tol float64) []float64 {
	var ts []float64
	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a, b := loop[i], loop[(i+1)%n]
			e := b.Sub(a)
			el := e.Len()
			if el == 0 {
				continue
			}
			distA := math.Abs(Cross2(a.Sub(o), d))
			distB := math.Abs(Cross2(b.Sub(o), d))
			if distA <= tol && distB <= tol {
				ts = append(ts, a.Sub(o).Dot(d), b.Sub(o).Dot(d))
				continue
			}
			denom := Cross2(d, e)
			if math.Abs(denom) < 1e-300 {
				continue
			}
			u := Cross2(a.Sub(o), d) / denom
			slack := tol / el
			if u < -slack || u > 1+slack {
				continue
			}
			ts = append(ts, Cross2(a.Sub(o), e)/denom)
		}
	}
	return ts
}

// InteriorPoint returns a point strictly inside the region bounded by the
// loops (even-odd rule). It sweeps a horizontal scanline through the middle
// of the widest gap between distinct vertex heights and returns the middle
// of the widest covered span. ok is false for regions without area.
func InteriorPoint(loops [][]Vec2) (Vec2, bool) {
	var ys []float64
	for _, loop := range loops {
		for _, p := range loop {
			ys = append(ys, p[1])
		}
	}
	if len(ys) < 3 {
		return Vec2{}, false
	}
	sort.Float64s(ys)
	bestGap, y := 0.0, 0.0
	for i := 1; i < len(ys); i++ {
		if g := ys[i] - ys[i-1]; g > bestGap {
			bestGap, y = g, (ys[i]+ys[i-1])/2
		}
	}
	if bestGap <= 0 {
		return Vec2{}, false
	}
	var xs []float64
	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a, b := loop[i], loop[(i+1)%n]
			if (a[1] > y) != (b[1] > y) {
				xs = append(xs, a[0]+(y-a[1])*(b[0]-a[0])/(b[1]-a[1]))
			}
		}
	}
	sort.Float64s(xs)
	bestW, x := 0.0, 0.0
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > bestW {
			bestW, x = w, (xs[i]+xs[i+1])/2
		}
	}
	if bestW <= 0 {
		return Vec2{}, false
	}
	return Vec2{x, y}, true
}
