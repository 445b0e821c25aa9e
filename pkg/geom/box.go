package geom

import "math"

// Box is an axis-aligned bounding box. The zero value is empty.
type Box struct {
	Min, Max Vec3
	set      bool
}

// BoxOf returns the bounding box of the given points.
func BoxOf(pts ...Vec3) Box {
	var b Box
	for _, p := range pts {
		b = b.Add(p)
	}
	return b
}

// IsEmpty reports whether the box contains no point.
func (b Box) IsEmpty() bool { return !b.set }

// Add grows the box to include p.
func (b Box) Add(p Vec3) Box {
	if !b.set {
		return Box{Min: p, Max: p, set: true}
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if !o.set {
		return b
	}
	return b.Add(o.Min).Add(o.Max)
}

// Enlarge grows the box by d on every side.
func (b Box) Enlarge(d float64) Box {
	if !b.set {
		return b
	}
	e := Vec3{d, d, d}
	b.Min = b.Min.Sub(e)
	b.Max = b.Max.Add(e)
	return b
}

// Overlaps reports whether two boxes share at least one point.
func (b Box) Overlaps(o Box) bool {
	if !b.set || !o.set {
		return false
	}
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Contains reports whether p lies in the box.
func (b Box) Contains(p Vec3) bool {
	if !b.set {
		return false
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the box extent along each axis.
func (b Box) Size() Vec3 {
	if !b.set {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Diagonal returns the length of the box diagonal.
func (b Box) Diagonal() float64 { return b.Size().Len() }
