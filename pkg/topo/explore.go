package topo

// Explore returns the distinct sub-shapes of s of kind k, including s
// itself when it has that kind. Shapes appear in depth-first order of
// first encounter, each with the orientation of that encounter.
func Explore(s Shape, k Kind) []Shape {
	if s.IsNull() {
		return nil
	}
	seen := make(map[*TShape]bool)
	var out []Shape
	var walk func(x Shape)
	walk = func(x Shape) {
		if x.t.kind == k {
			if !seen[x.t] {
				seen[x.t] = true
				out = append(out, x)
			}
			return
		}
		if x.t.kind < k {
			return
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	walk(s)
	return out
}

// Ancestors maps the ID of every sub-shape of kind sub inside s to the
// shapes of kind anc that contain it, in the order they are met. A face
// used twice by a shell is listed twice.
func Ancestors(s Shape, sub, anc Kind) map[uint64][]Shape {
	m := make(map[uint64][]Shape)
	for _, a := range Explore(s, anc) {
		for _, x := range Uses(a, sub) {
			m[x.ID()] = append(m[x.ID()], a)
		}
	}
	return m
}

// Uses returns every use of a sub-shape of kind k inside s, with composed
// orientation and without deduplication.
func Uses(s Shape, k Kind) []Shape {
	var out []Shape
	var walk func(x Shape)
	walk = func(x Shape) {
		if x.t.kind == k {
			out = append(out, x)
			return
		}
		if x.t.kind < k {
			return
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	if !s.IsNull() {
		walk(s)
	}
	return out
}
