package boolean

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/kerf/pkg/geom"
)

// boxRect converts a box into an R-tree rectangle grown by pad. pad must be
// positive: the tree treats touching rectangles as disjoint.
func boxRect(b geom.Box, pad float64) rtreego.Rect {
	lo := rtreego.Point{b.Min[0] - pad, b.Min[1] - pad, b.Min[2] - pad}
	hi := rtreego.Point{b.Max[0] + pad, b.Max[1] + pad, b.Max[2] + pad}
	r, _ := rtreego.NewRectFromPoints(lo, hi)
	return r
}

type boxItem struct {
	idx  int
	rect rtreego.Rect
}

func (b *boxItem) Bounds() rtreego.Rect { return b.rect }

// boxIndex answers "which boxes overlap this one" for a fixed set of
// boxes.
type boxIndex struct {
	tree *rtreego.Rtree
	pad  float64
}

func newBoxIndex(boxes []geom.Box, idx []int, pad float64) *boxIndex {
	items := make([]rtreego.Spatial, 0, len(idx))
	for _, i := range idx {
		if boxes[i].IsEmpty() {
			continue
		}
		items = append(items, &boxItem{idx: i, rect: boxRect(boxes[i], pad)})
	}
	return &boxIndex{tree: rtreego.NewTree(3, 8, 32, items...), pad: pad}
}

// query returns the indices of stored boxes overlapping b, ascending.
func (x *boxIndex) query(b geom.Box) []int {
	if b.IsEmpty() {
		return nil
	}
	res := x.tree.SearchIntersect(boxRect(b, x.pad))
	out := make([]int, len(res))
	for i, s := range res {
		out[i] = s.(*boxItem).idx
	}
	sort.Ints(out)
	return out
}
