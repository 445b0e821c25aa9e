package boolean

import (
	"fmt"
	"math"
	"sync"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// PointClassifier locates a point against the boundary of a solid. For an
// ON point it also returns the face the point lies on.
type PointClassifier interface {
	Classify(p geom.Vec3, solid topo.Shape, tol float64) (State, topo.Shape, error)
}

// rayDirections are tried in order until one crosses the boundary cleanly.
// None is parallel to a coordinate axis or plane.
var rayDirections = []geom.Vec3{
	{0.2672612419124244, 0.5345224838248488, 0.8017837257372732},
	{-0.6337502662891742, 0.2903209068403617, 0.7169524722766538},
	{0.4923659639173309, -0.8616404368553291, 0.1230914909793327},
	{-0.3015113445777636, -0.3015113445777636, -0.9045340337332909},
	{0.8164965809277261, 0.4082482904638631, -0.4082482904638631},
	{-0.7276068751089989, -0.4850712500726659, 0.4850712500726659},
}

type rayFace struct {
	face  topo.Shape
	plane geom.Plane
	loops [][]geom.Vec2
	box   geom.Box
}

// RayClassifier is the default PointClassifier: it counts boundary
// crossings of a ray. Face data is cached per solid and the classifier is
// safe for concurrent use.
type RayClassifier struct {
	cache sync.Map // solid ID -> []rayFace
}

var _ PointClassifier = (*RayClassifier)(nil)

// NewRayClassifier returns an empty ray parity classifier.
func NewRayClassifier() *RayClassifier { return &RayClassifier{} }

func (rc *RayClassifier) faces(solid topo.Shape) ([]rayFace, error) {
	if v, ok := rc.cache.Load(solid.ID()); ok {
		return v.([]rayFace), nil
	}
	var fs []rayFace
	for _, f := range topo.Explore(solid, topo.Face) {
		plane, loops, ok := topo.FaceLoops(f)
		if !ok {
			return nil, fmt.Errorf("boolean: classify: face %s: %w", f, ErrUnsupportedGeometry)
		}
		fs = append(fs, rayFace{face: f, plane: plane, loops: loops, box: topo.BoundingBox(f)})
	}
	v, _ := rc.cache.LoadOrStore(solid.ID(), fs)
	return v.([]rayFace), nil
}

// Classify returns In, Out or On for p. Rays that graze an edge or a
// vertex, or run within a face plane, are discarded; when every direction
// is discarded the result is ErrUnclassifiable.
func (rc *RayClassifier) Classify(p geom.Vec3, solid topo.Shape, tol float64) (State, topo.Shape, error) {
	fs, err := rc.faces(solid)
	if err != nil {
		return StateUnknown, topo.Shape{}, err
	}
	for _, f := range fs {
		if !f.box.Enlarge(tol).Contains(p) {
			continue
		}
		if math.Abs(f.plane.Distance(p)) > tol {
			continue
		}
		if geom.Locate(f.plane.Project(p), f.loops, tol) != geom.Outside {
			return StateOn, f.face, nil
		}
	}
	for _, d := range rayDirections {
		n, ok := crossings(p, d, fs, tol)
		if !ok {
			continue
		}
		if n%2 == 1 {
			return StateIn, topo.Shape{}, nil
		}
		return StateOut, topo.Shape{}, nil
	}
	return StateUnknown, topo.Shape{}, fmt.Errorf("boolean: classify point %v: %w", p, ErrUnclassifiable)
}

// crossings counts the faces the ray p + t·d (t > 0) passes through. ok is
// false when the ray is ambiguous.
func crossings(p, d geom.Vec3, fs []rayFace, tol float64) (int, bool) {
	n := 0
	for _, f := range fs {
		dist := f.plane.Distance(p)
		denom := d.Dot(f.plane.N)
		if math.Abs(denom) < 1e-9 {
			if math.Abs(dist) <= tol {
				return 0, false
			}
			continue
		}
		t := -dist / denom
		if t <= tol {
			continue
		}
		switch geom.Locate(f.plane.Project(p.Add(d.Mul(t))), f.loops, tol) {
		case geom.Inside:
			n++
		case geom.OnBoundary:
			return 0, false
		}
	}
	return n, true
}
