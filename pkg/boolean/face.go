package boolean

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/topo"
)

// rebuildFaces splits every face of both operands along the section edges
// and stores the pieces as the face images. Loops are traced in parallel;
// faces are built in face order so that shape IDs do not depend on
// scheduling.
func (ds *DS) rebuildFaces() error {
	splits := make([]faceSplit, len(ds.faces))
	parallel(len(ds.faces), ds.opts.Workers, func(fi int) {
		splits[fi] = ds.splitFace(fi)
	})
	ds.images = make([][]topo.Shape, len(ds.faces))
	for fi, sp := range splits {
		for _, w := range sp.warnings {
			ds.warn(w)
		}
		if sp.unchanged {
			ds.addImage(fi, ds.faces[fi].shape)
			continue
		}
		faces, err := ds.buildFaces(fi, sp.loops)
		if err != nil {
			return err
		}
		ds.splitFaces++
		for _, f := range faces {
			ds.addImage(fi, f)
		}
	}
	return nil
}

func (ds *DS) addImage(fi int, piece topo.Shape) {
	ds.images[fi] = append(ds.images[fi], piece)
	ds.pieceFace[piece.ID()] = fi
}

// buildFaces turns the loops of face fi into faces on its oriented plane.
// Counter-clockwise loops are outer boundaries; each clockwise loop becomes
// a hole of the smallest outer loop containing it.
func (ds *DS) buildFaces(fi int, loops []loop) ([]topo.Shape, error) {
	f := &ds.faces[fi]
	minArea := f.tol * f.tol
	var outers, holes []loop
	for _, lp := range loops {
		switch {
		case lp.area > minArea:
			outers = append(outers, lp)
		case lp.area < -minArea:
			holes = append(holes, lp)
		default:
			ds.warn(Warning{
				Kind:    WarnLooseWire,
				ShapeID: f.shape.ID(),
				Message: fmt.Sprintf("loop of %d edges without area dropped", len(lp.edges)),
			})
		}
	}

	owned := make([][]loop, len(outers))
	for _, h := range holes {
		p, ok := geom.InteriorPoint([][]geom.Vec2{h.uv})
		best := -1
		for k, o := range outers {
			// An outer loop must be strictly larger than the hole; its twin
			// traced the other way round has the same area up to rounding.
			if !ok || o.area <= -h.area+minArea || sameEdges(o, h) {
				continue
			}
			if geom.Locate(p, [][]geom.Vec2{o.uv}, f.tol) != geom.Inside {
				continue
			}
			if best < 0 || o.area < outers[best].area {
				best = k
			}
		}
		if best < 0 {
			ds.warn(Warning{
				Kind:    WarnLooseWire,
				ShapeID: f.shape.ID(),
				Message: fmt.Sprintf("hole of %d edges outside every outer loop dropped", len(h.edges)),
			})
			continue
		}
		owned[best] = append(owned[best], h)
	}

	var out []topo.Shape
	for k, o := range outers {
		wires := make([]topo.Shape, 0, 1+len(owned[k]))
		for _, lp := range append([]loop{o}, owned[k]...) {
			w, err := ds.b.MakeWire(lp.edges...)
			if err != nil {
				return nil, fmt.Errorf("boolean: split face %s: %w", f.shape, err)
			}
			wires = append(wires, w)
		}
		face, err := ds.b.MakeFace(f.plane, wires...)
		if err != nil {
			return nil, fmt.Errorf("boolean: split face %s: %w", f.shape, err)
		}
		out = append(out, face)
	}
	return out, nil
}

// sameEdges reports whether two loops run over the same edges.
func sameEdges(a, b loop) bool {
	if len(a.edges) != len(b.edges) {
		return false
	}
	ids := make(map[uint64]bool, len(a.edges))
	for _, e := range a.edges {
		ids[e.ID()] = true
	}
	for _, e := range b.edges {
		if !ids[e.ID()] {
			return false
		}
	}
	return true
}
