// Package tessellate turns designs into triangle meshes. Tessellate walks a
// design graph and evaluates it with a geometry kernel, producing one mesh
// per emitted part; Shape triangulates a B-Rep shape directly.
package tessellate

import (
	"fmt"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
)

// Part is an emitted solid together with the node it came from.
type Part struct {
	Name  string
	Node  graph.NodeID
	Solid kernel.Solid
}

// transformStack accumulates the transforms of enclosing transform nodes
// during graph traversal, outermost first.
type transformStack struct {
	frames []graph.TransformData
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(td graph.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// apply moves s by every frame on the stack, innermost first.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		s = applyTransform(k, s, ts.frames[i])
	}
	return s
}

// applyTransform rotates first, then translates.
func applyTransform(k kernel.Kernel, s kernel.Solid, td graph.TransformData) kernel.Solid {
	if r := td.Rotation; r != nil && (r[0] != 0 || r[1] != 0 || r[2] != 0) {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if t := td.Translation; t != nil && (t[0] != 0 || t[1] != 0 || t[2] != 0) {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	return s
}

// walker evaluates nodes against one kernel. Shared subgraphs are built
// once.
type walker struct {
	g     *graph.DesignGraph
	k     kernel.Kernel
	cache map[graph.NodeID]kernel.Solid
}

// Evaluate walks the design graph from its roots and returns every emitted
// part. The walk is read-only and never mutates the graph.
func Evaluate(g *graph.DesignGraph, k kernel.Kernel) ([]Part, error) {
	if g == nil {
		return nil, nil
	}

	w := &walker{g: g, k: k, cache: make(map[graph.NodeID]kernel.Solid)}
	ts := newTransformStack()

	var parts []Part
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := w.walkNode(root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		parts = append(parts, collected...)
	}

	return parts, nil
}

// Tessellate walks the design graph and produces one triangle mesh per
// emitted part using the provided geometry kernel. A nil graph yields nil
// meshes, like Evaluate.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	parts, err := Evaluate(g, k)
	if err != nil || parts == nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(parts))
	for _, p := range parts {
		mesh, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for part %s: %w", p.Name, err)
		}
		mesh.PartName = p.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// walkNode recursively traverses the part-producing structure of the graph:
// groups and transforms above the parts.
func (w *walker) walkNode(n *graph.Node, ts *transformStack) ([]Part, error) {
	switch n.Kind {
	case graph.NodeGroup:
		var parts []Part
		for _, child := range w.g.Children(n) {
			collected, err := w.walkNode(child, ts)
			if err != nil {
				return nil, err
			}
			parts = append(parts, collected...)
		}
		return parts, nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		ts.push(td)
		defer ts.pop()

		var parts []Part
		for _, child := range w.g.Children(n) {
			collected, err := w.walkNode(child, ts)
			if err != nil {
				return nil, err
			}
			parts = append(parts, collected...)
		}
		return parts, nil

	case graph.NodePrimitive, graph.NodeBoolean:
		s, err := w.solid(n)
		if err != nil {
			return nil, err
		}
		return []Part{{Name: n.Label(), Node: n.ID, Solid: ts.apply(w.k, s)}}, nil

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// solid evaluates n as a single solid.
func (w *walker) solid(n *graph.Node) (kernel.Solid, error) {
	if s, ok := w.cache[n.ID]; ok {
		return s, nil
	}
	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.NodePrimitive:
		s, err = w.primitive(n)
	case graph.NodeTransform:
		s, err = w.transformed(n)
	case graph.NodeBoolean:
		s, err = w.combined(n)
	default:
		err = fmt.Errorf("node %s is a %s, not a solid", n.Label(), n.Kind)
	}
	if err != nil {
		return nil, err
	}
	w.cache[n.ID] = s
	return s, nil
}

func (w *walker) primitive(n *graph.Node) (kernel.Solid, error) {
	def := w.g.Defaults
	var (
		s   kernel.Solid
		err error
	)
	switch d := n.Data.(type) {
	case graph.BoxData:
		s, err = w.k.Box(d.Dimensions[0], d.Dimensions[1], d.Dimensions[2])
	case graph.SphereData:
		s, err = w.k.Sphere(d.Radius, orDefault(d.Segments, def.Segments), orDefault(d.Rings, def.Rings))
	case graph.CylinderData:
		s, err = w.k.Cylinder(d.Height, d.Radius, orDefault(d.Segments, def.Segments))
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("primitive %s: %w", n.Label(), err)
	}
	return s, nil
}

func (w *walker) transformed(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := w.g.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform %s has %d operands, want 1", n.Label(), len(children))
	}
	s, err := w.solid(children[0])
	if err != nil {
		return nil, err
	}
	return applyTransform(w.k, s, td), nil
}

func (w *walker) combined(n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := w.g.Children(n)
	if len(children) != 2 {
		return nil, fmt.Errorf("%s %s has %d operands, want 2", bd.Op, n.Label(), len(children))
	}
	a, err := w.solid(children[0])
	if err != nil {
		return nil, err
	}
	b, err := w.solid(children[1])
	if err != nil {
		return nil, err
	}

	var s kernel.Solid
	switch bd.Op {
	case boolean.OpFuse:
		s, err = w.k.Union(a, b)
	case boolean.OpCut:
		s, err = w.k.Difference(a, b)
	case boolean.OpCommon:
		s, err = w.k.Intersection(a, b)
	case boolean.OpSection:
		sec, ok := w.k.(kernel.Sectioner)
		if !ok {
			return nil, fmt.Errorf("section %s: %w", n.Label(), kernel.ErrUnsupported)
		}
		s, err = sec.Section(a, b)
	default:
		return nil, fmt.Errorf("boolean node %s has unknown operation %s", n.Label(), bd.Op)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", bd.Op, n.Label(), err)
	}
	return s, nil
}

func orDefault(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
