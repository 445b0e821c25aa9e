package graph

import (
	"encoding/json"
	"testing"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
)

func TestNewDesignGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.Defaults.Tolerance != boolean.DefaultTolerance {
		t.Errorf("default tolerance = %g, want %g", g.Defaults.Tolerance, boolean.DefaultTolerance)
	}
	if g.Defaults.Segments != DefaultSegments || g.Defaults.Rings != DefaultRings {
		t.Errorf("default facets = %dx%d, want %dx%d", g.Defaults.Segments, g.Defaults.Rings, DefaultSegments, DefaultRings)
	}
	if g.Defaults.Units != "mm" {
		t.Errorf("default units = %q, want %q", g.Defaults.Units, "mm")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	id := NewNodeID("defpart/lid")
	node := &Node{
		ID:   id,
		Kind: NodePrimitive,
		Name: "lid",
		Data: BoxData{Dimensions: geom.V3(400, 200, 19)},
	}
	g.AddNode(node)
	g.AddRoot(id)
	g.AddRoot(id)

	if g.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", g.NodeCount())
	}

	found := g.Lookup("lid")
	if found == nil {
		t.Fatal("Lookup('lid') returned nil")
	}
	if found.ID != id {
		t.Errorf("lookup returned wrong node")
	}

	if must := g.MustLookup("lid"); must.ID != id {
		t.Errorf("MustLookup returned wrong node")
	}

	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}

	if got := g.Get(id); got == nil || got.Name != "lid" {
		t.Errorf("Get by ID failed")
	}

	if len(g.Roots) != 1 || g.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", g.Roots, id.Short())
	}
}

func TestMustLookupPanics(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	g.MustLookup("missing")
}

func TestPrimitivesAndBooleans(t *testing.T) {
	g := buildPocket()

	if got := len(g.Primitives()); got != 2 {
		t.Errorf("Primitives() count = %d, want 2", got)
	}
	bs := g.Booleans()
	if len(bs) != 1 {
		t.Fatalf("Booleans() count = %d, want 1", len(bs))
	}
	if op := bs[0].Data.(BooleanData).Op; op != boolean.OpCut {
		t.Errorf("boolean op = %s, want cut", op)
	}

	a, b := g.Primitives(), g.Primitives()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatal("Primitives() order is not stable")
		}
	}
}

func TestChildren(t *testing.T) {
	g := buildPocket()

	children := g.Children(g.MustLookup("pocket"))
	if len(children) != 2 {
		t.Fatalf("Children count = %d, want 2", len(children))
	}
	if children[0].Name != "slab" {
		t.Errorf("object name = %q, want %q", children[0].Name, "slab")
	}
	if children[1].Kind != NodeTransform {
		t.Errorf("tool kind = %s, want transform", children[1].Kind)
	}
}

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("defpart/lid")
	b := NewNodeID("defpart/lid")
	if a != b {
		t.Error("same path should produce same NodeID")
	}

	c := NewNodeID("defpart/base")
	if a == c {
		t.Error("different paths should produce different NodeIDs")
	}
}

func TestNodeIDZero(t *testing.T) {
	var id NodeID
	if !id.IsZero() {
		t.Error("zero-value NodeID should be zero")
	}
	id = NewNodeID("something")
	if id.IsZero() {
		t.Error("non-zero NodeID should not be zero")
	}
}

func TestNodeIDText(t *testing.T) {
	id := NewNodeID("defpart/lid")
	b, err := json.Marshal(map[NodeID]int{id: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[NodeID]int
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[id] != 1 {
		t.Errorf("round trip lost key %s: %s", id.Short(), b)
	}
}

func TestTransformIdentity(t *testing.T) {
	zero := geom.Vec3{}
	move := geom.V3(1, 0, 0)
	tests := []struct {
		name string
		td   TransformData
		want bool
	}{
		{"empty", TransformData{}, true},
		{"zero vectors", TransformData{Translation: &zero, Rotation: &zero}, true},
		{"translated", TransformData{Translation: &move}, false},
		{"rotated", TransformData{Rotation: &move}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.td.IsIdentity(); got != tt.want {
				t.Errorf("IsIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeDataInterface(t *testing.T) {
	var _ NodeData = BoxData{}
	var _ NodeData = SphereData{}
	var _ NodeData = CylinderData{}
	var _ NodeData = TransformData{}
	var _ NodeData = BooleanData{}
	var _ NodeData = GroupData{}
}

func TestStringers(t *testing.T) {
	if NodeBoolean.String() != "boolean" {
		t.Errorf("NodeBoolean.String() = %q", NodeBoolean.String())
	}
	if PrimCylinder.String() != "cylinder" {
		t.Errorf("PrimCylinder.String() = %q", PrimCylinder.String())
	}

	id := NewNodeID("test")
	if len(id.Short()) != 8 {
		t.Errorf("Short() len = %d, want 8", len(id.Short()))
	}
	n := &Node{ID: id}
	if n.Label() != id.Short() {
		t.Errorf("Label() = %q, want short ID", n.Label())
	}
}
