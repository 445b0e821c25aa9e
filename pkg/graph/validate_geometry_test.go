package graph

import (
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
)

// singlePrimitive builds a graph with one rooted primitive.
func singlePrimitive(data NodeData) *DesignGraph {
	g := New()
	id := NewNodeID("defpart/part")
	g.AddNode(&Node{ID: id, Kind: NodePrimitive, Name: "part", Data: data})
	g.AddRoot(id)
	return g
}

func resultHasError(r ValidationResult, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func resultHasWarning(r ValidationResult, substr string) bool {
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateAll_NonPositiveDimensions(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want []string
	}{
		{"zero box side", BoxData{Dimensions: geom.V3(1, 0, 1)}, []string{"box Y is 0.0000"}},
		{"negative box side", BoxData{Dimensions: geom.V3(-1, 1, 1)}, []string{"box X is -1.0000"}},
		{"all box sides", BoxData{}, []string{"box X", "box Y", "box Z"}},
		{"sphere radius", SphereData{Radius: 0}, []string{"sphere radius is 0.0000"}},
		{"cylinder", CylinderData{Height: -2, Radius: 0}, []string{"cylinder height", "cylinder radius"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateAll(singlePrimitive(tt.data))
			if r.OK() {
				t.Fatal("expected errors")
			}
			if len(r.Errors) != len(tt.want) {
				t.Errorf("got %d errors, want %d: %v", len(r.Errors), len(tt.want), r.Errors)
			}
			for _, w := range tt.want {
				if !resultHasError(r, w) {
					t.Errorf("missing error %q in %v", w, r.Errors)
				}
			}
		})
	}
}

func TestValidateAll_Facets(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want string
	}{
		{"sphere segments", SphereData{Radius: 1, Segments: 2}, "sphere segments is 2"},
		{"sphere rings", SphereData{Radius: 1, Rings: 1}, "sphere rings is 1"},
		{"cylinder segments", CylinderData{Height: 1, Radius: 1, Segments: 2}, "cylinder segments is 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateAll(singlePrimitive(tt.data))
			if !resultHasError(r, tt.want) {
				t.Errorf("missing error %q in %v", tt.want, r.Errors)
			}
		})
	}

	// Zero counts fall back to the defaults.
	r := ValidateAll(singlePrimitive(SphereData{Radius: 1}))
	if !r.OK() {
		t.Errorf("default facets rejected: %v", r.Errors)
	}
}

func TestValidateAll_Defaults(t *testing.T) {
	g := buildPocket()
	g.Defaults.Tolerance = 0
	g.Defaults.Segments = 2
	g.Defaults.Rings = 1

	r := ValidateAll(g)
	for _, want := range []string{"tolerance is 0", "default segments is 2", "default rings is 1"} {
		if !resultHasError(r, want) {
			t.Errorf("missing error %q in %v", want, r.Errors)
		}
	}
}

func TestValidateAll_SelfOperand(t *testing.T) {
	g := buildPocket()
	slabID := NewNodeID("defpart/slab")
	pocket := g.MustLookup("pocket")
	pocket.Children = []NodeID{slabID, slabID}

	r := ValidateAll(g)
	if !r.OK() {
		t.Fatalf("self operand should only warn, got %v", r.Errors)
	}
	if !resultHasWarning(r, "cut of node "+slabID.Short()+" with itself") {
		t.Errorf("expected self operand warning, got %v", r.Warnings)
	}
}

func TestValidateAll_IdentityTransform(t *testing.T) {
	g := buildPocket()
	g.Get(NewNodeID("place/cube")).Data = TransformData{}

	r := ValidateAll(g)
	if !resultHasWarning(r, "no translation or rotation") {
		t.Errorf("expected identity transform warning, got %v", r.Warnings)
	}
}

func TestValidateAll_FeatureNearTolerance(t *testing.T) {
	g := singlePrimitive(BoxData{Dimensions: geom.V3(1, 1, 5e-6)})

	r := ValidateAll(g)
	if !r.OK() {
		t.Fatalf("thin box should only warn, got %v", r.Errors)
	}
	if !resultHasWarning(r, "box Z 5e-06 is within 100 tolerances") {
		t.Errorf("expected tolerance warning, got %v", r.Warnings)
	}
}

func TestValidateAll_ValidGraph(t *testing.T) {
	r := ValidateAll(buildPocket())
	if !r.OK() {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestValidateAll_EmptyGraph(t *testing.T) {
	r := ValidateAll(New())
	if !r.OK() || len(r.Warnings) != 0 {
		t.Errorf("empty graph: errors %v, warnings %v", r.Errors, r.Warnings)
	}
}

func TestValidateAll_OrphanBecomesWarning(t *testing.T) {
	g := buildPocket()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/spare"), Kind: NodePrimitive, Name: "spare",
		Data: CylinderData{Height: 1, Radius: 1},
	})
	g.AddNode(&Node{
		ID: NewNodeID("defpart/fused"), Kind: NodeBoolean, Name: "fused",
		Children: []NodeID{NewNodeID("defpart/spare"), NewNodeID("defpart/slab")},
		Data:     BooleanData{Op: boolean.OpFuse},
	})

	r := ValidateAll(g)
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if !resultHasWarning(r, `"fused" is not reachable`) {
		t.Errorf("expected orphan warning, got %v", r.Warnings)
	}
}
