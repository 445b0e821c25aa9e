package graph

import (
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildPocket creates a valid graph that cuts a placed cube out of a slab,
// with every node reachable from the Boolean root.
func buildPocket() *DesignGraph {
	g := New()

	slabID := NewNodeID("defpart/slab")
	cubeID := NewNodeID("defpart/cube")
	placeID := NewNodeID("place/cube")
	pocketID := NewNodeID("defpart/pocket")

	at := geom.V3(1, 0.5, 0)
	rot := geom.V3(0, 0, 30)

	g.AddNode(&Node{
		ID: slabID, Kind: NodePrimitive, Name: "slab",
		Data: BoxData{Dimensions: geom.V3(2, 2, 1)},
	})
	g.AddNode(&Node{
		ID: cubeID, Kind: NodePrimitive, Name: "cube",
		Data: BoxData{Dimensions: geom.V3(1, 1, 1)},
	})
	g.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{cubeID},
		Data:     TransformData{Translation: &at, Rotation: &rot},
	})
	g.AddNode(&Node{
		ID: pocketID, Kind: NodeBoolean, Name: "pocket",
		Children: []NodeID{slabID, placeID},
		Data:     BooleanData{Op: boolean.OpCut},
	})
	g.AddRoot(pocketID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// errorCount returns the number of error-severity findings.
func errorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	g := buildPocket()
	for _, e := range Validate(g) {
		t.Errorf("unexpected validation error: %s", e)
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	for _, e := range Validate(New()) {
		t.Errorf("unexpected validation error on empty graph: %s", e)
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()
	aID := NewNodeID("place/a")
	bID := NewNodeID("place/b")
	move := geom.V3(1, 0, 0)
	g.AddNode(&Node{ID: aID, Kind: NodeTransform, Children: []NodeID{bID}, Data: TransformData{Translation: &move}})
	g.AddNode(&Node{ID: bID, Kind: NodeTransform, Children: []NodeID{aID}, Data: TransformData{Translation: &move}})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle detected") {
		t.Errorf("expected cycle error, got %v", errs)
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := buildPocket()
	pocket := g.MustLookup("pocket")
	pocket.Children[1] = NewNodeID("defpart/ghost")

	errs := Validate(g)
	if !hasError(errs, "does not exist") {
		t.Errorf("expected dangling reference error, got %v", errs)
	}
}

func TestValidate_DuplicateName(t *testing.T) {
	g := buildPocket()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/slab-2"), Kind: NodePrimitive, Name: "slab",
		Data: BoxData{Dimensions: geom.V3(1, 1, 1)},
	})

	errs := Validate(g)
	if !hasError(errs, `duplicate name "slab"`) {
		t.Errorf("expected duplicate name error, got %v", errs)
	}
}

func TestValidate_OrphanNode(t *testing.T) {
	g := buildPocket()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/spare"), Kind: NodePrimitive, Name: "spare",
		Data: BoxData{Dimensions: geom.V3(1, 1, 1)},
	})

	errs := Validate(g)
	if !hasWarning(errs, `"spare" is not reachable`) {
		t.Errorf("expected orphan warning, got %v", errs)
	}
	if errorCount(errs) != 0 {
		t.Errorf("orphans should not produce errors, got %v", errs)
	}
}

func TestValidate_NameIndexPointsToMissingNode(t *testing.T) {
	g := buildPocket()
	g.NameIndex["ghost"] = NewNodeID("defpart/ghost")

	if errs := Validate(g); !hasError(errs, `name index entry "ghost"`) {
		t.Errorf("expected name index error, got %v", errs)
	}
}

func TestValidate_RootReferencesNonExistentNode(t *testing.T) {
	g := buildPocket()
	g.AddRoot(NewNodeID("defpart/ghost"))

	if errs := Validate(g); !hasError(errs, "root reference") {
		t.Errorf("expected root reference error, got %v", errs)
	}
}

func TestValidate_Arity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *DesignGraph)
		want   string
	}{
		{
			name: "boolean with one operand",
			mutate: func(g *DesignGraph) {
				p := g.MustLookup("pocket")
				p.Children = p.Children[:1]
			},
			want: "boolean node has 1 children, want exactly 2 children",
		},
		{
			name: "primitive with a child",
			mutate: func(g *DesignGraph) {
				s := g.MustLookup("slab")
				s.Children = []NodeID{NewNodeID("defpart/cube")}
			},
			want: "primitive node has 1 children, want no children",
		},
		{
			name: "transform without a child",
			mutate: func(g *DesignGraph) {
				g.Get(NewNodeID("place/cube")).Children = nil
			},
			want: "transform node has 0 children, want exactly 1 child",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildPocket()
			tt.mutate(g)
			if errs := Validate(g); !hasError(errs, tt.want) {
				t.Errorf("expected %q, got %v", tt.want, errs)
			}
		})
	}
}

func TestValidate_EmptyGroupWarns(t *testing.T) {
	g := New()
	id := NewNodeID("assembly/empty")
	g.AddNode(&Node{ID: id, Kind: NodeGroup, Name: "empty", Data: GroupData{}})
	g.AddRoot(id)

	errs := Validate(g)
	if !hasWarning(errs, "group is empty") {
		t.Errorf("expected empty group warning, got %v", errs)
	}
}

func TestValidate_GroupOperand(t *testing.T) {
	g := buildPocket()
	groupID := NewNodeID("assembly/parts")
	g.AddNode(&Node{
		ID: groupID, Kind: NodeGroup, Name: "parts",
		Children: []NodeID{NewNodeID("defpart/cube")},
		Data:     GroupData{},
	})
	g.MustLookup("pocket").Children[1] = groupID

	if errs := Validate(g); !hasError(errs, `operand "parts" is a group`) {
		t.Errorf("expected group operand error, got %v", errs)
	}
}

func TestValidate_SectionOperand(t *testing.T) {
	g := buildPocket()
	secID := NewNodeID("defpart/outline")
	g.AddNode(&Node{
		ID: secID, Kind: NodeBoolean, Name: "outline",
		Children: []NodeID{NewNodeID("defpart/slab"), NewNodeID("place/cube")},
		Data:     BooleanData{Op: boolean.OpSection},
	})
	move := geom.V3(0, 0, 5)
	placedID := NewNodeID("place/outline")
	g.AddNode(&Node{
		ID: placedID, Kind: NodeTransform,
		Children: []NodeID{secID},
		Data:     TransformData{Translation: &move},
	})
	g.MustLookup("pocket").Children[1] = placedID

	errs := Validate(g)
	if !hasError(errs, "is a section result, not a solid") {
		t.Errorf("expected section operand error, got %v", errs)
	}

	// A section may itself take any solid operands.
	g.MustLookup("pocket").Children[1] = NewNodeID("place/cube")
	g.AddRoot(placedID)
	for _, e := range Validate(g) {
		if e.Severity == SeverityError {
			t.Errorf("unexpected error: %s", e)
		}
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	g := buildPocket()
	g.AddRoot(NewNodeID("defpart/ghost"))
	g.MustLookup("pocket").Children = nil

	errs := Validate(g)
	if n := errorCount(errs); n < 2 {
		t.Errorf("expected at least 2 errors, got %d: %v", n, errs)
	}
}

func TestValidationError_String(t *testing.T) {
	id := NewNodeID("defpart/lid")
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{
			name: "graph level",
			err:  ValidationError{Message: "boom", Severity: SeverityError},
			want: "[error] boom",
		},
		{
			name: "node level",
			err:  ValidationError{NodeID: id, Message: "careful", Severity: SeverityWarning},
			want: "[warning] node " + id.Short() + ": careful",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
