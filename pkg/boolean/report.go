package boolean

import (
	"fmt"

	"github.com/chazu/kerf/pkg/topo"
)

// WarningKind classifies a non-fatal degeneracy met during a run.
type WarningKind int

const (
	WarnToleranceIncrease WarningKind = iota // a vertex tolerance grew past the ceiling
	WarnUnmatchedEdgeEnd                     // a dangling edge was pruned while splitting a face
	WarnLooseWire                            // a loop could not be placed in any face
	WarnNonManifoldEdge                      // an edge is shared by more than two result faces
	WarnOpenShell                            // a result shell is not closed
	WarnDegenerateBlock                      // a zero-length pave block was dropped
)

func (k WarningKind) String() string {
	switch k {
	case WarnToleranceIncrease:
		return "tolerance-increase"
	case WarnUnmatchedEdgeEnd:
		return "unmatched-edge-end"
	case WarnLooseWire:
		return "loose-wire"
	case WarnNonManifoldEdge:
		return "non-manifold-edge"
	case WarnOpenShell:
		return "open-shell"
	case WarnDegenerateBlock:
		return "degenerate-block"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a single degeneracy report.
type Warning struct {
	Kind    WarningKind
	ShapeID uint64 // offending shape, 0 if none
	Message string
}

func (w Warning) String() string {
	if w.ShapeID == 0 {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] #%d: %s", w.Kind, w.ShapeID, w.Message)
}

// Diagnostics describes how a run went.
type Diagnostics struct {
	RunID            string
	Operation        Operation
	Warnings         []Warning
	Closed           bool // every result shell is closed
	Interferences    int  // number of intersection records
	SectionEdges     int  // number of section edges created
	DegenerateBlocks int  // zero-length pave blocks dropped
	SplitFaces       int  // faces rebuilt from split wires
}

// Count returns the number of warnings of kind k.
func (d Diagnostics) Count(k WarningKind) int {
	n := 0
	for _, w := range d.Warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}

// Result is the output of a Boolean run. Shape is always a compound: of
// solids (and open shells in best-effort mode) for solid operations, of
// edges and vertices for a section.
type Result struct {
	Shape       topo.Shape
	Diagnostics Diagnostics
}
