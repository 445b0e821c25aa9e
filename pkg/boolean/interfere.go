package boolean

import (
	"fmt"

	"github.com/chazu/kerf/pkg/topo"
)

// InterferenceKind names the pair of element kinds that met.
type InterferenceKind int

const (
	KindVV InterferenceKind = iota
	KindVE
	KindVF
	KindEE
	KindEF
	KindFF
)

func (k InterferenceKind) String() string {
	switch k {
	case KindVV:
		return "VV"
	case KindVE:
		return "VE"
	case KindVF:
		return "VF"
	case KindEE:
		return "EE"
	case KindEF:
		return "EF"
	case KindFF:
		return "FF"
	default:
		return fmt.Sprintf("InterferenceKind(%d)", int(k))
	}
}

// Interference records one intersection between elements of the two
// operands. Index1 and Index2 refer to the DS tables of the element kinds
// (vertices, edges or faces), lower dimension first.
type Interference struct {
	Kind           InterferenceKind
	Index1, Index2 int
	Param1, Param2 float64
	// Vertex is the resulting point for point outcomes.
	Vertex topo.Shape
	// Coincident marks an overlap (collinear edges, edge lying in a face)
	// rather than a transversal crossing.
	Coincident bool
	// Edges lists the section edges produced by a face/face or in-face
	// outcome, as DS edge indices.
	Edges     []int
	Tolerance float64
}
