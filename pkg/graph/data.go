package graph

import (
	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
)

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimBox      PrimitiveKind = iota // rectangular solid
	PrimSphere                        // faceted UV sphere
	PrimCylinder                      // faceted cylinder around Z
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimSphere:
		return "sphere"
	case PrimCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// BoxData is an axis-aligned box with its minimum corner at the origin.
type BoxData struct {
	Dimensions geom.Vec3 `json:"dimensions"`
}

func (BoxData) nodeData() {}

// SphereData is a faceted sphere centred on the origin. Zero facet counts
// take the graph defaults.
type SphereData struct {
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
	Rings    int     `json:"rings,omitempty"`
}

func (SphereData) nodeData() {}

// CylinderData is a faceted cylinder around Z, centred on the origin.
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
}

func (CylinderData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData moves its child: rotation first, then translation.
// Created by the (place ...), (translate ...) and (rotate ...) forms.
type TransformData struct {
	Translation *geom.Vec3 `json:"translation,omitempty"`
	Rotation    *geom.Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// IsIdentity reports whether the transform leaves its child in place.
func (td TransformData) IsIdentity() bool {
	zero := geom.Vec3{}
	return (td.Translation == nil || *td.Translation == zero) &&
		(td.Rotation == nil || *td.Rotation == zero)
}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanData combines the node's two children: Children[0] is the object,
// Children[1] the tool.
type BooleanData struct {
	Op boolean.Operation `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping of parts.
// Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
