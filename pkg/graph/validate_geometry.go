package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateDefaults(g)...)
	errs = append(errs, validatePositiveDimensions(g)...)
	errs = append(errs, validateFacets(g)...)

	warnings = append(warnings, validateSelfOperand(g)...)
	warnings = append(warnings, validateIdentityTransforms(g)...)

	return errs, warnings
}

// validateDefaults checks the graph-wide settings primitives fall back on.
func validateDefaults(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	d := g.Defaults
	if !(d.Tolerance > 0) || math.IsInf(d.Tolerance, 0) {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("tolerance is %g, must be finite and positive", d.Tolerance),
			Severity: SeverityError,
		})
	}
	if d.Segments < 3 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("default segments is %d, must be at least 3", d.Segments),
			Severity: SeverityError,
		})
	}
	if d.Rings < 2 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("default rings is %d, must be at least 2", d.Rings),
			Severity: SeverityError,
		})
	}
	return errs
}

// dimensions lists the named sizes of a primitive payload.
func dimensions(d NodeData) []struct {
	name  string
	value float64
} {
	type dim = struct {
		name  string
		value float64
	}
	switch p := d.(type) {
	case BoxData:
		return []dim{{"X", p.Dimensions[0]}, {"Y", p.Dimensions[1]}, {"Z", p.Dimensions[2]}}
	case SphereData:
		return []dim{{"radius", p.Radius}}
	case CylinderData:
		return []dim{{"height", p.Height}, {"radius", p.Radius}}
	}
	return nil
}

// validatePositiveDimensions checks that every primitive has positive sizes.
func validatePositiveDimensions(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		if node.Kind != NodePrimitive {
			continue
		}
		dims := dimensions(node.Data)
		if dims == nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("primitive has unsupported data type %T", node.Data),
				Severity: SeverityError,
			})
			continue
		}
		for _, d := range dims {
			if !(d.value > 0) {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s %s is %.4f, must be positive", primitiveName(node.Data), d.name, d.value),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

func primitiveName(d NodeData) string {
	switch d.(type) {
	case BoxData:
		return PrimBox.String()
	case SphereData:
		return PrimSphere.String()
	case CylinderData:
		return PrimCylinder.String()
	}
	return "primitive"
}

// validateFacets checks explicit facet counts. Zero means "use the default".
func validateFacets(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	check := func(node *Node, what string, n, min int) {
		if n != 0 && n < min {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s is %d, must be at least %d", what, n, min),
				Severity: SeverityError,
			})
		}
	}
	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case SphereData:
			check(node, "sphere segments", d.Segments, 3)
			check(node, "sphere rings", d.Rings, 2)
		case CylinderData:
			check(node, "cylinder segments", d.Segments, 3)
		}
	}

	return errs
}

// validateSelfOperand warns about Booleans whose object and tool are the
// same node: the operands coincide everywhere.
func validateSelfOperand(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		bd, ok := node.Data.(BooleanData)
		if !ok || len(node.Children) != 2 {
			continue
		}
		if node.Children[0] == node.Children[1] {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%s of node %s with itself", bd.Op, node.Children[0].Short()),
			})
		}
	}

	return warnings
}

// validateIdentityTransforms warns about transforms that move nothing.
func validateIdentityTransforms(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if ok && td.IsIdentity() {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: "transform has no translation or rotation",
			})
		}
	}

	return warnings
}

// ---------------------------------------------------------------------------
// Tier 3: Tolerance advisories
// ---------------------------------------------------------------------------

// featureFactor is how many tolerances a primitive size must span before it
// stops being reported as close to the tolerance.
const featureFactor = 100

// validateTolerance warns when a primitive size is within featureFactor
// tolerances: intersections near such features collapse to degenerate
// pave blocks.
func validateTolerance(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	tol := g.Defaults.Tolerance
	if !(tol > 0) {
		return nil // reported by validateDefaults
	}

	for _, node := range g.Nodes {
		for _, d := range dimensions(node.Data) {
			if d.value > 0 && d.value < featureFactor*tol {
				warnings = append(warnings, ValidationWarning{
					NodeID: node.ID,
					Message: fmt.Sprintf("%s %s %.3g is within %d tolerances (%.3g)",
						primitiveName(node.Data), d.name, d.value, featureFactor, tol),
				})
			}
		}
	}

	return warnings
}
