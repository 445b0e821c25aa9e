package topo

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// ValidationSeverity indicates whether a finding makes a shape unusable as
// a Boolean operand or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // shape is invalid
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Shape    Shape              // offending sub-shape (null if shape-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Shape.IsNull() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Shape, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Shape   Shape
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking finding was made.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks on s and returns every finding. An
// empty slice means the shape is valid. It never mutates s.
func Validate(s Shape) []ValidationError {
	if s.IsNull() {
		return []ValidationError{{Message: "null shape", Severity: SeverityError}}
	}
	var errs []ValidationError
	errs = append(errs, validateEdges(s)...)
	errs = append(errs, validateWires(s)...)
	errs = append(errs, validateFaces(s)...)
	errs = append(errs, validateShells(s)...)
	return errs
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(s Shape) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Shape: e.Shape, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateEdges checks that edge vertices lie on the curve ends.
func validateEdges(s Shape) []ValidationError {
	var errs []ValidationError
	for _, e := range Explore(s, Edge) {
		g := EdgeGeometry(e)
		v1, v2 := e.t.children[0], e.t.children[1]
		for _, c := range []struct {
			v Shape
			t float64
		}{{v1, g.First}, {v2, g.Last}} {
			d := geom.Dist(Point(c.v), g.Curve.Point(c.t))
			if d > math.Max(c.v.Tolerance(), e.Tolerance()) {
				errs = append(errs, ValidationError{
					Shape:    e,
					Message:  fmt.Sprintf("vertex %s is %.3g away from the curve end", c.v, d),
					Severity: SeverityError,
				})
			}
		}
		if !g.Degenerate && math.Abs(g.Last-g.First) <= e.Tolerance() {
			errs = append(errs, ValidationError{
				Shape:    e,
				Message:  "edge is shorter than its tolerance",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateWires checks connectivity of every wire.
func validateWires(s Shape) []ValidationError {
	var errs []ValidationError
	for _, w := range Explore(s, Wire) {
		edges := OrderedEdges(w)
		for i := 1; i < len(edges); i++ {
			_, end := EdgeVertices(edges[i-1])
			start, _ := EdgeVertices(edges[i])
			if !end.IsSame(start) {
				errs = append(errs, ValidationError{
					Shape:    w,
					Message:  fmt.Sprintf("edge %s does not start where %s ends", edges[i], edges[i-1]),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateFaces checks that boundaries are closed, lie on the surface and
// have the expected loop senses.
func validateFaces(s Shape) []ValidationError {
	var errs []ValidationError
	for _, f := range Explore(s, Face) {
		p, ok := FaceGeom{Surface: SurfaceOf(f)}.Plane()
		if !ok {
			continue
		}
		for i, w := range f.t.children {
			if !IsClosedWire(w) {
				errs = append(errs, ValidationError{
					Shape:    f,
					Message:  fmt.Sprintf("boundary %d is not closed", i),
					Severity: SeverityError,
				})
				continue
			}
			for _, v := range Explore(w, Vertex) {
				if d := math.Abs(p.Distance(Point(v))); d > math.Max(v.Tolerance(), f.Tolerance()) {
					errs = append(errs, ValidationError{
						Shape:    f,
						Message:  fmt.Sprintf("vertex %s is %.3g off the face plane", v, d),
						Severity: SeverityError,
					})
				}
			}
			a := newell(WirePoints(w)).Dot(p.N)
			if (i == 0 && a <= 0) || (i > 0 && a >= 0) {
				errs = append(errs, ValidationError{
					Shape:    f,
					Message:  fmt.Sprintf("boundary %d runs the wrong way about the face normal", i),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

// validateShells checks that every shell of a solid is closed and
// consistently oriented: each edge is used by exactly two faces, once in
// each direction.
func validateShells(s Shape) []ValidationError {
	var errs []ValidationError
	for _, sol := range Explore(s, Solid) {
		for _, sh := range sol.Children() {
			if !IsClosedShell(sh) {
				errs = append(errs, ValidationError{
					Shape:    sh,
					Message:  "shell of a solid is not closed",
					Severity: SeverityError,
				})
			}
		}
		if v := Volume(sol); v <= 0 {
			errs = append(errs, ValidationError{
				Shape:    sol,
				Message:  fmt.Sprintf("solid has non-positive volume %.6g", v),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// IsClosedShell reports whether every edge of sh is shared by exactly two
// face uses running it in opposite directions.
func IsClosedShell(sh Shape) bool {
	uses := make(map[uint64][2]int)
	for _, f := range Uses(sh, Face) {
		for _, e := range Uses(f, Edge) {
			if IsDegenerate(e) {
				continue
			}
			c := uses[e.ID()]
			c[e.Orientation()]++
			uses[e.ID()] = c
		}
	}
	if len(uses) == 0 {
		return false
	}
	for _, c := range uses {
		if c[0] != 1 || c[1] != 1 {
			return false
		}
	}
	return true
}
