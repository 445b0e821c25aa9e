package geom

import (
	"fmt"
	"math"
)

// Default tolerances. Linear values are model units, angular values radians.
const (
	DefaultLinear  = 1e-7
	DefaultAngular = 1e-9
)

// Precision is the immutable numeric context threaded through every stage
// of an operation. It replaces process-wide tolerance tables: a caller
// builds one per operation and passes it by value.
type Precision struct {
	Linear  float64 // confusion distance between points
	Angular float64 // confusion angle between directions
}

// DefaultPrecision returns the precision used when a caller supplies none.
func DefaultPrecision() Precision {
	return Precision{Linear: DefaultLinear, Angular: DefaultAngular}
}

// Validate reports nonsensical tolerances.
func (p Precision) Validate() error {
	if !(p.Linear > 0) {
		return fmt.Errorf("geom: linear tolerance must be positive, got %g", p.Linear)
	}
	if !(p.Angular > 0) {
		return fmt.Errorf("geom: angular tolerance must be positive, got %g", p.Angular)
	}
	return nil
}

// Coincident reports whether two points with the given tolerances are the
// same point.
func (p Precision) Coincident(a, b Vec3, tolA, tolB float64) bool {
	return Dist(a, b) <= math.Max(tolA+tolB, p.Linear)
}

// Parallel reports whether two unit directions are parallel or
// anti-parallel.
func (p Precision) Parallel(a, b Vec3) bool {
	return a.Cross(b).Len() <= p.Angular
}
