// Package graph defines the design graph produced by evaluating a kerf
// script. The design graph is an immutable DAG of primitives, transforms,
// Boolean operations and groups that describes how solids are built.
package graph
