// Package topo is the boundary-representation shape model: a directed
// acyclic graph of vertices, edges, wires, faces, shells, solids and
// compounds. Shapes are value handles over shared, immutable nodes, so a
// sub-shape referenced from two places is the same node seen with possibly
// different orientations.
package topo
