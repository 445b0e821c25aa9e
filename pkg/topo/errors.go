package topo

import "errors"

var (
	// ErrDegenerate is returned when an edge or face would have no extent.
	ErrDegenerate = errors.New("topo: degenerate geometry")

	// ErrNotConnected is returned when consecutive wire edges do not share
	// a vertex.
	ErrNotConnected = errors.New("topo: edges not connected")

	// ErrNotClosed is returned when a face boundary wire is open.
	ErrNotClosed = errors.New("topo: wire not closed")

	// ErrWrongKind is returned when a shape of an unexpected kind is passed.
	ErrWrongKind = errors.New("topo: wrong shape kind")
)
