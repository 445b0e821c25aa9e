package graph

import "github.com/google/uuid"

// nodeNamespace seeds content-addressed node IDs.
var nodeNamespace = uuid.MustParse("6f1d8c3e-52a4-4b7e-9a61-0c2f4e8b7d15")

// NodeID is a content-addressed identifier for graph nodes: the same
// source path always yields the same ID.
type NodeID uuid.UUID

// ZeroID is the unset NodeID.
var ZeroID NodeID

// NewNodeID derives the ID of the node created at path, e.g. "defpart/lid".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(nodeNamespace, []byte(path)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

func (id NodeID) String() string { return uuid.UUID(id).String() }

// Short returns the first 8 hex digits of id, for messages.
func (id NodeID) Short() string { return id.String()[:8] }

// MarshalText lets NodeID key JSON objects.
func (id NodeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses the canonical UUID form.
func (id *NodeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// SourceRef points back at the script form that created a node.
type SourceRef struct {
	Form string `json:"form"`
	Line int    `json:"line,omitempty"`
}
