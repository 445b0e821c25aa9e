package graph

import (
	"fmt"
	"sort"

	"github.com/chazu/kerf/pkg/boolean"
)

// Graph-wide defaults.
const (
	DefaultSegments = 24
	DefaultRings    = 12
)

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Tolerance float64 `json:"tolerance"` // working linear tolerance
	Segments  int     `json:"segments"`  // facets around spheres and cylinders
	Rings     int     `json:"rings"`     // latitude bands of spheres
	Units     string  `json:"units"`
}

// DesignGraph is the top-level immutable data structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a new
// graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Tolerance: boolean.DefaultTolerance,
			Segments:  DefaultSegments,
			Rings:     DefaultRings,
			Units:     "mm",
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph. Registering the same
// root twice is a no-op.
func (g *DesignGraph) AddRoot(id NodeID) {
	for _, r := range g.Roots {
		if r == id {
			return
		}
	}
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// OfKind returns all nodes of kind k ordered by ID.
func (g *DesignGraph) OfKind(k NodeKind) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Primitives returns all primitive nodes in the graph.
func (g *DesignGraph) Primitives() []*Node { return g.OfKind(NodePrimitive) }

// Booleans returns all Boolean nodes in the graph.
func (g *DesignGraph) Booleans() []*Node { return g.OfKind(NodeBoolean) }

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
