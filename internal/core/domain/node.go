package domain

import (
	"maps"
	"slices"
)

// Timestamp is the ordinal of a frame within a series.
type Timestamp int

// Label identifies a region within one frame. Label 0 is background.
type Label int

// NodeID is the dense, zero-based storage index of a node in a Graph.
// It is not a stable identity: removals renumber every node stored after the removed one.
type NodeID int

// TimeLabel is the caller-facing identity of a node, independent of its storage index.
type TimeLabel struct {
	Time  Timestamp
	Label Label
}

// Point is a position in image coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Rect is an inclusive pixel bounding box.
type Rect struct {
	MinX int `yaml:"minX"`
	MinY int `yaml:"minY"`
	MaxX int `yaml:"maxX"`
	MaxY int `yaml:"maxY"`
}

// Edge is a directed temporal correspondence from a region in one frame to a region in a later frame.
type Edge struct {
	From NodeID
	To   NodeID
}

// Node is a labeled region at a discrete time step.
//
// The exported fields are payload owned by the caller. Adjacency, edge counters and the
// validity flag are maintained by the Graph and are read through accessor methods.
type Node struct {
	FrameIndex Timestamp
	Label      Label
	Area       int
	Centroid   Point
	Bounds     Rect

	parents      nodeSet
	children     nodeSet
	edgeCountIn  int
	edgeCountOut int
	valid        bool
}

// Identity returns the (timestamp, label) pair of the node.
func (n *Node) Identity() TimeLabel {
	return TimeLabel{Time: n.FrameIndex, Label: n.Label}
}

// Valid reports whether the node is stored and not tombstoned by a lazy removal.
// The placeholder returned for out-of-range lookups is never valid.
func (n *Node) Valid() bool {
	return n.valid
}

// Parents returns the ids of nodes with an edge into this node, in ascending order.
func (n *Node) Parents() []NodeID {
	return n.parents.sorted()
}

// Children returns the ids of nodes this node has an edge to, in ascending order.
func (n *Node) Children() []NodeID {
	return n.children.sorted()
}

// EdgeCountIn returns the number of inbound edges.
func (n *Node) EdgeCountIn() int {
	return n.edgeCountIn
}

// EdgeCountOut returns the number of outbound edges.
func (n *Node) EdgeCountOut() int {
	return n.edgeCountOut
}

// snapshot returns a copy of the node that shares no adjacency storage with the original.
func (n *Node) snapshot() Node {
	c := *n
	c.parents = maps.Clone(n.parents)
	c.children = maps.Clone(n.children)
	return c
}

// nodeSet is an unordered set of node ids.
type nodeSet map[NodeID]struct{}

func (s nodeSet) has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

func (s nodeSet) sorted() []NodeID {
	ids := make([]NodeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// remap builds a new set with every member passed through shift.
func (s nodeSet) remap(shift func(NodeID) NodeID) nodeSet {
	out := make(nodeSet, len(s))
	for id := range s {
		out[shift(id)] = struct{}{}
	}
	return out
}
