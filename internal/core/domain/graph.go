// Package domain contains the core domain models for tracking labeled regions across frames.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph is a temporal tracking graph of labeled regions.
//
// Nodes live in a dense slice addressed by NodeID; edges are kept in insertion order.
// An identity index maps each (timestamp, label) pair to the current index of its node.
// Outside of a lazy-removal window, node ids are exactly 0..N-1 and every edge, adjacency
// set and identity entry refers to a stored node.
//
// Graph is not safe for concurrent use.
type Graph struct {
	nodes      []Node
	edges      []Edge
	identities map[TimeLabel]NodeID
	tombstones int

	placeholder Node
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		identities: make(map[TimeLabel]NodeID),
	}
}

// AddNode appends a node and registers its (timestamp, label) identity.
// The node is stored valid and without adjacency, whatever the caller set on it.
// It returns ErrDuplicateNode if the identity is already taken.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	key := n.Identity()
	if existing, exists := g.identities[key]; exists {
		err := withIdentity(zerr.Wrap(ErrDuplicateNode, "failed to add node"), key)
		return 0, zerr.With(err, "node_id", int(existing))
	}

	id := NodeID(len(g.nodes))
	n.parents = make(nodeSet)
	n.children = make(nodeSet)
	n.edgeCountIn = 0
	n.edgeCountOut = 0
	n.valid = true

	g.nodes = append(g.nodes, n)
	g.identities[key] = id
	return id, nil
}

// AddEdge inserts a directed edge and updates the adjacency of both endpoints.
// Adding an edge that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if err := g.checkEndpoints(e.From, e.To, "failed to add edge"); err != nil {
		return err
	}
	if e.From == e.To {
		return zerr.With(zerr.Wrap(ErrSelfLoop, "failed to add edge"), "node_id", int(e.From))
	}
	if g.HasEdge(e.From, e.To) {
		return nil
	}

	from, to := &g.nodes[e.From], &g.nodes[e.To]
	from.edgeCountOut++
	to.edgeCountIn++
	from.children[e.To] = struct{}{}
	to.parents[e.From] = struct{}{}

	g.edges = append(g.edges, e)
	return nil
}

// RemoveEdge deletes the edge from -> to and updates the adjacency of both endpoints.
// It returns ErrEdgeNotFound, without mutating anything, if no such edge exists.
func (g *Graph) RemoveEdge(from, to NodeID) error {
	if err := g.checkEndpoints(from, to, "failed to remove edge"); err != nil {
		return err
	}
	if !g.HasEdge(from, to) {
		return edgeError(zerr.Wrap(ErrEdgeNotFound, "failed to remove edge"), from, to)
	}
	g.unlink(from, to)
	return nil
}

// RemoveNode removes the node at id and returns a snapshot of it as it was before removal.
//
// With lazy set, the node is only tombstoned: edges, adjacency and indices stay untouched and
// the node stays addressable until FinalizeLazyRemoval. Otherwise every incident edge is removed,
// the node is erased, and every index above id is shifted down by one.
func (g *Graph) RemoveNode(id NodeID, lazy bool) (Node, error) {
	if !g.HasNode(id) {
		return Node{}, g.outOfRange(id, "failed to remove node")
	}

	node := &g.nodes[id]
	removed := node.snapshot()

	if lazy {
		if node.valid {
			node.valid = false
			g.tombstones++
		}
		return removed, nil
	}

	if !node.valid {
		g.tombstones--
	}
	g.detach(id)
	if g.identities[node.Identity()] == id {
		delete(g.identities, node.Identity())
	}
	g.nodes = slices.Delete(g.nodes, int(id), int(id)+1)

	g.renumber(func(n NodeID) NodeID {
		if n > id {
			return n - 1
		}
		return n
	})

	return removed, nil
}

// FinalizeLazyRemoval compacts away every node tombstoned since the last compaction.
//
// The result is the same as removing each tombstoned node immediately, in increasing index
// order, but every index is rewritten once. It returns the number of nodes removed.
func (g *Graph) FinalizeLazyRemoval() int {
	if g.tombstones == 0 {
		return 0
	}

	removed := make([]NodeID, 0, g.tombstones)
	for i := range g.nodes {
		node := &g.nodes[i]
		if node.valid {
			continue
		}
		id := NodeID(i)
		removed = append(removed, id)
		g.detach(id)
		if g.identities[node.Identity()] == id {
			delete(g.identities, node.Identity())
		}
	}

	g.nodes = slices.DeleteFunc(g.nodes, func(n Node) bool { return !n.valid })

	// removed is ascending, so the insertion point of n is the number of removed ids below it.
	g.renumber(func(n NodeID) NodeID {
		offset, _ := slices.BinarySearch(removed, n)
		return n - NodeID(offset)
	})

	g.tombstones = 0
	return len(removed)
}

// PendingRemovals returns the number of tombstoned nodes awaiting FinalizeLazyRemoval.
func (g *Graph) PendingRemovals() int {
	return g.tombstones
}

// HasNode reports whether id addresses a stored node, tombstoned or not.
func (g *Graph) HasNode(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// NodeCount returns the number of stored nodes, including tombstoned ones.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// GetNode returns the node at id.
//
// Unlike GetEdge and FindNode, an out-of-range id is not an error: a placeholder node is
// returned instead. The placeholder is reset on every such call and is never Valid, so callers
// that need a strict contract should check HasNode first.
// The returned pointer is invalidated by the next AddNode, RemoveNode or FinalizeLazyRemoval.
// Callers may update payload fields through it but must not change FrameIndex or Label.
func (g *Graph) GetNode(id NodeID) *Node {
	if !g.HasNode(id) {
		g.placeholder = Node{}
		return &g.placeholder
	}
	return &g.nodes[id]
}

// HasEdge reports whether an edge from -> to exists.
func (g *Graph) HasEdge(from, to NodeID) bool {
	return g.edgeIndex(from, to) >= 0
}

// GetEdge returns the edge from -> to, or ErrEdgeNotFound.
func (g *Graph) GetEdge(from, to NodeID) (Edge, error) {
	i := g.edgeIndex(from, to)
	if i < 0 {
		return Edge{}, edgeError(zerr.Wrap(ErrEdgeNotFound, "failed to get edge"), from, to)
	}
	return g.edges[i], nil
}

// EdgeCount returns the number of stored edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// FindNode looks up a node by its (timestamp, label) identity.
// It returns ErrNodeNotFound if no node carries that identity.
func (g *Graph) FindNode(t Timestamp, l Label) (NodeID, *Node, error) {
	key := TimeLabel{Time: t, Label: l}
	id, ok := g.identities[key]
	if !ok {
		return 0, nil, withIdentity(zerr.Wrap(ErrNodeNotFound, "failed to find node"), key)
	}
	return id, &g.nodes[id], nil
}

// Nodes returns an iterator over all stored nodes in index order.
// The graph must not be mutated structurally while iterating.
func (g *Graph) Nodes() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		for i := range g.nodes {
			if !yield(NodeID(i), &g.nodes[i]) {
				return
			}
		}
	}
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// OutboundEdges returns, for every node index, the targets of its outgoing edges in edge insertion order.
func (g *Graph) OutboundEdges() [][]NodeID {
	result := make([][]NodeID, len(g.nodes))
	for _, e := range g.edges {
		if g.HasNode(e.From) {
			result[e.From] = append(result[e.From], e.To)
		}
	}
	return result
}

// InboundEdges returns, for every node index, the sources of its incoming edges in edge insertion order.
func (g *Graph) InboundEdges() [][]NodeID {
	result := make([][]NodeID, len(g.nodes))
	for _, e := range g.edges {
		if g.HasNode(e.To) {
			result[e.To] = append(result[e.To], e.From)
		}
	}
	return result
}

// Verify checks the structural invariants of the graph and returns ErrGraphInconsistent
// describing the first violation found.
func (g *Graph) Verify() error {
	if len(g.identities) != len(g.nodes) {
		return inconsistent("identity index size differs from node count").
			With("identities", len(g.identities)).With("nodes", len(g.nodes))
	}

	parents := make([]nodeSet, len(g.nodes))
	children := make([]nodeSet, len(g.nodes))
	seen := make(map[Edge]struct{}, len(g.edges))
	for _, e := range g.edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return inconsistent("edge endpoint out of range").With("from", int(e.From)).With("to", int(e.To))
		}
		if _, dup := seen[e]; dup {
			return inconsistent("duplicate edge").With("from", int(e.From)).With("to", int(e.To))
		}
		seen[e] = struct{}{}
		if children[e.From] == nil {
			children[e.From] = make(nodeSet)
		}
		if parents[e.To] == nil {
			parents[e.To] = make(nodeSet)
		}
		children[e.From][e.To] = struct{}{}
		parents[e.To][e.From] = struct{}{}
	}

	invalid := 0
	for i := range g.nodes {
		node := &g.nodes[i]
		id := NodeID(i)
		if !node.valid {
			invalid++
		}
		if mapped, ok := g.identities[node.Identity()]; !ok || mapped != id {
			return inconsistent("identity index out of sync").With("node_id", i)
		}
		if !sameSet(node.parents, parents[i]) || !sameSet(node.children, children[i]) {
			return inconsistent("adjacency differs from edge list").With("node_id", i)
		}
		if node.edgeCountIn != len(node.parents) || node.edgeCountOut != len(node.children) {
			return inconsistent("edge counters differ from adjacency").With("node_id", i)
		}
	}

	if invalid != g.tombstones {
		return inconsistent("tombstone count out of sync").
			With("tombstones", g.tombstones).With("invalid", invalid)
	}
	return nil
}

// detach removes every edge incident to id.
func (g *Graph) detach(id NodeID) {
	node := &g.nodes[id]
	for _, parent := range node.parents.sorted() {
		g.unlink(parent, id)
	}
	for _, child := range node.children.sorted() {
		g.unlink(id, child)
	}
}

// unlink removes an edge known to exist and the adjacency entries it implies.
func (g *Graph) unlink(from, to NodeID) {
	g.nodes[from].edgeCountOut--
	g.nodes[to].edgeCountIn--
	delete(g.nodes[from].children, to)
	delete(g.nodes[to].parents, from)

	if i := g.edgeIndex(from, to); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
}

// renumber rewrites every stored node reference through shift.
func (g *Graph) renumber(shift func(NodeID) NodeID) {
	for key, id := range g.identities {
		g.identities[key] = shift(id)
	}
	for i := range g.edges {
		g.edges[i].From = shift(g.edges[i].From)
		g.edges[i].To = shift(g.edges[i].To)
	}
	for i := range g.nodes {
		g.nodes[i].parents = g.nodes[i].parents.remap(shift)
		g.nodes[i].children = g.nodes[i].children.remap(shift)
	}
}

func (g *Graph) edgeIndex(from, to NodeID) int {
	return slices.IndexFunc(g.edges, func(e Edge) bool {
		return e.From == from && e.To == to
	})
}

func (g *Graph) checkEndpoints(from, to NodeID, msg string) error {
	if !g.HasNode(from) {
		return g.outOfRange(from, msg)
	}
	if !g.HasNode(to) {
		return g.outOfRange(to, msg)
	}
	return nil
}

func (g *Graph) outOfRange(id NodeID, msg string) error {
	err := zerr.With(zerr.Wrap(ErrNodeOutOfRange, msg), "node_id", int(id))
	return zerr.With(err, "node_count", len(g.nodes))
}

func withIdentity(err error, key TimeLabel) error {
	err = zerr.With(err, "timestamp", int(key.Time))
	return zerr.With(err, "label", int(key.Label))
}

func edgeError(err error, from, to NodeID) error {
	err = zerr.With(err, "from", int(from))
	return zerr.With(err, "to", int(to))
}

func inconsistent(msg string) *zerr.Error {
	//nolint:forcetypeassert // zerr.Wrap always returns *zerr.Error for a non-nil cause
	return zerr.Wrap(ErrGraphInconsistent, msg).(*zerr.Error)
}

func sameSet(a, b nodeSet) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b.has(id) {
			return false
		}
	}
	return true
}
