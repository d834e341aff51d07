package domain_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/zerr"
)

func node(t domain.Timestamp, l domain.Label) domain.Node {
	return domain.Node{FrameIndex: t, Label: l, Area: 1}
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected *zerr.Error, got %T", err)
	return zErr.Metadata()
}

// chain builds three nodes 0 -> 1 -> 2 in consecutive frames.
func chain(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for i := range 3 {
		id, err := g.AddNode(node(domain.Timestamp(i), 1))
		require.NoError(t, err)
		require.Equal(t, domain.NodeID(i), id)
	}
	require.NoError(t, g.AddEdge(domain.Edge{From: 0, To: 1}))
	require.NoError(t, g.AddEdge(domain.Edge{From: 1, To: 2}))
	return g
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := domain.NewGraph()

	id0, err := g.AddNode(node(0, 1))
	require.NoError(t, err)
	id1, err := g.AddNode(node(1, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(0), id0)
	assert.Equal(t, domain.NodeID(1), id1)

	require.NoError(t, g.AddEdge(domain.Edge{From: id0, To: id1}))

	assert.True(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(1, 0))
	assert.Equal(t, 1, g.GetNode(0).EdgeCountOut())
	assert.Equal(t, 1, g.GetNode(1).EdgeCountIn())
	assert.Equal(t, []domain.NodeID{1}, g.GetNode(0).Children())
	assert.Equal(t, []domain.NodeID{0}, g.GetNode(1).Parents())
	require.NoError(t, g.Verify())
}

func TestGraph_AddNode_ResetsAdjacency(t *testing.T) {
	g := chain(t)
	snapshot := *g.GetNode(1)

	snapshot.FrameIndex = 7
	id, err := g.AddNode(snapshot)
	require.NoError(t, err)

	added := g.GetNode(id)
	assert.True(t, added.Valid())
	assert.Empty(t, added.Parents())
	assert.Empty(t, added.Children())
	assert.Zero(t, added.EdgeCountIn())
	require.NoError(t, g.Verify())
}

func TestGraph_AddNode_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	_, err := g.AddNode(node(3, 5))
	require.NoError(t, err)

	_, err = g.AddNode(node(3, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateNode)

	meta := metadata(t, err)
	assert.Equal(t, 3, meta["timestamp"])
	assert.Equal(t, 5, meta["label"])
	assert.Equal(t, 0, meta["node_id"])
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraph_AddEdge_Idempotent(t *testing.T) {
	g := domain.NewGraph()
	_, _ = g.AddNode(node(0, 1))
	_, _ = g.AddNode(node(1, 1))

	require.NoError(t, g.AddEdge(domain.Edge{From: 0, To: 1}))
	require.NoError(t, g.AddEdge(domain.Edge{From: 0, To: 1}))

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.GetNode(0).EdgeCountOut())
	assert.Equal(t, 1, g.GetNode(1).EdgeCountIn())
	require.NoError(t, g.Verify())
}

func TestGraph_AddEdge_Invalid(t *testing.T) {
	g := domain.NewGraph()
	_, _ = g.AddNode(node(0, 1))

	err := g.AddEdge(domain.Edge{From: 0, To: 4})
	assert.ErrorIs(t, err, domain.ErrNodeOutOfRange)
	meta := metadata(t, err)
	assert.Equal(t, 4, meta["node_id"])
	assert.Equal(t, 1, meta["node_count"])

	err = g.AddEdge(domain.Edge{From: -1, To: 0})
	assert.ErrorIs(t, err, domain.ErrNodeOutOfRange)

	err = g.AddEdge(domain.Edge{From: 0, To: 0})
	assert.ErrorIs(t, err, domain.ErrSelfLoop)

	assert.Zero(t, g.EdgeCount())
	require.NoError(t, g.Verify())
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := chain(t)

	require.NoError(t, g.RemoveEdge(0, 1))
	assert.False(t, g.HasEdge(0, 1))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Zero(t, g.GetNode(0).EdgeCountOut())
	assert.Zero(t, g.GetNode(1).EdgeCountIn())
	require.NoError(t, g.Verify())

	err := g.RemoveEdge(0, 1)
	assert.ErrorIs(t, err, domain.ErrEdgeNotFound)
	meta := metadata(t, err)
	assert.Equal(t, 0, meta["from"])
	assert.Equal(t, 1, meta["to"])
	assert.Equal(t, 1, g.EdgeCount())

	assert.ErrorIs(t, g.RemoveEdge(0, 9), domain.ErrNodeOutOfRange)
	require.NoError(t, g.Verify())
}

func TestGraph_RemoveNode_Immediate(t *testing.T) {
	g := chain(t)

	removed, err := g.RemoveNode(1, false)
	require.NoError(t, err)

	assert.Equal(t, domain.Timestamp(1), removed.FrameIndex)
	assert.Equal(t, []domain.NodeID{0}, removed.Parents())
	assert.Equal(t, []domain.NodeID{2}, removed.Children())

	assert.Equal(t, 2, g.NodeCount())
	assert.Zero(t, g.EdgeCount())

	id, n, err := g.FindNode(2, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(1), id)
	assert.Equal(t, domain.Timestamp(2), n.FrameIndex)
	assert.Equal(t, domain.Timestamp(2), g.GetNode(1).FrameIndex)

	_, _, err = g.FindNode(1, 1)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	require.NoError(t, g.Verify())
}

func TestGraph_RemoveNode_LazyMatchesImmediate(t *testing.T) {
	immediate := chain(t)
	_, err := immediate.RemoveNode(1, false)
	require.NoError(t, err)

	lazy := chain(t)
	removed, err := lazy.RemoveNode(1, true)
	require.NoError(t, err)
	assert.Equal(t, domain.Timestamp(1), removed.FrameIndex)

	// Tombstoned nodes stay addressable until compaction.
	assert.Equal(t, 3, lazy.NodeCount())
	assert.Equal(t, 2, lazy.EdgeCount())
	assert.False(t, lazy.GetNode(1).Valid())
	assert.Equal(t, 1, lazy.PendingRemovals())
	require.NoError(t, lazy.Verify())

	assert.Equal(t, 1, lazy.FinalizeLazyRemoval())
	assert.Zero(t, lazy.PendingRemovals())
	assertSameGraph(t, immediate, lazy)
}

func TestGraph_RemoveNode_LazyTwice(t *testing.T) {
	g := chain(t)
	_, err := g.RemoveNode(2, true)
	require.NoError(t, err)
	_, err = g.RemoveNode(2, true)
	require.NoError(t, err)
	assert.Equal(t, 1, g.PendingRemovals())

	// An immediate removal of a tombstoned node settles its tombstone.
	_, err = g.RemoveNode(2, false)
	require.NoError(t, err)
	assert.Zero(t, g.PendingRemovals())
	assert.Zero(t, g.FinalizeLazyRemoval())
	require.NoError(t, g.Verify())
}

func TestGraph_RemoveNode_OutOfRange(t *testing.T) {
	g := chain(t)
	_, err := g.RemoveNode(3, false)
	assert.ErrorIs(t, err, domain.ErrNodeOutOfRange)
	_, err = g.RemoveNode(-1, true)
	assert.ErrorIs(t, err, domain.ErrNodeOutOfRange)
	assert.Equal(t, 3, g.NodeCount())
}

func TestGraph_NotFound(t *testing.T) {
	g := chain(t)

	_, err := g.GetEdge(0, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEdgeNotFound)
	assert.Equal(t, "failed to get edge: edge not found", err.Error())

	_, n, err := g.FindNode(5, 1)
	require.Error(t, err)
	assert.Nil(t, n)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	meta := metadata(t, err)
	assert.Equal(t, 5, meta["timestamp"])
	assert.Equal(t, 1, meta["label"])

	e, err := g.GetEdge(1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Edge{From: 1, To: 2}, e)
}

func TestGraph_GetNode_Placeholder(t *testing.T) {
	g := chain(t)

	p := g.GetNode(10)
	require.NotNil(t, p)
	assert.False(t, p.Valid())
	assert.False(t, g.HasNode(10))

	// Writes through the placeholder never leak into later lookups.
	p.Area = 99
	assert.Zero(t, g.GetNode(-1).Area)
	assert.Equal(t, 3, g.NodeCount())
}

func TestGraph_AdjacencyViews(t *testing.T) {
	g := domain.NewGraph()
	for _, l := range []domain.Label{1, 2, 3} {
		_, err := g.AddNode(node(0, l))
		require.NoError(t, err)
	}
	require.NoError(t, g.AddEdge(domain.Edge{From: 0, To: 2}))
	require.NoError(t, g.AddEdge(domain.Edge{From: 0, To: 1}))
	require.NoError(t, g.AddEdge(domain.Edge{From: 1, To: 2}))

	assert.Equal(t, [][]domain.NodeID{{2, 1}, {2}, nil}, g.OutboundEdges())
	assert.Equal(t, [][]domain.NodeID{nil, {0}, {0, 1}}, g.InboundEdges())

	var ids []domain.NodeID
	for id := range g.Nodes() {
		ids = append(ids, id)
	}
	assert.Equal(t, []domain.NodeID{0, 1, 2}, ids)

	edges := g.Edges()
	edges[0] = domain.Edge{}
	assert.True(t, g.HasEdge(0, 2))
}

func TestGraph_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))

	for round := range 50 {
		g := domain.NewGraph()
		for range 200 {
			n := g.NodeCount()
			switch op := rng.IntN(10); {
			case op < 4 || n < 2:
				_, err := g.AddNode(node(domain.Timestamp(rng.IntN(8)), domain.Label(rng.IntN(8)+1)))
				if err != nil {
					require.ErrorIs(t, err, domain.ErrDuplicateNode)
				}
			case op < 7:
				from, to := domain.NodeID(rng.IntN(n)), domain.NodeID(rng.IntN(n))
				if err := g.AddEdge(domain.Edge{From: from, To: to}); err != nil {
					require.ErrorIs(t, err, domain.ErrSelfLoop)
				}
			case op < 8:
				from, to := domain.NodeID(rng.IntN(n)), domain.NodeID(rng.IntN(n))
				had := g.HasEdge(from, to)
				err := g.RemoveEdge(from, to)
				if had {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, domain.ErrEdgeNotFound)
				}
			default:
				_, err := g.RemoveNode(domain.NodeID(rng.IntN(n)), false)
				require.NoError(t, err)
				require.Equal(t, n-1, g.NodeCount())
			}
			require.NoError(t, g.Verify(), "round %d", round)
		}
	}
}

func TestGraph_FinalizeLazyRemoval_Property(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 11))

	for range 30 {
		seed := rng.Uint64()
		lazy := randomGraph(t, seed)
		immediate := randomGraph(t, seed)

		var victims []domain.TimeLabel
		for id, n := range lazy.Nodes() {
			if rng.IntN(3) == 0 {
				victims = append(victims, n.Identity())
				_, err := lazy.RemoveNode(id, true)
				require.NoError(t, err)
			}
		}
		require.NoError(t, lazy.Verify())
		assert.Equal(t, len(victims), lazy.FinalizeLazyRemoval())

		// Victims were collected in increasing original index order.
		for _, key := range victims {
			id, _, err := immediate.FindNode(key.Time, key.Label)
			require.NoError(t, err)
			_, err = immediate.RemoveNode(id, false)
			require.NoError(t, err)
		}

		require.NoError(t, lazy.Verify())
		assertSameGraph(t, immediate, lazy)
	}
}

func randomGraph(t *testing.T, seed uint64) *domain.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	g := domain.NewGraph()
	frames := 6
	for f := range frames {
		labels := 1 + rng.IntN(5)
		for l := 1; l <= labels; l++ {
			_, err := g.AddNode(node(domain.Timestamp(f), domain.Label(l)))
			require.NoError(t, err)
		}
	}
	n := g.NodeCount()
	for range n * 2 {
		from, to := domain.NodeID(rng.IntN(n)), domain.NodeID(rng.IntN(n))
		if from == to {
			continue
		}
		require.NoError(t, g.AddEdge(domain.Edge{From: from, To: to}))
	}
	return g
}

func assertSameGraph(t *testing.T, want, got *domain.Graph) {
	t.Helper()
	require.Equal(t, want.NodeCount(), got.NodeCount())
	assert.Equal(t, want.Edges(), got.Edges())

	for id, w := range want.Nodes() {
		g := got.GetNode(id)
		assert.Equal(t, w.Identity(), g.Identity(), "node %d", id)
		assert.Equal(t, w.Valid(), g.Valid(), "node %d", id)
		assert.Equal(t, w.Parents(), g.Parents(), "node %d", id)
		assert.Equal(t, w.Children(), g.Children(), "node %d", id)
		assert.Equal(t, w.EdgeCountIn(), g.EdgeCountIn(), "node %d", id)
		assert.Equal(t, w.EdgeCountOut(), g.EdgeCountOut(), "node %d", id)

		found, _, err := got.FindNode(w.FrameIndex, w.Label)
		require.NoError(t, err)
		assert.Equal(t, id, found)
	}
	assert.True(t, slices.Equal(want.Edges(), got.Edges()))
}
