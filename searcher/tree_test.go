package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRebase(t *testing.T) {
	// root -> a -> a1, a2 ; root -> b -> b1
	tr := newTree[mockMove]()
	a := tr.addChild(tr.root, 1, 1)
	b := tr.addChild(tr.root, 2, 1)
	a1 := tr.addChild(a, 3, 2)
	tr.addChild(a, 4, 2)
	tr.addChild(b, 5, 2)
	tr.node(a).visits = 3
	require.Equal(t, 6, tr.size())

	tr.rebase(a)

	require.Equal(t, a, tr.root)
	require.Equal(t, nilNode, tr.node(a).parent, "Should detach the new root")
	require.Equal(t, 3, tr.node(a).visits, "Should keep the new root's statistics")
	require.Equal(t, 3, tr.size(), "Should free the old root and the sibling subtree")
	require.Len(t, tr.freelist, 3)
	require.Equal(t, a1, tr.findChild(a, 3))

	t.Run("reuses freed slots", func(t *testing.T) {
		before := len(tr.nodes)
		id := tr.addChild(a1, 6, 1)
		require.Less(t, int(id), before, "Should allocate from the free list")
		require.Len(t, tr.nodes, before, "Should not grow the arena")

		n := tr.node(id)
		require.Equal(t, 0, n.visits, "Should reset recycled nodes")
		require.Equal(t, 1, n.avails)
		require.Empty(t, n.children)
		require.False(t, n.freed)
	})
}

func TestRebaseOntoRoot(t *testing.T) {
	tr := newTree[mockMove]()
	kid := tr.addChild(tr.root, 1, 1)
	root := tr.root

	tr.rebase(root)

	require.Equal(t, root, tr.root)
	require.Equal(t, 2, tr.size(), "Should keep the whole tree")
	require.Equal(t, kid, tr.findChild(root, 1))
}
