package searcher

import "ismcts/game"

// nodeID indexes the tree's node arena.
type nodeID int32

const nilNode nodeID = -1

func (id nodeID) isValid() bool { return id >= 0 }

// tree keeps every node in one arena. Parent and child links are indices;
// freed slots are recycled through the free list.
type tree[M game.Move] struct {
	nodes    []node[M]
	freelist []nodeID
	root     nodeID
}

func newTree[M game.Move]() *tree[M] {
	t := &tree[M]{nodes: make([]node[M], 0, 1024)}
	t.root = t.alloc()
	return t
}

// alloc returns a reset node, reusing a freed slot when there is one.
func (t *tree[M]) alloc() nodeID {
	if l := len(t.freelist); l > 0 {
		id := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		t.nodes[id].reset()
		return id
	}
	t.nodes = append(t.nodes, node[M]{})
	id := nodeID(len(t.nodes) - 1)
	t.nodes[id].reset()
	return id
}

func (t *tree[M]) free(id nodeID) {
	t.nodes[id].reset()
	t.nodes[id].freed = true
	t.freelist = append(t.freelist, id)
}

func (t *tree[M]) node(id nodeID) *node[M] {
	return &t.nodes[id]
}

// addChild appends a new child reached by move. The caller guarantees no
// child of parent already holds an equal move.
func (t *tree[M]) addChild(parent nodeID, move M, mover game.Player) nodeID {
	id := t.alloc()
	n := t.node(id)
	n.move = move
	n.mover = mover
	n.parent = parent
	p := t.node(parent)
	p.children = append(p.children, id)
	return id
}

// findChild returns the child of parent holding move, or nilNode.
func (t *tree[M]) findChild(parent nodeID, move M) nodeID {
	for _, kid := range t.node(parent).children {
		if t.node(kid).move == move {
			return kid
		}
	}
	return nilNode
}

// rebase makes newRoot the root and frees every node outside its subtree.
func (t *tree[M]) rebase(newRoot nodeID) {
	stack := []nodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == newRoot {
			continue
		}
		stack = append(stack, t.node(id).children...)
		t.free(id)
	}
	t.node(newRoot).parent = nilNode
	t.root = newRoot
}

// size counts the live nodes.
func (t *tree[M]) size() int {
	return len(t.nodes) - len(t.freelist)
}
