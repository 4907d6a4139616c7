package searcher

import (
	"math"

	"github.com/samber/lo"

	"ismcts/game"
)

type node[M game.Move] struct {
	move     M // Zero move at the root
	mover    game.Player
	parent   nodeID
	children []nodeID
	wins     float64 // Credited to mover
	visits   int
	avails   int
	freed    bool
}

func (n *node[M]) reset() {
	var zero M
	n.move = zero
	n.mover = game.NoPlayer
	n.parent = nilNode
	n.children = n.children[:0]
	n.wins = 0
	n.visits = 0
	n.avails = 1
	n.freed = false
}

// update records one playout ending in the terminal state.
func update[S game.State[S, M], M game.Move](n *node[M], terminal S) {
	n.visits++
	if n.mover != game.NoPlayer {
		n.wins += terminal.Result(n.mover)
	}
}

// untried returns the legal moves no child of id holds, in legal's order.
func (t *tree[M]) untried(id nodeID, legal []M) []M {
	kids := t.node(id).children
	if len(kids) == 0 {
		return legal
	}
	tried := make(map[M]struct{}, len(kids))
	for _, kid := range kids {
		tried[t.node(kid).move] = struct{}{}
	}
	return lo.Filter(legal, func(m M, _ int) bool {
		_, ok := tried[m]
		return !ok
	})
}

// selectChild picks the child with the highest UCB1 score among those whose
// move is legal, first seen winning ties. Every eligible child counts one
// more avail, chosen or not.
func (t *tree[M]) selectChild(id nodeID, legal []M, c float64) nodeID {
	allowed := make(map[M]struct{}, len(legal))
	for _, m := range legal {
		allowed[m] = struct{}{}
	}

	best := nilNode
	bestScore := math.Inf(-1)
	for _, kid := range t.node(id).children {
		n := t.node(kid)
		if _, ok := allowed[n.move]; !ok {
			continue
		}
		if score := ucb1(n.wins, n.visits, n.avails, c); score > bestScore || !best.isValid() {
			best, bestScore = kid, score
		}
		n.avails++
	}
	if !best.isValid() {
		panic("cannot select child: no child is legal")
	}
	return best
}
