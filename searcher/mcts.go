package searcher

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"ismcts/game"
)

type Option func(*settings)

type settings struct {
	exploration float64
	rand        *rand.Rand
	observer    game.Player
	policy      any
	metrics     Collector
}

func WithExploration(c float64) Option {
	return func(s *settings) {
		s.exploration = c
	}
}

// WithSeed makes the search reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rand = rand.New(rand.NewSource(seed))
	}
}

func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithObserver fixes whose knowledge determinizations respect. By default it
// is the player to move at the root.
func WithObserver(p game.Player) Option {
	return func(s *settings) {
		s.observer = p
	}
}

// WithPolicy replaces the uniformly random rollout policy. S and M must match
// the searched game.
func WithPolicy[S any, M game.Move](p Policy[S, M]) Option {
	return func(s *settings) {
		if p != nil {
			s.policy = p
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = NewCollector()
	}
}

// MCTS is an information set Monte Carlo tree search over one persistent
// tree. The root always stands for state, the committed position.
type MCTS[S game.State[S, M], M game.Move] struct {
	state       S
	tree        *tree[M]
	exploration float64
	rand        *rand.Rand
	observer    game.Player
	policy      Policy[S, M]
	metrics     Collector
	last        SearchMetric
	reused      bool
}

func New[S game.State[S, M], M game.Move](state S, options ...Option) *MCTS[S, M] {
	s := settings{ // Default values
		exploration: DefaultExploration,
		metrics:     NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.exploration < 0 || math.IsNaN(s.exploration) || math.IsInf(s.exploration, 0) {
		panic(fmt.Sprintf("invalid exploration constant: %v", s.exploration))
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}

	m := &MCTS[S, M]{
		state:       state.Clone(),
		tree:        newTree[M](),
		exploration: s.exploration,
		rand:        s.rand,
		observer:    s.observer,
		policy:      RandomPolicy[S, M]{},
		metrics:     s.metrics,
	}
	if s.policy != nil {
		p, ok := s.policy.(Policy[S, M])
		if !ok {
			panic(fmt.Sprintf("rollout policy %T does not play this game", s.policy))
		}
		m.policy = p
	}
	return m
}

// Run grows the tree by the given number of iterations.
func (m *MCTS[S, M]) Run(iterations int) {
	for i := 0; i < iterations; i++ {
		m.iterate()
	}
}

// FindMove searches for the given number of iterations, DefaultIterations
// when not positive, and returns the most visited move at the root. It
// reports false when the root has no children. The tree keeps growing across
// calls until a move is committed.
func (m *MCTS[S, M]) FindMove(iterations int) (M, bool) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	m.metrics.Start(m.reused)
	m.Run(iterations)
	m.last = m.metrics.Complete(m.tree.size())

	best := m.bestChild()
	if !best.isValid() {
		var none M
		return none, false
	}

	n := m.tree.node(best)
	root := m.tree.node(m.tree.root)
	log.Debug().
		Str("move", n.move.String()).
		Int("visits", n.visits).
		Float64("win_rate", n.wins/float64(n.visits)).
		Int("root_visits", root.visits).
		Int("children", len(root.children)).
		Int("tree_size", m.tree.size()).
		Msg("found move")
	return n.move, true
}

// Commit plays move on the searched state and rebases the tree onto the
// matching child, creating it when the search never tried the move. Every
// node outside the new root's subtree is freed. An illegal move leaves both
// state and tree untouched.
func (m *MCTS[S, M]) Commit(move M) error {
	mover := m.state.ToMove()
	if err := m.state.Play(move); err != nil {
		return errors.Wrap(err, "cannot commit move")
	}

	child := m.tree.findChild(m.tree.root, move)
	if !child.isValid() {
		log.Debug().Msgf("committed move %s was never explored", move)
		child = m.tree.addChild(m.tree.root, move, mover)
	}
	m.reused = m.tree.node(child).visits > 0
	m.tree.rebase(child)
	return nil
}

func (m *MCTS[S, M]) iterate() {
	observer := m.observer
	if observer == game.NoPlayer {
		observer = m.state.ToMove()
	}
	state := m.state.Determinize(observer, m.rand)

	id := m.tree.root
	m.tree.node(id).avails++ // Counted as available like any selected child
	depth := 0
	for !state.IsTerminal() {
		legal := state.Moves()
		if untried := m.tree.untried(id, legal); len(untried) > 0 {
			move := untried[m.rand.Intn(len(untried))]
			mover := state.ToMove()
			play(state, move)
			id = m.tree.addChild(id, move, mover)
			depth++
			break
		}
		id = m.tree.selectChild(id, legal, m.exploration)
		play(state, m.tree.node(id).move)
		depth++
	}

	rolledOut := !state.IsTerminal()
	for !state.IsTerminal() {
		play(state, m.policy.Move(state, m.rand))
	}

	for ; id.isValid(); id = m.tree.node(id).parent {
		update(m.tree.node(id), state)
	}
	m.metrics.AddIteration(depth, rolledOut)
}

func play[S game.State[S, M], M game.Move](state S, move M) {
	if err := state.Play(move); err != nil {
		panic(fmt.Sprintf("search played an illegal move: %v", err))
	}
}

// bestChild returns the most visited root child, the first one on ties.
func (m *MCTS[S, M]) bestChild() nodeID {
	best := nilNode
	for _, kid := range m.tree.node(m.tree.root).children {
		if !best.isValid() || m.tree.node(kid).visits > m.tree.node(best).visits {
			best = kid
		}
	}
	return best
}

// NodeStats is a read-only view of one tree node.
type NodeStats[M game.Move] struct {
	Move   M
	Mover  game.Player
	Wins   float64
	Visits int
	Avails int
}

func (m *MCTS[S, M]) stats(id nodeID) NodeStats[M] {
	n := m.tree.node(id)
	return NodeStats[M]{Move: n.move, Mover: n.mover, Wins: n.wins, Visits: n.visits, Avails: n.avails}
}

func (m *MCTS[S, M]) Root() NodeStats[M] {
	return m.stats(m.tree.root)
}

// Children lists the root's children in the order they were added.
func (m *MCTS[S, M]) Children() []NodeStats[M] {
	return lo.Map(m.tree.node(m.tree.root).children, func(id nodeID, _ int) NodeStats[M] {
		return m.stats(id)
	})
}

// State returns a copy of the committed position.
func (m *MCTS[S, M]) State() S {
	return m.state.Clone()
}

func (m *MCTS[S, M]) TreeSize() int {
	return m.tree.size()
}

// Metrics describes the last FindMove call. It is empty unless the search
// was built WithMetrics.
func (m *MCTS[S, M]) Metrics() SearchMetric {
	return m.last
}
