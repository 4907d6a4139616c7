package engine

import (
	"golang.org/x/exp/rand"

	"ismcts/game"
	"ismcts/searcher"
)

// Searcher runs an MCTS with a fixed iteration budget per move.
type Searcher[S game.State[S, M], M game.Move] struct {
	mcts       *searcher.MCTS[S, M]
	iterations int
}

// NewSearcher builds a search agent seated as seat. The state may hold more
// than seat knows; determinization only respects what seat has observed.
func NewSearcher[S game.State[S, M], M game.Move](state S, seat game.Player, iterations int, options ...searcher.Option) *Searcher[S, M] {
	options = append([]searcher.Option{searcher.WithObserver(seat), searcher.WithMetrics()}, options...)
	return &Searcher[S, M]{
		mcts:       searcher.New[S, M](state, options...),
		iterations: iterations,
	}
}

func (a *Searcher[S, M]) Move() (M, searcher.SearchMetric, error) {
	move, ok := a.mcts.FindMove(a.iterations)
	if !ok {
		return move, searcher.SearchMetric{}, ErrNoMove
	}
	return move, a.mcts.Metrics(), nil
}

func (a *Searcher[S, M]) Commit(move M) error {
	return a.mcts.Commit(move)
}

// Tree exposes the underlying search, e.g. for DOT export.
func (a *Searcher[S, M]) Tree() *searcher.MCTS[S, M] {
	return a.mcts
}

// Random plays uniformly random legal moves.
type Random[S game.State[S, M], M game.Move] struct {
	state S
	rand  *rand.Rand
}

func NewRandom[S game.State[S, M], M game.Move](state S, r *rand.Rand) *Random[S, M] {
	return &Random[S, M]{state: state.Clone(), rand: r}
}

func (a *Random[S, M]) Move() (M, searcher.SearchMetric, error) {
	if a.state.IsTerminal() {
		var none M
		return none, searcher.SearchMetric{}, ErrNoMove
	}
	return a.state.RandomMove(a.rand), searcher.SearchMetric{}, nil
}

func (a *Random[S, M]) Commit(move M) error {
	return a.state.Play(move)
}
