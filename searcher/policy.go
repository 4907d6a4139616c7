package searcher

import (
	"golang.org/x/exp/rand"

	"ismcts/game"
)

// Policy picks rollout moves. It is only asked on non-terminal states.
type Policy[S any, M game.Move] interface {
	Move(state S, r *rand.Rand) M
}

type PolicyFunc[S any, M game.Move] func(state S, r *rand.Rand) M

func (f PolicyFunc[S, M]) Move(state S, r *rand.Rand) M {
	return f(state, r)
}

// RandomPolicy plays uniformly random legal moves.
type RandomPolicy[S game.State[S, M], M game.Move] struct{}

func (RandomPolicy[S, M]) Move(state S, r *rand.Rand) M {
	return state.RandomMove(r)
}
