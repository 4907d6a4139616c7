package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Player is a 1-based seat number. NoPlayer marks the absence of a mover,
// e.g. the root of a search tree or a drawn game's winner.
type Player int

const NoPlayer Player = 0

func (p Player) String() string {
	if p == NoPlayer {
		return "none"
	}
	return fmt.Sprintf("player %d", int(p))
}

// Next returns the seat after p in a game of n players.
func (p Player) Next(n int) Player {
	return Player(int(p)%n + 1)
}

// Move is an immutable description of one transition. Two moves denoting the
// same action must compare equal with ==, whichever code path built them.
// The zero value of a Move type is its null move.
type Move interface {
	comparable
	String() string
}

// State is a mutable information state. Play mutates the receiver in place;
// Clone and Determinize never do.
type State[S any, M Move] interface {
	// Moves returns every legal move, with no two moves equal.
	Moves() []M
	// Play applies a move returned by Moves on an equivalent state, or fails
	// with an error wrapping ErrIllegalMove and leaves the state untouched.
	Play(move M) error
	IsTerminal() bool
	// Result is the score of p in [0, 1] once the state is terminal.
	Result(p Player) float64
	// ToMove is the player who makes the next move.
	ToMove() Player
	// Determinize samples one fully observable state consistent with what
	// observer knows, resampling every hidden quantity.
	Determinize(observer Player, r *rand.Rand) S
	// RandomMove samples uniformly over Moves, or returns the zero move when
	// there is none.
	RandomMove(r *rand.Rand) M
	Clone() S
	String() string
}

// Parser reads the text form of a move, as produced by its String method.
type Parser[M Move] func(text string) (M, error)

// Viewer is implemented by states that render differently per observer.
type Viewer interface {
	View(observer Player) string
}
