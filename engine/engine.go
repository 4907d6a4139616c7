package engine

import (
	"github.com/pkg/errors"

	"ismcts/game"
	"ismcts/searcher"
)

// MaxMoves bounds a game played by Local unless overridden.
const MaxMoves = 10000

// ErrNoMove is returned by an agent asked to move in a finished game.
var ErrNoMove = errors.New("no move available")

// Agent plays one seat. Every move of the game, its own included, is
// reported back through Commit.
type Agent[M game.Move] interface {
	// Move chooses a move for the current position without playing it.
	Move() (M, searcher.SearchMetric, error)
	Commit(move M) error
}
