package metrics

import (
	"time"

	"ismcts/game"
	"ismcts/searcher"
)

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   string
	searcher.SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player // NoPlayer on a draw or an unfinished game
	Scores         []float64   // Indexed by player - 1
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Finished       bool // False when the move limit cut the game short
}

// Score returns p's result, 0 for an unfinished game.
func (g GameMetric) Score(p game.Player) float64 {
	if p < 1 || int(p) > len(g.Scores) {
		return 0
	}
	return g.Scores[p-1]
}
