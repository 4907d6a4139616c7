package engine

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"ismcts/experiments/metrics"
	"ismcts/game"
)

// Local referees a game between in-process agents, one per seat.
type Local[S game.State[S, M], M game.Move] struct {
	State    S
	Agents   []Agent[M] // Indexed by player - 1
	MaxMoves int
}

func NewLocal[S game.State[S, M], M game.Move](state S, agents ...Agent[M]) *Local[S, M] {
	if len(agents) < 2 {
		panic("need at least two agents")
	}
	return &Local[S, M]{
		State:    state.Clone(),
		Agents:   agents,
		MaxMoves: MaxMoves,
	}
}

// Run plays until the game ends or MaxMoves moves were made. Each move is
// played on the referee state first and then committed to every agent. An
// illegal move ends the run with an error.
func (e *Local[S, M]) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.ToMove(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("%s is starting", gameMetric.StartingPlayer)

	for step := 1; !e.State.IsTerminal() && step <= e.MaxMoves; step++ {
		player := e.State.ToMove()
		if int(player) < 1 || int(player) > len(e.Agents) {
			return gameMetric, moveMetrics, errors.Errorf("no agent seated as %s", player)
		}

		move, searchMetric, err := e.Agents[player-1].Move()
		if err != nil {
			return gameMetric, moveMetrics, errors.Wrapf(err, "%s failed to move", player)
		}
		if err := e.State.Play(move); err != nil {
			return gameMetric, moveMetrics, errors.Wrapf(err, "%s played an illegal move", player)
		}
		for i, agent := range e.Agents {
			if err := agent.Commit(move); err != nil {
				return gameMetric, moveMetrics, errors.Wrapf(err, "cannot commit %s to agent %d", move, i+1)
			}
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Stringer("player", player).Stringer("move", move).Msg("played")
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Finished = e.State.IsTerminal()
	if gameMetric.Finished {
		gameMetric.Scores = make([]float64, len(e.Agents))
		for i := range e.Agents {
			gameMetric.Scores[i] = e.State.Result(game.Player(i + 1))
		}
		gameMetric.Winner = winner(gameMetric.Scores)
	} else {
		log.Warn().Msgf("stopped after %d moves without a winner", e.MaxMoves)
	}
	return gameMetric, moveMetrics, nil
}

// winner is the player with the strictly highest score.
func winner(scores []float64) game.Player {
	best := game.NoPlayer
	tied := false
	for i, s := range scores {
		switch {
		case best == game.NoPlayer || s > scores[best-1]:
			best, tied = game.Player(i+1), false
		case s == scores[best-1]:
			tied = true
		}
	}
	if tied {
		return game.NoPlayer
	}
	return best
}
