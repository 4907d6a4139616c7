package play

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"ismcts/config"
	"ismcts/game"
	"ismcts/game/durak"
	"ismcts/game/tictactoe"
	"ismcts/searcher"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotEngineTurn = errors.New("not the engine's turn")
)

// Session is a game between a human and the engine, whatever the game.
type Session interface {
	Game() string
	// View renders the position as the human sees it.
	View() string
	ToMove() game.Player
	Human() game.Player
	Over() bool
	// Outcome describes the result for the human once the game is over.
	Outcome() string
	// Moves lists the human's legal moves, empty when it is not their turn.
	Moves() []string
	// Play parses and commits the human's move.
	Play(text string) error
	// Respond lets the engine choose and commit its move.
	Respond() (string, error)
	// Dot renders the engine's search tree down to depth.
	Dot(depth int) string
}

type session[S game.State[S, M], M game.Move] struct {
	name       string
	state      S
	engine     *searcher.MCTS[S, M]
	parse      game.Parser[M]
	human      game.Player
	iterations int
}

// New deals a fresh game as configured.
func New(cfg config.Play) (Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = frand.Uint64n(1 << 62)
	}
	r := rand.New(rand.NewSource(seed))

	switch cfg.Game {
	case "tictactoe":
		return newSession[*tictactoe.State, tictactoe.Move](cfg, tictactoe.NewState(), tictactoe.ParseMove, r), nil
	case "durak":
		return newSession[*durak.State, durak.Move](cfg, durak.NewState(r), durak.ParseMove, r), nil
	}
	return nil, errors.Errorf("unknown game %q", cfg.Game)
}

func newSession[S game.State[S, M], M game.Move](cfg config.Play, state S, parse game.Parser[M], r *rand.Rand) *session[S, M] {
	engineSeat := cfg.Human.Next(2)
	log.Info().Msgf("new %s game, engine plays as %s", cfg.Game, engineSeat)
	return &session[S, M]{
		name:  cfg.Game,
		state: state,
		engine: searcher.New[S, M](state,
			searcher.WithObserver(engineSeat),
			searcher.WithExploration(cfg.Exploration),
			searcher.WithRand(rand.New(rand.NewSource(r.Uint64()))),
		),
		parse:      parse,
		human:      cfg.Human,
		iterations: cfg.Iterations,
	}
}

func (s *session[S, M]) Game() string        { return s.name }
func (s *session[S, M]) ToMove() game.Player { return s.state.ToMove() }
func (s *session[S, M]) Human() game.Player  { return s.human }
func (s *session[S, M]) Over() bool          { return s.state.IsTerminal() }

func (s *session[S, M]) View() string {
	if v, ok := any(s.state).(game.Viewer); ok {
		return v.View(s.human)
	}
	return s.state.String()
}

func (s *session[S, M]) Outcome() string {
	if !s.Over() {
		return ""
	}
	switch r := s.state.Result(s.human); {
	case r > 0.5:
		return "you win"
	case r < 0.5:
		return "you lose"
	}
	return "draw"
}

func (s *session[S, M]) Moves() []string {
	if s.Over() || s.ToMove() != s.human {
		return nil
	}
	return lo.Map(s.state.Moves(), func(m M, _ int) string { return m.String() })
}

func (s *session[S, M]) Play(text string) error {
	if s.Over() {
		return ErrGameOver
	}
	if s.ToMove() != s.human {
		return ErrNotYourTurn
	}
	move, err := s.parse(text)
	if err != nil {
		return err
	}
	return s.commit(move)
}

func (s *session[S, M]) Respond() (string, error) {
	if s.Over() {
		return "", ErrGameOver
	}
	if s.ToMove() == s.human {
		return "", ErrNotEngineTurn
	}
	move, ok := s.engine.FindMove(s.iterations)
	if !ok {
		return "", errors.New("engine found no move")
	}
	if err := s.commit(move); err != nil {
		return "", err
	}
	return move.String(), nil
}

// commit plays move on the referee state and then on the engine's tree.
func (s *session[S, M]) commit(move M) error {
	mover := s.state.ToMove()
	if err := s.state.Play(move); err != nil {
		return err
	}
	if err := s.engine.Commit(move); err != nil {
		return errors.Wrap(err, "engine rejected a legal move")
	}
	log.Debug().Msgf("%s played %s", mover, move)
	return nil
}

func (s *session[S, M]) Dot(depth int) string {
	return s.engine.ToDot(depth)
}
