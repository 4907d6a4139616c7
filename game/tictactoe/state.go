package tictactoe

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"ismcts/game"
)

const (
	squares = 9
	full    = 1<<squares - 1
)

var lines = [...]uint16{
	0b000000111, 0b000111000, 0b111000000,
	0b001001001, 0b010010010, 0b100100100,
	0b100010001, 0b001010100,
}

// State is a fully observable board. X is player 1 and moves first.
type State struct {
	marks  [2]uint16 // Indexed by player - 1
	toMove game.Player
}

func NewState() *State {
	return &State{toMove: 1}
}

// FromBoard builds a state from nine cells of 'X', 'O' or '.', read row by
// row. Whitespace is ignored.
func FromBoard(board string, toMove game.Player) (*State, error) {
	cells := strings.Join(strings.Fields(board), "")
	if len(cells) != squares {
		return nil, errors.Errorf("board must have %d cells, got %d", squares, len(cells))
	}
	if toMove != 1 && toMove != 2 {
		return nil, errors.Errorf("invalid player to move: %d", toMove)
	}
	s := &State{toMove: toMove}
	for i, c := range cells {
		switch c {
		case 'X', 'x':
			s.marks[0] |= 1 << i
		case 'O', 'o':
			s.marks[1] |= 1 << i
		case '.':
		default:
			return nil, errors.Errorf("invalid cell %q at %d", c, i)
		}
	}
	return s, nil
}

func (s *State) occupied() uint16 {
	return s.marks[0] | s.marks[1]
}

func (s *State) ToMove() game.Player {
	return s.toMove
}

func (s *State) Moves() []Move {
	if s.IsTerminal() {
		return nil
	}
	free := full &^ s.occupied()
	moves := make([]Move, 0, bits.OnesCount16(free))
	for i := 0; i < squares; i++ {
		if free&(1<<i) != 0 {
			moves = append(moves, Square(i))
		}
	}
	return moves
}

func (s *State) Play(move Move) error {
	if s.IsTerminal() {
		return game.IllegalMove(move, "game is over")
	}
	i := move.Square()
	if i < 0 || i >= squares {
		return game.IllegalMove(move, "no such square")
	}
	if s.occupied()&(1<<i) != 0 {
		return game.IllegalMove(move, "square is taken")
	}
	s.marks[s.toMove-1] |= 1 << i
	s.toMove = s.toMove.Next(2)
	return nil
}

func (s *State) winner() game.Player {
	for _, line := range lines {
		for p := range s.marks {
			if s.marks[p]&line == line {
				return game.Player(p + 1)
			}
		}
	}
	return game.NoPlayer
}

func (s *State) IsTerminal() bool {
	return s.winner() != game.NoPlayer || s.occupied() == full
}

// Result scores a win 1, a loss 0 and a draw 0.5.
func (s *State) Result(p game.Player) float64 {
	switch s.winner() {
	case game.NoPlayer:
		return 0.5
	case p:
		return 1
	default:
		return 0
	}
}

// Winner is NoPlayer while the game runs and when it ends in a draw.
func (s *State) Winner() game.Player {
	return s.winner()
}

// Determinize returns a clone: there is nothing hidden on the board.
func (s *State) Determinize(game.Player, *rand.Rand) *State {
	return s.Clone()
}

func (s *State) RandomMove(r *rand.Rand) Move {
	moves := s.Moves()
	if len(moves) == 0 {
		return NullMove
	}
	return moves[r.Intn(len(moves))]
}

func (s *State) Clone() *State {
	c := *s
	return &c
}

func (s *State) String() string {
	var b strings.Builder
	for i := 0; i < squares; i++ {
		switch {
		case s.marks[0]&(1<<i) != 0:
			b.WriteByte('X')
		case s.marks[1]&(1<<i) != 0:
			b.WriteByte('O')
		default:
			b.WriteByte('.')
		}
		if i%3 == 2 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
