package tictactoe

import (
	"strconv"
	"strings"

	"ismcts/game"
)

// Move marks one square, numbered 0..8 row by row. The zero Move is null.
type Move int8

const NullMove Move = 0

func Square(i int) Move {
	return Move(i + 1)
}

func (m Move) Square() int {
	return int(m) - 1
}

func (m Move) IsNull() bool {
	return m == NullMove
}

func (m Move) String() string {
	if m.IsNull() {
		return "-"
	}
	return strconv.Itoa(m.Square())
}

func ParseMove(text string) (Move, error) {
	s := strings.TrimSpace(text)
	i, err := strconv.Atoi(s)
	if err != nil {
		return NullMove, &game.ParseError{Text: text, Reason: "square must be a number"}
	}
	if i < 0 || i >= squares {
		return NullMove, &game.ParseError{Text: text, Reason: "square must be between 0 and 8"}
	}
	return Square(i), nil
}
