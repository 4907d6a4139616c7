package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrIllegalMove = errors.New("illegal move")

// IllegalMove wraps ErrIllegalMove with the offending move and a reason.
func IllegalMove(move fmt.Stringer, reason string) error {
	return errors.Wrapf(ErrIllegalMove, "%q: %s", move.String(), reason)
}

func IsIllegalMove(err error) bool {
	return errors.Is(err, ErrIllegalMove)
}

// ParseError reports move text that does not follow a game's grammar.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse move %q: %s", e.Text, e.Reason)
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
