package game

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type named string

func (n named) String() string { return string(n) }

func TestIllegalMove(t *testing.T) {
	err := IllegalMove(named("A 6S"), "card not in hand")
	require.True(t, IsIllegalMove(err), "Should wrap ErrIllegalMove")
	require.Contains(t, err.Error(), `"A 6S": card not in hand`)

	wrapped := errors.Wrap(err, "commit")
	require.True(t, IsIllegalMove(wrapped), "Should survive further wrapping")
	require.False(t, IsParseError(wrapped))
}

func TestParseError(t *testing.T) {
	err := errors.Wrap(&ParseError{Text: "Q", Reason: "unknown move kind Q"}, "read move")
	require.True(t, IsParseError(err))
	require.False(t, IsIllegalMove(err))
	require.Contains(t, err.Error(), `cannot parse move "Q"`)
}

func TestPlayerNext(t *testing.T) {
	require.Equal(t, Player(2), Player(1).Next(2))
	require.Equal(t, Player(1), Player(2).Next(2))
	require.Equal(t, "none", NoPlayer.String())
}
