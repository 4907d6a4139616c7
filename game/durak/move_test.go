package durak

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ismcts/game"
)

func TestMoveText(t *testing.T) {
	cases := []struct {
		text string
		move Move
	}{
		{"A 6S 6C", Move{Kind: Attack, Cards: SetOf(0, 1)}},
		{"D GIVEUP", GiveUp()},
		{"D", Done()},
		{"T", Pass()},
		{"T 7H", Move{Kind: ThrowIn, Cards: SetOf(NewCard(1, Hearts))}},
		{"R 6D", Move{Kind: Transfer, Cards: SetOf(NewCard(0, Diamonds))}},
		{"D 6S 7S 6C 6H", DefendWith(
			Pair{Attack: NewCard(0, Spades), Cover: NewCard(1, Spades)},
			Pair{Attack: NewCard(0, Clubs), Cover: NewCard(0, Hearts)},
		)},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			require.Equal(t, tc.text, tc.move.String())
			got, err := ParseMove(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.move, got, "Should parse back to an equal move")
		})
	}
}

func TestMoveEquality(t *testing.T) {
	t.Run("card order does not matter", func(t *testing.T) {
		a, err := ParseMove("A 6C 6S")
		require.NoError(t, err)
		require.True(t, a == AttackWith(NewCard(0, Spades), NewCard(0, Clubs)))
	})

	t.Run("pair order does not matter", func(t *testing.T) {
		p1 := Pair{Attack: NewCard(0, Spades), Cover: NewCard(1, Spades)}
		p2 := Pair{Attack: NewCard(0, Clubs), Cover: NewCard(1, Clubs)}
		require.True(t, DefendWith(p1, p2) == DefendWith(p2, p1))
	})

	t.Run("pairing matters", func(t *testing.T) {
		a := DefendWith(
			Pair{Attack: NewCard(0, Spades), Cover: NewCard(0, Hearts)},
			Pair{Attack: NewCard(0, Clubs), Cover: NewCard(1, Hearts)},
		)
		b := DefendWith(
			Pair{Attack: NewCard(0, Spades), Cover: NewCard(1, Hearts)},
			Pair{Attack: NewCard(0, Clubs), Cover: NewCard(0, Hearts)},
		)
		require.NotEqual(t, a, b, "Should tell apart moves covering with the same cards differently")
	})

	t.Run("usable as map key", func(t *testing.T) {
		seen := map[Move]int{}
		seen[AttackWith(0, 1)]++
		seen[AttackWith(1, 0)]++
		seen[Pass()]++
		require.Len(t, seen, 2)
	})

	t.Run("zero value is the null move", func(t *testing.T) {
		require.True(t, Move{}.IsNull())
		require.Equal(t, "-", Move{}.String())
	})
}

func TestParseMoveErrors(t *testing.T) {
	for _, text := range []string{"", "X 6S", "A", "R", "D 6S", "A 6S 6S", "A 5S", "T 6S ZZ"} {
		_, err := ParseMove(text)
		require.True(t, game.IsParseError(err), "Should reject %q", text)
	}
}
