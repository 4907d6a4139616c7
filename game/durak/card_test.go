package durak

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ismcts/game"
)

func card(t *testing.T, text string) Card {
	t.Helper()
	c, err := ParseCard(text)
	require.NoError(t, err)
	return c
}

func TestParseCard(t *testing.T) {
	t.Run("round trips every card", func(t *testing.T) {
		for i := 0; i < NumCards; i++ {
			c := Card(i)
			got, err := ParseCard(c.String())
			require.NoError(t, err)
			require.Equal(t, c, got, "Should parse %s back", c)
		}
	})

	t.Run("numbering", func(t *testing.T) {
		require.Equal(t, Card(0), card(t, "6S"))
		require.Equal(t, Card(NumCards-1), card(t, "AD"))
		require.Equal(t, NewCard(4, Hearts), card(t, "10h"), "Should accept lower case")
	})

	t.Run("rejects bad cards", func(t *testing.T) {
		for _, text := range []string{"", "S", "5S", "6X", "11C"} {
			_, err := ParseCard(text)
			require.True(t, game.IsParseError(err), "Should reject %q", text)
		}
	})
}

func TestBeats(t *testing.T) {
	trump := Hearts
	require.True(t, card(t, "7S").Beats(card(t, "6S"), trump), "Higher card of the same suit should beat")
	require.False(t, card(t, "6S").Beats(card(t, "7S"), trump), "Lower card of the same suit should not beat")
	require.False(t, card(t, "AS").Beats(card(t, "6C"), trump), "Other non-trump suit should not beat")
	require.True(t, card(t, "6H").Beats(card(t, "AS"), trump), "Trump should beat a non-trump")
	require.False(t, card(t, "AS").Beats(card(t, "6H"), trump), "Non-trump should not beat a trump")
	require.True(t, card(t, "7H").Beats(card(t, "6H"), trump), "Higher trump should beat a lower trump")
}

func TestCardSet(t *testing.T) {
	s := SetOf(card(t, "AS"), card(t, "6C"), card(t, "6S"))
	require.Equal(t, 3, s.Len())
	require.Equal(t, "6S 6C AS", s.String(), "Should list cards in deck order")
	require.Equal(t, SetOf(card(t, "6S"), card(t, "6C")), s.OfRank(0))
	require.Equal(t, uint16(1|1<<8), s.Ranks())
	require.True(t, s.Contains(SetOf(card(t, "AS"))))
	require.False(t, s.Has(card(t, "AC")))

	t.Run("subsets respect limit", func(t *testing.T) {
		require.Len(t, s.subsets(3), 7)
		require.Len(t, s.subsets(1), 3)
		require.Empty(t, s.subsets(0))
	})
}
