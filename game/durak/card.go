package durak

import (
	"math/bits"
	"strings"

	"ismcts/game"
)

const (
	NumSuits = 4
	NumRanks = 9
	NumCards = NumSuits * NumRanks
	HandSize = 6
)

type Suit int8

const (
	Spades Suit = iota
	Clubs
	Hearts
	Diamonds
)

const suitLetters = "SCHD"

func (s Suit) String() string {
	return suitLetters[s : s+1]
}

type Rank int8

var rankNames = [NumRanks]string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func (r Rank) String() string {
	return rankNames[r]
}

// Card is numbered rank*NumSuits + suit.
type Card int8

func NewCard(r Rank, s Suit) Card {
	return Card(int8(r)*NumSuits + int8(s))
}

func (c Card) Suit() Suit { return Suit(c % NumSuits) }
func (c Card) Rank() Rank { return Rank(c / NumSuits) }

func (c Card) String() string {
	return c.Rank().String() + c.Suit().String()
}

// Beats reports whether c covers other when trump is the trump suit.
func (c Card) Beats(other Card, trump Suit) bool {
	switch {
	case c.Suit() == other.Suit():
		return c.Rank() > other.Rank()
	default:
		return c.Suit() == trump
	}
}

func ParseCard(text string) (Card, error) {
	c, reason := parseCard(text)
	if reason != "" {
		return 0, &game.ParseError{Text: text, Reason: reason}
	}
	return c, nil
}

func parseCard(text string) (Card, string) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if len(s) < 2 {
		return 0, "card needs a rank and a suit"
	}
	suit := strings.IndexByte(suitLetters, s[len(s)-1])
	if suit < 0 {
		return 0, "unknown suit in " + text
	}
	for r, name := range rankNames {
		if name == s[:len(s)-1] {
			return NewCard(Rank(r), Suit(suit)), ""
		}
	}
	return 0, "unknown rank in " + text
}

// CardSet is a bitmask over the deck.
type CardSet uint64

func SetOf(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

func (s CardSet) Add(c Card) CardSet    { return s | 1<<uint(c) }
func (s CardSet) Remove(c Card) CardSet { return s &^ (1 << uint(c)) }
func (s CardSet) Has(c Card) bool       { return s&(1<<uint(c)) != 0 }
func (s CardSet) Len() int              { return bits.OnesCount64(uint64(s)) }
func (s CardSet) IsEmpty() bool         { return s == 0 }

// Contains reports whether every card of o is in s.
func (s CardSet) Contains(o CardSet) bool {
	return s&o == o
}

// Cards lists the set in ascending card order.
func (s CardSet) Cards() []Card {
	cards := make([]Card, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		cards = append(cards, Card(bits.TrailingZeros64(rest)))
	}
	return cards
}

func (s CardSet) OfRank(r Rank) CardSet {
	return s & (0b1111 << (uint(r) * NumSuits))
}

// Ranks returns a bitmask with bit r set when s holds a card of rank r.
func (s CardSet) Ranks() uint16 {
	var ranks uint16
	for r := Rank(0); r < NumRanks; r++ {
		if !s.OfRank(r).IsEmpty() {
			ranks |= 1 << uint(r)
		}
	}
	return ranks
}

func (s CardSet) String() string {
	cards := s.Cards()
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

// subsets returns every non-empty subset of s holding at most limit cards.
func (s CardSet) subsets(limit int) []CardSet {
	cards := s.Cards()
	var out []CardSet
	for mask := 1; mask < 1<<len(cards); mask++ {
		if bits.OnesCount(uint(mask)) > limit {
			continue
		}
		var sub CardSet
		for i, c := range cards {
			if mask&(1<<i) != 0 {
				sub = sub.Add(c)
			}
		}
		out = append(out, sub)
	}
	return out
}
