package durak

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"ismcts/game"
)

const NumPlayers = 2

// State is a two player game of transfer durak. The stock is drawn from the
// end; stock[0] is the face-up trump card.
type State struct {
	hands   [NumPlayers]CardSet
	stock   []Card
	trump   Suit
	attack  CardSet // Uncovered cards on the table
	covered []Pair
	discard CardSet
	known   CardSet // Cards every player has seen

	attacker game.Player
	defender game.Player
	toMove   game.Player
	inBout   bool
}

// NewState shuffles a deck and deals HandSize cards to each player.
// Player 1 attacks first.
func NewState(r *rand.Rand) *State {
	deck := make([]Card, NumCards)
	for i := range deck {
		deck[i] = Card(i)
	}
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	s := &State{stock: deck, trump: deck[0].Suit(), known: SetOf(deck[0])}
	s.attacker, s.defender, s.toMove = 1, 2, 1
	s.deal()
	return s
}

// Deal describes a position at the start of a bout.
type Deal struct {
	Hands    [NumPlayers]CardSet
	Stock    []Card
	Trump    Suit
	Attacker game.Player
	Known    CardSet
}

// FromDeal builds a state from explicit hands and stock. The bottom stock
// card, when there is one, sets the trump suit and is known to everyone.
func FromDeal(d Deal) (*State, error) {
	if d.Attacker != 1 && d.Attacker != 2 {
		return nil, errors.Errorf("invalid attacker: %d", d.Attacker)
	}
	var seen CardSet
	for _, h := range d.Hands {
		if seen&h != 0 {
			return nil, errors.Errorf("card dealt twice: %s", seen&h)
		}
		seen |= h
	}
	for _, c := range d.Stock {
		if seen.Has(c) {
			return nil, errors.Errorf("card dealt twice: %s", c)
		}
		seen = seen.Add(c)
	}

	s := &State{
		hands:    d.Hands,
		stock:    append([]Card(nil), d.Stock...),
		trump:    d.Trump,
		known:    d.Known,
		attacker: d.Attacker,
		defender: d.Attacker.Next(NumPlayers),
		toMove:   d.Attacker,
	}
	if len(s.stock) > 0 {
		s.trump = s.stock[0].Suit()
		s.known = s.known.Add(s.stock[0])
	}
	return s, nil
}

func (s *State) hand(p game.Player) CardSet {
	return s.hands[p-1]
}

func (s *State) Hand(p game.Player) CardSet { return s.hand(p) }
func (s *State) Trump() Suit                { return s.trump }
func (s *State) StockSize() int             { return len(s.stock) }
func (s *State) Known() CardSet             { return s.known }
func (s *State) ToMove() game.Player        { return s.toMove }

func (s *State) IsTerminal() bool {
	for _, h := range s.hands {
		if h.IsEmpty() {
			return true
		}
	}
	return false
}

// Result is 1 for the player who shed every card, 0 for the other, and 0.5
// each when both hands emptied together.
func (s *State) Result(p game.Player) float64 {
	out := lo.Filter([]game.Player{1, 2}, func(q game.Player, _ int) bool {
		return s.hand(q).IsEmpty()
	})
	switch {
	case len(out) == NumPlayers:
		return 0.5
	case lo.Contains(out, p):
		return 1
	default:
		return 0
	}
}

// Moves lists attacks while no bout is running. In a bout the defender may
// transfer, give up or cover, and must close the bout once the attacker
// passes; the attacker throws in or passes.
func (s *State) Moves() []Move {
	if s.IsTerminal() {
		return nil
	}
	hand := s.hand(s.toMove)

	if !s.inBout {
		limit := s.hand(s.defender).Len()
		var moves []Move
		for r := Rank(0); r < NumRanks; r++ {
			for _, cards := range hand.OfRank(r).subsets(limit) {
				moves = append(moves, Move{Kind: Attack, Cards: cards})
			}
		}
		return moves
	}

	if s.toMove == s.defender {
		if s.attack.IsEmpty() {
			return []Move{Done()}
		}

		var moves []Move
		if len(s.covered) == 0 && bits.OnesCount16(s.attack.Ranks()) == 1 {
			rank := s.attack.Cards()[0].Rank()
			limit := s.hand(s.attacker).Len() - s.attack.Len()
			for _, cards := range hand.OfRank(rank).subsets(limit) {
				moves = append(moves, Move{Kind: Transfer, Cards: cards})
			}
		}
		moves = append(moves, GiveUp())
		if pairs, ok := s.cover(hand); ok {
			moves = append(moves, DefendWith(pairs...))
		}
		return moves
	}

	limit := s.hand(s.defender).Len() - s.attack.Len()
	var moves []Move
	ranks := s.tableCards().Ranks()
	for r := Rank(0); r < NumRanks; r++ {
		if ranks&(1<<uint(r)) == 0 {
			continue
		}
		for _, cards := range hand.OfRank(r).subsets(limit) {
			moves = append(moves, Move{Kind: ThrowIn, Cards: cards})
		}
	}
	return append(moves, Pass())
}

// cover assigns covering cards greedily: the hand is tried weakest first,
// non-trumps before trumps, each card covering the first attacking card it
// beats.
func (s *State) cover(hand CardSet) ([]Pair, bool) {
	cards := hand.Cards()
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		at, bt := a.Suit() == s.trump, b.Suit() == s.trump
		if at != bt {
			return bt
		}
		if a.Rank() != b.Rank() {
			return a.Rank() < b.Rank()
		}
		return a.Suit() < b.Suit()
	})

	open := s.attack.Cards()
	beaten := make([]bool, len(open))
	var pairs []Pair
	for _, c := range cards {
		for i, a := range open {
			if !beaten[i] && c.Beats(a, s.trump) {
				beaten[i] = true
				pairs = append(pairs, Pair{Attack: a, Cover: c})
				break
			}
		}
	}
	return pairs, len(pairs) == len(open)
}

func (s *State) tableCards() CardSet {
	t := s.attack
	for _, p := range s.covered {
		t = t.Add(p.Attack).Add(p.Cover)
	}
	return t
}

func (s *State) Play(move Move) error {
	if s.IsTerminal() {
		return game.IllegalMove(move, "game is over")
	}
	if !lo.Contains(s.Moves(), move) {
		return game.IllegalMove(move, fmt.Sprintf("not a legal %s for %s", move.Kind, s.toMove))
	}

	p := s.toMove - 1
	switch move.Kind {
	case Attack:
		s.hands[p] &^= move.Cards
		s.attack |= move.Cards
		s.known |= move.Cards
		s.inBout = true
		s.toMove = s.defender
	case Transfer:
		s.hands[p] &^= move.Cards
		s.attack |= move.Cards
		s.known |= move.Cards
		s.attacker, s.defender = s.defender, s.attacker
		s.toMove = s.defender
	case Take:
		s.hands[p] |= s.tableCards()
		s.clearTable()
		s.endBout()
		s.toMove = s.attacker
	case Defend:
		if move.Cards.IsEmpty() {
			s.discard |= s.tableCards()
			s.clearTable()
			s.endBout()
			s.attacker, s.defender = s.defender, s.attacker
			s.toMove = s.attacker
			break
		}
		s.hands[p] &^= move.Cards
		s.attack &^= move.Attacked()
		s.covered = append(s.covered, move.Pairs()...)
		s.known |= move.Cards
		s.toMove = s.attacker
	case ThrowIn:
		s.hands[p] &^= move.Cards
		s.attack |= move.Cards
		s.known |= move.Cards
		s.toMove = s.defender
	}
	return nil
}

func (s *State) clearTable() {
	s.attack = 0
	s.covered = nil
}

func (s *State) endBout() {
	s.inBout = false
	s.deal()
}

// deal fills hands up to HandSize from the end of the stock, attacker first.
func (s *State) deal() {
	for _, p := range []game.Player{s.attacker, s.defender} {
		for s.hand(p).Len() < HandSize && len(s.stock) > 0 {
			last := len(s.stock) - 1
			s.hands[p-1] = s.hands[p-1].Add(s.stock[last])
			s.stock = s.stock[:last]
		}
	}
}

// Determinize pools every card observer has not seen outside their own hand,
// shuffles the pool and deals it back, keeping hand and stock sizes.
func (s *State) Determinize(observer game.Player, r *rand.Rand) *State {
	d := s.Clone()

	var pool []Card
	for i, h := range d.hands {
		if game.Player(i+1) == observer {
			continue
		}
		pool = append(pool, (h &^ d.known).Cards()...)
	}
	for _, c := range d.stock {
		if !d.known.Has(c) {
			pool = append(pool, c)
		}
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	next := 0
	take := func() Card {
		if next >= len(pool) {
			panic("durak: hidden card pool exhausted while determinizing")
		}
		c := pool[next]
		next++
		return c
	}
	for i, h := range d.hands {
		if game.Player(i+1) == observer {
			continue
		}
		hidden := (h &^ d.known).Len()
		h &= d.known
		for j := 0; j < hidden; j++ {
			h = h.Add(take())
		}
		d.hands[i] = h
	}
	for i, c := range d.stock {
		if !d.known.Has(c) {
			d.stock[i] = take()
		}
	}
	if next != len(pool) {
		panic("durak: hidden cards left over after determinizing")
	}
	return d
}

func (s *State) RandomMove(r *rand.Rand) Move {
	moves := s.Moves()
	if len(moves) == 0 {
		return Move{}
	}
	return moves[r.Intn(len(moves))]
}

func (s *State) Clone() *State {
	c := *s
	c.stock = append([]Card(nil), s.stock...)
	c.covered = append([]Pair(nil), s.covered...)
	return &c
}

func (s *State) trumpCard() string {
	if len(s.stock) > 0 {
		return s.stock[0].String()
	}
	return s.trump.String()
}

func (s *State) table() string {
	var parts []string
	for _, p := range s.covered {
		parts = append(parts, p.Attack.String()+"/"+p.Cover.String())
	}
	for _, c := range s.attack.Cards() {
		parts = append(parts, c.String())
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}

func (s *State) status() string {
	switch {
	case s.IsTerminal():
		return "game over"
	case !s.inBout:
		return fmt.Sprintf("%s attacks", s.toMove)
	case s.toMove == s.defender:
		return fmt.Sprintf("%s defends", s.toMove)
	default:
		return fmt.Sprintf("%s may throw in", s.toMove)
	}
}

// String shows every card, hidden or not.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trump %s, stock %d, %s\n", s.trumpCard(), len(s.stock), s.status())
	for i, h := range s.hands {
		fmt.Fprintf(&b, "%s: %s\n", game.Player(i+1), h)
	}
	fmt.Fprintf(&b, "table: %s\n", s.table())
	return b.String()
}

// View shows observer's hand in full and only the known cards of the others.
func (s *State) View(observer game.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "trump %s, stock %d, %s\n", s.trumpCard(), len(s.stock), s.status())
	for i, h := range s.hands {
		p := game.Player(i + 1)
		if p == observer {
			fmt.Fprintf(&b, "%s (you): %s\n", p, h)
			continue
		}
		seen := h & s.known
		fmt.Fprintf(&b, "%s: %d cards", p, h.Len())
		if !seen.IsEmpty() {
			fmt.Fprintf(&b, ", showing %s", seen)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "table: %s\n", s.table())
	return b.String()
}
