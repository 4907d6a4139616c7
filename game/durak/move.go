package durak

import (
	"strings"

	"ismcts/game"
)

type Kind int8

const (
	None Kind = iota
	Attack
	Defend
	Take
	ThrowIn
	Transfer
)

func (k Kind) String() string {
	switch k {
	case Attack:
		return "attack"
	case Defend:
		return "defend"
	case Take:
		return "take"
	case ThrowIn:
		return "throw-in"
	case Transfer:
		return "transfer"
	default:
		return "none"
	}
}

// Pair is one attacking card and the card covering it.
type Pair struct {
	Attack Card
	Cover  Card
}

// Move is a closed variant over Kind. Cards holds the cards leaving the
// mover's hand. A Defend move records which card covers which in covers,
// indexed by the attacking card and offset by one so that zero means
// uncovered. Every field is a value, so == is structural equality.
type Move struct {
	Kind   Kind
	Cards  CardSet
	covers [NumCards]int8
}

func AttackWith(cards ...Card) Move {
	return Move{Kind: Attack, Cards: SetOf(cards...)}
}

func ThrowInWith(cards ...Card) Move {
	return Move{Kind: ThrowIn, Cards: SetOf(cards...)}
}

func TransferWith(cards ...Card) Move {
	return Move{Kind: Transfer, Cards: SetOf(cards...)}
}

func DefendWith(pairs ...Pair) Move {
	m := Move{Kind: Defend}
	for _, p := range pairs {
		m.Cards = m.Cards.Add(p.Cover)
		m.covers[p.Attack] = int8(p.Cover) + 1
	}
	return m
}

// Pass ends the throw-in phase of a bout.
func Pass() Move { return Move{Kind: ThrowIn} }

// Done closes a bout after every attacking card was covered and the
// attacker passed.
func Done() Move { return Move{Kind: Defend} }

// GiveUp takes every card on the table into the defender's hand.
func GiveUp() Move { return Move{Kind: Take} }

func (m Move) IsNull() bool { return m.Kind == None }

// Pairs lists a Defend move's pairs in attacking card order.
func (m Move) Pairs() []Pair {
	var pairs []Pair
	for a, c := range m.covers {
		if c != 0 {
			pairs = append(pairs, Pair{Attack: Card(a), Cover: Card(c - 1)})
		}
	}
	return pairs
}

// Attacked is the set of cards a Defend move covers.
func (m Move) Attacked() CardSet {
	var s CardSet
	for _, p := range m.Pairs() {
		s = s.Add(p.Attack)
	}
	return s
}

// String renders the text grammar read by ParseMove:
//
//	A 6S 6C          attack
//	D 6S 7S 8H 9H    defend, as attacking/covering pairs
//	D                done
//	D GIVEUP         take the table
//	T 6S             throw in
//	T                pass
//	R 6C             transfer
func (m Move) String() string {
	switch m.Kind {
	case Attack:
		return join("A", m.Cards.String())
	case ThrowIn:
		return join("T", m.Cards.String())
	case Transfer:
		return join("R", m.Cards.String())
	case Take:
		return "D GIVEUP"
	case Defend:
		parts := []string{"D"}
		for _, p := range m.Pairs() {
			parts = append(parts, p.Attack.String(), p.Cover.String())
		}
		return strings.Join(parts, " ")
	default:
		return "-"
	}
}

func join(prefix, cards string) string {
	if cards == "" {
		return prefix
	}
	return prefix + " " + cards
}

func ParseMove(text string) (Move, error) {
	fields := strings.Fields(strings.ToUpper(text))
	if len(fields) == 0 {
		return Move{}, &game.ParseError{Text: text, Reason: "empty move"}
	}
	kind, args := fields[0], fields[1:]

	switch kind {
	case "A", "T", "R":
		cards, err := parseCardSet(text, args)
		if err != nil {
			return Move{}, err
		}
		switch kind {
		case "A":
			if cards.IsEmpty() {
				return Move{}, &game.ParseError{Text: text, Reason: "attack needs cards"}
			}
			return Move{Kind: Attack, Cards: cards}, nil
		case "R":
			if cards.IsEmpty() {
				return Move{}, &game.ParseError{Text: text, Reason: "transfer needs cards"}
			}
			return Move{Kind: Transfer, Cards: cards}, nil
		default:
			return Move{Kind: ThrowIn, Cards: cards}, nil
		}
	case "D":
		if len(args) == 1 && args[0] == "GIVEUP" {
			return GiveUp(), nil
		}
		if len(args)%2 != 0 {
			return Move{}, &game.ParseError{Text: text, Reason: "defend needs pairs of cards"}
		}
		if _, err := parseCardSet(text, args); err != nil {
			return Move{}, err
		}
		pairs := make([]Pair, 0, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			a, _ := parseCard(args[i])
			c, _ := parseCard(args[i+1])
			pairs = append(pairs, Pair{Attack: a, Cover: c})
		}
		return DefendWith(pairs...), nil
	default:
		return Move{}, &game.ParseError{Text: text, Reason: "unknown move kind " + kind}
	}
}

// parseCardSet rejects unknown and repeated cards.
func parseCardSet(text string, fields []string) (CardSet, error) {
	var s CardSet
	for _, f := range fields {
		c, reason := parseCard(f)
		if reason != "" {
			return 0, &game.ParseError{Text: text, Reason: reason}
		}
		if s.Has(c) {
			return 0, &game.ParseError{Text: text, Reason: "repeated card " + c.String()}
		}
		s = s.Add(c)
	}
	return s, nil
}
