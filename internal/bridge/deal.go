package bridge

import (
	"fmt"
	"strings"
)

// Seat identifies one of the four positions at the table.
type Seat string

const (
	North Seat = "N"
	East  Seat = "E"
	South Seat = "S"
	West  Seat = "W"
)

// Seats lists the four seats in the order used throughout the module.
var Seats = []Seat{North, South, East, West}

// Partner returns the seat across the table.
func (s Seat) Partner() Seat {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return s
}

// Partnership returns "NS" or "EW" for the seat.
func (s Seat) Partnership() string {
	if s == North || s == South {
		return "NS"
	}
	return "EW"
}

// Suit indexes the four suits in spades-first display order.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// SuitLetters are the single-letter suit codes in display order.
var SuitLetters = [4]string{"S", "H", "D", "C"}

// SuitSymbols are the Unicode pips in display order.
var SuitSymbols = [4]string{"♠", "♥", "♦", "♣"}

// Letter returns the suit's single-letter code.
func (s Suit) Letter() string { return SuitLetters[s] }

// Symbol returns the suit's Unicode pip.
func (s Suit) Symbol() string { return SuitSymbols[s] }

// Ranks are the thirteen card ranks, high to low.
const Ranks = "AKQJT98765432"

// rankIndex maps a rank glyph to its position in Ranks, or -1.
func rankIndex(r rune) int {
	return strings.IndexRune(Ranks, r)
}

// dealers is the standard rotation by board number.
var dealers = []Seat{North, East, South, West}

// DealerFor returns the dealer for a board per the standard rotation.
func DealerFor(board int) Seat {
	return dealers[(board-1)%4]
}

// vulnCycle is the standard 16-board vulnerability pattern.
var vulnCycle = []string{
	"None", "NS", "EW", "Both",
	"NS", "EW", "Both", "None",
	"EW", "Both", "None", "NS",
	"Both", "None", "NS", "EW",
}

// VulnerabilityFor returns the vulnerability for a board per the 16-board cycle.
func VulnerabilityFor(board int) string {
	return vulnCycle[(board-1)%16]
}

// Hand holds the cards of one seat, one rank string per suit in S,H,D,C order.
// A void is the empty string.
type Hand [4]string

// ParseHand decodes the dotted S.H.D.C form. A "-" field is a void.
func ParseHand(s string) (Hand, error) {
	var h Hand
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return h, fmt.Errorf("hand %q: want 4 dot-separated suits, got %d", s, len(parts))
	}
	for i, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "-" {
			p = ""
		}
		for _, r := range p {
			if rankIndex(r) < 0 {
				return h, fmt.Errorf("hand %q: invalid card %q in %s", s, string(r), SuitLetters[i])
			}
		}
		h[i] = p
	}
	return h, nil
}

// String renders the dotted S.H.D.C form with "-" for voids, so the encoded
// hand always has four visible fields.
func (h Hand) String() string {
	parts := make([]string, 4)
	for i, cards := range h {
		if cards == "" {
			parts[i] = "-"
		} else {
			parts[i] = cards
		}
	}
	return strings.Join(parts, ".")
}

// Count returns the number of cards in the hand.
func (h Hand) Count() int {
	n := 0
	for _, cards := range h {
		n += len(cards)
	}
	return n
}

// SuitLength returns the number of cards held in a suit.
func (h Hand) SuitLength(s Suit) int { return len(h[s]) }

// Deal maps each seat to its thirteen cards.
type Deal struct {
	N Hand `json:"N"`
	S Hand `json:"S"`
	E Hand `json:"E"`
	W Hand `json:"W"`
}

// Hand returns the hand at a seat.
func (d *Deal) Hand(s Seat) Hand {
	switch s {
	case North:
		return d.N
	case South:
		return d.S
	case East:
		return d.E
	}
	return d.W
}

// SetHand replaces the hand at a seat.
func (d *Deal) SetHand(s Seat, h Hand) {
	switch s {
	case North:
		d.N = h
	case South:
		d.S = h
	case East:
		d.E = h
	case West:
		d.W = h
	}
}

// CombinedLength returns a partnership's total holding in a suit.
// partnership is "NS" or "EW".
func (d *Deal) CombinedLength(partnership string, s Suit) int {
	if partnership == "NS" {
		return d.N.SuitLength(s) + d.S.SuitLength(s)
	}
	return d.E.SuitLength(s) + d.W.SuitLength(s)
}

// Validate checks that every seat holds exactly 13 cards and that the four
// hands partition the 52-card deck. The error carries seat-by-seat diagnostics.
func (d *Deal) Validate() error {
	var problems []string

	for _, seat := range Seats {
		if n := d.Hand(seat).Count(); n != 13 {
			problems = append(problems, fmt.Sprintf("%s holds %d cards", seat, n))
		}
	}

	// Card ownership across the deck. Duplicates and absences are both faults.
	owners := make(map[string][]Seat, 52)
	for _, seat := range Seats {
		h := d.Hand(seat)
		for suit := Spades; suit <= Clubs; suit++ {
			for _, r := range h[suit] {
				card := suit.Letter() + string(r)
				owners[card] = append(owners[card], seat)
			}
		}
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for _, r := range Ranks {
			card := suit.Letter() + string(r)
			switch holders := owners[card]; len(holders) {
			case 1:
			case 0:
				problems = append(problems, fmt.Sprintf("%s missing from all hands", card))
			default:
				seats := make([]string, len(holders))
				for i, s := range holders {
					seats[i] = string(s)
				}
				problems = append(problems, fmt.Sprintf("%s dealt to %s", card, strings.Join(seats, " and ")))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid deal: %s", strings.Join(problems, "; "))
	}
	return nil
}
