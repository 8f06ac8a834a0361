package dds

import (
	"fmt"
	"sort"

	"github.com/hosgoru/handsync/internal/bridge"
)

// Analysis is the full enrichment for one deal.
type Analysis struct {
	Table   Table
	Optimum *Optimum
	LoTT    *LoTT
}

// Solver produces double-dummy analysis for a deal. Implementations must be
// synchronous and deterministic; they are not assumed re-entrant, so callers
// serialize access.
type Solver interface {
	Solve(deal *bridge.Deal, dealer bridge.Seat, vulnerability string) (*Analysis, error)
}

// RankSolver is the built-in solver. It projects trick counts from combined
// rank strength per suit, adds a ruff allowance for trump contracts, and
// derives the defending side as the 13-complement, which keeps the emitted
// table consistent with the double-dummy symmetries.
type RankSolver struct{}

// NewRankSolver returns the built-in deterministic solver.
func NewRankSolver() *RankSolver { return &RankSolver{} }

// Solve computes the trick table, par contract, and LoTT figures.
func (rs *RankSolver) Solve(deal *bridge.Deal, dealer bridge.Seat, vulnerability string) (*Analysis, error) {
	if err := deal.Validate(); err != nil {
		return nil, fmt.Errorf("solver input: %w", err)
	}

	table := rs.buildTable(deal)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("solver output: %w", err)
	}

	return &Analysis{
		Table:   table,
		Optimum: Par(table, vulnerability, dealer),
		LoTT:    ComputeLoTT(deal, table),
	}, nil
}

// buildTable fills all 20 cells. NS cells come from the projection; EW cells
// are the 13-complement.
func (rs *RankSolver) buildTable(deal *bridge.Deal) Table {
	table := Table{}
	for _, seat := range bridge.Seats {
		table[string(seat)] = make(map[string]int, len(Denoms))
	}

	for _, denom := range Denoms {
		ns := rs.projectNS(deal, denom)
		table["N"][denom] = ns
		table["S"][denom] = ns
		table["E"][denom] = 13 - ns
		table["W"][denom] = 13 - ns
	}
	return table
}

// projectNS estimates the NS trick count in a denomination, in [0,13].
func (rs *RankSolver) projectNS(deal *bridge.Deal, denom string) int {
	tricks := 0
	for suit := bridge.Spades; suit <= bridge.Clubs; suit++ {
		tricks += quickWinners(deal, suit)
	}

	// Trump contracts: long-fit ruffing power, balanced against the
	// defenders' own trump length.
	if denom != "NT" {
		var trump bridge.Suit
		for s := bridge.Spades; s <= bridge.Clubs; s++ {
			if s.Letter() == denom {
				trump = s
			}
		}
		nsLen := deal.CombinedLength("NS", trump)
		ewLen := deal.CombinedLength("EW", trump)
		if nsLen > 7 {
			tricks += nsLen - 7
		}
		if ewLen > 7 {
			tricks -= ewLen - 7
		}
	}

	if tricks < 0 {
		return 0
	}
	if tricks > 13 {
		return 13
	}
	return tricks
}

// quickWinners counts the tricks NS can expect in one suit by walking both
// sides' merged holdings high to low: an NS card wins when it beats the best
// remaining defender card, and every NS card left after the defenders run out
// of the suit wins by default.
func quickWinners(deal *bridge.Deal, suit bridge.Suit) int {
	ours := mergedRanks(deal.N[suit], deal.S[suit])
	theirs := mergedRanks(deal.E[suit], deal.W[suit])

	tricks := 0
	di := 0
	for _, card := range ours {
		if di < len(theirs) {
			if card < theirs[di] {
				tricks++
			}
			di++
		} else {
			tricks++
		}
	}
	return tricks
}

// mergedRanks returns the combined rank indexes of two holdings, best first.
// Lower index = higher rank (Ranks is ordered high to low).
func mergedRanks(a, b string) []int {
	merged := make([]int, 0, len(a)+len(b))
	for _, r := range a + b {
		merged = append(merged, rankOrder(r))
	}
	sort.Ints(merged)
	return merged
}

func rankOrder(r rune) int {
	for i, c := range bridge.Ranks {
		if c == r {
			return i
		}
	}
	return len(bridge.Ranks)
}
