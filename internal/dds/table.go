package dds

import (
	"fmt"

	"github.com/hosgoru/handsync/internal/bridge"
)

// Denoms lists the five denominations in ascending auction order.
var Denoms = []string{"C", "D", "H", "S", "NT"}

// denomSymbols maps denomination codes to their display glyphs.
var denomSymbols = map[string]string{
	"C": "♣", "D": "♦", "H": "♥", "S": "♠", "NT": "NT",
}

// Table is the 20-cell double-dummy table, keyed seat then denomination code.
// The JSON form matches the canonical database's dd_analysis field.
type Table map[string]map[string]int

// Tricks returns the trick count for a declarer seat in a denomination.
func (t Table) Tricks(seat bridge.Seat, denom string) int {
	return t[string(seat)][denom]
}

// Validate checks the shape and the double-dummy symmetries: every cell in
// [0,13], partnership seats equal, and the two sides summing to 13 per
// denomination.
func (t Table) Validate() error {
	for _, seat := range bridge.Seats {
		row, ok := t[string(seat)]
		if !ok {
			return fmt.Errorf("dd table missing seat %s", seat)
		}
		for _, d := range Denoms {
			tricks, ok := row[d]
			if !ok {
				return fmt.Errorf("dd table missing %s for seat %s", d, seat)
			}
			if tricks < 0 || tricks > 13 {
				return fmt.Errorf("dd table %s/%s out of range: %d", seat, d, tricks)
			}
		}
	}
	for _, d := range Denoms {
		n, s := t.Tricks(bridge.North, d), t.Tricks(bridge.South, d)
		e, w := t.Tricks(bridge.East, d), t.Tricks(bridge.West, d)
		if n != s {
			return fmt.Errorf("dd table %s: N=%d S=%d differ", d, n, s)
		}
		if e != w {
			return fmt.Errorf("dd table %s: E=%d W=%d differ", d, e, w)
		}
		if n+e != 13 {
			return fmt.Errorf("dd table %s: N+E=%d, want 13", d, n+e)
		}
	}
	return nil
}

// sideTricks returns a partnership's trick count in a denomination.
// partnership is "NS" or "EW".
func (t Table) sideTricks(partnership, denom string) int {
	if partnership == "NS" {
		return t.Tricks(bridge.North, denom)
	}
	return t.Tricks(bridge.East, denom)
}
