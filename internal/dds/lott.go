package dds

import "github.com/hosgoru/handsync/internal/bridge"

// Fit describes a partnership's best trump fit.
type Fit struct {
	Suit     string `json:"suit"`
	SuitCode string `json:"suit_code"`
	Length   int    `json:"length"`
	Tricks   int    `json:"tricks"`
}

// LoTT holds the Law-of-Total-Tricks figures: the sum of the two
// partnerships' trick counts in their respective best fits. Stored as a
// quantity, not a prediction.
type LoTT struct {
	TotalTricks int `json:"total_tricks"`
	NSFit       Fit `json:"ns_fit"`
	EWFit       Fit `json:"ew_fit"`
}

// ComputeLoTT picks each partnership's best fit, preferring length and
// breaking ties on double-dummy tricks, then sums the two trick counts.
func ComputeLoTT(deal *bridge.Deal, table Table) *LoTT {
	best := func(partnership string) Fit {
		var pick Fit
		for suit := bridge.Spades; suit <= bridge.Clubs; suit++ {
			f := Fit{
				Suit:     suit.Symbol(),
				SuitCode: suit.Letter(),
				Length:   deal.CombinedLength(partnership, suit),
				Tricks:   table.sideTricks(partnership, suit.Letter()),
			}
			if f.Length > pick.Length || (f.Length == pick.Length && f.Tricks > pick.Tricks) {
				pick = f
			}
		}
		return pick
	}

	ns := best("NS")
	ew := best("EW")
	return &LoTT{
		TotalTricks: ns.Tricks + ew.Tricks,
		NSFit:       ns,
		EWFit:       ew,
	}
}
