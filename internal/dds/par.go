package dds

import (
	"fmt"

	"github.com/hosgoru/handsync/internal/bridge"
)

// Optimum is the par result: the contract neither side can profitably outbid
// when both play double-dummy. The JSON form matches the canonical database's
// optimum field; Contract carries total tricks rather than bid level, e.g.
// "10♠" for 4♠ making ten tricks.
type Optimum struct {
	Text     string `json:"text"`
	Score    int    `json:"score"`
	Declarer string `json:"declarer,omitempty"`
	Contract string `json:"contract,omitempty"`
	Level    int    `json:"level,omitempty"`
	Denom    string `json:"denom,omitempty"`
	Tricks   int    `json:"tricks,omitempty"`
}

// PassOut is the par of a deal where neither side can score positively.
func PassOut() *Optimum {
	return &Optimum{Text: "Pass Out", Score: 0}
}

// Par sweeps every contract in ascending auction order, letting each side
// outbid whenever doing so improves its own signed score. Making contracts
// score undoubled with double-dummy overtricks; failing ones are taken as
// doubled sacrifices. The last accepted bid is the par.
//
// Scores are signed from NS's viewpoint throughout.
func Par(table Table, vulnerability string, dealer bridge.Seat) *Optimum {
	best := PassOut()

	for level := 1; level <= 7; level++ {
		for _, denom := range Denoms {
			for _, side := range []string{"NS", "EW"} {
				tricks := table.sideTricks(side, denom)
				vul := sideVulnerable(side, vulnerability)

				var raw int
				if tricks >= level+6 {
					raw = contractScore(level, denom, tricks, vul, false)
				} else {
					raw = -setPenalty(level+6-tricks, vul, true)
				}

				signed := raw
				if side == "EW" {
					signed = -raw
				}

				improves := (side == "NS" && signed > best.Score) ||
					(side == "EW" && signed < best.Score)
				if !improves {
					continue
				}

				totalTricks := tricks
				if tricks < level+6 {
					totalTricks = level + 6
				}
				sym := denomSymbols[denom]
				best = &Optimum{
					Text:     fmt.Sprintf("%s %d%s; %+d", side, totalTricks, sym, signed),
					Score:    signed,
					Declarer: side,
					Contract: fmt.Sprintf("%d%s", totalTricks, sym),
					Level:    level,
					Denom:    sym,
					Tricks:   totalTricks,
				}
			}
		}
	}
	return best
}

// sideVulnerable reports whether a partnership is vulnerable under the
// board's vulnerability string.
func sideVulnerable(side, vulnerability string) bool {
	switch vulnerability {
	case "Both", "All":
		return true
	case "NS":
		return side == "NS"
	case "EW":
		return side == "EW"
	}
	return false
}

// contractScore is the duplicate score for a made contract.
func contractScore(level int, denom string, tricks int, vulnerable, doubled bool) int {
	perTrick, firstTrick := 20, 20
	switch denom {
	case "H", "S":
		perTrick, firstTrick = 30, 30
	case "NT":
		perTrick, firstTrick = 30, 40
	}

	trickScore := firstTrick + (level-1)*perTrick
	if doubled {
		trickScore *= 2
	}

	score := trickScore
	if trickScore >= 100 {
		if vulnerable {
			score += 500
		} else {
			score += 300
		}
	} else {
		score += 50
	}
	switch level {
	case 6:
		if vulnerable {
			score += 750
		} else {
			score += 500
		}
	case 7:
		if vulnerable {
			score += 1500
		} else {
			score += 1000
		}
	}

	over := tricks - (level + 6)
	if over > 0 {
		if doubled {
			if vulnerable {
				score += over * 200
			} else {
				score += over * 100
			}
		} else {
			score += over * perTrick
		}
	}
	if doubled {
		score += 50
	}
	return score
}

// setPenalty is the penalty for going down, as a positive number.
func setPenalty(down int, vulnerable, doubled bool) int {
	if !doubled {
		if vulnerable {
			return down * 100
		}
		return down * 50
	}
	if vulnerable {
		// 200 for the first, 300 each after.
		return 200 + (down-1)*300
	}
	// 100, 300, 500, then 300 each.
	switch down {
	case 1:
		return 100
	case 2:
		return 300
	case 3:
		return 500
	default:
		return 500 + (down-3)*300
	}
}
