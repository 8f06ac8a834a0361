// Package hands defines the Hand Record, the unit stored in the canonical
// database, together with its LIN/BBO viewer encodings.
package hands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hosgoru/handsync/internal/bridge"
	"github.com/hosgoru/handsync/internal/dds"
)

// BBOViewerURL is the hand-viewer endpoint LIN strings link into.
const BBOViewerURL = "https://www.bridgebase.com/tools/handviewer.html"

// PairResult is one pair's outcome on the board.
type PairResult struct {
	PairNames string  `json:"pair_names"`
	Direction string  `json:"direction"`
	Contract  string  `json:"contract"`
	Declarer  string  `json:"declarer"`
	Result    string  `json:"result"`
	Lead      string  `json:"lead,omitempty"`
	Score     string  `json:"score"`
	Percent   float64 `json:"percent"`
}

// Record is one board of one event. Uniqueness key: (event_id, board).
// Hands are stored in the dotted S.H.D.C form with "-" for voids.
type Record struct {
	EventID       int          `json:"event_id"`
	Board         int          `json:"board"`
	Date          string       `json:"date"`
	Dealer        string       `json:"dealer"`
	Vulnerability string       `json:"vulnerability"`
	N             string       `json:"N"`
	S             string       `json:"S"`
	E             string       `json:"E"`
	W             string       `json:"W"`
	DDAnalysis    dds.Table    `json:"dd_analysis"`
	Optimum       *dds.Optimum `json:"optimum"`
	LoTT          *dds.LoTT    `json:"lott"`
	LinString     string       `json:"lin_string"`
	BBOURL        string       `json:"bbo_url"`
	Results       []PairResult `json:"results,omitempty"`
}

// Key identifies a record in the canonical database.
type Key struct {
	EventID int
	Board   int
}

func (k Key) String() string { return fmt.Sprintf("(%d, %d)", k.EventID, k.Board) }

// Key returns the record's composite key.
func (r *Record) Key() Key { return Key{EventID: r.EventID, Board: r.Board} }

// Enriched reports whether the record carries double-dummy analysis.
func (r *Record) Enriched() bool { return r.DDAnalysis != nil }

// Deal decodes the four stored hand strings.
func (r *Record) Deal() (*bridge.Deal, error) {
	deal := &bridge.Deal{}
	for seat, raw := range map[bridge.Seat]string{
		bridge.North: r.N, bridge.South: r.S, bridge.East: r.E, bridge.West: r.W,
	} {
		h, err := bridge.ParseHand(raw)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat, err)
		}
		deal.SetHand(seat, h)
	}
	return deal, nil
}

// New builds an unenriched record from an extracted deal. Dealer and
// vulnerability derive from the board number; the LIN string and BBO viewer
// URL are generated immediately so even unenriched records are viewable.
func New(eventID, board int, date string, deal *bridge.Deal) *Record {
	r := &Record{
		EventID:       eventID,
		Board:         board,
		Date:          date,
		Dealer:        string(bridge.DealerFor(board)),
		Vulnerability: bridge.VulnerabilityFor(board),
		N:             deal.N.String(),
		S:             deal.S.String(),
		E:             deal.E.String(),
		W:             deal.W.String(),
	}
	r.LinString = LinString(deal, bridge.DealerFor(board), r.Vulnerability)
	r.BBOURL = BBOViewerURL + "?lin=" + url.QueryEscape(r.LinString)
	return r
}

// Attach stores a completed analysis on the record.
func (r *Record) Attach(a *dds.Analysis) {
	r.DDAnalysis = a.Table
	r.Optimum = a.Optimum
	r.LoTT = a.LoTT
}

var linDealerDigit = map[bridge.Seat]string{
	bridge.North: "1", bridge.East: "2", bridge.South: "3", bridge.West: "4",
}

var linVulnDigit = map[string]string{
	"None": "0", "NS": "1", "EW": "2", "Both": "3",
}

// linDealerOrder lists the three hands the LIN md token spells out, starting
// from the dealer; the fourth hand is implied.
var linDealerOrder = map[bridge.Seat][]bridge.Seat{
	bridge.North: {bridge.North, bridge.East, bridge.South},
	bridge.East:  {bridge.East, bridge.South, bridge.West},
	bridge.South: {bridge.South, bridge.West, bridge.North},
	bridge.West:  {bridge.West, bridge.North, bridge.East},
}

// LinString encodes a deal in the LIN form the BBO hand viewer accepts.
func LinString(deal *bridge.Deal, dealer bridge.Seat, vulnerability string) string {
	order, ok := linDealerOrder[dealer]
	if !ok {
		order = linDealerOrder[bridge.North]
	}
	encoded := make([]string, len(order))
	for i, seat := range order {
		encoded[i] = linHand(deal.Hand(seat))
	}

	d := linDealerDigit[dealer]
	if d == "" {
		d = "1"
	}
	v := linVulnDigit[vulnerability]
	if v == "" {
		v = "0"
	}
	return fmt.Sprintf("qx|o1|md|%s%s,|rh||ah|Board|sv|%s|pg||", d, strings.Join(encoded, ","), v)
}

// linHand renders one hand as SxxxHxxxDxxxCxxx with voids collapsed.
func linHand(h bridge.Hand) string {
	var b strings.Builder
	for suit := bridge.Spades; suit <= bridge.Clubs; suit++ {
		b.WriteString(suit.Letter())
		b.WriteString(h[suit])
	}
	return b.String()
}
