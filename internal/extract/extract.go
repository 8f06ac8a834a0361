// Package extract parses board detail pages: the four-hand layout and the
// per-pair results table.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hosgoru/handsync/internal/bridge"
	"github.com/hosgoru/handsync/internal/hands"
)

// ErrExtract marks a page whose layout diverged from the expected shape.
var ErrExtract = errors.New("extraction failed")

// ErrDeal marks an extracted deal that fails the 13-card or 52-card
// partition invariant. The error text carries seat-by-seat diagnostics.
var ErrDeal = errors.New("deal invariant violated")

// BoardPage is everything parsed from one board detail page.
type BoardPage struct {
	Deal    *bridge.Deal
	Results []hands.PairResult
}

// suitAlts maps the site's image alt texts onto suits.
var suitAlts = map[string]bridge.Suit{
	"spades":   bridge.Spades,
	"hearts":   bridge.Hearts,
	"diamonds": bridge.Diamonds,
	"clubs":    bridge.Clubs,
}

// suitCardPatterns matches the suit image tag followed by the card glyphs up
// to the next tag. An empty capture is a void.
var suitCardPatterns = func() map[bridge.Suit]*regexp.Regexp {
	m := make(map[bridge.Suit]*regexp.Regexp, len(suitAlts))
	for alt, suit := range suitAlts {
		m[suit] = regexp.MustCompile(`(?i)<img[^>]*alt="` + alt + `"[^>]*/?>[\s]*([AKQJT2-9X-]*)`)
	}
	return m
}()

// seatOrder is the fixed document order of the four player cells. The
// extractor must not infer seats from any other cue.
var seatOrder = []bridge.Seat{bridge.North, bridge.South, bridge.East, bridge.West}

// Page parses a board detail page into a deal and its results rows.
// The returned deal's seats are the true seats; no rotation is applied here.
func Page(html string) (*BoardPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	deal, err := parseDeal(doc)
	if err != nil {
		return nil, err
	}
	return &BoardPage{Deal: deal, Results: parseResults(doc)}, nil
}

// parseDeal reads the four player cells into a validated deal.
func parseDeal(doc *goquery.Document) (*bridge.Deal, error) {
	cells := doc.Find("table.bridgetable td.oyuncu")
	if cells.Length() < len(seatOrder) {
		return nil, fmt.Errorf("%w: found %d player cells, want %d", ErrExtract, cells.Length(), len(seatOrder))
	}

	deal := &bridge.Deal{}
	var parseErr error
	cells.Each(func(i int, cell *goquery.Selection) {
		if i >= len(seatOrder) || parseErr != nil {
			return
		}
		raw, err := goquery.OuterHtml(cell)
		if err != nil {
			parseErr = fmt.Errorf("%w: seat %s: %v", ErrExtract, seatOrder[i], err)
			return
		}
		deal.SetHand(seatOrder[i], parseHand(raw))
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := deal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeal, err)
	}
	return deal, nil
}

// parseHand pulls one seat's cards out of the cell's HTML. A suit whose
// capture is empty or "-" is a void, not an error.
func parseHand(cellHTML string) bridge.Hand {
	var h bridge.Hand
	for suit, pattern := range suitCardPatterns {
		if m := pattern.FindStringSubmatch(cellHTML); m != nil {
			cards := strings.ToUpper(strings.TrimSpace(m[1]))
			if cards == "-" {
				cards = ""
			}
			h[suit] = cards
		}
	}
	return h
}

// highlightClasses mark the row belonging to the pair whose page this is.
var highlightClasses = map[string]bool{
	"fantastic":        true,
	"resultspecial":    true,
	"resultsimportant": true,
}

// parseResults scans the results table for highlighted or clickable rows and
// parses contract, declarer, tricks, score, and matchpoint percentage. The
// table comes in two layouts, with and without an opening-lead column.
func parseResults(doc *goquery.Document) []hands.PairResult {
	var out []hands.PairResult

	doc.Find("table.results tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		first := cells.First()
		class, _ := first.Attr("class")
		_, clickable := row.Attr("onclick")
		if !highlightClasses[strings.TrimSpace(class)] && !clickable {
			return
		}

		res := hands.PairResult{
			PairNames: rowPairNames(row),
			Direction: rowDirection(row),
			Contract:  contractString(first),
			Declarer:  strings.TrimSpace(cells.Eq(1).Text()),
			Result:    strings.TrimSpace(cells.Eq(2).Text()),
		}

		if cells.Length() >= 8 {
			res.Lead = strings.TrimSpace(cells.Eq(3).Text())
			res.Score = strings.TrimSpace(cells.Eq(4).Text())
			res.Percent = parsePercent(cells.Eq(7).Text())
		} else {
			res.Score = strings.TrimSpace(cells.Eq(3).Text())
			res.Percent = parsePercent(cells.Eq(cells.Length() - 1).Text())
		}
		out = append(out, res)
	})
	return out
}

// rowPairNames finds the "NAME - NAME" cell of a results row, when the layout
// carries one.
func rowPairNames(row *goquery.Selection) string {
	names := ""
	row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if strings.Contains(text, " - ") {
			names = text
			return false
		}
		return true
	})
	return names
}

// rowDirection finds the NS/EW column when the layout carries one.
func rowDirection(row *goquery.Selection) string {
	dir := ""
	row.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		if text == "NS" || text == "EW" {
			dir = text
			return false
		}
		return true
	})
	return dir
}

// letterSymbols maps textual suit letters onto the canonical pips.
var letterSymbols = map[string]string{"S": "♠", "H": "♥", "D": "♦", "C": "♣"}

// contractString canonicalizes a contract cell. The site renders contracts
// either as plain text ("4S", "3NT") or as a level digit followed by a suit
// image whose alt is the suit name; both map to level + pip, NT unchanged.
func contractString(cell *goquery.Selection) string {
	text := strings.TrimSpace(cell.Text())

	if img := cell.Find("img").First(); img.Length() > 0 {
		alt, _ := img.Attr("alt")
		if suit, ok := suitAlts[strings.ToLower(strings.TrimSpace(alt))]; ok {
			return text + suit.Symbol()
		}
	}

	upper := strings.ToUpper(text)
	if strings.HasSuffix(upper, "NT") {
		return upper
	}
	if len(upper) >= 2 {
		if sym, ok := letterSymbols[upper[len(upper)-1:]]; ok {
			return upper[:len(upper)-1] + sym
		}
	}
	return text
}

// parsePercent reads a matchpoint percentage, tolerating a decimal comma.
func parsePercent(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0
	}
	return v
}
