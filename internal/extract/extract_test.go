package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hosgoru/handsync/internal/bridge"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestPageValid(t *testing.T) {
	page, err := Page(fixture(t, "board_valid.html"))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	deal := page.Deal
	if err := deal.Validate(); err != nil {
		t.Fatalf("extracted deal invalid: %v", err)
	}
	tests := []struct {
		seat bridge.Seat
		want string
	}{
		{bridge.North, "AKQJ.AKQ.AKQ.AKQ"},
		{bridge.South, "6543.876.876.876"},
		{bridge.East, "T987.JT9.JT9.JT9"},
		{bridge.West, "2.5432.5432.5432"},
	}
	for _, tt := range tests {
		if got := deal.Hand(tt.seat).String(); got != tt.want {
			t.Errorf("seat %s = %q, want %q", tt.seat, got, tt.want)
		}
	}
}

func TestPageResults(t *testing.T) {
	page, err := Page(fixture(t, "board_valid.html"))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("got %d result rows, want 2 (plain rows are skipped)", len(page.Results))
	}

	first := page.Results[0]
	if first.Contract != "4♠" {
		t.Errorf("contract = %q, want 4♠ from the suit image", first.Contract)
	}
	if first.Declarer != "K" || first.Result != "=" {
		t.Errorf("declarer/result = %q/%q", first.Declarer, first.Result)
	}
	if first.Lead != "H5" || first.Score != "620" {
		t.Errorf("lead/score = %q/%q", first.Lead, first.Score)
	}
	if first.Percent != 78.57 {
		t.Errorf("percent = %v, want 78.57 (decimal comma)", first.Percent)
	}
	if first.PairNames != "AYSE YILMAZ - MEHMET DEMIR" {
		t.Errorf("pair names = %q", first.PairNames)
	}
	if first.Direction != "NS" {
		t.Errorf("direction = %q, want NS", first.Direction)
	}

	second := page.Results[1]
	if second.Contract != "3NT" {
		t.Errorf("contract = %q, want 3NT", second.Contract)
	}
	if second.Lead != "" {
		t.Errorf("five-cell layout has no lead, got %q", second.Lead)
	}
	if second.Score != "-100" || second.Percent != 35.71 {
		t.Errorf("score/percent = %q/%v", second.Score, second.Percent)
	}
}

func TestPageVoidSuits(t *testing.T) {
	page, err := Page(fixture(t, "board_void.html"))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if got := page.Deal.N.String(); got != "AKQJT98765432.-.-.-" {
		t.Errorf("north = %q", got)
	}
	if got := page.Deal.W.SuitLength(bridge.Spades); got != 0 {
		t.Errorf("west spade length = %d, want void", got)
	}
}

func TestPageMisdeal(t *testing.T) {
	_, err := Page(fixture(t, "board_misdeal.html"))
	if !errors.Is(err, ErrDeal) {
		t.Fatalf("err = %v, want ErrDeal", err)
	}
	if !strings.Contains(err.Error(), "holds 14 cards") {
		t.Errorf("diagnostics missing from %v", err)
	}
}

func TestPageTooFewCells(t *testing.T) {
	_, err := Page(fixture(t, "board_short.html"))
	if !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
}

func TestContractStringForms(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<td>4S</td>`, "4♠"},
		{`<td>3nt</td>`, "3NT"},
		{`<td>2h</td>`, "2♥"},
		{`<td>5<img alt="clubs" src="c.gif"></td>`, "5♣"},
		{`<td>1<img alt="diamonds" src="d.gif"></td>`, "1♦"},
	}
	for _, tt := range tests {
		page, err := Page(wrapResults(tt.html))
		if err != nil {
			t.Fatalf("Page: %v", err)
		}
		if len(page.Results) != 1 {
			t.Fatalf("row for %q not parsed", tt.html)
		}
		if got := page.Results[0].Contract; got != tt.want {
			t.Errorf("contract for %q = %q, want %q", tt.html, got, tt.want)
		}
	}
}

// wrapResults embeds a contract cell in a minimal page with a valid deal and
// one clickable five-cell results row.
func wrapResults(contractCell string) string {
	deal := fixtureDealHTML()
	return `<html><body>` + deal + `
<table class="results">
<tr onclick="x">` + contractCell + `<td>K</td><td>=</td><td>110</td><td>50</td></tr>
</table></body></html>`
}

func fixtureDealHTML() string {
	cell := func(s, h, d, c string) string {
		return `<td class="oyuncu"><img alt="spades"> ` + s +
			`<br/><img alt="hearts"> ` + h +
			`<br/><img alt="diamonds"> ` + d +
			`<br/><img alt="clubs"> ` + c + `<br/></td>`
	}
	return `<table class="bridgetable"><tr>` +
		cell("AKQJ", "AKQ", "AKQ", "AKQ") +
		cell("6543", "876", "876", "876") +
		cell("T987", "JT9", "JT9", "JT9") +
		cell("2", "5432", "5432", "5432") +
		`</tr></table>`
}
