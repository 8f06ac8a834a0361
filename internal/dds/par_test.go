package dds

import (
	"testing"

	"github.com/hosgoru/handsync/internal/bridge"
)

func TestPassOut(t *testing.T) {
	p := PassOut()
	if p.Text != "Pass Out" || p.Score != 0 {
		t.Errorf("PassOut() = %+v", p)
	}
	if p.Declarer != "" || p.Contract != "" {
		t.Errorf("PassOut() should carry no contract: %+v", p)
	}
}

// With NS making ten tricks in spades and nothing else, a nonvulnerable EW
// holds par down by sacrificing in 4NT doubled rather than conceding the game.
func TestParSacrifice(t *testing.T) {
	table := makeTable(map[string]int{"C": 5, "D": 5, "H": 5, "S": 10, "NT": 5})
	p := Par(table, "None", bridge.North)

	if p.Score != 300 {
		t.Fatalf("par score = %d, want 300: %+v", p.Score, p)
	}
	if p.Declarer != "EW" || p.Level != 4 || p.Denom != "NT" || p.Tricks != 10 {
		t.Errorf("par contract = %+v, want EW 4NT for ten tricks", p)
	}
	if p.Text != "EW 10NT; +300" {
		t.Errorf("par text = %q", p.Text)
	}
}

// The same layout with EW vulnerable makes every sacrifice too expensive, so
// par is the plain game.
func TestParVulnerableNoSacrifice(t *testing.T) {
	table := makeTable(map[string]int{"C": 5, "D": 5, "H": 5, "S": 10, "NT": 5})
	p := Par(table, "EW", bridge.North)

	if p.Score != 470 {
		t.Fatalf("par score = %d, want 470: %+v", p.Score, p)
	}
	if p.Declarer != "NS" || p.Level != 4 || p.Denom != "♠" || p.Tricks != 10 {
		t.Errorf("par contract = %+v, want NS 4S making ten", p)
	}
	if p.Text != "NS 10♠; +470" {
		t.Errorf("par text = %q", p.Text)
	}
}

func TestContractScore(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		denom      string
		tricks     int
		vulnerable bool
		want       int
	}{
		{"1C making seven", 1, "C", 7, false, 70},
		{"1NT plus one", 1, "NT", 8, false, 120},
		{"3NT game", 3, "NT", 9, false, 400},
		{"3NT game vulnerable", 3, "NT", 9, true, 600},
		{"4S game", 4, "S", 10, false, 420},
		{"5D game", 5, "D", 11, false, 400},
		{"6H slam vulnerable", 6, "H", 12, true, 1430},
		{"7NT grand", 7, "NT", 13, false, 1520},
		{"7NT grand vulnerable", 7, "NT", 13, true, 2220},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contractScore(tt.level, tt.denom, tt.tricks, tt.vulnerable, false)
			if got != tt.want {
				t.Errorf("contractScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetPenalty(t *testing.T) {
	tests := []struct {
		down       int
		vulnerable bool
		doubled    bool
		want       int
	}{
		{1, false, false, 50},
		{2, true, false, 200},
		{1, false, true, 100},
		{2, false, true, 300},
		{3, false, true, 500},
		{5, false, true, 1100},
		{1, true, true, 200},
		{3, true, true, 800},
	}
	for _, tt := range tests {
		got := setPenalty(tt.down, tt.vulnerable, tt.doubled)
		if got != tt.want {
			t.Errorf("setPenalty(%d, vul=%v, dbl=%v) = %d, want %d",
				tt.down, tt.vulnerable, tt.doubled, got, tt.want)
		}
	}
}
