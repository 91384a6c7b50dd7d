package board

import (
	"strings"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Outcome
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", Checkmate},
		{"check but escapable", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", Ongoing},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Stalemate},
		{"fifty moves", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80", FiftyMoveRule},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", InsufficientMaterial},
		{"lone knight", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1", InsufficientMaterial},
		{"same colored bishops", "4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", InsufficientMaterial},
		{"opposite colored bishops", "4k1b1/8/8/8/8/8/8/2B1K3 w - - 0 1", Ongoing},
		{"two knights", "4k3/8/8/8/8/8/8/3NKN2 w - - 0 1", Ongoing},
		{"mate beats fifty", "R6k/6pp/8/8/8/8/8/K7 b - - 120 90", Checkmate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			if got := pos.Status(); got != tc.want {
				t.Errorf("Status() = %s, want %s\n%s", got, tc.want, pos)
			}
		})
	}
}

func TestSideInCheck(t *testing.T) {
	pos := mustParse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !pos.InCheck(Black) {
		t.Errorf("black should be in check")
	}
	if pos.InCheck(White) {
		t.Errorf("white should not be in check")
	}
	if !pos.IsCheckmate() || pos.IsStalemate() {
		t.Errorf("IsCheckmate/IsStalemate disagree with position")
	}
}

func TestRepetition(t *testing.T) {
	pos := NewPosition()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i, s := range shuffle {
		pos.MakeMove(findMove(t, pos, s))
		if pos.IsRepetition() != (i == len(shuffle)-1) {
			t.Fatalf("after %s: IsRepetition = %v", s, pos.IsRepetition())
		}
	}

	pos = NewPosition()
	pos.MakeMove(findMove(t, pos, "e2e4"))
	pos.MakeMove(findMove(t, pos, "e7e5"))
	if pos.IsRepetition() {
		t.Fatalf("pawn moves cannot repeat")
	}
}

func TestRender(t *testing.T) {
	out := NewPosition().String()
	want := "8  r n b q k b n r\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("render = %q, want prefix %q", out, want)
	}
	for _, s := range []string{"   a b c d e f g h\n", "Side to move: white\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("render missing %q:\n%s", s, out)
		}
	}
}
