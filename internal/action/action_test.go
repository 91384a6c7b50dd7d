package action

import (
	"errors"
	"testing"

	"github.com/hailam/chessgym/internal/board"
)

func TestIndexLayout(t *testing.T) {
	tests := []struct {
		sq   board.Square
		want int
	}{
		{board.A8, 0}, {board.H8, 7}, {board.A1, 56}, {board.H1, 63}, {board.E2, 52}, {board.D7, 11},
	}
	for _, tc := range tests {
		if got := Index(tc.sq); got != tc.want {
			t.Errorf("Index(%s) = %d, want %d", tc.sq, got, tc.want)
		}
		if got := Square(tc.want); got != tc.sq {
			t.Errorf("Square(%d) = %s, want %s", tc.want, got, tc.sq)
		}
	}
}

func TestEncodeDecodeAllActions(t *testing.T) {
	for a := 0; a < Size; a++ {
		from, to, err := Decode(a)
		if err != nil {
			t.Fatalf("Decode(%d): %v", a, err)
		}
		if got := Encode(board.NewMove(from, to, board.FlagNormal)); got != a {
			t.Fatalf("Encode(Decode(%d)) = %d", a, got)
		}
		s := Format(a)
		back, err := Parse(s)
		if err != nil || back != a {
			t.Fatalf("Parse(%q) = %d, %v; want %d", s, back, err, a)
		}
	}
}

func TestKnownActions(t *testing.T) {
	a, err := Parse("d7d5")
	if err != nil {
		t.Fatal(err)
	}
	if want := 11*64 + 27; a != want {
		t.Errorf("d7d5 = %d, want %d", a, want)
	}
	if got := Format(52*64 + 36); got != "e2e4" {
		t.Errorf("Format = %q, want e2e4", got)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	for _, a := range []int{-1, Size, 1 << 20} {
		_, _, err := Decode(a)
		var ia *IllegalActionError
		if !errors.As(err, &ia) {
			t.Errorf("Decode(%d) error = %v, want IllegalActionError", a, err)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "e2e", "e2e4q", "i2e4", "e0e4", "e2e9"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded", s)
		}
	}
}

func TestResolvePromotesToQueen(t *testing.T) {
	pos, err := board.ParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Resolve(pos, FromSquares(board.B7, board.B8))
	if err != nil {
		t.Fatal(err)
	}
	if m.Promotion() != board.Queen {
		t.Errorf("promotion = %d, want queen", m.Promotion())
	}
	if len(Legal(pos)) != 6 {
		t.Errorf("Legal = %v, want 6 distinct actions", Legal(pos))
	}
}

func TestResolveIllegal(t *testing.T) {
	pos := board.NewPosition()
	a, _ := Parse("e2e5")
	_, err := Resolve(pos, a)
	var ia *IllegalActionError
	if !errors.As(err, &ia) || ia.Action != a {
		t.Fatalf("Resolve(e2e5) error = %v, want IllegalActionError", err)
	}

	a, _ = Parse("e2e4")
	m, err := Resolve(pos, a)
	if err != nil || !m.Has(board.FlagDoublePush) {
		t.Fatalf("Resolve(e2e4) = %v, %v", m, err)
	}
}

func TestMask(t *testing.T) {
	mask := Mask(board.NewPosition())
	n := 0
	for _, ok := range mask {
		if ok {
			n++
		}
	}
	if n != 20 {
		t.Errorf("start position mask has %d actions, want 20", n)
	}
}
