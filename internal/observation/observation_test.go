package observation

import (
	"testing"

	"github.com/hailam/chessgym/internal/board"
)

func TestEncodeStartPosition(t *testing.T) {
	obs := Encode(board.NewPosition())
	if got := obs.Count(); got != 32 {
		t.Fatalf("set elements = %d, want 32", got)
	}

	tests := []struct {
		plane    int
		row, col int
	}{
		{0, 6, 0},  // white pawn a2
		{0, 6, 7},  // white pawn h2
		{3, 7, 0},  // white rook a1
		{4, 7, 3},  // white queen d1
		{5, 7, 4},  // white king e1
		{6, 1, 3},  // black pawn d7
		{9, 0, 7},  // black rook h8
		{10, 0, 3}, // black queen d8
		{11, 0, 4}, // black king e8
	}
	for _, tc := range tests {
		if obs[tc.plane][tc.row][tc.col] != 1 {
			t.Errorf("plane %d row %d col %d not set", tc.plane, tc.row, tc.col)
		}
	}
	for p := 0; p < Planes; p++ {
		want := 1
		switch p % 6 {
		case int(board.Pawn):
			want = 8
		case int(board.Knight), int(board.Bishop), int(board.Rook):
			want = 2
		}
		n := 0
		for r := range obs[p] {
			for _, v := range obs[p][r] {
				n += int(v)
			}
		}
		if n != want {
			t.Errorf("plane %d has %d pieces, want %d", p, n, want)
		}
	}
}

func TestEncodeAfterMove(t *testing.T) {
	pos := board.NewPosition()
	for _, m := range pos.LegalMoves() {
		if m.String() == "d2d4" {
			pos.MakeMove(m)
		}
	}
	obs := Encode(pos)
	if obs.At(board.WhitePawn, board.D2) {
		t.Error("white pawn still on d2")
	}
	if !obs.At(board.WhitePawn, board.D4) {
		t.Error("white pawn missing on d4")
	}
	if obs[0][4][3] != 1 || obs[0][6][3] != 0 {
		t.Error("d4 should be row 4 col 3 of plane 0")
	}
}

func TestFlatLayout(t *testing.T) {
	obs := Encode(board.NewPosition())
	flat := obs.Flat()
	if len(flat) != Size {
		t.Fatalf("len = %d, want %d", len(flat), Size)
	}
	for p := 0; p < Planes; p++ {
		for r := 0; r < Ranks; r++ {
			for c := 0; c < Files; c++ {
				if flat[p*64+r*8+c] != obs[p][r][c] {
					t.Fatalf("flat[%d,%d,%d] mismatch", p, r, c)
				}
			}
		}
	}
}

func TestEncodeIsPure(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	a, b := Encode(pos), Encode(pos)
	if a != b {
		t.Error("two encodings of the same position differ")
	}
	if a.Count() != 32 {
		t.Errorf("count = %d, want 32", a.Count())
	}
}
