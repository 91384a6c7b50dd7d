package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

var perftPositions = []struct {
	name  string
	fen   string
	nodes []uint64 // indexed by depth-1
}{
	{"startpos", StartFEN, []uint64{20, 400, 8902, 197281}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862}},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
	{"ep pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94}},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftPositions {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: ParseFEN: %v", tc.name, err)
		}
		for i, want := range tc.nodes {
			depth := i + 1
			if testing.Short() && want > 100000 {
				continue
			}
			if got := pos.Perft(depth); got != want {
				t.Errorf("%s: perft(%d) = %d, want %d", tc.name, depth, got, want)
			}
		}
		if pos.FEN() != mustParse(t, tc.fen).FEN() {
			t.Errorf("%s: position not restored after perft", tc.name)
		}
	}
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, mv := range moves {
		unapply := b.Apply(mv)
		nodes += dragontoothPerft(b, depth-1)
		unapply()
	}
	return nodes
}

// TestPerftDivideAgainstDragontooth compares subtree sizes move by move with
// an independent generator, which pinpoints the first diverging move.
func TestPerftDivideAgainstDragontooth(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	const depth = 3
	for _, fen := range fens {
		pos := mustParse(t, fen)
		ours := make(map[string]uint64)
		for _, m := range pos.LegalMoves() {
			u := pos.MakeMove(m)
			ours[m.String()] = pos.Perft(depth - 1)
			pos.UnmakeMove(u)
		}

		b := dragontoothmg.ParseFen(fen)
		theirs := make(map[string]uint64)
		for _, mv := range b.GenerateLegalMoves() {
			unapply := b.Apply(mv)
			theirs[mv.String()] = dragontoothPerft(&b, depth-1)
			unapply()
		}

		if len(ours) != len(theirs) {
			t.Errorf("%s: %d root moves, dragontooth has %d", fen, len(ours), len(theirs))
		}
		for mv, n := range theirs {
			if ours[mv] != n {
				t.Errorf("%s: %s subtree = %d, dragontooth = %d", fen, mv, ours[mv], n)
			}
		}
	}
}

func mustParse(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}
