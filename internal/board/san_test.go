package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		move string
		want string
	}{
		{StartFEN, "g1f3", "Nf3"},
		{StartFEN, "e2e4", "e4"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", "b8=Q+"},
		{"6k1/5ppp/8/8/8/8/8/R3R1K1 w - - 0 1", "e1e8", "Re8#"},
		{"6k1/5ppp/8/8/8/8/8/R3R1K1 w - - 0 1", "a1d1", "Rad1"},
		{"4k3/8/8/8/8/8/8/N1N1K3 w - - 0 1", "a1b3", "Nab3"},
		{"4k3/8/8/8/8/N7/8/N3K3 w - - 0 1", "a1c2", "N1c2"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
	}
	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		m := findMove(t, pos, tc.move)
		if got := pos.SAN(m); got != tc.want {
			t.Errorf("%s %s: SAN = %q, want %q", tc.fen, tc.move, got, tc.want)
		}
	}
}
