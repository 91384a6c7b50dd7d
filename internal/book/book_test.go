package book

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/hailam/chessgym/internal/board"
)

func findMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	for _, m := range pos.LegalMoves() {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not legal", uci)
	return board.NoMove
}

func writeEntry(buf *bytes.Buffer, key uint64, move, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, move)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0))
}

func TestBookLoadAndProbe(t *testing.T) {
	pos := board.NewPosition()

	// e2e4 = from 12 | to 28<<6
	var buf bytes.Buffer
	writeEntry(&buf, pos.Hash, uint16(board.E2)|uint16(board.E4)<<6, 100)

	book, err := Read(&buf)
	if err != nil {
		t.Fatalf("Failed to load book: %v", err)
	}
	if book.Size() != 1 {
		t.Errorf("Expected book size 1, got %d", book.Size())
	}

	move, found := book.Probe(pos, nil)
	if !found {
		t.Fatal("Expected to find move in book")
	}
	if move.String() != "e2e4" || !move.Has(board.FlagDoublePush) {
		t.Errorf("Expected e2e4 with double push flag, got %s", move)
	}
}

func TestProbeSkipsIllegalMoves(t *testing.T) {
	pos := board.NewPosition()
	var buf bytes.Buffer
	writeEntry(&buf, pos.Hash, uint16(board.E2)|uint16(board.E5)<<6, 1000)
	writeEntry(&buf, pos.Hash, uint16(board.G1)|uint16(board.F3)<<6, 1)

	book, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	all := book.ProbeAll(pos)
	if len(all) != 1 || all[0].Move.String() != "g1f3" {
		t.Fatalf("ProbeAll = %v, want only g1f3", all)
	}
	if m, ok := book.Probe(pos, rand.New(rand.NewSource(1))); !ok || m.String() != "g1f3" {
		t.Errorf("Probe = %s, %v", m, ok)
	}
}

func TestProbeMiss(t *testing.T) {
	book := New()
	if _, ok := book.Probe(board.NewPosition(), nil); ok {
		t.Error("probe hit in empty book")
	}
	var nilBook *Book
	if _, ok := nilBook.Probe(board.NewPosition(), nil); ok {
		t.Error("probe hit in nil book")
	}
	if nilBook.Size() != 0 {
		t.Error("nil book has entries")
	}
}

func TestWeightedProbe(t *testing.T) {
	pos := board.NewPosition()
	book := New()
	book.Add(pos, findMove(t, pos, "e2e4"), 3)
	book.Add(pos, findMove(t, pos, "d2d4"), 1)
	book.Add(pos, findMove(t, pos, "a2a3"), 0)

	if m, _ := book.Probe(pos, nil); m.String() != "e2e4" {
		t.Errorf("heaviest move = %s, want e2e4", m)
	}

	counts := map[string]int{}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 4000; i++ {
		m, ok := book.Probe(pos, rng)
		if !ok {
			t.Fatal("probe missed")
		}
		counts[m.String()]++
	}
	if counts["a2a3"] != 0 {
		t.Errorf("zero-weight move chosen %d times", counts["a2a3"])
	}
	if counts["e2e4"] < 2700 || counts["e2e4"] > 3300 {
		t.Errorf("e2e4 chosen %d of 4000 times, want about 3000", counts["e2e4"])
	}
}

func TestSaveReadRoundTrip(t *testing.T) {
	pos := board.NewPosition()
	book := New()
	book.Add(pos, findMove(t, pos, "e2e4"), 10)
	e4 := findMove(t, pos, "e2e4")
	pos.MakeMove(e4)
	book.Add(pos, findMove(t, pos, "c7c5"), 7)

	promo, err := board.ParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	book.Add(promo, findMove(t, promo, "b7b8n"), 2)

	path := filepath.Join(t.TempDir(), "test.bin")
	if err := book.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 3 {
		t.Fatalf("size = %d, want 3", loaded.Size())
	}
	if m, _ := loaded.Probe(pos, nil); m.String() != "c7c5" {
		t.Errorf("after e4 got %s, want c7c5", m)
	}
	if m, _ := loaded.Probe(promo, nil); m.String() != "b7b8n" || m.Promotion() != board.Knight {
		t.Errorf("promotion entry = %s", m)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	writeEntry(&buf, 1, 0, 0)
	buf.Truncate(10)
	if _, err := Read(&buf); err == nil {
		t.Error("expected error for truncated entry")
	}
}
