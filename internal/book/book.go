// Package book reads, writes and probes opening books keyed by the board's
// Zobrist hash.
package book

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/chessgym/internal/board"
)

// Entry format, big-endian, 16 bytes:
//
//	key    8 bytes  position hash
//	move   2 bytes  from | to<<6 | promo<<12
//	weight 2 bytes
//	learn  4 bytes  preserved, unused
const entrySize = 16

// promo field: 0=none, 1=knight, 2=bishop, 3=rook, 4=queen
var promoTypes = [...]board.PieceType{board.NoPieceType, board.Knight, board.Bishop, board.Rook, board.Queen}

// BookEntry represents a single book entry.
type BookEntry struct {
	Move   board.Move
	Weight uint16
	Learn  uint32
}

// Book represents an opening book.
type Book struct {
	entries map[uint64][]BookEntry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]BookEntry),
	}
}

// Load reads a book file.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	defer f.Close()

	b, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", path, err)
	}
	return b, nil
}

// Read loads a book from r. A trailing partial entry is an error.
func Read(r io.Reader) (*Book, error) {
	book := New()
	br := bufio.NewReader(r)
	var entry [entrySize]byte
	for n := 0; ; n++ {
		_, err := io.ReadFull(br, entry[:])
		if err == io.EOF {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("entry %d: truncated", n)
		}
		if err != nil {
			return nil, err
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		move := decodeMove(binary.BigEndian.Uint16(entry[8:10]))
		if move == board.NoMove {
			continue
		}
		book.entries[key] = append(book.entries[key], BookEntry{
			Move:   move,
			Weight: binary.BigEndian.Uint16(entry[10:12]),
			Learn:  binary.BigEndian.Uint32(entry[12:16]),
		})
	}
	return book, nil
}

// Add records m with the given weight for pos.
func (b *Book) Add(pos *board.Position, m board.Move, weight uint16) {
	b.entries[pos.Hash] = append(b.entries[pos.Hash], BookEntry{Move: m, Weight: weight})
}

// Save writes the book with keys in ascending order.
func (b *Book) Save(w io.Writer) error {
	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	bw := bufio.NewWriter(w)
	var entry [entrySize]byte
	for _, k := range keys {
		for _, e := range b.entries[k] {
			binary.BigEndian.PutUint64(entry[0:8], k)
			binary.BigEndian.PutUint16(entry[8:10], encodeMove(e.Move))
			binary.BigEndian.PutUint16(entry[10:12], e.Weight)
			binary.BigEndian.PutUint32(entry[12:16], e.Learn)
			if _, err := bw.Write(entry[:]); err != nil {
				return fmt.Errorf("write book: %w", err)
			}
		}
	}
	return bw.Flush()
}

// SaveFile writes the book to path.
func (b *Book) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	defer f.Close()
	if err := b.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// encodeMove packs the squares and promotion piece of m.
func encodeMove(m board.Move) uint16 {
	data := uint16(m.From()) | uint16(m.To())<<6
	if m.IsPromotion() {
		for i, pt := range promoTypes {
			if i > 0 && pt == m.Promotion() {
				data |= uint16(i) << 12
			}
		}
	}
	return data
}

// decodeMove unpacks a stored move. Flags are filled in later from the
// matching legal move.
func decodeMove(data uint16) board.Move {
	from := board.Square(data & 63)
	to := board.Square((data >> 6) & 63)
	promo := (data >> 12) & 7
	if from == to || int(promo) >= len(promoTypes) {
		return board.NoMove
	}
	if promo > 0 {
		return board.NewPromotion(from, to, promoTypes[promo], board.FlagNormal)
	}
	return board.NewMove(from, to, board.FlagNormal)
}

// Probe looks up pos and picks one of its legal book moves at random,
// weighted by entry weight. With a nil rng the heaviest move is returned.
func (b *Book) Probe(pos *board.Position, rng *rand.Rand) (board.Move, bool) {
	candidates := b.ProbeAll(pos)
	if len(candidates) == 0 {
		return board.NoMove, false
	}

	total := 0
	for _, e := range candidates {
		total += int(e.Weight)
	}
	if rng == nil || total == 0 {
		return candidates[0].Move, true
	}

	r := rng.Intn(total)
	for _, e := range candidates {
		r -= int(e.Weight)
		if r < 0 {
			return e.Move, true
		}
	}
	return candidates[0].Move, true
}

// ProbeAll returns the legal book moves for pos, heaviest first. Each move
// carries the flags of the matching legal move.
func (b *Book) ProbeAll(pos *board.Position) []BookEntry {
	if b == nil {
		return nil
	}
	entries := b.entries[pos.Hash]
	if len(entries) == 0 {
		return nil
	}

	legal := pos.LegalMoves()
	result := make([]BookEntry, 0, len(entries))
	for _, e := range entries {
		if m := verifyAndConvert(legal, e.Move); m != board.NoMove {
			e.Move = m
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}

// verifyAndConvert finds the legal move with the same squares and promotion
// piece as move.
func verifyAndConvert(legal []board.Move, move board.Move) board.Move {
	for _, lm := range legal {
		if lm.From() == move.From() && lm.To() == move.To() && lm.Promotion() == move.Promotion() {
			return lm
		}
	}
	return board.NoMove
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
