// Package observation renders positions as fixed-shape tensors.
package observation

import "github.com/hailam/chessgym/internal/board"

const (
	Planes = 12
	Ranks  = 8
	Files  = 8

	// Size is the number of elements in a flattened tensor.
	Size = Planes * Ranks * Files
)

// Tensor is a one-hot piece encoding indexed [plane][row][col]. Planes run
// P N B R Q K p n b r q k; row 0 is rank 8 and col 0 is file a.
type Tensor [Planes][Ranks][Files]float32

// Encode returns the tensor for pos.
func Encode(pos *board.Position) Tensor {
	var t Tensor
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece {
			continue
		}
		t[Plane(pc)][7-sq.Rank()][sq.File()] = 1
	}
	return t
}

// Plane returns the tensor plane that holds pc.
func Plane(pc board.Piece) int {
	return int(pc.Color())*6 + int(pc.Type())
}

// At reports whether pc occupies sq.
func (t *Tensor) At(pc board.Piece, sq board.Square) bool {
	return t[Plane(pc)][7-sq.Rank()][sq.File()] == 1
}

// Flat returns the tensor as a row-major slice of Size elements.
func (t *Tensor) Flat() []float32 {
	out := make([]float32, 0, Size)
	for p := range t {
		for r := range t[p] {
			out = append(out, t[p][r][:]...)
		}
	}
	return out
}

// Count returns the number of set elements.
func (t *Tensor) Count() int {
	n := 0
	for p := range t {
		for r := range t[p] {
			for _, v := range t[p][r] {
				if v != 0 {
					n++
				}
			}
		}
	}
	return n
}
