package nnue

import "github.com/hailam/chessgym/internal/board"

// Accumulator holds the first-layer sums for both perspectives, indexed by color.
type Accumulator struct {
	values [2][]int16
}

func newAccumulator(l1 int) Accumulator {
	return Accumulator{values: [2][]int16{make([]int16, l1), make([]int16, l1)}}
}

func (a *Accumulator) copyFrom(o *Accumulator) {
	copy(a.values[board.White], o.values[board.White])
	copy(a.values[board.Black], o.values[board.Black])
}

// refresh recomputes one perspective from scratch.
func (a *Accumulator) refresh(pos *board.Position, net *Network, perspective board.Color) {
	v := a.values[perspective]
	copy(v, net.FeatureBias)
	ksq := pos.KingSquare[perspective]
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.Board[sq]
		if pc == board.NoPiece || pc.Type() == board.King {
			continue
		}
		addRow(v, net.featureRow(featureIndex(perspective, ksq, pc, sq)))
	}
}

// update applies the move recorded in u, already made on pos. A perspective
// whose own king moved has every feature change and is refreshed instead.
func (a *Accumulator) update(pos *board.Position, u board.Undo, net *Network) {
	d := moveDelta(u)
	for perspective := board.White; perspective <= board.Black; perspective++ {
		if u.Moved == board.NewPiece(board.King, perspective) {
			a.refresh(pos, net, perspective)
			continue
		}
		v := a.values[perspective]
		ksq := pos.KingSquare[perspective]
		for _, r := range d.removed[:d.nRemoved] {
			subRow(v, net.featureRow(featureIndex(perspective, ksq, r.pc, r.sq)))
		}
		for _, r := range d.added[:d.nAdded] {
			addRow(v, net.featureRow(featureIndex(perspective, ksq, r.pc, r.sq)))
		}
	}
}

func addRow(v, row []int16) {
	for i, w := range row {
		v[i] += w
	}
}

func subRow(v, row []int16) {
	for i, w := range row {
		v[i] -= w
	}
}
