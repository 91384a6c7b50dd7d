// Package nnue implements an efficiently updatable HalfKP network: a sparse
// king-relative piece-square input layer whose accumulators are updated
// incrementally as moves are made and unmade, followed by two small dense
// layers.
package nnue

import "github.com/hailam/chessgym/internal/board"

const (
	NumKingSquares  = 64
	NumPieceKinds   = 10 // P N B R Q for each side, kings excluded
	NumPieceSquares = 64

	// NumFeatures is the input width of each perspective.
	NumFeatures = NumKingSquares * NumPieceKinds * NumPieceSquares

	// Default layer sizes used by generated weight files.
	DefaultL1 = 256
	DefaultL2 = 32

	// MaxScore bounds evaluations so they stay clear of mate scores.
	MaxScore = 20000

	hiddenShift = 6
	outputShift = 6 + 8
	outputScale = 600
)

// clampedReLU clamps to the int8 activation range [0, 127].
func clampedReLU(x int32) int32 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return x
}

// Evaluator scores positions with a shared Network, keeping one accumulator
// per ply. An Evaluator belongs to a single search and must not be shared.
//
// An Evaluator built on a nil Network scores every position 0.
type Evaluator struct {
	net     *Network
	stack   []Accumulator
	top     int
	scratch []int32
}

// NewEvaluator returns an evaluator over net.
func NewEvaluator(net *Network) *Evaluator {
	e := &Evaluator{net: net}
	if net != nil {
		e.stack = make([]Accumulator, 1, 64)
		e.stack[0] = newAccumulator(net.L1)
		e.scratch = make([]int32, 2*net.L1)
	}
	return e
}

// Network returns the weights the evaluator reads.
func (e *Evaluator) Network() *Network { return e.net }

// Reset discards the stack and recomputes the root accumulator for pos.
func (e *Evaluator) Reset(pos *board.Position) {
	if e.net == nil {
		return
	}
	e.top = 0
	e.stack[0].refresh(pos, e.net, board.White)
	e.stack[0].refresh(pos, e.net, board.Black)
}

// Push records the move described by u, which must have just been made on pos.
func (e *Evaluator) Push(pos *board.Position, u board.Undo) {
	if e.net == nil {
		return
	}
	if e.top+1 == len(e.stack) {
		e.stack = append(e.stack, newAccumulator(e.net.L1))
	}
	e.stack[e.top+1].copyFrom(&e.stack[e.top])
	e.top++
	e.stack[e.top].update(pos, u, e.net)
}

// Pop reverts the most recent Push.
func (e *Evaluator) Pop() {
	if e.top > 0 {
		e.top--
	}
}

// Evaluate returns the score of pos in centipawns from the side to move's
// point of view, damped towards zero as the fifty-move counter runs out.
func (e *Evaluator) Evaluate(pos *board.Position) int {
	if e.net == nil {
		return 0
	}
	acc := &e.stack[e.top]
	us := pos.SideToMove
	score := e.net.forward(acc.values[us], acc.values[us.Other()], e.scratch)
	score = max(-MaxScore, min(MaxScore, score))
	rule50 := pos.HalfMoveClock
	if rule50 > 100 {
		rule50 = 100
	}
	return score * (100 - rule50) / 100
}
