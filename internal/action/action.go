// Package action converts between the environment's integer action space and
// board moves.
//
// An action is origin*64 + destination, with squares numbered rank-major from
// a8 (0) to h1 (63). The integer carries no promotion piece; a pawn reaching
// the last rank is always promoted to a queen.
package action

import (
	"fmt"

	"github.com/hailam/chessgym/internal/board"
)

// Size is the number of distinct action values.
const Size = 64 * 64

// IllegalActionError reports an action that is out of range or does not name
// a legal move in the current position.
type IllegalActionError struct {
	Action int
	FEN    string
}

func (e *IllegalActionError) Error() string {
	if e.Action < 0 || e.Action >= Size {
		return fmt.Sprintf("action %d out of range [0, %d)", e.Action, Size)
	}
	return fmt.Sprintf("action %d (%s) is not legal in %s", e.Action, Format(e.Action), e.FEN)
}

// Index returns the rank-major index (a8=0, h1=63) of a board square.
func Index(sq board.Square) int {
	return int(sq.Mirror())
}

// Square returns the board square with rank-major index idx.
func Square(idx int) board.Square {
	return board.Square(idx).Mirror()
}

// FromSquares builds the action for a move between two board squares.
func FromSquares(from, to board.Square) int {
	return Index(from)*64 + Index(to)
}

// Encode returns the action for m. Promotion pieces are dropped.
func Encode(m board.Move) int {
	return FromSquares(m.From(), m.To())
}

// Decode splits an action into origin and destination squares.
func Decode(a int) (from, to board.Square, err error) {
	if a < 0 || a >= Size {
		return board.NoSquare, board.NoSquare, &IllegalActionError{Action: a}
	}
	return Square(a / 64), Square(a % 64), nil
}

// Format renders an action as four-character coordinates, e.g. "e2e4".
func Format(a int) string {
	from, to, err := Decode(a)
	if err != nil {
		return "????"
	}
	return from.String() + to.String()
}

// Parse reads four-character coordinates into an action.
func Parse(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("action %q: want 4 characters", s)
	}
	from, err := board.ParseSquare(s[:2])
	if err != nil {
		return 0, fmt.Errorf("action %q: %w", s, err)
	}
	to, err := board.ParseSquare(s[2:])
	if err != nil {
		return 0, fmt.Errorf("action %q: %w", s, err)
	}
	return FromSquares(from, to), nil
}

// Resolve maps an action to the legal move it names in pos. When several
// moves share the squares (promotions) the first generated one wins, which
// is the queen promotion.
func Resolve(pos *board.Position, a int) (board.Move, error) {
	from, to, err := Decode(a)
	if err != nil {
		return board.NoMove, err
	}
	var ml board.MoveList
	pos.GenerateLegal(&ml)
	for _, m := range ml.Slice() {
		if m.From() == from && m.To() == to {
			return m, nil
		}
	}
	return board.NoMove, &IllegalActionError{Action: a, FEN: pos.FEN()}
}

// Legal returns the actions of every legal move in pos, in generation order
// and without duplicates.
func Legal(pos *board.Position) []int {
	var ml board.MoveList
	pos.GenerateLegal(&ml)
	seen := make(map[int]bool, ml.Len())
	out := make([]int, 0, ml.Len())
	for _, m := range ml.Slice() {
		a := Encode(m)
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// Mask returns a Size-long slice with true at every legal action.
func Mask(pos *board.Position) []bool {
	mask := make([]bool, Size)
	for _, a := range Legal(pos) {
		mask[a] = true
	}
	return mask
}
