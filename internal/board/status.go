package board

// Outcome classifies a position for game-end purposes.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	InsufficientMaterial
	Repetition
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case Repetition:
		return "repetition"
	default:
		return "ongoing"
	}
}

// IsDecisive reports whether the outcome has a winner.
func (o Outcome) IsDecisive() bool { return o == Checkmate }

// IsTerminal reports whether the game has ended.
func (o Outcome) IsTerminal() bool { return o != Ongoing }

// Status reports how the game stands for the side to move. Checkmate and
// stalemate take precedence over the fifty-move rule and material draws.
// Repetition is not a terminal condition here; search scores it on its own.
func (p *Position) Status() Outcome {
	if !p.HasLegalMoves() {
		if p.Checkers != 0 {
			return Checkmate
		}
		return Stalemate
	}
	if p.IsFiftyMoveDraw() {
		return FiftyMoveRule
	}
	if p.IsInsufficientMaterial() {
		return InsufficientMaterial
	}
	return Ongoing
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.Checkers != 0 && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no moves and is not in check.
func (p *Position) IsStalemate() bool {
	return p.Checkers == 0 && !p.HasLegalMoves()
}

// IsFiftyMoveDraw reports whether a hundred plies passed without a pawn move or capture.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.HalfMoveClock >= 100
}

// IsInsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or bishops that all share one square color.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	knights := p.Pieces[White][Knight] | p.Pieces[Black][Knight]
	bishops := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop]
	minors := (knights | bishops).PopCount()
	if minors <= 1 {
		return true
	}
	return knights == 0 && (bishops&DarkSquares == 0 || bishops&^DarkSquares == 0)
}

// IsRepetition reports whether the current position occurred before with the
// same side to move since the last pawn move or capture.
func (p *Position) IsRepetition() bool {
	n := len(p.history)
	for i := n - 2; i >= 0 && i >= n-p.HalfMoveClock; i -= 2 {
		if p.history[i].Hash == p.Hash {
			return true
		}
	}
	return false
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	p.GenerateLegal(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for _, m := range ml.Slice() {
		u := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(u)
	}
	return nodes
}
