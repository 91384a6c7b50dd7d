package board

// MakeMove applies a legal move and returns the record UnmakeMove needs to
// reverse it. The record is also pushed onto the position's move history.
// Applying an illegal move leaves the position in an unspecified state.
func (p *Position) MakeMove(m Move) Undo {
	us, them := p.SideToMove, p.SideToMove.Other()
	from, to := m.From(), m.To()

	u := Undo{
		Move:           m,
		Moved:          p.Board[from],
		Captured:       NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
	}

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	switch {
	case m.IsEnPassant():
		u.Captured = p.removePiece(EnPassantVictim(to, us))
	case m.IsCapture():
		u.Captured = p.removePiece(to)
	}

	if m.IsPromotion() {
		p.removePiece(from)
		p.putPiece(NewPiece(m.Promotion(), us), to)
	} else {
		p.movePiece(from, to)
	}

	if m.IsCastle() {
		rookFrom, rookTo := CastleRookSquares(m)
		p.movePiece(rookFrom, rookTo)
	}

	p.CastlingRights &= castlingMask[from] & castlingMask[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.Has(FlagDoublePush) {
		p.EnPassant = Square((int(from) + int(to)) / 2)
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	if u.Moved.Type() == Pawn || u.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
	p.updateCheckers()

	p.history = append(p.history, u)
	return u
}

// UnmakeMove reverses the most recent MakeMove. Calling it with any record
// other than the last one returned is undefined.
func (p *Position) UnmakeMove(u Undo) {
	p.history = p.history[:len(p.history)-1]
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	m := u.Move
	from, to := m.From(), m.To()

	if m.IsCastle() {
		rookFrom, rookTo := CastleRookSquares(m)
		p.movePiece(rookTo, rookFrom)
	}

	p.removePiece(to)
	p.putPiece(u.Moved, from)

	if m.IsEnPassant() {
		p.putPiece(u.Captured, EnPassantVictim(to, us))
	} else if u.Captured != NoPiece {
		p.putPiece(u.Captured, to)
	}

	if us == Black {
		p.FullMoveNumber--
	}
	p.CastlingRights = u.CastlingRights
	p.EnPassant = u.EnPassant
	p.HalfMoveClock = u.HalfMoveClock
	p.Hash = u.Hash
	p.Checkers = u.Checkers
}

// EnPassantVictim returns the square of the pawn removed when color c captures
// en passant onto to.
func EnPassantVictim(to Square, c Color) Square {
	if c == White {
		return to - 8
	}
	return to + 8
}

// CastleRookSquares returns where the rook starts and ends for castling move m.
func CastleRookSquares(m Move) (from, to Square) {
	if m.Has(FlagCastleKing) {
		return m.To() + 1, m.To() - 1
	}
	return m.To() - 2, m.To() + 1
}
