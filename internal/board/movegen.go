package board

// LegalMoves returns every legal move in generation order: pawns, knights,
// bishops, rooks, queens, king, castling. Promotions come queen first.
func (p *Position) LegalMoves() []Move {
	var ml MoveList
	p.GenerateLegal(&ml)
	return append([]Move(nil), ml.Slice()...)
}

// GenerateLegal fills ml with the legal moves of the side to move.
func (p *Position) GenerateLegal(ml *MoveList) {
	ml.count = 0
	p.generate(ml, true)
	p.filterLegal(ml)
}

// GenerateCaptures fills ml with the legal captures and promotions.
func (p *Position) GenerateCaptures(ml *MoveList) {
	ml.count = 0
	p.generate(ml, false)
	p.filterLegal(ml)
}

// HasLegalMoves reports whether the side to move can move at all.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.generate(&ml, true)
	pinned := p.pinned()
	for _, m := range ml.Slice() {
		if p.isLegal(m, pinned) {
			return true
		}
	}
	return false
}

// IsLegal reports whether m is one of the legal moves in the position.
func (p *Position) IsLegal(m Move) bool {
	var ml MoveList
	p.GenerateLegal(&ml)
	return ml.Contains(m)
}

// generate adds pseudo-legal moves. With quiets false only captures and
// promotions are produced.
func (p *Position) generate(ml *MoveList, quiets bool) {
	us := p.SideToMove
	targets := p.Occupied[us.Other()]
	if quiets {
		targets = ^p.Occupied[us]
	}

	p.generatePawnMoves(ml, quiets)

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			p.addMoves(ml, from, p.attacksFrom(pt, from)&targets)
		}
	}

	ksq := p.KingSquare[us]
	p.addMoves(ml, ksq, kingAttacks[ksq]&targets)

	if quiets {
		p.generateCastling(ml)
	}
}

func (p *Position) attacksFrom(pt PieceType, sq Square) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, p.AllOccupied)
	case Rook:
		return RookAttacks(sq, p.AllOccupied)
	case Queen:
		return QueenAttacks(sq, p.AllOccupied)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

func (p *Position) addMoves(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		flags := FlagNormal
		if p.Board[to] != NoPiece {
			flags = FlagCapture
		}
		ml.Add(NewMove(from, to, flags))
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, quiets bool) {
	us := p.SideToMove
	pawns := p.Pieces[us][Pawn]
	enemies := p.Occupied[us.Other()]
	empty := ^p.AllOccupied

	var push1, push2, attackL, attackR, promoRank Bitboard
	var dir int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promoRank = Rank8
		dir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promoRank = Rank1
		dir = -8
	}

	if quiets {
		for bb := push1 &^ promoRank; bb != 0; {
			to := bb.PopLSB()
			ml.Add(NewMove(Square(int(to)-dir), to, FlagNormal))
		}
		for bb := push2; bb != 0; {
			to := bb.PopLSB()
			ml.Add(NewMove(Square(int(to)-2*dir), to, FlagDoublePush))
		}
	}

	for bb := attackL &^ promoRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-dir+1), to, FlagCapture))
	}
	for bb := attackR &^ promoRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-dir-1), to, FlagCapture))
	}

	for bb := push1 & promoRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir), to, FlagNormal)
	}
	for bb := attackL & promoRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir+1), to, FlagCapture)
	}
	for bb := attackR & promoRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-dir-1), to, FlagCapture)
	}

	if p.EnPassant != NoSquare {
		for bb := pawnAttacks[us.Other()][p.EnPassant] & pawns; bb != 0; {
			ml.Add(NewMove(bb.PopLSB(), p.EnPassant, FlagEnPassant|FlagCapture))
		}
	}
}

func addPromotions(ml *MoveList, from, to Square, flags MoveFlag) {
	ml.Add(NewPromotion(from, to, Queen, flags))
	ml.Add(NewPromotion(from, to, Rook, flags))
	ml.Add(NewPromotion(from, to, Bishop, flags))
	ml.Add(NewPromotion(from, to, Knight, flags))
}

// castle describes one castling option.
type castle struct {
	right          CastlingRights
	king, kingTo   Square
	rook           Square
	empty, transit Bitboard // must be vacant; must not be attacked
	flag           MoveFlag
}

var castles = [2][2]castle{
	White: {
		{WhiteKingSide, E1, G1, H1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1), FlagCastleKing},
		{WhiteQueenSide, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1), FlagCastleQueen},
	},
	Black: {
		{BlackKingSide, E8, G8, H8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8), FlagCastleKing},
		{BlackQueenSide, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8), FlagCastleQueen},
	},
}

func (p *Position) generateCastling(ml *MoveList) {
	us := p.SideToMove
	if p.Checkers != 0 {
		return
	}
	rook := NewPiece(Rook, us)
	for _, c := range castles[us] {
		if p.CastlingRights&c.right == 0 || p.Board[c.rook] != rook || p.AllOccupied&c.empty != 0 {
			continue
		}
		attacked := false
		for t := c.transit; t != 0; {
			if p.IsSquareAttacked(t.PopLSB(), us.Other()) {
				attacked = true
				break
			}
		}
		if !attacked {
			ml.Add(NewMove(c.king, c.kingTo, c.flag))
		}
	}
}

// filterLegal drops moves that leave the mover's king attacked. Pins and
// checks settle most moves; en passant is verified by playing it.
func (p *Position) filterLegal(ml *MoveList) {
	pinned := p.pinned()
	n := 0
	for _, m := range ml.Slice() {
		if p.isLegal(m, pinned) {
			ml.moves[n] = m
			n++
		}
	}
	ml.count = n
}

func (p *Position) isLegal(m Move, pinned Bitboard) bool {
	us := p.SideToMove
	from, to := m.From(), m.To()
	ksq := p.KingSquare[us]

	if from == ksq {
		if m.IsCastle() {
			return true
		}
		return p.AttackersByColor(to, us.Other(), p.AllOccupied&^SquareBB(from)) == 0
	}

	if m.IsEnPassant() {
		u := p.MakeMove(m)
		ok := !p.IsSquareAttacked(ksq, us.Other())
		p.UnmakeMove(u)
		return ok
	}

	if p.Checkers != 0 {
		if p.Checkers.PopCount() > 1 {
			return false
		}
		checker := p.Checkers.LSB()
		if (SquareBB(checker)|Between(checker, ksq))&SquareBB(to) == 0 {
			return false
		}
	}

	return pinned&SquareBB(from) == 0 || Aligned(from, to, ksq)
}
