package nnue

import "github.com/hailam/chessgym/internal/board"

// featureIndex returns the HalfKP input index of piece pc on sq as seen by
// perspective, whose king stands on ksq. Black sees a vertically mirrored
// board with the colors swapped, so both sides share one weight set.
// Kings are not features.
func featureIndex(perspective board.Color, ksq board.Square, pc board.Piece, sq board.Square) int {
	kind := int(pc.Type())
	if pc.Color() != perspective {
		kind += 5
	}
	if perspective == board.Black {
		ksq = ksq.Mirror()
		sq = sq.Mirror()
	}
	return int(ksq)*NumPieceKinds*NumPieceSquares + kind*NumPieceSquares + int(sq)
}

type pieceOn struct {
	pc board.Piece
	sq board.Square
}

// delta lists the non-king pieces a move takes off and puts on the board.
type delta struct {
	removed, added   [2]pieceOn
	nRemoved, nAdded int
}

func (d *delta) remove(pc board.Piece, sq board.Square) {
	d.removed[d.nRemoved] = pieceOn{pc, sq}
	d.nRemoved++
}

func (d *delta) add(pc board.Piece, sq board.Square) {
	d.added[d.nAdded] = pieceOn{pc, sq}
	d.nAdded++
}

func moveDelta(u board.Undo) delta {
	var d delta
	m := u.Move
	us := u.Moved.Color()

	if u.Moved.Type() != board.King {
		d.remove(u.Moved, m.From())
		if m.IsPromotion() {
			d.add(board.NewPiece(m.Promotion(), us), m.To())
		} else {
			d.add(u.Moved, m.To())
		}
	}

	if u.Captured != board.NoPiece {
		sq := m.To()
		if m.IsEnPassant() {
			sq = board.EnPassantVictim(m.To(), us)
		}
		d.remove(u.Captured, sq)
	}

	if m.IsCastle() {
		rookFrom, rookTo := board.CastleRookSquares(m)
		rook := board.NewPiece(board.Rook, us)
		d.remove(rook, rookFrom)
		d.add(rook, rookTo)
	}
	return d
}
