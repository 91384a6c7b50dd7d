package board

import "strings"

// SAN returns m in standard algebraic notation, e.g. "Nbd7", "exd6", "e8=Q+"
// or "O-O#". m must be legal in p.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "--"
	}
	var sb strings.Builder

	switch {
	case m.Has(FlagCastleKing):
		sb.WriteString("O-O")
	case m.Has(FlagCastleQueen):
		sb.WriteString("O-O-O")
	default:
		from, to := m.From(), m.To()
		pt := p.Board[from].Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m, pt))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte(byte('a' + from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	u := p.MakeMove(m)
	if p.Checkers != 0 {
		if p.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.UnmakeMove(u)
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can reach the same destination.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	others := p.Pieces[p.SideToMove][pt] &^ SquareBB(from)
	if others == 0 {
		return ""
	}

	var ml MoveList
	p.GenerateLegal(&ml)
	sameFile, sameRank, ambiguous := false, false, false
	for _, x := range ml.Slice() {
		if x.To() != to || !others.IsSet(x.From()) {
			continue
		}
		ambiguous = true
		sameFile = sameFile || x.From().File() == from.File()
		sameRank = sameRank || x.From().Rank() == from.Rank()
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return from.String()[:1]
	case !sameRank:
		return from.String()[1:]
	default:
		return from.String()
	}
}
