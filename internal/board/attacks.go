package board

// Attack tables for the non-sliding pieces plus between/line masks for pins.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	betweenBB [64][64]Bitboard // strictly between two aligned squares
	lineBB    [64][64]Bitboard // whole line through two aligned squares
)

func init() {
	initLeaperAttacks()
	initMagics()
	initLines()
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>17)&NotFileH | (bb>>15)&NotFileA |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>10)&NotFileGH | (bb>>6)&NotFileAB

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// initLines walks the eight rays from every square. Every square on a ray
// is aligned with the origin; the squares passed on the way are between them.
func initLines() {
	dirs := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for from := A1; from <= H8; from++ {
		for _, d := range dirs {
			var passed Bitboard
			f, r := from.File()+d[0], from.Rank()+d[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				to := NewSquare(f, r)
				betweenBB[from][to] = passed
				passed |= SquareBB(to)
				f += d[0]
				r += d[1]
			}
		}
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if a == b {
				continue
			}
			if RookAttacks(a, 0).IsSet(b) {
				lineBB[a][b] = (RookAttacks(a, 0) & RookAttacks(b, 0)) | SquareBB(a) | SquareBB(b)
			} else if BishopAttacks(a, 0).IsSet(b) {
				lineBB[a][b] = (BishopAttacks(a, 0) & BishopAttacks(b, 0)) | SquareBB(a) | SquareBB(b)
			}
		}
	}
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard { return pawnAttacks[c][sq] }

// QueenAttacks returns the squares a queen on sq attacks given the occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between a and b, empty if not aligned.
func Between(a, b Square) Bitboard { return betweenBB[a][b] }

// Aligned reports whether the three squares lie on one rank, file or diagonal.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b]&SquareBB(c) != 0
}

// AttackersByColor returns the pieces of color c attacking sq under the given occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	queens := p.Pieces[c][Queen]
	return (pawnAttacks[c.Other()][sq] & p.Pieces[c][Pawn]) |
		(knightAttacks[sq] & p.Pieces[c][Knight]) |
		(kingAttacks[sq] & p.Pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.Pieces[c][Bishop] | queens)) |
		(RookAttacks(sq, occupied) & (p.Pieces[c][Rook] | queens))
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersByColor(sq, by, p.AllOccupied) != 0
}

// InCheck reports whether c's king is attacked.
func (p *Position) InCheck(c Color) bool {
	if c == p.SideToMove {
		return p.Checkers != 0
	}
	return p.IsSquareAttacked(p.KingSquare[c], c.Other())
}

func (p *Position) updateCheckers() {
	us := p.SideToMove
	p.Checkers = p.AttackersByColor(p.KingSquare[us], us.Other(), p.AllOccupied)
}

// pinned returns the pieces of the side to move pinned against their king.
func (p *Position) pinned() Bitboard {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	var pinned Bitboard

	snipers := RookAttacks(ksq, 0)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) |
		BishopAttacks(ksq, 0)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}
