package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseError reports a malformed or impossible position string.
type ParseError struct {
	Field  string // FEN field that failed, or "position" for semantic checks
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid FEN %q: %s: %s", e.Input, e.Field, e.Reason)
}

// ParseFEN parses a six-field FEN string. The move counters may be omitted,
// in which case they default to 0 and 1. Castling rights whose king or rook is
// not on its home square are dropped.
func ParseFEN(fen string) (*Position, error) {
	fail := func(field, format string, args ...any) (*Position, error) {
		return nil, &ParseError{Field: field, Input: fen, Reason: fmt.Sprintf(format, args...)}
	}

	parts := strings.Fields(fen)
	if len(parts) != 4 && len(parts) != 6 {
		return fail("fields", "need 4 or 6 fields, got %d", len(parts))
	}

	pos := newEmptyPosition()
	if err := parsePlacement(pos, parts[0]); err != nil {
		return fail("placement", "%v", err)
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return fail("side", "want w or b, got %q", parts[1])
	}

	if parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			idx := strings.IndexByte("KQkq", parts[2][i])
			if idx < 0 || pos.CastlingRights&(1<<idx) != 0 {
				return fail("castling", "bad rights %q", parts[2])
			}
			pos.CastlingRights |= 1 << idx
		}
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fail("en passant", "%v", err)
		}
		if (pos.SideToMove == White && sq.Rank() != 5) || (pos.SideToMove == Black && sq.Rank() != 2) {
			return fail("en passant", "%s is not a target for %s to move", sq, pos.SideToMove)
		}
		if pos.Board[sq] != NoPiece {
			return fail("en passant", "%s is occupied", sq)
		}
		victim := EnPassantVictim(sq, pos.SideToMove)
		if pos.Board[victim] != NewPiece(Pawn, pos.SideToMove.Other()) {
			return fail("en passant", "no %s pawn on %s", pos.SideToMove.Other(), victim)
		}
		pos.EnPassant = sq
	}

	if len(parts) == 6 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return fail("halfmove clock", "want a non-negative integer, got %q", parts[4])
		}
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return fail("fullmove number", "want a positive integer, got %q", parts[5])
		}
		pos.HalfMoveClock = hmc
		pos.FullMoveNumber = fmn
	}

	if err := pos.validate(); err != nil {
		return fail("position", "%v", err)
	}

	pos.CastlingRights &= pos.castlingFromPlacement()
	pos.Hash = pos.ComputeHash()
	pos.updateCheckers()
	return pos, nil
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("need 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("unknown piece %q", c)
			}
			if file > 7 {
				return fmt.Errorf("rank %d overflows", rank+1)
			}
			pos.putPiece(pc, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %d has %d files", rank+1, file)
		}
	}
	return nil
}

func (p *Position) validate() error {
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on first or last rank")
	}
	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare[them], p.SideToMove) {
		return fmt.Errorf("%s is in check but not to move", them)
	}
	return nil
}

// castlingFromPlacement returns the rights still possible given where the
// kings and rooks stand.
func (p *Position) castlingFromPlacement() CastlingRights {
	var cr CastlingRights
	if p.Board[E1] == WhiteKing {
		if p.Board[H1] == WhiteRook {
			cr |= WhiteKingSide
		}
		if p.Board[A1] == WhiteRook {
			cr |= WhiteQueenSide
		}
	}
	if p.Board[E8] == BlackKing {
		if p.Board[H8] == BlackRook {
			cr |= BlackKingSide
		}
		if p.Board[A8] == BlackRook {
			cr |= BlackQueenSide
		}
	}
	return cr
}

// FEN serializes the position. ParseFEN(p.FEN()) reproduces p.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Board[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), side, p.CastlingRights,
		p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
}
