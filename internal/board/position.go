package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a set of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide  CastlingRights = 1 << iota // K
	WhiteQueenSide                            // Q
	BlackKingSide                             // k
	BlackQueenSide                            // q
	NoCastling     CastlingRights = 0
	AllCastling    CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castlingMask[sq] is cleared from the rights whenever a move touches sq,
// either by leaving it or by capturing on it.
var castlingMask = func() (m [64]CastlingRights) {
	for sq := range m {
		m[sq] = AllCastling
	}
	m[E1] &^= WhiteKingSide | WhiteQueenSide
	m[H1] &^= WhiteKingSide
	m[A1] &^= WhiteQueenSide
	m[E8] &^= BlackKingSide | BlackQueenSide
	m[H8] &^= BlackKingSide
	m[A8] &^= BlackQueenSide
	return m
}()

// Position is a complete game state. It is mutated in place by MakeMove and
// is not safe for concurrent use.
type Position struct {
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard
	Board       [64]Piece

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare unless the last move was a double push
	HalfMoveClock  int
	FullMoveNumber int

	Hash       uint64
	KingSquare [2]Square
	Checkers   Bitboard // pieces giving check to the side to move

	history []Undo // one record per applied move, most recent last
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

func newEmptyPosition() *Position {
	p := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}
	for sq := range p.Board {
		p.Board[sq] = NoPiece
	}
	return p
}

// Copy returns an independent deep copy, move history included.
func (p *Position) Copy() *Position {
	c := *p
	c.history = append([]Undo(nil), p.history...)
	return &c
}

// Equal reports whether two positions hold identical state. Move history is
// not compared.
func (p *Position) Equal(o *Position) bool {
	return p.Pieces == o.Pieces &&
		p.Occupied == o.Occupied &&
		p.AllOccupied == o.AllOccupied &&
		p.Board == o.Board &&
		p.SideToMove == o.SideToMove &&
		p.CastlingRights == o.CastlingRights &&
		p.EnPassant == o.EnPassant &&
		p.HalfMoveClock == o.HalfMoveClock &&
		p.FullMoveNumber == o.FullMoveNumber &&
		p.Hash == o.Hash &&
		p.KingSquare == o.KingSquare &&
		p.Checkers == o.Checkers
}

// PieceAt returns the piece on sq, NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// Ply returns the number of moves applied since the position was parsed.
func (p *Position) Ply() int {
	return len(p.history)
}

// LastMove returns the most recently applied move, NoMove if none.
func (p *Position) LastMove() Move {
	if len(p.history) == 0 {
		return NoMove
	}
	return p.history[len(p.history)-1].Move
}

func (p *Position) putPiece(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.Board[sq] = pc
	p.Hash ^= zobristPiece[pc][sq]
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.Board[sq]
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.Board[sq] = NoPiece
	p.Hash ^= zobristPiece[pc][sq]
	return pc
}

func (p *Position) movePiece(from, to Square) {
	p.putPiece(p.removePiece(from), to)
}

// String renders the board rank 8 first with coordinates, followed by the
// side to move and the remaining state fields.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteString(p.Board[NewSquare(file, rank)].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s  En passant: %s\n", p.CastlingRights, p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d  Full move: %d\n", p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
