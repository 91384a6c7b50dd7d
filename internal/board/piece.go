package board

// Color of a side or a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// ParseColor accepts "white"/"w", "black"/"b" and "none"/"" (NoColor).
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	case "none", "":
		return NoColor, true
	}
	return NoColor, false
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// Char returns the lowercase letter used for the piece type in FEN and move strings.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// PieceValue holds material values in centipawns, indexed by PieceType.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece is a PieceType with a color, encoded as type + color*6.
// The encoding doubles as the observation plane index.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// NewPiece combines a type and a color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN letter, uppercase for white.
func (p Piece) String() string {
	if p >= NoPiece {
		return "."
	}
	return "PNBRQKpnbrqk"[p : p+1]
}

// PieceFromChar converts a FEN letter to a Piece, NoPiece if unknown.
func PieceFromChar(c byte) Piece {
	for i := WhitePawn; i < NoPiece; i++ {
		if "PNBRQKpnbrqk"[i] == c {
			return i
		}
	}
	return NoPiece
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
