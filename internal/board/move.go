package board

// Move packs a move into 32 bits:
//
//	bits 0-5    origin square
//	bits 6-11   destination square
//	bits 12-14  promotion piece type (0 when not a promotion)
//	bits 16-21  MoveFlag set
type Move uint32

// MoveFlag describes what kind of move a Move is. A move without flags is a
// normal quiet move.
type MoveFlag uint32

const (
	FlagCapture MoveFlag = 1 << (16 + iota)
	FlagDoublePush
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
	FlagPromotion

	FlagNormal MoveFlag = 0
	flagMask            = FlagCapture | FlagDoublePush | FlagEnPassant |
		FlagCastleKing | FlagCastleQueen | FlagPromotion
)

// NoMove is the zero move. It is never legal.
const NoMove Move = 0

// NewMove builds a non-promoting move.
func NewMove(from, to Square, flags MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flags)
}

// NewPromotion builds a promotion to pt; capture may be added in flags.
func NewPromotion(from, to Square, pt PieceType, flags MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(pt)<<12 | Move(flags|FlagPromotion)
}

func (m Move) From() Square { return Square(m & 0x3F) }

func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

func (m Move) Flags() MoveFlag { return MoveFlag(m) & flagMask }

// Has reports whether every flag in f is set.
func (m Move) Has(f MoveFlag) bool { return MoveFlag(m)&f == f }

// Promotion returns the promotion piece type, NoPieceType if m does not promote.
func (m Move) Promotion() PieceType {
	if !m.Has(FlagPromotion) {
		return NoPieceType
	}
	return PieceType((m >> 12) & 7)
}

func (m Move) IsCapture() bool { return m.Has(FlagCapture) }
func (m Move) IsPromotion() bool { return m.Has(FlagPromotion) }
func (m Move) IsEnPassant() bool { return m.Has(FlagEnPassant) }
func (m Move) IsCastle() bool { return MoveFlag(m)&(FlagCastleKing|FlagCastleQueen) != 0 }

// IsQuiet reports a move that neither captures nor promotes.
func (m Move) IsQuiet() bool { return MoveFlag(m)&(FlagCapture|FlagPromotion) == 0 }

// String returns coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MoveList is a fixed-capacity list that avoids allocation during search.
type MoveList struct {
	moves [256]Move
	count int
}

func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int { return ml.count }
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves[:ml.count] {
		if x == m {
			return true
		}
	}
	return false
}

// Undo holds what MakeMove needs to reverse a move exactly.
type Undo struct {
	Move           Move
	Moved          Piece
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
}
