package board

// Zobrist keys, drawn from a fixed-seed xorshift64* stream so hashes are
// stable across runs. Opening books are keyed by them.
var (
	zobristPiece      [12][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	state := uint64(0x98F107A2BEEF1234)
	next := func() uint64 {
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return state * 0x2545F4914F6CDD1D
	}

	for pc := WhitePawn; pc < NoPiece; pc++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[pc][sq] = next()
		}
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = next()
	}
	for cr := range zobristCastling {
		zobristCastling[cr] = next()
	}
	zobristSideToMove = next()
}

// ComputeHash rebuilds the Zobrist hash from scratch.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if pc := p.Board[sq]; pc != NoPiece {
			h ^= zobristPiece[pc][sq]
		}
	}
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.CastlingRights]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
