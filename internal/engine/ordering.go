package engine

import (
	"github.com/hailam/chessgym/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore     = 10000000 // TT move gets highest priority
	GoodCaptureBase = 1000000  // Base score for captures and promotions
	KillerScore1    = 900000   // First killer move
	KillerScore2    = 800000   // Second killer move

	historyLimit = 400000
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs)
	killers [MaxPly][2]board.Move

	// History heuristic (indexed by [from][to])
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear forgets all killers and history.
func (mo *MoveOrderer) Clear() {
	*mo = MoveOrderer{}
}

// ScoreMoves assigns ordering scores to the moves in ml.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, ml *board.MoveList, ply int, ttMove board.Move, scores []int) []int {
	scores = scores[:0]
	for i := 0; i < ml.Len(); i++ {
		scores = append(scores, mo.scoreMove(pos, ml.Get(i), ply, ttMove))
	}
	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture() {
		attacker := pos.PieceAt(m.From()).Type()
		victim := board.Pawn
		if !m.IsEnPassant() {
			victim = pos.PieceAt(m.To()).Type()
		}
		score := GoodCaptureBase + mvvLva[victim][attacker]*1000
		if m.IsPromotion() {
			score += int(m.Promotion()) * 100
		}
		return score
	}

	// Promotions (non-capture)
	if m.IsPromotion() {
		return GoodCaptureBase - 1000 + int(m.Promotion())*100
	}

	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return KillerScore1
		}
		if m == mo.killers[ply][1] {
			return KillerScore2
		}
	}

	return mo.history[m.From()][m.To()]
}

// PickMove selects the best remaining move and moves it to position index.
func PickMove(ml *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers adds a killer move at the given ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards a quiet move that caused a cutoff and penalises the
// quiet moves tried before it.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth
	if isGood {
		mo.history[from][to] += bonus
		if mo.history[from][to] > historyLimit {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
		return
	}
	mo.history[from][to] -= bonus
	if mo.history[from][to] < -historyLimit {
		mo.history[from][to] = -historyLimit
	}
}

// HistoryScore returns the history score for a move.
func (mo *MoveOrderer) HistoryScore(m board.Move) int {
	return mo.history[m.From()][m.To()]
}
