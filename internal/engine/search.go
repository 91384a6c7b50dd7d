package engine

import (
	"github.com/hailam/chessgym/internal/board"
	"github.com/hailam/chessgym/internal/nnue"
)

// Search constants
const (
	Infinity  = 50000
	MateScore = 49000
	MaxPly    = 64

	// MaxDepth is the deepest nominal search BestMove will run.
	MaxDepth = 32

	maxQuiescencePly = 16

	// Scores beyond mateThreshold in magnitude are mates.
	mateThreshold = MateScore - MaxPly - maxQuiescencePly
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

func (pv *PVTable) line() []board.Move {
	out := make([]board.Move, pv.length[0])
	copy(out, pv.moves[0][:pv.length[0]])
	return out
}

// searcher holds the state of one BestMove call. The position is mutated in
// place and restored before every return.
type searcher struct {
	pos        *board.Position
	eval       *nnue.Evaluator
	tt         *TranspositionTable
	orderer    *MoveOrderer
	quiescence bool

	nodes uint64
	pv    PVTable

	lists  [MaxPly + maxQuiescencePly + 1]board.MoveList
	scores [MaxPly + maxQuiescencePly + 1][]int
}

func (s *searcher) makeMove(m board.Move) board.Undo {
	u := s.pos.MakeMove(m)
	s.eval.Push(s.pos, u)
	return u
}

func (s *searcher) unmakeMove(u board.Undo) {
	s.pos.UnmakeMove(u)
	s.eval.Pop()
}

// rootMove pairs a root move with its index in generation order.
type rootMove struct {
	move  board.Move
	order int
	score int
}

// searchRoot runs one iteration at depth over moves, which are searched in
// slice order. It returns the best move and its score. Among moves with equal
// scores the one generated first wins: a move generated before the current
// best is searched with alpha lowered by one so that an equal score is exact.
func (s *searcher) searchRoot(moves []rootMove, depth int) (board.Move, int) {
	s.pv.length[0] = 0
	alpha, beta := -Infinity, Infinity
	best := -1

	for i := range moves {
		rm := &moves[i]
		a := alpha
		if best >= 0 && rm.order < moves[best].order {
			a = alpha - 1
		}

		u := s.makeMove(rm.move)
		s.nodes++
		score := -s.negamax(depth-1, 1, -beta, -a)
		s.unmakeMove(u)
		rm.score = score

		if best < 0 || score > alpha || (score == alpha && rm.order < moves[best].order) {
			best = i
			alpha = score
			s.pv.update(0, rm.move)
		}
	}

	s.tt.Store(s.pos.Hash, depth, scoreToTT(alpha, 0), TTExact, moves[best].move)
	return moves[best].move, alpha
}

// negamax is a fail-hard alpha-beta search. Scores are from the side to
// move's point of view.
func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	s.pv.length[ply] = ply
	pos := s.pos
	inCheck := pos.Checkers != 0

	if pos.IsRepetition() || pos.IsInsufficientMaterial() {
		return 0
	}
	if pos.HalfMoveClock >= 100 {
		if inCheck && !pos.HasLegalMoves() {
			return -MateScore + ply
		}
		return 0
	}

	if depth <= 0 || ply >= MaxPly {
		if s.quiescence {
			return s.quiesce(ply, 0, alpha, beta)
		}
		if !pos.HasLegalMoves() {
			return terminalScore(inCheck, ply)
		}
		return s.eval.Evaluate(pos)
	}

	ttMove := board.NoMove
	if entry, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := scoreFromTT(int(entry.Score), ply)
			switch {
			case entry.Flag == TTExact,
				entry.Flag == TTLowerBound && score >= beta,
				entry.Flag == TTUpperBound && score <= alpha:
				return clampWindow(score, alpha, beta)
			}
		}
	}

	ml := &s.lists[ply]
	pos.GenerateLegal(ml)
	if ml.Len() == 0 {
		return terminalScore(inCheck, ply)
	}
	s.scores[ply] = s.orderer.ScoreMoves(pos, ml, ply, ttMove, s.scores[ply])
	scores := s.scores[ply]

	flag := TTUpperBound
	bestMove := board.NoMove
	for i := 0; i < ml.Len(); i++ {
		PickMove(ml, scores, i)
		m := ml.Get(i)

		u := s.makeMove(m)
		s.nodes++
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.unmakeMove(u)

		if score >= beta {
			if m.IsQuiet() {
				s.orderer.UpdateKillers(m, ply)
				s.orderer.UpdateHistory(m, depth, true)
				for j := 0; j < i; j++ {
					if prev := ml.Get(j); prev.IsQuiet() {
						s.orderer.UpdateHistory(prev, depth, false)
					}
				}
			}
			s.tt.Store(pos.Hash, depth, scoreToTT(beta, ply), TTLowerBound, m)
			return beta
		}
		if score > alpha {
			alpha = score
			flag = TTExact
			bestMove = m
			s.pv.update(ply, m)
		}
	}

	s.tt.Store(pos.Hash, depth, scoreToTT(alpha, ply), flag, bestMove)
	return alpha
}

// quiesce searches captures and promotions until the position is quiet. In
// check every evasion is searched instead.
func (s *searcher) quiesce(ply, qPly, alpha, beta int) int {
	pos := s.pos
	inCheck := pos.Checkers != 0
	ml := &s.lists[ply]

	if inCheck {
		pos.GenerateLegal(ml)
		if ml.Len() == 0 {
			return clampWindow(-MateScore+ply, alpha, beta)
		}
	} else {
		standPat := s.eval.Evaluate(pos)
		if ply >= MaxPly || qPly >= maxQuiescencePly {
			return clampWindow(standPat, alpha, beta)
		}
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		pos.GenerateCaptures(ml)
		if ml.Len() == 0 && !pos.HasLegalMoves() {
			return clampWindow(0, alpha, beta)
		}
	}
	if ply >= MaxPly+maxQuiescencePly-1 {
		return clampWindow(s.eval.Evaluate(pos), alpha, beta)
	}

	s.scores[ply] = s.orderer.ScoreMoves(pos, ml, MaxPly, board.NoMove, s.scores[ply])
	scores := s.scores[ply]
	for i := 0; i < ml.Len(); i++ {
		PickMove(ml, scores, i)
		u := s.makeMove(ml.Get(i))
		s.nodes++
		score := -s.quiesce(ply+1, qPly+1, -beta, -alpha)
		s.unmakeMove(u)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// terminalScore scores a position without legal moves: mate is worse the
// sooner it happens, stalemate is a draw.
func terminalScore(inCheck bool, ply int) int {
	if inCheck {
		return -MateScore + ply
	}
	return 0
}

func clampWindow(score, alpha, beta int) int {
	if score <= alpha {
		return alpha
	}
	if score >= beta {
		return beta
	}
	return score
}
