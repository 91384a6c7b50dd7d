// Package engine selects moves with a fixed-depth alpha-beta search over
// the NNUE evaluation.
package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgym/internal/board"
	"github.com/hailam/chessgym/internal/nnue"
)

// DefaultTTSizeMB is the transposition table size used when none is given.
const DefaultTTSizeMB = 16

// Result describes a completed search.
type Result struct {
	Move  board.Move
	Score int // centipawns from the side to move's view, or a mate score
	Depth int
	Nodes uint64
	PV    []board.Move
	Time  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTTSize sets the transposition table size in megabytes.
func WithTTSize(mb int) Option {
	return func(e *Engine) { e.ttSizeMB = mb }
}

// WithQuiescence turns the capture search at the horizon on or off.
func WithQuiescence(on bool) Option {
	return func(e *Engine) { e.quiescence = on }
}

// WithLogger sets the logger that receives per-iteration search info.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine is the chess AI engine. An Engine owns its tables and evaluator and
// must not be used from more than one goroutine; engines built on the same
// Network may run in parallel.
type Engine struct {
	net        *nnue.Network
	eval       *nnue.Evaluator
	tt         *TranspositionTable
	orderer    *MoveOrderer
	ttSizeMB   int
	quiescence bool
	log        zerolog.Logger
}

// New creates an engine that evaluates with net. A nil net evaluates every
// position as level, which still finds forced mates.
func New(net *nnue.Network, opts ...Option) *Engine {
	e := &Engine{
		net:        net,
		ttSizeMB:   DefaultTTSizeMB,
		quiescence: true,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.eval = nnue.NewEvaluator(net)
	e.tt = NewTranspositionTable(e.ttSizeMB)
	e.orderer = NewMoveOrderer()
	return e
}

// Network returns the weights the engine evaluates with.
func (e *Engine) Network() *nnue.Network { return e.net }

// BestMove returns the move the search prefers at depth plies. It returns
// board.NoMove when the side to move has no legal move.
func (e *Engine) BestMove(pos *board.Position, depth int) board.Move {
	return e.Search(pos, depth).Move
}

// Search runs iterative deepening from 1 to depth and reports the last
// completed iteration. Depth is clamped to [1, MaxDepth]. The position is
// left as it was found. Results depend only on the position and depth.
func (e *Engine) Search(pos *board.Position, depth int) Result {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	e.tt.Clear()
	e.orderer.Clear()
	e.eval.Reset(pos)
	s := &searcher{
		pos:        pos,
		eval:       e.eval,
		tt:         e.tt,
		orderer:    e.orderer,
		quiescence: e.quiescence,
	}

	var ml board.MoveList
	pos.GenerateLegal(&ml)
	if ml.Len() == 0 {
		return Result{Move: board.NoMove, Score: terminalScore(pos.Checkers != 0, 0)}
	}

	scores := e.orderer.ScoreMoves(pos, &ml, 0, board.NoMove, nil)
	moves := make([]rootMove, ml.Len())
	for i := range moves {
		moves[i] = rootMove{move: ml.Get(i), order: i, score: scores[i]}
	}
	sortRootMoves(moves)

	start := time.Now()
	var res Result
	for d := 1; d <= depth; d++ {
		move, score := s.searchRoot(moves, d)
		res = Result{
			Move:  move,
			Score: score,
			Depth: d,
			Nodes: s.nodes,
			PV:    s.pv.line(),
			Time:  time.Since(start),
		}

		if ev := e.log.Debug(); ev.Enabled() {
			ev.Int("depth", d).
				Str("score", FormatScore(score)).
				Uint64("nodes", s.nodes).
				Int("hashfull", e.tt.HashFull()).
				Str("pv", formatPV(res.PV)).
				Msg("iteration")
		}

		if score > mateThreshold || score < -mateThreshold {
			break
		}
		bringToFront(moves, move)
	}
	return res
}

// sortRootMoves orders root moves by their ordering score, keeping
// generation order among equals.
func sortRootMoves(moves []rootMove) {
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && moves[j].score > moves[j-1].score; j-- {
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}
}

func bringToFront(moves []rootMove, m board.Move) {
	for i := range moves {
		if moves[i].move == m {
			best := moves[i]
			copy(moves[1:i+1], moves[:i])
			moves[0] = best
			return
		}
	}
}

// FormatScore renders a score as pawns ("+0.35") or as a mate distance in
// moves ("#3", "#-2").
func FormatScore(score int) string {
	if score > mateThreshold {
		return "#" + strconv.Itoa((MateScore-score+1)/2)
	}
	if score < -mateThreshold {
		return "#-" + strconv.Itoa((MateScore+score+1)/2)
	}

	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	cp := strconv.Itoa(score % 100)
	if len(cp) == 1 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(score/100) + "." + cp
}

func formatPV(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
