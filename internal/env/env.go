// Package env drives a game of chess as a reinforcement-learning
// environment: the agent submits integer actions, the environment applies
// them, optionally answers with an engine move, and reports observations,
// rewards and termination.
package env

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgym/internal/action"
	"github.com/hailam/chessgym/internal/board"
	"github.com/hailam/chessgym/internal/book"
	"github.com/hailam/chessgym/internal/engine"
	"github.com/hailam/chessgym/internal/nnue"
	"github.com/hailam/chessgym/internal/observation"
)

var (
	// ErrNotStarted is returned by Step before the first successful Reset.
	ErrNotStarted = errors.New("env: reset required before step")

	// ErrGameOver is returned by Step once the game has ended.
	ErrGameOver = errors.New("env: game is over, reset required")
)

// State is the lifecycle stage of an environment.
type State uint8

const (
	AwaitingReset State = iota
	InProgress
	Terminal
)

func (s State) String() string {
	switch s {
	case AwaitingReset:
		return "awaiting-reset"
	case InProgress:
		return "in-progress"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// StepResult is what the agent sees after one action.
type StepResult struct {
	Observation observation.Tensor
	Reward      float64 // +1 agent mates, -1 engine mates, 0 otherwise
	Terminated  bool
	Outcome     board.Outcome
	Reply       board.Move // engine's answer, NoMove if none was played
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger for resets, engine replies and game ends.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Env) { e.log = l }
}

// WithBook supplies an opening book, taking precedence over Config.BookPath.
func WithBook(b *book.Book) Option {
	return func(e *Env) { e.book = b }
}

// WithRand sets the source used to pick among book moves.
func WithRand(r *rand.Rand) Option {
	return func(e *Env) { e.rng = r }
}

// Env is a single game. It is not safe for concurrent use; run one Env per
// goroutine. Envs may share a Network.
type Env struct {
	cfg    Config
	engine *engine.Engine
	book   *book.Book
	rng    *rand.Rand
	log    zerolog.Logger

	state    State
	pos      *board.Position
	startFEN string
	outcome  board.Outcome
	moves    []board.Move
	san      []string
}

// New returns an environment awaiting Reset. The network is shared
// read-only. A nil network evaluates every position as level, which only
// suits tests; New logs a warning for it.
func New(net *nnue.Network, cfg Config, opts ...Option) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Env{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.book == nil && cfg.BookPath != "" {
		b, err := book.Load(cfg.BookPath)
		if err != nil {
			return nil, err
		}
		e.book = b
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if net == nil {
		e.log.Warn().Msg("no network: every position evaluates as level")
	}
	e.engine = engine.New(net,
		engine.WithQuiescence(cfg.Quiescence),
		engine.WithLogger(e.log),
	)
	return e, nil
}

// Config returns the configuration the environment was built with.
func (e *Env) Config() Config { return e.cfg }

// Reset starts a new game from fen, or from the standard position when fen
// is empty. If the engine is to move it plays first. A malformed fen is
// returned as a *board.ParseError and leaves the environment untouched.
func (e *Env) Reset(fen string) (observation.Tensor, error) {
	if fen == "" {
		fen = board.StartFEN
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return observation.Tensor{}, err
	}

	e.pos = pos
	e.startFEN = pos.FEN()
	e.moves = e.moves[:0]
	e.san = e.san[:0]
	e.state = InProgress
	e.outcome = board.Ongoing
	e.log.Debug().Str("fen", e.startFEN).Stringer("side", e.cfg.Side).Msg("reset")

	if e.finished() {
		return observation.Encode(e.pos), nil
	}
	if e.cfg.AutoReply() && pos.SideToMove != e.cfg.Side {
		e.reply()
		e.finished()
	}
	return observation.Encode(e.pos), nil
}

// Step plays the agent's action and, when configured, the engine's answer.
// An illegal action is returned as an *action.IllegalActionError and leaves
// the game unchanged.
func (e *Env) Step(a int) (StepResult, error) {
	switch e.state {
	case AwaitingReset:
		return StepResult{}, ErrNotStarted
	case Terminal:
		return StepResult{}, ErrGameOver
	}

	m, err := action.Resolve(e.pos, a)
	if err != nil {
		return StepResult{}, err
	}
	e.play(m)

	res := StepResult{Reply: board.NoMove}
	if e.finished() {
		if e.outcome.IsDecisive() {
			res.Reward = 1
		}
	} else if e.cfg.AutoReply() {
		res.Reply = e.reply()
		if e.finished() && e.outcome.IsDecisive() {
			res.Reward = -1
		}
	}

	res.Observation = observation.Encode(e.pos)
	res.Terminated = e.state == Terminal
	res.Outcome = e.outcome
	return res, nil
}

func (e *Env) play(m board.Move) {
	e.san = append(e.san, e.pos.SAN(m))
	e.pos.MakeMove(m)
	e.moves = append(e.moves, m)
}

// reply plays the engine's move: a book move when the book knows the
// position, otherwise the search result. The position must not be terminal.
func (e *Env) reply() board.Move {
	src := "book"
	m, ok := e.book.Probe(e.pos, e.rng)
	if !ok {
		src = "search"
		m = e.engine.BestMove(e.pos, e.cfg.Depth)
	}
	e.log.Debug().Str("move", m.String()).Str("source", src).Int("ply", len(e.moves)).Msg("engine reply")
	e.play(m)
	return m
}

// finished updates the outcome and reports whether the game has ended.
func (e *Env) finished() bool {
	e.outcome = e.pos.Status()
	if !e.outcome.IsTerminal() {
		return false
	}
	e.state = Terminal
	e.log.Debug().Stringer("outcome", e.outcome).Int("plies", len(e.moves)).Msg("game over")
	return true
}

// State returns the lifecycle stage.
func (e *Env) State() State { return e.state }

// Outcome returns the game's status after the last move.
func (e *Env) Outcome() board.Outcome { return e.outcome }

// Position returns a copy of the current position, or nil before Reset.
func (e *Env) Position() *board.Position {
	if e.pos == nil {
		return nil
	}
	return e.pos.Copy()
}

// StartFEN returns the position the current game started from.
func (e *Env) StartFEN() string { return e.startFEN }

// Observation encodes the current position.
func (e *Env) Observation() observation.Tensor {
	if e.pos == nil {
		return observation.Tensor{}
	}
	return observation.Encode(e.pos)
}

// LegalActions returns the actions the agent may take, or nil when the game
// is not in progress.
func (e *Env) LegalActions() []int {
	if e.state != InProgress {
		return nil
	}
	return action.Legal(e.pos)
}

// ActionMask returns an action.Size-long mask of the legal actions.
func (e *Env) ActionMask() []bool {
	if e.state != InProgress {
		return make([]bool, action.Size)
	}
	return action.Mask(e.pos)
}

// History returns every move played since Reset, agent and engine alike.
func (e *Env) History() []board.Move {
	return append([]board.Move(nil), e.moves...)
}

// SANHistory returns the moves played since Reset in standard algebraic
// notation.
func (e *Env) SANHistory() []string {
	return append([]string(nil), e.san...)
}

// Render returns a text diagram of the board.
func (e *Env) Render() string {
	if e.pos == nil {
		return "(no game)\n"
	}
	s := e.pos.String()
	if n := len(e.san); n > 0 {
		s += "Last move: " + e.san[n-1] + "\n"
	}
	if e.state == Terminal {
		s += "Result: " + e.outcome.String() + "\n"
	}
	return s
}
