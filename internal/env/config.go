package env

import (
	"fmt"

	"github.com/hailam/chessgym/internal/board"
	"github.com/hailam/chessgym/internal/engine"
)

// Config selects how an environment plays.
type Config struct {
	// Depth is the engine's search depth in plies, 1 to engine.MaxDepth.
	Depth int

	// Side is the colour the agent plays. The engine answers every agent
	// move for the other colour. board.NoColor means self-play: the agent
	// moves for both sides and the engine never moves.
	Side board.Color

	// Quiescence extends the engine's search with captures at the horizon.
	Quiescence bool

	// BookPath names an opening book consulted before searching. Empty
	// means no book.
	BookPath string

	// Seed drives the random choice among weighted book moves.
	Seed int64
}

// DefaultConfig returns a self-play configuration searching two plies.
func DefaultConfig() Config {
	return Config{
		Depth:      2,
		Side:       board.NoColor,
		Quiescence: true,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Depth < 1 || c.Depth > engine.MaxDepth {
		return fmt.Errorf("env: depth %d out of range [1, %d]", c.Depth, engine.MaxDepth)
	}
	switch c.Side {
	case board.White, board.Black, board.NoColor:
	default:
		return fmt.Errorf("env: invalid side %d", c.Side)
	}
	return nil
}

// AutoReply reports whether the engine plays one of the sides.
func (c Config) AutoReply() bool {
	return c.Side != board.NoColor
}
