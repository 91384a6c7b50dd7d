// Command chessgym plays episodes of a random agent against the engine and
// records them in the episode store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgym/internal/board"
	"github.com/hailam/chessgym/internal/env"
	"github.com/hailam/chessgym/internal/logx"
	"github.com/hailam/chessgym/internal/nnue"
	"github.com/hailam/chessgym/internal/storage"
)

const (
	weightsEnv     = "CHESSGYM_WEIGHTS"
	defaultWeights = "default.nnue"
	memoryDB       = ":memory:"
)

var (
	episodes = flag.Int("episodes", 10, "number of episodes to play")
	parallel = flag.Int("parallel", runtime.NumCPU(), "episodes played at once")
	depth    = flag.Int("depth", 2, "engine search depth in plies")
	side     = flag.String("side", "white", "side the agent plays: white, black or none for self-play")
	weights  = flag.String("weights", "", "network weight file (default $"+weightsEnv+" or the data dir)")
	bookPath = flag.String("book", "", "opening book consulted by the engine")
	dbPath   = flag.String("db", "", "episode database directory, "+memoryDB+" for in-memory (default data dir)")
	seed     = flag.Int64("seed", 1, "random seed for the agent and book choices")
	maxPlies = flag.Int("max-plies", 400, "abandon an episode after this many plies")
	verbose  = flag.Bool("v", false, "log debug output")
	level    = flag.String("log-level", "info", "log level: debug, info, warn or error")
)

func main() {
	flag.Parse()

	lvl, err := logx.ParseLevel(*level, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logx.New(os.Stderr, lvl)

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("chessgym failed")
	}
}

func run(log zerolog.Logger) error {
	agentSide, ok := board.ParseColor(*side)
	if !ok {
		return fmt.Errorf("invalid -side %q", *side)
	}
	cfg := env.DefaultConfig()
	cfg.Depth = *depth
	cfg.Side = agentSide
	cfg.BookPath = *bookPath
	cfg.Seed = *seed
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := weightsPath(*weights)
	if err != nil {
		return err
	}
	net, err := nnue.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%w (generate weights with genweights)", err)
	}
	log.Info().Str("path", path).Int("l1", net.L1).Int("l2", net.L2).Msg("network loaded")

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{
		net:      net,
		cfg:      cfg,
		store:    store,
		log:      log,
		maxPlies: *maxPlies,
	}
	summary, err := r.run(ctx, *episodes, *parallel)
	if err != nil {
		return err
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	log.Info().
		Int("episodes", summary.Episodes).
		Int("wins", summary.Wins).
		Int("losses", summary.Losses).
		Int("draws", summary.Draws).
		Int("truncated", summary.Truncated).
		Int("total_episodes", stats.Episodes).
		Float64("win_rate", stats.WinRate()).
		Msg("done")
	return nil
}

// weightsPath resolves the weight file from the flag, the environment and
// finally the data directory.
func weightsPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := os.Getenv(weightsEnv); p != "" {
		return p, nil
	}
	dir, err := storage.WeightsDir()
	if err != nil {
		return "", fmt.Errorf("weights dir: %w", err)
	}
	return filepath.Join(dir, defaultWeights), nil
}

func openStore(path string) (*storage.Storage, error) {
	switch path {
	case memoryDB:
		return storage.Open("")
	case "":
		return storage.OpenDefault()
	}
	return storage.Open(path)
}
