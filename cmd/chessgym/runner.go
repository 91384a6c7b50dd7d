package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessgym/internal/env"
	"github.com/hailam/chessgym/internal/nnue"
	"github.com/hailam/chessgym/internal/storage"
)

// runner plays episodes concurrently. Each worker owns its Env and random
// source; the network and the store are shared.
type runner struct {
	net      *nnue.Network
	cfg      env.Config
	store    *storage.Storage
	log      zerolog.Logger
	maxPlies int
}

// summary counts episode results from the agent's side.
type summary struct {
	Episodes  int
	Wins      int
	Losses    int
	Draws     int
	Truncated int
}

func (s *summary) add(ep *storage.Episode, truncated bool) {
	s.Episodes++
	switch {
	case truncated:
		s.Truncated++
	case ep.Reward > 0:
		s.Wins++
	case ep.Reward < 0:
		s.Losses++
	default:
		s.Draws++
	}
}

func (r *runner) run(ctx context.Context, episodes, parallel int) (summary, error) {
	if parallel < 1 {
		parallel = 1
	}
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < episodes; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	var (
		mu  sync.Mutex
		sum summary
	)
	for w := 0; w < parallel; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(r.cfg.Seed + int64(w)))
			cfg := r.cfg
			cfg.Seed += int64(w)
			e, err := env.New(r.net, cfg,
				env.WithLogger(r.log.With().Int("worker", w).Logger()),
				env.WithRand(rng),
			)
			if err != nil {
				return err
			}
			for i := range jobs {
				ep, truncated, err := r.playEpisode(ctx, e, rng)
				if err != nil {
					return fmt.Errorf("episode %d: %w", i, err)
				}
				mu.Lock()
				sum.add(ep, truncated)
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	return sum, err
}

// playEpisode plays one game with uniformly random agent actions and stores
// the result.
func (r *runner) playEpisode(ctx context.Context, e *env.Env, rng *rand.Rand) (*storage.Episode, bool, error) {
	ep := &storage.Episode{
		AgentSide: r.cfg.Side.String(),
		Depth:     r.cfg.Depth,
		Started:   time.Now().UTC(),
	}
	if _, err := e.Reset(""); err != nil {
		return nil, false, err
	}
	ep.StartFEN = e.StartFEN()

	truncated := false
	for e.State() == env.InProgress {
		if len(e.History()) >= r.maxPlies {
			truncated = true
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		legal := e.LegalActions()
		a := legal[rng.Intn(len(legal))]
		res, err := e.Step(a)
		if err != nil {
			return nil, false, err
		}
		ep.Actions = append(ep.Actions, a)
		ep.Reward = res.Reward
	}

	for _, m := range e.History() {
		ep.Moves = append(ep.Moves, m.String())
	}
	ep.SAN = e.SANHistory()
	ep.Plies = len(ep.Moves)
	ep.Outcome = e.Outcome().String()
	ep.FinalFEN = e.Position().FEN()
	ep.Finished = time.Now().UTC()

	if err := r.store.SaveEpisode(ep); err != nil {
		return nil, false, err
	}
	if !truncated {
		if err := r.store.RecordOutcome(e.Outcome(), ep.Reward, ep.Plies); err != nil {
			return nil, false, err
		}
	}

	r.log.Info().
		Uint64("id", ep.ID).
		Str("outcome", ep.Outcome).
		Float64("reward", ep.Reward).
		Int("plies", ep.Plies).
		Bool("truncated", truncated).
		Msg("episode finished")
	return ep, truncated, nil
}
