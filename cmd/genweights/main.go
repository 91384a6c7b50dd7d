// Command genweights writes a deterministic pseudo-random network in the
// weight file format, for tests and for running the environment without a
// trained network.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgym/internal/logx"
	"github.com/hailam/chessgym/internal/nnue"
	"github.com/hailam/chessgym/internal/storage"
)

var (
	out      = flag.String("out", "", "output file (default default.nnue in the data dir)")
	l1       = flag.Int("l1", nnue.DefaultL1, "accumulator width per perspective")
	l2       = flag.Int("l2", nnue.DefaultL2, "hidden layer width")
	seed     = flag.Uint64("seed", 1, "random seed")
	compress = flag.Bool("zstd", false, "zstd-compress the file")
)

func main() {
	flag.Parse()
	log := logx.New(os.Stderr, zerolog.InfoLevel)

	if *l1 < 1 || *l1 > 2048 || *l2 < 1 || *l2 > 256 {
		log.Fatal().Int("l1", *l1).Int("l2", *l2).Msg("layer sizes must be 1..2048 and 1..256")
	}

	path := *out
	if path == "" {
		dir, err := storage.WeightsDir()
		if err != nil {
			log.Fatal().Err(err).Msg("weights dir")
		}
		path = filepath.Join(dir, "default.nnue")
	}

	net := nnue.NewRandom(*seed, *l1, *l2)
	if err := net.SaveFile(path, *compress); err != nil {
		log.Fatal().Err(err).Msg("write weights")
	}
	log.Info().
		Str("path", path).
		Int("l1", *l1).
		Int("l2", *l2).
		Uint64("seed", *seed).
		Bool("zstd", *compress).
		Msg("weights written")
}
