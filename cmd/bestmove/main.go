// Command bestmove picks a move for a single position: FEN in, UCI
// move out. It either loads a trained model from a model directory or
// falls back to a seeded random network, which is handy for smoke
// tests.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/chessmind/engine/internal/cache"
	"github.com/chessmind/engine/internal/codec"
	"github.com/chessmind/engine/internal/eval"
	"github.com/chessmind/engine/internal/logx"
	"github.com/chessmind/engine/internal/model"
	"github.com/chessmind/engine/internal/rules"
	"github.com/chessmind/engine/internal/search"
	"github.com/chessmind/engine/internal/store"
)

// loadHandle resolves the evaluation model shared by the CLI tools:
// a weight file from the model directory when one is configured,
// otherwise a deterministically seeded random network.
func loadHandle(logger zerolog.Logger, modelsDir, modelID string, hidden int, seed int64) model.Handle {
	if modelsDir == "" {
		n, err := model.NewNetwork(codec.StateSize, hidden)
		if err != nil {
			logger.Fatal().Err(err).Msg("build network")
		}
		n.InitRandom(seed)
		logger.Info().Int64("seed", seed).Int("hidden", hidden).Msg("using seeded random network")
		return n
	}

	st, err := store.NewDirStore(modelsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open model store")
	}
	c, err := cache.New(4, st)
	if err != nil {
		logger.Fatal().Err(err).Msg("build model cache")
	}
	h, err := c.Get(modelID)
	if err != nil {
		logger.Fatal().Err(err).Str("model", modelID).Msg("load model")
	}
	logger.Info().Str("model", modelID).Str("dir", modelsDir).Msg("loaded model")
	return h
}

func main() {
	var (
		fen       = flag.String("fen", rules.StartingFEN, "position to search, as FEN")
		depth     = flag.Int("depth", 3, "search depth in plies")
		modelsDir = flag.String("models", "", "model directory (empty = seeded random network)")
		modelID   = flag.String("model", "default", "model id inside the model directory")
		hidden    = flag.Int("hidden", 64, "hidden layer width for the seeded network")
		seed      = flag.Int64("seed", 1, "seed for the random network")
		logLevel  = flag.String("log-level", "info", "log level (trace..error)")
	)
	flag.Parse()

	logger := logx.New(*logLevel)

	pos, err := rules.FromFEN(*fen)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse position")
	}

	handle := loadHandle(logger, *modelsDir, *modelID, *hidden, *seed)
	engine := search.New(eval.NewModelEvaluator(handle))

	res, err := engine.ChooseMove(pos, *depth)
	if err != nil {
		logger.Fatal().Err(err).Int("depth", *depth).Msg("search failed")
	}

	logger.Info().
		Str("move", res.Move.UCI()).
		Float64("score", res.Score).
		Int("nodes", res.Nodes).
		Int("depth", *depth).
		Msg("search complete")

	fmt.Fprintln(os.Stdout, res.Move.UCI())
}
