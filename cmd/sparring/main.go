// Command sparring plays our search against an external UCI engine
// and reports a win/draw/loss tally. Games start from an opening
// suite when one is given, alternating colors so both sides of each
// opening are played.
package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"

	"github.com/chessmind/engine/internal/cache"
	"github.com/chessmind/engine/internal/codec"
	"github.com/chessmind/engine/internal/eval"
	"github.com/chessmind/engine/internal/logx"
	"github.com/chessmind/engine/internal/model"
	"github.com/chessmind/engine/internal/openings"
	"github.com/chessmind/engine/internal/rules"
	"github.com/chessmind/engine/internal/search"
	"github.com/chessmind/engine/internal/store"
)

type matchConfig struct {
	games       int
	ourDepth    int
	engineDepth int
	maxPlies    int
}

// outcome from our side's perspective.
type outcome int

const (
	draw outcome = iota
	win
	loss
	aborted
)

func main() {
	var (
		enginePath  = flag.String("engine", "", "path to the opposing UCI engine binary")
		engineDepth = flag.Int("enginedepth", 6, "opponent search depth")
		depth       = flag.Int("depth", 3, "our search depth in plies")
		games       = flag.Int("games", 2, "number of games to play")
		maxPlies    = flag.Int("maxplies", 200, "adjudicate as draw after this many plies")
		suitePath   = flag.String("openings", "", "opening suite TSV (empty = starting position)")
		hashMB      = flag.Int("hash", 128, "opponent hash table MB")
		threads     = flag.Int("threads", 1, "opponent threads")
		modelsDir   = flag.String("models", "", "model directory (empty = seeded random network)")
		modelID     = flag.String("model", "default", "model id inside the model directory")
		hidden      = flag.Int("hidden", 64, "hidden layer width for the seeded network")
		seed        = flag.Int64("seed", 1, "seed for the random network")
		logLevel    = flag.String("log-level", "info", "log level (trace..error)")
	)
	flag.Parse()

	logger := logx.New(*logLevel)
	if *enginePath == "" {
		logger.Fatal().Msg("usage: sparring -engine <uci binary> [options]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := buildHandle(logger, *modelsDir, *modelID, *hidden, *seed)
	ours := search.New(eval.NewModelEvaluator(handle))

	lines := loadOpenings(logger, *suitePath)

	opponent, err := uci.NewEngine(*enginePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("start opposing engine")
	}
	defer opponent.Close()
	if err := opponent.SetOptions(uci.Options{
		Hash:    *hashMB,
		Threads: *threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}); err != nil {
		logger.Fatal().Err(err).Msg("configure opposing engine")
	}

	cfg := matchConfig{
		games:       *games,
		ourDepth:    *depth,
		engineDepth: *engineDepth,
		maxPlies:    *maxPlies,
	}
	logger.Info().
		Str("opponent", *enginePath).
		Int("games", cfg.games).
		Int("our_depth", cfg.ourDepth).
		Int("their_depth", cfg.engineDepth).
		Msg("starting match")

	var wins, draws, losses int
	for g := 0; g < cfg.games; g++ {
		if ctx.Err() != nil {
			logger.Info().Msg("interrupted")
			break
		}
		line := lines[g%len(lines)]
		ourWhite := g%2 == 0

		gameLog := logx.Component(logger, "game").With().
			Int("game", g+1).
			Str("opening", line.Name).
			Bool("our_white", ourWhite).
			Logger()

		result, err := playGame(ctx, gameLog, ours, opponent, cfg, line.FEN, ourWhite)
		if err != nil {
			logger.Fatal().Err(err).Int("game", g+1).Msg("game failed")
		}
		switch result {
		case win:
			wins++
			gameLog.Info().Msg("we won")
		case loss:
			losses++
			gameLog.Info().Msg("we lost")
		case draw:
			draws++
			gameLog.Info().Msg("draw")
		case aborted:
			gameLog.Info().Msg("aborted")
		}
	}

	logger.Info().
		Int("wins", wins).
		Int("draws", draws).
		Int("losses", losses).
		Msg("match complete")
}

// playGame runs one game from the opening position to a terminal
// state or the ply cap.
func playGame(ctx context.Context, log zerolog.Logger, ours *search.Engine, opponent *uci.Engine, cfg matchConfig, fen string, ourWhite bool) (outcome, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return aborted, err
	}

	for plies := 0; plies < cfg.maxPlies; plies++ {
		if ctx.Err() != nil {
			return aborted, nil
		}
		if pos.IsGameOver() {
			break
		}

		var mv rules.Move
		if pos.WhiteToMove() == ourWhite {
			res, err := ours.ChooseMove(pos, cfg.ourDepth)
			if errors.Is(err, search.ErrGameOver) {
				break
			}
			if err != nil {
				return aborted, err
			}
			mv = res.Move
			log.Debug().Str("move", mv.UCI()).Float64("score", res.Score).Int("nodes", res.Nodes).Msg("our move")
		} else {
			if err := opponent.SetFEN(pos.FEN()); err != nil {
				return aborted, err
			}
			results, err := opponent.GoDepth(cfg.engineDepth, uci.HighestDepthOnly)
			if err != nil {
				return aborted, err
			}
			mv, err = pos.MoveFromUCI(results.BestMove)
			if err != nil {
				return aborted, err
			}
			log.Debug().Str("move", mv.UCI()).Msg("their move")
		}

		if _, err := pos.Apply(mv); err != nil {
			return aborted, err
		}
	}

	if pos.IsCheckmate() {
		// The side to move is the mated side.
		if pos.WhiteToMove() == ourWhite {
			return loss, nil
		}
		return win, nil
	}
	return draw, nil
}

func loadOpenings(logger zerolog.Logger, path string) []openings.Line {
	if path == "" {
		return []openings.Line{{Name: "starting position", FEN: rules.StartingFEN}}
	}
	lines, err := openings.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Msg("load openings")
	}
	logger.Info().Int("lines", len(lines)).Str("suite", path).Msg("loaded openings")
	return lines
}

func buildHandle(logger zerolog.Logger, modelsDir, modelID string, hidden int, seed int64) model.Handle {
	if modelsDir == "" {
		n, err := model.NewNetwork(codec.StateSize, hidden)
		if err != nil {
			logger.Fatal().Err(err).Msg("build network")
		}
		n.InitRandom(seed)
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
	return h
}
