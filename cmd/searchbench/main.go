// Command searchbench measures search throughput over a suite of
// positions, one FEN per line. Suites compressed with zstd (.zst) are
// decompressed transparently.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/zstd"
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

func main() {
	var (
		suitePath = flag.String("suite", "", "FEN suite file, one position per line (.zst supported)")
		depth     = flag.Int("depth", 3, "search depth in plies")
		limit     = flag.Int("limit", 0, "maximum positions to search (0 = all)")
		modelsDir = flag.String("models", "", "model directory (empty = seeded random network)")
		modelID   = flag.String("model", "default", "model id inside the model directory")
		hidden    = flag.Int("hidden", 64, "hidden layer width for the seeded network")
		seed      = flag.Int64("seed", 1, "seed for the random network")
		logLevel  = flag.String("log-level", "info", "log level (trace..error)")
	)
	flag.Parse()

	logger := logx.New(*logLevel)

	if *suitePath == "" {
		logger.Fatal().Msg("usage: searchbench -suite <file> [options]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := buildHandle(logger, *modelsDir, *modelID, *hidden, *seed)
	engine := search.New(eval.NewModelEvaluator(handle))

	f, err := os.Open(*suitePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open suite")
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(*suitePath, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			logger.Fatal().Err(err).Msg("open zstd suite")
		}
		defer zr.Close()
		reader = zr
	}

	logger.Info().Str("suite", *suitePath).Int("depth", *depth).Msg("starting bench")

	var positions, skipped, totalNodes int
	start := time.Now()
	lastLog := start

	scanner := bufio.NewScanner(reader)
benchLoop:
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			logger.Info().Msg("interrupted")
			break benchLoop
		default:
		}
		if *limit > 0 && positions >= *limit {
			break
		}

		fen := strings.TrimSpace(scanner.Text())
		if fen == "" || strings.HasPrefix(fen, "#") {
			continue
		}
		pos, err := rules.FromFEN(fen)
		if err != nil {
			logger.Warn().Err(err).Msg("skipping bad FEN")
			skipped++
			continue
		}

		res, err := engine.ChooseMove(pos, *depth)
		if err != nil {
			logger.Warn().Err(err).Str("fen", fen).Msg("skipping unsearchable position")
			skipped++
			continue
		}
		positions++
		totalNodes += res.Nodes

		if time.Since(lastLog) > 5*time.Second {
			lastLog = time.Now()
			logger.Info().Int("positions", positions).Int("nodes", totalNodes).Msg("progress")
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal().Err(err).Msg("read suite")
	}

	elapsed := time.Since(start)
	nps := 0.0
	if elapsed > 0 {
		nps = float64(totalNodes) / elapsed.Seconds()
	}
	logger.Info().
		Int("positions", positions).
		Int("skipped", skipped).
		Int("nodes", totalNodes).
		Dur("elapsed", elapsed).
		Float64("nodes_per_sec", nps).
		Msg("bench complete")
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
