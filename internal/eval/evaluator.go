// Package eval scores positions with a loaded model, resolving
// game-theoretic terminals before the model runs.
package eval

import (
	"fmt"

	"github.com/chessmind/engine/internal/codec"
	"github.com/chessmind/engine/internal/model"
	"github.com/chessmind/engine/internal/rules"
)

// MateScore is the magnitude reserved for checkmate. Model outputs
// stay far inside (-MateScore, MateScore).
const MateScore float64 = 1_000_000

// ModelEvaluator scores positions from White's point of view:
// positive favors White, negative favors Black. It holds no mutable
// state and is safe for concurrent use over distinct positions.
type ModelEvaluator struct {
	handle model.Handle
}

// NewModelEvaluator wraps a loaded model.
func NewModelEvaluator(h model.Handle) *ModelEvaluator {
	return &ModelEvaluator{handle: h}
}

// Evaluate returns the score for p. Checkmate is MateScore in favor
// of the side that delivered it (the side to move is the mated one);
// stalemate and insufficient material are exactly 0. Every other
// position is encoded and passed to the model, and the model's output
// is returned untransformed.
func (e *ModelEvaluator) Evaluate(p *rules.Position) (float64, error) {
	if p.IsCheckmate() {
		if p.WhiteToMove() {
			return -MateScore, nil
		}
		return MateScore, nil
	}
	if p.IsStalemate() || p.InsufficientMaterial() {
		return 0, nil
	}

	st, err := codec.Encode(p)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	score, err := e.handle.Forward(st)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}
	return score, nil
}
