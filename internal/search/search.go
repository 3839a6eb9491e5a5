// Package search picks moves by depth-bounded minimax with alpha-beta
// pruning, ordering moves to cut subtrees early. It never logs; every
// failure surfaces as an error to the caller.
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/chessmind/engine/internal/rules"
)

var (
	// ErrGameOver rejects a search on a finished game.
	ErrGameOver = errors.New("game already over")
	// ErrInvalidDepth rejects a search depth below 1.
	ErrInvalidDepth = errors.New("search depth must be at least 1")
	// ErrSearchFault reports a rules-engine inconsistency detected
	// mid-search. The whole call aborts; no partial best move is
	// returned.
	ErrSearchFault = errors.New("rules engine fault during search")
)

// Evaluator scores a position from White's point of view. It is the
// only capability the engine needs from an evaluation backend.
type Evaluator interface {
	Evaluate(p *rules.Position) (float64, error)
}

// Result is a chosen move with the score the search certified for it
// and the number of nodes visited along the way. Nodes is
// observability only.
type Result struct {
	Move  rules.Move
	Score float64
	Nodes int
}

// Engine searches positions using one evaluator. An Engine is
// stateless across calls: concurrent ChooseMove invocations are safe
// as long as each operates on its own Position.
type Engine struct {
	ev Evaluator
}

// New creates an engine over ev.
func New(ev Evaluator) *Engine { return &Engine{ev: ev} }

// ChooseMove searches pos to the given depth and returns the best
// move for the side to move. The position must not be game-over and
// depth must be at least 1. A position with exactly one legal move
// returns it immediately without consulting the evaluator.
//
// The search mutates pos through apply/undo pairs and restores it
// before returning on every path.
func (e *Engine) ChooseMove(pos *rules.Position, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 || pos.InsufficientMaterial() {
		return Result{}, ErrGameOver
	}
	if len(moves) == 1 {
		return Result{Move: moves[0]}, nil
	}

	s := &searcher{ev: e.ev}
	s.nodes++
	ordered, err := orderMoves(pos, moves)
	if err != nil {
		return Result{}, err
	}

	// The root updates its window like any interior node but never
	// prunes its own iteration: every child is examined so the best
	// move is certified, while the narrowed window still prunes
	// inside each child's subtree.
	alpha, beta := math.Inf(-1), math.Inf(1)
	bestMove := ordered[0]

	if pos.WhiteToMove() {
		best := math.Inf(-1)
		for _, m := range ordered {
			value, err := s.searchChild(pos, m, depth-1, alpha, beta)
			if err != nil {
				return Result{}, err
			}
			if value > best {
				best, bestMove = value, m
			}
			if value > alpha {
				alpha = value
			}
		}
		return Result{Move: bestMove, Score: best, Nodes: s.nodes}, nil
	}

	best := math.Inf(1)
	for _, m := range ordered {
		value, err := s.searchChild(pos, m, depth-1, alpha, beta)
		if err != nil {
			return Result{}, err
		}
		if value < best {
			best, bestMove = value, m
		}
		if value < beta {
			beta = value
		}
	}
	return Result{Move: bestMove, Score: best, Nodes: s.nodes}, nil
}

// searcher carries the per-call scratch state.
type searcher struct {
	ev    Evaluator
	nodes int
}

// searchChild applies m, recurses, and undoes the move on every exit
// path.
func (s *searcher) searchChild(pos *rules.Position, m rules.Move, depth int, alpha, beta float64) (float64, error) {
	undo, err := pos.Apply(m)
	if err != nil {
		return 0, fmt.Errorf("%w: apply %s: %v", ErrSearchFault, m, err)
	}
	value, err := s.alphabeta(pos, depth, alpha, beta)
	undo()
	return value, err
}

// alphabeta evaluates pos to the given remaining depth within the
// (alpha, beta) window. Maximizing and minimizing levels follow the
// side to move; ties keep the first move visited.
func (s *searcher) alphabeta(pos *rules.Position, depth int, alpha, beta float64) (float64, error) {
	s.nodes++
	if depth == 0 {
		return s.ev.Evaluate(pos)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 || pos.InsufficientMaterial() {
		return s.ev.Evaluate(pos)
	}
	ordered, err := orderMoves(pos, moves)
	if err != nil {
		return 0, err
	}

	if pos.WhiteToMove() {
		best := math.Inf(-1)
		for _, m := range ordered {
			value, err := s.searchChild(pos, m, depth-1, alpha, beta)
			if err != nil {
				return 0, err
			}
			if value > best {
				best = value
			}
			if value > alpha {
				alpha = value
			}
			if beta <= alpha {
				break
			}
		}
		return best, nil
	}

	best := math.Inf(1)
	for _, m := range ordered {
		value, err := s.searchChild(pos, m, depth-1, alpha, beta)
		if err != nil {
			return 0, err
		}
		if value < best {
			best = value
		}
		if value < beta {
			beta = value
		}
		if beta <= alpha {
			break
		}
	}
	return best, nil
}
