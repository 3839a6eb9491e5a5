package search

import (
	"fmt"
	"sort"

	"github.com/chessmind/engine/internal/rules"
)

// pieceValue indexed by rules.Piece: pawn 1, knight 3, bishop 3,
// rook 5, queen 9, king 0.
var pieceValue = [...]int{0, 1, 3, 3, 5, 9, 0}

const (
	captureWeight  = 10
	checkBonus     = 50
	promotionBonus = 100
)

// movePriority scores m for ordering: capture victims weigh ten times
// their material value, giving check adds 50, promoting adds 100.
// The check probe applies and undoes the move.
func movePriority(pos *rules.Position, m rules.Move) (int, error) {
	priority := 0
	if victim, ok := pos.CapturedPiece(m); ok {
		priority += pieceValue[victim] * captureWeight
	}
	check, err := pos.GivesCheck(m)
	if err != nil {
		return 0, fmt.Errorf("%w: probe %s: %v", ErrSearchFault, m, err)
	}
	if check {
		priority += checkBonus
	}
	if m.Promotion() != rules.NoPiece {
		priority += promotionBonus
	}
	return priority, nil
}

// orderMoves returns moves sorted by descending priority. Equal
// priorities keep their original order so the search stays
// deterministic.
func orderMoves(pos *rules.Position, moves []rules.Move) ([]rules.Move, error) {
	type scored struct {
		move     rules.Move
		priority int
	}
	list := make([]scored, len(moves))
	for i, m := range moves {
		priority, err := movePriority(pos, m)
		if err != nil {
			return nil, err
		}
		list[i] = scored{move: m, priority: priority}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	ordered := make([]rules.Move, len(moves))
	for i, s := range list {
		ordered[i] = s.move
	}
	return ordered, nil
}
