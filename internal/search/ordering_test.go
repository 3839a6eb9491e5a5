package search

import (
	"testing"

	"github.com/chessmind/engine/internal/rules"
)

func mustMove(t *testing.T, pos *rules.Position, uci string) rules.Move {
	t.Helper()
	m, err := pos.MoveFromUCI(uci)
	if err != nil {
		t.Fatalf("MoveFromUCI(%q): %v", uci, err)
	}
	return m
}

func TestMovePriority(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want int
	}{
		{"queen capture", "7k/3q4/8/8/8/8/8/3Q2K1 w - - 0 1", "d1d7", 90},
		{"checking move", "7k/3q4/8/8/8/8/8/3Q2K1 w - - 0 1", "d1d4", 50},
		{"quiet move", "7k/3q4/8/8/8/8/8/3Q2K1 w - - 0 1", "d1e1", 0},
		{"queen promotion with check", "7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8q", 150},
		{"knight promotion", "7k/P7/8/8/8/8/8/K7 w - - 0 1", "a7a8n", 100},
		{"pawn capture", "7k/8/8/3p4/2P5/8/8/7K w - - 0 1", "c4d5", 10},
		{"en passant capture", "7k/8/8/3Pp3/8/8/8/7K w - e6 0 1", "d5e6", 10},
		{"rook capture with check", "3r3k/8/8/8/8/8/8/3R3K w - - 0 1", "d1d8", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustPosition(t, tt.fen)
			got, err := movePriority(pos, mustMove(t, pos, tt.uci))
			if err != nil {
				t.Fatalf("movePriority: %v", err)
			}
			if got != tt.want {
				t.Errorf("movePriority(%s) = %d, want %d", tt.uci, got, tt.want)
			}
		})
	}
}

func TestOrderMoves_QueenCaptureFirst(t *testing.T) {
	// One queen capture among checks and quiet moves.
	pos := mustPosition(t, "7k/3q4/8/8/8/8/8/3Q2K1 w - - 0 1")
	ordered, err := orderMoves(pos, pos.LegalMoves())
	if err != nil {
		t.Fatalf("orderMoves: %v", err)
	}
	if got := ordered[0].UCI(); got != "d1d7" {
		t.Errorf("first ordered move = %s, want the queen capture d1d7", got)
	}
}

func TestOrderMoves_TiesKeepGeneratorOrder(t *testing.T) {
	// No captures, checks, or promotions at the start: every priority
	// is 0 and ordering must not disturb the generator's order.
	pos := rules.StartingPosition()
	moves := pos.LegalMoves()
	ordered, err := orderMoves(pos, moves)
	if err != nil {
		t.Fatalf("orderMoves: %v", err)
	}
	if len(ordered) != len(moves) {
		t.Fatalf("ordered %d moves, want %d", len(ordered), len(moves))
	}
	for i := range moves {
		if ordered[i] != moves[i] {
			t.Errorf("ordered[%d] = %s, want %s (generator order)", i, ordered[i], moves[i])
		}
	}
}

func TestOrderMoves_RestoresPosition(t *testing.T) {
	// The check probe applies and undoes every candidate; the position
	// must come back untouched.
	const fen = "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
	pos := mustPosition(t, fen)
	if _, err := orderMoves(pos, pos.LegalMoves()); err != nil {
		t.Fatalf("orderMoves: %v", err)
	}
	if got := pos.FEN(); got != fen {
		t.Errorf("position changed during ordering:\n got %s\nwant %s", got, fen)
	}
}
