package rules

import (
	"strings"
	"testing"
)

const (
	// After 1.f3 e5 2.g4 Qh4#; White is checkmated.
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	// After 1.e4 e5 2.Bc4 Nc6 3.Qh5 Nf6 4.Qxf7#; Black is checkmated.
	scholarsMateFEN = "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4"
	// Black king on h8 has no moves and is not in check.
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func TestFromFEN_Valid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"starting position", StartingFEN},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{"fools mate", foolsMateFEN},
		{"stalemate", stalemateFEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := FromFEN(tt.fen)
			if err != nil {
				t.Fatalf("FromFEN(%q): %v", tt.fen, err)
			}
			if got := pos.FEN(); got != tt.fen {
				t.Errorf("FEN() = %q, want %q", got, tt.fen)
			}
		})
	}
}

func TestFromFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1"},
		{"bad piece letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"rank too long", "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"rank too short", "rnbqkbnr/pppppppp/7/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"no white king", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w KQkq - 0 1"},
		{"two black kings", "rnbqkknr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad side to move", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq - 0 1"},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"bad halfmove clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFEN(tt.fen); err == nil {
				t.Errorf("FromFEN(%q) succeeded, want error", tt.fen)
			}
		})
	}
}

func TestLegalMoves_StartingPosition(t *testing.T) {
	pos := StartingPosition()
	moves := pos.LegalMoves()
	if len(moves) != 20 {
		t.Errorf("LegalMoves() returned %d moves, want 20", len(moves))
	}
}

func TestApplyUndo_RestoresPosition(t *testing.T) {
	pos := StartingPosition()
	before := pos.FEN()

	mv, err := pos.MoveFromUCI("e2e4")
	if err != nil {
		t.Fatalf("MoveFromUCI: %v", err)
	}
	undo, err := pos.Apply(mv)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if pos.FEN() == before {
		t.Fatal("Apply did not change the position")
	}
	if pos.WhiteToMove() {
		t.Error("WhiteToMove() = true after White's move, want false")
	}

	undo()
	if got := pos.FEN(); got != before {
		t.Errorf("undo left position %q, want %q", got, before)
	}
}

func TestApply_InconsistentMove(t *testing.T) {
	pos := StartingPosition()
	e2e4, err := pos.MoveFromUCI("e2e4")
	if err != nil {
		t.Fatalf("MoveFromUCI(e2e4): %v", err)
	}
	d2d4, err := pos.MoveFromUCI("d2d4")
	if err != nil {
		t.Fatalf("MoveFromUCI(d2d4): %v", err)
	}

	if _, err := pos.Apply(e2e4); err != nil {
		t.Fatalf("Apply(e2e4): %v", err)
	}
	fenAfter := pos.FEN()

	// e2 is now empty.
	if _, err := pos.Apply(e2e4); err == nil {
		t.Error("Apply of move with empty origin succeeded, want error")
	}
	// d2 holds a White pawn but Black is to move.
	if _, err := pos.Apply(d2d4); err == nil {
		t.Error("Apply of wrong-color move succeeded, want error")
	}
	if got := pos.FEN(); got != fenAfter {
		t.Errorf("rejected Apply mutated position to %q, want %q", got, fenAfter)
	}
}

func TestTerminalDetection(t *testing.T) {
	tests := []struct {
		name         string
		fen          string
		checkmate    bool
		stalemate    bool
		insufficient bool
	}{
		{"starting position", StartingFEN, false, false, false},
		{"fools mate", foolsMateFEN, true, false, false},
		{"scholars mate", scholarsMateFEN, true, false, false},
		{"stalemate", stalemateFEN, false, true, false},
		{"king vs king", "8/8/8/8/8/8/8/K6k w - - 0 1", false, false, true},
		{"king+bishop vs king", "8/8/8/8/8/8/8/KB5k w - - 0 1", false, false, true},
		{"king+knight vs king", "8/8/8/8/8/8/8/KN5k w - - 0 1", false, false, true},
		{"same-color bishops", "6b1/8/8/8/8/8/8/KB5k w - - 0 1", false, false, true},
		{"opposite-color bishops", "1b6/8/8/8/8/8/8/KB5k w - - 0 1", false, false, false},
		{"two knights", "8/8/8/8/8/8/8/KNN4k w - - 0 1", false, false, false},
		{"lone rook", "7k/8/8/8/8/8/8/KR6 w - - 0 1", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := FromFEN(tt.fen)
			if err != nil {
				t.Fatalf("FromFEN: %v", err)
			}
			if got := pos.IsCheckmate(); got != tt.checkmate {
				t.Errorf("IsCheckmate() = %v, want %v", got, tt.checkmate)
			}
			if got := pos.IsStalemate(); got != tt.stalemate {
				t.Errorf("IsStalemate() = %v, want %v", got, tt.stalemate)
			}
			if got := pos.InsufficientMaterial(); got != tt.insufficient {
				t.Errorf("InsufficientMaterial() = %v, want %v", got, tt.insufficient)
			}
			wantOver := tt.checkmate || tt.stalemate || tt.insufficient
			if got := pos.IsGameOver(); got != wantOver {
				t.Errorf("IsGameOver() = %v, want %v", got, wantOver)
			}
		})
	}
}

func TestPieceAt(t *testing.T) {
	pos := StartingPosition()

	tests := []struct {
		square   string
		piece    Piece
		color    Color
		occupied bool
	}{
		{"e1", King, White, true},
		{"d8", Queen, Black, true},
		{"a1", Rook, White, true},
		{"b8", Knight, Black, true},
		{"c1", Bishop, White, true},
		{"e7", Pawn, Black, true},
		{"e4", NoPiece, White, false},
	}

	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			sq, err := ParseSquare(tt.square)
			if err != nil {
				t.Fatalf("ParseSquare: %v", err)
			}
			piece, color, occupied := pos.PieceAt(sq)
			if occupied != tt.occupied {
				t.Fatalf("PieceAt(%s) occupied = %v, want %v", tt.square, occupied, tt.occupied)
			}
			if !occupied {
				return
			}
			if piece != tt.piece || color != tt.color {
				t.Errorf("PieceAt(%s) = %v %v, want %v %v", tt.square, color, piece, tt.color, tt.piece)
			}
		})
	}
}

func TestIsCapture_And_CapturedPiece(t *testing.T) {
	// After 1.e4 d5: exd5 captures a pawn.
	pos, err := FromFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	capture, err := pos.MoveFromUCI("e4d5")
	if err != nil {
		t.Fatalf("MoveFromUCI(e4d5): %v", err)
	}
	quiet, err := pos.MoveFromUCI("g1f3")
	if err != nil {
		t.Fatalf("MoveFromUCI(g1f3): %v", err)
	}

	if !pos.IsCapture(capture) {
		t.Error("IsCapture(e4d5) = false, want true")
	}
	if pos.IsCapture(quiet) {
		t.Error("IsCapture(g1f3) = true, want false")
	}
	if piece, ok := pos.CapturedPiece(capture); !ok || piece != Pawn {
		t.Errorf("CapturedPiece(e4d5) = %v %v, want pawn true", piece, ok)
	}
	if _, ok := pos.CapturedPiece(quiet); ok {
		t.Error("CapturedPiece(g1f3) reported a victim for a quiet move")
	}
}

func TestCapturedPiece_EnPassant(t *testing.T) {
	// After 1.a4 d5 2.a5 d4 3.e4 the d4 pawn may capture en passant;
	// e3 is empty.
	pos, err := FromFEN("rnbqkbnr/ppp1pppp/8/P7/3pP3/8/1PPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	ep, err := pos.MoveFromUCI("d4e3")
	if err != nil {
		t.Fatalf("MoveFromUCI(d4e3): %v", err)
	}
	if !pos.IsCapture(ep) {
		t.Fatal("IsCapture(d4e3) = false, want true")
	}
	piece, ok := pos.CapturedPiece(ep)
	if !ok || piece != Pawn {
		t.Errorf("CapturedPiece(d4e3) = %v %v, want pawn true", piece, ok)
	}
}

func TestGivesCheck(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	before := pos.FEN()

	checking, err := pos.MoveFromUCI("a1a8")
	if err != nil {
		t.Fatalf("MoveFromUCI(a1a8): %v", err)
	}
	quiet, err := pos.MoveFromUCI("a1a2")
	if err != nil {
		t.Fatalf("MoveFromUCI(a1a2): %v", err)
	}

	if got, err := pos.GivesCheck(checking); err != nil || !got {
		t.Errorf("GivesCheck(a1a8) = %v %v, want true nil", got, err)
	}
	if got, err := pos.GivesCheck(quiet); err != nil || got {
		t.Errorf("GivesCheck(a1a2) = %v %v, want false nil", got, err)
	}
	if got := pos.FEN(); got != before {
		t.Errorf("GivesCheck mutated position to %q, want %q", got, before)
	}
}

func TestCastlingRights(t *testing.T) {
	tests := []struct {
		name           string
		fen            string
		wk, wq, bk, bq bool
	}{
		{"all rights", StartingFEN, true, true, true, true},
		{"mixed", "r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1", true, false, false, true},
		{"none", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := FromFEN(tt.fen)
			if err != nil {
				t.Fatalf("FromFEN: %v", err)
			}
			wk, wq, bk, bq := pos.CastlingRights()
			if wk != tt.wk || wq != tt.wq || bk != tt.bk || bq != tt.bq {
				t.Errorf("CastlingRights() = %v %v %v %v, want %v %v %v %v",
					wk, wq, bk, bq, tt.wk, tt.wq, tt.bk, tt.bq)
			}
		})
	}
}

func TestEnPassantTarget(t *testing.T) {
	pos, err := FromFEN("rnbqkbnr/ppp1pppp/8/P7/3pP3/8/1PPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	sq, ok := pos.EnPassantTarget()
	if !ok {
		t.Fatal("EnPassantTarget() reported none, want e3")
	}
	if sq.String() != "e3" {
		t.Errorf("EnPassantTarget() = %s, want e3", sq)
	}

	none := StartingPosition()
	if _, ok := none.EnPassantTarget(); ok {
		t.Error("EnPassantTarget() on the starting position reported a square")
	}
}

func TestCopy_Independent(t *testing.T) {
	pos := StartingPosition()
	clone := pos.Copy()

	mv, err := pos.MoveFromUCI("e2e4")
	if err != nil {
		t.Fatalf("MoveFromUCI: %v", err)
	}
	if _, err := pos.Apply(mv); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if clone.FEN() == pos.FEN() {
		t.Error("Copy shares state with the original")
	}
	if clone.FEN() != StartingFEN {
		t.Errorf("clone FEN = %q, want starting position", clone.FEN())
	}
}

func TestMoveFromUCI_Unknown(t *testing.T) {
	pos := StartingPosition()
	if _, err := pos.MoveFromUCI("e2e5"); err == nil {
		t.Error("MoveFromUCI(e2e5) succeeded, want error")
	}
	if _, err := pos.MoveFromUCI("junk"); err == nil {
		t.Error("MoveFromUCI(junk) succeeded, want error")
	}
}

func TestSideToMove(t *testing.T) {
	pos := StartingPosition()
	if pos.SideToMove() != White {
		t.Errorf("SideToMove() = %v, want white", pos.SideToMove())
	}
	black, err := FromFEN(strings.Replace(StartingFEN, " w ", " b ", 1))
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if black.SideToMove() != Black {
		t.Errorf("SideToMove() = %v, want black", black.SideToMove())
	}
}
