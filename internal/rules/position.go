// Package rules adapts a bitboard move generator to the surface the
// engine needs: legal move listing, scoped apply/undo, terminal
// detection, and the position facts the state codec encodes.
package rules

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// lightSquares masks the light-colored squares (A1 is dark).
const lightSquares = uint64(0x55AA55AA55AA55AA)

// Position is a full game state: piece placement, side to move,
// castling rights, en-passant target and move counters. It is mutated
// only through Apply and restored by the Undo closures Apply returns.
// A Position must not be shared across goroutines while moves are
// being applied to it.
type Position struct {
	board dragontoothmg.Board
}

// FromFEN parses a FEN string into a Position. The string is fully
// validated here because the underlying move generator accepts
// malformed input silently.
func FromFEN(fen string) (*Position, error) {
	if err := validateFEN(fen); err != nil {
		return nil, err
	}
	return &Position{board: dragontoothmg.ParseFen(fen)}, nil
}

// StartingPosition returns the standard initial position.
func StartingPosition() *Position {
	return &Position{board: dragontoothmg.ParseFen(StartingFEN)}
}

// FEN renders the position, move counters included.
func (p *Position) FEN() string { return p.board.ToFen() }

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	b := p.board
	return &Position{board: b}
}

// WhiteToMove reports whether White is to move.
func (p *Position) WhiteToMove() bool { return p.board.Wtomove }

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color { return Color(p.board.Wtomove) }

// LegalMoves returns every legal move in generator order. The order
// is deterministic for a given position.
func (p *Position) LegalMoves() []Move {
	raw := p.board.GenerateLegalMoves()
	moves := make([]Move, len(raw))
	for i, m := range raw {
		moves[i] = Move(m)
	}
	return moves
}

// Undo reverts the Apply call that produced it. Each closure is
// single-shot: invoke it exactly once, before any later Apply on the
// same position is undone.
type Undo func()

// Apply plays m on the position and returns the closure that takes it
// back. A move that cannot belong to this position — empty origin
// square, a piece of the wrong color, or origin equal to destination —
// is rejected before any mutation.
func (p *Position) Apply(m Move) (Undo, error) {
	from, to := m.From(), m.To()
	if from == to {
		return nil, fmt.Errorf("apply %s: origin equals destination", m.UCI())
	}
	_, color, occupied := p.PieceAt(from)
	if !occupied {
		return nil, fmt.Errorf("apply %s: no piece on %s", m.UCI(), from)
	}
	if color != p.SideToMove() {
		return nil, fmt.Errorf("apply %s: %s piece on %s is not the mover's", m.UCI(), color, from)
	}
	unapply := p.board.Apply(dragontoothmg.Move(m))
	return Undo(unapply), nil
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.board.OurKingInCheck() }

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return len(p.board.GenerateLegalMoves()) == 0 && p.board.OurKingInCheck()
}

// IsStalemate reports whether the side to move has no legal move while
// not in check.
func (p *Position) IsStalemate() bool {
	return len(p.board.GenerateLegalMoves()) == 0 && !p.board.OurKingInCheck()
}

// InsufficientMaterial reports whether neither side retains mating
// material: bare kings, a lone minor piece, or bishops only with every
// bishop on the same square color.
func (p *Position) InsufficientMaterial() bool {
	w, b := p.board.White, p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := w.Knights | b.Knights
	bishops := w.Bishops | b.Bishops
	if bits.OnesCount64(knights)+bits.OnesCount64(bishops) <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&lightSquares == bishops || bishops&^lightSquares == bishops
}

// IsGameOver reports whether the game has ended by checkmate,
// stalemate, or insufficient material.
func (p *Position) IsGameOver() bool {
	return p.InsufficientMaterial() || len(p.board.GenerateLegalMoves()) == 0
}

// IsCapture reports whether m captures a piece, en passant included.
func (p *Position) IsCapture(m Move) bool {
	return dragontoothmg.IsCapture(dragontoothmg.Move(m), &p.board)
}

// CapturedPiece returns the piece type a capture removes. For an
// en-passant capture the destination square is empty and the victim
// is a pawn.
func (p *Position) CapturedPiece(m Move) (Piece, bool) {
	if !p.IsCapture(m) {
		return NoPiece, false
	}
	if piece, _, occupied := p.PieceAt(m.To()); occupied {
		return piece, true
	}
	return Pawn, true
}

// PieceAt returns the piece and color on sq.
func (p *Position) PieceAt(sq Square) (Piece, Color, bool) {
	mask := uint64(1) << sq
	if p.board.White.All&mask != 0 {
		return pieceOn(&p.board.White, mask), White, true
	}
	if p.board.Black.All&mask != 0 {
		return pieceOn(&p.board.Black, mask), Black, true
	}
	return NoPiece, White, false
}

func pieceOn(bb *dragontoothmg.Bitboards, mask uint64) Piece {
	switch {
	case bb.Pawns&mask != 0:
		return Pawn
	case bb.Knights&mask != 0:
		return Knight
	case bb.Bishops&mask != 0:
		return Bishop
	case bb.Rooks&mask != 0:
		return Rook
	case bb.Queens&mask != 0:
		return Queen
	case bb.Kings&mask != 0:
		return King
	}
	return NoPiece
}

// GivesCheck reports whether m leaves the opponent in check, computed
// by applying the move and inspecting the resulting position.
func (p *Position) GivesCheck(m Move) (bool, error) {
	undo, err := p.Apply(m)
	if err != nil {
		return false, err
	}
	check := p.InCheck()
	undo()
	return check, nil
}

// CastlingRights reports the four castling rights in FEN order:
// White king-side, White queen-side, Black king-side, Black queen-side.
func (p *Position) CastlingRights() (wk, wq, bk, bq bool) {
	fields := strings.Fields(p.board.ToFen())
	if len(fields) < 3 {
		return
	}
	rights := fields[2]
	return strings.Contains(rights, "K"), strings.Contains(rights, "Q"),
		strings.Contains(rights, "k"), strings.Contains(rights, "q")
}

// EnPassantTarget returns the en-passant target square recorded after
// a double pawn push.
func (p *Position) EnPassantTarget() (Square, bool) {
	fields := strings.Fields(p.board.ToFen())
	if len(fields) < 4 || fields[3] == "-" {
		return 0, false
	}
	sq, err := ParseSquare(fields[3])
	if err != nil {
		return 0, false
	}
	return sq, true
}

// MoveFromUCI resolves UCI text against the position's legal moves.
func (p *Position) MoveFromUCI(uci string) (Move, error) {
	for _, m := range p.LegalMoves() {
		if m.UCI() == uci {
			return m, nil
		}
	}
	return 0, fmt.Errorf("no legal move %q in %s", uci, p.FEN())
}

func validateFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("fen %q: want 6 fields, got %d", fen, len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("fen %q: want 8 ranks, got %d", fen, len(ranks))
	}
	var whiteKings, blackKings int
	for i, rank := range ranks {
		files := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				files += int(r - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", r):
				files++
				if r == 'K' {
					whiteKings++
				}
				if r == 'k' {
					blackKings++
				}
			default:
				return fmt.Errorf("fen %q: bad piece %q in rank %d", fen, r, 8-i)
			}
		}
		if files != 8 {
			return fmt.Errorf("fen %q: rank %d covers %d files", fen, 8-i, files)
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return fmt.Errorf("fen %q: want one king per side, got %d white / %d black", fen, whiteKings, blackKings)
	}
	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}
	if fields[2] != "-" {
		for _, r := range fields[2] {
			if !strings.ContainsRune("KQkq", r) {
				return fmt.Errorf("fen %q: bad castling rights %q", fen, fields[2])
			}
		}
	}
	if fields[3] != "-" {
		if _, err := ParseSquare(fields[3]); err != nil {
			return fmt.Errorf("fen %q: bad en-passant square %q", fen, fields[3])
		}
	}
	for _, i := range []int{4, 5} {
		if _, err := strconv.Atoi(fields[i]); err != nil {
			return fmt.Errorf("fen %q: bad move counter %q", fen, fields[i])
		}
	}
	return nil
}
