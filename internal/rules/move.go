package rules

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Piece identifies a piece type independent of color.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Color of a side. White is the maximizing side throughout the engine.
type Color bool

const (
	White Color = true
	Black Color = false
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Square is a board square index 0-63: A1=0, B1=1, ..., H8=63.
type Square uint8

// File returns the square's file, 0-7 (a-h).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the square's rank, 0-7 (1-8).
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// SquareAt returns the square on the given file and rank (both 0-7).
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// ParseSquare parses algebraic notation like "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	return SquareAt(file, rank), nil
}

// Move identifies a transition between two positions. Moves are
// comparable with == and are only meaningful paired with the position
// that generated them.
type Move dragontoothmg.Move

// From returns the origin square.
func (m Move) From() Square { dm := dragontoothmg.Move(m); return Square(dm.From()) }

// To returns the destination square.
func (m Move) To() Square { dm := dragontoothmg.Move(m); return Square(dm.To()) }

// Promotion returns the promotion piece type, or NoPiece.
func (m Move) Promotion() Piece { dm := dragontoothmg.Move(m); return Piece(dm.Promote()) }

// UCI renders the move in UCI notation (e2e4, e7e8q).
func (m Move) UCI() string {
	s := m.From().String() + m.To().String()
	switch m.Promotion() {
	case Queen:
		s += "q"
	case Rook:
		s += "r"
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	}
	return s
}

func (m Move) String() string { return m.UCI() }
