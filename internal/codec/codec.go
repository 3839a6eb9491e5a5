// Package codec converts board positions to and from the fixed-shape
// float32 tensor consumed by evaluation networks.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chessmind/engine/internal/rules"
)

// EncodedState layout: 14 planes of 8x8 cells, rank-major within a
// plane, index = (plane*8+rank)*8+file.
// - Planes 0-5: white pawn, knight, bishop, rook, queen, king
// - Planes 6-11: black, same order
// - Plane 12: castling rights; [0][0] white king-side, [0][1] white
//   queen-side, [7][0] black king-side, [7][1] black queen-side
// - Plane 13: [0][0] set when White is to move; the en-passant target
//   square, if any, is set on its own cell (always rank 3 or 6, so it
//   never collides with [0][0])

const (
	// PlaneCount is the number of 8x8 planes in an encoded state.
	PlaneCount = 14
	// StateSize is the flat length of an EncodedState.
	StateSize = PlaneCount * 8 * 8

	whitePlaneBase = 0
	blackPlaneBase = 6
	castlingPlane  = 12
	metaPlane      = 13
)

var (
	// ErrInvalidPosition reports a position that cannot be encoded or a
	// tensor that decodes to an unparseable position.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrShapeMismatch reports an encoded state of the wrong length.
	ErrShapeMismatch = errors.New("encoded state has wrong shape")
	// ErrEmptyBatch reports a batch encode with no positions.
	ErrEmptyBatch = errors.New("empty batch")
)

// EncodedState is a flat 14x8x8 float32 tensor.
type EncodedState []float32

func cellIndex(plane, rank, file int) int {
	return (plane*8+rank)*8 + file
}

func planeOffset(piece rules.Piece) int {
	switch piece {
	case rules.Pawn:
		return 0
	case rules.Knight:
		return 1
	case rules.Bishop:
		return 2
	case rules.Rook:
		return 3
	case rules.Queen:
		return 4
	case rules.King:
		return 5
	}
	return -1
}

// Encode renders p as an EncodedState. It never mutates p and returns
// the same tensor for the same position every time.
func Encode(p *rules.Position) (EncodedState, error) {
	if p == nil {
		return nil, fmt.Errorf("encode: %w: nil position", ErrInvalidPosition)
	}

	st := make(EncodedState, StateSize)
	for sq := rules.Square(0); sq < 64; sq++ {
		piece, color, occupied := p.PieceAt(sq)
		if !occupied {
			continue
		}
		offset := planeOffset(piece)
		if offset < 0 {
			return nil, fmt.Errorf("encode: %w: unknown piece on %s", ErrInvalidPosition, sq)
		}
		plane := whitePlaneBase + offset
		if color == rules.Black {
			plane = blackPlaneBase + offset
		}
		st[cellIndex(plane, int(sq.Rank()), int(sq.File()))] = 1
	}

	wk, wq, bk, bq := p.CastlingRights()
	if wk {
		st[cellIndex(castlingPlane, 0, 0)] = 1
	}
	if wq {
		st[cellIndex(castlingPlane, 0, 1)] = 1
	}
	if bk {
		st[cellIndex(castlingPlane, 7, 0)] = 1
	}
	if bq {
		st[cellIndex(castlingPlane, 7, 1)] = 1
	}

	if p.WhiteToMove() {
		st[cellIndex(metaPlane, 0, 0)] = 1
	}
	if ep, ok := p.EnPassantTarget(); ok {
		st[cellIndex(metaPlane, int(ep.Rank()), int(ep.File()))] = 1
	}

	return st, nil
}

// EncodeBatch encodes each position independently. An empty batch is
// an error; any element failure aborts the whole batch.
func EncodeBatch(ps []*rules.Position) ([]EncodedState, error) {
	if len(ps) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]EncodedState, len(ps))
	for i, p := range ps {
		st, err := Encode(p)
		if err != nil {
			return nil, fmt.Errorf("batch element %d: %w", i, err)
		}
		out[i] = st
	}
	return out, nil
}

var pieceChars = [6]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

// Decode reconstructs a position from an encoded state. Cells count as
// set above 0.5. Halfmove and fullmove counters are not represented in
// the tensor; decoded positions carry "0 1".
func Decode(st EncodedState) (*rules.Position, error) {
	if len(st) != StateSize {
		return nil, fmt.Errorf("decode: %w: got %d values, need %d", ErrShapeMismatch, len(st), StateSize)
	}

	var board [8][8]byte
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			for plane := 0; plane < 12; plane++ {
				if st[cellIndex(plane, rank, file)] <= 0.5 {
					continue
				}
				c := pieceChars[plane%6]
				if plane >= blackPlaneBase {
					c += 'a' - 'A'
				}
				board[rank][file] = c
				break
			}
		}
	}

	var fen strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			c := board[rank][file]
			if c == 0 {
				empty++
				continue
			}
			if empty > 0 {
				fen.WriteByte(byte('0' + empty))
				empty = 0
			}
			fen.WriteByte(c)
		}
		if empty > 0 {
			fen.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			fen.WriteByte('/')
		}
	}

	if st[cellIndex(metaPlane, 0, 0)] > 0.5 {
		fen.WriteString(" w ")
	} else {
		fen.WriteString(" b ")
	}

	castling := ""
	if st[cellIndex(castlingPlane, 0, 0)] > 0.5 {
		castling += "K"
	}
	if st[cellIndex(castlingPlane, 0, 1)] > 0.5 {
		castling += "Q"
	}
	if st[cellIndex(castlingPlane, 7, 0)] > 0.5 {
		castling += "k"
	}
	if st[cellIndex(castlingPlane, 7, 1)] > 0.5 {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	fen.WriteString(castling)

	ep := "-"
	for cell := 1; cell < 64; cell++ {
		if st[metaPlane*64+cell] > 0.5 {
			ep = rules.SquareAt(cell%8, cell/8).String()
			break
		}
	}
	fen.WriteString(" " + ep + " 0 1")

	pos, err := rules.FromFEN(fen.String())
	if err != nil {
		return nil, fmt.Errorf("decode: %w: %v", ErrInvalidPosition, err)
	}
	return pos, nil
}
