package rules

import (
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Square
		wantErr bool
	}{
		{"a1", "a1", 0, false},
		{"h1", "h1", 7, false},
		{"e4", "e4", 28, false},
		{"a8", "a8", 56, false},
		{"h8", "h8", 63, false},
		{"bad file", "i4", 0, true},
		{"bad rank", "e9", 0, true},
		{"too short", "e", 0, true},
		{"too long", "e44", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSquare(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSquare(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSquare_String_RoundTrip(t *testing.T) {
	for sq := Square(0); sq < 64; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", sq.String(), err)
		}
		if got != sq {
			t.Errorf("round trip failed: %d -> %q -> %d", sq, sq.String(), got)
		}
	}
}

func TestSquare_FileRank(t *testing.T) {
	tests := []struct {
		sq   Square
		file int
		rank int
	}{
		{0, 0, 0},   // a1
		{7, 7, 0},   // h1
		{28, 4, 3},  // e4
		{63, 7, 7},  // h8
	}

	for _, tt := range tests {
		if got := tt.sq.File(); got != tt.file {
			t.Errorf("Square(%d).File() = %d, want %d", tt.sq, got, tt.file)
		}
		if got := tt.sq.Rank(); got != tt.rank {
			t.Errorf("Square(%d).Rank() = %d, want %d", tt.sq, got, tt.rank)
		}
	}
}

func TestMove_UCI(t *testing.T) {
	pos := StartingPosition()
	mv, err := pos.MoveFromUCI("e2e4")
	if err != nil {
		t.Fatalf("MoveFromUCI: %v", err)
	}
	if got := mv.UCI(); got != "e2e4" {
		t.Errorf("UCI() = %q, want %q", got, "e2e4")
	}
	if mv.From().String() != "e2" || mv.To().String() != "e4" {
		t.Errorf("From/To = %s/%s, want e2/e4", mv.From(), mv.To())
	}
	if mv.Promotion() != NoPiece {
		t.Errorf("Promotion() = %v, want NoPiece", mv.Promotion())
	}
}

func TestMove_Promotion(t *testing.T) {
	pos, err := FromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}

	tests := []struct {
		uci   string
		piece Piece
	}{
		{"a7a8q", Queen},
		{"a7a8r", Rook},
		{"a7a8b", Bishop},
		{"a7a8n", Knight},
	}

	for _, tt := range tests {
		t.Run(tt.uci, func(t *testing.T) {
			mv, err := pos.MoveFromUCI(tt.uci)
			if err != nil {
				t.Fatalf("MoveFromUCI(%q): %v", tt.uci, err)
			}
			if got := mv.Promotion(); got != tt.piece {
				t.Errorf("Promotion() = %v, want %v", got, tt.piece)
			}
			if got := mv.UCI(); got != tt.uci {
				t.Errorf("UCI() = %q, want %q", got, tt.uci)
			}
		})
	}
}
