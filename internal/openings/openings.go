// Package openings loads opening-line suites for the sparring
// harness. A suite is a TSV file of "name<TAB>moves" rows where the
// moves are SAN text, optionally with move numbers ("1. e4 e5 2.
// Nf3").
package openings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/freeeve/pgn/v3"
)

// ErrNoLines is returned when a suite contains no playable rows.
var ErrNoLines = errors.New("no opening lines")

// Line is one opening, replayed to the position its moves reach.
type Line struct {
	Name  string
	FEN   string
	Plies int
}

// moveNumberRegex matches move numbers like "1." or "12..."
var moveNumberRegex = regexp.MustCompile(`\d+\.+\s*`)

// Load reads a suite file.
func Load(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return lines, nil
}

// LoadReader parses suite rows from r. Blank rows, comment rows
// starting with '#', and rows whose moves fail to replay are skipped;
// only an empty result is an error.
func LoadReader(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		parts := strings.SplitN(row, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		fen, plies, err := replay(parts[1])
		if err != nil {
			// Skip rows that do not replay
			continue
		}
		lines = append(lines, Line{Name: name, FEN: fen, Plies: plies})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	return lines, nil
}

// replay applies SAN moves like "1. e4 e5 2. Nf3 Nc6" from the
// starting position and returns the FEN they reach.
func replay(moves string) (string, int, error) {
	cleaned := moveNumberRegex.ReplaceAllString(moves, "")
	pos := pgn.NewStartingPosition()
	plies := 0
	for _, san := range strings.Fields(cleaned) {
		// Skip annotations
		if san == "" || san[0] == '$' || san[0] == '{' {
			continue
		}
		san = strings.TrimSuffix(san, "+")
		san = strings.TrimSuffix(san, "#")

		mv, err := pgn.ParseSAN(pos, san)
		if err != nil {
			return "", 0, fmt.Errorf("parse %q: %w", san, err)
		}
		if err := pgn.ApplyMove(pos, mv); err != nil {
			return "", 0, fmt.Errorf("apply %q: %w", san, err)
		}
		plies++
	}
	if plies == 0 {
		return "", 0, errors.New("no moves")
	}
	return pos.ToFEN(), plies, nil
}
