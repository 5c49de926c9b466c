// Package notation renders engine moves for people.
package notation

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/samber/lo"

	"chess-core/board"
)

// UCI renders a line in coordinate notation.
func UCI(line []board.Move) []string {
	return lo.Map(line, func(m board.Move, _ int) string { return m.String() })
}

// SAN renders a line played from fen in standard algebraic notation.
func SAN(fen string, line []board.Move) ([]string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	out := make([]string, 0, len(line))
	for i, m := range line {
		cm := findMove(pos, m)
		if cm == nil {
			return out, fmt.Errorf("move %d %s: %w", i+1, m, board.ErrIllegalMove)
		}
		out = append(out, chess.AlgebraicNotation{}.Encode(pos, cm))
		next := pos.Update(cm)
		if next == nil {
			return out, fmt.Errorf("move %d %s: %w", i+1, m, board.ErrIllegalMove)
		}
		pos = next
	}
	return out, nil
}

// findMove returns the legal move of pos matching m. Decoding the
// coordinate string alone leaves castling untagged.
func findMove(pos *chess.Position, m board.Move) *chess.Move {
	want := m.String()
	for _, cm := range pos.ValidMoves() {
		if (chess.UCINotation{}).Encode(pos, &cm) == want {
			return &cm
		}
	}
	return nil
}

// MoveText numbers a SAN line the way scoresheets do, starting at the given
// full move with the given side to move.
func MoveText(san []string, fullmove int, side board.Color) string {
	tokens := lo.Map(san, func(s string, i int) string {
		ply := int(side) + i
		n := fullmove + ply/2
		switch {
		case ply%2 == 0:
			return fmt.Sprintf("%d. %s", n, s)
		case i == 0:
			return fmt.Sprintf("%d... %s", n, s)
		}
		return s
	})
	return strings.Join(tokens, " ")
}
