package engine

import "chess-core/board"

// PrincipalVariation follows the best moves stored in tt from the position in
// b, up to maxLen plies. Every move is checked against the legal moves of its
// position, and the walk stops at the first miss or repeated position. b is
// left unchanged.
func PrincipalVariation(b *board.Board, tt *TransTable, maxLen int) []board.Move {
	var pv []board.Move
	seen := make(map[uint64]struct{}, maxLen)
	legal := board.NewMoveList()

	for len(pv) < maxLen {
		hash := b.Hash()
		if _, ok := seen[hash]; ok {
			break
		}
		seen[hash] = struct{}{}

		e, ok := tt.Probe(hash)
		if !ok || e.Move == board.NoMove {
			break
		}
		b.GenerateMovesInto(b.SideToMove(), legal)
		m, n := legal.Find(e.Move.From(), e.Move.To(), e.Move.Promotion())
		if n != 1 {
			break
		}
		b.Apply(m)
		pv = append(pv, m)
	}

	for i := len(pv) - 1; i >= 0; i-- {
		b.Undo(pv[i])
	}
	return pv
}
