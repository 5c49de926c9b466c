package board

// Apply plays m on the board. There is no legality check: m must come from
// GenerateMoves (or be equivalent to such a move) for the current position.
func (b *Board) Apply(m Move) {
	us := m.Color()
	them := us.Other()
	from, to := m.From(), m.To()
	pt := m.Piece()
	mustValid(from)
	mustValid(to)
	if pt == NoPieceType || pt > King {
		panic("board: move carries unknown piece type")
	}

	switch m.Special() {
	case SpecialCapture:
		b.remove(them, m.Captured(), to)
	case SpecialEnPassant:
		b.remove(them, Pawn, enPassantVictim(us, to))
	case SpecialCastle:
		cs := castleByKingTarget(us, to)
		b.remove(us, Rook, cs.rook)
		b.put(us, Rook, cs.rookTo)
		b.castled[us] = true
	}

	b.remove(us, pt, from)
	if promo := m.Promotion(); promo != NoPieceType {
		b.put(us, promo, to)
	} else {
		b.put(us, pt, to)
	}

	if m.KingFirstMove() {
		b.kingMoved[us] = true
	}
	if m.RookFirstMove() {
		b.rookMoved[rookIndexFor(m)] = true
	}
	if m.RookTaken() {
		i, _ := rookHomeIndex(to)
		b.rookMoved[i] = true
	}

	if pt == Pawn && (to-from == 16 || from-to == 16) {
		b.doubleStep = to
	} else {
		b.doubleStep = NoSquare
	}

	if us == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = b.sideToMove.Other()
	b.syncAggregates()
}

// Undo reverses Apply(m) using only the bits carried by m.
func (b *Board) Undo(m Move) {
	us := m.Color()
	them := us.Other()
	from, to := m.From(), m.To()
	pt := m.Piece()

	b.sideToMove = b.sideToMove.Other()
	if us == Black {
		b.fullmoveNumber--
	}

	if promo := m.Promotion(); promo != NoPieceType {
		b.remove(us, promo, to)
	} else {
		b.remove(us, pt, to)
	}
	b.put(us, pt, from)

	switch m.Special() {
	case SpecialCapture:
		b.put(them, m.Captured(), to)
	case SpecialEnPassant:
		b.put(them, Pawn, enPassantVictim(us, to))
	case SpecialCastle:
		cs := castleByKingTarget(us, to)
		b.remove(us, Rook, cs.rookTo)
		b.put(us, Rook, cs.rook)
		b.castled[us] = false
	}

	if m.KingFirstMove() {
		b.kingMoved[us] = false
	}
	if m.RookFirstMove() {
		b.rookMoved[rookIndexFor(m)] = false
	}
	if m.RookTaken() {
		i, _ := rookHomeIndex(to)
		b.rookMoved[i] = false
	}

	b.doubleStep = m.prevDoubleStep()
	b.syncAggregates()
}

// enPassantVictim returns the square of the pawn removed when a pawn of
// color us captures en passant onto to.
func enPassantVictim(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// rookIndexFor returns the rookMoved slot affected by a first rook move.
func rookIndexFor(m Move) int {
	if m.IsCastle() {
		return castleByKingTarget(m.Color(), m.To()).rookIdx
	}
	if i, ok := rookHomeIndex(m.From()); ok {
		return i
	}
	panic("board: rook first-move flag on non-home square " + m.From().String())
}

// rookHomeIndex returns the rookMoved slot whose home square is sq.
func rookHomeIndex(sq Square) (int, bool) {
	for i, home := range rookHome {
		if home == sq {
			return i, true
		}
	}
	return 0, false
}
