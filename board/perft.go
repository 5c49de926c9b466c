package board

// Perft counts leaf nodes of the legal move tree to depth.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	lists := make([]MoveList, depth)
	for i := range lists {
		lists[i].moves = make([]Move, 0, 64)
	}
	return perft(b, depth, lists)
}

func perft(b *Board, depth int, lists []MoveList) uint64 {
	l := &lists[depth-1]
	b.GenerateMovesInto(b.sideToMove, l)
	if depth == 1 {
		return uint64(l.Len())
	}
	var nodes uint64
	for i := 0; i < l.Len(); i++ {
		m := l.At(i)
		b.Apply(m)
		nodes += perft(b, depth-1, lists)
		b.Undo(m)
	}
	return nodes
}

// PerftDivide returns the node count below each root move.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	root := b.GenerateMoves(b.sideToMove)
	for _, m := range root.Moves() {
		b.Apply(m)
		out[m] = Perft(b, depth-1)
		b.Undo(m)
	}
	return out
}
