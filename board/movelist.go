package board

// MaxMoves is the largest number of legal moves in any reachable position.
const MaxMoves = 218

// MoveList is an ordered, bounded sequence of moves.
type MoveList struct {
	moves []Move
}

// NewMoveList returns an empty list sized for a typical middlegame.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 48)}
}

// Add appends m. Exceeding MaxMoves is a programming error.
func (l *MoveList) Add(m Move) {
	if len(l.moves) >= MaxMoves {
		panic("board: move list overflow")
	}
	l.moves = append(l.moves, m)
}

func (l *MoveList) Len() int { return len(l.moves) }
func (l *MoveList) At(i int) Move { return l.moves[i] }
func (l *MoveList) Swap(i, j int) { l.moves[i], l.moves[j] = l.moves[j], l.moves[i] }
func (l *MoveList) Reset() { l.moves = l.moves[:0] }
func (l *MoveList) Moves() []Move { return l.moves }
func (l *MoveList) Empty() bool { return len(l.moves) == 0 }

// Contains reports whether m is in the list.
func (l *MoveList) Contains(m Move) bool {
	for _, x := range l.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Find returns the unique move matching from/to/promotion and how many
// candidates matched.
func (l *MoveList) Find(from, to Square, promo PieceType) (Move, int) {
	found, n := NoMove, 0
	for _, m := range l.moves {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			found = m
			n++
		}
	}
	return found, n
}
