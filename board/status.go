package board

import "math/bits"

// GameState is the game-over classification of a position.
type GameState uint8

const (
	Ongoing GameState = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	Repetition
)

func (s GameState) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case Repetition:
		return "repetition"
	}
	return "unknown"
}

// Over reports whether no further moves are played.
func (s GameState) Over() bool { return s != Ongoing }

// InsufficientMaterial reports positions where neither side can mate: any
// pawn, rook or queen rules it out, otherwise each side may hold at most one
// minor piece.
func (b *Board) InsufficientMaterial() bool {
	w, k := &b.pieces[White], &b.pieces[Black]
	if w[Pawn]|k[Pawn]|w[Rook]|k[Rook]|w[Queen]|k[Queen] != 0 {
		return false
	}
	return bits.OnesCount64(w[Knight]|w[Bishop]) <= 1 &&
		bits.OnesCount64(k[Knight]|k[Bishop]) <= 1
}

// Status classifies the position for the side to move.
func (b *Board) Status() GameState {
	if !b.HasLegalMoves(b.sideToMove) {
		if b.IsInCheck(b.sideToMove) {
			return Checkmate
		}
		return Stalemate
	}
	if b.InsufficientMaterial() {
		return InsufficientMaterial
	}
	return Ongoing
}
