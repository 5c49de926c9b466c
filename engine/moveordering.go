package engine

import "chess-core/board"

type move struct {
	move  board.Move
	score int
}

type moveList struct {
	moves []move
}

// The TT move always sorts first.
const ttMoveScore = 1 << 30

// Most Valuable Victim - Least Valuable Aggressor; breaks ties between
// captures that score the same.
var mvvLva = [7][7]int{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim Knight
	{0, 34, 33, 32, 31, 30, 0}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim Rook
	{0, 54, 53, 52, 51, 50, 0}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},      // victim King
}

// scoreMoves rates every legal move from the mover's point of view. A child
// position already in the TT is rated by its stored score, anything else by
// a one-ply static evaluation. ply is the depth of b below the root.
func (s *Searcher) scoreMoves(b *board.Board, ply int, moves *board.MoveList, ttMove board.Move, ml *moveList) {
	ml.moves = ml.moves[:0]
	for _, m := range moves.Moves() {
		score := ttMoveScore
		if m != ttMove {
			b.Apply(m)
			if e, ok := s.tt.Probe(b.Hash()); ok {
				score = -e.ScoreAt(ply + 1)
			} else {
				score = -Evaluation(b)
			}
			b.Undo(m)
			score = score*64 + mvvLva[m.Captured()][m.Piece()]
		}
		ml.moves = append(ml.moves, move{move: m, score: score})
	}
}

// Ordering the moves one at a time, at index given. Equal scores keep
// generation order.
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := bestIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	moves.moves[currIndex], moves.moves[bestIndex] = moves.moves[bestIndex], moves.moves[currIndex]
}
