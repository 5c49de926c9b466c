package engine

import (
	"math/bits"

	"chess-core/board"
)

var pieceValues = [7]int{
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
}

// Game phase weights for interpolation
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

// Piece-square tables, written rank 8 first as seen from White's side.
// White pieces index them with sq^56, Black pieces with sq.
var pst = [7][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Heuristic weights
var (
	CenterPawnBonus     = 15
	PawnShieldBonus     = 12
	CastledBonus        = 25
	OpenKingFilePenalty = 30
	BishopPairBonus     = 30
)

var centerSquares = uint64(1)<<board.D4 | uint64(1)<<board.E4 | uint64(1)<<board.D5 | uint64(1)<<board.E5

// GetPiecePhase returns the non-pawn material phase, TotalPhase at the
// start and 0 with only kings and pawns left.
func GetPiecePhase(b *board.Board) int {
	phase := 0
	for c := board.White; c <= board.Black; c++ {
		phase += bits.OnesCount64(b.Bitboard(c, board.Knight)) * KnightPhase
		phase += bits.OnesCount64(b.Bitboard(c, board.Bishop)) * BishopPhase
		phase += bits.OnesCount64(b.Bitboard(c, board.Rook)) * RookPhase
		phase += bits.OnesCount64(b.Bitboard(c, board.Queen)) * QueenPhase
	}
	return min(phase, TotalPhase)
}

func pstIndex(c board.Color, sq board.Square) int {
	if c == board.White {
		return int(sq) ^ 56
	}
	return int(sq)
}

// Evaluation returns the static score of b from the side to move's view.
func Evaluation(b *board.Board) int {
	score := evaluateWhite(b)
	if b.SideToMove() == board.Black {
		return -score
	}
	return score
}

func evaluateWhite(b *board.Board) int {
	phase := GetPiecePhase(b)
	var score [2]int
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bbs := b.Bitboard(c, pt); bbs != 0; bbs &= bbs - 1 {
				sq := board.Square(bits.TrailingZeros64(bbs))
				idx := pstIndex(c, sq)
				score[c] += pieceValues[pt]
				if pt == board.King {
					score[c] += (pst[board.King][idx]*phase + kingEndgamePST[idx]*(TotalPhase-phase)) / TotalPhase
				} else {
					score[c] += pst[pt][idx]
				}
			}
		}
		if bits.OnesCount64(b.Bitboard(c, board.Bishop)) >= 2 {
			score[c] += BishopPairBonus
		}
		score[c] += bits.OnesCount64(b.Bitboard(c, board.Pawn)&centerSquares) * CenterPawnBonus
		score[c] += kingSafety(b, c) * phase / TotalPhase
	}
	return score[board.White] - score[board.Black]
}

// kingSafety rewards a pawn shield and castling, and penalises a king on a
// file without friendly pawns. It is scaled by phase by the caller.
func kingSafety(b *board.Board, c board.Color) int {
	ksq := b.KingSquare(c)
	if ksq == board.NoSquare {
		return 0
	}
	pawns := b.Bitboard(c, board.Pawn)
	file := ksq.File()

	var files uint64
	for f := max(file-1, 0); f <= min(file+1, 7); f++ {
		files |= board.FileMask(f)
	}
	var ranks uint64
	if c == board.White {
		for r := ksq.Rank() + 1; r <= min(ksq.Rank()+2, 7); r++ {
			ranks |= board.RankMask(r)
		}
	} else {
		for r := ksq.Rank() - 1; r >= max(ksq.Rank()-2, 0); r-- {
			ranks |= board.RankMask(r)
		}
	}

	safety := bits.OnesCount64(pawns&files&ranks) * PawnShieldBonus
	if b.HasCastled(c) {
		safety += CastledBonus
	}
	if pawns&board.FileMask(file) == 0 {
		safety -= OpenKingFilePenalty
	}
	return safety
}
