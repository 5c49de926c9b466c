package board

import "math/rand"

// Zobrist keys for pieces, castling rights, en passant and side to move.
var (
	zobristPiece     [2][7][64]uint64
	zobristCastle    [4]uint64 // one key per right, in rookMoved order
	zobristEnPassant [8]uint64 // by file of the capturable pawn
	zobristSide      uint64    // XORed when White is to move
)

func init() {
	// Fixed seed so hashes are stable across runs and persisted books.
	rnd := rand.New(rand.NewSource(0xC0DE))
	for c := 0; c < 2; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rnd.Uint64()
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// Hash computes the position fingerprint from scratch. The en-passant file
// only contributes when the capture is actually available, so positions
// that merely differ in an unusable double-step index hash the same.
func (b *Board) Hash() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bbs := b.pieces[c][pt]; bbs != 0; {
				key ^= zobristPiece[c][pt][popLSB(&bbs)]
			}
		}
	}
	for i := range zobristCastle {
		if b.castleRight(i) {
			key ^= zobristCastle[i]
		}
	}
	if b.sideToMove == White {
		key ^= zobristSide
	}
	if b.enPassantCapturable() {
		key ^= zobristEnPassant[b.doubleStep.File()]
	}
	return key
}
