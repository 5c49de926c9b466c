package board

// Precomputed leaper tables.
var (
	knightMoves [64]uint64
	kingMoves   [64]uint64
	pawnAttacks [2][64]uint64 // squares attacked by a pawn of the given color standing on sq
)

func init() {
	for sq := Square(0); sq < 64; sq++ {
		b := bb(sq)

		knightMoves[sq] = (b<<17)&notFileA | (b<<15)&notFileH |
			(b<<10)&notFileAB | (b<<6)&notFileGH |
			(b>>17)&notFileH | (b>>15)&notFileA |
			(b>>10)&notFileGH | (b>>6)&notFileAB

		kingMoves[sq] = b<<8 | b>>8 |
			(b<<1|b<<9|b>>7)&notFileA |
			(b>>1|b>>9|b<<7)&notFileH

		pawnAttacks[White][sq] = (b<<7)&notFileH | (b<<9)&notFileA
		pawnAttacks[Black][sq] = (b>>9)&notFileH | (b>>7)&notFileA
	}
}

var (
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// rayAttacks casts rays from sq in the given directions, stopping at and
// including the first blocker in occ.
func rayAttacks(sq Square, occ uint64, dirs *[4][2]int) uint64 {
	var attacks uint64
	f0, r0 := sq.File(), sq.Rank()
	for _, d := range dirs {
		for f, r := f0+d[0], r0+d[1]; f >= 0 && f < 8 && r >= 0 && r < 8; f, r = f+d[0], r+d[1] {
			s := bb(Square(r*8 + f))
			attacks |= s
			if occ&s != 0 {
				break
			}
		}
	}
	return attacks
}

func rookRays(sq Square, occ uint64) uint64   { return rayAttacks(sq, occ, &rookDirs) }
func bishopRays(sq Square, occ uint64) uint64 { return rayAttacks(sq, occ, &bishopDirs) }

// KnightAttacks returns the knight targets from sq.
func KnightAttacks(sq Square) uint64 { return knightMoves[sq] }

// KingAttacks returns the king targets from sq.
func KingAttacks(sq Square) uint64 { return kingMoves[sq] }

// PawnAttacks returns the squares a pawn of color c attacks from sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// IsSquareAttacked reports whether any piece of color by attacks sq in the
// current occupancy.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	mustValid(sq)
	p := &b.pieces[by]
	if pawnAttacks[by.Other()][sq]&p[Pawn] != 0 {
		return true
	}
	if knightMoves[sq]&p[Knight] != 0 {
		return true
	}
	if kingMoves[sq]&p[King] != 0 {
		return true
	}
	if BishopAttacks(sq, b.all)&(p[Bishop]|p[Queen]) != 0 {
		return true
	}
	return RookAttacks(sq, b.all)&(p[Rook]|p[Queen]) != 0
}

// AttackersOf returns every piece of color by attacking sq.
func (b *Board) AttackersOf(sq Square, by Color) uint64 {
	mustValid(sq)
	p := &b.pieces[by]
	return pawnAttacks[by.Other()][sq]&p[Pawn] |
		knightMoves[sq]&p[Knight] |
		kingMoves[sq]&p[King] |
		BishopAttacks(sq, b.all)&(p[Bishop]|p[Queen]) |
		RookAttacks(sq, b.all)&(p[Rook]|p[Queen])
}

// IsInCheck reports whether the king of color c is attacked.
func (b *Board) IsInCheck(c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}
