package board

import "math/bits"

const (
	fileA uint64 = 0x0101010101010101
	fileH uint64 = fileA << 7
	rank1 uint64 = 0xFF
	rank2 uint64 = rank1 << 8
	rank7 uint64 = rank1 << 48
	rank8 uint64 = rank1 << 56

	notFileA  uint64 = ^fileA
	notFileH  uint64 = ^fileH
	notFileAB uint64 = ^(fileA | fileA<<1)
	notFileGH uint64 = ^(fileH | fileH>>1)
)

// bb returns the single-bit board for sq.
func bb(sq Square) uint64 { return uint64(1) << uint(sq) }

// popLSB clears and returns the lowest set square.
func popLSB(b *uint64) Square {
	sq := Square(bits.TrailingZeros64(*b))
	*b &= *b - 1
	return sq
}

func lsb(b uint64) Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(b))
}

// FileMask returns the bitboard for a file index 0..7.
func FileMask(file int) uint64 { return fileA << uint(file) }

// RankMask returns the bitboard for a rank index 0..7.
func RankMask(rank int) uint64 { return rank1 << uint(8*rank) }
