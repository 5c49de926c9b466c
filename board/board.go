package board

import (
	"errors"
	"fmt"
	"math/bits"
)

// Indexes into rookMoved, keyed by the rook's original square.
const (
	whiteQueenRook = iota // a1
	whiteKingRook         // h1
	blackQueenRook        // a8
	blackKingRook         // h8
)

var rookHome = [4]Square{A1, H1, A8, H8}
var kingHome = [2]Square{E1, E8}

// Board is the canonical mutable position. It holds only fixed-size arrays,
// so a plain value copy is an independent clone.
type Board struct {
	// Piece bitboards indexed by [color][piece type]; index 0 is unused.
	pieces [2][7]uint64

	// Aggregates, always the OR of the piece boards above.
	occupancy [2]uint64
	all       uint64

	sideToMove Color

	// First-move flags. Together they are the only record of castling rights.
	rookMoved [4]bool
	kingMoved [2]bool

	// Set once a side has castled. Used by evaluation only.
	castled [2]bool

	// Square of the pawn that made the last two-rank push, or NoSquare.
	doubleStep Square

	fullmoveNumber int
}

// StartPosition returns a board set to the initial position.
func StartPosition() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// DoubleStep returns the square of the last double-stepped pawn or NoSquare.
func (b *Board) DoubleStep() Square { return b.doubleStep }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

func (b *Board) KingMoved(c Color) bool  { return b.kingMoved[c] }
func (b *Board) HasCastled(c Color) bool { return b.castled[c] }

// RookMoved reports the first-move flag of the rook that started on home
// (a1, h1, a8 or h8).
func (b *Board) RookMoved(home Square) bool {
	for i, sq := range rookHome {
		if sq == home {
			return b.rookMoved[i]
		}
	}
	panic(fmt.Sprintf("board: %s is not a rook home square", home))
}

// Bitboard returns the board of one piece kind.
func (b *Board) Bitboard(c Color, pt PieceType) uint64 { return b.pieces[c][pt] }

// Occupancy returns every square held by c.
func (b *Board) Occupancy(c Color) uint64 { return b.occupancy[c] }

// Occupied returns every occupied square.
func (b *Board) Occupied() uint64 { return b.all }

// KingSquare returns the square of c's king, or NoSquare if there is none.
func (b *Board) KingSquare(c Color) Square { return lsb(b.pieces[c][King]) }

// PieceAt returns the piece on sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece {
	mustValid(sq)
	s := bb(sq)
	if b.all&s == 0 {
		return NoPiece
	}
	c := White
	if b.occupancy[Black]&s != 0 {
		c = Black
	}
	return MakePiece(c, b.pieceTypeAt(c, sq))
}

func (b *Board) pieceTypeAt(c Color, sq Square) PieceType {
	s := bb(sq)
	for pt := Pawn; pt <= King; pt++ {
		if b.pieces[c][pt]&s != 0 {
			return pt
		}
	}
	return NoPieceType
}

// castleRight reports whether the right tracked by rookMoved[i] is still held.
func (b *Board) castleRight(i int) bool {
	c := Color(i / 2)
	return !b.kingMoved[c] && !b.rookMoved[i] &&
		b.pieces[c][King]&bb(kingHome[c]) != 0 &&
		b.pieces[c][Rook]&bb(rookHome[i]) != 0
}

// CanCastle reports whether c still holds the king-side or queen-side right.
// It says nothing about whether castling is legal right now.
func (b *Board) CanCastle(c Color, kingSide bool) bool {
	i := int(c) * 2
	if kingSide {
		i++
	}
	return b.castleRight(i)
}

func (b *Board) put(c Color, pt PieceType, sq Square) {
	b.pieces[c][pt] |= bb(sq)
}

func (b *Board) remove(c Color, pt PieceType, sq Square) {
	b.pieces[c][pt] &^= bb(sq)
}

// syncAggregates recomputes the occupancy boards from the piece boards.
func (b *Board) syncAggregates() {
	for c := White; c <= Black; c++ {
		var occ uint64
		for pt := Pawn; pt <= King; pt++ {
			occ |= b.pieces[c][pt]
		}
		b.occupancy[c] = occ
	}
	b.all = b.occupancy[White] | b.occupancy[Black]
}

// Validate checks the structural invariants of the bitboard set.
func (b *Board) Validate() error {
	var seen uint64
	for c := White; c <= Black; c++ {
		var occ uint64
		for pt := Pawn; pt <= King; pt++ {
			p := b.pieces[c][pt]
			if seen&p != 0 {
				return fmt.Errorf("overlapping piece boards at %s %s", c, pt)
			}
			seen |= p
			occ |= p
		}
		if occ != b.occupancy[c] {
			return fmt.Errorf("%s occupancy out of sync", c)
		}
		if n := bits.OnesCount64(b.pieces[c][King]); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	if b.pieces[White][0] != 0 || b.pieces[Black][0] != 0 {
		return errors.New("unused piece slot is populated")
	}
	if seen != b.all {
		return errors.New("total occupancy out of sync")
	}
	if (b.pieces[White][Pawn]|b.pieces[Black][Pawn])&(rank1|rank8) != 0 {
		return errors.New("pawn on back rank")
	}
	return nil
}
