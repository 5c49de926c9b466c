package board

// Move encodes a chess move in a 32-bit value. Every field undo needs is
// carried inside the move.
type Move uint32

// NoMove is the zero move (a1a1), which is never generated.
const NoMove Move = 0

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift      = 0  // 6 bits
	moveToShift        = 6  // 6 bits
	movePieceShift     = 12 // 3 bits
	moveColorShift     = 15 // 1 bit
	moveSpecialShift   = 16 // 2 bits
	movePromoteShift   = 18 // 3 bits
	moveCapturedShift  = 21 // 3 bits
	moveKingFirstShift = 24 // 1 bit
	moveRookFirstShift = 25 // 1 bit
	movePrevEPShift    = 26 // 5 bits
	moveRookTakenShift = 31 // 1 bit
)

// Special marks the mutually exclusive move kinds.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialCapture
	SpecialCastle
	SpecialEnPassant
)

// MoveInfo is the unpacked form of a Move.
type MoveInfo struct {
	From, To      Square
	Piece         PieceType
	Color         Color
	Special       Special
	Promotion     PieceType
	Captured      PieceType
	KingFirstMove bool
	RookFirstMove bool

	// RookTaken marks a capture of an unmoved rook on its home square.
	RookTaken bool

	// PrevDoubleStep is the double-step pawn square before the move, or NoSquare.
	PrevDoubleStep Square
}

// Encode packs info into a Move.
func Encode(mi MoveInfo) Move {
	mustValid(mi.From)
	mustValid(mi.To)
	m := uint32(mi.From) |
		uint32(mi.To)<<moveToShift |
		uint32(mi.Piece&7)<<movePieceShift |
		uint32(mi.Color&1)<<moveColorShift |
		uint32(mi.Special&3)<<moveSpecialShift |
		uint32(mi.Promotion&7)<<movePromoteShift |
		uint32(mi.Captured&7)<<moveCapturedShift |
		uint32(encodeDoubleStep(mi.PrevDoubleStep))<<movePrevEPShift
	if mi.KingFirstMove {
		m |= 1 << moveKingFirstShift
	}
	if mi.RookFirstMove {
		m |= 1 << moveRookFirstShift
	}
	if mi.RookTaken {
		m |= 1 << moveRookTakenShift
	}
	return Move(m)
}

// Decode unpacks m.
func (m Move) Decode() MoveInfo {
	return MoveInfo{
		From:           m.From(),
		To:             m.To(),
		Piece:          m.Piece(),
		Color:          m.Color(),
		Special:        m.Special(),
		Promotion:      m.Promotion(),
		Captured:       m.Captured(),
		KingFirstMove:  m.KingFirstMove(),
		RookFirstMove:  m.RookFirstMove(),
		RookTaken:      m.RookTaken(),
		PrevDoubleStep: m.prevDoubleStep(),
	}
}

// A double-stepped pawn always stands on rank 4 (white) or rank 5 (black),
// so file plus one bit for the rank is enough. 0 means none.
func encodeDoubleStep(sq Square) uint32 {
	if !sq.Valid() || (sq.Rank() != 3 && sq.Rank() != 4) {
		return 0
	}
	code := uint32(sq.File()) + 1
	if sq.Rank() == 4 {
		code += 8
	}
	return code
}

func decodeDoubleStep(code uint32) Square {
	if code == 0 {
		return NoSquare
	}
	code--
	rank := 3
	if code >= 8 {
		rank = 4
		code -= 8
	}
	return Square(rank*8 + int(code))
}

func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }
func (m Move) Piece() PieceType { return PieceType((uint32(m) >> movePieceShift) & 7) }
func (m Move) Color() Color { return Color((uint32(m) >> moveColorShift) & 1) }
func (m Move) Special() Special { return Special((uint32(m) >> moveSpecialShift) & 3) }
func (m Move) Promotion() PieceType { return PieceType((uint32(m) >> movePromoteShift) & 7) }
func (m Move) Captured() PieceType { return PieceType((uint32(m) >> moveCapturedShift) & 7) }
func (m Move) KingFirstMove() bool { return m&(1<<moveKingFirstShift) != 0 }
func (m Move) RookFirstMove() bool { return m&(1<<moveRookFirstShift) != 0 }
func (m Move) RookTaken() bool { return m&(1<<moveRookTakenShift) != 0 }

func (m Move) prevDoubleStep() Square {
	return decodeDoubleStep((uint32(m) >> movePrevEPShift) & 0x1F)
}

// IsCapture reports captures including en passant.
func (m Move) IsCapture() bool {
	s := m.Special()
	return s == SpecialCapture || s == SpecialEnPassant
}

func (m Move) IsCastle() bool { return m.Special() == SpecialCastle }

// SameAction reports whether two moves describe the same from/to/promotion
// request, ignoring the bookkeeping bits.
func (m Move) SameAction(o Move) bool {
	return m.From() == o.From() && m.To() == o.To() && m.Promotion() == o.Promotion()
}

// String produces coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPieceType {
		s += p.String()
	}
	return s
}
