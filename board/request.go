package board

import (
	"fmt"
	"strings"
)

// ResolveMove maps a from/to request onto exactly one legal move for the
// side to move. A promotion with promo == NoPieceType defaults to a queen.
func (b *Board) ResolveMove(from, to Square, promo PieceType) (Move, error) {
	if !from.Valid() || !to.Valid() {
		return NoMove, fmt.Errorf("%w: %d-%d", ErrInvalidSquare, int(from), int(to))
	}
	switch promo {
	case NoPieceType, Knight, Bishop, Rook, Queen:
	default:
		return NoMove, fmt.Errorf("%w: %s%s: cannot promote to %s", ErrIllegalMove, from, to, promo)
	}

	p := b.PieceAt(from)
	if p == NoPiece || p.Color() != b.sideToMove {
		return NoMove, fmt.Errorf("%w: %s%s: no %s piece on %s", ErrIllegalMove, from, to, b.sideToMove, from)
	}

	legal := b.GenerateMoves(b.sideToMove)
	m, n := legal.Find(from, to, promo)
	if n == 0 && promo == NoPieceType {
		m, n = legal.Find(from, to, Queen)
	}
	switch n {
	case 1:
		return m, nil
	case 0:
		return NoMove, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	default:
		return NoMove, fmt.Errorf("%w: %s%s is ambiguous", ErrIllegalMove, from, to)
	}
}

// ParseMove resolves coordinate notation such as "e2e4" or "e7e8n".
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	promo := NoPieceType
	if len(s) == 5 {
		if promo, err = ParsePromotion(s[4:]); err != nil {
			return NoMove, err
		}
	}
	return b.ResolveMove(from, to, promo)
}

// ParsePromotion maps "q", "r", "b" or "n" (any case) to a piece type. The
// empty string means no promotion.
func ParsePromotion(s string) (PieceType, error) {
	switch strings.ToLower(s) {
	case "":
		return NoPieceType, nil
	case "q":
		return Queen, nil
	case "r":
		return Rook, nil
	case "b":
		return Bishop, nil
	case "n":
		return Knight, nil
	}
	return NoPieceType, fmt.Errorf("%w: unknown promotion piece %q", ErrIllegalMove, s)
}

// Play resolves and applies a from/to request. On error the board is left
// unchanged.
func (b *Board) Play(from, to string, promo PieceType) (Move, error) {
	f, err := ParseSquare(from)
	if err != nil {
		return NoMove, err
	}
	t, err := ParseSquare(to)
	if err != nil {
		return NoMove, err
	}
	m, err := b.ResolveMove(f, t, promo)
	if err != nil {
		return NoMove, err
	}
	b.Apply(m)
	return m, nil
}
