package board

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenLetters = [2][7]byte{
	White: {0, 'P', 'N', 'B', 'R', 'Q', 'K'},
	Black: {0, 'p', 'n', 'b', 'r', 'q', 'k'},
}

// pieceFromChar converts a FEN character to a Piece.
func pieceFromChar(ch byte) (Piece, bool) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if fenLetters[c][pt] == ch {
				return MakePiece(c, pt), true
			}
		}
	}
	return NoPiece, false
}

// ParseFEN parses a FEN string into a new Board. The castling field is
// translated into the rook and king first-move flags; the halfmove clock is
// accepted but not tracked.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: want at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}

	b := &Board{doubleStep: NoSquare, fullmoveNumber: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := pieceFromChar(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if file > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			b.put(p.Color(), p.Type(), Square(rank*8+file))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	b.syncAggregates()

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidFEN, fields[1])
	}

	castling := fields[2]
	if castling != "-" {
		for i := 0; i < len(castling); i++ {
			if !strings.ContainsRune("KQkq", rune(castling[i])) {
				return nil, fmt.Errorf("%w: unknown castling flag %q", ErrInvalidFEN, castling[i])
			}
		}
	}
	castleLetters := [4]byte{'Q', 'K', 'q', 'k'}
	for i, letter := range castleLetters {
		c := Color(i / 2)
		b.rookMoved[i] = !strings.ContainsRune(castling, rune(letter)) ||
			b.pieces[c][Rook]&bb(rookHome[i]) == 0
	}
	for c := White; c <= Black; c++ {
		b.kingMoved[c] = b.pieces[c][King]&bb(kingHome[c]) == 0
	}

	if fields[3] != "-" {
		target, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %w", ErrInvalidFEN, err)
		}
		var pawnSq Square
		var owner Color
		switch target.Rank() {
		case 2:
			pawnSq, owner = target+8, White
		case 5:
			pawnSq, owner = target-8, Black
		default:
			return nil, fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, target)
		}
		if owner == b.sideToMove || b.pieces[owner][Pawn]&bb(pawnSq) == 0 {
			return nil, fmt.Errorf("%w: no double-stepped pawn behind %s", ErrInvalidFEN, target)
		}
		b.doubleStep = pawnSq
	}

	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		b.fullmoveNumber = n
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFEN, err)
	}
	return b, nil
}

// FEN renders the board. The halfmove clock is always written as 0.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.PieceAt(Square(rank*8 + file))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenLetters[p.Color()][p.Type()])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castling := ""
	for _, i := range []int{whiteKingRook, whiteQueenRook, blackKingRook, blackQueenRook} {
		if b.castleRight(i) {
			castling += string("QKqk"[i])
		}
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	sb.WriteString(b.enPassantTarget().String())
	fmt.Fprintf(&sb, " 0 %d", b.fullmoveNumber)
	return sb.String()
}
