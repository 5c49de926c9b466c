package board

// castleRule describes one castling option.
type castleRule struct {
	rookIdx       int
	king, kingTo  Square
	rook, rookTo  Square
	mustBeEmpty   uint64
	mustNotAttack [3]Square // king origin, transit and landing squares
}

var castles = [2][2]castleRule{
	White: {
		{whiteKingRook, E1, G1, H1, F1, bb(F1) | bb(G1), [3]Square{E1, F1, G1}},
		{whiteQueenRook, E1, C1, A1, D1, bb(B1) | bb(C1) | bb(D1), [3]Square{E1, D1, C1}},
	},
	Black: {
		{blackKingRook, E8, G8, H8, F8, bb(F8) | bb(G8), [3]Square{E8, F8, G8}},
		{blackQueenRook, E8, C8, A8, D8, bb(B8) | bb(C8) | bb(D8), [3]Square{E8, D8, C8}},
	},
}

// castleByKingTarget returns the castling option whose king lands on to.
func castleByKingTarget(c Color, to Square) *castleRule {
	for i := range castles[c] {
		if castles[c][i].kingTo == to {
			return &castles[c][i]
		}
	}
	panic("board: castle move with unknown king target " + to.String())
}

var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateMoves returns every legal move for side.
func (b *Board) GenerateMoves(side Color) *MoveList {
	l := NewMoveList()
	b.GenerateMovesInto(side, l)
	return l
}

// GenerateMovesInto resets l and fills it with the legal moves for side.
// Candidates are filtered by applying each one and testing the mover's king.
func (b *Board) GenerateMovesInto(side Color, l *MoveList) {
	l.Reset()
	var buf [256]Move
	for _, m := range b.pseudoMoves(side, buf[:0]) {
		b.Apply(m)
		legal := !b.IsInCheck(side)
		b.Undo(m)
		if legal {
			l.Add(m)
		}
	}
}

// GeneratePseudoMoves returns moves that obey piece movement but may leave
// the mover's king in check.
func (b *Board) GeneratePseudoMoves(side Color) []Move {
	return b.pseudoMoves(side, make([]Move, 0, 64))
}

// HasLegalMoves reports whether side has at least one legal move.
func (b *Board) HasLegalMoves(side Color) bool {
	var buf [256]Move
	for _, m := range b.pseudoMoves(side, buf[:0]) {
		b.Apply(m)
		legal := !b.IsInCheck(side)
		b.Undo(m)
		if legal {
			return true
		}
	}
	return false
}

func (b *Board) newMove(side Color, pt PieceType, from, to Square, special Special, promo, captured PieceType) Move {
	mi := MoveInfo{
		From:           from,
		To:             to,
		Piece:          pt,
		Color:          side,
		Special:        special,
		Promotion:      promo,
		Captured:       captured,
		PrevDoubleStep: b.doubleStep,
	}
	switch pt {
	case King:
		mi.KingFirstMove = !b.kingMoved[side]
		mi.RookFirstMove = special == SpecialCastle
	case Rook:
		for i, home := range rookHome {
			if home == from && Color(i/2) == side && !b.rookMoved[i] {
				mi.RookFirstMove = true
			}
		}
	}
	if captured == Rook {
		if i, ok := rookHomeIndex(to); ok && Color(i/2) == side.Other() && !b.rookMoved[i] {
			mi.RookTaken = true
		}
	}
	return Encode(mi)
}

// addTargets appends one move per set bit of targets, marking captures.
func (b *Board) addTargets(dst []Move, side Color, pt PieceType, from Square, targets uint64) []Move {
	them := side.Other()
	for targets != 0 {
		to := popLSB(&targets)
		if b.occupancy[them]&bb(to) != 0 {
			dst = append(dst, b.newMove(side, pt, from, to, SpecialCapture, NoPieceType, b.pieceTypeAt(them, to)))
		} else {
			dst = append(dst, b.newMove(side, pt, from, to, SpecialNone, NoPieceType, NoPieceType))
		}
	}
	return dst
}

func (b *Board) addPawnMove(dst []Move, side Color, from, to Square, special Special, captured PieceType) []Move {
	if to.Rank() == 0 || to.Rank() == 7 {
		for _, promo := range promotionTypes {
			dst = append(dst, b.newMove(side, Pawn, from, to, special, promo, captured))
		}
		return dst
	}
	return append(dst, b.newMove(side, Pawn, from, to, special, NoPieceType, captured))
}

func (b *Board) pseudoMoves(side Color, dst []Move) []Move {
	them := side.Other()
	own := b.occupancy[side]
	enemy := b.occupancy[them]
	empty := ^b.all
	p := &b.pieces[side]

	// Pawns
	forward, startRank := 8, 1
	if side == Black {
		forward, startRank = -8, 6
	}
	for pawns := p[Pawn]; pawns != 0; {
		from := popLSB(&pawns)
		one := from + Square(forward)
		if one.Valid() && empty&bb(one) != 0 {
			dst = b.addPawnMove(dst, side, from, one, SpecialNone, NoPieceType)
			two := one + Square(forward)
			if from.Rank() == startRank && empty&bb(two) != 0 {
				dst = append(dst, b.newMove(side, Pawn, from, two, SpecialNone, NoPieceType, NoPieceType))
			}
		}
		for caps := pawnAttacks[side][from] & enemy; caps != 0; {
			to := popLSB(&caps)
			dst = b.addPawnMove(dst, side, from, to, SpecialCapture, b.pieceTypeAt(them, to))
		}
	}
	if target := b.enPassantTarget(); target != NoSquare && side == b.sideToMove {
		for capturers := pawnAttacks[them][target] & p[Pawn]; capturers != 0; {
			from := popLSB(&capturers)
			dst = append(dst, b.newMove(side, Pawn, from, target, SpecialEnPassant, NoPieceType, Pawn))
		}
	}

	// Knights
	for knights := p[Knight]; knights != 0; {
		from := popLSB(&knights)
		dst = b.addTargets(dst, side, Knight, from, knightMoves[from]&^own)
	}

	// Sliders
	for bishops := p[Bishop]; bishops != 0; {
		from := popLSB(&bishops)
		dst = b.addTargets(dst, side, Bishop, from, BishopAttacks(from, b.all)&^own)
	}
	for rooks := p[Rook]; rooks != 0; {
		from := popLSB(&rooks)
		dst = b.addTargets(dst, side, Rook, from, RookAttacks(from, b.all)&^own)
	}
	for queens := p[Queen]; queens != 0; {
		from := popLSB(&queens)
		dst = b.addTargets(dst, side, Queen, from, QueenAttacks(from, b.all)&^own)
	}

	// King
	if ksq := b.KingSquare(side); ksq != NoSquare {
		dst = b.addTargets(dst, side, King, ksq, kingMoves[ksq]&^own)
		for i := range castles[side] {
			cs := &castles[side][i]
			if b.castleAllowed(side, cs) {
				dst = append(dst, b.newMove(side, King, cs.king, cs.kingTo, SpecialCastle, NoPieceType, NoPieceType))
			}
		}
	}
	return dst
}

// castleAllowed checks the first-move flags, the path and the attacked
// squares for one castling option.
func (b *Board) castleAllowed(side Color, cs *castleRule) bool {
	if b.kingMoved[side] || b.rookMoved[cs.rookIdx] {
		return false
	}
	if b.pieces[side][King]&bb(cs.king) == 0 || b.pieces[side][Rook]&bb(cs.rook) == 0 {
		return false
	}
	if b.all&cs.mustBeEmpty != 0 {
		return false
	}
	them := side.Other()
	for _, sq := range cs.mustNotAttack {
		if b.IsSquareAttacked(sq, them) {
			return false
		}
	}
	return true
}

// enPassantTarget returns the square behind the last double-stepped pawn,
// or NoSquare.
func (b *Board) enPassantTarget() Square {
	switch {
	case b.doubleStep == NoSquare:
		return NoSquare
	case b.doubleStep.Rank() == 3:
		return b.doubleStep - 8
	default:
		return b.doubleStep + 8
	}
}

// enPassantCapturable reports whether a pawn of the side to move stands
// ready to take the double-stepped pawn.
func (b *Board) enPassantCapturable() bool {
	target := b.enPassantTarget()
	if target == NoSquare {
		return false
	}
	us := b.sideToMove
	return pawnAttacks[us.Other()][target]&b.pieces[us][Pawn] != 0
}
