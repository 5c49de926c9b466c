package board_test

import (
	"testing"

	"chess-core/board"
)

var roundTripFixtures = []string{
	board.FENStartPos,
	kiwipete,
	"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
	"r3k2r/1P4P1/8/8/8/8/1p4p1/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
}

func TestApplyUndoRoundTrip(t *testing.T) {
	for _, fen := range roundTripFixtures {
		b := mustFEN(t, fen)
		before := *b
		hash := b.Hash()
		for _, m := range b.GenerateMoves(b.SideToMove()).Moves() {
			b.Apply(m)
			if err := b.Validate(); err != nil {
				t.Fatalf("%s: after %s: %v", fen, m, err)
			}
			if b.SideToMove() == before.SideToMove() {
				t.Fatalf("%s: %s did not flip the side to move", fen, m)
			}
			b.Undo(m)
			if *b != before {
				t.Fatalf("%s: state differs after undo of %s: got %s", fen, m, b.FEN())
			}
			if b.Hash() != hash {
				t.Fatalf("%s: hash differs after undo of %s", fen, m)
			}
		}
	}
}

func TestApplyUndoTwoPlies(t *testing.T) {
	b := mustFEN(t, kiwipete)
	before := *b
	for _, m := range b.GenerateMoves(board.White).Moves() {
		b.Apply(m)
		mid := *b
		for _, r := range b.GenerateMoves(board.Black).Moves() {
			b.Apply(r)
			b.Undo(r)
			if *b != mid {
				t.Fatalf("reply %s after %s did not round-trip", r, m)
			}
		}
		b.Undo(m)
	}
	if *b != before {
		t.Fatalf("kiwipete changed after two-ply walk")
	}
}

func TestCastlingMovesRookAndSetsFlags(t *testing.T) {
	b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err := b.ParseMove("e1g1")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsCastle() || !m.KingFirstMove() || !m.RookFirstMove() {
		t.Fatalf("e1g1 decoded as %+v", m.Decode())
	}
	b.Apply(m)
	if b.PieceAt(board.F1) != board.WhiteRook || b.PieceAt(board.H1) != board.NoPiece {
		t.Fatalf("rook not relocated: %s", b.FEN())
	}
	if !b.HasCastled(board.White) || !b.KingMoved(board.White) || !b.RookMoved(board.H1) {
		t.Fatalf("flags not set after castling")
	}
	if b.RookMoved(board.A1) {
		t.Fatalf("queen rook flag touched by kingside castling")
	}
	b.Undo(m)
	if b.HasCastled(board.White) || b.KingMoved(board.White) || b.RookMoved(board.H1) {
		t.Fatalf("flags not restored after undo")
	}
}

func TestUndoKeepsEarlierFirstMoveFlags(t *testing.T) {
	b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, b, "h1h2", "a8a7")
	m, err := b.ParseMove("h2h1")
	if err != nil {
		t.Fatal(err)
	}
	if m.RookFirstMove() {
		t.Fatalf("second rook move flagged as first")
	}
	b.Apply(m)
	b.Undo(m)
	if !b.RookMoved(board.H1) {
		t.Fatalf("undo of a later rook move cleared the first-move flag")
	}
}

func TestPromotionUndoRestoresPawn(t *testing.T) {
	b := mustFEN(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := *b
	m, err := b.ParseMove("a7b8n")
	if err != nil {
		t.Fatal(err)
	}
	if m.Captured() != board.Knight || m.Promotion() != board.Knight {
		t.Fatalf("a7b8n decoded as %+v", m.Decode())
	}
	b.Apply(m)
	if b.PieceAt(board.B8) != board.WhiteKnight {
		t.Fatalf("promoted piece missing: %s", b.FEN())
	}
	b.Undo(m)
	if *b != before {
		t.Fatalf("promotion capture did not round-trip: %s", b.FEN())
	}
}

func TestMoveEncodingRoundTrip(t *testing.T) {
	for _, fen := range roundTripFixtures {
		b := mustFEN(t, fen)
		for _, m := range b.GenerateMoves(b.SideToMove()).Moves() {
			if got := board.Encode(m.Decode()); got != m {
				t.Fatalf("%s: Encode(Decode(%s)) = %#x want %#x", fen, m, uint32(got), uint32(m))
			}
		}
	}
}

func TestMoveCarriesPreviousDoubleStep(t *testing.T) {
	b := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	m, err := b.ParseMove("e1d1")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Decode().PrevDoubleStep; got != board.D5 {
		t.Fatalf("PrevDoubleStep = %s want d5", got)
	}
	b.Apply(m)
	if b.DoubleStep() != board.NoSquare {
		t.Fatalf("double step not cleared by a king move")
	}
	b.Undo(m)
	if b.DoubleStep() != board.D5 {
		t.Fatalf("double step = %s after undo want d5", b.DoubleStep())
	}
}
