package board_test

import (
	"errors"
	"testing"

	"chess-core/board"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		kiwipete,
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 17",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Fatalf("FEN round trip: got %q want %q", got, fen)
		}
	}
}

func TestFENAfterDoubleStep(t *testing.T) {
	b := board.StartPosition()
	play(t, b, "e2e4")
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := b.FEN(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	play(t, b, "e7e5")
	if b.FullmoveNumber() != 2 {
		t.Fatalf("fullmove number = %d want 2", b.FullmoveNumber())
	}
}

func TestParseFENRejectsMalformedInput(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1",
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}
	for _, fen := range bad {
		if _, err := board.ParseFEN(fen); !errors.Is(err, board.ErrInvalidFEN) {
			t.Fatalf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestParseFENCastlingFlags(t *testing.T) {
	b := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
	if !b.CanCastle(board.White, true) || b.CanCastle(board.White, false) {
		t.Fatalf("white rights wrong")
	}
	if b.CanCastle(board.Black, true) || !b.CanCastle(board.Black, false) {
		t.Fatalf("black rights wrong")
	}
	if !b.RookMoved(board.A1) || b.RookMoved(board.H1) {
		t.Fatalf("rook flags do not mirror castling field")
	}
}
