package engine

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chess-core/board"
)

const (
	// Ra8 mates.
	backRankMate = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	// Black to move and already mated.
	matedFEN = "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1"
	// Black to move, no legal moves, not in check.
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func mustFEN(t testing.TB, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func mustMove(t testing.TB, b *board.Board, uci string) board.Move {
	t.Helper()
	m, err := b.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.MoveTime = 200 * time.Millisecond
	opts.MaxDepth = 3
	opts.TTSizeMB = 1
	opts.Logger = zerolog.Nop()
	return opts
}
