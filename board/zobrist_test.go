package board_test

import (
	"testing"

	"chess-core/board"
)

func TestHashTranspositionStable(t *testing.T) {
	a := board.StartPosition()
	play(t, a, "g1f3", "g8f6", "b1c3", "b8c6")
	b := board.StartPosition()
	play(t, b, "b1c3", "b8c6", "g1f3", "g8f6")
	if a.Hash() != b.Hash() {
		t.Fatalf("knight transposition hashes differ")
	}

	// The last double step differs (d4 vs e4) but no capture is possible.
	c := board.StartPosition()
	play(t, c, "e2e4", "e7e5", "d2d4")
	d := board.StartPosition()
	play(t, d, "d2d4", "e7e5", "e2e4")
	if c.Hash() != d.Hash() {
		t.Fatalf("pawn transposition hashes differ")
	}
	if c.Hash() != mustFEN(t, c.FEN()).Hash() {
		t.Fatalf("hash of FEN reload differs")
	}
}

func TestHashSensitiveToSingleChanges(t *testing.T) {
	base := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1").Hash()
	variants := map[string]string{
		"turn":     "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		"right K":  "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1",
		"right q":  "r3k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1",
		"no piece": "r3k2r/8/8/8/8/8/8/R3K3 w Qkq - 0 1",
		"moved":    "r3k2r/8/8/8/8/8/8/R3K1R1 w Qkq - 0 1",
	}
	for name, fen := range variants {
		if mustFEN(t, fen).Hash() == base {
			t.Fatalf("%s: hash unchanged", name)
		}
	}
}

func TestHashIncludesCapturableEnPassant(t *testing.T) {
	withEP := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	without := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 2")
	if withEP.Hash() == without.Hash() {
		t.Fatalf("capturable en passant does not change the hash")
	}

	// No white pawn can take on e6, so the index is irrelevant.
	idle := mustFEN(t, "4k3/8/8/4p3/8/8/P7/4K3 w - e6 0 2")
	plain := mustFEN(t, "4k3/8/8/4p3/8/8/P7/4K3 w - - 0 2")
	if idle.Hash() != plain.Hash() {
		t.Fatalf("unusable en passant index changed the hash")
	}
}

func TestHashIgnoresCastledFlag(t *testing.T) {
	a := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, a, "e1g1", "e8c8")
	b := mustFEN(t, "2kr3r/8/8/8/8/8/8/R4RK1 w - - 0 2")
	if a.Hash() != b.Hash() {
		t.Fatalf("castled position hash differs from FEN equivalent")
	}
}
