package board_test

import (
	"sort"
	"testing"

	goosemg "github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/dylhunn/dragontoothmg"

	"chess-core/board"
)

var crossCheckFENs = []string{
	board.FENStartPos,
	kiwipete,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

func TestMovesMatchDragontooth(t *testing.T) {
	for _, fen := range crossCheckFENs {
		ours := moveStrings(mustFEN(t, fen).GenerateMoves(mustFEN(t, fen).SideToMove()))

		ref := dragontoothmg.ParseFen(fen)
		var theirs []string
		for _, m := range ref.GenerateLegalMoves() {
			theirs = append(theirs, m.String())
		}
		sort.Strings(theirs)

		if len(ours) != len(theirs) {
			t.Fatalf("%s: %d moves, dragontooth has %d\nours:   %v\ntheirs: %v", fen, len(ours), len(theirs), ours, theirs)
		}
		for i := range ours {
			if ours[i] != theirs[i] {
				t.Fatalf("%s: move %d is %s, dragontooth has %s", fen, i, ours[i], theirs[i])
			}
		}
	}
}

func TestPerftMatchesReferenceGenerators(t *testing.T) {
	for _, fen := range crossCheckFENs {
		ours := board.Perft(mustFEN(t, fen), 3)

		ref := dragontoothmg.ParseFen(fen)
		if theirs := dragontoothPerft(&ref, 3); ours != theirs {
			t.Fatalf("%s: perft(3) %d, dragontooth %d", fen, ours, theirs)
		}

		gb, err := goosemg.ParseFEN(fen)
		if err != nil {
			t.Fatalf("goosemg.ParseFEN(%q): %v", fen, err)
		}
		if theirs := goosemg.Perft(gb, 3); ours != theirs {
			t.Fatalf("%s: perft(3) %d, goosemg %d", fen, ours, theirs)
		}
	}
}
