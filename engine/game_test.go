package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chess-core/board"
)

func newIdleGame(t *testing.T) (*Game, *Worker) {
	t.Helper()
	w := NewWorker(testOptions(), NewTransTable(1), nil)
	return NewGame(w, zerolog.Nop()), w
}

func TestPlayNextNotReadyWithoutLine(t *testing.T) {
	g, _ := newIdleGame(t)
	if _, err := g.PlayNext(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("PlayNext: %v want ErrNotReady", err)
	}
}

func TestPlayNextDrainsQueuedLine(t *testing.T) {
	g, w := newIdleGame(t)
	b := board.StartPosition()
	e4 := mustMove(t, b, "e2e4")
	b.Apply(e4)
	e5 := mustMove(t, b, "e7e5")
	w.publish(&Line{Root: board.StartPosition().Hash(), Moves: []board.Move{e4, e5}, Score: 30, Depth: 2})

	for _, want := range []string{"e2e4", "e7e5"} {
		m, err := g.PlayNext()
		if err != nil {
			t.Fatalf("PlayNext: %v", err)
		}
		if m.String() != want {
			t.Fatalf("played %s want %s", m, want)
		}
		if l := w.Line(); l.Root != g.Position().Hash() {
			t.Fatalf("queued line not re-rooted after %s", m)
		}
	}

	if _, err := g.PlayNext(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("empty queue: %v want ErrNotReady", err)
	}
	if got := len(g.History()); got != 2 {
		t.Fatalf("history has %d moves", got)
	}
}

func TestPlayNextRejectsStaleLine(t *testing.T) {
	g, w := newIdleGame(t)
	b := board.StartPosition()
	w.publish(&Line{Root: b.Hash(), Moves: []board.Move{mustMove(t, b, "d2d4")}})

	if _, err := g.RequestMove(board.E2, board.E4, board.NoPieceType); err != nil {
		t.Fatalf("RequestMove: %v", err)
	}
	if _, err := g.PlayNext(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("stale line: %v want ErrNotReady", err)
	}
}

func TestRequestMoveIllegalLeavesGameUnchanged(t *testing.T) {
	g, _ := newIdleGame(t)
	before := g.FEN()
	_, err := g.RequestMove(board.E2, board.E5, board.NoPieceType)
	if !errors.Is(err, board.ErrIllegalMove) {
		t.Fatalf("RequestMove: %v want ErrIllegalMove", err)
	}
	if g.FEN() != before || len(g.History()) != 0 {
		t.Fatalf("illegal request changed the game")
	}
}

func TestGameOverIsDistinctFromNotReady(t *testing.T) {
	g, _ := newIdleGame(t)
	if err := g.SetPosition(matedFEN); err != nil {
		t.Fatal(err)
	}
	if st := g.State(); st != board.Checkmate {
		t.Fatalf("state %s want checkmate", st)
	}
	if _, err := g.PlayNext(); !errors.Is(err, ErrGameOver) || errors.Is(err, ErrNotReady) {
		t.Fatalf("PlayNext: %v want ErrGameOver", err)
	}
	if _, err := g.RequestMove(board.G8, board.H8, board.NoPieceType); !errors.Is(err, ErrGameOver) {
		t.Fatalf("RequestMove: %v want ErrGameOver", err)
	}
}

func TestSetPositionRejectsBadFEN(t *testing.T) {
	g, _ := newIdleGame(t)
	before := g.FEN()
	if err := g.SetPosition("not a fen"); !errors.Is(err, board.ErrInvalidFEN) {
		t.Fatalf("SetPosition: %v want ErrInvalidFEN", err)
	}
	if g.FEN() != before {
		t.Fatalf("bad FEN changed the position")
	}
}

func TestThreefoldRepetitionEndsGame(t *testing.T) {
	g, _ := newIdleGame(t)
	shuffle := [][2]board.Square{
		{board.G1, board.F3}, {board.G8, board.F6}, {board.F3, board.G1}, {board.F6, board.G8},
	}
	for round := 0; round < 2; round++ {
		for _, mv := range shuffle {
			if _, err := g.RequestMove(mv[0], mv[1], board.NoPieceType); err != nil {
				t.Fatalf("round %d %s%s: %v", round, mv[0], mv[1], err)
			}
		}
	}
	if st := g.State(); st != board.Repetition {
		t.Fatalf("state %s want repetition", st)
	}
	if _, err := g.RequestMove(board.G1, board.F3, board.NoPieceType); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after repetition: %v", err)
	}
}

func TestPlayUntilOverFinishesMate(t *testing.T) {
	w := NewWorker(testOptions(), NewTransTable(1), nil)
	w.Start(context.Background())
	defer w.Stop()

	g := NewGame(w, zerolog.Nop())
	if err := g.SetPosition(backRankMate); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	st, err := g.PlayUntilOver(ctx, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("PlayUntilOver: %v", err)
	}
	if st != board.Checkmate {
		t.Fatalf("final state %s", st)
	}
	if h := g.History(); len(h) != 1 || h[0].String() != "a1a8" {
		t.Fatalf("history %v", h)
	}
}

func TestPlayUntilOverHonoursContext(t *testing.T) {
	g, _ := newIdleGame(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	st, err := g.PlayUntilOver(ctx, 5*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) || st != board.Ongoing {
		t.Fatalf("PlayUntilOver: %s %v", st, err)
	}
}
