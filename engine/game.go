package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chess-core/board"
)

var (
	// ErrNotReady means the worker has no line for the live position yet.
	ErrNotReady = errors.New("no move ready")
	// ErrGameOver means the live position admits no further moves.
	ErrGameOver = errors.New("game over")
)

// Game owns the live board. Every change is forwarded to the worker as a new
// snapshot.
type Game struct {
	mu      sync.Mutex
	board   *board.Board
	history []uint64
	moves   []board.Move
	worker  *Worker
	log     zerolog.Logger
}

// NewGame starts from the initial position and submits it to w.
func NewGame(w *Worker, logger zerolog.Logger) *Game {
	g := &Game{board: board.StartPosition(), worker: w, log: logger}
	g.submitLocked()
	return g
}

// SetPosition replaces the live position and clears the move history.
func (g *Game) SetPosition(fen string) error {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board = b
	g.history = g.history[:0]
	g.moves = g.moves[:0]
	g.submitLocked()
	return nil
}

// RequestMove plays the legal move matching from, to and promo. On error the
// position is unchanged.
func (g *Game) RequestMove(from, to board.Square, promo board.PieceType) (board.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st := g.stateLocked(); st.Over() {
		return board.NoMove, fmt.Errorf("%w: %s", ErrGameOver, st)
	}
	m, err := g.board.ResolveMove(from, to, promo)
	if err != nil {
		return board.NoMove, err
	}
	g.applyLocked(m)
	g.submitLocked()
	return m, nil
}

// PlayNext plays the first move of the worker's line for the live position
// and keeps the rest of the line queued.
func (g *Game) PlayNext() (board.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st := g.stateLocked(); st.Over() {
		return board.NoMove, fmt.Errorf("%w: %s", ErrGameOver, st)
	}

	line := g.worker.Line()
	if line.Empty() || line.Root != g.board.Hash() {
		return board.NoMove, ErrNotReady
	}
	next := line.Moves[0]
	m, n := g.board.GenerateMoves(g.board.SideToMove()).Find(next.From(), next.To(), next.Promotion())
	if n != 1 {
		g.log.Warn().Str("move", next.String()).Msg("queued-move-illegal")
		return board.NoMove, ErrNotReady
	}

	g.applyLocked(m)
	g.worker.swapLine(line, line.tail(g.board.Hash()))
	g.submitLocked()
	return m, nil
}

// PlayUntilOver plays one queued move per tick until the game ends or ctx is
// done.
func (g *Game) PlayUntilOver(ctx context.Context, interval time.Duration) (board.GameState, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if st := g.State(); st.Over() {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return g.State(), ctx.Err()
		case <-ticker.C:
		}
		m, err := g.PlayNext()
		switch {
		case err == nil:
			g.log.Info().Str("move", m.String()).Msg("played")
		case errors.Is(err, ErrNotReady), errors.Is(err, ErrGameOver):
		default:
			return g.State(), err
		}
	}
}

// State classifies the live position, including threefold repetition.
func (g *Game) State() board.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() board.GameState {
	st := g.board.Status()
	if st == board.Ongoing {
		if n, _ := repetitionInfo(g.history, g.board.Hash()); n >= 2 {
			return board.Repetition
		}
	}
	return st
}

// Position returns a copy of the live board.
func (g *Game) Position() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.FEN()
}

// History returns the moves played since the last SetPosition.
func (g *Game) History() []board.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.moves)
}

func (g *Game) applyLocked(m board.Move) {
	g.history = append(g.history, g.board.Hash())
	g.moves = append(g.moves, m)
	g.board.Apply(m)
}

func (g *Game) submitLocked() {
	g.worker.Submit(Snapshot{Board: g.board.Clone(), History: slices.Clone(g.history)})
}
