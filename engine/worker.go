package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chess-core/board"
)

// Snapshot is an immutable position handed to the worker. The worker only
// reads Board and never mutates it.
type Snapshot struct {
	Board   *board.Board
	History []uint64
}

// Line is the worker's published answer for the position with hash Root.
// Moves[0] is the move to play there.
type Line struct {
	Root  uint64
	Moves []board.Move
	Score int
	Depth int
}

func (l *Line) Empty() bool { return l == nil || len(l.Moves) == 0 }

// tail drops the first move of the line. root is the hash reached by
// playing it.
func (l *Line) tail(root uint64) *Line {
	return &Line{Root: root, Moves: l.Moves[1:], Score: -l.Score, Depth: max(l.Depth-1, 0)}
}

// Worker searches the latest submitted position in the background and
// publishes the resulting line. One producer submits, the worker goroutine
// consumes.
type Worker struct {
	opts     Options
	searcher *Searcher
	book     *Book
	log      zerolog.Logger

	snapshots chan Snapshot
	line      atomic.Pointer[Line]

	changedMu sync.Mutex
	changed   chan struct{}

	searchMu     sync.Mutex
	cancelSearch context.CancelFunc

	group    *errgroup.Group
	stopLoop context.CancelFunc
	lastHash uint64
	searched bool
}

// NewWorker creates a worker searching with tt. book may be nil.
func NewWorker(opts Options, tt *TransTable, book *Book) *Worker {
	return &Worker{
		opts:      opts,
		searcher:  NewSearcher(tt, opts.Logger),
		book:      book,
		log:       opts.Logger,
		snapshots: make(chan Snapshot, 1),
		changed:   make(chan struct{}),
	}
}

// Submit hands a new position to the worker without blocking. A snapshot
// that has not been picked up yet is replaced, and a running search is
// interrupted.
func (w *Worker) Submit(snap Snapshot) {
	w.searchMu.Lock()
	defer w.searchMu.Unlock()
	if w.cancelSearch != nil {
		w.cancelSearch()
	}
	for {
		select {
		case w.snapshots <- snap:
			return
		default:
		}
		select {
		case <-w.snapshots:
		default:
		}
	}
}

// Line returns the most recently published line, nil before the first one.
func (w *Worker) Line() *Line { return w.line.Load() }

// Changed returns a channel that is closed the next time a line is
// published.
func (w *Worker) Changed() <-chan struct{} {
	w.changedMu.Lock()
	defer w.changedMu.Unlock()
	return w.changed
}

func (w *Worker) publish(l *Line) {
	w.line.Store(l)
	w.notify()
}

// swapLine replaces old with next unless another line was published in the
// meantime.
func (w *Worker) swapLine(old, next *Line) bool {
	if !w.line.CompareAndSwap(old, next) {
		return false
	}
	w.notify()
	return true
}

func (w *Worker) notify() {
	w.changedMu.Lock()
	close(w.changed)
	w.changed = make(chan struct{})
	w.changedMu.Unlock()
}

// Start runs the worker loop until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	w.group, w.stopLoop = g, cancel
	g.Go(func() error { return w.run(ctx) })
}

// Stop ends the loop and waits for it. An interrupted search is discarded.
func (w *Worker) Stop() error {
	if w.group == nil {
		return nil
	}
	w.stopLoop()
	err := w.group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Worker) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-w.snapshots:
			w.handle(ctx, snap)
		}
	}
}

func (w *Worker) handle(ctx context.Context, snap Snapshot) {
	hash := snap.Board.Hash()
	if w.searched && hash == w.lastHash {
		w.log.Debug().Uint64("hash", hash).Msg("snapshot-unchanged")
		return
	}

	w.searchMu.Lock()
	searchCtx, cancel := context.WithCancel(ctx)
	w.cancelSearch = cancel
	w.searchMu.Unlock()
	defer cancel()

	b := snap.Board.Clone()
	if w.book != nil {
		if m := w.book.Pick(b); m != board.NoMove {
			w.log.Debug().Str("move", m.String()).Msg("book-move")
			w.lastHash, w.searched = hash, true
			w.publish(&Line{Root: hash, Moves: []board.Move{m}})
			return
		}
	}

	res := w.searcher.Search(searchCtx, b, Limits{
		MaxDepth: w.opts.MaxDepth,
		MoveTime: w.opts.MoveTime,
		History:  snap.History,
	})
	if res.Move == board.NoMove {
		// Game over, or interrupted before any move finished.
		return
	}
	if searchCtx.Err() == nil {
		w.lastHash, w.searched = hash, true
	}

	w.log.Info().
		Int("depth", res.Depth).
		Int("score", res.Score).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Str("pv", pvString(res.PV)).
		Msg("line-published")
	w.publish(&Line{Root: hash, Moves: res.PV, Score: res.Score, Depth: res.Depth})
}
