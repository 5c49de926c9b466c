package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"chess-core/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore  = 1_000_000
	Checkmate = 100_000
	DrawScore = 0

	// MaxPly bounds the search path.
	MaxPly = 128
	// Scores at or beyond MateThreshold encode a forced mate.
	MateThreshold = Checkmate - MaxPly
)

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool { return Abs(score) >= MateThreshold }

// MatePlies returns the number of plies to the mate encoded by score.
func MatePlies(score int) int { return Checkmate - Abs(score) }

// Limits bounds one search.
type Limits struct {
	MaxDepth int
	// MoveTime is a fixed budget. When zero, Remaining and Increment are
	// used to derive one.
	MoveTime  time.Duration
	Remaining time.Duration
	Increment time.Duration
	// History holds the hashes of the game positions before the root,
	// oldest first, for repetition detection.
	History []uint64
}

type Result struct {
	Move    board.Move
	Score   int
	Depth   int
	Nodes   uint64
	PV      []board.Move
	Elapsed time.Duration
}

// nodeResult is what every search node returns. An aborted result carries no
// usable score.
type nodeResult struct {
	score   int
	aborted bool
}

var abortedNode = nodeResult{aborted: true}

// Searcher runs iterative-deepening alpha-beta over a board. It is not safe
// for concurrent use; the TransTable it shares is.
type Searcher struct {
	tt    *TransTable
	log   zerolog.Logger
	stop  atomic.Bool
	clock TimeHandler
	nodes uint64
	path  stateStack
	lists [MaxPly]board.MoveList
	order [MaxPly]moveList
}

func NewSearcher(tt *TransTable, logger zerolog.Logger) *Searcher {
	return &Searcher{tt: tt, log: logger}
}

// Stop aborts the running search. The deepest completed iteration is kept.
func (s *Searcher) Stop() { s.stop.Store(true) }

// Search finds the best move for the side to move in b. b is restored before
// Search returns. Running out of time is not an error: the result of the
// deepest completed depth is returned, and Move is board.NoMove only when no
// depth produced a move.
func (s *Searcher) Search(ctx context.Context, b *board.Board, lim Limits) Result {
	start := time.Now()
	s.stop.Store(false)
	s.nodes = 0
	stopAfter := context.AfterFunc(ctx, s.Stop)
	defer stopAfter()
	if ctx.Err() != nil {
		s.Stop()
	}

	s.clock.start(lim, b, start)
	s.tt.NewSearch()
	s.path.reset(lim.History)

	res := Result{Move: board.NoMove}
	maxDepth := lim.MaxDepth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	if !b.HasLegalMoves(b.SideToMove()) {
		if b.IsInCheck(b.SideToMove()) {
			res.Score = -Checkmate
		}
		res.Elapsed = time.Since(start)
		return res
	}

	for depth := 1; depth <= maxDepth; depth++ {
		move, r := s.rootSearch(b, depth)
		if r.aborted {
			// A partial first iteration still beats having no move.
			if res.Move == board.NoMove && move != board.NoMove {
				res.Move, res.Score, res.Depth = move, r.score, depth
				res.PV = []board.Move{move}
			}
			break
		}

		res.Move, res.Score, res.Depth = move, r.score, depth
		res.PV = PrincipalVariation(b, s.tt, depth)
		if len(res.PV) == 0 || res.PV[0] != move {
			res.PV = []board.Move{move}
		}

		s.log.Info().
			Int("depth", depth).
			Int("score", r.score).
			Uint64("nodes", s.nodes).
			Str("pv", pvString(res.PV)).
			Msg("depth-complete")

		if IsMateScore(r.score) && MatePlies(r.score) <= depth {
			break
		}
		if s.clock.TimeStatus() {
			break
		}
	}

	res.Nodes = s.nodes
	res.Elapsed = time.Since(start)
	return res
}

func (s *Searcher) rootSearch(b *board.Board, depth int) (board.Move, nodeResult) {
	hash := b.Hash()
	moves := &s.lists[0]
	b.GenerateMovesInto(b.SideToMove(), moves)

	var ttMove board.Move
	if e, ok := s.tt.Probe(hash); ok {
		ttMove = e.Move
	}
	ml := &s.order[0]
	s.scoreMoves(b, 0, moves, ttMove, ml)

	alpha, beta := -MaxScore, MaxScore
	best := nodeResult{score: -MaxScore}
	bestMove := board.NoMove

	s.path.push(hash)
	defer s.path.pop()

	for i := range ml.moves {
		orderNextMove(i, ml)
		m := ml.moves[i].move

		b.Apply(m)
		child := s.alphaBeta(b, depth-1, 1, -beta, -alpha)
		b.Undo(m)

		if child.aborted {
			return bestMove, nodeResult{score: best.score, aborted: true}
		}
		// Strictly better only: an equal score never displaces an earlier move.
		if score := -child.score; score > best.score {
			best.score = score
			bestMove = m
			alpha = max(alpha, score)
		}
	}

	s.tt.Store(hash, depth, 0, bestMove, best.score, ExactFlag)
	return bestMove, best
}

func (s *Searcher) alphaBeta(b *board.Board, depth, ply, alpha, beta int) nodeResult {
	if s.stop.Load() {
		return abortedNode
	}
	if s.clock.TimeStatus() {
		s.stop.Store(true)
		return abortedNode
	}
	s.nodes++

	hash := b.Hash()
	if s.path.isDraw(hash) {
		return nodeResult{score: DrawScore}
	}

	alphaOrig := alpha
	var ttMove board.Move
	if e, ok := s.tt.Probe(hash); ok {
		ttMove = e.Move
		if int(e.Depth) >= depth {
			score := e.ScoreAt(ply)
			switch e.Flag {
			case ExactFlag:
				return nodeResult{score: score}
			case BetaFlag:
				alpha = max(alpha, score)
			case AlphaFlag:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return nodeResult{score: score}
			}
		}
	}

	side := b.SideToMove()
	moves := &s.lists[ply]
	b.GenerateMovesInto(side, moves)
	if moves.Empty() {
		if b.IsInCheck(side) {
			return nodeResult{score: -(Checkmate - ply)}
		}
		return nodeResult{score: DrawScore}
	}
	if b.InsufficientMaterial() {
		return nodeResult{score: DrawScore}
	}
	if depth <= 0 || ply >= MaxPly-1 {
		return nodeResult{score: Evaluation(b)}
	}

	ml := &s.order[ply]
	s.scoreMoves(b, ply, moves, ttMove, ml)

	best := nodeResult{score: -MaxScore}
	bestMove := board.NoMove

	s.path.push(hash)
	for i := range ml.moves {
		orderNextMove(i, ml)
		m := ml.moves[i].move

		b.Apply(m)
		child := s.alphaBeta(b, depth-1, ply+1, -beta, -alpha)
		b.Undo(m)

		if child.aborted {
			s.path.pop()
			return abortedNode
		}
		if score := -child.score; score > best.score {
			best.score = score
			bestMove = m
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	s.path.pop()

	flag := ExactFlag
	if best.score <= alphaOrig {
		flag = AlphaFlag
	} else if best.score >= beta {
		flag = BetaFlag
	}
	s.tt.Store(hash, depth, ply, bestMove, best.score, flag)
	return best
}

func pvString(pv []board.Move) string {
	var sb strings.Builder
	for i, m := range pv {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
