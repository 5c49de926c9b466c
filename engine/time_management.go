package engine

import (
	"time"

	"chess-core/board"
)

type TimeHandler struct {
	deadline    time.Time
	hasDeadline bool
}

// start arms the deadline for one search. An explicit MoveTime wins over a
// clock budget; with neither the search is bounded by depth alone.
func (th *TimeHandler) start(lim Limits, b *board.Board, now time.Time) {
	moveTime := lim.MoveTime
	if moveTime <= 0 && lim.Remaining > 0 {
		moveTime = AllocateMoveTime(lim.Remaining, lim.Increment, GetPiecePhase(b))
	}
	th.hasDeadline = moveTime > 0
	th.deadline = now.Add(moveTime)
}

// TimeStatus is true once the deadline has passed.
func (th *TimeHandler) TimeStatus() bool {
	return th.hasDeadline && !time.Now().Before(th.deadline)
}

// AllocateMoveTime splits a clock budget into the time for a single move.
func AllocateMoveTime(remaining, increment time.Duration, phase int) time.Duration {
	// Engine-side safety knobs
	const overhead = 30 * time.Millisecond
	const minMove = 5 * time.Millisecond
	const maxFrac = 0.7
	const panicThresh = time.Second
	const panicFrac = 0.90

	movesLeft := estimateMovesRemaining(phase)

	var moveTime time.Duration
	if increment > 0 {
		if remaining < panicThresh {
			// Panic: try to bank a little time
			moveTime = time.Duration(float64(increment) * panicFrac)
		} else {
			moveTime = remaining/time.Duration(movesLeft) + increment
		}
	} else {
		moveTime = remaining / 40
	}

	moveTime = min(moveTime, time.Duration(float64(remaining)*maxFrac), remaining-overhead)
	return max(moveTime, minMove)
}

// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
func estimateMovesRemaining(phase int) int {
	return Clamp(phase, 0, TotalPhase)*25/TotalPhase + 20
}
