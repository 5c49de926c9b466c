package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures a Worker and the Searcher it drives.
type Options struct {
	// MoveTime is the wall-clock budget for one search.
	MoveTime time.Duration
	// MaxDepth bounds iterative deepening.
	MaxDepth int
	// TTSizeMB sizes the transposition table.
	TTSizeMB int
	// BookPath names the opening book file. Empty disables the book.
	BookPath string
	Logger   zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		MoveTime: 2 * time.Second,
		MaxDepth: 32,
		TTSizeMB: 64,
		Logger:   log.Logger,
	}
}
