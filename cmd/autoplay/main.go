package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-core/board"
	"chess-core/engine"
	"chess-core/notation"
)

func main() {
	opts := engine.DefaultOptions()
	opts.MoveTime = 500 * time.Millisecond
	fen := flag.String("fen", board.FENStartPos, "Starting position")
	interval := flag.Duration("interval", 50*time.Millisecond, "How often to drain a queued move")
	timeout := flag.Duration("timeout", 10*time.Minute, "Give up after this long")
	verbose := flag.Bool("v", false, "Log search progress")
	flag.DurationVar(&opts.MoveTime, "movetime", opts.MoveTime, "Search time per position")
	flag.IntVar(&opts.MaxDepth, "depth", opts.MaxDepth, "Maximum search depth")
	flag.IntVar(&opts.TTSizeMB, "tt", opts.TTSizeMB, "Transposition table size in MB")
	flag.StringVar(&opts.BookPath, "book", opts.BookPath, "Opening book file")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	opts.Logger = log.Logger

	start, err := board.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	var book *engine.Book
	if opts.BookPath != "" {
		if book, err = engine.LoadBook(opts.BookPath); err != nil {
			fmt.Fprintf(os.Stderr, "book: %v\n", err)
			os.Exit(2)
		}
		defer book.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	worker := engine.NewWorker(opts, engine.NewTransTable(opts.TTSizeMB), book)
	worker.Start(ctx)
	defer worker.Stop()

	game := engine.NewGame(worker, log.Logger)
	if err := game.SetPosition(*fen); err != nil {
		fmt.Fprintf(os.Stderr, "SetPosition: %v\n", err)
		os.Exit(2)
	}

	state, err := game.PlayUntilOver(ctx, *interval)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(os.Stderr, "autoplay: %v\n", err)
		os.Exit(2)
	}

	san, err := notation.SAN(*fen, game.History())
	if err != nil {
		fmt.Fprintf(os.Stderr, "notation: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(notation.MoveText(san, start.FullmoveNumber(), start.SideToMove()))
	fmt.Printf("result: %s\nfinal: %s\n", state, game.FEN())
}
