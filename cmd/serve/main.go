package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"chess-core/board"
	"chess-core/engine"
	"chess-core/server"
)

func main() {
	opts := engine.DefaultOptions()
	addr := flag.String("addr", ":8080", "Address to listen on")
	fen := flag.String("fen", board.FENStartPos, "Initial position")
	magics := flag.String("magics", "magics.txt", "Persisted magics, used when present")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.DurationVar(&opts.MoveTime, "movetime", opts.MoveTime, "Search time per position")
	flag.IntVar(&opts.MaxDepth, "depth", opts.MaxDepth, "Maximum search depth")
	flag.IntVar(&opts.TTSizeMB, "tt", opts.TTSizeMB, "Transposition table size in MB")
	flag.StringVar(&opts.BookPath, "book", opts.BookPath, "Opening book file")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	opts.Logger = log.Logger

	if err := run(opts, *addr, *fen, *magics); err != nil {
		log.Error().Err(err).Msg("serve-failed")
		os.Exit(2)
	}
}

func run(opts engine.Options, addr, fen, magicsPath string) error {
	if magicsPath != "" {
		rediscovered, err := board.LoadMagicsFile(magicsPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", magicsPath).Msg("no-magics-file")
		case err != nil:
			return err
		default:
			log.Info().Str("path", magicsPath).Int("rediscovered", rediscovered).Msg("magics-loaded")
		}
	}

	var book *engine.Book
	if opts.BookPath != "" {
		var err error
		if book, err = engine.LoadBook(opts.BookPath); err != nil {
			return err
		}
		defer book.Close()
		log.Info().Str("path", opts.BookPath).Int("positions", book.Len()).Msg("book-loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := engine.NewWorker(opts, engine.NewTransTable(opts.TTSizeMB), book)
	game := engine.NewGame(worker, log.Logger)
	if err := game.SetPosition(fen); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.New(game, worker, log.Logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	worker.Start(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		<-ctx.Done()
		return worker.Stop()
	})
	return g.Wait()
}
