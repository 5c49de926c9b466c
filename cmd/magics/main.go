package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-core/board"
)

func main() {
	out := flag.String("out", "board/magics.txt", "File to write discovered magics to (the embedded default lives at board/magics.txt)")
	verify := flag.String("verify", "", "Check an existing magics file instead of discovering")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *verify != "" {
		rediscovered, err := board.LoadMagicsFile(*verify)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify %s: %v\n", *verify, err)
			os.Exit(2)
		}
		if rediscovered > 0 {
			log.Warn().Int("squares", rediscovered).Msg("magics-rediscovered")
			fmt.Printf("%s: %d squares missing or colliding\n", *verify, rediscovered)
			os.Exit(1)
		}
		fmt.Printf("%s: all 128 magics index cleanly\n", *verify)
		return
	}

	start := time.Now()
	set, err := board.DiscoverMagics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "discover: %v\n", err)
		os.Exit(2)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("magics-discovered")

	if err := board.InstallMagics(set); err != nil {
		fmt.Fprintf(os.Stderr, "install: %v\n", err)
		os.Exit(2)
	}
	if err := board.SaveMagicsFile(*out); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", *out)
}
