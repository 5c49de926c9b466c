package board

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// defaultMagics is the output of cmd/magics, loaded at start-up.
//
//go:embed magics.txt
var defaultMagics []byte

// DefaultMagics completes the embedded multipliers, rediscovering only the
// squares that are missing or collide.
func DefaultMagics() (MagicSet, int, error) {
	return LoadMagics(bytes.NewReader(defaultMagics))
}

// SaveMagics writes set as "<slider> <square> 0x<magic>" lines.
func SaveMagics(w io.Writer, set MagicSet) error {
	bw := bufio.NewWriter(w)
	for _, s := range []Slider{RookSlider, BishopSlider} {
		magics := set.get(s)
		for sq := Square(0); sq < 64; sq++ {
			if _, err := fmt.Fprintf(bw, "%s %d 0x%016x\n", s, sq, magics[sq]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// LoadMagics reads persisted multipliers. Squares that are missing or whose
// constant no longer indexes cleanly are rediscovered; the number of
// rediscovered squares is returned alongside the completed set.
func LoadMagics(r io.Reader) (MagicSet, int, error) {
	var set MagicSet
	var seen [2][64]bool

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return MagicSet{}, 0, fmt.Errorf("magics line %d: want 3 fields, got %d", line, len(fields))
		}
		var s Slider
		switch fields[0] {
		case "rook":
			s = RookSlider
		case "bishop":
			s = BishopSlider
		default:
			return MagicSet{}, 0, fmt.Errorf("magics line %d: unknown slider %q", line, fields[0])
		}
		sq, err := strconv.Atoi(fields[1])
		if err != nil || !Square(sq).Valid() {
			return MagicSet{}, 0, fmt.Errorf("magics line %d: %w: %q", line, ErrInvalidSquare, fields[1])
		}
		magic, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return MagicSet{}, 0, fmt.Errorf("magics line %d: %w", line, err)
		}
		set.get(s)[sq] = magic
		seen[s][sq] = true
	}
	if err := sc.Err(); err != nil {
		return MagicSet{}, 0, err
	}

	rediscovered := 0
	for _, s := range []Slider{RookSlider, BishopSlider} {
		magics := set.get(s)
		for sq := Square(0); sq < 64; sq++ {
			if seen[s][sq] && ValidMagic(s, sq, magics[sq]) {
				continue
			}
			magics[sq] = FindMagic(s, sq)
			rediscovered++
		}
	}
	return set, rediscovered, nil
}

// LoadMagicsFile loads, completes and installs the magics stored at path. It
// returns the number of rediscovered squares.
func LoadMagicsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	set, rediscovered, err := LoadMagics(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return rediscovered, InstallMagics(set)
}

// SaveMagicsFile writes the installed magics to path.
func SaveMagicsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := SaveMagics(f, CurrentMagics()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
