package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/maps"
	"lukechampine.com/frand"

	"chess-core/board"
)

var ErrInvalidBook = errors.New("invalid opening book")

// Book maps position hashes to candidate moves. It only ever grows.
//
// On disk a book is a sequence of zstd frames, one per Add, each holding
// lines of the form "<hash hex> <move> <move>...".
type Book struct {
	mu      sync.RWMutex
	path    string
	entries map[uint64][]board.Move
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewBook returns an empty book. With a non-empty path, Add also appends to
// that file.
func NewBook(path string) (*Book, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Book{
		path:    path,
		entries: make(map[uint64][]board.Move),
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// LoadBook opens the book at path. A missing file yields an empty book that
// will be created on the first Add.
func LoadBook(path string) (*Book, error) {
	bk, err := NewBook(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return bk, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}
	if err := bk.Decode(data); err != nil {
		return nil, err
	}
	return bk, nil
}

// Decode merges the frames in data into the book.
func (bk *Book) Decode(data []byte) error {
	raw, err := bk.decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBook, err)
	}

	bk.mu.Lock()
	defer bk.mu.Unlock()

	sc := bufio.NewScanner(bytes.NewReader(raw))
	for lineNo := 1; sc.Scan(); lineNo++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		hash, err := strconv.ParseUint(fields[0], 16, 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: bad hash %q", ErrInvalidBook, lineNo, fields[0])
		}
		for _, f := range fields[1:] {
			m, err := strconv.ParseUint(f, 10, 32)
			if err != nil || board.Move(m) == board.NoMove {
				return fmt.Errorf("%w: line %d: bad move %q", ErrInvalidBook, lineNo, f)
			}
			bk.entries[hash] = append(bk.entries[hash], board.Move(m))
		}
	}
	return sc.Err()
}

// Encode writes the whole book as a single frame.
func (bk *Book) Encode() []byte {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	var buf bytes.Buffer
	for _, hash := range bk.sortedHashes() {
		writeBookLine(&buf, hash, bk.entries[hash])
	}
	return bk.encoder.EncodeAll(buf.Bytes(), nil)
}

func writeBookLine(buf *bytes.Buffer, hash uint64, moves []board.Move) {
	fmt.Fprintf(buf, "%016x", hash)
	for _, m := range moves {
		fmt.Fprintf(buf, " %d", uint32(m))
	}
	buf.WriteByte('\n')
}

// Add appends moves for hash. Existing moves are never removed.
func (bk *Book) Add(hash uint64, moves ...board.Move) error {
	if len(moves) == 0 {
		return nil
	}

	bk.mu.Lock()
	defer bk.mu.Unlock()

	bk.entries[hash] = append(bk.entries[hash], moves...)
	if bk.path == "" {
		return nil
	}

	var buf bytes.Buffer
	writeBookLine(&buf, hash, moves)
	f, err := os.OpenFile(bk.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open book: %w", err)
	}
	if _, err := f.Write(bk.encoder.EncodeAll(buf.Bytes(), nil)); err != nil {
		f.Close()
		return fmt.Errorf("append book: %w", err)
	}
	return f.Close()
}

// Moves returns a copy of the moves stored for hash.
func (bk *Book) Moves(hash uint64) []board.Move {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return slices.Clone(bk.entries[hash])
}

// Hashes returns every position in the book in ascending order.
func (bk *Book) Hashes() []uint64 {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return bk.sortedHashes()
}

// sortedHashes expects bk.mu to be held.
func (bk *Book) sortedHashes() []uint64 {
	hashes := maps.Keys(bk.entries)
	slices.Sort(hashes)
	return hashes
}

func (bk *Book) Len() int {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return len(bk.entries)
}

// Pick returns a random book move that is legal in b, or board.NoMove.
func (bk *Book) Pick(b *board.Board) board.Move {
	stored := bk.Moves(b.Hash())
	if len(stored) == 0 {
		return board.NoMove
	}
	legal := b.GenerateMoves(b.SideToMove())
	var candidates []board.Move
	for _, sm := range stored {
		if m, n := legal.Find(sm.From(), sm.To(), sm.Promotion()); n == 1 && !slices.Contains(candidates, m) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return board.NoMove
	}
	return candidates[frand.Intn(len(candidates))]
}

// Close releases the zstd encoder and decoder.
func (bk *Book) Close() {
	bk.encoder.Close()
	bk.decoder.Close()
}
