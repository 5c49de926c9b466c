package board

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"runtime"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

// Slider selects the rook or bishop magic table.
type Slider uint8

const (
	RookSlider Slider = iota
	BishopSlider
)

func (s Slider) String() string {
	if s == RookSlider {
		return "rook"
	}
	return "bishop"
}

// magicEntry is the per-square lookup for one slider.
type magicEntry struct {
	mask    uint64
	magic   uint64
	shift   uint8
	attacks []uint64
}

func (m *magicEntry) index(occ uint64) uint64 {
	return ((occ & m.mask) * m.magic) >> m.shift
}

// MagicSet holds the multipliers for every square of both sliders.
type MagicSet struct {
	Rook   [64]uint64
	Bishop [64]uint64
}

func (ms *MagicSet) get(s Slider) *[64]uint64 {
	if s == RookSlider {
		return &ms.Rook
	}
	return &ms.Bishop
}

var (
	rookTable   [64]magicEntry
	bishopTable [64]magicEntry
	installed   MagicSet
)

func init() {
	set, _, err := DefaultMagics()
	if err != nil {
		panic(err)
	}
	if err := InstallMagics(set); err != nil {
		panic(err)
	}
}

// RookAttacks returns rook attacks from sq for the occupancy occ.
func RookAttacks(sq Square, occ uint64) uint64 {
	m := &rookTable[sq]
	return m.attacks[m.index(occ)]
}

// BishopAttacks returns bishop attacks from sq for the occupancy occ.
func BishopAttacks(sq Square, occ uint64) uint64 {
	m := &bishopTable[sq]
	return m.attacks[m.index(occ)]
}

// QueenAttacks is the union of the rook and bishop lookups.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// relevantMask returns the blocker squares that can change the attack set,
// excluding the edge squares a ray always reaches.
func relevantMask(s Slider, sq Square) uint64 {
	var mask uint64
	f0, r0 := sq.File(), sq.Rank()
	dirs := &rookDirs
	if s == BishopSlider {
		dirs = &bishopDirs
	}
	for _, d := range dirs {
		f, r := f0+d[0], r0+d[1]
		for {
			nf, nr := f+d[0], r+d[1]
			if f < 0 || f > 7 || r < 0 || r > 7 || nf < 0 || nf > 7 || nr < 0 || nr > 7 {
				break
			}
			mask |= bb(Square(r*8 + f))
			f, r = nf, nr
		}
	}
	return mask
}

// maskSubsets enumerates every subset of mask with the carry-rippler trick.
func maskSubsets(mask uint64) []uint64 {
	subsets := make([]uint64, 0, 1<<bits.OnesCount64(mask))
	var sub uint64
	for {
		subsets = append(subsets, sub)
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}
	return subsets
}

func referenceAttacks(s Slider, sq Square, occ uint64) uint64 {
	if s == RookSlider {
		return rookRays(sq, occ)
	}
	return bishopRays(sq, occ)
}

// buildEntry fills the attack table for one square. It fails when two
// blocker subsets with different attack sets land on the same index.
func buildEntry(s Slider, sq Square, magic uint64) (magicEntry, bool) {
	mask := relevantMask(s, sq)
	n := bits.OnesCount64(mask)
	e := magicEntry{
		mask:    mask,
		magic:   magic,
		shift:   uint8(64 - n),
		attacks: make([]uint64, 1<<n),
	}
	used := make([]bool, 1<<n)
	for _, occ := range maskSubsets(mask) {
		att := referenceAttacks(s, sq, occ)
		idx := e.index(occ)
		if used[idx] && e.attacks[idx] != att {
			return magicEntry{}, false
		}
		used[idx] = true
		e.attacks[idx] = att
	}
	return e, true
}

func magicRNG(s Slider, sq Square) *frand.RNG {
	var seed [32]byte
	copy(seed[:], "chess-core magic search seed")
	seed[30] = byte(s)
	seed[31] = byte(sq)
	return frand.NewCustom(seed[:], 1024, 12)
}

func sparseRandom(rng *frand.RNG) uint64 {
	var buf [24]byte
	rng.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[0:]) &
		binary.LittleEndian.Uint64(buf[8:]) &
		binary.LittleEndian.Uint64(buf[16:])
}

// FindMagic searches for a multiplier for one square. The search is
// deterministic per slider and square.
func FindMagic(s Slider, sq Square) uint64 {
	mustValid(sq)
	mask := relevantMask(s, sq)
	n := bits.OnesCount64(mask)
	subsets := maskSubsets(mask)
	reference := make([]uint64, len(subsets))
	for i, occ := range subsets {
		reference[i] = referenceAttacks(s, sq, occ)
	}

	rng := magicRNG(s, sq)
	table := make([]uint64, 1<<n)
	epoch := make([]uint32, 1<<n)
	shift := uint(64 - n)
	for try := uint32(1); ; try++ {
		magic := sparseRandom(rng)
		if bits.OnesCount64((mask*magic)&0xFF00000000000000) < 6 {
			continue
		}
		ok := true
		for i, occ := range subsets {
			idx := (occ * magic) >> shift
			if epoch[idx] != try {
				epoch[idx] = try
				table[idx] = reference[i]
			} else if table[idx] != reference[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic
		}
	}
}

// DiscoverMagics runs FindMagic for all 128 slider/square pairs in parallel.
func DiscoverMagics() (MagicSet, error) {
	var set MagicSet
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, s := range []Slider{RookSlider, BishopSlider} {
		dst := set.get(s)
		for sq := Square(0); sq < 64; sq++ {
			g.Go(func() error {
				dst[sq] = FindMagic(s, sq)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return MagicSet{}, err
	}
	return set, nil
}

// ValidMagic reports whether magic indexes every blocker subset of sq
// without a destructive collision.
func ValidMagic(s Slider, sq Square, magic uint64) bool {
	if !sq.Valid() || magic == 0 {
		return false
	}
	_, ok := buildEntry(s, sq, magic)
	return ok
}

// InstallMagics rebuilds the live attack tables from set. It must be called
// before any concurrent use of the package, typically at start-up.
func InstallMagics(set MagicSet) error {
	var rook, bishop [64]magicEntry
	for sq := Square(0); sq < 64; sq++ {
		var ok bool
		if rook[sq], ok = buildEntry(RookSlider, sq, set.Rook[sq]); !ok {
			return fmt.Errorf("rook magic %#x collides on %s", set.Rook[sq], sq)
		}
		if bishop[sq], ok = buildEntry(BishopSlider, sq, set.Bishop[sq]); !ok {
			return fmt.Errorf("bishop magic %#x collides on %s", set.Bishop[sq], sq)
		}
	}
	rookTable, bishopTable = rook, bishop
	installed = set
	return nil
}

// CurrentMagics returns the multipliers behind the live tables.
func CurrentMagics() MagicSet { return installed }
