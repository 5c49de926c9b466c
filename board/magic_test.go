package board

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestMagicLookupMatchesRayCasting(t *testing.T) {
	for sq := Square(0); sq < 64; sq++ {
		for _, occ := range maskSubsets(relevantMask(RookSlider, sq)) {
			if got, want := RookAttacks(sq, occ), rookRays(sq, occ); got != want {
				t.Fatalf("rook %s occ %#x: got %#x want %#x", sq, occ, got, want)
			}
		}
		for _, occ := range maskSubsets(relevantMask(BishopSlider, sq)) {
			if got, want := BishopAttacks(sq, occ), bishopRays(sq, occ); got != want {
				t.Fatalf("bishop %s occ %#x: got %#x want %#x", sq, occ, got, want)
			}
		}
	}
}

func TestMagicLookupIgnoresIrrelevantBlockers(t *testing.T) {
	// Edge squares and squares off the rays never change the result.
	occ := uint64(0x8100000000000081) | bb(B3) | bb(G6)
	if got, want := RookAttacks(D4, occ), rookRays(D4, occ); got != want {
		t.Fatalf("rook d4: got %#x want %#x", got, want)
	}
	if got, want := QueenAttacks(D4, occ), rookRays(D4, occ)|bishopRays(D4, occ); got != want {
		t.Fatalf("queen d4: got %#x want %#x", got, want)
	}
}

func TestRelevantMaskSizes(t *testing.T) {
	cases := []struct {
		s    Slider
		sq   Square
		bits int
	}{
		{RookSlider, A1, 12},
		{RookSlider, D4, 10},
		{BishopSlider, A1, 6},
		{BishopSlider, D4, 9},
	}
	for _, tc := range cases {
		if n := len(maskSubsets(relevantMask(tc.s, tc.sq))); n != 1<<tc.bits {
			t.Fatalf("%s %s: %d subsets want %d", tc.s, tc.sq, n, 1<<tc.bits)
		}
	}
}

func TestFindMagicIsDeterministic(t *testing.T) {
	a, b := FindMagic(RookSlider, A1), FindMagic(RookSlider, A1)
	if a != b {
		t.Fatalf("FindMagic not deterministic: %#x vs %#x", a, b)
	}
	if !ValidMagic(RookSlider, A1, a) {
		t.Fatalf("FindMagic returned a colliding magic")
	}
}

func TestSaveLoadMagics(t *testing.T) {
	var buf bytes.Buffer
	set := CurrentMagics()
	if err := SaveMagics(&buf, set); err != nil {
		t.Fatal(err)
	}
	got, rediscovered, err := LoadMagics(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if rediscovered != 0 {
		t.Fatalf("rediscovered %d squares from a complete file", rediscovered)
	}
	if got != set {
		t.Fatalf("loaded set differs from saved set")
	}
}

func TestLoadMagicsRediscoversMissingAndBroken(t *testing.T) {
	set := CurrentMagics()
	var sb strings.Builder
	for sq := Square(0); sq < 64; sq++ {
		if sq == H8 {
			continue // missing
		}
		magic := set.Rook[sq]
		if sq == A1 {
			magic = 1 // collides
		}
		fmt.Fprintf(&sb, "rook %d 0x%x\n", sq, magic)
		fmt.Fprintf(&sb, "bishop %d 0x%x\n", sq, set.Bishop[sq])
	}
	got, rediscovered, err := LoadMagics(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	// rook a1, rook h8 and bishop h8
	if rediscovered != 3 {
		t.Fatalf("rediscovered %d squares want 3", rediscovered)
	}
	if err := InstallMagics(got); err != nil {
		t.Fatalf("InstallMagics: %v", err)
	}
	t.Cleanup(func() {
		if err := InstallMagics(set); err != nil {
			t.Errorf("restore magics: %v", err)
		}
	})
	if got.Rook[A1] != FindMagic(RookSlider, A1) || got.Rook[B1] != set.Rook[B1] {
		t.Fatalf("rediscovered rook a1 differs from the deterministic search")
	}
}

func TestLoadMagicsRejectsMalformedLines(t *testing.T) {
	for _, in := range []string{
		"queen 1 0x10\n",
		"rook 64 0x10\n",
		"rook 1\n",
		"rook 1 zz\n",
	} {
		if _, _, err := LoadMagics(strings.NewReader(in)); err == nil {
			t.Fatalf("LoadMagics(%q) accepted malformed input", in)
		}
	}
}

func TestInstallMagicsRejectsCollisions(t *testing.T) {
	set := CurrentMagics()
	set.Bishop[C1] = 1
	if err := InstallMagics(set); err == nil {
		t.Fatalf("InstallMagics accepted a colliding bishop magic")
	}
	if CurrentMagics().Bishop[C1] == 1 {
		t.Fatalf("failed install replaced the live tables")
	}
}

func TestMagicsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magics.txt")
	if err := SaveMagicsFile(path); err != nil {
		t.Fatal(err)
	}
	rediscovered, err := LoadMagicsFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if rediscovered != 0 {
		t.Fatalf("rediscovered %d squares from a saved file", rediscovered)
	}
	if _, err := LoadMagicsFile(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestEmbeddedMagicsNeedNoRediscovery(t *testing.T) {
	set, rediscovered, err := DefaultMagics()
	if err != nil {
		t.Fatalf("DefaultMagics: %v", err)
	}
	if rediscovered != 0 {
		t.Fatalf("%d embedded squares were rediscovered", rediscovered)
	}
	if set != CurrentMagics() {
		t.Fatalf("installed tables were not built from the embedded magics")
	}
}
