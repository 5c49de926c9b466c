package bench

import (
	"testing"

	"chess-core/board"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func mustFEN(b *testing.B, fen string) *board.Board {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	return pos
}

func benchGenerateMoves(b *testing.B, fen string) {
	pos := mustFEN(b, fen)
	list := board.NewMoveList()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos.GenerateMovesInto(pos.SideToMove(), list)
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, board.FENStartPos)
}

func BenchmarkGenerateMoves_Kiwipete(b *testing.B) {
	benchGenerateMoves(b, kiwipete)
}

func BenchmarkGenerateMoves_Pos6(b *testing.B) {
	benchGenerateMoves(b, pos6)
}

func BenchmarkGeneratePseudoMoves_EP(b *testing.B) {
	pos := mustFEN(b, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.GeneratePseudoMoves(board.White)
	}
}

func BenchmarkApplyUndo_AllMoves_Initial(b *testing.B) {
	pos := mustFEN(b, board.FENStartPos)
	moves := pos.GenerateMoves(board.White).Moves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			pos.Apply(m)
			pos.Undo(m)
		}
	}
}

func BenchmarkHash_Kiwipete(b *testing.B) {
	pos := mustFEN(b, kiwipete)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.Hash()
	}
}

func BenchmarkRookAttacks(b *testing.B) {
	pos := mustFEN(b, kiwipete)
	occ := pos.Occupied()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for sq := board.Square(0); sq < 64; sq++ {
			_ = board.RookAttacks(sq, occ)
		}
	}
}
