package match

import "testing"

func TestHeuristic_OpeningPrefersCentre(t *testing.T) {
	var h Heuristic
	mv, ok := h.ChooseMove(StartFEN)
	if !ok || mv != "d2d4" {
		t.Fatalf("expected d2d4, got %q ok=%v", mv, ok)
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	fen := playLine(t, StartFEN, "e2e4", "e7e5", "g1f3").FEN
	var h Heuristic
	first, ok := h.ChooseMove(fen)
	if !ok {
		t.Fatalf("expected a move")
	}
	for i := 0; i < 25; i++ {
		if mv, _ := h.ChooseMove(fen); mv != first {
			t.Fatalf("run %d picked %q, first run %q", i, mv, first)
		}
	}
	legal, err := LegalMovesFEN(fen)
	if err != nil {
		t.Fatalf("LegalMovesFEN: %v", err)
	}
	found := false
	for _, m := range legal {
		if UCI(m) == first {
			found = true
		}
	}
	if !found {
		t.Fatalf("%q is not a legal move", first)
	}
}

func TestHeuristic_TakesQueen(t *testing.T) {
	var h Heuristic
	mv, ok := h.ChooseMove("4k3/8/8/8/8/8/q7/R3K3 w - - 0 1")
	if !ok || mv != "a1a2" {
		t.Fatalf("expected a1a2, got %q", mv)
	}
}

func TestHeuristic_PromotionTieGoesToQueen(t *testing.T) {
	var h Heuristic
	mv, ok := h.ChooseMove("8/P7/8/8/8/8/8/k6K w - - 0 1")
	if !ok || mv != "a7a8q" {
		t.Fatalf("expected a7a8q, got %q", mv)
	}
}

func TestHeuristic_NoMoves(t *testing.T) {
	mated := playLine(t, StartFEN, "f2f3", "e7e5", "g2g4", "d8h4").FEN
	var h Heuristic
	if mv, ok := h.ChooseMove(mated); ok {
		t.Fatalf("mated side has no moves, got %q", mv)
	}
	if _, ok := h.ChooseMove("garbage"); ok {
		t.Fatalf("undecodable position must yield no move")
	}
}
