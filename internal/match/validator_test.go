package match

import (
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func playLine(t *testing.T, fen string, moves ...string) MoveResult {
	t.Helper()
	var res MoveResult
	for _, mv := range moves {
		var err error
		res, err = ApplyMove(fen, mv, nil)
		if err != nil {
			t.Fatalf("ApplyMove(%s): %v", mv, err)
		}
		fen = res.FEN
	}
	return res
}

func TestApplyMove_PawnPushFlipsTurn(t *testing.T) {
	res, err := ApplyMove(StartFEN, "e2e4", nil)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if fields := strings.Fields(res.FEN); len(fields) < 2 || fields[1] != "b" {
		t.Fatalf("expected black to move, fen=%q", res.FEN)
	}
	if res.SAN != "e4" || res.UCI != "e2e4" {
		t.Fatalf("unexpected labels: san=%q uci=%q", res.SAN, res.UCI)
	}
	if res.Result.Terminal() {
		t.Fatalf("opening move must not be terminal")
	}
}

func TestApplyMove_NormalizesText(t *testing.T) {
	res, err := ApplyMove(StartFEN, "  G1F3 ", nil)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if res.UCI != "g1f3" || res.SAN != "Nf3" {
		t.Fatalf("unexpected labels: san=%q uci=%q", res.SAN, res.UCI)
	}
}

func TestApplyMove_Rejects(t *testing.T) {
	cases := []string{"f1c4", "e2e5", "e2", "e2e4e5", "z9e4", "e7e8x", "", "e1g1"}
	for _, mv := range cases {
		_, err := ApplyMove(StartFEN, mv, nil)
		if !errors.Is(err, ErrInvalidMove) {
			t.Fatalf("move %q: expected invalid move, got %v", mv, err)
		}
	}
}

func TestApplyMove_BadPosition(t *testing.T) {
	if _, err := ApplyMove("not a fen", "e2e4", nil); KindOf(err) != KindInvalidMove {
		t.Fatalf("expected invalid move for undecodable position, got %v", err)
	}
}

func TestApplyMove_CaptureLabels(t *testing.T) {
	if res := playLine(t, StartFEN, "e2e4", "d7d5", "e4d5"); res.SAN != "exd5" {
		t.Fatalf("pawn capture label: %q", res.SAN)
	}
	if res := playLine(t, StartFEN, "e2e4", "e7e5", "g1f3", "b8c6", "f3e5"); res.SAN != "Nxe5" {
		t.Fatalf("knight capture label: %q", res.SAN)
	}
}

func TestApplyMove_CastlingLabel(t *testing.T) {
	fen := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	res, err := ApplyMove(fen, "e1g1", nil)
	if err != nil {
		t.Fatalf("castle: %v", err)
	}
	if res.SAN != "Kg1" {
		t.Fatalf("castling label: %q", res.SAN)
	}
}

func TestApplyMove_Promotion(t *testing.T) {
	fen := "8/P7/8/8/8/8/8/k6K w - - 0 1"
	if _, err := ApplyMove(fen, "a7a8", nil); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("promotion without piece must be rejected, got %v", err)
	}
	cases := []struct {
		hint *string
		text string
		want string
	}{
		{strPtr(""), "a7a8", "a8=Q"},
		{strPtr("knight"), "a7a8", "a8=N"},
		{strPtr(" R "), "a7a8", "a8=R"},
		{nil, "a7a8b", "a8=B"},
		{strPtr("knight"), "a7a8q", "a8=Q"},
	}
	for _, c := range cases {
		res, err := ApplyMove(fen, c.text, c.hint)
		if err != nil {
			t.Fatalf("%s: %v", c.text, err)
		}
		if res.SAN != c.want {
			t.Fatalf("%s: label %q want %q", c.text, res.SAN, c.want)
		}
	}
	if _, err := ApplyMove(fen, "a7a8", strPtr("xylophone")); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("unknown promotion letter must be rejected, got %v", err)
	}
}

func TestApplyMove_Checkmate(t *testing.T) {
	res := playLine(t, StartFEN, "f2f3", "e7e5", "g2g4", "d8h4")
	if res.Result != ResultBlackWon || res.Termination != TerminationCheckmate {
		t.Fatalf("expected black mate, got %q/%q", res.Result, res.Termination)
	}
	if res.SAN != "Qh4" {
		t.Fatalf("mating label: %q", res.SAN)
	}
}

func TestApplyMove_Stalemate(t *testing.T) {
	res, err := ApplyMove("k7/8/1Q6/8/8/8/8/7K w - - 0 1", "b6c7", nil)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if res.Result != ResultDraw || res.Termination != TerminationStalemate {
		t.Fatalf("expected stalemate, got %q/%q", res.Result, res.Termination)
	}
}

func TestLegalMoves_CanonicalOrder(t *testing.T) {
	moves, err := LegalMovesFEN(StartFEN)
	if err != nil {
		t.Fatalf("LegalMovesFEN: %v", err)
	}
	if len(moves) != 20 {
		t.Fatalf("expected 20 opening moves, got %d", len(moves))
	}
	if got := UCI(moves[0]); got != "b1a3" {
		t.Fatalf("first canonical move: %q", got)
	}
	for i := 1; i < len(moves); i++ {
		a, b := moves[i-1], moves[i]
		if a.S1() > b.S1() || (a.S1() == b.S1() && a.S2() > b.S2()) {
			t.Fatalf("order broken at %d: %s before %s", i, UCI(a), UCI(b))
		}
	}
}
