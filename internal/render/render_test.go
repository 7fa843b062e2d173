package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chainchess/internal/match"
)

func TestRenderPNG(t *testing.T) {
	r := NewRenderer(0)
	out, err := r.RenderPNG(context.Background(), match.StartFEN, Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != r.Size() || b.Dy() != r.Size() {
		t.Fatalf("unexpected size %v", b)
	}
	flipped, err := r.RenderPNG(context.Background(), match.StartFEN, Options{Flip: true, From: "e2", To: "e4"})
	if err != nil {
		t.Fatalf("RenderPNG flipped: %v", err)
	}
	if bytes.Equal(out, flipped) {
		t.Fatalf("expected a different image for the flipped, highlighted board")
	}
}

func TestRenderPNG_Errors(t *testing.T) {
	r := NewRenderer(32)
	if _, err := r.RenderPNG(context.Background(), "nonsense", Options{}); err == nil {
		t.Fatalf("expected fen error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderPNG(ctx, match.StartFEN, Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCell(t *testing.T) {
	if col, row := cell(nchess.A1, false); col != 0 || row != 7 {
		t.Fatalf("a1 at %d,%d", col, row)
	}
	if col, row := cell(nchess.A1, true); col != 7 || row != 0 {
		t.Fatalf("flipped a1 at %d,%d", col, row)
	}
	if _, ok := parseSquare("i9"); ok {
		t.Fatalf("i9 is not a square")
	}
}
