// Package render draws a serialized position as a PNG board snapshot.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSquareSize = 48
	margin            = 20
)

// Options tunes one snapshot. From/To highlight the last move in coordinate form.
type Options struct {
	Flip bool
	From string
	To   string
}

type Renderer struct {
	squareSize int
}

func NewRenderer(squareSize int) *Renderer {
	if squareSize < 16 {
		squareSize = DefaultSquareSize
	}
	return &Renderer{squareSize: squareSize}
}

// Size is the width and height of every snapshot in pixels.
func (r *Renderer) Size() int { return r.squareSize*8 + margin*2 }

// RenderPNG draws the position encoded by fen.
func (r *Renderer) RenderPNG(ctx context.Context, fen string, opts Options) ([]byte, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("decode fen: %w", err)
	}
	board := nchess.NewGame(opt).Position().Board()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	size := r.Size()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(frameColor), image.Point{}, imagedraw.Src)
	origin := image.Point{X: margin, Y: margin}

	drawSquares(img, r.squareSize, origin, opts.Flip)
	drawHighlight(img, r.squareSize, origin, opts)
	if err := drawPieces(img, board, r.squareSize, origin, opts.Flip); err != nil {
		return nil, err
	}
	drawCoordinates(img, r.squareSize, origin, opts.Flip)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	frameColor     = color.RGBA{48, 46, 43, 255}
	lightSquare    = color.RGBA{233, 207, 163, 255}
	darkSquare     = color.RGBA{187, 136, 96, 255}
	highlightColor = color.NRGBA{R: 246, G: 246, B: 105, A: 140}
	coordColor     = color.RGBA{220, 220, 220, 255}
)

// cell maps a square to its column and row on the image.
func cell(sq nchess.Square, flip bool) (col, row int) {
	col, row = int(sq.File()), 7-int(sq.Rank())
	if flip {
		col, row = 7-col, 7-row
	}
	return col, row
}

func squareRect(sq nchess.Square, squareSize int, origin image.Point, flip bool) image.Rectangle {
	col, row := cell(sq, flip)
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point, flip bool) {
	for i := 0; i < 64; i++ {
		sq := nchess.Square(i)
		clr := lightSquare
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			clr = darkSquare
		}
		imagedraw.Draw(dst, squareRect(sq, squareSize, origin, flip), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawHighlight(dst imagedraw.Image, squareSize int, origin image.Point, opts Options) {
	for _, name := range []string{opts.From, opts.To} {
		sq, ok := parseSquare(name)
		if !ok {
			continue
		}
		imagedraw.Draw(dst, squareRect(sq, squareSize, origin, opts.Flip), image.NewUniform(highlightColor), image.Point{}, imagedraw.Over)
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point, flip bool) error {
	for sq, piece := range board.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		img, err := renderPieceImage(piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(dst, squareRect(sq, squareSize, origin, flip), img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawCoordinates(dst imagedraw.Image, squareSize int, origin image.Point, flip bool) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(coordColor), Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	for i := 0; i < 8; i++ {
		file := nchess.NewSquare(nchess.File(i), nchess.Rank1)
		col, _ := cell(file, flip)
		x := origin.X + col*squareSize + squareSize/2
		drawCentered(drawer, file.String()[:1], x, origin.Y+8*squareSize+ascent+2)

		rank := nchess.NewSquare(nchess.FileA, nchess.Rank(i))
		_, row := cell(rank, flip)
		y := origin.Y + row*squareSize + squareSize/2 + ascent/2
		drawCentered(drawer, rank.String()[1:], origin.X/2, y)
	}
}

func drawCentered(d *font.Drawer, text string, cx, baseline int) {
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(cx-w/2, baseline)
	d.DrawString(text)
}

func parseSquare(s string) (nchess.Square, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return nchess.NoSquare, false
	}
	return nchess.NewSquare(nchess.File(s[0]-'a'), nchess.Rank(s[1]-'1')), true
}
