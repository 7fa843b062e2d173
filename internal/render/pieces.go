package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// piece outlines on a 45x45 canvas
var pieceShapes = map[nchess.PieceType][]string{
	nchess.Pawn: {
		`<circle cx="22.5" cy="14" r="5"/>`,
		`<path d="M15 36 L30 36 L27 22 L18 22 Z"/>`,
	},
	nchess.Rook: {
		`<path d="M12 36 H33 V32 H30 V18 H33 V10 H29 V13 H25 V10 H20 V13 H16 V10 H12 V18 H15 V32 H12 Z"/>`,
	},
	nchess.Knight: {
		`<path d="M14 36 H32 C32 26 30 14 22 9 L19 12 L14 18 L16 21 L21 19 C20 24 14 28 14 36 Z"/>`,
	},
	nchess.Bishop: {
		`<path d="M15 36 H30 L26 28 C31 23 28 14 22.5 9 C17 14 14 23 19 28 Z"/>`,
		`<circle cx="22.5" cy="7" r="2.5"/>`,
	},
	nchess.Queen: {
		`<path d="M11 36 H34 L31 26 L36 12 L28 21 L22.5 9 L17 21 L9 12 L14 26 Z"/>`,
	},
	nchess.King: {
		`<path d="M13 36 H32 L30 24 C34 20 30 15 22.5 19 C15 15 11 20 15 24 Z"/>`,
		`<path d="M21 6 H24 V9 H27 V12 H24 V17 H21 V12 H18 V9 H21 Z"/>`,
	},
}

type pieceCacheKey struct {
	piece nchess.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func pieceSVG(piece nchess.Piece) (string, error) {
	shapes, ok := pieceShapes[piece.Type()]
	if !ok {
		return "", fmt.Errorf("no outline for piece %v", piece)
	}
	fill, stroke := "#f8f8f8", "#101010"
	if piece.Color() == nchess.Black {
		fill, stroke = "#202020", "#e0e0e0"
	}
	attrs := fmt.Sprintf(` fill="%s" stroke="%s" stroke-width="1.5"/>`, fill, stroke)

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">`)
	for _, s := range shapes {
		b.WriteString(strings.TrimSuffix(s, "/>") + attrs)
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}

func renderPieceImage(piece nchess.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}
	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	src, err := pieceSVG(piece)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()
	return img, nil
}
