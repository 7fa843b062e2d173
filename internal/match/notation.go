package match

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Notation builds the reduced move label stored next to each move: piece letter
// (none for pawns), capture marker when the destination is occupied, destination
// square and promotion suffix. It never disambiguates and has no check, mate,
// castling or en-passant forms.
func Notation(pos *nchess.Position, mv nchess.Move) string {
	board := pos.Board()
	mover := board.Piece(mv.S1())
	captured := board.Piece(mv.S2()) != nchess.NoPiece

	var b strings.Builder
	letter := pieceLetter(mover.Type())
	b.WriteString(letter)
	if captured {
		if letter == "" {
			// pawn captures keep their file so "exd5" stays readable
			b.WriteString(mv.S1().String()[:1])
		}
		b.WriteString("x")
	}
	b.WriteString(mv.S2().String())
	if p := promoLetter(mv.Promo()); p != "" {
		b.WriteString("=")
		b.WriteString(strings.ToUpper(p))
	}
	return b.String()
}

func pieceLetter(pt nchess.PieceType) string {
	switch pt {
	case nchess.King:
		return "K"
	case nchess.Queen:
		return "Q"
	case nchess.Rook:
		return "R"
	case nchess.Bishop:
		return "B"
	case nchess.Knight:
		return "N"
	default:
		return ""
	}
}
