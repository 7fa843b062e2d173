package match

import (
	"math"

	nchess "github.com/corentings/chess/v2"
)

// Opponent picks a reply for the automated seat.
type Opponent interface {
	ChooseMove(fen string) (string, bool)
}

const promotionBonus = 5

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn:   1,
	nchess.Knight: 3,
	nchess.Bishop: 3,
	nchess.Rook:   5,
	nchess.Queen:  9,
	nchess.King:   0,
}

// Heuristic is the built-in one-ply opponent. It is stateless and deterministic.
type Heuristic struct{}

// ChooseMove returns the best scoring legal move in coordinate form. Ties resolve
// to the earliest move of the canonical LegalMoves order.
func (Heuristic) ChooseMove(fen string) (string, bool) {
	pos, err := decodePosition(fen)
	if err != nil {
		return "", false
	}
	board := pos.Board()
	best, bestScore := -1, math.MinInt
	moves := LegalMoves(pos)
	for i, mv := range moves {
		if s := scoreMove(board, mv); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return "", false
	}
	return UCI(moves[best]), true
}

func scoreMove(board *nchess.Board, mv nchess.Move) int {
	score := 0
	if target := board.Piece(mv.S2()); target != nchess.NoPiece {
		score += pieceValues[target.Type()]
	}
	if mv.Promo() != nchess.NoPieceType {
		score += promotionBonus
	}
	return score + squareBonus(mv.S2())
}

func squareBonus(sq nchess.Square) int {
	file, rank := int(sq.File()), int(sq.Rank())
	switch {
	case (file == 3 || file == 4) && (rank == 3 || rank == 4):
		return 2
	case file >= 2 && file <= 5 && rank >= 2 && rank <= 5:
		return 1
	default:
		return 0
	}
}
