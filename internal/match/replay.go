package match

import (
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// Replay rebuilds a library game from the standard start by playing the recorded moves.
func Replay(moves []MoveRecord) (*nchess.Game, error) {
	game := nchess.NewGame()
	notation := nchess.UCINotation{}
	for _, rec := range moves {
		mv, err := notation.Decode(game.Position(), strings.ToLower(strings.TrimSpace(rec.UCI)))
		if err != nil {
			return nil, fmt.Errorf("decode move %s: %w", rec.UCI, err)
		}
		if err := game.Move(mv, nil); err != nil {
			return nil, fmt.Errorf("apply move %s: %w", rec.UCI, err)
		}
	}
	return game, nil
}

// StandardSAN returns full algebraic notation for the recorded moves, unlike the
// reduced labels kept on each MoveRecord.
func StandardSAN(moves []MoveRecord) ([]string, error) {
	game, err := Replay(moves)
	if err != nil {
		return nil, err
	}
	positions := game.Positions()
	played := game.Moves()
	out := make([]string, len(played))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range played {
		if i < len(positions) {
			out[i] = notation.Encode(positions[i], mv)
		}
	}
	return out, nil
}

var (
	bookOnce sync.Once
	book     *opening.BookECO
)

// Opening names the ECO opening reached by the recorded moves, if any.
func Opening(moves []MoveRecord) (code, title string) {
	if len(moves) == 0 {
		return "", ""
	}
	game, err := Replay(moves)
	if err != nil {
		return "", ""
	}
	bookOnce.Do(func() { book = opening.NewBookECO() })
	if book == nil {
		return "", ""
	}
	if eco := book.Find(game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}
